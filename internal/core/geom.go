// Package core provides the waypoint geometry the reward function is built on.
// It has no external dependencies and performs no I/O, so everything here is
// safe to call from any number of simulation workers at once.
package core

import "math"

// Waypoint is a single (x, y) sample of the track centerline.
type Waypoint struct {
	X, Y float64
}

// Pt creates a waypoint.
func Pt(x, y float64) Waypoint {
	return Waypoint{X: x, Y: y}
}

// Sub returns the vector from other to w.
func (w Waypoint) Sub(other Waypoint) Waypoint {
	return Waypoint{w.X - other.X, w.Y - other.Y}
}

// Len returns the length of w treated as a vector.
func (w Waypoint) Len() float64 {
	return math.Sqrt(w.X*w.X + w.Y*w.Y)
}

// IsFinite reports whether both coordinates are finite numbers.
func (w Waypoint) IsFinite() bool {
	return isFinite(w.X) && isFinite(w.Y)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Waypoint) float64 {
	return b.Sub(a).Len()
}

// HeadingBetween returns the direction from a to b in degrees, in (-180, 180].
// Counter-clockwise is positive.
func HeadingBetween(a, b Waypoint) float64 {
	return radToDeg(math.Atan2(b.Y-a.Y, b.X-a.X))
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
