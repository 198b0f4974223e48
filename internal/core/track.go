package core

import (
	"errors"
	"fmt"
)

// ErrTrackTooShort is returned when a track has fewer than two waypoints.
var ErrTrackTooShort = errors.New("core: track needs at least 2 waypoints")

// Track is the closed centerline polyline of one circuit.
// The last waypoint conceptually connects back to the first one.
// A Track is immutable once created.
type Track struct {
	points []Waypoint
}

// NewTrack creates a track from an ordered list of waypoints.
// The slice is copied.
func NewTrack(points []Waypoint) (Track, error) {
	if len(points) < 2 {
		return Track{}, fmt.Errorf("%w: got %d", ErrTrackTooShort, len(points))
	}
	for i, p := range points {
		if !p.IsFinite() {
			return Track{}, fmt.Errorf("core: waypoint %d is not finite: (%v, %v)", i, p.X, p.Y)
		}
	}
	cp := make([]Waypoint, len(points))
	copy(cp, points)
	return Track{points: cp}, nil
}

// MustTrack is like NewTrack but panics on error. Intended for fixtures and
// built-in track tables.
func MustTrack(points []Waypoint) Track {
	t, err := NewTrack(points)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of waypoints.
func (t Track) Len() int {
	return len(t.points)
}

// LastIndex returns the index of the final waypoint.
func (t Track) LastIndex() int {
	return len(t.points) - 1
}

// IsZero reports whether the track was never initialised.
func (t Track) IsZero() bool {
	return len(t.points) == 0
}

// Points returns a copy of the waypoints.
func (t Track) Points() []Waypoint {
	cp := make([]Waypoint, len(t.points))
	copy(cp, t.points)
	return cp
}

// Normalize maps any index onto [0, Len()).
// Inside [-Len(), 2*Len()) this is a single wrap: index-Len() past the end and
// Len()+index below zero.
func (t Track) Normalize(index int) int {
	n := len(t.points)
	i := index % n
	if i < 0 {
		i += n
	}
	return i
}

// WaypointAt returns the waypoint at index using circular indexing.
func (t Track) WaypointAt(index int) Waypoint {
	return t.points[t.Normalize(index)]
}

// SegmentLength returns the distance from waypoint index to index+1.
func (t Track) SegmentLength(index int) float64 {
	return Distance(t.WaypointAt(index), t.WaypointAt(index+1))
}

// Length returns the total length of the closed loop.
func (t Track) Length() float64 {
	var total float64
	for i := range t.points {
		total += t.SegmentLength(i)
	}
	return total
}

// Bounds returns the axis-aligned bounding box of the track as (min, max).
func (t Track) Bounds() (Waypoint, Waypoint) {
	if len(t.points) == 0 {
		return Waypoint{}, Waypoint{}
	}
	lo, hi := t.points[0], t.points[0]
	for _, p := range t.points[1:] {
		lo.X = min(lo.X, p.X)
		lo.Y = min(lo.Y, p.Y)
		hi.X = max(hi.X, p.X)
		hi.Y = max(hi.Y, p.Y)
	}
	return lo, hi
}
