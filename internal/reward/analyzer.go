package reward

import (
	"math"

	"github.com/racingline/trackreward/internal/config"
	"github.com/racingline/trackreward/internal/core"
)

// TurnDirection is the direction of the next turn ahead of the vehicle.
type TurnDirection string

const (
	TurnLeft     TurnDirection = "LEFT"
	TurnRight    TurnDirection = "RIGHT"
	TurnStraight TurnDirection = "STRAIGHT"
)

// Optimum speed ratios, as fractions of the maximum speed.
const (
	ratioHeadingFar  = 0.34 // Heading error at or above the max steering angle
	ratioHeadingNear = 0.67 // Heading error at or above 3/4 of it
	ratioSharpAhead  = 0.33
	ratioBendAhead   = 0.66
	ratioClearAhead  = 1.0

	// ratioNoHorizon is used when the horizon lies more than one loop ahead.
	ratioNoHorizon = ratioClearAhead
)

// HeadingError returns the track direction between the closest waypoints
// minus the vehicle heading, in degrees.
//
// The value is not normalised into (-180, 180]. Callers compare abs() against
// thresholds below 180.
func HeadingError(s State) float64 {
	prev, next := s.ClosestWaypoints()
	t := s.Track()
	return core.HeadingBetween(t.WaypointAt(prev), t.WaypointAt(next)) - s.Heading()
}

// CurveAngle returns the signed change of direction at the previous closest
// waypoint, in degrees. Positive is a left turn, negative a right turn.
func CurveAngle(s State) float64 {
	i, _ := s.ClosestWaypoints()
	t := s.Track()
	ahead := core.HeadingBetween(t.WaypointAt(i), t.WaypointAt(i+1))
	behind := core.HeadingBetween(t.WaypointAt(i-1), t.WaypointAt(i))
	delta := ahead - behind

	switch {
	case ahead < -90 && behind > 90:
		return 360 + delta
	case delta > 180:
		return delta - 360
	case delta < -180:
		return delta + 360
	default:
		return delta
	}
}

// IsInCurve reports whether the curve angle reaches the curve threshold.
func IsInCurve(s State, cal config.Calibration) bool {
	return isCurve(CurveAngle(s), cal)
}

func isCurve(curveAngle float64, cal config.Calibration) bool {
	return math.Abs(curveAngle) >= cal.Curve.AngleThreshold
}

// OptimumSpeedRatio returns the fraction of the maximum speed the vehicle
// should drive at, judged from its heading error and the track shape within
// the safe horizon distance.
func OptimumSpeedRatio(s State, cal config.Calibration) float64 {
	maxSteer := cal.Steering.MaxAngle
	headingErr := math.Abs(HeadingError(s))
	switch {
	case headingErr >= maxSteer:
		return ratioHeadingFar
	case headingErr >= 0.75*maxSteer:
		return ratioHeadingNear
	}

	_, next := s.ClosestWaypoints()
	t := s.Track()
	from := t.WaypointAt(next)
	current := core.HeadingBetween(from, t.WaypointAt(next+1))

	horizon, ok := walkHorizon(s, cal.Horizon.SafeDistance)
	if !ok {
		return ratioNoHorizon
	}

	delta := math.Abs(current - core.HeadingBetween(from, horizon))
	switch {
	case delta > 0.5*maxSteer:
		return ratioSharpAhead
	case delta > 0.25*maxSteer:
		return ratioBendAhead
	default:
		return ratioClearAhead
	}
}

// ExpectedTurnDirection looks TurnLookaheadFactor safe horizons ahead and
// classifies the heading from the next waypoint to that point.
// It falls back to TurnStraight when the lookahead exceeds one loop.
func ExpectedTurnDirection(s State, cal config.Calibration) TurnDirection {
	horizon, ok := walkHorizon(s, cal.Horizon.SafeDistance*cal.Horizon.TurnLookaheadFactor)
	if !ok {
		return TurnStraight
	}

	_, next := s.ClosestWaypoints()
	heading := core.HeadingBetween(s.Track().WaypointAt(next), horizon)
	switch {
	case heading > cal.Curve.TurnDirectionThreshold:
		return TurnLeft
	case heading < -cal.Curve.TurnDirectionThreshold:
		return TurnRight
	default:
		return TurnStraight
	}
}

// walkHorizon follows the track forward from the next closest waypoint,
// starting with the straight-line distance from the vehicle to it, until the
// accumulated path length reaches horizon. It returns the waypoint where the
// walk stopped. The walk covers at most one loop; ok is false when the
// horizon was not reached.
func walkHorizon(s State, horizon float64) (to core.Waypoint, ok bool) {
	t := s.Track()
	_, idx := s.ClosestWaypoints()
	length := core.Distance(s.Position(), t.WaypointAt(idx))

	for range t.Len() {
		from := t.WaypointAt(idx)
		to = t.WaypointAt(idx + 1)
		length += core.Distance(from, to)
		if length >= horizon {
			return to, true
		}
		idx++
	}
	return core.Waypoint{}, false
}
