package reward

import "github.com/racingline/trackreward/internal/config"

// IsInOptimizedCorridor reports whether the vehicle sits in the lateral band
// that suits the current curve, or the upcoming turn when on a straight.
//
// Inside a curve the inner side gets the wide band (2x the follow ratio) and
// the outer side the narrow one (0.5x). Before a turn it is the other way
// round, so the car sets up on the outside. On a straight with nothing ahead
// both sides get the wide band.
func IsInOptimizedCorridor(s State, cal config.Calibration) bool {
	curve := CurveAngle(s)
	if isCurve(curve, cal) {
		return inCorridor(s, cal, curve, TurnStraight)
	}
	return inCorridor(s, cal, curve, ExpectedTurnDirection(s, cal))
}

// inCorridor applies the corridor table for an already computed curve angle
// and expected turn direction. dir is only consulted outside curves.
func inCorridor(s State, cal config.Calibration, curve float64, dir TurnDirection) bool {
	band := cal.Corridor.CenterlineFollowRatio * s.TrackWidth()
	wide, narrow := band*2, band*0.5

	if isCurve(curve, cal) {
		if curve > 0 {
			// Turning left: keep left
			return withinBand(s, wide, narrow)
		}
		// Turning right: keep right
		return withinBand(s, narrow, wide)
	}

	switch dir {
	case TurnLeft:
		// Set up on the right before a left turn
		return withinBand(s, narrow, wide)
	case TurnRight:
		return withinBand(s, wide, narrow)
	default:
		return s.DistanceFromCenter() <= wide
	}
}

// withinBand checks distance from center against the limit of the side the
// vehicle is on.
func withinBand(s State, leftLimit, rightLimit float64) bool {
	if s.IsLeftOfCenter() {
		return s.DistanceFromCenter() <= leftLimit
	}
	return s.DistanceFromCenter() <= rightLimit
}
