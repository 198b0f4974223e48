package reward

import "github.com/racingline/trackreward/internal/config"

// Signals are the values derived from one state. They are recomputed on every
// evaluation and carry no history.
type Signals struct {
	HeadingError          float64       `json:"heading_error" yaml:"heading_error"`
	CurveAngle            float64       `json:"curve_angle" yaml:"curve_angle"`
	InCurve               bool          `json:"is_in_curve" yaml:"is_in_curve"`
	OptimumSpeedRatio     float64       `json:"optimum_speed_ratio" yaml:"optimum_speed_ratio"`
	ExpectedTurnDirection TurnDirection `json:"expected_turn_direction" yaml:"expected_turn_direction"`
	InOptimizedCorridor   bool          `json:"is_in_optimized_corridor" yaml:"is_in_optimized_corridor"`
	OptimumSpeed          bool          `json:"is_optimum_speed" yaml:"is_optimum_speed"`
	ReachedTarget         bool          `json:"reached_target" yaml:"reached_target"`
}

// Analyze derives every signal for s, computing each lookahead once.
func Analyze(s State, cal config.Calibration) Signals {
	curve := CurveAngle(s)
	dir := ExpectedTurnDirection(s, cal)
	ratio := OptimumSpeedRatio(s, cal)

	return Signals{
		HeadingError:          HeadingError(s),
		CurveAngle:            curve,
		InCurve:               isCurve(curve, cal),
		OptimumSpeedRatio:     ratio,
		ExpectedTurnDirection: dir,
		InOptimizedCorridor:   inCorridor(s, cal, curve, dir),
		OptimumSpeed:          isOptimumSpeed(s, cal, ratio),
		ReachedTarget:         ReachedTarget(s),
	}
}

// ReachedTarget reports whether the next closest waypoint, as sent by the
// host, is the last index of the track. A negative index that wraps onto the
// last waypoint does not count.
func ReachedTarget(s State) bool {
	return s.rawNext == s.Track().LastIndex()
}
