package reward

import (
	"math"

	"github.com/racingline/trackreward/internal/config"
)

// optimumSpeedTolerance is the accepted deviation from the optimum speed as a
// fraction of the maximum speed.
const optimumSpeedTolerance = 0.15

// IsOptimumSpeed reports whether the speed is close to the speed implied by
// OptimumSpeedRatio and inside the calibrated speed range.
func IsOptimumSpeed(s State, cal config.Calibration) bool {
	return isOptimumSpeed(s, cal, OptimumSpeedRatio(s, cal))
}

func isOptimumSpeed(s State, cal config.Calibration, ratio float64) bool {
	maxSpeed := cal.Speed.Max
	speed := s.Speed()
	return math.Abs(speed-ratio*maxSpeed) < optimumSpeedTolerance*maxSpeed &&
		cal.Speed.Min <= speed && speed <= maxSpeed
}
