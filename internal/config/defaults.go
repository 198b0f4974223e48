package config

import (
	_ "embed"
)

//go:embed defaults/calibration.yaml
var defaultCalibrationYAML []byte

// DefaultCalibration returns the built-in calibration: a 5 m/s, 30 degree
// action space with three speed levels.
func DefaultCalibration() Calibration {
	return Calibration{
		Speed: SpeedConfig{
			Max: 5.0,
			Min: 1.5,
		},
		Steering: SteeringConfig{
			MaxAngle:        30,
			SmoothThreshold: 15,
		},
		Horizon: HorizonConfig{
			SafeDistance:        0.8,
			TurnLookaheadFactor: 4.5,
		},
		Corridor: CorridorConfig{
			CenterlineFollowRatio: 0.12,
		},
		Curve: CurveConfig{
			AngleThreshold:         3,
			TurnDirectionThreshold: 2,
		},
		Reward: RewardConfig{
			PenaltyMin:         0.001,
			Max:                89999,
			Ceiling:            900000,
			EpisodeSteps:       150,
			ProgressCheckEvery: 100,
		},
		Weights: WeightsConfig{
			Heading:           0.3,
			Steering:          0.15,
			Corridor:          0.45,
			StraightMaxSpeed:  1.0,
			CurveOptimumSpeed: 0.6,
			Progress:          0.4,
		},
	}
}

// DefaultYAML returns the embedded default calibration file.
func DefaultYAML() []byte {
	return defaultCalibrationYAML
}
