package config

import "fmt"

// ActionSpace describes the discretised action space of the training job.
// Speed levels are MaxSpeed*k/SpeedGranularity for k in 1..SpeedGranularity.
type ActionSpace struct {
	MaxSpeed            float64 `yaml:"max_speed"`
	SpeedGranularity    int     `yaml:"speed_granularity"`
	MaxSteeringAngle    float64 `yaml:"max_steering_angle"`
	SteeringGranularity int     `yaml:"steering_granularity"`
}

// minSpeedMargin keeps MinSpeed just under the slowest discrete speed.
const minSpeedMargin = 0.9

// MinSpeedLevel returns the slowest non-zero speed the action space emits.
func (a ActionSpace) MinSpeedLevel() float64 {
	return a.MaxSpeed / float64(a.SpeedGranularity)
}

// SteeringStep returns the smallest non-zero steering change in degrees.
func (a ActionSpace) SteeringStep() float64 {
	return a.MaxSteeringAngle / float64(a.SteeringGranularity)
}

// Validate checks the action space parameters.
func (a ActionSpace) Validate() error {
	if a.MaxSpeed <= 0 {
		return fmt.Errorf("%w: action space max_speed must be positive", ErrInvalidCalibration)
	}
	if a.SpeedGranularity < 1 || a.SteeringGranularity < 1 {
		return fmt.Errorf("%w: action space granularity must be >= 1", ErrInvalidCalibration)
	}
	if a.MaxSteeringAngle <= 0 || a.MaxSteeringAngle > 180 {
		return fmt.Errorf("%w: action space max_steering_angle must be in (0, 180]", ErrInvalidCalibration)
	}
	return nil
}

// ApplyActionSpace aligns the speed and steering calibration with an action
// space. The smooth steering threshold is raised to 1.5 steering steps when it
// would otherwise not exceed the smallest steering step.
func ApplyActionSpace(cfg *Calibration, as ActionSpace) error {
	if err := as.Validate(); err != nil {
		return err
	}

	cfg.Speed.Max = as.MaxSpeed
	cfg.Speed.Min = as.MinSpeedLevel() * minSpeedMargin
	cfg.Steering.MaxAngle = as.MaxSteeringAngle

	if step := as.SteeringStep(); cfg.Steering.SmoothThreshold <= step {
		cfg.Steering.SmoothThreshold = step * 1.5
	}
	if cfg.Steering.SmoothThreshold > cfg.Steering.MaxAngle {
		cfg.Steering.SmoothThreshold = cfg.Steering.MaxAngle
	}
	return cfg.Validate()
}
