// Package config provides YAML-based calibration loading for the reward
// function. A Calibration is copied by value into every evaluator and must be
// treated as immutable for the lifetime of a training run.
package config

import (
	"errors"
	"fmt"
)

// Calibration contains every tunable constant used by the reward function.
type Calibration struct {
	Speed    SpeedConfig    `yaml:"speed"`
	Steering SteeringConfig `yaml:"steering"`
	Horizon  HorizonConfig  `yaml:"horizon"`
	Corridor CorridorConfig `yaml:"corridor"`
	Curve    CurveConfig    `yaml:"curve"`
	Reward   RewardConfig   `yaml:"reward"`
	Weights  WeightsConfig  `yaml:"weights"`
}

// SpeedConfig bounds the speeds the action space can produce (m/s).
type SpeedConfig struct {
	Max float64 `yaml:"max"`
	Min float64 `yaml:"min"` // Slightly below the lowest discrete speed
}

// SteeringConfig defines steering limits in degrees.
type SteeringConfig struct {
	MaxAngle        float64 `yaml:"max_angle"`
	SmoothThreshold float64 `yaml:"smooth_threshold"` // Must exceed the smallest steering step
}

// HorizonConfig defines the lookahead distances in meters.
type HorizonConfig struct {
	SafeDistance        float64 `yaml:"safe_distance"`
	TurnLookaheadFactor float64 `yaml:"turn_lookahead_factor"` // Multiplier of SafeDistance for turn direction
}

// CorridorConfig defines the accepted lateral band around the centerline.
type CorridorConfig struct {
	CenterlineFollowRatio float64 `yaml:"centerline_follow_ratio"` // Fraction of track width
}

// CurveConfig defines when the track counts as curved (degrees).
type CurveConfig struct {
	AngleThreshold         float64 `yaml:"angle_threshold"`
	TurnDirectionThreshold float64 `yaml:"turn_direction_threshold"`
}

// RewardConfig defines the output range and progress bookkeeping.
type RewardConfig struct {
	PenaltyMin         float64 `yaml:"penalty_min"`
	Max                float64 `yaml:"max"`
	Ceiling            float64 `yaml:"ceiling"`
	EpisodeSteps       int     `yaml:"episode_steps"`
	ProgressCheckEvery int     `yaml:"progress_check_every"`
}

// WeightsConfig holds bonus weights as multiples of RewardConfig.Max.
type WeightsConfig struct {
	Heading           float64 `yaml:"heading"`
	Steering          float64 `yaml:"steering"`
	Corridor          float64 `yaml:"corridor"`
	StraightMaxSpeed  float64 `yaml:"straight_max_speed"`
	CurveOptimumSpeed float64 `yaml:"curve_optimum_speed"`
	Progress          float64 `yaml:"progress"`
}

// ErrInvalidCalibration is wrapped by every Validate failure.
var ErrInvalidCalibration = errors.New("config: invalid calibration")

// Validate checks that the calibration is internally consistent.
func (c Calibration) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Speed.Max > 0, "speed.max must be positive, got %v", c.Speed.Max)
	check(c.Speed.Min >= 0 && c.Speed.Min < c.Speed.Max,
		"speed.min must be in [0, speed.max), got %v", c.Speed.Min)
	check(c.Steering.MaxAngle > 0 && c.Steering.MaxAngle <= 180,
		"steering.max_angle must be in (0, 180], got %v", c.Steering.MaxAngle)
	check(c.Steering.SmoothThreshold > 0, "steering.smooth_threshold must be positive")
	check(c.Horizon.SafeDistance > 0, "horizon.safe_distance must be positive")
	check(c.Horizon.TurnLookaheadFactor >= 1, "horizon.turn_lookahead_factor must be >= 1")
	check(c.Corridor.CenterlineFollowRatio > 0, "corridor.centerline_follow_ratio must be positive")
	check(c.Curve.AngleThreshold >= 0, "curve.angle_threshold must not be negative")
	check(c.Curve.TurnDirectionThreshold >= 0, "curve.turn_direction_threshold must not be negative")
	check(c.Reward.PenaltyMin > 0, "reward.penalty_min must be positive")
	check(c.Reward.Max > c.Reward.PenaltyMin, "reward.max must exceed reward.penalty_min")
	check(c.Reward.Ceiling >= c.Reward.PenaltyMin, "reward.ceiling must be >= reward.penalty_min")
	check(c.Reward.EpisodeSteps > 0, "reward.episode_steps must be positive")
	check(c.Reward.ProgressCheckEvery > 0, "reward.progress_check_every must be positive")

	w := c.Weights
	check(w.Heading >= 0 && w.Steering >= 0 && w.Corridor >= 0 &&
		w.StraightMaxSpeed >= 0 && w.CurveOptimumSpeed >= 0 && w.Progress >= 0,
		"weights must not be negative")

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidCalibration, errors.Join(errs...))
}
