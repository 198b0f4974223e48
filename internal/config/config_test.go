package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	require.NoError(t, err)
	assert.Equal(t, DefaultCalibration(), cfg)
}

func TestDefaultCalibrationValid(t *testing.T) {
	require.NoError(t, DefaultCalibration().Validate())
}

func TestLoadCustomPathOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.yaml")
	data := []byte("speed:\n  max: 4.0\n  min: 1.2\ncorridor:\n  centerline_follow_ratio: 0.2\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4.0, cfg.Speed.Max)
	assert.Equal(t, 1.2, cfg.Speed.Min)
	assert.Equal(t, 0.2, cfg.Corridor.CenterlineFollowRatio)
	// Untouched keys keep their defaults
	assert.Equal(t, 89999.0, cfg.Reward.Max)
	assert.Equal(t, 0.8, cfg.Horizon.SafeDistance)
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"min above max", "speed:\n  max: 2\n  min: 3\n"},
		{"zero horizon", "horizon:\n  safe_distance: 0\n"},
		{"negative penalty", "reward:\n  penalty_min: -1\n"},
		{"zero episode steps", "reward:\n  episode_steps: 0\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCalibration), "expected ErrInvalidCalibration, got %v", err)
		})
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("speed: [unterminated"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidCalibration))
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(DefaultCalibration())
	require.NoError(t, err)

	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultCalibration(), cfg)
}

func TestApplyActionSpace(t *testing.T) {
	cfg := DefaultCalibration()
	err := ApplyActionSpace(&cfg, ActionSpace{
		MaxSpeed:            4,
		SpeedGranularity:    2,
		MaxSteeringAngle:    30,
		SteeringGranularity: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 4.0, cfg.Speed.Max)
	assert.InDelta(t, 1.8, cfg.Speed.Min, 1e-9) // 0.9 * 4/2
	assert.Equal(t, 30.0, cfg.Steering.MaxAngle)
	assert.Equal(t, 15.0, cfg.Steering.SmoothThreshold) // 15 > 6, unchanged
}

func TestApplyActionSpaceDefaultsReproduceCalibration(t *testing.T) {
	cfg := DefaultCalibration()
	err := ApplyActionSpace(&cfg, ActionSpace{
		MaxSpeed:            5,
		SpeedGranularity:    3,
		MaxSteeringAngle:    30,
		SteeringGranularity: 3,
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.5, cfg.Speed.Min, 1e-9)
	assert.Equal(t, 15.0, cfg.Steering.SmoothThreshold)
}

func TestApplyActionSpaceRaisesSmoothThreshold(t *testing.T) {
	cfg := DefaultCalibration()
	cfg.Steering.SmoothThreshold = 5

	err := ApplyActionSpace(&cfg, ActionSpace{
		MaxSpeed:            3,
		SpeedGranularity:    1,
		MaxSteeringAngle:    20,
		SteeringGranularity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 15.0, cfg.Steering.SmoothThreshold) // 1.5 * 10
}

func TestApplyActionSpaceRejectsInvalid(t *testing.T) {
	cfg := DefaultCalibration()
	err := ApplyActionSpace(&cfg, ActionSpace{MaxSpeed: 5, SpeedGranularity: 0, MaxSteeringAngle: 30, SteeringGranularity: 3})
	assert.ErrorIs(t, err, ErrInvalidCalibration)
	assert.Equal(t, DefaultCalibration(), cfg, "config must be untouched on error")
}
