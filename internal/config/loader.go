package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const calibrationFile = "calibration.yaml"

// Load loads the reward calibration.
// Search order: customPath -> ~/.trackreward/calibration.yaml -> ./configs/calibration.yaml -> embedded default
//
// Files are decoded on top of the defaults, so a file only needs the keys it
// changes. The result is validated.
func Load(customPath string) (Calibration, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Calibration{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		return Parse(data)
	}

	// Try user config directory
	if userCfgPath := userConfigPath(calibrationFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", calibrationFile)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultCalibrationYAML)
	if err != nil {
		return DefaultCalibration(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML calibration data over the defaults and validates it.
func Parse(data []byte) (Calibration, error) {
	cfg := DefaultCalibration()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Calibration{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Calibration{}, err
	}
	return cfg, nil
}

// Marshal encodes a calibration as YAML.
func Marshal(cfg Calibration) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".trackreward", filename)
}
