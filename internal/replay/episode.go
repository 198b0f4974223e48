// Package replay evaluates recorded or synthesized episodes step by step,
// summarizes the rewards and renders them as charts.
package replay

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/racingline/trackreward/internal/reward"
)

// ErrUnsupportedFormat is returned for episode files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported episode format")

// Episode is an ordered list of step snapshots recorded on one track.
type Episode struct {
	TrackID string          `json:"track" yaml:"track"`
	Steps   []reward.Params `json:"steps" yaml:"steps"`
}

// Format names accepted by Encode.
const (
	FormatYAML  = "yaml"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// formatOf maps a file extension to a format name.
func formatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("replay: %w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadEpisode reads an episode file. YAML and JSON files hold a whole
// episode; JSON Lines files hold one snapshot per line and carry no track ID.
func LoadEpisode(path string) (Episode, error) {
	format, err := formatOf(path)
	if err != nil {
		return Episode{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Episode{}, fmt.Errorf("replay: cannot read %s: %w", path, err)
	}
	ep, err := DecodeEpisode(data, format)
	if err != nil {
		return Episode{}, fmt.Errorf("replay: %s: %w", path, err)
	}
	return ep, nil
}

// DecodeEpisode parses episode data in the given format.
func DecodeEpisode(data []byte, format string) (Episode, error) {
	var ep Episode
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &ep); err != nil {
			return Episode{}, fmt.Errorf("cannot parse yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &ep); err != nil {
			return Episode{}, fmt.Errorf("cannot parse json: %w", err)
		}
	case FormatJSONL:
		sc := bufio.NewScanner(bytes.NewReader(data))
		// Snapshots that embed the waypoint list get long
		sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		line := 0
		for sc.Scan() {
			line++
			text := bytes.TrimSpace(sc.Bytes())
			if len(text) == 0 {
				continue
			}
			var p reward.Params
			if err := json.Unmarshal(text, &p); err != nil {
				return Episode{}, fmt.Errorf("line %d: %w", line, err)
			}
			ep.Steps = append(ep.Steps, p)
		}
		if err := sc.Err(); err != nil {
			return Episode{}, fmt.Errorf("cannot scan lines: %w", err)
		}
	default:
		return Episode{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return ep, nil
}

// Encode writes ep to w in the given format.
func Encode(w io.Writer, ep Episode, format string) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ep); err != nil {
			return fmt.Errorf("replay: cannot encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ep); err != nil {
			return fmt.Errorf("replay: cannot encode json: %w", err)
		}
		return nil
	case FormatJSONL:
		enc := json.NewEncoder(w)
		for i, p := range ep.Steps {
			if err := enc.Encode(p); err != nil {
				return fmt.Errorf("replay: cannot encode step %d: %w", i, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("replay: %w: %q", ErrUnsupportedFormat, format)
	}
}

// LoadSnapshot reads a single step snapshot from a YAML or JSON file.
func LoadSnapshot(path string) (reward.Params, error) {
	format, err := formatOf(path)
	if err != nil {
		return reward.Params{}, err
	}
	if format == FormatJSONL {
		return reward.Params{}, fmt.Errorf("replay: %w: snapshots must be yaml or json", ErrUnsupportedFormat)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return reward.Params{}, fmt.Errorf("replay: cannot read %s: %w", path, err)
	}

	var p reward.Params
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &p)
	default:
		err = json.Unmarshal(data, &p)
	}
	if err != nil {
		return reward.Params{}, fmt.Errorf("replay: cannot parse snapshot %s: %w", path, err)
	}
	return p, nil
}
