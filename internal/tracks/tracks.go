// Package tracks provides the built-in tracks and loads user track files.
//
// A track file is YAML:
//
//	id: box
//	name: Box Loop
//	width: 1.2
//	waypoints:
//	  - [0, 0]
//	  - [1, 0]
package tracks

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/racingline/trackreward/internal/core"
	"github.com/racingline/trackreward/internal/registry"
)

// File is the on-disk representation of a track.
type File struct {
	ID        string       `yaml:"id"`
	Name      string       `yaml:"name"`
	Width     float64      `yaml:"width"`
	Waypoints [][2]float64 `yaml:"waypoints"`
}

// ParseYAML decodes and validates a track definition.
func ParseYAML(data []byte) (registry.Definition, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return registry.Definition{}, fmt.Errorf("tracks: cannot parse track: %w", err)
	}
	if f.ID == "" {
		return registry.Definition{}, errors.New("tracks: track id is required")
	}
	if f.Width <= 0 {
		return registry.Definition{}, fmt.Errorf("tracks: track %q: width must be positive, got %v", f.ID, f.Width)
	}

	d := registry.Definition{
		ID:        f.ID,
		Name:      f.Name,
		Width:     f.Width,
		Waypoints: make([]core.Waypoint, len(f.Waypoints)),
	}
	for i, wp := range f.Waypoints {
		d.Waypoints[i] = core.Pt(wp[0], wp[1])
	}
	if d.Name == "" {
		d.Name = d.ID
	}

	// Run the track constructor checks now rather than on first use
	if _, err := d.Track(); err != nil {
		return registry.Definition{}, fmt.Errorf("tracks: %w", err)
	}
	return d, nil
}

// LoadFile reads a track definition from path.
func LoadFile(path string) (registry.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return registry.Definition{}, fmt.Errorf("tracks: cannot read %s: %w", path, err)
	}
	return ParseYAML(data)
}

// Marshal encodes a definition in the track file format.
func Marshal(d registry.Definition) ([]byte, error) {
	f := File{
		ID:        d.ID,
		Name:      d.Name,
		Width:     d.Width,
		Waypoints: make([][2]float64, len(d.Waypoints)),
	}
	for i, wp := range d.Waypoints {
		f.Waypoints[i] = [2]float64{wp.X, wp.Y}
	}
	return yaml.Marshal(f)
}

// Resolve returns the registered track with ID ref or, failing that, the
// track file at path ref.
func Resolve(ref string) (registry.Definition, error) {
	if registry.Exists(ref) {
		return registry.Create(ref)
	}
	if _, err := os.Stat(ref); err == nil {
		return LoadFile(ref)
	}
	return registry.Definition{}, fmt.Errorf("tracks: %w %q (not a registered id or a readable file)", registry.ErrUnknownTrack, ref)
}
