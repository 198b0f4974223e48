// Package registry provides a global registry of named track definitions.
// Built-in tracks register themselves in init() functions, so the CLI and
// the replay tooling can resolve a track by ID without hardcoded imports.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/racingline/trackreward/internal/core"
)

// ErrUnknownTrack is returned when no track is registered under an ID.
var ErrUnknownTrack = errors.New("unknown track")

// Definition describes a track: its centerline waypoints in driving order
// and the nominal track width in meters.
type Definition struct {
	ID        string
	Name      string
	Width     float64
	Waypoints []core.Waypoint
}

// Track builds the immutable track for the definition.
func (d Definition) Track() (core.Track, error) {
	t, err := core.NewTrack(d.Waypoints)
	if err != nil {
		return core.Track{}, fmt.Errorf("track %q: %w", d.ID, err)
	}
	return t, nil
}

// TrackInfo contains metadata about a registered track.
type TrackInfo struct {
	ID        string
	Name      string
	Width     float64
	Waypoints int
}

// Factory is a function that builds a track definition.
type Factory func() Definition

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]TrackInfo)
	mu        sync.RWMutex
)

// Register adds a track factory to the registry.
// Typically called from an init() function.
// Panics if a track with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: track %q already registered", id))
	}

	factories[id] = f

	d := f()
	infos[id] = TrackInfo{
		ID:        id,
		Name:      d.Name,
		Width:     d.Width,
		Waypoints: len(d.Waypoints),
	}
}

// List returns information about all registered tracks, sorted by ID.
func List() []TrackInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]TrackInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create builds a fresh definition by its ID.
// Returns an error wrapping ErrUnknownTrack if the ID is not registered.
func Create(id string) (Definition, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return Definition{}, fmt.Errorf("registry: %w %q", ErrUnknownTrack, id)
	}

	d := f()
	if d.ID == "" {
		d.ID = id
	}
	return d, nil
}

// Exists checks if a track with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
