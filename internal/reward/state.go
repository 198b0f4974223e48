package reward

import (
	"errors"
	"fmt"
	"math"

	"github.com/racingline/trackreward/internal/core"
)

// ErrInvalidSnapshot is wrapped by every snapshot validation failure.
var ErrInvalidSnapshot = errors.New("reward: invalid snapshot")

// State is the validated, read-only view of one snapshot on one track.
// It is built fresh for every evaluation and never mutated.
type State struct {
	track              core.Track
	pos                core.Waypoint
	heading            float64
	speed              float64
	steeringAngle      float64
	distanceFromCenter float64
	trackWidth         float64
	progress           float64
	steps              int
	leftOfCenter       bool
	allWheelsOnTrack   bool
	reversed           bool
	prev, next         int
	rawNext            int // closest_waypoints[1] as sent by the host
}

// NewState validates p against track and returns the resulting state.
// Closest waypoint indices must lie within one wrap of the track, i.e. in
// [-len, 2*len), and the second must follow the first. Both are stored
// normalised.
func NewState(track core.Track, p Params) (State, error) {
	if track.Len() < 2 {
		return State{}, fmt.Errorf("%w: %w", ErrInvalidSnapshot, core.ErrTrackTooShort)
	}

	floats := []struct {
		name string
		v    float64
	}{
		{"x", p.X},
		{"y", p.Y},
		{"heading", p.Heading},
		{"speed", p.Speed},
		{"steering_angle", p.SteeringAngle},
		{"distance_from_center", p.DistanceFromCenter},
		{"track_width", p.TrackWidth},
		{"progress", p.Progress},
	}
	for _, f := range floats {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return State{}, fmt.Errorf("%w: %s is not finite", ErrInvalidSnapshot, f.name)
		}
	}

	switch {
	case p.TrackWidth <= 0:
		return State{}, fmt.Errorf("%w: track_width must be positive, got %v", ErrInvalidSnapshot, p.TrackWidth)
	case p.DistanceFromCenter < 0:
		return State{}, fmt.Errorf("%w: distance_from_center must not be negative, got %v", ErrInvalidSnapshot, p.DistanceFromCenter)
	case p.Speed < 0:
		return State{}, fmt.Errorf("%w: speed must not be negative, got %v", ErrInvalidSnapshot, p.Speed)
	case p.Steps < 0:
		return State{}, fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalidSnapshot, p.Steps)
	}

	n := track.Len()
	for i, idx := range p.ClosestWaypoints {
		if idx < -n || idx >= 2*n {
			return State{}, fmt.Errorf("%w: closest_waypoints[%d]=%d out of range for %d waypoints",
				ErrInvalidSnapshot, i, idx, n)
		}
	}
	prev, next := p.ClosestWaypoints[0], p.ClosestWaypoints[1]
	if track.Normalize(next) != track.Normalize(prev+1) {
		return State{}, fmt.Errorf("%w: closest_waypoints [%d, %d] are not consecutive",
			ErrInvalidSnapshot, prev, next)
	}

	return State{
		track:              track,
		pos:                core.Pt(p.X, p.Y),
		heading:            p.Heading,
		speed:              p.Speed,
		steeringAngle:      p.SteeringAngle,
		distanceFromCenter: p.DistanceFromCenter,
		trackWidth:         p.TrackWidth,
		progress:           p.Progress,
		steps:              p.Steps,
		leftOfCenter:       p.IsLeftOfCenter,
		allWheelsOnTrack:   p.AllWheelsOnTrack,
		reversed:           p.IsReversed,
		prev:               track.Normalize(prev),
		next:               track.Normalize(next),
		rawNext:            next,
	}, nil
}

// TrackFromParams builds a track from the snapshot's waypoint list.
func TrackFromParams(p Params) (core.Track, error) {
	points := make([]core.Waypoint, len(p.Waypoints))
	for i, w := range p.Waypoints {
		points[i] = core.Pt(w[0], w[1])
	}
	t, err := core.NewTrack(points)
	if err != nil {
		return core.Track{}, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return t, nil
}

// Accessors for the snapshot fields. ClosestWaypoints returns normalised
// indices.
func (s State) Track() core.Track            { return s.track }
func (s State) Position() core.Waypoint      { return s.pos }
func (s State) Heading() float64             { return s.heading }
func (s State) Speed() float64               { return s.speed }
func (s State) SteeringAngle() float64       { return s.steeringAngle }
func (s State) DistanceFromCenter() float64  { return s.distanceFromCenter }
func (s State) TrackWidth() float64          { return s.trackWidth }
func (s State) Progress() float64            { return s.progress }
func (s State) Steps() int                   { return s.steps }
func (s State) IsLeftOfCenter() bool         { return s.leftOfCenter }
func (s State) AllWheelsOnTrack() bool       { return s.allWheelsOnTrack }
func (s State) IsReversed() bool             { return s.reversed }
func (s State) ClosestWaypoints() (int, int) { return s.prev, s.next }
