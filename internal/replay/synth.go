package replay

import (
	"errors"
	"fmt"
	"math"

	"github.com/racingline/trackreward/internal/core"
	"github.com/racingline/trackreward/internal/registry"
	"github.com/racingline/trackreward/internal/reward"
)

// hostStepRate is the simulator's step frequency in Hz.
const hostStepRate = 15.0

// SynthOptions shape a synthesized episode.
type SynthOptions struct {
	Speed        float64 // m/s
	Offset       float64 // Lateral offset from the centerline in m, positive to the left
	Wobble       float64 // Heading oscillation amplitude in degrees
	Steps        int     // Zero drives one lap
	StepDistance float64 // m per step, zero derives it from Speed and the host step rate
	Waypoints    bool    // Embed the track waypoints in every snapshot
}

// Synthesize drives def's centerline at constant speed and returns the
// snapshots the host would have produced.
func Synthesize(def registry.Definition, opts SynthOptions) (Episode, error) {
	track, err := def.Track()
	if err != nil {
		return Episode{}, fmt.Errorf("replay: %w", err)
	}
	if opts.Speed <= 0 {
		return Episode{}, errors.New("replay: synth speed must be positive")
	}

	step := opts.StepDistance
	if step <= 0 {
		step = opts.Speed / hostStepRate
	}
	lapLength := track.Length()
	if lapLength == 0 {
		return Episode{}, errors.New("replay: track has zero length")
	}
	steps := opts.Steps
	if steps <= 0 {
		steps = int(math.Ceil(lapLength / step))
	}

	var embedded [][2]float64
	if opts.Waypoints {
		for _, wp := range track.Points() {
			embedded = append(embedded, [2]float64{wp.X, wp.Y})
		}
	}

	ep := Episode{TrackID: def.ID, Steps: make([]reward.Params, 0, steps)}
	seg, along := 0, 0.0 // current segment and distance covered on it
	for k := 0; k < steps; k++ {
		travelled := float64(k) * step
		for along >= track.SegmentLength(seg) {
			along -= track.SegmentLength(seg)
			seg = track.Normalize(seg + 1)
		}

		from, to := track.WaypointAt(seg), track.WaypointAt(seg+1)
		dir := to.Sub(from)
		f := along / dir.Len()
		heading := core.HeadingBetween(from, to)

		rad := heading * math.Pi / 180
		normal := core.Pt(-math.Sin(rad), math.Cos(rad))
		wobble := opts.Wobble * math.Sin(float64(k)/3)

		ep.Steps = append(ep.Steps, reward.Params{
			AllWheelsOnTrack:   math.Abs(opts.Offset) <= def.Width/2,
			X:                  from.X + f*dir.X + opts.Offset*normal.X,
			Y:                  from.Y + f*dir.Y + opts.Offset*normal.Y,
			DistanceFromCenter: math.Abs(opts.Offset),
			IsLeftOfCenter:     opts.Offset >= 0,
			Heading:            heading + wobble,
			Progress:           100 * math.Mod(travelled, lapLength) / lapLength,
			Steps:              k + 1,
			Speed:              opts.Speed,
			SteeringAngle:      -wobble,
			TrackWidth:         def.Width,
			Waypoints:          embedded,
			ClosestWaypoints:   [2]int{seg, track.Normalize(seg + 1)},
		})

		along += step
	}
	return ep, nil
}
