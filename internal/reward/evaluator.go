package reward

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/racingline/trackreward/internal/config"
	"github.com/racingline/trackreward/internal/core"
)

const (
	// stallRatio is the fraction of the maximum speed below which the
	// vehicle counts as stalled.
	stallRatio = 0.1
	// maxSpeedTolerance is how close to the maximum speed a straight must be
	// driven to earn the straight bonus.
	maxSpeedTolerance = 0.1
)

// Evaluator turns snapshots into rewards.
// It holds only immutable configuration and is safe for concurrent use.
type Evaluator struct {
	cal    config.Calibration
	track  core.Track
	logger *log.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTrack sets the track used for snapshots that carry no waypoints.
func WithTrack(t core.Track) Option {
	return func(e *Evaluator) {
		e.track = t
	}
}

// WithLogger sets the logger for rejected snapshots and per-step traces.
func WithLogger(l *log.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEvaluator creates an evaluator for a validated calibration.
func NewEvaluator(cal config.Calibration, opts ...Option) (*Evaluator, error) {
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	e := &Evaluator{
		cal:    cal,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Calibration returns a copy of the evaluator's calibration.
func (e *Evaluator) Calibration() config.Calibration {
	return e.cal
}

// Track returns the configured track, which may be zero.
func (e *Evaluator) Track() core.Track {
	return e.track
}

// State builds the state for p. Waypoints in the snapshot take precedence
// over the configured track.
func (e *Evaluator) State(p Params) (State, error) {
	track := e.track
	if len(p.Waypoints) > 0 {
		t, err := TrackFromParams(p)
		if err != nil {
			return State{}, err
		}
		track = t
	}
	if track.IsZero() {
		return State{}, fmt.Errorf("%w: no waypoints in snapshot and no track configured", ErrInvalidSnapshot)
	}
	return NewState(track, p)
}

// Evaluate scores one snapshot. It never fails: a snapshot that cannot be
// scored yields the minimum penalty with Err set.
func (e *Evaluator) Evaluate(p Params) Result {
	s, err := e.State(p)
	if err != nil {
		res := Result{
			Reward: e.cal.Reward.PenaltyMin,
			Rules:  []Rule{RuleInvalidSnapshot},
			Err:    err,
		}
		e.logger.Warn("snapshot rejected", "steps", p.Steps, "error", err)
		return res
	}
	return e.Score(s)
}

// RewardFunction returns only the reward value for p.
func (e *Evaluator) RewardFunction(p Params) float64 {
	return e.Evaluate(p).Reward
}

// Score runs the reward procedure on a validated state.
func (e *Evaluator) Score(s State) Result {
	cal := e.cal
	unit := cal.Reward.Max

	// Off track, reversed or stalled: nothing else applies
	if !s.AllWheelsOnTrack() || s.IsReversed() || s.Speed() < stallRatio*cal.Speed.Max {
		res := Result{
			Reward: cal.Reward.PenaltyMin,
			Rules:  []Rule{RuleFatalState},
			Fatal:  true,
		}
		e.trace(s, res)
		return res
	}

	sig := Analyze(s, cal)
	res := Result{Signals: sig}
	reward := cal.Reward.PenaltyMin
	add := func(rule Rule, weight float64) {
		res.Rules = append(res.Rules, rule)
		reward += unit * weight
	}

	headingOK := math.Abs(sig.HeadingError) <= cal.Steering.SmoothThreshold
	if headingOK {
		add(RuleHeadingOK, cal.Weights.Heading)
	}
	if math.Abs(s.SteeringAngle()) <= cal.Steering.SmoothThreshold {
		add(RuleSteeringOK, cal.Weights.Steering)
	}
	if sig.InOptimizedCorridor {
		add(RuleOptimizedCorridor, cal.Weights.Corridor)
	}
	if !sig.InCurve && math.Abs(s.Speed()-cal.Speed.Max) < maxSpeedTolerance*cal.Speed.Max && headingOK {
		add(RuleStraightMaxSpeed, cal.Weights.StraightMaxSpeed)
	}
	if sig.InCurve && sig.OptimumSpeed {
		add(RuleCurveOptimumSpeed, cal.Weights.CurveOptimumSpeed)
	}

	steps := s.Steps()
	if steps%cal.Reward.ProgressCheckEvery == 0 &&
		s.Progress() > float64(steps)/float64(cal.Reward.EpisodeSteps) {
		add(RuleProgressOK, cal.Weights.Progress)
	}

	// Reaching the last waypoint replaces everything accumulated so far
	if sig.ReachedTarget {
		res.Rules = append(res.Rules, RuleReachedTarget)
		reward = unit
	}

	res.Reward = core.ClampF(reward, cal.Reward.PenaltyMin, cal.Reward.Ceiling)

	e.trace(s, res)
	return res
}

func (e *Evaluator) trace(s State, res Result) {
	e.logger.Debug("step scored", "steps", s.Steps(), "reward", res.Reward, "trace", res.Trace())
}
