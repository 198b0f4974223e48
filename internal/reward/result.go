package reward

import (
	"strconv"
	"strings"
)

// Rule labels a reward term that fired during an evaluation.
type Rule string

const (
	RuleFatalState        Rule = "fatal_state"
	RuleInvalidSnapshot   Rule = "invalid_snapshot"
	RuleHeadingOK         Rule = "heading_ok"
	RuleSteeringOK        Rule = "steering_ok"
	RuleOptimizedCorridor Rule = "optimized_corridor"
	RuleStraightMaxSpeed  Rule = "straight_max_speed"
	RuleCurveOptimumSpeed Rule = "curve_optimum_speed"
	RuleProgressOK        Rule = "progress_ok"
	RuleReachedTarget     Rule = "reached_target"
)

// AllRules lists every rule in firing order.
var AllRules = []Rule{
	RuleFatalState,
	RuleInvalidSnapshot,
	RuleHeadingOK,
	RuleSteeringOK,
	RuleOptimizedCorridor,
	RuleStraightMaxSpeed,
	RuleCurveOptimumSpeed,
	RuleProgressOK,
	RuleReachedTarget,
}

// Result is the outcome of one evaluation.
type Result struct {
	Reward  float64 // Always within [penalty_min, ceiling]
	Rules   []Rule  // Fired rules, in firing order
	Signals Signals // Zero when Fatal or degraded
	Fatal   bool    // Off track, reversed or stalled
	Err     error   // Non-nil when the snapshot could not be scored
}

// Degraded reports whether the snapshot was rejected and the minimum
// penalty returned in its place.
func (r Result) Degraded() bool {
	return r.Err != nil
}

// Fired reports whether rule fired.
func (r Result) Fired(rule Rule) bool {
	for _, x := range r.Rules {
		if x == rule {
			return true
		}
	}
	return false
}

// Trace returns the fired rules and the reward as a pipe-delimited string,
// e.g. "heading_ok|steering_ok|40499.551|".
func (r Result) Trace() string {
	var b strings.Builder
	for _, rule := range r.Rules {
		b.WriteString(string(rule))
		b.WriteByte('|')
	}
	b.WriteString(strconv.FormatFloat(r.Reward, 'f', -1, 64))
	b.WriteByte('|')
	return b.String()
}
