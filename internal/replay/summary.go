package replay

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/racingline/trackreward/internal/reward"
)

// Summary holds aggregate statistics over an episode's rewards.
type Summary struct {
	Count    int
	Total    float64
	Mean     float64
	StdDev   float64 // Sample standard deviation, zero below two steps
	Min      float64
	Max      float64
	Fatal    int
	Degraded int
	Rules    map[reward.Rule]int // How many steps fired each rule
}

// Summarize computes statistics over results.
func Summarize(results []reward.Result) Summary {
	s := Summary{
		Count: len(results),
		Rules: make(map[reward.Rule]int),
	}
	if len(results) == 0 {
		return s
	}

	rewards := make([]float64, len(results))
	for i, res := range results {
		rewards[i] = res.Reward
		if res.Fatal {
			s.Fatal++
		}
		if res.Degraded() {
			s.Degraded++
		}
		for _, rule := range res.Rules {
			s.Rules[rule]++
		}
	}

	s.Total = floats.Sum(rewards)
	s.Min = floats.Min(rewards)
	s.Max = floats.Max(rewards)
	if len(rewards) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(rewards, nil)
	} else {
		s.Mean = rewards[0]
	}
	return s
}

// Rate returns the fraction of steps that fired rule.
func (s Summary) Rate(rule reward.Rule) float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Rules[rule]) / float64(s.Count)
}
