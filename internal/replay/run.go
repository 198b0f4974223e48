package replay

import (
	"context"
	"sync"

	"github.com/racingline/trackreward/internal/reward"
)

// Step pairs a snapshot with its evaluation.
type Step struct {
	Index  int
	Params reward.Params
	Result reward.Result
}

// Report is the evaluated episode, in step order.
type Report struct {
	TrackID string
	Steps   []Step
	Summary Summary
}

// Results returns the evaluation results in step order.
func (r Report) Results() []reward.Result {
	out := make([]reward.Result, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.Result
	}
	return out
}

// Run evaluates every step of ep in order, one evaluation per step, the way
// the simulation host calls the reward function.
func Run(ev *reward.Evaluator, ep Episode) Report {
	steps := make([]Step, len(ep.Steps))
	for i, p := range ep.Steps {
		steps[i] = Step{Index: i, Params: p, Result: ev.Evaluate(p)}
	}
	return newReport(ep.TrackID, steps)
}

// RunParallel evaluates ep with up to workers goroutines sharing ev.
// Results keep step order. It stops early and returns ctx.Err() when ctx is
// cancelled.
func RunParallel(ctx context.Context, ev *reward.Evaluator, ep Episode, workers int) (Report, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(ep.Steps) {
		workers = max(len(ep.Steps), 1)
	}

	steps := make([]Step, len(ep.Steps))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				p := ep.Steps[i]
				steps[i] = Step{Index: i, Params: p, Result: ev.Evaluate(p)}
			}
		}()
	}

	var err error
feed:
	for i := range ep.Steps {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return Report{}, err
	}
	return newReport(ep.TrackID, steps), nil
}

func newReport(trackID string, steps []Step) Report {
	r := Report{TrackID: trackID, Steps: steps}
	r.Summary = Summarize(r.Results())
	return r
}
