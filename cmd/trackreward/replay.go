package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/racingline/trackreward/internal/platform/tui"
	"github.com/racingline/trackreward/internal/replay"
	"github.com/racingline/trackreward/internal/storage"
)

var (
	flagSave    bool
	flagPlot    string
	flagWorkers int
)

var replayCmd = &cobra.Command{
	Use:   "replay <episode>",
	Short: "Score every step of an episode",
	Long: `Score every step of an episode file and print summary statistics.

Episode files are YAML or JSON ({track, steps}) or JSON Lines with one
snapshot per line. Every step is scored on its own, exactly as the
simulator calls the reward function.

Examples:
  trackreward replay lap.yaml
  trackreward replay lap.jsonl --track oval --workers 8
  trackreward replay lap.yaml --plot rewards.png --save
  trackreward replay lap.yaml --plot rewards.html`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagSave, "save", false, "Store the run in the runs database")
	replayCmd.Flags().StringVar(&flagPlot, "plot", "", "Write a reward chart (png, svg, pdf or interactive html)")
	replayCmd.Flags().IntVar(&flagWorkers, "workers", 1, "Evaluate with this many goroutines")
}

// evaluateEpisode loads and scores an episode file.
func evaluateEpisode(path string) (replay.Report, error) {
	logger := newLogger()

	ep, err := replay.LoadEpisode(path)
	if err != nil {
		return replay.Report{}, err
	}

	def, track, err := resolveTrack(ep.TrackID)
	if err != nil {
		return replay.Report{}, err
	}
	if def.ID != "" {
		ep.TrackID = def.ID
	}

	ev, err := newEvaluator(track, logger)
	if err != nil {
		return replay.Report{}, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := replay.RunParallel(ctx, ev, ep, flagWorkers)
	if err != nil {
		return replay.Report{}, err
	}

	logger.Info("episode scored",
		"file", filepath.Base(path),
		"track", ep.TrackID,
		"steps", report.Summary.Count,
		"mean", report.Summary.Mean,
		"invalid", report.Summary.Degraded,
	)
	return report, nil
}

func runReplay(cmd *cobra.Command, args []string) {
	path := args[0]

	report, err := evaluateEpisode(path)
	exitOnError("replaying episode", err)

	fmt.Println(tui.RenderSummary(report))

	if flagPlot != "" {
		if strings.EqualFold(filepath.Ext(flagPlot), ".html") {
			exitOnError("charting rewards", replay.WriteChartHTML(report, flagPlot))
		} else {
			exitOnError("plotting rewards", replay.PlotRewards(report, flagPlot))
		}
		fmt.Printf("\nReward chart written to %s\n", flagPlot)
	}

	if flagSave {
		store, err := storage.Open(flagDBPath)
		exitOnError("opening runs database", err)
		defer store.Close()

		id, err := store.SaveRun(storage.RunRecord{
			TrackID: report.TrackID,
			Source:  path,
		}, stepRecords(report))
		exitOnError("saving run", err)
		fmt.Printf("\nRun saved as %s\n", id)
	}
}

// stepRecords converts a report to storage records.
func stepRecords(r replay.Report) []storage.StepRecord {
	out := make([]storage.StepRecord, len(r.Steps))
	for i, st := range r.Steps {
		rules := make([]string, len(st.Result.Rules))
		for j, rule := range st.Result.Rules {
			rules[j] = string(rule)
		}
		out[i] = storage.StepRecord{
			Step:     st.Index + 1,
			Reward:   st.Result.Reward,
			Rules:    rules,
			Fatal:    st.Result.Fatal,
			Degraded: st.Result.Degraded(),
		}
	}
	return out
}
