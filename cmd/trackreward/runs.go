package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/racingline/trackreward/internal/storage"
)

var (
	flagRunsLimit int
	flagRunID     string
	flagRunsClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [track]",
	Short: "Show stored replay runs",
	Long: `Display the best stored runs by mean reward, optionally for one track.
With --run, print the per-step rewards of a single run instead.

Examples:
  trackreward runs
  trackreward runs box --limit 5
  trackreward runs --run 3f1c2e4a-...
  trackreward runs box --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().StringVar(&flagRunID, "run", "", "Show the steps of this run")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete the stored runs of the given track")
}

func runRuns(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagRunID != "" {
		printRunSteps(store, flagRunID)
		return
	}

	trackID := ""
	if len(args) == 1 {
		trackID = args[0]
	}

	if flagRunsClear {
		if trackID == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a track")
			os.Exit(1)
		}
		if err := store.ClearRuns(trackID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared runs for %s\n", trackID)
		return
	}

	runs, err := store.TopRuns(trackID, flagRunsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	if trackID != "" {
		fmt.Printf("Best runs - %s\n", trackID)
	} else {
		fmt.Println("Best runs")
	}
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'trackreward replay <episode> --save' to store a run.")
		return
	}

	fmt.Printf("  %-4s  %-36s  %-8s  %6s  %12s  %7s  %s\n", "Rank", "Run", "Track", "Steps", "Mean", "Invalid", "Date")
	fmt.Printf("  %-4s  %-36s  %-8s  %6s  %12s  %7s  %s\n", "----", "---", "-----", "-----", "----", "-------", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-36s  %-8s  %6d  %12.3f  %7d  %s\n",
			i+1, r.ID, r.TrackID, r.Steps, r.MeanReward, r.Degraded, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if trackID != "" {
		stats, err := store.GetTrackStats(trackID)
		if err == nil {
			fmt.Println()
			fmt.Printf("Runs: %d  Best mean: %.3f  Average mean: %.3f  Steps: %d\n",
				stats.Runs, stats.BestMean, stats.AvgMean, stats.TotalSteps)
		}
	}
}

func printRunSteps(store *storage.Store, id string) {
	run, err := store.GetRun(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving run: %v\n", err)
		os.Exit(1)
	}
	if run == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown run %q\n", id)
		os.Exit(1)
	}

	steps, err := store.RunSteps(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving steps: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Run %s - %s (%s)\n", run.ID, run.TrackID, run.Source)
	fmt.Printf("Steps: %d  Total: %.3f  Mean: %.3f  Invalid: %d\n\n",
		run.Steps, run.TotalReward, run.MeanReward, run.Degraded)

	fmt.Printf("  %-6s  %12s  %s\n", "Step", "Reward", "Rules")
	fmt.Printf("  %-6s  %12s  %s\n", "----", "------", "-----")
	for _, st := range steps {
		fmt.Printf("  %-6d  %12.3f  %s\n", st.Step, st.Reward, strings.Join(st.Rules, " "))
	}
}
