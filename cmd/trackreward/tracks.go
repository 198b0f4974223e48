package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/racingline/trackreward/internal/registry"
	"github.com/racingline/trackreward/internal/replay"
	"github.com/racingline/trackreward/internal/tracks"
)

var (
	flagSampleSpeed  float64
	flagSampleOffset float64
	flagSampleWobble float64
	flagSampleSteps  int
	flagSampleFormat string
	flagSampleEmbed  bool
)

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List built-in tracks",
	Long:  `Shows the tracks registered in trackreward.`,
	Run:   runTracks,
}

var tracksSampleCmd = &cobra.Command{
	Use:   "sample <track>",
	Short: "Emit a synthetic episode that drives the track",
	Long: `Drive the centerline of a track at constant speed and print the
step snapshots the simulator would have produced.

Examples:
  trackreward tracks sample box > lap.yaml
  trackreward tracks sample oval --speed 4 --offset 0.2 --wobble 8 --format jsonl`,
	Args: cobra.ExactArgs(1),
	Run:  runTracksSample,
}

var tracksExportCmd = &cobra.Command{
	Use:   "export <track>",
	Short: "Print a track in the track file format",
	Args:  cobra.ExactArgs(1),
	Run:   runTracksExport,
}

func init() {
	tracksSampleCmd.Flags().Float64Var(&flagSampleSpeed, "speed", 3, "Speed in m/s")
	tracksSampleCmd.Flags().Float64Var(&flagSampleOffset, "offset", 0, "Lateral offset in m, positive to the left")
	tracksSampleCmd.Flags().Float64Var(&flagSampleWobble, "wobble", 0, "Heading oscillation in degrees")
	tracksSampleCmd.Flags().IntVar(&flagSampleSteps, "steps", 0, "Number of steps (0 = one lap)")
	tracksSampleCmd.Flags().StringVar(&flagSampleFormat, "format", replay.FormatYAML, "Output format: yaml, json or jsonl")
	tracksSampleCmd.Flags().BoolVar(&flagSampleEmbed, "embed-waypoints", false, "Include the waypoints in every snapshot")

	tracksCmd.AddCommand(tracksSampleCmd)
	tracksCmd.AddCommand(tracksExportCmd)
}

func runTracks(cmd *cobra.Command, args []string) {
	list := registry.List()

	if len(list) == 0 {
		fmt.Println("No tracks available.")
		return
	}

	fmt.Println("Available tracks:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, t := range list {
		if len(t.ID) > maxIDLen {
			maxIDLen = len(t.ID)
		}
	}

	fmt.Printf("  %-*s  %-12s  %9s  %6s\n", maxIDLen, "ID", "Name", "Waypoints", "Width")
	fmt.Printf("  %-*s  %-12s  %9s  %6s\n", maxIDLen, "--", "----", "---------", "-----")
	for _, t := range list {
		fmt.Printf("  %-*s  %-12s  %9d  %6.2f\n", maxIDLen, t.ID, t.Name, t.Waypoints, t.Width)
	}

	fmt.Println()
	fmt.Println("Run 'trackreward tracks sample <id>' to generate an episode.")
}

func runTracksSample(cmd *cobra.Command, args []string) {
	def, err := tracks.Resolve(args[0])
	exitOnError("resolving track", err)

	ep, err := replay.Synthesize(def, replay.SynthOptions{
		Speed:     flagSampleSpeed,
		Offset:    flagSampleOffset,
		Wobble:    flagSampleWobble,
		Steps:     flagSampleSteps,
		Waypoints: flagSampleEmbed,
	})
	exitOnError("generating episode", err)

	exitOnError("writing episode", replay.Encode(os.Stdout, ep, flagSampleFormat))
}

func runTracksExport(cmd *cobra.Command, args []string) {
	def, err := tracks.Resolve(args[0])
	exitOnError("resolving track", err)

	data, err := tracks.Marshal(def)
	exitOnError("encoding track", err)
	os.Stdout.Write(data)
}
