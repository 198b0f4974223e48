package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/racingline/trackreward/internal/core"
	"github.com/racingline/trackreward/internal/platform/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view <episode>",
	Short: "Browse an evaluated episode interactively",
	Long: `Score an episode and open an interactive viewer: a step table, the
signals of the selected step and a map of the track with the vehicle.

Controls:
  Up/Down, j/k   - Select step
  g/G            - First/last step
  Space/P        - Play or pause
  +/-            - Playback speed
  Q/Esc          - Quit

Examples:
  trackreward view lap.yaml
  trackreward view lap.jsonl --track oval`,
	Args: cobra.ExactArgs(1),
	Run:  runView,
}

func runView(cmd *cobra.Command, args []string) {
	report, err := evaluateEpisode(args[0])
	exitOnError("replaying episode", err)

	// Map the snapshot waypoints when no registered track was given
	_, track, err := resolveTrack(report.TrackID)
	exitOnError("resolving track", err)
	if track.IsZero() && len(report.Steps) > 0 {
		pts := make([]core.Waypoint, 0, len(report.Steps[0].Params.Waypoints))
		for _, wp := range report.Steps[0].Params.Waypoints {
			pts = append(pts, core.Pt(wp[0], wp[1]))
		}
		if t, err := core.NewTrack(pts); err == nil {
			track = t
		}
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	exitOnError("running viewer", tui.RunViewer(report, track, width, height))
}
