// trackreward scores race-track simulator steps with a lookahead-based
// reward function and inspects the results from the terminal.
//
// Usage:
//
//	trackreward eval <snapshot>      - Score a single step snapshot
//	trackreward replay <episode>     - Score every step of an episode
//	trackreward view <episode>       - Browse an episode interactively
//	trackreward runs [track]         - Show stored replay runs
//	trackreward tracks               - List built-in tracks
//	trackreward tracks sample <id>   - Emit a synthetic episode
//
// Global flags:
//
//	--config <path>      - Calibration YAML (default: search order)
//	--db <path>          - Runs database (default: ~/.trackreward/runs.db)
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/racingline/trackreward/internal/config"
	"github.com/racingline/trackreward/internal/core"
	"github.com/racingline/trackreward/internal/registry"
	"github.com/racingline/trackreward/internal/reward"
	"github.com/racingline/trackreward/internal/tracks"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagTrackRef string

	// Action space overrides
	flagMaxSpeed  float64
	flagSpeedGran int
	flagMaxSteer  float64
	flagSteerGran int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "trackreward",
	Short: "Reward function for race-track simulator steps",
	Long: `trackreward scores simulator steps of a vehicle on a closed race track.
Each step earns a reward from heading alignment, smooth steering, the
lateral corridor suited to the upcoming turn, speed matched to the
track ahead and periodic progress checkpoints.

Available commands:
  eval     - Score a single step snapshot
  replay   - Score every step of an episode file
  view     - Browse an evaluated episode interactively
  runs     - Show stored replay runs
  tracks   - List tracks or generate a sample episode

Examples:
  trackreward tracks
  trackreward tracks sample box > lap.yaml
  trackreward replay lap.yaml --plot rewards.png --save
  trackreward view lap.yaml
  trackreward eval step.json --track box`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to calibration YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.trackreward/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagTrackRef, "track", "", "Track ID or track file (default: the episode's track)")

	rootCmd.PersistentFlags().Float64Var(&flagMaxSpeed, "max-speed", 0, "Action space max speed (0 = use calibration)")
	rootCmd.PersistentFlags().IntVar(&flagSpeedGran, "speed-granularity", 3, "Action space speed levels")
	rootCmd.PersistentFlags().Float64Var(&flagMaxSteer, "max-steering", 30, "Action space max steering angle")
	rootCmd.PersistentFlags().IntVar(&flagSteerGran, "steering-granularity", 5, "Action space steering levels")

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(tracksCmd)
}

// newLogger creates the stderr logger at the --log-level level.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "trackreward",
	})
	level, err := log.ParseLevel(strings.ToLower(flagLogLevel))
	if err != nil {
		logger.Warn("unknown log level, using warn", "level", flagLogLevel)
		level = log.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadCalibration loads the calibration and applies action space overrides.
func loadCalibration() (config.Calibration, error) {
	cal, err := config.Load(flagConfig)
	if err != nil {
		return config.Calibration{}, err
	}
	if flagMaxSpeed > 0 {
		as := config.ActionSpace{
			MaxSpeed:            flagMaxSpeed,
			SpeedGranularity:    flagSpeedGran,
			MaxSteeringAngle:    flagMaxSteer,
			SteeringGranularity: flagSteerGran,
		}
		if err := config.ApplyActionSpace(&cal, as); err != nil {
			return config.Calibration{}, err
		}
	}
	return cal, nil
}

// resolveTrack picks the --track flag over the episode's own track ID.
// Both may be empty when snapshots carry their own waypoints.
func resolveTrack(episodeTrack string) (registry.Definition, core.Track, error) {
	ref := flagTrackRef
	if ref == "" {
		ref = episodeTrack
	}
	if ref == "" {
		return registry.Definition{}, core.Track{}, nil
	}

	def, err := tracks.Resolve(ref)
	if err != nil {
		return registry.Definition{}, core.Track{}, err
	}
	track, err := def.Track()
	if err != nil {
		return registry.Definition{}, core.Track{}, err
	}
	return def, track, nil
}

// newEvaluator builds the evaluator for track with the CLI logger.
func newEvaluator(track core.Track, logger *log.Logger) (*reward.Evaluator, error) {
	cal, err := loadCalibration()
	if err != nil {
		return nil, err
	}
	opts := []reward.Option{reward.WithLogger(logger)}
	if !track.IsZero() {
		opts = append(opts, reward.WithTrack(track))
	}
	return reward.NewEvaluator(cal, opts...)
}

// exitOnError prints err and exits when it is non-nil.
func exitOnError(context string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
		os.Exit(1)
	}
}
