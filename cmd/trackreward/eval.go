package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/racingline/trackreward/internal/platform/tui"
	"github.com/racingline/trackreward/internal/replay"
	"github.com/racingline/trackreward/internal/reward"
)

var flagEvalJSON bool

var evalCmd = &cobra.Command{
	Use:   "eval <snapshot>",
	Short: "Score a single step snapshot",
	Long: `Score one step snapshot (YAML or JSON) and print the reward, the
pipe-delimited rule trace and every derived signal.

The track comes from --track, or from the waypoints embedded in the
snapshot.

Examples:
  trackreward eval step.json --track box
  trackreward eval step.yaml --track ./my-track.yaml --json`,
	Args: cobra.ExactArgs(1),
	Run:  runEval,
}

func init() {
	evalCmd.Flags().BoolVar(&flagEvalJSON, "json", false, "Print the result as JSON")
}

// evalOutput is the JSON shape of an evaluation.
type evalOutput struct {
	Reward  float64        `json:"reward"`
	Trace   string         `json:"trace"`
	Rules   []reward.Rule  `json:"rules"`
	Fatal   bool           `json:"fatal"`
	Signals reward.Signals `json:"signals"`
	Error   string         `json:"error,omitempty"`
}

func runEval(cmd *cobra.Command, args []string) {
	logger := newLogger()

	p, err := replay.LoadSnapshot(args[0])
	exitOnError("loading snapshot", err)

	_, track, err := resolveTrack("")
	exitOnError("resolving track", err)

	ev, err := newEvaluator(track, logger)
	exitOnError("loading calibration", err)

	res := ev.Evaluate(p)

	if flagEvalJSON {
		out := evalOutput{
			Reward:  res.Reward,
			Trace:   res.Trace(),
			Rules:   res.Rules,
			Fatal:   res.Fatal,
			Signals: res.Signals,
		}
		if res.Err != nil {
			out.Error = res.Err.Error()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		exitOnError("encoding result", enc.Encode(out))
		return
	}

	fmt.Println(res.Trace())
	fmt.Println()
	fmt.Println(tui.RenderResult(res))
}
