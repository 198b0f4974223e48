package replay

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/racingline/trackreward/internal/reward"
)

// ChartHTML renders an interactive page with the reward per step and the
// share of steps that fired each rule.
func ChartHTML(r Report, w io.Writer) error {
	if len(r.Steps) == 0 {
		return errors.New("replay: cannot chart an empty report")
	}

	subtitle := fmt.Sprintf("steps=%d mean=%.3f", r.Summary.Count, r.Summary.Mean)
	if r.TrackID != "" {
		subtitle = fmt.Sprintf("track=%s %s", r.TrackID, subtitle)
	}

	x := make([]int, len(r.Steps))
	rewards := make([]opts.LineData, len(r.Steps))
	for i, s := range r.Steps {
		x[i] = s.Index
		rewards[i] = opts.LineData{Value: s.Result.Reward}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Episode rewards", Width: "1200px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Reward per step", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Step", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Reward"}),
	)
	line.SetXAxis(x).AddSeries("reward", rewards)

	names := make([]string, 0, len(reward.AllRules))
	rates := make([]opts.BarData, 0, len(reward.AllRules))
	for _, rule := range reward.AllRules {
		names = append(names, string(rule))
		rates = append(rates, opts.BarData{Value: 100 * r.Summary.Rate(rule)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Rule rates (% of steps)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 100}),
	)
	bar.SetXAxis(names).
		AddSeries("rate", rates,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.PageTitle = "Episode rewards"
	page.AddCharts(line, bar)
	return page.Render(w)
}

// WriteChartHTML renders ChartHTML into the file at path.
func WriteChartHTML(r Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("replay: cannot create chart %s: %w", path, err)
	}
	if err := ChartHTML(r, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
