package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/racingline/trackreward/internal/replay"
	"github.com/racingline/trackreward/internal/reward"
	"github.com/racingline/trackreward/internal/trackmap"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))
	badStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// glyphStyles colors the track map.
var glyphStyles = map[rune]lipgloss.Style{
	trackmap.GlyphPath:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	trackmap.GlyphStart:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	trackmap.GlyphWaypoint: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
}

var vehicleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)

func styleFor(r rune) lipgloss.Style {
	if s, ok := glyphStyles[r]; ok {
		return s
	}
	if strings.ContainsRune("→↗↑↖←↙↓↘?", r) {
		return vehicleStyle
	}
	return lipgloss.NewStyle()
}

// RenderMap converts a track map to a styled string for display.
// Groups adjacent cells with the same glyph to minimize ANSI escape sequences.
func RenderMap(m *trackmap.Map) string {
	c := m.Canvas()
	var sb strings.Builder
	sb.Grow(c.Width()*c.Height()*2 + c.Height())

	for y := range c.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < c.Width() {
			start := c.Get(x, y)

			var run strings.Builder
			for x < c.Width() && c.Get(x, y) == start {
				run.WriteRune(start)
				x++
			}
			sb.WriteString(styleFor(start).Render(run.String()))
		}
	}
	return sb.String()
}

func formatReward(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// RenderResult renders the reward, trace and derived signals of one step.
func RenderResult(res reward.Result) string {
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}

	line("reward", titleStyle.Render(formatReward(res.Reward)))
	switch {
	case res.Degraded():
		line("status", badStyle.Render("invalid snapshot"))
		line("error", res.Err.Error())
		return strings.TrimRight(b.String(), "\n")
	case res.Fatal:
		line("status", badStyle.Render("off track, reversed or stalled"))
		return strings.TrimRight(b.String(), "\n")
	}

	sig := res.Signals
	line("heading error", fmt.Sprintf("%.2f°", sig.HeadingError))
	line("curve angle", fmt.Sprintf("%.2f°", sig.CurveAngle))
	line("in curve", yesNo(sig.InCurve))
	line("speed ratio", fmt.Sprintf("%.2f", sig.OptimumSpeedRatio))
	line("turn ahead", string(sig.ExpectedTurnDirection))
	line("in corridor", yesNo(sig.InOptimizedCorridor))
	line("optimum speed", yesNo(sig.OptimumSpeed))
	line("reached target", yesNo(sig.ReachedTarget))

	rules := make([]string, len(res.Rules))
	for i, r := range res.Rules {
		rules[i] = string(r)
	}
	if len(rules) == 0 {
		rules = []string{mutedStyle.Render("none")}
	}
	line("rules", strings.Join(rules, " "))
	return strings.TrimRight(b.String(), "\n")
}

func yesNo(v bool) string {
	if v {
		return okStyle.Render("yes")
	}
	return mutedStyle.Render("no")
}

// barWidth is the width of the rule rate bars in the summary.
const barWidth = 20

// RenderSummary renders the statistics of a replay report.
func RenderSummary(r replay.Report) string {
	s := r.Summary

	title := "REPLAY SUMMARY"
	if r.TrackID != "" {
		title = fmt.Sprintf("REPLAY SUMMARY - %s", r.TrackID)
	}

	var stats strings.Builder
	stat := func(label, value string) {
		stats.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", label)))
		stats.WriteString(value)
		stats.WriteString("\n")
	}
	stat("steps", strconv.Itoa(s.Count))
	stat("total", formatReward(s.Total))
	stat("mean", fmt.Sprintf("%s ± %s", formatReward(s.Mean), formatReward(s.StdDev)))
	stat("min", formatReward(s.Min))
	stat("max", formatReward(s.Max))
	stat("fatal", strconv.Itoa(s.Fatal))
	stat("invalid", strconv.Itoa(s.Degraded))

	var rules strings.Builder
	for _, rule := range reward.AllRules {
		rate := s.Rate(rule)
		filled := int(rate*barWidth + 0.5)
		rules.WriteString(labelStyle.Render(fmt.Sprintf("%-20s", rule)))
		rules.WriteString(okStyle.Render(strings.Repeat("█", filled)))
		rules.WriteString(mutedStyle.Render(strings.Repeat("░", barWidth-filled)))
		rules.WriteString(fmt.Sprintf(" %5.1f%% (%d)\n", 100*rate, s.Rules[rule]))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(strings.TrimRight(stats.String(), "\n")),
		"  ",
		panelStyle.Render(strings.TrimRight(rules.String(), "\n")),
	)
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), body)
}
