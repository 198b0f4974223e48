// Package tui provides the Bubble Tea replay viewer and the lipgloss
// renderers used by the command line.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to advance playback by one step.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends a tick after one step
// interval at the given rate in steps per second.
func tickCmd(rate int) tea.Cmd {
	interval := time.Second / time.Duration(rate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
