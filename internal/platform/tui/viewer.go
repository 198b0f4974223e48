package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/racingline/trackreward/internal/core"
	"github.com/racingline/trackreward/internal/replay"
	"github.com/racingline/trackreward/internal/trackmap"
)

// Viewer layout constants
const (
	minWidthForPanel = 100 // Minimum width to show the panel beside the table
	tableWidth       = 50
	mapHeight        = 14
	defaultRate      = 15 // Steps per second, the simulator's rate
	maxRate          = 120
)

// ViewerModel is the Bubble Tea model for browsing an evaluated episode.
type ViewerModel struct {
	report    replay.Report
	track     core.Track
	table     table.Model
	help      help.Model
	keys      ViewerKeyMap
	width     int
	height    int
	playing   bool
	rate      int
	quitting  bool
	showPanel bool // Whether to show the panel beside the table
}

// NewViewerModel creates a viewer for report. track is drawn in the map
// panel and may be zero.
func NewViewerModel(report replay.Report, track core.Track, width, height int) ViewerModel {
	h := help.New()
	h.ShowAll = false

	m := ViewerModel{
		report:    report,
		track:     track,
		keys:      DefaultViewerKeyMap(),
		help:      h,
		width:     width,
		height:    height,
		rate:      defaultRate,
		showPanel: width >= minWidthForPanel,
	}
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *ViewerModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Step", Width: 6},
		{Title: "Reward", Width: 12},
		{Title: "Rules", Width: tableWidth - 22},
	}
	if !m.showPanel && m.width-6 > tableWidth {
		columns[2].Width = m.width - 28
	}

	height := m.height - 8 // Leave room for title, help and margins
	if !m.showPanel {
		height = max(m.height-mapHeight-16, 3)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(height, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows fills the table from the report, keeping the cursor.
func (m *ViewerModel) updateTableRows() {
	cursor := m.table.Cursor()
	rows := make([]table.Row, len(m.report.Steps))
	for i, st := range m.report.Steps {
		rules := make([]string, len(st.Result.Rules))
		for j, r := range st.Result.Rules {
			rules[j] = string(r)
		}
		rows[i] = table.Row{
			strconv.Itoa(st.Params.Steps),
			formatReward(st.Result.Reward),
			strings.Join(rules, ","),
		}
	}
	m.table.SetRows(rows)
	if cursor >= 0 && cursor < len(rows) {
		m.table.SetCursor(cursor)
	}
}

// Init initializes the viewer model.
func (m ViewerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the viewer.
func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Play):
			m.playing = !m.playing
			if m.playing {
				if m.atEnd() {
					m.table.GotoTop()
				}
				return m, tickCmd(m.rate)
			}
			return m, nil

		case key.Matches(msg, m.keys.Faster):
			m.rate = core.Clamp(m.rate*2, 1, maxRate)
			return m, nil

		case key.Matches(msg, m.keys.Slower):
			m.rate = core.Clamp(m.rate/2, 1, maxRate)
			return m, nil

		case key.Matches(msg, m.keys.First):
			m.table.GotoTop()
			return m, nil

		case key.Matches(msg, m.keys.Last):
			m.table.GotoBottom()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.playing = false
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case TickMsg:
		if !m.playing {
			return m, nil
		}
		if m.atEnd() {
			m.playing = false
			return m, nil
		}
		m.table.MoveDown(1)
		return m, tickCmd(m.rate)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showPanel = m.width >= minWidthForPanel
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ViewerModel) atEnd() bool {
	return m.table.Cursor() >= len(m.report.Steps)-1
}

// Cursor returns the index of the selected step.
func (m ViewerModel) Cursor() int {
	return m.table.Cursor()
}

// Playing reports whether playback is running.
func (m ViewerModel) Playing() bool {
	return m.playing
}

// Rate returns the playback rate in steps per second.
func (m ViewerModel) Rate() int {
	return m.rate
}

// View renders the viewer.
func (m ViewerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("REPLAY - %d steps", len(m.report.Steps))
	if m.report.TrackID != "" {
		title = fmt.Sprintf("REPLAY - %s - %d steps", m.report.TrackID, len(m.report.Steps))
	}
	if m.playing {
		title += fmt.Sprintf("  ▶ %d/s", m.rate)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	tableRendered := panelStyle.Render(m.renderTableContent())
	if m.showPanel {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tableRendered, "  ", m.renderPanel()))
	} else {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, tableRendered, m.renderPanel()))
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ViewerModel) renderTableContent() string {
	if len(m.report.Steps) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("The episode has no steps.")
	}
	return m.table.View()
}

// renderPanel renders the selected step's signals and the track map.
func (m ViewerModel) renderPanel() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.report.Steps) {
		return ""
	}
	st := m.report.Steps[i]

	mapWidth := m.width - tableWidth - 12
	if !m.showPanel {
		mapWidth = m.width - 6
	}
	mapWidth = max(mapWidth, 20)

	var sections []string
	sections = append(sections, RenderResult(st.Result))
	if !m.track.IsZero() {
		tm := trackmap.New(m.track, mapWidth, mapHeight)
		prev, next := st.Params.ClosestWaypoints[0], st.Params.ClosestWaypoints[1]
		tm.MarkWaypoint(prev, trackmap.GlyphWaypoint)
		tm.MarkWaypoint(next, trackmap.GlyphWaypoint)
		tm.DrawVehicle(core.Pt(st.Params.X, st.Params.Y), st.Params.Heading)
		sections = append(sections, "", RenderMap(tm))
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// RunViewer runs the replay viewer until the user quits.
func RunViewer(report replay.Report, track core.Track, width, height int) error {
	model := NewViewerModel(report, track, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
