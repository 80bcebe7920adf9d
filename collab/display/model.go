// Package display is a terminal transport status view, grounded on the
// teacher's TUIModel (display/tui.go): same Bubble Tea Init/Update/View
// loop and lipgloss styling, scoped down to transport/track state. The
// teacher's tablature/fretboard/chord-chart rendering has no equivalent
// here — a guitar chord chart is specific to that domain and doesn't
// generalize to a generative sequencer's per-tick state.
package display

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor   = lipgloss.Color("#00FFFF")
	accentColor    = lipgloss.Color("#00FF00")
	dimColor       = lipgloss.Color("#666666")
	mutedColor     = lipgloss.Color("#FF6666")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	playingStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	stoppedStyle = lipgloss.NewStyle().Foreground(dimColor)
	trackStyle   = lipgloss.NewStyle().Width(18)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	soloedStyle  = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
)

// TickMsg drives the periodic redraw.
type TickMsg time.Time

// Transport is the read/write surface the display needs from the running
// sequencer, mirroring the teacher's PlayerController but scoped to
// transport and track mute/solo state rather than guitar-specific controls
// (capo, transpose, lyrics).
type Transport interface {
	TogglePlay()
	IsPlaying() bool
	BPM() float64
	Position() (bar, beat uint32)
	TrackNames() []string
	TrackMuted(i int) bool
	TrackSoloed(i int) bool
	ToggleMute(i int)
	ToggleSolo(i int)
	SeekBars(n int)
	ActivePartName() string
}

// Model is the Bubble Tea model for the transport status view.
type Model struct {
	t        Transport
	width    int
	quitting bool
	selected int
}

// NewModel returns a display model bound to t.
func NewModel(t Transport) *Model {
	return &Model{t: t, width: 80}
}

func tickCmd() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(tm time.Time) tea.Msg { return TickMsg(tm) })
}

// Init starts the redraw ticker.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.EnterAltScreen)
}

// Update handles key and tick messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case " ":
			m.t.TogglePlay()
		case "up":
			if m.selected > 0 {
				m.selected--
			}
		case "down":
			if m.selected < len(m.t.TrackNames())-1 {
				m.selected++
			}
		case "m":
			m.t.ToggleMute(m.selected)
		case "s":
			m.t.ToggleSolo(m.selected)
		case "left":
			m.t.SeekBars(-1)
		case "right":
			m.t.SeekBars(1)
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case TickMsg:
		return m, tickCmd()
	}
	return m, nil
}

// View renders the transport and per-track mute/solo state.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(m.t.ActivePartName()))
	b.WriteString("\n\n")

	bar, beat := m.t.Position()
	status := stoppedStyle.Render("■ stopped")
	if m.t.IsPlaying() {
		status = playingStyle.Render("▶ playing")
	}
	b.WriteString(fmt.Sprintf("%s   %.1f BPM   bar %d beat %d\n\n", status, m.t.BPM(), bar, beat))

	b.WriteString(headerStyle.Render("tracks (↑/↓ select, m mute, s solo, ←/→ seek bar, space play/pause, q quit)"))
	b.WriteString("\n")

	for i, name := range m.t.TrackNames() {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		label := trackStyle.Render(name)
		switch {
		case m.t.TrackMuted(i):
			label = mutedStyle.Render(name + " [muted]")
		case m.t.TrackSoloed(i):
			label = soloedStyle.Render(name + " [solo]")
		}
		b.WriteString(cursor + label + "\n")
	}

	return b.String()
}
