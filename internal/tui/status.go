// Package tui implements the optional interactive status view for
// `blackjack-ev simulate --interactive`: a read-only bubbletea program
// that renders the worker pool's running totals instead of the
// plain-text ticker the CLI prints by default. It follows the teacher's
// internal/tui's Init/Update/View model shape (channel-fed messages,
// a quit key, lipgloss-styled panes), dropped down to a single
// read-only pane since there is no player input to collect here.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-ev/internal/statistics"
)

// Update is one point-in-time snapshot pushed to the status view.
type Update struct {
	Stats   statistics.Statistics
	Elapsed time.Duration
}

// StatusModel is the bubbletea model for the live simulation view.
type StatusModel struct {
	logger   *log.Logger
	updates  <-chan Update
	latest   Update
	quitting bool
	width    int
	spinner  spinner.Model
}

// NewStatusModel builds a status view fed by updates. The channel
// should be closed when the producing worker pool stops, which causes
// the program to quit on its own rather than hang waiting for a key.
func NewStatusModel(updates <-chan Update, logger *log.Logger) *StatusModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = positiveStyle
	return &StatusModel{logger: logger.WithPrefix("tui"), updates: updates, spinner: sp}
}

// Init starts the channel-listening command and the spinner animation.
func (m *StatusModel) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), m.spinner.Tick)
}

type updatesClosedMsg struct{}

func waitForUpdate(ch <-chan Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return updatesClosedMsg{}
		}
		return u
	}
}

// Update handles incoming messages: a new status snapshot, a quit
// keypress, or the updates channel closing.
func (m *StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case Update:
		m.latest = msg
		return m, waitForUpdate(m.updates)
	case updatesClosedMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))

	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true)
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)
)

// View renders the running totals.
func (m *StatusModel) View() string {
	if m.quitting {
		return ""
	}

	s := m.latest.Stats
	edge := s.EdgePercent()
	edgeStyle := positiveStyle
	if edge < 0 {
		edgeStyle = negativeStyle
	}

	handsPerSec := 0.0
	if m.latest.Elapsed > 0 {
		handsPerSec = float64(s.Hands) / m.latest.Elapsed.Seconds()
	}

	lines := []string{
		titleStyle.Render("blackjack-ev — live simulation") + " " + m.spinner.View(),
		"",
		fmt.Sprintf("%s %d", labelStyle.Render("Hands played:"), s.Hands),
		fmt.Sprintf("%s %.1f", labelStyle.Render("Hands/sec:"), handsPerSec),
		fmt.Sprintf("%s %+.2f units", labelStyle.Render("Total ROI:"), s.SumROI),
		fmt.Sprintf("%s %s%%", labelStyle.Render("Edge:"), edgeStyle.Render(fmt.Sprintf("%+.3f", edge))),
	}
	if s.DecisionsMade > 0 {
		lines = append(lines,
			fmt.Sprintf("%s %d / %d decisions", labelStyle.Render("Deviations:"), s.Deviations, s.DecisionsMade),
			fmt.Sprintf("%s %+.2f units", labelStyle.Render("Gained EV:"), s.GainedEV),
		)
	}
	lines = append(lines, "", labelStyle.Render("press q to quit"))

	body := ""
	for i, l := range lines {
		if i > 0 {
			body += "\n"
		}
		body += l
	}
	return panelStyle.Render(body)
}
