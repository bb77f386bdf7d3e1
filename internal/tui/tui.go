package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"GasSentinel/internal/exporter"
	"GasSentinel/internal/model"
	"GasSentinel/internal/notifier"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	outputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Poller is the part of the scheduler the menu drives.
type Poller interface {
	HandleCommand(command string) string
	Stop()
}

// Exports is the part of the exporter the menu drives.
type Exports interface {
	ExportJSON(filename string) (*exporter.Result, error)
	ExportCSV(filename string) (*exporter.Result, error)
	ListExports() ([]exporter.File, error)
}

// MenuItems are the menu entries, in display order.
var MenuItems = []string{
	"Current prices",
	"Get recommendation",
	"Show trend",
	"Statistics",
	"Export JSON",
	"Export CSV",
	"List exports",
	"Exit",
}

const (
	actionPrices = iota
	actionRecommend
	actionTrend
	actionStats
	actionExportJSON
	actionExportCSV
	actionListExports
	actionExit
)

// refreshInterval re-renders read-only views so new samples show up.
const refreshInterval = 5 * time.Second

type tickMsg time.Time

// Model is the bubbletea model of the interactive menu.
type Model struct {
	poller   Poller
	exports  Exports
	location *time.Location

	cursor  int
	active  int // last action run, -1 for none
	output  string
	isError bool
	stopped bool
}

// New creates the menu model.
func New(p Poller, e Exports, loc *time.Location) Model {
	return Model{poller: p, exports: e, location: loc, active: -1}
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(MenuItems)-1 {
				m.cursor++
			}
		case "enter", " ":
			return m.run(m.cursor)
		default:
			if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(MenuItems) {
				m.cursor = int(key[0] - '1')
				return m.run(m.cursor)
			}
		}

	case tickMsg:
		if m.active >= actionPrices && m.active <= actionStats {
			m.output, m.isError = m.perform(m.active)
		}
		return m, tickCmd()
	}
	return m, nil
}

func (m Model) run(action int) (tea.Model, tea.Cmd) {
	if action == actionExit {
		m.poller.Stop()
		m.stopped = true
		m.output = "Goodbye!"
		return m, tea.Quit
	}
	m.active = action
	m.output, m.isError = m.perform(action)
	return m, nil
}

func (m Model) perform(action int) (string, bool) {
	switch action {
	case actionPrices:
		return m.poller.HandleCommand("/price"), false
	case actionRecommend:
		return m.poller.HandleCommand("/recommend"), false
	case actionTrend:
		return m.poller.HandleCommand("/trend"), false
	case actionStats:
		return m.poller.HandleCommand("/stats"), false
	case actionExportJSON:
		return exportResult(m.exports.ExportJSON(""))
	case actionExportCSV:
		return exportResult(m.exports.ExportCSV(""))
	case actionListExports:
		files, err := m.exports.ListExports()
		if err != nil {
			return fmt.Sprintf("List failed: %v", err), true
		}
		return notifier.FormatExports(files, m.location), false
	}
	return "", false
}

func exportResult(res *exporter.Result, err error) (string, bool) {
	if errors.Is(err, model.ErrNoData) {
		return "No data to export", true
	}
	if err != nil {
		return fmt.Sprintf("Export failed: %v", err), true
	}
	return notifier.FormatExport(res), false
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("⛽ GasSentinel"))
	b.WriteString("\n\n")

	for i, item := range MenuItems {
		line := fmt.Sprintf("%d. %s", i+1, item)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString(itemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.output != "" {
		b.WriteString("\n")
		out := m.output
		if m.isError {
			out = errorStyle.Render(out)
		}
		b.WriteString(outputStyle.Render(out))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("↑/↓ or j/k to move, enter or 1-8 to select, q to quit"))
	b.WriteString("\n")
	return b.String()
}

// Stopped reports whether the user chose Exit.
func (m Model) Stopped() bool { return m.stopped }

// Run starts the menu in the alternate screen and blocks until it exits.
func Run(p Poller, e Exports, loc *time.Location) error {
	prog := tea.NewProgram(New(p, e, loc), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
