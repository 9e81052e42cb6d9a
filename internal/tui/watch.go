package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/erpstack/erpstack/internal/compose"
)

// FetchServices returns the current service listing for the watch view.
// The status command binds it to a compose ps invocation on its target.
type FetchServices func(ctx context.Context) ([]compose.Service, error)

// watchKeyMap defines the keyboard shortcuts of the watch view.
type watchKeyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

var watchKeys = watchKeyMap{
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// servicesMsg carries one poll result into the update loop.
type servicesMsg struct {
	services []compose.Service
	err      error
}

// tickMsg schedules the next poll.
type tickMsg time.Time

// WatchModel is the live service view behind `erpstack status --watch`.
// It repolls the deployment on a fixed interval until the operator quits.
type WatchModel struct {
	ctx      context.Context
	fetch    FetchServices
	interval time.Duration
	styles   Styles

	spinner  spinner.Model
	services []compose.Service
	err      error
	fetched  bool
	updated  time.Time
	quitting bool
}

// NewWatchModel creates the watch view. The fetch function runs on the
// program's goroutine schedule; it must be safe to call repeatedly.
func NewWatchModel(ctx context.Context, fetch FetchServices, interval time.Duration, noColor bool) *WatchModel {
	styles := DefaultStyles()
	if noColor {
		styles = PlainStyles()
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.Stage

	return &WatchModel{
		ctx:      ctx,
		fetch:    fetch,
		interval: interval,
		styles:   styles,
		spinner:  sp,
	}
}

func (m *WatchModel) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		services, err := m.fetch(m.ctx)
		return servicesMsg{services: services, err: err}
	}
}

func (m *WatchModel) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the spinner and the first poll.
func (m *WatchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd())
}

// Update handles messages and updates the model.
func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, watchKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, watchKeys.Refresh):
			return m, m.fetchCmd()
		}

	case servicesMsg:
		m.fetched = true
		m.services = msg.services
		m.err = msg.err
		m.updated = time.Now()
		return m, m.tickCmd()

	case tickMsg:
		return m, m.fetchCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the service table with a refresh footer.
func (m *WatchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(m.styles.Title.Render("erpstack"))
	b.WriteString(" ")
	b.WriteString(m.styles.Muted.Render("service watch"))
	b.WriteString("\n\n")

	switch {
	case !m.fetched:
		b.WriteString("  " + m.spinner.View() + " Polling services\n")
	case m.err != nil:
		b.WriteString("  " + m.styles.Error.Render("✗") + " " + m.err.Error() + "\n")
	case len(m.services) == 0:
		b.WriteString("  " + m.styles.Warning.Render("!") + " No services found, is the stack deployed?\n")
	default:
		b.WriteString(m.renderTable())
	}

	b.WriteString("\n  ")
	if m.fetched {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("updated %s", m.updated.Format("15:04:05"))))
	}
	b.WriteString(m.styles.Muted.Render("  r refresh · q quit"))
	b.WriteString("\n")

	return b.String()
}

func (m *WatchModel) renderTable() string {
	headers := []string{"SERVICE", "STATE", "HEALTH", "PORTS"}
	rows := make([][]string, 0, len(m.services))
	for _, svc := range m.services {
		rows = append(rows, []string{
			svc.DisplayName(),
			svc.State,
			svc.HealthDisplay(),
			svc.PortSummary(),
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	b.WriteString("  ")
	for i, h := range headers {
		b.WriteString(m.styles.Key.Render(fmt.Sprintf("%-*s", widths[i], h)))
		b.WriteString("  ")
	}
	b.WriteString("\n")

	for _, row := range rows {
		b.WriteString("  ")
		for i, cell := range row {
			text := fmt.Sprintf("%-*s", widths[i], cell)
			if i == 1 {
				text = m.stateStyle(cell).Render(text)
			}
			b.WriteString(text)
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *WatchModel) stateStyle(state string) lipgloss.Style {
	switch state {
	case compose.StateRunning:
		return m.styles.Success
	case "restarting", "created", "paused":
		return m.styles.Warning
	default:
		return m.styles.Error
	}
}

// RunWatch drives the watch view until the operator quits or the context
// is cancelled.
func RunWatch(ctx context.Context, fetch FetchServices, interval time.Duration, noColor bool) error {
	model := NewWatchModel(ctx, fetch, interval, noColor)
	_, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
