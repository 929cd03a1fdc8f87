package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tictot/internal/domain"
	"tictot/internal/errors"
	"tictot/internal/services"
	"tictot/internal/session"
)

const (
	defaultRefreshInterval = time.Second / 60
	defaultClockFormat     = "15:04"
	defaultDateFormat      = "Mon, Jan 02"
	defaultTimeout         = 5 * time.Second
)

// Options configures the timer screen.
type Options struct {
	// RefreshInterval is how often the stopwatch is redrawn.
	RefreshInterval time.Duration
	// ClockFormat formats entry start and end times.
	ClockFormat string
	// DateFormat formats the date header.
	DateFormat string
	// Timeout bounds each storage call made from the screen.
	Timeout time.Duration
	// InitialTask pre-fills the task name input.
	InitialTask string
}

type tickMsg time.Time

type entriesMsg struct {
	entries []*domain.TaskEntry
	err     error
}

// Model is the bubbletea model for the timer screen.
type Model struct {
	ctrl  Controller
	opts  Options
	keys  KeyMap
	help  help.Model
	input textinput.Model

	entries []*domain.TaskEntry
	loading bool
	err     error
	notice  string
}

// NewModel creates the timer screen for ctrl.
func NewModel(ctrl Controller, opts Options) Model {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = defaultRefreshInterval
	}
	if opts.ClockFormat == "" {
		opts.ClockFormat = defaultClockFormat
	}
	if opts.DateFormat == "" {
		opts.DateFormat = defaultDateFormat
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	ti := textinput.New()
	ti.Prompt = "task › "
	ti.Placeholder = "blank for default"
	ti.SetValue(opts.InitialTask)

	return Model{
		ctrl:  ctrl,
		opts:  opts,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		input: ti,
	}
}

// Init starts the display tick and loads today's entries.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.loadEntries())
}

// tick only schedules a redraw; the stopwatch reading comes from the controller in View.
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) loadEntries() tea.Cmd {
	ctrl, timeout := m.ctrl, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		entries, err := ctrl.Today(ctx)
		return entriesMsg{entries: entries, err: err}
	}
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		// After midnight the header and list still describe yesterday until
		// Today rolls the controller over.
		if !m.loading && !domain.SameDay(time.Time(msg), m.ctrl.Day()) {
			m.loading = true
			return m, tea.Batch(m.tick(), m.loadEntries())
		}
		return m, m.tick()

	case entriesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.entries = msg.entries
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.input.Focused() {
		switch {
		case key.Matches(msg, m.keys.Submit):
			m.input.Blur()
			return m.track()
		case key.Matches(msg, m.keys.Blur):
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		return m.toggle()
	case key.Matches(msg, m.keys.Submit):
		return m.track()
	case key.Matches(msg, m.keys.Reset):
		m.err = nil
		m.notice = ""
		if !m.ctrl.Reset() {
			m.notice = "stop the timer before resetting"
		}
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

// toggle starts a session for the typed task, or stops the running one.
func (m Model) toggle() (tea.Model, tea.Cmd) {
	m.err = nil
	m.notice = ""

	ctx, cancel := context.WithTimeout(context.Background(), m.opts.Timeout)
	defer cancel()

	var err error
	if m.ctrl.State() == session.Running {
		_, err = m.ctrl.Stop(ctx)
	} else {
		_, err = m.ctrl.Start(ctx, m.input.Value())
	}
	if err != nil {
		m.setError(err)
		return m, nil
	}
	return m, m.loadEntries()
}

// track starts a session for the typed task, stopping the running one first.
func (m Model) track() (tea.Model, tea.Cmd) {
	m.err = nil
	m.notice = ""

	ctx, cancel := context.WithTimeout(context.Background(), m.opts.Timeout)
	defer cancel()

	if m.ctrl.State() == session.Running {
		if _, err := m.ctrl.Stop(ctx); err != nil {
			m.err = err
			return m, nil
		}
	}
	if _, err := m.ctrl.Start(ctx, m.input.Value()); err != nil {
		m.setError(err)
	}
	return m, m.loadEntries()
}

// setError shows err, or a hint when another process holds the open entry.
func (m *Model) setError(err error) {
	if errors.IsErrorType(err, errors.ErrorTypeConflict) {
		m.notice = "another session is still open; if no other tictot is running, use 'tictot recover'"
		return
	}
	m.err = err
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styleHeader.Render(m.ctrl.Day().Format(m.opts.DateFormat)))
	b.WriteString("\n")

	stopwatch := styleStopwatch
	if m.ctrl.State() == session.Running {
		stopwatch = styleStopwatchRunning
	}
	b.WriteString(stopwatch.Render(services.FormatStopwatch(m.ctrl.DisplayElapsed())))
	b.WriteString("\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	for _, e := range m.entries {
		b.WriteString(m.renderEntry(e))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styleTotal.Render(formatTotal(m.ctrl.DailyTotal())))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(styleError.Render(errors.GetUserMessage(m.err)))
		b.WriteString("\n")
	case m.notice != "":
		b.WriteString(styleNotice.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) statusLine() string {
	if cur := m.ctrl.Current(); cur != nil {
		return styleStatusRunning.Render(iconRunning + " " + cur.Task.Name)
	}
	return styleStatusIdle.Render(iconIdle + " idle")
}

func (m Model) renderEntry(e *domain.TaskEntry) string {
	start, task, end := entryColumns(e, m.opts.ClockFormat)
	line := styleEntryTime.Render(start) + " " + styleEntryTask.Render(task)
	if end != "" {
		line += " " + styleEntryTime.Render(end)
	}
	return line
}

// entryColumns splits an entry into start, task name and end; end is empty while open.
func entryColumns(e *domain.TaskEntry, layout string) (string, string, string) {
	start := e.StartTime.Format(layout)
	if e.EndTime == nil {
		return start, e.TaskName, ""
	}
	return start, e.TaskName, e.EndTime.Format(layout)
}

func formatTotal(total time.Duration) string {
	return services.FormatHoursMinutes(total) + " hours"
}
