package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tictot/internal/clock"
	"tictot/internal/domain"
	"tictot/internal/errors"
	"tictot/internal/repository/sqlite"
	"tictot/internal/services"
	"tictot/internal/session"
)

var t0 = time.Date(2024, 3, 4, 9, 0, 0, 0, time.Local)

func setupModel(t *testing.T, opts Options) (Model, *session.Controller, *clockwork.FakeClock) {
	t.Helper()

	repo, err := sqlite.New(sqlite.InMemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	fake := clockwork.NewFakeClockAt(t0)
	svc := services.NewServiceContainer(repo, services.Options{})
	ctrl := session.NewController(session.Config{
		Tasks:   svc.Tasks,
		Entries: svc.Entries,
		Clock:   clock.New(fake),
	})
	require.NoError(t, ctrl.Init(context.Background()))

	return NewModel(ctrl, opts), ctrl, fake
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds msg to the model and resolves a follow-up entries load, if any.
func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func loadToday(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = send(t, m, m.loadEntries()())
	return m
}

func TestModel_ToggleStartsAndStops(t *testing.T) {
	// Arrange
	m, ctrl, fake := setupModel(t, Options{})

	// Act
	m, cmd := send(t, m, runes("s"))

	// Assert
	require.NotNil(t, cmd)
	assert.Equal(t, session.Running, ctrl.State())
	assert.Equal(t, domain.DefaultTaskName, ctrl.Current().Task.Name)

	fake.Advance(5 * time.Minute)
	m, cmd = send(t, m, runes("s"))
	require.NotNil(t, cmd)
	m, _ = send(t, m, cmd())

	assert.Equal(t, session.Idle, ctrl.State())
	require.Len(t, m.entries, 1)
	assert.Equal(t, 5*time.Minute, ctrl.DailyTotal())
	assert.NoError(t, m.err)
}

func TestModel_TypedTaskThenEnter(t *testing.T) {
	// Arrange
	m, ctrl, _ := setupModel(t, Options{})

	// Act
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, m.input.Focused())
	m, _ = send(t, m, runes("Writing"))
	m, _ = send(t, m, runes("s"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	// Assert
	assert.False(t, m.input.Focused())
	assert.Equal(t, "Writings", m.input.Value())
	require.Equal(t, session.Running, ctrl.State())
	assert.Equal(t, "Writings", ctrl.Current().Task.Name)
}

func TestModel_EnterSwitchesRunningTask(t *testing.T) {
	// Arrange
	m, ctrl, fake := setupModel(t, Options{InitialTask: "Email"})
	m, _ = send(t, m, runes("s"))
	fake.Advance(10 * time.Minute)
	m.input.SetValue("Review")

	// Act
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = send(t, m, cmd())

	// Assert
	require.Equal(t, session.Running, ctrl.State())
	assert.Equal(t, "Review", ctrl.Current().Task.Name)
	require.Len(t, m.entries, 2)
	assert.Equal(t, "Email", m.entries[0].TaskName)
	assert.False(t, m.entries[0].IsOpen())
	assert.True(t, m.entries[1].IsOpen())
	assert.Equal(t, 10*time.Minute, ctrl.DailyTotal())
}

func TestModel_Reset(t *testing.T) {
	tests := []struct {
		name       string
		running    bool
		wantNotice string
	}{
		{name: "idle clears display", running: false, wantNotice: ""},
		{name: "running is refused", running: true, wantNotice: "stop the timer before resetting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			m, ctrl, fake := setupModel(t, Options{})
			m, _ = send(t, m, runes("s"))
			fake.Advance(time.Minute)
			if !tt.running {
				m, _ = send(t, m, runes("s"))
			}

			// Act
			m, _ = send(t, m, runes("r"))

			// Assert
			assert.Equal(t, tt.wantNotice, m.notice)
			if tt.running {
				assert.Equal(t, time.Minute, ctrl.DisplayElapsed())
			} else {
				assert.Zero(t, ctrl.DisplayElapsed())
			}
		})
	}
}

func TestModel_Quit(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{name: "q", msg: runes("q")},
		{name: "ctrl+c", msg: tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := setupModel(t, Options{})

			_, cmd := send(t, m, tt.msg)

			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestModel_QWhileTypingIsText(t *testing.T) {
	m, _, _ := setupModel(t, Options{})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})

	m, _ = send(t, m, runes("q"))

	assert.Equal(t, "q", m.input.Value())
	assert.True(t, m.input.Focused())
}

func TestModel_TickReschedules(t *testing.T) {
	m, _, _ := setupModel(t, Options{RefreshInterval: time.Millisecond})

	m, cmd := send(t, m, tickMsg(t0.Add(time.Minute)))

	assert.NotNil(t, cmd)
	assert.False(t, m.loading, "same day needs no reload")
}

func TestModel_TickAfterMidnightRefreshesDay(t *testing.T) {
	tests := []struct {
		name            string
		advance         time.Duration
		expectedLoading bool
		expectedHeader  string
	}{
		{
			name:            "same day",
			advance:         time.Hour,
			expectedLoading: false,
			expectedHeader:  "Mon, Mar 04",
		},
		{
			name:            "next day",
			advance:         24 * time.Hour,
			expectedLoading: true,
			expectedHeader:  "Tue, Mar 05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			m, ctrl, fake := setupModel(t, Options{InitialTask: "Writing", RefreshInterval: time.Millisecond})
			m, _ = send(t, m, runes("s"))
			fake.Advance(30 * time.Minute)
			m, _ = send(t, m, runes("s"))
			m = loadToday(t, m)
			fake.Advance(tt.advance)

			// Act
			m, cmd := send(t, m, tickMsg(fake.Now()))

			// Assert
			require.NotNil(t, cmd)
			assert.Equal(t, tt.expectedLoading, m.loading)
			if tt.expectedLoading {
				// A second tick while loading does not queue another reload.
				again, _ := send(t, m, tickMsg(fake.Now()))
				assert.True(t, again.loading)

				batch, ok := cmd().(tea.BatchMsg)
				require.True(t, ok)
				for _, c := range batch {
					if msg, ok := c().(entriesMsg); ok {
						m, _ = send(t, m, msg)
					}
				}
				assert.False(t, m.loading)
				assert.Empty(t, m.entries)
				assert.Equal(t, time.Duration(0), ctrl.DailyTotal())
			}
			assert.Contains(t, m.View(), tt.expectedHeader)
		})
	}
}

// busyController reports a session held open by another process
type busyController struct {
	*session.Controller
}

func (c busyController) Start(ctx context.Context, name string) (*domain.TimeEntry, error) {
	return nil, errors.NewConflictError("open time entry", "1")
}

func TestModel_StartConflictShowsRecoverHint(t *testing.T) {
	// Arrange
	_, ctrl, _ := setupModel(t, Options{})
	m := NewModel(busyController{ctrl}, Options{})

	// Act
	m, _ = send(t, m, runes("s"))

	// Assert
	assert.NoError(t, m.err)
	assert.Equal(t, session.Idle, ctrl.State())
	assert.Contains(t, m.View(), "tictot recover")
}

func TestModel_EntriesLoadError(t *testing.T) {
	m, _, _ := setupModel(t, Options{})

	m, _ = send(t, m, entriesMsg{err: errors.NewDatabaseError("list", nil)})

	require.Error(t, m.err)
	assert.Contains(t, m.View(), "A database error occurred")
}

func TestModel_EnterWithBlankInputUsesDefaultTask(t *testing.T) {
	m, ctrl, _ := setupModel(t, Options{})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, session.Running, ctrl.State())
	assert.Equal(t, domain.DefaultTaskName, ctrl.Current().Task.Name)
	assert.NoError(t, m.err)
}

func TestModel_View(t *testing.T) {
	// Arrange
	m, _, fake := setupModel(t, Options{InitialTask: "Writing"})
	m, _ = send(t, m, runes("s"))
	fake.Advance(90 * time.Minute)
	m, _ = send(t, m, runes("s"))
	m = loadToday(t, m)

	// Act
	view := m.View()

	// Assert
	assert.Contains(t, view, "Mon, Mar 04")
	assert.Contains(t, view, "01:30:00.00")
	assert.Contains(t, view, "09:00 Writing 10:30")
	assert.Contains(t, view, "01:30 hours")
	assert.Contains(t, view, iconIdle+" idle")
}

func TestModel_ViewRunning(t *testing.T) {
	m, _, fake := setupModel(t, Options{InitialTask: "Writing"})
	m, _ = send(t, m, runes("s"))
	fake.Advance(2*time.Second + 500*time.Millisecond)
	m = loadToday(t, m)

	view := m.View()

	assert.Contains(t, view, "00:00:02.50")
	assert.Contains(t, view, iconRunning+" Writing")
	assert.Contains(t, view, "00:00 hours")
}

func TestEntryColumns(t *testing.T) {
	end := t0.Add(45 * time.Minute)
	tests := []struct {
		name      string
		entry     *domain.TaskEntry
		wantStart string
		wantEnd   string
	}{
		{
			name:      "closed",
			entry:     &domain.TaskEntry{TimeEntry: domain.TimeEntry{StartTime: t0, EndTime: &end}, TaskName: "Writing"},
			wantStart: "09:00",
			wantEnd:   "09:45",
		},
		{
			name:      "open",
			entry:     &domain.TaskEntry{TimeEntry: domain.TimeEntry{StartTime: t0}, TaskName: "Writing"},
			wantStart: "09:00",
			wantEnd:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, task, end := entryColumns(tt.entry, "15:04")

			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, "Writing", task)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}
