// Package session implements the start/stop state machine that keeps the
// open time entry, the store and the daily total in step.
package session

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"tictot/internal/clock"
	"tictot/internal/domain"
	"tictot/internal/errors"
	"tictot/internal/logging"
	"tictot/internal/services"
)

// Config holds the controller's collaborators.
type Config struct {
	Tasks   services.TaskRegistry
	Entries services.TimeEntryStore
	Clock   clock.Clock
	Logger  *slog.Logger
	// Storage is closed exactly once by Quit.
	Storage io.Closer
	// DefaultTaskName is used by Start when no name is given.
	DefaultTaskName string
}

// ActiveSession describes the running session.
type ActiveSession struct {
	Entry domain.TimeEntry
	Task  domain.Task
}

// Controller is the session state machine. All methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	tasks       services.TaskRegistry
	entries     services.TimeEntryStore
	agg         *services.Aggregator
	clock       clock.Clock
	log         *slog.Logger
	storage     io.Closer
	defaultTask string

	state     State
	current   *ActiveSession
	startedAt time.Time
	// accumulated display time of sessions stopped since the last Reset
	carried  time.Duration
	released bool
}

// NewController creates an idle controller. Call Init before Start.
func NewController(cfg Config) *Controller {
	defaultTask := strings.TrimSpace(cfg.DefaultTaskName)
	if defaultTask == "" {
		defaultTask = domain.DefaultTaskName
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Controller{
		tasks:       cfg.Tasks,
		entries:     cfg.Entries,
		agg:         services.NewAggregator(),
		clock:       cfg.Clock,
		log:         log,
		storage:     cfg.Storage,
		defaultTask: defaultTask,
		state:       Idle,
	}
}

// Init ensures the default task exists and seeds today's total. Entries
// left open by another process are reported but not touched, since that
// process may still be running; see RecoverOpenEntries.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return errors.NewInvalidTransitionError("initialize", "closed")
	}

	if _, err := c.tasks.GetOrCreate(ctx, c.defaultTask); err != nil {
		return err
	}

	open, err := c.entries.ListOpen(ctx)
	if err != nil {
		return err
	}
	for _, entry := range open {
		c.log.Warn("time entry is open in another process",
			"entry_id", entry.ID,
			"task_id", entry.TaskID,
			"start_time", entry.StartTime)
	}

	return c.seedDay(ctx, c.clock.Now())
}

// RecoverOpenEntries closes entries left open by a process that exited
// without stopping, at their own start time so no untracked time is
// invented. It returns the number of entries closed and is refused while
// this controller is running.
func (c *Controller) RecoverOpenEntries(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return 0, errors.NewInvalidTransitionError("recover", "closed")
	}
	if c.state != Idle {
		return 0, errors.NewInvalidTransitionError("recover", c.state.String())
	}

	open, err := c.entries.ListOpen(ctx)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, entry := range open {
		if _, err := c.entries.CloseEntry(ctx, entry.ID, entry.StartTime); err != nil {
			return closed, err
		}
		closed++
		c.log.Warn("closed stale open time entry",
			"entry_id", entry.ID,
			"task_id", entry.TaskID,
			"start_time", entry.StartTime)
	}
	return closed, nil
}

func (c *Controller) seedDay(ctx context.Context, day time.Time) error {
	entries, err := c.entries.ListByDate(ctx, day)
	if err != nil {
		return err
	}
	c.agg.Reset(day, entries)
	c.log.Debug("daily total seeded", "day", day.Format("2006-01-02"), "entries", len(entries), "total", c.agg.Total())
	return nil
}

// rollover reseeds the aggregator when the local day has changed.
func (c *Controller) rollover(ctx context.Context, now time.Time) error {
	day := c.agg.Day()
	if !day.IsZero() && domain.SameDay(now, day) {
		return nil
	}
	return c.seedDay(ctx, now)
}

// Start opens a new entry for the named task. A blank name uses the default task.
func (c *Controller) Start(ctx context.Context, name string) (*domain.TimeEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return nil, errors.NewInvalidTransitionError("start", "closed")
	}
	if c.state != Idle {
		return nil, errors.NewInvalidTransitionError("start", c.state.String())
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = c.defaultTask
	}

	task, err := c.tasks.GetOrCreate(ctx, name)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	// The store refuses a second open entry, so a session running in
	// another process surfaces here as a conflict.
	entry, err := c.entries.Create(ctx, domain.NewTimeEntry(task.ID, now))
	if err != nil {
		return nil, err
	}

	c.current = &ActiveSession{Entry: *entry, Task: *task}
	c.startedAt = now
	c.state = Running
	c.log.Info("session started", "task", task.Name, "entry_id", entry.ID)

	started := *entry
	return &started, nil
}

// Stop closes the open entry and returns it. A nil entry with a nil error
// means the entry had disappeared from the store; the controller is idle
// either way.
func (c *Controller) Stop(ctx context.Context) (*domain.TimeEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stopLocked(ctx)
}

func (c *Controller) stopLocked(ctx context.Context) (*domain.TimeEntry, error) {
	if c.state != Running {
		return nil, errors.NewInvalidTransitionError("stop", c.state.String())
	}
	c.state = Stopping

	entry := c.current.Entry
	end := c.clock.Now()
	if end.Before(entry.StartTime) {
		c.log.Warn("clock moved backwards, clamping end time", "entry_id", entry.ID, "start_time", entry.StartTime, "now", end)
		end = entry.StartTime
	}

	// Reseed before closing so a new day's total never counts this entry twice.
	rolloverErr := c.rollover(ctx, end)

	closed, err := c.entries.CloseEntry(ctx, entry.ID, end)
	if err != nil {
		// The entry is still open in the store, so the session keeps running.
		c.state = Running
		return nil, err
	}

	elapsed := c.clock.Elapsed(c.startedAt)
	c.carried += elapsed
	c.current = nil
	c.state = Idle

	if closed == nil {
		c.log.Warn("open time entry vanished before it could be closed", "entry_id", entry.ID)
		return nil, nil
	}

	if rolloverErr != nil {
		c.log.Error("refresh daily total", "error", rolloverErr)
	} else if !c.agg.Add(*closed) {
		c.log.Debug("closed entry not counted for today", "entry_id", closed.ID)
	}

	c.log.Info("session stopped", "entry_id", closed.ID, "duration", closed.Duration())
	return closed, nil
}

// Quit stops a running session and releases storage. Only the first call does
// any work. Errors are returned for reporting; storage is released regardless.
func (c *Controller) Quit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return nil
	}

	var stopErr error
	if c.state == Running {
		if _, err := c.stopLocked(ctx); err != nil {
			c.log.Error("close open entry on quit", "error", err)
			stopErr = err
		}
	}

	c.released = true
	c.state = Idle
	c.current = nil

	var releaseErr error
	if c.storage != nil {
		if err := c.storage.Close(); err != nil {
			c.log.Error("release storage", "error", err)
			releaseErr = errors.NewDatabaseError("close database", err)
		}
	}

	return stderrors.Join(stopErr, releaseErr)
}

// Reset clears the accumulated display time. It is refused while running.
func (c *Controller) Reset() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Idle {
		return false
	}
	c.carried = 0
	return true
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentElapsed is the running session's elapsed time, zero when idle.
func (c *Controller) CurrentElapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentElapsedLocked()
}

func (c *Controller) currentElapsedLocked() time.Duration {
	if c.state != Running {
		return 0
	}
	return c.clock.Elapsed(c.startedAt)
}

// DisplayElapsed is the stopwatch reading: stopped sessions since the last
// Reset plus the running one.
func (c *Controller) DisplayElapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.carried + c.currentElapsedLocked()
}

// DailyTotal is the sum of today's closed entries.
func (c *Controller) DailyTotal() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.agg.Total()
}

// Day is the calendar day the daily total refers to.
func (c *Controller) Day() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.agg.Day()
}

// Today lists today's entries joined with task names, ordered by start time.
func (c *Controller) Today(ctx context.Context) ([]*domain.TaskEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return nil, errors.NewInvalidTransitionError("list entries", "closed")
	}

	now := c.clock.Now()
	if err := c.rollover(ctx, now); err != nil {
		return nil, err
	}
	return c.entries.ListByDateWithTasks(ctx, now)
}

// Current returns the running session, or nil when idle.
func (c *Controller) Current() *ActiveSession {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	cur := *c.current
	return &cur
}
