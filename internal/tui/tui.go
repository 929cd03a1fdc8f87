// Package tui renders the interactive stopwatch over a session controller.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tictot/internal/domain"
	"tictot/internal/session"
)

// Controller is the part of the session controller the screen drives.
// Quit is left to the caller so storage is released on every exit path.
type Controller interface {
	Start(ctx context.Context, name string) (*domain.TimeEntry, error)
	Stop(ctx context.Context) (*domain.TimeEntry, error)
	Reset() bool
	State() session.State
	DisplayElapsed() time.Duration
	DailyTotal() time.Duration
	Day() time.Time
	Today(ctx context.Context) ([]*domain.TaskEntry, error)
	Current() *session.ActiveSession
}

// Program is an alias for tea.Program.
type Program = tea.Program

// NewProgram creates a full-screen program for the controller.
func NewProgram(ctrl Controller, opts Options, progOpts ...tea.ProgramOption) *Program {
	allOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
	}
	allOpts = append(allOpts, progOpts...)

	return tea.NewProgram(NewModel(ctrl, opts), allOpts...)
}

// Run runs the program until the user quits or ctx is cancelled.
func Run(ctx context.Context, ctrl Controller, opts Options) error {
	p := NewProgram(ctrl, opts, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
