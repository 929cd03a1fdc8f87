package services

import (
	"context"
	"time"

	"tictot/internal/domain"
	"tictot/internal/repository/sqlite"
	"tictot/internal/validation"
)

// TaskRegistry looks up tasks by name and owns name uniqueness
type TaskRegistry interface {
	// GetOrCreate returns the task with exactly this name, creating it if needed.
	GetOrCreate(ctx context.Context, name string) (*domain.Task, error)
	// GetByName returns nil, nil when no task has this name.
	GetByName(ctx context.Context, name string) (*domain.Task, error)
	Rename(ctx context.Context, name, newName string) (*domain.Task, error)
	Remove(ctx context.Context, taskID int64) error
	List(ctx context.Context) ([]*domain.Task, error)
}

// TimeEntryStore persists time entries and owns the open/closed lifecycle
type TimeEntryStore interface {
	Create(ctx context.Context, entry domain.TimeEntry) (*domain.TimeEntry, error)
	// Get returns nil, nil when the id does not exist.
	Get(ctx context.Context, id int64) (*domain.TimeEntry, error)
	// CloseEntry returns nil, nil when the id does not exist.
	CloseEntry(ctx context.Context, id int64, end time.Time) (*domain.TimeEntry, error)
	ListByDate(ctx context.Context, date time.Time) ([]*domain.TimeEntry, error)
	ListByDateWithTasks(ctx context.Context, date time.Time) ([]*domain.TaskEntry, error)
	Remove(ctx context.Context, id int64) error
	Update(ctx context.Context, entry domain.TimeEntry) (*domain.TimeEntry, error)
	ListOpen(ctx context.Context) ([]*domain.TimeEntry, error)
	ListWithTasks(ctx context.Context) ([]*domain.TaskEntry, error)
}

// Options configures service behaviour
type Options struct {
	TaskNameMaxLength int
	// StrictUpdates makes Rename and Update return NotFound instead of
	// creating the missing record.
	StrictUpdates bool
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	Tasks   TaskRegistry
	Entries TimeEntryStore
}

// NewServiceContainer wires the services over one repository
func NewServiceContainer(repo sqlite.Repository, opts Options) *ServiceContainer {
	v := validation.NewValidator(opts.TaskNameMaxLength)
	return &ServiceContainer{
		Tasks:   NewTaskRegistry(repo, v, opts),
		Entries: NewTimeEntryStore(repo, v, opts),
	}
}
