package services

import (
	"context"
	"strings"

	"tictot/internal/domain"
	"tictot/internal/errors"
	"tictot/internal/repository/sqlite"
	"tictot/internal/validation"
)

// taskRegistryImpl implements the TaskRegistry interface
type taskRegistryImpl struct {
	repo          sqlite.Repository
	mapper        *domain.Mapper
	taskValidator *validation.TaskValidator
	strict        bool
}

// NewTaskRegistry creates a new TaskRegistry instance
func NewTaskRegistry(repo sqlite.Repository, v *validation.Validator, opts Options) TaskRegistry {
	return &taskRegistryImpl{
		repo:          repo,
		mapper:        domain.NewMapper(),
		taskValidator: validation.NewTaskValidator(v),
		strict:        opts.StrictUpdates,
	}
}

// validateAndTrimTaskName validates and trims a task name
func (r *taskRegistryImpl) validateAndTrimTaskName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if err := r.taskValidator.ValidateTaskName(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}

func (r *taskRegistryImpl) toDomain(dbTask *sqlite.Task) *domain.Task {
	task := r.mapper.Task.FromDatabase(*dbTask)
	return &task
}

// GetOrCreate returns the task with the given name, creating it on first use
func (r *taskRegistryImpl) GetOrCreate(ctx context.Context, name string) (*domain.Task, error) {
	trimmed, err := r.validateAndTrimTaskName(name)
	if err != nil {
		return nil, err
	}

	dbTask, err := r.repo.GetOrCreateTask(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	return r.toDomain(dbTask), nil
}

// GetByName returns the task with the given name or nil when there is none
func (r *taskRegistryImpl) GetByName(ctx context.Context, name string) (*domain.Task, error) {
	return findTaskByName(ctx, r.repo, r.mapper, strings.TrimSpace(name))
}

func findTaskByName(ctx context.Context, repo sqlite.Repository, mapper *domain.Mapper, name string) (*domain.Task, error) {
	dbTask, err := repo.GetTaskByName(ctx, name)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	task := mapper.Task.FromDatabase(*dbTask)
	return &task, nil
}

// Rename changes a task's name. When name does not exist it behaves as
// GetOrCreate(newName), unless strict updates are enabled. Renaming an existing
// task onto another task's name is a conflict.
func (r *taskRegistryImpl) Rename(ctx context.Context, name, newName string) (*domain.Task, error) {
	oldName := strings.TrimSpace(name)
	trimmedNew, err := r.validateAndTrimTaskName(newName)
	if err != nil {
		return nil, err
	}

	var result *domain.Task
	err = r.repo.WithinTx(ctx, func(tx sqlite.Repository) error {
		current, err := findTaskByName(ctx, tx, r.mapper, oldName)
		if err != nil {
			return err
		}

		target, err := findTaskByName(ctx, tx, r.mapper, trimmedNew)
		if err != nil {
			return err
		}

		if current == nil {
			if r.strict {
				return errors.NewNotFoundError("task", oldName)
			}
			created, err := tx.GetOrCreateTask(ctx, trimmedNew)
			if err != nil {
				return err
			}
			result = r.toDomain(created)
			return nil
		}

		if target != nil && target.ID != current.ID {
			return errors.NewConflictError("task", trimmedNew)
		}

		dbTask := r.mapper.Task.ToDatabase(domain.Task{ID: current.ID, Name: trimmedNew})
		if err := tx.UpdateTask(ctx, &dbTask); err != nil {
			return err
		}
		result = r.toDomain(&dbTask)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Remove deletes a task and all of its time entries
func (r *taskRegistryImpl) Remove(ctx context.Context, taskID int64) error {
	if err := r.taskValidator.ValidateTaskID(taskID); err != nil {
		return err
	}
	return r.repo.DeleteTask(ctx, taskID)
}

// List returns all tasks ordered by name
func (r *taskRegistryImpl) List(ctx context.Context) ([]*domain.Task, error) {
	dbTasks, err := r.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	tasks := make([]*domain.Task, 0, len(dbTasks))
	for _, dbTask := range dbTasks {
		tasks = append(tasks, r.toDomain(dbTask))
	}
	return tasks, nil
}
