package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"tictot/internal/domain"
	"tictot/internal/errors"
	"tictot/internal/export"
	"tictot/internal/validation"
)

func parseEntryID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidInputError("id", arg, "must be a positive integer")
	}
	return id, nil
}

// DeleteEntryCommand removes one time entry
type DeleteEntryCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewDeleteEntryCommand creates a new delete-entry command handler
func NewDeleteEntryCommand(app *App) *DeleteEntryCommand {
	return &DeleteEntryCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the delete-entry command
func (c *DeleteEntryCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "delete-entry", "usage: tictot delete-entry ID")
	}
	id, err := parseEntryID(args[0])
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}

	if err := c.app.services.Entries.Remove(ctx, id); err != nil {
		return c.errorHandler.Handle("delete entry", err)
	}
	fmt.Fprintf(c.app.out, "Deleted entry %d\n", id)
	return nil
}

// EditEntryCommand corrects the start and end of an entry
type EditEntryCommand struct {
	app          *App
	taskName     string
	validator    *validation.TimeEntryValidator
	errorHandler *ErrorHandler
}

// NewEditEntryCommand creates a new edit-entry command handler. taskName,
// when set, moves the entry to that task.
func NewEditEntryCommand(app *App, taskName string) *EditEntryCommand {
	return &EditEntryCommand{
		app:          app,
		taskName:     taskName,
		validator:    validation.NewTimeEntryValidator(validation.NewValidator(app.config.Validation.TaskNameMaxLength)),
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the edit-entry command with args ID START END
func (c *EditEntryCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.NewInvalidInputError("command", "edit-entry", "usage: tictot edit-entry ID START END")
	}
	id, err := parseEntryID(args[0])
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}
	start, err := c.validator.ParseTimestamp("start_time", args[1], time.Local)
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}
	end, err := c.validator.ParseTimestamp("end_time", args[2], time.Local)
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}

	taskID, err := c.resolveTask(ctx, id)
	if err != nil {
		return c.errorHandler.Handle("resolve task", err)
	}

	updated, err := c.app.services.Entries.Update(ctx, domain.TimeEntry{
		ID:        id,
		TaskID:    taskID,
		StartTime: start,
		EndTime:   &end,
	})
	if err != nil {
		return c.errorHandler.Handle("edit entry", err)
	}

	fmt.Fprintf(c.app.out, "Entry %d: %s to %s\n", updated.ID,
		updated.StartTime.Format(export.TimeLayout), updated.EndTime.Format(export.TimeLayout))
	return nil
}

// resolveTask picks the entry's task: the --task flag, else the entry's own
// task, else the default task for an entry that does not exist yet.
func (c *EditEntryCommand) resolveTask(ctx context.Context, id int64) (int64, error) {
	if c.taskName != "" {
		task, err := c.app.services.Tasks.GetOrCreate(ctx, c.taskName)
		if err != nil {
			return 0, err
		}
		return task.ID, nil
	}

	existing, err := c.app.services.Entries.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.TaskID, nil
	}

	task, err := c.app.services.Tasks.GetOrCreate(ctx, c.app.config.Session.DefaultTask)
	if err != nil {
		return 0, err
	}
	return task.ID, nil
}
