package cli

import (
	"context"
	"fmt"
	"strings"

	"tictot/internal/errors"
)

// TasksCommand lists every task
type TasksCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewTasksCommand creates a new tasks command handler
func NewTasksCommand(app *App) *TasksCommand {
	return &TasksCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the tasks command
func (c *TasksCommand) Execute(ctx context.Context, args []string) error {
	tasks, err := c.app.services.Tasks.List(ctx)
	if err != nil {
		return c.errorHandler.Handle("list tasks", err)
	}
	for _, task := range tasks {
		fmt.Fprintf(c.app.out, "%d\t%s\n", task.ID, task.Name)
	}
	return nil
}

// RenameCommand renames a task
type RenameCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewRenameCommand creates a new rename command handler
func NewRenameCommand(app *App) *RenameCommand {
	return &RenameCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the rename command with args OLD NEW
func (c *RenameCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.NewInvalidInputError("command", "rename", "usage: tictot rename OLD NEW")
	}

	task, err := c.app.services.Tasks.Rename(ctx, args[0], args[1])
	if err != nil {
		return c.errorHandler.Handle("rename task", err)
	}
	fmt.Fprintf(c.app.out, "Renamed task %s to %s\n", strings.TrimSpace(args[0]), task.Name)
	return nil
}

// DeleteTaskCommand removes a task and all of its entries
type DeleteTaskCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewDeleteTaskCommand creates a new delete-task command handler
func NewDeleteTaskCommand(app *App) *DeleteTaskCommand {
	return &DeleteTaskCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the delete-task command
func (c *DeleteTaskCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("command", "delete-task", "usage: tictot delete-task NAME")
	}
	name := strings.Join(args, " ")

	task, err := c.app.services.Tasks.GetByName(ctx, name)
	if err != nil {
		return c.errorHandler.Handle("find task", err)
	}
	if task == nil {
		return c.errorHandler.Handle("delete task", errors.NewNotFoundError("task", name))
	}

	if err := c.app.services.Tasks.Remove(ctx, task.ID); err != nil {
		return c.errorHandler.Handle("delete task", err)
	}
	fmt.Fprintf(c.app.out, "Deleted task %s and its entries\n", task.Name)
	return nil
}
