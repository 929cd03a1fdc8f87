package cli

import (
	"context"
	"fmt"
)

// RecoverCommand closes entries left open by a tictot that exited without stopping
type RecoverCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewRecoverCommand creates a new recover command handler
func NewRecoverCommand(app *App) *RecoverCommand {
	return &RecoverCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the recover command
func (c *RecoverCommand) Execute(ctx context.Context, args []string) error {
	closed, err := c.app.ctrl.RecoverOpenEntries(ctx)
	if err != nil {
		return c.errorHandler.Handle("recover open entries", err)
	}

	if closed == 0 {
		fmt.Fprintln(c.app.out, "No open entries")
		return nil
	}
	fmt.Fprintf(c.app.out, "Closed %d open entries at their start time\n", closed)
	return nil
}
