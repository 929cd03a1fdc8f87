package cli

import (
	"context"
	"fmt"
	"os"

	"tictot/internal/errors"
	"tictot/internal/export"
)

// ExportCommand writes every entry as CSV to a file or standard output
type ExportCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the export command. A target of "-" writes to the command output.
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return errors.NewInvalidInputError("command", "export", "usage: tictot export FILE|-")
	}
	target := args[0]

	if target == "-" {
		_, err := export.CSV(ctx, c.app.services.Entries, c.app.out)
		return c.errorHandler.Handle("export entries", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return c.errorHandler.Handle("create export file", err)
	}

	n, err := export.CSV(ctx, c.app.services.Entries, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return c.errorHandler.Handle("export entries", err)
	}

	fmt.Fprintf(c.app.out, "Exported %d entries to %s\n", n, target)
	return nil
}
