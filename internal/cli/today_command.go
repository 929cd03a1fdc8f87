package cli

import (
	"context"
	"fmt"

	"tictot/internal/services"
)

// TodayCommand prints today's entries and the daily total
type TodayCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewTodayCommand creates a new today command handler
func NewTodayCommand(app *App) *TodayCommand {
	return &TodayCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the today command
func (c *TodayCommand) Execute(ctx context.Context, args []string) error {
	ctrl := c.app.ctrl
	entries, err := ctrl.Today(ctx)
	if err != nil {
		return c.errorHandler.Handle("list today's entries", err)
	}

	display := c.app.config.Display
	fmt.Fprintln(c.app.out, ctrl.Day().Format(display.DateFormat))

	if len(entries) == 0 {
		fmt.Fprintln(c.app.out, "No entries today")
	}
	for _, e := range entries {
		start := e.StartTime.Format(display.ClockFormat)
		if e.IsOpen() {
			fmt.Fprintf(c.app.out, "%s %s (open)\n", start, e.TaskName)
			continue
		}
		fmt.Fprintf(c.app.out, "%s %s %s\n", start, e.TaskName, e.EndTime.Format(display.ClockFormat))
	}

	fmt.Fprintf(c.app.out, "Total: %s hours\n", services.FormatHoursMinutes(ctrl.DailyTotal()))
	return nil
}
