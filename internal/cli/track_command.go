package cli

import (
	"context"
	"fmt"
	"strings"

	"tictot/internal/services"
)

const openSessionHint = "another session is still open; if no other tictot is running, use 'tictot recover'"

// TrackCommand runs a session without the TUI until ctx is cancelled
type TrackCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewTrackCommand creates a new track command handler
func NewTrackCommand(app *App) *TrackCommand {
	return &TrackCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Execute starts a session for the task named by args and stops it when ctx is done
func (c *TrackCommand) Execute(ctx context.Context, args []string) error {
	ctrl := c.app.ctrl
	name := strings.Join(args, " ")

	if _, err := ctrl.Start(ctx, name); err != nil {
		if c.errorHandler.IsConflictError(err) {
			return fmt.Errorf("failed to start session: %s", openSessionHint)
		}
		return c.errorHandler.Handle("start session", err)
	}
	cur := ctrl.Current()
	fmt.Fprintf(c.app.out, "Tracking %s since %s (press Ctrl+C to stop)\n",
		cur.Task.Name, cur.Entry.StartTime.Format(c.app.config.Display.ClockFormat))

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.app.config.Application.Timeout)
	defer cancel()

	entry, err := ctrl.Stop(stopCtx)
	if err != nil {
		return c.errorHandler.Handle("stop session", err)
	}
	if entry != nil {
		fmt.Fprintf(c.app.out, "Stopped %s after %s\n", cur.Task.Name, services.FormatDuration(entry.Duration()))
	}
	fmt.Fprintf(c.app.out, "Today: %s hours\n", services.FormatHoursMinutes(ctrl.DailyTotal()))
	return nil
}
