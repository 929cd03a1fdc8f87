package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"

	"tictot/internal/clock"
	"tictot/internal/config"
	"tictot/internal/logging"
	"tictot/internal/services"
	"tictot/internal/session"
)

// App holds everything a command needs: storage, services and the session
// controller, all built from one configuration.
type App struct {
	config    *config.Config
	out       io.Writer
	log       *slog.Logger
	logCloser io.Closer
	services  *services.ServiceContainer
	ctrl      *session.Controller
}

// NewApp opens storage and initializes the session controller. A nil clock
// means the system clock. The returned App must be closed.
func NewApp(ctx context.Context, cfg *config.Config, out io.Writer, clk clock.Clock) (*App, error) {
	log, logCloser, err := logging.Open(cfg.LoggingSettings())
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}

	repo, err := config.CreateRepository(ctx, cfg)
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	if clk == nil {
		clk = clock.Real()
	}

	svc := services.NewServiceContainer(repo, services.Options{
		TaskNameMaxLength: cfg.Validation.TaskNameMaxLength,
		StrictUpdates:     cfg.Session.StrictUpdates,
	})
	ctrl := session.NewController(session.Config{
		Tasks:           svc.Tasks,
		Entries:         svc.Entries,
		Clock:           clk,
		Logger:          log,
		Storage:         repo,
		DefaultTaskName: cfg.Session.DefaultTask,
	})

	app := &App{
		config:    cfg,
		out:       out,
		log:       log,
		logCloser: logCloser,
		services:  svc,
		ctrl:      ctrl,
	}

	if err := ctrl.Init(ctx); err != nil {
		return nil, stderrors.Join(err, app.Close(ctx))
	}

	log.Debug("storage opened", "path", cfg.GetDatabasePath())
	return app, nil
}

// Controller returns the session controller.
func (a *App) Controller() *session.Controller {
	return a.ctrl
}

// Close stops a running session and releases storage. It is safe to call
// more than once.
func (a *App) Close(ctx context.Context) error {
	err := a.ctrl.Quit(ctx)
	if err != nil {
		a.log.Error("shutdown failed", "error", err)
	} else {
		a.log.Debug("storage released")
	}
	if cerr := a.logCloser.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to close log: %w", cerr)
	}
	return err
}
