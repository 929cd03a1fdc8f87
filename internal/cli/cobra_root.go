package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tictot/internal/clock"
	"tictot/internal/config"
	"tictot/internal/tui"
)

// isTerminal is replaced in tests
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd          *cobra.Command
	loader       *config.Loader
	config       *config.Config
	out          io.Writer
	clock        clock.Clock
	errorHandler *ErrorHandler
}

// NewRootCommand creates the root cobra command with global flags. Command
// output goes to out.
func NewRootCommand(out io.Writer) *RootCommand {
	root := &RootCommand{
		loader:       config.NewLoader(),
		out:          out,
		errorHandler: NewErrorHandler(),
	}

	root.cmd = &cobra.Command{
		Use:   "tictot",
		Short: "A stopwatch that records where your day went",
		Long: `tictot is a terminal stopwatch that records each session against a named task.

Run without arguments to open the timer. Sessions are stored in SQLite and
summed per day.

EXAMPLES:
  tictot                                   # Open the timer
  tictot track "Code review"               # Track a task until Ctrl+C
  tictot today                             # Today's entries and total
  tictot export entries.csv                # Export every entry as CSV
  tictot rename "Email" "Inbox"            # Rename a task
  tictot recover                           # Close entries left open by a crash

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment
  variables > config file > defaults. The config file is config.yaml in the
  data directory unless --config is given.

    TICTOT_DATABASE_DIR                    Data directory (default: ~/.tictot)
    TICTOT_DATABASE_IN_MEMORY              Use a throwaway in-memory database
    TICTOT_SESSION_DEFAULT_TASK            Task used when none is named (default: Default)
    TICTOT_SESSION_STRICT_UPDATES          Fail edits of missing records instead of creating them
    TICTOT_DISPLAY_REFRESH_RATE            Timer redraws per second (default: 60)
    TICTOT_LOGGING_LEVEL                   debug, info, warn or error (default: info)
    TICTOT_DEBUG                           Force debug logging`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.runTUI(cmd.Context())
		},
	}
	root.cmd.SetOut(out)

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}

// SetArgs overrides the command line arguments
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file (default: config.yaml in the data directory)")
	flags.String("db-dir", "", "Data directory (overrides TICTOT_DATABASE_DIR)")
	flags.Bool("in-memory", false, "Use an in-memory database (overrides TICTOT_DATABASE_IN_MEMORY)")
	flags.String("default-task", "", "Task used when none is named (overrides TICTOT_SESSION_DEFAULT_TASK)")
	flags.Bool("strict", false, "Fail edits of missing records (overrides TICTOT_SESSION_STRICT_UPDATES)")
	flags.String("log-level", "", "Log level (overrides TICTOT_LOGGING_LEVEL)")
	flags.String("log-file", "", "Log file, or stderr (overrides TICTOT_LOGGING_FILE)")
}

var flagKeys = map[string]string{
	"db-dir":       "database.dir",
	"in-memory":    "database.in_memory",
	"default-task": "session.default_task",
	"strict":       "session.strict_updates",
	"log-level":    "logging.level",
	"log-file":     "logging.file",
}

// loadConfig binds the global flags and loads the configuration cascade
func (r *RootCommand) loadConfig() error {
	flags := r.cmd.PersistentFlags()

	for name, key := range flagKeys {
		if err := r.loader.BindFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}
	if path, _ := flags.GetString("config"); path != "" {
		r.loader.SetConfigFile(path)
	}

	cfg, err := r.loader.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	r.config = cfg
	return nil
}

// withApp opens the application for one command and always releases it.
// A release failure is reported only when the command itself succeeded.
func (r *RootCommand) withApp(ctx context.Context, fn func(ctx context.Context, app *App) error) error {
	app, err := NewApp(ctx, r.config, r.out, r.clock)
	if err != nil {
		return r.errorHandler.Handle("open storage", err)
	}

	runErr := fn(ctx, app)

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.config.Application.Timeout)
	defer cancel()
	closeErr := app.Close(closeCtx)

	if runErr != nil {
		return runErr
	}
	return r.errorHandler.Handle("release storage", closeErr)
}

// withTimeout runs a short storage command bounded by the application timeout
func (r *RootCommand) withTimeout(cmd *cobra.Command, fn func(ctx context.Context, app *App) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), r.config.Application.Timeout)
	defer cancel()
	return r.withApp(ctx, fn)
}

func (r *RootCommand) runTUI(ctx context.Context) error {
	if !isTerminal() {
		return fmt.Errorf("the timer needs an interactive terminal; use 'tictot track' instead")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	return r.withApp(ctx, func(ctx context.Context, app *App) error {
		return tui.Run(ctx, app.Controller(), tui.Options{
			RefreshInterval: r.config.RefreshInterval(),
			ClockFormat:     r.config.Display.ClockFormat,
			DateFormat:      r.config.Display.DateFormat,
			Timeout:         r.config.Application.Timeout,
		})
	})
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	trackCmd := &cobra.Command{
		Use:   "track [task name]",
		Short: "Track a task until interrupted",
		Long: `Start a session and keep it open until Ctrl+C or SIGTERM, then record it.

Without a task name the default task is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return r.withApp(ctx, func(ctx context.Context, app *App) error {
				return NewTrackCommand(app).Execute(ctx, args)
			})
		},
	}

	todayCmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's entries and total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context, app *App) error {
				return NewTodayCommand(app).Execute(ctx, args)
			})
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export FILE|-",
		Short: "Export every entry as CSV",
		Long: `Export every time entry joined with its task name as CSV.

Columns: id, task, start time, end time. Use - to write to standard output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context, app *App) error {
				return NewExportCommand(app).Execute(ctx, args)
			})
		},
	}

	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context, app *App) error {
				return NewTasksCommand(app).Execute(ctx, args)
			})
		},
	}

	renameCmd := &cobra.Command{
		Use:   "rename OLD NEW",
		Short: "Rename a task",
		Long: `Rename a task. If OLD does not exist a task named NEW is created,
unless strict updates are enabled.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context, app *App) error {
				return NewRenameCommand(app).Execute(ctx, args)
			})
		},
	}

	deleteTaskCmd := &cobra.Command{
		Use:   "delete-task NAME",
		Short: "Delete a task and all its time entries",
		Long:  "Delete a task and all its associated time entries. This operation cannot be undone.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context, app *App) error {
				return NewDeleteTaskCommand(app).Execute(ctx, args)
			})
		},
	}

	deleteEntryCmd := &cobra.Command{
		Use:   "delete-entry ID",
		Short: "Delete one time entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context, app *App) error {
				return NewDeleteEntryCommand(app).Execute(ctx, args)
			})
		},
	}

	editEntryCmd := &cobra.Command{
		Use:   "edit-entry ID START END",
		Short: "Correct the start and end of a time entry",
		Long: `Correct the start and end of a time entry.

Times are local and accept "2006-01-02 15:04", "2006-01-02 15:04:05" or RFC3339.
If ID does not exist a new entry is created, unless strict updates are enabled.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskName, _ := cmd.Flags().GetString("task")
			return r.withTimeout(cmd, func(ctx context.Context, app *App) error {
				return NewEditEntryCommand(app, taskName).Execute(ctx, args)
			})
		},
	}
	editEntryCmd.Flags().String("task", "", "Move the entry to this task")

	recoverCmd := &cobra.Command{
		Use:   "recover",
		Short: "Close entries left open by a crashed session",
		Long: `Close every open time entry at its own start time, so no untracked time
is recorded. Only run this when no other tictot is tracking.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context, app *App) error {
				return NewRecoverCommand(app).Execute(ctx, args)
			})
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewConfigCommand(r.config, r.loader.ConfigFileUsed(), r.out).Execute()
		},
	}

	r.cmd.AddCommand(
		trackCmd,
		todayCmd,
		exportCmd,
		tasksCmd,
		renameCmd,
		deleteTaskCmd,
		deleteEntryCmd,
		editEntryCmd,
		recoverCmd,
		configCmd,
	)
}
