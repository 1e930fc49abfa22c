package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tasklist/internal/config"
	"tasklist/internal/format"
	"tasklist/internal/store"
	"tasklist/internal/tasks"
	"tasklist/internal/telemetry"
	"tasklist/internal/theme"
	"tasklist/internal/tui"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string
	LogLevel   string

	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
	tasks  *tasks.Store
	theme  *theme.Store
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tasklist",
		Short:        "A small task list: terminal UI, web UI and scriptable CLI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tasklist

  # Scriptable commands
  tasklist tasks add --title "Buy milk"
  tasklist tasks list --filter pending --sort newest

  # Direct task lookup (shortcut for: tasklist tasks show <task-id>)
  tasklist 3f1c2a9e-5b7d-4c1e-9a0f-2d6b8e4c7a51
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI, or the list when output is piped.
			if isInteractive(cmd) {
				return runTUI(cmd, app)
			}
			return runList(cmd, app, "", "")
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return writeErr(cmd, fmt.Errorf("load config: %w", err))
		}
		app.cfg = cfg
		if strings.TrimSpace(app.Dir) == "" {
			app.Dir = cfg.Dir
		}
		if strings.TrimSpace(app.LogLevel) == "" {
			app.LogLevel = cfg.LogLevel
		}
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.closer != nil {
			return app.closer.Close()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("TASKLIST_DIR", ""), "Storage directory (default: config dir)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TASKLIST_FORMAT", "json"), "Output format (json|yaml)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newThemeCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func isInteractive(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// openStores sets up logging and both stores. Quiet keeps log records off
// stderr, for commands whose output is data or a full-screen UI.
func openStores(ctx context.Context, app *App, quiet bool) error {
	if app.tasks != nil {
		return nil
	}
	st := store.Store{Dir: app.Dir}
	if err := st.Ensure(); err != nil {
		return fmt.Errorf("storage dir: %w", err)
	}
	logger, closer, err := telemetry.NewLogger(app.Dir, app.LogLevel, quiet)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	app.logger = logger
	app.closer = closer
	app.tasks = tasks.Open(ctx, st, logger)
	app.theme = theme.Open(ctx, st, logger)
	return nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	if err := openStores(cmd.Context(), app, true); err != nil {
		return writeErr(cmd, err)
	}
	return tui.Run(cmd.Context(), tui.Options{
		Dir:    app.Dir,
		Tasks:  app.tasks,
		Theme:  app.theme,
		Logger: app.logger,
		Filter: app.cfg.TUI.Filter,
		Sort:   app.cfg.TUI.Sort,
		Glyphs: app.cfg.TUI.Glyphs,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeOutTo(w io.Writer, app *App, v any) error {
	return format.Write(w, v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
