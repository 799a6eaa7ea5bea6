package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"recipe-keeper/internal/config"
	"recipe-keeper/internal/format"
	"recipe-keeper/internal/logging"
	"recipe-keeper/internal/session"
	"recipe-keeper/internal/store"
	"recipe-keeper/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigDir  string
	DB         string
	LogLevel   string
	PrettyJSON bool
	Format     string

	cfg config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "recipekeeper",
		Short:        "Recipe keeper (SQLite-backed) CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  recipekeeper

  # Scriptable commands
  recipekeeper new "Chocolate Cake"
  recipekeeper list --search cake

  # Direct recipe lookup (shortcut for: recipekeeper show <id>)
  recipekeeper 3
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !format.Valid(app.Format) {
			return writeErr(cmd, fmt.Errorf("unknown output format: %s (want json|edn)", app.Format))
		}
		cfg, err := config.Load(app.ConfigDir, config.Overrides{DB: app.DB, LogLevel: app.LogLevel})
		if err != nil {
			return writeErr(cmd, err)
		}
		app.cfg = cfg
		// Commands log to stderr; the TUI switches to its log file in runTUI.
		logging.ToWriter(cmd.ErrOrStderr(), cfg.LogLevel)
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr(config.DirEnv, ""), "Directory holding config.yaml, ui_state.json and the log (default ~/.recipekeeper)")
	cmd.PersistentFlags().StringVar(&app.DB, "db", "", "Path to the SQLite database (default: db from config, else ./recipes.db)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format-out", envOr("RECIPEKEEPER_FORMAT_OUT", format.JSON), "Output format (json|edn)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newNewCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newSaveCmd(app))
	cmd.AddCommand(newFormatCmd(app))
	cmd.AddCommand(newExportCmd(app))

	return cmd
}

func runTUI(ctx context.Context, app *App) error {
	closeLog, err := logging.ToFile(app.cfg.LogFile, app.cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctrl, err := openSession(ctx, app)
	if err != nil {
		return err
	}
	return tui.Run(ctx, tui.Options{
		Controller: ctrl,
		DBPath:     app.cfg.DB,
		StateDir:   app.cfg.Dir,
	})
}

// openSession opens the configured database, creating the schema if needed,
// and loads the first list page.
func openSession(ctx context.Context, app *App) (*session.Controller, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctrl := session.New(store.NewSQLite(app.cfg.DB), app.cfg.Sort)
	if err := ctrl.Open(ctx); err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "database opened", "path", app.cfg.DB)
	return ctrl, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID(s)
	}
	return id, nil
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

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
