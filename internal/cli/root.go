package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitify-app/gitify-cli/internal/config"
)

// NewRootCmd builds the full command tree around a lazily constructed App.
//
// LAZY CONSTRUCTION:
// The App opens a database and reads config files, so it is built in
// PersistentPreRunE — after cobra has parsed --config but before any
// subcommand runs. Help and completion never touch the disk.
func NewRootCmd() *cobra.Command {
	var (
		cfgPath string
		app     *App
	)

	root := &cobra.Command{
		Use:   "gitify",
		Short: "Turn your codebase into a GitHub repo with a realistic commit history",
		Long: `gitify is the command-line client for Gitify.

Upload a zipped codebase, pick a date range and a commit count, and the
backend pushes it to GitHub as a series of AI-authored commits spread
across that range.

Sign in first with: gitify login`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			logger := newLogger(cfg.LogLevel)
			a, err := NewApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app != nil {
				return app.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(),
		"path to the config file")

	// Subcommands receive the App through a getter because it does not
	// exist until PersistentPreRunE has run.
	get := func() *App { return app }

	root.AddCommand(
		newLoginCmd(get),
		newLogoutCmd(get),
		newWhoamiCmd(get),
		newDashboardCmd(get),
		newProjectsCmd(get),
		newProfileCmd(get),
		newNotificationsCmd(get),
		newPaymentCmd(get),
	)

	return root
}

// Execute runs the CLI and returns a process exit code.
func Execute(ctx context.Context) int {
	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// newLogger builds the process logger. Commands print their results to
// stdout; the logger narrates to stderr so piping output stays clean.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
