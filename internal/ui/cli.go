// Package ui provides the rota command line interface.
package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/rota/internal/compliance"
	"github.com/javiermolinar/rota/internal/config"
	"github.com/javiermolinar/rota/internal/db"
	"github.com/javiermolinar/rota/internal/logging"
	"github.com/javiermolinar/rota/internal/roster"
	"github.com/javiermolinar/rota/internal/shift"
	"github.com/javiermolinar/rota/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo   shift.Repository
	svc    *roster.Service
	config *config.Config
	log    *zap.Logger
	root   *cobra.Command
	debug  bool // Enable debug logging
}

// NewApp creates a new CLI application. repo may be nil; it is opened from
// the configured database path on first use.
func NewApp(repo shift.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg, log: zap.NewNop()}

	a.root = &cobra.Command{
		Use:   "rota",
		Short: "A terminal roster for shift scheduling",
		Long: `rota shows duty shifts on a week/day grid.

Shifts can be moved with the mouse or the keyboard, are checked against
working-time rules, and can be imported from CSV or xlsx files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			log, err := logging.New(a.debug, logging.DebugLogPath)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			a.log = log
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = a.log.Sync()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.Run(a.config, a.log)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging to "+logging.DebugLogPath)

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.checkCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.exportCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rota %s (commit: %s)\n", Version, Commit)
		},
	}
}

// ensureRoster opens the database if needed and loads the roster.
func (a *App) ensureRoster(ctx context.Context) (*roster.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	if a.repo == nil {
		repo, err := db.New(a.config.Storage.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		a.repo = repo
	}
	cal, err := a.config.Calendar()
	if err != nil {
		return nil, fmt.Errorf("roster calendar: %w", err)
	}

	svc := roster.New(a.repo, compliance.NewValidator(a.config.Rules()), cal, roster.WithLogger(a.log))
	if err := svc.Load(ctx); err != nil {
		return nil, err
	}
	a.svc = svc
	return svc, nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the database, if one was opened.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}
