// Package cli provides the command-line interface for the optimizer.
package cli

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"strategy-optimizer/internal/config"
	"strategy-optimizer/internal/logging"
	"strategy-optimizer/internal/telemetry"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Tracker telemetry.Tracker

	registry *telemetry.Registry
}

// Close releases the failure registry, if one was opened.
func (a *App) Close() {
	if a.registry != nil {
		if err := a.registry.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close failure registry")
		}
	}
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config:  cfg,
		Logger:  logger,
		Tracker: telemetry.Nop{},
	}

	// Open the failure registry. The search stays usable without it.
	dbPath := filepath.Join(config.DefaultConfigDir(), "optimizer.db")
	if reg, err := telemetry.OpenRegistry(dbPath); err != nil {
		logger.Warn().Err(err).Msg("Failed to open failure registry, telemetry disabled")
	} else {
		app.Tracker = reg
		app.registry = reg
		logger.Debug().Str("path", dbPath).Msg("Failure registry opened")
	}

	var debug bool
	rootCmd := &cobra.Command{
		Use:   "optimizer",
		Short: "Strategy portfolio optimizer",
		Long: `Strategy portfolio optimizer finds the subset of a portfolio's trading
strategies that maximizes a composite efficiency score, by exhaustively
evaluating every candidate combination, and reports how that optimum
compares against running every strategy together.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				logging.SetDebugLevel()
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newRunCmd(app))
	rootCmd.AddCommand(newErrorsCmd(app))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
