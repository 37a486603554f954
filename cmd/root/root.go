// Package root contains the root command for the application
package root

import (
	"github.com/spf13/cobra"

	"github.com/txnlens/txnlens/internal/config"
	"github.com/txnlens/txnlens/internal/logging"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cfg is the loaded application configuration, populated before any
	// subcommand runs
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "txnlens",
		Short: "A CLI tool to enrich bank transactions with AI categorization.",
		Long: `txnlens enriches bank transaction records with categorization metadata.
It calls a completion model for each transaction and merges the structured
output back onto the original records, falling back to a reference table
when the model is unavailable.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to txnlens!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.Initialize()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
			return nil
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// Specific enrich command flags
	Chunked bool

	// Specific serve command flags
	Port int

	// Specific categories command flags
	CategoryCode string
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
}
