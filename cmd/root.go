// Package cmd implements the CLI commands for paperback using Cobra.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gaurav-prasanna/paperback/core/config"
	"github.com/gaurav-prasanna/paperback/core/logging"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagConfig string

	cfg    *config.Config
	logger *zap.Logger
	runID  string
)

var rootCmd = &cobra.Command{
	Use:   "paperback",
	Short: "paperback turns public-domain catalog texts into print-ready books",
	Long: `paperback fetches plain-text books from the Project Gutenberg catalog,
splits them into publisher notes, contents, preface, body and appendix,
and produces print interiors, covers, Word files and a listing spreadsheet.

Usage:
  paperback books [flags]
  paperback bundles [flags]
  paperback segment <id|file> [flags]
  paperback enrich [flags]
  paperback init`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: ./paperback.yaml)")
}

// setup loads .env, the configuration and the logger for every command.
func setup(*cobra.Command, []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	var err error
	if cfg, err = config.Load(flagConfig); err != nil {
		return err
	}
	runID = uuid.NewString()
	logger = logging.New(cfg.Log, os.Stderr).With(zap.String("run_id", runID))
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
