package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"novelhub/internal/logging"
	"novelhub/pkg/utils"
)

// app is the state shared by every subcommand once the root pre-run has
// loaded configuration and logging.
type app struct {
	cfgPath string
	cfg     utils.Config
	logs    *logging.Logger
	log     zerolog.Logger
}

// NewRootCmd builds the novelhub command tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "novelhub",
		Short:         "Browse a light-novel collection as web pages",
		Long:          "novelhub serves a novel collection as a list view, a linked list view and a detail view, and keeps the collection current by scraping the source site.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Example:       rootExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.logs.Close()
		},
	}

	cmd.PersistentFlags().StringVar(&a.cfgPath, "config", "", "YAML config file (default $NOVELHUB_CONFIG)")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().String("log-format", "", "log format: console or json")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	cmd.AddCommand(
		newServeCmd(a),
		newScrapeCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newListCmd(a),
		newShowCmd(a),
	)
	return cmd
}

const rootExample = `  # Serve the views on :8080
  novelhub serve

  # Refresh data/novels_data.json from the source site
  novelhub scrape

  # Load a collection into the catalog database and serve from it
  novelhub import data/novels_data.json
  NOVELHUB_LINKED_SOURCE=sqlite: novelhub serve

  # Print the collection or one record in the terminal
  novelhub list --status completed
  novelhub show --id 3`

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := utils.Load(a.cfgPath)
	if err != nil {
		return err
	}

	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Logging.Format = v
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "console"
	}

	// a directory gets one timestamped file per run
	logFile := cfg.Logging.File
	if fi, err := os.Stat(logFile); logFile != "" && err == nil && fi.IsDir() {
		logFile = logging.TimestampedFile(logFile, time.Now())
	}

	logs, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   logFile,
	})
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	a.cfg = cfg
	a.logs = logs
	a.log = logging.Component(logs.Logger, "cli")
	a.log.Debug().Str("command", cmd.Name()).Msg("command started")
	return nil
}

// Execute runs the command tree and exits non-zero on error.
func Execute(version string) {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
