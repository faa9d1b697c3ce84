package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/medhealth/medhealthd/internal/config"
	"github.com/medhealth/medhealthd/internal/logger"
	"github.com/medhealth/medhealthd/internal/repository/store"
	"github.com/medhealth/medhealthd/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// logLevel overrides the configured log level when set.
	logLevel string

	// rootCmd is the base command of the medication alarm device.
	rootCmd = &cobra.Command{
		Use:   "medhealthd",
		Short: "Medication alarm and vitals monitoring device.",
		Long: `Daemon and management commands for the medication alarm device.

The daemon scans the medication schedule, raises an audible and visible
alarm when a dose is due, waits for the acknowledgment button, and keeps
an immutable intake log. A background monitor samples temperature and
pulse and alerts while a reading stays outside its configured range.

The management commands edit the medication schedule, take one-shot
vitals measurements, and print the recorded history.`,
	}
)

// Execute runs the medhealthd CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath,
		"config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel,
		"log-level", "", "log level override (debug, info, warn, error)")
}

// loadConfig reads the settings file and applies the log level override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}

	if lvl, ok := logger.ParseLogLevel(level); ok {
		logger.SetLevel(lvl)
	}

	return cfg, nil
}

// openStore opens the configured database for a management command.
func openStore(cfg *config.Config) (*store.DB, error) {
	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return db, nil
}
