package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/reclaim/pkg/reclaim/config"
	"github.com/jamesainslie/reclaim/pkg/reclaim/logging"
)

// initializeLogging configures the logging system before any command runs.
// Logs always go to the log file; --verbose mirrors them to stderr.
func initializeLogging(_ *cobra.Command, _ []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := logging.Init(loggingConfig()); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

// initTUILogging re-initializes logging for TUI mode, where nothing may
// write to the terminal.
func initTUILogging() error {
	cfg := loggingConfig()
	cfg.ConsoleLevel = ""
	cfg.TUIMode = true
	return logging.Init(cfg)
}

// loggingConfig assembles the logging configuration from viper.
func loggingConfig() logging.Config {
	cfg := logging.Config{
		Level:      viper.GetString("logging.level"),
		Path:       viper.GetString("logging.path"),
		Components: viper.GetStringMapString("logging.components"),
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Path == "" {
		cfg.Path = logging.DefaultLogPath()
	}
	if getVerbose() {
		cfg.ConsoleLevel = "debug"
	}
	return cfg
}
