package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/jamesainslie/reclaim/pkg/reclaim/config"
	"github.com/jamesainslie/reclaim/pkg/reclaim/logging"
)

func TestLoggingConfigDefaults(t *testing.T) {
	viper.Reset()

	cfg := loggingConfig()

	if cfg.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Level)
	}
	if cfg.Path != logging.DefaultLogPath() {
		t.Errorf("Path = %q, want %q", cfg.Path, logging.DefaultLogPath())
	}
	if cfg.ConsoleLevel != "" {
		t.Errorf("ConsoleLevel = %q, want empty without --verbose", cfg.ConsoleLevel)
	}
}

func TestLoggingConfigFromViper(t *testing.T) {
	viper.Reset()
	viper.Set("logging.level", "warn")
	viper.Set("logging.path", "/tmp/reclaim-test.log")
	viper.Set("logging.components", map[string]string{"scanner": "debug"})

	cfg := loggingConfig()

	if cfg.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Level)
	}
	if cfg.Path != "/tmp/reclaim-test.log" {
		t.Errorf("Path = %q, want /tmp/reclaim-test.log", cfg.Path)
	}
	if cfg.Components["scanner"] != "debug" {
		t.Errorf("Components = %v, want scanner at debug", cfg.Components)
	}
}

func TestLoggingConfigVerbose(t *testing.T) {
	viper.Reset()
	viper.Set("verbose", true)

	cfg := loggingConfig()

	if cfg.ConsoleLevel != "debug" {
		t.Errorf("ConsoleLevel = %q, want debug with --verbose", cfg.ConsoleLevel)
	}
}

func TestInitializeLoggingEnsuresDirectories(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	viper.Reset()
	logPath := filepath.Join(tmp, "state", "reclaim.log")
	viper.Set("logging.path", logPath)

	err := initializeLogging(nil, nil)
	if err != nil {
		t.Fatalf("initializeLogging() returned error: %v", err)
	}
	defer func() { _ = logging.Close() }()

	dir, err := config.ConfigDir()
	if err != nil {
		t.Fatalf("failed to get config dir: %v", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("config directory was not created: %s", dir)
	}

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Errorf("log file was not created: %s", logPath)
	}
}
