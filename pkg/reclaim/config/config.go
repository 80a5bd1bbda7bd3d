package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jamesainslie/reclaim/pkg/reclaim/types"
)

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Components map[string]string `mapstructure:"components"`
}

// WorkersConfig configures the worker pool.
type WorkersConfig struct {
	Count int `mapstructure:"count"`
	Cap   int `mapstructure:"cap"`
}

// OutputConfig configures result presentation.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// Config represents the application configuration.
type Config struct {
	MinSize     string        `mapstructure:"min_size"`
	CacheMinAge string        `mapstructure:"cache_min_age"`
	DefaultPath string        `mapstructure:"default_path"`
	Exclude     []string      `mapstructure:"exclude"`
	Protected   []string      `mapstructure:"protected"`
	Installed   []string      `mapstructure:"installed"`
	Workers     WorkersConfig `mapstructure:"workers"`
	Output      OutputConfig  `mapstructure:"output"`
	Logging     LoggingConfig `mapstructure:"logging"`
}

// MinSizeBytes parses the configured minimum size into bytes.
func (c *Config) MinSizeBytes() (int64, error) {
	return types.ParseSize(c.MinSize)
}

// CacheAge parses the configured cache age floor.
func (c *Config) CacheAge() (time.Duration, error) {
	return time.ParseDuration(c.CacheMinAge)
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/reclaim/config.yaml
//   - $HOME/.config/reclaim/config.yaml
//
// Environment variables are prefixed with RECLAIM_ (e.g., RECLAIM_MIN_SIZE).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "reclaim"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "reclaim"))

	v.SetEnvPrefix("RECLAIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("min_size", DefaultMinSize)
	v.SetDefault("cache_min_age", DefaultCacheMinAge)
	v.SetDefault("default_path", DefaultPath)
	v.SetDefault("exclude", DefaultExclusions)
	v.SetDefault("protected", []string{})
	v.SetDefault("installed", []string{})
	v.SetDefault("workers.count", DefaultWorkers)
	v.SetDefault("workers.cap", DefaultWorkerCap)
	v.SetDefault("output.format", DefaultFormat)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use the logging default
	v.SetDefault("logging.components", map[string]string{
		"scanner": "info",
		"dupes":   "info",
		"scan":    "info",
		"tui":     "info",
	})

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "reclaim"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "reclaim"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# Reclaim Configuration

# Minimum file size for large-file scans
min_size: %s

# Minimum age before a cache entry may be proposed for deletion
cache_min_age: %s

# Default path to scan when none is specified
default_path: %s

# Directory names to exclude from scanning
exclude:
  - .git
  - node_modules
  - .Trash

# Extra protected path prefixes (never proposed for deletion)
protected: []

# Installed application identifiers for orphan scans
installed: []

# Worker pool configuration (count 0 = auto-detect, bounded by cap)
workers:
  count: %d
  cap: %d

# Output format: pretty, plain, json, yaml, csv
output:
  format: %s

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/reclaim/reclaim.log)
  path: ""
  # Per-component log levels
  components:
    scanner: info
    dupes: info
    scan: info
    tui: info
`, DefaultMinSize, DefaultCacheMinAge, DefaultPath, DefaultWorkers, DefaultWorkerCap, DefaultFormat)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}
