package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/reclaim/pkg/reclaim/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "reclaim",
		Short: "Find disk space worth reclaiming",
		Long: `Reclaim scans for disk space that can be safely freed: duplicate
files, stale caches, orphaned application data, and large files.

By default, scans launch an interactive TUI to review and delete what
was found. Use --no-interactive or -o <format> for scripted output.

Examples:
  reclaim dupes ~/Documents        # Find duplicate files
  reclaim caches                   # Find stale cache entries
  reclaim orphans --installed-from apps.txt
  reclaim large -s 500MB ~         # Find files larger than 500MB
  reclaim large -n -o json ~       # Non-interactive JSON output
  reclaim delete --from scan.json  # Delete files from a saved scan
  reclaim config show              # Show configuration`,
		PersistentPreRunE: initializeLogging,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/reclaim/config.yaml)")
	rootCmd.PersistentFlags().StringP("min-size", "s", "", "minimum file size (e.g., 100MB, 1GiB)")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "override worker count (0=auto)")
	rootCmd.PersistentFlags().Int("worker-cap", 0, "cap the auto-detected worker count (0=default)")
	rootCmd.PersistentFlags().StringSliceP("exclude", "e", nil, "exclude patterns (can be specified multiple times)")
	rootCmd.PersistentFlags().BoolP("no-interactive", "n", false, "disable TUI, use text output")
	rootCmd.PersistentFlags().BoolP("dry-run", "d", false, "don't delete files (preview only)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")
	rootCmd.PersistentFlags().String("log-level", "", "log file level (debug, info, warn, error)")

	// Bind flags to viper
	_ = viper.BindPFlag("min_size", rootCmd.PersistentFlags().Lookup("min-size"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("worker_cap", rootCmd.PersistentFlags().Lookup("worker-cap"))
	_ = viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	_ = viper.BindPFlag("no_interactive", rootCmd.PersistentFlags().Lookup("no-interactive"))
	_ = viper.BindPFlag("dry_run", rootCmd.PersistentFlags().Lookup("dry-run"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Set config name and type
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "reclaim"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "reclaim"))
		}
	}

	// Set environment variable prefix and enable auto env binding
	viper.SetEnvPrefix("RECLAIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Set defaults from config package. No default for min_size: the
	// large-files scan falls back to config.DefaultMinSize on its own,
	// while duplicate scans treat an unset value as no size floor.
	viper.SetDefault("default_path", config.DefaultPath)
	viper.SetDefault("cache_min_age", config.DefaultCacheMinAge)
	viper.SetDefault("exclude", config.DefaultExclusions)
	viper.SetDefault("workers.count", config.DefaultWorkers)
	viper.SetDefault("workers.cap", config.DefaultWorkerCap)
	viper.SetDefault("output.format", config.DefaultFormat)
	viper.SetDefault("logging.level", "info")

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
