package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/reclaim/pkg/reclaim/config"
	"github.com/jamesainslie/reclaim/pkg/reclaim/scan"
)

var orphansCmd = &cobra.Command{
	Use:   "orphans [path...]",
	Short: "Find orphaned application data",
	Long: `Orphans finds application data left behind by uninstalled software.

Residue is matched against the installed application identifiers you
provide; entries whose identifier is still installed are kept. Without
arguments the platform application-support locations are scanned.

Identifiers are compared case-insensitively. The --installed-from file
lists one identifier per line; blank lines and # comments are ignored.

Examples:
  reclaim orphans --installed com.example.app --installed another-app
  reclaim orphans --installed-from apps.txt
  reclaim orphans ~/.config --installed-from apps.txt`,
	RunE: func(_ *cobra.Command, args []string) error {
		return runKindScan(scan.Orphans, args)
	},
}

func init() {
	orphansCmd.Flags().StringSlice("installed", nil, "installed application identifiers (can be specified multiple times)")
	orphansCmd.Flags().String("installed-from", "", "file listing installed identifiers, one per line")
	_ = viper.BindPFlag("installed", orphansCmd.Flags().Lookup("installed"))
	_ = viper.BindPFlag("installed_from", orphansCmd.Flags().Lookup("installed-from"))
	rootCmd.AddCommand(orphansCmd)
}

// resolveInstalled gathers installed identifiers from flags, config, and
// the optional identifier file.
func resolveInstalled() ([]string, error) {
	installed := viper.GetStringSlice("installed")

	fromPath := viper.GetString("installed_from")
	if fromPath == "" {
		return installed, nil
	}

	expanded, err := config.ExpandPath(fromPath)
	if err != nil {
		return nil, fmt.Errorf("failed to expand path: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read installed list: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		installed = append(installed, line)
	}
	return installed, nil
}
