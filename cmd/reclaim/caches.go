package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/reclaim/pkg/reclaim/scan"
)

var cachesCmd = &cobra.Command{
	Use:   "caches [path...]",
	Short: "Find stale cache entries",
	Long: `Caches finds cache entries old enough to be safely rebuilt.

Without arguments the platform cache locations are scanned (on Linux,
$XDG_CACHE_HOME or ~/.cache); paths override the catalog. Entries
touched within the minimum age are kept.

Examples:
  reclaim caches
  reclaim caches --min-age 72h
  reclaim caches ~/.cache/some-app`,
	RunE: func(_ *cobra.Command, args []string) error {
		return runKindScan(scan.Caches, args)
	},
}

func init() {
	cachesCmd.Flags().String("min-age", "", "minimum age before a cache entry is proposed (e.g., 24h)")
	_ = viper.BindPFlag("cache_min_age", cachesCmd.Flags().Lookup("min-age"))
	rootCmd.AddCommand(cachesCmd)
}
