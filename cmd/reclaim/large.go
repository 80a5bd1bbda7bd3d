package main

import (
	"github.com/spf13/cobra"

	"github.com/jamesainslie/reclaim/pkg/reclaim/scan"
)

var largeCmd = &cobra.Command{
	Use:     "large [path...]",
	Aliases: []string{"large-files"},
	Short:   "Find large files",
	Long: `Large finds files at or above the size threshold.

No content is read; only file sizes are compared. The threshold comes
from -s, the RECLAIM_MIN_SIZE environment variable, or the config file,
in that order.

Examples:
  reclaim large ~
  reclaim large -s 500MB ~/Downloads
  reclaim large -n -o paths ~ | xargs -d '\n' ls -lh`,
	RunE: func(_ *cobra.Command, args []string) error {
		return runKindScan(scan.LargeFiles, args)
	},
}

func init() {
	rootCmd.AddCommand(largeCmd)
}
