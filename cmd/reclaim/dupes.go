package main

import (
	"github.com/spf13/cobra"

	"github.com/jamesainslie/reclaim/pkg/reclaim/scan"
)

var dupesCmd = &cobra.Command{
	Use:     "dupes [path...]",
	Aliases: []string{"duplicates"},
	Short:   "Find duplicate files",
	Long: `Dupes finds files with identical content under the given paths.

Files are grouped by content hash; hard links to the same data count as
one copy. Each group keeps one copy and proposes the rest for deletion.
Use -s to skip files below a size floor and speed up hashing.

Examples:
  reclaim dupes ~/Documents
  reclaim dupes -s 10MB ~/Pictures ~/Downloads
  reclaim dupes -n -o json ~ > dupes.json`,
	RunE: func(_ *cobra.Command, args []string) error {
		return runKindScan(scan.Duplicates, args)
	},
}

func init() {
	rootCmd.AddCommand(dupesCmd)
}
