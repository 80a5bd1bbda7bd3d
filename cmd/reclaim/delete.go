package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/reclaim/pkg/reclaim/config"
	"github.com/jamesainslie/reclaim/pkg/reclaim/scan"
	"github.com/jamesainslie/reclaim/pkg/reclaim/scanner"
	"github.com/jamesainslie/reclaim/pkg/reclaim/types"
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete files from a saved scan result",
	Long: `Delete removes the files proposed by a previous scan.

The scan result is produced with --save. Every file is re-verified
against its scanned snapshot before removal; files that changed or
vanished since the scan are kept. One copy of each duplicate group is
always kept.

Examples:
  reclaim large -n -o json --save result.json ~
  reclaim delete --from result.json
  reclaim delete --from result.json --select '*.mkv' --yes`,
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().String("from", "", "scan result file produced with --save")
	deleteCmd.Flags().StringSlice("select", nil, "only delete paths matching these patterns")
	deleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	_ = deleteCmd.MarkFlagRequired("from")
	rootCmd.AddCommand(deleteCmd)
}

// runDelete is the delete command handler.
func runDelete(cmd *cobra.Command, _ []string) error {
	fromPath, _ := cmd.Flags().GetString("from")
	skipConfirm, _ := cmd.Flags().GetBool("yes")

	res, err := loadResult(fromPath)
	if err != nil {
		return err
	}

	recs := res.Proposals()
	selects, _ := cmd.Flags().GetStringSlice("select")
	recs, err = filterProposals(recs, selects)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		printInfo("Nothing to delete")
		return nil
	}

	var total int64
	for _, rec := range recs {
		total += rec.Size
	}

	if viper.GetBool("dry_run") {
		for _, rec := range recs {
			printInfo("Would delete %s (%s)", rec.Path, types.FormatSize(rec.Size))
		}
		printInfo("Dry run: %d files, %s reclaimable", len(recs), types.FormatSize(total))
		return nil
	}

	if !skipConfirm {
		ok, err := confirm(fmt.Sprintf("Delete %d files (%s)?", len(recs), types.FormatSize(total)))
		if err != nil {
			return err
		}
		if !ok {
			printInfo("Aborted")
			return nil
		}
	}

	// Handle interrupt signal
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		printInfo("\nInterrupted, stopping deletion...")
		cancel()
	}()

	workers := viper.GetInt("workers")
	batch := scan.NewDeleter().DeleteBatch(ctx, recs, workers)

	printInfo("Deleted %d files, freed %s", batch.Deleted, types.FormatSize(batch.BytesFreed))
	if len(batch.Failed) > 0 {
		for _, w := range batch.Failed {
			printError("%s", w.String())
		}
		return fmt.Errorf("%d of %d deletions failed", len(batch.Failed), len(recs))
	}
	return nil
}

// filterProposals keeps only the records matching at least one select
// pattern. No patterns means everything is kept.
func filterProposals(recs []types.FileRecord, patterns []string) ([]types.FileRecord, error) {
	if len(patterns) == 0 {
		return recs, nil
	}
	rules, err := scanner.CompileRules(patterns)
	if err != nil {
		return nil, fmt.Errorf("invalid select pattern: %w", err)
	}
	kept := make([]types.FileRecord, 0, len(recs))
	for _, rec := range recs {
		if rules.Matches(rec.Path) {
			kept = append(kept, rec)
		}
	}
	return kept, nil
}

// loadResult reads a saved scan result.
func loadResult(path string) (*scan.Result, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand path: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read scan result: %w", err)
	}
	var res scan.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to parse scan result: %w", err)
	}
	return &res, nil
}

// confirm prompts on stdin for a yes/no answer. Default is no.
func confirm(prompt string) (bool, error) {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
