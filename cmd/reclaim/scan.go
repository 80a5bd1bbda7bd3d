package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/jamesainslie/reclaim/cmd/reclaim/tui"
	"github.com/jamesainslie/reclaim/pkg/reclaim/config"
	"github.com/jamesainslie/reclaim/pkg/reclaim/output"
	"github.com/jamesainslie/reclaim/pkg/reclaim/scan"
	"github.com/jamesainslie/reclaim/pkg/reclaim/types"
)

// runKindScan is the shared handler behind the dupes, caches, orphans,
// and large subcommands.
func runKindScan(kind scan.Kind, args []string) error {
	roots, err := resolveRoots(args, kind)
	if err != nil {
		return err
	}

	req, err := buildRequest(kind, roots)
	if err != nil {
		return err
	}

	// Determine output mode
	noInteractive := viper.GetBool("no_interactive")
	outFormat := viper.GetString("output")

	// If output format is explicitly set (not default), force non-interactive mode
	if outFormat != "" && outFormat != "pretty" {
		noInteractive = true
	}
	if viper.GetString("save") != "" {
		noInteractive = true
	}

	if noInteractive {
		return runNonInteractiveScan(req)
	}

	// Interactive TUI mode
	return runInteractiveTUI(req)
}

// resolveRoots expands and validates the scan roots from positional
// arguments. With no arguments, duplicate and large-file scans fall back
// to the configured default path; cache and orphan scans use their
// platform catalog.
func resolveRoots(args []string, kind scan.Kind) ([]string, error) {
	paths := args
	if len(paths) == 0 {
		if kind == scan.Caches || kind == scan.Orphans {
			return nil, nil
		}
		defaultPath := viper.GetString("default_path")
		if defaultPath == "" {
			defaultPath = "."
		}
		paths = []string{defaultPath}
	}

	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		// Expand ~ in path
		expanded, err := config.ExpandPath(p)
		if err != nil {
			return nil, fmt.Errorf("failed to expand path: %w", err)
		}

		// Convert to absolute path
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path: %w", err)
		}

		// Verify path exists and is accessible
		info, err := os.Stat(abs)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path does not exist: %s", abs)
			}
			return nil, fmt.Errorf("cannot access path: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("path is not a directory: %s", abs)
		}
		roots = append(roots, abs)
	}
	return roots, nil
}

// buildRequest assembles the scan request for a kind from viper.
func buildRequest(kind scan.Kind, roots []string) (scan.Request, error) {
	req := scan.Request{
		Kind:      kind,
		Roots:     roots,
		Exclude:   viper.GetStringSlice("exclude"),
		Protected: viper.GetStringSlice("protected"),
	}

	// The --workers flag overrides the configured count, which in turn
	// overrides auto-detection.
	req.Workers = viper.GetInt("workers")
	if req.Workers == 0 {
		req.Workers = viper.GetInt("workers.count")
	}
	req.WorkerCap = viper.GetInt("worker_cap")
	if req.WorkerCap == 0 {
		req.WorkerCap = viper.GetInt("workers.cap")
	}

	switch kind {
	case scan.LargeFiles:
		minSizeStr := viper.GetString("min_size")
		if minSizeStr == "" {
			minSizeStr = config.DefaultMinSize
		}
		minSize, err := types.ParseSize(minSizeStr)
		if err != nil {
			return req, fmt.Errorf("invalid minimum size %q: %w", minSizeStr, err)
		}
		req.MinSize = minSize
	case scan.Duplicates:
		// Unset means no size floor
		if minSizeStr := viper.GetString("min_size"); minSizeStr != "" {
			minSize, err := types.ParseSize(minSizeStr)
			if err != nil {
				return req, fmt.Errorf("invalid minimum size %q: %w", minSizeStr, err)
			}
			req.MinSize = minSize
		}
	case scan.Caches:
		if ageStr := viper.GetString("cache_min_age"); ageStr != "" {
			age, err := time.ParseDuration(ageStr)
			if err != nil {
				return req, fmt.Errorf("invalid cache age %q: %w", ageStr, err)
			}
			req.MinAge = age
		}
	case scan.Orphans:
		installed, err := resolveInstalled()
		if err != nil {
			return req, err
		}
		req.Installed = installed
	}

	return req, nil
}

// runInteractiveTUI runs the TUI application.
func runInteractiveTUI(req scan.Request) error {
	// Re-initialize logging for TUI mode (disables console output)
	if err := initTUILogging(); err != nil {
		return fmt.Errorf("failed to initialize TUI logging: %w", err)
	}

	return tui.Run(tui.Options{
		Kind:      req.Kind,
		Roots:     req.Roots,
		MinSize:   req.MinSize,
		MinAge:    req.MinAge,
		Installed: req.Installed,
		Exclude:   req.Exclude,
		Protected: req.Protected,
		Workers:   req.Workers,
		WorkerCap: req.WorkerCap,
		DryRun:    viper.GetBool("dry_run"),
	})
}

// runNonInteractiveScan runs the scan and prints formatted results.
func runNonInteractiveScan(req scan.Request) error {
	formatter, err := resolveFormatter()
	if err != nil {
		return err
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	interrupted := false
	go func() {
		<-sigChan
		printInfo("\nInterrupted, stopping scan...")
		interrupted = true
		cancel()
	}()

	if !getQuiet() {
		describeScan(req)
	}

	res, err := scan.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if savePath := viper.GetString("save"); savePath != "" {
		if err := saveResult(savePath, res); err != nil {
			return err
		}
		printInfo("Saved scan result to %s", savePath)
	}

	result := convertResult(res, req.Roots, interrupted)

	// Output results
	var buf bytes.Buffer
	if err := formatter.Format(&buf, result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(buf.String())

	return nil
}

// describeScan prints a one-line description of what is about to run.
func describeScan(req scan.Request) {
	roots := strings.Join(req.Roots, ", ")
	switch req.Kind {
	case scan.Duplicates:
		printInfo("Scanning %s for duplicate files...", roots)
	case scan.Caches:
		if roots == "" {
			roots = "platform cache locations"
		}
		printInfo("Scanning %s for stale cache entries...", roots)
	case scan.Orphans:
		if roots == "" {
			roots = "platform application data"
		}
		printInfo("Scanning %s for orphaned files...", roots)
	case scan.LargeFiles:
		printInfo("Scanning %s for files >= %s...", roots, types.FormatSize(req.MinSize))
	}
}

// saveResult writes the raw scan result as JSON for later use with
// reclaim delete --from.
func saveResult(path string, res *scan.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode scan result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scan result: %w", err)
	}
	return nil
}

// convertResult converts a scan result to the output package's view.
func convertResult(res *scan.Result, roots []string, interrupted bool) *output.Result {
	now := time.Now()

	files := make([]output.FileInfo, len(res.Records))
	for i, rec := range res.Records {
		files[i] = buildFileInfo(rec, now)
	}

	groups := make([]output.GroupInfo, len(res.Groups))
	for i, g := range res.Groups {
		members := make([]output.FileInfo, len(g.Files))
		for j, rec := range g.Files {
			members[j] = buildFileInfo(rec, now)
		}
		groups[i] = output.GroupInfo{
			Hash:             g.Hash,
			Count:            len(g.Files),
			Size:             g.Size,
			SizeHuman:        types.FormatSize(g.Size),
			Reclaimable:      g.ReclaimableBytes(),
			ReclaimableHuman: types.FormatSize(g.ReclaimableBytes()),
			Files:            members,
		}
	}

	warnings := make([]string, len(res.Warnings))
	for i, w := range res.Warnings {
		warnings[i] = w.String()
	}

	return &output.Result{
		Kind:   string(res.Kind),
		Files:  files,
		Groups: groups,
		Stats: output.ScanStats{
			DirsScanned:  res.Stats.DirsScanned,
			FilesScanned: res.Stats.FilesSeen,
			BytesScanned: res.Stats.BytesSeen,
			Duration:     res.Elapsed,
		},
		Roots:       roots,
		ScanID:      res.ID.String(),
		TotalFiles:  len(files),
		TotalGroups: len(groups),
		Warnings:    warnings,
		Interrupted: interrupted || !res.Complete,
	}
}

// buildFileInfo converts one record for presentation.
func buildFileInfo(rec types.FileRecord, now time.Time) output.FileInfo {
	return output.FileInfo{
		Path:      rec.Path,
		Name:      filepath.Base(rec.Path),
		Dir:       filepath.Dir(rec.Path),
		Ext:       filepath.Ext(rec.Path),
		Size:      rec.Size,
		SizeHuman: types.FormatSize(rec.Size),
		ModTime:   rec.ModTime,
		Age:       now.Sub(rec.ModTime),
		Hash:      rec.ContentHash,
	}
}
