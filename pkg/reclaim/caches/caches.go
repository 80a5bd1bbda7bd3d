// Package caches finds stale application cache files under the platform's
// conventional cache locations.
package caches

import (
	"context"
	"os"
	"time"

	"github.com/jamesainslie/reclaim/pkg/reclaim/classify"
	"github.com/jamesainslie/reclaim/pkg/reclaim/logging"
	"github.com/jamesainslie/reclaim/pkg/reclaim/pool"
	"github.com/jamesainslie/reclaim/pkg/reclaim/scanner"
	"github.com/jamesainslie/reclaim/pkg/reclaim/types"
)

var logger = logging.Get("caches")

// DefaultMinAge keeps cache entries touched within the last day.
// Applications often hold live references to freshly written entries.
const DefaultMinAge = 24 * time.Hour

// Options configures a cache Finder.
type Options struct {
	// Roots overrides the platform cache catalog. Empty uses the platform
	// defaults.
	Roots []string

	// MinAge excludes files modified more recently than this. Zero selects
	// DefaultMinAge; a negative value disables the age filter.
	MinAge time.Duration

	// Exclude holds extra exclusion rules applied during the walk.
	Exclude []string

	// Classifier resolves removability. Nil uses the platform defaults.
	Classifier *classify.Classifier

	// Pool runs directory traversal tasks. Nil lets the walker manage its
	// own pool.
	Pool *pool.Pool

	// OnProgress receives throttled walk progress.
	OnProgress func(types.ScanProgress)
}

// Finder scans cache locations for stale, removable files.
type Finder struct {
	roots      []string
	minAge     time.Duration
	exclude    []string
	classifier *classify.Classifier
	pool       *pool.Pool
	onProgress func(types.ScanProgress)

	walker *scanner.Walker
}

// New creates a cache Finder.
func New(opts Options) *Finder {
	roots := opts.Roots
	if len(roots) == 0 {
		roots = platformRoots()
	}
	minAge := opts.MinAge
	if minAge == 0 {
		minAge = DefaultMinAge
	}
	return &Finder{
		roots:      roots,
		minAge:     minAge,
		exclude:    opts.Exclude,
		classifier: opts.Classifier,
		pool:       opts.Pool,
		onProgress: opts.OnProgress,
	}
}

// Roots returns the catalog entries present on this host. A missing root is
// not an error; it is skipped without a warning.
func (f *Finder) Roots() []string {
	var present []string
	for _, root := range f.roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}
		present = append(present, root)
	}
	return present
}

// Find walks the existing cache roots and returns stale removable files,
// largest first. Cancellation yields the partial result collected so far;
// check Incomplete afterwards.
func (f *Finder) Find(ctx context.Context) ([]types.FileRecord, []types.Warning, error) {
	roots := f.Roots()
	if len(roots) == 0 {
		logger.Debug("no cache roots present on host")
		return nil, nil, nil
	}

	w, err := scanner.New(scanner.Options{
		Exclude:    f.exclude,
		Classifier: f.classifier,
		Pool:       f.pool,
		OnProgress: f.onProgress,
	})
	if err != nil {
		return nil, nil, err
	}
	f.walker = w

	cutoff := time.Now().Add(-f.minAge)
	var records []types.FileRecord
	for cand := range w.Walk(ctx, roots...) {
		if !cand.Removable {
			continue
		}
		if f.minAge > 0 && cand.ModTime.After(cutoff) {
			continue
		}
		records = append(records, cand.Record())
	}

	types.SortBySize(records)
	logger.Debug("cache scan finished",
		"roots", len(roots), "records", len(records), "incomplete", w.Incomplete())
	return records, w.Warnings(), nil
}

// Incomplete reports whether the walk was cut short by cancellation.
// Valid once Find has returned.
func (f *Finder) Incomplete() bool {
	return f.walker != nil && f.walker.Incomplete()
}

// Stats returns the traversal counters. Valid once Find has returned.
func (f *Finder) Stats() types.ScanProgress {
	if f.walker == nil {
		return types.ScanProgress{}
	}
	return f.walker.Snapshot()
}
