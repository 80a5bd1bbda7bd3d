// Package scan is the entry point for running reclamation scans. It wires
// host detection, the worker pool, the tree walker and the finders together
// behind a single request/result contract, and owns the only code path that
// ever deletes a file.
package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/reclaim/pkg/reclaim/caches"
	"github.com/jamesainslie/reclaim/pkg/reclaim/classify"
	"github.com/jamesainslie/reclaim/pkg/reclaim/dupes"
	"github.com/jamesainslie/reclaim/pkg/reclaim/largefiles"
	"github.com/jamesainslie/reclaim/pkg/reclaim/logging"
	"github.com/jamesainslie/reclaim/pkg/reclaim/orphans"
	"github.com/jamesainslie/reclaim/pkg/reclaim/pool"
	"github.com/jamesainslie/reclaim/pkg/reclaim/scanner"
	"github.com/jamesainslie/reclaim/pkg/reclaim/tuner"
	"github.com/jamesainslie/reclaim/pkg/reclaim/types"
)

var logger = logging.Get("scan")

// Kind selects a finder strategy.
type Kind string

const (
	// Duplicates finds byte-identical files under the request roots.
	Duplicates Kind = "duplicates"

	// Caches finds stale files under the platform cache locations.
	Caches Kind = "caches"

	// Orphans finds residue of applications that are no longer installed.
	Orphans Kind = "orphans"

	// LargeFiles finds files at or above a size threshold.
	LargeFiles Kind = "large-files"
)

// Kinds lists every valid scan kind.
func Kinds() []Kind {
	return []Kind{Duplicates, Caches, Orphans, LargeFiles}
}

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	switch k {
	case Duplicates, Caches, Orphans, LargeFiles:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Validation failures returned by Run before any traversal starts.
var (
	// ErrUnknownKind means the request named no known finder strategy.
	ErrUnknownKind = errors.New("unknown scan kind")

	// ErrNoRoots means none of the requested roots exist.
	ErrNoRoots = errors.New("no usable scan roots")

	// ErrBadThreshold means a size threshold was zero or negative where a
	// positive one is required.
	ErrBadThreshold = errors.New("size threshold must be positive")
)

// Request describes one scan.
type Request struct {
	// Kind selects the finder strategy.
	Kind Kind

	// Roots are the trees to scan. Required for Duplicates and LargeFiles;
	// for Caches and Orphans they override the platform catalog.
	Roots []string

	// MinSize is the LargeFiles threshold, and for Duplicates the smallest
	// candidate size worth hashing.
	MinSize int64

	// MinAge excludes recently touched files from a Caches scan. Zero
	// selects the default; negative disables the age filter.
	MinAge time.Duration

	// Installed holds installed-application identifiers for Orphans.
	Installed []string

	// Exclude holds exclusion rules applied during traversal.
	Exclude []string

	// Protected holds extra protected path prefixes, joined with the
	// platform defaults. Nothing under them is ever reported as removable.
	Protected []string

	// Workers overrides the worker count; zero auto-detects.
	Workers int

	// WorkerCap bounds the auto-detected worker count; zero uses the
	// default cap.
	WorkerCap int

	// OnProgress receives throttled progress snapshots. It must be safe
	// to call from multiple goroutines.
	OnProgress func(types.ScanProgress)
}

// Stats summarizes traversal work.
type Stats struct {
	// DirsScanned is the number of directories read.
	DirsScanned int64 `json:"dirs_scanned"`

	// FilesSeen is the number of files examined.
	FilesSeen int64 `json:"files_seen"`

	// BytesSeen is the total size of all files examined.
	BytesSeen int64 `json:"bytes_seen"`
}

// Result is the outcome of one scan. Exactly one of Records or Groups is
// populated, depending on the kind.
type Result struct {
	// ID uniquely identifies this scan run.
	ID uuid.UUID `json:"id"`

	// Kind is the strategy that produced the result.
	Kind Kind `json:"kind"`

	// Started is when the scan began.
	Started time.Time `json:"started"`

	// Elapsed is how long the scan took.
	Elapsed time.Duration `json:"elapsed"`

	// Records holds the proposed files for record-producing kinds.
	Records []types.FileRecord `json:"records,omitempty"`

	// Groups holds the duplicate groups for Duplicates scans.
	Groups []types.DuplicateGroup `json:"groups,omitempty"`

	// Warnings lists every per-path failure encountered. A warning never
	// aborts a scan.
	Warnings []types.Warning `json:"warnings,omitempty"`

	// Stats summarizes the traversal.
	Stats Stats `json:"stats"`

	// Complete is false when the scan was cancelled before finishing. A
	// partial result is still valid for everything it contains.
	Complete bool `json:"complete"`
}

// ReclaimableBytes totals the space the result proposes to free: every
// record, plus all-but-one member of every duplicate group.
func (r *Result) ReclaimableBytes() int64 {
	var total int64
	for _, rec := range r.Records {
		total += rec.Size
	}
	for _, g := range r.Groups {
		total += g.ReclaimableBytes()
	}
	return total
}

// Proposals flattens the result into deletable records. The first member
// of each duplicate group is withheld as the keeper.
func (r *Result) Proposals() []types.FileRecord {
	recs := make([]types.FileRecord, 0, len(r.Records))
	recs = append(recs, r.Records...)
	for _, g := range r.Groups {
		if len(g.Files) < 2 {
			continue
		}
		recs = append(recs, g.Files[1:]...)
	}
	return recs
}

// Run executes one scan. Validation failures return an error before any
// traversal starts; cancellation mid-scan is not an error and yields the
// partial result with Complete set to false.
func Run(ctx context.Context, req Request) (*Result, error) {
	roots, err := req.validate()
	if err != nil {
		return nil, err
	}

	host, _ := tuner.Detect()
	tun := tuner.Calculate(host, tuner.Overrides{
		Workers:   req.Workers,
		WorkerCap: req.WorkerCap,
	})
	p := pool.New(pool.Config{Workers: tun.Workers, QueueSize: tun.QueueSize})
	defer p.Shutdown()

	result := &Result{
		ID:      uuid.New(),
		Kind:    req.Kind,
		Started: time.Now(),
	}
	logger.Info("scan started",
		"id", result.ID, "kind", req.Kind, "roots", len(roots), "workers", tun.Workers)

	complete := true
	switch req.Kind {
	case Duplicates:
		complete, err = runDuplicates(ctx, req, roots, p, tun, result)
	case Caches:
		complete, err = runCaches(ctx, req, p, result)
	case Orphans:
		complete, err = runOrphans(ctx, req, p, result)
	case LargeFiles:
		complete, err = runLargeFiles(ctx, req, roots, p, result)
	}
	if err != nil {
		return nil, err
	}

	result.Elapsed = time.Since(result.Started)
	result.Complete = complete && ctx.Err() == nil
	logger.Info("scan finished",
		"id", result.ID,
		"kind", req.Kind,
		"elapsed", result.Elapsed,
		"records", len(result.Records),
		"groups", len(result.Groups),
		"warnings", len(result.Warnings),
		"complete", result.Complete)
	return result, nil
}

// validate checks the request and resolves its usable roots.
func (r Request) validate() ([]string, error) {
	switch r.Kind {
	case Duplicates, LargeFiles:
		roots := usableRoots(r.Roots)
		if len(roots) == 0 {
			return nil, fmt.Errorf("%w: %v", ErrNoRoots, r.Roots)
		}
		if r.Kind == LargeFiles && r.MinSize <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrBadThreshold, r.MinSize)
		}
		return roots, nil
	case Caches, Orphans:
		// Roots are catalog overrides here; the finders treat missing
		// entries as silently absent.
		return r.Roots, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
}

// classifier builds the removability classifier for this request. Nil means
// the walker falls back to the platform defaults on its own.
func (r Request) classifier() *classify.Classifier {
	if len(r.Protected) == 0 {
		return nil
	}
	return classify.New(classify.WithProtected(r.Protected...))
}

// usableRoots keeps the roots that exist on this host.
func usableRoots(roots []string) []string {
	var out []string
	for _, root := range roots {
		if root == "" {
			continue
		}
		if _, err := os.Stat(root); err == nil {
			out = append(out, root)
		}
	}
	return out
}

func runDuplicates(ctx context.Context, req Request, roots []string, p *pool.Pool, tun tuner.Tuning, result *Result) (bool, error) {
	w, err := scanner.New(scanner.Options{
		Exclude:    req.Exclude,
		Classifier: req.classifier(),
		Pool:       p,
		OnProgress: req.OnProgress,
	})
	if err != nil {
		return false, err
	}

	finder := dupes.New(dupes.Options{
		Pool:        p,
		ChunkSize:   tun.HashChunkSize,
		PartialSize: tun.PartialReadSize,
		MinSize:     req.MinSize,
		OnProgress:  req.OnProgress,
	})

	groups, hashWarnings, err := finder.Find(ctx, w.Walk(ctx, roots...))
	if err != nil {
		return false, err
	}

	result.Groups = groups
	result.Warnings = append(w.Warnings(), hashWarnings...)
	result.Stats = statsFrom(w.Snapshot())
	return !w.Incomplete(), nil
}

func runCaches(ctx context.Context, req Request, p *pool.Pool, result *Result) (bool, error) {
	finder := caches.New(caches.Options{
		Roots:      req.Roots,
		MinAge:     req.MinAge,
		Exclude:    req.Exclude,
		Classifier: req.classifier(),
		Pool:       p,
		OnProgress: req.OnProgress,
	})

	records, warnings, err := finder.Find(ctx)
	if err != nil {
		return false, err
	}

	result.Records = records
	result.Warnings = warnings
	result.Stats = statsFrom(finder.Stats())
	return !finder.Incomplete(), nil
}

func runOrphans(ctx context.Context, req Request, p *pool.Pool, result *Result) (bool, error) {
	finder := orphans.New(orphans.Options{
		Roots:      req.Roots,
		Installed:  req.Installed,
		Exclude:    req.Exclude,
		Classifier: req.classifier(),
		Pool:       p,
		OnProgress: req.OnProgress,
	})

	records, warnings, err := finder.Find(ctx)
	if err != nil {
		return false, err
	}

	result.Records = records
	result.Warnings = warnings
	result.Stats = statsFrom(finder.Stats())
	return !finder.Incomplete(), nil
}

func runLargeFiles(ctx context.Context, req Request, roots []string, p *pool.Pool, result *Result) (bool, error) {
	w, err := scanner.New(scanner.Options{
		Exclude:    req.Exclude,
		Classifier: req.classifier(),
		Pool:       p,
		OnProgress: req.OnProgress,
	})
	if err != nil {
		return false, err
	}

	finder := largefiles.New(req.MinSize)
	result.Records = finder.Find(ctx, w.Walk(ctx, roots...))
	result.Warnings = w.Warnings()
	result.Stats = statsFrom(w.Snapshot())
	return !w.Incomplete(), nil
}

func statsFrom(p types.ScanProgress) Stats {
	return Stats{
		DirsScanned: p.DirsScanned,
		FilesSeen:   p.FilesSeen,
		BytesSeen:   p.BytesSeen,
	}
}
