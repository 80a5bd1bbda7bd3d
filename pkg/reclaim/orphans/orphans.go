// Package orphans finds application residue whose owning application is no
// longer installed. The installed-application list is caller input; this
// package only matches residue against it.
package orphans

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/reclaim/pkg/reclaim/classify"
	"github.com/jamesainslie/reclaim/pkg/reclaim/logging"
	"github.com/jamesainslie/reclaim/pkg/reclaim/pool"
	"github.com/jamesainslie/reclaim/pkg/reclaim/scanner"
	"github.com/jamesainslie/reclaim/pkg/reclaim/types"
)

var logger = logging.Get("orphans")

// systemOwnerPrefix marks residue owned by the operating system itself.
// Such entries are never orphans regardless of the installed list.
const systemOwnerPrefix = "com.apple."

// Options configures an orphan Finder.
type Options struct {
	// Roots overrides the platform residue catalog. Empty uses the
	// platform defaults.
	Roots []string

	// Installed holds the identifiers of installed applications: display
	// names ("Slack") or bundle ids ("com.tinyspeck.slackmacgap").
	Installed []string

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

// Finder scans residue locations for files owned by uninstalled
// applications.
type Finder struct {
	roots      []string
	installed  map[string]struct{}
	exclude    []string
	classifier *classify.Classifier
	pool       *pool.Pool
	onProgress func(types.ScanProgress)

	walker *scanner.Walker
}

// New creates an orphan Finder.
func New(opts Options) *Finder {
	roots := opts.Roots
	if len(roots) == 0 {
		roots = platformRoots()
	}
	installed := make(map[string]struct{})
	for _, id := range opts.Installed {
		for _, key := range normalizeKeys(id) {
			installed[key] = struct{}{}
		}
	}
	return &Finder{
		roots:      roots,
		installed:  installed,
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

// Find walks the existing residue roots and returns removable files whose
// owner is not installed, largest first. Files whose owner cannot be
// derived are kept: ambiguity always resolves toward not deleting.
func (f *Finder) Find(ctx context.Context) ([]types.FileRecord, []types.Warning, error) {
	roots := f.Roots()
	if len(roots) == 0 {
		logger.Debug("no residue roots present on host")
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

	var records []types.FileRecord
	for cand := range w.Walk(ctx, roots...) {
		if !cand.Removable {
			continue
		}
		root := rootFor(roots, cand.Path)
		if root == "" {
			continue
		}
		owner := deriveOwner(root, cand.Path)
		if owner == "" || f.isInstalled(owner) {
			continue
		}
		records = append(records, cand.Record())
	}

	types.SortBySize(records)
	logger.Debug("orphan scan finished",
		"roots", len(roots), "installed", len(f.installed), "records", len(records))
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

func (f *Finder) isInstalled(owner string) bool {
	lower := strings.ToLower(owner)
	if strings.HasPrefix(lower, systemOwnerPrefix) {
		return true
	}
	for _, key := range normalizeKeys(owner) {
		if _, ok := f.installed[key]; ok {
			return true
		}
	}
	return false
}

// rootFor returns the residue root containing path, or the empty string.
func rootFor(roots []string, path string) string {
	for _, root := range roots {
		if strings.HasPrefix(path, root+string(filepath.Separator)) {
			return root
		}
	}
	return ""
}

// deriveOwner extracts the owning application identifier from a residue
// path, following the conventional layouts: a directory immediately under
// the root names its owner, and a flat file carries identity only through
// dotted bundle naming ("com.vendor.App.plist"). The empty string means no
// owner could be derived.
func deriveOwner(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}

	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) > 1 {
		return strings.TrimSuffix(parts[0], ".savedState")
	}

	name := parts[0]
	var owner string
	switch {
	case strings.HasSuffix(name, ".plist"):
		owner = strings.TrimSuffix(name, ".plist")
	case strings.HasSuffix(name, ".savedState"):
		owner = strings.TrimSuffix(name, ".savedState")
	default:
		return ""
	}
	if !strings.Contains(owner, ".") {
		return ""
	}
	return owner
}

// normalizeKeys returns the comparison keys for an application identifier:
// the lowercased identifier and, for dotted bundle ids, its final segment.
func normalizeKeys(id string) []string {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return nil
	}
	keys := []string{id}
	if i := strings.LastIndex(id, "."); i >= 0 && i+1 < len(id) {
		keys = append(keys, id[i+1:])
	}
	return keys
}
