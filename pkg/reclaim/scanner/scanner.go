// Package scanner provides the cancellable, multi-root tree walker that
// feeds every finder. Traversal fans out over a bounded worker pool, one
// task per directory, and streams candidate snapshots to the consumer as
// they are classified.
package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jamesainslie/reclaim/pkg/reclaim/classify"
	"github.com/jamesainslie/reclaim/pkg/reclaim/logging"
	"github.com/jamesainslie/reclaim/pkg/reclaim/pool"
	"github.com/jamesainslie/reclaim/pkg/reclaim/types"
)

var logger = logging.Get("scanner")

// progressThrottle is the minimum interval between progress callbacks.
const progressThrottle = 100 * time.Millisecond

// defaultBufferSize is the candidate channel buffer when none is configured.
const defaultBufferSize = 256

// Options configures a Walker.
type Options struct {
	// Exclude contains exclusion patterns. Matching directories are
	// pruned entirely; matching files are skipped.
	Exclude []string

	// Classifier resolves kinds and removability verdicts. Nil selects a
	// classifier with the platform default protected prefixes.
	Classifier *classify.Classifier

	// Pool runs the per-directory traversal tasks. Nil makes the walker
	// create and own a default pool for the duration of the walk.
	Pool *pool.Pool

	// OnProgress, when set, receives throttled progress snapshots.
	// It must be safe to call from multiple goroutines.
	OnProgress func(types.ScanProgress)

	// BufferSize is the candidate channel buffer size.
	BufferSize int
}

// Walker streams candidate snapshots for every non-excluded regular file
// and symlink under a set of roots. Each Walker value performs exactly one
// walk; create a new one per scan.
type Walker struct {
	rules      *Rules
	classifier *classify.Classifier
	pool       *pool.Pool
	ownPool    bool
	onProgress func(types.ScanProgress)
	buffer     int

	started atomic.Bool

	inFlight     atomic.Int64
	dirsScanned  atomic.Int64
	filesSeen    atomic.Int64
	bytesSeen    atomic.Int64
	lastProgress atomic.Int64
	currentPath  atomic.Value
	walkComplete atomic.Bool
	incomplete   atomic.Bool

	done chan struct{}

	warningsMu sync.Mutex
	warnings   []types.Warning
}

// New creates a Walker. It fails only on invalid exclusion patterns.
func New(opts Options) (*Walker, error) {
	rules, err := CompileRules(opts.Exclude)
	if err != nil {
		return nil, err
	}

	w := &Walker{
		rules:      rules,
		classifier: opts.Classifier,
		pool:       opts.Pool,
		onProgress: opts.OnProgress,
		buffer:     opts.BufferSize,
	}
	if w.classifier == nil {
		w.classifier = classify.New()
	}
	if w.pool == nil {
		w.pool = pool.New(pool.Config{})
		w.ownPool = true
	}
	if w.buffer <= 0 {
		w.buffer = defaultBufferSize
	}
	w.done = make(chan struct{})
	return w, nil
}

// Walk starts the traversal and returns the candidate stream. The channel
// closes when every root has been fully traversed or the context is
// cancelled; after that, Warnings and Incomplete describe how the walk went.
//
// Consumers must drain the channel or cancel the context; an abandoned
// stream with a live context leaks the walk's goroutines.
func (w *Walker) Walk(ctx context.Context, roots ...string) <-chan types.Candidate {
	if !w.started.CompareAndSwap(false, true) {
		panic("scanner: Walker reused; create a new Walker per walk")
	}

	out := make(chan types.Candidate, w.buffer)
	go func() {
		defer close(out)
		w.walk(ctx, roots, out)
		if w.ownPool {
			w.pool.Shutdown()
		}
		w.walkComplete.Store(true)
		w.reportProgressForce()
	}()
	return out
}

// Warnings returns the non-fatal failures recorded during the walk.
// It is meaningful once the candidate stream has closed.
func (w *Walker) Warnings() []types.Warning {
	w.warningsMu.Lock()
	defer w.warningsMu.Unlock()
	out := make([]types.Warning, len(w.warnings))
	copy(out, w.warnings)
	return out
}

// Incomplete reports whether the walk was cut short by cancellation.
func (w *Walker) Incomplete() bool {
	return w.incomplete.Load()
}

// Snapshot returns the current progress counters.
func (w *Walker) Snapshot() types.ScanProgress {
	currentPath, _ := w.currentPath.Load().(string)
	return types.ScanProgress{
		Phase:        types.PhaseWalk,
		DirsScanned:  w.dirsScanned.Load(),
		FilesSeen:    w.filesSeen.Load(),
		BytesSeen:    w.bytesSeen.Load(),
		CurrentPath:  currentPath,
		WalkComplete: w.walkComplete.Load(),
	}
}

func (w *Walker) walk(ctx context.Context, roots []string, out chan<- types.Candidate) {
	var dirs []string
	for _, root := range normalizeRoots(roots) {
		info, err := os.Lstat(root)
		if err != nil {
			w.addWarning("walk", root, err)
			continue
		}
		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			// A symlink root is recorded, never followed.
			w.emit(ctx, out, w.classify(root, info))
		case info.IsDir():
			dirs = append(dirs, root)
		default:
			w.emit(ctx, out, w.classify(root, info))
		}
	}

	if len(dirs) == 0 {
		close(w.done)
		return
	}

	logger.Debug("walk started", "roots", len(dirs))

	// Seed the in-flight count before submitting anything, so the count
	// cannot touch zero until the last directory task has finished.
	w.inFlight.Store(int64(len(dirs)))
	for _, dir := range dirs {
		w.submitDir(ctx, dir, out)
	}

	<-w.done

	if ctx.Err() != nil {
		w.incomplete.Store(true)
	}
	logger.Debug("walk finished",
		"dirs", w.dirsScanned.Load(),
		"files", w.filesSeen.Load(),
		"incomplete", w.incomplete.Load())
}

// submitDir hands a directory task to the pool, or runs it inline when the
// queue is full. Inline fallback keeps a bounded queue deadlock-free no
// matter how deep the tree recursion goes.
func (w *Walker) submitDir(ctx context.Context, dir string, out chan<- types.Candidate) {
	task := func() { w.processDir(ctx, dir, out) }
	if !w.pool.TrySubmit(task) {
		task()
	}
}

// enqueueChild registers a child directory in the in-flight count and
// submits it.
func (w *Walker) enqueueChild(ctx context.Context, dir string, out chan<- types.Candidate) {
	w.inFlight.Add(1)
	w.submitDir(ctx, dir, out)
}

func (w *Walker) processDir(ctx context.Context, dir string, out chan<- types.Candidate) {
	defer func() {
		if w.inFlight.Add(-1) == 0 {
			close(w.done)
		}
	}()

	if ctx.Err() != nil {
		w.incomplete.Store(true)
		return
	}

	w.dirsScanned.Add(1)
	w.currentPath.Store(dir)
	w.reportProgress()

	entries, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable directory: skip the subtree, keep walking the rest.
		w.addWarning("walk", dir, err)
		return
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			w.incomplete.Store(true)
			return
		}

		path := filepath.Join(dir, entry.Name())
		if w.rules.Matches(path) {
			continue
		}

		if entry.IsDir() {
			w.enqueueChild(ctx, path, out)
			continue
		}
		w.processEntry(ctx, path, entry, out)
	}
}

func (w *Walker) processEntry(ctx context.Context, path string, entry fs.DirEntry, out chan<- types.Candidate) {
	mode := entry.Type()
	if mode&fs.ModeSymlink == 0 && !mode.IsRegular() {
		// Sockets, pipes and devices are not reclaimable space.
		return
	}

	info, err := entry.Info()
	if err != nil {
		// Vanished between listing and lstat.
		w.addWarning("stat", path, err)
		return
	}

	w.emit(ctx, out, w.classify(path, info))
}

func (w *Walker) classify(path string, info fs.FileInfo) types.Candidate {
	cand := w.classifier.Classify(path, info)
	w.filesSeen.Add(1)
	w.bytesSeen.Add(cand.Size)
	return cand
}

func (w *Walker) emit(ctx context.Context, out chan<- types.Candidate, cand types.Candidate) {
	select {
	case out <- cand:
		w.reportProgress()
	case <-ctx.Done():
		w.incomplete.Store(true)
	}
}

// addWarning records a non-fatal failure thread-safely.
func (w *Walker) addWarning(op, path string, err error) {
	logger.Debug("walk warning", "op", op, "path", path, "err", err)
	w.warningsMu.Lock()
	w.warnings = append(w.warnings, types.WarnErr(op, path, err))
	w.warningsMu.Unlock()
}

// reportProgress calls the progress callback if configured, throttled so
// hot loops do not drown the consumer.
func (w *Walker) reportProgress() {
	if w.onProgress == nil {
		return
	}

	now := time.Now().UnixMilli()
	last := w.lastProgress.Load()
	if now-last < progressThrottle.Milliseconds() {
		return
	}
	if !w.lastProgress.CompareAndSwap(last, now) {
		return // Another goroutine got there first.
	}

	w.onProgress(w.Snapshot())
}

// reportProgressForce bypasses the throttle for walk completion.
func (w *Walker) reportProgressForce() {
	if w.onProgress == nil {
		return
	}
	w.lastProgress.Store(time.Now().UnixMilli())
	w.onProgress(w.Snapshot())
}

// normalizeRoots converts roots to cleaned absolute paths, removes
// duplicates, and coalesces roots nested under other roots so every file is
// visited exactly once.
func normalizeRoots(roots []string) []string {
	abs := make([]string, 0, len(roots))
	for _, r := range roots {
		if r == "" {
			continue
		}
		a, err := filepath.Abs(r)
		if err != nil {
			continue
		}
		abs = append(abs, filepath.Clean(a))
	}
	sort.Strings(abs)

	var out []string
	for _, r := range abs {
		nested := false
		for _, kept := range out {
			if r == kept || underDir(r, kept) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, r)
		}
	}
	return out
}

// underDir reports whether path lies strictly under dir.
func underDir(path, dir string) bool {
	return len(path) > len(dir) && path[:len(dir)] == dir && path[len(dir)] == filepath.Separator
}
