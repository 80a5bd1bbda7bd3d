// Package dupes finds sets of byte-identical files. Candidates are bucketed
// by exact size, hard links are collapsed to one physical file, and the
// surviving buckets are resolved with a cheap prefix signature followed by a
// full content hash. The parallelism unit is the bucket: buckets hash
// concurrently on the worker pool, files within a bucket serially.
package dupes

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/jamesainslie/reclaim/pkg/reclaim/logging"
	"github.com/jamesainslie/reclaim/pkg/reclaim/pool"
	"github.com/jamesainslie/reclaim/pkg/reclaim/types"
)

var logger = logging.Get("dupes")

// progressThrottle is the minimum interval between progress callbacks.
const progressThrottle = 100 * time.Millisecond

// Options configures a Finder.
type Options struct {
	// Pool runs the per-bucket hash tasks. Nil makes the finder create
	// and own a default pool for the duration of the find.
	Pool *pool.Pool

	// ChunkSize is the read size for full hashing. Zero selects 64 KiB.
	ChunkSize int

	// PartialSize is the prefix length for the cheap signature pass.
	// Zero selects one chunk.
	PartialSize int

	// MinSize is the smallest file size considered. Values below 1 are
	// raised to 1: empty files are trivially identical and reclaiming
	// them frees nothing.
	MinSize int64

	// OnProgress, when set, receives throttled progress snapshots during
	// the hashing phase.
	OnProgress func(types.ScanProgress)
}

// Finder groups byte-identical files from a candidate stream.
type Finder struct {
	pool       *pool.Pool
	ownPool    bool
	hasher     *Hasher
	minSize    int64
	onProgress func(types.ScanProgress)

	filesHashed  atomic.Int64
	bytesHashed  atomic.Int64
	lastProgress atomic.Int64
}

// New creates a Finder.
func New(opts Options) *Finder {
	f := &Finder{
		pool:       opts.Pool,
		hasher:     NewHasher(opts.ChunkSize, opts.PartialSize),
		minSize:    opts.MinSize,
		onProgress: opts.OnProgress,
	}
	if f.pool == nil {
		f.pool = pool.New(pool.Config{})
		f.ownPool = true
	}
	if f.minSize < 1 {
		f.minSize = 1
	}
	return f
}

// inodeKey identifies a physical file for hard-link collapsing.
type inodeKey struct {
	dev uint64
	ino uint64
}

// bucketResult is what one bucket task delivers back to the collector.
type bucketResult struct {
	groups   []types.DuplicateGroup
	warnings []types.Warning
}

// Find consumes the candidate stream and returns duplicate groups. Hash
// failures exclude the affected candidate and surface as warnings; they
// never abort the find. On cancellation the groups resolved so far are
// returned, and the caller flags the overall result incomplete.
func (f *Finder) Find(ctx context.Context, stream <-chan types.Candidate) ([]types.DuplicateGroup, []types.Warning, error) {
	if f.ownPool {
		defer f.pool.Shutdown()
	}

	buckets := f.bucket(stream)

	// Sort bucket sizes for deterministic submission order.
	sizes := make([]int64, 0, len(buckets))
	for size, cands := range buckets {
		if len(cands) < 2 {
			continue
		}
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] > sizes[j] })

	logger.Debug("hashing buckets", "buckets", len(sizes))

	// Every bucket task sends exactly one result; the buffer makes those
	// sends non-blocking, and this goroutine is the single accumulation
	// point for the hash results.
	results := make(chan bucketResult, len(sizes))
	submitted := 0
	for _, size := range sizes {
		cands := buckets[size]
		err := f.pool.Submit(func() {
			results <- f.hashBucket(ctx, cands)
		})
		if err != nil {
			break
		}
		submitted++
	}

	var groups []types.DuplicateGroup
	var warnings []types.Warning
	for i := 0; i < submitted; i++ {
		res := <-results
		groups = append(groups, res.groups...)
		warnings = append(warnings, res.warnings...)
	}

	sortGroups(groups)
	return groups, warnings, nil
}

// bucket drains the stream into size buckets, collapsing hard links so each
// physical file is considered once. Only removable, non-link files at or
// above the size floor participate.
func (f *Finder) bucket(stream <-chan types.Candidate) map[int64][]types.Candidate {
	type slot struct {
		byInode map[inodeKey]types.Candidate
		noIdent []types.Candidate
	}
	slots := make(map[int64]*slot)

	for cand := range stream {
		if !cand.Removable || cand.Kind == types.KindSymlink || cand.Size < f.minSize {
			continue
		}

		s := slots[cand.Size]
		if s == nil {
			s = &slot{byInode: make(map[inodeKey]types.Candidate)}
			slots[cand.Size] = s
		}

		if cand.Device == 0 && cand.Inode == 0 {
			// No physical identity on this platform; treat every
			// path as its own file.
			s.noIdent = append(s.noIdent, cand)
			continue
		}

		key := inodeKey{dev: cand.Device, ino: cand.Inode}
		if existing, ok := s.byInode[key]; !ok || cand.Path < existing.Path {
			// Deterministic representative: smallest path wins.
			s.byInode[key] = cand
		}
	}

	buckets := make(map[int64][]types.Candidate, len(slots))
	for size, s := range slots {
		cands := make([]types.Candidate, 0, len(s.byInode)+len(s.noIdent))
		for _, cand := range s.byInode {
			cands = append(cands, cand)
		}
		cands = append(cands, s.noIdent...)
		sort.Slice(cands, func(i, j int) bool { return cands[i].Path < cands[j].Path })
		buckets[size] = cands
	}
	return buckets
}

// hashBucket resolves one size bucket: partial signatures split it, then
// full hashes decide the groups. Hashing inside a bucket is serial.
func (f *Finder) hashBucket(ctx context.Context, cands []types.Candidate) bucketResult {
	var res bucketResult

	if ctx.Err() != nil {
		return res
	}

	// Pass 1: cheap prefix signatures.
	bySig := make(map[string][]types.Candidate)
	for _, cand := range cands {
		if ctx.Err() != nil {
			return res
		}
		sig, err := f.hasher.Partial(cand.Path)
		if err != nil {
			res.warnings = append(res.warnings, types.WarnErr("hash", cand.Path, err))
			continue
		}
		bySig[sig] = append(bySig[sig], cand)
	}

	// Pass 2: full hashes for signature collisions.
	byHash := make(map[string][]types.FileRecord)
	for sig, sigCands := range bySig {
		if len(sigCands) < 2 {
			continue
		}
		for _, cand := range sigCands {
			if ctx.Err() != nil {
				return res
			}

			var hash string
			if cand.Size <= f.hasher.PartialSize() {
				// The signature already covered the whole file.
				hash = sig
			} else {
				var err error
				hash, err = f.hasher.Full(cand.Path, cand)
				if err != nil {
					res.warnings = append(res.warnings, types.WarnErr("hash", cand.Path, err))
					continue
				}
			}

			f.filesHashed.Add(1)
			f.bytesHashed.Add(cand.Size)
			f.reportProgress(cand.Path)

			byHash[hash] = append(byHash[hash], cand.RecordWithHash(hash))
		}
	}

	for hash, files := range byHash {
		if len(files) < 2 {
			continue
		}
		sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
		res.groups = append(res.groups, types.DuplicateGroup{
			Hash:  hash,
			Size:  files[0].Size,
			Files: files,
		})
	}
	return res
}

// sortGroups orders groups by reclaimable bytes descending, breaking ties
// by first path, so identical tree states produce identical output.
func sortGroups(groups []types.DuplicateGroup) {
	sort.Slice(groups, func(i, j int) bool {
		ri, rj := groups[i].ReclaimableBytes(), groups[j].ReclaimableBytes()
		if ri != rj {
			return ri > rj
		}
		return groups[i].Files[0].Path < groups[j].Files[0].Path
	})
}

func (f *Finder) reportProgress(path string) {
	if f.onProgress == nil {
		return
	}

	now := time.Now().UnixMilli()
	last := f.lastProgress.Load()
	if now-last < progressThrottle.Milliseconds() {
		return
	}
	if !f.lastProgress.CompareAndSwap(last, now) {
		return
	}

	f.onProgress(types.ScanProgress{
		Phase:       types.PhaseHash,
		FilesSeen:   f.filesHashed.Load(),
		HashedBytes: f.bytesHashed.Load(),
		CurrentPath: path,
	})
}
