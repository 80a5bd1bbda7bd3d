package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	"github.com/jamesainslie/reclaim/pkg/reclaim/classify"
	"github.com/jamesainslie/reclaim/pkg/reclaim/pool"
	"github.com/jamesainslie/reclaim/pkg/reclaim/types"
)

// Rejections returned by the deletion boundary.
var (
	// ErrNotRemovable rejects a record whose classifier verdict was false.
	// The filesystem is never touched for such a record.
	ErrNotRemovable = errors.New("record is not removable")

	// ErrChangedSinceScan rejects a record whose file no longer matches
	// the scanned snapshot. The file is kept.
	ErrChangedSinceScan = errors.New("file changed since scan")

	// ErrVanished rejects a record whose file no longer exists. It wraps
	// fs.ErrNotExist.
	ErrVanished = fmt.Errorf("file vanished since scan: %w", fs.ErrNotExist)
)

// Deleter performs the module's only file mutation: removing a scanned,
// removable, still-unchanged file.
type Deleter struct{}

// NewDeleter creates a Deleter.
func NewDeleter() *Deleter {
	return &Deleter{}
}

// Delete removes the file behind a record. The record must carry a true
// removability verdict, and the file on disk must still match the scanned
// snapshot (size, mod time, and physical identity); anything else is
// rejected with a sentinel error before the file is touched.
func (d *Deleter) Delete(ctx context.Context, rec types.FileRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !rec.Removable {
		return fmt.Errorf("%w: %q (%s)", ErrNotRemovable, rec.Path, rec.RetainReason)
	}

	info, err := os.Lstat(rec.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrVanished, rec.Path)
		}
		return fmt.Errorf("stat %q: %w", rec.Path, err)
	}
	if !matchesSnapshot(info, rec) {
		return fmt.Errorf("%w: %q", ErrChangedSinceScan, rec.Path)
	}

	if err := os.Remove(rec.Path); err != nil {
		return fmt.Errorf("remove %q: %w", rec.Path, err)
	}
	logger.Debug("deleted", "path", rec.Path, "size", rec.Size)
	return nil
}

// matchesSnapshot reports whether the file on disk is still the one the
// scan recorded.
func matchesSnapshot(info fs.FileInfo, rec types.FileRecord) bool {
	if info.Size() != rec.Size || !info.ModTime().Equal(rec.ModTime) {
		return false
	}
	if rec.Device == 0 && rec.Inode == 0 {
		// No physical identity was captured at scan time.
		return true
	}
	dev, ino := classify.Identity(info)
	return dev == rec.Device && ino == rec.Inode
}

// BatchResult summarizes a DeleteBatch run.
type BatchResult struct {
	// Deleted is the number of files removed.
	Deleted int `json:"deleted"`

	// BytesFreed totals the size of the removed files.
	BytesFreed int64 `json:"bytes_freed"`

	// Failed lists every record that was not removed, with the reason.
	Failed []types.Warning `json:"failed,omitempty"`
}

// DeleteBatch removes a set of records with bounded parallelism. One
// failure never stops the batch; cancellation stops issuing new deletions
// and whatever already ran is reported. Workers at or below zero selects
// the pool default.
func (d *Deleter) DeleteBatch(ctx context.Context, recs []types.FileRecord, workers int) BatchResult {
	p := pool.New(pool.Config{Workers: workers})

	var mu sync.Mutex
	var result BatchResult

	for _, rec := range recs {
		if ctx.Err() != nil {
			break
		}
		rec := rec
		err := p.Submit(func() {
			err := d.Delete(ctx, rec)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, types.WarnErr("delete", rec.Path, err))
				return
			}
			result.Deleted++
			result.BytesFreed += rec.Size
		})
		if err != nil {
			break
		}
	}
	p.Shutdown()

	sort.Slice(result.Failed, func(i, j int) bool {
		return result.Failed[i].Path < result.Failed[j].Path
	})
	logger.Info("batch delete finished",
		"deleted", result.Deleted,
		"failed", len(result.Failed),
		"bytes_freed", result.BytesFreed)
	return result
}
