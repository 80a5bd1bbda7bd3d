package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/reclaim/pkg/reclaim/classify"
	"github.com/jamesainslie/reclaim/pkg/reclaim/types"
)

// recordFor builds a FileRecord the way a scan would: a fresh lstat
// snapshot run through the classifier.
func recordFor(t *testing.T, path string) types.FileRecord {
	t.Helper()
	info, err := os.Lstat(path)
	require.NoError(t, err)
	c := classify.New(classify.WithoutDefaultProtected())
	return c.Classify(path, info).Record()
}

func TestDeleteRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "victim.bin")
	write(t, path, "doomed bytes")
	rec := recordFor(t, path)

	err := NewDeleter().Delete(context.Background(), rec)

	require.NoError(t, err)
	_, statErr := os.Lstat(path)
	assert.ErrorIs(t, statErr, fs.ErrNotExist)
}

func TestDeleteRejectsNotRemovable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kept.bin")
	write(t, path, "protected bytes")
	rec := recordFor(t, path)
	rec.Removable = false
	rec.RetainReason = types.RetainProtected

	err := NewDeleter().Delete(context.Background(), rec)

	assert.ErrorIs(t, err, ErrNotRemovable)
	_, statErr := os.Lstat(path)
	assert.NoError(t, statErr, "rejected delete must not touch the file")
}

func TestDeleteVanished(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleeting.bin")
	write(t, path, "now you see me")
	rec := recordFor(t, path)
	require.NoError(t, os.Remove(path))

	err := NewDeleter().Delete(context.Background(), rec)

	assert.ErrorIs(t, err, ErrVanished)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDeleteRejectsSizeChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grown.bin")
	write(t, path, "original")
	rec := recordFor(t, path)
	write(t, path, "original plus more")

	err := NewDeleter().Delete(context.Background(), rec)

	assert.ErrorIs(t, err, ErrChangedSinceScan)
	_, statErr := os.Lstat(path)
	assert.NoError(t, statErr, "changed file must be kept")
}

func TestDeleteRejectsModTimeChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "touched.bin")
	write(t, path, "same size content")
	rec := recordFor(t, path)
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	err := NewDeleter().Delete(context.Background(), rec)

	assert.ErrorIs(t, err, ErrChangedSinceScan)
}

func TestDeleteSymlinkRemovesLinkNotTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.bin")
	write(t, target, "the real file")
	link := filepath.Join(dir, "pointer")
	require.NoError(t, os.Symlink(target, link))
	rec := recordFor(t, link)
	require.Equal(t, types.KindSymlink, rec.Kind)

	err := NewDeleter().Delete(context.Background(), rec)

	require.NoError(t, err)
	_, linkErr := os.Lstat(link)
	assert.ErrorIs(t, linkErr, fs.ErrNotExist)
	_, targetErr := os.Lstat(target)
	assert.NoError(t, targetErr, "deleting a symlink record must keep its target")
}

func TestDeleteBatch(t *testing.T) {
	dir := t.TempDir()

	var recs []types.FileRecord
	sizes := map[string]int{"a.bin": 10, "b.bin": 20, "c.bin": 30}
	for name, size := range sizes {
		path := filepath.Join(dir, name)
		write(t, path, string(make([]byte, size)))
		recs = append(recs, recordFor(t, path))
	}

	keptPath := filepath.Join(dir, "kept.bin")
	write(t, keptPath, "retained")
	kept := recordFor(t, keptPath)
	kept.Removable = false
	kept.RetainReason = types.RetainProtected
	recs = append(recs, kept)

	ghostPath := filepath.Join(dir, "ghost.bin")
	write(t, ghostPath, "gone soon")
	ghost := recordFor(t, ghostPath)
	require.NoError(t, os.Remove(ghostPath))
	recs = append(recs, ghost)

	result := NewDeleter().DeleteBatch(context.Background(), recs, 2)

	assert.Equal(t, 3, result.Deleted)
	assert.Equal(t, int64(60), result.BytesFreed)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, ghostPath, result.Failed[0].Path)
	assert.Equal(t, keptPath, result.Failed[1].Path)

	_, err := os.Lstat(keptPath)
	assert.NoError(t, err, "non-removable file survived the batch")
}

func TestDeleteBatchCancelledIssuesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survivor.bin")
	write(t, path, "still here")
	rec := recordFor(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewDeleter().DeleteBatch(ctx, []types.FileRecord{rec}, 1)

	assert.Zero(t, result.Deleted)
	_, err := os.Lstat(path)
	assert.NoError(t, err)
}
