package caches

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/reclaim/pkg/reclaim/classify"
)

// writeAged creates a file of the given size with its mtime shifted into
// the past.
func writeAged(t *testing.T, path string, size int, age time.Duration) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o644))
	when := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, when, when))
}

func TestFindReturnsStaleFilesLargestFirst(t *testing.T) {
	root := t.TempDir()
	writeAged(t, filepath.Join(root, "small.cache"), 100, 48*time.Hour)
	writeAged(t, filepath.Join(root, "nested", "big.cache"), 300, 48*time.Hour)
	writeAged(t, filepath.Join(root, "mid.cache"), 200, 48*time.Hour)

	f := New(Options{Roots: []string{root}})
	records, warnings, err := f.Find(context.Background())

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, records, 3)
	assert.Equal(t, int64(300), records[0].Size)
	assert.Equal(t, int64(200), records[1].Size)
	assert.Equal(t, int64(100), records[2].Size)
	assert.False(t, f.Incomplete())
}

func TestFindSkipsFreshFilesByDefault(t *testing.T) {
	root := t.TempDir()
	writeAged(t, filepath.Join(root, "stale.cache"), 50, 48*time.Hour)
	require.NoError(t, os.WriteFile(filepath.Join(root, "fresh.cache"), []byte("hot"), 0o644))

	f := New(Options{Roots: []string{root}})
	records, _, err := f.Find(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, filepath.Join(root, "stale.cache"), records[0].Path)
}

func TestFindHonorsCustomMinAge(t *testing.T) {
	root := t.TempDir()
	writeAged(t, filepath.Join(root, "two-hours.cache"), 10, 2*time.Hour)
	writeAged(t, filepath.Join(root, "ten-minutes.cache"), 10, 10*time.Minute)

	f := New(Options{Roots: []string{root}, MinAge: time.Hour})
	records, _, err := f.Find(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, filepath.Join(root, "two-hours.cache"), records[0].Path)
}

func TestNegativeMinAgeDisablesAgeFilter(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "fresh.cache"), []byte("hot"), 0o644))

	f := New(Options{Roots: []string{root}, MinAge: -1})
	records, _, err := f.Find(context.Background())

	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestMissingRootsSkippedSilently(t *testing.T) {
	root := t.TempDir()
	writeAged(t, filepath.Join(root, "a.cache"), 10, 48*time.Hour)
	ghost := filepath.Join(root, "does-not-exist")

	f := New(Options{Roots: []string{ghost, root}})
	records, warnings, err := f.Find(context.Background())

	require.NoError(t, err)
	assert.Empty(t, warnings, "a missing cache root is not a warning")
	assert.Len(t, records, 1)
}

func TestNoRootsPresent(t *testing.T) {
	f := New(Options{Roots: []string{filepath.Join(t.TempDir(), "nope")}})
	records, warnings, err := f.Find(context.Background())

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, warnings)
}

func TestNonRemovableFilesExcluded(t *testing.T) {
	root := t.TempDir()
	writeAged(t, filepath.Join(root, "keepable.cache"), 10, 48*time.Hour)
	require.NoError(t, os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "dangling")))

	f := New(Options{Roots: []string{root}, MinAge: -1})
	records, _, err := f.Find(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 1, "broken symlink must not be offered for deletion")
	assert.Equal(t, filepath.Join(root, "keepable.cache"), records[0].Path)
	for _, rec := range records {
		assert.True(t, rec.Removable)
	}
}

func TestProtectedPrefixExcluded(t *testing.T) {
	root := t.TempDir()
	writeAged(t, filepath.Join(root, "app", "stale.cache"), 10, 48*time.Hour)
	writeAged(t, filepath.Join(root, "keep", "stale.cache"), 10, 48*time.Hour)

	cls := classify.New(classify.WithProtected(filepath.Join(root, "keep")))
	f := New(Options{Roots: []string{root}, Classifier: cls})
	records, _, err := f.Find(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, filepath.Join(root, "app", "stale.cache"), records[0].Path)
}

func TestFindCancelledMarksIncomplete(t *testing.T) {
	root := t.TempDir()
	writeAged(t, filepath.Join(root, "a.cache"), 10, 48*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := New(Options{Roots: []string{root}})
	_, _, err := f.Find(ctx)

	require.NoError(t, err, "cancellation is not an error")
	assert.True(t, f.Incomplete())
}

func TestStatsAvailableAfterFind(t *testing.T) {
	root := t.TempDir()
	writeAged(t, filepath.Join(root, "a.cache"), 10, 48*time.Hour)
	writeAged(t, filepath.Join(root, "sub", "b.cache"), 10, 48*time.Hour)

	f := New(Options{Roots: []string{root}})
	_, _, err := f.Find(context.Background())

	require.NoError(t, err)
	stats := f.Stats()
	assert.GreaterOrEqual(t, stats.DirsScanned, int64(2))
	assert.GreaterOrEqual(t, stats.FilesSeen, int64(2))
}
