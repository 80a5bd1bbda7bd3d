package largefiles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/reclaim/pkg/reclaim/types"
)

func cand(path string, size int64, removable bool) types.Candidate {
	return types.Candidate{Path: path, Size: size, Removable: removable}
}

func stream(cands ...types.Candidate) <-chan types.Candidate {
	ch := make(chan types.Candidate, len(cands))
	for _, c := range cands {
		ch <- c
	}
	close(ch)
	return ch
}

func TestFindKeepsFilesAtOrAboveThreshold(t *testing.T) {
	f := New(100)
	records := f.Find(context.Background(), stream(
		cand("/data/exactly.bin", 100, true),
		cand("/data/above.bin", 250, true),
		cand("/data/below.bin", 99, true),
	))

	require.Len(t, records, 2)
	assert.Equal(t, "/data/above.bin", records[0].Path)
	assert.Equal(t, "/data/exactly.bin", records[1].Path)
}

func TestFindExcludesNonRemovable(t *testing.T) {
	f := New(100)
	records := f.Find(context.Background(), stream(
		cand("/data/kept.bin", 500, true),
		cand("/sys/protected.bin", 900, false),
	))

	require.Len(t, records, 1)
	assert.Equal(t, "/data/kept.bin", records[0].Path)
}

func TestFindNeverHashes(t *testing.T) {
	f := New(1)
	records := f.Find(context.Background(), stream(cand("/data/a.bin", 10, true)))

	require.Len(t, records, 1)
	assert.Empty(t, records[0].ContentHash)
}

func TestFindSortsBySizeThenPath(t *testing.T) {
	f := New(1)
	records := f.Find(context.Background(), stream(
		cand("/data/b.bin", 10, true),
		cand("/data/a.bin", 10, true),
		cand("/data/c.bin", 30, true),
	))

	require.Len(t, records, 3)
	assert.Equal(t, "/data/c.bin", records[0].Path)
	assert.Equal(t, "/data/a.bin", records[1].Path)
	assert.Equal(t, "/data/b.bin", records[2].Path)
}

func TestZeroThresholdSelectsDefault(t *testing.T) {
	assert.Equal(t, int64(DefaultThreshold), New(0).Threshold())
	assert.Equal(t, int64(DefaultThreshold), New(-5).Threshold())
	assert.Equal(t, int64(42), New(42).Threshold())
}

func TestFindCancelledReturnsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// An open, empty stream: only cancellation can end the drain.
	ch := make(chan types.Candidate)
	f := New(1)
	records := f.Find(ctx, ch)

	assert.Empty(t, records)
}
