// Package largefiles filters a candidate stream down to removable files at
// or above a size threshold. It never reads file contents.
package largefiles

import (
	"context"

	"github.com/jamesainslie/reclaim/pkg/reclaim/logging"
	"github.com/jamesainslie/reclaim/pkg/reclaim/types"
)

var logger = logging.Get("largefiles")

// DefaultThreshold is the minimum size for a file to count as large.
const DefaultThreshold = 100 * types.MiB

// Finder selects large removable files from a candidate stream.
type Finder struct {
	threshold int64
}

// New creates a large-file Finder. A non-positive threshold selects
// DefaultThreshold; callers that treat a non-positive threshold as invalid
// must reject it before construction.
func New(threshold int64) *Finder {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Finder{threshold: threshold}
}

// Threshold returns the effective minimum size.
func (f *Finder) Threshold() int64 {
	return f.threshold
}

// Find drains the candidate stream and returns removable files at or above
// the threshold, largest first. Cancellation stops consumption; whatever
// was collected so far is returned.
func (f *Finder) Find(ctx context.Context, stream <-chan types.Candidate) []types.FileRecord {
	var records []types.FileRecord
	for {
		select {
		case <-ctx.Done():
			types.SortBySize(records)
			return records
		case cand, ok := <-stream:
			if !ok {
				types.SortBySize(records)
				logger.Debug("large-file scan finished",
					"threshold", f.threshold, "records", len(records))
				return records
			}
			if !cand.Removable || cand.Size < f.threshold {
				continue
			}
			records = append(records, cand.Record())
		}
	}
}
