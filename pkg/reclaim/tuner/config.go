package tuner

import "github.com/jamesainslie/reclaim/pkg/reclaim/types"

// Worker configuration limits.
const (
	// defaultWorkerCap is the conservative ceiling applied to the core
	// count when the caller does not configure one. Scanning is I/O
	// bound; more workers than this mostly adds seek contention.
	defaultWorkerCap = 16

	// minQueueSize is the minimum task queue size.
	minQueueSize = 64

	// maxQueueSize is the maximum task queue size.
	maxQueueSize = 65536
)

// Memory-based queue sizing constants.
const (
	// bytesPerQueueEntry estimates memory per queued task. Each entry is
	// roughly a path string plus a closure.
	bytesPerQueueEntry = 512

	// queueMemoryFraction is the fraction of available RAM to use for the
	// queue. A small fraction suffices; candidate records and hash
	// buffers consume the real memory.
	queueMemoryFraction = 0.05
)

// Hash read sizes.
const (
	// chunkSizeAppleSilicon is the per-read hash chunk on Apple Silicon,
	// where the unified memory architecture makes large reads cheap.
	chunkSizeAppleSilicon = int(types.MiB)

	// chunkSizeDefault is the per-read hash chunk everywhere else.
	chunkSizeDefault = 64 * int(types.KiB)
)

// Overrides carries user-configured values that take precedence over the
// detected ones. Zero values mean "derive from the host".
type Overrides struct {
	// Workers fixes the pool worker count.
	Workers int

	// WorkerCap replaces the default ceiling on the derived worker count.
	WorkerCap int
}

// Tuning is the scanning configuration derived from host resources.
type Tuning struct {
	// Workers is the worker pool size: min(cores, cap) unless overridden.
	Workers int

	// QueueSize is the pool task queue depth.
	QueueSize int

	// HashChunkSize is the read size used while hashing file contents.
	HashChunkSize int

	// PartialReadSize is the prefix length hashed for the cheap duplicate
	// signature: one chunk. Files no larger than this are fully hashed by
	// the signature pass alone.
	PartialReadSize int
}

// Calculate derives the scanning configuration from host resources,
// applying any user overrides.
//
// The worker count is min(CPUCores, cap): directory traversal and hashing
// are both I/O bound, so piling on workers past the core count buys nothing
// and a modest cap protects spinning disks and network filesystems. The
// queue size is derived from available RAM and clamped to sane bounds.
func Calculate(host Host, o Overrides) Tuning {
	cap := o.WorkerCap
	if cap <= 0 {
		cap = defaultWorkerCap
	}

	workers := o.Workers
	if workers <= 0 {
		workers = host.CPUCores
		if workers > cap {
			workers = cap
		}
	}
	if workers < 1 {
		workers = 1
	}

	chunk := chunkSizeDefault
	if host.AppleSilicon {
		chunk = chunkSizeAppleSilicon
	}

	return Tuning{
		Workers:         workers,
		QueueSize:       calculateQueueSize(host.AvailableRAM),
		HashChunkSize:   chunk,
		PartialReadSize: chunk,
	}
}

// calculateQueueSize determines queue size based on available memory.
func calculateQueueSize(availableRAM int64) int {
	queueMemory := float64(availableRAM) * queueMemoryFraction
	entries := int(queueMemory / bytesPerQueueEntry)

	entries = max(entries, minQueueSize)
	entries = min(entries, maxQueueSize)

	return entries
}
