// Package tuner detects host resources and derives the scanning
// configuration from them: worker count, queue depth, and hash read sizes.
// Platform differences are resolved here once; the pool and the hashing code
// receive plain numbers and never consult the platform themselves.
package tuner

// Host contains detected host resources.
type Host struct {
	// CPUCores is the number of logical CPU cores available.
	CPUCores int

	// TotalRAM is the total physical RAM in bytes.
	TotalRAM int64

	// AvailableRAM is the available (free) RAM in bytes.
	// This may be an estimate based on system heuristics.
	AvailableRAM int64

	// AppleSilicon is true on arm64 macOS. The unified memory
	// architecture there rewards much larger hash reads.
	AppleSilicon bool
}
