//go:build !darwin && !linux

package tuner

import (
	"runtime"
)

// defaultTotalRAM is the fallback total RAM value when detection is not
// implemented for the platform. 8GB is a reasonable default.
const defaultTotalRAM = 8 * 1024 * 1024 * 1024

// Detect detects host resources. On platforms without a native memory
// probe it uses runtime.NumCPU() and a fixed RAM estimate.
func Detect() (Host, error) {
	totalRAM := int64(defaultTotalRAM)

	return Host{
		CPUCores:     runtime.NumCPU(),
		TotalRAM:     totalRAM,
		AvailableRAM: totalRAM / 2,
	}, nil
}
