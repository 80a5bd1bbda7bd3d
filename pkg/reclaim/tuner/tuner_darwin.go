//go:build darwin

package tuner

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// Detect detects host resources. On darwin it uses runtime.NumCPU() for CPU
// cores and sysctl for memory information, and reports Apple Silicon on
// arm64 so the hash reader can use the larger chunk size.
func Detect() (Host, error) {
	host := Host{
		CPUCores:     runtime.NumCPU(),
		AppleSilicon: runtime.GOARCH == "arm64",
	}

	memsize, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return host, fmt.Errorf("sysctl hw.memsize: %w", err)
	}
	host.TotalRAM = int64(memsize)

	// Precise available memory on macOS means parsing host_statistics;
	// a conservative half-of-total estimate is plenty for queue sizing.
	host.AvailableRAM = host.TotalRAM / 2

	return host, nil
}
