//go:build linux

package tuner

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// Detect detects host resources. On linux it uses runtime.NumCPU() for CPU
// cores and sysinfo(2) for memory information.
func Detect() (Host, error) {
	host := Host{
		CPUCores: runtime.NumCPU(),
	}

	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return host, fmt.Errorf("sysinfo: %w", err)
	}

	unit := int64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	host.TotalRAM = int64(info.Totalram) * unit
	host.AvailableRAM = int64(info.Freeram) * unit

	return host, nil
}
