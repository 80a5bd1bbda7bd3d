//go:build !darwin && !linux

package caches

import "os"

// platformRoots falls back to the process temp directory on platforms
// without a maintained cache catalog.
func platformRoots() []string {
	return []string{os.TempDir()}
}
