//go:build !unix

package classify

import (
	"io/fs"
	"os"
)

// identity extracts the device and inode numbers from an lstat result.
// Platforms without unix stat semantics report zero identities, which
// disables hard-link collapsing but keeps everything else working.
func identity(info fs.FileInfo) (dev, ino uint64) {
	return 0, 0
}

// writable approximates directory writability from the permission bits.
func writable(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil {
		return false
	}
	return info.Mode().Perm()&0o200 != 0
}
