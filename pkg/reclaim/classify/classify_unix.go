//go:build unix

package classify

import (
	"io/fs"
	"syscall"

	"golang.org/x/sys/unix"
)

// identity extracts the device and inode numbers from an lstat result.
func identity(info fs.FileInfo) (dev, ino uint64) {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return uint64(st.Dev), uint64(st.Ino)
	}
	return 0, 0
}

// writable reports whether the current user can write to the directory.
func writable(dir string) bool {
	return unix.Access(dir, unix.W_OK) == nil
}
