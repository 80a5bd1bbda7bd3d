//go:build darwin

package caches

import (
	"os"
	"path/filepath"
)

// platformRoots returns the conventional macOS cache locations. Missing
// entries are skipped at scan time.
func platformRoots() []string {
	roots := []string{"/tmp", "/private/var/tmp", os.TempDir()}
	home, err := os.UserHomeDir()
	if err != nil {
		return roots
	}
	return append(roots,
		filepath.Join(home, "Library", "Caches"),
		filepath.Join(home, "Library", "Logs"),
		filepath.Join(home, "Library", "Developer", "Xcode", "DerivedData"),
		filepath.Join(home, "Library", "Developer", "CoreSimulator", "Caches"),
	)
}
