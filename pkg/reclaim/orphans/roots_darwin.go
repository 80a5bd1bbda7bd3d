//go:build darwin

package orphans

import (
	"os"
	"path/filepath"
)

// platformRoots returns the macOS locations where applications leave
// per-user residue.
func platformRoots() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	lib := filepath.Join(home, "Library")
	return []string{
		filepath.Join(lib, "Application Support"),
		filepath.Join(lib, "Caches"),
		filepath.Join(lib, "Preferences"),
		filepath.Join(lib, "Logs"),
		filepath.Join(lib, "Saved Application State"),
	}
}
