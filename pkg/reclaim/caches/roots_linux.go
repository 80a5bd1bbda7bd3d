//go:build linux

package caches

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// platformRoots returns the conventional Linux cache locations. Browser
// caches live under XDG_CACHE_HOME on current layouts; the explicit Chrome
// entry covers older profiles. Missing entries are skipped at scan time.
func platformRoots() []string {
	roots := []string{xdg.CacheHome, "/tmp", "/var/tmp", os.TempDir()}
	home, err := os.UserHomeDir()
	if err != nil {
		return roots
	}
	return append(roots,
		filepath.Join(home, ".config", "google-chrome", "Default", "Cache"),
	)
}
