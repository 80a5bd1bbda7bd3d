//go:build darwin

package classify

import (
	"os"
	"path/filepath"
)

// defaultProtected returns the macOS protected prefixes: system trees plus
// the user's personal data directories. Note that ~/Library itself is not
// protected; cache and residue roots live under it.
func defaultProtected() []string {
	protected := []string{
		"/System",
		"/Applications",
		"/Library",
		"/usr",
		"/bin",
		"/sbin",
		"/etc",
		"/dev",
		"/private/etc",
		"/private/var/db",
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return protected
	}
	for _, dir := range []string{"Documents", "Desktop", "Pictures", "Music", "Movies"} {
		protected = append(protected, filepath.Join(home, dir))
	}
	return protected
}
