//go:build linux

package classify

import (
	"os"
	"path/filepath"
)

// defaultProtected returns the linux protected prefixes: system trees plus
// the user's personal data directories.
func defaultProtected() []string {
	protected := []string{
		"/usr",
		"/bin",
		"/sbin",
		"/lib",
		"/lib64",
		"/etc",
		"/boot",
		"/opt",
		"/proc",
		"/sys",
		"/dev",
		"/run",
		"/snap",
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return protected
	}
	for _, dir := range []string{"Documents", "Desktop", "Pictures", "Music", "Videos"} {
		protected = append(protected, filepath.Join(home, dir))
	}
	return protected
}
