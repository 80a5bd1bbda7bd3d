//go:build !darwin && !linux

package classify

import (
	"os"
	"path/filepath"
)

// defaultProtected returns a minimal protected set for platforms without a
// curated catalog: just the user's personal data directories.
func defaultProtected() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	var protected []string
	for _, dir := range []string{"Documents", "Desktop", "Pictures", "Music"} {
		protected = append(protected, filepath.Join(home, dir))
	}
	return protected
}
