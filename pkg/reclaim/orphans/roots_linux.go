//go:build linux

package orphans

import "github.com/adrg/xdg"

// platformRoots returns the XDG base directories where applications leave
// per-user residue.
func platformRoots() []string {
	return []string{xdg.ConfigHome, xdg.DataHome, xdg.CacheHome, xdg.StateHome}
}
