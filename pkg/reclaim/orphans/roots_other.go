//go:build !darwin && !linux

package orphans

// platformRoots returns nil: no residue catalog is maintained for this
// platform, so an orphan scan finds nothing unless roots are supplied.
func platformRoots() []string {
	return nil
}
