package tui

import (
	"context"
	"io/fs"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	tea "github.com/charmbracelet/bubbletea"
)

// precountMsg carries the advisory file total from the pre-count pass.
type precountMsg struct {
	files int64
}

// precount walks the roots ahead of the scan, counting regular files so the
// progress bar can show a fraction of the whole instead of a pulse. The
// count is advisory: unreadable entries are skipped, symlinks are not
// followed, and cancelling the context ends the pass early.
func precount(ctx context.Context, roots []string) tea.Cmd {
	return func() tea.Msg {
		var files atomic.Int64
		conf := fastwalk.Config{
			Follow: false,
		}
		for _, root := range roots {
			if ctx.Err() != nil {
				break
			}
			_ = fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, walkErr error) error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				if walkErr != nil {
					return nil
				}
				if d.Type().IsRegular() {
					files.Add(1)
				}
				return nil
			})
		}
		return precountMsg{files: files.Load()}
	}
}
