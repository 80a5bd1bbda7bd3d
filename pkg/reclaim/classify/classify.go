// Package classify builds candidate snapshots from lstat results: it
// assigns each entry a file kind and resolves the removability verdict.
// The verdict is computed exactly once here; every downstream consumer
// trusts the Removable flag on the record.
package classify

import (
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jamesainslie/reclaim/pkg/reclaim/types"
)

// Extension sets for the coarse file kinds.
var (
	imageExts = extSet(
		".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".tif", ".webp",
		".svg", ".ico", ".heic", ".heif", ".raw",
	)
	videoExts = extSet(
		".mp4", ".mkv", ".avi", ".mov", ".wmv", ".flv", ".webm", ".m4v",
		".mpeg", ".mpg",
	)
	audioExts = extSet(
		".mp3", ".flac", ".wav", ".aac", ".ogg", ".wma", ".m4a", ".opus",
		".aiff", ".alac",
	)
)

func extSet(exts ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		m[e] = struct{}{}
	}
	return m
}

// Classifier resolves file kinds and removability verdicts.
//
// A Classifier is safe for concurrent use; the walker calls it from many
// pool workers at once.
type Classifier struct {
	protected []string

	mu       sync.Mutex
	writable map[string]bool // parent directory -> writable, memoized
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithProtected adds protected path prefixes on top of the platform
// defaults. Anything under a protected prefix is never removable.
func WithProtected(prefixes ...string) Option {
	return func(c *Classifier) {
		for _, p := range prefixes {
			if p == "" {
				continue
			}
			c.protected = append(c.protected, filepath.Clean(p))
		}
	}
}

// WithoutDefaultProtected drops the platform default protected prefixes,
// leaving only explicitly configured ones. Intended for tests.
func WithoutDefaultProtected() Option {
	return func(c *Classifier) {
		c.protected = nil
	}
}

// New creates a Classifier seeded with the platform's protected prefixes.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		protected: defaultProtected(),
		writable:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify builds the candidate snapshot for a path from its lstat result.
// The info must come from os.Lstat: symlinks are classified as themselves,
// never through their targets.
func (c *Classifier) Classify(path string, info fs.FileInfo) types.Candidate {
	dev, ino := identity(info)

	cand := types.Candidate{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Device:  dev,
		Inode:   ino,
	}

	broken := false
	if info.Mode()&fs.ModeSymlink != 0 {
		cand.Kind = types.KindSymlink
		if target, err := filepath.EvalSymlinks(path); err == nil {
			cand.SymlinkTarget = target
		} else {
			broken = true
		}
	} else {
		cand.Kind = KindForPath(path)
	}

	cand.Removable, cand.RetainReason = c.verdict(path, broken)
	return cand
}

// Identity returns the device and inode identifying the physical file
// behind an lstat result. Both are zero when the platform exposes neither.
func Identity(info fs.FileInfo) (dev, ino uint64) {
	return identity(info)
}

// verdict applies the removability rules in order of precedence:
// protected prefix, then broken symlink, then parent write permission.
func (c *Classifier) verdict(path string, broken bool) (bool, types.RetainReason) {
	if c.IsProtected(path) {
		return false, types.RetainProtected
	}
	if broken {
		return false, types.RetainBrokenLink
	}
	if !c.parentWritable(filepath.Dir(path)) {
		return false, types.RetainReadOnlyParent
	}
	return true, types.RetainNone
}

// IsProtected reports whether the path falls under a protected prefix.
func (c *Classifier) IsProtected(path string) bool {
	for _, prefix := range c.protected {
		if hasPathPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// parentWritable reports whether the current user can write the given
// directory, which is what unlinking a file in it requires. Results are
// memoized per directory since the walker classifies files in batches.
func (c *Classifier) parentWritable(dir string) bool {
	c.mu.Lock()
	w, ok := c.writable[dir]
	c.mu.Unlock()
	if ok {
		return w
	}

	w = writable(dir)

	c.mu.Lock()
	c.writable[dir] = w
	c.mu.Unlock()
	return w
}

// KindForPath returns the coarse kind for a regular file path, decided by
// extension with a MIME lookup as fallback.
func KindForPath(path string) types.FileKind {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return types.KindRegular
	}

	if _, ok := imageExts[ext]; ok {
		return types.KindImage
	}
	if _, ok := videoExts[ext]; ok {
		return types.KindVideo
	}
	if _, ok := audioExts[ext]; ok {
		return types.KindAudio
	}

	switch mt := mime.TypeByExtension(ext); {
	case strings.HasPrefix(mt, "image/"):
		return types.KindImage
	case strings.HasPrefix(mt, "video/"):
		return types.KindVideo
	case strings.HasPrefix(mt, "audio/"):
		return types.KindAudio
	}
	return types.KindRegular
}

// hasPathPrefix reports whether path is prefix itself or lies under it.
// Matching respects path boundaries: "/usr" covers "/usr/lib" but not
// "/usrlocal".
func hasPathPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	if prefix == string(os.PathSeparator) {
		return strings.HasPrefix(path, prefix)
	}
	return strings.HasPrefix(path, prefix+string(os.PathSeparator))
}
