package dupes

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jamesainslie/reclaim/pkg/reclaim/types"
)

// ErrChangedDuringHash is returned when a file's size or modification time
// no longer matches its snapshot after hashing. The content just read is
// not trustworthy, so the candidate is treated as a hash failure.
var ErrChangedDuringHash = errors.New("file changed while hashing")

// Hasher computes SHA-256 content hashes with tuned read sizes.
// The read sizes come from the tuner; the hasher itself is platform-blind.
type Hasher struct {
	chunkSize   int
	partialSize int
}

// NewHasher creates a Hasher. Non-positive sizes fall back to 64 KiB.
func NewHasher(chunkSize, partialSize int) *Hasher {
	const fallback = 64 * 1024
	if chunkSize <= 0 {
		chunkSize = fallback
	}
	if partialSize <= 0 {
		partialSize = chunkSize
	}
	return &Hasher{chunkSize: chunkSize, partialSize: partialSize}
}

// PartialSize returns the prefix length used for signatures.
func (h *Hasher) PartialSize() int64 {
	return int64(h.partialSize)
}

// Partial hashes the first PartialSize bytes of the file in a single read.
// For files no larger than that, the result equals the full hash.
func (h *Hasher) Partial(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, h.partialSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("read %q: %w", path, err)
	}

	sum := sha256.Sum256(buf[:n])
	return hex.EncodeToString(sum[:]), nil
}

// Full hashes the entire file in chunk-sized reads, then re-checks the
// snapshot: if the size or modification time moved while we were reading,
// it returns ErrChangedDuringHash.
func (h *Hasher) Full(path string, snap types.Candidate) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	hasher := sha256.New()
	buf := make([]byte, h.chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read %q: %w", path, err)
		}
	}

	info, err := os.Lstat(path)
	if err != nil {
		return "", fmt.Errorf("stat %q after hash: %w", path, err)
	}
	if info.Size() != snap.Size || !info.ModTime().Equal(snap.ModTime) {
		return "", fmt.Errorf("%w: %q", ErrChangedDuringHash, path)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
