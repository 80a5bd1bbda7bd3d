// Package types provides the core data model for the reclaim scanning
// engine: candidate snapshots produced by the tree walker, finalized file
// records, duplicate groups, the non-fatal warning ledger, and utility
// functions for parsing and formatting file sizes.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// FileKind categorizes a scanned filesystem entry.
type FileKind int

const (
	// KindRegular is a regular file with no more specific category.
	KindRegular FileKind = iota

	// KindImage is a regular file recognized as an image by extension.
	KindImage

	// KindVideo is a regular file recognized as a video by extension.
	KindVideo

	// KindAudio is a regular file recognized as audio by extension.
	KindAudio

	// KindSymlink is a symbolic link. Links are recorded as themselves and
	// never followed during traversal.
	KindSymlink
)

var kindNames = [...]string{
	KindRegular: "regular",
	KindImage:   "image",
	KindVideo:   "video",
	KindAudio:   "audio",
	KindSymlink: "symlink",
}

// String returns the lowercase name of the kind.
func (k FileKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText encodes the kind as its lowercase name.
func (k FileKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind from its lowercase name.
func (k *FileKind) UnmarshalText(text []byte) error {
	name := string(text)
	for i, n := range kindNames {
		if n == name {
			*k = FileKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown file kind %q", name)
}

// RetainReason explains why a file was classified as not removable.
// The zero value means no retention applies and the file is removable.
type RetainReason int

const (
	// RetainNone means no retention rule matched; the file is removable.
	RetainNone RetainReason = iota

	// RetainProtected means the path sits under a protected prefix.
	RetainProtected

	// RetainBrokenLink means the file is a symlink whose target cannot be
	// resolved. Broken links are kept for the user to repair or inspect.
	RetainBrokenLink

	// RetainReadOnlyParent means the containing directory is not writable
	// by the current user, so the file cannot be unlinked.
	RetainReadOnlyParent
)

var retainNames = [...]string{
	RetainNone:           "",
	RetainProtected:      "protected",
	RetainBrokenLink:     "broken-link",
	RetainReadOnlyParent: "read-only-parent",
}

// String returns the reason name, or the empty string for RetainNone.
func (r RetainReason) String() string {
	if r < 0 || int(r) >= len(retainNames) {
		return "unknown"
	}
	return retainNames[r]
}

// MarshalText encodes the reason as its name.
func (r RetainReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a reason from its name.
func (r *RetainReason) UnmarshalText(text []byte) error {
	name := string(text)
	for i, n := range retainNames {
		if n == name {
			*r = RetainReason(i)
			return nil
		}
	}
	return fmt.Errorf("unknown retain reason %q", name)
}

// Candidate is the phase-one snapshot of a filesystem entry, produced by the
// tree walker before any content hashing takes place. It is a value type:
// once built it is never mutated, so a Candidate observed by one consumer is
// identical to the same Candidate observed by another.
type Candidate struct {
	// Path is the absolute path to the file.
	Path string `json:"path"`

	// Size is the file size in bytes at snapshot time.
	Size int64 `json:"size"`

	// ModTime is the last modification time at snapshot time.
	ModTime time.Time `json:"mod_time"`

	// Device is the identifier of the device the file resides on.
	Device uint64 `json:"device"`

	// Inode is the file's inode number. Together with Device it identifies
	// the physical file, and is how hard links are detected.
	Inode uint64 `json:"inode"`

	// Kind is the coarse classification of the entry.
	Kind FileKind `json:"kind"`

	// Removable is the classifier verdict: true when deleting this file is
	// considered safe. The verdict is computed exactly once, when the
	// snapshot is built; downstream consumers trust the flag.
	Removable bool `json:"removable"`

	// RetainReason explains a false Removable verdict. It is RetainNone
	// whenever Removable is true.
	RetainReason RetainReason `json:"retain_reason,omitempty"`

	// SymlinkTarget is the resolved absolute target of a symlink. It is
	// empty for non-links and for links whose target cannot be resolved.
	SymlinkTarget string `json:"symlink_target,omitempty"`
}

// HumanSize returns the file size formatted as a human-readable string.
func (c Candidate) HumanSize() string {
	return FormatSize(c.Size)
}

// SamePhysicalFile reports whether two candidates reference the same
// physical file, i.e. they share a device and inode.
func (c Candidate) SamePhysicalFile(o Candidate) bool {
	return c.Device == o.Device && c.Inode == o.Inode
}

// Record finalizes the candidate into a FileRecord without a content hash.
func (c Candidate) Record() FileRecord {
	return FileRecord{Candidate: c}
}

// RecordWithHash finalizes the candidate into a FileRecord carrying the
// given hex-encoded content hash.
func (c Candidate) RecordWithHash(hash string) FileRecord {
	return FileRecord{Candidate: c, ContentHash: hash}
}

// FileRecord is the finalized, immutable snapshot of a scanned file. It is a
// Candidate optionally enriched with a content hash. Enrichment never
// mutates an existing record; it constructs a new value.
type FileRecord struct {
	Candidate

	// ContentHash is the hex-encoded SHA-256 of the file contents. It is
	// empty until a finder computes it; only the duplicate finder does.
	ContentHash string `json:"content_hash,omitempty"`
}

// SortBySize orders records largest first, breaking size ties by path. This
// is the order every finder hands its results back in.
func SortBySize(records []FileRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Size != records[j].Size {
			return records[i].Size > records[j].Size
		}
		return records[i].Path < records[j].Path
	})
}

// DuplicateGroup is a set of byte-identical physical files. Every member has
// the same size and content hash, and no two members share a device/inode
// pair. A group always has at least two members.
type DuplicateGroup struct {
	// Hash is the hex-encoded SHA-256 shared by all members.
	Hash string `json:"hash"`

	// Size is the per-file size in bytes shared by all members.
	Size int64 `json:"size"`

	// Files are the group members, sorted by path.
	Files []FileRecord `json:"files"`
}

// ReclaimableBytes returns the space freed by keeping one copy of the group
// and deleting the rest.
func (g DuplicateGroup) ReclaimableBytes() int64 {
	if len(g.Files) < 2 {
		return 0
	}
	return int64(len(g.Files)-1) * g.Size
}

// Warning records a non-fatal per-path failure encountered during a scan.
// Warnings never abort a scan; they accumulate on the result so callers can
// tell exactly which parts of the tree were not fully examined.
type Warning struct {
	// Path is the file or directory where the failure occurred.
	Path string `json:"path"`

	// Op names the operation that failed, such as "walk", "stat" or "hash".
	Op string `json:"op"`

	// Err is the failure message.
	Err string `json:"error"`
}

// WarnErr builds a Warning from an operation, path and error.
func WarnErr(op, path string, err error) Warning {
	return Warning{Path: path, Op: op, Err: err.Error()}
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s: %s", w.Op, w.Path, w.Err)
}

// Phase identifies which stage of a scan a progress snapshot reports.
type Phase string

const (
	// PhaseWalk is the tree traversal stage.
	PhaseWalk Phase = "walk"

	// PhaseHash is the duplicate-detection hashing stage.
	PhaseHash Phase = "hash"
)

// ScanProgress is a point-in-time snapshot of scan activity, delivered
// through throttled progress callbacks.
type ScanProgress struct {
	// Phase is the stage the scan is currently in.
	Phase Phase `json:"phase"`

	// DirsScanned is the number of directories processed so far.
	DirsScanned int64 `json:"dirs_scanned"`

	// FilesSeen is the number of files examined so far.
	FilesSeen int64 `json:"files_seen"`

	// BytesSeen is the total size of all files examined so far.
	BytesSeen int64 `json:"bytes_seen"`

	// HashedBytes is the number of bytes hashed so far during PhaseHash.
	HashedBytes int64 `json:"hashed_bytes,omitempty"`

	// CurrentPath is the path most recently touched.
	CurrentPath string `json:"current_path"`

	// WalkComplete indicates that directory traversal is finished.
	WalkComplete bool `json:"walk_complete,omitempty"`
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string and returns the size in
// bytes. It supports plain byte counts ("1024"), single-letter suffixes
// ("100K", "2G"), and full binary or decimal suffixes ("50MB", "50MiB"),
// all case insensitive. Decimal values are truncated to the nearest byte.
//
// Returns ErrInvalidSize if the format is not recognized and
// ErrNegativeSize if the value is negative.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}

	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	suffix := strings.ToUpper(matches[2])
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a size in bytes to a human-readable string using
// binary (IEC) units, for consistency with common filesystem tools.
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}
