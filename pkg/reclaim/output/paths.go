package output

import (
	"bytes"
)

// PathsFormatter formats output as one file path per line.
// It produces a simple list of paths suitable for piping to other tools.
// Only the paths are output, without size or other metadata. For duplicate
// scans the first copy of each group is withheld as the keeper, so the
// listed paths are exactly the ones whose removal frees space.
type PathsFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PathsFormatter) Format(w *bytes.Buffer, r *Result) error {
	for _, path := range proposedPaths(r) {
		w.WriteString(path)
		w.WriteByte('\n')
	}
	return nil
}

// proposedPaths lists every path a result proposes to remove: all proposed
// files plus, per duplicate group, every copy except the first.
func proposedPaths(r *Result) []string {
	paths := make([]string, 0, len(r.Files))
	for _, file := range r.Files {
		paths = append(paths, file.Path)
	}
	for _, group := range r.Groups {
		for i, file := range group.Files {
			if i == 0 {
				continue
			}
			paths = append(paths, file.Path)
		}
	}
	return paths
}

func init() {
	Register("paths", func() Formatter {
		return &PathsFormatter{}
	})
}

// Ensure PathsFormatter implements Formatter.
var _ Formatter = (*PathsFormatter)(nil)

// NullFormatter formats output as null-delimited paths.
// It produces paths separated by null bytes (0x00), suitable for use with
// xargs -0 or other tools that support null-delimited input.
// This format safely handles paths containing spaces, newlines, or other
// special characters.
type NullFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *NullFormatter) Format(w *bytes.Buffer, r *Result) error {
	for _, path := range proposedPaths(r) {
		w.WriteString(path)
		w.WriteByte(0) // Null byte delimiter
	}
	return nil
}

func init() {
	Register("null", func() Formatter {
		return &NullFormatter{}
	})
}

// Ensure NullFormatter implements Formatter.
var _ Formatter = (*NullFormatter)(nil)
