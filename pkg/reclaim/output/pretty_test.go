package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyFormatter_Format_BasicOutput(t *testing.T) {
	formatter := &PrettyFormatter{}
	var buf bytes.Buffer

	result := &Result{
		Kind: "large-files",
		Files: []FileInfo{
			{Path: "/home/user/large.zip", Size: 1073741824, SizeHuman: "1.0 GiB"},
			{Path: "/home/user/video.mp4", Size: 536870912, SizeHuman: "512 MiB"},
		},
		Stats: ScanStats{
			DirsScanned:  100,
			FilesScanned: 5000,
			BytesScanned: 1610612736,
			Duration:     2 * time.Second,
		},
		Roots:      []string{"/home/user"},
		TotalFiles: 2,
	}

	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	output := buf.String()

	// Header should contain the scan kind and roots
	assert.Contains(t, output, "large-files")
	assert.Contains(t, output, "/home/user")

	// Should contain file paths and sizes
	assert.Contains(t, output, "large.zip")
	assert.Contains(t, output, "video.mp4")
	assert.Contains(t, output, "1.0 GiB")
	assert.Contains(t, output, "512 MiB")

	// Should contain column headers
	assert.Contains(t, output, "SIZE")
	assert.Contains(t, output, "PATH")
}

func TestPrettyFormatter_Format_EmptyResult(t *testing.T) {
	formatter := &PrettyFormatter{}
	var buf bytes.Buffer

	result := &Result{
		Kind:       "caches",
		Files:      []FileInfo{},
		Stats:      ScanStats{Duration: time.Second},
		Roots:      []string{"/home/user"},
		TotalFiles: 0,
	}

	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	output := buf.String()

	// Should indicate no files found
	assert.Contains(t, output, "No files found")
}

func TestPrettyFormatter_Format_Groups(t *testing.T) {
	formatter := &PrettyFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, dupResult())
	require.NoError(t, err)

	output := buf.String()

	// Group headers carry copy counts and reclaimable sizes
	assert.Contains(t, output, "3 copies")
	assert.Contains(t, output, "2 copies")
	assert.Contains(t, output, "2.0 MiB reclaimable")

	// Hashes are shortened for display
	assert.Contains(t, output, "aaaa1111bbbb")
	assert.NotContains(t, output, "aaaa1111bbbb2222")

	// The first member is marked as the keeper
	assert.Contains(t, output, "keep")
	assert.Contains(t, output, "dupe")
}

func TestPrettyFormatter_Format_Interrupted(t *testing.T) {
	formatter := &PrettyFormatter{}
	var buf bytes.Buffer

	result := &Result{
		Kind: "orphans",
		Files: []FileInfo{
			{Path: "/home/user/.config/ghost/state.db", Size: 4096, SizeHuman: "4.0 KiB"},
		},
		Roots:       []string{"/home/user/.config"},
		TotalFiles:  1,
		Interrupted: true,
	}

	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "interrupted")
}

func TestPrettyFormatter_Format_WithWarnings(t *testing.T) {
	formatter := &PrettyFormatter{}
	var buf bytes.Buffer

	result := &Result{
		Kind: "large-files",
		Files: []FileInfo{
			{Path: "/home/user/large.zip", Size: 1073741824, SizeHuman: "1.0 GiB"},
		},
		Roots:      []string{"/home/user"},
		TotalFiles: 1,
		Warnings:   []string{"walk /home/user/locked: permission denied"},
	}

	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Warnings:")
	assert.Contains(t, output, "permission denied")
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "abc", shortHash("abc"))
	assert.Equal(t, "aaaabbbbcccc", shortHash("aaaabbbbccccdddd"))
	assert.Equal(t, "", shortHash(""))
}

func TestPadLeft(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{"abc", 5, "  abc"},
		{"abc", 3, "abc"},
		{"abcdef", 3, "abcdef"},
		{"", 2, "  "},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, padLeft(tt.input, tt.width))
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{"milliseconds", 500 * time.Millisecond, "500ms"},
		{"seconds", 2500 * time.Millisecond, "2.5s"},
		{"minutes", 90 * time.Second, "1m 30s"},
		{"hours", 2*time.Hour + 15*time.Minute, "2h 15m"},
		{"int seconds", 45, "45s"},
		{"int minutes", 125, "2m 5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatDuration(tt.input))
		})
	}
}
