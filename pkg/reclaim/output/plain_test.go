package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainFormatter_Format_BasicOutput(t *testing.T) {
	formatter := &PlainFormatter{}
	var buf bytes.Buffer

	result := &Result{
		Kind: "large-files",
		Files: []FileInfo{
			{Path: "/home/user/large.zip", Size: 1073741824, SizeHuman: "1.0 GiB"},
			{Path: "/home/user/video.mp4", Size: 536870912, SizeHuman: "512 MiB"},
		},
		Stats: ScanStats{
			Duration: time.Second,
		},
		Roots:      []string{"/home/user"},
		TotalFiles: 2,
	}

	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	output := buf.String()
	lines := strings.Split(strings.TrimSpace(output), "\n")

	// Should have header + 2 data rows
	require.Len(t, lines, 3)

	// Header should be SIZE\tPATH
	assert.True(t, strings.HasPrefix(lines[0], "SIZE"))
	assert.Contains(t, lines[0], "PATH")

	// Data rows should have size and path
	assert.Contains(t, lines[1], "1.0 GiB")
	assert.Contains(t, lines[1], "/home/user/large.zip")
	assert.Contains(t, lines[2], "512 MiB")
	assert.Contains(t, lines[2], "/home/user/video.mp4")
}

func TestPlainFormatter_Format_EmptyResult(t *testing.T) {
	formatter := &PlainFormatter{}
	var buf bytes.Buffer

	result := &Result{
		Files:      []FileInfo{},
		Stats:      ScanStats{Duration: time.Second},
		Roots:      []string{"/home/user"},
		TotalFiles: 0,
	}

	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	output := buf.String()
	// Should only have header line
	lines := strings.Split(strings.TrimSpace(output), "\n")
	assert.Len(t, lines, 1)
	assert.Contains(t, lines[0], "SIZE")
	assert.Contains(t, lines[0], "PATH")
}

func TestPlainFormatter_Format_NoColors(t *testing.T) {
	formatter := &PlainFormatter{}
	var buf bytes.Buffer

	result := &Result{
		Files: []FileInfo{
			{Path: "/home/user/large.zip", Size: 1073741824, SizeHuman: "1.0 GiB"},
		},
		Stats: ScanStats{
			Duration: time.Second,
		},
		Roots:      []string{"/home/user"},
		TotalFiles: 1,
	}

	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	output := buf.String()

	// Should not contain ANSI escape codes
	assert.NotContains(t, output, "\x1b[")
	assert.NotContains(t, output, "\033[")
}

func TestPlainFormatter_Format_Groups(t *testing.T) {
	formatter := &PlainFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, dupResult())
	require.NoError(t, err)

	output := buf.String()

	// Group summary lines carry count, sizes, and hash
	assert.Contains(t, output, "3 x 1.0 MiB (2.0 MiB reclaimable) aaaa1111bbbb2222")
	assert.Contains(t, output, "2 x 512 B (512 B reclaimable) cccc3333dddd4444")

	// Every member path is listed, indented
	assert.Contains(t, output, "  /data/a/report.pdf\n")
	assert.Contains(t, output, "  /data/c/report.pdf\n")
	assert.Contains(t, output, "  /data/b/notes.txt\n")

	// Groups are separated by a blank line
	assert.Contains(t, output, "report.pdf\n\n2 x")
}
