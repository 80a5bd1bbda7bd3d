package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileInfo(t *testing.T) {
	fi := FileInfo{
		Path:      "/home/user/large.zip",
		Name:      "large.zip",
		Dir:       "/home/user",
		Ext:       ".zip",
		Size:      1073741824, // 1 GiB
		SizeHuman: "1.0 GiB",
		ModTime:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Age:       30 * 24 * time.Hour,
		Hash:      "deadbeef",
	}

	assert.Equal(t, "/home/user/large.zip", fi.Path)
	assert.Equal(t, "large.zip", fi.Name)
	assert.Equal(t, "/home/user", fi.Dir)
	assert.Equal(t, ".zip", fi.Ext)
	assert.Equal(t, int64(1073741824), fi.Size)
	assert.Equal(t, "1.0 GiB", fi.SizeHuman)
	assert.Equal(t, 2024, fi.ModTime.Year())
	assert.Equal(t, 30*24*time.Hour, fi.Age)
	assert.Equal(t, "deadbeef", fi.Hash)
}

func TestScanStats(t *testing.T) {
	stats := ScanStats{
		DirsScanned:  100,
		FilesScanned: 5000,
		BytesScanned: 1 << 30,
		Duration:     2 * time.Second,
	}

	assert.Equal(t, int64(100), stats.DirsScanned)
	assert.Equal(t, int64(5000), stats.FilesScanned)
	assert.Equal(t, int64(1<<30), stats.BytesScanned)
	assert.Equal(t, 2*time.Second, stats.Duration)
}

func TestResult_TotalSize(t *testing.T) {
	tests := []struct {
		name     string
		files    []FileInfo
		groups   []GroupInfo
		expected int64
	}{
		{
			name:     "empty result",
			files:    []FileInfo{},
			expected: 0,
		},
		{
			name: "single file",
			files: []FileInfo{
				{Path: "/a.txt", Size: 1000},
			},
			expected: 1000,
		},
		{
			name: "multiple files",
			files: []FileInfo{
				{Path: "/a.txt", Size: 1000},
				{Path: "/b.txt", Size: 2000},
				{Path: "/c.txt", Size: 3000},
			},
			expected: 6000,
		},
		{
			name: "groups count every copy",
			groups: []GroupInfo{
				{Count: 3, Size: 100, Reclaimable: 200},
				{Count: 2, Size: 50, Reclaimable: 50},
			},
			expected: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Result{Files: tt.files, Groups: tt.groups}
			assert.Equal(t, tt.expected, result.TotalSize())
		})
	}
}

func TestResult_Reclaimable(t *testing.T) {
	result := Result{
		Files: []FileInfo{
			{Path: "/a.txt", Size: 1000},
			{Path: "/b.txt", Size: 2000},
		},
		Groups: []GroupInfo{
			{Count: 3, Size: 100, Reclaimable: 200},
		},
	}

	// Files are fully reclaimable; one copy per group is kept.
	assert.Equal(t, int64(3200), result.Reclaimable())
}

// mockFormatter is a simple formatter for testing the registry
type mockFormatter struct {
	formatCalled bool
}

func (m *mockFormatter) Format(w *bytes.Buffer, r *Result) error {
	m.formatCalled = true
	w.WriteString("mock output")
	return nil
}

func TestFormatterInterface(t *testing.T) {
	var f Formatter = &mockFormatter{}
	var buf bytes.Buffer
	result := &Result{}

	err := f.Format(&buf, result)
	require.NoError(t, err)
	assert.Equal(t, "mock output", buf.String())
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	// Create a fresh registry for testing
	reg := NewRegistry()

	// Register a formatter factory
	mockFactory := func() Formatter {
		return &mockFormatter{}
	}
	reg.Register("mock", mockFactory)

	// Get the formatter
	formatter, err := reg.Get("mock")
	require.NoError(t, err)
	assert.NotNil(t, formatter)

	// Verify it works
	var buf bytes.Buffer
	err = formatter.Format(&buf, &Result{})
	require.NoError(t, err)
	assert.Equal(t, "mock output", buf.String())
}

func TestRegistry_GetUnknown(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Get("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown")
}

func TestRegistry_Available_Sorted(t *testing.T) {
	reg := NewRegistry()

	mockFactory := func() Formatter {
		return &mockFormatter{}
	}

	// Register in non-alphabetical order
	reg.Register("zeta", mockFactory)
	reg.Register("alpha", mockFactory)
	reg.Register("beta", mockFactory)

	available := reg.Available()
	// Should be sorted alphabetically
	assert.Equal(t, []string{"alpha", "beta", "zeta"}, available)
}

func TestGlobalRegistry(t *testing.T) {
	// Every built-in formatter registers itself at init time.
	available := Available()
	for _, name := range []string{"pretty", "plain", "json", "jsonl", "yaml", "csv", "tsv", "markdown", "paths", "null", "template"} {
		assert.Contains(t, available, name)
	}
}

// dupResult builds a two-group duplicate result shared by formatter tests.
func dupResult() *Result {
	return &Result{
		Kind: "duplicates",
		Groups: []GroupInfo{
			{
				Hash:             "aaaa1111bbbb2222",
				Count:            3,
				Size:             1048576,
				SizeHuman:        "1.0 MiB",
				Reclaimable:      2097152,
				ReclaimableHuman: "2.0 MiB",
				Files: []FileInfo{
					{Path: "/data/a/report.pdf", Size: 1048576, SizeHuman: "1.0 MiB"},
					{Path: "/data/b/report.pdf", Size: 1048576, SizeHuman: "1.0 MiB"},
					{Path: "/data/c/report.pdf", Size: 1048576, SizeHuman: "1.0 MiB"},
				},
			},
			{
				Hash:             "cccc3333dddd4444",
				Count:            2,
				Size:             512,
				SizeHuman:        "512 B",
				Reclaimable:      512,
				ReclaimableHuman: "512 B",
				Files: []FileInfo{
					{Path: "/data/a/notes.txt", Size: 512, SizeHuman: "512 B"},
					{Path: "/data/b/notes.txt", Size: 512, SizeHuman: "512 B"},
				},
			},
		},
		Stats: ScanStats{
			DirsScanned:  3,
			FilesScanned: 5,
			BytesScanned: 3146240,
			Duration:     time.Second,
		},
		Roots:       []string{"/data"},
		TotalGroups: 2,
	}
}
