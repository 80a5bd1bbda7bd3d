package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormatter_Format_BasicOutput(t *testing.T) {
	formatter := &JSONFormatter{}
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
		ScanID:     "3c54a4f0-0000-0000-0000-000000000000",
		TotalFiles: 2,
	}

	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	// Should be valid JSON
	var parsed map[string]interface{}
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)

	// Should have kind, files, stats, and meta sections
	assert.Equal(t, "large-files", parsed["kind"])
	assert.Contains(t, parsed, "files")
	assert.Contains(t, parsed, "stats")
	assert.Contains(t, parsed, "meta")

	// Verify files
	files := parsed["files"].([]interface{})
	assert.Len(t, files, 2)

	file1 := files[0].(map[string]interface{})
	assert.Equal(t, "/home/user/large.zip", file1["path"])
	assert.Equal(t, float64(1073741824), file1["size"])

	// Verify meta
	meta := parsed["meta"].(map[string]interface{})
	assert.Equal(t, float64(2), meta["total_files"])
	assert.Equal(t, float64(1610612736), meta["total_size"])
	assert.Equal(t, false, meta["interrupted"])
}

func TestJSONFormatter_Format_Groups(t *testing.T) {
	formatter := &JSONFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, dupResult())
	require.NoError(t, err)

	var parsed map[string]interface{}
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)

	groups := parsed["groups"].([]interface{})
	require.Len(t, groups, 2)

	group1 := groups[0].(map[string]interface{})
	assert.Equal(t, "aaaa1111bbbb2222", group1["hash"])
	assert.Equal(t, float64(3), group1["count"])
	assert.Equal(t, float64(2097152), group1["reclaimable"])

	members := group1["files"].([]interface{})
	assert.Len(t, members, 3)

	meta := parsed["meta"].(map[string]interface{})
	assert.Equal(t, float64(2), meta["total_groups"])
	assert.Equal(t, float64(2097664), meta["reclaimable"])
}

func TestJSONFormatter_Format_EmptyResult(t *testing.T) {
	formatter := &JSONFormatter{}
	var buf bytes.Buffer

	result := &Result{
		Files:      []FileInfo{},
		Stats:      ScanStats{Duration: time.Second},
		Roots:      []string{"/home/user"},
		TotalFiles: 0,
	}

	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	var parsed map[string]interface{}
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)

	files := parsed["files"].([]interface{})
	assert.Len(t, files, 0)

	// Empty group list is omitted entirely
	assert.NotContains(t, parsed, "groups")
}

func TestJSONFormatter_Format_Indented(t *testing.T) {
	formatter := &JSONFormatter{}
	var buf bytes.Buffer

	result := &Result{
		Files: []FileInfo{
			{Path: "/a.txt", Size: 100, SizeHuman: "100 B"},
		},
		TotalFiles: 1,
	}

	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	// Should be pretty-printed with two-space indentation
	assert.Contains(t, buf.String(), "\n  \"files\"")
}

func TestJSONLFormatter_Format_OneObjectPerLine(t *testing.T) {
	formatter := &JSONLFormatter{}
	var buf bytes.Buffer

	result := &Result{
		Files: []FileInfo{
			{Path: "/home/user/large.zip", Size: 1073741824, SizeHuman: "1.0 GiB"},
			{Path: "/home/user/video.mp4", Size: 536870912, SizeHuman: "512 MiB"},
		},
		TotalFiles: 2,
	}

	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	// Each line is a standalone JSON object
	for _, line := range lines {
		var parsed map[string]interface{}
		err := json.Unmarshal([]byte(line), &parsed)
		require.NoError(t, err)
		assert.Contains(t, parsed, "path")
		assert.Contains(t, parsed, "size")
	}
}

func TestJSONLFormatter_Format_OneGroupPerLine(t *testing.T) {
	formatter := &JSONLFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, dupResult())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var parsed map[string]interface{}
	err = json.Unmarshal([]byte(lines[0]), &parsed)
	require.NoError(t, err)
	assert.Equal(t, "aaaa1111bbbb2222", parsed["hash"])
	assert.Equal(t, float64(3), parsed["count"])
}
