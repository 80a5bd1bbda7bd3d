package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateFormatter_Format_BasicOutput(t *testing.T) {
	formatter := NewTemplateFormatter("{{range .Files}}{{.Path}}\n{{end}}")
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

	output := buf.String()
	assert.Contains(t, output, "/home/user/large.zip")
	assert.Contains(t, output, "/home/user/video.mp4")
}

func TestTemplateFormatter_Format_EmptyResult(t *testing.T) {
	formatter := NewTemplateFormatter("Files: {{len .Files}}")
	var buf bytes.Buffer

	result := &Result{
		Files:      []FileInfo{},
		TotalFiles: 0,
	}

	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Files: 0")
}

func TestTemplateFormatter_Format_DateFunction(t *testing.T) {
	formatter := NewTemplateFormatter(`{{range .Files}}{{date .ModTime "2006-01-02"}}{{end}}`)
	var buf bytes.Buffer

	modTime := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	result := &Result{
		Files: []FileInfo{
			{Path: "/a.txt", Size: 100, ModTime: modTime},
		},
		TotalFiles: 1,
	}

	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	assert.Equal(t, "2024-06-15", buf.String())
}

func TestTemplateFormatter_Format_BytesFunction(t *testing.T) {
	formatter := NewTemplateFormatter(`{{bytes .Reclaimable}}`)
	var buf bytes.Buffer

	result := &Result{
		Files: []FileInfo{
			{Path: "/a.bin", Size: 1073741824},
		},
		TotalFiles: 1,
	}

	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	assert.Equal(t, "1.0 GiB", buf.String())
}

func TestTemplateFormatter_Format_ShortFunction(t *testing.T) {
	formatter := NewTemplateFormatter(`{{range .Groups}}{{short .Hash}}{{end}}`)
	var buf bytes.Buffer

	result := &Result{
		Groups: []GroupInfo{
			{Hash: "aaaabbbbccccdddd", Count: 2, Size: 10},
		},
		TotalGroups: 1,
	}

	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	assert.Equal(t, "aaaabbbbcccc", buf.String())
}

func TestTemplateFormatter_Format_InvalidTemplate(t *testing.T) {
	formatter := NewTemplateFormatter("{{.Unclosed")
	var buf bytes.Buffer

	err := formatter.Format(&buf, &Result{})
	assert.Error(t, err)
}

func TestTemplateFormatter_SetTemplate(t *testing.T) {
	formatter := NewTemplateFormatter("first: {{len .Files}}")
	var buf bytes.Buffer

	err := formatter.Format(&buf, &Result{})
	require.NoError(t, err)
	assert.Equal(t, "first: 0", buf.String())

	formatter.SetTemplate("second: {{len .Groups}}")
	buf.Reset()

	err = formatter.Format(&buf, &Result{})
	require.NoError(t, err)
	assert.Equal(t, "second: 0", buf.String())
}

func TestTemplateFormatter_Format_DefaultTemplate(t *testing.T) {
	formatter, err := Get("template")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = formatter.Format(&buf, dupResult())
	require.NoError(t, err)

	// The default template lists every group member path
	assert.Contains(t, buf.String(), "/data/a/report.pdf")
	assert.Contains(t, buf.String(), "/data/b/notes.txt")
}
