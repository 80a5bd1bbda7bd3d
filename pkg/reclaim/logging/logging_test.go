package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{input: "debug", want: LevelDebug},
		{input: "info", want: LevelInfo},
		{input: "warn", want: LevelWarn},
		{input: "warning", want: LevelWarn},
		{input: "error", want: LevelError},
		{input: "ERROR", want: LevelError},
		{input: "verbose", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "unknown", Level(42).String())
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "reclaim.log")

	require.NoError(t, Init(Config{Level: "debug", Path: path}))
	defer func() { require.NoError(t, Close()) }()

	logger := Get("scanner")
	logger.Info("walk started", "roots", 2)
	logger.Debug("entered", "path", "/tmp")

	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "walk started")
	assert.Contains(t, string(data), "scanner")
	assert.Contains(t, string(data), "entered")
}

func TestComponentLevelOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reclaim.log")

	cfg := Config{
		Level:      "error",
		Path:       path,
		Components: map[string]string{"dupes": "debug"},
	}
	require.NoError(t, Init(cfg))
	defer func() { require.NoError(t, Close()) }()

	Get("dupes").Debug("bucket ready", "size", 1024)
	Get("scanner").Debug("should be filtered")

	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "bucket ready")
	assert.NotContains(t, string(data), "should be filtered")
}

func TestGetReturnsSameLogger(t *testing.T) {
	require.NoError(t, Init(Config{Level: "info"}))
	defer func() { require.NoError(t, Close()) }()

	a := Get("pool")
	b := Get("pool")
	assert.Same(t, a, b)
}

func TestInitRejectsBadLevels(t *testing.T) {
	assert.Error(t, Init(Config{Level: "chatty"}))
	assert.Error(t, Init(Config{
		Level:      "info",
		Components: map[string]string{"scanner": "silent"},
	}))
	assert.Error(t, Init(Config{Level: "info", ConsoleLevel: "loud"}))
}

func TestLoggerWithContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reclaim.log")
	require.NoError(t, Init(Config{Level: "info", Path: path}))
	defer func() { require.NoError(t, Close()) }()

	Get("scan").With("scan_id", "abc123").Info("started")

	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "abc123")
}
