package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/jamesainslie/reclaim/pkg/reclaim/scan"
	"github.com/jamesainslie/reclaim/pkg/reclaim/types"
)

func TestNewScanModel(t *testing.T) {
	m := NewScanModel(scan.LargeFiles, []string{"/test/path"})

	if m.kind != scan.LargeFiles {
		t.Errorf("expected kind %q, got %q", scan.LargeFiles, m.kind)
	}
	if len(m.roots) != 1 || m.roots[0] != "/test/path" {
		t.Errorf("expected roots [/test/path], got %v", m.roots)
	}
	if m.done {
		t.Error("expected done to be false initially")
	}
	if m.err != nil {
		t.Error("expected err to be nil initially")
	}
}

func TestScanModelSetProgress(t *testing.T) {
	m := NewScanModel(scan.Duplicates, []string{"/test/path"})

	progress := types.ScanProgress{
		Phase:       types.PhaseWalk,
		DirsScanned: 100,
		FilesSeen:   1000,
		BytesSeen:   500 * types.MiB,
		CurrentPath: "/test/path/current",
	}

	m.SetProgress(progress)

	if m.progress.DirsScanned != 100 {
		t.Errorf("expected DirsScanned 100, got %d", m.progress.DirsScanned)
	}
	if m.progress.FilesSeen != 1000 {
		t.Errorf("expected FilesSeen 1000, got %d", m.progress.FilesSeen)
	}
	if m.progress.BytesSeen != 500*types.MiB {
		t.Errorf("expected BytesSeen %d, got %d", 500*types.MiB, m.progress.BytesSeen)
	}
	if m.currentPath != "/test/path/current" {
		t.Errorf("expected currentPath '/test/path/current', got %s", m.currentPath)
	}
}

func TestScanModelSetDone(t *testing.T) {
	m := NewScanModel(scan.Caches, nil)

	// Test done without error
	m.SetDone(nil)
	if !m.done {
		t.Error("expected done to be true")
	}
	if m.err != nil {
		t.Error("expected err to be nil")
	}
}

func TestScanModelSetDoneWithError(t *testing.T) {
	m := NewScanModel(scan.Caches, nil)

	err := &testError{"test error"}
	m.SetDone(err)
	if !m.done {
		t.Error("expected done to be true")
	}
	if m.err == nil {
		t.Error("expected err to be set")
	}
	if m.err.Error() != "test error" {
		t.Errorf("expected error message 'test error', got %s", m.err.Error())
	}
}

func TestScanModelIsDone(t *testing.T) {
	m := NewScanModel(scan.Orphans, nil)

	if m.IsDone() {
		t.Error("expected IsDone to be false initially")
	}

	m.SetDone(nil)

	if !m.IsDone() {
		t.Error("expected IsDone to be true after SetDone")
	}
}

func TestScanModelError(t *testing.T) {
	m := NewScanModel(scan.Orphans, nil)

	if m.Error() != nil {
		t.Error("expected Error to be nil initially")
	}

	err := &testError{"test error"}
	m.SetDone(err)

	if m.Error() == nil {
		t.Error("expected Error to be set after SetDone")
	}
}

func TestScanModelView(t *testing.T) {
	m := NewScanModel(scan.LargeFiles, []string{"/test/path"})
	m.width = 80
	m.height = 24

	view := m.View()
	if view == "" {
		t.Error("expected non-empty view")
	}
	if !strings.Contains(view, "large-files") {
		t.Error("expected view to name the scan kind")
	}
}

func TestScanModelViewHashPhase(t *testing.T) {
	m := NewScanModel(scan.Duplicates, []string{"/test/path"})
	m.width = 80
	m.height = 24

	m.SetProgress(types.ScanProgress{
		Phase:       types.PhaseHash,
		CurrentPath: "/test/path/big.iso",
		HashedBytes: 10 * types.MiB,
	})

	view := m.View()
	if !strings.Contains(view, "Hashing") {
		t.Error("expected view to show the hashing phase")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "0:00"},
		{30, "0:30"},
		{60, "1:00"},
		{90, "1:30"},
		{120, "2:00"},
		{3600, "60:00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			d := time.Duration(tt.seconds) * time.Second
			result := formatDuration(d)
			if result != tt.expected {
				t.Errorf("formatDuration(%d seconds) = %s, want %s", tt.seconds, result, tt.expected)
			}
		})
	}
}

// Helper type for testing errors
type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func TestScanModelFractionBar(t *testing.T) {
	m := NewScanModel(scan.LargeFiles, []string{"/test/path"})
	m.width = 80
	m.height = 24

	m.SetTotalFiles(1000)
	m.SetProgress(types.ScanProgress{
		Phase:     types.PhaseWalk,
		FilesSeen: 500,
	})

	view := m.View()
	if !strings.Contains(view, "50%") {
		t.Error("expected a determinate bar showing 50%")
	}
}

func TestScanModelFractionClamped(t *testing.T) {
	m := NewScanModel(scan.LargeFiles, []string{"/test/path"})
	m.width = 80
	m.height = 24

	m.SetTotalFiles(100)
	m.SetProgress(types.ScanProgress{
		Phase:     types.PhaseWalk,
		FilesSeen: 250,
	})

	view := m.View()
	if !strings.Contains(view, "100%") {
		t.Error("expected the fraction to clamp at 100% when the advisory total is low")
	}
}

func TestScanModelHashPhaseUsesPulse(t *testing.T) {
	m := NewScanModel(scan.Duplicates, []string{"/test/path"})
	m.width = 80
	m.height = 24

	m.SetTotalFiles(1000)
	m.SetProgress(types.ScanProgress{
		Phase:     types.PhaseHash,
		FilesSeen: 1000,
	})

	view := m.View()
	if strings.Contains(view, "100%") {
		t.Error("hashing extent is unknown; the bar must not claim a fraction")
	}
}
