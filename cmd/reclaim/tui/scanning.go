package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/reclaim/pkg/reclaim/scan"
	"github.com/jamesainslie/reclaim/pkg/reclaim/types"
)

// ScanModel represents the scanning phase of the TUI.
type ScanModel struct {
	progress    types.ScanProgress
	spinner     spinner.Model
	currentPath string
	startTime   time.Time
	width       int
	height      int
	kind        scan.Kind
	roots       []string
	totalFiles  int64
	done        bool
	err         error
}

// ProgressMsg is sent when scan progress is updated.
type ProgressMsg types.ScanProgress

// ScanCompleteMsg is sent when the scan is complete.
type ScanCompleteMsg struct {
	Result  *scan.Result
	Err     error
	Elapsed time.Duration
}

// NewScanModel creates a new scanning model.
func NewScanModel(kind scan.Kind, roots []string) ScanModel {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return ScanModel{
		spinner:   s,
		startTime: time.Now(),
		width:     80,
		height:    24,
		kind:      kind,
		roots:     roots,
	}
}

// Init initializes the scanning model.
func (m ScanModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages for the scanning model.
func (m ScanModel) Update(msg tea.Msg) (ScanModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ProgressMsg:
		m.progress = types.ScanProgress(msg)
		m.currentPath = msg.CurrentPath
		return m, nil

	case ScanCompleteMsg:
		m.done = true
		m.err = msg.Err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the scanning model.
func (m ScanModel) View() string {
	var b strings.Builder

	// Calculate content width (accounting for border padding)
	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	// Add top margin for visual spacing
	b.WriteString("\n")

	// Header
	header := m.renderHeader(contentWidth)
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")

	// Scanning status
	if m.done {
		if m.err != nil {
			b.WriteString(errorTextStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
		} else {
			b.WriteString(successTextStyle.Render("  Scan complete!"))
		}
	} else {
		verb := "Scanning"
		if m.progress.Phase == types.PhaseHash {
			verb = "Hashing"
		}
		scanningText := fmt.Sprintf("  %s %s: %s",
			m.spinner.View(),
			verb,
			truncatePath(m.currentPath, contentWidth-20))
		b.WriteString(scanningText)
	}
	b.WriteString("\n")

	// Progress bar
	b.WriteString("\n")
	b.WriteString(m.renderProgressBar(contentWidth))
	b.WriteString("\n\n")

	// Stats boxes
	b.WriteString(m.renderStats(contentWidth))
	b.WriteString("\n")

	// Build content and calculate padding needed to fill screen
	content := b.String()
	contentLines := strings.Count(content, "\n") + 1

	// Account for outer box border (2 lines: top and bottom)
	availableLines := m.height - 2
	if availableLines > contentLines {
		padding := availableLines - contentLines
		content += strings.Repeat("\n", padding)
	}

	// Wrap in outer box with full height
	return outerBoxStyle.Width(m.width - 2).Height(m.height - 2).Render(content)
}

// renderHeader renders the header section.
func (m ScanModel) renderHeader(width int) string {
	title := titleStyle.Render(fmt.Sprintf("  reclaim %s", m.kind))
	hint := mutedTextStyle.Render("[Ctrl+C to stop]")

	// Calculate spacing
	spacing := width - lipgloss.Width(title) - lipgloss.Width(hint)
	if spacing < 1 {
		spacing = 1
	}

	return title + strings.Repeat(" ", spacing) + hint
}

// renderProgressBar renders the progress bar. With a pre-count total the
// walk shows a real fraction; without one (and during hashing, whose extent
// is unknown) an animated indeterminate bar is used.
func (m ScanModel) renderProgressBar(width int) string {
	barWidth := width - 4
	if barWidth < 10 {
		barWidth = 10
	}

	if m.totalFiles > 0 && m.progress.Phase != types.PhaseHash {
		return m.renderFractionBar(barWidth)
	}

	// Create an indeterminate progress animation
	elapsed := time.Since(m.startTime)
	position := int(elapsed.Seconds()*2) % (barWidth * 2)
	if position > barWidth {
		position = barWidth*2 - position
	}

	// Build the progress bar
	var bar strings.Builder
	bar.WriteString("  ")

	pulseWidth := barWidth / 5
	if pulseWidth < 3 {
		pulseWidth = 3
	}

	for i := range barWidth {
		dist := i - position
		if dist < 0 {
			dist = -dist
		}
		if dist < pulseWidth {
			bar.WriteString(progressFillStyle.Render("█"))
		} else {
			bar.WriteString(progressEmptyStyle.Render("░"))
		}
	}

	return bar.String()
}

// renderFractionBar renders a determinate bar from files seen against the
// pre-counted total. The total is advisory, so the fraction is clamped.
func (m ScanModel) renderFractionBar(barWidth int) string {
	pct := float64(m.progress.FilesSeen) / float64(m.totalFiles)
	if pct > 1 {
		pct = 1
	}

	fillWidth := barWidth - 5
	if fillWidth < 5 {
		fillWidth = 5
	}
	filled := int(pct * float64(fillWidth))

	return "  " + progressFillStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", fillWidth-filled)) +
		fmt.Sprintf(" %3.0f%%", pct*100)
}

// renderStats renders the statistics boxes.
func (m ScanModel) renderStats(totalWidth int) string {
	// Calculate box width (5 boxes with spacing)
	boxWidth := (totalWidth - 12) / 5
	if boxWidth < 10 {
		boxWidth = 10
	}

	// Format values
	dirsVal := humanize.Comma(m.progress.DirsScanned)
	filesVal := humanize.Comma(m.progress.FilesSeen)
	seenVal := types.FormatSize(m.progress.BytesSeen)
	elapsed := time.Since(m.startTime)
	elapsedVal := formatDuration(elapsed)

	// Phase stats: during hashing, show how much content has been read
	var phaseVal string
	switch m.progress.Phase {
	case types.PhaseHash:
		phaseVal = types.FormatSize(m.progress.HashedBytes)
	case types.PhaseWalk:
		phaseVal = "walk"
	default:
		phaseVal = "-"
	}

	// Create stats boxes
	dirsBox := m.renderStatBox("Dirs", dirsVal, boxWidth)
	filesBox := m.renderStatBox("Files", filesVal, boxWidth)
	seenBox := m.renderStatBox("Seen", seenVal, boxWidth)
	phaseBox := m.renderStatBox("Hashed", phaseVal, boxWidth)
	elapsedBox := m.renderStatBox("Time", elapsedVal, boxWidth)

	// Join horizontally
	return lipgloss.JoinHorizontal(lipgloss.Top,
		"  ", dirsBox, " ", filesBox, " ", seenBox, " ", phaseBox, " ", elapsedBox)
}

// renderStatBox renders a single stat box.
func (m ScanModel) renderStatBox(label, value string, width int) string {
	labelStr := statsLabelStyle.Render(label)
	valueStr := statsValueStyle.Render(value)

	content := lipgloss.JoinVertical(lipgloss.Center,
		center(labelStr, width-4),
		center(valueStr, width-4))

	return statsBoxStyle.Width(width).Render(content)
}

// formatDuration formats a duration as M:SS.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}

// SetProgress updates the progress.
func (m *ScanModel) SetProgress(p types.ScanProgress) {
	m.progress = p
	m.currentPath = p.CurrentPath
}

// SetTotalFiles records the advisory file total from the pre-count pass.
func (m *ScanModel) SetTotalFiles(n int64) {
	m.totalFiles = n
}

// SetDone marks the scan as complete.
func (m *ScanModel) SetDone(err error) {
	m.done = true
	m.err = err
}

// IsDone returns true if the scan is complete.
func (m ScanModel) IsDone() bool {
	return m.done
}

// Error returns any error from the scan.
func (m ScanModel) Error() error {
	return m.err
}
