package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/reclaim/pkg/reclaim/scan"
	"github.com/jamesainslie/reclaim/pkg/reclaim/types"
)

// ScanMetrics summarizes a finished scan for the results header.
type ScanMetrics struct {
	DirsScanned int64
	FilesSeen   int64
	BytesSeen   int64
	Elapsed     time.Duration
}

// ResultModel represents the results phase of the TUI. It lists the
// deletion proposals of a finished scan; for duplicate scans the keeper of
// each group is already withheld.
type ResultModel struct {
	kind     scan.Kind
	recs     []types.FileRecord
	metrics  ScanMetrics
	cursor   int
	selected map[int]bool
	offset   int // scroll offset
	width    int
	height   int
}

// NewResultModel creates a new result model with the given proposals.
func NewResultModel(kind scan.Kind, recs []types.FileRecord) ResultModel {
	return ResultModel{
		kind:     kind,
		recs:     recs,
		cursor:   0,
		selected: make(map[int]bool),
		offset:   0,
		width:    80,
		height:   24,
	}
}

// NewResultModelWithMetrics creates a result model that also shows scan
// statistics in its header.
func NewResultModelWithMetrics(kind scan.Kind, recs []types.FileRecord, metrics ScanMetrics) ResultModel {
	m := NewResultModel(kind, recs)
	m.metrics = metrics
	return m
}

// Init initializes the result model.
func (m ResultModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the result model.
func (m ResultModel) Update(msg tea.Msg) (ResultModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// HandleKey handles key input for the result model.
func (m *ResultModel) HandleKey(key string) tea.Cmd {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}

	case "down", "j":
		if m.cursor < len(m.recs)-1 {
			m.cursor++
			m.ensureVisible()
		}

	case " ":
		m.Toggle(m.cursor)

	case "a":
		m.SelectAll()

	case "n":
		m.SelectNone()

	case "home", "g":
		m.cursor = 0
		m.offset = 0

	case "end", "G":
		if len(m.recs) > 0 {
			m.cursor = len(m.recs) - 1
			m.ensureVisible()
		}

	case "pgup":
		visibleRows := m.visibleRows()
		m.cursor -= visibleRows
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.ensureVisible()

	case "pgdown":
		visibleRows := m.visibleRows()
		m.cursor += visibleRows
		if m.cursor >= len(m.recs) {
			m.cursor = len(m.recs) - 1
		}
		m.ensureVisible()
	}

	return nil
}

// View renders the result model.
func (m ResultModel) View() string {
	if len(m.recs) == 0 {
		return m.renderEmpty()
	}

	var b strings.Builder

	// Calculate dimensions
	contentWidth := m.width - 4
	if contentWidth < 60 {
		contentWidth = 60
	}

	// Header
	b.WriteString(m.renderHeader(contentWidth))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")

	// Help bar
	b.WriteString(m.renderHelpBar(contentWidth))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")

	// Proposal list
	b.WriteString(m.renderFileList(contentWidth))

	// Footer
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(contentWidth))

	content := b.String()
	return outerBoxStyle.Width(m.width - 2).Render(content)
}

// renderEmpty renders the empty state view.
func (m ResultModel) renderEmpty() string {
	contentWidth := m.width - 4

	var message, hint string
	switch m.kind {
	case scan.Duplicates:
		message = "No duplicate files found."
		hint = "Everything under the scanned paths is unique."
	case scan.Caches:
		message = "No stale cache entries found."
		hint = "Try lowering the minimum age with --min-age."
	case scan.Orphans:
		message = "No orphaned files found."
		hint = "Residue is only proposed when its application is not installed."
	default:
		message = "No files found matching your criteria."
		hint = "Try reducing the minimum size threshold with -s."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(contentWidth))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")
	b.WriteString(center(mutedTextStyle.Render(message), contentWidth))
	b.WriteString("\n\n")
	b.WriteString(center(mutedTextStyle.Render(hint), contentWidth))
	b.WriteString("\n\n")
	b.WriteString(center(keyStyle.Render("[q]")+" "+keyDescStyle.Render("Quit"), contentWidth))
	b.WriteString("\n")

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// renderHeader renders the header.
func (m ResultModel) renderHeader(width int) string {
	title := titleStyle.Render(fmt.Sprintf("  reclaim %s - %d proposals (Reclaimable: %s)",
		m.kind, len(m.recs), types.FormatSize(m.TotalSize())))

	if m.metrics.FilesSeen == 0 {
		return title
	}

	stats := mutedTextStyle.Render(fmt.Sprintf("Scanned %s files in %s dirs in %s",
		humanize.Comma(m.metrics.FilesSeen),
		humanize.Comma(m.metrics.DirsScanned),
		formatDuration(m.metrics.Elapsed)))

	spacing := width - lipgloss.Width(title) - lipgloss.Width(stats)
	if spacing < 1 {
		spacing = 1
	}
	return title + strings.Repeat(" ", spacing) + stats
}

// renderHelpBar renders the help bar with key hints.
func (m ResultModel) renderHelpBar(width int) string {
	hints := []struct {
		key  string
		desc string
	}{
		{"Space", "Toggle"},
		{"a", "All"},
		{"n", "None"},
		{"Enter", "Delete"},
		{"q", "Quit"},
	}

	var parts []string
	for _, h := range hints {
		parts = append(parts, keyStyle.Render("["+h.key+"]")+" "+keyDescStyle.Render(h.desc))
	}

	return "  " + strings.Join(parts, "  ")
}

// renderFileList renders the scrollable proposal list.
func (m ResultModel) renderFileList(width int) string {
	var b strings.Builder

	visibleRows := m.visibleRows()
	pathWidth := width - 18 // checkbox + size + padding

	// Render visible proposals
	for i := m.offset; i < m.offset+visibleRows && i < len(m.recs); i++ {
		rec := m.recs[i]
		isSelected := m.selected[i]
		isCursor := i == m.cursor

		// Build the line
		line := m.renderFileLine(rec, isSelected, isCursor, pathWidth)
		b.WriteString(line)
		b.WriteString("\n")

		// Show details for cursor item
		if isCursor {
			details := m.renderFileDetails(rec)
			b.WriteString(details)
			b.WriteString("\n")
		}
	}

	// Pad remaining rows
	rendered := m.offset + visibleRows
	if rendered > len(m.recs) {
		rendered = len(m.recs)
	}
	// Account for detail lines
	lineCount := 0
	for i := m.offset; i < rendered; i++ {
		lineCount++ // proposal line
		if i == m.cursor {
			lineCount++ // detail line
		}
	}
	for lineCount < visibleRows*2 {
		b.WriteString("\n")
		lineCount++
	}

	return b.String()
}

// renderFileLine renders a single proposal line.
func (m ResultModel) renderFileLine(rec types.FileRecord, isSelected, isCursor bool, pathWidth int) string {
	// Checkbox
	var checkbox string
	if isSelected {
		checkbox = checkedStyle.Render("[x]")
	} else {
		checkbox = uncheckedStyle.Render("[ ]")
	}

	// Size
	size := fileSizeStyle.Render(padLeft(types.FormatSize(rec.Size), 9))

	// Path (truncated)
	path := truncatePath(rec.Path, pathWidth)

	// Cursor indicator
	var cursor string
	if isCursor {
		cursor = cursorStyle.Render(">")
	} else {
		cursor = " "
	}

	// Combine parts
	line := fmt.Sprintf("  %s %s %s  %s", checkbox, size, cursor, path)

	// Apply style based on cursor position
	if isCursor {
		return selectedItemStyle.Width(pathWidth + 20).Render(line)
	}
	return normalItemStyle.Render(line)
}

// renderFileDetails renders the proposal detail line. Duplicate members
// show their content hash; everything else shows the file kind.
func (m ResultModel) renderFileDetails(rec types.FileRecord) string {
	modTime := rec.ModTime.Format("2006-01-02")

	var details string
	if rec.ContentHash != "" {
		hash := rec.ContentHash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		details = fmt.Sprintf("Modified: %s  Hash: %s", modTime, hash)
	} else {
		details = fmt.Sprintf("Modified: %s  Kind: %s", modTime, rec.Kind)
	}
	return fileDetailStyle.Render(details)
}

// renderFooter renders the footer with selection summary.
func (m ResultModel) renderFooter(width int) string {
	selectedCount := len(m.selected)
	selectedSize := m.SelectedSize()

	left := fmt.Sprintf("  Selected: %d files (%s)", selectedCount, types.FormatSize(selectedSize))
	right := mutedTextStyle.Render("[↑↓] Navigate")

	spacing := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if spacing < 1 {
		spacing = 1
	}

	return left + strings.Repeat(" ", spacing) + right
}

// visibleRows returns the number of visible rows for the proposal list.
func (m ResultModel) visibleRows() int {
	// Account for header, help, dividers, footer
	// Each proposal takes 1-2 lines (2 under the cursor)
	available := m.height - 12
	if available < 5 {
		available = 5
	}
	// Divide by 2 since the cursor item shows details
	return available / 2
}

// ensureVisible adjusts offset to keep cursor visible.
func (m *ResultModel) ensureVisible() {
	visibleRows := m.visibleRows()

	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+visibleRows {
		m.offset = m.cursor - visibleRows + 1
	}

	if m.offset < 0 {
		m.offset = 0
	}
}

// Toggle toggles selection of the proposal at the given index.
func (m *ResultModel) Toggle(index int) {
	if index < 0 || index >= len(m.recs) {
		return
	}
	if m.selected[index] {
		delete(m.selected, index)
	} else {
		m.selected[index] = true
	}
}

// SelectAll selects all proposals.
func (m *ResultModel) SelectAll() {
	for i := range m.recs {
		m.selected[i] = true
	}
}

// SelectNone deselects all proposals.
func (m *ResultModel) SelectNone() {
	m.selected = make(map[int]bool)
}

// SelectedRecords returns the selected proposals.
func (m ResultModel) SelectedRecords() []types.FileRecord {
	var result []types.FileRecord
	for i, selected := range m.selected {
		if selected && i < len(m.recs) {
			result = append(result, m.recs[i])
		}
	}
	return result
}

// SelectedSize returns the total size of selected proposals.
func (m ResultModel) SelectedSize() int64 {
	var total int64
	for i, selected := range m.selected {
		if selected && i < len(m.recs) {
			total += m.recs[i].Size
		}
	}
	return total
}

// SelectedCount returns the number of selected proposals.
func (m ResultModel) SelectedCount() int {
	return len(m.selected)
}

// TotalSize returns the total size of all proposals.
func (m ResultModel) TotalSize() int64 {
	var total int64
	for _, rec := range m.recs {
		total += rec.Size
	}
	return total
}

// Records returns the proposal list.
func (m ResultModel) Records() []types.FileRecord {
	return m.recs
}

// Cursor returns the current cursor position.
func (m ResultModel) Cursor() int {
	return m.cursor
}

// HasSelection returns true if any proposals are selected.
func (m ResultModel) HasSelection() bool {
	return len(m.selected) > 0
}

// SetDimensions updates the width and height.
func (m *ResultModel) SetDimensions(width, height int) {
	m.width = width
	m.height = height
}
