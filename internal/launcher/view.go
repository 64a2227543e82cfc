package launcher

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"quickfile/internal/highlight"
	"quickfile/internal/protocol"
)

// resultRowOffset is the number of chrome rows above the result list:
// the input line and the status line. Mouse rows map through it.
const resultRowOffset = 2

var (
	markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	dirStyle    = lipgloss.NewStyle().Faint(true)
	matchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func (m *Model) visibleRows() int {
	rows := m.height - resultRowOffset
	if rows < 1 {
		return 1
	}
	return rows
}

// ensureVisible scrolls the viewport so the cursor stays on screen.
func (m *Model) ensureVisible() {
	rows := m.visibleRows()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	b.WriteByte('\n')

	end := m.offset + m.visibleRows()
	if end > len(m.results) {
		end = len(m.results)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderResult(m.results[i], i == m.selected))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *Model) statusLine() string {
	if !m.conn.Connected() {
		return statusStyle.Render("connecting to daemon...")
	}
	if m.status != "" {
		return errorStyle.Render(m.status)
	}
	return statusStyle.Render(fmt.Sprintf("%d results / %d files", len(m.results), m.totalFiles))
}

func (m *Model) renderResult(r protocol.SearchResult, selected bool) string {
	var b strings.Builder
	if selected {
		b.WriteString(markerStyle.Render("> "))
	} else {
		b.WriteString("  ")
	}

	offsets := make([]int, len(r.Matches))
	for i, match := range r.Matches {
		offsets[i] = match.CharIndex
	}
	for _, seg := range highlight.Segments(r.DisplayPath, offsets) {
		switch {
		case seg.Highlighted:
			b.WriteString(matchStyle.Render(seg.Text))
		case seg.Part == highlight.PartDirectory:
			b.WriteString(dirStyle.Render(seg.Text))
		default:
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}
