package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette shared with the TUI
var (
	colPresent = lipgloss.Color("#95E1A3") // Green
	colAbsent  = lipgloss.Color("#FF6B6B") // Red
	colLate    = lipgloss.Color("#FFE66D") // Yellow
	colLeave   = lipgloss.Color("#4ECDC4") // Blue
	colNeutral = lipgloss.Color("#6C757D") // Gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Background(lipgloss.Color("#16213e")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#333333"))
)

// statusBadge renders an attendance status in its badge color. Unknown
// statuses fall back to the neutral gray.
func statusBadge(status string) string {
	var c lipgloss.Color
	switch strings.ToLower(status) {
	case "present":
		c = colPresent
	case "absent":
		c = colAbsent
	case "late":
		c = colLate
	case "leave":
		c = colLeave
	default:
		c = colNeutral
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render("● " + status)
}

// CellText formats one cell: a custom Render wins, the "status" key gets a
// badge, everything else is plain text. Absent values render blank.
func (m *Model[T]) CellText(col Column[T], row T) string {
	v := col.Value(row)
	if col.Render != nil {
		return col.Render(v, row)
	}
	if v == nil {
		return ""
	}
	if col.Key == "status" {
		return statusBadge(fmt.Sprint(v))
	}
	return fmt.Sprint(v)
}

// colWidth spreads the available width evenly across the columns, with a
// trailing slot for the action hints when callbacks are wired.
func (m *Model[T]) colWidth() int {
	n := len(m.columns)
	if m.hasActions() {
		n++
	}
	if n == 0 {
		return m.width
	}
	w := m.width / n
	if w < 8 {
		w = 8
	}
	return w
}

func pad(s string, w int) string {
	if lipgloss.Width(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-lipgloss.Width(s))
}

// View renders the table. Loading wins over everything; an empty row set
// renders the placeholder across the full width.
func (m *Model[T]) View() string {
	if m.loading {
		return mutedStyle.Render("Loading...")
	}

	w := m.colWidth()
	var b strings.Builder

	// Header with sort indicators
	for _, col := range m.columns {
		label := col.Label
		if col.Sortable && m.sortKey == col.Key {
			if m.sortDir == Ascending {
				label += " ▲"
			} else {
				label += " ▼"
			}
		}
		b.WriteString(headerStyle.Render(pad(label, w-2)))
	}
	if m.hasActions() {
		b.WriteString(headerStyle.Render(pad("Actions", w-2)))
	}
	b.WriteString("\n")
	b.WriteString(borderStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")

	rows := m.Rows()
	if len(rows) == 0 {
		placeholder := "No data available"
		padTotal := m.width - len(placeholder)
		if padTotal < 0 {
			padTotal = 0
		}
		b.WriteString(mutedStyle.Render(strings.Repeat(" ", padTotal/2) + placeholder))
		return b.String()
	}

	for i, row := range rows {
		style := cellStyle
		cursor := "  "
		if i == m.cursor {
			style = selectedStyle
			cursor = "❯ "
		}

		line := cursor
		for _, col := range m.columns {
			line += style.Render(pad(truncate(m.CellText(col, row), w-3), w-2))
		}
		if m.hasActions() {
			hints := []string{}
			if m.opts.OnEdit != nil {
				hints = append(hints, "e:edit")
			}
			if m.opts.OnDelete != nil {
				hints = append(hints, "d:del")
			}
			line += mutedStyle.Render(pad(strings.Join(hints, " "), w-2))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// truncate shortens a string to max display width with ellipsis
func truncate(s string, max int) string {
	if max <= 3 {
		return s
	}
	if lipgloss.Width(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max-3 {
		return s
	}
	return string(runes[:max-3]) + "..."
}
