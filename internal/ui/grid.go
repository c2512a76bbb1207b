package ui

import (
	"fmt"
	"strings"
	"time"

	"dbdeck/internal/domain"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	minCellWidth = 4
	maxCellWidth = 24
	checkboxCell = "[ ] "
)

// gridHeight is the number of data rows that fit under the header.
func (m *App) gridHeight() int {
	// header line, footer line, pane borders, column header, separator
	return max(m.height-6, minGridHeight)
}

func (m *App) clampGridCursor() {
	m.rowCursor = min(m.rowCursor, len(m.rows)-1)
	m.rowCursor = max(m.rowCursor, 0)
	m.colCursor = min(m.colCursor, len(m.columns)-1)
	m.colCursor = max(m.colCursor, 0)

	h := m.gridHeight()
	if m.rowCursor < m.rowTop {
		m.rowTop = m.rowCursor
	}
	if m.rowCursor >= m.rowTop+h {
		m.rowTop = m.rowCursor - h + 1
	}
	m.rowTop = max(m.rowTop, 0)
}

func (m *App) renderTablesPane(width, height int) string {
	if len(m.tables) == 0 {
		msg := "No tables in " + m.schema
		if m.loading {
			msg = "Loading tables…"
		}
		return styleMuted().Render(msg)
	}
	top := 0
	if m.tableCursor >= height {
		top = m.tableCursor - height + 1
	}
	end := min(top+height, len(m.tables))

	lines := make([]string, 0, end-top)
	for i := top; i < end; i++ {
		t := m.tables[i]
		icon, style := "▦ ", styleTableName()
		if t.Kind == domain.KindView {
			icon, style = "◇ ", styleViewName()
		}
		label := ansi.Truncate(icon+t.Name, width, "…")
		if i == m.tableCursor {
			pad := strings.Repeat(" ", max(width-lipgloss.Width(label), 0))
			lines = append(lines, styleSelected().Render(label+pad))
			continue
		}
		lines = append(lines, style.Render(label))
	}
	return strings.Join(lines, "\n")
}

func (m *App) columnWidths() []int {
	widths := make([]int, len(m.columns))
	for i, c := range m.columns {
		w := lipgloss.Width(c.Name)
		for _, r := range m.rows {
			w = max(w, lipgloss.Width(formatCell(r.Values[c.Name])))
		}
		widths[i] = min(max(w, minCellWidth), maxCellWidth)
	}
	return widths
}

// visibleColumns returns the first column index to draw so the cursor
// column fits into width.
func visibleColumns(widths []int, cursor, width int) int {
	start := 0
	for start < cursor {
		used := 0
		for i := start; i <= cursor; i++ {
			used += widths[i] + 1
		}
		if used <= width {
			break
		}
		start++
	}
	return start
}

func (m *App) renderGrid(width, height int) string {
	t := m.currentTable()
	if t == nil {
		return styleMuted().Render("Select a table")
	}
	if len(m.columns) == 0 {
		if m.loading {
			return styleMuted().Render("Loading " + t.Name + "…")
		}
		return styleMuted().Render(t.Name + " has no columns")
	}

	widths := m.columnWidths()
	avail := width - len(checkboxCell)
	start := visibleColumns(widths, m.colCursor, avail)

	var header strings.Builder
	header.WriteString(strings.Repeat(" ", len(checkboxCell)))
	used := 0
	end := start
	for i := start; i < len(m.columns); i++ {
		if used+widths[i] > avail {
			break
		}
		name := padCell(m.columns[i].Name, widths[i])
		style := styleColumnHeader()
		if i == m.colCursor && m.focus == FocusRows {
			style = styleColumnHeaderActive()
		}
		header.WriteString(style.Render(name) + " ")
		used += widths[i] + 1
		end = i + 1
	}

	lines := []string{header.String(), styleMuted().Render(strings.Repeat("─", min(used+len(checkboxCell), width)))}
	if len(m.rows) == 0 {
		lines = append(lines, styleMuted().Render("No rows"))
		return strings.Join(lines, "\n")
	}

	last := min(m.rowTop+height-2, len(m.rows))
	for ri := m.rowTop; ri < last; ri++ {
		row := m.rows[ri]
		box := checkboxCell
		if m.selection.Has(row.Index) {
			box = styleCheckbox().Render("[x]") + " "
		}
		var b strings.Builder
		for ci := start; ci < end; ci++ {
			v, ok := row.Values[m.columns[ci].Name]
			cell := padCell(formatCell(v), widths[ci])
			if !ok || v == nil {
				cell = styleNull().Render(cell)
			}
			b.WriteString(cell + " ")
		}
		line := b.String()
		if ri == m.rowCursor && m.focus == FocusRows {
			line = styleSelected().Render(ansi.Strip(line))
		}
		lines = append(lines, box+line)
	}
	return strings.Join(lines, "\n")
}

func padCell(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	return s + strings.Repeat(" ", max(width-lipgloss.Width(s), 0))
}

// formatCell renders a scanned database value for the grid.
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return strings.ReplaceAll(val, "\n", "⏎")
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(val)
	}
}

func truncateText(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
