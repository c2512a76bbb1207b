package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *App) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	bodyHeight := max(m.height-4, minGridHeight)

	leftWidth := min(tablesPaneWidth, max(m.width/3, 12))
	rightWidth := max(m.width-leftWidth-4, 10)
	leftStyle, rightStyle := stylePane(), stylePane()
	if m.focus == FocusTables {
		leftStyle = stylePaneFocused()
	} else {
		rightStyle = stylePaneFocused()
	}
	left := leftStyle.Width(leftWidth).Height(bodyHeight).
		Render(m.renderTablesPane(leftWidth, bodyHeight))
	right := rightStyle.Width(rightWidth).Height(bodyHeight).
		Render(m.renderGrid(rightWidth, bodyHeight))
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	bottom := m.renderFooter()
	if m.filtering {
		bottom = m.filterInput.View()
	}

	frame := strings.Join([]string{header, body, bottom}, "\n")
	layers := []Layer{
		m.toastLayer(1, lipgloss.Height(body)),
		m.noticesLayer(1, 1),
		m.helpLayer(1, 1),
		m.confirmLayer(1, 1),
	}
	if !hasLayers(layers) {
		return frame
	}

	canvas := NewCanvas(m.width, m.height)
	canvas.DrawStringAt(0, 0, frame)
	canvas.Compose(layers...)
	return canvas.Render()
}

func hasLayers(layers []Layer) bool {
	for _, l := range layers {
		if l != nil {
			return true
		}
	}
	return false
}

func (m *App) renderHeader() string {
	title := "DBDECK"
	if m.version != "" {
		title = fmt.Sprintf("DBDECK v%s", m.version)
	}
	parts := []string{styleAppHeader().Render(title)}

	location := m.schema
	if ref := m.projectRef(); ref != "" {
		location = ref + " · " + location
	}
	if t := m.currentTable(); t != nil {
		location += "." + t.Name
		if m.totalRows > 0 || len(m.rows) > 0 {
			location += fmt.Sprintf(" (%s)", plural(m.totalRows, "row"))
		}
	}
	parts = append(parts, styleHeaderInfo().Render(location))

	params := m.url.Read()
	for _, f := range params.Filter {
		parts = append(parts, styleFilterChip().Render(f))
	}
	for _, s := range params.Sort {
		parts = append(parts, styleFilterChip().Render("↕ "+s))
	}
	if r := m.role(); !r.IsZero() {
		parts = append(parts, styleRoleChip().Render("as "+r.Name))
	}

	header := strings.Join(parts, " ")
	if m.lastError != "" {
		indicator := lipgloss.NewStyle().Foreground(errorColor()).Bold(true).Render("⚠ " + truncateText(m.lastError, 40))
		gap := m.width - lipgloss.Width(header) - lipgloss.Width(indicator) - 1
		if gap > 0 {
			header += strings.Repeat(" ", gap) + indicator
		}
	}
	return header
}
