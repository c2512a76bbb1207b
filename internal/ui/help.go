package ui

import (
	"strings"

	"dbdeck/internal/ui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type helpSection struct {
	title string
	rows  [][]string
}

// helpSections derives its text from the bindings so the overlay and the
// KeyMap cannot drift apart.
func helpSections(keys KeyMap) []helpSection {
	return []helpSection{
		{
			title: "NAVIGATION",
			rows: [][]string{
				{keys.Up.Help().Key, keys.Up.Help().Desc},
				{keys.Left.Help().Key, keys.Left.Help().Desc},
				{keys.Tab.Help().Key, keys.Tab.Help().Desc},
				{keys.Select.Help().Key, keys.Select.Help().Desc},
				{keys.SelectAll.Help().Key, keys.SelectAll.Help().Desc},
			},
		},
		{
			title: "DELETE",
			rows: [][]string{
				{keys.DeleteRows.Help().Key, keys.DeleteRows.Help().Desc},
				{keys.DeleteColumn.Help().Key, keys.DeleteColumn.Help().Desc},
				{keys.DeleteTable.Help().Key, keys.DeleteTable.Help().Desc},
			},
		},
		{
			title: "GRID",
			rows: [][]string{
				{keys.Filter.Help().Key, keys.Filter.Help().Desc},
				{keys.ClearFilters.Help().Key, keys.ClearFilters.Help().Desc},
				{keys.Sort.Help().Key, keys.Sort.Help().Desc},
				{keys.Refresh.Help().Key, keys.Refresh.Help().Desc},
			},
		},
		{
			title: "GENERAL",
			rows: [][]string{
				{keys.Notifications.Help().Key, keys.Notifications.Help().Desc},
				{keys.Copy.Help().Key, keys.Copy.Help().Desc},
				{keys.Theme.Help().Key, keys.Theme.Help().Desc},
				{keys.Escape.Help().Key, keys.Escape.Help().Desc},
				{keys.Quit.Help().Key, keys.Quit.Help().Desc},
			},
		},
	}
}

func renderHelp(keys KeyMap) string {
	sections := helpSections(keys)
	left := lipgloss.JoinVertical(lipgloss.Left,
		renderHelpSection(sections[0]), "", renderHelpSection(sections[1]))
	right := lipgloss.JoinVertical(lipgloss.Left,
		renderHelpSection(sections[2]), "", renderHelpSection(sections[3]))
	columns := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)

	width := max(lipgloss.Width(columns), 40)
	content := lipgloss.JoinVertical(lipgloss.Center,
		styleOverlayTitle().Render("DBDECK HELP"),
		styleOverlayDivider().Render(strings.Repeat("─", width)),
		"",
		columns,
		"",
		styleOverlayMuted().Render("Press ? or Esc to close"),
	)
	return styleOverlay().Render(content)
}

func renderHelpSection(section helpSection) string {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return styleOverlayText().Foreground(theme.Current().Accent).Bold(true).Width(14)
			}
			return styleOverlayText()
		}).
		Rows(section.rows...)

	header := styleOverlayTitle().Render(section.title)
	underline := styleOverlayDivider().Render(strings.Repeat("─", len(section.title)))
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		underline,
		strings.TrimPrefix(t.String(), "\n"),
	)
}

func (m *App) helpLayer(topMargin, bottomMargin int) Layer {
	if !m.showHelp {
		return nil
	}
	return newCenteredLayer(renderHelp(m.keys), m.width, m.height, topMargin, bottomMargin)
}
