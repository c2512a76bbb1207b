package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// footerHint is a short key hint. These are terser than the KeyMap help.
type footerHint struct {
	key  string
	desc string
}

var globalFooterHints = []footerHint{
	{"/", "Filter"},
	{"n", "Notices"},
	{"⇥", "Pane"},
	{"q", "Quit"},
	{"?", "Help"},
}

var tablesFooterHints = []footerHint{
	{"↑↓", "Table"},
	{"D", "Drop"},
}

var rowsFooterHints = []footerHint{
	{"↑↓←→", "Move"},
	{"␣", "Select"},
	{"x", "Delete"},
	{"C", "Drop column"},
}

func (m *App) renderFooter() string {
	var hints []footerHint
	switch m.focus {
	case FocusTables:
		hints = append(hints, tablesFooterHints...)
	case FocusRows:
		hints = append(hints, rowsFooterHints...)
	}
	hints = append(hints, globalFooterHints...)

	right := styleMuted().Render(m.footerStatus())
	rightWidth := lipgloss.Width(right)
	hints = trimHintsToFit(hints, m.width-rightWidth-4)

	left := renderHints(hints)
	spacing := max(m.width-lipgloss.Width(left)-rightWidth, 2)
	return left + strings.Repeat(" ", spacing) + right
}

func (m *App) footerStatus() string {
	switch {
	case m.loading:
		return "loading…"
	case m.selection.All():
		return "all rows selected"
	case m.selection.Len() > 0:
		return plural(m.selection.Len(), "row") + " selected"
	default:
		return m.driver
	}
}

func keyPill(key, desc string) string {
	return styleKeyPill().Render(" "+key+" ") + " " + styleKeyDesc().Render(desc)
}

func renderHints(hints []footerHint) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, keyPill(h.key, h.desc))
	}
	return strings.Join(parts, "  ")
}

// trimHintsToFit drops context hints first, then globals from the end.
func trimHintsToFit(hints []footerHint, available int) []footerHint {
	globalCount := len(globalFooterHints)
	for len(hints) > 0 && lipgloss.Width(renderHints(hints)) > available {
		if len(hints) > globalCount {
			hints = hints[1:]
		} else {
			hints = hints[:len(hints)-1]
		}
	}
	return hints
}
