// Package theme holds the semantic color palettes of the dbdeck UI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps semantic roles to adaptive colors so every palette works on
// light and dark terminals.
type Theme struct {
	Name string

	Primary   lipgloss.AdaptiveColor // focused borders, header background
	Secondary lipgloss.AdaptiveColor // column headers, section labels
	Accent    lipgloss.AdaptiveColor // table names, highlighted values

	Error   lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Success lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor

	Text      lipgloss.AdaptiveColor
	TextMuted lipgloss.AdaptiveColor

	Background          lipgloss.AdaptiveColor
	BackgroundSecondary lipgloss.AdaptiveColor // overlays, selected rows

	BorderNormal  lipgloss.AdaptiveColor
	BorderFocused lipgloss.AdaptiveColor
}

func color(dark, light string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Dark: dark, Light: light}
}
