package ui

import (
	"strings"

	"dbdeck/internal/ui/theme"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// Styles are functions so a theme switch takes effect on the next frame.

func baseStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(theme.Current().Background).
		Foreground(theme.Current().Text)
}

func styleAppHeader() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().Background).
		Background(theme.Current().Primary).
		Bold(true).
		Padding(0, 1)
}

func styleHeaderInfo() lipgloss.Style {
	return baseStyle().Foreground(theme.Current().TextMuted)
}

func styleFilterChip() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().Background).
		Background(theme.Current().Secondary).
		Padding(0, 1)
}

func styleRoleChip() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().Background).
		Background(theme.Current().Warning).
		Bold(true).
		Padding(0, 1)
}

func stylePane() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.Current().BorderNormal)
}

func stylePaneFocused() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(theme.Current().BorderFocused)
}

func styleSelected() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(theme.Current().BackgroundSecondary).
		Foreground(theme.Current().Text).
		Bold(true)
}

func styleTableName() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().Text)
}

func styleViewName() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().Info).Italic(true)
}

func styleColumnHeader() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().Secondary).Bold(true)
}

func styleColumnHeaderActive() lipgloss.Style {
	return styleColumnHeader().Underline(true).Foreground(theme.Current().Accent)
}

func styleCheckbox() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().Success).Bold(true)
}

func styleNull() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().TextMuted).Italic(true)
}

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().TextMuted)
}

func styleKeyPill() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().Background).
		Background(theme.Current().TextMuted).
		Bold(true)
}

func styleKeyDesc() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().TextMuted)
}

func styleOverlay() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(theme.Current().BackgroundSecondary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Current().BorderFocused).
		Padding(1, 2)
}

func styleOverlayDanger() lipgloss.Style {
	return styleOverlay().BorderForeground(theme.Current().Error)
}

func styleOverlayTitle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(theme.Current().BackgroundSecondary).
		Foreground(theme.Current().Accent).
		Bold(true)
}

func styleOverlayText() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(theme.Current().BackgroundSecondary).
		Foreground(theme.Current().Text)
}

func styleOverlayMuted() lipgloss.Style {
	return styleOverlayText().Foreground(theme.Current().TextMuted)
}

func styleOverlayDivider() lipgloss.Style {
	return styleOverlayText().Foreground(theme.Current().Primary)
}

func styleOverlayWarning() lipgloss.Style {
	return styleOverlayText().Foreground(theme.Current().Warning)
}

func styleOverlayDangerTitle() lipgloss.Style {
	return styleOverlayText().Foreground(theme.Current().Error).Bold(true)
}

func styleToast(border lipgloss.AdaptiveColor) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Foreground(theme.Current().Text).
		Padding(0, 1)
}

func stylePriority(priority string) lipgloss.Style {
	c := theme.Current().Info
	switch priority {
	case "Critical":
		c = theme.Current().Error
	case "Warning":
		c = theme.Current().Warning
	}
	return lipgloss.NewStyle().
		Background(theme.Current().BackgroundSecondary).
		Foreground(c).
		Bold(true)
}

// buildMarkdownRenderer returns a renderer for notification bodies. format
// is the output.format setting: rich, light or plain.
func buildMarkdownRenderer(format string, width int) func(string) string {
	fallback := func(input string) string {
		return wordwrap.String(input, width)
	}

	style := strings.ToLower(strings.TrimSpace(format))
	switch style {
	case "", "rich", "dark":
		style = "dark"
	case "plain":
		return fallback
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fallback
	}
	return func(input string) string {
		out, err := renderer.Render(input)
		if err != nil {
			return fallback(input)
		}
		return strings.TrimSpace(out)
	}
}

func errorColor() lipgloss.AdaptiveColor {
	return theme.Current().Error
}
