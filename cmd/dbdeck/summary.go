package main

import (
	"fmt"
	"io"
	"time"

	"dbdeck/internal/ui/theme"

	"github.com/charmbracelet/lipgloss"
)

// exitSummary is printed once the browser leaves the alt screen.
type exitSummary struct {
	Version string
	Target  string
	Elapsed time.Duration
}

func printExitSummary(w io.Writer, summary exitSummary) {
	current := theme.Current()
	appStyle := lipgloss.NewStyle().Bold(true).Foreground(current.Primary)
	dim := lipgloss.NewStyle().Foreground(current.TextMuted)

	line := appStyle.Render("dbdeck")
	if summary.Version != "" {
		line += dim.Render(fmt.Sprintf(" v%s", summary.Version))
	}
	line += dim.Render(fmt.Sprintf(" • %s session", formatDuration(summary.Elapsed)))
	if summary.Target != "" {
		line += dim.Render(" on " + summary.Target)
	}
	_, _ = fmt.Fprintln(w, line)
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		if secs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}
