package ui

import (
	"fmt"
	"strings"
	"time"

	"dbdeck/internal/ui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastError
)

const (
	toastMaxWidth = 56
	toastMinWidth = 30
)

var toastDurations = map[toastLevel]time.Duration{
	toastInfo:    4 * time.Second,
	toastSuccess: 5 * time.Second,
	toastError:   10 * time.Second,
}

// toast is a transient notice. Only the most recent one is shown.
type toast struct {
	id      int
	level   toastLevel
	title   string
	message string
	start   time.Time
}

func (t *toast) remaining(now time.Time) time.Duration {
	return toastDurations[t.level] - now.Sub(t.start)
}

// showToast replaces the current toast and starts its countdown.
func (m *App) showToast(level toastLevel, title, message string) tea.Cmd {
	m.toastSeq++
	m.toast = &toast{
		id:      m.toastSeq,
		level:   level,
		title:   title,
		message: message,
		start:   m.now(),
	}
	return scheduleToastTick(m.toastSeq)
}

func (m *App) handleToastTick(msg toastTickMsg) tea.Cmd {
	if m.toast == nil || m.toast.id != msg.id {
		return nil
	}
	if m.toast.remaining(m.now()) <= 0 {
		m.toast = nil
		return nil
	}
	return scheduleToastTick(msg.id)
}

func (m *App) toastLayer(mainBodyStart, mainBodyHeight int) Layer {
	if m.toast == nil {
		return nil
	}
	return newToastLayer(renderToast(m.toast, m.now()), m.width, m.height, mainBodyStart, mainBodyHeight)
}

func renderToast(t *toast, now time.Time) string {
	seconds := max(int(t.remaining(now).Round(time.Second).Seconds()), 0)
	countdown := fmt.Sprintf("[%ds]", seconds)

	icon, border := "ℹ", theme.Current().Info
	switch t.level {
	case toastSuccess:
		icon, border = "✔", theme.Current().Success
	case toastError:
		icon, border = "⚠", theme.Current().Error
	}

	lines := []string{icon + " " + t.title}
	if t.message != "" {
		lines = append(lines, strings.Split(wordwrap.String(t.message, toastMaxWidth), "\n")...)
	}
	width := max(maxLineWidth(lines), toastMinWidth)
	padding := max(width-lipgloss.Width(countdown), 0)
	lines = append(lines, strings.Repeat(" ", padding)+countdown)

	return styleToast(border).Render(strings.Join(lines, "\n"))
}
