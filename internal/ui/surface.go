package ui

import (
	"dbdeck/internal/ui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Surface is a Canvas pre-filled with a theme background.
type Surface struct {
	Canvas *Canvas
}

// NewPrimarySurface uses the application background.
func NewPrimarySurface(width, height int) Surface {
	return newSurface(width, height, theme.Current().Background)
}

// NewSecondarySurface uses the overlay background.
func NewSecondarySurface(width, height int) Surface {
	return newSurface(width, height, theme.Current().BackgroundSecondary)
}

func newSurface(width, height int, bg lipgloss.TerminalColor) Surface {
	canvas := NewCanvas(width, height)
	canvas.Fill(bg)
	return Surface{Canvas: canvas}
}

// Draw writes block starting at x,y.
func (s Surface) Draw(x, y int, block string) {
	if s.Canvas == nil {
		return
	}
	s.Canvas.DrawStringAt(x, y, block)
}
