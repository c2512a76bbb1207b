package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Layer is an overlay or toast that renders itself into an offset canvas.
type Layer interface {
	Render() *Canvas
}

// LayerFunc adapts a function to Layer.
type LayerFunc func() *Canvas

func (f LayerFunc) Render() *Canvas {
	return f()
}

// newCenteredLayer centers content between the header and footer margins.
func newCenteredLayer(content string, width, height, topMargin, bottomMargin int) Layer {
	return LayerFunc(func() *Canvas {
		if strings.TrimSpace(content) == "" {
			return nil
		}
		w, h := blockDimensions(content)
		surface := NewSecondarySurface(w, h)
		surface.Draw(0, 0, content)
		x, y := centeredOffsets(width, height, w, h, topMargin, bottomMargin)
		surface.Canvas.SetOffset(x, y)
		return surface.Canvas
	})
}

// newToastLayer anchors content to the bottom-right of the main body.
func newToastLayer(content string, width, height, mainBodyStart, mainBodyHeight int) Layer {
	return LayerFunc(func() *Canvas {
		if content == "" {
			return nil
		}
		w, h := blockDimensions(content)
		surface := NewPrimarySurface(w, h)
		surface.Draw(0, 0, content)

		x := width - w - 2
		if mainBodyHeight <= 0 {
			mainBodyHeight = height
		}
		y := max(mainBodyStart+mainBodyHeight-h-1, mainBodyStart)
		surface.Canvas.SetOffset(x, y)
		return surface.Canvas
	})
}

func blockDimensions(content string) (int, int) {
	lines := splitLines(content)
	width := maxLineWidth(lines)
	if width <= 0 {
		width = 1
	}
	height := lipgloss.Height(content)
	if height <= 0 {
		height = max(len(lines), 1)
	}
	return width, height
}

func centeredOffsets(containerWidth, containerHeight, contentWidth, contentHeight, topMargin, bottomMargin int) (int, int) {
	topMargin = max(topMargin, 0)
	bottomMargin = max(bottomMargin, 0)

	usable := max(containerHeight-topMargin-bottomMargin, contentHeight)
	y := topMargin + (usable-contentHeight)/2
	y = min(y, containerHeight-bottomMargin-contentHeight)
	y = max(y, topMargin, 0)

	x := max((containerWidth-contentWidth)/2, 0)
	return x, y
}
