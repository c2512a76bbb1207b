package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestCanvasNormalizesNewlines(t *testing.T) {
	canvas := NewCanvas(8, 4)
	canvas.DrawStringAt(0, 0, "A\r\nB")

	lines := strings.Split(canvas.Render(), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected at least 2 lines, got %d", len(lines))
	}
	if got := strings.TrimSpace(ansi.Strip(lines[0])); got != "A" {
		t.Fatalf("line 0 mismatch, expected A got %q", got)
	}
	if got := strings.TrimSpace(ansi.Strip(lines[1])); got != "B" {
		t.Fatalf("line 1 mismatch, expected B got %q", got)
	}
}

func TestCanvasComposeDrawsLayersAtOffset(t *testing.T) {
	base := NewCanvas(20, 6)
	dots := strings.Repeat(".", 20)
	base.DrawStringAt(0, 0, strings.Repeat(dots+"\n", 5)+dots)

	layer := LayerFunc(func() *Canvas {
		c := NewCanvas(2, 2)
		c.DrawStringAt(0, 0, "AA\nBB")
		c.SetOffset(9, 3)
		return c
	})
	base.Compose(nil, layer, LayerFunc(func() *Canvas { return nil }))

	lines := strings.Split(base.Render(), "\n")
	if got := ansi.Strip(lines[0]); got != dots {
		t.Fatalf("expected base row intact, got %q", got)
	}
	if idx := strings.Index(ansi.Strip(lines[3]), "AA"); idx != 9 {
		t.Fatalf("expected AA at column 9, got %d", idx)
	}
	if got := ansi.Strip(lines[4]); got != ".........BB........." {
		t.Fatalf("expected BB over the base row, got %q", got)
	}
}

func TestCenteredOffsets(t *testing.T) {
	x, y := centeredOffsets(20, 10, 2, 2, 1, 1)
	if x != 9 || y != 4 {
		t.Fatalf("expected (9,4), got (%d,%d)", x, y)
	}
	x, y = centeredOffsets(10, 4, 30, 8, 1, 1)
	if x != 0 || y != 1 {
		t.Fatalf("expected oversized content pinned to (0,1), got (%d,%d)", x, y)
	}
}

func TestBlockDimensions(t *testing.T) {
	w, h := blockDimensions("abc\nde\n")
	if w != 3 || h != 3 {
		t.Fatalf("expected 3x3, got %dx%d", w, h)
	}
}
