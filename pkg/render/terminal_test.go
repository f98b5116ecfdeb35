package render

import (
	"image"
	"image/color"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestHalfBlocksDraw(t *testing.T) {
	top := color.RGBA{255, 0, 0, 255}
	bot := color.RGBA{0, 0, 255, 255}

	img := image.NewRGBA(image.Rect(0, 0, 3, 4))
	for x := range 3 {
		img.SetRGBA(x, 0, top)
		img.SetRGBA(x, 1, bot)
		img.SetRGBA(x, 2, bot)
		img.SetRGBA(x, 3, top)
	}

	scr := uv.NewScreenBuffer(5, 3)
	HalfBlocks{Image: img}.Draw(scr, scr.Bounds())

	tests := []struct {
		name   string
		x, y   int
		fg, bg color.Color
	}{
		{"first row", 0, 0, top, bot},
		{"second row", 2, 1, bot, top},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cell := scr.CellAt(tc.x, tc.y)
			if cell == nil || cell.Content != "▀" {
				t.Fatalf("cell (%d, %d) = %+v, want half block", tc.x, tc.y, cell)
			}
			if cell.Style.Fg != tc.fg || cell.Style.Bg != tc.bg {
				t.Errorf("colors = %v / %v, want %v / %v", cell.Style.Fg, cell.Style.Bg, tc.fg, tc.bg)
			}
		})
	}

	// Cells beyond the image stay untouched.
	if cell := scr.CellAt(4, 0); cell != nil && cell.Content == "▀" {
		t.Error("drew past the image width")
	}
	if cell := scr.CellAt(0, 2); cell != nil && cell.Content == "▀" {
		t.Error("drew past the image height")
	}
}

func TestTerminalSize(t *testing.T) {
	if w, h := TerminalSize(80, 24); w != 80 || h != 48 {
		t.Errorf("TerminalSize(80, 24) = %d, %d", w, h)
	}
}
