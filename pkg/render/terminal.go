package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// HalfBlocks draws an image onto a terminal screen with two pixels per cell:
// the upper half block ▀ takes the top pixel as foreground and the bottom
// pixel as background. The image should be twice as tall as the area.
type HalfBlocks struct {
	Image *image.RGBA
}

// TerminalSize returns the pixel size a surface needs to fill a terminal of
// cols×rows cells.
func TerminalSize(cols, rows int) (int, int) {
	return cols, rows * 2
}

// Draw implements uv.Drawable.
func (h HalfBlocks) Draw(scr uv.Screen, area uv.Rectangle) {
	if h.Image == nil {
		return
	}
	b := h.Image.Bounds()

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := b.Min.Y + (row-area.Min.Y)*2
		if topY >= b.Max.Y {
			break
		}
		for col := area.Min.X; col < area.Max.X; col++ {
			x := b.Min.X + col - area.Min.X
			if x >= b.Max.X {
				break
			}
			top := h.Image.RGBAAt(x, topY)
			bot := color.RGBA{A: 255}
			if topY+1 < b.Max.Y {
				bot = h.Image.RGBAAt(x, topY+1)
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: top,
					Bg: bot,
				},
			})
		}
	}
}

// Colors used by the viewers.
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorSky   = color.RGBA{135, 206, 235, 255}
	ColorSlate = color.RGBA{30, 34, 42, 255}
	ColorGold  = color.RGBA{212, 175, 55, 255}
	ColorEdge  = color.RGBA{255, 140, 0, 255}
)
