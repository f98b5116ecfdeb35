package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"
)

// Encode writes img to w in the format named by ext (".png", ".jpg",
// ".jpeg", ".bmp", ".tif" or ".tiff").
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}
}

// SaveImage writes img to path, choosing the format from the extension.
func SaveImage(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(f, img, filepath.Ext(path)); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// SavePNG writes the surface to path; the format follows the extension
// despite the name.
func (s *Surface) SavePNG(path string) error {
	return SaveImage(path, s.ToImage())
}

// LoadImage decodes a PNG, JPEG, BMP or TIFF file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		img, err = bmp.Decode(f)
	case ".tif", ".tiff":
		img, err = tiff.Decode(f)
	default:
		img, _, err = image.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Label draws text onto dst with its top-left corner at (x, y), using the
// fixed 7x13 face. Each line is drawn over a dark backing box.
func Label(dst draw.Image, x, y int, text string, col color.Color) {
	face := basicfont.Face7x13
	lines := strings.Split(text, "\n")
	lineHeight := face.Metrics().Height.Ceil()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
	}
	for i, line := range lines {
		if line == "" {
			continue
		}
		top := y + i*lineHeight
		w := d.MeasureString(line).Ceil()
		box := image.Rect(x-1, top, x+w+1, top+lineHeight)
		draw.Draw(dst, box, image.NewUniform(color.RGBA{A: 160}), image.Point{}, draw.Over)

		d.Dot = fixed.P(x, top+face.Metrics().Ascent.Ceil())
		d.DrawString(line)
	}
}
