// Package render turns models into pixels: it owns the color/depth surface,
// the camera and projection, the shaders and the renderer that drives the
// clip, cull, project and rasterize stages.
package render

import (
	"image"
	"image/color"
	"slices"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"

	"github.com/taigrr/vox/pkg/math3d"
	"github.com/taigrr/vox/pkg/raster"
)

// SupersampleFactor is the linear scale of a supersampled surface.
const SupersampleFactor = 3

// Surface holds a color buffer and a depth buffer of equal size, indexed
// x + width*y. Y grows upward, matching NDC; ToImage flips rows when
// producing an image.
//
// Depth stores inverse view distance: larger is closer and 0 means nothing
// has been drawn.
//
// Pixel and depth accessors do not bounds-check; callers must keep
// 0 <= x < Width() and 0 <= y < Height().
type Surface struct {
	width, height int
	supersample   bool
	color         []color.RGBA
	depth         []float64
}

// NewSurface allocates a surface for a width×height image. When supersample
// is set the buffers are SupersampleFactor times larger on each axis and
// ToImage downsamples to width×height.
func NewSurface(width, height int, supersample bool) *Surface {
	if supersample {
		width *= SupersampleFactor
		height *= SupersampleFactor
	}
	s := &Surface{
		width:       width,
		height:      height,
		supersample: supersample,
		color:       make([]color.RGBA, width*height),
		depth:       make([]float64, width*height),
	}
	s.Clear()
	Logger().Info("surface allocated", "width", width, "height", height, "supersample", supersample)
	return s
}

// Width returns the buffer width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the buffer height in pixels.
func (s *Surface) Height() int { return s.height }

// Supersampled reports whether the surface downsamples on output.
func (s *Surface) Supersampled() bool { return s.supersample }

// ImageSize returns the size of the image ToImage produces.
func (s *Surface) ImageSize() (int, int) {
	if s.supersample {
		return s.width / SupersampleFactor, s.height / SupersampleFactor
	}
	return s.width, s.height
}

func (s *Surface) index(x, y int) int {
	return x + s.width*y
}

// Clear resets every pixel to black and every depth to 0.
func (s *Surface) Clear() {
	s.ClearColor(color.RGBA{A: 255})
}

// ClearColor fills the color buffer with c and resets depth to 0.
func (s *Surface) ClearColor(c color.RGBA) {
	c.A = 255
	for i := range s.color {
		s.color[i] = c
	}
	clear(s.depth)
}

// Pixel returns the color at (x, y).
func (s *Surface) Pixel(x, y int) color.RGBA {
	return s.color[s.index(x, y)]
}

// SetPixel sets the color at (x, y).
func (s *Surface) SetPixel(x, y int, c color.RGBA) {
	c.A = 255
	s.color[s.index(x, y)] = c
}

// Depth returns the depth value at (x, y).
func (s *Surface) Depth(x, y int) float64 {
	return s.depth[s.index(x, y)]
}

// SetDepth sets the depth value at (x, y).
func (s *Surface) SetDepth(x, y int, z float64) {
	s.depth[s.index(x, y)] = z
}

// Plot writes c at (x, y) if z is strictly closer than the stored depth and
// reports whether it did.
func (s *Surface) Plot(x, y int, z float64, c color.RGBA) bool {
	i := s.index(x, y)
	if z <= s.depth[i] {
		return false
	}
	c.A = 255
	s.depth[i] = z
	s.color[i] = c
	return true
}

// Covered returns the number of pixels whose depth has been written.
func (s *Surface) Covered() int {
	n := 0
	for _, z := range s.depth {
		if z > 0 {
			n++
		}
	}
	return n
}

// ToPixel maps an NDC point to a pixel with (1+ndc)*dim/2, truncated. The z
// component is returned unchanged.
func (s *Surface) ToPixel(ndc math3d.Vec3) (raster.Pixel, float64) {
	return raster.Pixel{
		X: int((1 + ndc.X) * float64(s.width) / 2),
		Y: int((1 + ndc.Y) * float64(s.height) / 2),
	}, ndc.Z
}

// ToNDC maps the lower-left corner of pixel p back to NDC x and y with the
// given z. It inverts ToPixel up to truncation.
func (s *Surface) ToNDC(p raster.Pixel, z float64) math3d.Vec3 {
	return math3d.V3(
		2*float64(p.X)/float64(s.width)-1,
		2*float64(p.Y)/float64(s.height)-1,
		z,
	)
}

// ToImage returns the surface as an upright image. Supersampled surfaces are
// reduced to ImageSize with a Lanczos3 filter.
func (s *Surface) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	for y := range s.height {
		row := s.color[s.index(0, y) : s.index(0, y)+s.width]
		off := img.PixOffset(0, s.height-1-y)
		for x, c := range row {
			img.Pix[off+x*4+0] = c.R
			img.Pix[off+x*4+1] = c.G
			img.Pix[off+x*4+2] = c.B
			img.Pix[off+x*4+3] = 255
		}
	}

	if !s.supersample {
		return img
	}

	w, h := s.ImageSize()
	small := resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
	if rgba, ok := small.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), small, small.Bounds().Min, draw.Src)
	return out
}

// FillBuffer packs ToImage into buf as (b<<16)|(g<<8)|r per pixel, row-major
// from the top row. buf is grown if needed and the filled slice returned.
func (s *Surface) FillBuffer(buf []uint32) []uint32 {
	img := s.ToImage()
	n := img.Rect.Dx() * img.Rect.Dy()
	buf = slices.Grow(buf[:0], n)[:n]
	for i := range n {
		p := img.Pix[i*4 : i*4+3]
		buf[i] = uint32(p[2])<<16 | uint32(p[1])<<8 | uint32(p[0])
	}
	return buf
}

// UnpackBuffer writes a FillBuffer result into RGBA bytes, growing dst if
// needed.
func UnpackBuffer(dst []byte, buf []uint32) []byte {
	dst = slices.Grow(dst[:0], len(buf)*4)[:len(buf)*4]
	for i, v := range buf {
		dst[i*4+0] = uint8(v)
		dst[i*4+1] = uint8(v >> 8)
		dst[i*4+2] = uint8(v >> 16)
		dst[i*4+3] = 255
	}
	return dst
}
