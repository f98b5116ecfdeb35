package render

import (
	"image"
	"image/color"
	"math"

	"github.com/taigrr/vox/pkg/math3d"
)

// Shader picks the flat color of a triangle from its unit view-space normal.
type Shader interface {
	Shade(normal math3d.Vec3) color.RGBA
}

// FilterMode determines how matcap sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor
	FilterBilinear                   // Bilinear interpolation
)

// matcapScale maps a unit normal to just inside the matcap disc.
const matcapScale = 0.48

// Matcap is a material-capture image sampled by the view-space normal: the
// normal's x and y pick a point on the lit sphere painted in the image.
type Matcap struct {
	Width  int
	Height int
	Pixels []color.RGBA // Row-major, top row first
	Filter FilterMode
}

// NewMatcap copies img into a matcap.
func NewMatcap(img image.Image) *Matcap {
	bounds := img.Bounds()
	m := &Matcap{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: make([]color.RGBA, bounds.Dx()*bounds.Dy()),
	}
	for y := range m.Height {
		for x := range m.Width {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			m.Pixels[y*m.Width+x] = color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
		}
	}
	return m
}

// LoadMatcap reads a matcap image from disk.
func LoadMatcap(path string) (*Matcap, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return NewMatcap(img), nil
}

// NewSphereMatcap paints a size×size matcap of a sphere in base color lit
// from the upper left, with a white specular highlight.
func NewSphereMatcap(size int, base color.RGBA) *Matcap {
	m := &Matcap{
		Width:  size,
		Height: size,
		Pixels: make([]color.RGBA, size*size),
		Filter: FilterBilinear,
	}
	light := math3d.V3(-0.4, 0.5, 0.77).Normalize()
	half := float64(size) / 2

	for y := range size {
		for x := range size {
			nx := (float64(x) + 0.5 - half) / (half * matcapScale * 2)
			ny := -(float64(y) + 0.5 - half) / (half * matcapScale * 2)
			d := nx*nx + ny*ny
			if d > 1 {
				m.Pixels[y*size+x] = scaleColor(base, 0.15)
				continue
			}
			n := math3d.V3(nx, ny, math.Sqrt(1-d))
			diffuse := math.Max(0, n.Dot(light))
			c := scaleColor(base, 0.2+0.8*diffuse)

			// Blinn half vector with the viewer on +Z.
			h := light.Add(math3d.V3(0, 0, 1)).Normalize()
			spec := math.Pow(math.Max(0, n.Dot(h)), 40)
			m.Pixels[y*size+x] = lerpColor(c, color.RGBA{255, 255, 255, 255}, spec)
		}
	}
	return m
}

// Shade samples the matcap at the point the normal selects. Coordinates are
// clamped to the image.
func (m *Matcap) Shade(normal math3d.Vec3) color.RGBA {
	if m.Width == 0 || m.Height == 0 {
		return color.RGBA{A: 255}
	}
	u := normal.X*matcapScale*float64(m.Width) + float64(m.Width/2)
	v := -normal.Y*matcapScale*float64(m.Height) + float64(m.Height/2)

	if m.Filter == FilterBilinear {
		return m.sampleBilinear(u, v)
	}
	return m.pixel(int(u), int(v))
}

// pixel returns the texel at (x, y), clamped to the image.
func (m *Matcap) pixel(x, y int) color.RGBA {
	x = max(0, min(m.Width-1, x))
	y = max(0, min(m.Height-1, y))
	return m.Pixels[y*m.Width+x]
}

func (m *Matcap) sampleBilinear(u, v float64) color.RGBA {
	fx := u - 0.5
	fy := v - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	top := lerpColor(m.pixel(x0, y0), m.pixel(x0+1, y0), tx)
	bot := lerpColor(m.pixel(x0, y0+1), m.pixel(x0+1, y0+1), tx)
	return lerpColor(top, bot, ty)
}

// LightShader scales a base color by the angle between the normal and a
// light direction, with a fixed ambient floor.
type LightShader struct {
	Color     color.RGBA
	Direction math3d.Vec3 // toward the light, view space
	Ambient   float64
}

// NewLightShader returns a shader lit from over the viewer's shoulder.
func NewLightShader(c color.RGBA) *LightShader {
	return &LightShader{
		Color:     c,
		Direction: math3d.V3(0.3, 0.5, 1).Normalize(),
		Ambient:   0.3,
	}
}

// Shade implements Shader.
func (s *LightShader) Shade(normal math3d.Vec3) color.RGBA {
	diffuse := math.Max(0, normal.Dot(s.Direction.Normalize()))
	return scaleColor(s.Color, s.Ambient+(1-s.Ambient)*diffuse)
}

// FlatShader returns the same color for every triangle.
type FlatShader struct {
	Color color.RGBA
}

// Shade implements Shader.
func (s FlatShader) Shade(math3d.Vec3) color.RGBA {
	return s.Color
}

// lerpColor linearly interpolates between two colors.
func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}

// scaleColor multiplies a color by a scalar, saturating at 255.
func scaleColor(c color.RGBA, intensity float64) color.RGBA {
	return color.RGBA{
		R: uint8(math.Min(255, float64(c.R)*intensity)),
		G: uint8(math.Min(255, float64(c.G)*intensity)),
		B: uint8(math.Min(255, float64(c.B)*intensity)),
		A: c.A,
	}
}
