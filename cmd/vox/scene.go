package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/taigrr/vox/pkg/math3d"
	"github.com/taigrr/vox/pkg/models"
	"github.com/taigrr/vox/pkg/render"
)

// sceneOptions are the camera and shading flags shared by every renderer.
type sceneOptions struct {
	eye       string
	target    string
	fov       float64
	matcap    string
	color     string
	light     bool
	wireframe bool
}

func (o *sceneOptions) register(fs *pflag.FlagSet) {
	fs.StringVar(&o.eye, "eye", "0,0,3", "camera position x,y,z")
	fs.StringVar(&o.target, "target", "0,0,0", "camera target x,y,z")
	fs.Float64Var(&o.fov, "fov", 60, "vertical field of view in degrees")
	fs.StringVar(&o.matcap, "matcap", "", "matcap image (PNG, JPG, BMP, TIFF)")
	fs.StringVar(&o.color, "color", "212,175,55", "base color r,g,b for the generated matcap")
	fs.BoolVar(&o.light, "light", false, "directional lighting instead of a matcap")
	fs.BoolVar(&o.wireframe, "wireframe", false, "overlay triangle edges")
}

func (o *sceneOptions) camera() (*render.Camera, error) {
	eye, err := parseVec3(o.eye)
	if err != nil {
		return nil, fmt.Errorf("--eye: %w", err)
	}
	target, err := parseVec3(o.target)
	if err != nil {
		return nil, fmt.Errorf("--target: %w", err)
	}
	if eye == target {
		return nil, fmt.Errorf("--eye and --target must differ")
	}
	return render.NewCamera(eye, target), nil
}

func (o *sceneOptions) projection(width, height int) render.Projection {
	proj := render.DefaultProjection(float64(width) / float64(height))
	if o.fov > 0 && o.fov < 180 {
		proj.FovY = o.fov * math.Pi / 180
	}
	return proj
}

func (o *sceneOptions) shader() (render.Shader, error) {
	base, err := parseColor(o.color)
	if err != nil {
		return nil, fmt.Errorf("--color: %w", err)
	}
	if o.light {
		return render.NewLightShader(base), nil
	}
	if o.matcap == "" {
		return render.NewSphereMatcap(256, base), nil
	}
	m, err := render.LoadMatcap(o.matcap)
	if err != nil {
		slog.Warn("falling back to generated matcap", "path", o.matcap, "err", err)
		return render.NewSphereMatcap(256, base), nil
	}
	return m, nil
}

// loadModel reads a mesh and fits it into the bi-unit cube.
func loadModel(path string) (*models.Mesh, error) {
	mesh, err := models.Load(path)
	if err != nil {
		return nil, err
	}
	if mesh.TriangleCount() == 0 {
		return nil, fmt.Errorf("%s: no triangles", path)
	}
	mesh.Normalize()
	slog.Info("model loaded", "path", path, "vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount())
	return mesh, nil
}

func parseVec3(s string) (math3d.Vec3, error) {
	f, err := parseFloats(s, 3)
	if err != nil {
		return math3d.Vec3{}, err
	}
	return math3d.V3(f[0], f[1], f[2]), nil
}

func parseColor(s string) (color.RGBA, error) {
	f, err := parseFloats(s, 3)
	if err != nil {
		return color.RGBA{}, err
	}
	var c [3]uint8
	for i, v := range f {
		if v < 0 || v > 255 {
			return color.RGBA{}, fmt.Errorf("component %v outside 0-255", v)
		}
		c[i] = uint8(v)
	}
	return color.RGBA{c[0], c[1], c[2], 255}, nil
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma-separated values, got %q", n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
