package render

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"runtime"
	"slices"
	"sync/atomic"

	"github.com/taigrr/vox/pkg/geometry"
	"github.com/taigrr/vox/pkg/math3d"
	"github.com/taigrr/vox/pkg/raster"
)

// ErrNilMesh is returned when a model has no mesh.
var ErrNilMesh = errors.New("render: model has no mesh")

// MeshSource is the read-only view of an indexed triangle mesh the renderer
// needs. It is satisfied by *models.Mesh without importing that package.
type MeshSource interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) math3d.Vec3
	GetFace(i int) [3]int
}

// Model places a mesh in the world and says how to color it.
type Model struct {
	Mesh      MeshSource
	Transform math3d.Mat4 // world from model
	Shader    Shader      // nil uses a gray LightShader
}

// NewModel wraps mesh with an identity transform and the default shader.
func NewModel(mesh MeshSource) Model {
	return Model{Mesh: mesh, Transform: math3d.Identity()}
}

// Stats summarizes one render call.
type Stats struct {
	Faces      int  // input triangles
	Clipped    int  // triangles after frustum clipping
	Culled     int  // back-facing or degenerate triangles dropped
	Rasterized int  // triangles sent to the scanline fill
	Pixels     int  // depth-test passes, counting overdraw
	EarlyExit  bool // bounding sphere was entirely outside the frustum
}

// Renderer draws models into a Surface. The zero value renders with one
// worker per CPU.
type Renderer struct {
	// Workers bounds the goroutines used by each stage; <= 0 means
	// runtime.GOMAXPROCS(0).
	Workers int
}

// NewRenderer returns a renderer using the given number of workers.
func NewRenderer(workers int) *Renderer {
	return &Renderer{Workers: workers}
}

func (r *Renderer) workers() int {
	if r == nil || r.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return r.Workers
}

// screenTriangle is a clipped, front-facing triangle ready for raster.
type screenTriangle struct {
	px    raster.Triangle2D
	depth [3]float64 // 1/w per vertex
	color color.RGBA
	minY  int
	maxY  int
	lines []raster.Scanline
}

// RenderModel draws model as seen by cam through proj into s. Pixels are
// depth tested against whatever s already holds, so several models can share
// a surface between Clear calls.
//
// The only errors are ErrNilMesh and context cancellation, checked between
// stages. A cancelled call may leave s partially drawn.
func (r *Renderer) RenderModel(ctx context.Context, model Model, cam *Camera, proj Projection, s *Surface) (Stats, error) {
	tris, stats, err := r.prepare(ctx, model, cam, proj, s)
	if err != nil || len(tris) == 0 {
		return stats, err
	}
	workers := r.workers()

	err = forEachChunk(ctx, len(tris), workers, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			t := &tris[i]
			t.lines = raster.ScanlinesWithAttributes(t.px, t.depth)
		}
	})
	if err != nil {
		return stats, fmt.Errorf("render: scanlines: %w", err)
	}

	pixels, err := r.fillBands(ctx, tris, s, workers)
	stats.Rasterized = len(tris)
	stats.Pixels = pixels
	if err != nil {
		return stats, fmt.Errorf("render: raster: %w", err)
	}

	Logger().Debug("model rendered",
		"faces", stats.Faces,
		"clipped", stats.Clipped,
		"culled", stats.Culled,
		"rasterized", stats.Rasterized,
		"pixels", stats.Pixels,
		"workers", workers,
	)
	return stats, nil
}

// prepare runs every stage up to rasterization: view transform, sphere
// rejection, clipping, back-face culling, shading and projection.
func (r *Renderer) prepare(ctx context.Context, model Model, cam *Camera, proj Projection, s *Surface) ([]screenTriangle, Stats, error) {
	var stats Stats
	if model.Mesh == nil {
		return nil, stats, ErrNilMesh
	}
	shader := model.Shader
	if shader == nil {
		shader = NewLightShader(color.RGBA{200, 200, 200, 255})
	}
	mesh := model.Mesh
	workers := r.workers()
	stats.Faces = mesh.TriangleCount()

	modelView := cam.ViewMatrix().Mul(model.Transform)
	points := make([]math3d.Vec3, mesh.VertexCount())
	err := forEachChunk(ctx, len(points), workers, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			points[i] = modelView.MulVec3(mesh.GetVertex(i))
		}
	})
	if err != nil {
		return nil, stats, fmt.Errorf("render: transform: %w", err)
	}

	projMat := proj.Matrix()
	planes := geometry.ClippingPlanes(projMat)
	if geometry.SphereRejected(geometry.NewBoundingSphere(points), planes[:]) {
		stats.EarlyExit = true
		Logger().Debug("model outside frustum", "faces", stats.Faces)
		return nil, stats, nil
	}

	tris := make([]geometry.Triangle, stats.Faces)
	for i := range tris {
		f := mesh.GetFace(i)
		tris[i] = geometry.Triangle{points[f[0]], points[f[1]], points[f[2]]}
	}
	for _, p := range planes {
		if tris, err = r.clipPass(ctx, p, tris, workers); err != nil {
			return nil, stats, fmt.Errorf("render: clip: %w", err)
		}
	}
	stats.Clipped = len(tris)

	out := make([]screenTriangle, len(tris))
	keep := make([]bool, len(tris))
	err = forEachChunk(ctx, len(tris), workers, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			keep[i] = project(&out[i], tris[i], shader, projMat, s)
		}
	})
	if err != nil {
		return nil, stats, fmt.Errorf("render: project: %w", err)
	}

	n := 0
	for i := range out {
		if keep[i] {
			out[n] = out[i]
			n++
		}
	}
	stats.Culled = len(tris) - n
	return out[:n], stats, nil
}

// clipPass clips every triangle against p. Chunks run in parallel and their
// survivors are concatenated in input order.
func (r *Renderer) clipPass(ctx context.Context, p geometry.Plane, tris []geometry.Triangle, workers int) ([]geometry.Triangle, error) {
	parts := make([][]geometry.Triangle, len(split(len(tris), workers*chunksPerWorker)))
	err := forEachChunk(ctx, len(tris), workers, func(chunk, lo, hi int) {
		kept := make([]geometry.Triangle, 0, hi-lo)
		for _, t := range tris[lo:hi] {
			kept = geometry.AppendClipped(kept, p, t)
		}
		parts[chunk] = kept
	})
	if err != nil {
		return nil, err
	}
	return slices.Concat(parts...), nil
}

// project fills st from a clipped view-space triangle and reports whether it
// faces the camera.
func project(st *screenTriangle, tri geometry.Triangle, shader Shader, projMat math3d.Mat4, s *Surface) bool {
	// The eye sits at the view-space origin.
	normal := tri.Normal()
	if normal.Dot(tri[0].Negate()) <= 0 {
		return false
	}

	st.color = shader.Shade(normal.Normalize())
	for i, v := range tri {
		ndc, w := projectPoint(projMat, v)
		st.px[i], _ = s.ToPixel(ndc)
		st.depth[i] = 1 / w
	}
	st.minY = min(st.px[0].Y, st.px[1].Y, st.px[2].Y)
	st.maxY = max(st.px[0].Y, st.px[1].Y, st.px[2].Y)
	return true
}

// fillBands splits the surface into horizontal bands and fills each band on
// its own goroutine. Every band walks the triangles in order and writes only
// its own rows, so the result matches a sequential fill.
func (r *Renderer) fillBands(ctx context.Context, tris []screenTriangle, s *Surface, workers int) (int, error) {
	var pixels atomic.Int64
	err := forEachChunk(ctx, s.Height(), workers, func(_, y0, y1 int) {
		n := 0
		width := s.Width()
		for i := range tris {
			t := &tris[i]
			from := max(y0, t.minY) - t.minY
			to := min(y1, t.maxY+1) - t.minY
			if from >= to {
				continue
			}
			for _, line := range t.lines[from:to] {
				y := line.L.Y
				raster.EachSample(line.L.X, line.AL, line.R.X, line.AR, func(x int, z float64) {
					if x < 0 || x >= width {
						return
					}
					if s.Plot(x, y, z, t.color) {
						n++
					}
				})
			}
		}
		pixels.Add(int64(n))
	})
	return int(pixels.Load()), err
}

// wireframeBias lets an edge win the depth test against its own face.
const wireframeBias = 1.001

// RenderWireframe draws the edges of the front-facing clipped triangles of
// model in c. Edges are depth tested against s, so hidden edges stay hidden
// when drawn over a filled render of the same model.
func (r *Renderer) RenderWireframe(ctx context.Context, model Model, cam *Camera, proj Projection, s *Surface, c color.RGBA) (Stats, error) {
	tris, stats, err := r.prepare(ctx, model, cam, proj, s)
	if err != nil {
		return stats, err
	}

	width, height := s.Width(), s.Height()
	for i := range tris {
		t := &tris[i]
		for e := range 3 {
			a, b := (e+1)%3, (e+2)%3
			line := raster.Line(t.px[a], t.px[b])
			last := float64(max(1, len(line)-1))
			for j, p := range line {
				if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
					continue
				}
				z := t.depth[a] + (t.depth[b]-t.depth[a])*float64(j)/last
				if s.Plot(p.X, p.Y, z*wireframeBias, c) {
					stats.Pixels++
				}
			}
		}
		stats.Rasterized++
	}
	return stats, nil
}
