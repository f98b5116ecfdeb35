package main

import (
	"bytes"
	"context"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/vox/pkg/math3d"
	"github.com/taigrr/vox/pkg/render"
)

const epsilon = 1e-9

func TestParseVec3(t *testing.T) {
	tests := []struct {
		in      string
		want    math3d.Vec3
		wantErr bool
	}{
		{"0,0,3", math3d.V3(0, 0, 3), false},
		{" 1.5, -2 ,4e1", math3d.V3(1.5, -2, 40), false},
		{"1,2", math3d.Vec3{}, true},
		{"1,2,x", math3d.Vec3{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseVec3(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	got, err := parseColor("10,20,255")
	if err != nil {
		t.Fatal(err)
	}
	if want := (color.RGBA{10, 20, 255, 255}); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, err := parseColor("0,0,256"); err == nil {
		t.Error("expected an error for 256")
	}
}

func TestOrbitFromEye(t *testing.T) {
	target := math3d.V3(1, 2, 3)
	eyes := []math3d.Vec3{
		math3d.V3(1, 2, 8),
		math3d.V3(4, 5, 0),
		math3d.V3(-3, 1, 3),
	}
	for _, eye := range eyes {
		yaw, pitch, distance := orbitFromEye(eye, target)
		cam := render.NewCamera(eye, target)
		cam.Orbit(yaw, pitch, distance)
		if !cam.Eye().ApproxEqual(eye, 1e-6) {
			t.Errorf("orbit(%v) = %v", eye, cam.Eye())
		}
	}
}

func TestOrbitStateLimits(t *testing.T) {
	o := newOrbitState(60, 0, 0, 3)
	o.Rotate(0, 10)
	if limit := math.Pi/2 - 0.01; math.Abs(o.Pitch.Target-limit) > epsilon {
		t.Errorf("pitch target = %v, want %v", o.Pitch.Target, limit)
	}
	o.Zoom(-100)
	if o.Distance.Target != minDistance {
		t.Errorf("distance target = %v, want %v", o.Distance.Target, minDistance)
	}
	o.Zoom(100)
	if o.Distance.Target != maxDistance {
		t.Errorf("distance target = %v, want %v", o.Distance.Target, maxDistance)
	}

	o.Rotate(1, 0)
	for range 600 {
		o.Update()
	}
	if math.Abs(o.Yaw.Position-1) > 1e-3 {
		t.Errorf("yaw settled at %v, want 1", o.Yaw.Position)
	}

	o.Reset()
	if o.Yaw.Position != 0 || o.Distance.Target != 3 {
		t.Errorf("reset left yaw %v distance %v", o.Yaw.Position, o.Distance.Target)
	}
}

func TestSummarize(t *testing.T) {
	ms := []float64{5, 1, 4, 2, 3}
	s := summarize(ms)
	if s.Mean != 3 || s.Max != 5 || s.P50 != 3 {
		t.Errorf("summary = %+v", s)
	}
	if math.Abs(s.StdDev-math.Sqrt(2.5)) > epsilon {
		t.Errorf("stddev = %v", s.StdDev)
	}
	if ms[0] != 5 {
		t.Error("summarize sorted its input")
	}
	if (summarize(nil) != frameStats{}) {
		t.Error("empty input should give zero stats")
	}
}

const cubeSTL = `solid cube
facet normal 0 0 1
outer loop
vertex -1 -1 1
vertex 1 -1 1
vertex 1 1 1
endloop
endfacet
facet normal 0 0 1
outer loop
vertex -1 -1 1
vertex 1 1 1
vertex -1 1 1
endloop
endfacet
endsolid cube
`

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "face.stl")
	if err := os.WriteFile(model, []byte(cubeSTL), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "face.bmp")

	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{"render", model, "-o", out, "--width", "40", "--height", "30", "--workers", "2", "--light"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}

	img, err := render.LoadImage(out)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("output size = %v", b)
	}
	if !strings.Contains(stdout.String(), "2 faces") {
		t.Errorf("summary = %q", stdout.String())
	}
	if r, g, b, _ := img.At(20, 15).RGBA(); r == 0 && g == 0 && b == 0 {
		t.Error("center pixel not shaded")
	}
}

func TestInfoCommand(t *testing.T) {
	model := filepath.Join(t.TempDir(), "face.stl")
	if err := os.WriteFile(model, []byte(cubeSTL), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{"info", model})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"vertices:  4", "triangles: 2", "visible:   true"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestWindowRenderFrameLogsErrors(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	g := &windowGame{
		ctx:      context.Background(),
		scene:    &sceneOptions{},
		renderer: render.NewRenderer(1),
		surface:  render.NewSurface(8, 8, false),
	}
	if g.renderFrame() {
		t.Fatal("renderFrame succeeded without a mesh")
	}
	if !strings.Contains(logs.String(), "render failed") {
		t.Errorf("error not logged: %q", logs.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	logs.Reset()
	g.ctx = ctx
	if g.renderFrame() {
		t.Fatal("renderFrame succeeded after cancel")
	}
	if logs.Len() != 0 {
		t.Errorf("shutdown error logged: %q", logs.String())
	}
}
