package main

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/vox/pkg/math3d"
	"github.com/taigrr/vox/pkg/render"
)

const (
	orbitStep    = 0.15
	zoomStep     = 0.25
	minDistance  = 1.2
	maxDistance  = 20.0
	dragRotation = 0.03
)

type viewOptions struct {
	scene sceneOptions
	fps   int
}

func newViewCmd(global *globalOptions) *cobra.Command {
	opts := &viewOptions{}
	cmd := &cobra.Command{
		Use:   "view <model>",
		Short: "Orbit a model in the terminal",
		Long: "Draws the model with half-block characters, two pixels per cell.\n\n" +
			"Controls:\n" +
			"  Arrows/WASD  orbit\n" +
			"  Mouse drag   orbit\n" +
			"  +/-, wheel   zoom\n" +
			"  X            toggle wireframe\n" +
			"  ?            toggle HUD\n" +
			"  R            reset view\n" +
			"  Esc/Q        quit",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), global, opts, args[0])
		},
	}
	opts.scene.register(cmd.Flags())
	cmd.Flags().IntVar(&opts.fps, "fps", 30, "target frames per second")
	return cmd
}

// orbitAxis animates one orbit coordinate toward its target.
type orbitAxis struct {
	Position float64
	Target   float64
	velocity float64
	spring   harmonica.Spring
}

func newOrbitAxis(fps int, value float64) orbitAxis {
	return orbitAxis{
		Position: value,
		Target:   value,
		// Critically damped so the camera settles without overshoot.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

func (a *orbitAxis) Update() {
	a.Position, a.velocity = a.spring.Update(a.Position, a.velocity, a.Target)
}

// orbitState is the animated camera placement around the model.
type orbitState struct {
	Yaw, Pitch, Distance orbitAxis
	home                 [3]float64
	fps                  int
}

func newOrbitState(fps int, yaw, pitch, distance float64) *orbitState {
	o := &orbitState{home: [3]float64{yaw, pitch, distance}, fps: fps}
	o.Reset()
	return o
}

func (o *orbitState) Reset() {
	o.Yaw = newOrbitAxis(o.fps, o.home[0])
	o.Pitch = newOrbitAxis(o.fps, o.home[1])
	o.Distance = newOrbitAxis(o.fps, o.home[2])
}

func (o *orbitState) Rotate(dyaw, dpitch float64) {
	o.Yaw.Target += dyaw
	limit := math.Pi/2 - 0.01
	o.Pitch.Target = math.Max(-limit, math.Min(limit, o.Pitch.Target+dpitch))
}

func (o *orbitState) Zoom(delta float64) {
	o.Distance.Target = math.Max(minDistance, math.Min(maxDistance, o.Distance.Target+delta))
}

func (o *orbitState) Update() {
	o.Yaw.Update()
	o.Pitch.Update()
	o.Distance.Update()
}

func (o *orbitState) Apply(cam *render.Camera) {
	cam.Orbit(o.Yaw.Position, o.Pitch.Position, o.Distance.Position)
}

// orbitFromEye converts an eye position around target into yaw, pitch and
// distance for Camera.Orbit.
func orbitFromEye(eye, target math3d.Vec3) (yaw, pitch, distance float64) {
	d := eye.Sub(target)
	distance = d.Len()
	if distance == 0 {
		return 0, 0, 3
	}
	pitch = math.Asin(math.Max(-1, math.Min(1, d.Y/distance)))
	yaw = math.Atan2(d.X, d.Z)
	return yaw, pitch, distance
}

// hud tracks frame rate for the overlay.
type hud struct {
	name      string
	triangles int
	fps       float64
	frames    int
	since     time.Time
}

func (h *hud) tick() {
	h.frames++
	if elapsed := time.Since(h.since); elapsed >= time.Second {
		h.fps = float64(h.frames) / elapsed.Seconds()
		h.frames = 0
		h.since = time.Now()
	}
}

func (h *hud) text(stats render.Stats) string {
	return fmt.Sprintf("%s %.0ffps %d/%d", h.name, h.fps, stats.Rasterized, h.triangles)
}

func terminalSurface(cols, rows int) *render.Surface {
	w, h := render.TerminalSize(cols, rows)
	return render.NewSurface(max(w, 1), max(h, 1), false)
}

func runView(ctx context.Context, global *globalOptions, opts *viewOptions, path string) error {
	if opts.fps <= 0 {
		return fmt.Errorf("--fps must be positive")
	}
	mesh, err := loadModel(path)
	if err != nil {
		return err
	}
	cam, err := opts.scene.camera()
	if err != nil {
		return err
	}
	shader, err := opts.scene.shader()
	if err != nil {
		return err
	}
	model := render.NewModel(mesh)
	model.Shader = shader

	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(cols, rows); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		_ = term.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	surface := terminalSurface(cols, rows)
	yaw, pitch, distance := orbitFromEye(cam.Eye(), cam.Target())
	orbit := newOrbitState(opts.fps, yaw, pitch, distance)
	status := &hud{name: filepath.Base(path), triangles: mesh.TriangleCount(), since: time.Now()}

	var (
		wireframe bool
		showHUD   bool
		dragging  bool
		lastX     int
		lastY     int
	)
	events := term.Events()
	r := render.NewRenderer(global.workers)
	ticker := time.NewTicker(time.Second / time.Duration(opts.fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				cols, rows = ev.Width, ev.Height
				term.Erase()
				_ = term.Resize(cols, rows)
				surface = terminalSurface(cols, rows)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "q", "ctrl+c"):
					return nil
				case ev.MatchString("left", "a"):
					orbit.Rotate(-orbitStep, 0)
				case ev.MatchString("right", "d"):
					orbit.Rotate(orbitStep, 0)
				case ev.MatchString("up", "w"):
					orbit.Rotate(0, orbitStep)
				case ev.MatchString("down", "s"):
					orbit.Rotate(0, -orbitStep)
				case ev.MatchString("+", "="):
					orbit.Zoom(-zoomStep)
				case ev.MatchString("-", "_"):
					orbit.Zoom(zoomStep)
				case ev.MatchString("x"):
					wireframe = !wireframe
				case ev.MatchString("?", "shift+/"):
					showHUD = !showHUD
				case ev.MatchString("r"):
					orbit.Reset()
				}

			case uv.MouseClickEvent:
				dragging = true
				lastX, lastY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				dragging = false

			case uv.MouseMotionEvent:
				if dragging {
					orbit.Rotate(float64(ev.X-lastX)*dragRotation, float64(ev.Y-lastY)*dragRotation)
					lastX, lastY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					orbit.Zoom(-zoomStep)
				case uv.MouseWheelDown:
					orbit.Zoom(zoomStep)
				}
			}

		case <-ticker.C:
			orbit.Update()
			orbit.Apply(cam)

			w, h := surface.ImageSize()
			proj := opts.scene.projection(w, h)
			surface.ClearColor(render.ColorSlate)
			stats, err := r.RenderModel(ctx, model, cam, proj, surface)
			if err != nil {
				return err
			}
			if wireframe || opts.scene.wireframe {
				if _, err := r.RenderWireframe(ctx, model, cam, proj, surface, render.ColorEdge); err != nil {
					return err
				}
			}

			img := surface.ToImage()
			status.tick()
			if showHUD {
				render.Label(img, 0, 0, status.text(stats), render.ColorWhite)
			}
			term.Draw(render.HalfBlocks{Image: img})
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
