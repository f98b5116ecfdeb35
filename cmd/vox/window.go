package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"github.com/taigrr/vox/pkg/render"
)

// Screenshot size for the R key.
const (
	screenshotWidth  = 1920
	screenshotHeight = 1080
)

type windowOptions struct {
	scene  sceneOptions
	width  int
	height int
	scale  int
}

func newWindowCmd(global *globalOptions) *cobra.Command {
	opts := &windowOptions{}
	cmd := &cobra.Command{
		Use:   "window <model>",
		Short: "Orbit a model in a desktop window",
		Long: "Opens a window that shows the software-rendered frame.\n\n" +
			"Controls:\n" +
			"  Arrows/WASD  orbit\n" +
			"  +/-          zoom\n" +
			"  X            toggle wireframe\n" +
			"  Space        reset view\n" +
			"  R            save a 1920x1080 supersampled PNG\n" +
			"  Esc          quit",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(cmd.Context(), global, opts, args[0])
		},
	}
	fs := cmd.Flags()
	opts.scene.register(fs)
	fs.IntVar(&opts.width, "width", 480, "framebuffer width")
	fs.IntVar(&opts.height, "height", 360, "framebuffer height")
	fs.IntVar(&opts.scale, "scale", 2, "window scale")
	return cmd
}

type windowGame struct {
	ctx       context.Context
	name      string
	model     render.Model
	cam       *render.Camera
	scene     *sceneOptions
	renderer  *render.Renderer
	orbit     *orbitState
	surface   *render.Surface
	wireframe bool

	packed []uint32
	pix    []byte
	frame  *ebiten.Image
}

func runWindow(ctx context.Context, global *globalOptions, opts *windowOptions, path string) error {
	if opts.width <= 0 || opts.height <= 0 || opts.scale <= 0 {
		return fmt.Errorf("window size %dx%d scale %d must be positive", opts.width, opts.height, opts.scale)
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

	yaw, pitch, distance := orbitFromEye(cam.Eye(), cam.Target())
	g := &windowGame{
		ctx:      ctx,
		name:     filepath.Base(path),
		model:    model,
		cam:      cam,
		scene:    &opts.scene,
		renderer: render.NewRenderer(global.workers),
		orbit:    newOrbitState(60, yaw, pitch, distance),
		surface:  render.NewSurface(opts.width, opts.height, false),
	}

	ebiten.SetWindowTitle("vox - " + g.name)
	ebiten.SetWindowSize(opts.width*opts.scale, opts.height*opts.scale)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func (g *windowGame) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA):
		g.orbit.Rotate(-orbitStep/4, 0)
	case ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD):
		g.orbit.Rotate(orbitStep/4, 0)
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW):
		g.orbit.Rotate(0, orbitStep/4)
	case ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS):
		g.orbit.Rotate(0, -orbitStep/4)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd) {
		g.orbit.Zoom(-zoomStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract) {
		g.orbit.Zoom(zoomStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		g.wireframe = !g.wireframe
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.orbit.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.screenshot(); err != nil {
			slog.Error("screenshot failed", "err", err)
		}
	}

	g.orbit.Update()
	g.orbit.Apply(g.cam)
	return nil
}

// draw renders the current view onto s.
func (g *windowGame) draw(s *render.Surface) error {
	w, h := s.ImageSize()
	proj := g.scene.projection(w, h)
	s.ClearColor(render.ColorSlate)
	if _, err := g.renderer.RenderModel(g.ctx, g.model, g.cam, proj, s); err != nil {
		return err
	}
	if g.wireframe || g.scene.wireframe {
		if _, err := g.renderer.RenderWireframe(g.ctx, g.model, g.cam, proj, s, render.ColorEdge); err != nil {
			return err
		}
	}
	return nil
}

func (g *windowGame) screenshot() error {
	s := render.NewSurface(screenshotWidth, screenshotHeight, true)
	if err := g.draw(s); err != nil {
		return err
	}
	name := fmt.Sprintf("vox-%s.png", time.Now().Format("20060102-150405"))
	if err := s.SavePNG(name); err != nil {
		return err
	}
	slog.Info("screenshot saved", "path", name)
	return nil
}

// renderFrame draws the next frame onto g.surface and reports whether it
// succeeded. Failures are logged unless the window is shutting down.
func (g *windowGame) renderFrame() bool {
	if err := g.draw(g.surface); err != nil {
		if g.ctx.Err() == nil {
			slog.Error("render failed", "err", err)
		}
		return false
	}
	return true
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	if !g.renderFrame() {
		return
	}
	w, h := g.surface.ImageSize()
	if g.frame == nil {
		g.frame = ebiten.NewImage(w, h)
	}
	g.packed = g.surface.FillBuffer(g.packed)
	g.pix = render.UnpackBuffer(g.pix, g.packed)
	g.frame.WritePixels(g.pix)
	screen.DrawImage(g.frame, nil)
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.surface.ImageSize()
}
