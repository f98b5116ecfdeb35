package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/taigrr/vox/pkg/render"
)

type renderOptions struct {
	scene       sceneOptions
	output      string
	width       int
	height      int
	supersample bool
	label       bool
}

func newRenderCmd(global *globalOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render <model>",
		Short: "Render a model to an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, global, opts, args[0])
		},
	}
	fs := cmd.Flags()
	opts.scene.register(fs)
	fs.StringVarP(&opts.output, "output", "o", "out.png", "output image (.png, .jpg, .bmp, .tiff)")
	fs.IntVar(&opts.width, "width", 1920, "image width")
	fs.IntVar(&opts.height, "height", 1080, "image height")
	fs.BoolVar(&opts.supersample, "supersample", false, "render at 3x and downsample with Lanczos3")
	fs.BoolVar(&opts.label, "label", false, "print the model name and stats on the image")
	return cmd
}

func runRender(cmd *cobra.Command, global *globalOptions, opts *renderOptions, path string) error {
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("image size %dx%d must be positive", opts.width, opts.height)
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
	proj := opts.scene.projection(opts.width, opts.height)
	surface := render.NewSurface(opts.width, opts.height, opts.supersample)
	r := render.NewRenderer(global.workers)

	start := time.Now()
	stats, err := r.RenderModel(cmd.Context(), model, cam, proj, surface)
	if err != nil {
		return err
	}
	if opts.scene.wireframe {
		if _, err := r.RenderWireframe(cmd.Context(), model, cam, proj, surface, render.ColorEdge); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	img := surface.ToImage()
	if opts.label {
		text := fmt.Sprintf("%s  %d tris  %d drawn  %s", filepath.Base(path), stats.Faces, stats.Rasterized, elapsed.Round(time.Millisecond))
		render.Label(img, 8, 8, text, render.ColorWhite)
	}
	if err := render.SaveImage(opts.output, img); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d faces, %d clipped, %d culled, %d rasterized, %d pixels in %s\n",
		opts.output, stats.Faces, stats.Clipped, stats.Culled, stats.Rasterized, stats.Pixels, elapsed.Round(time.Microsecond))
	return nil
}
