package main

import (
	"fmt"
	"io"
	"math"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/taigrr/vox/pkg/math3d"
	"github.com/taigrr/vox/pkg/render"
)

type benchOptions struct {
	scene       sceneOptions
	frames      int
	width       int
	height      int
	supersample bool
}

func newBenchCmd(global *globalOptions) *cobra.Command {
	opts := &benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench <model>",
		Short: "Time a full turn of the model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, global, opts, args[0])
		},
	}
	fs := cmd.Flags()
	opts.scene.register(fs)
	fs.IntVar(&opts.frames, "frames", 120, "frames to render")
	fs.IntVar(&opts.width, "width", 640, "frame width")
	fs.IntVar(&opts.height, "height", 480, "frame height")
	fs.BoolVar(&opts.supersample, "supersample", false, "render at 3x and downsample each frame")
	return cmd
}

// frameStats summarizes frame times in milliseconds.
type frameStats struct {
	Mean, StdDev, P50, P95, Max float64
}

func summarize(ms []float64) frameStats {
	if len(ms) == 0 {
		return frameStats{}
	}
	sorted := slices.Clone(ms)
	slices.Sort(sorted)
	mean, std := stat.MeanStdDev(sorted, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return frameStats{
		Mean:   mean,
		StdDev: std,
		P50:    stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
}

func (s frameStats) write(w io.Writer, frames int) {
	fps := 0.0
	if s.Mean > 0 {
		fps = 1000 / s.Mean
	}
	fmt.Fprintf(w, "%d frames: mean %.2fms ± %.2f, p50 %.2fms, p95 %.2fms, max %.2fms (%.1f fps)\n",
		frames, s.Mean, s.StdDev, s.P50, s.P95, s.Max, fps)
}

func runBench(cmd *cobra.Command, global *globalOptions, opts *benchOptions, path string) error {
	if opts.frames <= 0 {
		return fmt.Errorf("--frames must be positive")
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

	ms := make([]float64, 0, opts.frames)
	var pixels int
	for i := range opts.frames {
		model.Transform = math3d.RotateY(2 * math.Pi * float64(i) / float64(opts.frames))
		start := time.Now()
		surface.Clear()
		st, err := r.RenderModel(cmd.Context(), model, cam, proj, surface)
		if err != nil {
			return err
		}
		if opts.supersample {
			surface.ToImage()
		}
		ms = append(ms, float64(time.Since(start).Microseconds())/1000)
		pixels += st.Pixels
	}

	out := cmd.OutOrStdout()
	summarize(ms).write(out, opts.frames)
	fmt.Fprintf(out, "%d triangles, %.0f pixels per frame\n", mesh.TriangleCount(), float64(pixels)/float64(opts.frames))
	return nil
}
