// vox - software 3D renderer
// Render STL, OBJ, PLY, 3DS and glTF models to image files, the terminal, or
// a desktop window.
//
// Usage:
//
//	vox render model.stl -o out.png --supersample
//	vox view model.glb
//	vox window model.obj
//	vox bench model.stl --frames 120
//	vox info model.ply
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/vox/pkg/render"
)

var version = "dev"

type globalOptions struct {
	logLevel string
	workers  int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "vox",
		Short: "Software 3D renderer for meshes",
		Long: "vox rasterizes triangle meshes on the CPU with frustum clipping,\n" +
			"a depth buffer and matcap shading.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(opts.logLevel)
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().IntVar(&opts.workers, "workers", 0, "render workers (0 uses GOMAXPROCS)")

	root.AddCommand(
		newRenderCmd(opts),
		newViewCmd(opts),
		newWindowCmd(opts),
		newBenchCmd(opts),
		newInfoCmd(),
	)
	return root
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	render.SetLogger(logger)
	return nil
}
