package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taigrr/vox/pkg/geometry"
	"github.com/taigrr/vox/pkg/models"
)

func newInfoCmd() *cobra.Command {
	var scene sceneOptions
	cmd := &cobra.Command{
		Use:   "info <model>",
		Short: "Print mesh statistics and visibility from the camera",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mesh, err := models.Load(args[0])
			if err != nil {
				return err
			}
			cam, err := scene.camera()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			bounds := mesh.Bounds()
			sphere := geometry.NewBoundingSphere(mesh.Positions())
			fmt.Fprintf(out, "name:      %s\n", mesh.Name)
			fmt.Fprintf(out, "vertices:  %d\n", mesh.VertexCount())
			fmt.Fprintf(out, "triangles: %d\n", mesh.TriangleCount())
			fmt.Fprintf(out, "bounds:    %v .. %v\n", bounds.Min, bounds.Max)
			fmt.Fprintf(out, "size:      %v\n", bounds.Size())
			fmt.Fprintf(out, "sphere:    center %v radius %.4g\n", sphere.Center, sphere.Radius)

			// Visibility of the normalized model from the configured camera.
			mesh.Normalize()
			proj := scene.projection(16, 9)
			planes := geometry.ClippingPlanes(proj.Matrix())
			box := mesh.Bounds().Transform(cam.ViewMatrix())
			fmt.Fprintf(out, "visible:   %t\n", box.IntersectsPlanes(planes[:]))
			return nil
		},
	}
	scene.register(cmd.Flags())
	return cmd
}
