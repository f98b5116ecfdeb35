package models

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"

	"github.com/taigrr/vox/pkg/math3d"
)

// Extensions lists the model formats Load understands.
var Extensions = []string{".glb", ".gltf", ".stl", ".obj", ".ply", ".3ds"}

// Load reads a model file, choosing the decoder by extension.
func Load(path string) (*Mesh, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		mesh *Mesh
		err  error
	)
	switch ext {
	case ".glb", ".gltf":
		mesh, err = LoadGLTF(path)
	case ".stl", ".obj", ".ply", ".3ds":
		mesh, err = loadFauxgl(path, ext)
	default:
		return nil, fmt.Errorf("load %s: unsupported model format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return mesh, nil
}

func loadFauxgl(path, ext string) (*Mesh, error) {
	var (
		src *fauxgl.Mesh
		err error
	)
	switch ext {
	case ".stl":
		src, err = fauxgl.LoadSTL(path)
	case ".obj":
		src, err = fauxgl.LoadOBJ(path)
	case ".ply":
		src, err = fauxgl.LoadPLY(path)
	case ".3ds":
		src, err = fauxgl.Load3DS(path)
	}
	if err != nil {
		return nil, err
	}
	return FromTriangles(filepath.Base(path), src.Triangles), nil
}

// FromTriangles indexes a fauxgl triangle soup, merging shared corners.
func FromTriangles(name string, tris []*fauxgl.Triangle) *Mesh {
	b := NewBuilder(name)
	for _, t := range tris {
		b.AddTriangle(fromVector(t.V1.Position), fromVector(t.V2.Position), fromVector(t.V3.Position))
	}
	return b.Mesh()
}

func fromVector(v fauxgl.Vector) math3d.Vec3 {
	return math3d.V3(v.X, v.Y, v.Z)
}
