// Package models provides the indexed triangle mesh drawn by the renderer
// and the loaders that build it from model files.
package models

import (
	"math"

	"github.com/taigrr/vox/pkg/geometry"
	"github.com/taigrr/vox/pkg/math3d"
)

// Vertex is a unique position and the faces that use it.
type Vertex struct {
	Position math3d.Vec3
	Faces    []int // Indices into Mesh.Faces
}

// Face is a triangle given by three indices into Mesh.Vertices,
// counter-clockwise when seen from the front.
type Face struct {
	Vertices [3]int
}

// Mesh is an indexed face-vertex triangle mesh.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Faces    []Face
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// GetVertex returns the position of vertex i.
// Implements render.MeshSource.
func (m *Mesh) GetVertex(i int) math3d.Vec3 {
	return m.Vertices[i].Position
}

// GetFace returns the vertex indices of face i.
// Implements render.MeshSource.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].Vertices
}

// Triangle returns the positions of face i.
func (m *Mesh) Triangle(i int) geometry.Triangle {
	f := m.Faces[i].Vertices
	return geometry.Triangle{
		m.Vertices[f[0]].Position,
		m.Vertices[f[1]].Position,
		m.Vertices[f[2]].Position,
	}
}

// FaceNormal returns the unit normal of face i, or zero for a degenerate
// face.
func (m *Mesh) FaceNormal(i int) math3d.Vec3 {
	return m.Triangle(i).Normal().Normalize()
}

// VertexNormal returns the area-weighted average normal of the faces that
// share vertex i.
func (m *Mesh) VertexNormal(i int) math3d.Vec3 {
	var sum math3d.Vec3
	for _, f := range m.Vertices[i].Faces {
		sum = sum.Add(m.Triangle(f).Normal())
	}
	return sum.Normalize()
}

// Positions returns every vertex position in index order.
func (m *Mesh) Positions() []math3d.Vec3 {
	out := make([]math3d.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = v.Position
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *Mesh) Bounds() geometry.AABB {
	return geometry.NewAABB(m.Positions())
}

// Transform applies mat to every vertex position.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
	}
}

// NormalizeMatrix returns the transform that centers the mesh at the origin
// and scales its largest extent to 2, so it fits in [-1, 1] on every axis.
func (m *Mesh) NormalizeMatrix() math3d.Mat4 {
	b := m.Bounds()
	if b.Empty() {
		return math3d.Identity()
	}
	extent := b.Size().MaxComponent()
	scale := 1.0
	if extent > 0 && !math.IsInf(extent, 0) {
		scale = 2 / extent
	}
	return math3d.ScaleUniform(scale).Mul(math3d.Translate(b.Center().Negate()))
}

// Normalize fits the mesh into the bi-unit cube centered at the origin.
func (m *Mesh) Normalize() {
	m.Transform(m.NormalizeMatrix())
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:     m.Name,
		Vertices: make([]Vertex, len(m.Vertices)),
		Faces:    make([]Face, len(m.Faces)),
	}
	for i, v := range m.Vertices {
		clone.Vertices[i] = Vertex{
			Position: v.Position,
			Faces:    append([]int(nil), v.Faces...),
		}
	}
	copy(clone.Faces, m.Faces)
	return clone
}

// Builder assembles a Mesh from triangle soup, merging vertices with
// identical positions.
type Builder struct {
	mesh  *Mesh
	index map[math3d.Vec3]int
}

// NewBuilder starts an empty mesh.
func NewBuilder(name string) *Builder {
	return &Builder{
		mesh:  NewMesh(name),
		index: make(map[math3d.Vec3]int),
	}
}

// AddVertex returns the index of p, adding it if no vertex has exactly that
// position yet.
func (b *Builder) AddVertex(p math3d.Vec3) int {
	if i, ok := b.index[p]; ok {
		return i
	}
	i := len(b.mesh.Vertices)
	b.mesh.Vertices = append(b.mesh.Vertices, Vertex{Position: p})
	b.index[p] = i
	return i
}

// AddTriangle appends the face p0, p1, p2 and returns its index.
func (b *Builder) AddTriangle(p0, p1, p2 math3d.Vec3) int {
	return b.AddFace(b.AddVertex(p0), b.AddVertex(p1), b.AddVertex(p2))
}

// AddFace appends a face over existing vertex indices and records it on
// each distinct vertex.
func (b *Builder) AddFace(i0, i1, i2 int) int {
	f := len(b.mesh.Faces)
	b.mesh.Faces = append(b.mesh.Faces, Face{Vertices: [3]int{i0, i1, i2}})
	for k, vi := range [3]int{i0, i1, i2} {
		if (k > 0 && vi == i0) || (k == 2 && vi == i1) {
			continue
		}
		b.mesh.Vertices[vi].Faces = append(b.mesh.Vertices[vi].Faces, f)
	}
	return f
}

// Mesh returns the mesh built so far. The builder must not be used after.
func (b *Builder) Mesh() *Mesh {
	m := b.mesh
	b.mesh, b.index = nil, nil
	return m
}

// NewCube returns the unit cube centered at the origin with outward-facing
// counter-clockwise faces.
func NewCube() *Mesh {
	b := NewBuilder("cube")
	c := [8]math3d.Vec3{
		{X: -0.5, Y: -0.5, Z: -0.5}, {X: 0.5, Y: -0.5, Z: -0.5},
		{X: 0.5, Y: 0.5, Z: -0.5}, {X: -0.5, Y: 0.5, Z: -0.5},
		{X: -0.5, Y: -0.5, Z: 0.5}, {X: 0.5, Y: -0.5, Z: 0.5},
		{X: 0.5, Y: 0.5, Z: 0.5}, {X: -0.5, Y: 0.5, Z: 0.5},
	}
	quads := [6][4]int{
		{4, 5, 6, 7}, // +Z
		{1, 0, 3, 2}, // -Z
		{5, 1, 2, 6}, // +X
		{0, 4, 7, 3}, // -X
		{7, 6, 2, 3}, // +Y
		{0, 1, 5, 4}, // -Y
	}
	for _, q := range quads {
		b.AddTriangle(c[q[0]], c[q[1]], c[q[2]])
		b.AddTriangle(c[q[0]], c[q[2]], c[q[3]])
	}
	return b.Mesh()
}
