package geometry

import (
	"math"

	"github.com/taigrr/vox/pkg/math3d"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB returns the smallest box containing points. Empty input yields an
// inverted box (Min > Max) that Empty reports as empty.
func NewAABB(points []math3d.Vec3) AABB {
	inf := math.Inf(1)
	b := AABB{
		Min: math3d.V3(inf, inf, inf),
		Max: math3d.V3(-inf, -inf, -inf),
	}
	for _, p := range points {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Empty reports whether the box contains no points.
func (b AABB) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Center returns the center of the box.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box along each axis.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Corners returns the eight corners of the box.
func (b AABB) Corners() [8]math3d.Vec3 {
	return [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

// Transform returns the box bounding all eight corners after m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	corners := b.Corners()
	for i, c := range corners {
		corners[i] = m.MulVec3(c)
	}
	return NewAABB(corners[:])
}

// ContainsPoint reports whether p lies inside or on the box.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectsPlanes reports whether some part of the box is on the positive
// side of every plane. For each plane only the corner furthest along the
// normal is tested.
func (b AABB) IntersectsPlanes(planes []Plane) bool {
	for _, p := range planes {
		far := math3d.V3(
			pick(p.Normal.X >= 0, b.Max.X, b.Min.X),
			pick(p.Normal.Y >= 0, b.Max.Y, b.Min.Y),
			pick(p.Normal.Z >= 0, b.Max.Z, b.Min.Z),
		)
		if p.Distance(far) < 0 {
			return false
		}
	}
	return true
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
