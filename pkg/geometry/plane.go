// Package geometry provides the planes, rays, bounding spheres and triangle
// clipping used by the vox pipeline.
package geometry

import (
	"github.com/taigrr/vox/pkg/math3d"
)

// Plane is the set of points p with Normal·p + D = 0.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// NewPlane returns the plane through point with the given normal. The normal
// is normalized; a zero normal panics.
func NewPlane(normal, point math3d.Vec3) Plane {
	p := Plane{Normal: normal}
	p.Normalize()
	p.D = -p.Normal.Dot(point)
	return p
}

// Normalize scales the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		panic("geometry: plane normal has zero magnitude")
	}
	p.Normal = p.Normal.Scale(1 / l)
	p.D /= l
}

// Distance returns the signed distance from the plane to point. It is
// positive on the side the normal points toward.
func (p Plane) Distance(point math3d.Vec3) float64 {
	return (p.Normal.Dot(point) + p.D) / p.Normal.Len()
}

// SomePoint returns a point on the plane on one of the coordinate axes,
// trying x, then y, then z.
func (p Plane) SomePoint() math3d.Vec3 {
	switch {
	case p.Normal.X != 0:
		return math3d.V3(-p.D/p.Normal.X, 0, 0)
	case p.Normal.Y != 0:
		return math3d.V3(0, -p.D/p.Normal.Y, 0)
	default:
		return math3d.V3(0, 0, -p.D/p.Normal.Z)
	}
}

// Ray is a half-line from Origin along Direction. Direction need not be
// unit length.
type Ray struct {
	Origin    math3d.Vec3
	Direction math3d.Vec3
}

// RayFromPoints returns the ray starting at p1 with direction p1-p2.
func RayFromPoints(p1, p2 math3d.Vec3) Ray {
	return Ray{Origin: p1, Direction: p1.Sub(p2)}
}

// At returns Origin + t*Direction.
func (r Ray) At(t float64) math3d.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectionType classifies a ray/plane intersection.
type IntersectionType int

const (
	// IntersectionNone means the ray is parallel to the plane.
	IntersectionNone IntersectionType = iota
	// IntersectionSingle means the ray's line crosses the plane once.
	IntersectionSingle
	// IntersectionIncidental is reserved for a ray lying in the plane.
	// RayIntersection reports that case as IntersectionNone.
	IntersectionIncidental
)

func (t IntersectionType) String() string {
	switch t {
	case IntersectionNone:
		return "none"
	case IntersectionSingle:
		return "single"
	case IntersectionIncidental:
		return "incidental"
	default:
		return "unknown"
	}
}

// RayIntersection returns where the line of ray crosses the plane.
// The intersection may lie behind the ray's origin.
func (p Plane) RayIntersection(ray Ray) (IntersectionType, math3d.Vec3) {
	denom := p.Normal.Dot(ray.Direction)
	if denom == 0 {
		return IntersectionNone, math3d.Vec3{}
	}
	t := p.SomePoint().Sub(ray.Origin).Dot(p.Normal) / denom
	return IntersectionSingle, ray.At(t)
}
