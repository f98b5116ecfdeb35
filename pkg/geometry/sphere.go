package geometry

import (
	"math"

	"github.com/taigrr/vox/pkg/math3d"
)

// BoundingSphere is a sphere containing a point set. It is centered on the
// centroid, so it bounds but is not minimal.
type BoundingSphere struct {
	Center math3d.Vec3
	Radius float64
}

// NewBoundingSphere computes the centroid of points and the largest distance
// from it. An empty slice yields the zero sphere.
func NewBoundingSphere(points []math3d.Vec3) BoundingSphere {
	if len(points) == 0 {
		return BoundingSphere{}
	}

	var sum math3d.Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	center := sum.Scale(1 / float64(len(points)))

	var r2 float64
	for _, p := range points {
		r2 = math.Max(r2, p.Sub(center).LenSq())
	}

	return BoundingSphere{Center: center, Radius: math.Sqrt(r2)}
}

// ClipType is the relation of a bounding sphere to a plane.
type ClipType int

const (
	// NopeAllFront means the sphere is entirely on the positive side; no
	// clipping against this plane is needed.
	NopeAllFront ClipType = iota
	// NopeAllBehind means the sphere is entirely on the negative side and
	// everything inside it can be rejected.
	NopeAllBehind
	// Clip means the sphere straddles the plane.
	Clip
)

func (c ClipType) String() string {
	switch c {
	case NopeAllFront:
		return "all-front"
	case NopeAllBehind:
		return "all-behind"
	case Clip:
		return "clip"
	default:
		return "unknown"
	}
}

// ClassifySphere reports whether s is in front of, behind, or straddling p.
func ClassifySphere(s BoundingSphere, p Plane) ClipType {
	d := p.Distance(s.Center)
	switch {
	case math.Abs(d) < s.Radius:
		return Clip
	case d > 0:
		return NopeAllFront
	default:
		return NopeAllBehind
	}
}

// SphereRejected reports whether s lies entirely behind any of planes.
func SphereRejected(s BoundingSphere, planes []Plane) bool {
	for _, p := range planes {
		if ClassifySphere(s, p) == NopeAllBehind {
			return true
		}
	}
	return false
}
