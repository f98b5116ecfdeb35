package geometry

import (
	"github.com/taigrr/vox/pkg/math3d"
)

// Clipping plane indices, in the order ClippingPlanes returns them.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// ClippingPlanes extracts the six frustum planes of m using the
// Gribb/Hartmann row identities. Each plane is normalized and its normal
// points into the frustum, so interior points have positive distance.
//
// For a projection matrix the planes are in view space; for a combined
// view-projection matrix they are in world space.
func ClippingPlanes(m math3d.Mat4) [6]Plane {
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)

	rows := [6]math3d.Vec4{
		PlaneLeft:   r3.Add(r0),
		PlaneRight:  r3.Sub(r0),
		PlaneBottom: r3.Add(r1),
		PlaneTop:    r3.Sub(r1),
		PlaneNear:   r3.Add(r2),
		PlaneFar:    r3.Sub(r2),
	}

	var planes [6]Plane
	for i, r := range rows {
		planes[i] = Plane{Normal: r.XYZ(), D: r.W}
		planes[i].Normalize()
	}
	return planes
}
