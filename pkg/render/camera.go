package render

import (
	"math"

	"github.com/taigrr/vox/pkg/geometry"
	"github.com/taigrr/vox/pkg/math3d"
)

// Camera is a right-handed look-at camera with +Y up.
type Camera struct {
	eye    math3d.Vec3
	target math3d.Vec3
	up     math3d.Vec3
}

// NewCamera creates a camera at eye looking at target.
func NewCamera(eye, target math3d.Vec3) *Camera {
	return &Camera{
		eye:    eye,
		target: target,
		up:     math3d.V3(0, 1, 0),
	}
}

// OrbitCamera places a camera on a sphere of the given radius around target.
// Yaw rotates around +Y starting from +Z; pitch raises the eye toward +Y.
// Pitch is clamped short of the poles so the up vector stays valid.
func OrbitCamera(target math3d.Vec3, yaw, pitch, distance float64) *Camera {
	c := NewCamera(target, target)
	c.Orbit(yaw, pitch, distance)
	return c
}

// Eye returns the camera position in world space.
func (c *Camera) Eye() math3d.Vec3 { return c.eye }

// Target returns the point the camera looks at.
func (c *Camera) Target() math3d.Vec3 { return c.target }

// Orbit moves the eye onto the sphere around the current target.
func (c *Camera) Orbit(yaw, pitch, distance float64) {
	const maxPitch = math.Pi/2 - 0.01
	pitch = math.Max(-maxPitch, math.Min(maxPitch, pitch))

	sy, cy := math.Sincos(yaw)
	sp, cp := math.Sincos(pitch)
	offset := math3d.V3(distance*cp*sy, distance*sp, distance*cp*cy)
	c.eye = c.target.Add(offset)
}

// Forward returns the unit viewing direction in world space.
func (c *Camera) Forward() math3d.Vec3 {
	return c.target.Sub(c.eye).Normalize()
}

// ScreenRay returns the ray from the eye along the viewing direction.
func (c *Camera) ScreenRay() geometry.Ray {
	return geometry.Ray{Origin: c.eye, Direction: c.Forward()}
}

// ViewMatrix returns the world-to-view transform. In view space the eye is
// at the origin looking down -Z.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return math3d.LookAt(c.eye, c.target, c.up)
}

// Projection describes a symmetric perspective frustum.
type Projection struct {
	Aspect float64 // width / height
	FovY   float64 // vertical field of view in radians
	Near   float64
	Far    float64
}

// DefaultProjection returns a 60° projection for the given aspect ratio.
func DefaultProjection(aspect float64) Projection {
	return Projection{
		Aspect: aspect,
		FovY:   math.Pi / 3,
		Near:   0.1,
		Far:    100,
	}
}

// Matrix returns the OpenGL-style perspective matrix.
func (p Projection) Matrix() math3d.Mat4 {
	return math3d.Perspective(p.FovY, p.Aspect, p.Near, p.Far)
}

// Project maps a view-space point to NDC and returns the clip-space w, which
// equals the point's distance along the view axis.
func (p Projection) Project(view math3d.Vec3) (math3d.Vec3, float64) {
	return projectPoint(p.Matrix(), view)
}

func projectPoint(m math3d.Mat4, view math3d.Vec3) (math3d.Vec3, float64) {
	clip := m.MulVec4(math3d.Point(view))
	return clip.PerspectiveDivide(), clip.W
}

// Unproject maps an NDC point back to view space.
func (p Projection) Unproject(ndc math3d.Vec3) math3d.Vec3 {
	inv, ok := p.Matrix().Inverse()
	if !ok {
		return math3d.Vec3{}
	}
	return inv.MulVec3(ndc)
}
