package geometry

import (
	"math"
	"testing"

	"github.com/taigrr/vox/pkg/math3d"
)

func unitCubeCorners() []math3d.Vec3 {
	var pts []math3d.Vec3
	for _, x := range []float64{0, 1} {
		for _, y := range []float64{0, 1} {
			for _, z := range []float64{0, 1} {
				pts = append(pts, math3d.V3(x, y, z))
			}
		}
	}
	return pts
}

func TestBoundingSphereUnitCube(t *testing.T) {
	s := NewBoundingSphere(unitCubeCorners())

	if !s.Center.ApproxEqual(math3d.V3(0.5, 0.5, 0.5), epsilon) {
		t.Errorf("center = %v, want (0.5,0.5,0.5)", s.Center)
	}
	if want := math.Sqrt(3) / 2; math.Abs(s.Radius-want) > 1e-6 {
		t.Errorf("radius = %v, want %v", s.Radius, want)
	}
}

func TestBoundingSphereContainsAll(t *testing.T) {
	pts := []math3d.Vec3{
		math3d.V3(-3, 0, 1),
		math3d.V3(10, 2, -4),
		math3d.V3(0, 0, 0),
		math3d.V3(1, 7, 2),
	}
	s := NewBoundingSphere(pts)
	for _, p := range pts {
		if d := p.Distance(s.Center); d > s.Radius+epsilon {
			t.Errorf("point %v is %v from center, radius %v", p, d, s.Radius)
		}
	}
}

func TestBoundingSphereEmpty(t *testing.T) {
	if s := NewBoundingSphere(nil); s != (BoundingSphere{}) {
		t.Errorf("got %+v, want zero sphere", s)
	}
}

func TestClassifySphere(t *testing.T) {
	s := NewBoundingSphere(unitCubeCorners())
	normal := math3d.V3(0, 0, 1)

	tests := []struct {
		name string
		z    float64
		want ClipType
	}{
		{"plane below", -1, NopeAllFront},
		{"plane above", 2, NopeAllBehind},
		{"plane through center", 0.5, Clip},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPlane(normal, math3d.V3(0, 0, tc.z))
			if got := ClassifySphere(s, p); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSphereRejected(t *testing.T) {
	s := BoundingSphere{Center: math3d.V3(0, 0, -10), Radius: 1}
	front := NewPlane(math3d.V3(0, 0, -1), math3d.V3(0, 0, -1))
	back := NewPlane(math3d.V3(0, 0, 1), math3d.V3(0, 0, -1))

	if SphereRejected(s, []Plane{front}) {
		t.Error("sphere in front of plane should not be rejected")
	}
	if !SphereRejected(s, []Plane{front, back}) {
		t.Error("sphere behind one plane should be rejected")
	}
}
