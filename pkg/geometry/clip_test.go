package geometry

import (
	"math"
	"slices"
	"testing"

	"github.com/taigrr/vox/pkg/math3d"
)

var planeZ0 = NewPlane(math3d.V3(0, 0, 1), math3d.V3(0, 0, 0))

func TestClipTriangleCases(t *testing.T) {
	tests := []struct {
		name  string
		plane Plane
		tri   Triangle
		kinds []ClipKind
	}{
		{
			name:  "fully in front",
			plane: NewPlane(math3d.V3(0, 0, 1), math3d.V3(0, 0, -10)),
			tri:   Triangle{math3d.V3(0, 0, 1), math3d.V3(-1, 0, 1), math3d.V3(1, 0, -1)},
			kinds: []ClipKind{NoClip},
		},
		{
			name:  "fully behind",
			plane: planeZ0,
			tri:   Triangle{math3d.V3(0, 0, -1), math3d.V3(-1, 0, -2), math3d.V3(1, 0, -2)},
			kinds: nil,
		},
		{
			name:  "one vertex behind",
			plane: planeZ0,
			tri:   Triangle{math3d.V3(0, 0, 1), math3d.V3(-1, 0, 1), math3d.V3(1, 0, -1)},
			kinds: []ClipKind{SingleReplacement, DoubleReplacement},
		},
		{
			name:  "two vertices behind",
			plane: planeZ0,
			tri:   Triangle{math3d.V3(0, 10, 1), math3d.V3(-1, 10, -1), math3d.V3(1, 10, -1)},
			kinds: []ClipKind{DoubleReplacement},
		},
		{
			name:  "vertex on plane counts as kept",
			plane: planeZ0,
			tri:   Triangle{math3d.V3(0, 0, 0), math3d.V3(1, 0, 1), math3d.V3(0, 1, 1)},
			kinds: []ClipKind{NoClip},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, n := ClipTriangle(tc.plane, tc.tri)
			var kinds []ClipKind
			for i := range n {
				kinds = append(kinds, out[i].Kind)
			}
			if !slices.Equal(kinds, tc.kinds) {
				t.Errorf("kinds = %v, want %v", kinds, tc.kinds)
			}
			if n == 1 && out[0].Kind == NoClip && out[0].Tri != tc.tri {
				t.Errorf("NoClip changed the triangle: %v", out[0].Tri)
			}
		})
	}
}

func TestClipTriangleOneBehindGeometry(t *testing.T) {
	tri := Triangle{math3d.V3(0, 0, 1), math3d.V3(-1, 0, 1), math3d.V3(1, 0, -1)}
	out, n := ClipTriangle(planeZ0, tri)
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}

	wantFirst := Triangle{math3d.V3(0, 0, 1), math3d.V3(-1, 0, 1), math3d.V3(0, 0, 0)}
	wantSecond := Triangle{math3d.V3(0, 0, 1), math3d.V3(0, 0, 0), math3d.V3(0.5, 0, 0)}
	assertTriangle(t, "first", out[0].Tri, wantFirst)
	assertTriangle(t, "second", out[1].Tri, wantSecond)

	wantMeta := [][]Replacement{
		{{Index: 2, Edge: [2]int{1, 2}}},
		{{Index: 1, Edge: [2]int{1, 2}}, {Index: 2, Edge: [2]int{0, 2}}},
	}
	for i, want := range wantMeta {
		if !slices.Equal(out[i].Replaced, want) {
			t.Errorf("triangle %d replacements = %v, want %v", i, out[i].Replaced, want)
		}
	}
}

func TestClipTriangleTwoBehindGeometry(t *testing.T) {
	tri := Triangle{math3d.V3(0, 10, 1), math3d.V3(-1, 10, -1), math3d.V3(1, 10, -1)}
	out, n := ClipTriangle(planeZ0, tri)
	if n != 1 {
		t.Fatalf("n = %d, want 1", n)
	}

	want := Triangle{math3d.V3(0, 10, 1), math3d.V3(-0.5, 10, 0), math3d.V3(0.5, 10, 0)}
	assertTriangle(t, "clipped", out[0].Tri, want)

	wantMeta := []Replacement{
		{Index: 1, Edge: [2]int{0, 1}},
		{Index: 2, Edge: [2]int{0, 2}},
	}
	if !slices.Equal(out[0].Replaced, wantMeta) {
		t.Errorf("replacements = %v, want %v", out[0].Replaced, wantMeta)
	}
}

func TestClipTriangleApexNotFirst(t *testing.T) {
	tri := Triangle{math3d.V3(-1, 0, -1), math3d.V3(1, 0, -1), math3d.V3(0, 0, 1)}
	out, n := ClipTriangle(planeZ0, tri)
	if n != 1 || out[0].Kind != DoubleReplacement {
		t.Fatalf("got n=%d kind=%v", n, out[0].Kind)
	}
	wantMeta := []Replacement{
		{Index: 0, Edge: [2]int{2, 0}},
		{Index: 1, Edge: [2]int{2, 1}},
	}
	if !slices.Equal(out[0].Replaced, wantMeta) {
		t.Errorf("replacements = %v, want %v", out[0].Replaced, wantMeta)
	}
	if out[0].Tri[2] != tri[2] {
		t.Errorf("kept vertex moved: %v", out[0].Tri[2])
	}
}

func TestClipTrianglePreservesWinding(t *testing.T) {
	tris := []Triangle{
		{math3d.V3(0, 0, 1), math3d.V3(-1, 0, 1), math3d.V3(1, 0, -1)},
		{math3d.V3(1, 0, -1), math3d.V3(0, 0, 1), math3d.V3(-1, 0, 1)},
		{math3d.V3(0, 10, 1), math3d.V3(-1, 10, -1), math3d.V3(1, 10, -1)},
		{math3d.V3(0, 0, 2), math3d.V3(2, 1, -1), math3d.V3(0, 3, 1)},
	}
	plane := NewPlane(math3d.V3(0, 0.2, 1), math3d.V3(0, 0, 0))

	for i, tri := range tris {
		want := tri.Normal()
		out, n := ClipTriangle(plane, tri)
		for j := range n {
			got := out[j].Tri.Normal()
			if got.Dot(want) <= 0 {
				t.Errorf("triangle %d output %d normal %v flipped against %v", i, j, got, want)
			}
		}
	}
}

func TestClipTriangleOutputsOnPositiveSide(t *testing.T) {
	tri := Triangle{math3d.V3(3, -1, 2), math3d.V3(-2, 4, -3), math3d.V3(1, 1, -5)}
	plane := NewPlane(math3d.V3(0.3, 0.1, 1), math3d.V3(0, 0, -1))

	out, n := ClipTriangle(plane, tri)
	if n == 0 {
		t.Fatal("expected survivors")
	}
	for i := range n {
		for _, v := range out[i].Tri {
			if d := plane.Distance(v); d < -1e-9 {
				t.Errorf("output %d vertex %v at distance %v", i, v, d)
			}
		}
	}
}

func TestClipTriangleEdgeInPlane(t *testing.T) {
	plane := NewPlane(math3d.V3(-1, 1, 0), math3d.V3(0, 1, 0))
	tri := Triangle{math3d.V3(0, 1, -1), math3d.V3(2, 3, 0), math3d.V3(0, 0, 0)}

	out, n := ClipTriangle(plane, tri)
	for i := range n {
		for _, v := range out[i].Tri {
			if d := plane.Distance(v); d < -1e-9 {
				t.Errorf("output %d vertex %v at distance %v", i, v, d)
			}
		}
	}
}

func TestClipTriangleGridNeverPanics(t *testing.T) {
	plane := NewPlane(math3d.V3(-1, 1, 0), math3d.V3(0, 1, 0))
	var points []math3d.Vec3
	for x := -1; x <= 2; x++ {
		for y := -1; y <= 3; y++ {
			for z := -1; z <= 1; z++ {
				points = append(points, math3d.V3(float64(x), float64(y), float64(z)))
			}
		}
	}

	for _, a := range points {
		for _, b := range points {
			for _, c := range points {
				tri := Triangle{a, b, c}
				out, n := ClipTriangle(plane, tri)
				for i := range n {
					for _, r := range out[i].Replaced {
						v := out[i].Tri[r.Index]
						if d := plane.Distance(v); math.Abs(d) > 1e-9 {
							t.Fatalf("clip %v: replaced vertex %v at distance %v", tri, v, d)
						}
					}
				}
			}
		}
	}
}

func TestClipAgainstSequential(t *testing.T) {
	// A large triangle crossing two planes must be split by the first and
	// both halves tested against the second.
	tri := Triangle{math3d.V3(-10, -10, 0), math3d.V3(10, -10, 0), math3d.V3(0, 10, 0)}
	planes := []Plane{
		NewPlane(math3d.V3(1, 0, 0), math3d.V3(-1, 0, 0)),
		NewPlane(math3d.V3(-1, 0, 0), math3d.V3(1, 0, 0)),
	}

	out := ClipAgainst(planes, []Triangle{tri})
	if len(out) == 0 {
		t.Fatal("expected survivors")
	}
	for _, tr := range out {
		for _, v := range tr {
			if v.X < -1-1e-9 || v.X > 1+1e-9 {
				t.Errorf("vertex %v escaped the slab", v)
			}
		}
	}

	var area float64
	for _, tr := range out {
		area += tr.Normal().Len() / 2
	}
	// Height is 20-2|x| inside the slab -1<=x<=1.
	if want := 38.0; math.Abs(area-want) > 1e-6 {
		t.Errorf("clipped area = %v, want %v", area, want)
	}
}

func assertTriangle(t *testing.T, name string, got, want Triangle) {
	t.Helper()
	for i := range 3 {
		if !got[i].ApproxEqual(want[i], epsilon) {
			t.Errorf("%s vertex %d = %v, want %v", name, i, got[i], want[i])
		}
	}
}

func BenchmarkClipTriangle(b *testing.B) {
	tri := Triangle{math3d.V3(0, 0, 1), math3d.V3(-1, 0, 1), math3d.V3(1, 0, -1)}

	for b.Loop() {
		_, _ = ClipTriangle(planeZ0, tri)
	}
}
