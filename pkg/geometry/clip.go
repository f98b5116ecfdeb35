package geometry

import (
	"fmt"

	"github.com/taigrr/vox/pkg/math3d"
)

// Triangle is three vertices in a single coordinate space.
type Triangle [3]math3d.Vec3

// Normal returns the unnormalized face normal (v1-v0)×(v2-v0).
func (t Triangle) Normal() math3d.Vec3 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
}

// ClipKind tags the result of clipping a triangle against a plane.
type ClipKind int

const (
	// NoClip means the triangle is unchanged.
	NoClip ClipKind = iota
	// SingleReplacement means one vertex was replaced by an intersection.
	SingleReplacement
	// DoubleReplacement means two vertices were replaced by intersections.
	DoubleReplacement
)

func (k ClipKind) String() string {
	switch k {
	case NoClip:
		return "no-clip"
	case SingleReplacement:
		return "single-replacement"
	case DoubleReplacement:
		return "double-replacement"
	default:
		return "unknown"
	}
}

// Replacement records that vertex slot Index of a clipped triangle now holds
// the plane's intersection with the original edge Edge[0]→Edge[1]. Callers
// can use it to re-interpolate per-vertex attributes along that edge.
type Replacement struct {
	Index int
	Edge  [2]int
}

// ClippedTriangle is one output of ClipTriangle.
type ClippedTriangle struct {
	Kind     ClipKind
	Tri      Triangle
	Replaced []Replacement
}

// ClipTriangle clips tri against the positive side of p. Vertices with
// distance >= 0 are kept. It returns up to two triangles and how many of
// them are valid:
//
//   - all kept: one NoClip triangle equal to tri
//   - none kept: zero triangles
//   - one kept: one DoubleReplacement triangle
//   - two kept: a SingleReplacement triangle followed by a DoubleReplacement
//     triangle; together they cover the kept quad
//
// Replaced vertices are written into their original slots, so the winding of
// tri is preserved. An edge classified as crossing whose endpoint distances
// do not straddle zero is an internal error and panics.
func ClipTriangle(p Plane, tri Triangle) ([2]ClippedTriangle, int) {
	var out [2]ClippedTriangle

	var d [3]float64
	kept := 0
	for i, v := range tri {
		d[i] = p.Distance(v)
		if d[i] >= 0 {
			kept++
		}
	}

	switch kept {
	case 3:
		out[0] = ClippedTriangle{Kind: NoClip, Tri: tri}
		return out, 1

	case 0:
		return out, 0

	case 1:
		a := 0
		for i := range 3 {
			if d[i] >= 0 {
				a = i
				break
			}
		}
		b, c := (a+1)%3, (a+2)%3

		res := tri
		res[b] = crossing(p, tri, d, a, b)
		res[c] = crossing(p, tri, d, a, c)
		out[0] = ClippedTriangle{
			Kind: DoubleReplacement,
			Tri:  res,
			Replaced: []Replacement{
				{Index: b, Edge: [2]int{a, b}},
				{Index: c, Edge: [2]int{a, c}},
			},
		}
		return out, 1

	default:
		i0, i1, i2 := orderByDistance(d)

		bc := crossing(p, tri, d, i1, i2)
		ac := crossing(p, tri, d, i0, i2)

		first := tri
		first[i2] = bc
		out[0] = ClippedTriangle{
			Kind:     SingleReplacement,
			Tri:      first,
			Replaced: []Replacement{{Index: i2, Edge: [2]int{i1, i2}}},
		}

		second := tri
		second[i1] = bc
		second[i2] = ac
		out[1] = ClippedTriangle{
			Kind: DoubleReplacement,
			Tri:  second,
			Replaced: []Replacement{
				{Index: i1, Edge: [2]int{i1, i2}},
				{Index: i2, Edge: [2]int{i0, i2}},
			},
		}
		return out, 2
	}
}

// orderByDistance returns the vertex indices sorted by descending distance.
// Equal distances keep ascending index order.
func orderByDistance(d [3]float64) (int, int, int) {
	idx := [3]int{0, 1, 2}
	for i := 1; i < 3; i++ {
		for j := i; j > 0 && d[idx[j]] > d[idx[j-1]]; j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
	return idx[0], idx[1], idx[2]
}

// crossing returns the point on edge a-b where the plane distance d reaches
// zero. Vertex a must be kept (d >= 0) and b dropped (d < 0); the crossing is
// interpolated from those same distances so it agrees with the classification.
func crossing(p Plane, tri Triangle, d [3]float64, a, b int) math3d.Vec3 {
	denom := d[a] - d[b]
	if !(denom > 0) {
		panic(fmt.Sprintf("geometry: clipped edge %v-%v does not cross plane %v", tri[a], tri[b], p))
	}
	return tri[a].Lerp(tri[b], d[a]/denom)
}

// AppendClipped clips tri against p and appends the surviving triangles
// to dst.
func AppendClipped(dst []Triangle, p Plane, tri Triangle) []Triangle {
	out, n := ClipTriangle(p, tri)
	for i := range n {
		dst = append(dst, out[i].Tri)
	}
	return dst
}

// ClipAgainst clips tris against each plane in turn. Every plane pass sees
// the survivors of the previous one, so a triangle split by one plane has
// both halves tested against the rest.
func ClipAgainst(planes []Plane, tris []Triangle) []Triangle {
	for _, p := range planes {
		next := make([]Triangle, 0, len(tris))
		for _, t := range tris {
			next = AppendClipped(next, p, t)
		}
		tris = next
	}
	return tris
}
