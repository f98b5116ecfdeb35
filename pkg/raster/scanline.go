// Package raster converts 2D triangles and segments into pixel spans.
//
// Coordinates are integer pixels with y growing along the scanline index.
// Attribute values (for example inverse depth) are interpolated linearly in
// screen space along the triangle edges.
package raster

// Pixel is an integer pixel coordinate.
type Pixel struct {
	X, Y int
}

// Triangle2D is a triangle in pixel coordinates.
type Triangle2D [3]Pixel

// Scanline is one horizontal span of a filled triangle. L and R share the
// same Y. AL and AR are the attribute values at L and R.
type Scanline struct {
	L, R   Pixel
	AL, AR float64
}

// Sample is one point of a LinspaceSample: an integer coordinate and the
// value interpolated at it.
type Sample struct {
	X int
	V float64
}

// EachSample calls fn for every integer x between x0 and x1 inclusive with
// the value linearly interpolated between v0 at x0 and v1 at x1. Samples are
// visited in ascending x.
//
// When x0 == x1 exactly one sample, (x0, v0), is produced. Returning the
// first endpoint keeps the long and short edges of a triangle in step on a
// horizontal edge; picking v1 would make the last row jump across the
// triangle.
func EachSample(x0 int, v0 float64, x1 int, v1 float64, fn func(x int, v float64)) {
	if x0 == x1 {
		fn(x0, v0)
		return
	}
	if x1 < x0 {
		x0, x1 = x1, x0
		v0, v1 = v1, v0
	}

	span := float64(x1 - x0)
	dv := v1 - v0
	for x := x0; x <= x1; x++ {
		fn(x, v0+dv*float64(x-x0)/span)
	}
}

// LinspaceSample returns the samples EachSample visits.
func LinspaceSample(x0 int, v0 float64, x1 int, v1 float64) []Sample {
	n := x1 - x0
	if n < 0 {
		n = -n
	}
	out := make([]Sample, 0, n+1)
	EachSample(x0, v0, x1, v1, func(x int, v float64) {
		out = append(out, Sample{X: x, V: v})
	})
	return out
}

// InterpPixels returns one pixel per row from p0.Y to p1.Y, with X
// interpolated and truncated toward zero.
func InterpPixels(p0, p1 Pixel) []Pixel {
	samples := LinspaceSample(p0.Y, float64(p0.X), p1.Y, float64(p1.X))
	out := make([]Pixel, len(samples))
	for i, s := range samples {
		out[i] = Pixel{X: int(s.V), Y: s.X}
	}
	return out
}

// interpValues returns the attribute values along the rows y0..y1.
func interpValues(y0 int, a0 float64, y1 int, a1 float64) []float64 {
	samples := LinspaceSample(y0, a0, y1, a1)
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.V
	}
	return out
}

// sortByY returns the vertex indices ordered by ascending Y. Vertices with
// equal Y keep their input order.
func sortByY(tri Triangle2D) [3]int {
	idx := [3]int{0, 1, 2}
	for i := 1; i < 3; i++ {
		for j := i; j > 0 && tri[idx[j]].Y < tri[idx[j-1]].Y; j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
	return idx
}

// Scanlines returns the horizontal spans covering tri, one per row from the
// lowest to the highest Y.
func Scanlines(tri Triangle2D) []Scanline {
	return ScanlinesWithAttributes(tri, [3]float64{})
}

// ScanlinesWithAttributes is Scanlines with one scalar per vertex
// interpolated to the ends of every span.
//
// The short edge 0→1→2 and the long edge 0→2 are walked row by row. Which
// of them is the left side is decided by comparing X at the middle row; a
// very thin or degenerate triangle can be misclassified there, which yields
// spans with L.X > R.X.
func ScanlinesWithAttributes(tri Triangle2D, attr [3]float64) []Scanline {
	order := sortByY(tri)
	p0, p1, p2 := tri[order[0]], tri[order[1]], tri[order[2]]
	a0, a1, a2 := attr[order[0]], attr[order[1]], attr[order[2]]

	short := InterpPixels(p0, p1)
	short = append(short[:len(short)-1], InterpPixels(p1, p2)...)
	shortA := interpValues(p0.Y, a0, p1.Y, a1)
	shortA = append(shortA[:len(shortA)-1], interpValues(p1.Y, a1, p2.Y, a2)...)

	long := InterpPixels(p0, p2)
	longA := interpValues(p0.Y, a0, p2.Y, a2)

	left, right := short, long
	leftA, rightA := shortA, longA
	if mid := len(right) / 2; right[mid].X < left[mid].X {
		left, right = right, left
		leftA, rightA = rightA, leftA
	}

	lines := make([]Scanline, len(left))
	for i := range lines {
		lines[i] = Scanline{L: left[i], R: right[i], AL: leftA[i], AR: rightA[i]}
	}
	return lines
}
