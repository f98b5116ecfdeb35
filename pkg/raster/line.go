package raster

// EachLinePixel calls fn for every pixel of the segment p0-p1 using
// Bresenham's algorithm. Both endpoints are included.
func EachLinePixel(p0, p1 Pixel, fn func(p Pixel)) {
	dx := abs(p1.X - p0.X)
	dy := -abs(p1.Y - p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}
	err := dx + dy

	x, y := p0.X, p0.Y
	for {
		fn(Pixel{X: x, Y: y})
		if x == p1.X && y == p1.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// Line returns the pixels EachLinePixel visits, starting at p0.
func Line(p0, p1 Pixel) []Pixel {
	n := max(abs(p1.X-p0.X), abs(p1.Y-p0.Y)) + 1
	out := make([]Pixel, 0, n)
	EachLinePixel(p0, p1, func(p Pixel) {
		out = append(out, p)
	})
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
