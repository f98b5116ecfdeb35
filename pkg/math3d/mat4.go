package math3d

import "math"

// Mat4 is a 4x4 matrix in column-major order, element (row, col) at
// index row+col*4:
//
//	| 0  4  8  12 |
//	| 1  5  9  13 |
//	| 2  6  10 14 |
//	| 3  7  11 15 |
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation by v.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Scale returns a non-uniform scale.
func Scale(v Vec3) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = v.X, v.Y, v.Z
	return m
}

// ScaleUniform returns a uniform scale by s.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX returns a rotation of angle radians about +X.
func RotateX(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	m := Identity()
	m[5], m[6] = c, s
	m[9], m[10] = -s, c
	return m
}

// RotateY returns a rotation of angle radians about +Y.
func RotateY(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	m := Identity()
	m[0], m[2] = c, -s
	m[8], m[10] = s, c
	return m
}

// RotateZ returns a rotation of angle radians about +Z.
func RotateZ(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	m := Identity()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// LookAt returns a right-handed view matrix: the eye maps to the origin and
// center lies on the -Z axis. When the view direction is parallel to up, the
// world axis least aligned with up stands in for it: looking down +Y from
// above puts world +Z at the bottom of the image, as an orbit from +Z would.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	side := f.Cross(up)
	if side.LenSq() <= 1e-12*up.LenSq() {
		side = f.Cross(fallbackUp(up).Scale(math.Copysign(1, f.Dot(up))))
	}
	s := side.Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// fallbackUp returns the unit world axis least aligned with up, preferring Z
// then X on ties.
func fallbackUp(up Vec3) Vec3 {
	ax, ay, az := math.Abs(up.X), math.Abs(up.Y), math.Abs(up.Z)
	switch {
	case az <= ax && az <= ay:
		return V3(0, 0, 1)
	case ax <= ay:
		return V3(1, 0, 0)
	default:
		return V3(0, 1, 0)
	}
}

// Perspective returns an OpenGL-style projection. fovy is the vertical field
// of view in radians, aspect is width/height. View-space points at distance
// near..far in front of the camera (z = -near..-far) map to NDC z -1..1, and
// clip-space W equals the view distance -z.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovy/2)
	nf := 1.0 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// Mul returns a*b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// At returns the element at (row, col).
func (m Mat4) At(row, col int) float64 {
	return m[row+col*4]
}

// Row returns row i as a Vec4.
func (m Mat4) Row(i int) Vec4 {
	return Vec4{m[i], m[i+4], m[i+8], m[i+12]}
}

// MulVec4 returns m*v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulVec3 transforms v as a point and applies the perspective divide.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(Point(v)).PerspectiveDivide()
}

// MulDir transforms v as a direction (w=0).
func (m Mat4) MulDir(v Vec3) Vec3 {
	return m.MulVec4(Vec4{v.X, v.Y, v.Z, 0}).XYZ()
}

// Inverse returns the inverse of m and whether m was invertible. A singular
// matrix yields the identity and false.
func (m Mat4) Inverse() (Mat4, bool) {
	a00, a01, a02, a03 := m[0], m[1], m[2], m[3]
	a10, a11, a12, a13 := m[4], m[5], m[6], m[7]
	a20, a21, a22, a23 := m[8], m[9], m[10], m[11]
	a30, a31, a32, a33 := m[12], m[13], m[14], m[15]

	b00 := a00*a11 - a01*a10
	b01 := a00*a12 - a02*a10
	b02 := a00*a13 - a03*a10
	b03 := a01*a12 - a02*a11
	b04 := a01*a13 - a03*a11
	b05 := a02*a13 - a03*a12
	b06 := a20*a31 - a21*a30
	b07 := a20*a32 - a22*a30
	b08 := a20*a33 - a23*a30
	b09 := a21*a32 - a22*a31
	b10 := a21*a33 - a23*a31
	b11 := a22*a33 - a23*a32

	det := b00*b11 - b01*b10 + b02*b09 + b03*b08 - b04*b07 + b05*b06
	if det == 0 {
		return Identity(), false
	}
	d := 1 / det

	return Mat4{
		(a11*b11 - a12*b10 + a13*b09) * d,
		(a02*b10 - a01*b11 - a03*b09) * d,
		(a31*b05 - a32*b04 + a33*b03) * d,
		(a22*b04 - a21*b05 - a23*b03) * d,
		(a12*b08 - a10*b11 - a13*b07) * d,
		(a00*b11 - a02*b08 + a03*b07) * d,
		(a32*b02 - a30*b05 - a33*b01) * d,
		(a20*b05 - a22*b02 + a23*b01) * d,
		(a10*b10 - a11*b08 + a13*b06) * d,
		(a01*b08 - a00*b10 - a03*b06) * d,
		(a30*b04 - a31*b02 + a33*b00) * d,
		(a21*b02 - a20*b04 - a23*b00) * d,
		(a11*b07 - a10*b09 - a12*b06) * d,
		(a00*b09 - a01*b07 + a02*b06) * d,
		(a31*b01 - a30*b03 - a32*b00) * d,
		(a20*b03 - a21*b01 + a22*b00) * d,
	}, true
}
