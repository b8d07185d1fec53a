package mathutil

import "math"

// Mat3 is the linear part of an affine transform, stored row-major and
// applied to column vectors.
type Mat3 [9]float64

func Mat3Identity() Mat3 {
	return Mat3Diag(1, 1, 1)
}

// Mat3Diag returns a scale matrix.
func Mat3Diag(x, y, z float64) Mat3 {
	return Mat3{x, 0, 0, 0, y, 0, 0, 0, z}
}

// Mat3FromCols builds a matrix from its columns, the images of the X, Y
// and Z axes.
func Mat3FromCols(x, y, z Vec3) Mat3 {
	return Mat3{
		x[0], y[0], z[0],
		x[1], y[1], z[1],
		x[2], y[2], z[2],
	}
}

// Row returns row r.
func (m Mat3) Row(r int) Vec3 {
	return Vec3{m[r*3], m[r*3+1], m[r*3+2]}
}

// Col returns column c.
func (m Mat3) Col(c int) Vec3 {
	return Vec3{m[c], m[3+c], m[6+c]}
}

// Mat3Mul returns a × b: b applies first.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for r := 0; r < 3; r++ {
		row := a.Row(r)
		for c := 0; c < 3; c++ {
			m[r*3+c] = row.Dot(b.Col(c))
		}
	}
	return m
}

// MulVec3 returns m × v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{m.Row(0).Dot(v), m.Row(1).Dot(v), m.Row(2).Dot(v)}
}

// Det is the signed volume spanned by the columns. Negative means the
// matrix mirrors.
func (m Mat3) Det() float64 {
	return m.Col(0).Dot(m.Col(1).Cross(m.Col(2)))
}

// Inverse returns m⁻¹, whose rows are the pairwise column cross products
// over the determinant. A singular matrix yields identity.
func (m Mat3) Inverse() Mat3 {
	x, y, z := m.Col(0), m.Col(1), m.Col(2)
	d := x.Dot(y.Cross(z))
	if d == 0 {
		return Mat3Identity()
	}
	r0, r1, r2 := y.Cross(z).Scale(1/d), z.Cross(x).Scale(1/d), x.Cross(y).Scale(1/d)
	return Mat3{
		r0[0], r0[1], r0[2],
		r1[0], r1[1], r1[2],
		r2[0], r2[1], r2[2],
	}
}

func (m Mat3) Transpose() Mat3 {
	return Mat3FromCols(m.Row(0), m.Row(1), m.Row(2))
}

// RotX, RotY and RotZ rotate counter-clockwise about an axis, angle in
// radians, right-handed.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{1, 0, 0, 0, c, -s, 0, s, c}
}

func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{c, 0, s, 0, 1, 0, -s, 0, c}
}

func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{c, -s, 0, s, c, 0, 0, 0, 1}
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
