package mathutil

import "math"

// Transform is an invertible affine transform that keeps both directions.
// LocalToParent maps local points into the parent space; ParentToLocal is
// its inverse.
type Transform struct {
	LocalToParent Mat4
	ParentToLocal Mat4
}

// TransformIdentity returns the identity transform.
func TransformIdentity() Transform {
	return Transform{LocalToParent: Mat4Identity(), ParentToLocal: Mat4Identity()}
}

// NewTransform builds a Transform from its local-to-parent matrix.
func NewTransform(localToParent Mat4) Transform {
	return Transform{
		LocalToParent: localToParent,
		ParentToLocal: localToParent.AffineInverse(),
	}
}

// TransformMul returns the transform that applies rhs first, then lhs.
func TransformMul(lhs, rhs Transform) Transform {
	return Transform{
		LocalToParent: Mat4Mul(lhs.LocalToParent, rhs.LocalToParent),
		ParentToLocal: Mat4Mul(rhs.ParentToLocal, lhs.ParentToLocal),
	}
}

// PointToParent maps a local point into parent space.
func (t Transform) PointToParent(p Vec3) Vec3 {
	return t.LocalToParent.MulPoint(p)
}

// VectorToParent maps a local direction into parent space.
func (t Transform) VectorToParent(v Vec3) Vec3 {
	return t.LocalToParent.MulVector(v)
}

// decomposed is the T·R·S factorization used for interpolation.
type decomposed struct {
	translation Vec3
	rotation    Quat
	scale       Vec3
}

func decompose(m Mat4) decomposed {
	l := m.Mat3()
	cols := [3]Vec3{l.Col(0), l.Col(1), l.Col(2)}
	scale := Vec3{cols[0].Len(), cols[1].Len(), cols[2].Len()}
	if l.Det() < 0 {
		scale[0] = -scale[0]
	}

	for c := range cols {
		if s := scale[c]; math.Abs(s) > 1e-12 {
			cols[c] = cols[c].Scale(1 / s)
		}
	}

	return decomposed{
		translation: m.ExtractTranslation(),
		rotation:    Mat3ToQuat(Mat3FromCols(cols[0], cols[1], cols[2])),
		scale:       scale,
	}
}

func (d decomposed) matrix() Mat4 {
	r := QuatToMat3(d.rotation)
	r = Mat3Mul(r, Mat3Diag(d.scale[0], d.scale[1], d.scale[2]))
	return FromMat3Translation(r, d.translation)
}

// InterpolateTransform blends a and b at t in [0,1]: translation and scale
// are lerped, rotation is slerped.
func InterpolateTransform(a, b Transform, t float64) Transform {
	da := decompose(a.LocalToParent)
	db := decompose(b.LocalToParent)
	d := decomposed{
		translation: da.translation.Lerp(db.translation, t),
		rotation:    Slerp(da.rotation, db.rotation, t),
		scale:       da.scale.Lerp(db.scale, t),
	}
	return NewTransform(d.matrix())
}
