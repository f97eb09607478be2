package geom

// Mat4 is a row-major 4x4 matrix used for frame-chain transforms
// (site-drive -> local-level -> root).
type Mat4 [16]float64

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * o[k*4+col]
			}
			r[row*4+col] = sum
		}
	}
	return r
}

// TransformPoint applies the matrix to a point (implicit w=1), returning
// the transformed point after perspective divide.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3]
	y := m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7]
	z := m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11]
	w := m[12]*p.X + m[13]*p.Y + m[14]*p.Z + m[15]
	if w != 0 && w != 1 {
		x /= w
		y /= w
		z /= w
	}
	return Vec3{x, y, z}
}

// TransformDirection applies only the rotation/scale part of the matrix
// (ignores translation), for transforming normals and ray directions.
func (m Mat4) TransformDirection(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z,
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z,
	}
}

// Inverse returns the inverse of a rigid transform (rotation + translation
// only), which is sufficient for the frame-chain transforms in this
// system (spec.md §3's FrameTransform is always a rigid 4x4).
func (m Mat4) Inverse() Mat4 {
	// Rotation block R is orthonormal for a rigid transform, so R^-1 = R^T.
	rt := Mat4{
		m[0], m[4], m[8], 0,
		m[1], m[5], m[9], 0,
		m[2], m[6], m[10], 0,
		0, 0, 0, 1,
	}
	t := Vec3{m[3], m[7], m[11]}
	negRt := rt.TransformDirection(t).Neg()
	rt[3] = negRt.X
	rt[7] = negRt.Y
	rt[11] = negRt.Z
	return rt
}
