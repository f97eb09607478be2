// Package geom provides the vector, matrix, bounding-box, plane, and
// triangle primitives shared by the mesh, camera, and tiler packages.
package geom

import "math"

// Epsilon is the default fuzzy-comparison tolerance used across the
// geometry package.
const Epsilon = 1e-9

// Vec2 is a 2D vector, used for UV coordinates and image-plane pixels.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3D vector, used for positions, normals, and camera models.
type Vec3 struct {
	X, Y, Z float64
}

// Vec4 is a 4-component color (RGBA), stored as float32 per the spec's
// vertex color representation.
type Vec4 struct {
	X, Y, Z, W float32
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Neg() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LengthSquared() float64 { return v.Dot(v) }
func (v Vec3) Length() float64        { return math.Sqrt(v.LengthSquared()) }

// Normalized returns v scaled to unit length and true, or the zero vector
// and false if v's length is not greater than Epsilon.
func (v Vec3) Normalized() (Vec3, bool) {
	l := v.Length()
	if l <= Epsilon {
		return Vec3{}, false
	}
	return v.Scale(1 / l), true
}

func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
		Z: v.Z + (o.Z-v.Z)*t,
	}
}

// IsFinite reports whether every component is finite (not NaN or Inf).
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// FuzzyEqual reports whether two float64 values differ by no more than eps.
func FuzzyEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// Vec3FuzzyEqual reports componentwise fuzzy equality.
func Vec3FuzzyEqual(a, b Vec3, eps float64) bool {
	return FuzzyEqual(a.X, b.X, eps) && FuzzyEqual(a.Y, b.Y, eps) && FuzzyEqual(a.Z, b.Z, eps)
}

func (v Vec4) Lerp(o Vec4, t float32) Vec4 {
	return Vec4{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
		Z: v.Z + (o.Z-v.Z)*t,
		W: v.W + (o.W-v.W)*t,
	}
}
