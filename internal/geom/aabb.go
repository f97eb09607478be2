package geom

import "math"

// AABB is an axis-aligned bounding box, per spec.md §3.
type AABB struct {
	Min, Max Vec3
}

// EmptyAABB returns a box that is empty (Min > Max on every axis) and
// absorbs the first point/box it is expanded by.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether any axis has min > max.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// ExpandPoint grows the box to include p.
func (b AABB) ExpandPoint(p Vec3) AABB {
	return AABB{
		Min: Vec3{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z)},
		Max: Vec3{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z)},
	}
}

// Union returns the smallest box containing both b and o. An empty
// operand is ignored.
func (b AABB) Union(o AABB) AABB {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return AABB{
		Min: Vec3{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)},
		Max: Vec3{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)},
	}
}

// Contains reports whether p lies within the box, boundary inclusive.
func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Intersects reports whether two boxes overlap (touching counts).
func (b AABB) Intersects(o AABB) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return false
	}
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// FuzzyContains reports whether other lies within b, allowing overshoot of
// up to eps per axis — used to validate post-clip bounds (spec.md §4.A).
func (b AABB) FuzzyContains(other AABB, eps float64) bool {
	if other.IsEmpty() {
		return true
	}
	return other.Min.X >= b.Min.X-eps && other.Max.X <= b.Max.X+eps &&
		other.Min.Y >= b.Min.Y-eps && other.Max.Y <= b.Max.Y+eps &&
		other.Min.Z >= b.Min.Z-eps && other.Max.Z <= b.Max.Z+eps
}

// Diagonal returns the length of the box's space diagonal.
func (b AABB) Diagonal() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Max.Sub(b.Min).Length()
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return Vec3{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
		Z: (b.Min.Z + b.Max.Z) / 2,
	}
}

// Extent returns the per-axis size of the box.
func (b AABB) Extent() Vec3 {
	return b.Max.Sub(b.Min)
}

// SurfaceArea returns the total surface area of the box's six faces.
func (b AABB) SurfaceArea() float64 {
	if b.IsEmpty() {
		return 0
	}
	e := b.Extent()
	return 2 * (e.X*e.Y + e.Y*e.Z + e.Z*e.X)
}

// Octant splits the box into up to 8 children along the axes enabled by
// the axis mask (bit 0=X, 1=Y, 2=Z); disabled axes are not split so the
// caller can model Quadtree (Z disabled) vs Octree (all enabled)
// subdivision with one routine.
func (b AABB) Octant(axisMask uint8) []AABB {
	c := b.Center()
	splitX := axisMask&1 != 0
	splitY := axisMask&2 != 0
	splitZ := axisMask&4 != 0

	xs := []struct{ lo, hi float64 }{{b.Min.X, b.Max.X}}
	if splitX {
		xs = []struct{ lo, hi float64 }{{b.Min.X, c.X}, {c.X, b.Max.X}}
	}
	ys := []struct{ lo, hi float64 }{{b.Min.Y, b.Max.Y}}
	if splitY {
		ys = []struct{ lo, hi float64 }{{b.Min.Y, c.Y}, {c.Y, b.Max.Y}}
	}
	zs := []struct{ lo, hi float64 }{{b.Min.Z, b.Max.Z}}
	if splitZ {
		zs = []struct{ lo, hi float64 }{{b.Min.Z, c.Z}, {c.Z, b.Max.Z}}
	}

	var out []AABB
	for _, z := range zs {
		for _, y := range ys {
			for _, x := range xs {
				out = append(out, AABB{
					Min: Vec3{x.lo, y.lo, z.lo},
					Max: Vec3{x.hi, y.hi, z.hi},
				})
			}
		}
	}
	return out
}
