package geom

// Plane is defined as dot(p, Normal) + D = 0, per spec.md §3. The distance
// from the origin along Normal is -D.
type Plane struct {
	Normal Vec3
	D      float64
}

// PlaneFromPointNormal builds a plane passing through p with the given
// (not necessarily normalized) normal.
func PlaneFromPointNormal(p, normal Vec3) Plane {
	n, _ := normal.Normalized()
	return Plane{Normal: n, D: -n.Dot(p)}
}

// AxisPlane builds one of the six half-space boundary planes of an AABB.
// axis in {0,1,2}; positive selects the Max-facing plane (outward normal
// pointing away from the box interior on that side), negative the
// Min-facing plane.
func AxisPlane(box AABB, axis int, positive bool) Plane {
	var n Vec3
	var d float64
	switch axis {
	case 0:
		if positive {
			n = Vec3{1, 0, 0}
			d = -box.Max.X
		} else {
			n = Vec3{-1, 0, 0}
			d = box.Min.X
		}
	case 1:
		if positive {
			n = Vec3{0, 1, 0}
			d = -box.Max.Y
		} else {
			n = Vec3{0, -1, 0}
			d = box.Min.Y
		}
	default:
		if positive {
			n = Vec3{0, 0, 1}
			d = -box.Max.Z
		} else {
			n = Vec3{0, 0, -1}
			d = box.Min.Z
		}
	}
	return Plane{Normal: n, D: d}
}

// SixClipPlanes returns the six inward-facing half-space planes of box,
// each satisfying "inside the box" when dot(p, Normal)+D >= 0.
func SixClipPlanes(box AABB) []Plane {
	return []Plane{
		{Normal: Vec3{1, 0, 0}, D: -box.Min.X},
		{Normal: Vec3{-1, 0, 0}, D: box.Max.X},
		{Normal: Vec3{0, 1, 0}, D: -box.Min.Y},
		{Normal: Vec3{0, -1, 0}, D: box.Max.Y},
		{Normal: Vec3{0, 0, 1}, D: -box.Min.Z},
		{Normal: Vec3{0, 0, -1}, D: box.Max.Z},
	}
}

// Flipped returns the plane with reversed orientation (same surface, the
// opposite half-space is now "inside").
func (p Plane) Flipped() Plane {
	return Plane{Normal: p.Normal.Neg(), D: -p.D}
}

// SignedDistance returns dot(p, Normal) + D.
func (p Plane) SignedDistance(point Vec3) float64 {
	return point.Dot(p.Normal) + p.D
}

// IntersectsAABB reports whether the plane passes through the box (i.e.
// the box has points on both sides, or exactly on the plane).
func (p Plane) IntersectsAABB(box AABB) bool {
	if box.IsEmpty() {
		return false
	}
	var minD, maxD float64
	first := true
	corners := box.corners()
	for _, c := range corners {
		d := p.SignedDistance(c)
		if first {
			minD, maxD = d, d
			first = false
			continue
		}
		if d < minD {
			minD = d
		}
		if d > maxD {
			maxD = d
		}
	}
	return minD <= 0 && maxD >= 0
}

func (b AABB) corners() [8]Vec3 {
	return [8]Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z},
		{b.Max.X, b.Max.Y, b.Max.Z},
	}
}
