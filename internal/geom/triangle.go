package geom

import "math"

// VertexAttr carries the full interpolated vertex attribute set a
// Triangle needs for clipping, independent of the mesh package's Vertex
// type (which additionally tracks presence flags at the mesh level).
type VertexAttr struct {
	Position Vec3
	Normal   Vec3
	UV       Vec2
	Color    Vec4
}

// LerpVertexAttr linearly interpolates every attribute between a and b at t.
func LerpVertexAttr(a, b VertexAttr, t float64) VertexAttr {
	return VertexAttr{
		Position: a.Position.Lerp(b.Position, t),
		Normal:   a.Normal.Lerp(b.Normal, t),
		UV:       a.UV.Lerp(b.UV, t),
		Color:    a.Color.Lerp(b.Color, float32(t)),
	}
}

// Triangle is a standalone triangle carrying full vertex attributes, used
// by the clip/split algorithms (spec.md §3).
type Triangle struct {
	V0, V1, V2 VertexAttr
}

// Vertices returns the triangle's three vertices as a slice, preserving
// winding order.
func (t Triangle) Vertices() [3]VertexAttr { return [3]VertexAttr{t.V0, t.V1, t.V2} }

// Normal computes the (unnormalized) face normal via the cross product of
// the edge vectors, following vertex winding order.
func (t Triangle) Normal() Vec3 {
	e1 := t.V1.Position.Sub(t.V0.Position)
	e2 := t.V2.Position.Sub(t.V0.Position)
	return e1.Cross(e2)
}

// Area returns the triangle's area.
func (t Triangle) Area() float64 {
	return t.Normal().Length() / 2
}

// IsDegenerate reports whether the triangle's area is below eps or its
// normal is not finite (spec.md §3, "geometrically degenerate").
func (t Triangle) IsDegenerate(eps float64) bool {
	n := t.Normal()
	if !n.IsFinite() {
		return true
	}
	return n.Length()/2 <= eps
}

// Bounds returns the triangle's AABB.
func (t Triangle) Bounds() AABB {
	b := EmptyAABB()
	b = b.ExpandPoint(t.V0.Position)
	b = b.ExpandPoint(t.V1.Position)
	b = b.ExpandPoint(t.V2.Position)
	return b
}

// ClipPlane clips the triangle against a half-space plane, keeping the
// side where SignedDistance >= 0. Returns 0, 1, or 2 triangles, per
// spec.md §4.A.
func (t Triangle) ClipPlane(p Plane) []Triangle {
	verts := t.Vertices()
	d := [3]float64{
		p.SignedDistance(verts[0].Position),
		p.SignedDistance(verts[1].Position),
		p.SignedDistance(verts[2].Position),
	}

	allIn := d[0] >= 0 && d[1] >= 0 && d[2] >= 0
	if allIn {
		return []Triangle{t}
	}
	allOut := d[0] < 0 && d[1] < 0 && d[2] < 0
	if allOut {
		return nil
	}

	// Walk the triangle's vertices in original winding order and emit
	// edge-crossing vertices where the sign changes, preserving winding.
	var poly []VertexAttr
	for i := 0; i < 3; i++ {
		cur := verts[i]
		next := verts[(i+1)%3]
		curD := d[i]
		nextD := d[(i+1)%3]

		if curD >= 0 {
			poly = append(poly, cur)
		}
		if (curD >= 0) != (nextD >= 0) {
			tt := curD / (curD - nextD)
			poly = append(poly, LerpVertexAttr(cur, next, tt))
		}
	}

	switch len(poly) {
	case 3:
		return []Triangle{{poly[0], poly[1], poly[2]}}
	case 4:
		return []Triangle{
			{poly[0], poly[1], poly[2]},
			{poly[0], poly[2], poly[3]},
		}
	default:
		return nil
	}
}

// ClipAABB clips the triangle against all six half-spaces of box,
// returning the resulting triangle soup (spec.md §4.A).
func (t Triangle) ClipAABB(box AABB) []Triangle {
	tris := []Triangle{t}
	for _, p := range SixClipPlanes(box) {
		var next []Triangle
		for _, tri := range tris {
			next = append(next, tri.ClipPlane(p)...)
		}
		tris = next
		if len(tris) == 0 {
			return nil
		}
	}
	return tris
}

// CutAABB returns the complement of ClipAABB: the portion of the triangle
// outside box, as the union of the six half-space "outside" clips
// (spec.md §4.A).
func (t Triangle) CutAABB(box AABB) []Triangle {
	var out []Triangle
	for _, p := range SixClipPlanes(box) {
		out = append(out, t.ClipPlane(p.Flipped())...)
	}
	return out
}

// AspectRatio returns longest-edge / shortest-edge, used by the organized
// reconstruction's triangle-aspect test (spec.md §4.F).
func (t Triangle) AspectRatio() float64 {
	e0 := t.V1.Position.Sub(t.V0.Position).Length()
	e1 := t.V2.Position.Sub(t.V1.Position).Length()
	e2 := t.V0.Position.Sub(t.V2.Position).Length()
	longest := math.Max(e0, math.Max(e1, e2))
	shortest := math.Min(e0, math.Min(e1, e2))
	if shortest <= Epsilon {
		return math.Inf(1)
	}
	return longest / shortest
}
