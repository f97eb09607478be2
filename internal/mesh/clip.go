package mesh

import (
	"github.com/MeKo-Tech/watercolormap/internal/geom"
	"github.com/MeKo-Tech/watercolormap/internal/tilerrors"
)

// ClipBoxEpsilon is the fuzzy-containment tolerance applied to the
// post-clip bounds postcondition (spec.md §4.A).
const ClipBoxEpsilon = 1e-5

// Clip returns the portion of m inside box. Face meshes are clipped
// triangle-by-triangle; point clouds keep only points strictly inside or
// on the boundary of box. If normalize is true, normals are renormalized
// after clipping.
//
// Panics with *tilerrors.ClipOvershootError if the result violates the
// fuzzy-containment postcondition — this always indicates a bug in the
// clip routine itself, never bad input (spec.md §4.A, §7).
func (m *Mesh) Clip(box geom.AABB, normalize bool) *Mesh {
	out := m.clipOrCut(box, true)
	if normalize && out.HasNormals {
		out.NormalizeNormals()
	}
	if !box.FuzzyContains(out.Bounds(), ClipBoxEpsilon) {
		panic(&tilerrors.ClipOvershootError{Epsilon: ClipBoxEpsilon})
	}
	return out
}

// Cut returns the complement of Clip: the portion of m outside box.
func (m *Mesh) Cut(box geom.AABB) *Mesh {
	return m.clipOrCut(box, false)
}

func (m *Mesh) clipOrCut(box geom.AABB, keepInside bool) *Mesh {
	out := &Mesh{HasNormals: m.HasNormals, HasUVs: m.HasUVs, HasColors: m.HasColors}

	if m.IsPointCloud() {
		for _, v := range m.Vertices {
			inside := box.Contains(v.Position)
			if inside == keepInside {
				out.Vertices = append(out.Vertices, v)
			}
		}
		return out
	}

	var tris []geom.Triangle
	for _, f := range m.Faces {
		t := m.FaceTriangle(f)
		if keepInside {
			tris = append(tris, t.ClipAABB(box)...)
		} else {
			tris = append(tris, t.CutAABB(box)...)
		}
	}
	out.SetTriangles(tris)
	return out
}

// SplitOnPlane partitions m into the half below the plane (where
// SignedDistance < 0, flipped to "below -p.D along p.Normal") and the
// half on-or-above it, per spec.md §4.A. If checkBounds is true and the
// mesh's bounds do not intersect the plane, a single-element slice
// containing the original mesh is returned (callers test len==1 to
// detect the no-op case).
func (m *Mesh) SplitOnPlane(p geom.Plane, checkBounds bool) []*Mesh {
	if checkBounds && !p.IntersectsAABB(m.Bounds()) {
		return []*Mesh{m}
	}

	below := &Mesh{HasNormals: m.HasNormals, HasUVs: m.HasUVs, HasColors: m.HasColors}
	above := &Mesh{HasNormals: m.HasNormals, HasUVs: m.HasUVs, HasColors: m.HasColors}

	if m.IsPointCloud() {
		for _, v := range m.Vertices {
			d := p.SignedDistance(v.Position)
			if d < 0 {
				below.Vertices = append(below.Vertices, v)
			} else {
				above.Vertices = append(above.Vertices, v)
			}
		}
		return []*Mesh{below, above}
	}

	var belowTris, aboveTris []geom.Triangle
	flipped := p.Flipped()
	for _, f := range m.Faces {
		t := m.FaceTriangle(f)
		belowTris = append(belowTris, t.ClipPlane(flipped)...)
		aboveTris = append(aboveTris, t.ClipPlane(p)...)
	}
	below.SetTriangles(belowTris)
	above.SetTriangles(aboveTris)
	return []*Mesh{below, above}
}

// SplitOnPlanes folds SplitOnPlane over planes, accumulating the cross
// product of below/above halves at every step (spec.md §4.A).
func (m *Mesh) SplitOnPlanes(planes []geom.Plane, checkBounds bool) []*Mesh {
	cur := []*Mesh{m}
	for _, p := range planes {
		var next []*Mesh
		for _, piece := range cur {
			parts := piece.SplitOnPlane(p, checkBounds)
			next = append(next, parts...)
		}
		cur = next
	}
	return cur
}

// SplitAndJoinOnPlane performs SplitOnPlane and rejoins the halves
// without cloning (via Join), guaranteeing no triangle straddles the
// plane while returning a single mesh — useful groundwork for subsequent
// clipping (spec.md §4.A).
func (m *Mesh) SplitAndJoinOnPlane(p geom.Plane) *Mesh {
	parts := m.SplitOnPlane(p, true)
	if len(parts) == 1 {
		return parts[0]
	}
	joined, err := Join(parts, false)
	if err != nil {
		// Join of same-attribute halves of m cannot fail attribute checks.
		panic(err)
	}
	return joined
}
