package mesh

import (
	"math"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
	"github.com/MeKo-Tech/watercolormap/internal/tilerrors"
)

// Join concatenates meshes, renumbering face indices by the cumulative
// vertex count of all preceding meshes. The first non-empty mesh becomes
// the aggregate's attribute signature; every subsequent mesh must have at
// least those attributes or Join fails with *tilerrors.AttributeMismatchError
// (spec.md §4.B). No vertex deduplication is performed. Vertices and
// faces are always copied into a fresh aggregate, so input meshes are
// left untouched either way; if clone is true the aggregate is
// deep-copied once more before being returned (a caller-visible
// allocation choice, not a correctness one).
func Join(meshes []*Mesh, clone bool) (*Mesh, error) {
	var first *Mesh
	firstIdx := -1
	for i, m := range meshes {
		if m != nil && (len(m.Vertices) > 0 || len(m.Faces) > 0) {
			first = m
			firstIdx = i
			break
		}
	}
	if first == nil {
		return &Mesh{}, nil
	}

	out := &Mesh{HasNormals: first.HasNormals, HasUVs: first.HasUVs, HasColors: first.HasColors}
	for i, m := range meshes {
		if i == firstIdx {
			appendMesh(out, m)
			continue
		}
		if m == nil || (len(m.Vertices) == 0 && len(m.Faces) == 0) {
			continue
		}
		if !out.AttributesSupersetOf(m) {
			missing := mismatchLabel(out, m)
			return nil, &tilerrors.AttributeMismatchError{Missing: missing}
		}
		appendMesh(out, m)
	}

	if clone {
		return out.Clone(), nil
	}
	return out, nil
}

func mismatchLabel(dst, src *Mesh) string {
	switch {
	case src.HasNormals && !dst.HasNormals:
		return "normals"
	case src.HasUVs && !dst.HasUVs:
		return "uvs"
	case src.HasColors && !dst.HasColors:
		return "colors"
	default:
		return "unknown"
	}
}

func appendMesh(dst, src *Mesh) {
	base := len(dst.Vertices)
	dst.Vertices = append(dst.Vertices, src.Vertices...)
	for _, f := range src.Faces {
		dst.Faces = append(dst.Faces, Face{f.P0 + base, f.P1 + base, f.P2 + base})
	}
}

// MergeOptions configures MergeWith (spec.md §4.B).
type MergeOptions struct {
	Clean                 bool
	Normalize             bool
	RemoveDuplicateVerts  bool
	UniqueColors          bool
	MergeNearbyVertices   float64 // radius; <=0 disables near-vertex merge
	AfterEach             func(i int)
}

// MergeWith is the full merge form (spec.md §4.B). m is the aggregate
// destination and is extended in place with others.
func (m *Mesh) MergeWith(others []*Mesh, opts MergeOptions) error {
	inputs := others
	if opts.UniqueColors {
		inputs = assignUniqueColors(others, m)
	}

	if opts.MergeNearbyVertices > 0 {
		return m.mergeNearbyVertices(inputs, opts)
	}

	all := append([]*Mesh{m}, inputs...)
	joined, err := Join(all, false)
	if err != nil {
		return err
	}
	*m = *joined

	if opts.RemoveDuplicateVerts || opts.Clean {
		m.Clean(opts.Normalize, opts.RemoveDuplicateVerts)
	} else if opts.Normalize {
		m.NormalizeNormals()
	}
	for i := range inputs {
		if opts.AfterEach != nil {
			opts.AfterEach(i)
		}
	}
	return nil
}

// mergeNearbyVertices implements the "lazily constructed index" variant
// of merge: the aggregate self-merges first to populate the index with
// its own vertices, then each subsequent mesh consults the index before
// inserting new vertices (spec.md §4.B).
func (m *Mesh) mergeNearbyVertices(others []*Mesh, opts MergeOptions) error {
	radius := opts.MergeNearbyVertices
	idx := NewVertexIndex(radius)

	newVerts := make([]Vertex, 0, len(m.Vertices))
	oldToNew := make([]int, len(m.Vertices))
	for i, v := range m.Vertices {
		if existing, ok := idx.Nearest(v.Position, radius); ok {
			oldToNew[i] = existing
			continue
		}
		newIdx := len(newVerts)
		newVerts = append(newVerts, v)
		idx.Insert(v.Position, newIdx)
		oldToNew[i] = newIdx
	}
	rewritten := make([]Face, len(m.Faces))
	for i, f := range m.Faces {
		rewritten[i] = Face{oldToNew[f.P0], oldToNew[f.P1], oldToNew[f.P2]}
	}
	m.Vertices = newVerts
	m.Faces = rewritten

	for oi, other := range others {
		if other == nil {
			continue
		}
		if !m.AttributesSupersetOf(other) {
			return &tilerrors.AttributeMismatchError{Missing: mismatchLabel(m, other)}
		}
		localOldToNew := make([]int, len(other.Vertices))
		for i, v := range other.Vertices {
			if existing, ok := idx.Nearest(v.Position, radius); ok {
				localOldToNew[i] = existing
				continue
			}
			newIdx := len(m.Vertices)
			m.Vertices = append(m.Vertices, v)
			idx.Insert(v.Position, newIdx)
			localOldToNew[i] = newIdx
		}
		for _, f := range other.Faces {
			m.Faces = append(m.Faces, Face{
				localOldToNew[f.P0], localOldToNew[f.P1], localOldToNew[f.P2],
			})
		}
		if opts.AfterEach != nil {
			opts.AfterEach(oi)
		}
	}

	if opts.Clean || opts.RemoveDuplicateVerts {
		m.Clean(opts.Normalize, opts.RemoveDuplicateVerts)
	} else if opts.Normalize {
		m.NormalizeNormals()
	}
	return nil
}

// assignUniqueColors paints a copy of each input mesh with a distinct hue
// spaced evenly around the color wheel (spec.md §4.B). dst is only used to
// decide HasColors on the cloned outputs.
func assignUniqueColors(inputs []*Mesh, dst *Mesh) []*Mesh {
	n := len(inputs)
	out := make([]*Mesh, n)
	for i, in := range inputs {
		if in == nil {
			continue
		}
		c := in.Clone()
		c.HasColors = true
		hue := float64(i) / math.Max(float64(n), 1)
		col := hueToRGB(hue)
		for vi := range c.Vertices {
			c.Vertices[vi].Color = col
		}
		out[i] = c
	}
	_ = dst
	return out
}

func hueToRGB(h float64) geom.Vec4 {
	// Simple HSV(h,1,1) -> RGB conversion.
	h = h*6 - math.Floor(h*6)
	x := 1 - math.Abs(math.Mod(h, 2)-1)
	var r, g, b float64
	switch {
	case h < 1:
		r, g, b = 1, x, 0
	case h < 2:
		r, g, b = x, 1, 0
	case h < 3:
		r, g, b = 0, 1, x
	case h < 4:
		r, g, b = 0, x, 1
	case h < 5:
		r, g, b = x, 0, 1
	default:
		r, g, b = 1, 0, x
	}
	return geom.Vec4{X: float32(r), Y: float32(g), Z: float32(b), W: 1}
}
