// Package mesh implements triangle-soup mesh algebra: cleaning,
// clip/cut/split, merge/join, skirt generation, and the attributes
// pipeline (spec.md §4.B-§4.D, §4.F).
package mesh

import (
	"github.com/MeKo-Tech/watercolormap/internal/geom"
)

// Vertex holds position, normal, UV, and color. Attribute validity is
// tracked per-mesh via presence flags, not per-vertex (spec.md §3).
type Vertex struct {
	Position geom.Vec3
	Normal   geom.Vec3
	UV       geom.Vec2
	Color    geom.Vec4
}

// Face is a triple of vertex indices.
type Face struct {
	P0, P1, P2 int
}

// Indices returns the face's three indices as a slice.
func (f Face) Indices() [3]int { return [3]int{f.P0, f.P1, f.P2} }

// IsLogicallyDegenerate reports whether any two indices coincide.
func (f Face) IsLogicallyDegenerate() bool {
	return f.P0 == f.P1 || f.P1 == f.P2 || f.P0 == f.P2
}

// Mesh is a triangle soup plus per-mesh attribute presence flags
// (spec.md §3). A Mesh with zero faces is treated as a point cloud.
type Mesh struct {
	Vertices   []Vertex
	Faces      []Face
	HasNormals bool
	HasUVs     bool
	HasColors  bool
}

// New returns an empty mesh with the given attribute flags.
func New(hasNormals, hasUVs, hasColors bool) *Mesh {
	return &Mesh{HasNormals: hasNormals, HasUVs: hasUVs, HasColors: hasColors}
}

// IsPointCloud reports whether the mesh has no faces.
func (m *Mesh) IsPointCloud() bool { return len(m.Faces) == 0 }

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Vertices:   make([]Vertex, len(m.Vertices)),
		Faces:      make([]Face, len(m.Faces)),
		HasNormals: m.HasNormals,
		HasUVs:     m.HasUVs,
		HasColors:  m.HasColors,
	}
	copy(out.Vertices, m.Vertices)
	copy(out.Faces, m.Faces)
	return out
}

// Bounds returns the AABB over all vertex positions. For a face mesh with
// unreferenced vertices this still includes them; callers that need
// referenced-only bounds should Clean first.
func (m *Mesh) Bounds() geom.AABB {
	b := geom.EmptyAABB()
	for _, v := range m.Vertices {
		b = b.ExpandPoint(v.Position)
	}
	return b
}

// FaceTriangle materializes face i as a standalone geom.Triangle carrying
// full vertex attributes, for use by the clip/split algorithms.
func (m *Mesh) FaceTriangle(f Face) geom.Triangle {
	return geom.Triangle{
		V0: m.vertexAttr(f.P0),
		V1: m.vertexAttr(f.P1),
		V2: m.vertexAttr(f.P2),
	}
}

func (m *Mesh) vertexAttr(i int) geom.VertexAttr {
	v := m.Vertices[i]
	return geom.VertexAttr{Position: v.Position, Normal: v.Normal, UV: v.UV, Color: v.Color}
}

func vertexFromAttr(a geom.VertexAttr) Vertex {
	return Vertex{Position: a.Position, Normal: a.Normal, UV: a.UV, Color: a.Color}
}

// SetTriangles replaces the mesh's faces and vertices with a fresh
// triangle soup built from standalone triangles (no vertex sharing),
// preserving the mesh's attribute flags.
func (m *Mesh) SetTriangles(tris []geom.Triangle) {
	m.Vertices = make([]Vertex, 0, len(tris)*3)
	m.Faces = make([]Face, 0, len(tris))
	m.AppendTriangles(tris)
}

// AppendTriangles adds standalone triangles (no vertex sharing with
// existing mesh data) onto the end of the mesh, for callers building up a
// triangle soup incrementally (e.g. per-pixel reconstruction).
func (m *Mesh) AppendTriangles(tris []geom.Triangle) {
	for _, t := range tris {
		base := len(m.Vertices)
		m.Vertices = append(m.Vertices,
			vertexFromAttr(t.V0), vertexFromAttr(t.V1), vertexFromAttr(t.V2))
		m.Faces = append(m.Faces, Face{base, base + 1, base + 2})
	}
}

// AttributesSupersetOf reports whether m has at least every attribute
// flag set on other (spec.md §4.B merge precondition).
func (m *Mesh) AttributesSupersetOf(other *Mesh) bool {
	if other.HasNormals && !m.HasNormals {
		return false
	}
	if other.HasUVs && !m.HasUVs {
		return false
	}
	if other.HasColors && !m.HasColors {
		return false
	}
	return true
}
