package mesh

import (
	"errors"
	"log/slog"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
)

// ErrOperationNotSupported is returned by point-cloud-only operations
// invoked on a face mesh (spec.md §4.C "Failure semantics").
var ErrOperationNotSupported = errors.New("mesh: operation not supported on a face mesh")

// RemoveInvalidPoints drops non-finite points from a point-cloud mesh. It
// returns ErrOperationNotSupported if m has faces.
func (m *Mesh) RemoveInvalidPoints() error {
	if !m.IsPointCloud() {
		return ErrOperationNotSupported
	}
	kept := m.Vertices[:0]
	for _, v := range m.Vertices {
		if v.Position.IsFinite() {
			kept = append(kept, v)
		}
	}
	m.Vertices = kept
	return nil
}

// DegenerateAreaEpsilon is the minimum triangle area below which a face is
// considered geometrically degenerate (spec.md §3).
const DegenerateAreaEpsilon = 1e-12

// Clean runs the full cleaning pipeline (spec.md §4.C):
//  1. remove invalid faces, remove unreferenced vertices, remove identical
//     faces (always, when faces are present)
//  2. optionally remove duplicate vertices (then repeat step 1's face
//     passes)
//  3. optionally normalize normals
//
// Cleaning is local to the mesh; it never errors — violations are
// resolved by removal, and counts are available via CleanStats for
// callers that want to log a summary.
func (m *Mesh) Clean(normalize, removeDupVerts bool) CleanStats {
	var stats CleanStats

	if len(m.Faces) > 0 {
		stats.InvalidFacesRemoved += m.removeInvalidFaces()
		stats.UnreferencedVertsRemoved += m.removeUnreferencedVertices()
		stats.IdenticalFacesRemoved += m.removeIdenticalFaces()
	}

	if removeDupVerts {
		stats.DuplicateVertsRemoved = m.removeDuplicateVertices()
		if len(m.Faces) > 0 {
			stats.InvalidFacesRemoved += m.removeInvalidFaces()
			stats.IdenticalFacesRemoved += m.removeIdenticalFaces()
		}
	}

	if normalize && m.HasNormals {
		m.NormalizeNormals()
	}

	return stats
}

// CleanStats summarizes what a Clean pass removed, for per-removal-class
// warning logs (spec.md §4.C "Failure semantics").
type CleanStats struct {
	InvalidFacesRemoved      int
	UnreferencedVertsRemoved int
	IdenticalFacesRemoved    int
	DuplicateVertsRemoved    int
}

// LogIfNonzero emits a debug line per nonzero removal class.
func (s CleanStats) LogIfNonzero(log *slog.Logger) {
	if log == nil {
		return
	}
	if s.InvalidFacesRemoved > 0 {
		log.Debug("clean: removed invalid faces", "count", s.InvalidFacesRemoved)
	}
	if s.UnreferencedVertsRemoved > 0 {
		log.Debug("clean: removed unreferenced vertices", "count", s.UnreferencedVertsRemoved)
	}
	if s.IdenticalFacesRemoved > 0 {
		log.Debug("clean: removed identical faces", "count", s.IdenticalFacesRemoved)
	}
	if s.DuplicateVertsRemoved > 0 {
		log.Debug("clean: removed duplicate vertices", "count", s.DuplicateVertsRemoved)
	}
}

func (m *Mesh) removeInvalidFaces() int {
	kept := m.Faces[:0]
	removed := 0
	n := len(m.Vertices)
	for _, f := range m.Faces {
		if f.P0 < 0 || f.P0 >= n || f.P1 < 0 || f.P1 >= n || f.P2 < 0 || f.P2 >= n {
			removed++
			continue
		}
		if f.IsLogicallyDegenerate() {
			removed++
			continue
		}
		if m.Vertices[f.P0].Position == m.Vertices[f.P1].Position ||
			m.Vertices[f.P1].Position == m.Vertices[f.P2].Position ||
			m.Vertices[f.P0].Position == m.Vertices[f.P2].Position {
			removed++
			continue
		}
		tri := m.FaceTriangle(f)
		if tri.IsDegenerate(DegenerateAreaEpsilon) {
			removed++
			continue
		}
		if m.HasUVs {
			if !uvInRange(m.Vertices[f.P0].UV) || !uvInRange(m.Vertices[f.P1].UV) || !uvInRange(m.Vertices[f.P2].UV) {
				removed++
				continue
			}
		}
		kept = append(kept, f)
	}
	m.Faces = kept
	return removed
}

func uvInRange(uv geom.Vec2) bool {
	return uv.X >= 0 && uv.X <= 1 && uv.Y >= 0 && uv.Y <= 1
}

func (m *Mesh) removeUnreferencedVertices() int {
	referenced := make([]bool, len(m.Vertices))
	for _, f := range m.Faces {
		referenced[f.P0] = true
		referenced[f.P1] = true
		referenced[f.P2] = true
	}

	oldToNew := make([]int, len(m.Vertices))
	newVerts := make([]Vertex, 0, len(m.Vertices))
	removed := 0
	for i, keep := range referenced {
		if keep {
			oldToNew[i] = len(newVerts)
			newVerts = append(newVerts, m.Vertices[i])
		} else {
			oldToNew[i] = -1
			removed++
		}
	}
	m.Vertices = newVerts
	for i, f := range m.Faces {
		m.Faces[i] = Face{oldToNew[f.P0], oldToNew[f.P1], oldToNew[f.P2]}
	}
	return removed
}

func (m *Mesh) removeIdenticalFaces() int {
	seen := make(map[Face]struct{}, len(m.Faces))
	kept := m.Faces[:0]
	removed := 0
	for _, f := range m.Faces {
		if _, ok := seen[f]; ok {
			removed++
			continue
		}
		seen[f] = struct{}{}
		kept = append(kept, f)
	}
	m.Faces = kept
	return removed
}

func (m *Mesh) removeDuplicateVertices() int {
	type key struct {
		px, py, pz float64
		nx, ny, nz float64
		u, v       float64
		r, g, b, a float32
	}
	keyOf := func(v Vertex) key {
		k := key{px: v.Position.X, py: v.Position.Y, pz: v.Position.Z}
		if m.HasNormals {
			k.nx, k.ny, k.nz = v.Normal.X, v.Normal.Y, v.Normal.Z
		}
		if m.HasUVs {
			k.u, k.v = v.UV.X, v.UV.Y
		}
		if m.HasColors {
			k.r, k.g, k.b, k.a = v.Color.X, v.Color.Y, v.Color.Z, v.Color.W
		}
		return k
	}

	seen := make(map[key]int, len(m.Vertices))
	oldToNew := make([]int, len(m.Vertices))
	newVerts := make([]Vertex, 0, len(m.Vertices))
	removed := 0
	for i, v := range m.Vertices {
		k := keyOf(v)
		if existing, ok := seen[k]; ok {
			oldToNew[i] = existing
			removed++
			continue
		}
		newIdx := len(newVerts)
		seen[k] = newIdx
		newVerts = append(newVerts, v)
		oldToNew[i] = newIdx
	}
	m.Vertices = newVerts
	for i, f := range m.Faces {
		m.Faces[i] = Face{oldToNew[f.P0], oldToNew[f.P1], oldToNew[f.P2]}
	}
	return removed
}

// MergeNearbyVertices runs a single R-tree-indexed pass that merges
// vertices within eps of each other (spec.md §4.C). First match wins;
// ties are whichever the index returns first, which is the earliest
// inserted candidate, matching spec.md's merge semantics.
func (m *Mesh) MergeNearbyVertices(eps float64) {
	idx := NewVertexIndex(eps)
	oldToNew := make([]int, len(m.Vertices))
	newVerts := make([]Vertex, 0, len(m.Vertices))
	for i, v := range m.Vertices {
		if existing, ok := idx.Nearest(v.Position, eps); ok {
			oldToNew[i] = existing
			continue
		}
		newIdx := len(newVerts)
		newVerts = append(newVerts, v)
		idx.Insert(v.Position, newIdx)
		oldToNew[i] = newIdx
	}
	m.Vertices = newVerts
	for i, f := range m.Faces {
		m.Faces[i] = Face{oldToNew[f.P0], oldToNew[f.P1], oldToNew[f.P2]}
	}
}

// NormalizeNormals renormalizes every vertex normal with length > Epsilon,
// leaving shorter ones untouched.
func (m *Mesh) NormalizeNormals() {
	for i, v := range m.Vertices {
		if n, ok := v.Normal.Normalized(); ok {
			m.Vertices[i].Normal = n
		}
	}
}

// RemoveIslands keeps only the connected components (by shared-vertex
// adjacency across faces) whose size is at least minRatio*max; if
// minRatio>=1, only the single largest component survives (spec.md
// §4.C). Size is measured in vertex count, or bounding-box diagonal if
// useVertexCount is false.
func (m *Mesh) RemoveIslands(minRatio float64, useVertexCount bool) {
	if len(m.Faces) == 0 {
		return
	}
	uf := newUnionFind(len(m.Vertices))
	for _, f := range m.Faces {
		uf.union(f.P0, f.P1)
		uf.union(f.P1, f.P2)
	}

	type compInfo struct {
		vertCount int
		bounds    geom.AABB
	}
	comps := make(map[int]*compInfo)
	for i, v := range m.Vertices {
		root := uf.find(i)
		c, ok := comps[root]
		if !ok {
			b := geom.EmptyAABB()
			c = &compInfo{bounds: b}
			comps[root] = c
		}
		c.vertCount++
		c.bounds = c.bounds.ExpandPoint(v.Position)
	}

	sizeOf := func(c *compInfo) float64 {
		if useVertexCount {
			return float64(c.vertCount)
		}
		return c.bounds.Diagonal()
	}

	maxSize := 0.0
	for _, c := range comps {
		if s := sizeOf(c); s > maxSize {
			maxSize = s
		}
	}

	keepRoot := make(map[int]bool)
	if minRatio >= 1 {
		var bestRoot int
		bestSize := -1.0
		for root, c := range comps {
			if s := sizeOf(c); s > bestSize {
				bestSize = s
				bestRoot = root
			}
		}
		keepRoot[bestRoot] = true
	} else {
		threshold := minRatio * maxSize
		for root, c := range comps {
			if sizeOf(c) >= threshold {
				keepRoot[root] = true
			}
		}
	}

	keepFace := make([]Face, 0, len(m.Faces))
	for _, f := range m.Faces {
		if keepRoot[uf.find(f.P0)] {
			keepFace = append(keepFace, f)
		}
	}
	m.Faces = keepFace
	m.removeUnreferencedVertices()
}

type unionFind struct{ parent, rank []int }

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p, rank: make([]int, n)}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
}
