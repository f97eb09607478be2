package mesh

import "github.com/MeKo-Tech/watercolormap/internal/geom"

// EdgeGraph is an arena-indexed half-edge incidence structure (Design
// Notes §9: "arena + indices ... to avoid reference cycles"). Each
// directed half-edge knows its source/dest vertex and the face it
// belongs to; a boundary edge has no twin.
type EdgeGraph struct {
	mesh  *Mesh
	edges []halfEdge
	// byPair maps an ordered (src,dst) vertex-index pair to its edge index,
	// used to find an edge's twin (dst,src).
	byPair map[[2]int]int
}

type halfEdge struct {
	Src, Dst int
	Face     int // index into mesh.Faces
}

// BuildEdgeGraph walks every face's three directed edges.
func BuildEdgeGraph(m *Mesh) *EdgeGraph {
	g := &EdgeGraph{mesh: m, byPair: make(map[[2]int]int, len(m.Faces)*3)}
	for fi, f := range m.Faces {
		idx := f.Indices()
		for i := 0; i < 3; i++ {
			src, dst := idx[i], idx[(i+1)%3]
			g.byPair[[2]int{src, dst}] = len(g.edges)
			g.edges = append(g.edges, halfEdge{Src: src, Dst: dst, Face: fi})
		}
	}
	return g
}

// twin returns the opposing half-edge index for edge i, or -1 if edge i is
// a boundary edge (no adjacent face on the other side).
func (g *EdgeGraph) twin(i int) int {
	e := g.edges[i]
	if j, ok := g.byPair[[2]int{e.Dst, e.Src}]; ok {
		return j
	}
	return -1
}

// IsBoundary reports whether edge i has exactly one adjacent face.
func (g *EdgeGraph) IsBoundary(i int) bool {
	return g.twin(i) == -1
}

// PerimeterVertices returns the set of vertex indices that have at least
// one incident boundary edge (spec.md §4.D).
func (g *EdgeGraph) PerimeterVertices() map[int]bool {
	out := make(map[int]bool)
	for i, e := range g.edges {
		if g.IsBoundary(i) {
			out[e.Src] = true
			out[e.Dst] = true
		}
	}
	return out
}

// BoundaryEdges returns the (src, dst, leftFace) triples for every
// boundary edge, where leftFace is the single face adjacent to it.
type BoundaryEdge struct {
	Src, Dst, LeftFace int
}

func (g *EdgeGraph) BoundaryEdges() []BoundaryEdge {
	var out []BoundaryEdge
	for i, e := range g.edges {
		if g.IsBoundary(i) {
			out = append(out, BoundaryEdge{Src: e.Src, Dst: e.Dst, LeftFace: e.Face})
		}
	}
	return out
}

// TwoRingFaceNormals returns, for vertex v, the area-weighted average
// normal of faces incident to v and to v's immediate neighbors (the
// "2-ring"), used by the skirt's Normal offset mode (spec.md §4.D).
func (g *EdgeGraph) TwoRingFaceNormals(v int) geom.Vec3 {
	neighbors := map[int]bool{v: true}
	for _, e := range g.edges {
		if e.Src == v {
			neighbors[e.Dst] = true
		}
		if e.Dst == v {
			neighbors[e.Src] = true
		}
	}

	sum := geom.Vec3{}
	seenFace := make(map[int]bool)
	for _, e := range g.edges {
		if !neighbors[e.Src] && !neighbors[e.Dst] {
			continue
		}
		if seenFace[e.Face] {
			continue
		}
		seenFace[e.Face] = true
		tri := g.mesh.FaceTriangle(g.mesh.Faces[e.Face])
		n := tri.Normal() // unnormalized: length encodes 2x area, giving area weighting
		sum = sum.Add(n)
	}
	if norm, ok := sum.Normalized(); ok {
		return norm
	}
	return geom.Vec3{}
}
