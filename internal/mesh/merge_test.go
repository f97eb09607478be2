package mesh

import (
	"testing"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
)

func unitCube(offset geom.Vec3) *Mesh {
	corners := []geom.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	faces := [][3]int{
		{0, 1, 2}, {0, 2, 3}, // bottom
		{4, 6, 5}, {4, 7, 6}, // top
		{0, 4, 5}, {0, 5, 1}, // front
		{1, 5, 6}, {1, 6, 2}, // right
		{2, 6, 7}, {2, 7, 3}, // back
		{3, 7, 4}, {3, 4, 0}, // left
	}
	m := New(false, false, false)
	for _, c := range corners {
		m.Vertices = append(m.Vertices, Vertex{Position: c.Add(offset)})
	}
	for _, f := range faces {
		m.Faces = append(m.Faces, Face{P0: f[0], P1: f[1], P2: f[2]})
	}
	return m
}

// TestMergeWith_NearbyVertexDedup covers S4: two cubes sharing a face,
// offset by 1e-6, merge vertex-for-vertex across the shared face under a
// 1e-4 merge radius (12 vertices, not 16), rewriting every face index to
// point at the shared set. The two cubes' coincident-but-oppositely-wound
// interior faces are left as separate triangles (removeIdenticalFaces
// only collapses exact index-tuple duplicates, not coincident geometry),
// so face count stays at the full 24; Clean finds nothing further to
// remove once the merge itself is done.
func TestMergeWith_NearbyVertexDedup(t *testing.T) {
	a := unitCube(geom.Vec3{})
	b := unitCube(geom.Vec3{X: 1 + 1e-6})

	if err := a.MergeWith([]*Mesh{b}, MergeOptions{MergeNearbyVertices: 1e-4}); err != nil {
		t.Fatalf("MergeWith: %v", err)
	}

	if len(a.Vertices) != 12 {
		t.Errorf("expected 12 vertices after dedup, got %d", len(a.Vertices))
	}
	if len(a.Faces) != 24 {
		t.Errorf("expected 24 triangles (faces rewritten, not deduplicated), got %d", len(a.Faces))
	}

	stats := a.Clean(false, true)
	if stats.DuplicateVertsRemoved != 0 || stats.InvalidFacesRemoved != 0 || stats.IdenticalFacesRemoved != 0 {
		t.Errorf("expected Clean to find nothing further, got %+v", stats)
	}
}

// TestJoin_Associative covers invariant 4: join(join(a,b),c) has the same
// vertex/face counts and total area as join(a,join(b,c)), which is what
// "associative under vertex-index relabeling" reduces to for an
// append-only, non-deduplicating join.
func TestJoin_Associative(t *testing.T) {
	a := unitCube(geom.Vec3{X: 0})
	b := unitCube(geom.Vec3{X: 2})
	c := unitCube(geom.Vec3{X: 4})

	ab, err := Join([]*Mesh{a, b}, false)
	if err != nil {
		t.Fatalf("join(a,b): %v", err)
	}
	left, err := Join([]*Mesh{ab, c}, false)
	if err != nil {
		t.Fatalf("join(join(a,b),c): %v", err)
	}

	bc, err := Join([]*Mesh{b, c}, false)
	if err != nil {
		t.Fatalf("join(b,c): %v", err)
	}
	right, err := Join([]*Mesh{a, bc}, false)
	if err != nil {
		t.Fatalf("join(a,join(b,c)): %v", err)
	}

	if len(left.Vertices) != len(right.Vertices) {
		t.Errorf("vertex count mismatch: %d vs %d", len(left.Vertices), len(right.Vertices))
	}
	if len(left.Faces) != len(right.Faces) {
		t.Errorf("face count mismatch: %d vs %d", len(left.Faces), len(right.Faces))
	}
	if triArea(left) != triArea(right) {
		t.Errorf("area mismatch: %v vs %v", triArea(left), triArea(right))
	}
}

// TestJoin_AttributeMismatch covers the merge precondition: joining a
// normals-bearing mesh into a plain aggregate fails with
// AttributeMismatchError rather than silently dropping normals.
func TestJoin_AttributeMismatch(t *testing.T) {
	plain := New(false, false, false)
	plain.SetTriangles([]geom.Triangle{{
		V0: geom.VertexAttr{Position: geom.Vec3{X: 0, Y: 0, Z: 0}},
		V1: geom.VertexAttr{Position: geom.Vec3{X: 1, Y: 0, Z: 0}},
		V2: geom.VertexAttr{Position: geom.Vec3{X: 0, Y: 1, Z: 0}},
	}})

	withNormals := New(true, false, false)
	withNormals.SetTriangles([]geom.Triangle{{
		V0: geom.VertexAttr{Position: geom.Vec3{X: 0, Y: 0, Z: 2}, Normal: geom.Vec3{X: 0, Y: 0, Z: 1}},
		V1: geom.VertexAttr{Position: geom.Vec3{X: 1, Y: 0, Z: 2}, Normal: geom.Vec3{X: 0, Y: 0, Z: 1}},
		V2: geom.VertexAttr{Position: geom.Vec3{X: 0, Y: 1, Z: 2}, Normal: geom.Vec3{X: 0, Y: 0, Z: 1}},
	}})

	_, err := Join([]*Mesh{plain, withNormals}, false)
	if err == nil {
		t.Fatal("expected AttributeMismatchError, got nil")
	}
}
