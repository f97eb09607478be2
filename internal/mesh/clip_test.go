package mesh

import (
	"math"
	"testing"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
)

func triArea(m *Mesh) float64 {
	var total float64
	for _, f := range m.Faces {
		total += m.FaceTriangle(f).Area()
	}
	return total
}

func singleTriangleMesh(v0, v1, v2 geom.Vec3) *Mesh {
	m := New(false, false, false)
	m.SetTriangles([]geom.Triangle{{
		V0: geom.VertexAttr{Position: v0},
		V1: geom.VertexAttr{Position: v1},
		V2: geom.VertexAttr{Position: v2},
	}})
	return m
}

// TestSplitOnPlane_SingleTriangle covers S1: splitting one triangle with
// the plane x=1 preserves total area and partitions cleanly along x.
func TestSplitOnPlane_SingleTriangle(t *testing.T) {
	m := singleTriangleMesh(
		geom.Vec3{X: 0, Y: 0, Z: 0},
		geom.Vec3{X: 2, Y: 0, Z: 0},
		geom.Vec3{X: 0, Y: 2, Z: 0},
	)
	plane := geom.Plane{Normal: geom.Vec3{X: 1}, D: -1}

	parts := m.SplitOnPlane(plane, false)
	if len(parts) != 2 {
		t.Fatalf("expected below/above halves, got %d", len(parts))
	}
	below, above := parts[0], parts[1]

	total := triArea(below) + triArea(above)
	if math.Abs(total-2.0) > 1e-9 {
		t.Errorf("expected total area 2.0, got %v", total)
	}

	belowBounds := below.Bounds()
	if belowBounds.Max.X > 1+1e-9 {
		t.Errorf("below half extends past x=1: max.X=%v", belowBounds.Max.X)
	}
	aboveBounds := above.Bounds()
	if aboveBounds.Min.X < 1-1e-9 {
		t.Errorf("above half extends before x=1: min.X=%v", aboveBounds.Min.X)
	}
}

// TestClip_AABBPointCloud covers S2: clipping a 10x10 point grid to a
// sub-box keeps exactly the points inside it.
func TestClip_AABBPointCloud(t *testing.T) {
	m := New(false, false, false)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			m.Vertices = append(m.Vertices, Vertex{Position: geom.Vec3{X: float64(x), Y: float64(y), Z: 0}})
		}
	}

	box := geom.AABB{Min: geom.Vec3{X: 2, Y: 2, Z: -1}, Max: geom.Vec3{X: 5, Y: 5, Z: 1}}
	clipped := m.Clip(box, false)

	if len(clipped.Vertices) != 16 {
		t.Fatalf("expected 16 points, got %d", len(clipped.Vertices))
	}
	for _, v := range clipped.Vertices {
		if v.Position.X < 2 || v.Position.X > 5 || v.Position.Y < 2 || v.Position.Y > 5 {
			t.Errorf("point %v outside expected range", v.Position)
		}
	}
}

// TestClip_Idempotent covers invariant 1: clipping twice equals clipping
// once, and the result always satisfies fuzzy containment.
func TestClip_Idempotent(t *testing.T) {
	m := singleTriangleMesh(
		geom.Vec3{X: -5, Y: -5, Z: 0},
		geom.Vec3{X: 5, Y: -5, Z: 0},
		geom.Vec3{X: 0, Y: 5, Z: 0},
	)
	box := geom.AABB{Min: geom.Vec3{X: -1, Y: -1, Z: -1}, Max: geom.Vec3{X: 1, Y: 1, Z: 1}}

	once := m.Clip(box, false)
	twice := once.Clip(box, false)

	if len(once.Faces) != len(twice.Faces) {
		t.Fatalf("clip not idempotent: once=%d faces, twice=%d faces", len(once.Faces), len(twice.Faces))
	}
	if !box.FuzzyContains(twice.Bounds(), ClipBoxEpsilon) {
		t.Errorf("clipped bounds %v not fuzzy-contained in %v", twice.Bounds(), box)
	}
}

// TestClipCutDuality covers invariant 2: every triangle of the input
// ends up represented in clip, cut, or both (if it straddles the
// boundary), and clip+cut areas sum to at least the original (boundary
// triangles are double-counted across the split).
func TestClipCutDuality(t *testing.T) {
	m := singleTriangleMesh(
		geom.Vec3{X: -2, Y: 0, Z: 0},
		geom.Vec3{X: 2, Y: 0, Z: 0},
		geom.Vec3{X: 0, Y: 2, Z: 0},
	)
	box := geom.AABB{Min: geom.Vec3{X: -1, Y: -1, Z: -1}, Max: geom.Vec3{X: 1, Y: 1, Z: 1}}

	clipped := m.Clip(box, false)
	cut := m.Cut(box)

	originalArea := triArea(m)
	combinedArea := triArea(clipped) + triArea(cut)
	if combinedArea < originalArea-1e-9 {
		t.Errorf("clip+cut area %v less than original %v", combinedArea, originalArea)
	}
	if len(clipped.Faces) == 0 {
		t.Error("expected clip to retain the straddling triangle's inside portion")
	}
	if len(cut.Faces) == 0 {
		t.Error("expected cut to retain the straddling triangle's outside portion")
	}
}

// TestSplitOnPlane_Symmetry covers invariant 3: the below half lies
// entirely on the -normal side, the above half entirely on the +normal
// side.
func TestSplitOnPlane_Symmetry(t *testing.T) {
	m := New(false, false, false)
	m.SetTriangles([]geom.Triangle{
		{
			V0: geom.VertexAttr{Position: geom.Vec3{X: -3, Y: 0, Z: 0}},
			V1: geom.VertexAttr{Position: geom.Vec3{X: 3, Y: 0, Z: 0}},
			V2: geom.VertexAttr{Position: geom.Vec3{X: 0, Y: 3, Z: 0}},
		},
		{
			V0: geom.VertexAttr{Position: geom.Vec3{X: -3, Y: -3, Z: 0}},
			V1: geom.VertexAttr{Position: geom.Vec3{X: 3, Y: -3, Z: 0}},
			V2: geom.VertexAttr{Position: geom.Vec3{X: 0, Y: -6, Z: 0}},
		},
	})
	plane := geom.Plane{Normal: geom.Vec3{X: 0, Y: 1, Z: 0}, D: 0}

	parts := m.SplitOnPlane(plane, false)
	below, above := parts[0], parts[1]

	for _, v := range below.Vertices {
		if plane.SignedDistance(v.Position) > 1e-9 {
			t.Errorf("below vertex %v has positive signed distance", v.Position)
		}
	}
	for _, v := range above.Vertices {
		if plane.SignedDistance(v.Position) < -1e-9 {
			t.Errorf("above vertex %v has negative signed distance", v.Position)
		}
	}
}
