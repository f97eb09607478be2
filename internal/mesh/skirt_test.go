package mesh

import (
	"testing"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
)

// TestAddSkirt_BasicApron covers a single open quad: every edge is a
// boundary edge, so the skirt adds one vertex per perimeter vertex and
// two wall faces per boundary edge, offset along Z by the configured
// height.
func TestAddSkirt_BasicApron(t *testing.T) {
	m := &Mesh{
		Vertices: []Vertex{
			{Position: geom.Vec3{X: 0, Y: 0, Z: 0}},
			{Position: geom.Vec3{X: 1, Y: 0, Z: 0}},
			{Position: geom.Vec3{X: 1, Y: 1, Z: 0}},
			{Position: geom.Vec3{X: 0, Y: 1, Z: 0}},
		},
		Faces: []Face{{P0: 0, P1: 1, P2: 2}, {P0: 0, P1: 2, P2: 3}},
	}

	m.AddSkirt(SkirtOptions{Mode: SkirtZ, RelHeight: 0, MinAbsHeight: 0.25})

	if len(m.Vertices) != 8 {
		t.Fatalf("expected 8 vertices (4 original + 4 skirt), got %d", len(m.Vertices))
	}
	if len(m.Faces) != 10 {
		t.Fatalf("expected 10 faces (2 original + 2 per boundary edge x4), got %d", len(m.Faces))
	}
	for _, v := range m.Vertices[4:] {
		if v.Position.Z != 0.25 {
			t.Errorf("expected skirt vertex at Z=0.25, got %v", v.Position.Z)
		}
	}
}

// TestAddSkirt_HeightDoublesAsMergeRadius covers the Open Question flagged
// in spec.md §9 and DESIGN.md: SkirtOptions' height controls both the
// skirt's offset distance and, via AddSkirt's first reuse check, the
// distance within which two perimeter vertices collapse onto one shared
// skirt vertex -- it is not a separately tunable merge tolerance. A thin
// strip has two pairs of perimeter vertices only 0.1 apart; under a 0.5
// height both pairs collapse even though nothing about decimation radius
// was configured independently of the drop depth.
func TestAddSkirt_HeightDoublesAsMergeRadius(t *testing.T) {
	m := &Mesh{
		Vertices: []Vertex{
			{Position: geom.Vec3{X: 0, Y: 0, Z: 0}},
			{Position: geom.Vec3{X: 2, Y: 0, Z: 0}},
			{Position: geom.Vec3{X: 2, Y: 0.1, Z: 0}},
			{Position: geom.Vec3{X: 0, Y: 0.1, Z: 0}},
		},
		Faces: []Face{{P0: 0, P1: 1, P2: 2}, {P0: 0, P1: 2, P2: 3}},
	}

	m.AddSkirt(SkirtOptions{Mode: SkirtZ, RelHeight: 0, MinAbsHeight: 0.5})

	if len(m.Vertices) != 6 {
		t.Fatalf("expected 6 vertices (4 original + 2 merged skirt vertices), got %d", len(m.Vertices))
	}
}
