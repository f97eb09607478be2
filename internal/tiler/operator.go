package tiler

import (
	"github.com/MeKo-Tech/watercolormap/internal/geom"
	"github.com/MeKo-Tech/watercolormap/internal/mesh"
)

// InMemoryOperator is a MeshOperator backed by a single resident mesh,
// for project scales that fit in memory (spec.md §8's S5 scenario: "tens
// of millions of triangles" still fits a modern workstation's RAM as a
// triangle soup, even though the tiler's design targets larger-than-RAM
// sources via ChunkInput).
type InMemoryOperator struct {
	Mesh *mesh.Mesh
}

func (o InMemoryOperator) CountFaces(box geom.AABB) int {
	return len(o.Mesh.Clip(box, false).Faces)
}

func (o InMemoryOperator) ClippedBounds(box geom.AABB) geom.AABB {
	return o.Mesh.Clip(box, false).Bounds()
}

func (o InMemoryOperator) ClippedArea(box geom.AABB) float64 {
	clipped := o.Mesh.Clip(box, false)
	total := 0.0
	for _, f := range clipped.Faces {
		total += clipped.FaceTriangle(f).Area()
	}
	return total
}

func (o InMemoryOperator) Empty(box geom.AABB) bool {
	return !o.Mesh.Bounds().Intersects(box)
}
