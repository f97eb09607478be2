package mesh

import (
	"math"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
)

// VertexIndex is an incrementally built spatial index over vertex positions, used
// for near-vertex merge (spec.md §4.B/§4.C) and, by the atlas package, for
// UV-space patch flood fill. The pack's dependency set has no third-party
// spatial index (see DESIGN.md); this is a uniform-grid hash, which is the
// standard stand-in for a bulk-loaded static R-tree when insertions are
// clustered and queries are small fixed-radius windows — exactly this
// workload (Design Notes §9: "insert-then-query-heavy").
type VertexIndex struct {
	cellSize float64
	cells    map[gridCell][]int
	positions []geom.Vec3
}

type gridCell struct{ x, y, z int64 }

// NewVertexIndex creates an index bucketed at cellSize; cellSize should be
// on the order of the merge radius the caller intends to query with.
func NewVertexIndex(cellSize float64) *VertexIndex {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &VertexIndex{cellSize: cellSize, cells: make(map[gridCell][]int)}
}

func (idx *VertexIndex) cellOf(p geom.Vec3) gridCell {
	return gridCell{
		x: int64(math.Floor(p.X / idx.cellSize)),
		y: int64(math.Floor(p.Y / idx.cellSize)),
		z: int64(math.Floor(p.Z / idx.cellSize)),
	}
}

// Insert adds a vertex at position p with mesh index i.
func (idx *VertexIndex) Insert(p geom.Vec3, i int) {
	c := idx.cellOf(p)
	idx.cells[c] = append(idx.cells[c], i)
	if i >= len(idx.positions) {
		grown := make([]geom.Vec3, i+1)
		copy(grown, idx.positions)
		idx.positions = grown
	}
	idx.positions[i] = p
}

// Nearest returns the index of the closest previously inserted vertex
// within radius of p and true, or false if none is found. On an exact
// distance tie the candidate scanned first wins (cells in x, y, z order,
// then insertion order within a cell).
func (idx *VertexIndex) Nearest(p geom.Vec3, radius float64) (int, bool) {
	c := idx.cellOf(p)
	span := int64(math.Ceil(radius / idx.cellSize))
	best := -1
	bestDist := radius * radius
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			for dz := -span; dz <= span; dz++ {
				cell := gridCell{c.x + dx, c.y + dy, c.z + dz}
				for _, i := range idx.cells[cell] {
					d := idx.positions[i].Sub(p).LengthSquared()
					if d <= bestDist {
						if best == -1 || d < bestDist {
							best = i
							bestDist = d
						}
					}
				}
			}
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// QueryBox returns every inserted index whose position lies within box,
// used by the atlas package's UV-space patch flood fill.
func (idx *VertexIndex) QueryBox(box geom.AABB) []int {
	minC := idx.cellOf(box.Min)
	maxC := idx.cellOf(box.Max)
	var out []int
	for x := minC.x; x <= maxC.x; x++ {
		for y := minC.y; y <= maxC.y; y++ {
			for z := minC.z; z <= maxC.z; z++ {
				for _, i := range idx.cells[gridCell{x, y, z}] {
					if box.Contains(idx.positions[i]) {
						out = append(out, i)
					}
				}
			}
		}
	}
	return out
}
