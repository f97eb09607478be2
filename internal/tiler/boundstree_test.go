package tiler

import (
	"testing"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
)

// uniformOperator is a synthetic MeshOperator standing in for S5's
// "flat mesh with 1 million faces" — it reports a face count and area
// proportional to a box's fraction of the root's footprint, which is
// enough to exercise the split-criteria chain without constructing and
// repeatedly clipping an actual million-triangle mesh in a unit test.
type uniformOperator struct {
	root       geom.AABB
	totalFaces int
	totalArea  float64
}

func (o uniformOperator) fraction(box geom.AABB) float64 {
	rootExtent := o.root.Extent()
	rootArea := rootExtent.X * rootExtent.Y
	if rootArea <= 0 {
		return 0
	}
	boxExtent := box.Extent()
	return (boxExtent.X * boxExtent.Y) / rootArea
}

func (o uniformOperator) CountFaces(box geom.AABB) int {
	return int(float64(o.totalFaces) * o.fraction(box))
}

func (o uniformOperator) ClippedBounds(box geom.AABB) geom.AABB { return box }

func (o uniformOperator) ClippedArea(box geom.AABB) float64 {
	return o.totalArea * o.fraction(box)
}

func (o uniformOperator) Empty(box geom.AABB) bool {
	return !o.root.Intersects(box)
}

// TestBuildBoundsTree_FaceSplit covers S5: a flat million-face mesh under
// a quadtree scheme with a 100k-face leaf cap splits to depth 2 (16
// leaves), every leaf at or under the cap.
func TestBuildBoundsTree_FaceSplit(t *testing.T) {
	root := geom.AABB{Min: geom.Vec3{}, Max: geom.Vec3{X: 100, Y: 100, Z: 0}}
	op := uniformOperator{root: root, totalFaces: 1_000_000, totalArea: 10_000}
	cfg := Config{
		Scheme:         SchemeQuadtree,
		MaxFacesPerTile: 100_000,
		MinTileExtent:  1,
		MaxDepth:       10,
		MaxLeafArea:    1e18,
		MaxOrbitalLeafArea: 1e18,
	}

	nodes := BuildBoundsTree("proj", root, []MeshOperator{op}, cfg)

	var leaves []*TileNode
	for _, n := range nodes {
		if n.IsLeaf {
			leaves = append(leaves, n)
		}
	}
	if len(leaves) != 16 {
		t.Fatalf("expected 16 leaves, got %d", len(leaves))
	}
	for _, leaf := range leaves {
		if leaf.Depth != 2 {
			t.Errorf("leaf %s expected at depth 2, got %d", leaf.ID, leaf.Depth)
		}
		if op.CountFaces(leaf.Bounds) > cfg.MaxFacesPerTile {
			t.Errorf("leaf %s exceeds face cap: %d > %d", leaf.ID, op.CountFaces(leaf.Bounds), cfg.MaxFacesPerTile)
		}
	}
}

// TestBuildBoundsTree_CoversRoot covers invariant 7: the union of leaf
// bounds covers the root bounds.
func TestBuildBoundsTree_CoversRoot(t *testing.T) {
	root := geom.AABB{Min: geom.Vec3{}, Max: geom.Vec3{X: 100, Y: 100, Z: 0}}
	op := uniformOperator{root: root, totalFaces: 1_000_000, totalArea: 10_000}
	cfg := Config{
		Scheme:             SchemeQuadtree,
		MaxFacesPerTile:    100_000,
		MinTileExtent:      1,
		MaxDepth:           10,
		MaxLeafArea:        1e18,
		MaxOrbitalLeafArea: 1e18,
	}

	nodes := BuildBoundsTree("proj", root, []MeshOperator{op}, cfg)

	union := geom.EmptyAABB()
	for _, n := range nodes {
		if n.IsLeaf {
			union = union.Union(n.Bounds)
		}
	}
	if !root.FuzzyContains(union, 1e-9) || !union.FuzzyContains(root, 1e-9) {
		t.Errorf("leaf union %v does not match root bounds %v", union, root)
	}
}

// TestBuildBoundsTree_DependencyDAG covers invariant 8: for a tree with
// no user additions, depends_on is exactly the child->descendant partial
// order — every DependsOn edge points from a parent to one of its
// Octant children, every such child lists the parent in DependedOnBy,
// and there are no cycles (ids strictly lengthen along every edge).
func TestBuildBoundsTree_DependencyDAG(t *testing.T) {
	root := geom.AABB{Min: geom.Vec3{}, Max: geom.Vec3{X: 100, Y: 100, Z: 0}}
	op := uniformOperator{root: root, totalFaces: 1_000_000, totalArea: 10_000}
	cfg := Config{
		Scheme:             SchemeQuadtree,
		MaxFacesPerTile:    100_000,
		MinTileExtent:      1,
		MaxDepth:           10,
		MaxLeafArea:        1e18,
		MaxOrbitalLeafArea: 1e18,
	}

	nodes := BuildBoundsTree("proj", root, []MeshOperator{op}, cfg)

	for id, n := range nodes {
		for _, childID := range n.DependsOn {
			child, ok := nodes[childID]
			if !ok {
				t.Fatalf("node %s depends on missing node %s", id, childID)
			}
			if len(childID) != len(id)+1 {
				t.Errorf("child id %s is not one digit longer than parent %s", childID, id)
			}
			found := false
			for _, back := range child.DependedOnBy {
				if back == id {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("child %s missing DependedOnBy entry for parent %s", childID, id)
			}
		}
		if n.IsLeaf && len(n.DependsOn) != 0 {
			t.Errorf("leaf %s has non-empty DependsOn", id)
		}
	}
}
