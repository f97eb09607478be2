package tiler

import "github.com/MeKo-Tech/watercolormap/internal/geom"

// axisMaskFor returns the Octant axis mask for scheme at the given depth.
// QuadAuto starts as a quadtree and switches to a full octree once depth
// reaches quadAutoSwitchDepth, letting shallow levels follow the surface's
// dominant horizontal extent before refining vertically (spec.md §4.H).
const quadAutoSwitchDepth = 4

func axisMaskFor(scheme TilingScheme, depth int) uint8 {
	switch scheme {
	case SchemeOctree:
		return 0b111
	case SchemeQuadtree:
		return 0b011
	case SchemeQuadAuto:
		if depth < quadAutoSwitchDepth {
			return 0b011
		}
		return 0b111
	default:
		return 0b011
	}
}

// BuildBoundsTree recursively subdivides root under cfg's split criteria,
// returning every node in the tree keyed by id. Leaves are nodes where
// SplitCriteria returns no reason, a node has no geometry (Empty across
// every operator), or MaxDepth is reached (spec.md §4.H).
func BuildBoundsTree(project string, root geom.AABB, ops []MeshOperator, cfg Config) map[string]*TileNode {
	nodes := make(map[string]*TileNode)
	var recurse func(id, parentID string, bounds geom.AABB, depth int)
	recurse = func(id, parentID string, bounds geom.AABB, depth int) {
		node := &TileNode{
			ID:       id,
			Project:  project,
			ParentID: parentID,
			Depth:    depth,
			Bounds:   bounds,
			Status:   StatusPending,
		}
		nodes[id] = node

		empty := true
		for _, op := range ops {
			if !op.Empty(bounds) {
				empty = false
				break
			}
		}
		if empty {
			node.IsLeaf = true
			return
		}

		if depth >= cfg.MaxDepth {
			node.IsLeaf = true
			return
		}

		criteria := BuildCriteria(cfg, bounds)
		if criteria.ShouldSplit(bounds, ops) == "" {
			node.IsLeaf = true
			return
		}

		// Tighten each proposed octant to the union of what the operators
		// actually have in it, and drop octants with no geometry at all:
		// an empty child carries no mesh and must not become a dependency
		// of the parent's LOD (spec.md §4.H step 4).
		proposed := bounds.Octant(axisMaskFor(cfg.Scheme, depth))
		type childBox struct {
			id     string
			bounds geom.AABB
		}
		var kept []childBox
		for i, box := range proposed {
			tight := geom.EmptyAABB()
			nonEmpty := false
			for _, op := range ops {
				if op.Empty(box) {
					continue
				}
				nonEmpty = true
				tight = tight.Union(op.ClippedBounds(box))
			}
			if !nonEmpty {
				continue
			}
			kept = append(kept, childBox{id: ChildID(id, i), bounds: tight})
		}
		if len(kept) < 2 {
			node.IsLeaf = true
			return
		}

		node.IsLeaf = false
		for _, c := range kept {
			node.DependsOn = append(node.DependsOn, c.id)
			recurse(c.id, id, c.bounds, depth+1)
			nodes[c.id].DependedOnBy = append(nodes[c.id].DependedOnBy, id)
		}
	}

	recurse(RootID, "", root, 0)
	return nodes
}
