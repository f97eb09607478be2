package tiler

import (
	"context"
	"fmt"

	"github.com/MeKo-Tech/watercolormap/internal/mesh"
)

// ParentLoader retrieves a completed child node's mesh and texture for
// use by NewParentBuilder.
type ParentLoader interface {
	LoadMesh(project, nodeID, meshURL string) (*mesh.Mesh, error)
	LoadImage(project, nodeID, imageURL string) (mesh.TexturedMesh, error)
}

// DecimateFunc reduces a merged mesh's face count to a target budget.
// It returns the geometric error introduced by the reduction, the
// maximum vertex displacement caused by simplification.
type DecimateFunc func(m *mesh.Mesh, targetFaces int) (*mesh.Mesh, float64)

// NewParentBuilder returns a ParentBuilder that merges children's
// textures via mesh.MergeMeshesAndTextures, decimates the combined
// geometry to maxFaces, and accumulates NodeGeometricError as the max of
// the children's own stored error plus this level's decimation delta —
// never just the raw per-level delta, so error is monotonic root-to-leaf
// (spec.md §3.3).
func NewParentBuilder(loader ParentLoader, persist LeafPersister, decimate DecimateFunc, maxFaces int) ParentBuilder {
	return func(ctx context.Context, node *TileNode, children []*TileNode) error {
		pairs := make([]mesh.TexturedMesh, 0, len(children))
		childMaxErr := 0.0
		for _, child := range children {
			if child.Status != StatusCompleted {
				return fmt.Errorf("parent %s: child %s not completed", node.ID, child.ID)
			}
			if child.HasGeometricErr && child.GeometricError > childMaxErr {
				childMaxErr = child.GeometricError
			}
			m, err := loader.LoadMesh(child.Project, child.ID, child.MeshURL)
			if err != nil {
				return fmt.Errorf("parent %s: load child %s mesh: %w", node.ID, child.ID, err)
			}
			tex, err := loader.LoadImage(child.Project, child.ID, child.ImageURL)
			if err != nil {
				return fmt.Errorf("parent %s: load child %s image: %w", node.ID, child.ID, err)
			}
			tex.Mesh = m
			pairs = append(pairs, tex)
		}

		merged, atlasImg, err := mesh.MergeMeshesAndTextures(pairs)
		if err != nil {
			return fmt.Errorf("parent %s: merge children: %w", node.ID, err)
		}

		decimated, delta := decimate(merged, maxFaces)
		node.GeometricError = childMaxErr + delta
		node.HasGeometricErr = true

		meshURL, err := persist.SaveMesh(node.Project, node.ID, decimated)
		if err != nil {
			return fmt.Errorf("parent %s: save mesh: %w", node.ID, err)
		}
		node.MeshURL = meshURL

		if atlasImg != nil {
			imgURL, err := persist.SaveImage(node.Project, node.ID, "image", atlasImg)
			if err != nil {
				return fmt.Errorf("parent %s: save image: %w", node.ID, err)
			}
			node.ImageURL = imgURL
		}
		return nil
	}
}
