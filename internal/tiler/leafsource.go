package tiler

import "github.com/MeKo-Tech/watercolormap/internal/atlas"

// InMemoryLeafSource returns every configured pair unfiltered; Clip
// (called downstream by the leaf builder) does the actual per-node
// windowing, so no bounds-aware filtering is needed here beyond skipping
// pairs whose mesh has no geometry at all near the node.
type InMemoryLeafSource struct {
	Pairs []atlas.MeshImagePair
}

func (s InMemoryLeafSource) PairsInBounds(node *TileNode) ([]atlas.MeshImagePair, error) {
	var out []atlas.MeshImagePair
	for _, p := range s.Pairs {
		if p.Mesh == nil || len(p.Mesh.Faces) == 0 {
			continue
		}
		if !p.Mesh.Bounds().Intersects(node.Bounds) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
