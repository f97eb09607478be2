package tiler

import (
	"context"
	"fmt"
	"image"

	"github.com/MeKo-Tech/watercolormap/internal/atlas"
	"github.com/MeKo-Tech/watercolormap/internal/geom"
	"github.com/MeKo-Tech/watercolormap/internal/mesh"
)

// LeafSource supplies the geometry a leaf builder clips to a node's
// bounds: the joined-and-cleaned mesh/image pairs contributed by every
// chunk intersecting that node (spec.md §5's BuildLeaves).
type LeafSource interface {
	PairsInBounds(node *TileNode) ([]atlas.MeshImagePair, error)
}

// LeafPersister writes a built leaf's mesh and texture/index images to
// stable storage and returns their URLs.
type LeafPersister interface {
	SaveMesh(project, nodeID string, m *mesh.Mesh) (string, error)
	SaveImage(project, nodeID, kind string, img image.Image) (string, error)
}

// LeafContext bundles what NewLeafBuilder needs to build one leaf.
type LeafContext struct {
	Source      LeafSource
	Persist     LeafPersister
	AtlasOpts   atlas.Options
	TextureMode TextureMode
}

// NewLeafBuilder returns a LeafBuilder closing over ctx, dispatching on
// TextureMode per spec.md §5 ("None/Bake/Clip/Backproject").
func NewLeafBuilder(lc LeafContext) LeafBuilder {
	return func(ctx context.Context, node *TileNode) error {
		pairs, err := lc.Source.PairsInBounds(node)
		if err != nil {
			return fmt.Errorf("leaf %s: gather pairs: %w", node.ID, err)
		}
		if len(pairs) == 0 {
			node.IsLeaf = true
			return nil
		}

		var built *mesh.Mesh
		var colorImg, indexImg image.Image

		switch lc.TextureMode {
		case TextureNone:
			built = joinAndClean(pairs, node.Bounds)

		case TextureClip:
			m, img, idx, err := atlas.Clip(pairs, node.Bounds, lc.AtlasOpts)
			if err != nil {
				return fmt.Errorf("leaf %s: atlas clip: %w", node.ID, err)
			}
			built, colorImg, indexImg = m, img, idx

		case TextureBake:
			built = joinAndClean(pairs, node.Bounds)
			bakeVertexColors(built, pairs)

		case TextureBackproject:
			// Backproject shares Clip's packing pipeline; the distinction
			// (reprojecting through each camera's original full-resolution
			// image rather than a pre-clipped observation raster) lives in
			// how the caller populates pairs before PairsInBounds returns.
			m, img, idx, err := atlas.Clip(pairs, node.Bounds, lc.AtlasOpts)
			if err != nil {
				return fmt.Errorf("leaf %s: atlas backproject: %w", node.ID, err)
			}
			built, colorImg, indexImg = m, img, idx

		default:
			return fmt.Errorf("leaf %s: unknown texture mode %q", node.ID, lc.TextureMode)
		}

		meshURL, err := lc.Persist.SaveMesh(node.Project, node.ID, built)
		if err != nil {
			return fmt.Errorf("leaf %s: save mesh: %w", node.ID, err)
		}
		node.MeshURL = meshURL

		if colorImg != nil {
			url, err := lc.Persist.SaveImage(node.Project, node.ID, "image", colorImg)
			if err != nil {
				return fmt.Errorf("leaf %s: save image: %w", node.ID, err)
			}
			node.ImageURL = url
		}
		if indexImg != nil {
			url, err := lc.Persist.SaveImage(node.Project, node.ID, "index", indexImg)
			if err != nil {
				return fmt.Errorf("leaf %s: save index: %w", node.ID, err)
			}
			node.IndexURL = url
		}
		return nil
	}
}

// joinAndClean merges every pair's mesh, clips to bounds, and cleans the
// result (spec.md §4.B/§4.C join+clean path for the None texture mode).
func joinAndClean(pairs []atlas.MeshImagePair, bounds geom.AABB) *mesh.Mesh {
	out := mesh.New(true, false, false)
	for _, p := range pairs {
		clipped := p.Mesh.Clip(bounds, false)
		base := len(out.Vertices)
		out.Vertices = append(out.Vertices, clipped.Vertices...)
		for _, f := range clipped.Faces {
			out.Faces = append(out.Faces, mesh.Face{P0: f.P0 + base, P1: f.P1 + base, P2: f.P2 + base})
		}
	}
	out.MergeNearbyVertices(1e-6)
	out.Clean(true, true)
	return out
}

// bakeVertexColors assigns each vertex the color of the first pair's
// texture at its UV, a cheap per-vertex alternative to atlas packing.
func bakeVertexColors(m *mesh.Mesh, pairs []atlas.MeshImagePair) {
	if m == nil || len(pairs) == 0 {
		return
	}
	img := pairs[0].Image
	if img == nil {
		return
	}
	bounds := img.Bounds()
	m.HasColors = true
	for i := range m.Vertices {
		uv := m.Vertices[i].UV
		px := bounds.Min.X + int(uv.X*float64(bounds.Dx()))
		py := bounds.Min.Y + int(uv.Y*float64(bounds.Dy()))
		if px < bounds.Min.X {
			px = bounds.Min.X
		}
		if px >= bounds.Max.X {
			px = bounds.Max.X - 1
		}
		if py < bounds.Min.Y {
			py = bounds.Min.Y
		}
		if py >= bounds.Max.Y {
			py = bounds.Max.Y - 1
		}
		r, g, b, a := img.At(px, py).RGBA()
		m.Vertices[i].Color = geom.Vec4{
			X: float32(r) / 0xffff,
			Y: float32(g) / 0xffff,
			Z: float32(b) / 0xffff,
			W: float32(a) / 0xffff,
		}
	}
}
