package tiler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
)

// TilesetNode is the JSON shape of one manifest entry (spec.md §5's
// BuildTilesetJson: "{root, children, boundingVolume, content_url,
// geometricError, transform}").
type TilesetNode struct {
	ID               string        `json:"id"`
	BoundingVolume   BoundingBox   `json:"boundingVolume"`
	GeometricError   float64       `json:"geometricError"`
	ContentURL       string        `json:"content_url,omitempty"`
	ImageURL         string        `json:"image_url,omitempty"`
	DegradedChildren []string      `json:"degraded_children,omitempty"`
	Children         []TilesetNode `json:"children,omitempty"`
}

// BoundingBox is the manifest's serialized form of an AABB.
type BoundingBox struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

func boundingBoxOf(b geom.AABB) BoundingBox {
	return BoundingBox{
		Min: [3]float64{b.Min.X, b.Min.Y, b.Min.Z},
		Max: [3]float64{b.Max.X, b.Max.Y, b.Max.Z},
	}
}

// Tileset is the manifest root.
type Tileset struct {
	Root TilesetNode `json:"root"`
}

// BuildTileset walks nodes from RootID and produces the manifest tree.
func BuildTileset(nodes map[string]*TileNode) (*Tileset, error) {
	root, ok := nodes[RootID]
	if !ok {
		return nil, fmt.Errorf("tiler: no root node in tree")
	}
	var walk func(n *TileNode) TilesetNode
	walk = func(n *TileNode) TilesetNode {
		out := TilesetNode{
			ID:               n.ID,
			BoundingVolume:   boundingBoxOf(n.Bounds),
			GeometricError:   n.GeometricError,
			ContentURL:       n.MeshURL,
			ImageURL:         n.ImageURL,
			DegradedChildren: n.DegradedChildren,
		}
		for _, childID := range n.DependsOn {
			if child, ok := nodes[childID]; ok {
				out.Children = append(out.Children, walk(child))
			}
		}
		return out
	}
	return &Tileset{Root: walk(root)}, nil
}

// ManifestWriter persists a marshalled tileset manifest for a project.
type ManifestWriter func(project string, data []byte) error

// NewTilesetBuilder returns a TilesetBuilder that serializes the tree to
// indented JSON and hands it to write.
func NewTilesetBuilder(write ManifestWriter) TilesetBuilder {
	return func(ctx context.Context, nodes map[string]*TileNode) error {
		ts, err := BuildTileset(nodes)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(ts, "", "  ")
		if err != nil {
			return fmt.Errorf("tiler: marshal tileset: %w", err)
		}
		var project string
		if root, ok := nodes[RootID]; ok {
			project = root.Project
		}
		return write(project, data)
	}
}
