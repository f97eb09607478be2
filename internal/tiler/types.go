// Package tiler implements the out-of-core chunking and tile-tree
// construction pipeline of spec.md §4.H-§4.I: bounds-tree subdivision
// under pluggable split criteria, leaf/parent tile construction, and the
// final tileset manifest.
package tiler

import (
	"github.com/MeKo-Tech/watercolormap/internal/geom"
)

// TilingScheme selects how a node's bounds are subdivided into children
// (spec.md §4.H).
type TilingScheme string

const (
	SchemeOctree     TilingScheme = "Octree"
	SchemeQuadtree   TilingScheme = "Quadtree"
	SchemeQuadAuto   TilingScheme = "QuadAuto"
	SchemeFlat       TilingScheme = "Flat"
	SchemeUserDefined TilingScheme = "UserDefined"
)

// TextureMode selects how a leaf tile's texture is produced (spec.md §6).
type TextureMode string

const (
	TextureNone        TextureMode = "None"
	TextureBake        TextureMode = "Bake"
	TextureClip        TextureMode = "Clip"
	TextureBackproject TextureMode = "Backproject"
)

// SkirtMode selects the perimeter-apron offset axis (spec.md §4.D, §6).
type SkirtMode string

const (
	SkirtX      SkirtMode = "X"
	SkirtY      SkirtMode = "Y"
	SkirtZ      SkirtMode = "Z"
	SkirtNormal SkirtMode = "Normal"
	SkirtNone   SkirtMode = "None"
)

// TileStatus is a TileNode's lifecycle state (spec.md §5: "a node
// transitions: pending -> building -> completed | failed").
type TileStatus string

const (
	StatusPending   TileStatus = "pending"
	StatusBuilding  TileStatus = "building"
	StatusCompleted TileStatus = "completed"
	StatusFailed    TileStatus = "failed"
)

// TileNode is one node of the output hierarchy (spec.md §3). Node ids
// encode path-from-root: the root is "root"; a child appends its octant
// digit (0-7) to the parent's id.
type TileNode struct {
	ID             string
	Project        string
	ParentID       string // empty for the root
	IsLeaf         bool
	Depth          int
	Bounds         geom.AABB
	MeshURL        string
	ImageURL       string
	IndexURL       string
	DependsOn      []string
	DependedOnBy   []string
	GeometricError float64
	HasGeometricErr bool
	Status         TileStatus
	// DegradedChildren lists child ids excluded from this node's build
	// because they failed (spec.md §4.J: "parent will be built without
	// it, flagged"). Empty when every child completed.
	DegradedChildren []string
}

// ChildID appends octant index i (0-7) to the parent id, per spec.md §3's
// node-id encoding.
func ChildID(parentID string, i int) string {
	return parentID + string(rune('0'+i))
}

// RootID is the tile tree's root node id.
const RootID = "root"

// ExpectedDepth returns the depth implied by id, per spec.md §3's
// invariant `depth == len(id) - len("root")`.
func ExpectedDepth(id string) int {
	return len(id) - len(RootID)
}

// MeshOperator is the small interface the bounds-tree builder and chunker
// use to query an input mesh's footprint without holding the mesh
// in memory for bookkeeping decisions (Design Notes §9).
type MeshOperator interface {
	// CountFaces returns the number of faces the operator's mesh would
	// contribute after clipping to box.
	CountFaces(box geom.AABB) int
	// ClippedBounds returns the AABB of the operator's mesh clipped to box.
	ClippedBounds(box geom.AABB) geom.AABB
	// ClippedArea returns the surface area of the operator's mesh clipped
	// to box.
	ClippedArea(box geom.AABB) float64
	// Empty reports whether the operator's mesh has no geometry in box.
	Empty(box geom.AABB) bool
}

// SplitCriteria decides whether a node should be subdivided further. A
// non-empty reason string means "split"; an empty string means "stay a
// leaf" (spec.md §4.H: "the first that returns a non-empty ... reason
// triggers splitting").
type SplitCriteria interface {
	ShouldSplit(bounds geom.AABB, ops []MeshOperator) string
}

// Config mirrors spec.md §6's tiling option table.
type Config struct {
	Scheme                TilingScheme
	MaxFacesPerTile        int
	MinTileExtent          float64
	MaxDepth               int
	MaxLeafArea            float64
	MaxOrbitalLeafArea     float64
	MaxTextureResolution   int
	MaxTexelsPerMeter      float64
	MaxTextureStretch      float64
	PowerOfTwoTextures     bool
	TextureMode            TextureMode
	Skirt                  SkirtOptions
	ReconstructionMethod   string
	AllowRotation          bool
	BorderPixels           int
	MaxRetries             int
	ChunkFaceMultiplier    int // "chunk-scale" loose limit multiplier, spec.md §4.I
	SparseImageChunkPixels int
	SurfaceRegion          *geom.AABB // spec.md §4.H orbital/surface split
}

// SkirtOptions mirrors spec.md §6's skirt knobs.
type SkirtOptions struct {
	Mode        SkirtMode
	RelHeight   float64
	MinAbsHeight float64
	MaxAbsHeight float64
	ThresholdRel float64
	Invert      bool
}

// DefaultConfig returns reasonable defaults matching spec.md §8's S5
// scenario scale.
func DefaultConfig() Config {
	return Config{
		Scheme:                 SchemeQuadtree,
		MaxFacesPerTile:        100000,
		MinTileExtent:          1,
		MaxDepth:               20,
		MaxLeafArea:            1e9,
		MaxOrbitalLeafArea:     1e12,
		MaxTextureResolution:   4096,
		MaxTexelsPerMeter:      512,
		MaxTextureStretch:      0,
		TextureMode:            TextureClip,
		ReconstructionMethod:   "Organized",
		BorderPixels:           2,
		MaxRetries:             3,
		ChunkFaceMultiplier:    10,
		SparseImageChunkPixels: 2048,
	}
}
