package tiler

import "github.com/MeKo-Tech/watercolormap/internal/geom"

// FaceSplitCriteria splits a node whose combined operator face count
// exceeds MaxFaces (spec.md §4.H).
type FaceSplitCriteria struct {
	MaxFaces int
}

func (c FaceSplitCriteria) ShouldSplit(bounds geom.AABB, ops []MeshOperator) string {
	total := 0
	for _, op := range ops {
		total += op.CountFaces(bounds)
	}
	if total > c.MaxFaces {
		return "face_count"
	}
	return ""
}

// AreaSplitCriteria splits a node whose clipped mesh surface area
// exceeds MaxArea, the per-scheme leaf-area cap of spec.md §6
// (MaxLeafArea / MaxOrbitalLeafArea).
type AreaSplitCriteria struct {
	MaxArea float64
}

func (c AreaSplitCriteria) ShouldSplit(bounds geom.AABB, ops []MeshOperator) string {
	total := 0.0
	for _, op := range ops {
		total += op.ClippedArea(bounds)
	}
	if total > c.MaxArea {
		return "area"
	}
	return ""
}

// TextureSplitCriteria splits a node with non-zero clipped area whose
// required texture resolution, the larger of its X/Y extents times
// MaxTexelsPerMeter, would exceed MaxTextureResolution (spec.md §4.G/§6).
type TextureSplitCriteria struct {
	MaxTexelsPerMeter    float64
	MaxTextureResolution int
}

func (c TextureSplitCriteria) ShouldSplit(bounds geom.AABB, ops []MeshOperator) string {
	total := 0.0
	for _, op := range ops {
		total += op.ClippedArea(bounds)
	}
	if total <= 0 {
		return ""
	}
	side := bounds.Max.Sub(bounds.Min)
	extent := side.X
	if side.Y > extent {
		extent = side.Y
	}
	requiredTexels := extent * c.MaxTexelsPerMeter
	if requiredTexels > float64(c.MaxTextureResolution) {
		return "texture_resolution"
	}
	return ""
}

// MinExtentCriteria prevents infinite recursion by refusing to split a
// node whose bounds are already at or below MinExtent, overriding any
// other criteria (spec.md §4.H edge case: "a node at MinTileExtent never
// splits, regardless of face count").
type MinExtentCriteria struct {
	Inner     SplitCriteria
	MinExtent float64
}

func (c MinExtentCriteria) ShouldSplit(bounds geom.AABB, ops []MeshOperator) string {
	if bounds.Diagonal() <= c.MinExtent {
		return ""
	}
	return c.Inner.ShouldSplit(bounds, ops)
}

// AnyOf splits as soon as one inner criteria triggers, returning its
// reason (spec.md §4.H: "the first that returns a non-empty ... reason
// triggers splitting").
type AnyOf []SplitCriteria

func (a AnyOf) ShouldSplit(bounds geom.AABB, ops []MeshOperator) string {
	for _, c := range a {
		if reason := c.ShouldSplit(bounds, ops); reason != "" {
			return reason
		}
	}
	return ""
}

// BuildCriteria assembles the standard split-criteria chain from a
// Config, selecting the orbital or surface area cap depending on
// whether bounds falls within cfg.SurfaceRegion (spec.md §3.3 / §4.H).
func BuildCriteria(cfg Config, bounds geom.AABB) SplitCriteria {
	maxArea := cfg.MaxOrbitalLeafArea
	if cfg.SurfaceRegion != nil && cfg.SurfaceRegion.Intersects(bounds) {
		maxArea = cfg.MaxLeafArea
	}
	chain := AnyOf{
		FaceSplitCriteria{MaxFaces: cfg.MaxFacesPerTile},
		AreaSplitCriteria{MaxArea: maxArea},
	}
	if cfg.MaxTexelsPerMeter > 0 && cfg.MaxTextureResolution > 0 {
		chain = append(chain, TextureSplitCriteria{
			MaxTexelsPerMeter:    cfg.MaxTexelsPerMeter,
			MaxTextureResolution: cfg.MaxTextureResolution,
		})
	}
	return MinExtentCriteria{Inner: chain, MinExtent: cfg.MinTileExtent}
}
