// Package wedge assembles a reconstructable mesh wedge from a frame's
// observations, then reconstructs and textures it (spec.md §4.F).
package wedge

import (
	"fmt"

	"github.com/MeKo-Tech/watercolormap/internal/scene"
	"github.com/MeKo-Tech/watercolormap/internal/tilerrors"
)

// GeometryPreference orders which linearity to try first when selecting
// observations for a wedge.
type GeometryPreference []scene.Linearity

var (
	PreferLinearized = GeometryPreference{scene.LinearityLinearized, scene.LinearityRaw}
	PreferRaw        = GeometryPreference{scene.LinearityRaw, scene.LinearityLinearized}
)

// Requirement is a bitmask of capabilities the caller needs the selected
// wedge to satisfy.
type Requirement uint8

const (
	RequirePoints Requirement = 1 << iota
	RequireNormals
	RequireTextures
	RequireMeshable
	RequireReconstructable
)

func (req Requirement) has(flag Requirement) bool { return req&flag != 0 }

// Selection is the set of observations chosen to build one wedge.
type Selection struct {
	Points  *scene.Observation
	Range   *scene.Observation
	Normals *scene.Observation
	Mask    *scene.Observation
	Texture *scene.Observation
}

func (s Selection) satisfies(req Requirement) bool {
	if req.has(RequirePoints) && s.Points == nil && s.Range == nil {
		return false
	}
	if req.has(RequireNormals) && s.Normals == nil {
		return false
	}
	if req.has(RequireTextures) && s.Texture == nil {
		return false
	}
	if req.has(RequireMeshable) && s.Points == nil && s.Range == nil {
		return false
	}
	if req.has(RequireReconstructable) && s.Points == nil && s.Range == nil {
		return false
	}
	return true
}

// Select implements spec.md §4.F's observation-selection algorithm: walk
// the geometry preference list, and for each linearity pick the first
// Points observation (falling back to Range), the first Texture
// observation, and the Normals/Mask observations whose dimensions equal
// the geometry observation's, stopping at the first preference whose
// selection satisfies req.
func Select(observations []*scene.Observation, pref GeometryPreference, req Requirement) (Selection, error) {
	for _, lin := range pref {
		sel := selectForLinearity(observations, lin)
		if sel.satisfies(req) {
			return sel, nil
		}
	}
	return Selection{}, &tilerrors.AttributeMismatchError{Missing: "no geometry preference satisfied requirements"}
}

func selectForLinearity(observations []*scene.Observation, lin scene.Linearity) Selection {
	var sel Selection
	var representative *scene.Observation

	for _, o := range observations {
		if o.Linearity != lin {
			continue
		}
		switch o.Type {
		case scene.ObsPoints:
			if sel.Points == nil {
				sel.Points = o
				representative = o
			}
		case scene.ObsRange:
			if sel.Range == nil {
				sel.Range = o
				if representative == nil {
					representative = o
				}
			}
		case scene.ObsImage:
			if sel.Texture == nil {
				sel.Texture = o
			}
		}
	}
	if representative == nil {
		return sel
	}
	for _, o := range observations {
		if o.Linearity != lin || !o.SameDimensions(representative) {
			continue
		}
		switch o.Type {
		case scene.ObsNormals:
			if sel.Normals == nil {
				sel.Normals = o
			}
		case scene.ObsMask:
			if sel.Mask == nil {
				sel.Mask = o
			}
		}
	}
	return sel
}

// LoadOrGenerate loads the selection's geometry source raster, falling
// back from Points to Range when Points fails to load or decodes with no
// valid sample (spec.md §4.F). The Texture, Normals and Mask observations
// are not loaded here; each loads lazily through Observation.Load.
func LoadOrGenerate(sel Selection) (Selection, scene.Raster, error) {
	geomRaster, err := loadGeometrySource(sel)
	if err != nil {
		return sel, scene.Raster{}, err
	}
	return sel, geomRaster, nil
}

func loadGeometrySource(sel Selection) (scene.Raster, error) {
	if sel.Points != nil {
		r, err := sel.Points.Load()
		if err == nil && hasValidSample(r) {
			return r, nil
		}
	}
	if sel.Range != nil {
		r, err := sel.Range.Load()
		if err != nil {
			return scene.Raster{}, fmt.Errorf("wedge: loading range fallback: %w", err)
		}
		return r, nil
	}
	return scene.Raster{}, &tilerrors.AttributeMismatchError{Missing: "no points or range observation available"}
}

func hasValidSample(r scene.Raster) bool {
	if r.Mask == nil {
		return r.Width > 0 && r.Height > 0
	}
	for _, v := range r.Mask {
		if v {
			return true
		}
	}
	return false
}
