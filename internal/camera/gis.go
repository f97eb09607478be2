package camera

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
	"github.com/MeKo-Tech/watercolormap/internal/tilerrors"
)

// Projector converts between a planetary geographic frame and a local
// projected (easting/northing) frame. GIS wraps one so surface tiling can
// address rover meshes by map coordinate the same way the reference
// implementation's orbital split set does (spec.md §4.E, §4.H).
type Projector interface {
	ToProjected(lon, lat float64) orb.Point
	ToGeographic(e, n float64) (lon, lat float64)
}

// WebMercatorProjector is the default Projector, reusing orb's
// spherical-mercator math (the same projection the teacher uses for its
// 2D slippy-map tile addressing).
type WebMercatorProjector struct{}

func (WebMercatorProjector) ToProjected(lon, lat float64) orb.Point {
	return project.WGS84.ToMercator(orb.Point{lon, lat})
}

func (WebMercatorProjector) ToGeographic(e, n float64) (float64, float64) {
	p := project.Mercator.ToWGS84(orb.Point{e, n})
	return p[0], p[1]
}

// GIS is an orthographic projection whose image plane is aligned to a
// projected map frame via a Projector, letting a surface tile be
// addressed both by local mesh coordinates and by geographic coordinates
// (spec.md §4.E, the "orbital split set" referenced in §4.H).
type GIS struct {
	Ortho       Orthographic
	Proj        Projector
	OriginLon   float64
	OriginLat   float64
	MetersPerUnit float64
}

func NewGIS(center geom.Vec3, originLon, originLat, metersPerUnit float64, proj Projector) GIS {
	if proj == nil {
		proj = WebMercatorProjector{}
	}
	return GIS{
		Ortho: Orthographic{
			C: center,
			A: geom.Vec3{X: 0, Y: 0, Z: 1},
			H: geom.Vec3{X: 1, Y: 0, Z: 0},
			V: geom.Vec3{X: 0, Y: 1, Z: 0},
		},
		Proj:          proj,
		OriginLon:     originLon,
		OriginLat:     originLat,
		MetersPerUnit: metersPerUnit,
	}
}

func (m GIS) Project(p geom.Vec3) (Pixel, float64, error) {
	return m.Ortho.Project(p)
}

func (m GIS) Unproject(px Pixel) (Ray, error) {
	return m.Ortho.Unproject(px)
}

// Geographic converts a local mesh point to (lon, lat) via the origin
// projected coordinate plus the point's planar offset scaled to meters.
func (m GIS) Geographic(p geom.Vec3) (lon, lat float64) {
	origin := m.Proj.ToProjected(m.OriginLon, m.OriginLat)
	e := origin[0] + p.X*m.MetersPerUnit
	n := origin[1] + p.Y*m.MetersPerUnit
	return m.Proj.ToGeographic(e, n)
}

func (m GIS) Local(lon, lat float64) (geom.Vec3, error) {
	if m.Proj == nil {
		return geom.Vec3{}, &tilerrors.DivideByZeroError{Op: "GIS.Local: nil projector"}
	}
	origin := m.Proj.ToProjected(m.OriginLon, m.OriginLat)
	p := m.Proj.ToProjected(lon, lat)
	if m.MetersPerUnit == 0 {
		return geom.Vec3{}, &tilerrors.DivideByZeroError{Op: "GIS.Local: zero MetersPerUnit"}
	}
	return geom.Vec3{
		X: (p[0] - origin[0]) / m.MetersPerUnit,
		Y: (p[1] - origin[1]) / m.MetersPerUnit,
		Z: 0,
	}, nil
}

func (m GIS) Linear() bool               { return true }
func (m GIS) ImagePlaneNormal() geom.Vec3 { return m.Ortho.A }
func (m GIS) Clone() Model {
	return GIS{Ortho: m.Ortho, Proj: m.Proj, OriginLon: m.OriginLon, OriginLat: m.OriginLat, MetersPerUnit: m.MetersPerUnit}
}
