// Package camera implements the rover camera models of spec.md §4.E:
// linear CAHV, radial CAHVOR, the entrance-pupil-variable CAHVORE, an
// Orthographic model, and a GIS projector placeholder. Dispatch is a
// tagged union over the Model interface rather than a deep type
// hierarchy (Design Notes §9).
package camera

import "github.com/MeKo-Tech/watercolormap/internal/geom"

// Pixel is an image-plane coordinate (column, row) in pixels.
type Pixel struct {
	X, Y float64
}

// Ray is an unprojected ray: an origin and a (not necessarily unit)
// direction.
type Ray struct {
	Origin    geom.Vec3
	Direction geom.Vec3
}

// Model is the unified camera interface every variant satisfies.
type Model interface {
	// Project maps a world point to a pixel and a signed range. CAHV
	// returns the distance from C, negative for points behind the image
	// plane; Orthographic returns the distance along A.
	Project(p geom.Vec3) (Pixel, float64, error)
	// Unproject maps a pixel to a world-space ray.
	Unproject(px Pixel) (Ray, error)
	// Linear reports whether this model is a pure linear (pinhole)
	// projection (true for CAHV and Orthographic).
	Linear() bool
	// ImagePlaneNormal returns the vector normal to the image plane, used
	// by back-facing culling during texture projection.
	ImagePlaneNormal() geom.Vec3
	// Clone returns a deep copy.
	Clone() Model
}
