// Package scene models the rover reference-frame graph and the
// observations hung off it (spec.md §3, §4.F): sites, drives, local-level
// frames, and the per-frame raster observations used for wedge assembly.
package scene

import (
	"fmt"

	"github.com/MeKo-Tech/watercolormap/internal/camera"
	"github.com/MeKo-Tech/watercolormap/internal/geom"
)

// TransformSource records where a FrameTransform's pose came from, mirroring
// the provenance tags carried by mission metadata.
type TransformSource string

const (
	TransformSourceSiteDrive  TransformSource = "site_drive"
	TransformSourceLocalLevel TransformSource = "local_level"
	TransformSourceRoot       TransformSource = "root"
)

// FrameTransform is a rigid transform from a frame to its parent frame.
type FrameTransform struct {
	Matrix geom.Mat4
	Source TransformSource
}

// Frame is a node in the rover's reference-frame tree: a site/drive pair
// (or the synthetic local-level/root frames above it) with a transform to
// its parent.
type Frame struct {
	ID       string
	Site     int
	Drive    int
	Parent   *Frame
	Relative FrameTransform
}

// ToRoot composes this frame's transform with every ancestor's, returning
// the frame-to-root matrix (spec.md's "site-drive/local-level/root"
// frame-chain traversal).
func (f *Frame) ToRoot() geom.Mat4 {
	m := geom.Identity()
	for node := f; node != nil; node = node.Parent {
		m = node.Relative.Matrix.Mul(m)
	}
	return m
}

// Path returns the chain of frame IDs from root to this frame.
func (f *Frame) Path() []string {
	var ids []string
	for node := f; node != nil; node = node.Parent {
		ids = append([]string{node.ID}, ids...)
	}
	return ids
}

func (f *Frame) String() string {
	return fmt.Sprintf("frame(site=%d,drive=%d,id=%s)", f.Site, f.Drive, f.ID)
}

// ObservationType classifies the raster content of an Observation, driving
// wedge assembly's geometry-preference filtering (spec.md §4.F).
type ObservationType string

const (
	ObsPoints  ObservationType = "Points"
	ObsRange   ObservationType = "Range"
	ObsNormals ObservationType = "Normals"
	ObsMask    ObservationType = "Mask"
	ObsImage   ObservationType = "Image"
)

// Linearity records whether an observation's raster is in the camera's raw
// (distorted) or linearized pixel grid.
type Linearity int

const (
	LinearityRaw Linearity = iota
	LinearityLinearized
)

// Observation is a single per-frame raster product: a camera model, the
// frame it was captured from, and a lazily-loadable raster of one of the
// ObservationType kinds.
type Observation struct {
	Name       string
	Type       ObservationType
	Linearity  Linearity
	Frame      *Frame
	Camera     camera.Model
	Width      int
	Height     int
	decodeOnce func() (Raster, error)
	raster     Raster
	loaded     bool
}

// NewObservation constructs an Observation whose raster is produced lazily
// by decode when first requested (spec.md's "load_or_generate_images" is
// lazy and idempotent).
func NewObservation(name string, typ ObservationType, lin Linearity, frame *Frame, cam camera.Model, width, height int, decode func() (Raster, error)) *Observation {
	return &Observation{
		Name: name, Type: typ, Linearity: lin, Frame: frame, Camera: cam,
		Width: width, Height: height, decodeOnce: decode,
	}
}

// Load returns the decoded raster, decoding it at most once.
func (o *Observation) Load() (Raster, error) {
	if o.loaded {
		return o.raster, nil
	}
	if o.decodeOnce == nil {
		return Raster{}, fmt.Errorf("observation %s: no decoder configured", o.Name)
	}
	r, err := o.decodeOnce()
	if err != nil {
		return Raster{}, fmt.Errorf("observation %s: %w", o.Name, err)
	}
	o.raster = r
	o.loaded = true
	return r, nil
}

// SameDimensions reports whether two observations' rasters share a pixel
// grid, required before one can supply auxiliary bands (normals/mask) for
// another (spec.md §4.F).
func (o *Observation) SameDimensions(other *Observation) bool {
	return o.Width == other.Width && o.Height == other.Height
}
