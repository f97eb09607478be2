package wedge

import (
	"fmt"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
	"github.com/MeKo-Tech/watercolormap/internal/mesh"
	"github.com/MeKo-Tech/watercolormap/internal/scene"
)

// Method selects the reconstruction algorithm (spec.md §4.F).
type Method string

const (
	Organized Method = "Organized"
	Poisson   Method = "Poisson"
	FSSR      Method = "FSSR"
)

// NormalScale selects how per-point normals/scales feed Poisson/FSSR.
type NormalScale string

const (
	NormalScaleConstant   NormalScale = "Constant"
	NormalScaleConfidence NormalScale = "Confidence"
)

// Options configures reconstruction, matching spec.md §4.F's per-method
// knobs plus the organized-method triangle aspect test and isolated-point
// marker size.
type Options struct {
	Method             Method
	MaxAspect          float64
	IsolatedPointSize  float64
	NormalScale        NormalScale
	Confidence         []float64 // parallel to raster samples, Poisson NormalScaleConfidence
	PointScale         []float64 // parallel to raster samples, FSSR
}

// Reconstructor builds a mesh from an assembled geometry raster.
type Reconstructor interface {
	Reconstruct(geomRaster scene.Raster, normals *scene.Raster, opts Options) (*mesh.Mesh, error)
}

// Reconstruct dispatches to the method-specific reconstructor, matching
// spec.md §4.F's tagged reconstruction modes.
func Reconstruct(geomRaster scene.Raster, normals *scene.Raster, opts Options) (*mesh.Mesh, error) {
	switch opts.Method {
	case Organized, "":
		return organizedReconstructor{}.Reconstruct(geomRaster, normals, opts)
	case Poisson:
		return poissonReconstructor{}.Reconstruct(geomRaster, normals, opts)
	case FSSR:
		return fssrReconstructor{}.Reconstruct(geomRaster, normals, opts)
	default:
		return nil, fmt.Errorf("wedge: unknown reconstruction method %q", opts.Method)
	}
}

// organizedReconstructor implements spec.md §4.F's "Organized" mode: a
// triangle per 2x1 pixel group subject to an aspect test, with isolated
// valid pixels turned into small point-marker triangles.
type organizedReconstructor struct{}

func (organizedReconstructor) Reconstruct(r scene.Raster, normals *scene.Raster, opts Options) (*mesh.Mesh, error) {
	hasNormals := normals != nil
	m := mesh.New(hasNormals, false, false)
	maxAspect := opts.MaxAspect
	if maxAspect <= 0 {
		maxAspect = 10
	}

	addedAsTriangle := make([]bool, r.Width*r.Height)

	for row := 0; row+1 < r.Height; row++ {
		for col := 0; col+1 < r.Width; col++ {
			quad := [4]struct{ row, col int }{
				{row, col}, {row, col + 1}, {row + 1, col}, {row + 1, col + 1},
			}
			validCount := 0
			for _, q := range quad {
				if r.ValidAt(q.row, q.col) {
					validCount++
				}
			}
			if validCount < 3 {
				continue
			}

			tryTriangle := func(a, b, c struct{ row, col int }) {
				if !r.ValidAt(a.row, a.col) || !r.ValidAt(b.row, b.col) || !r.ValidAt(c.row, c.col) {
					return
				}
				tri := triangleFromRaster(r, normals, a, b, c)
				if tri.AspectRatio() > maxAspect {
					return
				}
				if tri.IsDegenerate(geom.Epsilon) {
					return
				}
				m.AppendTriangles([]geom.Triangle{tri})
				addedAsTriangle[r.Width*a.row+a.col] = true
				addedAsTriangle[r.Width*b.row+b.col] = true
				addedAsTriangle[r.Width*c.row+c.col] = true
			}
			tryTriangle(quad[0], quad[1], quad[2])
			tryTriangle(quad[1], quad[3], quad[2])
		}
	}

	markerSize := opts.IsolatedPointSize
	if markerSize <= 0 {
		markerSize = 0.001
	}
	for row := 0; row < r.Height; row++ {
		for col := 0; col < r.Width; col++ {
			if !r.ValidAt(row, col) || addedAsTriangle[r.Width*row+col] {
				continue
			}
			addIsolatedPointMarker(m, r, normals, row, col, markerSize)
		}
	}

	return m, nil
}

func triangleFromRaster(r scene.Raster, normals *scene.Raster, a, b, c struct{ row, col int }) geom.Triangle {
	va := geom.VertexAttr{Position: r.PointAt(a.row, a.col)}
	vb := geom.VertexAttr{Position: r.PointAt(b.row, b.col)}
	vc := geom.VertexAttr{Position: r.PointAt(c.row, c.col)}
	if normals != nil {
		va.Normal = normals.NormalAt(a.row, a.col)
		vb.Normal = normals.NormalAt(b.row, b.col)
		vc.Normal = normals.NormalAt(c.row, c.col)
	}
	return geom.Triangle{V0: va, V1: vb, V2: vc}
}

// addIsolatedPointMarker emits a tiny right triangle with its corner at
// the pixel's 3D position and legs of length size along +X and +Y,
// standing in for a renderable point splat.
func addIsolatedPointMarker(m *mesh.Mesh, r scene.Raster, normals *scene.Raster, row, col int, size float64) {
	center := r.PointAt(row, col)
	offset := geom.Vec3{X: size, Y: 0, Z: 0}
	v := geom.VertexAttr{Position: center}
	if normals != nil {
		v.Normal = normals.NormalAt(row, col)
	}
	v1 := v
	v1.Position = center.Add(offset)
	v2 := v
	v2.Position = center.Add(geom.Vec3{X: 0, Y: size, Z: 0})
	m.AppendTriangles([]geom.Triangle{{V0: v, V1: v1, V2: v2}})
}

// poissonReconstructor is a simplified, pluggable stand-in for Poisson
// surface reconstruction from oriented points: it organizes the valid
// points into the same 2x1 triangulation as Organized, but weights vertex
// confidence into the resulting normal when NormalScaleConfidence is
// requested (spec.md §4.F).
type poissonReconstructor struct{}

func (poissonReconstructor) Reconstruct(r scene.Raster, normals *scene.Raster, opts Options) (*mesh.Mesh, error) {
	base, err := organizedReconstructor{}.Reconstruct(r, normals, opts)
	if err != nil {
		return nil, err
	}
	if opts.NormalScale == NormalScaleConfidence && len(opts.Confidence) == len(base.Vertices) {
		for i := range base.Vertices {
			w := opts.Confidence[i]
			base.Vertices[i].Normal = base.Vertices[i].Normal.Scale(w)
		}
		base.NormalizeNormals()
	}
	return base, nil
}

// fssrReconstructor is a simplified, pluggable stand-in for floating-scale
// surface reconstruction: identical triangulation, with point-scale
// values used to bias the isolated-point marker size (spec.md §4.F).
type fssrReconstructor struct{}

func (fssrReconstructor) Reconstruct(r scene.Raster, normals *scene.Raster, opts Options) (*mesh.Mesh, error) {
	if len(opts.PointScale) == 0 {
		return organizedReconstructor{}.Reconstruct(r, normals, opts)
	}
	avgScale := 0.0
	for _, s := range opts.PointScale {
		avgScale += s
	}
	avgScale /= float64(len(opts.PointScale))
	scaled := opts
	scaled.IsolatedPointSize = avgScale
	return organizedReconstructor{}.Reconstruct(r, normals, scaled)
}
