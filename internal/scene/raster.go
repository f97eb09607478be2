package scene

import "github.com/MeKo-Tech/watercolormap/internal/geom"

// Raster is a per-pixel grid of rover observation data. Exactly one of the
// band slices is meaningful for a given Observation.Type; the others are
// nil. All bands share Width*Height length, row-major.
type Raster struct {
	Width, Height int
	Points        []geom.Vec3 // world-space XYZ, Points observations
	Range         []float64   // range along optical axis, Range observations
	Normals       []geom.Vec3 // per-pixel surface normal
	Mask          []bool      // true where the pixel is valid
	Texture       []geom.Vec4 // RGBA in [0,1], Image observations
}

// NewRaster allocates a raster with the requested bands present.
func NewRaster(w, h int, points, rng, normals, mask, texture bool) Raster {
	r := Raster{Width: w, Height: h}
	n := w * h
	if points {
		r.Points = make([]geom.Vec3, n)
	}
	if rng {
		r.Range = make([]float64, n)
	}
	if normals {
		r.Normals = make([]geom.Vec3, n)
	}
	if mask {
		r.Mask = make([]bool, n)
	}
	if texture {
		r.Texture = make([]geom.Vec4, n)
	}
	return r
}

func (r Raster) index(row, col int) int { return row*r.Width + col }

// ValidAt reports whether (row,col) is within bounds and mask-valid (a
// raster with no mask band is considered valid everywhere in bounds).
func (r Raster) ValidAt(row, col int) bool {
	if row < 0 || col < 0 || row >= r.Height || col >= r.Width {
		return false
	}
	if r.Mask == nil {
		return true
	}
	return r.Mask[r.index(row, col)]
}

func (r Raster) PointAt(row, col int) geom.Vec3 {
	return r.Points[r.index(row, col)]
}

func (r Raster) NormalAt(row, col int) geom.Vec3 {
	return r.Normals[r.index(row, col)]
}

func (r Raster) RangeAt(row, col int) float64 {
	return r.Range[r.index(row, col)]
}

func (r Raster) TextureAt(row, col int) geom.Vec4 {
	return r.Texture[r.index(row, col)]
}

// Decimate collapses the raster by an integer factor, sampling the
// top-left pixel of each factor×factor block and baking the source mask
// into sparsity: a block with an invalid representative sample becomes a
// mask-invalid output cell with no data copied into it, so no point is
// retained from it (spec.md §4.F, §9 Open Question, see DESIGN.md).
func (r Raster) Decimate(factor int) Raster {
	if factor <= 1 {
		return r
	}
	outW := r.Width / factor
	outH := r.Height / factor
	out := NewRaster(outW, outH, r.Points != nil, r.Range != nil, r.Normals != nil, true, r.Texture != nil)
	for row := 0; row < outH; row++ {
		for col := 0; col < outW; col++ {
			srcRow, srcCol := row*factor, col*factor
			oi := out.index(row, col)
			if !r.ValidAt(srcRow, srcCol) {
				out.Mask[oi] = false
				continue
			}
			si := r.index(srcRow, srcCol)
			out.Mask[oi] = true
			if out.Points != nil {
				out.Points[oi] = r.Points[si]
			}
			if out.Range != nil {
				out.Range[oi] = r.Range[si]
			}
			if out.Normals != nil {
				out.Normals[oi] = r.Normals[si]
			}
			if out.Texture != nil {
				out.Texture[oi] = r.Texture[si]
			}
		}
	}
	return out
}
