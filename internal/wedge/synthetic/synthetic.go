// Package synthetic generates Perlin-noise terrain rasters for exercising
// wedge assembly and reconstruction without a real rover-imagery decoder,
// which spec.md §1 explicitly places out of scope.
package synthetic

import (
	"github.com/aquilax/go-perlin"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
	"github.com/MeKo-Tech/watercolormap/internal/scene"
)

// TerrainOptions configures the synthetic height field.
type TerrainOptions struct {
	Width, Height int
	Scale         float64
	Amplitude     float64
	Seed          int64
	ValidFrac     float64 // fraction of pixels marked mask-valid, for decimation fixtures
}

// GenerateTerrainRaster builds a Points+Normals+Mask raster over an
// XY grid whose Z is driven by 3-octave Perlin noise, the same generator
// family the teacher uses for procedural mask content.
func GenerateTerrainRaster(opts TerrainOptions) scene.Raster {
	p := perlin.NewPerlin(2.0, 2.0, 3, opts.Seed)
	r := scene.NewRaster(opts.Width, opts.Height, true, true, true, true, false)

	height := func(x, y int) float64 {
		nx := float64(x) / opts.Scale
		ny := float64(y) / opts.Scale
		return p.Noise2D(nx, ny) * opts.Amplitude
	}

	validFrac := opts.ValidFrac
	if validFrac <= 0 {
		validFrac = 1
	}

	for row := 0; row < opts.Height; row++ {
		for col := 0; col < opts.Width; col++ {
			idx := row*opts.Width + col
			z := height(col, row)
			r.Points[idx] = geom.Vec3{X: float64(col), Y: float64(row), Z: z}

			dx := height(col+1, row) - height(col-1, row)
			dy := height(col, row+1) - height(col, row-1)
			n := geom.Vec3{X: -dx, Y: -dy, Z: 2}
			if nn, ok := n.Normalized(); ok {
				r.Normals[idx] = nn
			} else {
				r.Normals[idx] = geom.Vec3{X: 0, Y: 0, Z: 1}
			}

			r.Mask[idx] = pseudoRandom(row, col, opts.Seed) < validFrac
		}
	}
	return r
}

// pseudoRandom is a cheap deterministic hash in [0,1), used only to decide
// mask validity so fixtures are reproducible across runs.
func pseudoRandom(row, col int, seed int64) float64 {
	h := uint64(row)*2654435761 + uint64(col)*40503 + uint64(seed)*31
	h ^= h >> 17
	h *= 0xed5ad4bb
	h ^= h >> 11
	h *= 0xac4c1b51
	h ^= h >> 15
	return float64(h%1000000) / 1000000
}
