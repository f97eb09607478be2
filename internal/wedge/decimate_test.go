package wedge

import (
	"math"
	"testing"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
	"github.com/MeKo-Tech/watercolormap/internal/scene"
)

// TestDecimateSelection_MaskAware covers invariant 10: decimation never
// produces more than ceil(W/factor) x ceil(H/factor) valid points, and
// every retained point traces back to a masked-valid source pixel.
func TestDecimateSelection_MaskAware(t *testing.T) {
	const w, h, factor = 6, 6, 2
	r := scene.NewRaster(w, h, true, false, false, true, false)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			i := row*w + col
			// invalidate every representative (top-left-of-block) sample
			// in the first output row so its whole output row is empty.
			r.Mask[i] = row != 0
			r.Points[i] = geom.Vec3{X: float64(col), Y: float64(row), Z: 0}
		}
	}

	outGeom, outNormals := DecimateSelection(r, nil, factor)
	if outNormals != nil {
		t.Errorf("expected nil normals when input normals is nil, got %v", outNormals)
	}

	maxCells := int(math.Ceil(float64(w)/float64(factor))) * int(math.Ceil(float64(h)/float64(factor)))
	validCount := 0
	for row := 0; row < outGeom.Height; row++ {
		for col := 0; col < outGeom.Width; col++ {
			if !outGeom.ValidAt(row, col) {
				continue
			}
			validCount++
			srcRow, srcCol := row*factor, col*factor
			if !r.ValidAt(srcRow, srcCol) {
				t.Errorf("output (%d,%d) valid but its source representative (%d,%d) was masked-invalid", row, col, srcRow, srcCol)
			}
		}
	}
	if validCount > maxCells {
		t.Errorf("expected at most %d valid points, got %d", maxCells, validCount)
	}
	if outGeom.Height != h/factor {
		t.Errorf("unexpected output height %d", outGeom.Height)
	}
}
