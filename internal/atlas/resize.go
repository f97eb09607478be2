package atlas

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/MeKo-Tech/watercolormap/internal/mesh"
)

// resizeToLimit downscales atlasImg/indexImg to maxSize if either
// dimension exceeds it. Mesh UVs need no change since they are already
// normalized to [0,1] atlas-space (spec.md §4.G step 7). Color uses
// bilinear filtering; the index image uses nearest-neighbor since its
// values are categorical source indices, not a quantity that should
// blend.
func resizeToLimit(m *mesh.Mesh, atlasImg *image.NRGBA, indexImg *image.Gray, maxSize int) (*mesh.Mesh, *image.NRGBA, *image.Gray) {
	b := atlasImg.Bounds()
	if maxSize <= 0 || (b.Dx() <= maxSize && b.Dy() <= maxSize) {
		return m, atlasImg, indexImg
	}

	scale := float64(maxSize) / float64(b.Dx())
	if s := float64(maxSize) / float64(b.Dy()); s < scale {
		scale = s
	}
	newW := maxInt(1, int(float64(b.Dx())*scale))
	newH := maxInt(1, int(float64(b.Dy())*scale))

	resizedAtlas := image.NewNRGBA(image.Rect(0, 0, newW, newH))
	draw.BiLinear.Scale(resizedAtlas, resizedAtlas.Bounds(), atlasImg, b, draw.Over, nil)

	resizedIndex := image.NewGray(image.Rect(0, 0, newW, newH))
	draw.NearestNeighbor.Scale(resizedIndex, resizedIndex.Bounds(), indexImg, indexImg.Bounds(), draw.Over, nil)

	return m, resizedAtlas, resizedIndex
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
