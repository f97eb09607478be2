package wedge

import (
	"image"

	"github.com/disintegration/gift"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
	"github.com/MeKo-Tech/watercolormap/internal/scene"
)

// SmoothTexture softens a texture raster's source image before projection,
// reducing sensor noise that would otherwise alias onto the mesh's UV
// seams (spec.md §4.F texture projection).
func SmoothTexture(src image.Image, sigma float32) *image.NRGBA {
	g := gift.New(gift.GaussianBlur(sigma))
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}

// RasterFromImage converts a decoded image.Image into a scene.Raster
// Texture band, the glue between an Image observation's decoder and wedge
// assembly's raster model.
func RasterFromImage(img image.Image) scene.Raster {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	r := scene.NewRaster(w, h, false, false, false, false, true)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cr, cg, cb, ca := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			r.Texture[y*w+x] = geom.Vec4{
				X: float32(cr) / 65535,
				Y: float32(cg) / 65535,
				Z: float32(cb) / 65535,
				W: float32(ca) / 65535,
			}
		}
	}
	return r
}
