package atlas

import (
	"image"
	"image/color"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
	"github.com/MeKo-Tech/watercolormap/internal/mesh"
)

// blitAndRemap copies every packed crop's pixels into a single atlas
// image, stamps an index image recording which source pair contributed
// each texel (0 = untouched), and concatenates the patches' meshes with
// UVs remapped from source-image space into the shared atlas's [0,1]
// space (spec.md §4.G steps 4-5).
func blitAndRemap(packed []packedPatch, atlasW, atlasH int) (*mesh.Mesh, *image.NRGBA, *image.Gray) {
	atlasImg := image.NewNRGBA(image.Rect(0, 0, atlasW, atlasH))
	indexImg := image.NewGray(image.Rect(0, 0, atlasW, atlasH))

	out := mesh.New(true, true, false)
	for _, pp := range packed {
		c := pp.crop
		for y := 0; y < c.height; y++ {
			for x := 0; x < c.width; x++ {
				dx, dy := x, y
				if pp.rotated {
					dx, dy = y, c.height-1-x
				}
				px := atlasImg.Bounds().Min.X + pp.x + dx
				py := atlasImg.Bounds().Min.Y + pp.y + dy
				atlasImg.Set(px, py, c.image.At(x, y))
				indexImg.SetGray(px, py, grayIndex(c.patch.sourceIdx))
			}
		}

		base := len(out.Vertices)
		for _, v := range c.patch.verts {
			localX := v.UV.X*float64(c.srcW) - float64(c.originX)
			localY := v.UV.Y*float64(c.srcH) - float64(c.originY)
			ax, ay := localX, localY
			if pp.rotated {
				ax, ay = localY, float64(c.height)-1-localX
			}
			nv := v
			nv.UV = geom.Vec2{
				X: (float64(pp.x) + ax) / float64(atlasW),
				Y: (float64(pp.y) + ay) / float64(atlasH),
			}
			out.Vertices = append(out.Vertices, nv)
		}
		for _, f := range c.patch.faces {
			out.Faces = append(out.Faces, mesh.Face{P0: f.P0 + base, P1: f.P1 + base, P2: f.P2 + base})
		}
	}

	return out, atlasImg, indexImg
}

func grayIndex(sourceIdx int) color.Gray {
	v := sourceIdx + 1
	if v > 255 {
		v = 255
	}
	return color.Gray{Y: uint8(v)}
}
