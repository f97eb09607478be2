package mesh

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
)

// InvalidAtlasValue is the sentinel value written into zero-valued atlas
// pixels so downstream samplers can detect holes. spec.md's Open Questions
// call this out explicitly as a constant not to be changed.
const InvalidAtlasValue = 0.3

// TexturedMesh pairs a mesh with the image that its UVs sample from.
type TexturedMesh struct {
	Mesh    *Mesh
	Texture image.Image
}

// MergeMeshesAndTextures implements spec.md §4.B: lays every input's
// texture into a grid cell of a single atlas, remaps UVs linearly into
// that cell, and concatenates the meshes. Every input texture is drawn
// into the NRGBA atlas, so single-band inputs are replicated across RGB;
// inputs with differing band layouts are all converted this way and none
// is rejected. The only error is that no input carries a texture.
func MergeMeshesAndTextures(pairs []TexturedMesh) (*Mesh, *image.NRGBA, error) {
	n := 0
	maxW, maxH := 0, 0
	for _, p := range pairs {
		if p.Texture == nil {
			continue
		}
		n++
		b := p.Texture.Bounds()
		if b.Dx() > maxW {
			maxW = b.Dx()
		}
		if b.Dy() > maxH {
			maxH = b.Dy()
		}
	}
	if n == 0 {
		return &Mesh{}, nil, fmt.Errorf("mesh: MergeMeshesAndTextures: no textured inputs")
	}

	cols := int(math.Floor(math.Sqrt(float64(n))))
	if cols < 1 {
		cols = 1
	}
	rows := int(math.Ceil(float64(n) / float64(cols)))

	atlasW := cols * maxW
	atlasH := rows * maxH
	atlas := image.NewNRGBA(image.Rect(0, 0, atlasW, atlasH))

	meshes := make([]*Mesh, 0, len(pairs))
	cell := 0
	for _, p := range pairs {
		if p.Texture == nil {
			continue
		}
		row := cell / cols
		col := cell % cols
		cell++

		dstRect := image.Rect(col*maxW, row*maxH, col*maxW+maxW, row*maxH+maxH)
		draw.Draw(atlas, image.Rect(dstRect.Min.X, dstRect.Min.Y, dstRect.Min.X+p.Texture.Bounds().Dx(), dstRect.Min.Y+p.Texture.Bounds().Dy()), p.Texture, p.Texture.Bounds().Min, draw.Src)

		u0 := float64(col) / float64(cols)
		v0 := float64(row) / float64(rows)
		u1 := float64(col+1) / float64(cols)
		v1 := float64(row+1) / float64(rows)

		m := p.Mesh.Clone()
		for i := range m.Vertices {
			uv := m.Vertices[i].UV
			m.Vertices[i].UV = geom.Vec2{
				X: u0 + uv.X*(u1-u0),
				Y: v0 + uv.Y*(v1-v0),
			}
		}
		meshes = append(meshes, m)
	}

	replaceZeroPixelsWithSentinel(atlas)

	merged, err := Join(meshes, false)
	if err != nil {
		return nil, nil, err
	}
	return merged, atlas, nil
}

// replaceZeroPixelsWithSentinel rewrites fully-zero pixels (unwritten
// atlas background) with the INVALID_ATLAS_VALUE sentinel per band, per
// spec.md's Open Question: preserve this behavior unconditionally.
func replaceZeroPixelsWithSentinel(img *image.NRGBA) {
	sentinel := uint8(InvalidAtlasValue * 255)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if c.R == 0 && c.G == 0 && c.B == 0 && c.A == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: sentinel, G: sentinel, B: sentinel, A: 255})
			}
		}
	}
}
