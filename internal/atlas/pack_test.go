package atlas

import (
	"image"
	"image/color"
	"testing"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
	"github.com/MeKo-Tech/watercolormap/internal/mesh"
)

// quadPatchCrop builds a patchCrop for a single triangle whose UVs span
// the full unit square, cropped from a wxh solid-colored source image —
// standing in for S6's "one triangle with a 4x4 pixel UV patch" inputs.
func quadPatchCrop(sourceIdx, w, h int, fill color.NRGBA) patchCrop {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	p := patch{
		sourceIdx: sourceIdx,
		verts: []mesh.Vertex{
			{UV: geom.Vec2{X: 0, Y: 0}},
			{UV: geom.Vec2{X: 1, Y: 0}},
			{UV: geom.Vec2{X: 0, Y: 1}},
		},
		faces:      []mesh.Face{{P0: 0, P1: 1, P2: 2}},
		uvBoundsPx: geom.AABB{Min: geom.Vec3{X: 0, Y: 0}, Max: geom.Vec3{X: 1, Y: 1}},
	}
	return cropPatch(p, img)
}

// TestPackPatches_S6 covers S6: two 4x4 patches pack into an atlas at
// least 8x8, both present without overlap.
func TestPackPatches_S6(t *testing.T) {
	crops := []patchCrop{
		quadPatchCrop(0, 4, 4, color.NRGBA{R: 255, A: 255}),
		quadPatchCrop(1, 4, 4, color.NRGBA{G: 255, A: 255}),
	}
	opts := Options{MaxTextureSize: 4096, AllowRotation: true}.normalized()

	packed, w, h := packPatches(crops, opts)
	if len(packed) != 2 {
		t.Fatalf("expected 2 packed patches, got %d", len(packed))
	}
	if w < 8 || h < 8 {
		t.Errorf("expected atlas at least 8x8, got %dx%d", w, h)
	}
	if w&(w-1) != 0 || h&(h-1) != 0 {
		t.Errorf("expected power-of-two atlas dims, got %dx%d", w, h)
	}

	a, b := packed[0], packed[1]
	aw, ah := a.crop.width, a.crop.height
	if a.rotated {
		aw, ah = ah, aw
	}
	bw, bh := b.crop.width, b.crop.height
	if b.rotated {
		bw, bh = bh, bw
	}
	overlapX := a.x < b.x+bw && b.x < a.x+aw
	overlapY := a.y < b.y+bh && b.y < a.y+ah
	if overlapX && overlapY {
		t.Errorf("patches overlap: a=%+v b=%+v", a, b)
	}
	for _, pp := range packed {
		ppw, pph := pp.crop.width, pp.crop.height
		if pp.rotated {
			ppw, pph = pph, ppw
		}
		if pp.x < 0 || pp.y < 0 || pp.x+ppw > w || pp.y+pph > h {
			t.Errorf("patch %+v falls outside atlas bounds %dx%d", pp, w, h)
		}
	}
}

// TestBlitAndRemap_UVValidity covers invariant 9: after blit-and-remap
// every output vertex UV lies in [0,1].
func TestBlitAndRemap_UVValidity(t *testing.T) {
	crops := []patchCrop{
		quadPatchCrop(0, 4, 4, color.NRGBA{R: 255, A: 255}),
		quadPatchCrop(1, 4, 4, color.NRGBA{G: 255, A: 255}),
	}
	opts := Options{MaxTextureSize: 4096, AllowRotation: true}.normalized()
	packed, w, h := packPatches(crops, opts)

	out, atlasImg, indexImg := blitAndRemap(packed, w, h)

	for i, v := range out.Vertices {
		if v.UV.X < 0 || v.UV.X > 1 || v.UV.Y < 0 || v.UV.Y > 1 {
			t.Errorf("vertex %d UV %v outside [0,1]", i, v.UV)
		}
	}
	if atlasImg.Bounds().Dx() != w || atlasImg.Bounds().Dy() != h {
		t.Errorf("atlas image dims %v do not match packer dims %dx%d", atlasImg.Bounds(), w, h)
	}
	if indexImg.Bounds().Dx() != w || indexImg.Bounds().Dy() != h {
		t.Errorf("index image dims %v do not match packer dims %dx%d", indexImg.Bounds(), w, h)
	}
}
