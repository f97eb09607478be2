package atlas

import (
	"image"
	"image/color"

	"github.com/disintegration/gift"
)

// invalidAlphaThreshold marks a pixel as a hole: alpha below this value
// means no patch wrote color there.
const invalidAlphaThreshold = 8

// Inpaint fills holes in atlasImg (pixels with near-zero alpha, i.e. no
// patch ever wrote them) by repeatedly averaging in valid neighbors, the
// same "grow outward from the known region" shape as a distance-transform
// edge fill, then lightly blurs the result so patch seams don't show a
// hard edge (spec.md §4.G step 6). indexImg pixels are never touched:
// an index of zero already means "no contributing patch" and must stay
// that way for samplers to detect holes.
func Inpaint(atlasImg *image.NRGBA, indexImg *image.Gray) *image.NRGBA {
	bounds := atlasImg.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	valid := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := atlasImg.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			valid[y*w+x] = a > invalidAlphaThreshold<<8
		}
	}

	out := cloneNRGBA(atlasImg)
	const maxPasses = 64
	for pass := 0; pass < maxPasses; pass++ {
		remaining := 0
		next := make([]bool, w*h)
		copy(next, valid)
		changed := false
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				idx := y*w + x
				if valid[idx] {
					continue
				}
				remaining++
				sr, sg, sb, n := 0, 0, 0, 0
				for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
					nx, ny := x+d[0], y+d[1]
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					nidx := ny*w + nx
					if !valid[nidx] {
						continue
					}
					c := out.NRGBAAt(bounds.Min.X+nx, bounds.Min.Y+ny)
					sr += int(c.R)
					sg += int(c.G)
					sb += int(c.B)
					n++
				}
				if n > 0 {
					out.SetNRGBA(bounds.Min.X+x, bounds.Min.Y+y, color.NRGBA{
						R: uint8(sr / n), G: uint8(sg / n), B: uint8(sb / n), A: 255,
					})
					next[idx] = true
					changed = true
				}
			}
		}
		valid = next
		if !changed || remaining == 0 {
			break
		}
	}

	g := gift.New(gift.GaussianBlur(0.6))
	blurred := image.NewNRGBA(bounds)
	g.Draw(blurred, out)

	final := cloneNRGBA(atlasImg)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			px := bounds.Min.X + x
			py := bounds.Min.Y + y
			if valid[idx] {
				if wasOriginallyInvalid(atlasImg, px, py) {
					final.Set(px, py, blurred.At(px, py))
				}
			}
		}
	}
	return final
}

func wasOriginallyInvalid(img *image.NRGBA, x, y int) bool {
	_, _, _, a := img.NRGBAAt(x, y).RGBA()
	return a <= invalidAlphaThreshold<<8
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}
