// Package raster renders scene.Raster observation bands into addressable
// image chunks, generalizing the teacher's lon/lat-to-pixel renderer from
// OSM vector layers to rover range/points/normals/mask/texture bands
// (spec.md §4.F, §6 "Sparse image chunks").
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/MeKo-Tech/watercolormap/internal/scene"
)

// Band selects which observation channel to rasterize to an image.
type Band string

const (
	BandTexture Band = "texture"
	BandRange   Band = "range"
	BandNormals Band = "normals"
	BandMask    Band = "mask"
)

// Renderer rasterizes a scene.Raster band into a standard image, matching
// the teacher's pattern of a small struct configured once then reused
// across many render calls.
type Renderer struct {
	fillColor color.NRGBA
}

func NewRenderer() *Renderer {
	return &Renderer{fillColor: color.NRGBA{A: 0}}
}

// RenderBand produces an image.Image for the given band. Range is encoded
// as grayscale normalized to its own min/max; normals are encoded as
// signed-to-unsigned RGB; mask is black/white; texture is copied through.
func (rr *Renderer) RenderBand(r scene.Raster, band Band) image.Image {
	switch band {
	case BandTexture:
		return rr.renderTexture(r)
	case BandRange:
		return rr.renderRange(r)
	case BandNormals:
		return rr.renderNormals(r)
	case BandMask:
		return rr.renderMask(r)
	default:
		return image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	}
}

func (rr *Renderer) renderTexture(r scene.Raster) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			if !r.ValidAt(y, x) {
				img.SetNRGBA(x, y, rr.fillColor)
				continue
			}
			c := r.TextureAt(y, x)
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(clamp01(float64(c.X)) * 255),
				G: uint8(clamp01(float64(c.Y)) * 255),
				B: uint8(clamp01(float64(c.Z)) * 255),
				A: uint8(clamp01(float64(c.W)) * 255),
			})
		}
	}
	return img
}

func (rr *Renderer) renderRange(r scene.Raster) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	minV, maxV := math.Inf(1), math.Inf(-1)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			if !r.ValidAt(y, x) {
				continue
			}
			v := r.RangeAt(y, x)
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}
	span := maxV - minV
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			if !r.ValidAt(y, x) || span <= 0 {
				continue
			}
			v := (r.RangeAt(y, x) - minV) / span
			img.SetGray(x, y, color.Gray{Y: uint8(clamp01(v) * 255)})
		}
	}
	return img
}

func (rr *Renderer) renderNormals(r scene.Raster) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			if !r.ValidAt(y, x) {
				continue
			}
			n := r.NormalAt(y, x)
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(clamp01(float64(n.X)*0.5+0.5) * 255),
				G: uint8(clamp01(float64(n.Y)*0.5+0.5) * 255),
				B: uint8(clamp01(float64(n.Z)*0.5+0.5) * 255),
				A: 255,
			})
		}
	}
	return img
}

func (rr *Renderer) renderMask(r scene.Raster) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			if r.ValidAt(y, x) {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
