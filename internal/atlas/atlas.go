// Package atlas implements the textured mesh clipper and atlas packer of
// spec.md §4.G: per-input clip, UV-patch flood fill via a spatial index,
// shelf bin packing (not best-fit), inpainting, and final resize.
package atlas

import (
	"image"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
	"github.com/MeKo-Tech/watercolormap/internal/mesh"
)

// InvalidAtlasValue re-exports mesh.InvalidAtlasValue, the hole sentinel
// written by mesh.MergeMeshesAndTextures. Clip does not write it: texels
// no patch blit covers stay transparent until Inpaint fills them.
const InvalidAtlasValue = mesh.InvalidAtlasValue

// MeshImagePair is one input to the clipper: a mesh with UVs referencing
// Image in source-image pixel space.
type MeshImagePair struct {
	Mesh  *mesh.Mesh
	Image image.Image
}

// Options configures Clip per spec.md §6's atlas-related knobs.
type Options struct {
	MaxTextureSize     int
	MaxTexelsPerMeter  float64
	BorderPixels       int
	AllowRotation      bool
	PowerOfTwoTextures bool
	MaxBinArea         int
}

func (o Options) normalized() Options {
	if o.MaxTextureSize <= 0 {
		o.MaxTextureSize = 4096
	}
	if o.BorderPixels <= 0 {
		o.BorderPixels = 2
	}
	if o.MaxBinArea <= 0 {
		o.MaxBinArea = 64 * 1024 * 1024
	}
	return o
}

// Clip implements spec.md §4.G end to end: clip each input to box, flood
// fill into UV patches, crop, bin-pack into one atlas, blit, remap UVs,
// clean the merged mesh, inpaint, and resize.
func Clip(pairs []MeshImagePair, box geom.AABB, opts Options) (*mesh.Mesh, *image.NRGBA, *image.Gray, error) {
	opts = opts.normalized()

	var allPatches []patch
	var sourceImages []image.Image
	for pairIdx, pair := range pairs {
		clipped := pair.Mesh.Clip(box, false)
		if clipped.IsPointCloud() {
			continue
		}
		patches := buildPatches(clipped, pairIdx, opts.BorderPixels)
		allPatches = append(allPatches, patches...)
		sourceImages = append(sourceImages, pair.Image)
	}

	if len(allPatches) == 0 {
		return mesh.New(false, false, false), image.NewNRGBA(image.Rect(0, 0, 1, 1)), image.NewGray(image.Rect(0, 0, 1, 1)), nil
	}

	crops := make([]patchCrop, len(allPatches))
	for i, p := range allPatches {
		crops[i] = cropPatch(p, sourceImages[p.sourceIdx])
	}

	packed, atlasW, atlasH := packPatches(crops, opts)

	merged, atlasImg, indexImg := blitAndRemap(packed, atlasW, atlasH)

	merged.Clean(false, false)

	inpainted := Inpaint(atlasImg, indexImg)
	resizedMesh, resizedAtlas, resizedIndex := resizeToLimit(merged, inpainted, indexImg, opts.MaxTextureSize)

	return resizedMesh, resizedAtlas, resizedIndex, nil
}
