package atlas

import "sort"

// packedPatch is a patchCrop placed at a concrete atlas offset.
type packedPatch struct {
	crop     patchCrop
	x, y     int
	rotated  bool
}

// packPatches places every crop into a single atlas using a shelf
// (skyline) bin packer: sort tallest-first, pack left to right along
// growing shelves, and grow the atlas by doubling whichever dimension is
// currently smaller until everything fits or MaxTextureSize is hit
// (Design Notes §9: prefer growing the smaller dimension so the atlas
// stays close to square). Rotation is only attempted when
// opts.AllowRotation is set, and only 90 degrees, to keep remap trivial.
func packPatches(crops []patchCrop, opts Options) ([]packedPatch, int, int) {
	order := make([]int, len(crops))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return crops[order[a]].height > crops[order[b]].height
	})

	atlasW, atlasH := 64, 64
	for {
		packed, ok := tryPack(crops, order, atlasW, atlasH, opts.AllowRotation)
		if ok {
			return packed, atlasW, atlasH
		}
		if atlasW <= atlasH {
			atlasW *= 2
		} else {
			atlasH *= 2
		}
		if atlasW > opts.MaxTextureSize || atlasH > opts.MaxTextureSize {
			if atlasW > opts.MaxTextureSize {
				atlasW = opts.MaxTextureSize
			}
			if atlasH > opts.MaxTextureSize {
				atlasH = opts.MaxTextureSize
			}
			packed, _ := tryPack(crops, order, atlasW, atlasH, opts.AllowRotation)
			return packed, atlasW, atlasH
		}
	}
}

// tryPack attempts a shelf pack at the given atlas size, returning false
// if any patch does not fit.
func tryPack(crops []patchCrop, order []int, atlasW, atlasH int, allowRotation bool) ([]packedPatch, bool) {
	packed := make([]packedPatch, 0, len(crops))
	shelfY := 0
	shelfHeight := 0
	cursorX := 0

	for _, idx := range order {
		c := crops[idx]
		w, h, rotated := c.width, c.height, false
		if allowRotation && w > h && h <= atlasW-cursorX {
			// rotating a wide crop makes it narrower (and taller), so it
			// fits in the shelf's remaining width
			w, h, rotated = c.height, c.width, true
		}

		if cursorX+w > atlasW {
			shelfY += shelfHeight
			cursorX = 0
			shelfHeight = 0
		}
		if cursorX+w > atlasW || shelfY+h > atlasH {
			return nil, false
		}

		packed = append(packed, packedPatch{crop: c, x: cursorX, y: shelfY, rotated: rotated})
		cursorX += w
		if h > shelfHeight {
			shelfHeight = h
		}
	}
	return packed, true
}
