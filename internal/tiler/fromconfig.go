package tiler

import "github.com/MeKo-Tech/watercolormap/internal/config"

// ConfigFromTilerConfig parses an internal/config.TilerConfig's string
// enum fields into a tiler.Config, defaulting unrecognized enum values to
// the safest conservative choice rather than erroring, since these come
// from user-supplied CLI flags or config files.
func ConfigFromTilerConfig(c config.TilerConfig) Config {
	return Config{
		Scheme:               parseScheme(c.Scheme),
		MaxFacesPerTile:      c.MaxFacesPerTile,
		MinTileExtent:        c.MinTileExtent,
		MaxDepth:             c.MaxDepth,
		MaxLeafArea:          c.MaxLeafArea,
		MaxOrbitalLeafArea:   c.MaxOrbitalLeafArea,
		MaxTextureResolution: c.MaxTextureResolution,
		MaxTexelsPerMeter:    c.MaxTexelsPerMeter,
		MaxTextureStretch:    c.MaxTextureStretch,
		PowerOfTwoTextures:   c.PowerOfTwoTextures,
		TextureMode:          parseTextureMode(c.TextureMode),
		Skirt: SkirtOptions{
			Mode:         parseSkirtMode(c.SkirtMode),
			RelHeight:    c.SkirtRelHeight,
			MinAbsHeight: c.SkirtMinAbsHeight,
			MaxAbsHeight: c.SkirtMaxAbsHeight,
			ThresholdRel: c.SkirtThresholdRel,
			Invert:       c.SkirtInvert,
		},
		ReconstructionMethod: c.ReconstructionMethod,
		AllowRotation:        c.AllowRotation,
		BorderPixels:         c.BorderPixels,
		MaxRetries:           c.MaxRetries,
		ChunkFaceMultiplier:  10,
	}
}

func parseScheme(s string) TilingScheme {
	switch TilingScheme(s) {
	case SchemeOctree, SchemeQuadtree, SchemeQuadAuto, SchemeFlat, SchemeUserDefined:
		return TilingScheme(s)
	default:
		return SchemeQuadtree
	}
}

func parseTextureMode(s string) TextureMode {
	switch TextureMode(s) {
	case TextureNone, TextureBake, TextureClip, TextureBackproject:
		return TextureMode(s)
	default:
		return TextureClip
	}
}

func parseSkirtMode(s string) SkirtMode {
	switch SkirtMode(s) {
	case SkirtX, SkirtY, SkirtZ, SkirtNormal, SkirtNone:
		return SkirtMode(s)
	default:
		return SkirtNormal
	}
}
