// Package config binds the tiler's options (spec.md §6) from viper,
// following the same flag/viper-key binding table idiom the teacher's
// generate command uses.
package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// TilerConfig mirrors spec.md §6's full option table. Fields use plain
// strings for enum-valued options so this package has no dependency on
// internal/tiler; tiler.ConfigFromTilerConfig (internal/tiler/fromconfig.go)
// parses them.
type TilerConfig struct {
	Project                string
	DataSource             string
	OutputDir              string
	Scheme                 string
	MaxFacesPerTile        int
	MinTileExtent          float64
	MaxDepth               int
	MaxLeafArea            float64
	MaxOrbitalLeafArea     float64
	MaxTextureResolution   int
	MaxTexelsPerMeter      float64
	MaxTextureStretch      float64
	PowerOfTwoTextures     bool
	TextureMode            string
	SkirtMode              string
	SkirtRelHeight         float64
	SkirtMinAbsHeight      float64
	SkirtMaxAbsHeight      float64
	SkirtThresholdRel      float64
	SkirtInvert            bool
	ReconstructionMethod   string
	AllowRotation          bool
	BorderPixels           int
	MaxRetries             int
	Workers                int
	CacheSize              int
	ObjectStorePath        string
	BlobStorePath          string
	Recreate               bool
}

// Default returns the tiler's option defaults.
func Default() TilerConfig {
	return TilerConfig{
		OutputDir:            "./tiles",
		Scheme:               "Quadtree",
		MaxFacesPerTile:      100000,
		MinTileExtent:        1,
		MaxDepth:             20,
		MaxLeafArea:          1e9,
		MaxOrbitalLeafArea:   1e12,
		MaxTextureResolution: 4096,
		MaxTexelsPerMeter:    512,
		TextureMode:          "Clip",
		SkirtMode:            "Normal",
		SkirtRelHeight:       0.1,
		ReconstructionMethod: "Organized",
		BorderPixels:         2,
		MaxRetries:           3,
		Workers:              4,
		CacheSize:            512,
		ObjectStorePath:      "./tiles/index.db",
		BlobStorePath:        "./tiles/blobs",
	}
}

// bindTable pairs a viper key with the pflag that feeds it, matching the
// teacher's generate.go binding-table idiom.
type bindTable struct {
	key  string
	flag string
}

// BindFlags registers every TilerConfig option as a persistent flag on
// cmd and binds it into viper under the "tile." namespace.
func BindFlags(cmd *cobra.Command) error {
	d := Default()
	flags := cmd.PersistentFlags()

	flags.String("project", "", "project name")
	flags.String("data-source", "", "source imagery/point-cloud directory")
	flags.String("output-dir", d.OutputDir, "output directory for generated tiles")
	flags.String("scheme", d.Scheme, "tiling scheme (Octree, Quadtree, QuadAuto, Flat, UserDefined)")
	flags.Int("max-faces-per-tile", d.MaxFacesPerTile, "split a node once its face count exceeds this")
	flags.Float64("min-tile-extent", d.MinTileExtent, "nodes whose bounds diagonal is at or below this are not split")
	flags.Int("max-depth", d.MaxDepth, "maximum bounds-tree depth")
	flags.Float64("max-leaf-area", d.MaxLeafArea, "surface leaf-area split threshold")
	flags.Float64("max-orbital-leaf-area", d.MaxOrbitalLeafArea, "orbital leaf-area split threshold")
	flags.Int("max-texture-resolution", d.MaxTextureResolution, "maximum atlas texture edge length")
	flags.Float64("max-texels-per-meter", d.MaxTexelsPerMeter, "texel density driving texture-resolution splits")
	flags.Float64("max-texture-stretch", d.MaxTextureStretch, "maximum UV stretch; stored in the tiler config, not read by the atlas packer")
	flags.Bool("power-of-two-textures", false, "round atlas dimensions up to powers of two")
	flags.String("texture-mode", d.TextureMode, "texture mode (None, Bake, Clip, Backproject)")
	flags.String("skirt-mode", d.SkirtMode, "skirt offset axis (X, Y, Z, Normal, None)")
	flags.Float64("skirt-rel-height", d.SkirtRelHeight, "skirt height as a fraction of the mesh's extent along the skirt axis (its diagonal in Normal mode)")
	flags.Float64("skirt-min-abs-height", d.SkirtMinAbsHeight, "absolute floor on skirt height")
	flags.Float64("skirt-max-abs-height", d.SkirtMaxAbsHeight, "absolute ceiling on skirt height")
	flags.Float64("skirt-threshold-rel", d.SkirtThresholdRel, "fraction of the skirt height within which skirt vertices are merged")
	flags.Bool("skirt-invert", false, "invert the skirt offset direction")
	flags.String("reconstruction-method", d.ReconstructionMethod, "surface reconstruction method (Organized, Poisson, FSSR)")
	flags.Bool("allow-rotation", false, "allow 90-degree rotation during atlas packing")
	flags.Int("border-pixels", d.BorderPixels, "inpainted border width around each atlas patch")
	flags.Int("max-retries", d.MaxRetries, "tile build retries before marking a node failed")
	flags.Int("workers", d.Workers, "worker pool size")
	flags.Int("cache-size", d.CacheSize, "LRU cache entry limit")
	flags.String("object-store-path", d.ObjectStorePath, "sqlite database path for tile-tree bookkeeping")
	flags.String("blob-store-path", d.BlobStorePath, "directory for mesh/image blob storage")
	flags.Bool("recreate", false, "delete and rebuild the project from scratch")

	table := []bindTable{
		{"tile.project", "project"},
		{"tile.data-source", "data-source"},
		{"tile.output-dir", "output-dir"},
		{"tile.scheme", "scheme"},
		{"tile.max-faces-per-tile", "max-faces-per-tile"},
		{"tile.min-tile-extent", "min-tile-extent"},
		{"tile.max-depth", "max-depth"},
		{"tile.max-leaf-area", "max-leaf-area"},
		{"tile.max-orbital-leaf-area", "max-orbital-leaf-area"},
		{"tile.max-texture-resolution", "max-texture-resolution"},
		{"tile.max-texels-per-meter", "max-texels-per-meter"},
		{"tile.max-texture-stretch", "max-texture-stretch"},
		{"tile.power-of-two-textures", "power-of-two-textures"},
		{"tile.texture-mode", "texture-mode"},
		{"tile.skirt-mode", "skirt-mode"},
		{"tile.skirt-rel-height", "skirt-rel-height"},
		{"tile.skirt-min-abs-height", "skirt-min-abs-height"},
		{"tile.skirt-max-abs-height", "skirt-max-abs-height"},
		{"tile.skirt-threshold-rel", "skirt-threshold-rel"},
		{"tile.skirt-invert", "skirt-invert"},
		{"tile.reconstruction-method", "reconstruction-method"},
		{"tile.allow-rotation", "allow-rotation"},
		{"tile.border-pixels", "border-pixels"},
		{"tile.max-retries", "max-retries"},
		{"tile.workers", "workers"},
		{"tile.cache-size", "cache-size"},
		{"tile.object-store-path", "object-store-path"},
		{"tile.blob-store-path", "blob-store-path"},
		{"tile.recreate", "recreate"},
	}
	for _, b := range table {
		if err := viper.BindPFlag(b.key, flags.Lookup(b.flag)); err != nil {
			return fmt.Errorf("config: bind flag %s: %w", b.flag, err)
		}
	}
	return nil
}

// FromViper reads every bound "tile.*" key into a TilerConfig.
func FromViper() TilerConfig {
	return TilerConfig{
		Project:              viper.GetString("tile.project"),
		DataSource:           viper.GetString("tile.data-source"),
		OutputDir:            viper.GetString("tile.output-dir"),
		Scheme:               viper.GetString("tile.scheme"),
		MaxFacesPerTile:      viper.GetInt("tile.max-faces-per-tile"),
		MinTileExtent:        viper.GetFloat64("tile.min-tile-extent"),
		MaxDepth:             viper.GetInt("tile.max-depth"),
		MaxLeafArea:          viper.GetFloat64("tile.max-leaf-area"),
		MaxOrbitalLeafArea:   viper.GetFloat64("tile.max-orbital-leaf-area"),
		MaxTextureResolution: viper.GetInt("tile.max-texture-resolution"),
		MaxTexelsPerMeter:    viper.GetFloat64("tile.max-texels-per-meter"),
		MaxTextureStretch:    viper.GetFloat64("tile.max-texture-stretch"),
		PowerOfTwoTextures:   viper.GetBool("tile.power-of-two-textures"),
		TextureMode:          viper.GetString("tile.texture-mode"),
		SkirtMode:            viper.GetString("tile.skirt-mode"),
		SkirtRelHeight:       viper.GetFloat64("tile.skirt-rel-height"),
		SkirtMinAbsHeight:    viper.GetFloat64("tile.skirt-min-abs-height"),
		SkirtMaxAbsHeight:    viper.GetFloat64("tile.skirt-max-abs-height"),
		SkirtThresholdRel:    viper.GetFloat64("tile.skirt-threshold-rel"),
		SkirtInvert:          viper.GetBool("tile.skirt-invert"),
		ReconstructionMethod: viper.GetString("tile.reconstruction-method"),
		AllowRotation:        viper.GetBool("tile.allow-rotation"),
		BorderPixels:         viper.GetInt("tile.border-pixels"),
		MaxRetries:           viper.GetInt("tile.max-retries"),
		Workers:              viper.GetInt("tile.workers"),
		CacheSize:            viper.GetInt("tile.cache-size"),
		ObjectStorePath:      viper.GetString("tile.object-store-path"),
		BlobStorePath:        viper.GetString("tile.blob-store-path"),
		Recreate:             viper.GetBool("tile.recreate"),
	}
}
