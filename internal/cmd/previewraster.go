package cmd

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/watercolormap/internal/raster"
)

var previewRasterOutDir string

var previewRasterCmd = &cobra.Command{
	Use:   "preview-raster",
	Short: "Render the source geometry raster's bands to PNGs for inspection",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := sourceRaster()
		rr := raster.NewRenderer()

		if err := os.MkdirAll(previewRasterOutDir, 0o755); err != nil {
			return err
		}
		for _, band := range []raster.Band{raster.BandTexture, raster.BandRange, raster.BandNormals, raster.BandMask} {
			img := rr.RenderBand(r, band)
			path := filepath.Join(previewRasterOutDir, fmt.Sprintf("%s.png", band))
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			err = png.Encode(f, img)
			f.Close()
			if err != nil {
				return err
			}
			logger.Info("preview-raster wrote band", "band", band, "path", path)
		}
		return nil
	},
}

func init() {
	previewRasterCmd.Flags().StringVar(&previewRasterOutDir, "out", "./preview", "directory to write band PNGs to")
	rootCmd.AddCommand(previewRasterCmd)
}
