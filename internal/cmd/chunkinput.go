package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/watercolormap/internal/tiler"
)

var chunkInputCmd = &cobra.Command{
	Use:   "chunk-input",
	Short: "Walk the source raster in bounded chunks, reporting coverage",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.objects.Close()

		grid := tiler.NewChunkGrid(512, 512)
		count := 0
		op := tiler.ChunkInput{Grid: grid, Load: func(minX, minY, maxX, maxY int) error {
			col, row := minX/grid.ChunkSize, minY/grid.ChunkSize
			count++
			rt.log.Debug("chunk", "id", grid.ChunkID(col, row), "minX", minX, "minY", minY, "maxX", maxX, "maxY", maxY)
			return nil
		}}
		if err := op.Run(); err != nil {
			return fmt.Errorf("chunk-input: %w", err)
		}
		rt.log.Info("chunk-input complete", "project", rt.cfg.Project, "chunks", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chunkInputCmd)
}
