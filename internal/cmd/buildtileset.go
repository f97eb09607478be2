package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/watercolormap/internal/tiler"
)

var buildTilesetCmd = &cobra.Command{
	Use:   "build-tileset",
	Short: "Write the final tileset manifest for a completed project",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.objects.Close()

		nodes, err := rt.objects.LoadProject(rt.cfg.Project)
		if err != nil {
			return err
		}

		build := tiler.NewTilesetBuilder(func(project string, data []byte) error {
			path := filepath.Join(rt.cfg.OutputDir, project, "tileset.json")
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			return os.WriteFile(path, data, 0o644)
		})
		if err := build(context.Background(), nodes); err != nil {
			return err
		}
		rt.log.Info("build-tileset complete", "project", rt.cfg.Project)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildTilesetCmd)
}
