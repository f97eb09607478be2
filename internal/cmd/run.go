package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/watercolormap/internal/tiler"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: define tiles, build leaves and parents, write the tileset",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.objects.Close()

		sourceMesh, pairs, err := buildSourceMesh(rt.tcfg)
		if err != nil {
			return err
		}

		root := sourceMesh.Bounds()
		ops := []tiler.MeshOperator{tiler.InMemoryOperator{Mesh: sourceMesh}}
		nodes := tiler.BuildBoundsTree(rt.cfg.Project, root, ops, rt.tcfg)
		for _, n := range nodes {
			n.Project = rt.cfg.Project
		}

		coordinator := rt.buildCoordinator(context.Background(), sourceMesh, pairs, nodes)
		coordinator.BuildSet = tiler.NewTilesetBuilder(func(project string, data []byte) error {
			path := filepath.Join(rt.cfg.OutputDir, project, "tileset.json")
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			return os.WriteFile(path, data, 0o644)
		})

		if err := coordinator.Run(context.Background()); err != nil {
			return err
		}
		if err := rt.objects.SaveNodes(nodes); err != nil {
			return err
		}
		rt.log.Info("run complete", "project", rt.cfg.Project, "nodes", len(nodes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
