package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/watercolormap/internal/tiler"
)

var defineTilesCmd = &cobra.Command{
	Use:   "define-tiles",
	Short: "Build the bounds tree for a project and persist every node",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.objects.Close()

		sourceMesh, _, err := buildSourceMesh(rt.tcfg)
		if err != nil {
			return err
		}

		root := sourceMesh.Bounds()
		ops := []tiler.MeshOperator{tiler.InMemoryOperator{Mesh: sourceMesh}}
		nodes := tiler.BuildBoundsTree(rt.cfg.Project, root, ops, rt.tcfg)

		if err := rt.objects.SaveNodes(nodes); err != nil {
			return fmt.Errorf("define-tiles: save nodes: %w", err)
		}
		rt.log.Info("define-tiles complete", "project", rt.cfg.Project, "nodes", len(nodes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(defineTilesCmd)
}
