package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/watercolormap/internal/mesh"
	"github.com/MeKo-Tech/watercolormap/internal/tiler"
)

var buildParentNodeID string

var buildParentCmd = &cobra.Command{
	Use:   "build-parent",
	Short: "Build one parent node from its already-built children",
	RunE: func(cmd *cobra.Command, args []string) error {
		if buildParentNodeID == "" {
			return fmt.Errorf("--node-id is required")
		}
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.objects.Close()

		nodes, err := rt.objects.LoadProject(rt.cfg.Project)
		if err != nil {
			return err
		}
		node, ok := nodes[buildParentNodeID]
		if !ok {
			return fmt.Errorf("build-parent: node %s not found", buildParentNodeID)
		}
		children := make([]*tiler.TileNode, 0, len(node.DependsOn))
		for _, id := range node.DependsOn {
			children = append(children, nodes[id])
		}

		parentBuild := tiler.NewParentBuilder(rt.blobs, rt.blobs, mesh.DecimateByClustering, rt.tcfg.MaxFacesPerTile)
		if err := parentBuild(context.Background(), node, children); err != nil {
			return fmt.Errorf("build-parent: %w", err)
		}
		node.Status = tiler.StatusCompleted

		if err := rt.objects.SaveNode(node); err != nil {
			return err
		}
		rt.log.Info("build-parent complete", "project", rt.cfg.Project, "node", node.ID)
		return nil
	},
}

func init() {
	buildParentCmd.Flags().StringVar(&buildParentNodeID, "node-id", "", "id of the parent node to build")
	rootCmd.AddCommand(buildParentCmd)
}
