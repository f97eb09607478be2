package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/watercolormap/internal/atlas"
	"github.com/MeKo-Tech/watercolormap/internal/tiler"
)

var buildLeavesCmd = &cobra.Command{
	Use:   "build-leaves",
	Short: "Build mesh and texture for every pending leaf node",
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
		_, pairs, err := buildSourceMesh(rt.tcfg)
		if err != nil {
			return err
		}

		leafBuild := tiler.NewLeafBuilder(tiler.LeafContext{
			Source:  tiler.InMemoryLeafSource{Pairs: pairs},
			Persist: rt.blobs,
			AtlasOpts: atlas.Options{
				MaxTextureSize:    rt.tcfg.MaxTextureResolution,
				MaxTexelsPerMeter: rt.tcfg.MaxTexelsPerMeter,
				BorderPixels:      rt.tcfg.BorderPixels,
				AllowRotation:     rt.tcfg.AllowRotation,
			},
			TextureMode: rt.tcfg.TextureMode,
		})

		built := 0
		for _, n := range nodes {
			if !n.IsLeaf || n.Status == tiler.StatusCompleted {
				continue
			}
			if err := leafBuild(context.Background(), n); err != nil {
				return fmt.Errorf("build-leaves: node %s: %w", n.ID, err)
			}
			n.Status = tiler.StatusCompleted
			built++
		}
		if err := rt.objects.SaveNodes(nodes); err != nil {
			return err
		}
		rt.log.Info("build-leaves complete", "project", rt.cfg.Project, "built", built)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildLeavesCmd)
}
