package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/watercolormap/internal/atlas"
	"github.com/MeKo-Tech/watercolormap/internal/config"
	"github.com/MeKo-Tech/watercolormap/internal/mesh"
	"github.com/MeKo-Tech/watercolormap/internal/scene"
	"github.com/MeKo-Tech/watercolormap/internal/store"
	"github.com/MeKo-Tech/watercolormap/internal/tiler"
	"github.com/MeKo-Tech/watercolormap/internal/wedge"
	"github.com/MeKo-Tech/watercolormap/internal/wedge/synthetic"
	"github.com/MeKo-Tech/watercolormap/internal/worker"
)

// runtime bundles the storage and pipeline objects every subcommand
// needs, built once from the bound config.
type runtime struct {
	cfg      config.TilerConfig
	tcfg     tiler.Config
	objects  *store.ObjectStore
	blobs    *store.BlobStore
	log      *slog.Logger
}

func newRuntime() (*runtime, error) {
	cfg := config.FromViper()
	if cfg.Project == "" {
		return nil, fmt.Errorf("--project is required")
	}

	objects, err := store.Open(cfg.ObjectStorePath)
	if err != nil {
		return nil, err
	}
	blobs, err := store.NewBlobStore(cfg.BlobStorePath)
	if err != nil {
		return nil, err
	}

	if cfg.Recreate {
		if err := objects.DeleteProject(cfg.Project); err != nil {
			return nil, err
		}
		if err := blobs.DeleteProject(cfg.Project); err != nil {
			return nil, err
		}
	}

	return &runtime{
		cfg:     cfg,
		tcfg:    tiler.ConfigFromTilerConfig(cfg),
		objects: objects,
		blobs:   blobs,
		log:     logger,
	}, nil
}

// buildSourceMesh reconstructs a single untextured wedge of synthetic
// terrain standing in for the decoded rover/orbital imagery a real
// data-source loader would supply (spec.md §1 places image decoding out
// of scope). The returned pair carries no image.
func buildSourceMesh(tcfg tiler.Config) (*mesh.Mesh, []atlas.MeshImagePair, error) {
	terrain := sourceRaster()

	m, err := wedge.Reconstruct(terrain, &terrain, wedge.Options{Method: wedge.Method(tcfg.ReconstructionMethod)})
	if err != nil {
		return nil, nil, fmt.Errorf("reconstruct: %w", err)
	}

	pairs := []atlas.MeshImagePair{{Mesh: m, Image: nil}}
	return m, pairs, nil
}

// sourceRaster returns the same synthetic terrain buildSourceMesh
// reconstructs from, exposed separately so debug tooling (preview-raster)
// can inspect the geometry source before reconstruction.
func sourceRaster() scene.Raster {
	return synthetic.GenerateTerrainRaster(synthetic.TerrainOptions{
		Width: 512, Height: 512, Scale: 40, Amplitude: 25, Seed: 1, ValidFrac: 0.98,
	})
}

func (r *runtime) buildCoordinator(ctx context.Context, root *mesh.Mesh, pairs []atlas.MeshImagePair, nodes map[string]*tiler.TileNode) *tiler.Coordinator {
	leafSource := tiler.InMemoryLeafSource{Pairs: pairs}
	leafBuild := tiler.NewLeafBuilder(tiler.LeafContext{
		Source:  leafSource,
		Persist: r.blobs,
		AtlasOpts: atlas.Options{
			MaxTextureSize:     r.tcfg.MaxTextureResolution,
			MaxTexelsPerMeter:  r.tcfg.MaxTexelsPerMeter,
			BorderPixels:       r.tcfg.BorderPixels,
			AllowRotation:      r.tcfg.AllowRotation,
			PowerOfTwoTextures: r.tcfg.PowerOfTwoTextures,
		},
		TextureMode: r.tcfg.TextureMode,
	})
	parentBuild := tiler.NewParentBuilder(r.blobs, r.blobs, mesh.DecimateByClustering, r.tcfg.MaxFacesPerTile)

	return &tiler.Coordinator{
		Nodes:       nodes,
		BuildLeaf:   leafBuild,
		BuildParent: parentBuild,
		Pool:        worker.New(worker.Config{Workers: r.cfg.Workers}),
		MaxRetries:  r.tcfg.MaxRetries,
		Logger:      r.log,
	}
}
