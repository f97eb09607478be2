package wedge

import "github.com/MeKo-Tech/watercolormap/internal/scene"

// DecimateSelection collapses the points/range raster and the normals
// raster (if present) of a wedge selection's source geometry by factor,
// baking the mask into sparsity. A decimated cell is left mask-invalid,
// with no data copied into it, whenever its representative source sample
// is masked-invalid, matching the invariant that every retained point in
// the decimated raster traces back to a masked-valid source pixel.
func DecimateSelection(geomRaster scene.Raster, normals *scene.Raster, factor int) (scene.Raster, *scene.Raster) {
	outGeom := geomRaster.Decimate(factor)
	if normals == nil {
		return outGeom, nil
	}
	outNormals := normals.Decimate(factor)
	return outGeom, &outNormals
}
