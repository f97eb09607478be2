package wedge

import (
	"github.com/MeKo-Tech/watercolormap/internal/camera"
	"github.com/MeKo-Tech/watercolormap/internal/geom"
	"github.com/MeKo-Tech/watercolormap/internal/mesh"
)

// ProjectTexture assigns UVs from the originating camera model and drops
// triangles whose vertices fall outside the image or face away from the
// camera, matching spec.md §4.F's post-reconstruction texture step.
func ProjectTexture(m *mesh.Mesh, model camera.Model, imgWidth, imgHeight int) *mesh.Mesh {
	out := mesh.New(m.HasNormals, true, m.HasColors)
	planeNormal := model.ImagePlaneNormal()

	for _, f := range m.Faces {
		tri := m.FaceTriangle(f)
		if planeNormal.Dot(tri.Normal()) >= 0 {
			continue
		}

		verts := tri.Vertices()
		var uv [3]geom.Vec2
		inBounds := true
		for i, v := range verts {
			px, _, err := model.Project(v.Position)
			if err != nil {
				inBounds = false
				break
			}
			if px.X < 0 || px.Y < 0 || px.X >= float64(imgWidth) || px.Y >= float64(imgHeight) {
				inBounds = false
				break
			}
			uv[i] = geom.Vec2{X: px.X / float64(imgWidth), Y: px.Y / float64(imgHeight)}
		}
		if !inBounds {
			continue
		}

		v0, v1, v2 := verts[0], verts[1], verts[2]
		v0.UV, v1.UV, v2.UV = uv[0], uv[1], uv[2]
		out.AppendTriangles([]geom.Triangle{{V0: v0, V1: v1, V2: v2}})
	}
	return out
}
