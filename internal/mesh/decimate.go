package mesh

// DecimateByClustering reduces a mesh's face count toward targetFaces by
// snapping vertices into a uniform grid (via VertexIndex's grid-hash
// strategy, Design Notes §9) and dropping every face two of whose
// vertices land in the same cell. It returns the simplified mesh and the
// maximum distance any vertex moved, which callers fold into a tile's
// accumulated geometric error (spec.md §3.3).
//
// The grid cell size starts at 1/64 of the bounds diagonal and is grown
// by 1.6x until the resulting face count is at or below targetFaces, no
// faces remain, or 12 sizes have been tried, since face
// count is a discontinuous, non-monotonic function of cell size for
// small meshes.
func DecimateByClustering(m *Mesh, targetFaces int) (*Mesh, float64) {
	if m == nil || targetFaces <= 0 || len(m.Faces) <= targetFaces {
		return m, 0
	}

	bounds := m.Bounds()
	diag := bounds.Max.Sub(bounds.Min).Length()
	if diag <= 0 {
		return m, 0
	}

	cellSize := diag / 64
	const maxAttempts = 12
	var best *Mesh
	var bestErr float64
	for attempt := 0; attempt < maxAttempts; attempt++ {
		clustered, err := clusterAt(m, cellSize)
		best, bestErr = clustered, err
		if len(clustered.Faces) <= targetFaces || len(clustered.Faces) == 0 {
			break
		}
		cellSize *= 1.6
	}
	return best, bestErr
}

func clusterAt(m *Mesh, cellSize float64) (*Mesh, float64) {
	idx := NewVertexIndex(cellSize)
	cellOf := make(map[gridCell]int, len(m.Vertices))
	repID := make([]int, len(m.Vertices))
	maxDisp := 0.0

	for i, v := range m.Vertices {
		c := idx.cellOf(v.Position)
		rep, ok := cellOf[c]
		if !ok {
			rep = i
			cellOf[c] = rep
		}
		repID[i] = rep
		d := v.Position.Sub(m.Vertices[rep].Position).Length()
		if d > maxDisp {
			maxDisp = d
		}
	}

	out := &Mesh{HasNormals: m.HasNormals, HasUVs: m.HasUVs, HasColors: m.HasColors}
	remap := make(map[int]int, len(cellOf))
	for i, v := range m.Vertices {
		if repID[i] != i {
			continue
		}
		remap[i] = len(out.Vertices)
		out.Vertices = append(out.Vertices, v)
	}

	for _, f := range m.Faces {
		p0 := remap[repID[f.P0]]
		p1 := remap[repID[f.P1]]
		p2 := remap[repID[f.P2]]
		if p0 == p1 || p1 == p2 || p0 == p2 {
			continue
		}
		out.Faces = append(out.Faces, Face{P0: p0, P1: p1, P2: p2})
	}
	if out.HasNormals {
		out.NormalizeNormals()
	}
	return out, maxDisp
}
