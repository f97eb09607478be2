package mesh

import (
	"math"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
)

// RegenerateNormals recomputes per-vertex normals as the area-weighted
// average of incident face normals (spec.md §4.F).
func (m *Mesh) RegenerateNormals() {
	m.HasNormals = true
	accum := make([]geom.Vec3, len(m.Vertices))
	for _, f := range m.Faces {
		tri := m.FaceTriangle(f)
		n := tri.Normal()
		idx := f.Indices()
		for _, i := range idx {
			accum[i] = accum[i].Add(n)
		}
	}
	for i, n := range accum {
		if norm, ok := n.Normalized(); ok {
			m.Vertices[i].Normal = norm
		}
	}
}

// ColorChannel selects which scalar field ColorByChannel derives a
// grayscale color ramp from.
type ColorChannel int

const (
	ColorByHeight ColorChannel = iota
	ColorByNormalZ
)

// ColorByChannel paints every vertex with a grayscale color derived from
// the selected channel, linearly remapped across the mesh's observed
// range into [0,1] (spec.md §4.F).
func (m *Mesh) ColorByChannel(channel ColorChannel) {
	m.HasColors = true
	if len(m.Vertices) == 0 {
		return
	}

	values := make([]float64, len(m.Vertices))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, v := range m.Vertices {
		var val float64
		switch channel {
		case ColorByNormalZ:
			val = v.Normal.Z
		default:
			val = v.Position.Z
		}
		values[i] = val
		if val < lo {
			lo = val
		}
		if val > hi {
			hi = val
		}
	}

	span := hi - lo
	for i, v := range values {
		t := 0.5
		if span > geom.Epsilon {
			t = (v - lo) / span
		}
		g := float32(t)
		m.Vertices[i].Color = geom.Vec4{X: g, Y: g, Z: g, W: 1}
	}
}

// UVAtlasMode selects the strategy AssignUVAtlas uses to generate UVs
// (spec.md §4.F).
type UVAtlasMode int

const (
	// UVHeightmap treats the mesh as an organized heightmap: UV equals the
	// vertex's normalized (X,Y) position within the mesh bounds.
	UVHeightmap UVAtlasMode = iota
	// UVNaive assigns UV per-face in a fixed grid layout, one cell per
	// face, with no attempt at seam minimization.
	UVNaive
	// UVProjection projects vertex positions onto the dominant plane of
	// the mesh's normal (planar projection).
	UVProjection
	// UVManifold is the fallback used when the mesh isn't a simple
	// heightmap: each connected component gets a naive grid cell, which
	// keeps the atlas manifold (no two components share UV space).
	UVManifold
)

// AssignUVAtlas generates per-vertex UVs in [0,1] using the given mode
// (spec.md §4.F).
func (m *Mesh) AssignUVAtlas(mode UVAtlasMode) {
	m.HasUVs = true
	switch mode {
	case UVHeightmap:
		m.assignHeightmapUVs()
	case UVProjection:
		m.assignProjectionUVs()
	case UVManifold:
		m.assignManifoldUVs()
	default:
		m.assignNaiveUVs()
	}
	m.clampUVsToUnit()
}

func (m *Mesh) assignHeightmapUVs() {
	bounds := m.Bounds()
	ext := bounds.Extent()
	for i, v := range m.Vertices {
		u, vv := 0.5, 0.5
		if ext.X > geom.Epsilon {
			u = (v.Position.X - bounds.Min.X) / ext.X
		}
		if ext.Y > geom.Epsilon {
			vv = (v.Position.Y - bounds.Min.Y) / ext.Y
		}
		m.Vertices[i].UV = geom.Vec2{X: u, Y: vv}
	}
}

func (m *Mesh) assignNaiveUVs() {
	n := len(m.Faces)
	if n == 0 {
		return
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := int(math.Ceil(float64(n) / float64(cols)))
	for fi, f := range m.Faces {
		col := fi % cols
		row := fi / cols
		u0 := float64(col) / float64(cols)
		v0 := float64(row) / float64(rows)
		cellW := 1.0 / float64(cols)
		cellH := 1.0 / float64(rows)
		local := [3]geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
		idx := f.Indices()
		for k, vi := range idx {
			m.Vertices[vi].UV = geom.Vec2{
				X: u0 + local[k].X*cellW,
				Y: v0 + local[k].Y*cellH,
			}
		}
	}
}

func (m *Mesh) assignProjectionUVs() {
	// Determine the dominant axis of the mesh's aggregate normal and
	// project onto the orthogonal plane.
	agg := geom.Vec3{}
	for _, v := range m.Vertices {
		agg = agg.Add(v.Normal)
	}
	absX, absY, absZ := math.Abs(agg.X), math.Abs(agg.Y), math.Abs(agg.Z)
	bounds := m.Bounds()
	ext := bounds.Extent()

	for i, v := range m.Vertices {
		var u, vv float64
		switch {
		case absZ >= absX && absZ >= absY:
			if ext.X > geom.Epsilon {
				u = (v.Position.X - bounds.Min.X) / ext.X
			}
			if ext.Y > geom.Epsilon {
				vv = (v.Position.Y - bounds.Min.Y) / ext.Y
			}
		case absY >= absX:
			if ext.X > geom.Epsilon {
				u = (v.Position.X - bounds.Min.X) / ext.X
			}
			if ext.Z > geom.Epsilon {
				vv = (v.Position.Z - bounds.Min.Z) / ext.Z
			}
		default:
			if ext.Y > geom.Epsilon {
				u = (v.Position.Y - bounds.Min.Y) / ext.Y
			}
			if ext.Z > geom.Epsilon {
				vv = (v.Position.Z - bounds.Min.Z) / ext.Z
			}
		}
		m.Vertices[i].UV = geom.Vec2{X: u, Y: vv}
	}
}

func (m *Mesh) assignManifoldUVs() {
	if len(m.Faces) == 0 {
		return
	}
	uf := newUnionFind(len(m.Vertices))
	for _, f := range m.Faces {
		uf.union(f.P0, f.P1)
		uf.union(f.P1, f.P2)
	}
	roots := make(map[int]int)
	for _, f := range m.Faces {
		r := uf.find(f.P0)
		if _, ok := roots[r]; !ok {
			roots[r] = len(roots)
		}
	}
	n := len(roots)
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := int(math.Ceil(float64(n) / float64(cols)))

	for _, f := range m.Faces {
		r := uf.find(f.P0)
		cellIdx := roots[r]
		col := cellIdx % cols
		row := cellIdx / cols
		u0 := float64(col) / float64(cols)
		v0 := float64(row) / float64(rows)
		cellW := 1.0 / float64(cols)
		cellH := 1.0 / float64(rows)
		local := [3]geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
		idx := f.Indices()
		for k, vi := range idx {
			m.Vertices[vi].UV = geom.Vec2{
				X: u0 + local[k].X*cellW,
				Y: v0 + local[k].Y*cellH,
			}
		}
	}
}

func (m *Mesh) clampUVsToUnit() {
	for i, v := range m.Vertices {
		u := math.Min(1, math.Max(0, v.UV.X))
		vv := math.Min(1, math.Max(0, v.UV.Y))
		m.Vertices[i].UV = geom.Vec2{X: u, Y: vv}
	}
}

// RescaleUVs linearly remaps the mesh's current UV bounding box onto
// [0,1]x[0,1] (spec.md §4.F "UV rescale").
func (m *Mesh) RescaleUVs() {
	if len(m.Vertices) == 0 {
		return
	}
	minU, minV := math.Inf(1), math.Inf(1)
	maxU, maxV := math.Inf(-1), math.Inf(-1)
	for _, v := range m.Vertices {
		minU = math.Min(minU, v.UV.X)
		maxU = math.Max(maxU, v.UV.X)
		minV = math.Min(minV, v.UV.Y)
		maxV = math.Max(maxV, v.UV.Y)
	}
	spanU, spanV := maxU-minU, maxV-minV
	for i, v := range m.Vertices {
		u, vv := 0.0, 0.0
		if spanU > geom.Epsilon {
			u = (v.UV.X - minU) / spanU
		}
		if spanV > geom.Epsilon {
			vv = (v.UV.Y - minV) / spanV
		}
		m.Vertices[i].UV = geom.Vec2{X: u, Y: vv}
	}
}
