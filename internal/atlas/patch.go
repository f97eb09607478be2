package atlas

import (
	"image"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
	"github.com/MeKo-Tech/watercolormap/internal/mesh"
)

// patch is a connected component of faces whose UV bounds, inflated by
// borderPixels, transitively overlap (spec.md §4.G step 1).
type patch struct {
	sourceIdx int
	faces     []mesh.Face
	verts     []mesh.Vertex
	uvBoundsPx geom.AABB // Z unused; X/Y are normalized UV bounds, scaled to pixels by cropPatch
}

// buildPatches flood-fills clipped's faces into UV-connected components.
// A spatial index over each face's UV bbox (keyed in normalized UV space) stands
// in for the R-tree spec.md calls for, per the same grounding as
// internal/mesh's VertexIndex.
func buildPatches(clipped *mesh.Mesh, sourceIdx int, borderPixels int) []patch {
	n := len(clipped.Faces)
	if n == 0 {
		return nil
	}

	faceBounds := make([]geom.AABB, n)
	for i, f := range clipped.Faces {
		b := geom.EmptyAABB()
		for _, idx := range f.Indices() {
			uv := clipped.Vertices[idx].UV
			b = b.ExpandPoint(geom.Vec3{X: uv.X, Y: uv.Y, Z: 0})
		}
		inflate := float64(borderPixels)
		b.Min.X -= inflate
		b.Min.Y -= inflate
		b.Max.X += inflate
		b.Max.Y += inflate
		faceBounds[i] = b
	}

	index := mesh.NewVertexIndex(1.0)
	for i := range faceBounds {
		c := faceBounds[i].Center()
		index.Insert(c, i)
	}

	uf := newUnionFind(n)
	for i := range faceBounds {
		candidates := index.QueryBox(faceBounds[i])
		for _, j := range candidates {
			if j != i && faceBounds[i].Intersects(faceBounds[j]) {
				uf.union(i, j)
			}
		}
	}

	groups := map[int][]int{}
	for i := 0; i < n; i++ {
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}

	patches := make([]patch, 0, len(groups))
	for _, faceIdxs := range groups {
		p := patch{sourceIdx: sourceIdx}
		remap := map[int]int{}
		bounds := geom.EmptyAABB()
		for _, fi := range faceIdxs {
			f := clipped.Faces[fi]
			var newIdx [3]int
			for k, vi := range f.Indices() {
				if existing, ok := remap[vi]; ok {
					newIdx[k] = existing
				} else {
					newIdx[k] = len(p.verts)
					remap[vi] = newIdx[k]
					p.verts = append(p.verts, clipped.Vertices[vi])
				}
				uv := clipped.Vertices[vi].UV
				bounds = bounds.ExpandPoint(geom.Vec3{X: uv.X, Y: uv.Y, Z: 0})
			}
			p.faces = append(p.faces, mesh.Face{P0: newIdx[0], P1: newIdx[1], P2: newIdx[2]})
		}
		p.uvBoundsPx = bounds
		patches = append(patches, p)
	}
	return patches
}

type patchCrop struct {
	patch   patch
	image   *image.NRGBA
	width   int
	height  int
	originX int
	originY int
	srcW    int
	srcH    int
}

// cropPatch crops src to patch's UV bbox in source-image pixel space.
func cropPatch(p patch, src image.Image) patchCrop {
	if src == nil {
		return patchCrop{patch: p, image: image.NewNRGBA(image.Rect(0, 0, 1, 1)), width: 1, height: 1, srcW: 1, srcH: 1}
	}
	b := src.Bounds()
	minX := int(p.uvBoundsPx.Min.X * float64(b.Dx()))
	minY := int(p.uvBoundsPx.Min.Y * float64(b.Dy()))
	maxX := int(p.uvBoundsPx.Max.X * float64(b.Dx()))
	maxY := int(p.uvBoundsPx.Max.Y * float64(b.Dy()))
	minX, minY = clampInt(minX, 0, b.Dx()-1), clampInt(minY, 0, b.Dy()-1)
	maxX, maxY = clampInt(maxX, minX+1, b.Dx()), clampInt(maxY, minY+1, b.Dy())

	w, h := maxX-minX, maxY-minY
	cropped := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cropped.Set(x, y, src.At(b.Min.X+minX+x, b.Min.Y+minY+y))
		}
	}
	return patchCrop{patch: p, image: cropped, width: w, height: h, originX: minX, originY: minY, srcW: b.Dx(), srcH: b.Dy()}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type unionFind struct {
	parent, rank []int
}

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p, rank: make([]int, n)}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
}
