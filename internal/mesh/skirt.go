package mesh

import "github.com/MeKo-Tech/watercolormap/internal/geom"

// SkirtMode selects the offset direction for skirt vertices (spec.md §6).
type SkirtMode int

const (
	SkirtNone SkirtMode = iota
	SkirtX
	SkirtY
	SkirtZ
	SkirtNormal
)

// SkirtOptions configures skirt generation (spec.md §4.D, §6). Note the
// Open Question flagged in spec.md §9: Height doubles as both the drop
// depth and the perimeter-vertex merge distance; that double-use is
// preserved here rather than silently split into two parameters.
type SkirtOptions struct {
	Mode          SkirtMode
	RelHeight     float64
	MinAbsHeight  float64
	MaxAbsHeight  float64
	ThresholdRel  float64
	Invert        bool
}

// AddSkirt generates an apron along m's open boundary edges and appends
// it to m in place (spec.md §4.D). X/Y/Z modes offset skirt vertices
// along the positive axis; Normal offsets them against the local 2-ring
// surface normal; Invert flips the direction.
func (m *Mesh) AddSkirt(opts SkirtOptions) {
	if opts.Mode == SkirtNone || len(m.Faces) == 0 {
		return
	}

	g := BuildEdgeGraph(m)
	perimeter := g.PerimeterVertices()
	if len(perimeter) == 0 {
		return
	}

	bounds := m.Bounds()
	h := skirtHeight(opts, bounds)
	threshold := opts.ThresholdRel * h

	type skirtVert struct {
		perimeterIdx int
		perimeterPos geom.Vec3
		skirtIdx     int
		skirtPos     geom.Vec3
	}
	var placed []skirtVert
	skirtOf := make(map[int]int) // perimeter vertex index -> new skirt vertex index

	for pv := range perimeter {
		offset := skirtOffset(opts.Mode, opts.Invert, g, pv, h)
		perimPos := m.Vertices[pv].Position
		newPos := perimPos.Add(offset)

		reuseIdx := -1
		for _, sv := range placed {
			if sv.perimeterPos.Sub(perimPos).Length() <= h ||
				sv.skirtPos.Sub(newPos).Length() <= threshold {
				reuseIdx = sv.skirtIdx
				break
			}
		}

		if reuseIdx != -1 {
			skirtOf[pv] = reuseIdx
			continue
		}

		v := m.Vertices[pv]
		v.Position = newPos
		newIdx := len(m.Vertices)
		m.Vertices = append(m.Vertices, v)
		skirtOf[pv] = newIdx
		placed = append(placed, skirtVert{perimeterIdx: pv, perimeterPos: perimPos, skirtIdx: newIdx, skirtPos: newPos})
	}

	accumNormal := make(map[int]geom.Vec3)
	for _, be := range g.BoundaryEdges() {
		sSrc, okS := skirtOf[be.Src]
		sDst, okD := skirtOf[be.Dst]
		if !okS || !okD {
			continue
		}
		f1 := Face{be.Src, sSrc, be.Dst}
		f2 := Face{sSrc, sDst, be.Dst}
		m.Faces = append(m.Faces, f1, f2)

		if m.HasNormals {
			t1 := m.FaceTriangle(f1)
			t2 := m.FaceTriangle(f2)
			accumNormal[sSrc] = accumNormal[sSrc].Add(t1.Normal())
			accumNormal[sDst] = accumNormal[sDst].Add(t2.Normal())
		}
	}

	if m.HasNormals {
		for idx, n := range accumNormal {
			if norm, ok := n.Normalized(); ok {
				m.Vertices[idx].Normal = norm
			}
		}
	}
}

func skirtHeight(opts SkirtOptions, bounds geom.AABB) float64 {
	var size float64
	switch opts.Mode {
	case SkirtX:
		size = bounds.Extent().X
	case SkirtY:
		size = bounds.Extent().Y
	default:
		size = bounds.Extent().Z
	}
	if opts.Mode == SkirtNormal {
		size = bounds.Diagonal()
	}
	h := opts.RelHeight * size
	if h < opts.MinAbsHeight {
		h = opts.MinAbsHeight
	}
	if opts.MaxAbsHeight > 0 && h > opts.MaxAbsHeight {
		h = opts.MaxAbsHeight
	}
	return h
}

func skirtOffset(mode SkirtMode, invert bool, g *EdgeGraph, vertex int, h float64) geom.Vec3 {
	var dir geom.Vec3
	switch mode {
	case SkirtX:
		dir = geom.Vec3{X: 1}
	case SkirtY:
		dir = geom.Vec3{Y: 1}
	case SkirtZ:
		dir = geom.Vec3{Z: 1}
	case SkirtNormal:
		dir = g.TwoRingFaceNormals(vertex).Neg()
	}
	if invert {
		dir = dir.Neg()
	}
	return dir.Scale(h)
}
