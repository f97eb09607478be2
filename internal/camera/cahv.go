package camera

import (
	"math"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
	"github.com/MeKo-Tech/watercolormap/internal/tilerrors"
)

// UnderflowEpsilon is the minimum |denominator| accepted before a
// projection/unprojection is treated as an arithmetic underflow
// (spec.md §4.E).
const UnderflowEpsilon = 1e-15

// CAHV is the linear pinhole rover camera model (spec.md §3, §4.E).
type CAHV struct {
	C, A, H, V geom.Vec3
}

// Project implements spec.md §4.E's CAHV forward projection.
func (m CAHV) Project(p geom.Vec3) (Pixel, float64, error) {
	d := p.Sub(m.C)
	denom := d.Dot(m.A)
	if math.Abs(denom) <= UnderflowEpsilon {
		return Pixel{}, 0, &tilerrors.ArithmeticUnderflowError{Op: "CAHV.Project", Denom: denom, Thresh: UnderflowEpsilon}
	}
	px := Pixel{X: d.Dot(m.H) / denom, Y: d.Dot(m.V) / denom}
	rng := d.Length()
	if denom < 0 {
		rng = -rng
	}
	return px, rng, nil
}

// Unproject implements spec.md §4.E's CAHV back-projection.
func (m CAHV) Unproject(px Pixel) (Ray, error) {
	f := m.V.Sub(m.A.Scale(px.Y))
	g := m.H.Sub(m.A.Scale(px.X))
	n := f.Cross(g)
	if n.Length() < geom.Epsilon {
		return Ray{}, &tilerrors.ArithmeticUnderflowError{Op: "CAHV.Unproject", Denom: n.Length(), Thresh: geom.Epsilon}
	}
	dir, _ := n.Normalized()

	orientation := m.V.Cross(m.H).Dot(m.A)
	if orientation < 0 {
		dir = dir.Neg()
	}
	return Ray{Origin: m.C, Direction: dir}, nil
}

func (m CAHV) Linear() bool                  { return true }
func (m CAHV) ImagePlaneNormal() geom.Vec3    { return m.A }
func (m CAHV) Clone() Model                   { return CAHV{C: m.C, A: m.A, H: m.H, V: m.V} }
