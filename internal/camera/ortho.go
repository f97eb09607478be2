package camera

import (
	"math"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
	"github.com/MeKo-Tech/watercolormap/internal/tilerrors"
)

// Orthographic is a parallel (affine) projection: pixels map linearly to
// a plane through C oriented by A, with H and V spanning the image-plane
// axes at a fixed scale (spec.md §4.E). Range is the signed distance
// along A rather than the distance to C.
type Orthographic struct {
	C, A, H, V geom.Vec3
}

func (m Orthographic) Project(p geom.Vec3) (Pixel, float64, error) {
	d := p.Sub(m.C)
	hLenSq := m.H.LengthSquared()
	vLenSq := m.V.LengthSquared()
	if hLenSq <= geom.Epsilon || vLenSq <= geom.Epsilon {
		return Pixel{}, 0, &tilerrors.DivideByZeroError{Op: "Orthographic.Project"}
	}
	px := Pixel{X: d.Dot(m.H) / hLenSq, Y: d.Dot(m.V) / vLenSq}
	return px, d.Dot(m.A), nil
}

func (m Orthographic) Unproject(px Pixel) (Ray, error) {
	origin := m.C.Add(m.H.Scale(px.X)).Add(m.V.Scale(px.Y))
	dir, ok := m.A.Normalized()
	if !ok {
		return Ray{}, &tilerrors.ArithmeticUnderflowError{Op: "Orthographic.Unproject", Denom: m.A.Length(), Thresh: geom.Epsilon}
	}
	return Ray{Origin: origin, Direction: dir}, nil
}

func (m Orthographic) Linear() bool               { return true }
func (m Orthographic) ImagePlaneNormal() geom.Vec3 { return m.A }
func (m Orthographic) Clone() Model                { return Orthographic{C: m.C, A: m.A, H: m.H, V: m.V} }

// OrthographicFromGSD builds an orthographic model from a desired ground
// sample distance: adjacent pixels are gsd world units apart along right
// and up.
func OrthographicFromGSD(c, a, right, up geom.Vec3, gsd float64) Orthographic {
	rn, _ := right.Normalized()
	un, _ := up.Normalized()
	return Orthographic{
		C: c,
		A: a,
		H: rn.Scale(math.Max(gsd, geom.Epsilon)),
		V: un.Scale(math.Max(gsd, geom.Epsilon)),
	}
}
