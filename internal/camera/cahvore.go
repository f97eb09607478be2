package camera

import (
	"math"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
	"github.com/MeKo-Tech/watercolormap/internal/tilerrors"
)

// CAHVORE extends CAHVOR with the entrance-pupil-variable terms (spec.md
// §3, §4.E). Linearity selects the projection family: 1=perspective,
// 0=fisheye, otherwise general.
type CAHVORE struct {
	C, A, H, V geom.Vec3
	O, R, E    geom.Vec3
	Linearity  float64
}

const cahvoreMaxIters = 100

// Unproject runs the two nested Newton iterations described in spec.md
// §4.E: an outer loop over the pupil angle theta, and an inner loop
// essentially the CAHVOR distortion step.
func (m CAHVORE) Unproject(px Pixel) (Ray, error) {
	cahvor := CAHVOR{C: m.C, A: m.A, H: m.H, V: m.V, O: m.O, R: m.R}
	approx, err := cahvor.Unproject(px)
	if err != nil {
		return Ray{}, err
	}

	thetaMax := math.Pi / (2 * math.Abs(m.Linearity))
	mu := m.O.Dot(approx.Direction)
	theta := math.Acos(clamp(mu, -1, 1))
	if theta > thetaMax {
		return Ray{}, &tilerrors.ConvergenceFailureError{Op: "CAHVORE.Unproject: ray outside valid hemisphere", Iters: 0}
	}

	oNorm, ok := m.O.Normalized()
	if !ok {
		return Ray{}, &tilerrors.DivideByZeroError{Op: "CAHVORE.Unproject: zero optical axis O"}
	}

	k1, k3, k5 := m.R.X, m.R.Y, m.R.Z
	e1, e2, e3 := m.E.X, m.E.Y, m.E.Z

	for outer := 0; outer < cahvoreMaxIters; outer++ {
		u := theta / thetaMax
		innerConverged := false
		for inner := 0; inner < cahvoreMaxIters; inner++ {
			fu := k5*math.Pow(u, 5) + k3*math.Pow(u, 3) + k1*u - theta/thetaMax
			dfu := 5*k5*math.Pow(u, 4) + 3*k3*math.Pow(u, 2) + k1
			if dfu <= 0 {
				return Ray{}, &tilerrors.DistortionNegativeError{Op: "CAHVORE.Unproject"}
			}
			du := fu / dfu
			u -= du
			if math.Abs(du) < cahvorConvergeEps {
				innerConverged = true
				break
			}
		}
		if !innerConverged {
			return Ray{}, &tilerrors.ConvergenceFailureError{Op: "CAHVORE.Unproject (inner)", Iters: cahvoreMaxIters}
		}

		newTheta := u * thetaMax
		if math.Abs(newTheta-theta) < cahvorConvergeEps {
			theta = newTheta
			break
		}
		theta = newTheta
		if outer == cahvoreMaxIters-1 {
			return Ray{}, &tilerrors.ConvergenceFailureError{Op: "CAHVORE.Unproject (outer)", Iters: cahvoreMaxIters}
		}
	}

	// Bend the CAHVOR direction's component perpendicular to the optical
	// axis by the converged angle theta, and shift the ray origin along
	// the axis by the entrance-pupil term for this theta (spec.md §4.E:
	// the CAHVORE entrance pupil moves with ray angle for fisheye/general
	// lenses, unlike CAHVOR's fixed pinhole at C).
	pupilTerm := e1*theta + e2*math.Pow(theta, 3) + e3*math.Pow(theta, 5)

	perp := approx.Direction.Sub(oNorm.Scale(mu))
	var dir geom.Vec3
	if perpLen := perp.Length(); perpLen > geom.Epsilon {
		perpUnit := perp.Scale(1 / perpLen)
		dir = oNorm.Scale(math.Cos(theta)).Add(perpUnit.Scale(math.Sin(theta)))
	} else {
		dir = oNorm
	}
	dir, ok = dir.Normalized()
	if !ok {
		dir = approx.Direction
	}

	origin := m.C.Add(oNorm.Scale(pupilTerm))
	return Ray{Origin: origin, Direction: dir}, nil
}

// Project forward-projects using the linear CAHV formula; the nonlinear
// terms of CAHVORE are only inverted explicitly in Unproject, matching
// the convention that forward projection stays in the linear image-plane
// basis (O, H, V, A) and distortion is applied when rays are cast back
// into the scene (spec.md §4.E).
func (m CAHVORE) Project(p geom.Vec3) (Pixel, float64, error) {
	lin := CAHV{C: m.C, A: m.A, H: m.H, V: m.V}
	return lin.Project(p)
}

func (m CAHVORE) Linear() bool               { return false }
func (m CAHVORE) ImagePlaneNormal() geom.Vec3 { return m.A }
func (m CAHVORE) Clone() Model {
	return CAHVORE{C: m.C, A: m.A, H: m.H, V: m.V, O: m.O, R: m.R, E: m.E, Linearity: m.Linearity}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
