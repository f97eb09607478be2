package camera

import (
	"math"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
	"github.com/MeKo-Tech/watercolormap/internal/tilerrors"
)

// CAHVOR extends CAHV with radial distortion (spec.md §3, §4.E).
type CAHVOR struct {
	C, A, H, V geom.Vec3
	O, R       geom.Vec3 // R holds the odd-power distortion coefficients (k1, k3, k5) stored as X,Y,Z
}

const (
	cahvorMaxIters  = 20
	cahvorConvergeEps = 1e-6
)

// Project applies CAHV linear projection then radial distortion isn't
// modeled in closed form for the forward direction in this system (the
// distortion polynomial is solved for unprojection only, per spec.md
// §4.E); forward projection uses the same linear formula as CAHV with A
// unchanged, matching the reference model's convention that O specifies
// the optical axis used for the distortion radius.
func (m CAHVOR) Project(p geom.Vec3) (Pixel, float64, error) {
	lin := CAHV{C: m.C, A: m.A, H: m.H, V: m.V}
	return lin.Project(p)
}

// Unproject implements spec.md §4.E's CAHVOR back-projection: compute the
// nominal CAHV direction, then solve k5*u^5 + k3*u^3 + k1*u = 1 via
// Newton's method to remove distortion from the ray.
func (m CAHVOR) Unproject(px Pixel) (Ray, error) {
	lin := CAHV{C: m.C, A: m.A, H: m.H, V: m.V}
	ray, err := lin.Unproject(px)
	if err != nil {
		return Ray{}, err
	}

	mu := m.O.Dot(ray.Direction)
	u := 1 - mu
	k1, k3, k5 := m.R.X, m.R.Y, m.R.Z

	for i := 0; i < cahvorMaxIters; i++ {
		fu := k5*math.Pow(u, 5) + k3*math.Pow(u, 3) + k1*u - 1
		dfu := 5*k5*math.Pow(u, 4) + 3*k3*math.Pow(u, 2) + k1
		if dfu <= 0 {
			return Ray{}, &tilerrors.DistortionNegativeError{Op: "CAHVOR.Unproject"}
		}
		du := fu / dfu
		u -= du
		if math.Abs(du) < cahvorConvergeEps {
			break
		}
		if i == cahvorMaxIters-1 {
			return Ray{}, &tilerrors.ConvergenceFailureError{Op: "CAHVOR.Unproject", Iters: cahvorMaxIters}
		}
	}

	// Remove distortion: blend the nominal direction toward O by (1-u).
	undistorted := ray.Direction.Scale(u).Add(m.O.Scale(1 - u))
	dir, ok := undistorted.Normalized()
	if !ok {
		dir = ray.Direction
	}
	return Ray{Origin: m.C, Direction: dir}, nil
}

func (m CAHVOR) Linear() bool               { return false }
func (m CAHVOR) ImagePlaneNormal() geom.Vec3 { return m.A }
func (m CAHVOR) Clone() Model {
	return CAHVOR{C: m.C, A: m.A, H: m.H, V: m.V, O: m.O, R: m.R}
}
