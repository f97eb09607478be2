package camera

import (
	"math"
	"testing"

	"github.com/MeKo-Tech/watercolormap/internal/geom"
)

func closeEnough(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

// TestCAHV_RoundTrip covers S3: the worked CAHV example from spec.md,
// projecting a world point to a pixel and range, then unprojecting that
// pixel back to a ray whose direction matches the point's direction from
// the camera center.
func TestCAHV_RoundTrip(t *testing.T) {
	cam := CAHV{
		C: geom.Vec3{X: 0, Y: 0, Z: 0},
		A: geom.Vec3{X: 0, Y: 0, Z: 1},
		H: geom.Vec3{X: 100, Y: 0, Z: 50},
		V: geom.Vec3{X: 0, Y: 100, Z: 50},
	}
	p := geom.Vec3{X: 1, Y: 2, Z: 5}

	px, rng, err := cam.Project(p)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if !closeEnough(px.X, 70, 1e-9) || !closeEnough(px.Y, 90, 1e-9) {
		t.Errorf("expected pixel (70,90), got (%v,%v)", px.X, px.Y)
	}
	if !closeEnough(rng, math.Sqrt(30), 1e-9) {
		t.Errorf("expected range sqrt(30)=%.6f, got %v", math.Sqrt(30), rng)
	}

	ray, err := cam.Unproject(px)
	if err != nil {
		t.Fatalf("Unproject: %v", err)
	}
	wantDir := geom.Vec3{X: 0.1826, Y: 0.3651, Z: 0.9129}
	if !closeEnough(ray.Direction.X, wantDir.X, 1e-4) ||
		!closeEnough(ray.Direction.Y, wantDir.Y, 1e-4) ||
		!closeEnough(ray.Direction.Z, wantDir.Z, 1e-4) {
		t.Errorf("expected direction ~%v, got %v", wantDir, ray.Direction)
	}

	// The ray should pass through p within invariant 5's tolerance: the
	// unprojected direction must be parallel to (p - origin).
	pDir, _ := p.Sub(ray.Origin).Normalized()
	cross := ray.Direction.Cross(pDir)
	if cross.Length() > 1e-9 {
		t.Errorf("ray direction %v not parallel to target direction %v", ray.Direction, pDir)
	}
}

// TestCAHV_RoundTrip_GenericPoints covers invariant 5 more broadly: for
// arbitrary points in front of the camera, unproject(project(p)) is
// parallel to (p - origin) within 1e-9.
func TestCAHV_RoundTrip_GenericPoints(t *testing.T) {
	cam := CAHV{
		C: geom.Vec3{X: 1, Y: -2, Z: 3},
		A: geom.Vec3{X: 0, Y: 0, Z: 1},
		H: geom.Vec3{X: 200, Y: 0, Z: 100},
		V: geom.Vec3{X: 0, Y: 200, Z: 100},
	}
	points := []geom.Vec3{
		{X: 1, Y: -2, Z: 10},
		{X: 5, Y: 3, Z: 20},
		{X: -4, Y: -8, Z: 15},
	}
	for _, p := range points {
		px, _, err := cam.Project(p)
		if err != nil {
			t.Fatalf("Project(%v): %v", p, err)
		}
		ray, err := cam.Unproject(px)
		if err != nil {
			t.Fatalf("Unproject(%v): %v", px, err)
		}
		want, _ := p.Sub(cam.C).Normalized()
		cross := ray.Direction.Cross(want)
		if cross.Length() > 1e-9 {
			t.Errorf("point %v: direction %v not parallel to %v", p, ray.Direction, want)
		}
	}
}

// TestCAHV_Project_Underflow covers the ArithmeticUnderflow error path:
// a point on the camera's image plane (zero denominator) is rejected
// rather than producing a divide-by-zero pixel.
func TestCAHV_Project_Underflow(t *testing.T) {
	cam := CAHV{
		C: geom.Vec3{X: 0, Y: 0, Z: 0},
		A: geom.Vec3{X: 0, Y: 0, Z: 1},
		H: geom.Vec3{X: 100, Y: 0, Z: 50},
		V: geom.Vec3{X: 0, Y: 100, Z: 50},
	}
	_, _, err := cam.Project(geom.Vec3{X: 1, Y: 1, Z: 0})
	if err == nil {
		t.Fatal("expected an error for a point on the image plane, got nil")
	}
}
