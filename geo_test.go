package monipoll

import (
	"math"
	"testing"
)

const tolerance = 0.01

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func TestDistanceOneDegreeOfLatitude(t *testing.T) {
	d := DistanceKm(LatLng(0, 0), LatLng(1, 0))
	// one degree on a sphere of ~6371-6378 km radius
	if d < 110.9 || d > 111.4 {
		t.Errorf("expected ~111.2km, got %f", d)
	}
}

func TestDistanceSamePoint(t *testing.T) {
	p := LatLng(54.838, 83.105)
	if d := DistanceMeters(p, p); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestBearingCardinal(t *testing.T) {
	cases := []struct {
		name string
		to   [2]float64
		want float64
	}{
		{"north", [2]float64{1, 0}, 0},
		{"east", [2]float64{0, 1}, 90},
		{"south", [2]float64{-1, 0}, 180},
		{"west", [2]float64{0, -1}, -90},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := Bearing(LatLng(0, 0), LatLng(c.to[0], c.to[1]))
			if c.want == 180 {
				b = math.Abs(b)
			}
			if !approxEqual(b, c.want, tolerance) {
				t.Errorf("expected bearing %f, got %f", c.want, b)
			}
		})
	}
}

func TestDestinationRoundTrip(t *testing.T) {
	start := LatLng(54.8383, 83.1052)
	end := LatLng(54.8400, 83.1100)
	step := 0.002

	next := Destination(start, step, Bearing(start, end))

	if !approxEqual(DistanceKm(start, next), step, 1e-5) {
		t.Errorf("expected to travel %fkm, got %f", step, DistanceKm(start, next))
	}
	if DistanceKm(next, end) >= DistanceKm(start, end) {
		t.Errorf("expected to get closer to %v, now at %v", end, next)
	}
}
