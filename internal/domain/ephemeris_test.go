package domain

import (
	"math"
	"testing"
	"time"
)

// ellipse is a PositionModel whose radius oscillates with a one year period.
type ellipse struct {
	mean, amplitude float64
}

func (e ellipse) Longitude(tau float64) float64 { return 2 * math.Pi * 1000 * tau }
func (e ellipse) Latitude(_ float64) float64    { return 0 }
func (e ellipse) Radius(tau float64) float64 {
	return e.mean - e.amplitude*math.Cos(2*math.Pi*1000*tau)
}

// TestGenerateEphemeris tests time series generation.
func TestGenerateEphemeris(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	interval := 12 * time.Hour

	points := GenerateEphemeris(start, end, interval, ellipse{mean: 1, amplitude: 0.0167})

	// 0h and 12h on Jan 1 and 2, plus 0h on Jan 3.
	if len(points) != 5 {
		t.Fatalf("Expected 5 points, got %d", len(points))
	}

	for i, p := range points {
		expectedTime := start.Add(time.Duration(i) * interval)
		if !p.Time.Equal(expectedTime) {
			t.Errorf("Point %d: expected time %v, got %v", i, expectedTime, p.Time)
		}
		if p.Tau != Tau(expectedTime) {
			t.Errorf("Point %d: expected tau %g, got %g", i, Tau(expectedTime), p.Tau)
		}
	}
}

// TestFindApsides tests perihelion and aphelion detection.
func TestFindApsides(t *testing.T) {
	ref := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	radii := []float64{1.0, 0.99, 0.985, 0.99, 1.0, 1.01, 1.015, 1.01, 1.0}

	points := make([]EphemerisPoint, len(radii))
	for i, r := range radii {
		points[i] = EphemerisPoint{Time: ref.Add(time.Duration(i) * 24 * time.Hour)}
		points[i].Radius = r
	}

	apsides := FindApsides(points)

	if len(apsides.Perihelia) != 1 || len(apsides.Aphelia) != 1 {
		t.Fatalf("Expected 1 perihelion and 1 aphelion, got %d and %d",
			len(apsides.Perihelia), len(apsides.Aphelia))
	}
	if !apsides.Perihelia[0].Time.Equal(ref.Add(48 * time.Hour)) {
		t.Errorf("Perihelion time: got %v", apsides.Perihelia[0].Time)
	}
	if apsides.Aphelia[0].Radius != 1.015 {
		t.Errorf("Aphelion radius: expected 1.015, got %g", apsides.Aphelia[0].Radius)
	}

	if short := FindApsides(points[:2]); len(short.Perihelia) != 0 || len(short.Aphelia) != 0 {
		t.Errorf("Expected no apsides for two points")
	}
}

// TestRefineApsis checks that the parabola vertex is recovered between samples.
func TestRefineApsis(t *testing.T) {
	ref := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	// r(x) = 0.98 + 0.001*(x-0.25)^2 with x in hours from the middle sample.
	r := func(x float64) float64 { return 0.98 + 0.001*(x-0.25)*(x-0.25) }

	mk := func(h float64) EphemerisPoint {
		p := EphemerisPoint{Time: ref.Add(time.Duration(h * float64(time.Hour)))}
		p.Radius = r(h)
		return p
	}

	tm, radius := RefineApsis(mk(-1), mk(0), mk(1))

	wantTime := ref.Add(15 * time.Minute)
	if d := tm.Sub(wantTime); d > time.Second || d < -time.Second {
		t.Errorf("Refined time: expected %v, got %v", wantTime, tm)
	}
	if math.Abs(radius-0.98) > 1e-12 {
		t.Errorf("Refined radius: expected 0.98, got %.15f", radius)
	}
}

// TestRefineApsides_Sampled refines apsides of a sampled model.
func TestRefineApsides_Sampled(t *testing.T) {
	m := ellipse{mean: 1, amplitude: 0.0167}
	start := TimeFromTau(-0.0003)
	end := TimeFromTau(0.0012)

	points := GenerateEphemeris(start, end, 24*time.Hour, m)
	apsides := RefineApsides(points, FindApsides(points))

	if len(apsides.Perihelia) == 0 || len(apsides.Aphelia) == 0 {
		t.Fatalf("expected apsides in a 1.5 year span, got %+v", apsides)
	}
	for _, p := range apsides.Perihelia {
		if math.Abs(p.Radius-(1-0.0167)) > 1e-6 {
			t.Errorf("perihelion radius: expected %.6f, got %.9f", 1-0.0167, p.Radius)
		}
	}
	for _, p := range apsides.Aphelia {
		if math.Abs(p.Radius-(1+0.0167)) > 1e-6 {
			t.Errorf("aphelion radius: expected %.6f, got %.9f", 1+0.0167, p.Radius)
		}
	}
}
