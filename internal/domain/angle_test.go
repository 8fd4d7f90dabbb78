package domain

import (
	"math"
	"testing"
)

// TestDeg2Rad tests degree to radian conversion.
func TestDeg2Rad(t *testing.T) {
	tests := []struct {
		deg      float64
		expected float64
	}{
		{0, 0},
		{90, math.Pi / 2},
		{180, math.Pi},
		{360, 2 * math.Pi},
		{-90, -math.Pi / 2},
	}

	for _, tt := range tests {
		result := Deg2Rad(tt.deg)
		if math.Abs(result-tt.expected) > 1e-9 {
			t.Errorf("Deg2Rad(%.1f): expected %.10f, got %.10f", tt.deg, tt.expected, result)
		}
	}
}

func TestAngleConstructors(t *testing.T) {
	tests := []struct {
		name string
		a    Angle
		deg  float64
	}{
		{"degrees", Degrees(45), 45},
		{"degrees minutes", DegreesMinutes(10, 30), 10.5},
		{"dms", DMS(10, 30, 36), 10.51},
		{"hours", Hours(2), 30},
		{"hms", HMS(1, 30, 0), 22.5},
		{"radians", Radians(math.Pi), 180},
		{"arctangent", ArcTangent(1, 1), 45},
		{"right", Right, 90},
		{"circle", Circle, 360},
	}

	for _, tt := range tests {
		if math.Abs(tt.a.Deg()-tt.deg) > 1e-9 {
			t.Errorf("%s: expected %.6f°, got %.6f°", tt.name, tt.deg, tt.a.Deg())
		}
	}
}

func TestAngleTrig(t *testing.T) {
	a := Degrees(30)
	if math.Abs(a.Sin()-0.5) > 1e-12 {
		t.Errorf("Sin: got %.12f", a.Sin())
	}
	if math.Abs(Degrees(60).Cos()-0.5) > 1e-12 {
		t.Errorf("Cos: got %.12f", Degrees(60).Cos())
	}
	if math.Abs(Degrees(45).Tan()-1) > 1e-12 {
		t.Errorf("Tan: got %.12f", Degrees(45).Tan())
	}
}

func TestAngleNormalize(t *testing.T) {
	tests := []struct {
		in       float64 // Degrees.
		positive float64
		centered float64
	}{
		{0, 0, 0},
		{370, 10, 10},
		{-10, 350, -10},
		{190, 190, -170},
		{-720.5, 359.5, -0.5},
		{3600 + 45, 45, 45},
	}

	for _, tt := range tests {
		a := Degrees(tt.in)
		if got := a.NormalizePositive().Deg(); math.Abs(got-tt.positive) > 1e-9 {
			t.Errorf("NormalizePositive(%.1f°): expected %.6f, got %.6f", tt.in, tt.positive, got)
		}
		if got := a.NormalizeAroundZero().Deg(); math.Abs(got-tt.centered) > 1e-9 {
			t.Errorf("NormalizeAroundZero(%.1f°): expected %.6f, got %.6f", tt.in, tt.centered, got)
		}
	}

	// Large unnormalized longitudes, as produced by the series.
	l := Radians(-43.63484796)
	if got := l.NormalizePositive().Rad(); got < 0 || got >= 2*math.Pi {
		t.Errorf("expected [0, 2π), got %.12f", got)
	}
}

func TestAngleString(t *testing.T) {
	if got := Degrees(12.5).String(); got != "12.5°" {
		t.Errorf("expected 12.5°, got %s", got)
	}
}
