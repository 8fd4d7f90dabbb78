package domain

import (
	"math"
	"strconv"
)

// Angle is a plane angle stored in radians.
type Angle float64

// Common angles.
const (
	Zero     Angle = 0
	Right    Angle = math.Pi / 2
	Straight Angle = math.Pi
	Circle   Angle = 2 * math.Pi
)

// Radians returns an Angle of r radians.
func Radians(r float64) Angle { return Angle(r) }

// Degrees returns an Angle of d degrees.
func Degrees(d float64) Angle { return Angle(Deg2Rad(d)) }

// DegreesMinutes returns an Angle of d degrees and m arc minutes.
func DegreesMinutes(d int, m float64) Angle {
	return Degrees(float64(d) + m/60)
}

// DMS returns an Angle of d degrees, m arc minutes and s arc seconds.
func DMS(d, m int, s float64) Angle {
	return DegreesMinutes(d, float64(m)+s/60)
}

// Hours returns an Angle of h hours, where one hour is 15 degrees.
func Hours(h float64) Angle { return Degrees(15 * h) }

// HMS returns an Angle of h hours, m minutes and s seconds of time.
func HMS(h, m int, s float64) Angle {
	return Hours(float64(h) + (float64(m)+s/60)/60)
}

// ArcTangent returns the angle of the point (x, y), as math.Atan2.
func ArcTangent(y, x float64) Angle { return Angle(math.Atan2(y, x)) }

// Rad returns the angle in radians.
func (a Angle) Rad() float64 { return float64(a) }

// Deg returns the angle in degrees.
func (a Angle) Deg() float64 { return Rad2Deg(float64(a)) }

// Sin returns the sine of a.
func (a Angle) Sin() float64 { return math.Sin(float64(a)) }

// Cos returns the cosine of a.
func (a Angle) Cos() float64 { return math.Cos(float64(a)) }

// Tan returns the tangent of a.
func (a Angle) Tan() float64 { return math.Tan(float64(a)) }

// NormalizePositive wraps a into [0, 2π).
func (a Angle) NormalizePositive() Angle {
	r := math.Mod(float64(a), 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	// -tiny + 2π rounds to 2π.
	if r >= 2*math.Pi {
		r = 0
	}
	return Angle(r)
}

// NormalizeAroundZero wraps a into [-π, π).
func (a Angle) NormalizeAroundZero() Angle {
	r := float64((a + Straight).NormalizePositive())
	return Angle(r - math.Pi)
}

func (a Angle) String() string {
	return strconv.FormatFloat(a.Deg(), 'f', -1, 64) + "°"
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
