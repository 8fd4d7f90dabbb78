package domain

import (
	"math"
	"time"
)

const (
	// J2000 is the Julian day of the VSOP87 reference epoch, 2000-01-01T12:00 TT.
	J2000 = 2451545.0
	// DaysPerMillennium is the length of a Julian millennium in days.
	DaysPerMillennium = 365250.0

	unixEpochJD = 2440587.5
)

// JulianDay returns the Julian day of t. The instant is read as
// Terrestrial Time; no ΔT correction is applied.
func JulianDay(t time.Time) float64 {
	days := float64(t.Unix())/86400 + float64(t.Nanosecond())/(86400*1e9)
	return unixEpochJD + days
}

// Tau returns the VSOP87 time argument for t, in Julian millennia from J2000.
func Tau(t time.Time) float64 {
	return TauFromJulianDay(JulianDay(t))
}

// TauFromJulianDay converts a Julian day to Julian millennia from J2000.
func TauFromJulianDay(jd float64) float64 {
	return (jd - J2000) / DaysPerMillennium
}

// TimeFromTau is the inverse of Tau. Resolution is limited by float64 to
// roughly ten microseconds over the span of the theory.
func TimeFromTau(tau float64) time.Time {
	secs := (tau*DaysPerMillennium + (J2000 - unixEpochJD)) * 86400
	whole := math.Floor(secs)
	return time.Unix(int64(whole), int64((secs-whole)*1e9)).UTC()
}
