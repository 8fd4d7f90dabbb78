package domain

// PositionModel computes heliocentric ecliptical coordinates at tau,
// in Julian millennia from J2000.0.
type PositionModel interface {
	// Longitude returns L in radians, unnormalized.
	Longitude(tau float64) float64
	// Latitude returns B in radians.
	Latitude(tau float64) float64
	// Radius returns R in astronomical units.
	Radius(tau float64) float64
}

// Position is a heliocentric ecliptical position at tau.
type Position struct {
	Tau       float64
	Longitude float64 // Radians, unnormalized.
	Latitude  float64 // Radians.
	Radius    float64 // AU.
}

// PositionAt evaluates all three coordinates of m at tau.
func PositionAt(m PositionModel, tau float64) Position {
	return Position{
		Tau:       tau,
		Longitude: m.Longitude(tau),
		Latitude:  m.Latitude(tau),
		Radius:    m.Radius(tau),
	}
}

// Evaluate sums the series of variable v at tau:
//
//	Σ_power tau^power · Σ_term A·cos(B + C·tau)
//
// Powers are accumulated in ascending order with tau^power built up
// incrementally. Absent or empty cells contribute zero, and a nil table
// evaluates to zero.
func Evaluate(t *Table, v Variable, tau float64) float64 {
	if t == nil || !v.Valid() {
		return 0
	}

	result := 0.0
	tauPower := 1.0
	for power := 0; power <= MaxPower; power++ {
		termSum := 0.0
		for _, term := range t.cells[v-1][power] {
			termSum += term.At(tau)
		}
		result += termSum * tauPower
		tauPower *= tau
	}
	return result
}

// Series evaluates a body's coefficient table. It holds no mutable state,
// so one Series may be shared by any number of goroutines.
type Series struct {
	table *Table
}

// NewSeries wraps an immutable table.
func NewSeries(t *Table) *Series {
	return &Series{table: t}
}

// Table returns the underlying coefficient table.
func (s *Series) Table() *Table {
	return s.table
}

// Longitude returns the heliocentric ecliptical longitude in radians.
func (s *Series) Longitude(tau float64) float64 {
	return Evaluate(s.table, Longitude, tau)
}

// Latitude returns the heliocentric ecliptical latitude in radians.
func (s *Series) Latitude(tau float64) float64 {
	return Evaluate(s.table, Latitude, tau)
}

// Radius returns the radius vector in astronomical units.
func (s *Series) Radius(tau float64) float64 {
	return Evaluate(s.table, Radius, tau)
}
