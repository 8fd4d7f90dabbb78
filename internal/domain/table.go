package domain

import (
	"fmt"
	"math"
	"slices"
)

// Variable selects which physical quantity a series belongs to.
// The numeric values match the VSOP87D header digit (1=L, 2=B, 3=R).
type Variable int

const (
	// Longitude is the heliocentric ecliptical longitude L in radians.
	Longitude Variable = iota + 1
	// Latitude is the heliocentric ecliptical latitude B in radians.
	Latitude
	// Radius is the radius vector R in astronomical units.
	Radius
)

const (
	// VariableCount is the number of series variables in a VSOP87D table.
	VariableCount = 3
	// MaxPower is the highest power of tau carried by VSOP87D.
	MaxPower = 5
	// PowerCount is the number of power slots per variable.
	PowerCount = MaxPower + 1
)

// Variables lists the variables in evaluation order.
var Variables = []Variable{Longitude, Latitude, Radius}

// Valid reports whether v is one of Longitude, Latitude, Radius.
func (v Variable) Valid() bool {
	return v >= Longitude && v <= Radius
}

func (v Variable) String() string {
	switch v {
	case Longitude:
		return "L"
	case Latitude:
		return "B"
	case Radius:
		return "R"
	default:
		return fmt.Sprintf("Variable(%d)", int(v))
	}
}

// Term is one A·cos(B + C·tau) summand of a series.
type Term struct {
	A float64 // Amplitude.
	B float64 // Phase in radians.
	C float64 // Frequency in radians per unit tau.
}

// At returns the contribution of the term at tau.
func (t Term) At(tau float64) float64 {
	return t.A * math.Cos(t.B+t.C*tau)
}

// Table is the coefficient grid of one body, indexed by (variable, power).
// A nil cell is absent; a non-nil empty cell was declared with zero terms.
// Both contribute nothing. A Table is never mutated after Build.
type Table struct {
	cells [VariableCount][PowerCount][]Term
}

// Terms returns a copy of the terms stored for (v, power), in source order.
func (t *Table) Terms(v Variable, power int) []Term {
	if t == nil || !v.Valid() || power < 0 || power > MaxPower {
		return nil
	}
	return slices.Clone(t.cells[v-1][power])
}

// Present reports whether a series was recorded for (v, power), even an empty one.
func (t *Table) Present(v Variable, power int) bool {
	if t == nil || !v.Valid() || power < 0 || power > MaxPower {
		return false
	}
	return t.cells[v-1][power] != nil
}

// TermCount returns the number of terms recorded for v across all powers.
func (t *Table) TermCount(v Variable) int {
	if t == nil || !v.Valid() {
		return 0
	}
	n := 0
	for _, cell := range t.cells[v-1] {
		n += len(cell)
	}
	return n
}

// Equal compares two tables cell by cell, including cell presence.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	for v := range t.cells {
		for p := range t.cells[v] {
			a, b := t.cells[v][p], o.cells[v][p]
			if (a == nil) != (b == nil) || !slices.Equal(a, b) {
				return false
			}
		}
	}
	return true
}

// TableBuilder accumulates cells before a Table is frozen.
// It is not safe for concurrent use.
type TableBuilder struct {
	cells [VariableCount][PowerCount][]Term
}

// NewTableBuilder returns an empty builder.
func NewTableBuilder() *TableBuilder {
	return &TableBuilder{}
}

// Set stores terms in (v, power), replacing any earlier series for that cell.
// A nil terms slice is recorded as a present, empty cell.
func (b *TableBuilder) Set(v Variable, power int, terms []Term) error {
	if !v.Valid() {
		return fmt.Errorf("variable %d out of range [1, %d]", int(v), VariableCount)
	}
	if power < 0 || power > MaxPower {
		return fmt.Errorf("power %d out of range [0, %d]", power, MaxPower)
	}
	cell := make([]Term, len(terms))
	copy(cell, terms)
	b.cells[v-1][power] = cell
	return nil
}

// Build returns an immutable Table holding a copy of the builder's cells.
func (b *TableBuilder) Build() *Table {
	t := &Table{}
	for v := range b.cells {
		for p, cell := range b.cells[v] {
			if cell != nil {
				t.cells[v][p] = slices.Clone(cell)
			}
		}
	}
	return t
}
