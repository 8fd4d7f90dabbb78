// Package interp provides interpolation over sampled series.
package interp

import (
	"fmt"
	"math"
	"sort"
)

// Segment is one interval of a sampled series with its end values.
type Segment struct {
	X0, X1 float64 // Interval boundaries (e.g., tau).
	V0, V1 float64 // Values at X0 and X1.
}

// LinearInterpolate performs linear interpolation within a segment
// Formula:
//
//	f(x) ≈ (1-t)·V0 + t·V1,  t = (x - X0) / (X1 - X0)
func LinearInterpolate(seg Segment, x float64) (float64, error) {
	if seg.X1 <= seg.X0 {
		return 0, fmt.Errorf("invalid segment: X1 must be > X0")
	}

	// Check if point is within segment (with small tolerance for floating point).
	const epsilon = 1e-12
	if x < seg.X0-epsilon || x > seg.X1+epsilon {
		return 0, fmt.Errorf("x coordinate %.9f is outside segment [%.9f, %.9f]", x, seg.X0, seg.X1)
	}

	t := (x - seg.X0) / (seg.X1 - seg.X0)
	t = math.Max(0, math.Min(1, t))

	return (1-t)*seg.V0 + t*seg.V1, nil
}

// Grid1D is a series sampled on a strictly increasing axis.
type Grid1D struct {
	X      []float64
	Values []float64 // Values[i] corresponds to X[i].
}

// Validate checks if the grid is valid.
func (g *Grid1D) Validate() error {
	if len(g.X) < 2 {
		return fmt.Errorf("grid must have at least 2 coordinates")
	}
	if len(g.Values) != len(g.X) {
		return fmt.Errorf("number of values (%d) must match coordinates (%d)", len(g.Values), len(g.X))
	}
	for i := 1; i < len(g.X); i++ {
		if g.X[i] <= g.X[i-1] {
			return fmt.Errorf("coordinates must be strictly increasing")
		}
	}
	return nil
}

// Contains reports whether x lies within the grid axis.
func (g *Grid1D) Contains(x float64) bool {
	return len(g.X) > 0 && x >= g.X[0] && x <= g.X[len(g.X)-1]
}

// InterpolateAt performs linear interpolation at x.
// The grid is assumed valid; call Validate once after construction.
func (g *Grid1D) InterpolateAt(x float64) (float64, error) {
	if !g.Contains(x) {
		if len(g.X) == 0 {
			return 0, fmt.Errorf("empty grid")
		}
		return 0, fmt.Errorf("x coordinate %.9f is outside grid range [%.9f, %.9f]", x, g.X[0], g.X[len(g.X)-1])
	}

	// Index of the first coordinate >= x.
	i := sort.SearchFloat64s(g.X, x)
	if i == 0 {
		return g.Values[0], nil
	}
	if g.X[i] == x {
		return g.Values[i], nil
	}

	return LinearInterpolate(Segment{
		X0: g.X[i-1],
		X1: g.X[i],
		V0: g.Values[i-1],
		V1: g.Values[i],
	}, x)
}
