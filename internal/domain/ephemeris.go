package domain

import (
	"math"
	"sort"
	"time"
)

// EphemerisPoint is a position sampled at a specific instant.
type EphemerisPoint struct {
	Time time.Time
	Position
}

// Apsides holds the closest (perihelion) and farthest (aphelion) points
// found in a sampled ephemeris.
type Apsides struct {
	Perihelia []EphemerisPoint
	Aphelia   []EphemerisPoint
}

// GenerateEphemeris samples m from start to end inclusive at the given interval.
func GenerateEphemeris(start, end time.Time, interval time.Duration, m PositionModel) []EphemerisPoint {
	points := make([]EphemerisPoint, 0)

	for t := start; !t.After(end); t = t.Add(interval) {
		points = append(points, EphemerisPoint{
			Time:     t,
			Position: PositionAt(m, Tau(t)),
		})
	}

	return points
}

// FindApsides identifies local radius minima and maxima in a time series.
// Uses first derivative sign change to detect troughs and peaks.
func FindApsides(points []EphemerisPoint) Apsides {
	if len(points) < 3 {
		return Apsides{
			Perihelia: []EphemerisPoint{},
			Aphelia:   []EphemerisPoint{},
		}
	}

	perihelia := make([]EphemerisPoint, 0)
	aphelia := make([]EphemerisPoint, 0)

	for i := 1; i < len(points)-1; i++ {
		prev := points[i-1].Radius
		curr := points[i].Radius
		next := points[i+1].Radius

		if curr < prev && curr < next {
			perihelia = append(perihelia, points[i])
		}
		if curr > prev && curr > next {
			aphelia = append(aphelia, points[i])
		}
		// Plateaus are skipped; radius is never flat over a sampling step.
	}

	return Apsides{
		Perihelia: perihelia,
		Aphelia:   aphelia,
	}
}

// RefineApsis performs parabolic interpolation of the radius over three
// uniformly spaced samples and returns the time and radius of the vertex.
// Longitude and latitude are carried from the middle sample.
func RefineApsis(before, mid, after EphemerisPoint) (time.Time, float64) {
	dt1 := mid.Time.Sub(before.Time).Hours()
	dt2 := after.Time.Sub(mid.Time).Hours()

	if math.Abs(dt1-dt2) > 1e-6 {
		return mid.Time, mid.Radius
	}

	// y = a*x^2 + b*x + c, vertex at x = -b/(2a).
	r0, r1, r2 := before.Radius, mid.Radius, after.Radius
	a := (r2 - 2*r1 + r0) / (2 * dt1 * dt1)
	b := (r2 - r0) / (2 * dt1)

	if math.Abs(a) < 1e-18 {
		return mid.Time, mid.Radius
	}

	dtVertex := -b / (2 * a)
	if math.Abs(dtVertex) > dt1 {
		return mid.Time, mid.Radius
	}

	refinedTime := mid.Time.Add(time.Duration(dtVertex * float64(time.Hour)))
	refinedRadius := r1 + b*dtVertex + a*dtVertex*dtVertex

	return refinedTime, refinedRadius
}

// RefineApsides applies parabolic interpolation to every detected apsis.
func RefineApsides(points []EphemerisPoint, apsides Apsides) Apsides {
	if len(points) < 3 {
		return apsides
	}

	index := make(map[time.Time]int, len(points))
	for i, p := range points {
		index[p.Time] = i
	}

	refine := func(found []EphemerisPoint) []EphemerisPoint {
		refined := make([]EphemerisPoint, 0, len(found))
		for _, p := range found {
			idx, ok := index[p.Time]
			if !ok || idx < 1 || idx >= len(points)-1 {
				refined = append(refined, p)
				continue
			}

			t, r := RefineApsis(points[idx-1], points[idx], points[idx+1])
			pos := p.Position
			pos.Tau = Tau(t)
			pos.Radius = r
			refined = append(refined, EphemerisPoint{Time: t, Position: pos})
		}
		sort.Slice(refined, func(i, j int) bool {
			return refined[i].Time.Before(refined[j].Time)
		})
		return refined
	}

	return Apsides{
		Perihelia: refine(apsides.Perihelia),
		Aphelia:   refine(apsides.Aphelia),
	}
}
