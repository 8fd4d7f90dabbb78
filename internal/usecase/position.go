package usecase

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-logr/logr"

	"go.ngs.io/vsop87-api/internal/adapter/store"
	"go.ngs.io/vsop87-api/internal/domain"
	"go.ngs.io/vsop87-api/internal/logging"
)

// Position sources.
const (
	SourceSeries = "series"
	SourceGrid   = "grid"
)

const maxPoints = 20000

// ErrInvalidRequest marks request validation failures.
var ErrInvalidRequest = errors.New("invalid request")

// ErrSourceUnavailable is returned when the requested source is not configured.
var ErrSourceUnavailable = errors.New("source unavailable")

// PositionRequest encapsulates a position request.
type PositionRequest struct {
	Body string

	// Single evaluation at raw tau (mutually exclusive with Start/End).
	Tau *float64

	// Time range
	Start    time.Time
	End      time.Time
	Interval time.Duration

	Source string // "series" or "grid"; empty selects series.
}

// PositionResponse contains the computed positions.
type PositionResponse struct {
	Body      string            `json:"body"`
	Name      string            `json:"name,omitempty"`
	Source    string            `json:"source"`
	Frame     string            `json:"frame"`
	Positions []PositionPoint   `json:"positions"`
	Apsides   *ApsidesResponse  `json:"apsides,omitempty"`
	Meta      map[string]string `json:"meta"`
}

// PositionPoint is a single position in API form.
type PositionPoint struct {
	Time         string  `json:"time,omitempty"`
	Tau          float64 `json:"tau"`
	LongitudeRad float64 `json:"longitude_rad"`
	LatitudeRad  float64 `json:"latitude_rad"`
	LongitudeDeg float64 `json:"longitude_deg"`
	LatitudeDeg  float64 `json:"latitude_deg"`
	RadiusAU     float64 `json:"radius_au"`
}

// ApsidesResponse contains perihelion and aphelion passages.
type ApsidesResponse struct {
	Perihelia []PositionPoint `json:"perihelia"`
	Aphelia   []PositionPoint `json:"aphelia"`
}

// BodyInfo describes a catalogued body.
type BodyInfo struct {
	Abbr       string         `json:"abbr"`
	Name       string         `json:"name"`
	Available  bool           `json:"available"`
	HasGrid    bool           `json:"has_grid"`
	TermCounts map[string]int `json:"term_counts,omitempty"`
}

// TableSource is the series store the use case reads from.
type TableSource interface {
	store.ModelLoader
	LoadTable(body string) (*domain.Table, error)
	Bodies() []domain.Body
}

// PositionUseCase orchestrates position computation.
type PositionUseCase struct {
	series TableSource
	grids  store.ModelLoader // Optional.
	log    logr.Logger
}

// NewPositionUseCase creates a new position use case. grids may be nil.
func NewPositionUseCase(series TableSource, grids store.ModelLoader, log logr.Logger) *PositionUseCase {
	return &PositionUseCase{
		series: series,
		grids:  grids,
		log:    log.WithName("positions"),
	}
}

// Validate checks if the request is valid.
func (r *PositionRequest) Validate() error {
	if domain.NormalizeBodyAbbr(r.Body) == "" {
		return fmt.Errorf("body must be provided")
	}

	switch r.Source {
	case "", SourceSeries, SourceGrid:
	default:
		return fmt.Errorf("source must be %q or %q", SourceSeries, SourceGrid)
	}

	hasRange := !r.Start.IsZero() || !r.End.IsZero()
	if r.Tau != nil {
		if hasRange {
			return fmt.Errorf("tau and start/end are mutually exclusive")
		}
		if math.IsNaN(*r.Tau) || math.IsInf(*r.Tau, 0) {
			return fmt.Errorf("tau must be finite")
		}
		return nil
	}

	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("either tau or start and end must be provided")
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("start time must not be after end time")
	}
	if r.Interval < time.Minute {
		return fmt.Errorf("interval must be at least 1 minute")
	}

	numPoints := pointCount(r.Start, r.End, r.Interval)
	if numPoints > maxPoints {
		return fmt.Errorf("too many points (%d) - reduce time range or increase interval", numPoints)
	}

	return nil
}

// pointCount returns the number of samples from start to end inclusive.
// time.Time.Sub saturates beyond about 292 years, so wide ranges are
// counted in whole seconds instead.
func pointCount(start, end time.Time, interval time.Duration) int64 {
	if d := end.Sub(start); d < math.MaxInt64 {
		return int64(d/interval) + 1
	}
	secs := float64(end.Unix() - start.Unix())
	return int64(secs/interval.Seconds()) + 1
}

// Execute computes the requested positions.
func (uc *PositionUseCase) Execute(req PositionRequest) (*PositionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	abbr := domain.NormalizeBodyAbbr(req.Body)
	source := req.Source
	if source == "" {
		source = SourceSeries
	}

	model, err := uc.model(abbr, source)
	if err != nil {
		return nil, err
	}

	response := &PositionResponse{
		Body:   abbr,
		Source: source,
		Frame:  "heliocentric ecliptic of date (VSOP87D)",
		Meta: map[string]string{
			"model":     "VSOP87D",
			"time_base": "tau = Julian millennia from J2000.0 TT",
		},
	}
	for _, b := range uc.series.Bodies() {
		if b.Abbr == abbr {
			response.Name = b.Name
		}
	}

	if req.Tau != nil {
		pos := domain.PositionAt(model, *req.Tau)
		if err := checkCoverage(pos); err != nil {
			return nil, err
		}
		response.Positions = []PositionPoint{toPoint(time.Time{}, pos)}
		return response, nil
	}

	points := domain.GenerateEphemeris(req.Start.UTC(), req.End.UTC(), req.Interval, model)
	for _, p := range points {
		if err := checkCoverage(p.Position); err != nil {
			return nil, err
		}
	}

	apsides := domain.RefineApsides(points, domain.FindApsides(points))

	response.Positions = make([]PositionPoint, len(points))
	for i, p := range points {
		response.Positions[i] = toPoint(p.Time, p.Position)
	}
	response.Apsides = &ApsidesResponse{
		Perihelia: toPoints(apsides.Perihelia),
		Aphelia:   toPoints(apsides.Aphelia),
	}

	uc.log.V(logging.DEBUG).Info("Computed positions", "body", abbr, "source", source,
		"points", len(points), "perihelia", len(apsides.Perihelia), "aphelia", len(apsides.Aphelia))

	return response, nil
}

func (uc *PositionUseCase) model(abbr, source string) (domain.PositionModel, error) {
	if source == SourceGrid {
		if uc.grids == nil {
			return nil, fmt.Errorf("%w: no grid directory configured", ErrSourceUnavailable)
		}
		m, err := uc.grids.LoadForBody(abbr)
		if err != nil {
			return nil, fmt.Errorf("failed to load grid for %s: %w", abbr, err)
		}
		return m, nil
	}

	m, err := uc.series.LoadForBody(abbr)
	if err != nil {
		return nil, fmt.Errorf("failed to load series for %s: %w", abbr, err)
	}
	return m, nil
}

// checkCoverage rejects NaN positions, which a grid returns outside its range.
func checkCoverage(p domain.Position) error {
	if math.IsNaN(p.Radius) {
		return fmt.Errorf("%w: tau %.9f is outside the model's range", ErrInvalidRequest, p.Tau)
	}
	return nil
}

// ListBodies returns catalogued bodies with availability and term counts
// for bodies whose tables are already loaded or loadable.
func (uc *PositionUseCase) ListBodies() ([]BodyInfo, error) {
	available, err := uc.series.ListBodies()
	if err != nil {
		return nil, fmt.Errorf("failed to list bodies: %w", err)
	}
	availableSet := make(map[string]bool, len(available))
	for _, b := range available {
		availableSet[b] = true
	}

	gridSet := make(map[string]bool)
	if uc.grids != nil {
		grids, err := uc.grids.ListBodies()
		if err != nil {
			return nil, fmt.Errorf("failed to list grids: %w", err)
		}
		for _, b := range grids {
			gridSet[b] = true
		}
	}

	bodies := uc.series.Bodies()
	infos := make([]BodyInfo, 0, len(bodies))
	for _, b := range bodies {
		info := BodyInfo{
			Abbr:      b.Abbr,
			Name:      b.Name,
			Available: availableSet[b.Abbr],
			HasGrid:   gridSet[b.Abbr],
		}
		if info.Available {
			table, err := uc.series.LoadTable(b.Abbr)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", b.Abbr, err)
			}
			info.TermCounts = make(map[string]int, domain.VariableCount)
			for _, v := range domain.Variables {
				info.TermCounts[v.String()] = table.TermCount(v)
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func toPoint(t time.Time, p domain.Position) PositionPoint {
	pt := PositionPoint{
		Tau:          p.Tau,
		LongitudeRad: p.Longitude,
		LatitudeRad:  p.Latitude,
		LongitudeDeg: domain.Radians(p.Longitude).NormalizePositive().Deg(),
		LatitudeDeg:  domain.Radians(p.Latitude).NormalizeAroundZero().Deg(),
		RadiusAU:     p.Radius,
	}
	if !t.IsZero() {
		pt.Time = t.UTC().Format(time.RFC3339)
	}
	return pt
}

func toPoints(points []domain.EphemerisPoint) []PositionPoint {
	out := make([]PositionPoint, len(points))
	for i, p := range points {
		out[i] = toPoint(p.Time, p.Position)
	}
	return out
}
