package usecase

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/vsop87-api/internal/adapter/store"
	"go.ngs.io/vsop87-api/internal/domain"
)

// radiusPeriodDays is the period of the synthetic radius oscillation.
const radiusPeriodDays = 10.0

type fakeSeries struct {
	tables map[string]*domain.Table
	bodies []domain.Body
}

func (f *fakeSeries) LoadTable(body string) (*domain.Table, error) {
	t, ok := f.tables[body]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownBody, body)
	}
	return t, nil
}

func (f *fakeSeries) LoadForBody(body string) (domain.PositionModel, error) {
	t, err := f.LoadTable(body)
	if err != nil {
		return nil, err
	}
	return domain.NewSeries(t), nil
}

func (f *fakeSeries) ListBodies() ([]string, error) {
	out := make([]string, 0, len(f.tables))
	for _, b := range f.bodies {
		if _, ok := f.tables[b.Abbr]; ok {
			out = append(out, b.Abbr)
		}
	}
	return out, nil
}

func (f *fakeSeries) Bodies() []domain.Body { return f.bodies }

// boundedModel is a grid stand-in valid only for tau in [0, 1].
type boundedModel struct{}

func (boundedModel) value(tau, v float64) float64 {
	if tau < 0 || tau > 1 {
		return math.NaN()
	}
	return v
}

func (m boundedModel) Longitude(tau float64) float64 { return m.value(tau, 1) }
func (m boundedModel) Latitude(tau float64) float64  { return m.value(tau, 0) }
func (m boundedModel) Radius(tau float64) float64    { return m.value(tau, 1) }

type fakeGrids struct{}

func (fakeGrids) LoadForBody(body string) (domain.PositionModel, error) {
	if body != "ear" {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownBody, body)
	}
	return boundedModel{}, nil
}

func (fakeGrids) ListBodies() ([]string, error) { return []string{"ear"}, nil }

func newTestUseCase(t *testing.T, grids store.ModelLoader) *PositionUseCase {
	t.Helper()

	b := domain.NewTableBuilder()
	require.NoError(t, b.Set(domain.Longitude, 0, []domain.Term{{A: 7}}))
	require.NoError(t, b.Set(domain.Longitude, 1, []domain.Term{{A: 2}}))
	require.NoError(t, b.Set(domain.Latitude, 0, []domain.Term{{A: -0.01}}))
	freq := 2 * math.Pi * domain.DaysPerMillennium / radiusPeriodDays
	require.NoError(t, b.Set(domain.Radius, 0, []domain.Term{{A: 1}, {A: 0.1, C: freq}}))

	series := &fakeSeries{
		tables: map[string]*domain.Table{"ear": b.Build()},
		bodies: []domain.Body{
			{Abbr: "ven", Name: "Venus", File: "VSOP87D.ven"},
			{Abbr: "ear", Name: "Earth", File: "VSOP87D.ear"},
		},
	}
	return NewPositionUseCase(series, grids, logr.Discard())
}

func ptr(v float64) *float64 { return &v }

func TestPositionRequest_Validate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	millennia := time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     PositionRequest
		wantErr bool
	}{
		{"tau", PositionRequest{Body: "ear", Tau: ptr(0.1)}, false},
		{"range", PositionRequest{Body: "ear", Start: start, End: start.Add(24 * time.Hour), Interval: time.Hour}, false},
		{"grid source", PositionRequest{Body: "ear", Tau: ptr(0), Source: SourceGrid}, false},
		{"missing body", PositionRequest{Body: "  ", Tau: ptr(0)}, true},
		{"unknown source", PositionRequest{Body: "ear", Tau: ptr(0), Source: "table"}, true},
		{"nothing", PositionRequest{Body: "ear"}, true},
		{"tau and range", PositionRequest{Body: "ear", Tau: ptr(0), Start: start, End: start}, true},
		{"nan tau", PositionRequest{Body: "ear", Tau: ptr(math.NaN())}, true},
		{"inf tau", PositionRequest{Body: "ear", Tau: ptr(math.Inf(1))}, true},
		{"missing end", PositionRequest{Body: "ear", Start: start, Interval: time.Hour}, true},
		{"reversed", PositionRequest{Body: "ear", Start: start, End: start.Add(-time.Hour), Interval: time.Hour}, true},
		{"short interval", PositionRequest{Body: "ear", Start: start, End: start.Add(time.Hour), Interval: time.Second}, true},
		{"too many points", PositionRequest{Body: "ear", Start: start, End: start.AddDate(1, 0, 0), Interval: time.Minute}, true},
		{"millennia, coarse", PositionRequest{Body: "ear", Start: millennia, End: millennia.AddDate(2000, 0, 0), Interval: 1000 * 24 * time.Hour}, false},
		{"millennia, too many points", PositionRequest{Body: "ear", Start: millennia, End: millennia.AddDate(2000, 0, 0), Interval: 200 * time.Hour}, true},
		{"just over limit past saturation", PositionRequest{Body: "ear", Start: millennia, End: millennia.AddDate(400, 0, 0), Interval: 175 * time.Hour}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPointCount(t *testing.T) {
	start := time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC)
	interval := 200 * time.Hour

	generated := 0
	for tm := start; !tm.After(end); tm = tm.Add(interval) {
		generated++
	}

	assert.Equal(t, int64(generated), pointCount(start, end, interval))
	assert.Equal(t, int64(25), pointCount(start, start.Add(24*time.Hour), time.Hour))
	assert.Equal(t, int64(1), pointCount(start, start, time.Hour))
}

func TestExecute_SingleTau(t *testing.T) {
	uc := newTestUseCase(t, nil)

	resp, err := uc.Execute(PositionRequest{Body: " EAR ", Tau: ptr(0.5)})
	require.NoError(t, err)

	assert.Equal(t, "ear", resp.Body)
	assert.Equal(t, "Earth", resp.Name)
	assert.Equal(t, SourceSeries, resp.Source)
	assert.Nil(t, resp.Apsides)
	require.Len(t, resp.Positions, 1)

	p := resp.Positions[0]
	assert.Empty(t, p.Time)
	assert.Equal(t, 0.5, p.Tau)
	// L = 7 + 2·0.5 = 8 rad, unnormalized in radians.
	assert.InDelta(t, 8.0, p.LongitudeRad, 1e-12)
	assert.InDelta(t, (8-2*math.Pi)*180/math.Pi, p.LongitudeDeg, 1e-9)
	assert.InDelta(t, -0.01, p.LatitudeRad, 1e-15)
	assert.InDelta(t, -0.01*180/math.Pi, p.LatitudeDeg, 1e-12)
}

func TestExecute_RangeFindsApsides(t *testing.T) {
	uc := newTestUseCase(t, nil)

	start := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC) // J2000.0
	resp, err := uc.Execute(PositionRequest{
		Body:     "ear",
		Start:    start,
		End:      start.AddDate(0, 0, 30),
		Interval: 6 * time.Hour,
	})
	require.NoError(t, err)

	assert.Len(t, resp.Positions, 30*4+1)
	assert.Equal(t, "2000-01-01T12:00:00Z", resp.Positions[0].Time)
	assert.InDelta(t, 0, resp.Positions[0].Tau, 1e-12)
	assert.InDelta(t, 1.1, resp.Positions[0].RadiusAU, 1e-9)

	require.NotNil(t, resp.Apsides)
	// Minima at 5, 15, 25 days; interior maxima at 10, 20 days.
	require.Len(t, resp.Apsides.Perihelia, 3)
	require.Len(t, resp.Apsides.Aphelia, 2)

	for i, p := range resp.Apsides.Perihelia {
		want := start.Add(time.Duration((5+10*float64(i))*24) * time.Hour)
		got, err := time.Parse(time.RFC3339, p.Time)
		require.NoError(t, err)
		assert.WithinDuration(t, want, got, time.Hour)
		assert.InDelta(t, 0.9, p.RadiusAU, 1e-3)
	}
	for _, p := range resp.Apsides.Aphelia {
		assert.InDelta(t, 1.1, p.RadiusAU, 1e-3)
	}
}

func TestExecute_UnknownBody(t *testing.T) {
	uc := newTestUseCase(t, nil)

	_, err := uc.Execute(PositionRequest{Body: "plu", Tau: ptr(0)})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrUnknownBody)
}

func TestExecute_InvalidRequest(t *testing.T) {
	uc := newTestUseCase(t, nil)

	_, err := uc.Execute(PositionRequest{Body: "ear"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestExecute_GridSource(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		uc := newTestUseCase(t, nil)
		_, err := uc.Execute(PositionRequest{Body: "ear", Tau: ptr(0.5), Source: SourceGrid})
		assert.ErrorIs(t, err, ErrSourceUnavailable)
	})

	t.Run("inside coverage", func(t *testing.T) {
		uc := newTestUseCase(t, fakeGrids{})
		resp, err := uc.Execute(PositionRequest{Body: "ear", Tau: ptr(0.5), Source: SourceGrid})
		require.NoError(t, err)
		assert.Equal(t, SourceGrid, resp.Source)
		require.Len(t, resp.Positions, 1)
		assert.Equal(t, 1.0, resp.Positions[0].RadiusAU)
	})

	t.Run("outside coverage", func(t *testing.T) {
		uc := newTestUseCase(t, fakeGrids{})
		_, err := uc.Execute(PositionRequest{Body: "ear", Tau: ptr(2), Source: SourceGrid})
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestListBodies(t *testing.T) {
	uc := newTestUseCase(t, fakeGrids{})

	infos, err := uc.ListBodies()
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, BodyInfo{Abbr: "ven", Name: "Venus"}, infos[0])

	ear := infos[1]
	assert.Equal(t, "ear", ear.Abbr)
	assert.True(t, ear.Available)
	assert.True(t, ear.HasGrid)
	assert.Equal(t, map[string]int{"L": 2, "B": 1, "R": 2}, ear.TermCounts)
}
