// Package grid stores tau-sampled ephemerides in NetCDF files and serves
// them back through linear interpolation.
package grid

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/vsop87-api/internal/adapter/interp"
	"go.ngs.io/vsop87-api/internal/adapter/store"
	"go.ngs.io/vsop87-api/internal/domain"
)

// Variable and attribute names in ephemeris files.
const (
	tauVarName       = "tau"
	longitudeVarName = "longitude"
	latitudeVarName  = "latitude"
	radiusVarName    = "radius"
	bodyAttrName     = "body"
	unitsAttrName    = "units"

	fileSuffix = ".nc"
)

// Ephemeris is a sampled position table. It implements domain.PositionModel;
// outside the sampled range every coordinate is NaN.
type Ephemeris struct {
	Body      string
	longitude interp.Grid1D
	latitude  interp.Grid1D
	radius    interp.Grid1D
}

// NewEphemeris builds an ephemeris from positions sorted by increasing tau.
func NewEphemeris(body string, positions []domain.Position) (*Ephemeris, error) {
	taus := make([]float64, len(positions))
	l := make([]float64, len(positions))
	b := make([]float64, len(positions))
	r := make([]float64, len(positions))
	for i, p := range positions {
		taus[i], l[i], b[i], r[i] = p.Tau, p.Longitude, p.Latitude, p.Radius
	}
	return newEphemeris(body, taus, l, b, r)
}

func newEphemeris(body string, taus, l, b, r []float64) (*Ephemeris, error) {
	e := &Ephemeris{
		Body:      body,
		longitude: interp.Grid1D{X: taus, Values: l},
		latitude:  interp.Grid1D{X: taus, Values: b},
		radius:    interp.Grid1D{X: taus, Values: r},
	}
	for name, g := range map[string]*interp.Grid1D{
		longitudeVarName: &e.longitude,
		latitudeVarName:  &e.latitude,
		radiusVarName:    &e.radius,
	} {
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("invalid %s grid: %w", name, err)
		}
	}
	return e, nil
}

// Covers reports whether tau lies within the sampled range.
func (e *Ephemeris) Covers(tau float64) bool {
	return e.radius.Contains(tau)
}

// Range returns the first and last sampled tau.
func (e *Ephemeris) Range() (float64, float64) {
	return e.radius.X[0], e.radius.X[len(e.radius.X)-1]
}

// Longitude returns the interpolated longitude in radians.
func (e *Ephemeris) Longitude(tau float64) float64 { return at(&e.longitude, tau) }

// Latitude returns the interpolated latitude in radians.
func (e *Ephemeris) Latitude(tau float64) float64 { return at(&e.latitude, tau) }

// Radius returns the interpolated radius in AU.
func (e *Ephemeris) Radius(tau float64) float64 { return at(&e.radius, tau) }

func at(g *interp.Grid1D, tau float64) float64 {
	v, err := g.InterpolateAt(tau)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Sample evaluates m from start to end (inclusive) every step units of tau.
func Sample(m domain.PositionModel, start, end, step float64) ([]domain.Position, error) {
	if step <= 0 {
		return nil, fmt.Errorf("step must be positive")
	}
	if end <= start {
		return nil, fmt.Errorf("end tau must be after start tau")
	}

	n := int(math.Floor((end-start)/step+1e-9)) + 1
	positions := make([]domain.Position, 0, n)
	for i := 0; i < n; i++ {
		positions = append(positions, domain.PositionAt(m, start+float64(i)*step))
	}
	return positions, nil
}

// Write stores positions for body in a NetCDF file at path.
func Write(path, body string, positions []domain.Position) error {
	if len(positions) < 2 {
		return fmt.Errorf("at least 2 positions are required, got %d", len(positions))
	}

	ds, err := netcdf.CreateFile(path, netcdf.CLOBBER|netcdf.NETCDF4)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = ds.Close() }()

	tauDim, err := ds.AddDim(tauVarName, uint64(len(positions)))
	if err != nil {
		return err
	}
	if err := ds.Attr(bodyAttrName).WriteBytes([]byte(body)); err != nil {
		return fmt.Errorf("failed to write body attribute: %w", err)
	}

	columns := []struct {
		name  string
		units string
		value func(domain.Position) float64
	}{
		{tauVarName, "julian millennia since J2000", func(p domain.Position) float64 { return p.Tau }},
		{longitudeVarName, "rad", func(p domain.Position) float64 { return p.Longitude }},
		{latitudeVarName, "rad", func(p domain.Position) float64 { return p.Latitude }},
		{radiusVarName, "au", func(p domain.Position) float64 { return p.Radius }},
	}

	vars := make([]netcdf.Var, len(columns))
	for i, c := range columns {
		v, err := ds.AddVar(c.name, netcdf.DOUBLE, []netcdf.Dim{tauDim})
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", c.name, err)
		}
		if err := v.Attr(unitsAttrName).WriteBytes([]byte(c.units)); err != nil {
			return fmt.Errorf("failed to write %s units: %w", c.name, err)
		}
		vars[i] = v
	}

	if err := ds.EndDef(); err != nil {
		return fmt.Errorf("enddef: %w", err)
	}

	for i, c := range columns {
		data := make([]float64, len(positions))
		for j, p := range positions {
			data[j] = c.value(p)
		}
		if err := vars[i].WriteFloat64s(data); err != nil {
			return fmt.Errorf("failed to write %s: %w", c.name, err)
		}
	}

	return nil
}

// Open reads an ephemeris file written by Write.
//
//nolint:gosec // G304: Path comes from the configured grid directory.
func Open(path string) (*Ephemeris, error) {
	nc, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open NetCDF file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	body, err := readStringAttr(nc.Attr(bodyAttrName))
	if err != nil {
		return nil, fmt.Errorf("failed to read body attribute: %w", err)
	}

	data := make(map[string][]float64, 4)
	for _, name := range []string{tauVarName, longitudeVarName, latitudeVarName, radiusVarName} {
		v, err := nc.Var(name)
		if err != nil {
			return nil, fmt.Errorf("variable %s not found: %w", name, err)
		}
		values, err := readFloat64Var(v)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		data[name] = values
	}

	return newEphemeris(body, data[tauVarName], data[longitudeVarName], data[latitudeVarName], data[radiusVarName])
}

func readStringAttr(a netcdf.Attr) (string, error) {
	n, err := a.Len()
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if err := a.ReadBytes(buf); err != nil {
		return "", err
	}
	return strings.TrimRight(string(buf), "\x00"), nil
}

// readFloat64Var reads a 1D float64 array from a NetCDF variable.
func readFloat64Var(v netcdf.Var) ([]float64, error) {
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("expected 1D variable, got %dD", len(dims))
	}

	length, err := dims[0].Len()
	if err != nil {
		return nil, err
	}

	t, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to get var type: %w", err)
	}

	switch t {
	case netcdf.DOUBLE:
		data := make([]float64, length)
		if err := v.ReadFloat64s(data); err != nil {
			return nil, err
		}
		return data, nil
	case netcdf.FLOAT:
		tmp := make([]float32, length)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, err
		}
		out := make([]float64, length)
		for i, val := range tmp {
			out[i] = float64(val)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported var type: %v", t)
	}
}

// Store serves ephemeris grids named <abbr>.nc from a directory.
type Store struct {
	dataDir string
	cache   map[string]*Ephemeris // Cache loaded grids.
	mu      sync.RWMutex          // Protect cache.
}

// NewStore creates a new NetCDF grid store.
func NewStore(dataDir string) *Store {
	return &Store{
		dataDir: dataDir,
		cache:   make(map[string]*Ephemeris),
	}
}

// Path returns the grid file path for a body.
func (s *Store) Path(abbr string) string {
	return filepath.Join(s.dataDir, domain.NormalizeBodyAbbr(abbr)+fileSuffix)
}

// LoadEphemeris returns the grid for a body, reading it on first use.
func (s *Store) LoadEphemeris(abbr string) (*Ephemeris, error) {
	abbr = domain.NormalizeBodyAbbr(abbr)
	if abbr == "" || strings.ContainsAny(abbr, `/\.`) {
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownBody, abbr)
	}

	s.mu.RLock()
	if e, ok := s.cache[abbr]; ok {
		s.mu.RUnlock()
		return e, nil
	}
	s.mu.RUnlock()

	path := s.Path(abbr)
	if _, err := os.Stat(path); err != nil {
		return nil, &store.ResourceError{Body: abbr, Path: path, Err: err}
	}

	e, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load grid for %s: %w", abbr, err)
	}

	s.mu.Lock()
	s.cache[abbr] = e
	s.mu.Unlock()

	return e, nil
}

// LoadForBody returns the grid for a body as a position model.
func (s *Store) LoadForBody(abbr string) (domain.PositionModel, error) {
	e, err := s.LoadEphemeris(abbr)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListBodies returns the bodies that have a grid file, sorted.
func (s *Store) ListBodies() ([]string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read grid directory: %w", err)
	}

	bodies := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, fileSuffix) {
			bodies = append(bodies, strings.TrimSuffix(name, fileSuffix))
		}
	}
	sort.Strings(bodies)
	return bodies, nil
}
