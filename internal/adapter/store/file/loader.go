// Package file loads VSOP87D coefficient tables from a data directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"go.ngs.io/vsop87-api/internal/adapter/store"
	"go.ngs.io/vsop87-api/internal/domain"
	"go.ngs.io/vsop87-api/internal/logging"
	"go.ngs.io/vsop87-api/internal/vsop87"
)

// preloadConcurrency bounds the number of files parsed at once.
const preloadConcurrency = 4

// Store provides access to VSOP87D coefficient tables.
type Store struct {
	dataDir string
	catalog *Catalog
	log     logr.Logger

	cache map[string]*domain.Table // Parsed tables, keyed by abbreviation.
	mu    sync.RWMutex             // Protect cache.
}

// NewStore creates a file store. A nil catalog selects DefaultCatalog.
func NewStore(dataDir string, catalog *Catalog, log logr.Logger) *Store {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Store{
		dataDir: dataDir,
		catalog: catalog,
		log:     log.WithName("file-store"),
		cache:   make(map[string]*domain.Table),
	}
}

// Catalog returns the store's body catalog.
func (s *Store) Catalog() *Catalog {
	return s.catalog
}

// Bodies returns the catalogued bodies in catalog order.
func (s *Store) Bodies() []domain.Body {
	return s.catalog.Bodies()
}

// Path returns the data file path for a catalogued body.
func (s *Store) Path(body domain.Body) string {
	return filepath.Join(s.dataDir, body.File)
}

// LoadTable returns the parsed table for a body, parsing the file on first use.
func (s *Store) LoadTable(abbr string) (*domain.Table, error) {
	body, ok := s.catalog.Lookup(abbr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownBody, abbr)
	}

	s.mu.RLock()
	if table, ok := s.cache[body.Abbr]; ok {
		s.mu.RUnlock()
		return table, nil
	}
	s.mu.RUnlock()

	table, err := s.parse(body)
	if err != nil {
		return nil, err
	}

	// A concurrent load of the same body may have won; both tables are equal.
	s.mu.Lock()
	if cached, ok := s.cache[body.Abbr]; ok {
		table = cached
	} else {
		s.cache[body.Abbr] = table
	}
	s.mu.Unlock()

	return table, nil
}

func (s *Store) parse(body domain.Body) (*domain.Table, error) {
	path := s.Path(body)

	//nolint:gosec // G304: File path constructed from dataDir (config) and catalog entry.
	f, err := os.Open(path)
	if err != nil {
		return nil, &store.ResourceError{Body: body.Abbr, Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	s.log.V(logging.DEBUG).Info("Parsing coefficient file", "body", body.Abbr, "path", path)

	table, err := vsop87.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	s.log.V(logging.DEBUG).Info("Parsed coefficient file", "body", body.Abbr,
		"L", table.TermCount(domain.Longitude),
		"B", table.TermCount(domain.Latitude),
		"R", table.TermCount(domain.Radius))

	return table, nil
}

// LoadForBody returns a series evaluator for a body.
func (s *Store) LoadForBody(abbr string) (domain.PositionModel, error) {
	table, err := s.LoadTable(abbr)
	if err != nil {
		return nil, err
	}
	return domain.NewSeries(table), nil
}

// ListBodies returns catalogued bodies whose data file exists.
func (s *Store) ListBodies() ([]string, error) {
	bodies := make([]string, 0)
	for _, b := range s.catalog.Bodies() {
		_, err := os.Stat(s.Path(b))
		switch {
		case err == nil:
			bodies = append(bodies, b.Abbr)
		case errors.Is(err, fs.ErrNotExist):
			continue
		default:
			return nil, fmt.Errorf("failed to stat data for %s: %w", b.Abbr, err)
		}
	}
	return bodies, nil
}

// Preload parses the given bodies in parallel, failing on the first error.
// An empty list preloads every available body.
func (s *Store) Preload(ctx context.Context, bodies []string) error {
	if len(bodies) == 0 {
		var err error
		if bodies, err = s.ListBodies(); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(preloadConcurrency)

	for _, abbr := range bodies {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := s.LoadTable(abbr)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	s.log.Info("Preloaded coefficient tables", "count", len(bodies))
	return nil
}
