package file

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"go.ngs.io/vsop87-api/internal/domain"
)

// Catalog maps body abbreviations to data files.
type Catalog struct {
	bodies []domain.Body
	byAbbr map[string]domain.Body
}

type catalogFile struct {
	Bodies []struct {
		Abbr string `yaml:"abbr"`
		Name string `yaml:"name"`
		File string `yaml:"file"`
	} `yaml:"bodies"`
}

// DefaultCatalog returns the catalog of published VSOP87D bodies.
func DefaultCatalog() *Catalog {
	c, _ := NewCatalog(domain.StandardBodies)
	return c
}

// NewCatalog builds a catalog, rejecting empty or duplicate abbreviations.
func NewCatalog(bodies []domain.Body) (*Catalog, error) {
	c := &Catalog{
		bodies: make([]domain.Body, 0, len(bodies)),
		byAbbr: make(map[string]domain.Body, len(bodies)),
	}
	for _, b := range bodies {
		b.Abbr = domain.NormalizeBodyAbbr(b.Abbr)
		if b.Abbr == "" {
			return nil, fmt.Errorf("catalog entry %q has no abbreviation", b.Name)
		}
		if _, dup := c.byAbbr[b.Abbr]; dup {
			return nil, fmt.Errorf("duplicate catalog entry for %s", b.Abbr)
		}
		if b.File == "" {
			b.File = "VSOP87D." + b.Abbr
		}
		if b.Name == "" {
			b.Name = b.Abbr
		}
		c.bodies = append(c.bodies, b)
		c.byAbbr[b.Abbr] = b
	}
	return c, nil
}

// LoadCatalog reads a YAML catalog:
//
//	bodies:
//	  - abbr: ear
//	    name: Earth
//	    file: VSOP87D.ear
func LoadCatalog(path string) (*Catalog, error) {
	//nolint:gosec // G304: Catalog path comes from configuration.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("invalid catalog yaml: %w", err)
	}
	if len(f.Bodies) == 0 {
		return nil, fmt.Errorf("catalog %s lists no bodies", path)
	}

	bodies := make([]domain.Body, 0, len(f.Bodies))
	for _, e := range f.Bodies {
		bodies = append(bodies, domain.Body{Abbr: e.Abbr, Name: e.Name, File: e.File})
	}
	return NewCatalog(bodies)
}

// Lookup finds a body by abbreviation, case-insensitively.
func (c *Catalog) Lookup(abbr string) (domain.Body, bool) {
	b, ok := c.byAbbr[domain.NormalizeBodyAbbr(abbr)]
	return b, ok
}

// Bodies returns the catalog entries in declaration order.
func (c *Catalog) Bodies() []domain.Body {
	out := make([]domain.Body, len(c.bodies))
	copy(out, c.bodies)
	return out
}
