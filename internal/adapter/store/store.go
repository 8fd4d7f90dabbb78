// Package store defines how position models are located and loaded.
package store

import (
	"errors"
	"fmt"

	"go.ngs.io/vsop87-api/internal/domain"
)

// ErrUnknownBody is returned for abbreviations that are not in the catalog.
var ErrUnknownBody = errors.New("unknown body")

// ModelLoader is the interface for loading a body's position model.
type ModelLoader interface {
	// LoadForBody returns the model for a body abbreviation (e.g., "ear").
	LoadForBody(body string) (domain.PositionModel, error)

	// ListBodies returns the abbreviations for which data is available.
	ListBodies() ([]string, error)
}

// ResourceError reports that the data stream for a body could not be opened.
// Err is the underlying error, unmodified.
type ResourceError struct {
	Body string
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("failed to open data for body %s at %s: %v", e.Body, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }
