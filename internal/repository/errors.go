// Package repository keeps the movie catalog, the orders and the order
// statistics in memory and mirrors every change to a store.Backend.  The
// sentinel values below let higher layers such as handlers tell the failure
// scenarios apart with errors.Is.
package repository

import (
	"errors"
	"fmt"

	"github.com/iliyamo/movie-rental-api/internal/model"
)

// ErrNotFound is wrapped by every lookup miss.  Handlers should translate
// it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

var (
	ErrMovieNotFound = fmt.Errorf("movie %w", ErrNotFound)
	ErrOrderNotFound = fmt.Errorf("order %w", ErrNotFound)
)

// ErrMovieIDNotUnique is returned when a movie id is already in the catalog.
var ErrMovieIDNotUnique = errors.New("movie id is not unique")

// Re-exported so callers of this package need a single import.
var (
	ErrValidation         = model.ErrValidation
	ErrOrderAlreadyClosed = model.ErrOrderAlreadyClosed
)

// ErrPersistence is returned when a change was applied in memory but could
// not be written to the backend.  The in-memory state is then ahead of the
// stored one until the next successful write.
var ErrPersistence = errors.New("persistence failure")

func persistErr(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
