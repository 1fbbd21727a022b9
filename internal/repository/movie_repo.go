package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-rental-api/internal/model"
	"github.com/iliyamo/movie-rental-api/internal/store"
)

// MovieRepo is the movie catalog.  Movies keep their insertion order and
// every change rewrites the whole collection.  Price class and price are
// recomputed whenever a movie is loaded or stored, so tiers age with time.
type MovieRepo struct {
	mu     sync.RWMutex
	movies []model.Movie
	coll   *store.Collection[model.Movie]
	settings
}

// NewMovieRepo constructs an empty catalog backed by coll.  Call Load to
// read the stored movies.
func NewMovieRepo(coll *store.Collection[model.Movie], opts ...Option) *MovieRepo {
	return &MovieRepo{coll: coll, movies: []model.Movie{}, settings: newSettings(opts)}
}

// Load replaces the in-memory catalog with the stored one and reprices every
// movie against the current time.
func (r *MovieRepo) Load(ctx context.Context) error {
	items, err := r.coll.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("load movies: %w", err)
	}
	now := r.now()
	for i := range items {
		items[i].Reprice(now)
		items[i].Metadata = nil
	}
	r.mu.Lock()
	r.movies = items
	r.mu.Unlock()
	return nil
}

// List returns a copy of the catalog in insertion order.
func (r *MovieRepo) List(ctx context.Context) []model.Movie {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Movie, 0, len(r.movies))
	for _, m := range r.movies {
		out = append(out, m.Clone())
	}
	return out
}

// Len returns the number of movies in the catalog.
func (r *MovieRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.movies)
}

// FindByID returns the movie with the given id or ErrMovieNotFound.
func (r *MovieRepo) FindByID(ctx context.Context, id string) (model.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return model.Movie{}, ErrMovieNotFound
	}
	return r.movies[i].Clone(), nil
}

// FindByCategory returns every movie carrying the category, compared
// case-insensitively.  An empty result is ErrMovieNotFound.
func (r *MovieRepo) FindByCategory(ctx context.Context, name string) ([]model.Movie, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: category is required", ErrValidation)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Movie
	for _, m := range r.movies {
		if m.HasCategory(name) {
			out = append(out, m.Clone())
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no movies in category %q", ErrMovieNotFound, name)
	}
	return out, nil
}

// Add validates m, rejects duplicate ids, prices it and appends it to the
// catalog.  The stored movie is returned.
func (r *MovieRepo) Add(ctx context.Context, m model.Movie) (model.Movie, error) {
	if err := m.Validate(); err != nil {
		return model.Movie{}, err
	}
	m = m.Clone()
	m.ImdbID = strings.TrimSpace(m.ImdbID)
	m.Metadata = nil

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(m.ImdbID) >= 0 {
		return model.Movie{}, fmt.Errorf("%w: %s", ErrMovieIDNotUnique, m.ImdbID)
	}
	m.Reprice(r.now())
	r.movies = append(r.movies, m)
	return m.Clone(), r.persist(ctx, "add", m.ImdbID)
}

// Remove deletes the movie with the given id.
func (r *MovieRepo) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return ErrMovieNotFound
	}
	r.movies = append(r.movies[:i], r.movies[i+1:]...)
	return r.persist(ctx, "remove", id)
}

// Replace overwrites the movie stored under id with m.  The stored record
// takes m's id, which may differ from id as long as no other movie uses it.
func (r *MovieRepo) Replace(ctx context.Context, id string, m model.Movie) (model.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return model.Movie{}, ErrMovieNotFound
	}
	if err := m.Validate(); err != nil {
		return model.Movie{}, err
	}
	m = m.Clone()
	m.ImdbID = strings.TrimSpace(m.ImdbID)
	m.Metadata = nil
	if j := r.indexOf(m.ImdbID); j >= 0 && j != i {
		return model.Movie{}, fmt.Errorf("%w: %s", ErrMovieIDNotUnique, m.ImdbID)
	}
	m.Reprice(r.now())
	r.movies[i] = m
	return m.Clone(), r.persist(ctx, "replace", id)
}

// indexOf must be called with r.mu held.
func (r *MovieRepo) indexOf(id string) int {
	id = strings.TrimSpace(id)
	for i := range r.movies {
		if r.movies[i].ImdbID == id {
			return i
		}
	}
	return -1
}

// persist must be called with r.mu held for writing.
func (r *MovieRepo) persist(ctx context.Context, op, id string) error {
	if err := r.coll.WriteAll(ctx, r.movies); err != nil {
		r.logger.WithFields(log.Fields{
			"collection": r.coll.Name(),
			"op":         op,
			"movie_id":   id,
		}).WithError(err).Error("movie catalog write failed")
		return persistErr(err)
	}
	return nil
}
