package handler // handler package contains the movie catalog handlers

import (
    "context"  // context bounds the metadata lookup
    "net/http" // http provides status code constants
    "strings"  // strings offers trimming utilities
    "time"     // time sets the lookup timeout

    "github.com/labstack/echo/v4" // echo is the web framework used for handlers
    log "github.com/sirupsen/logrus"

    "github.com/iliyamo/movie-rental-api/internal/metadata"   // metadata looks up OMDb details
    "github.com/iliyamo/movie-rental-api/internal/metrics"    // metrics tracks the catalog size
    "github.com/iliyamo/movie-rental-api/internal/model"      // model defines Movie
    "github.com/iliyamo/movie-rental-api/internal/repository" // repository holds the catalog
)

// MovieHandler serves the movie catalog.
type MovieHandler struct {
    Movies   *repository.MovieRepo // Movies is the catalog
    Metadata metadata.Fetcher      // Metadata enriches single lookups; nil disables it
    Timeout  time.Duration         // Timeout bounds a metadata lookup
    Logger   *log.Logger
}

// NewMovieHandler constructs a MovieHandler and panics if the catalog is nil.
// fetcher may be nil.
func NewMovieHandler(movies *repository.MovieRepo, fetcher metadata.Fetcher, logger *log.Logger) *MovieHandler {
    if movies == nil {
        panic("nil repository passed to NewMovieHandler")
    }
    metrics.CatalogSize.Set(float64(movies.Len()))
    return &MovieHandler{Movies: movies, Metadata: fetcher, Timeout: 3 * time.Second, Logger: logger}
}

// movieRequest is the body of create and replace.  Price class and price
// are derived, so they are not accepted.
type movieRequest struct {
    ImdbID      string     `json:"imdbId"`
    Title       string     `json:"title"`
    ReleaseDate model.Date `json:"releaseDate"`
    Categories  []string   `json:"categories"`
}

func (r movieRequest) movie() model.Movie {
    return model.Movie{
        ImdbID:      strings.TrimSpace(r.ImdbID),
        Title:       strings.TrimSpace(r.Title),
        ReleaseDate: r.ReleaseDate,
        Categories:  r.Categories,
    }
}

// ListMovies handles GET /v1/movies
func (h *MovieHandler) ListMovies(c echo.Context) error {
    return ok(c, http.StatusOK, h.Movies.List(c.Request().Context()))
}

// GetMovie handles GET /v1/movies/:id and attaches OMDb details when they
// can be fetched.  A failed lookup still returns the movie.
func (h *MovieHandler) GetMovie(c echo.Context) error {
    m, err := h.Movies.FindByID(c.Request().Context(), c.Param("id"))
    if err != nil {
        return fail(c, err)
    }
    if h.Metadata != nil {
        ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
        defer cancel()
        md, err := h.Metadata.Fetch(ctx, m.ImdbID)
        if err != nil {
            h.Logger.WithField("movie_id", m.ImdbID).WithError(err).Warn("metadata lookup failed")
        } else {
            m.Metadata = md
        }
    }
    return ok(c, http.StatusOK, m)
}

// ListByCategory handles GET /v1/movies/category/:category
func (h *MovieHandler) ListByCategory(c echo.Context) error {
    items, err := h.Movies.FindByCategory(c.Request().Context(), c.Param("category"))
    if err != nil {
        return fail(c, err)
    }
    return ok(c, http.StatusOK, items)
}

// CreateMovie handles POST /v1/movies
func (h *MovieHandler) CreateMovie(c echo.Context) error {
    var body movieRequest
    if err := c.Bind(&body); err != nil {
        return invalid(c, http.StatusBadRequest, "invalid request body")
    }
    m, err := h.Movies.Add(c.Request().Context(), body.movie())
    metrics.CatalogSize.Set(float64(h.Movies.Len()))
    if err != nil {
        return fail(c, err)
    }
    return ok(c, http.StatusCreated, m)
}

// ReplaceMovie handles PUT /v1/movies/:id.  The body may carry a new id.
func (h *MovieHandler) ReplaceMovie(c echo.Context) error {
    var body movieRequest
    if err := c.Bind(&body); err != nil {
        return invalid(c, http.StatusBadRequest, "invalid request body")
    }
    m, err := h.Movies.Replace(c.Request().Context(), c.Param("id"), body.movie())
    if err != nil {
        return fail(c, err)
    }
    return ok(c, http.StatusOK, m)
}

// DeleteMovie handles DELETE /v1/movies/:id
func (h *MovieHandler) DeleteMovie(c echo.Context) error {
    err := h.Movies.Remove(c.Request().Context(), c.Param("id"))
    metrics.CatalogSize.Set(float64(h.Movies.Len()))
    if err != nil {
        return fail(c, err)
    }
    return ok(c, http.StatusOK, nil)
}
