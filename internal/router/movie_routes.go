package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-api/internal/handler" // movie handlers
)

// RegisterMovies registers the catalog endpoints under /v1/movies.  Reads are
// public; mutations run behind admin.
func RegisterMovies(e *echo.Echo, h *handler.MovieHandler, admin []echo.MiddlewareFunc) {
	g := e.Group("/v1/movies")

	g.GET("", h.ListMovies)
	g.GET("/category/:category", h.ListByCategory)
	g.GET("/:id", h.GetMovie)

	g.POST("", h.CreateMovie, admin...)
	g.PUT("/:id", h.ReplaceMovie, admin...)
	g.DELETE("/:id", h.DeleteMovie, admin...)
}
