package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"                             // import the Echo web framework to handle routing
	"github.com/prometheus/client_golang/prometheus/promhttp" // promhttp serves the metrics registry

	"github.com/iliyamo/movie-rental-api/internal/handler"    // import the handlers that implement the endpoints
	"github.com/iliyamo/movie-rental-api/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not belong to a resource: the
// health check used by load balancers and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the admin login.  It is only mounted when a JWT
// secret is configured.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
}

// AdminGuard returns the middleware chain protecting admin routes.  With an
// empty secret authentication is switched off and the chain is empty.
func AdminGuard(jwtSecret string) []echo.MiddlewareFunc {
	if jwtSecret == "" {
		return nil
	}
	return []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(handler.RoleAdmin),
	}
}
