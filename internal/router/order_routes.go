package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-api/internal/handler" // order handlers
)

// RegisterOrders registers the order workflow and statistics endpoints under
// /v1/orders.  Clearing statistics requires admin.
func RegisterOrders(e *echo.Echo, h *handler.OrderHandler, admin []echo.MiddlewareFunc) {
	g := e.Group("/v1/orders")

	// ---- Statistics ----
	g.GET("/stats", h.Statistics)
	g.DELETE("/stats/:movieId", h.ClearStatistics, admin...)

	// ---- Orders ----
	g.GET("", h.ListOrders)
	g.POST("", h.CreateOrder)
	g.GET("/:id", h.GetOrder)
	g.POST("/:id/items", h.ExtendOrder)
	g.PATCH("/:id/checkout", h.Checkout)
	g.DELETE("/:id", h.DeleteOrder)
}
