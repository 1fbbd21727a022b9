package handler // handler package contains the order handlers

import (
    "net/http" // http provides status code constants

    "github.com/labstack/echo/v4" // echo is the web framework used for handlers

    "github.com/iliyamo/movie-rental-api/internal/metrics" // metrics counts order events
    "github.com/iliyamo/movie-rental-api/internal/service" // service runs the order workflow
)

// OrderHandler exposes the order workflow and the statistics.
type OrderHandler struct {
    Rentals *service.RentalService
}

func NewOrderHandler(rentals *service.RentalService) *OrderHandler {
    if rentals == nil {
        panic("nil service passed to NewOrderHandler")
    }
    return &OrderHandler{Rentals: rentals}
}

// itemRequest is the body of create and extend.
type itemRequest struct {
    MovieID             string `json:"movieId"`
    RentDurationInWeeks int    `json:"rentDurationInWeeks"`
}

// ListOrders handles GET /v1/orders
func (h *OrderHandler) ListOrders(c echo.Context) error {
    return ok(c, http.StatusOK, h.Rentals.ListOrders(c.Request().Context()))
}

// GetOrder handles GET /v1/orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
    o, err := h.Rentals.GetOrder(c.Request().Context(), c.Param("id"))
    if err != nil {
        return fail(c, err)
    }
    return ok(c, http.StatusOK, o)
}

// CreateOrder handles POST /v1/orders and opens an order with its first item.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
    var body itemRequest
    if err := c.Bind(&body); err != nil {
        return invalid(c, http.StatusBadRequest, "invalid request body")
    }
    o, err := h.Rentals.CreateOrder(c.Request().Context(), body.MovieID, body.RentDurationInWeeks)
    if err != nil {
        return fail(c, err)
    }
    metrics.OrdersTotal.WithLabelValues("created").Inc()
    return ok(c, http.StatusCreated, o)
}

// ExtendOrder handles POST /v1/orders/:id/items
func (h *OrderHandler) ExtendOrder(c echo.Context) error {
    var body itemRequest
    if err := c.Bind(&body); err != nil {
        return invalid(c, http.StatusBadRequest, "invalid request body")
    }
    o, err := h.Rentals.ExtendOrder(c.Request().Context(), c.Param("id"), body.MovieID, body.RentDurationInWeeks)
    if err != nil {
        return fail(c, err)
    }
    metrics.OrdersTotal.WithLabelValues("extended").Inc()
    return ok(c, http.StatusOK, o)
}

// Checkout handles PATCH /v1/orders/:id/checkout
func (h *OrderHandler) Checkout(c echo.Context) error {
    o, err := h.Rentals.Checkout(c.Request().Context(), c.Param("id"))
    if err != nil {
        return fail(c, err)
    }
    metrics.OrdersTotal.WithLabelValues("checked_out").Inc()
    metrics.CheckoutAmount.Observe(o.TotalPrice.InexactFloat64())
    return ok(c, http.StatusOK, o)
}

// DeleteOrder handles DELETE /v1/orders/:id
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
    if err := h.Rentals.DeleteOrder(c.Request().Context(), c.Param("id")); err != nil {
        return fail(c, err)
    }
    metrics.OrdersTotal.WithLabelValues("deleted").Inc()
    return ok(c, http.StatusOK, nil)
}

// Statistics handles GET /v1/orders/stats
func (h *OrderHandler) Statistics(c echo.Context) error {
    return ok(c, http.StatusOK, h.Rentals.Statistics())
}

// ClearStatistics handles DELETE /v1/orders/stats/:movieId
func (h *OrderHandler) ClearStatistics(c echo.Context) error {
    if err := h.Rentals.ClearStatistics(c.Request().Context(), c.Param("movieId")); err != nil {
        return fail(c, err)
    }
    return ok(c, http.StatusOK, h.Rentals.Statistics())
}
