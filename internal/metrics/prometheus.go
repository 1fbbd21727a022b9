// Package metrics declares the Prometheus collectors of the service and the
// echo middleware that records HTTP traffic.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks total HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration tracks HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// CircuitBreakerState tracks circuit breaker state (0=closed, 1=open, 2=half-open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"circuit_name"},
	)

	// CircuitBreakerFailures tracks calls rejected or failed behind a breaker
	CircuitBreakerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of circuit breaker failures",
		},
		[]string{"circuit_name"},
	)

	// MetadataLookups counts OMDb lookups by result (hit, miss, not_found, error)
	MetadataLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_metadata_lookups_total",
			Help: "Movie metadata lookups by result",
		},
		[]string{"result"},
	)

	// OrdersTotal tracks order lifecycle events (created, extended, checked_out, deleted)
	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_orders_total",
			Help: "Total number of order lifecycle events",
		},
		[]string{"event"},
	)

	// CheckoutAmount tracks the total price of checked out orders
	CheckoutAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rental_checkout_amount",
			Help:    "Total price of checked out orders",
			Buckets: []float64{2, 5, 10, 25, 50, 100, 250},
		},
	)

	// CatalogSize tracks the number of movies in the catalog
	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rental_catalog_movies",
			Help: "Number of movies in the catalog",
		},
	)
)

// Middleware records RequestsTotal and RequestDuration for every request.
// Routes are labelled with their registered path, not the raw URL, to keep
// label cardinality bounded.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err) // let echo write the response so the status is known
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			RequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
