// Package metadata looks up movie details on OMDb.  Lookups are best effort:
// callers attach the result when it arrives and carry on without it
// otherwise.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"

	"github.com/iliyamo/movie-rental-api/internal/config"
	"github.com/iliyamo/movie-rental-api/internal/metrics"
	"github.com/iliyamo/movie-rental-api/internal/model"
)

const circuitName = "omdb"

// ErrUnknownTitle is returned when OMDb answers but does not know the id.
var ErrUnknownTitle = errors.New("title unknown to omdb")

// Fetcher returns metadata for a catalog id.
type Fetcher interface {
	Fetch(ctx context.Context, imdbID string) (*model.MovieMetadata, error)
}

// Client fetches from OMDb through a circuit breaker.  Concurrent lookups of
// the same id share one request, and found records are cached in Redis when
// a client is configured.
type Client struct {
	http    *resty.Client
	apiKey  string
	breaker *gobreaker.CircuitBreaker
	group   singleflight.Group
	cache   *redis.Client
	ttl     time.Duration
	prefix  string
	logger  *log.Logger
}

// NewClient builds a Client from cfg.  cache may be nil.
func NewClient(cfg config.MetadataConfig, cache *redis.Client, logger *log.Logger) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(cfg.URL).
			SetTimeout(cfg.Timeout).
			SetRetryCount(0), // no automatic retries, the breaker decides
		apiKey: cfg.APIKey,
		cache:  cache,
		ttl:    cfg.CacheTTL,
		prefix: cfg.CachePrefix,
		logger: logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        circuitName,
		MaxRequests: 3,                // requests allowed while half-open
		Interval:    30 * time.Second, // window to track failures
		Timeout:     time.Minute,      // time to wait before half-open
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			c.logger.WithFields(log.Fields{
				"circuit": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Info("circuit breaker state changed")
		},
	})
	metrics.CircuitBreakerState.WithLabelValues(circuitName).Set(0)
	return c
}

// Fetch returns the OMDb record for imdbID.
func (c *Client) Fetch(ctx context.Context, imdbID string) (*model.MovieMetadata, error) {
	if md, ok := c.cached(ctx, imdbID); ok {
		metrics.MetadataLookups.WithLabelValues("hit").Inc()
		return md, nil
	}

	v, err, _ := c.group.Do(imdbID, func() (interface{}, error) {
		return c.breaker.Execute(func() (interface{}, error) {
			return c.request(ctx, imdbID)
		})
	})
	if err != nil {
		metrics.MetadataLookups.WithLabelValues("error").Inc()
		metrics.CircuitBreakerFailures.WithLabelValues(circuitName).Inc()
		return nil, formatError(err)
	}

	md := v.(model.MovieMetadata).Clone()
	if !md.Found() {
		metrics.MetadataLookups.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("%w: %s", ErrUnknownTitle, imdbID)
	}
	metrics.MetadataLookups.WithLabelValues("miss").Inc()
	c.store(ctx, imdbID, md)
	return &md, nil
}

// State reports the breaker state, e.g. for health output.
func (c *Client) State() string {
	return c.breaker.State().String()
}

// request performs one OMDb call.  An unknown id is a successful call as far
// as the breaker is concerned.
func (c *Client) request(ctx context.Context, imdbID string) (model.MovieMetadata, error) {
	var md model.MovieMetadata
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"i": imdbID, "apikey": c.apiKey}).
		SetHeader("Accept", "application/json").
		Get("")
	if err != nil {
		return md, fmt.Errorf("HTTP error: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return md, fmt.Errorf("omdb returned status %d", resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), &md); err != nil {
		return md, fmt.Errorf("failed to parse response: %w", err)
	}
	return md, nil
}

func (c *Client) key(imdbID string) string {
	return c.prefix + ":" + imdbID
}

func (c *Client) cached(ctx context.Context, imdbID string) (*model.MovieMetadata, bool) {
	if c.cache == nil {
		return nil, false
	}
	data, err := c.cache.Get(ctx, c.key(imdbID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).Debug("metadata cache read failed")
		}
		return nil, false
	}
	var md model.MovieMetadata
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, false
	}
	return &md, true
}

func (c *Client) store(ctx context.Context, imdbID string, md model.MovieMetadata) {
	if c.cache == nil || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(md)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, c.key(imdbID), data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Debug("metadata cache write failed")
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}

func formatError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) {
		return fmt.Errorf("circuit breaker %s is open (service unavailable): %w", circuitName, err)
	}
	if errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("circuit breaker %s: too many requests in half-open state: %w", circuitName, err)
	}
	return err
}
