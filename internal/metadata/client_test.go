package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-rental-api/internal/config"
	"github.com/iliyamo/movie-rental-api/internal/logging"
)

func newTestClient(url string) *Client {
	return NewClient(config.MetadataConfig{
		URL:         url,
		APIKey:      "secret",
		Timeout:     time.Second,
		CacheTTL:    time.Hour,
		CachePrefix: "omdb",
	}, nil, logging.Discard())
}

func TestFetch_Found(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tt0111161", r.URL.Query().Get("i"))
		assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Title":"The Shawshank Redemption","Rated":"R","Runtime":"142 min",
			"Director":"Frank Darabont","Ratings":[{"Source":"Internet Movie Database","Value":"9.3/10"}],"Response":"True"}`))
	}))
	defer srv.Close()

	md, err := newTestClient(srv.URL).Fetch(context.Background(), "tt0111161")
	require.NoError(t, err)
	assert.Equal(t, "Frank Darabont", md.Director)
	assert.Equal(t, "142 min", md.Runtime)
	require.Len(t, md.Ratings, 1)
	assert.Equal(t, "9.3/10", md.Ratings[0].Value)
}

func TestFetch_UnknownTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Incorrect IMDb ID."}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Fetch(context.Background(), "tt-nope")
	assert.ErrorIs(t, err, ErrUnknownTitle)
	assert.Equal(t, gobreaker.StateClosed.String(), c.State())
}

func TestFetch_BreakerOpensOnFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	for i := 0; i < 3; i++ {
		_, err := c.Fetch(context.Background(), "tt1")
		assert.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen.String(), c.State())

	_, err := c.Fetch(context.Background(), "tt1")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(3), hits.Load())
}
