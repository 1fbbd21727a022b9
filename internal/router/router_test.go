package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/movie-rental-api/internal/config"
	"github.com/iliyamo/movie-rental-api/internal/handler"
	"github.com/iliyamo/movie-rental-api/internal/logging"
	"github.com/iliyamo/movie-rental-api/internal/model"
	"github.com/iliyamo/movie-rental-api/internal/repository"
	"github.com/iliyamo/movie-rental-api/internal/service"
	"github.com/iliyamo/movie-rental-api/internal/store"
	"github.com/iliyamo/movie-rental-api/internal/utils"
)

const secret = "router-test-secret"

var now = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

type stubFetcher struct {
	md  *model.MovieMetadata
	err error
}

func (f stubFetcher) Fetch(context.Context, string) (*model.MovieMetadata, error) {
	return f.md, f.err
}

type envelope struct {
	ResponseCode string          `json:"responseCode"`
	Message      string          `json:"message"`
	Data         json.RawMessage `json:"data"`
}

type server struct {
	e     *echo.Echo
	token string
}

func newServer(t *testing.T, fetcher stubFetcher) server {
	t.Helper()
	logger := logging.Discard()
	codec := store.JSONCodec{}
	backend := store.NewFileBackend(t.TempDir(), codec)
	ropts := []repository.Option{
		repository.WithClock(func() time.Time { return now }),
		repository.WithLogger(logger),
	}
	movies := repository.NewMovieRepo(store.NewCollection[model.Movie](backend, codec, "movies"), ropts...)
	orders := repository.NewOrderRepo(store.NewCollection[model.Order](backend, codec, "orders"), ropts...)
	stats := repository.NewStatsRepo(store.NewDocument[model.OrderStatistics](backend, codec, "order_stats"), ropts...)
	rentals := service.NewRentalService(movies, orders, stats,
		service.WithClock(func() time.Time { return now }),
		service.WithLogger(logger),
	)

	hash, err := utils.HashPassword("pw", bcrypt.MinCost)
	require.NoError(t, err)
	cfg := config.Config{JWTSecret: secret, AccessTTLMin: 5, AdminUser: "admin", AdminPasswordHash: hash}

	e := echo.New()
	admin := AdminGuard(cfg.JWTSecret)
	RegisterRoutes(e)
	RegisterAuth(e, handler.NewAuthHandler(cfg, logger))
	RegisterMovies(e, handler.NewMovieHandler(movies, fetcher, logger), admin)
	RegisterOrders(e, handler.NewOrderHandler(rentals), admin)

	s := server{e: e}
	rec, env := s.do(t, http.MethodPost, "/v1/auth/login", `{"username":"admin","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tok utils.AccessToken
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	s.token = tok.Token
	return s
}

func (s server) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if s.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

const shawshank = `{"imdbId":"tt0111161","title":"The Shawshank Redemption","releaseDate":"23.09.1994","categories":["Drama"]}`

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t, stubFetcher{})
	rec, _ := s.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rental_catalog_movies")
}

func TestLogin_Rejected(t *testing.T) {
	s := newServer(t, stubFetcher{})
	s.token = ""
	rec, env := s.do(t, http.MethodPost, "/v1/auth/login", `{"username":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, handler.CodeInvalidRequest, env.ResponseCode)
}

func TestMovies_AdminRequired(t *testing.T) {
	s := newServer(t, stubFetcher{})
	s.token = ""
	rec, _ := s.do(t, http.MethodPost, "/v1/movies", shawshank)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := s.do(t, http.MethodGet, "/v1/movies", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handler.CodeOK, env.ResponseCode)
}

func TestMovies_CRUD(t *testing.T) {
	s := newServer(t, stubFetcher{md: &model.MovieMetadata{Response: "True", Director: "Frank Darabont"}})

	rec, env := s.do(t, http.MethodPost, "/v1/movies", shawshank)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var m model.Movie
	require.NoError(t, json.Unmarshal(env.Data, &m))
	assert.Equal(t, "OLD", string(m.PriceClass))
	assert.Equal(t, "1.99", m.Price.StringFixed(2))

	rec, env = s.do(t, http.MethodPost, "/v1/movies", shawshank)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, handler.CodeInvalidRequest, env.ResponseCode)

	rec, _ = s.do(t, http.MethodPost, "/v1/movies", `{"imdbId":"tt2","title":"Bad date","releaseDate":"1994-31-31"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/v1/movies/tt0111161", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &m))
	require.NotNil(t, m.Metadata)
	assert.Equal(t, "Frank Darabont", m.Metadata.Director)

	rec, env = s.do(t, http.MethodGet, "/v1/movies/category/drama", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Movie
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	rec, _ = s.do(t, http.MethodGet, "/v1/movies/category/western", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodPut, "/v1/movies/tt0111161",
		`{"imdbId":"tt0111161","title":"Shawshank","releaseDate":"23.09.1994","categories":["Drama","Prison"]}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/v1/movies/tt0111161", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(t, http.MethodDelete, "/v1/movies/tt0111161", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMovies_MetadataFailureIsIgnored(t *testing.T) {
	s := newServer(t, stubFetcher{err: errors.New("omdb down")})
	rec, _ := s.do(t, http.MethodPost, "/v1/movies", shawshank)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := s.do(t, http.MethodGet, "/v1/movies/tt0111161", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var m model.Movie
	require.NoError(t, json.Unmarshal(env.Data, &m))
	assert.Nil(t, m.Metadata)
}

func TestOrders_Workflow(t *testing.T) {
	s := newServer(t, stubFetcher{})
	rec, _ := s.do(t, http.MethodPost, "/v1/movies", shawshank)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := s.do(t, http.MethodPost, "/v1/orders", `{"movieId":"tt0111161","rentDurationInWeeks":5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var o model.Order
	require.NoError(t, json.Unmarshal(env.Data, &o))
	assert.Equal(t, model.OrderOpen, o.Status)
	assert.Equal(t, "9.95", o.TotalPrice.StringFixed(2))

	rec, _ = s.do(t, http.MethodPost, "/v1/orders", `{"movieId":"tt0111161","rentDurationInWeeks":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = s.do(t, http.MethodPost, "/v1/orders", `{"movieId":"nope","rentDurationInWeeks":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = s.do(t, http.MethodPost, "/v1/orders/"+o.OrderID+"/items", `{"movieId":"tt0111161","rentDurationInWeeks":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &o))
	assert.Len(t, o.Items, 2)
	assert.Equal(t, "19.90", o.TotalPrice.StringFixed(2))

	rec, _ = s.do(t, http.MethodPatch, "/v1/orders/"+o.OrderID+"/checkout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(t, http.MethodPatch, "/v1/orders/"+o.OrderID+"/checkout", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec, _ = s.do(t, http.MethodPost, "/v1/orders/"+o.OrderID+"/items", `{"movieId":"tt0111161","rentDurationInWeeks":1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/v1/orders/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats model.OrderStatistics
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 2, stats.OrderCount["tt0111161"])
	assert.Equal(t, 10, stats.RentedWeeks["tt0111161"])

	rec, _ = s.do(t, http.MethodDelete, "/v1/orders/stats/tt0111161", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec, env = s.do(t, http.MethodGet, "/v1/orders/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, string(env.Data), "tt0111161")

	rec, _ = s.do(t, http.MethodDelete, "/v1/orders/"+o.OrderID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(t, http.MethodGet, "/v1/orders/"+o.OrderID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
