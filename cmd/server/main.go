package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework
	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-rental-api/internal/config"
	"github.com/iliyamo/movie-rental-api/internal/database"
	"github.com/iliyamo/movie-rental-api/internal/handler"
	"github.com/iliyamo/movie-rental-api/internal/logging"
	"github.com/iliyamo/movie-rental-api/internal/metadata"
	"github.com/iliyamo/movie-rental-api/internal/metrics"
	"github.com/iliyamo/movie-rental-api/internal/middleware"
	"github.com/iliyamo/movie-rental-api/internal/model"
	"github.com/iliyamo/movie-rental-api/internal/queue"
	"github.com/iliyamo/movie-rental-api/internal/repository"
	"github.com/iliyamo/movie-rental-api/internal/router"
	"github.com/iliyamo/movie-rental-api/internal/service"
	"github.com/iliyamo/movie-rental-api/internal/store"
)

func main() {
	cfg := config.Load() // Load environment config
	logger := logging.New(cfg.Env, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx := context.Background()
	codec, err := store.CodecFor(cfg.Format)
	if err != nil {
		logger.WithError(err).Fatal("unsupported format")
	}
	backend, db, err := openBackend(ctx, cfg, codec)
	if err != nil {
		logger.WithError(err).WithField("backend", cfg.StoreBackend).Fatal("storage unavailable")
	}
	if db != nil {
		defer db.Close()
	}

	ropts := []repository.Option{repository.WithLogger(logger)}
	movies := repository.NewMovieRepo(store.NewCollection[model.Movie](backend, codec, cfg.MovieFileName), ropts...)
	orders := repository.NewOrderRepo(store.NewCollection[model.Order](backend, codec, cfg.OrderFileName), ropts...)
	stats := repository.NewStatsRepo(store.NewDocument[model.OrderStatistics](backend, codec, cfg.OrderStatsFile), ropts...)
	for name, load := range map[string]func(context.Context) error{
		"movies": movies.Load, "orders": orders.Load, "statistics": stats.Load,
	} {
		if err := load(ctx); err != nil {
			logger.WithError(err).WithField("collection", name).Fatal("load failed")
		}
	}
	logger.WithFields(log.Fields{"movies": movies.Len(), "backend": cfg.StoreBackend, "format": cfg.Format}).Info("collections loaded")

	rdb := config.NewRedisClient(cfg.Redis, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	var fetcher metadata.Fetcher
	if cfg.Metadata.Enabled() {
		fetcher = metadata.NewClient(cfg.Metadata, rdb, logger)
	}

	sopts := []service.Option{service.WithLogger(logger)}
	if cfg.EventsEnabled {
		sopts = append(sopts, service.WithPublisher(queue.NewPublisher(cfg.RabbitURL, logger)))
	}
	rentals := service.NewRentalService(movies, orders, stats, sopts...)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(middleware.Recover(logger))
	e.Use(metrics.Middleware())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.NewTokenBucket(cfg.RateLimit, rdb, logger))

	admin := router.AdminGuard(cfg.JWTSecret)
	router.RegisterRoutes(e)
	if cfg.AuthEnabled() {
		router.RegisterAuth(e, handler.NewAuthHandler(cfg, logger))
	} else {
		logger.Warn("JWT_SECRET not set; admin routes are unprotected")
	}
	router.RegisterMovies(e, handler.NewMovieHandler(movies, fetcher, logger), admin)
	router.RegisterOrders(e, handler.NewOrderHandler(rentals), admin)

	addr := ":" + cfg.Port // Address string with port
	go func() {
		logger.WithFields(log.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}

// openBackend selects where collections are stored.  The returned *sql.DB is
// nil for the file backend.
func openBackend(ctx context.Context, cfg config.Config, codec store.Codec) (store.Backend, *sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.StoreBackend {
	case config.BackendMySQL:
		db, err = database.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	case config.BackendSQLite:
		db, err = database.OpenSQLite(cfg.SQLitePath)
	default:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, nil, err
		}
		return store.NewFileBackend(cfg.DataDir, codec), nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	backend, err := store.NewSQLBackend(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return backend, db, nil
}
