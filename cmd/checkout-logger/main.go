// Command checkout-logger consumes order.checked_out events from RabbitMQ
// and appends one line per checkout to CHECKOUT_LOG_FILE
// (default logs/checkout.log).
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/movie-rental-api/internal/config"
	"github.com/iliyamo/movie-rental-api/internal/logging"
	"github.com/iliyamo/movie-rental-api/internal/queue"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Env, cfg.LogLevel)

	path := os.Getenv("CHECKOUT_LOG_FILE")
	if path == "" {
		path = "logs/checkout.log"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := &queue.CheckoutLogger{URL: cfg.RabbitURL, Path: path, Logger: logger}
	logger.WithField("file", path).Info("checkout-consumer: started")
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Fatal("checkout-consumer: stopped")
	}
}
