package repository

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Option customises a repository at construction.
type Option func(*settings)

type settings struct {
	now    func() time.Time
	logger *log.Logger
}

// WithClock replaces time.Now, which drives repricing on load and insert.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithLogger sets the logger used to report persistence failures.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now, logger: log.StandardLogger()}
	for _, o := range opts {
		o(&s)
	}
	return s
}
