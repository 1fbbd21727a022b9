package repository

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-rental-api/internal/model"
	"github.com/iliyamo/movie-rental-api/internal/store"
)

// StatsRepo owns the process-wide order statistics document.
type StatsRepo struct {
	mu    sync.RWMutex
	stats *model.OrderStatistics
	doc   *store.Document[model.OrderStatistics]
	settings
}

func NewStatsRepo(doc *store.Document[model.OrderStatistics], opts ...Option) *StatsRepo {
	return &StatsRepo{doc: doc, stats: model.NewOrderStatistics(), settings: newSettings(opts)}
}

// Load reads the stored statistics.  A missing document means no checkouts
// happened yet.
func (r *StatsRepo) Load(ctx context.Context) error {
	v, ok, err := r.doc.Read(ctx)
	if err != nil {
		return fmt.Errorf("load order statistics: %w", err)
	}
	stats := model.NewOrderStatistics()
	if ok {
		if v.OrderCount != nil {
			stats.OrderCount = v.OrderCount
		}
		if v.RentedWeeks != nil {
			stats.RentedWeeks = v.RentedWeeks
		}
	}
	r.mu.Lock()
	r.stats = stats
	r.mu.Unlock()
	return nil
}

// Fold adds one order and the rented weeks of every item to its movie's
// counters, then persists the document.
func (r *StatsRepo) Fold(ctx context.Context, items []model.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.RecordOrder(items)
	return r.persist(ctx, "fold", "")
}

// Clear removes movieID from the statistics.  Clearing a movie without
// entries changes nothing.
func (r *StatsRepo) Clear(ctx context.Context, movieID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, counted := r.stats.OrderCount[movieID]
	_, rented := r.stats.RentedWeeks[movieID]
	if !counted && !rented {
		return nil
	}
	r.stats.Clear(movieID)
	return r.persist(ctx, "clear", movieID)
}

// Snapshot returns an independent copy of the counters.
func (r *StatsRepo) Snapshot() model.OrderStatistics {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats.Snapshot()
}

func (r *StatsRepo) persist(ctx context.Context, op, movieID string) error {
	if err := r.doc.Write(ctx, *r.stats); err != nil {
		r.logger.WithFields(log.Fields{
			"document": r.doc.Name(),
			"op":       op,
			"movie_id": movieID,
		}).WithError(err).Error("order statistics write failed")
		return persistErr(err)
	}
	return nil
}
