// Package service implements the order workflow on top of the repositories:
// pricing rental lines, extending open orders and checking them out into the
// order statistics.
package service

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-rental-api/internal/model"
	"github.com/iliyamo/movie-rental-api/internal/queue"
	"github.com/iliyamo/movie-rental-api/internal/repository"
)

// CheckoutPublisher announces closed orders to other systems.
type CheckoutPublisher interface {
	PublishOrderCheckedOut(ctx context.Context, ev queue.OrderCheckedOutEvent) error
}

// RentalService coordinates the movie catalog, the orders and the statistics.
type RentalService struct {
	movies    *repository.MovieRepo
	orders    *repository.OrderRepo
	stats     *repository.StatsRepo
	publisher CheckoutPublisher
	now       func() time.Time
	logger    *log.Logger
}

// Option customises a RentalService.
type Option func(*RentalService)

func WithClock(now func() time.Time) Option {
	return func(s *RentalService) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *RentalService) { s.logger = l }
}

// WithPublisher enables checkout events.  Publishing is best effort: a
// failure is logged and never fails the checkout.
func WithPublisher(p CheckoutPublisher) Option {
	return func(s *RentalService) { s.publisher = p }
}

func NewRentalService(movies *repository.MovieRepo, orders *repository.OrderRepo, stats *repository.StatsRepo, opts ...Option) *RentalService {
	if movies == nil || orders == nil || stats == nil {
		panic("nil repository passed to NewRentalService")
	}
	s := &RentalService{
		movies: movies,
		orders: orders,
		stats:  stats,
		now:    time.Now,
		logger: log.StandardLogger(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// priceItem snapshots the movie's release date and weekly price and computes
// the line total for a rental starting now.
func (s *RentalService) priceItem(ctx context.Context, movieID string, weeks int, now time.Time) (model.OrderItem, error) {
	m, err := s.movies.FindByID(ctx, movieID)
	if err != nil {
		return model.OrderItem{}, err
	}
	m.Reprice(now)
	return model.NewOrderItem(m, weeks, now)
}

// CreateOrder opens a new order holding a single rental line.
func (s *RentalService) CreateOrder(ctx context.Context, movieID string, weeks int) (model.Order, error) {
	now := s.now()
	item, err := s.priceItem(ctx, movieID, weeks, now)
	if err != nil {
		return model.Order{}, err
	}
	o := model.NewOrder(now)
	if err := o.AttachItem(item, now); err != nil {
		return model.Order{}, err
	}
	if err := s.orders.Add(ctx, *o); err != nil {
		return o.Clone(), err
	}
	s.logger.WithFields(log.Fields{"order_id": o.OrderID, "movie_id": movieID, "weeks": weeks}).Info("order created")
	return o.Clone(), nil
}

// ExtendOrder adds a rental line to an open order.
func (s *RentalService) ExtendOrder(ctx context.Context, orderID, movieID string, weeks int) (model.Order, error) {
	now := s.now()
	item, err := s.priceItem(ctx, movieID, weeks, now)
	if err != nil {
		return model.Order{}, err
	}
	return s.orders.Update(ctx, orderID, func(o *model.Order) error {
		return o.AttachItem(item, now)
	})
}

// Checkout closes an open order and folds its lines into the statistics.
// Both happen under the order lock, so a concurrent checkout of the same
// order sees it closed and fails with ErrOrderAlreadyClosed.
func (s *RentalService) Checkout(ctx context.Context, orderID string) (model.Order, error) {
	now := s.now()
	closed, err := s.orders.Update(ctx, orderID, func(o *model.Order) error {
		if err := o.Checkout(now); err != nil {
			return err
		}
		return s.stats.Fold(ctx, o.Items)
	})
	if err != nil {
		if errors.Is(err, repository.ErrPersistence) {
			s.logger.WithField("order_id", orderID).WithError(err).Error("checkout applied in memory but not persisted")
		}
		return closed, err
	}
	s.logger.WithFields(log.Fields{"order_id": orderID, "total": closed.TotalPrice.StringFixed(2)}).Info("order checked out")
	s.publish(ctx, closed)
	return closed, nil
}

func (s *RentalService) publish(ctx context.Context, o model.Order) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.publisher.PublishOrderCheckedOut(ctx, queue.NewOrderCheckedOutEvent(o)); err != nil {
		s.logger.WithField("order_id", o.OrderID).WithError(err).Warn("checkout event not published")
	}
}

// DeleteOrder removes an order in either state.  Statistics already folded
// from it are kept.
func (s *RentalService) DeleteOrder(ctx context.Context, orderID string) error {
	return s.orders.Delete(ctx, orderID)
}

func (s *RentalService) GetOrder(ctx context.Context, orderID string) (model.Order, error) {
	return s.orders.FindByID(ctx, orderID)
}

func (s *RentalService) ListOrders(ctx context.Context) []model.Order {
	return s.orders.List(ctx)
}

// Statistics returns a copy of the per-movie counters.
func (s *RentalService) Statistics() model.OrderStatistics {
	return s.stats.Snapshot()
}

// ClearStatistics drops every counter of movieID.
func (s *RentalService) ClearStatistics(ctx context.Context, movieID string) error {
	return s.stats.Clear(ctx, movieID)
}
