package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-rental-api/internal/model"
	"github.com/iliyamo/movie-rental-api/internal/store"
)

// OrderRepo holds every order, open or closed, and rewrites the whole
// collection on each change.
type OrderRepo struct {
	mu     sync.RWMutex
	orders []model.Order
	coll   *store.Collection[model.Order]
	settings
}

func NewOrderRepo(coll *store.Collection[model.Order], opts ...Option) *OrderRepo {
	return &OrderRepo{coll: coll, orders: []model.Order{}, settings: newSettings(opts)}
}

// Load replaces the in-memory orders with the stored ones.
func (r *OrderRepo) Load(ctx context.Context) error {
	items, err := r.coll.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	for i := range items {
		if items[i].Items == nil {
			items[i].Items = []model.OrderItem{}
		}
	}
	r.mu.Lock()
	r.orders = items
	r.mu.Unlock()
	return nil
}

// List returns copies of all orders in creation order.
func (r *OrderRepo) List(ctx context.Context) []model.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o.Clone())
	}
	return out
}

// FindByID returns the order with the given id or ErrOrderNotFound.
func (r *OrderRepo) FindByID(ctx context.Context, id string) (model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return model.Order{}, ErrOrderNotFound
	}
	return r.orders[i].Clone(), nil
}

// Add stores a new order.  Order ids are generated, so a collision means
// the caller reused an order value.
func (r *OrderRepo) Add(ctx context.Context, o model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(o.OrderID) >= 0 {
		return fmt.Errorf("%w: duplicate order id %s", ErrValidation, o.OrderID)
	}
	r.orders = append(r.orders, o.Clone())
	return r.persist(ctx, "add", o.OrderID)
}

// Update runs fn on a copy of the order under the write lock and stores the
// result.  Any error from fn discards the copy, except errors wrapping
// ErrPersistence: those report a side effect that was already applied, so
// the order is stored as well and the errors are joined.
func (r *OrderRepo) Update(ctx context.Context, id string, fn func(*model.Order) error) (model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return model.Order{}, ErrOrderNotFound
	}
	o := r.orders[i].Clone()
	fnErr := fn(&o)
	if fnErr != nil && !errors.Is(fnErr, ErrPersistence) {
		return model.Order{}, fnErr
	}
	r.orders[i] = o
	return o.Clone(), errors.Join(fnErr, r.persist(ctx, "update", id))
}

// Delete removes the order regardless of its status.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return ErrOrderNotFound
	}
	r.orders = append(r.orders[:i], r.orders[i+1:]...)
	return r.persist(ctx, "delete", id)
}

func (r *OrderRepo) indexOf(id string) int {
	for i := range r.orders {
		if r.orders[i].OrderID == id {
			return i
		}
	}
	return -1
}

func (r *OrderRepo) persist(ctx context.Context, op, id string) error {
	if err := r.coll.WriteAll(ctx, r.orders); err != nil {
		r.logger.WithFields(log.Fields{
			"collection": r.coll.Name(),
			"op":         op,
			"order_id":   id,
		}).WithError(err).Error("order write failed")
		return persistErr(err)
	}
	return nil
}
