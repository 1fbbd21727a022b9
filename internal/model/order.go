package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/movie-rental-api/internal/pricing"
)

// OrderStatus is the lifecycle state of an order. OPEN is the only state an
// order can be mutated in; CLOSED is terminal.
type OrderStatus string

const (
	OrderOpen   OrderStatus = "OPEN"
	OrderClosed OrderStatus = "CLOSED"
)

// OrderItem is a single rental line. Its release date and weekly price are
// snapshots taken when the line was priced and TotalPrice is never
// recomputed afterwards.
//
// Fields:
//
//	MovieID             – catalog id of the rented movie.
//	MovieReleaseDate    – release date copied from the movie at pricing time.
//	RentDurationInWeeks – rental length, at least one week.
//	CurrentPricePerWeek – the movie's unit price at pricing time.
//	TotalPrice          – week-by-week total from pricing.RentalTotal.
type OrderItem struct {
	MovieID             string          `json:"movieId" yaml:"movieId"`
	MovieReleaseDate    Date            `json:"movieReleaseDate" yaml:"movieReleaseDate"`
	RentDurationInWeeks int             `json:"rentDurationInWeeks" yaml:"rentDurationInWeeks"`
	CurrentPricePerWeek decimal.Decimal `json:"currentPricePerWeek" yaml:"currentPricePerWeek"`
	TotalPrice          decimal.Decimal `json:"totalPrice" yaml:"totalPrice"`
}

// NewOrderItem prices a rental of movie for weeks weeks starting at now.
func NewOrderItem(movie Movie, weeks int, now time.Time) (OrderItem, error) {
	if weeks < 1 {
		return OrderItem{}, fmt.Errorf("%w: rentDurationInWeeks must be at least 1, got %d", ErrValidation, weeks)
	}
	return OrderItem{
		MovieID:             movie.ImdbID,
		MovieReleaseDate:    movie.ReleaseDate,
		RentDurationInWeeks: weeks,
		CurrentPricePerWeek: movie.Price,
		TotalPrice:          pricing.RentalTotalAt(movie.ReleaseDate.Time, now, weeks),
	}, nil
}

// Order groups rental lines under one id and carries the checkout state.
//
// Fields:
//
//	OrderID    – random UUID assigned at creation.
//	Items      – rental lines in the order they were attached.
//	Status     – OPEN until checkout, then CLOSED.
//	TotalPrice – sum of the line totals, recomputed on every change.
//	Timestamp  – time of the last mutation.
type Order struct {
	OrderID    string          `json:"orderId" yaml:"orderId"`
	Items      []OrderItem     `json:"orderItemList" yaml:"orderItemList"`
	Status     OrderStatus     `json:"orderStatus" yaml:"orderStatus"`
	TotalPrice decimal.Decimal `json:"totalPrice" yaml:"totalPrice"`
	Timestamp  time.Time       `json:"timestamp" yaml:"timestamp"`
}

// NewOrder returns an empty OPEN order with a fresh id.
func NewOrder(now time.Time) *Order {
	return &Order{
		OrderID:    uuid.NewString(),
		Items:      []OrderItem{},
		Status:     OrderOpen,
		TotalPrice: decimal.Zero,
		Timestamp:  now,
	}
}

// IsClosed reports whether the order has been checked out.
func (o *Order) IsClosed() bool {
	return o.Status == OrderClosed
}

// AttachItem appends a priced line to an open order.
func (o *Order) AttachItem(item OrderItem, now time.Time) error {
	if o.IsClosed() {
		return ErrOrderAlreadyClosed
	}
	o.Items = append(o.Items, item)
	o.Recalculate()
	o.Timestamp = now
	return nil
}

// Checkout closes an open order. It is the only way out of OPEN.
func (o *Order) Checkout(now time.Time) error {
	if o.IsClosed() {
		return ErrOrderAlreadyClosed
	}
	o.Recalculate()
	o.Status = OrderClosed
	o.Timestamp = now
	return nil
}

// Recalculate sets TotalPrice to the sum of all line totals.
func (o *Order) Recalculate() {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.TotalPrice)
	}
	o.TotalPrice = total
}

// Clone returns a deep copy of o.
func (o Order) Clone() Order {
	out := o
	out.Items = append([]OrderItem(nil), o.Items...)
	return out
}
