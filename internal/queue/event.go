// Package queue defines message payloads exchanged over the message broker.
package queue

import (
    "time"

    "github.com/iliyamo/movie-rental-api/internal/model"
)

// OrderCheckedOutQueue is the durable queue checkout events are routed to.
const OrderCheckedOutQueue = "order.checked_out"

// OrderCheckedOutEvent is published when an order is closed.  It carries
// enough information for downstream consumers to log or aggregate rentals
// without reading the order store.
type OrderCheckedOutEvent struct {
    OrderID      string      `json:"order_id"`
    Items        []EventItem `json:"items"`
    TotalPrice   string      `json:"total_price"`
    CheckedOutAt string      `json:"checked_out_at"`
}

// EventItem is one rental line of a checked out order.
type EventItem struct {
    MovieID    string `json:"movie_id"`
    Weeks      int    `json:"weeks"`
    TotalPrice string `json:"total_price"`
}

// NewOrderCheckedOutEvent builds the event for a closed order.  Prices keep
// two decimals so consumers never see float rounding.
func NewOrderCheckedOutEvent(o model.Order) OrderCheckedOutEvent {
    items := make([]EventItem, 0, len(o.Items))
    for _, it := range o.Items {
        items = append(items, EventItem{
            MovieID:    it.MovieID,
            Weeks:      it.RentDurationInWeeks,
            TotalPrice: it.TotalPrice.StringFixed(2),
        })
    }
    return OrderCheckedOutEvent{
        OrderID:      o.OrderID,
        Items:        items,
        TotalPrice:   o.TotalPrice.StringFixed(2),
        CheckedOutAt: o.Timestamp.UTC().Format(time.RFC3339),
    }
}
