package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC)

func newMovie(id string, release Date) Movie {
	m := Movie{ImdbID: id, Title: "Title " + id, ReleaseDate: release}
	m.Reprice(now)
	return m
}

func TestNewOrderItem_SnapshotsMovie(t *testing.T) {
	m := newMovie("tt1", DateOf(now))
	item, err := NewOrderItem(m, 3, now)
	require.NoError(t, err)

	assert.Equal(t, "tt1", item.MovieID)
	assert.Equal(t, m.ReleaseDate, item.MovieReleaseDate)
	assert.Equal(t, 3, item.RentDurationInWeeks)
	assert.Equal(t, "5.00", item.CurrentPricePerWeek.StringFixed(2))
	assert.Equal(t, "15.00", item.TotalPrice.StringFixed(2))

	// later catalog changes do not reach the line
	m.ReleaseDate = NewDate(1990, time.January, 1)
	m.Reprice(now)
	assert.Equal(t, "5.00", item.CurrentPricePerWeek.StringFixed(2))
	assert.Equal(t, DateOf(now), item.MovieReleaseDate)
}

func TestNewOrderItem_RejectsNonPositiveDuration(t *testing.T) {
	m := newMovie("tt1", DateOf(now))
	for _, weeks := range []int{0, -1, -52} {
		_, err := NewOrderItem(m, weeks, now)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestNewOrder(t *testing.T) {
	o := NewOrder(now)
	assert.NotEmpty(t, o.OrderID)
	assert.Equal(t, OrderOpen, o.Status)
	assert.Empty(t, o.Items)
	assert.True(t, o.TotalPrice.IsZero())
	assert.Equal(t, now, o.Timestamp)

	assert.NotEqual(t, o.OrderID, NewOrder(now).OrderID)
}

func TestOrder_AttachItemResumsTotal(t *testing.T) {
	o := NewOrder(now)
	later := now.Add(time.Hour)
	require.NoError(t, o.AttachItem(OrderItem{MovieID: "a", TotalPrice: decimal.RequireFromString("3.49")}, now))
	require.NoError(t, o.AttachItem(OrderItem{MovieID: "b", TotalPrice: decimal.RequireFromString("1.99")}, later))

	assert.Len(t, o.Items, 2)
	assert.Equal(t, "a", o.Items[0].MovieID)
	assert.Equal(t, "5.48", o.TotalPrice.StringFixed(2))
	assert.Equal(t, later, o.Timestamp)
}

func TestOrder_CheckoutIsTerminal(t *testing.T) {
	o := NewOrder(now)
	require.NoError(t, o.AttachItem(OrderItem{MovieID: "a", TotalPrice: decimal.NewFromInt(5)}, now))

	closedAt := now.Add(2 * time.Hour)
	require.NoError(t, o.Checkout(closedAt))
	assert.Equal(t, OrderClosed, o.Status)
	assert.Equal(t, closedAt, o.Timestamp)
	assert.Equal(t, "5.00", o.TotalPrice.StringFixed(2))

	assert.ErrorIs(t, o.Checkout(now), ErrOrderAlreadyClosed)
	assert.ErrorIs(t, o.AttachItem(OrderItem{MovieID: "b"}, now), ErrOrderAlreadyClosed)
	assert.Len(t, o.Items, 1)
	assert.Equal(t, closedAt, o.Timestamp)
}

func TestOrder_CheckoutRecomputesTotal(t *testing.T) {
	o := NewOrder(now)
	o.Items = append(o.Items, OrderItem{TotalPrice: decimal.NewFromInt(7)})
	require.NoError(t, o.Checkout(now))
	assert.Equal(t, "7.00", o.TotalPrice.StringFixed(2))
}

func TestOrder_CloneIsIndependent(t *testing.T) {
	o := NewOrder(now)
	require.NoError(t, o.AttachItem(OrderItem{MovieID: "a"}, now))
	c := o.Clone()
	c.Items[0].MovieID = "changed"
	assert.Equal(t, "a", o.Items[0].MovieID)
}
