package model

// OrderStatistics counts, per movie id, how often the movie was part of a
// checked out order and for how many weeks in total it was rented. Counters
// only grow; Clear drops a movie's entries entirely.
type OrderStatistics struct {
	OrderCount  map[string]int `json:"movieOrderCount" yaml:"movieOrderCount"`
	RentedWeeks map[string]int `json:"movieRentedFor" yaml:"movieRentedFor"`
}

func NewOrderStatistics() *OrderStatistics {
	return &OrderStatistics{
		OrderCount:  map[string]int{},
		RentedWeeks: map[string]int{},
	}
}

// RecordCheckout adds one order and weeks rented weeks to movieID.
func (s *OrderStatistics) RecordCheckout(movieID string, weeks int) {
	s.ensure()
	s.OrderCount[movieID]++
	s.RentedWeeks[movieID] += weeks
}

// RecordOrder folds every line of a checked out order.
func (s *OrderStatistics) RecordOrder(items []OrderItem) {
	for _, it := range items {
		s.RecordCheckout(it.MovieID, it.RentDurationInWeeks)
	}
}

// Clear removes movieID from both counters.
func (s *OrderStatistics) Clear(movieID string) {
	delete(s.OrderCount, movieID)
	delete(s.RentedWeeks, movieID)
}

// Snapshot returns an independent copy for reporting.
func (s *OrderStatistics) Snapshot() OrderStatistics {
	out := OrderStatistics{
		OrderCount:  make(map[string]int, len(s.OrderCount)),
		RentedWeeks: make(map[string]int, len(s.RentedWeeks)),
	}
	for k, v := range s.OrderCount {
		out.OrderCount[k] = v
	}
	for k, v := range s.RentedWeeks {
		out.RentedWeeks[k] = v
	}
	return out
}

// ensure makes maps decoded from an empty document usable.
func (s *OrderStatistics) ensure() {
	if s.OrderCount == nil {
		s.OrderCount = map[string]int{}
	}
	if s.RentedWeeks == nil {
		s.RentedWeeks = map[string]int{}
	}
}
