package book

import (
	"fmt"
	"sort"

	"tradeflow/pkg/trading"
)

// Side holds the resting orders of one half of the book in price-time
// priority: descending by price for bids, ascending for asks, with
// arrival order preserved among equal prices. Sortedness is an
// insertion-time invariant, never a post-hoc fix-up pass.
type Side struct {
	descending bool
	orders     []trading.Order
}

func newSide(descending bool) *Side {
	return &Side{descending: descending}
}

// Insert places an order at its sorted position. Equal-price orders
// already resting keep priority over the newcomer.
func (s *Side) Insert(o trading.Order) {
	i := sort.Search(len(s.orders), func(i int) bool {
		if s.descending {
			return s.orders[i].Price < o.Price
		}
		return s.orders[i].Price > o.Price
	})
	s.orders = append(s.orders, trading.Order{})
	copy(s.orders[i+1:], s.orders[i:])
	s.orders[i] = o
}

// Amend applies a reduce-only quantity change to a resting order.
// Price is immutable once resting, so the sort position never moves.
func (s *Side) Amend(id uint64, quantity int64) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: order %d", trading.ErrNotFound, id)
	}
	if quantity >= s.orders[i].Quantity {
		return fmt.Errorf("%w: order %d quantity %d -> %d",
			trading.ErrInvalidAmendment, id, s.orders[i].Quantity, quantity)
	}
	s.orders[i].Quantity = quantity
	return nil
}

// Remove deletes a resting order by ID.
func (s *Side) Remove(id uint64) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: order %d", trading.ErrNotFound, id)
	}
	s.orders = append(s.orders[:i], s.orders[i+1:]...)
	return nil
}

// Contains reports whether an order with the given ID is resting here.
func (s *Side) Contains(id uint64) bool {
	return s.indexOf(id) >= 0
}

// Best returns the head of the side: the highest bid or lowest ask.
func (s *Side) Best() (trading.Order, bool) {
	if len(s.orders) == 0 {
		return trading.Order{}, false
	}
	return s.orders[0], true
}

// Len returns the number of resting orders.
func (s *Side) Len() int {
	return len(s.orders)
}

// Orders returns a copy of the resting sequence, best first.
func (s *Side) Orders() []trading.Order {
	out := make([]trading.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *Side) indexOf(id uint64) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}
