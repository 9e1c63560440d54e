// Package venue emulates the market side of the pipeline: a minimal
// exchange that admits, cancels, amends and fills orders under the
// state machine none -> accepted -> {cancelled | filled}, with
// accepted -> accepted on Amend.
package venue

import (
	"go.uber.org/zap"

	"tradeflow/pkg/channel"
	"tradeflow/pkg/trading"
)

// Simulator holds the venue's resting order set. Orders arrive from
// the manager on the inbound channel; every outcome is echoed back as
// an execution report so the caller can reconcile, with one exception:
// nothing is echoed for a malformed action. Nil channels mean
// simulation mode, where OnOrder returns the report directly.
type Simulator struct {
	log     *zap.SugaredLogger
	in      *channel.Queue[trading.Order]
	out     *channel.Queue[trading.Order]
	resting []trading.Order
}

// NewSimulator wires a venue to its channels.
func NewSimulator(in, out *channel.Queue[trading.Order], log *zap.SugaredLogger) *Simulator {
	return &Simulator{log: log, in: in, out: out}
}

// ProcessNext drains at most one venue-bound order.
func (s *Simulator) ProcessNext() bool {
	if s.in == nil {
		return false
	}
	o, ok := s.in.TryPop()
	if !ok {
		return false
	}
	s.OnOrder(o)
	return true
}

// OnOrder runs the venue admission rules for one order and returns the
// echoed report when no outbound channel is configured.
func (s *Simulator) OnOrder(o trading.Order) *trading.Order {
	i := s.lookup(o.ID)
	if i < 0 {
		switch o.Action {
		case trading.VenueNew:
			o.Status = trading.StatusAccepted
			s.resting = append(s.resting, o)
			s.log.Infow("order_accepted", "id", o.ID, "side", o.Side,
				"price", o.Price, "quantity", o.Quantity)
			return s.echo(o)
		case trading.VenueCancel, trading.VenueAmend:
			s.log.Warnw("order_not_found", "id", o.ID, "action", o.Action,
				"err", trading.ErrNotFound)
			o.Status = trading.StatusRejected
			return s.echo(o)
		default:
			s.log.Warnw("order_skipped", "id", o.ID, "action", o.Action,
				"err", trading.ErrMalformedInput)
			return nil
		}
	}

	switch o.Action {
	case trading.VenueNew:
		// The resting order is untouched; only the duplicate is
		// rejected.
		s.log.Warnw("duplicate_order_id", "id", o.ID,
			"err", trading.ErrDuplicateOrder)
		o.Status = trading.StatusRejected
		return s.echo(o)
	case trading.VenueCancel:
		s.resting[i].Status = trading.StatusCancelled
		rep := s.resting[i]
		s.resting = append(s.resting[:i], s.resting[i+1:]...)
		s.log.Infow("order_cancelled", "id", rep.ID)
		return s.echo(rep)
	case trading.VenueAmend:
		// Amend is a status refresh: the quantity/price change was
		// already applied by the caller and is not re-validated here.
		s.resting[i].Status = trading.StatusAccepted
		s.log.Infow("order_amended", "id", o.ID)
		return s.echo(s.resting[i])
	default:
		s.log.Warnw("order_skipped", "id", o.ID, "action", o.Action,
			"err", trading.ErrMalformedInput)
		return nil
	}
}

// FillAllOrders sweeps the market: every resting order transitions to
// filled, is echoed back and removed, in resting order.
func (s *Simulator) FillAllOrders() {
	for i := range s.resting {
		s.resting[i].Status = trading.StatusFilled
		s.echo(s.resting[i])
		s.log.Infow("order_filled", "id", s.resting[i].ID)
	}
	s.resting = s.resting[:0]
}

func (s *Simulator) echo(rep trading.Order) *trading.Order {
	if s.out != nil {
		s.out.Push(rep)
		return nil
	}
	return &rep
}

func (s *Simulator) lookup(id uint64) int {
	for i := range s.resting {
		if s.resting[i].ID == id {
			return i
		}
	}
	return -1
}

// RestingCount returns the number of live orders at the venue.
func (s *Simulator) RestingCount() int {
	return len(s.resting)
}

// RestingOrders returns a copy of the venue's live order set.
func (s *Simulator) RestingOrders() []trading.Order {
	out := make([]trading.Order, len(s.resting))
	copy(out, s.resting)
	return out
}
