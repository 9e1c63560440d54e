// Package book maintains the dual-sided limit order book and emits a
// BookEvent whenever the top of book changes.
package book

import (
	"fmt"

	"go.uber.org/zap"

	"tradeflow/pkg/channel"
	"tradeflow/pkg/trading"
)

// OrderBook owns the two sides and the previous-top cache used for
// change detection. Orders arrive on the inbound channel (or directly
// through Apply in simulation mode); events leave on the outbound
// channel when one is configured, otherwise Apply returns them.
type OrderBook struct {
	log  *zap.SugaredLogger
	in   *channel.Queue[trading.Order]
	out  *channel.Queue[trading.BookEvent]
	bids *Side
	asks *Side

	prevTop trading.BookEvent
}

// NewOrderBook wires a book to its channels. Either channel may be nil
// for simulation mode.
func NewOrderBook(in *channel.Queue[trading.Order], out *channel.Queue[trading.BookEvent], log *zap.SugaredLogger) *OrderBook {
	return &OrderBook{
		log:     log,
		in:      in,
		out:     out,
		bids:    newSide(true),
		asks:    newSide(false),
		prevTop: trading.EmptyBookEvent(),
	}
}

// ProcessNext drains at most one order from the inbound channel.
// It reports whether a message was consumed.
func (b *OrderBook) ProcessNext() bool {
	if b.in == nil {
		return false
	}
	o, ok := b.in.TryPop()
	if !ok {
		return false
	}
	b.Apply(o)
	return true
}

// Apply dispatches one order by action, then runs top-of-book change
// detection. Taxonomy errors are logged and leave the book unchanged;
// the previous-top cache is refreshed unconditionally. The returned
// event is non-nil only in simulation mode (no outbound channel) and
// only when the top actually changed.
func (b *OrderBook) Apply(o trading.Order) (*trading.BookEvent, error) {
	var err error
	switch o.Action {
	case trading.ActionNew:
		err = b.handleNew(o)
	case trading.ActionModify:
		err = b.handleModify(o)
	case trading.ActionDelete:
		err = b.handleDelete(o)
	default:
		err = fmt.Errorf("%w: action %q", trading.ErrMalformedInput, o.Action)
	}
	if err != nil {
		b.log.Warnw("order_skipped", "id", o.ID, "action", o.Action, "err", err)
	}

	ev := b.diffTopOfBook()
	if ev == nil {
		return nil, err
	}
	if b.out != nil {
		b.out.Push(*ev)
		return nil, err
	}
	return ev, err
}

func (b *OrderBook) handleNew(o trading.Order) error {
	side, err := trading.ParseBookSide(string(o.Side))
	if err != nil {
		return err
	}
	if side == trading.Bid {
		b.bids.Insert(o)
	} else {
		b.asks.Insert(o)
	}
	return nil
}

func (b *OrderBook) handleModify(o trading.Order) error {
	side, err := b.lookupSide(o)
	if err != nil {
		return err
	}
	return side.Amend(o.ID, o.Quantity)
}

func (b *OrderBook) handleDelete(o trading.Order) error {
	side, err := b.lookupSide(o)
	if err != nil {
		return err
	}
	return side.Remove(o.ID)
}

// lookupSide resolves the side an operation targets: by the side field
// when given, otherwise by searching both sides for the order ID.
func (b *OrderBook) lookupSide(o trading.Order) (*Side, error) {
	switch o.Side {
	case trading.Bid:
		return b.bids, nil
	case trading.Ask:
		return b.asks, nil
	case "":
		if b.bids.Contains(o.ID) {
			return b.bids, nil
		}
		if b.asks.Contains(o.ID) {
			return b.asks, nil
		}
		return nil, fmt.Errorf("%w: order %d", trading.ErrNotFound, o.ID)
	default:
		return nil, fmt.Errorf("%w: side %q", trading.ErrMalformedInput, o.Side)
	}
}

// TopOfBook snapshots the current best of both sides, with the
// no-liquidity sentinel for an empty side.
func (b *OrderBook) TopOfBook() trading.BookEvent {
	top := trading.EmptyBookEvent()
	if best, ok := b.bids.Best(); ok {
		top.BidPrice = best.Price
		top.BidQuantity = best.Quantity
	}
	if best, ok := b.asks.Best(); ok {
		top.OfferPrice = best.Price
		top.OfferQuantity = best.Quantity
	}
	return top
}

// diffTopOfBook compares the current tops against the previously
// emitted snapshot. A price or quantity change on either side yields
// one event carrying both current tops; the cache is always updated.
func (b *OrderBook) diffTopOfBook() *trading.BookEvent {
	top := b.TopOfBook()
	changed := top != b.prevTop
	b.prevTop = top
	if !changed {
		return nil
	}
	return &top
}

// Bids exposes the bid side for inspection.
func (b *OrderBook) Bids() *Side { return b.bids }

// Asks exposes the ask side for inspection.
func (b *OrderBook) Asks() *Side { return b.asks }
