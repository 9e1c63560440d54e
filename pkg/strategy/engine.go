// Package strategy reacts to top-of-book changes: it detects crossed
// markets, fires paired arbitrage orders and tracks the realized
// position ledger over its private view of the order lifecycle.
package strategy

import (
	"go.uber.org/zap"

	"tradeflow/pkg/channel"
	"tradeflow/pkg/trading"
)

// Engine consumes BookEvents, emits order intents toward the manager
// and consumes execution reports routed back. Any nil channel puts the
// corresponding leg into simulation mode: the On* methods then serve
// direct calls.
type Engine struct {
	log       *zap.SugaredLogger
	events    *channel.Queue[trading.BookEvent]
	intents   *channel.Queue[trading.Order]
	responses *channel.Queue[trading.Order]

	orders []trading.Order
	nextID uint64

	currentBid   float64
	currentOffer float64

	position    int64
	initialCash float64
	cash        float64
	pnl         float64
}

// NewEngine builds a strategy with the given initial capital.
func NewEngine(events *channel.Queue[trading.BookEvent], intents, responses *channel.Queue[trading.Order], initialCash float64, log *zap.SugaredLogger) *Engine {
	return &Engine{
		log:         log,
		events:      events,
		intents:     intents,
		responses:   responses,
		initialCash: initialCash,
		cash:        initialCash,
	}
}

// ProcessBookEvent drains at most one event from the book channel.
func (e *Engine) ProcessBookEvent() bool {
	if e.events == nil {
		return false
	}
	ev, ok := e.events.TryPop()
	if !ok {
		return false
	}
	e.OnBookEvent(ev)
	return true
}

// OnBookEvent records the current tops and evaluates the signal. A
// crossed book creates the arbitrage pair and drives execution.
func (e *Engine) OnBookEvent(ev trading.BookEvent) {
	e.currentBid = ev.BidPrice
	e.currentOffer = ev.OfferPrice
	if !signal(ev) {
		return
	}
	e.createOrders(ev)
	e.driveExecution()
}

// signal is true iff both tops carry real liquidity and the best bid
// exceeds the best offer.
func signal(ev trading.BookEvent) bool {
	return ev.BidPrice > 0 && ev.OfferPrice > 0 && ev.BidPrice > ev.OfferPrice
}

// createOrders books the arbitrage pair atomically: a sell at the bid
// and a buy at the offer, both sized to the thinner top. Both entries
// join the local set before either is dispatched, so the strategy's
// book stays consistent even if dispatch is interrupted.
func (e *Engine) createOrders(ev trading.BookEvent) {
	quantity := min(ev.BidQuantity, ev.OfferQuantity)

	e.nextID++
	sell := trading.Order{
		ID:       e.nextID,
		Price:    ev.BidPrice,
		Quantity: quantity,
		Side:     trading.Sell,
		Action:   trading.ToBeSent,
	}
	e.nextID++
	buy := trading.Order{
		ID:       e.nextID,
		Price:    ev.OfferPrice,
		Quantity: quantity,
		Side:     trading.Buy,
		Action:   trading.ToBeSent,
	}
	e.orders = append(e.orders, sell, buy)
	e.log.Infow("arbitrage_detected",
		"bid", ev.BidPrice, "offer", ev.OfferPrice, "quantity", quantity)
}

// driveExecution runs the local lifecycle state machine over the whole
// order set: pending orders are dispatched, terminal orders are marked
// for removal, fills settle into the ledger. Removal is deferred until
// the scan completes, then applied by descending index.
func (e *Engine) driveExecution() {
	var remove []int
	for i := range e.orders {
		o := &e.orders[i]
		if o.Action == trading.ToBeSent {
			o.Status = trading.StatusNew
			o.Action = trading.NoAction
			if e.intents != nil {
				e.intents.Push(*o)
			} else {
				e.log.Debugw("simulation_mode", "id", o.ID)
			}
		}
		switch o.Status {
		case trading.StatusRejected:
			remove = append(remove, i)
		case trading.StatusFilled:
			remove = append(remove, i)
			e.settle(*o)
		}
	}
	for j := len(remove) - 1; j >= 0; j-- {
		i := remove[j]
		e.orders = append(e.orders[:i], e.orders[i+1:]...)
	}
}

// settle applies a fill: cash and pnl move by the same signed amount,
// so pnl tracks realized cash flow rather than mark-to-market.
func (e *Engine) settle(o trading.Order) {
	signed := o.SignedQuantity()
	notional := float64(signed) * o.Price
	e.position += signed
	e.cash -= notional
	e.pnl -= notional
	e.log.Infow("order_filled",
		"id", o.ID, "side", o.Side, "price", o.Price, "quantity", o.Quantity,
		"position", e.position, "pnl", e.pnl)
}

// ProcessResponse drains at most one execution report.
func (e *Engine) ProcessResponse() bool {
	if e.responses == nil {
		return false
	}
	rep, ok := e.responses.TryPop()
	if !ok {
		return false
	}
	e.OnMarketResponse(rep)
	return true
}

// OnMarketResponse copies the reported status onto the local order and
// re-drives execution. A report for an unknown ID is a protocol
// mismatch: logged, then dropped.
func (e *Engine) OnMarketResponse(rep trading.Order) {
	i := e.lookup(rep.ID)
	if i < 0 {
		e.log.Errorw("response_unknown_order",
			"id", rep.ID, "err", trading.ErrProtocolMismatch)
		return
	}
	e.orders[i].Status = rep.Status
	e.driveExecution()
}

func (e *Engine) lookup(id uint64) int {
	for i := range e.orders {
		if e.orders[i].ID == id {
			return i
		}
	}
	return -1
}

// OpenOrders returns a copy of the strategy's live order set.
func (e *Engine) OpenOrders() []trading.Order {
	out := make([]trading.Order, len(e.orders))
	copy(out, e.orders)
	return out
}

// Position is the current signed inventory.
func (e *Engine) Position() int64 { return e.position }

// Cash is the current cash balance.
func (e *Engine) Cash() float64 { return e.cash }

// PnL is the realized profit and loss. Whenever the position is flat
// it equals cash minus the initial capital.
func (e *Engine) PnL() float64 { return e.pnl }

// CurrentBid is the last observed best bid price.
func (e *Engine) CurrentBid() float64 { return e.currentBid }

// CurrentOffer is the last observed best offer price.
func (e *Engine) CurrentOffer() float64 { return e.currentOffer }
