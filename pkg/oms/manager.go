// Package oms is the admission-control and routing layer between the
// strategies and the venue. It is the canonical ID authority: every
// admitted order gets a fresh manager-assigned ID, and the mapping
// back to the strategy-local ID lives only here.
package oms

import (
	"time"

	"go.uber.org/zap"

	"tradeflow/pkg/channel"
	"tradeflow/pkg/trading"
	"tradeflow/pkg/util"
)

// Manager validates incoming order intents, forwards admitted orders
// to the venue and routes execution reports back to the strategy with
// the strategy-local ID restored. Nil channels put the corresponding
// leg into simulation mode for direct-call unit tests.
type Manager struct {
	log       *zap.SugaredLogger
	intents   *channel.Queue[trading.Order]
	reports   *channel.Queue[trading.Order]
	toVenue   *channel.Queue[trading.Order]
	fromVenue *channel.Queue[trading.Order]

	orders []trading.Order
	// clientIDs maps canonical ID -> strategy-local ID. Injective;
	// resolved whenever a report is routed back to the strategy.
	clientIDs map[uint64]uint64
	nextID    uint64

	watchdog *Watchdog
	timeout  time.Duration
	clk      util.Clock
}

// NewManager wires a manager to its four channels.
func NewManager(intents, reports, toVenue, fromVenue *channel.Queue[trading.Order], log *zap.SugaredLogger) *Manager {
	return &Manager{
		log:       log,
		intents:   intents,
		reports:   reports,
		toVenue:   toVenue,
		fromVenue: fromVenue,
		clientIDs: make(map[uint64]uint64),
	}
}

// WithWatchdog arms a deadline on every dispatched order. An order
// with no execution report by clk.Now()+timeout is flagged through the
// watchdog callback on the next CheckTimeouts sweep.
func (m *Manager) WithWatchdog(clk util.Clock, timeout time.Duration) *Manager {
	m.clk = clk
	m.timeout = timeout
	m.watchdog = NewWatchdog(clk, m.log)
	return m
}

// ProcessIntent drains at most one order intent from the strategy.
func (m *Manager) ProcessIntent() bool {
	if m.intents == nil {
		return false
	}
	o, ok := m.intents.TryPop()
	if !ok {
		return false
	}
	m.OnOrderIntent(o)
	return true
}

// OnOrderIntent validates and admits one order. Invalid orders are
// dropped before storage: no echo, no forward.
func (m *Manager) OnOrderIntent(o trading.Order) {
	if err := o.Validate(); err != nil {
		m.log.Warnw("order_rejected", "client_id", o.ID, "err", err)
		return
	}
	m.admit(o)
}

// admit assigns the next canonical ID, records the client mapping and
// forwards a copy to the venue.
func (m *Manager) admit(o trading.Order) {
	m.nextID++
	m.clientIDs[m.nextID] = o.ID
	o.ID = m.nextID
	o.Status = trading.StatusNew
	o.Action = trading.VenueNew
	m.orders = append(m.orders, o)

	m.log.Infow("order_admitted", "id", o.ID, "client_id", m.clientIDs[o.ID],
		"side", o.Side, "price", o.Price, "quantity", o.Quantity)

	if m.watchdog != nil {
		m.watchdog.Arm(o.ID, m.clk.Now().Add(m.timeout), m.onTimeout)
	}
	if m.toVenue != nil {
		m.toVenue.Push(o)
	} else {
		m.log.Debugw("simulation_mode", "id", o.ID)
	}
}

// ProcessReport drains at most one execution report from the venue.
func (m *Manager) ProcessReport() bool {
	if m.fromVenue == nil {
		return false
	}
	rep, ok := m.fromVenue.TryPop()
	if !ok {
		return false
	}
	m.OnExecutionReport(rep)
	return true
}

// OnExecutionReport overwrites the stored order's status, forwards a
// copy to the strategy under the strategy-local ID, then sweeps every
// filled order out of the active set.
func (m *Manager) OnExecutionReport(rep trading.Order) {
	if m.watchdog != nil {
		m.watchdog.Disarm(rep.ID)
	}
	i := m.lookup(rep.ID)
	if i < 0 {
		m.log.Errorw("report_unknown_order",
			"id", rep.ID, "err", trading.ErrProtocolMismatch)
		return
	}
	m.orders[i].Status = rep.Status

	out := m.orders[i]
	if clientID, ok := m.clientIDs[out.ID]; ok {
		out.ID = clientID
	}
	if m.reports != nil {
		m.reports.Push(out)
	} else {
		m.log.Debugw("simulation_mode", "id", rep.ID)
	}

	m.cleanTradedOrders()
}

// cleanTradedOrders is a full sweep: every filled order found in the
// active set is purged, not only the one just updated.
func (m *Manager) cleanTradedOrders() {
	kept := m.orders[:0]
	for _, o := range m.orders {
		if o.Status == trading.StatusFilled {
			delete(m.clientIDs, o.ID)
			if m.watchdog != nil {
				m.watchdog.Disarm(o.ID)
			}
			continue
		}
		kept = append(kept, o)
	}
	m.orders = kept
}

// CheckTimeouts fires the watchdog for every overdue order. The driver
// invokes this once per step; without a watchdog it is a no-op.
func (m *Manager) CheckTimeouts() int {
	if m.watchdog == nil {
		return 0
	}
	return m.watchdog.Check()
}

func (m *Manager) onTimeout(id uint64) {
	m.log.Warnw("order_timeout", "id", id)
}

func (m *Manager) lookup(id uint64) int {
	for i := range m.orders {
		if m.orders[i].ID == id {
			return i
		}
	}
	return -1
}

// ActiveOrders returns a copy of the manager's active set.
func (m *Manager) ActiveOrders() []trading.Order {
	out := make([]trading.Order, len(m.orders))
	copy(out, m.orders)
	return out
}
