package oms

import (
	"time"

	"go.uber.org/zap"

	"tradeflow/pkg/util"
)

// Watchdog tracks outstanding orders against a response deadline. Each
// armed entry is an independently cancellable timer: Disarm drops it
// the instant any response for that order is observed. Expiry is
// evaluated cooperatively by Check — the core never blocks in a sleep,
// and simulated clocks make the whole thing deterministic.
type Watchdog struct {
	log     *zap.SugaredLogger
	clk     util.Clock
	pending map[uint64]deadline
}

type deadline struct {
	at        time.Time
	onTimeout func(id uint64)
}

func NewWatchdog(clk util.Clock, log *zap.SugaredLogger) *Watchdog {
	return &Watchdog{
		log:     log,
		clk:     clk,
		pending: make(map[uint64]deadline),
	}
}

// Arm registers a deadline for an order. Re-arming an ID replaces the
// previous deadline.
func (w *Watchdog) Arm(id uint64, at time.Time, onTimeout func(id uint64)) {
	w.pending[id] = deadline{at: at, onTimeout: onTimeout}
}

// Disarm cancels the timer for an order. Unknown IDs are ignored.
func (w *Watchdog) Disarm(id uint64) {
	delete(w.pending, id)
}

// Check fires the callback for every order whose deadline has passed,
// disarming each as it fires. It returns the number of expiries.
func (w *Watchdog) Check() int {
	now := w.clk.Now()
	fired := 0
	for id, d := range w.pending {
		if d.at.After(now) {
			continue
		}
		delete(w.pending, id)
		fired++
		w.log.Warnw("watchdog_expired", "id", id, "deadline", d.at)
		if d.onTimeout != nil {
			d.onTimeout(id)
		}
	}
	return fired
}

// Outstanding returns the number of armed timers.
func (w *Watchdog) Outstanding() int {
	return len(w.pending)
}
