package util

import (
	"time"

	"github.com/benbjohnson/clock"

	"tradeflow/pkg/trading"
)

// Clock supplies the pipeline's notion of current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is wall-clock time behind a swappable source, so tests
// can substitute clock.NewMock().
type SystemClock struct {
	Source clock.Clock
}

func NewSystemClock() *SystemClock {
	return &SystemClock{Source: clock.New()}
}

func (c *SystemClock) Now() time.Time { return c.Source.Now() }

// SimClock advances only when explicitly fed a timestamped order,
// never by wall-clock passage. Deterministic timeout tests depend on
// this.
type SimClock struct {
	now time.Time
}

func NewSimClock() *SimClock { return &SimClock{} }

// ProcessOrder moves simulated time forward to the order's timestamp.
// Orders without a timestamp leave the clock untouched.
func (c *SimClock) ProcessOrder(o trading.Order) {
	if !o.Timestamp.IsZero() {
		c.now = o.Timestamp
	}
}

func (c *SimClock) Now() time.Time { return c.now }
