// Package feed plays the liquidity provider: it synthesizes a stream
// of new/modify/delete orders against its own growing order set and
// pushes them into the book's inbound channel. A seeded source keeps
// runs reproducible.
package feed

import (
	"math/rand"

	"go.uber.org/zap"

	"tradeflow/pkg/channel"
	"tradeflow/pkg/trading"
	"tradeflow/pkg/util"
)

// Provider generates liquidity. The book makes no assumption about the
// distribution here, only about the Order schema.
type Provider struct {
	log *zap.SugaredLogger
	out *channel.Queue[trading.Order]
	rng *rand.Rand
	clk util.Clock

	orders []trading.Order
	nextID uint64
}

// NewProvider builds a feed with a deterministic seed.
func NewProvider(out *channel.Queue[trading.Order], seed int64, clk util.Clock, log *zap.SugaredLogger) *Provider {
	return &Provider{
		log: log,
		out: out,
		rng: rand.New(rand.NewSource(seed)),
		clk: clk,
	}
}

// InsertManualOrder pushes a hand-built order into the pipeline. In
// simulation mode (no channel) the order is returned to the caller
// instead.
func (p *Provider) InsertManualOrder(o trading.Order) *trading.Order {
	if p.out == nil {
		return &o
	}
	p.out.Push(o)
	return nil
}

// GenerateRandomOrder synthesizes the next feed message: either a new
// order with a fresh ID, or a modify/delete against a previously
// issued one. The generated order is pushed downstream and returned
// for inspection.
func (p *Provider) GenerateRandomOrder() trading.Order {
	o := p.nextRandom()
	if p.out != nil {
		p.out.Push(o)
	}
	return o
}

func (p *Provider) nextRandom() trading.Order {
	price := float64(8 + p.rng.Intn(4))
	quantity := int64((1 + p.rng.Intn(9)) * 100)
	side := trading.Bid
	if p.rng.Intn(2) == 1 {
		side = trading.Ask
	}

	// Half the time, and whenever nothing is resting yet, issue a new
	// order; otherwise mutate one previously issued.
	if len(p.orders) == 0 || p.rng.Intn(2) == 0 {
		p.nextID++
		o := trading.Order{
			ID:        p.nextID,
			Price:     price,
			Quantity:  quantity,
			Side:      side,
			Action:    trading.ActionNew,
			Timestamp: p.clk.Now(),
		}
		p.orders = append(p.orders, o)
		return o
	}

	i := p.rng.Intn(len(p.orders))
	existing := p.orders[i]
	if p.rng.Intn(2) == 0 {
		return trading.Order{
			ID:        existing.ID,
			Price:     existing.Price,
			Quantity:  quantity,
			Side:      existing.Side,
			Action:    trading.ActionModify,
			Timestamp: p.clk.Now(),
		}
	}
	p.orders = append(p.orders[:i], p.orders[i+1:]...)
	return trading.Order{
		ID:        existing.ID,
		Side:      existing.Side,
		Action:    trading.ActionDelete,
		Timestamp: p.clk.Now(),
	}
}

// IssuedCount returns how many orders the feed believes are live.
func (p *Provider) IssuedCount() int {
	return len(p.orders)
}
