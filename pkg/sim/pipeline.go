// Package sim wires the whole trading pipeline together and steps it.
// Every interface a component needs is injected as a typed channel
// handle at construction; there is no shared global bus.
package sim

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradeflow/params"
	"tradeflow/pkg/book"
	"tradeflow/pkg/channel"
	"tradeflow/pkg/feed"
	"tradeflow/pkg/oms"
	"tradeflow/pkg/strategy"
	"tradeflow/pkg/trading"
	"tradeflow/pkg/util"
	"tradeflow/pkg/venue"
)

// Pipeline owns the six channels and five components of one
// simulation run. Channel handles are exported so tests can assert on
// queue depths the same way the components see them.
type Pipeline struct {
	RunID string

	FeedToBook        *channel.Queue[trading.Order]
	BookToStrategy    *channel.Queue[trading.BookEvent]
	StrategyToManager *channel.Queue[trading.Order]
	ManagerToStrategy *channel.Queue[trading.Order]
	ManagerToVenue    *channel.Queue[trading.Order]
	VenueToManager    *channel.Queue[trading.Order]

	Feed     *feed.Provider
	Book     *book.OrderBook
	Strategy *strategy.Engine
	Manager  *oms.Manager
	Venue    *venue.Simulator

	log *zap.SugaredLogger
}

// NewPipeline builds a fully wired pipeline from config. The clock is
// injected so runs can use wall-clock or simulated time.
func NewPipeline(cfg params.Config, clk util.Clock, logger *zap.SugaredLogger) *Pipeline {
	p := &Pipeline{
		RunID:             uuid.NewString(),
		FeedToBook:        channel.New[trading.Order](),
		BookToStrategy:    channel.New[trading.BookEvent](),
		StrategyToManager: channel.New[trading.Order](),
		ManagerToStrategy: channel.New[trading.Order](),
		ManagerToVenue:    channel.New[trading.Order](),
		VenueToManager:    channel.New[trading.Order](),
		log:               logger,
	}

	p.Feed = feed.NewProvider(p.FeedToBook, cfg.Feed.Seed, clk, logger)
	p.Book = book.NewOrderBook(p.FeedToBook, p.BookToStrategy, logger)
	p.Strategy = strategy.NewEngine(p.BookToStrategy, p.StrategyToManager, p.ManagerToStrategy, cfg.Ledger.InitialCash, logger)
	p.Manager = oms.NewManager(p.StrategyToManager, p.ManagerToStrategy, p.ManagerToVenue, p.VenueToManager, logger).
		WithWatchdog(clk, cfg.Oms.OrderTimeout)
	p.Venue = venue.NewSimulator(p.ManagerToVenue, p.VenueToManager, logger)

	logger.Infow("pipeline_created", "run_id", p.RunID,
		"initial_cash", cfg.Ledger.InitialCash, "seed", cfg.Feed.Seed)
	return p
}

// Step runs one round-robin pass: each component drains at most one
// pending message, in pipeline order, then overdue orders are swept.
// It returns the number of messages processed.
func (p *Pipeline) Step() int {
	n := 0
	if p.Book.ProcessNext() {
		n++
	}
	if p.Strategy.ProcessBookEvent() {
		n++
	}
	if p.Manager.ProcessIntent() {
		n++
	}
	if p.Venue.ProcessNext() {
		n++
	}
	if p.Manager.ProcessReport() {
		n++
	}
	if p.Strategy.ProcessResponse() {
		n++
	}
	p.Manager.CheckTimeouts()
	return n
}

// Drain steps until no component makes progress.
func (p *Pipeline) Drain() {
	for p.Step() > 0 {
	}
}

// Run injects count random feed orders, stepping the pipeline after
// each, then drains, sweeps the venue and drains the fill reports.
func (p *Pipeline) Run(count int) {
	for i := 0; i < count; i++ {
		p.Feed.GenerateRandomOrder()
		p.Step()
	}
	p.Drain()

	p.Venue.FillAllOrders()
	p.Drain()

	p.log.Infow("run_complete", "run_id", p.RunID,
		"position", p.Strategy.Position(),
		"pnl", p.Strategy.PnL(),
		"cash", p.Strategy.Cash(),
		"open_orders", len(p.Strategy.OpenOrders()),
		"manager_active", len(p.Manager.ActiveOrders()),
		"venue_resting", p.Venue.RestingCount())
}
