package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tradeflow/pkg/channel"
	"tradeflow/pkg/trading"
)

const initialCash = 10000

func newTestEngine() *Engine {
	return NewEngine(nil, nil, nil, initialCash, zap.NewNop().Sugar())
}

func crossedEvent() trading.BookEvent {
	return trading.BookEvent{BidPrice: 12, BidQuantity: 100, OfferPrice: 11, OfferQuantity: 150}
}

func TestReceiveTopOfBook(t *testing.T) {
	e := newTestEngine()
	e.OnBookEvent(crossedEvent())

	orders := e.OpenOrders()
	require.Len(t, orders, 2)

	sell, buy := orders[0], orders[1]
	assert.Equal(t, trading.Sell, sell.Side)
	assert.Equal(t, float64(12), sell.Price)
	assert.Equal(t, int64(100), sell.Quantity)
	assert.Equal(t, trading.NoAction, sell.Action)
	assert.Equal(t, trading.StatusNew, sell.Status)

	assert.Equal(t, trading.Buy, buy.Side)
	assert.Equal(t, float64(11), buy.Price)
	assert.Equal(t, int64(100), buy.Quantity)
	assert.Equal(t, trading.NoAction, buy.Action)
	assert.Equal(t, trading.StatusNew, buy.Status)
}

func TestNoSignalWhenNotCrossed(t *testing.T) {
	e := newTestEngine()
	e.OnBookEvent(trading.BookEvent{BidPrice: 219, BidQuantity: 10, OfferPrice: 220, OfferQuantity: 10})
	assert.Empty(t, e.OpenOrders())
	assert.Equal(t, float64(219), e.CurrentBid())
	assert.Equal(t, float64(220), e.CurrentOffer())
}

func TestSentinelSideNeverSignals(t *testing.T) {
	e := newTestEngine()
	// Bid present, offer side empty: bid > offer numerically but the
	// sentinel is excluded from the signal.
	e.OnBookEvent(trading.BookEvent{
		BidPrice: 219, BidQuantity: 10,
		OfferPrice: trading.NoLiquidity, OfferQuantity: trading.NoLiquidity,
	})
	assert.Empty(t, e.OpenOrders())
}

func TestOrdersSizedToThinnerTop(t *testing.T) {
	e := newTestEngine()
	e.OnBookEvent(trading.BookEvent{BidPrice: 12, BidQuantity: 40, OfferPrice: 11, OfferQuantity: 25})
	orders := e.OpenOrders()
	require.Len(t, orders, 2)
	assert.Equal(t, int64(25), orders[0].Quantity)
	assert.Equal(t, int64(25), orders[1].Quantity)
}

func TestIntentsDispatchedDownstream(t *testing.T) {
	intents := channel.New[trading.Order]()
	e := NewEngine(nil, intents, nil, initialCash, zap.NewNop().Sugar())
	e.OnBookEvent(crossedEvent())

	require.Equal(t, 2, intents.Len())
	first, _ := intents.TryPop()
	assert.Equal(t, trading.Sell, first.Side)
	assert.Equal(t, trading.StatusNew, first.Status)
	second, _ := intents.TryPop()
	assert.Equal(t, trading.Buy, second.Side)
}

func TestRejectedOrderRemoved(t *testing.T) {
	e := newTestEngine()
	e.OnBookEvent(crossedEvent())

	e.OnMarketResponse(trading.Order{ID: 1, Status: trading.StatusRejected})

	orders := e.OpenOrders()
	require.Len(t, orders, 1)
	assert.Equal(t, trading.Buy, orders[0].Side)
	assert.Equal(t, float64(11), orders[0].Price)
	assert.Equal(t, trading.StatusNew, orders[0].Status)
	// A rejection never touches the ledger.
	assert.Equal(t, int64(0), e.Position())
	assert.Equal(t, float64(initialCash), e.Cash())
}

func TestFilledOrdersSettleLedger(t *testing.T) {
	e := newTestEngine()
	e.OnBookEvent(crossedEvent())

	e.OnMarketResponse(trading.Order{ID: 1, Status: trading.StatusFilled})
	require.Len(t, e.OpenOrders(), 1)
	assert.Equal(t, int64(-100), e.Position())

	e.OnMarketResponse(trading.Order{ID: 2, Status: trading.StatusFilled})
	assert.Empty(t, e.OpenOrders())
	assert.Equal(t, int64(0), e.Position())
	assert.Equal(t, float64(initialCash+100), e.Cash())
	assert.Equal(t, float64(100), e.PnL())
}

func TestPnLInvariantWhenFlat(t *testing.T) {
	e := newTestEngine()
	for i := 0; i < 3; i++ {
		e.OnBookEvent(crossedEvent())
		orders := e.OpenOrders()
		require.Len(t, orders, 2)
		e.OnMarketResponse(trading.Order{ID: orders[0].ID, Status: trading.StatusFilled})
		e.OnMarketResponse(trading.Order{ID: orders[1].ID, Status: trading.StatusFilled})

		require.Equal(t, int64(0), e.Position())
		assert.Equal(t, e.Cash()-initialCash, e.PnL())
	}
}

func TestResponseForUnknownOrderIsNoOp(t *testing.T) {
	e := newTestEngine()
	e.OnBookEvent(crossedEvent())

	e.OnMarketResponse(trading.Order{ID: 99, Status: trading.StatusFilled})
	assert.Len(t, e.OpenOrders(), 2)
	assert.Equal(t, int64(0), e.Position())
}

func TestPairedOrdersShareSequentialIDs(t *testing.T) {
	e := newTestEngine()
	e.OnBookEvent(crossedEvent())
	e.OnBookEvent(crossedEvent())

	orders := e.OpenOrders()
	require.Len(t, orders, 4)
	for i, o := range orders {
		assert.Equal(t, uint64(i+1), o.ID)
	}
}
