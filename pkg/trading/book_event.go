package trading

// NoLiquidity is the sentinel encoding an empty book side in a
// BookEvent: both price and quantity are set to -1.
const NoLiquidity = -1

// BookEvent is an immutable snapshot of the top of book, produced by
// the OrderBook whenever the best price or quantity changes on either
// side, and consumed by the strategy.
type BookEvent struct {
	BidPrice      float64
	BidQuantity   int64
	OfferPrice    float64
	OfferQuantity int64
}

// EmptyBookEvent is the snapshot of a book with no liquidity on
// either side.
func EmptyBookEvent() BookEvent {
	return BookEvent{
		BidPrice:      NoLiquidity,
		BidQuantity:   NoLiquidity,
		OfferPrice:    NoLiquidity,
		OfferQuantity: NoLiquidity,
	}
}

// HasBid reports whether the bid side carried liquidity.
func (e BookEvent) HasBid() bool { return e.BidPrice != NoLiquidity }

// HasOffer reports whether the offer side carried liquidity.
func (e BookEvent) HasOffer() bool { return e.OfferPrice != NoLiquidity }
