package trading

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRejectsNegatives(t *testing.T) {
	ok := Order{ID: 1, Price: 219, Quantity: 10, Side: Bid}
	assert.NoError(t, ok.Validate())

	badPrice := Order{ID: 1, Price: -219, Quantity: 10, Side: Bid}
	assert.True(t, errors.Is(badPrice.Validate(), ErrValidationRejected))

	badQty := Order{ID: 1, Price: 219, Quantity: -10, Side: Bid}
	assert.True(t, errors.Is(badQty.Validate(), ErrValidationRejected))
}

func TestSignedQuantity(t *testing.T) {
	buy := Order{Side: Buy, Quantity: 10}
	sell := Order{Side: Sell, Quantity: 10}
	assert.Equal(t, int64(10), buy.SignedQuantity())
	assert.Equal(t, int64(-10), sell.SignedQuantity())
}

func TestParseBookSide(t *testing.T) {
	side, err := ParseBookSide("bid")
	assert.NoError(t, err)
	assert.Equal(t, Bid, side)

	_, err = ParseBookSide("buy")
	assert.True(t, errors.Is(err, ErrMalformedInput))

	_, err = ParseBookSide("")
	assert.True(t, errors.Is(err, ErrMalformedInput))
}

func TestEmptyBookEventSentinel(t *testing.T) {
	ev := EmptyBookEvent()
	assert.False(t, ev.HasBid())
	assert.False(t, ev.HasOffer())
	assert.Equal(t, float64(NoLiquidity), ev.BidPrice)
	assert.Equal(t, int64(NoLiquidity), ev.OfferQuantity)
}
