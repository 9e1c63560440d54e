package trading

import (
	"fmt"
	"time"
)

// Side is the direction of an order. The book leg speaks bid/ask while
// the strategy and venue legs speak buy/sell; both name the same axis.
type Side string

const (
	Bid  Side = "bid"
	Ask  Side = "ask"
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Sign returns +1 for buy and -1 for sell.
func (s Side) Sign() int64 {
	if s == Sell {
		return -1
	}
	return 1
}

// ParseBookSide maps a raw side string onto the book vocabulary.
func ParseBookSide(raw string) (Side, error) {
	switch Side(raw) {
	case Bid, Ask:
		return Side(raw), nil
	default:
		return "", fmt.Errorf("%w: side %q", ErrMalformedInput, raw)
	}
}

// Action is the intent carried by an order message. Two vocabularies
// exist because two protocol legs exist: the feed/book leg uses the
// lowercase set, the manager/venue leg uses the capitalized set, and
// to_be_sent/no_action are strategy-local lifecycle markers.
type Action string

const (
	ActionNew    Action = "new"
	ActionModify Action = "modify"
	ActionDelete Action = "delete"

	VenueNew    Action = "New"
	VenueCancel Action = "Cancel"
	VenueAmend  Action = "Amend"

	ToBeSent Action = "to_be_sent"
	NoAction Action = "no_action"
)

// Status is server-assigned order state. The zero value means no
// venue or manager response exists yet.
type Status string

const (
	StatusNone      Status = ""
	StatusNew       Status = "new"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusFilled    Status = "filled"
)

// Order is the message exchanged on every channel of the pipeline.
// IDs are scope-local: the book sides, the venue, the manager and the
// strategy each own a distinct ID space, and only the OrderManager
// remaps a strategy-local ID to a canonical one.
type Order struct {
	ID        uint64
	Price     float64
	Quantity  int64
	Side      Side
	Action    Action
	Status    Status
	Timestamp time.Time
}

// Validate enforces the admission-control schema: price and quantity
// must be non-negative.
func (o Order) Validate() error {
	if o.Price < 0 {
		return fmt.Errorf("%w: price %v", ErrValidationRejected, o.Price)
	}
	if o.Quantity < 0 {
		return fmt.Errorf("%w: quantity %d", ErrValidationRejected, o.Quantity)
	}
	return nil
}

// SignedQuantity is the position impact of a fill: positive for a buy,
// negative for a sell.
func (o Order) SignedQuantity() int64 {
	return o.Side.Sign() * o.Quantity
}
