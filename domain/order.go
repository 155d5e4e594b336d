package domain

import "fmt"

type Side uint8
type Kind uint8
type TimeInForce uint8
type Owner uint8
type Status uint8

const (
	Buy Side = iota
	Sell
)

const (
	Limit Kind = iota
	Market
)

const (
	GoodTillCancel TimeInForce = iota
	ImmediateOrCancel
)

// Owner tags whose liquidity an order represents. It is used only for
// profit attribution, never for matching eligibility.
const (
	External Owner = iota
	Own
)

const (
	New Status = iota
	Resting
	Done
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

func (k Kind) String() string {
	if k == Market {
		return "MARKET"
	}
	return "LIMIT"
}

func (t TimeInForce) String() string {
	if t == ImmediateOrCancel {
		return "IOC"
	}
	return "GTC"
}

// Order is the unit submitted to the engine. Quantity is the remaining
// open quantity and is decremented in place as fills occur.
//
// ID is assigned by the caller; ArrivalSeq is stamped by the engine at
// submission and again if a remainder rests, so time priority inside a
// price level is always well defined.
type Order struct {
	ID         uint64
	ArrivalSeq uint64
	Symbol     string
	Side       Side
	Kind       Kind
	TIF        TimeInForce
	Price      int64 // ticks; ignored for Market
	Quantity   int64
	Owner      Owner
	Status     Status
}

// Validate rejects malformed orders before they touch any book.
func (o *Order) Validate() error {
	if o.Symbol == "" {
		return fmt.Errorf("%w: empty symbol", ErrInvalidOrder)
	}
	if o.Quantity <= 0 {
		return fmt.Errorf("%w: quantity %d must be positive", ErrInvalidOrder, o.Quantity)
	}
	if o.Kind == Limit && o.Price < 0 {
		return fmt.Errorf("%w: negative limit price %d", ErrInvalidOrder, o.Price)
	}
	return nil
}

// Notional is the resting exposure this order contributes to its side.
func (o *Order) Notional() int64 {
	return o.Price * o.Quantity
}

func (o *Order) String() string {
	return fmt.Sprintf("Order{%d %s %s %s %s px=%d qty=%d}",
		o.ID, o.Symbol, o.Side, o.Kind, o.TIF, o.Price, o.Quantity)
}
