package domain

import "github.com/google/uuid"

// Trade records one match. It is created once and never mutated.
//
// Price is always the resting (maker) order's price: the aggressor pays or
// receives the quoted price, never an improved one.
type Trade struct {
	TradeID    string
	Symbol     string
	TakerID    uint64
	MakerID    uint64
	TakerSide  Side
	Price      int64
	Quantity   int64
	Seq        uint64
	CrossOwner bool // owner flags of the two orders differed
}

// NewTrade builds the trade for a fill of qty between an incoming taker and
// a resting maker.
func NewTrade(taker, maker *Order, qty int64, seq uint64) Trade {
	return Trade{
		TradeID:    uuid.NewString(),
		Symbol:     taker.Symbol,
		TakerID:    taker.ID,
		MakerID:    maker.ID,
		TakerSide:  taker.Side,
		Price:      maker.Price,
		Quantity:   qty,
		Seq:        seq,
		CrossOwner: taker.Owner != maker.Owner,
	}
}
