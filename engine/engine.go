// Package engine implements the multi-symbol price-time-priority matching
// core. An Engine is an explicit instance owning its books, ledger and
// arrival clock; it performs no locking and no I/O. All calls on one
// instance must come from a single logical writer — use ShardedEngine to
// run symbols concurrently.
package engine

import (
	"fmt"

	"matchbook/domain"
	"matchbook/domain/book"
	"matchbook/infra/sequence"
)

// Snapshot is an aggregated two-sided view of one symbol's book, most
// favorable level first on each side.
type Snapshot struct {
	Symbol string
	Bids   []book.Level
	Asks   []book.Level
}

type symbolBooks struct {
	bids *book.SideBook
	asks *book.SideBook
}

type orderRef struct {
	symbol string
	side   domain.Side
}

type Engine struct {
	books  map[string]*symbolBooks
	ledger *Ledger
	seq    *sequence.Sequencer
	index  map[uint64]orderRef // resting order id -> its bucket
}

func New() *Engine {
	return &Engine{
		books:  make(map[string]*symbolBooks),
		ledger: NewLedger(),
		seq:    sequence.New(0),
		index:  make(map[uint64]orderRef),
	}
}

// Submit validates o, matches it against the opposite book and rests any
// remainder eligible to rest. Returned trades are in production order.
// The order is mutated in place: Quantity holds the unfilled remainder and
// Status reports whether the engine kept it.
func (e *Engine) Submit(o *domain.Order) ([]domain.Trade, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	o.ArrivalSeq = e.seq.Next()
	o.Status = domain.New

	bk := e.symbol(o.Symbol)
	opp := bk.asks
	if o.Side == domain.Sell {
		opp = bk.bids
	}

	var trades []domain.Trade
	for o.Quantity > 0 {
		r := opp.PeekBest()
		if r == nil {
			break
		}
		if o.Kind != domain.Market && !crosses(o, r) {
			// The book is price ordered, so nothing deeper can cross.
			break
		}
		opp.PopBest()

		fill := min(o.Quantity, r.Quantity)
		o.Quantity -= fill
		r.Quantity -= fill

		t := domain.NewTrade(o, r, fill, e.seq.Next())
		e.ledger.OnTrade(t, o, r)
		trades = append(trades, t)

		if r.Quantity > 0 {
			// Still the best candidate; keeps its time priority.
			if err := opp.ReinsertFront(r); err != nil {
				return trades, err
			}
		} else {
			r.Status = domain.Done
			delete(e.index, r.ID)
		}
	}

	if o.Quantity > 0 && o.Kind != domain.Market && o.TIF == domain.GoodTillCancel {
		// The remainder is a new arrival at its price level.
		o.ArrivalSeq = e.seq.Next()
		own := bk.bids
		if o.Side == domain.Sell {
			own = bk.asks
		}
		if err := own.Insert(o); err != nil {
			return trades, err
		}
		o.Status = domain.Resting
		e.ledger.OnRest(o)
		e.index[o.ID] = orderRef{symbol: o.Symbol, side: o.Side}
	} else {
		// Market remainders never rest, whatever the stated TIF; IOC
		// remainders are discarded.
		o.Status = domain.Done
	}

	return trades, nil
}

// Cancel removes a resting order by id and returns it.
func (e *Engine) Cancel(id uint64) (*domain.Order, error) {
	ref, ok := e.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrOrderNotFound, id)
	}
	bk := e.books[ref.symbol]
	side := bk.bids
	if ref.side == domain.Sell {
		side = bk.asks
	}
	o, err := side.Remove(id)
	if err != nil {
		return nil, err
	}
	delete(e.index, id)
	e.ledger.OnCancel(o)
	o.Status = domain.Done
	return o, nil
}

// BestBid returns the highest resting buy price for symbol.
func (e *Engine) BestBid(symbol string) (int64, bool) {
	bk, ok := e.books[symbol]
	if !ok {
		return 0, false
	}
	return bk.bids.BestPrice()
}

// BestAsk returns the lowest resting sell price for symbol.
func (e *Engine) BestAsk(symbol string) (int64, bool) {
	bk, ok := e.books[symbol]
	if !ok {
		return 0, false
	}
	return bk.asks.BestPrice()
}

// BookSnapshot aggregates both sides of symbol's book to depth levels,
// most favorable first. depth <= 0 returns all levels.
func (e *Engine) BookSnapshot(symbol string, depth int) Snapshot {
	s := Snapshot{Symbol: symbol}
	bk, ok := e.books[symbol]
	if !ok {
		return s
	}
	s.Bids = bk.bids.Levels(depth)
	s.Asks = bk.asks.Levels(depth)
	return s
}

// Exposure is the notional of all resting orders on side, across symbols.
func (e *Engine) Exposure(side domain.Side) int64 { return e.ledger.Exposure(side) }

// OwnExposure is Exposure restricted to own-flagged resting orders.
func (e *Engine) OwnExposure(side domain.Side) int64 { return e.ledger.OwnExposure(side) }

// RealizedProfit returns the signed realized profit for symbol.
func (e *Engine) RealizedProfit(symbol string) int64 { return e.ledger.RealizedProfit(symbol) }

// TotalProfit sums realized profit across all symbols.
func (e *Engine) TotalProfit() int64 { return e.ledger.TotalProfit() }

// Trades returns the append-only trade log for symbol (read-only).
func (e *Engine) Trades(symbol string) []domain.Trade { return e.ledger.Trades(symbol) }

func (e *Engine) symbol(sym string) *symbolBooks {
	bk, ok := e.books[sym]
	if !ok {
		bk = &symbolBooks{
			bids: book.NewSideBook(domain.Buy),
			asks: book.NewSideBook(domain.Sell),
		}
		e.books[sym] = bk
	}
	return bk
}

// crosses reports whether limit order o can trade against resting order r.
func crosses(o, r *domain.Order) bool {
	if o.Side == domain.Buy {
		return o.Price >= r.Price
	}
	return o.Price <= r.Price
}

func min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
