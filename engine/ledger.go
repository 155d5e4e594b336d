package engine

import "matchbook/domain"

// Ledger tracks realized profit and resting exposure alongside the books.
// Profit is realized only on cross-ownership fills: when the engine's own
// liquidity trades against an external counterparty, the realized amount is
// fill * (buy-side price - sell-side price), each side valued at its quoted
// limit price (a Market side is valued at the execution price, so it
// contributes no edge). Internal crossing records nothing.
//
// Exposure is maintained incrementally per (side, owner): notional is added
// when an order rests and released as it fills or is cancelled, so a reader
// between submissions always sees exactly the notional still in the books.
//
// The ledger also keeps the append-only per-symbol trade log; aggregate
// profit is derivable from that stream, the counters just keep the common
// queries O(1).
type Ledger struct {
	profit   map[string]int64
	total    int64
	exposure [2][2]int64 // [side][owner]
	trades   map[string][]domain.Trade
}

func NewLedger() *Ledger {
	return &Ledger{
		profit: make(map[string]int64),
		trades: make(map[string][]domain.Trade),
	}
}

// OnRest accounts for an order entering a book.
func (l *Ledger) OnRest(o *domain.Order) {
	l.exposure[o.Side][o.Owner] += o.Notional()
}

// OnCancel releases the remaining notional of a removed resting order.
func (l *Ledger) OnCancel(o *domain.Order) {
	l.exposure[o.Side][o.Owner] -= o.Notional()
}

// OnTrade applies one fill: appends to the trade log, releases the maker's
// filled notional, and realizes profit when ownership crossed. taker is the
// incoming order, maker the resting one; both have already been
// decremented, so the fill quantity comes from the trade itself.
func (l *Ledger) OnTrade(t domain.Trade, taker, maker *domain.Order) {
	l.trades[t.Symbol] = append(l.trades[t.Symbol], t)
	l.exposure[maker.Side][maker.Owner] -= t.Price * t.Quantity

	if !t.CrossOwner {
		return
	}
	takerPx := taker.Price
	if taker.Kind == domain.Market {
		takerPx = t.Price
	}
	var pnl int64
	if taker.Side == domain.Buy {
		pnl = t.Quantity * (takerPx - t.Price)
	} else {
		pnl = t.Quantity * (t.Price - takerPx)
	}
	l.profit[t.Symbol] += pnl
	l.total += pnl
}

// Exposure is the total notional of all resting orders on one side.
func (l *Ledger) Exposure(side domain.Side) int64 {
	return l.exposure[side][domain.Own] + l.exposure[side][domain.External]
}

// OwnExposure restricts the notional to the engine's own resting liquidity.
func (l *Ledger) OwnExposure(side domain.Side) int64 {
	return l.exposure[side][domain.Own]
}

// RealizedProfit returns the signed realized profit for one symbol.
func (l *Ledger) RealizedProfit(symbol string) int64 {
	return l.profit[symbol]
}

// TotalProfit sums realized profit across all symbols.
func (l *Ledger) TotalProfit() int64 {
	return l.total
}

// Trades returns the append-only trade log for a symbol. Callers must treat
// the returned slice as read-only.
func (l *Ledger) Trades(symbol string) []domain.Trade {
	return l.trades[symbol]
}
