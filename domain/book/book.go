// Package book implements one side of a symbol's resting order book: a
// red-black tree of price levels, each level a FIFO queue of orders. The
// ordering invariant is (side-adjusted price, arrival sequence): best price
// first, earliest arrival first within a price.
package book

import (
	"fmt"

	"matchbook/domain"
)

// Level is one aggregated row of a book snapshot.
type Level struct {
	Price    int64
	Quantity int64
}

// SideBook holds the resting orders of one side. It is not safe for
// concurrent use; the engine serializes all access per symbol.
type SideBook struct {
	side  domain.Side
	tree  *rbTree
	index map[uint64]*entry
}

func NewSideBook(side domain.Side) *SideBook {
	return &SideBook{
		side:  side,
		tree:  newRBTree(),
		index: make(map[uint64]*entry),
	}
}

func (b *SideBook) Side() domain.Side { return b.side }

// Len is the number of resting orders.
func (b *SideBook) Len() int { return len(b.index) }

// Depth is the number of populated price levels.
func (b *SideBook) Depth() int { return b.tree.Size() }

// TotalQty sums the open quantity across all resting orders.
func (b *SideBook) TotalQty() int64 {
	var total int64
	b.tree.Ascend(func(lvl *priceLevel) bool {
		total += lvl.totalQty
		return true
	})
	return total
}

// Insert places a newly arrived order behind all earlier orders at its
// price. An order carrying the wrong side is a logic fault, not corrected.
func (b *SideBook) Insert(o *domain.Order) error {
	if err := b.check(o); err != nil {
		return err
	}
	e := &entry{order: o}
	b.tree.Upsert(o.Price).enqueue(e)
	b.index[o.ID] = e
	return nil
}

// ReinsertFront re-admits a partially filled order popped by the matching
// loop. It goes back to the head of its price level so it keeps its
// original time priority instead of queuing as a new arrival.
func (b *SideBook) ReinsertFront(o *domain.Order) error {
	if err := b.check(o); err != nil {
		return err
	}
	e := &entry{order: o}
	b.tree.Upsert(o.Price).pushFront(e)
	b.index[o.ID] = e
	return nil
}

// PeekBest returns the best resting order without removing it, or nil when
// the book is empty.
func (b *SideBook) PeekBest() *domain.Order {
	lvl := b.bestLevel()
	if lvl == nil {
		return nil
	}
	return lvl.head.order
}

// PopBest removes and returns the best resting order, or nil when empty.
func (b *SideBook) PopBest() *domain.Order {
	lvl := b.bestLevel()
	if lvl == nil {
		return nil
	}
	e := lvl.dequeue()
	if lvl.empty() {
		b.tree.Delete(lvl.price)
	}
	delete(b.index, e.order.ID)
	return e.order
}

// Remove deletes an arbitrary resting order by id (cancellation path) and
// returns it.
func (b *SideBook) Remove(id uint64) (*domain.Order, error) {
	e, ok := b.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrOrderNotFound, id)
	}
	lvl := e.level
	lvl.unlink(e)
	if lvl.empty() {
		b.tree.Delete(lvl.price)
	}
	delete(b.index, id)
	return e.order, nil
}

// Contains reports whether id is currently resting in this book.
func (b *SideBook) Contains(id uint64) bool {
	_, ok := b.index[id]
	return ok
}

// BestPrice returns the most favorable price of the side.
func (b *SideBook) BestPrice() (int64, bool) {
	lvl := b.bestLevel()
	if lvl == nil {
		return 0, false
	}
	return lvl.price, true
}

// Levels aggregates the book into (price, total quantity) rows, most
// favorable first, truncated to depth. depth <= 0 returns all levels.
func (b *SideBook) Levels(depth int) []Level {
	out := make([]Level, 0, b.tree.Size())
	b.walkLevels(func(lvl *priceLevel) bool {
		out = append(out, Level{Price: lvl.price, Quantity: lvl.totalQty})
		return depth <= 0 || len(out) < depth
	})
	return out
}

// Walk visits every resting order in priority order. Stops when fn returns
// false.
func (b *SideBook) Walk(fn func(*domain.Order) bool) {
	b.walkLevels(func(lvl *priceLevel) bool {
		for e := lvl.head; e != nil; e = e.next {
			if !fn(e.order) {
				return false
			}
		}
		return true
	})
}

func (b *SideBook) check(o *domain.Order) error {
	if o.Side != b.side {
		return fmt.Errorf("%w: %s order into %s book", domain.ErrInvalidSide, o.Side, b.side)
	}
	return nil
}

func (b *SideBook) bestLevel() *priceLevel {
	if b.side == domain.Buy {
		return b.tree.Max()
	}
	return b.tree.Min()
}

func (b *SideBook) walkLevels(fn func(*priceLevel) bool) {
	if b.side == domain.Buy {
		b.tree.Descend(fn)
	} else {
		b.tree.Ascend(fn)
	}
}
