package book

import (
	"fmt"

	"matchbook/domain"
)

// entry wraps a resting order in the FIFO list of one price level. Keeping
// the links outside domain.Order leaves the entity free of book concerns
// while still giving O(1) unlink through the id index.
type entry struct {
	order *domain.Order
	level *priceLevel
	next  *entry
	prev  *entry
}

// priceLevel holds all resting orders at one price, oldest first.
type priceLevel struct {
	price    int64
	head     *entry
	tail     *entry
	totalQty int64
}

// enqueue appends at the tail: a newly arrived order queues behind every
// earlier order at the same price.
func (lvl *priceLevel) enqueue(e *entry) {
	e.level = lvl
	if lvl.tail != nil {
		lvl.tail.next = e
		e.prev = lvl.tail
	} else {
		lvl.head = e
	}
	lvl.tail = e
	lvl.totalQty += e.order.Quantity
}

// pushFront re-admits a partially filled order at the head so it keeps its
// original time priority. It must not be used for new arrivals.
func (lvl *priceLevel) pushFront(e *entry) {
	e.level = lvl
	if lvl.head != nil {
		lvl.head.prev = e
		e.next = lvl.head
	} else {
		lvl.tail = e
	}
	lvl.head = e
	lvl.totalQty += e.order.Quantity
}

// dequeue removes and returns the oldest entry.
func (lvl *priceLevel) dequeue() *entry {
	e := lvl.head
	if e == nil {
		return nil
	}
	lvl.head = e.next
	if lvl.head != nil {
		lvl.head.prev = nil
	} else {
		lvl.tail = nil
	}
	e.next, e.prev, e.level = nil, nil, nil
	lvl.totalQty -= e.order.Quantity
	return e
}

// unlink removes an arbitrary entry (cancellation path).
func (lvl *priceLevel) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		lvl.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		lvl.tail = e.prev
	}
	e.next, e.prev, e.level = nil, nil, nil
	lvl.totalQty -= e.order.Quantity
}

func (lvl *priceLevel) empty() bool { return lvl.head == nil }

func (lvl *priceLevel) String() string {
	n := 0
	for e := lvl.head; e != nil; e = e.next {
		n++
	}
	return fmt.Sprintf("level{px=%d orders=%d qty=%d}", lvl.price, n, lvl.totalQty)
}
