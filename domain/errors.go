package domain

import "errors"

var (
	// ErrInvalidOrder rejects a malformed order at submission, before any
	// book state is touched.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrOrderNotFound is returned by cancel/remove for an id that is not
	// currently resting.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidSide means an order was routed to the wrong side's book.
	// It indicates book corruption and is never silently corrected.
	ErrInvalidSide = errors.New("order side does not match book side")
)
