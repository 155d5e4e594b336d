// Package sequence provides the engine's arrival clock.
package sequence

import "sync/atomic"

// Sequencer hands out strictly increasing sequence numbers. Price-time
// priority ties on price are broken by these values, so they must never
// repeat or go backwards within one engine instance.
type Sequencer struct {
	next atomic.Uint64
}

func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued sequence number.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}
