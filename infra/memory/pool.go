// Package memory holds allocation helpers for the hot submission path.
package memory

import "sync"

// Pool is a typed object pool. The service layer allocates orders from it
// and returns them once the engine is done with them (fully filled,
// discarded, or cancelled), keeping steady-state GC churn low.
type Pool[T any] struct {
	p *sync.Pool
}

func NewPool[T any](ctor func() *T) *Pool[T] {
	return &Pool[T]{
		p: &sync.Pool{
			New: func() any { return ctor() },
		},
	}
}

func (p *Pool[T]) Get() *T {
	return p.p.Get().(*T)
}

func (p *Pool[T]) Put(v *T) {
	var zero T
	*v = zero
	p.p.Put(v)
}
