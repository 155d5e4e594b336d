package engine

import (
	"errors"
	"hash/fnv"

	"matchbook/domain"
)

// ShardedEngine partitions symbols across independent Engine instances by
// symbol hash. Each shard is driven by exactly one goroutine, so every
// operation on a symbol — submissions, cancels and queries alike — is
// serialized through its owning shard's loop with no locks inside the
// books. Shards share no mutable state.
type ShardedEngine struct {
	shards []*shard
}

type shard struct {
	eng  *Engine
	reqs chan func(*Engine)
	done chan struct{}
}

func NewSharded(n int) *ShardedEngine {
	if n < 1 {
		n = 1
	}
	s := &ShardedEngine{shards: make([]*shard, n)}
	for i := range s.shards {
		sh := &shard{
			eng:  New(),
			reqs: make(chan func(*Engine), 1024),
			done: make(chan struct{}),
		}
		go sh.loop()
		s.shards[i] = sh
	}
	return s
}

func (sh *shard) loop() {
	for {
		select {
		case fn := <-sh.reqs:
			fn(sh.eng)
		case <-sh.done:
			return
		}
	}
}

// do runs fn on the shard's goroutine and waits for it.
func (sh *shard) do(fn func(*Engine)) {
	ack := make(chan struct{})
	sh.reqs <- func(e *Engine) {
		fn(e)
		close(ack)
	}
	<-ack
}

func (s *ShardedEngine) Close() {
	for _, sh := range s.shards {
		close(sh.done)
	}
}

func (s *ShardedEngine) pick(symbol string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(symbol))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

func (s *ShardedEngine) Submit(o *domain.Order) ([]domain.Trade, error) {
	var (
		trades []domain.Trade
		err    error
	)
	s.pick(o.Symbol).do(func(e *Engine) {
		trades, err = e.Submit(o)
	})
	return trades, err
}

// Cancel tries every shard: order ids carry no symbol, so the owning shard
// is unknown. Shard counts are small and misses are cheap map lookups.
func (s *ShardedEngine) Cancel(id uint64) (*domain.Order, error) {
	for _, sh := range s.shards {
		var (
			o   *domain.Order
			err error
		)
		sh.do(func(e *Engine) {
			o, err = e.Cancel(id)
		})
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, domain.ErrOrderNotFound) {
			return nil, err
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (s *ShardedEngine) BestBid(symbol string) (int64, bool) {
	var (
		px int64
		ok bool
	)
	s.pick(symbol).do(func(e *Engine) {
		px, ok = e.BestBid(symbol)
	})
	return px, ok
}

func (s *ShardedEngine) BestAsk(symbol string) (int64, bool) {
	var (
		px int64
		ok bool
	)
	s.pick(symbol).do(func(e *Engine) {
		px, ok = e.BestAsk(symbol)
	})
	return px, ok
}

func (s *ShardedEngine) BookSnapshot(symbol string, depth int) Snapshot {
	var snap Snapshot
	s.pick(symbol).do(func(e *Engine) {
		snap = e.BookSnapshot(symbol, depth)
	})
	return snap
}

func (s *ShardedEngine) RealizedProfit(symbol string) int64 {
	var pnl int64
	s.pick(symbol).do(func(e *Engine) {
		pnl = e.RealizedProfit(symbol)
	})
	return pnl
}

func (s *ShardedEngine) Trades(symbol string) []domain.Trade {
	var trades []domain.Trade
	s.pick(symbol).do(func(e *Engine) {
		trades = e.Trades(symbol)
	})
	return trades
}

// Exposure sums the per-shard side notionals. Each read serializes with
// the shard's own writes; the sum is not a cross-shard atomic snapshot,
// which is fine because shards never share a symbol.
func (s *ShardedEngine) Exposure(side domain.Side) int64 {
	return s.sum(func(e *Engine) int64 { return e.Exposure(side) })
}

func (s *ShardedEngine) OwnExposure(side domain.Side) int64 {
	return s.sum(func(e *Engine) int64 { return e.OwnExposure(side) })
}

func (s *ShardedEngine) TotalProfit() int64 {
	return s.sum(func(e *Engine) int64 { return e.TotalProfit() })
}

func (s *ShardedEngine) sum(fn func(*Engine) int64) int64 {
	var total int64
	for _, sh := range s.shards {
		sh.do(func(e *Engine) {
			total += fn(e)
		})
	}
	return total
}
