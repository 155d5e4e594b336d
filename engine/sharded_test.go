package engine

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchbook/domain"
)

func TestShardedRoutesBySymbol(t *testing.T) {
	s := NewSharded(4)
	defer s.Close()

	o := &domain.Order{
		ID: 1, Symbol: "AAPL", Side: domain.Sell, Kind: domain.Limit,
		TIF: domain.GoodTillCancel, Price: 100, Quantity: 10,
	}
	_, err := s.Submit(o)
	require.NoError(t, err)

	ask, ok := s.BestAsk("AAPL")
	require.True(t, ok)
	assert.Equal(t, int64(100), ask)
	_, ok = s.BestAsk("MSFT")
	assert.False(t, ok)
}

func TestShardedCancelAcrossShards(t *testing.T) {
	s := NewSharded(3)
	defer s.Close()

	var ids []uint64
	for i, sym := range []string{"AAPL", "MSFT", "GOOG", "TSLA", "NVDA"} {
		id := uint64(i + 1)
		_, err := s.Submit(&domain.Order{
			ID: id, Symbol: sym, Side: domain.Buy, Kind: domain.Limit,
			TIF: domain.GoodTillCancel, Price: 100, Quantity: 1,
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	// Ids carry no symbol, so each cancel has to locate its shard.
	for _, id := range ids {
		o, err := s.Cancel(id)
		require.NoError(t, err)
		assert.Equal(t, id, o.ID)
	}
	_, err := s.Cancel(ids[0])
	assert.True(t, errors.Is(err, domain.ErrOrderNotFound))
	assert.Equal(t, int64(0), s.Exposure(domain.Buy))
}

func TestShardedAggregates(t *testing.T) {
	s := NewSharded(4)
	defer s.Close()

	var id uint64
	for _, sym := range []string{"A", "B", "C", "D", "E", "F"} {
		id++
		_, err := s.Submit(&domain.Order{
			ID: id, Symbol: sym, Side: domain.Buy, Kind: domain.Limit,
			TIF: domain.GoodTillCancel, Price: 10, Quantity: 3, Owner: domain.Own,
		})
		require.NoError(t, err)
	}
	assert.Equal(t, int64(6*30), s.Exposure(domain.Buy))
	assert.Equal(t, int64(6*30), s.OwnExposure(domain.Buy))

	// Lift one own bid with an external sell and check the global pnl.
	id++
	_, err := s.Submit(&domain.Order{
		ID: id, Symbol: "C", Side: domain.Sell, Kind: domain.Limit,
		TIF: domain.GoodTillCancel, Price: 8, Quantity: 3, Owner: domain.External,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3*(10-8)), s.TotalProfit())
	assert.Equal(t, int64(5*30), s.Exposure(domain.Buy))
}

func TestShardedConcurrentSubmits(t *testing.T) {
	const (
		symbols         = 8
		ordersPerSymbol = 200
	)
	s := NewSharded(4)
	defer s.Close()

	var wg sync.WaitGroup
	for w := 0; w < symbols; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			sym := fmt.Sprintf("SYM%d", w)
			base := uint64(w * ordersPerSymbol * 2)
			for i := 0; i < ordersPerSymbol; i++ {
				_, err := s.Submit(&domain.Order{
					ID: base + uint64(2*i+1), Symbol: sym, Side: domain.Sell,
					Kind: domain.Limit, TIF: domain.GoodTillCancel, Price: 100, Quantity: 1,
				})
				if err != nil {
					t.Error(err)
					return
				}
				_, err = s.Submit(&domain.Order{
					ID: base + uint64(2*i+2), Symbol: sym, Side: domain.Buy,
					Kind: domain.Limit, TIF: domain.GoodTillCancel, Price: 100, Quantity: 1,
				})
				if err != nil {
					t.Error(err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	// Every buy matched its paired sell: nothing rests anywhere.
	assert.Equal(t, int64(0), s.Exposure(domain.Buy))
	assert.Equal(t, int64(0), s.Exposure(domain.Sell))
	for w := 0; w < symbols; w++ {
		sym := fmt.Sprintf("SYM%d", w)
		assert.Len(t, s.Trades(sym), ordersPerSymbol, "symbol %s", sym)
	}
}
