package engine

import (
	"testing"

	"matchbook/domain"
)

func BenchmarkSubmitResting(b *testing.B) {
	eng := New()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = eng.Submit(&domain.Order{
			ID: uint64(i + 1), Symbol: "BENCH", Side: domain.Buy, Kind: domain.Limit,
			TIF: domain.GoodTillCancel, Price: int64(i%1024 + 1), Quantity: 1,
		})
	}
}

func BenchmarkSubmitMatch(b *testing.B) {
	eng := New()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = eng.Submit(&domain.Order{
			ID: uint64(2*i + 1), Symbol: "BENCH", Side: domain.Sell, Kind: domain.Limit,
			TIF: domain.GoodTillCancel, Price: 100, Quantity: 1,
		})
		_, _ = eng.Submit(&domain.Order{
			ID: uint64(2*i + 2), Symbol: "BENCH", Side: domain.Buy, Kind: domain.Limit,
			TIF: domain.GoodTillCancel, Price: 100, Quantity: 1,
		})
	}
}

func BenchmarkCancel(b *testing.B) {
	eng := New()
	for i := 0; i < b.N; i++ {
		_, _ = eng.Submit(&domain.Order{
			ID: uint64(i + 1), Symbol: "BENCH", Side: domain.Buy, Kind: domain.Limit,
			TIF: domain.GoodTillCancel, Price: int64(i%1024 + 1), Quantity: 1,
		})
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = eng.Cancel(uint64(i + 1))
	}
}
