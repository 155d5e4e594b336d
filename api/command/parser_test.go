package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchbook/domain"
)

func TestParseLineAdd(t *testing.T) {
	cmd, err := ParseLine("ADD,AAPL,L,B,150.50,100,GTC")
	require.NoError(t, err)
	add, ok := cmd.(Add)
	require.True(t, ok)
	assert.Equal(t, "AAPL", add.Symbol)
	assert.Equal(t, domain.Limit, add.Kind)
	assert.Equal(t, domain.Buy, add.Side)
	assert.Equal(t, int64(15050), add.Price)
	assert.Equal(t, int64(100), add.Quantity)
	assert.Equal(t, domain.GoodTillCancel, add.TIF)
}

func TestParseLineVariants(t *testing.T) {
	cases := []struct {
		line string
		want Add
	}{
		{"add,X,limit,buy,1,5,gtc", Add{Symbol: "X", Kind: domain.Limit, Side: domain.Buy, Price: 100, Quantity: 5, TIF: domain.GoodTillCancel}},
		{"ADD,X,M,S,0,5,IOC", Add{Symbol: "X", Kind: domain.Market, Side: domain.Sell, Price: 0, Quantity: 5, TIF: domain.ImmediateOrCancel}},
		{"ADD,X,MARKET,SELL,0,5,I", Add{Symbol: "X", Kind: domain.Market, Side: domain.Sell, Price: 0, Quantity: 5, TIF: domain.ImmediateOrCancel}},
	}
	for _, tc := range cases {
		cmd, err := ParseLine(tc.line)
		require.NoError(t, err, tc.line)
		assert.Equal(t, tc.want, cmd, tc.line)
	}
}

func TestParseLineRejects(t *testing.T) {
	lines := []string{
		"",
		"NOPE,AAPL",
		"ADD,AAPL,L,B,150.50,100",    // missing TIF
		"ADD,,L,B,150.50,100,GTC",    // empty symbol
		"ADD,AAPL,X,B,150.50,1,GTC",  // bad type
		"ADD,AAPL,L,Z,150.50,1,GTC",  // bad side
		"ADD,AAPL,L,B,abc,1,GTC",     // bad price
		"ADD,AAPL,L,B,-1,1,GTC",      // negative price
		"ADD,AAPL,L,B,150.505,1,GTC", // finer than tick
		"ADD,AAPL,L,B,150.50,0,GTC",  // zero qty
		"ADD,AAPL,L,B,150.50,-3,GTC", // negative qty
		"ADD,AAPL,L,B,150.50,1,XXX",  // bad tif
		"BOOK",
		"BOOK,",
	}
	for _, line := range lines {
		_, err := ParseLine(line)
		assert.True(t, errors.Is(err, ErrBadCommand), "line %q: got %v", line, err)
	}
}

func TestParseLineBookExit(t *testing.T) {
	cmd, err := ParseLine("BOOK,AAPL")
	require.NoError(t, err)
	assert.Equal(t, Book{Symbol: "AAPL"}, cmd)

	cmd, err = ParseLine("exit")
	require.NoError(t, err)
	assert.Equal(t, Exit{}, cmd)
}

func TestParsePrice(t *testing.T) {
	cases := map[string]int64{
		"150.50": 15050,
		"150.5":  15050,
		"150":    15000,
		"0":      0,
		"0.01":   1,
	}
	for in, want := range cases {
		got, err := ParsePrice(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "150.50", FormatPrice(15050))
	assert.Equal(t, "0.01", FormatPrice(1))
	assert.Equal(t, "0.00", FormatPrice(0))
}

func TestParseTapeSingleAction(t *testing.T) {
	orders, err := ParseTape("TINYCORP SELL 27 1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	o := orders[0]
	assert.Equal(t, "TINYCORP", o.Symbol)
	assert.Equal(t, domain.Sell, o.Side)
	assert.Equal(t, domain.Own, o.Owner)
	assert.Equal(t, domain.Limit, o.Kind)
	assert.Equal(t, domain.GoodTillCancel, o.TIF)
	assert.Equal(t, int64(27), o.Quantity)
	assert.Equal(t, int64(1), o.Price)
}

func TestParseTapeMultiAction(t *testing.T) {
	orders, err := ParseTape("NEWFIRM BID 10 140 BID 7 150 OFFER 14 180")
	require.NoError(t, err)
	require.Len(t, orders, 3)

	assert.Equal(t, domain.Buy, orders[0].Side)
	assert.Equal(t, domain.External, orders[0].Owner)
	assert.Equal(t, int64(10), orders[0].Quantity)
	assert.Equal(t, int64(140), orders[0].Price)

	assert.Equal(t, int64(150), orders[1].Price)

	assert.Equal(t, domain.Sell, orders[2].Side)
	assert.Equal(t, domain.External, orders[2].Owner)
	assert.Equal(t, int64(14), orders[2].Quantity)
	assert.Equal(t, int64(180), orders[2].Price)
}

func TestParseTapeRejects(t *testing.T) {
	records := []string{
		"",
		"TINYCORP",
		"TINYCORP SELL 27",        // incomplete action
		"TINYCORP SELL 27 1 BID",  // trailing fragment
		"TINYCORP HOLD 27 1",      // unknown action
		"TINYCORP SELL 0 1",       // zero size
		"TINYCORP SELL -5 1",      // negative size
		"TINYCORP SELL 27 -1",     // negative price
		"TINYCORP SELL 27 1.5",    // tape prices are integral ticks
	}
	for _, rec := range records {
		_, err := ParseTape(rec)
		assert.True(t, errors.Is(err, ErrBadCommand), "record %q: got %v", rec, err)
	}
}
