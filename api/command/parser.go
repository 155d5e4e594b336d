// Package command parses the two text surfaces callers use to drive the
// engine: the comma-separated ADD/BOOK/EXIT command syntax and the
// space-separated quote-tape record format. Parsing happens entirely
// outside the matching core; only well-formed orders reach a book.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"matchbook/domain"
)

// ErrBadCommand rejects lines that do not parse.
var ErrBadCommand = errors.New("bad command")

// PriceScale is the tick size denominator: prices in commands are decimal
// ("150.50") and stored as int64 ticks of 1/100.
const PriceScale = 100

type Command interface{ command() }

// Add is "ADD,SYMBOL,TYPE,SIDE,PRICE,QTY,TIF".
type Add struct {
	Symbol   string
	Kind     domain.Kind
	Side     domain.Side
	Price    int64
	Quantity int64
	TIF      domain.TimeInForce
}

// Book is "BOOK,SYMBOL" — render a depth snapshot.
type Book struct {
	Symbol string
}

// Exit is "EXIT".
type Exit struct{}

func (Add) command()  {}
func (Book) command() {}
func (Exit) command() {}

// ParseLine parses one REPL line.
func ParseLine(line string) (Command, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	switch strings.ToUpper(parts[0]) {
	case "ADD":
		return parseAdd(parts)
	case "BOOK":
		if len(parts) < 2 || parts[1] == "" {
			return nil, fmt.Errorf("%w: BOOK needs a symbol", ErrBadCommand)
		}
		return Book{Symbol: parts[1]}, nil
	case "EXIT":
		return Exit{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown verb %q", ErrBadCommand, parts[0])
	}
}

func parseAdd(parts []string) (Command, error) {
	if len(parts) < 7 {
		return nil, fmt.Errorf("%w: ADD,SYMBOL,TYPE,SIDE,PRICE,QTY,TIF", ErrBadCommand)
	}
	a := Add{Symbol: parts[1]}
	if a.Symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrBadCommand)
	}

	switch strings.ToUpper(parts[2]) {
	case "L", "LIMIT":
		a.Kind = domain.Limit
	case "M", "MARKET":
		a.Kind = domain.Market
	default:
		return nil, fmt.Errorf("%w: order type %q", ErrBadCommand, parts[2])
	}

	switch strings.ToUpper(parts[3]) {
	case "B", "BUY":
		a.Side = domain.Buy
	case "S", "SELL":
		a.Side = domain.Sell
	default:
		return nil, fmt.Errorf("%w: side %q", ErrBadCommand, parts[3])
	}

	px, err := ParsePrice(parts[4])
	if err != nil {
		return nil, err
	}
	a.Price = px

	qty, err := strconv.ParseInt(parts[5], 10, 64)
	if err != nil || qty <= 0 {
		return nil, fmt.Errorf("%w: quantity %q", ErrBadCommand, parts[5])
	}
	a.Quantity = qty

	switch strings.ToUpper(parts[6]) {
	case "GTC":
		a.TIF = domain.GoodTillCancel
	case "IOC", "I":
		a.TIF = domain.ImmediateOrCancel
	default:
		return nil, fmt.Errorf("%w: time in force %q", ErrBadCommand, parts[6])
	}
	return a, nil
}

// ParsePrice converts a decimal price string into ticks. The price must be
// non-negative and representable at tick resolution.
func ParsePrice(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: price %q", ErrBadCommand, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: negative price %q", ErrBadCommand, s)
	}
	ticks := d.Mul(decimal.NewFromInt(PriceScale))
	if !ticks.IsInteger() {
		return 0, fmt.Errorf("%w: price %q finer than tick", ErrBadCommand, s)
	}
	return ticks.IntPart(), nil
}

// FormatPrice renders ticks back as a decimal price string.
func FormatPrice(ticks int64) string {
	return decimal.New(ticks, 0).Div(decimal.NewFromInt(PriceScale)).StringFixed(2)
}

// ParseTape parses one quote-tape record: "SYMBOL ACTION SIZE PRICE
// [ACTION SIZE PRICE]...". BUY/SELL are the desk's own orders, BID/OFFER
// external quotes; all are limit, good-till-cancel, with prices already in
// ticks. Orders are returned in tape order with ids unassigned.
func ParseTape(record string) ([]domain.Order, error) {
	fields := strings.Fields(record)
	if len(fields) < 4 || (len(fields)-1)%3 != 0 {
		return nil, fmt.Errorf("%w: tape record %q", ErrBadCommand, record)
	}
	symbol := fields[0]

	var orders []domain.Order
	for i := 1; i < len(fields); i += 3 {
		var side domain.Side
		var owner domain.Owner
		switch strings.ToUpper(fields[i]) {
		case "BUY":
			side, owner = domain.Buy, domain.Own
		case "SELL":
			side, owner = domain.Sell, domain.Own
		case "BID":
			side, owner = domain.Buy, domain.External
		case "OFFER":
			side, owner = domain.Sell, domain.External
		default:
			return nil, fmt.Errorf("%w: tape action %q", ErrBadCommand, fields[i])
		}
		qty, err := strconv.ParseInt(fields[i+1], 10, 64)
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("%w: tape size %q", ErrBadCommand, fields[i+1])
		}
		px, err := strconv.ParseInt(fields[i+2], 10, 64)
		if err != nil || px < 0 {
			return nil, fmt.Errorf("%w: tape price %q", ErrBadCommand, fields[i+2])
		}
		orders = append(orders, domain.Order{
			Symbol:   symbol,
			Side:     side,
			Owner:    owner,
			Kind:     domain.Limit,
			TIF:      domain.GoodTillCancel,
			Price:    px,
			Quantity: qty,
		})
	}
	return orders, nil
}
