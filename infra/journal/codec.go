package journal

import (
	"encoding/binary"
	"errors"
	"hash/crc32"

	"matchbook/domain"
)

// ErrCorruptRecord means a stored record failed its length or checksum
// check and cannot be decoded.
var ErrCorruptRecord = errors.New("journal: corrupt record")

// Record layout: [len:4][crc32:4] header, little endian, followed by the
// body the checksum covers:
//
//	state:1 retries:4 appendedAt:8
//	seq:8 takerID:8 makerID:8 price:8 qty:8 takerSide:1 crossOwner:1
//	tradeID len:2 + bytes, symbol len:2 + bytes
func encodeEntry(e Entry) []byte {
	body := make([]byte, 0, 64+len(e.Trade.TradeID)+len(e.Trade.Symbol))

	body = append(body, byte(e.State))
	body = binary.LittleEndian.AppendUint32(body, e.Retries)
	body = binary.LittleEndian.AppendUint64(body, uint64(e.AppendedAt))

	t := e.Trade
	body = binary.LittleEndian.AppendUint64(body, t.Seq)
	body = binary.LittleEndian.AppendUint64(body, t.TakerID)
	body = binary.LittleEndian.AppendUint64(body, t.MakerID)
	body = binary.LittleEndian.AppendUint64(body, uint64(t.Price))
	body = binary.LittleEndian.AppendUint64(body, uint64(t.Quantity))
	body = append(body, byte(t.TakerSide))
	if t.CrossOwner {
		body = append(body, 1)
	} else {
		body = append(body, 0)
	}
	body = appendString(body, t.TradeID)
	body = appendString(body, t.Symbol)

	out := make([]byte, 8, 8+len(body))
	binary.LittleEndian.PutUint32(out[:4], uint32(len(body)))
	binary.LittleEndian.PutUint32(out[4:8], crc32.ChecksumIEEE(body))
	return append(out, body...)
}

func decodeEntry(data []byte) (Entry, error) {
	if len(data) < 8 {
		return Entry{}, ErrCorruptRecord
	}
	n := binary.LittleEndian.Uint32(data[:4])
	want := binary.LittleEndian.Uint32(data[4:8])
	body := data[8:]
	if uint32(len(body)) != n || crc32.ChecksumIEEE(body) != want {
		return Entry{}, ErrCorruptRecord
	}

	d := decoder{buf: body}
	var e Entry
	e.State = State(d.byte())
	e.Retries = d.uint32()
	e.AppendedAt = int64(d.uint64())

	e.Trade = domain.Trade{
		Seq:        d.uint64(),
		TakerID:    d.uint64(),
		MakerID:    d.uint64(),
		Price:      int64(d.uint64()),
		Quantity:   int64(d.uint64()),
		TakerSide:  domain.Side(d.byte()),
		CrossOwner: d.byte() == 1,
		TradeID:    d.string(),
		Symbol:     d.string(),
	}
	if d.failed {
		return Entry{}, ErrCorruptRecord
	}
	return e, nil
}

func appendString(b []byte, s string) []byte {
	b = binary.LittleEndian.AppendUint16(b, uint16(len(s)))
	return append(b, s...)
}

type decoder struct {
	buf    []byte
	failed bool
}

func (d *decoder) take(n int) []byte {
	if d.failed || len(d.buf) < n {
		d.failed = true
		return nil
	}
	out := d.buf[:n]
	d.buf = d.buf[n:]
	return out
}

func (d *decoder) byte() byte {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) uint32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) uint64() uint64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *decoder) string() string {
	b := d.take(2)
	if b == nil {
		return ""
	}
	return string(d.take(int(binary.LittleEndian.Uint16(b))))
}
