// Package journal persists executed trades in pebble. It doubles as an
// outbox: every trade is appended PENDING and walked through
// PENDING -> SENT -> ACKED by the broadcaster, so the downstream stream can
// be replayed after a crash without losing or double-counting trades.
package journal

import (
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"

	"matchbook/domain"
)

// ErrNotFound is returned by Get for a sequence never appended.
var ErrNotFound = errors.New("journal: entry not found")

type State uint8

const (
	StatePending State = iota
	StateSent
	StateAcked
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateSent:
		return "SENT"
	case StateAcked:
		return "ACKED"
	default:
		return "UNKNOWN"
	}
}

// Entry is one journaled trade plus its outbox bookkeeping.
type Entry struct {
	Trade      domain.Trade
	State      State
	Retries    uint32
	AppendedAt int64
}

type Journal struct {
	db *pebble.DB
}

func Open(dir string) (*Journal, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", dir, err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Append stores a freshly executed trade in PENDING state. Keys are zero
// padded so pebble's iteration order is trade sequence order.
func (j *Journal) Append(t domain.Trade) error {
	e := Entry{
		Trade:      t,
		State:      StatePending,
		AppendedAt: time.Now().UnixNano(),
	}
	return j.db.Set(keyFor(t.Seq), encodeEntry(e), pebble.Sync)
}

// Get returns the entry for a trade sequence.
func (j *Journal) Get(seq uint64) (Entry, error) {
	val, closer, err := j.db.Get(keyFor(seq))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return Entry{}, fmt.Errorf("%w: seq %d", ErrNotFound, seq)
		}
		return Entry{}, err
	}
	defer closer.Close()
	return decodeEntry(val)
}

// MarkSent records a publish attempt.
func (j *Journal) MarkSent(seq uint64) error {
	return j.transition(seq, StateSent)
}

// MarkAcked retires an entry after the downstream broker confirmed it.
func (j *Journal) MarkAcked(seq uint64) error {
	return j.transition(seq, StateAcked)
}

func (j *Journal) transition(seq uint64, to State) error {
	e, err := j.Get(seq)
	if err != nil {
		return err
	}
	e.State = to
	if to == StateSent {
		e.Retries++
	}
	return j.db.Set(keyFor(seq), encodeEntry(e), pebble.Sync)
}

// ScanPending visits entries not yet acked, in sequence order. SENT entries
// are included so a crashed broadcaster retries them.
func (j *Journal) ScanPending(fn func(Entry) error) error {
	return j.scan(func(e Entry) error {
		if e.State == StateAcked {
			return nil
		}
		return fn(e)
	})
}

// ScanAll visits every journaled entry in sequence order.
func (j *Journal) ScanAll(fn func(Entry) error) error {
	return j.scan(fn)
}

func (j *Journal) scan(fn func(Entry) error) error {
	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: []byte(keyPrefix + "~"),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		e, err := decodeEntry(iter.Value())
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return iter.Error()
}

const keyPrefix = "trade/"

func keyFor(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", keyPrefix, seq))
}
