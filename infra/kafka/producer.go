// Package kafka publishes top-of-book ticks for downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Tick is the top-of-book snapshot published after each submission. A zero
// Bid or Ask with the matching Has flag false means that side is empty.
type Tick struct {
	Symbol string `json:"symbol"`
	Bid    int64  `json:"bid"`
	HasBid bool   `json:"has_bid"`
	Ask    int64  `json:"ask"`
	HasAsk bool   `json:"has_ask"`
	Time   int64  `json:"ts"`
}

type Producer struct {
	writer *kafkago.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafkago.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// PublishTick sends one tick keyed by symbol, so per-symbol ordering is
// preserved across partitions.
func (p *Producer) PublishTick(ctx context.Context, t Tick) error {
	if t.Time == 0 {
		t.Time = time.Now().UnixNano()
	}
	value, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(t.Symbol),
		Value: value,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
