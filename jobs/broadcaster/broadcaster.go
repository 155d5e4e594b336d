// Package broadcaster drains the trade journal's outbox into Kafka.
// Delivery is at-least-once: entries are marked SENT before the publish
// attempt and ACKED only after the broker confirms, so a crash between the
// two re-publishes rather than drops.
package broadcaster

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"matchbook/infra/journal"
)

// Event is the published trade payload.
type Event struct {
	V          int    `json:"v"`
	TradeID    string `json:"trade_id"`
	Symbol     string `json:"symbol"`
	TakerID    uint64 `json:"taker_id"`
	MakerID    uint64 `json:"maker_id"`
	TakerSide  string `json:"taker_side"`
	Price      int64  `json:"price"`
	Quantity   int64  `json:"quantity"`
	Seq        uint64 `json:"seq"`
	CrossOwner bool   `json:"cross_owner"`
}

type Broadcaster struct {
	journal  *journal.Journal
	producer sarama.SyncProducer
	topic    string
	interval time.Duration
	log      *zap.Logger
}

func New(j *journal.Journal, brokers []string, topic string, interval time.Duration, log *zap.Logger) (*Broadcaster, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &Broadcaster{
		journal:  j,
		producer: producer,
		topic:    topic,
		interval: interval,
		log:      log,
	}, nil
}

// Run drains the outbox on a ticker until ctx is cancelled.
func (b *Broadcaster) Run(ctx context.Context) {
	b.log.Info("broadcaster started", zap.String("topic", b.topic))
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.drainOnce()
		}
	}
}

func (b *Broadcaster) drainOnce() {
	err := b.journal.ScanPending(func(e journal.Entry) error {
		if err := b.journal.MarkSent(e.Trade.Seq); err != nil {
			return err
		}

		payload, err := json.Marshal(Event{
			V:          1,
			TradeID:    e.Trade.TradeID,
			Symbol:     e.Trade.Symbol,
			TakerID:    e.Trade.TakerID,
			MakerID:    e.Trade.MakerID,
			TakerSide:  e.Trade.TakerSide.String(),
			Price:      e.Trade.Price,
			Quantity:   e.Trade.Quantity,
			Seq:        e.Trade.Seq,
			CrossOwner: e.Trade.CrossOwner,
		})
		if err != nil {
			return err
		}

		_, _, err = b.producer.SendMessage(&sarama.ProducerMessage{
			Topic: b.topic,
			Key:   sarama.StringEncoder(e.Trade.Symbol),
			Value: sarama.ByteEncoder(payload),
		})
		if err != nil {
			// Left in SENT; the next drain retries it.
			b.log.Warn("publish failed", zap.Uint64("seq", e.Trade.Seq), zap.Error(err))
			return nil
		}

		return b.journal.MarkAcked(e.Trade.Seq)
	})
	if err != nil {
		b.log.Error("outbox scan failed", zap.Error(err))
	}
}

func (b *Broadcaster) Close() error {
	return b.producer.Close()
}
