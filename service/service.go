// Package service is the single write entry point into the engine. It owns
// order id assignment, allocates orders from the pool, journals executed
// trades and publishes top-of-book ticks. Everything below it (the engine)
// is pure CPU-bound matching; everything above it (CLI, jobs) only sees
// this API.
package service

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"matchbook/domain"
	"matchbook/engine"
	"matchbook/infra/journal"
	"matchbook/infra/kafka"
	"matchbook/infra/memory"
)

// PlaceRequest carries the caller-facing order parameters; the service
// fills in identity and sequencing.
type PlaceRequest struct {
	Symbol   string
	Side     domain.Side
	Kind     domain.Kind
	TIF      domain.TimeInForce
	Price    int64
	Quantity int64
	Owner    domain.Owner
}

type Service struct {
	eng      *engine.ShardedEngine
	pool     *memory.Pool[domain.Order]
	lastID   atomic.Uint64
	journal  *journal.Journal // optional
	producer *kafka.Producer  // optional
	log      *zap.Logger
}

type Config struct {
	Shards   int
	Journal  *journal.Journal
	Producer *kafka.Producer
	Logger   *zap.Logger
}

func New(cfg Config) *Service {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Shards < 1 {
		cfg.Shards = 1
	}
	return &Service{
		eng:      engine.NewSharded(cfg.Shards),
		pool:     memory.NewPool(func() *domain.Order { return &domain.Order{} }),
		journal:  cfg.Journal,
		producer: cfg.Producer,
		log:      cfg.Logger,
	}
}

// PlaceOrder submits a new order and returns its assigned id together with
// the trades it produced.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceRequest) (uint64, []domain.Trade, error) {
	o := s.pool.Get()
	*o = domain.Order{
		ID:       s.lastID.Add(1),
		Symbol:   req.Symbol,
		Side:     req.Side,
		Kind:     req.Kind,
		TIF:      req.TIF,
		Price:    req.Price,
		Quantity: req.Quantity,
		Owner:    req.Owner,
	}
	id := o.ID

	trades, err := s.eng.Submit(o)
	if err != nil {
		s.pool.Put(o)
		return 0, nil, err
	}

	s.log.Info("order placed",
		zap.Uint64("id", id),
		zap.String("symbol", req.Symbol),
		zap.String("side", req.Side.String()),
		zap.String("kind", req.Kind.String()),
		zap.Int64("price", req.Price),
		zap.Int64("qty", req.Quantity),
		zap.Int("trades", len(trades)),
		zap.Bool("rested", o.Status == domain.Resting),
	)

	for _, t := range trades {
		if s.journal != nil {
			if jerr := s.journal.Append(t); jerr != nil {
				s.log.Error("journal append failed", zap.Uint64("seq", t.Seq), zap.Error(jerr))
			}
		}
	}
	s.publishTick(ctx, req.Symbol)

	if o.Status == domain.Done {
		s.pool.Put(o)
	}
	return id, trades, nil
}

// Cancel removes a resting order by id.
func (s *Service) Cancel(ctx context.Context, id uint64) error {
	o, err := s.eng.Cancel(id)
	if err != nil {
		return err
	}
	s.log.Info("order cancelled", zap.Uint64("id", id), zap.String("symbol", o.Symbol))
	s.publishTick(ctx, o.Symbol)
	s.pool.Put(o)
	return nil
}

func (s *Service) BestBid(symbol string) (int64, bool) { return s.eng.BestBid(symbol) }
func (s *Service) BestAsk(symbol string) (int64, bool) { return s.eng.BestAsk(symbol) }

func (s *Service) BookSnapshot(symbol string, depth int) engine.Snapshot {
	return s.eng.BookSnapshot(symbol, depth)
}

func (s *Service) Exposure(side domain.Side) int64    { return s.eng.Exposure(side) }
func (s *Service) OwnExposure(side domain.Side) int64 { return s.eng.OwnExposure(side) }
func (s *Service) RealizedProfit(symbol string) int64 { return s.eng.RealizedProfit(symbol) }
func (s *Service) TotalProfit() int64                 { return s.eng.TotalProfit() }
func (s *Service) Trades(symbol string) []domain.Trade {
	return s.eng.Trades(symbol)
}

func (s *Service) Close() {
	s.eng.Close()
}

func (s *Service) publishTick(ctx context.Context, symbol string) {
	if s.producer == nil {
		return
	}
	bid, hasBid := s.eng.BestBid(symbol)
	ask, hasAsk := s.eng.BestAsk(symbol)
	tick := kafka.Tick{
		Symbol: symbol,
		Bid:    bid,
		HasBid: hasBid,
		Ask:    ask,
		HasAsk: hasAsk,
		Time:   time.Now().UnixNano(),
	}
	if err := s.producer.PublishTick(ctx, tick); err != nil {
		s.log.Warn("tick publish failed", zap.String("symbol", symbol), zap.Error(err))
	}
}
