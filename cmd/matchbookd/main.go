package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"matchbook/api/command"
	"matchbook/domain"
	"matchbook/infra/journal"
	"matchbook/infra/kafka"
	"matchbook/jobs/broadcaster"
	"matchbook/service"
)

func main() {
	_ = godotenv.Load()

	logger, err := newLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := service.Config{
		Shards: envInt("MATCHBOOK_SHARDS", 4),
		Logger: logger,
	}

	var jnl *journal.Journal
	if dir := os.Getenv("MATCHBOOK_JOURNAL_DIR"); dir != "" {
		jnl, err = journal.Open(dir)
		if err != nil {
			logger.Fatal("journal open failed", zap.String("dir", dir), zap.Error(err))
		}
		defer jnl.Close()
		cfg.Journal = jnl
	}

	brokers := splitList(os.Getenv("KAFKA_BROKERS"))
	if len(brokers) > 0 {
		if topic := os.Getenv("MATCHBOOK_TICK_TOPIC"); topic != "" {
			producer := kafka.NewProducer(brokers, topic)
			defer producer.Close()
			cfg.Producer = producer
		}
	}

	svc := service.New(cfg)
	defer svc.Close()

	if len(brokers) > 0 && jnl != nil {
		if topic := os.Getenv("MATCHBOOK_TRADE_TOPIC"); topic != "" {
			interval := time.Duration(envInt("MATCHBOOK_BROADCAST_MS", 250)) * time.Millisecond
			bc, err := broadcaster.New(jnl, brokers, topic, interval, logger)
			if err != nil {
				logger.Fatal("broadcaster init failed", zap.Error(err))
			}
			defer bc.Close()
			go bc.Run(ctx)
		}
	}

	repl(ctx, svc)
}

func repl(ctx context.Context, svc *service.Service) {
	fmt.Println("commands: ADD,SYMBOL,TYPE,SIDE,PRICE,QTY,TIF | BOOK,SYMBOL | EXIT")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		cmd, err := command.ParseLine(line)
		if err != nil {
			fmt.Println(err)
			continue
		}

		switch c := cmd.(type) {
		case command.Exit:
			return
		case command.Add:
			id, trades, err := svc.PlaceOrder(ctx, service.PlaceRequest{
				Symbol:   c.Symbol,
				Side:     c.Side,
				Kind:     c.Kind,
				TIF:      c.TIF,
				Price:    c.Price,
				Quantity: c.Quantity,
				Owner:    domain.Own,
			})
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Printf("order %d accepted, %d trade(s)\n", id, len(trades))
			for _, t := range trades {
				fmt.Printf("  matched %d @ %s\n", t.Quantity, command.FormatPrice(t.Price))
			}
		case command.Book:
			printBook(svc, c.Symbol)
		}
	}
}

func printBook(svc *service.Service, symbol string) {
	const depth = 5
	snap := svc.BookSnapshot(symbol, depth)
	fmt.Printf("Order Book for %s\n", symbol)
	fmt.Println("Buy Orders:")
	for _, lvl := range snap.Bids {
		fmt.Printf("  %s: %d\n", command.FormatPrice(lvl.Price), lvl.Quantity)
	}
	fmt.Println("Sell Orders:")
	for _, lvl := range snap.Asks {
		fmt.Printf("  %s: %d\n", command.FormatPrice(lvl.Price), lvl.Quantity)
	}
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	cfg.EncoderConfig.TimeKey = "ts"
	return cfg.Build()
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
