package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mfernandes/stockmatch/internal/domain"
)

func TestAuctionScheduler_TriggersMatches(t *testing.T) {
	e := newTestEngine(t)
	base := time.Now()

	buy := addOrder(e.orders, domain.OrderSideBuy, 5000, 10, base)
	buy.ClientID = "buyer"
	sell := addOrder(e.orders, domain.OrderSideSell, 5000, 10, base)
	sell.ClientID = "seller"
	e.seedHolding(t, "seller", 10)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewAuctionScheduler(10*time.Millisecond, e.stocks, e.orch, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	deadline := time.After(2 * time.Second)
	for {
		if len(e.trades.GetBySymbol("XYZ")) == 1 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("scheduler never settled the crossing orders")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestAuctionScheduler_ZeroIntervalDisabled(t *testing.T) {
	e := newTestEngine(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewAuctionScheduler(0, e.stocks, e.orch, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// Start must return without launching a goroutine; nothing to
	// assert beyond it not panicking or blocking.
	s.Start(ctx)
}
