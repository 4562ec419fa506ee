package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mfernandes/stockmatch/internal/domain"
	"github.com/mfernandes/stockmatch/internal/store"
)

// AuctionScheduler periodically triggers a non-blocking matching pass
// for every listed symbol, turning the engine into a recurring call
// auction. Symbols with a pass already in flight are skipped, not
// queued; they get the next tick.
type AuctionScheduler struct {
	interval time.Duration
	stocks   *store.StockStore
	orch     *Orchestrator
	logger   *slog.Logger
}

// NewAuctionScheduler creates an AuctionScheduler. An interval of 0
// disables scheduling; Start returns immediately.
func NewAuctionScheduler(interval time.Duration, stocks *store.StockStore, orch *Orchestrator, logger *slog.Logger) *AuctionScheduler {
	return &AuctionScheduler{
		interval: interval,
		stocks:   stocks,
		orch:     orch,
		logger:   logger,
	}
}

// Start launches a background goroutine that ticks at the configured
// interval and triggers matches. It stops when ctx is cancelled.
func (s *AuctionScheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

// tick triggers one non-blocking pass per listed symbol.
func (s *AuctionScheduler) tick() {
	for _, symbol := range s.stocks.Symbols() {
		_, err := s.orch.TriggerMatch(symbol, false)
		if err == nil || errors.Is(err, domain.ErrMatchInProgress) {
			continue
		}
		s.logger.Error("scheduled match failed",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()),
		)
	}
}
