package engine

import (
	"log/slog"
	"time"

	"github.com/mfernandes/stockmatch/internal/domain"
	"github.com/mfernandes/stockmatch/internal/store"
)

// MatchSummary reports the outcome of one matching pass.
type MatchSummary struct {
	Symbol           string
	TotalMatches     int
	SuccessCount     int
	ErrorCount       int
	EquilibriumPrice *int64 // nil when the pass cleared no volume
	Failures         []TradeError
	ExecutedAt       time.Time
}

// Orchestrator serializes matching passes per symbol and drives the
// read-compute-settle pipeline: snapshot the book, run the auction,
// settle trade by trade, report counts.
type Orchestrator struct {
	locks   *SymbolLocks
	builder *BookBuilder
	settler *Settler
	stocks  *store.StockStore
	orders  *store.OrderStore
	logger  *slog.Logger
}

// NewOrchestrator creates an Orchestrator with the given dependencies.
func NewOrchestrator(
	locks *SymbolLocks,
	builder *BookBuilder,
	settler *Settler,
	stocks *store.StockStore,
	orders *store.OrderStore,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		locks:   locks,
		builder: builder,
		settler: settler,
		stocks:  stocks,
		orders:  orders,
		logger:  logger,
	}
}

// TriggerMatch runs one matching pass for the symbol. The symbol's
// exclusive lock is held for the whole pass; when wait is false a
// concurrent pass on the same symbol makes this call return
// domain.ErrMatchInProgress instead of blocking. Orders submitted
// after the book snapshot are picked up by the next trigger.
//
// A pass with settlement failures still returns a summary; only
// symbol lookup, lock contention, and inventory inconsistency surface
// as errors.
func (o *Orchestrator) TriggerMatch(symbol string, wait bool) (*MatchSummary, error) {
	if !o.stocks.Exists(symbol) {
		return nil, domain.ErrSymbolNotFound
	}

	release, err := o.locks.Acquire(symbol, wait)
	if err != nil {
		return nil, err
	}
	defer release()

	summary := &MatchSummary{Symbol: symbol, ExecutedAt: time.Now()}

	view, err := o.builder.Build(symbol)
	if err != nil {
		return nil, err
	}

	auction, ok := Clear(view.Buys, view.Sells)
	if !ok {
		o.logger.Debug("match pass cleared no volume", slog.String("symbol", symbol))
		return summary, nil
	}

	summary.EquilibriumPrice = &auction.EquilibriumPrice
	summary.TotalMatches = len(auction.Trades)

	settled, err := o.settler.Apply(symbol, auction.EquilibriumPrice, auction.Trades)
	summary.SuccessCount = len(settled.Settled)
	summary.ErrorCount = len(settled.Failed)
	summary.Failures = settled.Failed
	if err != nil {
		// Inventory inconsistency is a broken invariant, not a business
		// outcome. Log loudly and fail the pass; settled trades stay.
		o.logger.Error("match pass aborted",
			slog.String("symbol", symbol),
			slog.Int64("equilibrium_price", auction.EquilibriumPrice),
			slog.Int("settled", summary.SuccessCount),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	o.logger.Info("match pass complete",
		slog.String("symbol", symbol),
		slog.Int64("equilibrium_price", auction.EquilibriumPrice),
		slog.Int("matches", summary.TotalMatches),
		slog.Int("successes", summary.SuccessCount),
		slog.Int("errors", summary.ErrorCount),
	)
	return summary, nil
}

// CancelOrder cancels a pending or partially executed order under the
// symbol's match lock, so cancellation never interleaves with a pass.
// Already-filled quantity and past trades are untouched; only the
// remaining quantity leaves future passes.
//
// Returns domain.ErrOrderNotFound if the order does not exist and
// domain.ErrOrderNotCancellable if it is already executed or cancelled.
func (o *Orchestrator) CancelOrder(orderID string) (*domain.Order, error) {
	order, err := o.orders.Get(orderID)
	if err != nil {
		return nil, err
	}

	if !order.Resting() {
		return nil, domain.ErrOrderNotCancellable
	}

	release, err := o.locks.Acquire(order.Symbol, true)
	if err != nil {
		return nil, err
	}
	defer release()

	// Re-check under the lock: a pass may have executed it meanwhile.
	if !order.Resting() {
		return nil, domain.ErrOrderNotCancellable
	}

	now := time.Now()
	order.Status = domain.OrderStatusCancelled
	order.CancelledAt = &now
	return order, nil
}
