package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/mfernandes/stockmatch/internal/domain"
	"github.com/mfernandes/stockmatch/internal/store"
)

// TradeError records a proposed trade whose settlement failed, with
// the error that stopped it.
type TradeError struct {
	Trade ProposedTrade
	Err   error
}

// SettlementResult reports the per-trade outcome of one pass. A pass
// with failures is still a successful pass: settled trades stay
// committed and failures are reported, never rolled back.
type SettlementResult struct {
	Settled []*domain.Trade
	Failed  []TradeError
}

// Settler applies auction allocations to orders, holdings, and trade
// history. Secondary trading only moves ownership between holdings;
// stock inventory's available share count is untouched.
type Settler struct {
	orders   *store.OrderStore
	stocks   *store.StockStore
	holdings *store.HoldingStore
	trades   *store.TradeStore
}

// NewSettler creates a Settler over the given stores.
func NewSettler(orders *store.OrderStore, stocks *store.StockStore, holdings *store.HoldingStore, trades *store.TradeStore) *Settler {
	return &Settler{orders: orders, stocks: stocks, holdings: holdings, trades: trades}
}

// Apply settles each proposed trade as an all-or-nothing unit at the
// given equilibrium price. A failed trade is recorded and skipped;
// later trades still settle. The caller must hold the symbol's match
// lock for the whole pass.
//
// Returns domain.ErrInventoryInconsistency, aborting the rest of the
// pass, when an allocation contradicts order state or when the
// symbol's share-conservation invariant breaks after a trade. Both
// indicate a bug rather than a business condition, so already-settled
// trades remain committed for investigation.
func (s *Settler) Apply(symbol string, price int64, proposed []ProposedTrade) (SettlementResult, error) {
	result := SettlementResult{}

	stock, err := s.stocks.Get(symbol)
	if err != nil {
		return result, err
	}

	for _, pt := range proposed {
		trade, err := s.applyOne(symbol, price, pt)
		if err != nil {
			if err == domain.ErrInventoryInconsistency {
				return result, err
			}
			result.Failed = append(result.Failed, TradeError{Trade: pt, Err: err})
			continue
		}
		result.Settled = append(result.Settled, trade)

		// Share conservation: every share is either unallocated
		// inventory or someone's holding.
		held := s.holdings.TotalBySymbol(symbol)
		if stock.TotalShares-stock.AvailableShares != held {
			return result, domain.ErrInventoryInconsistency
		}
	}
	return result, nil
}

// applyOne settles a single trade. All fallible checks run before any
// mutation so a failed trade leaves no partial state behind.
func (s *Settler) applyOne(symbol string, price int64, pt ProposedTrade) (*domain.Trade, error) {
	buy, err := s.orders.Get(pt.BuyOrderID)
	if err != nil {
		return nil, err
	}
	sell, err := s.orders.Get(pt.SellOrderID)
	if err != nil {
		return nil, err
	}

	// The allocation came from a snapshot taken under the same symbol
	// lock; a fill that no longer fits means the snapshot and the
	// stores disagree.
	if !buy.Resting() || pt.Quantity > buy.RemainingQuantity() {
		return nil, domain.ErrInventoryInconsistency
	}
	if !sell.Resting() || pt.Quantity > sell.RemainingQuantity() {
		return nil, domain.ErrInventoryInconsistency
	}

	seller, ok := s.holdings.Get(sell.ClientID, symbol)
	if !ok || seller.Quantity < pt.Quantity {
		return nil, domain.ErrInsufficientHolding
	}

	// Past this point nothing can fail.
	executedAt := time.Now()
	if err := s.holdings.Debit(sell.ClientID, symbol, pt.Quantity); err != nil {
		return nil, err
	}
	s.holdings.Credit(buy.ClientID, symbol, pt.Quantity, price)
	if err := buy.ApplyFill(pt.Quantity, executedAt); err != nil {
		return nil, err
	}
	if err := sell.ApplyFill(pt.Quantity, executedAt); err != nil {
		return nil, err
	}

	trade := &domain.Trade{
		TradeID:     uuid.New().String(),
		BuyOrderID:  buy.OrderID,
		SellOrderID: sell.OrderID,
		Symbol:      symbol,
		Quantity:    pt.Quantity,
		Price:       price,
		ExecutedAt:  executedAt,
	}
	s.trades.Append(trade)
	return trade, nil
}
