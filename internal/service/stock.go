package service

import (
	"time"

	"github.com/mfernandes/stockmatch/internal/domain"
	"github.com/mfernandes/stockmatch/internal/engine"
	"github.com/mfernandes/stockmatch/internal/store"
)

// IssueStockRequest represents the input for listing a new symbol.
type IssueStockRequest struct {
	Symbol      string
	TotalShares int64
}

// AllocateSharesRequest represents the input for a primary allocation:
// shares moving from unissued inventory into a client's holding.
type AllocateSharesRequest struct {
	ClientID string
	Symbol   string
	Quantity int64
	Price    float64 // dollars, the issue price
}

// BookResponse represents the order-book view for a symbol, with the
// equilibrium price the next pass would clear at if triggered now.
type BookResponse struct {
	Symbol                   string
	EquilibriumPriceEstimate *int64 // cents, nil when no volume would clear
	BuyLevels                []engine.PriceLevel
	SellLevels               []engine.PriceLevel
	SnapshotAt               time.Time
}

// StockService handles stock issuance, primary allocation, book views,
// trade history, and match triggering.
type StockService struct {
	stocks   *store.StockStore
	clients  *store.ClientStore
	holdings *store.HoldingStore
	trades   *store.TradeStore
	builder  *engine.BookBuilder
	orch     *engine.Orchestrator
	locks    *engine.SymbolLocks
}

// NewStockService creates a new StockService with the given dependencies.
func NewStockService(
	stocks *store.StockStore,
	clients *store.ClientStore,
	holdings *store.HoldingStore,
	trades *store.TradeStore,
	builder *engine.BookBuilder,
	orch *engine.Orchestrator,
	locks *engine.SymbolLocks,
) *StockService {
	return &StockService{
		stocks:   stocks,
		clients:  clients,
		holdings: holdings,
		trades:   trades,
		builder:  builder,
		orch:     orch,
		locks:    locks,
	}
}

// IssueStock lists a new symbol with a fixed total share count. The
// whole issue starts as available inventory.
func (s *StockService) IssueStock(req IssueStockRequest) (*domain.Stock, error) {
	if !orderSymbolRegex.MatchString(req.Symbol) {
		return nil, &domain.ValidationError{
			Message: "symbol must match ^[A-Z]{1,10}$",
		}
	}
	if req.TotalShares <= 0 {
		return nil, &domain.ValidationError{
			Message: "total_shares must be a positive integer",
		}
	}

	stock := &domain.Stock{
		Symbol:          req.Symbol,
		TotalShares:     req.TotalShares,
		AvailableShares: req.TotalShares,
		CreatedAt:       time.Now(),
	}
	if err := s.stocks.Create(stock); err != nil {
		return nil, err
	}
	return stock, nil
}

// AllocateShares performs a primary allocation: qty shares leave
// available inventory and enter the client's holding at the issue
// price. This is the only operation that changes available_shares.
// It takes the symbol's match lock so the share-conservation check in
// settlement never observes a half-applied allocation.
func (s *StockService) AllocateShares(req AllocateSharesRequest) (*domain.Holding, error) {
	if req.Quantity <= 0 {
		return nil, &domain.ValidationError{
			Message: "quantity must be a positive integer",
		}
	}
	if req.Price <= 0 {
		return nil, &domain.ValidationError{
			Message: "price must be greater than 0",
		}
	}
	priceCents, err := domain.DollarsToCents(req.Price)
	if err != nil {
		return nil, &domain.ValidationError{
			Message: "price must have at most 2 decimal places",
		}
	}
	if !s.clients.Exists(req.ClientID) {
		return nil, domain.ErrClientNotFound
	}

	stock, err := s.stocks.Get(req.Symbol)
	if err != nil {
		return nil, err
	}

	release, err := s.locks.Acquire(req.Symbol, true)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := stock.Allocate(req.Quantity); err != nil {
		return nil, err
	}
	return s.holdings.Credit(req.ClientID, req.Symbol, req.Quantity, priceCents), nil
}

// GetStock returns the symbol's inventory record.
func (s *StockService) GetStock(symbol string) (*domain.Stock, error) {
	return s.stocks.Get(symbol)
}

// GetOrderBook snapshots the symbol's book into aggregated price
// levels plus an equilibrium price estimate from a read-only run of
// the auction pricer.
func (s *StockService) GetOrderBook(symbol string, depth int) (*BookResponse, error) {
	view, err := s.builder.Build(symbol)
	if err != nil {
		return nil, err
	}

	resp := &BookResponse{
		Symbol:     symbol,
		BuyLevels:  view.BuyLevels(depth),
		SellLevels: view.SellLevels(depth),
		SnapshotAt: view.SnapshotAt,
	}
	if auction, ok := engine.Clear(view.Buys, view.Sells); ok {
		resp.EquilibriumPriceEstimate = &auction.EquilibriumPrice
	}
	return resp, nil
}

// ListTrades returns the symbol's settled trades in chronological
// order. Returns domain.ErrSymbolNotFound for unlisted symbols.
func (s *StockService) ListTrades(symbol string) ([]*domain.Trade, error) {
	if !s.stocks.Exists(symbol) {
		return nil, domain.ErrSymbolNotFound
	}
	return s.trades.GetBySymbol(symbol), nil
}

// TriggerMatch runs one matching pass for the symbol.
func (s *StockService) TriggerMatch(symbol string, wait bool) (*engine.MatchSummary, error) {
	return s.orch.TriggerMatch(symbol, wait)
}
