package store

import (
	"sort"
	"sync"

	"github.com/mfernandes/stockmatch/internal/domain"
)

// StockStore is a thread-safe in-memory store for stock inventories,
// keyed by symbol.
type StockStore struct {
	mu     sync.RWMutex
	stocks map[string]*domain.Stock
}

// NewStockStore creates an empty StockStore.
func NewStockStore() *StockStore {
	return &StockStore{
		stocks: make(map[string]*domain.Stock),
	}
}

// Create adds a stock to the store. It returns
// domain.ErrSymbolAlreadyExists if the symbol is already listed.
func (s *StockStore) Create(st *domain.Stock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.stocks[st.Symbol]; exists {
		return domain.ErrSymbolAlreadyExists
	}
	s.stocks[st.Symbol] = st
	return nil
}

// Get retrieves a stock by symbol. It returns
// domain.ErrSymbolNotFound if the symbol is not listed.
func (s *StockStore) Get(symbol string) (*domain.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stocks[symbol]
	if !ok {
		return nil, domain.ErrSymbolNotFound
	}
	return st, nil
}

// Exists returns true if the symbol is listed.
func (s *StockStore) Exists(symbol string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.stocks[symbol]
	return ok
}

// Symbols returns all listed symbols in lexical order. Used by the
// auction scheduler to iterate registered stocks.
func (s *StockStore) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	symbols := make([]string, 0, len(s.stocks))
	for sym := range s.stocks {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}
