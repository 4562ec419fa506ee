package store

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mfernandes/stockmatch/internal/domain"
)

type holdingKey struct {
	clientID string
	symbol   string
}

// HoldingStore is a thread-safe in-memory ledger of client positions,
// keyed by (client_id, symbol). All mutation goes through Credit and
// Debit so the ledger invariants are enforced in one place rather
// than at call sites.
type HoldingStore struct {
	mu       sync.RWMutex
	holdings map[holdingKey]*domain.Holding
}

// NewHoldingStore creates an empty HoldingStore.
func NewHoldingStore() *HoldingStore {
	return &HoldingStore{
		holdings: make(map[holdingKey]*domain.Holding),
	}
}

// Get retrieves the holding for a (client, symbol) pair, or false if
// the client has never held the symbol.
func (s *HoldingStore) Get(clientID, symbol string) (*domain.Holding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.holdings[holdingKey{clientID, symbol}]
	return h, ok
}

// Credit adds qty shares bought at priceCents to the client's holding,
// creating the holding on first acquisition. The weighted average
// purchase price is recomputed on every credit.
func (s *HoldingStore) Credit(clientID, symbol string, qty, priceCents int64) *domain.Holding {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := holdingKey{clientID, symbol}
	h, ok := s.holdings[key]
	if !ok {
		h = &domain.Holding{
			ClientID:         clientID,
			Symbol:           symbol,
			AvgPurchasePrice: decimal.Zero,
		}
		s.holdings[key] = h
	}
	h.ApplyBuy(qty, priceCents)
	return h
}

// Debit removes qty sold shares from the client's holding. A holding
// debited to zero is retained with its last average purchase price.
// Returns domain.ErrInsufficientHolding if the client holds fewer
// than qty shares (including no holding at all).
func (s *HoldingStore) Debit(clientID, symbol string, qty int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.holdings[holdingKey{clientID, symbol}]
	if !ok {
		return domain.ErrInsufficientHolding
	}
	return h.ApplySell(qty)
}

// ListByClient returns all of a client's holdings sorted by symbol,
// including sold-out positions with quantity 0.
func (s *HoldingStore) ListByClient(clientID string) []*domain.Holding {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*domain.Holding, 0)
	for key, h := range s.holdings {
		if key.clientID == clientID {
			list = append(list, h)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Symbol < list[j].Symbol
	})
	return list
}

// TotalBySymbol returns the sum of all holding quantities for a
// symbol. Settlement uses this to verify the inventory invariant
// total_shares - available_shares == Σ holdings.
func (s *HoldingStore) TotalBySymbol(symbol string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for key, h := range s.holdings {
		if key.symbol == symbol {
			total += h.Quantity
		}
	}
	return total
}
