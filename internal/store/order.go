package store

import (
	"sync"

	"github.com/mfernandes/stockmatch/internal/domain"
)

// OrderStore is a thread-safe in-memory store for orders, with a
// primary index by order_id and secondary indexes by client_id and
// symbol. Order records are shared pointers; mutation of a stored
// order happens under the engine's per-symbol lock, not the store lock.
type OrderStore struct {
	mu           sync.RWMutex
	orders       map[string]*domain.Order
	clientOrders map[string][]*domain.Order // client_id → orders (append-only)
	symbolOrders map[string][]*domain.Order // symbol → orders (append-only)
}

// NewOrderStore creates an empty OrderStore.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders:       make(map[string]*domain.Order),
		clientOrders: make(map[string][]*domain.Order),
		symbolOrders: make(map[string][]*domain.Order),
	}
}

// Create adds an order to the store and to both secondary indexes.
func (s *OrderStore) Create(o *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[o.OrderID] = o
	s.clientOrders[o.ClientID] = append(s.clientOrders[o.ClientID], o)
	s.symbolOrders[o.Symbol] = append(s.symbolOrders[o.Symbol], o)
}

// Get retrieves an order by ID. It returns domain.ErrOrderNotFound if
// the order does not exist.
func (s *OrderStore) Get(id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

// FindResting returns the symbol's orders that are still eligible for
// matching (pending or partially executed with remaining quantity),
// in submission order.
func (s *OrderStore) FindResting(symbol string) []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resting := make([]*domain.Order, 0)
	for _, o := range s.symbolOrders[symbol] {
		if o.Resting() && o.RemainingQuantity() > 0 {
			resting = append(resting, o)
		}
	}
	return resting
}

// ListByClient returns orders for a client in reverse chronological
// order (newest first). If status is non-nil, only orders matching
// that status are included. Pagination is 1-based. Returns the page
// of matching orders and the total match count before pagination.
func (s *OrderStore) ListByClient(clientID string, status *domain.OrderStatus, page, limit int) ([]*domain.Order, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.clientOrders[clientID]

	filtered := make([]*domain.Order, 0)
	for i := len(all) - 1; i >= 0; i-- {
		if status != nil && all[i].Status != *status {
			continue
		}
		filtered = append(filtered, all[i])
	}

	total := len(filtered)

	start := (page - 1) * limit
	if start >= total {
		return []*domain.Order{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return filtered[start:end], total
}
