package store

import (
	"sync"

	"github.com/mfernandes/stockmatch/internal/domain"
)

// ClientStore is a thread-safe in-memory store for clients,
// keyed by client_id.
type ClientStore struct {
	mu      sync.RWMutex
	clients map[string]*domain.Client
}

// NewClientStore creates an empty ClientStore.
func NewClientStore() *ClientStore {
	return &ClientStore{
		clients: make(map[string]*domain.Client),
	}
}

// Create adds a client to the store. It returns
// domain.ErrClientAlreadyExists if the ID is taken.
func (s *ClientStore) Create(c *domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.clients[c.ClientID]; exists {
		return domain.ErrClientAlreadyExists
	}
	s.clients[c.ClientID] = c
	return nil
}

// Get retrieves a client by ID. It returns
// domain.ErrClientNotFound if the client does not exist.
func (s *ClientStore) Get(id string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	return c, nil
}

// Exists returns true if a client with the given ID exists.
func (s *ClientStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.clients[id]
	return ok
}
