package service

import (
	"regexp"
	"time"

	"github.com/mfernandes/stockmatch/internal/domain"
	"github.com/mfernandes/stockmatch/internal/store"
)

var clientIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// RegisterClientRequest represents the input for client registration.
type RegisterClientRequest struct {
	ClientID string
	Name     string
}

// PortfolioPosition is one holding in a client's portfolio view.
type PortfolioPosition struct {
	Symbol           string
	Quantity         int64
	AvgPurchasePrice float64 // dollars
}

// Portfolio represents a client's full position list.
type Portfolio struct {
	ClientID  string
	Positions []PortfolioPosition
}

// ClientService handles client registration and portfolio queries.
type ClientService struct {
	clients  *store.ClientStore
	holdings *store.HoldingStore
}

// NewClientService creates a new ClientService.
func NewClientService(clients *store.ClientStore, holdings *store.HoldingStore) *ClientService {
	return &ClientService{clients: clients, holdings: holdings}
}

// Register validates the request and creates the client.
func (s *ClientService) Register(req RegisterClientRequest) (*domain.Client, error) {
	if !clientIDRegex.MatchString(req.ClientID) {
		return nil, &domain.ValidationError{
			Message: "client_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}
	if req.Name == "" || len(req.Name) > 128 {
		return nil, &domain.ValidationError{
			Message: "name must be between 1 and 128 characters",
		}
	}

	client := &domain.Client{
		ClientID:  req.ClientID,
		Name:      req.Name,
		CreatedAt: time.Now(),
	}
	if err := s.clients.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetPortfolio returns the client's holdings, including sold-out
// positions whose quantity is 0.
func (s *ClientService) GetPortfolio(clientID string) (*Portfolio, error) {
	if !s.clients.Exists(clientID) {
		return nil, domain.ErrClientNotFound
	}

	holdings := s.holdings.ListByClient(clientID)
	portfolio := &Portfolio{
		ClientID:  clientID,
		Positions: make([]PortfolioPosition, len(holdings)),
	}
	for i, h := range holdings {
		portfolio.Positions[i] = PortfolioPosition{
			Symbol:           h.Symbol,
			Quantity:         h.Quantity,
			AvgPurchasePrice: h.AvgPurchasePrice.Div(centsPerDollar).InexactFloat64(),
		}
	}
	return portfolio, nil
}
