package service

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfernandes/stockmatch/internal/domain"
	"github.com/mfernandes/stockmatch/internal/engine"
	"github.com/mfernandes/stockmatch/internal/store"
)

var orderSymbolRegex = regexp.MustCompile(`^[A-Z]{1,10}$`)

// centsPerDollar converts cent-denominated decimals at the service
// boundary.
var centsPerDollar = decimal.NewFromInt(100)

// ValidOrderStatuses lists all valid order status values for filtering.
var ValidOrderStatuses = map[domain.OrderStatus]bool{
	domain.OrderStatusPending:           true,
	domain.OrderStatusPartiallyExecuted: true,
	domain.OrderStatusExecuted:          true,
	domain.OrderStatusCancelled:         true,
}

// CreateOrderRequest represents the input for order submission.
type CreateOrderRequest struct {
	ClientID string
	Symbol   string
	Side     domain.OrderSide
	Quantity int64
	Price    float64 // dollars
}

// OrderService handles order submission, retrieval, cancellation, and
// listing. Submission only persists a pending order; execution happens
// in a later matching pass, never inline.
type OrderService struct {
	orch    *engine.Orchestrator
	clients *store.ClientStore
	stocks  *store.StockStore
	orders  *store.OrderStore
	trades  *store.TradeStore
}

// NewOrderService creates a new OrderService with the given dependencies.
func NewOrderService(
	orch *engine.Orchestrator,
	clients *store.ClientStore,
	stocks *store.StockStore,
	orders *store.OrderStore,
	trades *store.TradeStore,
) *OrderService {
	return &OrderService{
		orch:    orch,
		clients: clients,
		stocks:  stocks,
		orders:  orders,
		trades:  trades,
	}
}

// CreateOrder validates the request and persists a pending limit order.
// The order joins the next matching pass for its symbol; an order
// created while a pass is running is simply not in that pass's
// snapshot.
func (s *OrderService) CreateOrder(req CreateOrderRequest) (*domain.Order, error) {
	if !clientIDRegex.MatchString(req.ClientID) {
		return nil, &domain.ValidationError{
			Message: "client_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}
	if req.Side != domain.OrderSideBuy && req.Side != domain.OrderSideSell {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("Unknown side: %s. Must be one of: buy, sell", req.Side),
		}
	}
	if !orderSymbolRegex.MatchString(req.Symbol) {
		return nil, &domain.ValidationError{
			Message: "symbol must match ^[A-Z]{1,10}$",
		}
	}
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
	if !s.stocks.Exists(req.Symbol) {
		return nil, domain.ErrSymbolNotFound
	}

	order := &domain.Order{
		OrderID:    uuid.New().String(),
		ClientID:   req.ClientID,
		Symbol:     req.Symbol,
		Side:       req.Side,
		Quantity:   req.Quantity,
		LimitPrice: priceCents,
		Status:     domain.OrderStatusPending,
		CreatedAt:  time.Now(),
	}
	s.orders.Create(order)
	return order, nil
}

// GetOrder retrieves an order by ID together with its trades.
func (s *OrderService) GetOrder(orderID string) (*domain.Order, []*domain.Trade, error) {
	order, err := s.orders.Get(orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, s.trades.GetByOrder(order.Symbol, order.OrderID), nil
}

// CancelOrder cancels a pending or partially executed order.
func (s *OrderService) CancelOrder(orderID string) (*domain.Order, error) {
	return s.orch.CancelOrder(orderID)
}

// ListOrders returns a paginated list of a client's orders with
// optional status filtering.
func (s *OrderService) ListOrders(clientID string, status *domain.OrderStatus, page, limit int) ([]*domain.Order, int, error) {
	if !s.clients.Exists(clientID) {
		return nil, 0, domain.ErrClientNotFound
	}

	if status != nil && !ValidOrderStatuses[*status] {
		return nil, 0, &domain.ValidationError{
			Message: fmt.Sprintf("Invalid status filter: '%s'. Must be one of: pending, partially_executed, executed, cancelled", *status),
		}
	}

	if page < 1 {
		return nil, 0, &domain.ValidationError{
			Message: "page must be >= 1",
		}
	}
	if limit < 1 || limit > 100 {
		return nil, 0, &domain.ValidationError{
			Message: "limit must be between 1 and 100",
		}
	}

	orders, total := s.orders.ListByClient(clientID, status, page, limit)
	return orders, total, nil
}
