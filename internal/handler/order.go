package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mfernandes/stockmatch/internal/domain"
	"github.com/mfernandes/stockmatch/internal/service"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	orderSvc *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// createOrderRequest is the JSON request body for POST /orders.
type createOrderRequest struct {
	ClientID string  `json:"client_id"`
	Symbol   string  `json:"symbol"`
	Side     string  `json:"side"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

// tradeResponse is one trade attached to an order response.
type tradeResponse struct {
	TradeID     string  `json:"trade_id"`
	BuyOrderID  string  `json:"buy_order_id"`
	SellOrderID string  `json:"sell_order_id"`
	Symbol      string  `json:"symbol"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
	ExecutedAt  string  `json:"executed_at"`
}

// orderResponse is the JSON representation of an order. Nullable
// fields use pointers and are always present.
type orderResponse struct {
	OrderID           string          `json:"order_id"`
	ClientID          string          `json:"client_id"`
	Symbol            string          `json:"symbol"`
	Side              string          `json:"side"`
	Quantity          int64           `json:"quantity"`
	FilledQuantity    int64           `json:"filled_quantity"`
	RemainingQuantity int64           `json:"remaining_quantity"`
	LimitPrice        float64         `json:"limit_price"`
	Status            string          `json:"status"`
	CreatedAt         string          `json:"created_at"`
	ExecutedAt        *string         `json:"executed_at"`
	CancelledAt       *string         `json:"cancelled_at"`
	Trades            []tradeResponse `json:"trades,omitempty"`
}

// newOrderResponse builds the JSON representation of an order; trades
// may be nil when the caller doesn't include them.
func newOrderResponse(o *domain.Order, trades []*domain.Trade) orderResponse {
	resp := orderResponse{
		OrderID:           o.OrderID,
		ClientID:          o.ClientID,
		Symbol:            o.Symbol,
		Side:              string(o.Side),
		Quantity:          o.Quantity,
		FilledQuantity:    o.FilledQuantity,
		RemainingQuantity: o.RemainingQuantity(),
		LimitPrice:        domain.CentsToDollars(o.LimitPrice),
		Status:            string(o.Status),
		CreatedAt:         o.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if o.ExecutedAt != nil {
		s := o.ExecutedAt.UTC().Format("2006-01-02T15:04:05Z")
		resp.ExecutedAt = &s
	}
	if o.CancelledAt != nil {
		s := o.CancelledAt.UTC().Format("2006-01-02T15:04:05Z")
		resp.CancelledAt = &s
	}
	for _, t := range trades {
		resp.Trades = append(resp.Trades, newTradeResponse(t))
	}
	return resp
}

func newTradeResponse(t *domain.Trade) tradeResponse {
	return tradeResponse{
		TradeID:     t.TradeID,
		BuyOrderID:  t.BuyOrderID,
		SellOrderID: t.SellOrderID,
		Symbol:      t.Symbol,
		Quantity:    t.Quantity,
		Price:       domain.CentsToDollars(t.Price),
		ExecutedAt:  t.ExecutedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// CreateOrder handles POST /orders.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := h.orderSvc.CreateOrder(service.CreateOrderRequest{
		ClientID: req.ClientID,
		Symbol:   req.Symbol,
		Side:     domain.OrderSide(req.Side),
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		mapOrderError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, newOrderResponse(order, nil))
}

// GetOrder handles GET /orders/{order_id}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	order, trades, err := h.orderSvc.GetOrder(orderID)
	if err != nil {
		mapOrderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, newOrderResponse(order, trades))
}

// CancelOrder handles DELETE /orders/{order_id}.
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	order, err := h.orderSvc.CancelOrder(orderID)
	if err != nil {
		mapOrderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, newOrderResponse(order, nil))
}

// parsePagination reads the 1-based page and limit query parameters,
// applying the defaults page=1 and limit=20.
func parsePagination(r *http.Request) (page, limit int, err error) {
	page, limit = 1, 20
	if p := r.URL.Query().Get("page"); p != "" {
		page, err = strconv.Atoi(p)
		if err != nil {
			return 0, 0, fmt.Errorf("page must be a valid integer")
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err = strconv.Atoi(l)
		if err != nil {
			return 0, 0, fmt.Errorf("limit must be a valid integer")
		}
	}
	return page, limit, nil
}

// mapOrderError maps domain errors to HTTP responses for order endpoints.
func mapOrderError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, domain.ErrClientNotFound):
		WriteError(w, http.StatusNotFound, "client_not_found", err.Error())
	case errors.Is(err, domain.ErrSymbolNotFound):
		WriteError(w, http.StatusNotFound, "symbol_not_found", err.Error())
	case errors.Is(err, domain.ErrOrderNotCancellable):
		WriteError(w, http.StatusConflict, "order_not_cancellable", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
