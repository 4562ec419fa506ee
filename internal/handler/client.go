package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mfernandes/stockmatch/internal/domain"
	"github.com/mfernandes/stockmatch/internal/service"
)

// ClientHandler handles HTTP requests for client endpoints.
type ClientHandler struct {
	clientSvc *service.ClientService
	orderSvc  *service.OrderService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientSvc *service.ClientService, orderSvc *service.OrderService) *ClientHandler {
	return &ClientHandler{clientSvc: clientSvc, orderSvc: orderSvc}
}

// registerClientRequest is the JSON request body for POST /clients.
type registerClientRequest struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
}

// clientResponse is the JSON response for a registered client.
type clientResponse struct {
	ClientID  string `json:"client_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// positionResponse is one holding in the portfolio response.
type positionResponse struct {
	Symbol           string  `json:"symbol"`
	Quantity         int64   `json:"quantity"`
	AvgPurchasePrice float64 `json:"average_purchase_price"`
}

// portfolioResponse is the JSON response for GET /clients/{client_id}/portfolio.
type portfolioResponse struct {
	ClientID  string             `json:"client_id"`
	Positions []positionResponse `json:"positions"`
}

// Register handles POST /clients.
func (h *ClientHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerClientRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	client, err := h.clientSvc.Register(service.RegisterClientRequest{
		ClientID: req.ClientID,
		Name:     req.Name,
	})
	if err != nil {
		mapClientError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, clientResponse{
		ClientID:  client.ClientID,
		Name:      client.Name,
		CreatedAt: client.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// GetPortfolio handles GET /clients/{client_id}/portfolio.
func (h *ClientHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "client_id")

	portfolio, err := h.clientSvc.GetPortfolio(clientID)
	if err != nil {
		mapClientError(w, err)
		return
	}

	positions := make([]positionResponse, len(portfolio.Positions))
	for i, p := range portfolio.Positions {
		positions[i] = positionResponse{
			Symbol:           p.Symbol,
			Quantity:         p.Quantity,
			AvgPurchasePrice: p.AvgPurchasePrice,
		}
	}
	WriteJSON(w, http.StatusOK, portfolioResponse{
		ClientID:  portfolio.ClientID,
		Positions: positions,
	})
}

// ListOrders handles GET /clients/{client_id}/orders.
func (h *ClientHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "client_id")

	var status *domain.OrderStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.OrderStatus(s)
		status = &st
	}

	page, limit, err := parsePagination(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	orders, total, err := h.orderSvc.ListOrders(clientID, status, page, limit)
	if err != nil {
		mapClientError(w, err)
		return
	}

	items := make([]orderResponse, len(orders))
	for i, o := range orders {
		items[i] = newOrderResponse(o, nil)
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"orders": items,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// mapClientError maps domain errors to HTTP responses for client endpoints.
func mapClientError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrClientAlreadyExists):
		WriteError(w, http.StatusConflict, "client_already_exists", err.Error())
	case errors.Is(err, domain.ErrClientNotFound):
		WriteError(w, http.StatusNotFound, "client_not_found", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
