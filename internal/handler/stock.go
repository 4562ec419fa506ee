package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mfernandes/stockmatch/internal/domain"
	"github.com/mfernandes/stockmatch/internal/engine"
	"github.com/mfernandes/stockmatch/internal/service"
)

// decimalHundred converts cent-denominated decimals to dollars at the
// response boundary.
var decimalHundred = decimal.NewFromInt(100)

// StockHandler handles HTTP requests for stock, book, and match
// endpoints.
type StockHandler struct {
	stockSvc *service.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockSvc *service.StockService) *StockHandler {
	return &StockHandler{stockSvc: stockSvc}
}

// issueStockRequest is the JSON request body for POST /stocks.
type issueStockRequest struct {
	Symbol      string `json:"symbol"`
	TotalShares int64  `json:"total_shares"`
}

// stockResponse is the JSON representation of a stock inventory.
type stockResponse struct {
	Symbol          string `json:"symbol"`
	TotalShares     int64  `json:"total_shares"`
	AvailableShares int64  `json:"available_shares"`
	CreatedAt       string `json:"created_at"`
}

// allocateSharesRequest is the JSON request body for
// POST /stocks/{symbol}/allocations.
type allocateSharesRequest struct {
	ClientID string  `json:"client_id"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

// bookLevelResponse is a single price level in the book response.
type bookLevelResponse struct {
	Price         float64 `json:"price"`
	Quantity      int64   `json:"quantity"`
	TotalQuantity int64   `json:"total_quantity"`
	OrderCount    int     `json:"order_count"`
}

// bookResponse is the JSON response for GET /stocks/{symbol}/book.
type bookResponse struct {
	Symbol                   string              `json:"symbol"`
	EquilibriumPriceEstimate *float64            `json:"equilibrium_price_estimate"`
	BuyLevels                []bookLevelResponse `json:"buy_levels"`
	SellLevels               []bookLevelResponse `json:"sell_levels"`
	SnapshotAt               string              `json:"snapshot_at"`
}

// matchFailureResponse reports one trade that failed settlement.
type matchFailureResponse struct {
	BuyOrderID  string `json:"buy_order_id"`
	SellOrderID string `json:"sell_order_id"`
	Quantity    int64  `json:"quantity"`
	Error       string `json:"error"`
}

// matchSummaryResponse is the JSON response for POST /stocks/{symbol}/match.
type matchSummaryResponse struct {
	Symbol           string                 `json:"symbol"`
	TotalMatches     int                    `json:"total_matches"`
	SuccessCount     int                    `json:"success_count"`
	ErrorCount       int                    `json:"error_count"`
	EquilibriumPrice *float64               `json:"equilibrium_price"`
	Failures         []matchFailureResponse `json:"failures,omitempty"`
	ExecutedAt       string                 `json:"executed_at"`
}

// IssueStock handles POST /stocks.
func (h *StockHandler) IssueStock(w http.ResponseWriter, r *http.Request) {
	var req issueStockRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	stock, err := h.stockSvc.IssueStock(service.IssueStockRequest{
		Symbol:      req.Symbol,
		TotalShares: req.TotalShares,
	})
	if err != nil {
		mapStockError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, newStockResponse(stock))
}

// GetStock handles GET /stocks/{symbol}.
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	stock, err := h.stockSvc.GetStock(chi.URLParam(r, "symbol"))
	if err != nil {
		mapStockError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, newStockResponse(stock))
}

// AllocateShares handles POST /stocks/{symbol}/allocations.
func (h *StockHandler) AllocateShares(w http.ResponseWriter, r *http.Request) {
	var req allocateSharesRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	holding, err := h.stockSvc.AllocateShares(service.AllocateSharesRequest{
		ClientID: req.ClientID,
		Symbol:   chi.URLParam(r, "symbol"),
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		mapStockError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, positionResponse{
		Symbol:           holding.Symbol,
		Quantity:         holding.Quantity,
		AvgPurchasePrice: holding.AvgPurchasePrice.Div(decimalHundred).InexactFloat64(),
	})
}

// GetBook handles GET /stocks/{symbol}/book.
func (h *StockHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	// Parse depth query param (default 10, max 50).
	depth := 10
	if d := r.URL.Query().Get("depth"); d != "" {
		var err error
		depth, err = strconv.Atoi(d)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "depth must be a valid integer")
			return
		}
	}
	if depth < 1 || depth > 50 {
		WriteError(w, http.StatusBadRequest, "validation_error", "depth must be between 1 and 50")
		return
	}

	book, err := h.stockSvc.GetOrderBook(symbol, depth)
	if err != nil {
		mapStockError(w, err)
		return
	}

	resp := bookResponse{
		Symbol:     book.Symbol,
		BuyLevels:  make([]bookLevelResponse, len(book.BuyLevels)),
		SellLevels: make([]bookLevelResponse, len(book.SellLevels)),
		SnapshotAt: book.SnapshotAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	for i, l := range book.BuyLevels {
		resp.BuyLevels[i] = newBookLevelResponse(l)
	}
	for i, l := range book.SellLevels {
		resp.SellLevels[i] = newBookLevelResponse(l)
	}
	if book.EquilibriumPriceEstimate != nil {
		v := domain.CentsToDollars(*book.EquilibriumPriceEstimate)
		resp.EquilibriumPriceEstimate = &v
	}

	WriteJSON(w, http.StatusOK, resp)
}

// ListTrades handles GET /stocks/{symbol}/trades.
func (h *StockHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := h.stockSvc.ListTrades(chi.URLParam(r, "symbol"))
	if err != nil {
		mapStockError(w, err)
		return
	}

	items := make([]tradeResponse, len(trades))
	for i, t := range trades {
		items[i] = newTradeResponse(t)
	}
	WriteJSON(w, http.StatusOK, map[string]any{"trades": items})
}

// TriggerMatch handles POST /stocks/{symbol}/match. The wait query
// parameter selects blocking (default) or non-blocking semantics.
func (h *StockHandler) TriggerMatch(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	wait := true
	if v := r.URL.Query().Get("wait"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "wait must be true or false")
			return
		}
		wait = parsed
	}

	summary, err := h.stockSvc.TriggerMatch(symbol, wait)
	if err != nil {
		mapStockError(w, err)
		return
	}

	resp := matchSummaryResponse{
		Symbol:       summary.Symbol,
		TotalMatches: summary.TotalMatches,
		SuccessCount: summary.SuccessCount,
		ErrorCount:   summary.ErrorCount,
		ExecutedAt:   summary.ExecutedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if summary.EquilibriumPrice != nil {
		v := domain.CentsToDollars(*summary.EquilibriumPrice)
		resp.EquilibriumPrice = &v
	}
	for _, f := range summary.Failures {
		resp.Failures = append(resp.Failures, matchFailureResponse{
			BuyOrderID:  f.Trade.BuyOrderID,
			SellOrderID: f.Trade.SellOrderID,
			Quantity:    f.Trade.Quantity,
			Error:       f.Err.Error(),
		})
	}

	WriteJSON(w, http.StatusOK, resp)
}

func newStockResponse(s *domain.Stock) stockResponse {
	return stockResponse{
		Symbol:          s.Symbol,
		TotalShares:     s.TotalShares,
		AvailableShares: s.AvailableShares,
		CreatedAt:       s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func newBookLevelResponse(l engine.PriceLevel) bookLevelResponse {
	return bookLevelResponse{
		Price:         domain.CentsToDollars(l.Price),
		Quantity:      l.Quantity,
		TotalQuantity: l.TotalQuantity,
		OrderCount:    l.OrderCount,
	}
}

// mapStockError maps domain errors to HTTP responses for stock endpoints.
func mapStockError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrSymbolNotFound):
		WriteError(w, http.StatusNotFound, "symbol_not_found", err.Error())
	case errors.Is(err, domain.ErrSymbolAlreadyExists):
		WriteError(w, http.StatusConflict, "symbol_already_exists", err.Error())
	case errors.Is(err, domain.ErrClientNotFound):
		WriteError(w, http.StatusNotFound, "client_not_found", err.Error())
	case errors.Is(err, domain.ErrInsufficientInventory):
		WriteError(w, http.StatusConflict, "insufficient_inventory", err.Error())
	case errors.Is(err, domain.ErrMatchInProgress):
		WriteError(w, http.StatusConflict, "match_in_progress", err.Error())
	case errors.Is(err, domain.ErrInventoryInconsistency):
		WriteError(w, http.StatusInternalServerError, "inventory_inconsistency", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
