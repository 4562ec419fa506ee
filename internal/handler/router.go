package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mfernandes/stockmatch/internal/service"
)

// NewRouter creates a chi router with all routes registered, request
// logging, and Content-Type validation middleware.
func NewRouter(
	clientSvc *service.ClientService,
	orderSvc *service.OrderService,
	stockSvc *service.StockService,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)

	// Create handlers.
	clientH := NewClientHandler(clientSvc, orderSvc)
	orderH := NewOrderHandler(orderSvc)
	stockH := NewStockHandler(stockSvc)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Client routes.
	r.Post("/clients", clientH.Register)
	r.Get("/clients/{client_id}/portfolio", clientH.GetPortfolio)
	r.Get("/clients/{client_id}/orders", clientH.ListOrders)

	// Order routes.
	r.Post("/orders", orderH.CreateOrder)
	r.Get("/orders/{order_id}", orderH.GetOrder)
	r.Delete("/orders/{order_id}", orderH.CancelOrder)

	// Stock routes.
	r.Post("/stocks", stockH.IssueStock)
	r.Get("/stocks/{symbol}", stockH.GetStock)
	r.Post("/stocks/{symbol}/allocations", stockH.AllocateShares)
	r.Get("/stocks/{symbol}/book", stockH.GetBook)
	r.Get("/stocks/{symbol}/trades", stockH.ListTrades)
	r.Post("/stocks/{symbol}/match", stockH.TriggerMatch)

	return r
}

// requestLogging returns middleware that logs each request's method,
// path, status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON is middleware that validates Content-Type for POST,
// PUT, and PATCH requests carrying a body. If the header doesn't start
// with "application/json", it returns 400 before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			// Match triggers carry no body.
			if !strings.HasSuffix(r.URL.Path, "/match") {
				ct := r.Header.Get("Content-Type")
				if ct == "" || !strings.HasPrefix(ct, "application/json") {
					WriteError(w, http.StatusBadRequest, "invalid_request",
						"Content-Type must be application/json")
					return
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
