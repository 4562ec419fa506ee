package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrClientAlreadyExists    = errors.New("client_already_exists")
	ErrClientNotFound         = errors.New("client_not_found")
	ErrSymbolAlreadyExists    = errors.New("symbol_already_exists")
	ErrSymbolNotFound         = errors.New("symbol_not_found")
	ErrOrderNotFound          = errors.New("order_not_found")
	ErrOrderNotCancellable    = errors.New("order_not_cancellable")
	ErrInsufficientHolding    = errors.New("insufficient_holding")
	ErrInsufficientInventory  = errors.New("insufficient_inventory")
	ErrInventoryInconsistency = errors.New("inventory_inconsistency")
	ErrMatchInProgress        = errors.New("match_in_progress")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
