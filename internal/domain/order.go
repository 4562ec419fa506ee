package domain

import "time"

// OrderSide indicates whether an order buys or sells shares.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "pending"
	OrderStatusPartiallyExecuted OrderStatus = "partially_executed"
	OrderStatusExecuted          OrderStatus = "executed"
	OrderStatusCancelled         OrderStatus = "cancelled"
)

// Order represents a limit buy or sell instruction submitted by a client.
// Orders are created pending with zero filled quantity and only change
// through ApplyFill and cancellation.
type Order struct {
	OrderID        string
	ClientID       string
	Symbol         string
	Side           OrderSide
	Quantity       int64
	FilledQuantity int64
	LimitPrice     int64 // cents
	Status         OrderStatus
	CreatedAt      time.Time
	ExecutedAt     *time.Time // set when the order becomes fully executed
	CancelledAt    *time.Time
}

// RemainingQuantity returns the unfilled portion of the order.
func (o *Order) RemainingQuantity() int64 {
	return o.Quantity - o.FilledQuantity
}

// Resting reports whether the order is still eligible for a future
// matching pass.
func (o *Order) Resting() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusPartiallyExecuted
}

// ApplyFill records qty executed shares against the order and advances
// its status: executed when fully filled, partially_executed otherwise.
// Returns ErrInventoryInconsistency if the fill would exceed the order's
// remaining quantity or the order is not resting, since the matching
// engine must never produce such a fill.
func (o *Order) ApplyFill(qty int64, at time.Time) error {
	if !o.Resting() || qty <= 0 || qty > o.RemainingQuantity() {
		return ErrInventoryInconsistency
	}
	o.FilledQuantity += qty
	if o.FilledQuantity == o.Quantity {
		o.Status = OrderStatusExecuted
		t := at
		o.ExecutedAt = &t
	} else {
		o.Status = OrderStatusPartiallyExecuted
	}
	return nil
}
