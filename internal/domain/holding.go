package domain

import "github.com/shopspring/decimal"

// Holding represents a client's position in a single stock symbol.
// AvgPurchasePrice is the weighted average cost in cents; it is
// meaningful only while Quantity > 0 and is left untouched by sells,
// so a sold-out holding keeps its last cost basis for reference.
type Holding struct {
	ClientID         string
	Symbol           string
	Quantity         int64
	AvgPurchasePrice decimal.Decimal // cents
}

// ApplyBuy adds qty shares bought at priceCents and recomputes the
// weighted average purchase price:
//
//	newAvg = (oldQty*oldAvg + qty*price) / (oldQty + qty)
func (h *Holding) ApplyBuy(qty, priceCents int64) {
	oldCost := h.AvgPurchasePrice.Mul(decimal.NewFromInt(h.Quantity))
	addedCost := decimal.NewFromInt(priceCents).Mul(decimal.NewFromInt(qty))
	newQty := h.Quantity + qty
	h.AvgPurchasePrice = oldCost.Add(addedCost).Div(decimal.NewFromInt(newQty))
	h.Quantity = newQty
}

// ApplySell removes qty sold shares. The average purchase price is
// unchanged. Returns ErrInsufficientHolding if the holding would go
// negative.
func (h *Holding) ApplySell(qty int64) error {
	if qty > h.Quantity {
		return ErrInsufficientHolding
	}
	h.Quantity -= qty
	return nil
}
