package engine

import (
	"time"

	"github.com/google/btree"

	"github.com/mfernandes/stockmatch/internal/domain"
	"github.com/mfernandes/stockmatch/internal/store"
)

// BookEntry represents one resting order in a matching-pass snapshot.
// Remaining is captured at snapshot time so the pure auction code
// never reads mutable order state.
type BookEntry struct {
	Price     int64
	CreatedAt time.Time
	OrderID   string
	Remaining int64
	Order     *domain.Order
}

// PriceLevel is an aggregated price level of one book side.
// TotalQuantity is the running cumulative quantity from the best
// price down to and including this level.
type PriceLevel struct {
	Price         int64
	Quantity      int64
	TotalQuantity int64
	OrderCount    int
}

// buyLess orders the buy side: price descending, then created_at
// ascending, then order_id ascending. Ascend() therefore walks buys
// in price-time priority.
func buyLess(a, b BookEntry) bool {
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.OrderID < b.OrderID
}

// sellLess orders the sell side: price ascending, then created_at
// ascending, then order_id ascending.
func sellLess(a, b BookEntry) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.OrderID < b.OrderID
}

// OrderBookView is an immutable snapshot of one symbol's resting
// orders, both sides sorted in price-time priority.
type OrderBookView struct {
	Symbol     string
	Buys       []BookEntry // price desc, time asc
	Sells      []BookEntry // price asc, time asc
	SnapshotAt time.Time
}

// BookBuilder assembles matching-pass snapshots from the order store.
// Building is a pure read with no side effects.
type BookBuilder struct {
	orders *store.OrderStore
	stocks *store.StockStore
}

// NewBookBuilder creates a BookBuilder over the given stores.
func NewBookBuilder(orders *store.OrderStore, stocks *store.StockStore) *BookBuilder {
	return &BookBuilder{orders: orders, stocks: stocks}
}

// Build snapshots the symbol's resting orders into a sorted
// OrderBookView. Returns domain.ErrSymbolNotFound if the symbol has
// no registered stock inventory.
func (b *BookBuilder) Build(symbol string) (*OrderBookView, error) {
	if !b.stocks.Exists(symbol) {
		return nil, domain.ErrSymbolNotFound
	}

	const degree = 32
	buys := btree.NewG[BookEntry](degree, buyLess)
	sells := btree.NewG[BookEntry](degree, sellLess)

	for _, o := range b.orders.FindResting(symbol) {
		entry := BookEntry{
			Price:     o.LimitPrice,
			CreatedAt: o.CreatedAt,
			OrderID:   o.OrderID,
			Remaining: o.RemainingQuantity(),
			Order:     o,
		}
		if o.Side == domain.OrderSideBuy {
			buys.ReplaceOrInsert(entry)
		} else {
			sells.ReplaceOrInsert(entry)
		}
	}

	view := &OrderBookView{
		Symbol:     symbol,
		Buys:       make([]BookEntry, 0, buys.Len()),
		Sells:      make([]BookEntry, 0, sells.Len()),
		SnapshotAt: time.Now(),
	}
	buys.Ascend(func(e BookEntry) bool {
		view.Buys = append(view.Buys, e)
		return true
	})
	sells.Ascend(func(e BookEntry) bool {
		view.Sells = append(view.Sells, e)
		return true
	})
	return view, nil
}

// BuyLevels aggregates the buy side into at most n price levels with
// cumulative totals, best price first.
func (v *OrderBookView) BuyLevels(n int) []PriceLevel {
	return aggregateLevels(v.Buys, n)
}

// SellLevels aggregates the sell side into at most n price levels with
// cumulative totals, best price first.
func (v *OrderBookView) SellLevels(n int) []PriceLevel {
	return aggregateLevels(v.Sells, n)
}

// aggregateLevels folds sorted entries into at most n price levels and
// accumulates the running total quantity.
func aggregateLevels(entries []BookEntry, n int) []PriceLevel {
	if n <= 0 {
		return nil
	}
	levels := make([]PriceLevel, 0, n)
	var cumulative int64
	for _, e := range entries {
		cumulative += e.Remaining
		if len(levels) > 0 && levels[len(levels)-1].Price == e.Price {
			levels[len(levels)-1].Quantity += e.Remaining
			levels[len(levels)-1].TotalQuantity = cumulative
			levels[len(levels)-1].OrderCount++
			continue
		}
		if len(levels) >= n {
			break
		}
		levels = append(levels, PriceLevel{
			Price:         e.Price,
			Quantity:      e.Remaining,
			TotalQuantity: cumulative,
			OrderCount:    1,
		})
	}
	return levels
}
