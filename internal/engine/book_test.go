package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mfernandes/stockmatch/internal/domain"
	"github.com/mfernandes/stockmatch/internal/store"
)

// newTestStores creates fresh stores with the symbol XYZ listed.
func newTestStores(t *testing.T) (*store.OrderStore, *store.StockStore, *store.HoldingStore, *store.TradeStore) {
	t.Helper()
	orders := store.NewOrderStore()
	stocks := store.NewStockStore()
	holdings := store.NewHoldingStore()
	trades := store.NewTradeStore()
	if err := stocks.Create(&domain.Stock{
		Symbol:          "XYZ",
		TotalShares:     100000,
		AvailableShares: 100000,
		CreatedAt:       time.Now(),
	}); err != nil {
		t.Fatalf("create stock: %v", err)
	}
	return orders, stocks, holdings, trades
}

// addOrder creates and stores a resting order with the given creation time.
func addOrder(orders *store.OrderStore, side domain.OrderSide, price, qty int64, createdAt time.Time) *domain.Order {
	o := &domain.Order{
		OrderID:    uuid.New().String(),
		ClientID:   "client-" + string(side),
		Symbol:     "XYZ",
		Side:       side,
		Quantity:   qty,
		LimitPrice: price,
		Status:     domain.OrderStatusPending,
		CreatedAt:  createdAt,
	}
	orders.Create(o)
	return o
}

func TestBookBuilder_Build_UnknownSymbol(t *testing.T) {
	orders, stocks, _, _ := newTestStores(t)
	b := NewBookBuilder(orders, stocks)

	if _, err := b.Build("NOPE"); err != domain.ErrSymbolNotFound {
		t.Fatalf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestBookBuilder_Build_SortsPriceTimePriority(t *testing.T) {
	orders, stocks, _, _ := newTestStores(t)
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	cheapBuy := addOrder(orders, domain.OrderSideBuy, 4800, 50, base)
	lateBuy := addOrder(orders, domain.OrderSideBuy, 5000, 10, base.Add(2*time.Minute))
	earlyBuy := addOrder(orders, domain.OrderSideBuy, 5000, 20, base.Add(time.Minute))
	lateSell := addOrder(orders, domain.OrderSideSell, 4700, 30, base.Add(time.Minute))
	dearSell := addOrder(orders, domain.OrderSideSell, 4900, 40, base)

	view, err := NewBookBuilder(orders, stocks).Build("XYZ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantBuys := []string{earlyBuy.OrderID, lateBuy.OrderID, cheapBuy.OrderID}
	if len(view.Buys) != len(wantBuys) {
		t.Fatalf("expected %d buys, got %d", len(wantBuys), len(view.Buys))
	}
	for i, id := range wantBuys {
		if view.Buys[i].OrderID != id {
			t.Errorf("buy[%d]: expected %s, got %s", i, id, view.Buys[i].OrderID)
		}
	}

	wantSells := []string{lateSell.OrderID, dearSell.OrderID}
	for i, id := range wantSells {
		if view.Sells[i].OrderID != id {
			t.Errorf("sell[%d]: expected %s, got %s", i, id, view.Sells[i].OrderID)
		}
	}
}

func TestBookBuilder_Build_UsesRemainingQuantity(t *testing.T) {
	orders, stocks, _, _ := newTestStores(t)

	o := addOrder(orders, domain.OrderSideBuy, 5000, 100, time.Now())
	o.FilledQuantity = 30
	o.Status = domain.OrderStatusPartiallyExecuted

	view, err := NewBookBuilder(orders, stocks).Build("XYZ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Buys) != 1 || view.Buys[0].Remaining != 70 {
		t.Fatalf("expected one buy with remaining 70, got %+v", view.Buys)
	}
}

func TestBookBuilder_Build_ExcludesTerminalOrders(t *testing.T) {
	orders, stocks, _, _ := newTestStores(t)

	executed := addOrder(orders, domain.OrderSideBuy, 5000, 10, time.Now())
	executed.FilledQuantity = 10
	executed.Status = domain.OrderStatusExecuted
	cancelled := addOrder(orders, domain.OrderSideSell, 4900, 10, time.Now())
	cancelled.Status = domain.OrderStatusCancelled

	view, err := NewBookBuilder(orders, stocks).Build("XYZ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Buys) != 0 || len(view.Sells) != 0 {
		t.Fatalf("expected empty book, got %d buys, %d sells", len(view.Buys), len(view.Sells))
	}
}

func TestOrderBookView_Levels_AggregateWithCumulativeTotals(t *testing.T) {
	orders, stocks, _, _ := newTestStores(t)
	base := time.Now()

	addOrder(orders, domain.OrderSideBuy, 5000, 10, base)
	addOrder(orders, domain.OrderSideBuy, 5000, 20, base.Add(time.Second))
	addOrder(orders, domain.OrderSideBuy, 4800, 50, base)

	view, err := NewBookBuilder(orders, stocks).Build("XYZ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	levels := view.BuyLevels(10)
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(levels))
	}
	if levels[0].Price != 5000 || levels[0].Quantity != 30 || levels[0].TotalQuantity != 30 || levels[0].OrderCount != 2 {
		t.Errorf("level 0 mismatch: %+v", levels[0])
	}
	if levels[1].Price != 4800 || levels[1].Quantity != 50 || levels[1].TotalQuantity != 80 {
		t.Errorf("level 1 mismatch: %+v", levels[1])
	}

	// Depth cap.
	if got := view.BuyLevels(1); len(got) != 1 {
		t.Fatalf("expected 1 level with depth 1, got %d", len(got))
	}
}
