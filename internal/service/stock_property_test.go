package service

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/mfernandes/stockmatch/internal/domain"
)

// TestProperty_ShareConservation drives random allocations, orders, and
// matching passes and checks that shares are never created or
// destroyed: total issue == available inventory + sum of all holdings.
func TestProperty_ShareConservation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ts := newTestServices(t)

		const totalShares = 100000
		if _, err := ts.stockSvc.IssueStock(IssueStockRequest{Symbol: "XYZ", TotalShares: totalShares}); err != nil {
			rt.Fatalf("issue stock: %v", err)
		}

		numClients := rapid.IntRange(2, 5).Draw(rt, "num_clients")
		clientIDs := make([]string, numClients)
		for i := range clientIDs {
			clientIDs[i] = fmt.Sprintf("client-%d", i)
			if _, err := ts.clientSvc.Register(RegisterClientRequest{ClientID: clientIDs[i], Name: "Property Client"}); err != nil {
				rt.Fatalf("register: %v", err)
			}
		}

		numOps := rapid.IntRange(1, 40).Draw(rt, "num_ops")
		for i := 0; i < numOps; i++ {
			switch rapid.IntRange(0, 2).Draw(rt, fmt.Sprintf("op_%d", i)) {
			case 0: // primary allocation, may legitimately run out of inventory
				_, err := ts.stockSvc.AllocateShares(AllocateSharesRequest{
					ClientID: rapid.SampledFrom(clientIDs).Draw(rt, fmt.Sprintf("alloc_client_%d", i)),
					Symbol:   "XYZ",
					Quantity: rapid.Int64Range(1, 2000).Draw(rt, fmt.Sprintf("alloc_qty_%d", i)),
					Price:    float64(rapid.Int64Range(100, 10000).Draw(rt, fmt.Sprintf("alloc_price_%d", i))) / 100,
				})
				if err != nil && err != domain.ErrInsufficientInventory {
					rt.Fatalf("allocate: %v", err)
				}
			case 1: // a resting limit order on a random side
				side := domain.OrderSideBuy
				if rapid.Bool().Draw(rt, fmt.Sprintf("side_%d", i)) {
					side = domain.OrderSideSell
				}
				if _, err := ts.orderSvc.CreateOrder(CreateOrderRequest{
					ClientID: rapid.SampledFrom(clientIDs).Draw(rt, fmt.Sprintf("order_client_%d", i)),
					Symbol:   "XYZ",
					Side:     side,
					Quantity: rapid.Int64Range(1, 500).Draw(rt, fmt.Sprintf("order_qty_%d", i)),
					Price:    float64(rapid.Int64Range(100, 10000).Draw(rt, fmt.Sprintf("order_price_%d", i))) / 100,
				}); err != nil {
					rt.Fatalf("create order: %v", err)
				}
			case 2: // matching pass; sellers without shares just fail per trade
				if _, err := ts.stockSvc.TriggerMatch("XYZ", true); err != nil {
					rt.Fatalf("trigger match: %v", err)
				}
			}
		}
		if _, err := ts.stockSvc.TriggerMatch("XYZ", true); err != nil {
			rt.Fatalf("final match: %v", err)
		}

		stock, err := ts.stockSvc.GetStock("XYZ")
		if err != nil {
			rt.Fatalf("get stock: %v", err)
		}
		held := ts.holdings.TotalBySymbol("XYZ")
		if stock.AvailableShares+held != totalShares {
			rt.Fatalf("conservation violated: available=%d held=%d total=%d",
				stock.AvailableShares, held, totalShares)
		}
	})
}
