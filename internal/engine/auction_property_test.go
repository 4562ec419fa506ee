package engine

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// genSide draws a random book side with bounded prices and quantities.
func genSide(t *rapid.T, label string, buy bool) []BookEntry {
	n := rapid.IntRange(0, 12).Draw(t, label+"Count")
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	entries := make([]BookEntry, n)
	for i := 0; i < n; i++ {
		entries[i] = BookEntry{
			OrderID:   fmt.Sprintf("%s-%d", label, i),
			Price:     rapid.Int64Range(1, 200).Draw(t, fmt.Sprintf("%sPrice-%d", label, i)),
			Remaining: rapid.Int64Range(1, 100).Draw(t, fmt.Sprintf("%sQty-%d", label, i)),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
	}
	if buy {
		sort.Slice(entries, func(i, j int) bool { return buyLess(entries[i], entries[j]) })
	} else {
		sort.Slice(entries, func(i, j int) bool { return sellLess(entries[i], entries[j]) })
	}
	return entries
}

// executableVolume computes min(demand, supply) at price p.
func executableVolume(buys, sells []BookEntry, p int64) int64 {
	var demand, supply int64
	for _, e := range buys {
		if e.Price >= p {
			demand += e.Remaining
		}
	}
	for _, e := range sells {
		if e.Price <= p {
			supply += e.Remaining
		}
	}
	if supply < demand {
		return supply
	}
	return demand
}

// TestProperty_EquilibriumMaximizesVolume verifies that no candidate
// limit price would clear strictly more volume than the one chosen.
func TestProperty_EquilibriumMaximizesVolume(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		buys := genSide(t, "buy", true)
		sells := genSide(t, "sell", false)

		result, ok := Clear(buys, sells)
		if !ok {
			// No price clears anything: verify that claim.
			for _, e := range append(append([]BookEntry{}, buys...), sells...) {
				if v := executableVolume(buys, sells, e.Price); v > 0 {
					t.Fatalf("engine returned no result but price %d clears %d units", e.Price, v)
				}
			}
			return
		}

		chosen := executableVolume(buys, sells, result.EquilibriumPrice)
		if chosen != result.Volume {
			t.Fatalf("reported volume %d != recomputed %d", result.Volume, chosen)
		}
		for _, e := range append(append([]BookEntry{}, buys...), sells...) {
			if v := executableVolume(buys, sells, e.Price); v > chosen {
				t.Fatalf("price %d clears %d units, more than equilibrium %d's %d",
					e.Price, v, result.EquilibriumPrice, chosen)
			}
		}
	})
}

// TestProperty_AllocationRespectsLimitsAndQuantities verifies that
// every allocation stays inside both orders' limit prices and that no
// order is allocated more than its remaining quantity.
func TestProperty_AllocationRespectsLimitsAndQuantities(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		buys := genSide(t, "buy", true)
		sells := genSide(t, "sell", false)

		result, ok := Clear(buys, sells)
		if !ok {
			return
		}

		remaining := make(map[string]int64)
		limits := make(map[string]int64)
		sides := make(map[string]string)
		for _, e := range buys {
			remaining[e.OrderID] = e.Remaining
			limits[e.OrderID] = e.Price
			sides[e.OrderID] = "buy"
		}
		for _, e := range sells {
			remaining[e.OrderID] = e.Remaining
			limits[e.OrderID] = e.Price
			sides[e.OrderID] = "sell"
		}

		var allocated int64
		for _, tr := range result.Trades {
			if tr.Quantity <= 0 {
				t.Fatalf("non-positive trade quantity: %+v", tr)
			}
			if limits[tr.BuyOrderID] < result.EquilibriumPrice {
				t.Fatalf("buy %s limit %d below equilibrium %d", tr.BuyOrderID, limits[tr.BuyOrderID], result.EquilibriumPrice)
			}
			if limits[tr.SellOrderID] > result.EquilibriumPrice {
				t.Fatalf("sell %s limit %d above equilibrium %d", tr.SellOrderID, limits[tr.SellOrderID], result.EquilibriumPrice)
			}
			if sides[tr.BuyOrderID] != "buy" || sides[tr.SellOrderID] != "sell" {
				t.Fatalf("trade pairs wrong sides: %+v", tr)
			}
			remaining[tr.BuyOrderID] -= tr.Quantity
			remaining[tr.SellOrderID] -= tr.Quantity
			allocated += tr.Quantity
		}
		for id, rem := range remaining {
			if rem < 0 {
				t.Fatalf("order %s over-allocated by %d", id, -rem)
			}
		}
		if allocated != result.Volume {
			t.Fatalf("allocated %d != volume %d", allocated, result.Volume)
		}
	})
}
