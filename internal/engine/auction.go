package engine

import "sort"

// ProposedTrade is one allocation produced by the auction, not yet
// settled. Both orders execute at the pass's equilibrium price.
type ProposedTrade struct {
	BuyOrderID  string
	SellOrderID string
	Quantity    int64
}

// AuctionResult holds the outcome of one uniform-price auction over a
// book snapshot.
type AuctionResult struct {
	EquilibriumPrice int64
	Volume           int64
	Trades           []ProposedTrade
}

// Clear runs a uniform-price call auction over the two sorted sides of
// a book snapshot. It is pure computation: no store access, no
// mutation of the snapshot.
//
// The equilibrium price is the candidate limit price that maximizes
// executable volume; ties are broken by minimum absolute imbalance
// between demand and supply, then by the lower price. Returns
// (nil, false) when no price clears any volume, in which case the
// auction makes no price claim.
//
// Allocation walks both sides simultaneously in price-time priority,
// restricted to orders whose limit qualifies at the equilibrium
// (buys priced at or above it, sells at or below it).
func Clear(buys, sells []BookEntry) (*AuctionResult, bool) {
	if len(buys) == 0 || len(sells) == 0 {
		return nil, false
	}

	price, volume, ok := equilibrium(buys, sells)
	if !ok {
		return nil, false
	}

	result := &AuctionResult{
		EquilibriumPrice: price,
		Volume:           volume,
	}

	// Each side is sorted best price first, so the orders qualifying
	// at the equilibrium form a prefix.
	eligibleBuys := eligiblePrefix(buys, func(e BookEntry) bool { return e.Price >= price })
	eligibleSells := eligiblePrefix(sells, func(e BookEntry) bool { return e.Price <= price })

	bi, si := 0, 0
	var buyLeft, sellLeft int64
	for bi < len(eligibleBuys) && si < len(eligibleSells) {
		if buyLeft == 0 {
			buyLeft = eligibleBuys[bi].Remaining
		}
		if sellLeft == 0 {
			sellLeft = eligibleSells[si].Remaining
		}

		qty := buyLeft
		if sellLeft < qty {
			qty = sellLeft
		}
		result.Trades = append(result.Trades, ProposedTrade{
			BuyOrderID:  eligibleBuys[bi].OrderID,
			SellOrderID: eligibleSells[si].OrderID,
			Quantity:    qty,
		})
		buyLeft -= qty
		sellLeft -= qty
		if buyLeft == 0 {
			bi++
		}
		if sellLeft == 0 {
			si++
		}
	}

	return result, true
}

// eligiblePrefix returns the leading entries satisfying keep.
func eligiblePrefix(entries []BookEntry, keep func(BookEntry) bool) []BookEntry {
	for i, e := range entries {
		if !keep(e) {
			return entries[:i]
		}
	}
	return entries
}

// equilibrium picks the clearing price over the union of limit prices
// present on either side. For each candidate p, demand is the total
// remaining quantity of buys limited at or above p and supply the
// total of sells limited at or below p; executable volume is
// min(demand, supply).
func equilibrium(buys, sells []BookEntry) (price, volume int64, ok bool) {
	seen := make(map[int64]bool, len(buys)+len(sells))
	candidates := make([]int64, 0, len(buys)+len(sells))
	for _, e := range buys {
		if !seen[e.Price] {
			seen[e.Price] = true
			candidates = append(candidates, e.Price)
		}
	}
	for _, e := range sells {
		if !seen[e.Price] {
			seen[e.Price] = true
			candidates = append(candidates, e.Price)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	var bestPrice, bestVolume, bestImbalance int64
	for _, p := range candidates {
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

		v := demand
		if supply < v {
			v = supply
		}
		if v == 0 {
			continue
		}

		imbalance := demand - supply
		if imbalance < 0 {
			imbalance = -imbalance
		}

		// Candidates ascend, so on full ties the lower price wins by
		// never being replaced.
		if !ok || v > bestVolume || (v == bestVolume && imbalance < bestImbalance) {
			bestPrice, bestVolume, bestImbalance = p, v, imbalance
			ok = true
		}
	}
	return bestPrice, bestVolume, ok
}
