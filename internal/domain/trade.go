package domain

import "time"

// Trade represents one execution between a buy and a sell order at the
// pass's equilibrium price. Trades are append-only audit records and
// are never mutated after settlement.
type Trade struct {
	TradeID     string
	BuyOrderID  string
	SellOrderID string
	Symbol      string
	Quantity    int64
	Price       int64 // cents, the equilibrium price of the pass
	ExecutedAt  time.Time
}
