package domain

import "time"

// Stock represents the share inventory of one listed symbol.
// TotalShares is fixed at issuance; AvailableShares only changes
// through primary allocation, never through secondary trading.
type Stock struct {
	Symbol          string
	TotalShares     int64
	AvailableShares int64
	CreatedAt       time.Time
}

// Allocate moves qty shares out of available inventory for primary
// allocation to a client. Returns ErrInsufficientInventory if fewer
// than qty shares are available.
func (s *Stock) Allocate(qty int64) error {
	if qty > s.AvailableShares {
		return ErrInsufficientInventory
	}
	s.AvailableShares -= qty
	return nil
}
