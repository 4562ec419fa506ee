package domain

import "time"

// Client represents a registered trading participant. The wider retail
// platform owns the full account record; the matching core only needs
// an identity to validate order ownership against.
type Client struct {
	ClientID  string
	Name      string
	CreatedAt time.Time
}
