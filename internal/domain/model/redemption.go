package model

import "time"

// Redemption is an immutable record of loyalty points spent by a user.
type Redemption struct {
	ID        string
	UserID    string
	Points    int64
	CreatedAt time.Time
}
