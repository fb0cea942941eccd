package models

import "time"

// Wallet holds a user's coin balance. The balance never goes negative:
// debits are conditional updates guarded by the current balance.
type Wallet struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Coins     int       `json:"coins"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
