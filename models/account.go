package models

import (
	"time"
)

// Account represents a single balance row keyed by (username, channel).
// Usernames and channels are stored lowercase; the ledger folds them on
// every access.
type Account struct {
	Username  string    `db:"username"`
	Channel   string    `db:"channel"`
	Balance   float64   `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
