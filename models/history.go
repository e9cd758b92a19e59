package models

import "time"

// PasswordHistoryEntry is one past credential fingerprint of a user.
type PasswordHistoryEntry struct {
	ID           int64
	UserID       int64
	PasswordHash string
	PasswordSalt string
	CreatedAt    time.Time
}
