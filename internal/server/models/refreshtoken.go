package models

import "time"

// RefreshToken is one outstanding refresh grant. Token is the signed string
// handed to the client and is unique.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is unusable at now. Expiry is exclusive.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
