package models

import (
	"time"
)

// PasswordResetToken stores the SHA-256 hash of an emailed reset secret.
// The plaintext secret is never persisted. At most one live row exists per
// user; issuing a new token replaces the old one.
type PasswordResetToken struct {
	ID        string
	UserID    string
	TokenHash string `json:"-"`
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the token is past its expiry.
func (t *PasswordResetToken) IsExpired() bool {
	return !time.Now().Before(t.ExpiresAt)
}
