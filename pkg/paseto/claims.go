package pasetotoken

import "time"

// Claims is the app-facing session-token payload: the caller's identity
// reference and role, plus the standard time bounds.
type Claims struct {
	UserID string
	Role   string

	Issuer   string
	Audience string

	IssuedAt  time.Time
	NotBefore time.Time
	ExpiresAt time.Time
	TokenID   string // jti
	Subject   string
}

// IsExpired reports whether the token's lifetime has passed.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}
