package domain

import "time"

// TokenPair is what login completion and refresh return: a short-lived JWT
// access token and an opaque single-use refresh token.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type,omitempty"` // typically "Bearer"
	ExpiresIn    time.Duration `json:"expires_in"`           // seconds until expiry
}

// RefreshToken models the stored refresh token record. Only the SHA-256
// fingerprint of the opaque token is persisted.
type RefreshToken struct {
	ID        string
	UserID    string
	TenantID  string
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	SessionID string // Session ID (SID) that persists across token refreshes
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
