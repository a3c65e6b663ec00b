package domain

import "time"

// Verification flow parameters. These are part of the product contract, not
// tuning knobs, so they live here rather than in config.
const (
	// CodeValidity is how long an issued code can be redeemed.
	CodeValidity = 300 * time.Second

	// MaxRetries is the number of wrong codes tolerated before an attempt
	// is burned.
	MaxRetries = 3

	// ResendCooldown is the minimum gap between code issuances for the
	// same attempt.
	ResendCooldown = 30 * time.Second

	// RateWindow and RateCeiling bound how many attempts a single email
	// may start inside a rolling window.
	RateWindow  = 24 * time.Hour
	RateCeiling = 4
)

// AttemptStatus is derived from an attempt's stored fields, never persisted.
type AttemptStatus string

const (
	AttemptPending   AttemptStatus = "pending"
	AttemptVerified  AttemptStatus = "verified"
	AttemptExpired   AttemptStatus = "expired"
	AttemptExhausted AttemptStatus = "exhausted"
)

// SignupAttempt is one email verification flow for a prospective tenant.
// Rows are kept after they finish; the rolling rate limit is computed from
// them, and housekeeping purges them once they age out of RateWindow.
type SignupAttempt struct {
	ID         string
	Email      string // normalized: trimmed, lowercased
	CodeHash   string // argon2id encoded
	RetryCount int
	Completed  bool
	CreatedAt  time.Time
	ValidUntil time.Time
}

// Status reports where the attempt sits in its lifecycle at the given time.
// Completed wins over everything, expiry wins over exhaustion.
func (a SignupAttempt) Status(now time.Time) AttemptStatus {
	return attemptStatus(a.Completed, a.RetryCount, a.ValidUntil, now)
}

// LoginAttempt is one email verification flow for an existing user. The
// user and tenant are resolved at initiation so completion does not trust
// client input for identity.
type LoginAttempt struct {
	ID         string
	Email      string // normalized: trimmed, lowercased
	UserID     string
	TenantID   string
	CodeHash   string // argon2id encoded
	RetryCount int
	Completed  bool
	CreatedAt  time.Time
	ValidUntil time.Time
}

func (a LoginAttempt) Status(now time.Time) AttemptStatus {
	return attemptStatus(a.Completed, a.RetryCount, a.ValidUntil, now)
}

func attemptStatus(completed bool, retryCount int, validUntil, now time.Time) AttemptStatus {
	switch {
	case completed:
		return AttemptVerified
	case !now.Before(validUntil):
		return AttemptExpired
	case retryCount >= MaxRetries:
		return AttemptExhausted
	default:
		return AttemptPending
	}
}
