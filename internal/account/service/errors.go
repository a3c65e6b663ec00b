package service

import "errors"

// Sentinel errors returned by the services. Handlers map these onto the
// HTTP taxonomy with errors.Is; anything else is an infrastructure failure
// and becomes a 500.
var (
	// ErrInvalidEmail rejects emails that fail the grammar or length check.
	ErrInvalidEmail = errors.New("invalid_email")

	// ErrInvalidCode rejects submissions that are not a 6-digit string.
	// Format failures are caller errors and do not consume a retry.
	ErrInvalidCode = errors.New("invalid_code_format")

	// ErrAttemptInFlight means an uncompleted, unexpired attempt already
	// exists for the email.
	ErrAttemptInFlight = errors.New("attempt_in_flight")

	// ErrTooManyAttempts means the rolling 24h attempt ceiling was hit.
	ErrTooManyAttempts = errors.New("too_many_attempts")

	// ErrAttemptNotFound covers unknown attempt ids and attempts that were
	// already completed.
	ErrAttemptNotFound = errors.New("attempt_not_found")

	// ErrCodeRejected is the single outward failure for wrong, expired and
	// exhausted codes. Collapsing them stops callers probing attempt state.
	ErrCodeRejected = errors.New("code_rejected")

	// ErrResendCooldown means the 30s gap since last issuance has not passed.
	ErrResendCooldown = errors.New("resend_cooldown")

	// ErrEmailTaken means signup completion would collide with an existing
	// account.
	ErrEmailTaken = errors.New("email_taken")

	// ErrUserNotFound means no account exists for the email or id.
	ErrUserNotFound = errors.New("user_not_found")

	// ErrTenantSuspended blocks logins for users of a suspended tenant.
	ErrTenantSuspended = errors.New("tenant_suspended")

	// ErrTenantNotFound means the tenant id resolves to nothing.
	ErrTenantNotFound = errors.New("tenant_not_found")

	// ErrInvalidTenantName rejects empty or oversized tenant names.
	ErrInvalidTenantName = errors.New("invalid_tenant_name")

	// ErrInvalidRefresh covers unknown, expired, revoked and already
	// rotated refresh tokens.
	ErrInvalidRefresh = errors.New("invalid_refresh_token")

	// ErrForbidden means the caller's role does not permit the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidRole rejects unknown role names and role transitions the
	// model forbids (owner is assigned by signup, never by admin action).
	ErrInvalidRole = errors.New("invalid_role")
)
