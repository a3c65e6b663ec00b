package store

import (
	"context"
	"errors"
	"time"

	"github.com/atriumhq/atrium/internal/account/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrStale is returned by conditional updates when the row no longer
	// matches the expected state (completed flag flipped or retry count
	// moved underneath us). It signals a lost optimistic-concurrency race.
	ErrStale = errors.New("store: stale row state")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable, and to stop callers from accidentally nesting
// transactions.
type Store interface {
	Tenants() Tenants
	Users() Users
	SignupAttempts() SignupAttempts
	LoginAttempts() LoginAttempts
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Tenants interface {
	// CreateTenant inserts a new tenant (id is provided by app via ULID).
	CreateTenant(ctx context.Context, t domain.Tenant) error

	// GetTenantByID returns a tenant by id.
	GetTenantByID(ctx context.Context, id string) (domain.Tenant, error)

	// UpdateTenantName mutates the name and bumps updated_at.
	UpdateTenantName(ctx context.Context, tenantID, name string) error

	// UpdateTenantState flips active/suspended and bumps updated_at.
	UpdateTenantState(ctx context.Context, tenantID string, state domain.TenantState) error
}

type Users interface {
	// CreateUser inserts a new user. Emails are globally unique, a
	// duplicate insert returns ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up a user by normalized email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsersByTenant returns a page of a tenant's users ordered by id.
	// afterID is an exclusive cursor; pass "" for the first page.
	ListUsersByTenant(ctx context.Context, tenantID, afterID string, limit int) ([]domain.User, error)

	// UpdateUserRole sets the role and bumps updated_at.
	UpdateUserRole(ctx context.Context, userID string, role domain.Role) error

	// DeleteUser cascades to refresh_tokens (per schema).
	DeleteUser(ctx context.Context, userID string) error
}

// SignupAttempts persists the signup verification state machine. The
// conditional mutations (IncrementRetry, Complete) carry the retry count the
// caller observed; a mismatch means another request won the race.
type SignupAttempts interface {
	// CreateSignupAttempt inserts a new attempt row.
	CreateSignupAttempt(ctx context.Context, a domain.SignupAttempt) error

	// GetSignupAttemptByID returns an attempt by id.
	GetSignupAttemptByID(ctx context.Context, id string) (domain.SignupAttempt, error)

	// GetActiveSignupAttemptByEmail returns the attempt currently in flight
	// for the email: not completed, not expired, retries remaining.
	GetActiveSignupAttemptByEmail(ctx context.Context, email string, now time.Time) (domain.SignupAttempt, error)

	// CountSignupAttemptsByEmailSince counts attempt rows for the email
	// created at or after the cutoff. Feeds the rolling rate limit.
	CountSignupAttemptsByEmailSince(ctx context.Context, email string, since time.Time) (int, error)

	// IncrementSignupRetry bumps retry_count by one, guarded on the
	// expected current count and the attempt being incomplete.
	IncrementSignupRetry(ctx context.Context, id string, expectedRetryCount int) error

	// CompleteSignupAttempt flips completed, guarded the same way. At most
	// one caller ever succeeds for a given attempt.
	CompleteSignupAttempt(ctx context.Context, id string, expectedRetryCount int) error

	// RefreshSignupAttempt re-issues the code in place: new hash, reset
	// retry count, new issuance window. Guarded on the attempt being
	// incomplete.
	RefreshSignupAttempt(ctx context.Context, id, codeHash string, createdAt, validUntil time.Time) error

	// DeleteSignupAttemptsBefore purges rows that aged out of the rate
	// window. Returns the number of rows removed.
	DeleteSignupAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// LoginAttempts mirrors SignupAttempts for existing users.
type LoginAttempts interface {
	CreateLoginAttempt(ctx context.Context, a domain.LoginAttempt) error

	GetLoginAttemptByID(ctx context.Context, id string) (domain.LoginAttempt, error)

	GetActiveLoginAttemptByEmail(ctx context.Context, email string, now time.Time) (domain.LoginAttempt, error)

	CountLoginAttemptsByEmailSince(ctx context.Context, email string, since time.Time) (int, error)

	IncrementLoginRetry(ctx context.Context, id string, expectedRetryCount int) error

	CompleteLoginAttempt(ctx context.Context, id string, expectedRetryCount int) error

	RefreshLoginAttempt(ctx context.Context, id, codeHash string, createdAt, validUntil time.Time) error

	DeleteLoginAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the token by its fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken flips revoked=1, sets updated_at.
	RevokeRefreshToken(ctx context.Context, hash string) error

	// RevokeAllUserRefreshTokens bulk revocation for a user (role change,
	// user removal).
	RevokeAllUserRefreshTokens(ctx context.Context, userID string) error

	// DeleteExpiredRefreshTokens removes tokens that expired before now,
	// plus anything already revoked. Housekeeping.
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) error
}
