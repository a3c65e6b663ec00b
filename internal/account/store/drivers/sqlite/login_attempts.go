package sqlite

import (
	"context"
	"time"

	"github.com/atriumhq/atrium/internal/account/domain"
)

type loginAttemptsRepo struct {
	db dbtx
}

const loginAttemptColumns = `id, email, user_id, tenant_id, code_hash, retry_count, completed, created_at, valid_until`

func (r *loginAttemptsRepo) CreateLoginAttempt(ctx context.Context, a domain.LoginAttempt) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO login_attempts (id, email, user_id, tenant_id, code_hash, retry_count, completed, created_at, valid_until)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.UserID, a.TenantID, a.CodeHash, a.RetryCount, a.Completed, a.CreatedAt, a.ValidUntil,
	)
	return mapConstraint(err)
}

func (r *loginAttemptsRepo) GetLoginAttemptByID(ctx context.Context, id string) (domain.LoginAttempt, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+loginAttemptColumns+` FROM login_attempts WHERE id = ?`, id)
	return scanLoginAttempt(row)
}

func (r *loginAttemptsRepo) GetActiveLoginAttemptByEmail(ctx context.Context, email string, now time.Time) (domain.LoginAttempt, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+loginAttemptColumns+` FROM login_attempts
		WHERE email = ? AND completed = 0 AND valid_until > ? AND retry_count < ?
		ORDER BY created_at DESC
		LIMIT 1`, email, now, domain.MaxRetries)
	return scanLoginAttempt(row)
}

func (r *loginAttemptsRepo) CountLoginAttemptsByEmailSince(ctx context.Context, email string, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM login_attempts
		WHERE email = ? AND created_at >= ?`, email, since).Scan(&n)
	return n, err
}

func (r *loginAttemptsRepo) IncrementLoginRetry(ctx context.Context, id string, expectedRetryCount int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE login_attempts
		SET retry_count = retry_count + 1
		WHERE id = ? AND completed = 0 AND retry_count = ?`,
		id, expectedRetryCount)
	return affectedOrStale(res, err)
}

func (r *loginAttemptsRepo) CompleteLoginAttempt(ctx context.Context, id string, expectedRetryCount int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE login_attempts
		SET completed = 1
		WHERE id = ? AND completed = 0 AND retry_count = ?`,
		id, expectedRetryCount)
	return affectedOrStale(res, err)
}

func (r *loginAttemptsRepo) RefreshLoginAttempt(ctx context.Context, id, codeHash string, createdAt, validUntil time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE login_attempts
		SET code_hash = ?, retry_count = 0, created_at = ?, valid_until = ?
		WHERE id = ? AND completed = 0`,
		codeHash, createdAt, validUntil, id)
	return affectedOrStale(res, err)
}

func (r *loginAttemptsRepo) DeleteLoginAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM login_attempts WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanLoginAttempt(row scanner) (domain.LoginAttempt, error) {
	var a domain.LoginAttempt
	err := row.Scan(&a.ID, &a.Email, &a.UserID, &a.TenantID, &a.CodeHash, &a.RetryCount, &a.Completed, &a.CreatedAt, &a.ValidUntil)
	if err != nil {
		return domain.LoginAttempt{}, mapNotFound(err)
	}
	return a, nil
}
