package sqlite

import (
	"context"
	"time"

	"github.com/atriumhq/atrium/internal/account/domain"
)

type signupAttemptsRepo struct {
	db dbtx
}

const signupAttemptColumns = `id, email, code_hash, retry_count, completed, created_at, valid_until`

func (r *signupAttemptsRepo) CreateSignupAttempt(ctx context.Context, a domain.SignupAttempt) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO signup_attempts (id, email, code_hash, retry_count, completed, created_at, valid_until)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.CodeHash, a.RetryCount, a.Completed, a.CreatedAt, a.ValidUntil,
	)
	return mapConstraint(err)
}

func (r *signupAttemptsRepo) GetSignupAttemptByID(ctx context.Context, id string) (domain.SignupAttempt, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+signupAttemptColumns+` FROM signup_attempts WHERE id = ?`, id)
	return scanSignupAttempt(row)
}

func (r *signupAttemptsRepo) GetActiveSignupAttemptByEmail(ctx context.Context, email string, now time.Time) (domain.SignupAttempt, error) {
	// In flight: incomplete, unexpired, retries remaining. At most one such
	// row exists per email because initiation refuses to create a second.
	row := r.db.QueryRowContext(ctx, `
		SELECT `+signupAttemptColumns+` FROM signup_attempts
		WHERE email = ? AND completed = 0 AND valid_until > ? AND retry_count < ?
		ORDER BY created_at DESC
		LIMIT 1`, email, now, domain.MaxRetries)
	return scanSignupAttempt(row)
}

func (r *signupAttemptsRepo) CountSignupAttemptsByEmailSince(ctx context.Context, email string, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM signup_attempts
		WHERE email = ? AND created_at >= ?`, email, since).Scan(&n)
	return n, err
}

func (r *signupAttemptsRepo) IncrementSignupRetry(ctx context.Context, id string, expectedRetryCount int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE signup_attempts
		SET retry_count = retry_count + 1
		WHERE id = ? AND completed = 0 AND retry_count = ?`,
		id, expectedRetryCount)
	return affectedOrStale(res, err)
}

func (r *signupAttemptsRepo) CompleteSignupAttempt(ctx context.Context, id string, expectedRetryCount int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE signup_attempts
		SET completed = 1
		WHERE id = ? AND completed = 0 AND retry_count = ?`,
		id, expectedRetryCount)
	return affectedOrStale(res, err)
}

func (r *signupAttemptsRepo) RefreshSignupAttempt(ctx context.Context, id, codeHash string, createdAt, validUntil time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE signup_attempts
		SET code_hash = ?, retry_count = 0, created_at = ?, valid_until = ?
		WHERE id = ? AND completed = 0`,
		codeHash, createdAt, validUntil, id)
	return affectedOrStale(res, err)
}

func (r *signupAttemptsRepo) DeleteSignupAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM signup_attempts WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanSignupAttempt(row scanner) (domain.SignupAttempt, error) {
	var a domain.SignupAttempt
	err := row.Scan(&a.ID, &a.Email, &a.CodeHash, &a.RetryCount, &a.Completed, &a.CreatedAt, &a.ValidUntil)
	if err != nil {
		return domain.SignupAttempt{}, mapNotFound(err)
	}
	return a, nil
}
