package sqlite

import (
	"context"
	"time"

	"github.com/atriumhq/atrium/internal/account/domain"
)

type refreshTokensRepo struct {
	db dbtx
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, user_id, tenant_id, token_hash, session_id, expires_at, revoked, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.TenantID, t.TokenHash, t.SessionID, t.ExpiresAt, t.Revoked, t.CreatedAt, t.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, tenant_id, token_hash, session_id, expires_at, revoked, created_at, updated_at
		FROM refresh_tokens WHERE token_hash = ?`, hash)

	var t domain.RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.TenantID, &t.TokenHash, &t.SessionID, &t.ExpiresAt, &t.Revoked, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens SET revoked = 1, updated_at = CURRENT_TIMESTAMP
		WHERE token_hash = ?`, hash)
	return affectedOrNotFound(res, err)
}

func (r *refreshTokensRepo) RevokeAllUserRefreshTokens(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens SET revoked = 1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND revoked = 0`, userID)
	return err
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < ? OR revoked = 1`, now)
	return err
}
