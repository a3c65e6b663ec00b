package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/atriumhq/atrium/internal/account/domain"
	"github.com/atriumhq/atrium/internal/account/store"
	"github.com/atriumhq/atrium/pkg/cryptox"
	"github.com/atriumhq/atrium/pkg/eventx"
	"github.com/atriumhq/atrium/pkg/idx"
	"github.com/atriumhq/atrium/pkg/jwtx"
	"github.com/atriumhq/atrium/pkg/slogx"
)

// SessionService mints and rotates token pairs. Access tokens are signed
// JWTs, refresh tokens are opaque and stored by fingerprint only.
type SessionService struct {
	Store      store.Store
	Signer     jwtx.Signer
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Events     eventx.Publisher
}

// issue mints a token pair for the user within the caller's repos, which
// may be a live transaction. sid is the session identifier carried across
// rotations.
func (s *SessionService) issue(ctx context.Context, repos store.Store, user domain.User, sid string, now time.Time) (*domain.TokenPair, error) {
	refresh, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	rec := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    user.ID,
		TenantID:  user.TenantID,
		TokenHash: cryptox.FingerprintToken(refresh),
		SessionID: sid,
		ExpiresAt: now.Add(s.RefreshTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repos.RefreshTokens().CreateRefreshToken(ctx, rec); err != nil {
		return nil, err
	}

	claims := jwtx.NewAccessClaims(
		user.ID, user.TenantID, string(user.Role), sid, user.Email,
		[]string{"otp"},
		s.AccessTTL, s.Issuer, now,
	)
	access, err := s.Signer.Sign(claims)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.AccessTTL,
	}, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is minted under the same session id. A token that is unknown, already
// revoked or past its expiry is rejected without detail.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	now := time.Now().UTC()
	hash := cryptox.FingerprintToken(refreshToken)

	var pair *domain.TokenPair
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rec, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}
		if rec.Revoked || !now.Before(rec.ExpiresAt) {
			return ErrInvalidRefresh
		}

		user, err := tx.Users().GetUserByID(ctx, rec.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}
		tenant, err := tx.Tenants().GetTenantByID(ctx, user.TenantID)
		if err != nil {
			return err
		}
		if tenant.State == domain.TenantSuspended {
			return ErrTenantSuspended
		}

		// Single use. Revoke before minting so a crash between the two
		// leaves the session logged out rather than duplicated.
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, hash); err != nil {
			return err
		}

		pair, err = s.issue(ctx, tx, user, rec.SessionID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes the presented refresh token. Unknown tokens succeed:
// logout is idempotent and leaks nothing about what exists.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	hash := cryptox.FingerprintToken(refreshToken)

	rec, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, hash); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	s.publishSession(ctx, eventx.Event{
		Type:       eventx.TypeSessionRevoked,
		OccurredAt: time.Now().UTC(),
		TenantID:   rec.TenantID,
		UserID:     rec.UserID,
		Attributes: map[string]string{"session_id": rec.SessionID},
	})
	return nil
}

// RevokeUserSessions invalidates every refresh token a user holds. Used on
// role changes and user removal.
func (s *SessionService) RevokeUserSessions(ctx context.Context, repos store.Store, userID string) error {
	return repos.RefreshTokens().RevokeAllUserRefreshTokens(ctx, userID)
}

func (s *SessionService) publishSession(ctx context.Context, e eventx.Event) {
	if err := s.Events.Publish(ctx, e); err != nil {
		slogx.FromContext(ctx).Warn("event publish failed", slog.String("type", e.Type), slog.Any("error", err))
	}
}
