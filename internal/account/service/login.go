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
	"github.com/atriumhq/atrium/pkg/mailx"
	"github.com/atriumhq/atrium/pkg/slogx"
)

// LoginResult carries the minted session plus the identity it belongs to.
type LoginResult struct {
	TenantID string
	UserID   string
	Tokens   domain.TokenPair
}

// LoginService drives the email verification flow for existing users.
// Completion hands off to SessionService inside the same transaction, so a
// token minting failure rolls the attempt back to redeemable.
type LoginService struct {
	Store    store.Store
	Mailer   mailx.Mailer
	Events   eventx.Publisher
	Sessions *SessionService
}

// StartLogin resolves the account behind the email and opens an attempt.
// An unknown email or a suspended tenant is rejected up front, before any
// code is generated or sent.
func (s *LoginService) StartLogin(ctx context.Context, rawEmail string) (*StartResult, error) {
	now := time.Now().UTC()
	l := slogx.FromContext(ctx)

	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return nil, err
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	tenant, err := s.Store.Tenants().GetTenantByID(ctx, user.TenantID)
	if err != nil {
		return nil, err
	}
	if tenant.State == domain.TenantSuspended {
		return nil, ErrTenantSuspended
	}

	code, err := cryptox.GenerateCode()
	if err != nil {
		return nil, err
	}
	codeHash, err := cryptox.HashCode(code)
	if err != nil {
		return nil, err
	}

	attempt := domain.LoginAttempt{
		ID:         idx.New().String(),
		Email:      email,
		UserID:     user.ID,
		TenantID:   user.TenantID,
		CodeHash:   codeHash,
		CreatedAt:  now,
		ValidUntil: now.Add(domain.CodeValidity),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Duplicate in-flight guard.
		_, err := tx.LoginAttempts().GetActiveLoginAttemptByEmail(ctx, email, now)
		if err == nil {
			return ErrAttemptInFlight
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		// 2. Rolling ceiling over stored rows.
		count, err := tx.LoginAttempts().CountLoginAttemptsByEmailSince(ctx, email, now.Add(-domain.RateWindow))
		if err != nil {
			return err
		}
		if count >= domain.RateCeiling {
			return ErrTooManyAttempts
		}

		// 3. Persist.
		return tx.LoginAttempts().CreateLoginAttempt(ctx, attempt)
	})
	if err != nil {
		return nil, err
	}

	if err := s.Mailer.SendCode(ctx, email, code, mailx.PurposeLogin, domain.CodeValidity); err != nil {
		l.Error("login code dispatch failed", slog.Any("error", err), slog.String("attempt_id", attempt.ID))
	}

	s.publish(ctx, eventx.Event{
		Type:       eventx.TypeLoginStarted,
		OccurredAt: now,
		TenantID:   user.TenantID,
		UserID:     user.ID,
		Email:      email,
	})

	return &StartResult{AttemptID: attempt.ID, ValidFor: domain.CodeValidity}, nil
}

// ResendLoginCode re-issues the code for an open attempt after the cooldown.
func (s *LoginService) ResendLoginCode(ctx context.Context, attemptID string) (*StartResult, error) {
	now := time.Now().UTC()
	l := slogx.FromContext(ctx)

	code, err := cryptox.GenerateCode()
	if err != nil {
		return nil, err
	}
	codeHash, err := cryptox.HashCode(code)
	if err != nil {
		return nil, err
	}

	var email string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		a, err := tx.LoginAttempts().GetLoginAttemptByID(ctx, attemptID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAttemptNotFound
			}
			return err
		}
		if a.Completed {
			return ErrAttemptNotFound
		}

		if now.Sub(a.CreatedAt) < domain.ResendCooldown {
			return ErrResendCooldown
		}

		count, err := tx.LoginAttempts().CountLoginAttemptsByEmailSince(ctx, a.Email, now.Add(-domain.RateWindow))
		if err != nil {
			return err
		}
		if count > domain.RateCeiling {
			return ErrTooManyAttempts
		}

		email = a.Email
		return tx.LoginAttempts().RefreshLoginAttempt(ctx, a.ID, codeHash, now, now.Add(domain.CodeValidity))
	})
	if err != nil {
		if errors.Is(err, store.ErrStale) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}

	if err := s.Mailer.SendCode(ctx, email, code, mailx.PurposeLogin, domain.CodeValidity); err != nil {
		l.Error("login code dispatch failed", slog.Any("error", err), slog.String("attempt_id", attemptID))
	}

	s.publish(ctx, eventx.Event{
		Type:       eventx.TypeLoginStarted,
		OccurredAt: now,
		Email:      email,
		Attributes: map[string]string{"resend": "true"},
	})

	return &StartResult{AttemptID: attemptID, ValidFor: domain.CodeValidity}, nil
}

// CompleteLogin checks the code and, on the first match, mints the session
// in the same transaction as the completion flip. Each completed attempt
// yields exactly one session.
func (s *LoginService) CompleteLogin(ctx context.Context, attemptID, code string) (*LoginResult, error) {
	now := time.Now().UTC()
	l := slogx.FromContext(ctx)

	if err := validateCodeFormat(code); err != nil {
		return nil, err
	}

	var result *LoginResult
	var email string

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		a, err := tx.LoginAttempts().GetLoginAttemptByID(ctx, attemptID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAttemptNotFound
			}
			return err
		}

		switch a.Status(now) {
		case domain.AttemptVerified:
			return ErrAttemptNotFound
		case domain.AttemptExpired:
			l.Info("login code rejected: expired", slog.String("attempt_id", a.ID))
			return ErrCodeRejected
		case domain.AttemptExhausted:
			l.Info("login code rejected: retries exhausted", slog.String("attempt_id", a.ID))
			return ErrCodeRejected
		}

		if err := cryptox.VerifyCode(code, a.CodeHash); err != nil {
			if !errors.Is(err, cryptox.ErrCodeMismatch) {
				return err
			}
			if err := tx.LoginAttempts().IncrementLoginRetry(ctx, a.ID, a.RetryCount); err != nil && !errors.Is(err, store.ErrStale) {
				return err
			}
			l.Info("login code rejected: mismatch", slog.String("attempt_id", a.ID))
			return ErrCodeRejected
		}

		if err := tx.LoginAttempts().CompleteLoginAttempt(ctx, a.ID, a.RetryCount); err != nil {
			if errors.Is(err, store.ErrStale) {
				return ErrAttemptNotFound
			}
			return err
		}

		// The account may have changed since initiation: re-check before
		// minting a session.
		user, err := tx.Users().GetUserByID(ctx, a.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
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

		pair, err := s.Sessions.issue(ctx, tx, user, jwtx.NewJTI(), now)
		if err != nil {
			return err
		}

		email = a.Email
		result = &LoginResult{TenantID: user.TenantID, UserID: user.ID, Tokens: *pair}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, eventx.Event{
		Type:       eventx.TypeLoginCompleted,
		OccurredAt: now,
		TenantID:   result.TenantID,
		UserID:     result.UserID,
		Email:      email,
	})

	return result, nil
}

func (s *LoginService) publish(ctx context.Context, e eventx.Event) {
	if err := s.Events.Publish(ctx, e); err != nil {
		slogx.FromContext(ctx).Warn("event publish failed", slog.String("type", e.Type), slog.Any("error", err))
	}
}
