package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/atriumhq/atrium/internal/account/domain"
	"github.com/atriumhq/atrium/internal/account/store"
	"github.com/atriumhq/atrium/pkg/cryptox"
	"github.com/atriumhq/atrium/pkg/eventx"
	"github.com/atriumhq/atrium/pkg/idx"
	"github.com/atriumhq/atrium/pkg/mailx"
	"github.com/atriumhq/atrium/pkg/slogx"
)

// StartResult is returned by initiation and resend. The code itself only
// ever travels by email.
type StartResult struct {
	AttemptID string
	ValidFor  time.Duration
}

// SignupResult reports the tenant and owner user provisioned on completion.
type SignupResult struct {
	TenantID string
	UserID   string
}

// SignupService drives the email verification flow that creates a tenant.
type SignupService struct {
	Store  store.Store
	Mailer mailx.Mailer
	Events eventx.Publisher
}

// StartSignup validates the email, enforces the in-flight and rolling rate
// limit guards, creates an attempt record and dispatches the code.
func (s *SignupService) StartSignup(ctx context.Context, rawEmail string) (*StartResult, error) {
	now := time.Now().UTC()
	l := slogx.FromContext(ctx)

	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return nil, err
	}

	// Refuse signup for an email that already has an account. Without this
	// the collision would only surface at completion, after the user typed
	// a code.
	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	// Hash before the transaction so the slow argon2 work happens outside it.
	code, err := cryptox.GenerateCode()
	if err != nil {
		return nil, err
	}
	codeHash, err := cryptox.HashCode(code)
	if err != nil {
		return nil, err
	}

	attempt := domain.SignupAttempt{
		ID:         idx.New().String(),
		Email:      email,
		CodeHash:   codeHash,
		CreatedAt:  now,
		ValidUntil: now.Add(domain.CodeValidity),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Duplicate in-flight guard: one live attempt per email.
		_, err := tx.SignupAttempts().GetActiveSignupAttemptByEmail(ctx, email, now)
		if err == nil {
			return ErrAttemptInFlight
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		// 2. Rolling ceiling, computed over stored rows regardless of how
		// those attempts ended.
		count, err := tx.SignupAttempts().CountSignupAttemptsByEmailSince(ctx, email, now.Add(-domain.RateWindow))
		if err != nil {
			return err
		}
		if count >= domain.RateCeiling {
			return ErrTooManyAttempts
		}

		// 3. Persist the attempt.
		return tx.SignupAttempts().CreateSignupAttempt(ctx, attempt)
	})
	if err != nil {
		return nil, err
	}

	// The attempt row is committed; a mail failure is logged, not returned.
	// The user can fall back to resend once the cooldown passes.
	if err := s.Mailer.SendCode(ctx, email, code, mailx.PurposeSignup, domain.CodeValidity); err != nil {
		l.Error("signup code dispatch failed", slog.Any("error", err), slog.String("attempt_id", attempt.ID))
	}

	s.publish(ctx, eventx.Event{
		Type:       eventx.TypeSignupStarted,
		OccurredAt: now,
		Email:      email,
	})

	return &StartResult{AttemptID: attempt.ID, ValidFor: domain.CodeValidity}, nil
}

// ResendSignupCode issues a fresh code for an existing attempt after the
// cooldown: new hash, reset retries, validity extended from now.
func (s *SignupService) ResendSignupCode(ctx context.Context, attemptID string) (*StartResult, error) {
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
		a, err := tx.SignupAttempts().GetSignupAttemptByID(ctx, attemptID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAttemptNotFound
			}
			return err
		}
		if a.Completed {
			return ErrAttemptNotFound
		}

		// 1. Cooldown since last issuance.
		if now.Sub(a.CreatedAt) < domain.ResendCooldown {
			return ErrResendCooldown
		}

		// 2. The rolling ceiling still applies to re-issuance.
		count, err := tx.SignupAttempts().CountSignupAttemptsByEmailSince(ctx, a.Email, now.Add(-domain.RateWindow))
		if err != nil {
			return err
		}
		if count > domain.RateCeiling {
			return ErrTooManyAttempts
		}

		email = a.Email
		return tx.SignupAttempts().RefreshSignupAttempt(ctx, a.ID, codeHash, now, now.Add(domain.CodeValidity))
	})
	if err != nil {
		if errors.Is(err, store.ErrStale) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}

	if err := s.Mailer.SendCode(ctx, email, code, mailx.PurposeSignup, domain.CodeValidity); err != nil {
		l.Error("signup code dispatch failed", slog.Any("error", err), slog.String("attempt_id", attemptID))
	}

	s.publish(ctx, eventx.Event{
		Type:       eventx.TypeSignupStarted,
		OccurredAt: now,
		Email:      email,
		Attributes: map[string]string{"resend": "true"},
	})

	return &StartResult{AttemptID: attemptID, ValidFor: domain.CodeValidity}, nil
}

// CompleteSignup checks the submitted code and, on the first match,
// provisions the tenant and its owner user in the same transaction as the
// completion flip. If provisioning fails the flip rolls back and the code
// stays redeemable.
func (s *SignupService) CompleteSignup(ctx context.Context, attemptID, code string) (*SignupResult, error) {
	now := time.Now().UTC()
	l := slogx.FromContext(ctx)

	if err := validateCodeFormat(code); err != nil {
		return nil, err
	}

	var result *SignupResult
	var email string

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		a, err := tx.SignupAttempts().GetSignupAttemptByID(ctx, attemptID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAttemptNotFound
			}
			return err
		}

		switch a.Status(now) {
		case domain.AttemptVerified:
			// Already used. Provisioning ran exactly once, earlier.
			return ErrAttemptNotFound
		case domain.AttemptExpired:
			l.Info("signup code rejected: expired", slog.String("attempt_id", a.ID))
			return ErrCodeRejected
		case domain.AttemptExhausted:
			// No hash comparison once retries are burned.
			l.Info("signup code rejected: retries exhausted", slog.String("attempt_id", a.ID))
			return ErrCodeRejected
		}

		if err := cryptox.VerifyCode(code, a.CodeHash); err != nil {
			if !errors.Is(err, cryptox.ErrCodeMismatch) {
				return err
			}
			// Consume a retry, guarded on the count we read. Losing the
			// guard race is fine, someone else consumed it first.
			if err := tx.SignupAttempts().IncrementSignupRetry(ctx, a.ID, a.RetryCount); err != nil && !errors.Is(err, store.ErrStale) {
				return err
			}
			l.Info("signup code rejected: mismatch", slog.String("attempt_id", a.ID))
			return ErrCodeRejected
		}

		// Flip completed with the optimistic predicate. At most one caller
		// gets past this line for a given attempt.
		if err := tx.SignupAttempts().CompleteSignupAttempt(ctx, a.ID, a.RetryCount); err != nil {
			if errors.Is(err, store.ErrStale) {
				return ErrAttemptNotFound
			}
			return err
		}

		// Provisioning shares the transaction: a failure here rolls the
		// completed flag back.
		userID := idx.New().String()
		tenantID := idx.New().String()

		tenant := domain.Tenant{
			ID:          tenantID,
			Name:        defaultTenantName(a.Email),
			State:       domain.TenantActive,
			OwnerUserID: userID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Tenants().CreateTenant(ctx, tenant); err != nil {
			return err
		}

		owner := domain.User{
			ID:        userID,
			TenantID:  tenantID,
			Email:     a.Email,
			Role:      domain.RoleOwner,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Users().CreateUser(ctx, owner); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}

		email = a.Email
		result = &SignupResult{TenantID: tenantID, UserID: userID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, eventx.Event{
		Type:       eventx.TypeSignupCompleted,
		OccurredAt: now,
		TenantID:   result.TenantID,
		UserID:     result.UserID,
		Email:      email,
	})

	return result, nil
}

// publish emits telemetry. Event failures never fail the operation.
func (s *SignupService) publish(ctx context.Context, e eventx.Event) {
	if err := s.Events.Publish(ctx, e); err != nil {
		slogx.FromContext(ctx).Warn("event publish failed", slog.String("type", e.Type), slog.Any("error", err))
	}
}

// defaultTenantName derives a workspace name from the email's domain,
// "acme" for alice@acme.com. Owners rename it later via the tenant API.
func defaultTenantName(email string) string {
	_, domainPart, ok := strings.Cut(email, "@")
	if !ok || domainPart == "" {
		return email
	}
	name, _, _ := strings.Cut(domainPart, ".")
	if name == "" {
		return domainPart
	}
	return name
}
