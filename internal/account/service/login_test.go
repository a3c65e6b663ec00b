package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atriumhq/atrium/internal/account/domain"
	"github.com/atriumhq/atrium/pkg/cryptox"
	"github.com/atriumhq/atrium/pkg/eventx"
	"github.com/atriumhq/atrium/pkg/idx"
)

// seedLoginAttempt mirrors seedSignupAttempt for the login table.
func seedLoginAttempt(t *testing.T, env *testEnv, email, userID, tenantID, code string, createdAt time.Time) domain.LoginAttempt {
	t.Helper()

	hash, err := cryptox.HashCode(code)
	require.NoError(t, err)

	a := domain.LoginAttempt{
		ID:         idx.New().String(),
		Email:      email,
		UserID:     userID,
		TenantID:   tenantID,
		CodeHash:   hash,
		CreatedAt:  createdAt,
		ValidUntil: createdAt.Add(domain.CodeValidity),
	}
	require.NoError(t, env.store.LoginAttempts().CreateLoginAttempt(context.Background(), a))
	return a
}

func TestStartLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.login.StartLogin(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
	require.Zero(t, env.mailer.count())
}

func TestStartLoginSuspendedTenant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tenantID, _ := env.provisionAccount(t, "alice@example.com")
	require.NoError(t, env.tenants.Suspend(ctx, tenantID))

	_, err := env.login.StartLogin(ctx, "alice@example.com")
	require.ErrorIs(t, err, ErrTenantSuspended)
}

func TestStartLoginIssuesCodeBoundToUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tenantID, userID := env.provisionAccount(t, "alice@example.com")

	start, err := env.login.StartLogin(ctx, "alice@example.com")
	require.NoError(t, err)

	a, err := env.store.LoginAttempts().GetLoginAttemptByID(ctx, start.AttemptID)
	require.NoError(t, err)
	require.Equal(t, userID, a.UserID)
	require.Equal(t, tenantID, a.TenantID)

	require.Len(t, env.events.ByType(eventx.TypeLoginStarted), 1)
}

func TestStartLoginDuplicateInFlight(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.provisionAccount(t, "alice@example.com")

	_, err := env.login.StartLogin(ctx, "alice@example.com")
	require.NoError(t, err)

	_, err = env.login.StartLogin(ctx, "alice@example.com")
	require.ErrorIs(t, err, ErrAttemptInFlight)
}

func TestStartLoginRollingCeiling(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, userID := env.provisionAccount(t, "alice@example.com")
	u, err := env.store.Users().GetUserByID(ctx, userID)
	require.NoError(t, err)

	for i := 0; i < domain.RateCeiling; i++ {
		seedLoginAttempt(t, env, u.Email, u.ID, u.TenantID, "111111", now.Add(-time.Duration(i+1)*time.Hour))
	}

	mailsBefore := env.mailer.count()
	_, err = env.login.StartLogin(ctx, "alice@example.com")
	require.ErrorIs(t, err, ErrTooManyAttempts)
	require.Equal(t, mailsBefore, env.mailer.count())

	// Signup rows for the same address do not feed the login ceiling: the
	// single signup attempt above never counted here.
	count, err := env.store.LoginAttempts().CountLoginAttemptsByEmailSince(ctx, u.Email, time.Time{})
	require.NoError(t, err)
	require.Equal(t, domain.RateCeiling, count)
}

func TestCompleteLoginMintsSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tenantID, userID := env.provisionAccount(t, "alice@example.com")

	start, err := env.login.StartLogin(ctx, "alice@example.com")
	require.NoError(t, err)

	res, err := env.login.CompleteLogin(ctx, start.AttemptID, env.mailer.last().Code)
	require.NoError(t, err)
	require.Equal(t, tenantID, res.TenantID)
	require.Equal(t, userID, res.UserID)
	require.Equal(t, "Bearer", res.Tokens.TokenType)
	require.NotEmpty(t, res.Tokens.RefreshToken)

	claims, err := env.verifier.Verify(res.Tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, userID, claims.Subject)
	require.Equal(t, tenantID, claims.TenantID)
	require.Equal(t, string(domain.RoleOwner), claims.Role)
	require.Equal(t, []string{"otp"}, claims.AMR)
	require.NotEmpty(t, claims.SID)

	rec, err := env.store.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(res.Tokens.RefreshToken))
	require.NoError(t, err)
	require.Equal(t, userID, rec.UserID)
	require.False(t, rec.Revoked)

	require.Len(t, env.events.ByType(eventx.TypeLoginCompleted), 1)
}

func TestCompleteLoginIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.provisionAccount(t, "alice@example.com")

	start, err := env.login.StartLogin(ctx, "alice@example.com")
	require.NoError(t, err)
	code := env.mailer.last().Code

	_, err = env.login.CompleteLogin(ctx, start.AttemptID, code)
	require.NoError(t, err)

	_, err = env.login.CompleteLogin(ctx, start.AttemptID, code)
	require.ErrorIs(t, err, ErrAttemptNotFound)

	// One completion, one session.
	require.Len(t, env.events.ByType(eventx.TypeLoginCompleted), 1)
}

func TestCompleteLoginWrongCodesThenExhausted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.provisionAccount(t, "alice@example.com")

	start, err := env.login.StartLogin(ctx, "alice@example.com")
	require.NoError(t, err)
	correct := env.mailer.last().Code

	wrong := "000000"
	if wrong == correct {
		wrong = "000001"
	}

	for i := 0; i < domain.MaxRetries; i++ {
		_, err := env.login.CompleteLogin(ctx, start.AttemptID, wrong)
		require.ErrorIs(t, err, ErrCodeRejected)
	}

	_, err = env.login.CompleteLogin(ctx, start.AttemptID, correct)
	require.ErrorIs(t, err, ErrCodeRejected)
	require.Empty(t, env.events.ByType(eventx.TypeLoginCompleted))
}

func TestCompleteLoginSuspendedMidFlight(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tenantID, _ := env.provisionAccount(t, "alice@example.com")

	start, err := env.login.StartLogin(ctx, "alice@example.com")
	require.NoError(t, err)
	code := env.mailer.last().Code

	// Tenant suspended between code dispatch and submission.
	require.NoError(t, env.tenants.Suspend(ctx, tenantID))

	_, err = env.login.CompleteLogin(ctx, start.AttemptID, code)
	require.ErrorIs(t, err, ErrTenantSuspended)

	// The failed minting rolled the completion back, so after the tenant
	// resumes the same code still redeems.
	require.NoError(t, env.tenants.Resume(ctx, tenantID))
	_, err = env.login.CompleteLogin(ctx, start.AttemptID, code)
	require.NoError(t, err)
}

func TestResendLoginCooldownAndReissue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, userID := env.provisionAccount(t, "alice@example.com")
	u, err := env.store.Users().GetUserByID(ctx, userID)
	require.NoError(t, err)

	start, err := env.login.StartLogin(ctx, "alice@example.com")
	require.NoError(t, err)

	_, err = env.login.ResendLoginCode(ctx, start.AttemptID)
	require.ErrorIs(t, err, ErrResendCooldown)

	// A seeded attempt past the cooldown re-issues.
	a := seedLoginAttempt(t, env, "bob@example.com", u.ID, u.TenantID, "123456", time.Now().UTC().Add(-2*domain.ResendCooldown))
	mailsBefore := env.mailer.count()
	_, err = env.login.ResendLoginCode(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, mailsBefore+1, env.mailer.count())
	require.Equal(t, "bob@example.com", env.mailer.last().To)
}
