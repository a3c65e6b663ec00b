package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atriumhq/atrium/internal/account/domain"
	"github.com/atriumhq/atrium/pkg/idx"
	"github.com/atriumhq/atrium/pkg/slogx"
)

// seedUser inserts a user row directly, bypassing the signup flow.
func seedUser(t *testing.T, env *testEnv, tenantID, email string, role domain.Role) domain.User {
	t.Helper()

	now := time.Now().UTC()
	u := domain.User{
		ID:        idx.New().String(),
		TenantID:  tenantID,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, env.store.Users().CreateUser(context.Background(), u))
	return u
}

func TestTenantRename(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tenantID, _ := env.provisionAccount(t, "alice@acme.com")

	got, err := env.tenants.UpdateName(ctx, tenantID, "  Acme Corp  ")
	require.NoError(t, err)
	require.Equal(t, "Acme Corp", got.Name)

	_, err = env.tenants.UpdateName(ctx, tenantID, "   ")
	require.ErrorIs(t, err, ErrInvalidTenantName)

	long := make([]byte, maxTenantNameLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = env.tenants.UpdateName(ctx, tenantID, string(long))
	require.ErrorIs(t, err, ErrInvalidTenantName)

	_, err = env.tenants.UpdateName(ctx, idx.New().String(), "Acme")
	require.ErrorIs(t, err, ErrTenantNotFound)
}

func TestUpdateRoleRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tenantID, ownerID := env.provisionAccount(t, "alice@example.com")
	member := seedUser(t, env, tenantID, "bob@example.com", domain.RoleMember)

	t.Run("member promoted to admin", func(t *testing.T) {
		got, err := env.users.UpdateRole(ctx, tenantID, member.ID, domain.RoleAdmin)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, got.Role)
	})

	t.Run("owner role is unreachable", func(t *testing.T) {
		_, err := env.users.UpdateRole(ctx, tenantID, member.ID, domain.RoleOwner)
		require.ErrorIs(t, err, ErrInvalidRole)

		_, err = env.users.UpdateRole(ctx, tenantID, member.ID, "superuser")
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("owner cannot be demoted", func(t *testing.T) {
		_, err := env.users.UpdateRole(ctx, tenantID, ownerID, domain.RoleMember)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("cross-tenant ids look missing", func(t *testing.T) {
		otherTenant, _ := env.provisionAccount(t, "carol@other.com")
		_, err := env.users.UpdateRole(ctx, otherTenant, member.ID, domain.RoleMember)
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUpdateRoleRevokesSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tenantID, _ := env.provisionAccount(t, "alice@example.com")
	seedUser(t, env, tenantID, "bob@example.com", domain.RoleMember)
	login := env.loginAccount(t, "bob@example.com")

	bob, err := env.store.Users().GetUserByEmail(ctx, "bob@example.com")
	require.NoError(t, err)

	_, err = env.users.UpdateRole(ctx, tenantID, bob.ID, domain.RoleAdmin)
	require.NoError(t, err)

	// The old session's refresh token died with the role change.
	_, err = env.sessions.Refresh(ctx, login.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestRemoveUserRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tenantID, ownerID := env.provisionAccount(t, "alice@example.com")
	member := seedUser(t, env, tenantID, "bob@example.com", domain.RoleMember)

	require.ErrorIs(t, env.users.Remove(ctx, tenantID, ownerID, ownerID), ErrForbidden)
	require.ErrorIs(t, env.users.Remove(ctx, tenantID, member.ID, ownerID), ErrForbidden)

	require.NoError(t, env.users.Remove(ctx, tenantID, ownerID, member.ID))
	_, err := env.users.Me(ctx, member.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserScopedToTenant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tenantID, _ := env.provisionAccount(t, "alice@example.com")
	otherTenantID, otherOwnerID := env.provisionAccount(t, "mallory@rival.com")
	member := seedUser(t, env, tenantID, "bob@example.com", domain.RoleMember)

	got, err := env.users.Get(ctx, tenantID, member.ID)
	require.NoError(t, err)
	require.Equal(t, member.Email, got.Email)

	// A valid id from another tenant is indistinguishable from a missing one.
	_, err = env.users.Get(ctx, tenantID, otherOwnerID)
	require.ErrorIs(t, err, ErrUserNotFound)
	_, err = env.users.Get(ctx, otherTenantID, member.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = env.users.Get(ctx, tenantID, "01K00000000000000000000000")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsersPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tenantID, _ := env.provisionAccount(t, "alice@example.com")
	seedUser(t, env, tenantID, "bob@example.com", domain.RoleMember)
	seedUser(t, env, tenantID, "carol@example.com", domain.RoleMember)

	page1, next, err := env.users.List(ctx, tenantID, "", 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotEmpty(t, next)

	page2, next2, err := env.users.List(ctx, tenantID, next, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	require.Empty(t, next2)

	seen := map[string]bool{}
	for _, u := range append(page1, page2...) {
		seen[u.ID] = true
	}
	require.Len(t, seen, 3)
}

func TestHousekeepingPurgesAgedRows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// One attempt inside the rate window, one beyond it.
	keep := seedSignupAttempt(t, env, "alice@example.com", "111111", now.Add(-time.Hour))
	gone := seedSignupAttempt(t, env, "alice@example.com", "111111", now.Add(-domain.RateWindow-time.Hour))

	hk := NewHousekeepingService(env.store, slogx.Discard(), time.Hour)
	hk.cleanup()

	_, err := env.store.SignupAttempts().GetSignupAttemptByID(ctx, keep.ID)
	require.NoError(t, err)
	_, err = env.store.SignupAttempts().GetSignupAttemptByID(ctx, gone.ID)
	require.Error(t, err)
}
