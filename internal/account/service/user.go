package service

import (
	"context"
	"errors"

	"github.com/atriumhq/atrium/internal/account/domain"
	"github.com/atriumhq/atrium/internal/account/store"
)

const defaultUserPageSize = 50

// UserService is tenant-scoped user administration. Role checks on the
// caller happen in middleware; the rules here protect the tenant model
// itself (exactly one owner, owners cannot be demoted or removed).
type UserService struct {
	Store    store.Store
	Sessions *SessionService
}

// Me returns the user by id.
func (s *UserService) Me(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// Get returns a tenant member by id. Ids from other tenants look like
// missing ids.
func (s *UserService) Get(ctx context.Context, tenantID, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	if u.TenantID != tenantID {
		return domain.User{}, ErrUserNotFound
	}
	return u, nil
}

// List returns a page of the tenant's users plus the cursor for the next
// page, empty when there is none.
func (s *UserService) List(ctx context.Context, tenantID, afterID string, limit int) ([]domain.User, string, error) {
	if limit <= 0 || limit > defaultUserPageSize {
		limit = defaultUserPageSize
	}

	// Fetch one extra row to learn whether another page exists.
	users, err := s.Store.Users().ListUsersByTenant(ctx, tenantID, afterID, limit+1)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(users) > limit {
		users = users[:limit]
		next = users[limit-1].ID
	}
	return users, next, nil
}

// UpdateRole moves a user between admin and member. The owner role is
// assigned by signup provisioning and is not reachable from here, in either
// direction. Active sessions are revoked so stale role claims die with
// the access token TTL.
func (s *UserService) UpdateRole(ctx context.Context, tenantID, targetUserID string, role domain.Role) (domain.User, error) {
	if !domain.ValidRole(role) || role == domain.RoleOwner {
		return domain.User{}, ErrInvalidRole
	}

	var updated domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, targetUserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if u.TenantID != tenantID {
			// Cross-tenant ids look like missing ids.
			return ErrUserNotFound
		}
		if u.Role == domain.RoleOwner {
			return ErrForbidden
		}

		if err := tx.Users().UpdateUserRole(ctx, u.ID, role); err != nil {
			return err
		}
		if err := s.Sessions.RevokeUserSessions(ctx, tx, u.ID); err != nil {
			return err
		}

		u.Role = role
		updated = u
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return updated, nil
}

// Remove deletes a user from the tenant. Self-removal and owner removal are
// refused; refresh tokens go with the row via the schema cascade.
func (s *UserService) Remove(ctx context.Context, tenantID, actorUserID, targetUserID string) error {
	if targetUserID == actorUserID {
		return ErrForbidden
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, targetUserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if u.TenantID != tenantID {
			return ErrUserNotFound
		}
		if u.Role == domain.RoleOwner {
			return ErrForbidden
		}

		return tx.Users().DeleteUser(ctx, u.ID)
	})
}
