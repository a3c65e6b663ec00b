package service

import (
	"context"
	"errors"
	"strings"

	"github.com/atriumhq/atrium/internal/account/domain"
	"github.com/atriumhq/atrium/internal/account/store"
)

const maxTenantNameLength = 64

// TenantService covers the small amount of tenant administration the
// account surface exposes.
type TenantService struct {
	Store store.Store
}

// Get returns the tenant by id.
func (s *TenantService) Get(ctx context.Context, tenantID string) (domain.Tenant, error) {
	t, err := s.Store.Tenants().GetTenantByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Tenant{}, ErrTenantNotFound
		}
		return domain.Tenant{}, err
	}
	return t, nil
}

// UpdateName renames the tenant. The provisioning default is derived from
// the owner's email domain, so this is usually the first thing owners do.
func (s *TenantService) UpdateName(ctx context.Context, tenantID, name string) (domain.Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxTenantNameLength {
		return domain.Tenant{}, ErrInvalidTenantName
	}

	err := s.Store.Tenants().UpdateTenantName(ctx, tenantID, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Tenant{}, ErrTenantNotFound
		}
		return domain.Tenant{}, err
	}
	return s.Get(ctx, tenantID)
}

// Suspend blocks new logins and refreshes for the tenant's users. Existing
// access tokens ride out their short TTL.
func (s *TenantService) Suspend(ctx context.Context, tenantID string) error {
	return s.setState(ctx, tenantID, domain.TenantSuspended)
}

// Resume reactivates a suspended tenant.
func (s *TenantService) Resume(ctx context.Context, tenantID string) error {
	return s.setState(ctx, tenantID, domain.TenantActive)
}

func (s *TenantService) setState(ctx context.Context, tenantID string, state domain.TenantState) error {
	err := s.Store.Tenants().UpdateTenantState(ctx, tenantID, state)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTenantNotFound
	}
	return err
}
