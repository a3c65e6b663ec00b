package sqlite

import (
	"context"

	"github.com/atriumhq/atrium/internal/account/domain"
)

type tenantsRepo struct {
	db dbtx
}

func (r *tenantsRepo) CreateTenant(ctx context.Context, t domain.Tenant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tenants (id, name, state, owner_user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, string(t.State), t.OwnerUserID, t.CreatedAt, t.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *tenantsRepo) GetTenantByID(ctx context.Context, id string) (domain.Tenant, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, state, owner_user_id, created_at, updated_at
		FROM tenants WHERE id = ?`, id)

	var t domain.Tenant
	var state string
	err := row.Scan(&t.ID, &t.Name, &state, &t.OwnerUserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Tenant{}, mapNotFound(err)
	}
	t.State = domain.TenantState(state)
	return t, nil
}

func (r *tenantsRepo) UpdateTenantName(ctx context.Context, tenantID, name string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tenants SET name = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, name, tenantID)
	return affectedOrNotFound(res, err)
}

func (r *tenantsRepo) UpdateTenantState(ctx context.Context, tenantID string, state domain.TenantState) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tenants SET state = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, string(state), tenantID)
	return affectedOrNotFound(res, err)
}
