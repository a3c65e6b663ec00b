package domain

import "time"

// TenantState gates what a tenant's users can do. Suspended tenants keep
// their data but their users cannot start new logins.
type TenantState string

const (
	TenantActive    TenantState = "active"
	TenantSuspended TenantState = "suspended"
)

type Tenant struct {
	ID          string
	Name        string
	State       TenantState
	OwnerUserID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
