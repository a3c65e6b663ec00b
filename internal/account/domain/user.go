package domain

import "time"

// Role is a user's standing within their tenant. Owner is held by exactly
// one user per tenant, the one who completed signup.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

type User struct {
	ID        string
	TenantID  string
	Email     string // normalized: trimmed, lowercased
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
