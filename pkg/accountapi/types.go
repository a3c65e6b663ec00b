package accountapi

// Request and response shapes for the account service HTTP API.
// These types are shared between the server handlers and the SDK client so
// the wire contract lives in one place.

// ============================================================================
// Signup
// ============================================================================

// StartSignupRequest begins a signup flow for a new workspace.
type StartSignupRequest struct {
	Email string `json:"email"`
}

// StartSignupResponse returns the attempt handle. The code itself is only
// ever delivered by email.
type StartSignupResponse struct {
	AttemptID       string `json:"attempt_id"`
	ValidForSeconds int    `json:"valid_for_seconds"`
}

// ResendSignupRequest re-issues the code for an in-flight signup attempt.
type ResendSignupRequest struct {
	AttemptID string `json:"attempt_id"`
}

// ResendSignupResponse mirrors StartSignupResponse with the refreshed window.
type ResendSignupResponse struct {
	AttemptID       string `json:"attempt_id"`
	ValidForSeconds int    `json:"valid_for_seconds"`
}

// CompleteSignupRequest submits the emailed code.
type CompleteSignupRequest struct {
	AttemptID string `json:"attempt_id"`
	Code      string `json:"code"`
}

// CompleteSignupResponse reports the provisioned tenant and owner user.
type CompleteSignupResponse struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
}

// ============================================================================
// Login
// ============================================================================

type StartLoginRequest struct {
	Email string `json:"email"`
}

type StartLoginResponse struct {
	AttemptID       string `json:"attempt_id"`
	ValidForSeconds int    `json:"valid_for_seconds"`
}

type ResendLoginRequest struct {
	AttemptID string `json:"attempt_id"`
}

type ResendLoginResponse struct {
	AttemptID       string `json:"attempt_id"`
	ValidForSeconds int    `json:"valid_for_seconds"`
}

type CompleteLoginRequest struct {
	AttemptID string `json:"attempt_id"`
	Code      string `json:"code"`
}

// CompleteLoginResponse carries the issued session.
type CompleteLoginResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	TenantID     string `json:"tenant_id"`
	UserID       string `json:"user_id"`
}

// ============================================================================
// Sessions
// ============================================================================

type RefreshSessionRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshSessionResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ============================================================================
// Tenants and users
// ============================================================================

type Tenant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	State     string `json:"state"`
	OwnerID   string `json:"owner_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type UpdateTenantRequest struct {
	Name string `json:"name"`
}

type User struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenant_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type UserList struct {
	Users      []User `json:"users"`
	NextCursor string `json:"next_cursor,omitempty"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

// ============================================================================
// Health
// ============================================================================

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks breaks readiness down by dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
