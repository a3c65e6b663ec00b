package account_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atriumhq/atrium/pkg/accountapi"
)

// TestRefreshRejectsUnknownToken verifies an unrecognized refresh token is a
// 401 invalid_token, not a 404, so callers cannot probe for token existence.
func TestRefreshRejectsUnknownToken(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	client := accountapi.NewClient(baseURL)

	_, err := client.RefreshSession(t.Context(), "definitely-not-a-token")
	requireAPIError(t, err, http.StatusUnauthorized, accountapi.ErrorCodeInvalidToken)
}

// TestRefreshRejectsEmptyBody verifies a missing refresh token is a 400.
func TestRefreshRejectsEmptyBody(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	client := accountapi.NewClient(baseURL)

	_, err := client.RefreshSession(t.Context(), "")
	requireAPIError(t, err, http.StatusBadRequest, accountapi.ErrorCodeInvalidRequest)
}

// TestLogoutRequiresAuthentication verifies logout is gated on a valid
// access token.
func TestLogoutRequiresAuthentication(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	client := accountapi.NewClient(baseURL)

	err := client.Logout(t.Context(), "not-a-jwt", "whatever")
	requireStatus(t, err, http.StatusUnauthorized)
}

// TestAuthenticatedEndpointsRejectAnonymous verifies the tenant and user
// surfaces demand a bearer token.
func TestAuthenticatedEndpointsRejectAnonymous(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	client := accountapi.NewClient(baseURL)

	_, err := client.CurrentTenant(t.Context(), "")
	requireStatus(t, err, http.StatusUnauthorized)

	_, err = client.Me(t.Context(), "")
	requireStatus(t, err, http.StatusUnauthorized)

	_, err = client.ListUsers(t.Context(), "", "")
	requireStatus(t, err, http.StatusUnauthorized)
}

// TestHealthEndpoints verifies the liveness and readiness checks pass on a
// freshly started container.
func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	client := accountapi.NewClient(baseURL)

	require.NoError(t, client.Livez(t.Context()))
	require.NoError(t, client.Readyz(t.Context()))
}

// TestJWKSEndpoint verifies signing keys are published for verifiers.
func TestJWKSEndpoint(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	resp, err := http.Get(baseURL + "/.well-known/jwks.json")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "application/json")
}
