// Package accountapi holds the wire types for the account service HTTP API
// and a small client for it. The server handlers import the types and error
// values; the client exists for integration tests and service consumers.
package accountapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is an HTTP client for the account service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates an account service client with a sane default timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ============================================================================
// Signup
// ============================================================================

func (c *Client) StartSignup(ctx context.Context, email string) (*StartSignupResponse, error) {
	var out StartSignupResponse
	err := c.postJSON(ctx, "/v1/signup", StartSignupRequest{Email: email}, &out, http.StatusAccepted)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResendSignupCode(ctx context.Context, attemptID string) (*ResendSignupResponse, error) {
	var out ResendSignupResponse
	err := c.postJSON(ctx, "/v1/signup/resend", ResendSignupRequest{AttemptID: attemptID}, &out, http.StatusAccepted)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompleteSignup(ctx context.Context, attemptID, code string) (*CompleteSignupResponse, error) {
	var out CompleteSignupResponse
	req := CompleteSignupRequest{AttemptID: attemptID, Code: code}
	if err := c.postJSON(ctx, "/v1/signup/complete", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Login
// ============================================================================

func (c *Client) StartLogin(ctx context.Context, email string) (*StartLoginResponse, error) {
	var out StartLoginResponse
	err := c.postJSON(ctx, "/v1/login", StartLoginRequest{Email: email}, &out, http.StatusAccepted)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResendLoginCode(ctx context.Context, attemptID string) (*ResendLoginResponse, error) {
	var out ResendLoginResponse
	err := c.postJSON(ctx, "/v1/login/resend", ResendLoginRequest{AttemptID: attemptID}, &out, http.StatusAccepted)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompleteLogin(ctx context.Context, attemptID, code string) (*CompleteLoginResponse, error) {
	var out CompleteLoginResponse
	req := CompleteLoginRequest{AttemptID: attemptID, Code: code}
	if err := c.postJSON(ctx, "/v1/login/complete", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Sessions
// ============================================================================

func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*RefreshSessionResponse, error) {
	var out RefreshSessionResponse
	req := RefreshSessionRequest{RefreshToken: refreshToken}
	if err := c.postJSON(ctx, "/v1/sessions/refresh", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) error {
	body, err := json.Marshal(LogoutRequest{RefreshToken: refreshToken})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/sessions/logout", bytes.NewReader(body), map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + accessToken,
	})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// ============================================================================
// Tenants and users (authenticated)
// ============================================================================

func (c *Client) CurrentTenant(ctx context.Context, accessToken string) (*Tenant, error) {
	var out Tenant
	if err := c.getJSON(ctx, "/v1/tenants/current", accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context, accessToken string) (*User, error) {
	var out User
	if err := c.getJSON(ctx, "/v1/users/me", accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListUsers(ctx context.Context, accessToken, cursor string) (*UserList, error) {
	path := "/v1/users"
	if cursor != "" {
		path += "?cursor=" + cursor
	}
	var out UserList
	if err := c.getJSON(ctx, path, accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUser fetches one of the tenant's users by id.
func (c *Client) GetUser(ctx context.Context, accessToken, userID string) (*User, error) {
	var out User
	if err := c.getJSON(ctx, "/v1/users/"+userID, accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTenant renames the caller's tenant. Owner only.
func (c *Client) UpdateTenant(ctx context.Context, accessToken, name string) (*Tenant, error) {
	var out Tenant
	err := c.putJSON(ctx, "/v1/tenants/current", accessToken, UpdateTenantRequest{Name: name}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUserRole changes a member's role. Admin or owner only; the owner
// role itself cannot be assigned.
func (c *Client) UpdateUserRole(ctx context.Context, accessToken, userID, role string) (*User, error) {
	var out User
	err := c.putJSON(ctx, "/v1/users/"+userID+"/role", accessToken, UpdateUserRoleRequest{Role: role}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveUser deletes a member from the caller's tenant. Admin or owner only;
// neither the owner nor the caller themselves can be removed.
func (c *Client) RemoveUser(ctx context.Context, accessToken, userID string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/v1/users/"+userID, nil, map[string]string{
		"Authorization": "Bearer " + accessToken,
	})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// ============================================================================
// Health
// ============================================================================

func (c *Client) Livez(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/livez", nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, body)
	}
	return nil
}

func (c *Client) Readyz(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/readyz", nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, body)
	}
	return nil
}

// ============================================================================
// Plumbing
// ============================================================================

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

func (c *Client) doRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any, expectedStatus int) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, path, bytes.NewReader(body), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return err
	}
	return decodeJSON(resp, out, expectedStatus)
}

func (c *Client) putJSON(ctx context.Context, path, accessToken string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPut, path, bytes.NewReader(body), map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + accessToken,
	})
	if err != nil {
		return err
	}
	return decodeJSON(resp, out, http.StatusOK)
}

func (c *Client) getJSON(ctx context.Context, path, accessToken string, out any) error {
	headers := map[string]string{}
	if accessToken != "" {
		headers["Authorization"] = "Bearer " + accessToken
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, headers)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out, http.StatusOK)
}

// decodeJSON decodes a JSON response into the target, returning a typed
// *APIError when the status code does not match.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// checkStatusNoContent returns a typed error if the response status is not
// 204 No Content.
func checkStatusNoContent(resp *http.Response) error {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, bodyBytes)
	}
	return nil
}
