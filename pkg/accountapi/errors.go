package accountapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/atriumhq/atrium/pkg/httpx"
)

// Error codes returned by the account service. The verification failure
// modes (wrong code, expired, exhausted) deliberately share one code so the
// response does not reveal which guard rejected the attempt.
const (
	ErrorCodeInvalidRequest  = "invalid_request"
	ErrorCodeConflict        = "conflict"
	ErrorCodeTooManyRequests = "too_many_requests"
	ErrorCodeNotFound        = "not_found"
	ErrorCodeInvalidCode     = "invalid_code"
	ErrorCodeInvalidToken    = "invalid_token"
	ErrorCodeForbidden       = "forbidden"
	ErrorCodeServerError     = "server_error"
)

// APIError is the JSON error envelope used by every endpoint. It implements
// the error interface and is shared by the server (to write responses) and
// the SDK client (to represent failures).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// RetryAfterSeconds, when non-zero, becomes a Retry-After header.
	RetryAfterSeconds int `json:"-"`

	// Code is the machine-readable error code
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	if e.RetryAfterSeconds > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(e.RetryAfterSeconds))
	}
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// Predefined errors matching the service taxonomy.
var (
	// ErrInvalidRequest is returned for malformed bodies and invalid emails.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrAttemptConflict is returned when a live attempt already exists for
	// the email.
	ErrAttemptConflict = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "a verification is already in progress for this email",
	}

	// ErrThrottled is returned when the rolling attempt ceiling is hit.
	ErrThrottled = &APIError{
		StatusCode:        http.StatusTooManyRequests,
		RetryAfterSeconds: 3600,
		Code:              ErrorCodeTooManyRequests,
		Description:       "too many verification attempts, try again later",
	}

	// ErrResendTooSoon is returned when a resend lands inside the cooldown.
	ErrResendTooSoon = &APIError{
		StatusCode:        http.StatusTooManyRequests,
		RetryAfterSeconds: 30,
		Code:              ErrorCodeTooManyRequests,
		Description:       "a code was sent recently, wait before requesting another",
	}

	// ErrNotFound is returned for unknown or already-completed attempts and
	// missing resources generally.
	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "not found",
	}

	// ErrCodeRejected is returned when a submitted code cannot be accepted.
	// Wrong, expired and exhausted all look the same from the outside.
	ErrCodeRejected = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidCode,
		Description: "the code is wrong or no longer valid",
	}

	// ErrInvalidToken is returned when a refresh token is unknown, expired
	// or already rotated.
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the token is invalid, expired or revoked",
	}

	// ErrForbidden is returned when the operation is not permitted on the
	// target, owner demotion for example.
	ErrForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "operation not permitted",
	}

	// ErrServerError is the fallback for unexpected failures.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}

	// ErrMethodNotAllowed is returned when the HTTP method is not allowed.
	ErrMethodNotAllowed = &APIError{
		StatusCode:  http.StatusMethodNotAllowed,
		Code:        ErrorCodeInvalidRequest,
		Description: "method not allowed",
	}
)

// NewAPIError creates an APIError with a custom description.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// parseErrorResponse turns a non-2xx HTTP response into a typed *APIError.
// Returns nil for 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var envelope struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		apiErr := &APIError{
			StatusCode:  resp.StatusCode,
			Code:        envelope.Error,
			Description: envelope.ErrorDescription,
		}
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil {
				apiErr.RetryAfterSeconds = secs
			}
		}
		return apiErr
	}

	// Fallback: create generic error from status code
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
