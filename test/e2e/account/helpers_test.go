package account_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/atriumhq/atrium/pkg/accountapi"
)

/*
 * Common constants and helper functions for account service end-to-end tests.
 * This includes container setup, service operations, and assertions.
 *
 * Verification codes are delivered out of band (the container runs with the
 * log mailer), so these tests exercise the guard paths of the flows: input
 * validation, conflict and throttle responses, code rejection and the public
 * endpoints. The full happy paths live in the service tests, which read the
 * issued codes from a capture mailer.
 */

const testImageName = "atrium-account-test:latest"

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Account Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Account Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

// buildDockerImage builds the test Docker image if it doesn't exist.
func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/account/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

// cleanupDockerImage removes the test Docker image.
func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupAccountContainer starts the account service in a container and returns
// the base URL. Rate limits are raised well above the defaults so that rapid
// test requests never trip the per-IP limiter; the in-database attempt
// ceiling is unaffected and still enforced.
func setupAccountContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"ACCOUNT_DATABASE_FILE":       "/account.db",
			"ACCOUNT_PEPPER_FILE":         "/pepper",
			"ACCOUNT_ISSUER":              "atrium-account",
			"MAIL_MODE":                   "log",
			"ENV":                         "test",
			"LOG_LEVEL":                   "info",
			"LOG_FORMAT":                  "json",
			"RATELIMIT_STRICT_REQUESTS":   "1000",
			"RATELIMIT_STRICT_WINDOW_SEC": "60",
			"RATELIMIT_STRICT_BURST":      "1000",
			"RATELIMIT_MODERATE_REQUESTS": "1000",
			"RATELIMIT_MODERATE_BURST":    "1000",
			"RATELIMIT_PUBLIC_REQUESTS":   "1000",
			"RATELIMIT_PUBLIC_BURST":      "1000",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// setupAccountContainerWithDefaultRateLimits starts the account service with
// DEFAULT rate limits. This is specifically for testing that rate limiting
// actually works. Most tests should use setupAccountContainer(), which has
// relaxed limits to prevent test failures.
func setupAccountContainerWithDefaultRateLimits(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"ACCOUNT_DATABASE_FILE": "/account.db",
			"ACCOUNT_PEPPER_FILE":   "/pepper",
			"ACCOUNT_ISSUER":        "atrium-account",
			"MAIL_MODE":             "log",
			"ENV":                   "test",
			"LOG_LEVEL":             "info",
			"LOG_FORMAT":            "json",
			// No rate limit overrides, production defaults apply.
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// requireAPIError asserts that err is an *accountapi.APIError with the given
// status and error code.
func requireAPIError(t *testing.T, err error, status int, code string) *accountapi.APIError {
	t.Helper()
	require.Error(t, err)

	apiErr := &accountapi.APIError{}
	require.ErrorAs(t, err, &apiErr, "expected an API error, got: %v", err)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}

// requireStatus asserts only the HTTP status of an API error. Authentication
// failures from the bearer middleware carry the error in a WWW-Authenticate
// header rather than a JSON body, so there is no error code to compare.
func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)

	apiErr := &accountapi.APIError{}
	require.ErrorAs(t, err, &apiErr, "expected an API error, got: %v", err)
	require.Equal(t, status, apiErr.StatusCode)
}
