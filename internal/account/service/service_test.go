package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atriumhq/atrium/internal/account/store/drivers/sqlite"
	"github.com/atriumhq/atrium/pkg/cryptox"
	"github.com/atriumhq/atrium/pkg/eventx"
	"github.com/atriumhq/atrium/pkg/jwtx"
	"github.com/atriumhq/atrium/pkg/mailx"
)

func TestMain(m *testing.M) {
	// Code hashing peppers from a throwaway file so tests never touch a
	// real pepper.
	dir, err := os.MkdirTemp("", "service-pepper-*")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// captureMailer records every code dispatch instead of sending it.
type captureMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	To      string
	Code    string
	Purpose mailx.Purpose
}

func (m *captureMailer) SendCode(_ context.Context, to, code string, purpose mailx.Purpose, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Code: code, Purpose: purpose})
	return nil
}

func (m *captureMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *captureMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

// testEnv wires the full service stack onto an in-memory sqlite store.
type testEnv struct {
	store    *sqlite.Store
	mailer   *captureMailer
	events   *eventx.MemoryPublisher
	verifier jwtx.Verifier

	signup   *SignupService
	login    *LoginService
	sessions *SessionService
	tenants  *TenantService
	users    *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pem, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test-key", pem)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	mailer := &captureMailer{}
	events := eventx.NewMemoryPublisher()

	sessions := &SessionService{
		Store:      st,
		Signer:     signer,
		Issuer:     "test-issuer",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
		Events:     events,
	}

	return &testEnv{
		store:    st,
		mailer:   mailer,
		events:   events,
		verifier: jwtx.NewVerifierEdDSA(keys, "test-issuer"),
		signup:   &SignupService{Store: st, Mailer: mailer, Events: events},
		login:    &LoginService{Store: st, Mailer: mailer, Events: events, Sessions: sessions},
		sessions: sessions,
		tenants:  &TenantService{Store: st},
		users:    &UserService{Store: st, Sessions: sessions},
	}
}

// provisionAccount runs a full signup flow and returns the provisioned ids.
func (e *testEnv) provisionAccount(t *testing.T, email string) (tenantID, userID string) {
	t.Helper()
	ctx := context.Background()

	start, err := e.signup.StartSignup(ctx, email)
	require.NoError(t, err)

	res, err := e.signup.CompleteSignup(ctx, start.AttemptID, e.mailer.last().Code)
	require.NoError(t, err)
	return res.TenantID, res.UserID
}

// loginAccount runs a full login flow for an existing account.
func (e *testEnv) loginAccount(t *testing.T, email string) *LoginResult {
	t.Helper()
	ctx := context.Background()

	start, err := e.login.StartLogin(ctx, email)
	require.NoError(t, err)

	res, err := e.login.CompleteLogin(ctx, start.AttemptID, e.mailer.last().Code)
	require.NoError(t, err)
	return res
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	t.Run("trims and lowercases", func(t *testing.T) {
		got, err := normalizeEmail("  Alice@Example.COM ")
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", got)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "not-an-email", "a@", "@b.com", "Alice <alice@example.com>"} {
			_, err := normalizeEmail(raw)
			require.ErrorIs(t, err, ErrInvalidEmail, "input %q", raw)
		}
	})

	t.Run("rejects overlong addresses", func(t *testing.T) {
		local := make([]byte, maxEmailLength)
		for i := range local {
			local[i] = 'a'
		}
		_, err := normalizeEmail(string(local) + "@example.com")
		require.ErrorIs(t, err, ErrInvalidEmail)
	})
}

func TestValidateCodeFormat(t *testing.T) {
	t.Parallel()

	require.NoError(t, validateCodeFormat("000000"))
	require.NoError(t, validateCodeFormat("123456"))

	for _, code := range []string{"", "12345", "1234567", "12a456", "12 456", "١٢٣٤٥٦"} {
		require.ErrorIs(t, validateCodeFormat(code), ErrInvalidCode, "input %q", code)
	}
}

func TestDefaultTenantName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "acme", defaultTenantName("alice@acme.com"))
	require.Equal(t, "internal", defaultTenantName("bob@internal"))
}
