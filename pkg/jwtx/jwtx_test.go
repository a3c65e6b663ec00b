package jwtx

import (
	"testing"
	"time"

	"github.com/atriumhq/atrium/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T, kid string) *EdDSASigner {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)
	return signer
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-1")

	keys := NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	claims := NewAccessClaims(
		"user-123", "tenant-456", "owner", "sess-789", "a@b.com",
		[]string{"otp"},
		DefaultAccessTokenTTL,
		"atrium-account",
		time.Now(),
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	verifier := NewVerifierEdDSA(keys, "atrium-account")
	got, err := verifier.Verify(token)
	require.NoError(t, err)

	require.Equal(t, "user-123", got.Subject)
	require.Equal(t, "tenant-456", got.TenantID)
	require.Equal(t, "owner", got.Role)
	require.Equal(t, "sess-789", got.SID)
	require.Equal(t, "a@b.com", got.Email)
	require.Equal(t, []string{"otp"}, got.AMR)
	require.NotEmpty(t, got.ID, "jti should be set")
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-1")
	keys := NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	claims := NewAccessClaims(
		"u", "t", "member", "s", "x@y.com", nil,
		time.Minute, "issuer-a", time.Now(),
	)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	verifier := NewVerifierEdDSA(keys, "issuer-b")
	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-1")
	keys := NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	claims := NewAccessClaims(
		"u", "t", "member", "s", "x@y.com", nil,
		time.Minute, "iss", time.Now().Add(-time.Hour),
	)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	verifier := NewVerifierEdDSA(keys, "iss")
	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsUnknownKid(t *testing.T) {
	t.Parallel()

	signerA := newTestSigner(t, "key-a")
	signerB := newTestSigner(t, "key-b")

	keys := NewKeySet()
	require.NoError(t, keys.AddSigner(signerA))

	claims := NewAccessClaims(
		"u", "t", "member", "s", "x@y.com", nil,
		time.Minute, "iss", time.Now(),
	)
	token, err := signerB.Sign(claims)
	require.NoError(t, err)

	verifier := NewVerifierEdDSA(keys, "iss")
	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestKeySetPublishesJWKS(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-1")
	keys := NewKeySet()
	require.False(t, keys.IsReady())

	require.NoError(t, keys.AddSigner(signer))
	require.True(t, keys.IsReady())

	jwks := keys.PublicJWKS()
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
	require.Equal(t, "Ed25519", jwks.Keys[0].Crv)
	require.Equal(t, "key-1", jwks.Keys[0].Kid)
}
