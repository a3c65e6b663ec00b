package cryptox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Each test run gets its own pepper so hashes are never reusable between runs.
	dir, err := os.MkdirTemp("", "cryptox-pepper-*")
	if err != nil {
		panic(err)
	}
	SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestGenerateCodeShape(t *testing.T) {
	t.Parallel()

	for range 100 {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, CodeDigits)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9', "non-digit in code %q", code)
		}
	}
}

func TestHashAndVerifyCode(t *testing.T) {
	code, err := GenerateCode()
	require.NoError(t, err)

	hash, err := HashCode(code)
	require.NoError(t, err)
	require.NotContains(t, hash, code, "hash must not embed the raw code")

	require.NoError(t, VerifyCode(code, hash))
	require.ErrorIs(t, VerifyCode("000000", hash), ErrCodeMismatch)
}

func TestHashCodeIsSalted(t *testing.T) {
	h1, err := HashCode("123456")
	require.NoError(t, err)
	h2, err := HashCode("123456")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2, "two hashes of the same code must differ by salt")
	require.NoError(t, VerifyCode("123456", h1))
	require.NoError(t, VerifyCode("123456", h2))
}

func TestVerifyCodeRejectsMalformedHash(t *testing.T) {
	require.Error(t, VerifyCode("123456", "not-a-phc-string"))
	require.Error(t, VerifyCode("123456", "$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"))
}

func TestFingerprintTokenDeterministic(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken(TokenSize256)
	require.NoError(t, err)

	require.Equal(t, FingerprintToken(token), FingerprintToken(token))
	require.NotEqual(t, FingerprintToken(token), FingerprintToken(token+"x"))
}
