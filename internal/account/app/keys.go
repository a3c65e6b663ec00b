package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/atriumhq/atrium/pkg/cryptox"
	"github.com/atriumhq/atrium/pkg/jwtx"
)

// initSigningKeys loads the Ed25519 signing key from cfg.SigningKeyFile, or
// generates an ephemeral one when unset. Ephemeral keys invalidate every
// outstanding access token on restart; refresh tokens survive because they
// live in the database.
func initSigningKeys(cfg Config, logger *slog.Logger) (*jwtx.EdDSASigner, *jwtx.KeySet, error) {
	var pemKey []byte

	if cfg.SigningKeyFile != "" {
		b, err := os.ReadFile(cfg.SigningKeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("read signing key: %w", err)
		}
		pemKey = b
		logger.Info("signing key loaded", "file", cfg.SigningKeyFile)
	} else {
		b, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, nil, fmt.Errorf("generate signing key: %w", err)
		}
		pemKey = b
		logger.Info("ephemeral signing key generated; access tokens will not survive a restart")
	}

	signer, err := jwtx.NewSignerEdDSA(jwtx.NewJTI(), pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("load signing key: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, nil, err
	}

	return signer, keys, nil
}
