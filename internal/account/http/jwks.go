package http

import (
	"net/http"

	"github.com/atriumhq/atrium/pkg/httpx"
	"github.com/atriumhq/atrium/pkg/jwtx"
)

// JWKSHandler exposes the JSON Web Key Set so other services can verify the
// access tokens this service signs.
//
//	@Summary		Get JWKS
//	@Description	Returns the JSON Web Key Set used to verify access tokens.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	jwtx.JWKS	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, keys.PublicJWKS())
	}
}
