package http

import (
	"errors"
	"net/http"

	"github.com/atriumhq/atrium/internal/account/service"
	"github.com/atriumhq/atrium/pkg/accountapi"
	"github.com/atriumhq/atrium/pkg/httpx"
	"github.com/atriumhq/atrium/pkg/slogx"
)

// SessionHandler serves refresh rotation and logout.
type SessionHandler struct {
	SessionService *service.SessionService
}

// HandleRefresh godoc
//
//	@Summary		Refresh Session
//	@Description	Exchanges a refresh token for a new token pair. The presented token is revoked; each refresh token works exactly once.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountapi.RefreshSessionRequest	true	"Refresh token"
//	@Success		200		{object}	accountapi.RefreshSessionResponse	"access_token, refresh_token, token_type, expires_in"
//	@Failure		400		{object}	accountapi.APIError					"error, error_description"
//	@Failure		401		{object}	accountapi.APIError					"unknown, expired, revoked or already-rotated token"
//	@Header			200		{string}	Cache-Control						"no-store"
//	@Router			/v1/sessions/refresh [post].
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountapi.RefreshSessionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		accountapi.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.SessionService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefresh), errors.Is(err, service.ErrTenantSuspended):
			accountapi.ErrInvalidToken.WriteError(w)
		default:
			log.Error("session refresh failed", "err", err)
			accountapi.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountapi.RefreshSessionResponse{
		AccessToken:  pair.AccessToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
		RefreshToken: pair.RefreshToken,
	})
}

// HandleLogout godoc
//
//	@Summary		Logout
//	@Description	Revokes the presented refresh token. Idempotent: unknown tokens succeed too.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body	accountapi.LogoutRequest	true	"Refresh token to revoke"
//	@Success		204		"session revoked"
//	@Failure		400		{object}	accountapi.APIError	"error, error_description"
//	@Failure		401		{object}	accountapi.APIError	"missing or invalid access token"
//	@Router			/v1/sessions/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountapi.LogoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		accountapi.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.SessionService.Logout(ctx, req.RefreshToken); err != nil {
		log.Error("logout failed", "err", err)
		accountapi.ErrServerError.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
