package http

import (
	"net/http"

	"github.com/atriumhq/atrium/internal/account/service"
	"github.com/atriumhq/atrium/pkg/accountapi"
	"github.com/atriumhq/atrium/pkg/httpx"
	"github.com/atriumhq/atrium/pkg/slogx"
)

// LoginHandler serves the login verification flow for existing accounts.
type LoginHandler struct {
	LoginService *service.LoginService
}

// HandleStart godoc
//
//	@Summary		Start Login
//	@Description	Begins email verification for an existing account. Unknown emails and suspended tenants are rejected as a generic bad request so the endpoint does not confirm account existence.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountapi.StartLoginRequest	true	"Email to verify"
//	@Success		202		{object}	accountapi.StartLoginResponse	"attempt_id, valid_for_seconds"
//	@Failure		400		{object}	accountapi.APIError				"error, error_description"
//	@Failure		409		{object}	accountapi.APIError				"verification already in progress"
//	@Failure		429		{object}	accountapi.APIError				"rolling attempt ceiling hit"
//	@Router			/v1/login [post].
func (h *LoginHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountapi.StartLoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		accountapi.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.LoginService.StartLogin(ctx, req.Email)
	if err != nil {
		writeStartError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, accountapi.StartLoginResponse{
		AttemptID:       res.AttemptID,
		ValidForSeconds: int(res.ValidFor.Seconds()),
	})
}

// HandleResend godoc
//
//	@Summary		Resend Login Code
//	@Description	Re-issues the code for an in-flight login attempt after the cooldown.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountapi.ResendLoginRequest	true	"Attempt to refresh"
//	@Success		202		{object}	accountapi.ResendLoginResponse	"attempt_id, valid_for_seconds"
//	@Failure		400		{object}	accountapi.APIError				"error, error_description"
//	@Failure		404		{object}	accountapi.APIError				"unknown or already-completed attempt"
//	@Failure		429		{object}	accountapi.APIError				"cooldown or rolling ceiling"
//	@Router			/v1/login/resend [post].
func (h *LoginHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountapi.ResendLoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.AttemptID == "" {
		accountapi.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.LoginService.ResendLoginCode(ctx, req.AttemptID)
	if err != nil {
		writeResendError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, accountapi.ResendLoginResponse{
		AttemptID:       res.AttemptID,
		ValidForSeconds: int(res.ValidFor.Seconds()),
	})
}

// HandleComplete godoc
//
//	@Summary		Complete Login
//	@Description	Submits the emailed code. The first correct submission mints exactly one session: a JWT access token plus a single-use refresh token.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountapi.CompleteLoginRequest		true	"Attempt and code"
//	@Success		200		{object}	accountapi.CompleteLoginResponse	"access_token, refresh_token, token_type, expires_in, tenant_id, user_id"
//	@Failure		400		{object}	accountapi.APIError					"wrong, expired or exhausted code"
//	@Failure		404		{object}	accountapi.APIError					"unknown or already-completed attempt"
//	@Header			200		{string}	Cache-Control						"no-store"
//	@Router			/v1/login/complete [post].
func (h *LoginHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountapi.CompleteLoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.AttemptID == "" {
		accountapi.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.LoginService.CompleteLogin(ctx, req.AttemptID, req.Code)
	if err != nil {
		writeCompleteError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountapi.CompleteLoginResponse{
		AccessToken:  res.Tokens.AccessToken,
		TokenType:    res.Tokens.TokenType,
		ExpiresIn:    int(res.Tokens.ExpiresIn.Seconds()),
		RefreshToken: res.Tokens.RefreshToken,
		TenantID:     res.TenantID,
		UserID:       res.UserID,
	})
}
