package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/atriumhq/atrium/internal/account/service"
	"github.com/atriumhq/atrium/pkg/accountapi"
	"github.com/atriumhq/atrium/pkg/httpx"
	"github.com/atriumhq/atrium/pkg/slogx"
)

// SignupHandler serves the signup verification flow.
type SignupHandler struct {
	SignupService *service.SignupService
}

// HandleStart godoc
//
//	@Summary		Start Signup
//	@Description	Begins email verification for a new workspace. A 6-digit code is sent to the address; the response carries only the attempt handle.
//	@Tags			Signup
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountapi.StartSignupRequest	true	"Email to verify"
//	@Success		202		{object}	accountapi.StartSignupResponse	"attempt_id, valid_for_seconds"
//	@Failure		400		{object}	accountapi.APIError				"error, error_description"
//	@Failure		409		{object}	accountapi.APIError				"verification already in progress, or the email already has an account"
//	@Failure		429		{object}	accountapi.APIError				"rolling attempt ceiling hit"
//	@Router			/v1/signup [post].
func (h *SignupHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountapi.StartSignupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		accountapi.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.SignupService.StartSignup(ctx, req.Email)
	if err != nil {
		writeStartError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, accountapi.StartSignupResponse{
		AttemptID:       res.AttemptID,
		ValidForSeconds: int(res.ValidFor.Seconds()),
	})
}

// HandleResend godoc
//
//	@Summary		Resend Signup Code
//	@Description	Re-issues the code for an in-flight signup attempt after the cooldown. The previous code stops working and the retry budget resets.
//	@Tags			Signup
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountapi.ResendSignupRequest	true	"Attempt to refresh"
//	@Success		202		{object}	accountapi.ResendSignupResponse	"attempt_id, valid_for_seconds"
//	@Failure		400		{object}	accountapi.APIError				"error, error_description"
//	@Failure		404		{object}	accountapi.APIError				"unknown or already-completed attempt"
//	@Failure		429		{object}	accountapi.APIError				"cooldown or rolling ceiling"
//	@Router			/v1/signup/resend [post].
func (h *SignupHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountapi.ResendSignupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.AttemptID == "" {
		accountapi.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.SignupService.ResendSignupCode(ctx, req.AttemptID)
	if err != nil {
		writeResendError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, accountapi.ResendSignupResponse{
		AttemptID:       res.AttemptID,
		ValidForSeconds: int(res.ValidFor.Seconds()),
	})
}

// HandleComplete godoc
//
//	@Summary		Complete Signup
//	@Description	Submits the emailed code. On the first correct submission the tenant and its owner user are provisioned, exactly once.
//	@Tags			Signup
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountapi.CompleteSignupRequest	true	"Attempt and code"
//	@Success		200		{object}	accountapi.CompleteSignupResponse	"tenant_id, user_id"
//	@Failure		400		{object}	accountapi.APIError					"wrong, expired or exhausted code"
//	@Failure		404		{object}	accountapi.APIError					"unknown or already-completed attempt"
//	@Failure		409		{object}	accountapi.APIError					"email gained an account since the attempt started"
//	@Router			/v1/signup/complete [post].
func (h *SignupHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountapi.CompleteSignupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.AttemptID == "" {
		accountapi.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.SignupService.CompleteSignup(ctx, req.AttemptID, req.Code)
	if err != nil {
		writeCompleteError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountapi.CompleteSignupResponse{
		TenantID: res.TenantID,
		UserID:   res.UserID,
	})
}

// Error writers shared between the signup and login flows. The two flows
// expose an identical taxonomy on purpose.

func writeStartError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		accountapi.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrAttemptInFlight), errors.Is(err, service.ErrEmailTaken):
		accountapi.ErrAttemptConflict.WriteError(w)
	case errors.Is(err, service.ErrTooManyAttempts):
		accountapi.ErrThrottled.WriteError(w)
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrTenantSuspended):
		// Login initiation must not reveal whether an account exists or
		// what state its tenant is in.
		accountapi.ErrInvalidRequest.WriteError(w)
	default:
		log.Error("start attempt failed", "err", err)
		accountapi.ErrServerError.WriteError(w)
	}
}

func writeResendError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrAttemptNotFound):
		accountapi.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrResendCooldown):
		accountapi.ErrResendTooSoon.WriteError(w)
	case errors.Is(err, service.ErrTooManyAttempts):
		accountapi.ErrThrottled.WriteError(w)
	default:
		log.Error("resend failed", "err", err)
		accountapi.ErrServerError.WriteError(w)
	}
}

func writeCompleteError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCode), errors.Is(err, service.ErrCodeRejected):
		accountapi.ErrCodeRejected.WriteError(w)
	case errors.Is(err, service.ErrAttemptNotFound):
		accountapi.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrEmailTaken):
		accountapi.ErrAttemptConflict.WriteError(w)
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrTenantSuspended):
		accountapi.ErrInvalidRequest.WriteError(w)
	default:
		log.Error("complete attempt failed", "err", err)
		accountapi.ErrServerError.WriteError(w)
	}
}
