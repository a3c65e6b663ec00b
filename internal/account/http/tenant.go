package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/atriumhq/atrium/internal/account/domain"
	"github.com/atriumhq/atrium/internal/account/service"
	"github.com/atriumhq/atrium/pkg/accountapi"
	"github.com/atriumhq/atrium/pkg/httpx"
	"github.com/atriumhq/atrium/pkg/slogx"
)

// TenantHandler serves the caller's own tenant. The tenant id always comes
// from the access token, never from the URL.
type TenantHandler struct {
	TenantService *service.TenantService
}

// HandleGet godoc
//
//	@Summary		Current Tenant
//	@Description	Returns the tenant the authenticated user belongs to.
//	@Tags			Tenants
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	accountapi.Tenant	"id, name, state, owner_id"
//	@Failure		401	{object}	accountapi.APIError	"missing or invalid access token"
//	@Failure		404	{object}	accountapi.APIError	"tenant no longer exists"
//	@Router			/v1/tenants/current [get].
func (h *TenantHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	t, err := h.TenantService.Get(ctx, httpx.TenantIDFromCtx(ctx))
	if err != nil {
		writeTenantError(w, log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tenantToAPI(t))
}

// HandleUpdate godoc
//
//	@Summary		Rename Tenant
//	@Description	Updates the tenant's display name. Owner only.
//	@Tags			Tenants
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		accountapi.UpdateTenantRequest	true	"New name"
//	@Success		200		{object}	accountapi.Tenant				"updated tenant"
//	@Failure		400		{object}	accountapi.APIError				"empty or oversized name"
//	@Failure		401		{object}	accountapi.APIError				"missing or invalid access token"
//	@Failure		403		{object}	accountapi.APIError				"caller is not the owner"
//	@Router			/v1/tenants/current [put].
func (h *TenantHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountapi.UpdateTenantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		accountapi.ErrInvalidRequest.WriteError(w)
		return
	}

	t, err := h.TenantService.UpdateName(ctx, httpx.TenantIDFromCtx(ctx), req.Name)
	if err != nil {
		writeTenantError(w, log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tenantToAPI(t))
}

func writeTenantError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTenantName):
		accountapi.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrTenantNotFound):
		accountapi.ErrNotFound.WriteError(w)
	default:
		log.Error("tenant operation failed", "err", err)
		accountapi.ErrServerError.WriteError(w)
	}
}

func tenantToAPI(t domain.Tenant) accountapi.Tenant {
	return accountapi.Tenant{
		ID:        t.ID,
		Name:      t.Name,
		State:     string(t.State),
		OwnerID:   t.OwnerUserID,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
