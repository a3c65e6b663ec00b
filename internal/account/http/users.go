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

// UsersHandler serves tenant-scoped user administration. The tenant context
// comes from the access token; handlers never accept a tenant id.
type UsersHandler struct {
	UserService *service.UserService
}

// HandleMe godoc
//
//	@Summary		Current User
//	@Description	Returns the authenticated user's own record.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	accountapi.User		"id, tenant_id, email, role"
//	@Failure		401	{object}	accountapi.APIError	"missing or invalid access token"
//	@Router			/v1/users/me [get].
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	u, err := h.UserService.Me(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		writeUserError(w, log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, userToAPI(u))
}

// HandleList godoc
//
//	@Summary		List Users
//	@Description	Returns the tenant's users, paginated by an opaque cursor.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			cursor	query		string				false	"Cursor from a previous page"
//	@Success		200		{object}	accountapi.UserList	"users, next_cursor"
//	@Failure		401		{object}	accountapi.APIError	"missing or invalid access token"
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	users, next, err := h.UserService.List(ctx, httpx.TenantIDFromCtx(ctx), r.URL.Query().Get("cursor"), 0)
	if err != nil {
		writeUserError(w, log, err)
		return
	}

	out := accountapi.UserList{Users: make([]accountapi.User, 0, len(users)), NextCursor: next}
	for _, u := range users {
		out.Users = append(out.Users, userToAPI(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary		Get User
//	@Description	Returns one of the tenant's users by id.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string				true	"User id"
//	@Success		200	{object}	accountapi.User		"id, tenant_id, email, role"
//	@Failure		401	{object}	accountapi.APIError	"missing or invalid access token"
//	@Failure		404	{object}	accountapi.APIError	"no such user in this tenant"
//	@Router			/v1/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	u, err := h.UserService.Get(ctx, httpx.TenantIDFromCtx(ctx), r.PathValue("id"))
	if err != nil {
		writeUserError(w, log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, userToAPI(u))
}

// HandleUpdateRole godoc
//
//	@Summary		Update User Role
//	@Description	Moves a user between admin and member. The owner role is assigned by signup and cannot be granted or taken here. Revokes the user's sessions.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string							true	"User id"
//	@Param			request	body		accountapi.UpdateUserRoleRequest	true	"New role"
//	@Success		200		{object}	accountapi.User					"updated user"
//	@Failure		400		{object}	accountapi.APIError				"unknown role, or owner requested"
//	@Failure		403		{object}	accountapi.APIError				"target is the owner"
//	@Failure		404		{object}	accountapi.APIError				"no such user in this tenant"
//	@Router			/v1/users/{id}/role [put].
func (h *UsersHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountapi.UpdateUserRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		accountapi.ErrInvalidRequest.WriteError(w)
		return
	}

	u, err := h.UserService.UpdateRole(ctx, httpx.TenantIDFromCtx(ctx), r.PathValue("id"), domain.Role(req.Role))
	if err != nil {
		writeUserError(w, log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, userToAPI(u))
}

// HandleDelete godoc
//
//	@Summary		Remove User
//	@Description	Removes a user from the tenant. Owners cannot be removed and callers cannot remove themselves.
//	@Tags			Users
//	@Security		BearerAuth
//	@Param			id	path	string	true	"User id"
//	@Success		204	"user removed"
//	@Failure		403	{object}	accountapi.APIError	"target is the owner or the caller"
//	@Failure		404	{object}	accountapi.APIError	"no such user in this tenant"
//	@Router			/v1/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	err := h.UserService.Remove(ctx, httpx.TenantIDFromCtx(ctx), httpx.UserIDFromCtx(ctx), r.PathValue("id"))
	if err != nil {
		writeUserError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeUserError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRole):
		accountapi.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrUserNotFound):
		accountapi.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrForbidden):
		accountapi.ErrForbidden.WriteError(w)
	default:
		log.Error("user operation failed", "err", err)
		accountapi.ErrServerError.WriteError(w)
	}
}

func userToAPI(u domain.User) accountapi.User {
	return accountapi.User{
		ID:        u.ID,
		TenantID:  u.TenantID,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
