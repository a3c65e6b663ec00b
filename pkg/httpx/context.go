package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID   ctxKey = "user_id"
	CtxKeyTenantID ctxKey = "tenant_id"
	CtxKeyRole     ctxKey = "role"
	CtxKeyClaims   ctxKey = "claims" // if you want full jwtx.Claims
)

// UserIDFromCtx returns the authenticated user id, or "" if unauthenticated.
func UserIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// TenantIDFromCtx returns the tenant id of the authenticated user, or "".
func TenantIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyTenantID).(string); ok {
		return v
	}
	return ""
}

func roleFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyRole).(string); ok {
		return v
	}
	return ""
}
