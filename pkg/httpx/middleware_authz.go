package httpx

import (
	"net/http"
	"strings"
)

// Role ordering used for authorization checks. Higher ranks imply the
// permissions of the lower ones, so an owner passes a RequireRole("member")
// check.
var roleRank = map[string]int{
	"member": 1,
	"admin":  2,
	"owner":  3,
}

// RequireRole the caller must hold the given role or a stronger one.
func RequireRole(minimum string) func(http.Handler) http.Handler {
	want := roleRank[minimum]
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			have := roleRank[roleFromCtx(r.Context())]
			if have == 0 || have < want {
				writeBearerRoleError(w, http.StatusForbidden, minimum)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyRole the caller must hold exactly one of the listed roles.
// Unlike RequireRole there is no implied hierarchy.
func RequireAnyRole(roles ...string) func(http.Handler) http.Handler {
	want := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		want[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := want[roleFromCtx(r.Context())]; !ok {
				writeBearerRoleError(w, http.StatusForbidden, roles...)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-style error response for insufficient role.
func writeBearerRoleError(w http.ResponseWriter, code int, required ...string) {
	w.Header().
		Set("WWW-Authenticate", `Bearer error="insufficient_role", role="`+strings.Join(required, " ")+`"`)
	w.WriteHeader(code)
	_, _ = w.Write([]byte("insufficient_role"))
}
