package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atriumhq/atrium/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestChainOrdering(t *testing.T) {
	var order []string
	tag := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(tag("outer"), tag("middle"), tag("inner"))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "middle", "inner", "handler"}, order)
}

func withRole(r *http.Request, role string) *http.Request {
	ctx := context.WithValue(r.Context(), httpx.CtxKeyRole, role)
	return r.WithContext(ctx)
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := httpx.RequireRole("admin")(ok)

	t.Run("stronger role passes", func(t *testing.T) {
		req := withRole(httptest.NewRequest(http.MethodGet, "/", nil), "owner")
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("exact role passes", func(t *testing.T) {
		req := withRole(httptest.NewRequest(http.MethodGet, "/", nil), "admin")
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("weaker role is forbidden", func(t *testing.T) {
		req := withRole(httptest.NewRequest(http.MethodGet, "/", nil), "member")
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing role is forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRequireAnyRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := httpx.RequireAnyRole("member")(ok)

	t.Run("listed role passes", func(t *testing.T) {
		req := withRole(httptest.NewRequest(http.MethodGet, "/", nil), "member")
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no hierarchy is implied", func(t *testing.T) {
		req := withRole(httptest.NewRequest(http.MethodGet, "/", nil), "owner")
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}
