package http

import (
	"net/http"
	"time"

	"github.com/atriumhq/atrium/internal/account/store"
	"github.com/atriumhq/atrium/pkg/accountapi"
	"github.com/atriumhq/atrium/pkg/httpx"
	"github.com/atriumhq/atrium/pkg/jwtx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe checking the database connection and the token signing keys
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	accountapi.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	accountapi.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys *jwtx.KeySet,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &accountapi.HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		if !keys.IsReady() {
			checks.Signer = "error: no signing keys loaded"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, accountapi.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
