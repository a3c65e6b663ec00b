package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/atriumhq/atrium/internal/account/service"
	"github.com/atriumhq/atrium/internal/account/store"
	"github.com/atriumhq/atrium/pkg/httpx"
	"github.com/atriumhq/atrium/pkg/jwtx"
	"github.com/atriumhq/atrium/pkg/slogx"

	_ "github.com/atriumhq/atrium/api/account" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	SignupService  *service.SignupService
	LoginService   *service.LoginService
	SessionService *service.SessionService
	TenantService  *service.TenantService
	UserService    *service.UserService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSignup()
	r.registerLogin()
	r.registerSessions()
	r.registerTenants()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Atrium Account Service API
//	@version		0.1.0
//	@description	Email-code signup and login for multi-tenant workspaces. Signup provisions a tenant and its owner; login mints JWT access tokens with rotating refresh tokens.
//	@description
//	@description				Access tokens are signed with EdDSA and can be verified against the JWKS endpoint.
//
//	@contact.name				Atrium Team
//	@contact.url				https://github.com/atriumhq/atrium
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.middlewares...)(r.Mux).ServeHTTP(w, req)
}

func (r *Router) registerSignup() {
	h := &SignupHandler{SignupService: r.SignupService}

	// POST /signup - strict limit keyed by IP + email so one address
	// cannot be hammered from many attempts behind one NAT.
	r.Mux.Handle("POST /v1/signup",
		httpx.Chain(httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"))(
			http.HandlerFunc(h.HandleStart)),
	)

	// POST /signup/resend - strict limit by IP (code dispatch costs money)
	r.Mux.Handle("POST /v1/signup/resend",
		httpx.Chain(httpx.RateLimitByIP(httpx.StrictLimit))(
			http.HandlerFunc(h.HandleResend)),
	)

	// POST /signup/complete - strict limit by IP (code guessing surface)
	r.Mux.Handle("POST /v1/signup/complete",
		httpx.Chain(httpx.RateLimitByIP(httpx.StrictLimit))(
			http.HandlerFunc(h.HandleComplete)),
	)
}

func (r *Router) registerLogin() {
	h := &LoginHandler{LoginService: r.LoginService}

	r.Mux.Handle("POST /v1/login",
		httpx.Chain(httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"))(
			http.HandlerFunc(h.HandleStart)),
	)
	r.Mux.Handle("POST /v1/login/resend",
		httpx.Chain(httpx.RateLimitByIP(httpx.StrictLimit))(
			http.HandlerFunc(h.HandleResend)),
	)
	r.Mux.Handle("POST /v1/login/complete",
		httpx.Chain(httpx.RateLimitByIP(httpx.StrictLimit))(
			http.HandlerFunc(h.HandleComplete)),
	)
}

func (r *Router) registerSessions() {
	h := &SessionHandler{SessionService: r.SessionService}

	// POST /sessions/refresh - the refresh token IS the credential, no
	// bearer token required. Moderate limit by IP.
	r.Mux.Handle("POST /v1/sessions/refresh",
		httpx.Chain(httpx.RateLimitByIP(httpx.ModerateLimit))(
			http.HandlerFunc(h.HandleRefresh)),
	)

	// POST /sessions/logout - authenticated, moderate limit by user
	r.Mux.Handle("POST /v1/sessions/logout",
		httpx.Chain(
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)(http.HandlerFunc(h.HandleLogout)),
	)
}

func (r *Router) registerTenants() {
	h := &TenantHandler{TenantService: r.TenantService}

	r.Mux.Handle("GET /v1/tenants/current",
		httpx.Chain(
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)(http.HandlerFunc(h.HandleGet)),
	)

	// Renaming is owner-only.
	r.Mux.Handle("PUT /v1/tenants/current",
		httpx.Chain(
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyRole("owner"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)(http.HandlerFunc(h.HandleUpdate)),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("GET /v1/users/me",
		httpx.Chain(
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)(http.HandlerFunc(h.HandleMe)),
	)

	r.Mux.Handle("GET /v1/users",
		httpx.Chain(
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)(http.HandlerFunc(h.HandleList)),
	)

	r.Mux.Handle("GET /v1/users/{id}",
		httpx.Chain(
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)(http.HandlerFunc(h.HandleGet)),
	)

	// Role changes and removals need admin or better.
	r.Mux.Handle("PUT /v1/users/{id}/role",
		httpx.Chain(
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole("admin"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)(http.HandlerFunc(h.HandleUpdateRole)),
	)
	r.Mux.Handle("DELETE /v1/users/{id}",
		httpx.Chain(
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole("admin"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)(http.HandlerFunc(h.HandleDelete)),
	)
}

func (r *Router) registerSystem() {
	// Health endpoints get the public limit, monitoring polls often.
	r.Mux.Handle("GET /livez",
		httpx.Chain(httpx.RateLimitByIP(httpx.PublicLimit))(
			LivezHandler(r.startTime, r.buildVersion)),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(httpx.RateLimitByIP(httpx.PublicLimit))(
			ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys)),
	)
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(httpx.RateLimitByIP(httpx.PublicLimit))(
			JWKSHandler(r.keys)),
	)
}
