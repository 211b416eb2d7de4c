package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/openhire/jobboard/internal/audit"
	"github.com/openhire/jobboard/internal/domain"
	"github.com/openhire/jobboard/internal/service"
	"github.com/openhire/jobboard/internal/store"
	"github.com/openhire/jobboard/pkg/httpx"
	"github.com/openhire/jobboard/pkg/slogx"

	_ "github.com/openhire/jobboard/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	sessions     *httpx.SessionManager
	auditLog     *audit.Log
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
	UserService *service.UserService
}

// RouterConfig carries the request-pipeline knobs the Router needs beyond
// its service dependencies.
type RouterConfig struct {
	Env            string
	BuildVersion   string
	AllowedOrigins []string
	MaxBodyBytes   int64
}

func NewRouter(
	sessions *httpx.SessionManager,
	auditLog *audit.Log,
	st store.Store,
	logger *slog.Logger,
	cfg RouterConfig,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		sessions:     sessions,
		auditLog:     auditLog,
		buildVersion: cfg.BuildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Global chain, outermost first. Security headers and CORS run before
	// anything that could short-circuit; the audit recorder sits outside
	// the API limiter so throttled login attempts are still recorded.
	r.middlewares = []httpx.Middleware{
		httpx.SecurityHeaders(),
		httpx.CORS(cfg.AllowedOrigins),
		httpx.MaxBodyBytes(cfg.MaxBodyBytes),
		slogx.HTTPMiddleware(r.logger),
		httpx.Recovery(cfg.Env),
		auditLog.Middleware(),
		httpx.RateLimitByIP(httpx.APILimit),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSecurityLogs()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			OpenHire Job Board API
//	@version		0.1.0
//	@description	Cookie-based authentication service for the OpenHire job board.
//	@description
//	@description	Sessions are carried by two HttpOnly cookies signed with HMAC-SHA256:
//	@description	a short-lived access token and a longer-lived refresh token used for
//	@description	transparent renewal.
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	loginHandler := &LoginHandler{AuthService: r.AuthService, Sessions: r.sessions}
	registerHandler := &RegisterHandler{AuthService: r.AuthService, Sessions: r.sessions}
	logoutHandler := &LogoutHandler{Sessions: r.sessions}
	refreshHandler := &RefreshHandler{Sessions: r.sessions}
	meHandler := &MeHandler{UserService: r.UserService}

	// Credential-guessing surfaces get the strict login limiter on top of
	// the global one.
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.LoginLimit),
		),
	)
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.LoginLimit),
		),
	)

	r.Mux.Handle("POST /auth/logout", logoutHandler)
	r.Mux.Handle("POST /auth/refresh", refreshHandler)

	r.Mux.Handle("GET /auth/me",
		httpx.Chain(meHandler,
			httpx.AuthnMiddleware(r.sessions),
		),
	)
}

func (r *Router) registerSecurityLogs() {
	h := &SecurityLogsHandler{Audit: r.auditLog}

	r.Mux.Handle("GET /auth/security-logs",
		httpx.Chain(h,
			httpx.AuthnMiddleware(r.sessions),
			httpx.RequireAnyRole(domain.RoleAdmin),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /{$}", HealthHandler(r.startTime, r.buildVersion, r.store))
}
