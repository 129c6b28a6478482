package app

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/ledgerline-erp/ledgerline/internal/platform/httpx"
	"github.com/ledgerline-erp/ledgerline/internal/shared"
)

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger *slog.Logger
	Config *Config
}

// MiddlewareStack installs the Ledgerline middleware chain.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'",
		SSLRedirect:           cfg.Config != nil && cfg.Config.IsProduction(),
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	})

	timeout := 30 * time.Second
	if cfg.Config != nil && cfg.Config.AppRequestTimeout > 0 {
		timeout = cfg.Config.AppRequestTimeout
	}
	perMinute := 120
	if cfg.Config != nil && cfg.Config.RateLimit > 0 {
		perMinute = cfg.Config.RateLimit
	}

	return []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(timeout),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					cfg.Logger.Warn("secure headers blocked request", slog.Any("error", err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				next.ServeHTTP(w, r)
			})
		},
		middleware.Compress(5),
		httprate.Limit(perMinute, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)),
	}
}

// TenantMiddleware resolves the owner company from the API key header and
// stores it in the request context. Requests without a resolvable tenant are
// rejected before reaching any handler.
func TenantMiddleware(logger *slog.Logger, tenants *shared.TenantResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get(shared.APIKeyHeader)
			companyID, err := tenants.Resolve(r.Context(), apiKey)
			if err != nil {
				if errors.Is(err, shared.ErrNoTenant) || errors.Is(err, shared.ErrInvalidAPIKey) {
					httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
					return
				}
				logger.Error("resolve tenant", slog.Any("error", err))
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			ctx := shared.ContextWithCompany(r.Context(), companyID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
