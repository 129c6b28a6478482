package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ledgerline-erp/ledgerline/internal/billing/documents"
	"github.com/ledgerline-erp/ledgerline/internal/billing/orders"
	"github.com/ledgerline-erp/ledgerline/internal/masterdata/bankaccounts"
	"github.com/ledgerline-erp/ledgerline/internal/masterdata/changerates"
	"github.com/ledgerline-erp/ledgerline/internal/masterdata/companies"
	"github.com/ledgerline-erp/ledgerline/internal/masterdata/customers"
	"github.com/ledgerline-erp/ledgerline/internal/masterdata/providers"
	"github.com/ledgerline-erp/ledgerline/internal/reports"
	"github.com/ledgerline-erp/ledgerline/internal/shared"
	"github.com/ledgerline-erp/ledgerline/jobs"
)

// RouterConfig aggregates everything the HTTP router needs.
type RouterConfig struct {
	Logger      *slog.Logger
	Config      *Config
	Pool        *pgxpool.Pool
	Redis       *goredis.Client
	Inspector   *asynq.Inspector
	ReportCache *reports.Cache
}

// NewRouter wires the full API surface. Every business route runs behind the
// tenant middleware; only health and job observability stay open.
func NewRouter(cfg RouterConfig) http.Handler {
	tenants := shared.NewTenantResolver(cfg.Redis, cfg.Config.APIKeyTTL)

	companyRepo := companies.NewRepository(cfg.Pool)
	rateRepo := changerates.NewRepository(cfg.Pool)
	accountRepo := bankaccounts.NewRepository(cfg.Pool)
	customerRepo := customers.NewRepository(cfg.Pool)
	providerRepo := providers.NewRepository(cfg.Pool)

	customerSvc := customers.NewService(customerRepo)
	providerSvc := providers.NewService(providerRepo)

	orderRepo := orders.NewRepository(cfg.Pool)
	orderSvc := orders.NewService(orderRepo)

	documentRepo := documents.NewRepository(cfg.Pool)
	documentSvc := documents.NewService(documentRepo, rateRepo, accountRepo, customerRepo, providerRepo)

	reportSvc := reports.NewService(cfg.Pool, cfg.ReportCache)
	documentSvc.OnWrite(func(ctx context.Context) {
		if err := reportSvc.Invalidate(ctx); err != nil {
			cfg.Logger.Warn("invalidate report cache", slog.Any("error", err))
		}
	})

	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{Logger: cfg.Logger, Config: cfg.Config}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Route("/jobs", jobs.NewHandler(cfg.Inspector, cfg.Logger).MountRoutes)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(TenantMiddleware(cfg.Logger, tenants))

		companies.NewHandler(cfg.Logger, companyRepo).MountRoutes(r)
		changerates.NewHandler(cfg.Logger, rateRepo).MountRoutes(r)
		bankaccounts.NewHandler(cfg.Logger, accountRepo).MountRoutes(r)
		customers.NewHandler(cfg.Logger, customerSvc).MountRoutes(r)
		providers.NewHandler(cfg.Logger, providerSvc).MountRoutes(r)
		orders.NewHandler(cfg.Logger, orderSvc).MountRoutes(r)
		documents.NewHandler(cfg.Logger, documentSvc).MountRoutes(r)
		reports.NewHandler(cfg.Logger, reportSvc).MountRoutes(r)
	})

	return r
}
