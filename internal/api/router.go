package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/placardhq/placard/internal/api/handlers"
	mw "github.com/placardhq/placard/internal/api/middleware"
	"github.com/placardhq/placard/internal/config"
	"github.com/placardhq/placard/internal/domain"
	"github.com/placardhq/placard/internal/service"
	"github.com/placardhq/placard/internal/store"
	"go.uber.org/zap"
)

// App holds the router and the scheduler for lifecycle management.
type App struct {
	Router    *chi.Mux
	Scheduler *service.Scheduler
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// Stores
	tenantStore := store.NewTenantStore(db)
	assetStore := store.NewAssetStore(db)
	contractStore := store.NewContractStore(db)
	billingStore := store.NewBillingPeriodStore(db)

	// Services
	tenantSvc := service.NewTenantService(tenantStore)
	assetSvc := service.NewAssetService(assetStore)
	contractSvc := service.NewContractService(contractStore, assetStore)
	billingSvc := service.NewBillingService(billingStore)

	billingReconciler := service.NewBillingReconciler(billingStore, logger)
	assetReconciler := service.NewAssetReconciler(assetStore, contractStore, logger)
	assetReconciler.SetConcurrency(config.ReconcileConcurrency())
	coordinator := service.NewCoordinator(billingReconciler, assetReconciler, logger)
	scheduler := service.NewScheduler(coordinator, service.NewBackupService(logger), logger)

	// Handlers
	tenantHandler := handlers.NewTenantHandler(tenantSvc)
	assetHandler := handlers.NewAssetHandler(assetSvc)
	contractHandler := handlers.NewContractHandler(contractSvc)
	billingHandler := handlers.NewBillingHandler(billingSvc)
	reconcileHandler := handlers.NewReconcileHandler(coordinator)

	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health (no auth)
	r.Get("/health", healthHandler(db))

	// Tenant registration (no auth, bootstrap endpoint)
	r.Post("/v1/tenants", tenantHandler.Register)

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(tenantStore))

		r.Route("/tenants", func(r chi.Router) {
			r.Post("/rotate-key", tenantHandler.RotateKey)
			r.Get("/users", tenantHandler.ListUsers)
			r.Post("/users", tenantHandler.AddUser)
		})

		r.Route("/assets", func(r chi.Router) {
			r.Post("/", assetHandler.Create)
			r.Get("/", assetHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", assetHandler.GetByID)
				r.Put("/maintenance", assetHandler.SetMaintenance)
				r.Get("/contracts", contractHandler.ListByAsset)
			})
		})

		r.Route("/contracts", func(r chi.Router) {
			r.Post("/", contractHandler.Create)
			r.Get("/{id}", contractHandler.GetByID)
			r.Delete("/{id}", contractHandler.Cancel)
		})

		r.Route("/billing-periods", func(r chi.Router) {
			r.Post("/", billingHandler.Create)
			r.Get("/", billingHandler.List)
			r.Get("/{id}", billingHandler.GetByID)
			r.Post("/{id}/complete", billingHandler.Complete)
		})

		r.Post("/reconcile", reconcileHandler.Run)
	})

	return &App{Router: r, Scheduler: scheduler}
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// Ensure stores satisfy the domain interfaces at compile time.
var (
	_ domain.TenantStore        = (*store.TenantStore)(nil)
	_ domain.AssetStore         = (*store.AssetStore)(nil)
	_ domain.ContractStore      = (*store.ContractStore)(nil)
	_ domain.BillingPeriodStore = (*store.BillingPeriodStore)(nil)
)
