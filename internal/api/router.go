package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thehfhotel/loyalty-backend/internal/api/handler"
	"github.com/thehfhotel/loyalty-backend/internal/api/middleware"
	"github.com/thehfhotel/loyalty-backend/internal/auth"
	"github.com/thehfhotel/loyalty-backend/internal/ledger"
	"github.com/thehfhotel/loyalty-backend/internal/rewards"
	"github.com/thehfhotel/loyalty-backend/internal/tier"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger    handler.DBPinger
	Version     string
	OpenAPISpec []byte
	Engine      ledger.Engine
	TierRepo    tier.Repository
	Sweeper     *ledger.Sweeper // nil when expiry sweeping is disabled
	Rewarder    *rewards.StayRewarder
	AuthService *auth.Service
	CredRepo    auth.Repository
	RateLimiter *middleware.RateLimiter

	// OnCustomer runs after a customer-bound credential authenticates; the
	// loyalty program hooks enrollment-on-sign-in here.
	OnCustomer func(ctx context.Context, customerID uuid.UUID)
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Handler)
	}

	healthHandler := handler.NewHealthHandler(deps.DBPinger, sweepStatus(deps.Sweeper), deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	loyaltyHandler := handler.NewLoyaltyHandler(deps.Engine, deps.TierRepo)

	// The tier catalog backs the public marketing pages.
	r.Get("/api/loyalty/tiers", loyaltyHandler.Tiers)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.AuthService, deps.OnCustomer))

		r.Get("/api/loyalty/status", loyaltyHandler.Status)
		r.Get("/api/loyalty/transactions", loyaltyHandler.Transactions)

		stayHandler := handler.NewStayHandler(deps.Rewarder)
		r.Route("/api/stays", func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleService, auth.RoleAdmin))
			r.Post("/completed", stayHandler.Completed)
			r.Post("/cancelled", stayHandler.Cancelled)
		})

		adminHandler := handler.NewAdminHandler(deps.Engine, deps.Sweeper)
		credentialHandler := handler.NewCredentialHandler(deps.AuthService, deps.CredRepo)
		r.Route("/api/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleAdmin))

			r.Get("/loyalty", adminHandler.Standings)
			r.Post("/loyalty/award", adminHandler.Award)
			r.Post("/loyalty/deduct", adminHandler.Deduct)
			r.Get("/loyalty/transactions", adminHandler.Transactions)
			r.Post("/loyalty/{customerId}/recalculate", adminHandler.Recalculate)
			r.Post("/loyalty/sweep", adminHandler.Sweep)

			r.Post("/credentials", credentialHandler.Create)
			r.Get("/credentials", credentialHandler.List)
			r.Delete("/credentials/{id}", credentialHandler.Delete)
		})
	})

	return r
}

// sweepStatus avoids handing the health handler an interface wrapping a nil
// *ledger.Sweeper.
func sweepStatus(s *ledger.Sweeper) handler.SweepStatus {
	if s == nil {
		return nil
	}
	return s
}
