package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cnwankpa/portfolio-api/internal/admins"
	"github.com/cnwankpa/portfolio-api/internal/analytics"
	"github.com/cnwankpa/portfolio-api/internal/health"
	"github.com/cnwankpa/portfolio-api/internal/http/handlers"
	httpmiddleware "github.com/cnwankpa/portfolio-api/internal/http/middleware"
	"github.com/cnwankpa/portfolio-api/internal/intake"
	"github.com/cnwankpa/portfolio-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger        *logging.Logger
	IntakeHandler *intake.Handler
	HealthHandler *health.Handler

	// Admin surface (optional; omitted when no auth service is wired)
	AuthService       *admins.AuthService
	AdminAuthHandler  *admins.Handler
	AdminLeadsHandler *handlers.AdminLeadsHandler
	AnalyticsHandler  *analytics.Handler

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		if cfg.HealthHandler != nil {
			public.Get("/health", cfg.HealthHandler.Health)
			public.Get("/ready", cfg.HealthHandler.Ready)
			public.Get("/live", cfg.HealthHandler.Live)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.IntakeHandler != nil {
			public.Post("/api/request-cv", cfg.IntakeHandler.RequestCV)
			public.Get("/api/cv-status/{requestID}", cfg.IntakeHandler.RequestStatus)
		}
		if cfg.AdminAuthHandler != nil {
			public.Post("/api/admin/login", cfg.AdminAuthHandler.Login)
		}
	})

	// Admin routes behind bearer-token auth
	if cfg.AuthService != nil {
		r.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.RequireAdmin(cfg.AuthService))

			if cfg.AdminAuthHandler != nil {
				admin.Get("/api/admin/me", cfg.AdminAuthHandler.Me)
			}
			if cfg.AdminLeadsHandler != nil {
				admin.Route("/api/admin/leads", func(r chi.Router) {
					r.Get("/", cfg.AdminLeadsHandler.ListLeads)
					r.Get("/{leadID}", cfg.AdminLeadsHandler.GetLead)
					r.Put("/{leadID}", cfg.AdminLeadsHandler.UpdateLead)
					r.Delete("/{leadID}", cfg.AdminLeadsHandler.DeleteLead)
				})
			}
			if cfg.AnalyticsHandler != nil {
				admin.Route("/api/analytics", func(r chi.Router) {
					r.Get("/dashboard", cfg.AnalyticsHandler.Dashboard)
					r.Get("/leads/summary", cfg.AnalyticsHandler.LeadsSummary)
					r.Get("/performance", cfg.AnalyticsHandler.Performance)
				})
			}
		})
	}

	return r
}
