package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eternalinsky-max/proponujeprace/internal/service"
	"github.com/eternalinsky-max/proponujeprace/pkg/health"
	"github.com/eternalinsky-max/proponujeprace/pkg/middleware"
)

// RouterConfig bundles the services, middleware configuration and shared
// infrastructure the router needs.
type RouterConfig struct {
	Reviews     *service.ReviewService
	Jobs        *service.JobService
	Users       *service.UserService
	Companies   *service.CompanyService
	Contact     *service.ContactService
	ContactLogs *service.ContactLogService

	TokenValidator middleware.TokenValidator
	Health         *health.Handler
	CORS           middleware.CORSConfig
	CronSecret     string

	RateLimitRPS      int
	RateLimitBurst    int
	PprofAllowedCIDRs []string

	Logger *slog.Logger
}

// NewRouter creates a chi router with all job board routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	logger := cfg.Logger

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing("jobboard-api"))
	r.Use(middleware.PrometheusMetrics("jobboard"))

	// Health check and operational endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	// One shared token bucket for all mutation routes.
	rateLimit := middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	publicCache := middleware.CacheControl(60)
	authenticated := []func(http.Handler) http.Handler{
		middleware.Auth(cfg.TokenValidator),
		ResolveUser(cfg.Users, logger),
	}

	reviewHandler := NewReviewHandler(cfg.Reviews, logger)
	jobHandler := NewJobHandler(cfg.Jobs, logger)
	userHandler := NewUserHandler(cfg.Users, logger)
	companyHandler := NewCompanyHandler(cfg.Companies, logger)
	contactHandler := NewContactHandler(cfg.Contact, logger)
	adminHandler := NewAdminHandler(cfg.ContactLogs, cfg.CronSecret, logger)

	// Reviews: listing is public, mutations require auth.
	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Get("/", reviewHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(authenticated...)
			r.Use(rateLimit)

			r.Post("/", reviewHandler.Upsert)
			r.Delete("/{id}", reviewHandler.Delete)
		})
	})

	// Jobs: listing and detail are public, owner operations require auth.
	r.Route("/api/v1/jobs", func(r chi.Router) {
		r.With(publicCache).Get("/", jobHandler.List)
		r.With(publicCache).Get("/{id}", jobHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(authenticated...)
			r.Use(rateLimit)

			r.Post("/", jobHandler.Create)
			r.Put("/{id}", jobHandler.Update)
			r.Delete("/{id}", jobHandler.Delete)
		})
	})

	r.Route("/api/v1/my-jobs", func(r chi.Router) {
		r.Use(authenticated...)

		r.Get("/", jobHandler.ListMine)
	})

	// Identity and worker profile
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authenticated...)

		r.Get("/me", userHandler.Me)
		r.Put("/me", userHandler.UpdateProfile)
	})

	// Public profiles and companies
	r.With(publicCache).Get("/api/v1/users/{id}", userHandler.PublicProfile)
	r.Route("/api/v1/companies", func(r chi.Router) {
		r.Use(publicCache)

		r.Get("/", companyHandler.List)
		r.Get("/{id}", companyHandler.Get)
	})

	// Contact form (public, anti-spam handled by the service)
	r.With(ContentTypeJSON).Post("/api/v1/contact", contactHandler.Submit)

	// Admin console over the contact log
	r.Route("/api/v1/admin/contact-logs", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authenticated...)
		r.Use(AdminOnly(logger))

		r.Get("/", adminHandler.ListContactLogs)
		r.Delete("/{id}", adminHandler.DeleteContactLog)
		r.Post("/{id}/restore", adminHandler.RestoreContactLog)
		r.Post("/cleanup", adminHandler.Cleanup)
	})

	// Scheduled sweep, authenticated by shared secret instead of a token.
	r.Post("/api/v1/cron/contact-logs/cleanup", adminHandler.CronCleanup)

	return r
}
