package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tripweave-app/tripweave/internal/database"
	"github.com/tripweave-app/tripweave/internal/events"
	mw "github.com/tripweave-app/tripweave/internal/middleware"
)

// HandlerSet holds handler functions injected from main.go to avoid import cycles.
type HandlerSet struct {
	// Auth handlers
	Register http.HandlerFunc
	Login    http.HandlerFunc
	Refresh  http.HandlerFunc
	Logout   http.HandlerFunc

	// Workspace / idea handlers
	CreateWorkspace http.HandlerFunc
	ListWorkspaces  http.HandlerFunc
	GetWorkspace    http.HandlerFunc
	CreateIdea      http.HandlerFunc
	ListIdeas       http.HandlerFunc
	GetIdea         http.HandlerFunc
	PromoteIdea     http.HandlerFunc
	DeleteIdea      http.HandlerFunc
	CreateProposal  http.HandlerFunc
	ListProposals   http.HandlerFunc
	LikeIdea        http.HandlerFunc
	UnlikeIdea      http.HandlerFunc

	// Suggestion handlers. These live outside the authenticated group: the
	// browser client calls them cross-origin with an explicit user id, and the
	// server-side quota guard is the enforcement layer.
	GenerateSuggestion http.HandlerFunc
	GetSuggestionQuota http.HandlerFunc

	// Auth middleware
	AuthMiddleware func(http.Handler) http.Handler
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	CORSAllowedOrigins []string
	AuthRateLimiter    func(http.Handler) http.Handler
	SuggestRateLimiter func(http.Handler) http.Handler
}

func NewRouter(pool *pgxpool.Pool, redisPing func() error, eventsClient *events.Client, cfg RouterConfig, h HandlerSet) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.Logging)
	r.Use(mw.Recovery)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(mw.CORS(cfg.CORSAllowedOrigins)))

	// Liveness probe: always 200, no dependency checks
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})

	// Readiness probe: checks DB, Redis, NATS
	readinessHandler := func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{
			"status":   "healthy",
			"database": "healthy",
			"redis":    "healthy",
			"nats":     "healthy",
		}

		status := http.StatusOK

		if err := database.HealthCheck(r.Context(), pool); err != nil {
			health["database"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		if redisPing != nil {
			if err := redisPing(); err != nil {
				health["redis"] = "unhealthy"
				health["status"] = "degraded"
				status = http.StatusServiceUnavailable
			}
		} else {
			health["redis"] = "not configured"
		}

		if eventsClient != nil && !eventsClient.Healthy() {
			health["nats"] = "unhealthy"
			health["status"] = "degraded"
		} else if eventsClient == nil {
			health["nats"] = "not configured"
		}

		JSON(w, status, health)
	}

	r.Get("/health/ready", readinessHandler)
	r.Get("/health", readinessHandler)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public), optionally rate-limited
		r.Route("/auth", func(r chi.Router) {
			if cfg.AuthRateLimiter != nil {
				r.Use(cfg.AuthRateLimiter)
			}
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/refresh", h.Refresh)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(h.AuthMiddleware)
				r.Post("/logout", h.Logout)
			})
		})

		// Suggestion routes. Open CORS so any frontend origin can call them;
		// the persisted per-user daily counter is the real gate.
		r.Route("/suggestions", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Content-Type"},
			}))
			if cfg.SuggestRateLimiter != nil {
				r.Use(cfg.SuggestRateLimiter)
			}
			r.Post("/", h.GenerateSuggestion)
			r.Get("/quota", h.GetSuggestionQuota)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.Route("/workspaces", func(r chi.Router) {
				r.Post("/", h.CreateWorkspace)
				r.Get("/", h.ListWorkspaces)

				r.Route("/{workspaceID}", func(r chi.Router) {
					r.Get("/", h.GetWorkspace)
					r.Post("/ideas", h.CreateIdea)
					r.Get("/ideas", h.ListIdeas)
				})
			})

			r.Route("/ideas/{ideaID}", func(r chi.Router) {
				r.Get("/", h.GetIdea)
				r.Post("/status", h.PromoteIdea)
				r.Delete("/", h.DeleteIdea)
				r.Post("/proposals", h.CreateProposal)
				r.Get("/proposals", h.ListProposals)
				r.Post("/like", h.LikeIdea)
				r.Delete("/like", h.UnlikeIdea)
			})
		})
	})

	return r
}
