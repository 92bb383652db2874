package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/promptcraft/promptcraft-api/internal/api/handlers"
	"github.com/promptcraft/promptcraft-api/internal/api/middleware"
	"github.com/promptcraft/promptcraft-api/internal/config"
	"github.com/promptcraft/promptcraft-api/internal/export"
	"github.com/promptcraft/promptcraft-api/internal/feedback"
	"github.com/promptcraft/promptcraft-api/internal/health"
	"github.com/promptcraft/promptcraft-api/internal/prompt"
	"github.com/promptcraft/promptcraft-api/internal/readiness"
	"github.com/promptcraft/promptcraft-api/internal/store"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Initialize services
	st := store.New(rt.db, rt.cfg.Database.QueryTimeout)
	promptSvc := prompt.NewService(st)
	feedbackSvc := feedback.NewService(st)
	healthSvc := health.NewService(st)
	exportSvc := export.NewService(st)
	eval := readiness.NewEvaluator(feedbackSvc, readiness.Thresholds{
		MinSamples:  rt.cfg.Readiness.MinSamples,
		MaxAvgScore: rt.cfg.Readiness.MaxAvgScore,
	})

	// Health endpoints
	healthH := handlers.NewHealthHandler(rt.db, rt.redis, healthSvc)
	r.Get("/healthz", healthH.Healthz)
	r.Get("/readyz", healthH.Readyz)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		promptH := handlers.NewPromptHandler(promptSvc)
		responseH := handlers.NewResponseHandler(feedbackSvc)
		feedbackH := handlers.NewFeedbackHandler(feedbackSvc, eval)

		r.Route("/prompts", func(r chi.Router) {
			r.Post("/", promptH.Create)
			r.Get("/", promptH.List)
			r.Get("/{id}", promptH.Get)
			r.Put("/{id}", promptH.Update)
			r.Post("/{id}/instances", promptH.CreateInstance)
			r.Get("/{id}/instances", promptH.ListInstances)
			r.Get("/{id}/feedback", feedbackH.ListForPrompt)
			r.Get("/{id}/feedback/stats", feedbackH.Stats)
			r.Get("/{id}/readiness", feedbackH.Readiness)
		})

		r.Route("/instances", func(r chi.Router) {
			r.Post("/{id}/responses", responseH.Create)
			r.Get("/{id}/responses", responseH.List)
		})

		r.Post("/responses/{id}/feedback", feedbackH.Create)

		r.Get("/health/db", healthH.DBDiagnostics)

		adminH := handlers.NewAdminHandler(exportSvc)
		r.Get("/admin/export", adminH.Export)
	})

	return r
}
