package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Triage/internal/config"
	"github.com/MikeSquared-Agency/Triage/internal/hermes"
	"github.com/MikeSquared-Agency/Triage/internal/metrics"
	"github.com/MikeSquared-Agency/Triage/internal/scoring"
	"github.com/MikeSquared-Agency/Triage/internal/store"
)

// taskIDParam only matches uuid-shaped segments, so sibling routes such as
// /tasks/analyze answer 405 for unsupported methods.
const taskIDParam = "{id:[0-9a-fA-F-]{36}}"

func NewRouter(s store.Store, h hermes.Client, sc *scoring.Scorer, m *metrics.Recorder, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	if cfg.Server.RequestsPerMinute > 0 {
		r.Use(RateLimitMiddleware(cfg.Server.RequestsPerMinute))
	}

	ranking := NewRankingHandler(s, h, sc, m, cfg.Scoring, logger)
	tasks := NewTasksHandler(s, h, sc, cfg.Scoring, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/tasks/analyze", ranking.Analyze)
		r.Get("/tasks/suggest", ranking.Suggest)
		r.Get("/strategies", ranking.Strategies)

		r.Get("/tasks", tasks.List)
		r.Get("/tasks/"+taskIDParam, tasks.Get)
		r.Get("/tasks/"+taskIDParam+"/explain", tasks.Explain)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Post("/tasks", tasks.Create)
			r.Patch("/tasks/"+taskIDParam, tasks.Update)
			r.Delete("/tasks/"+taskIDParam, tasks.Delete)
		})
	})

	return r
}

func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
