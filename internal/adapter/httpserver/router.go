package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/restorehq/control-plane/internal/config"
	"github.com/restorehq/control-plane/internal/observability"
)

// ParseOrigins splits a comma-separated origin list into a slice, trimming
// spaces. An empty or "*" input allows every origin.
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter assembles the full HTTP handler: instrumentation middleware,
// CORS, a coarse per-IP edge limiter, the fine-grained admission chain from
// spec §4.4, and the routes for every operation in spec §4.1/§4.6/§4.8.
func BuildRouter(cfg config.Config, srv *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(Recoverer())
	r.Use(RequestID())
	r.Use(TimeoutMiddleware(30 * time.Second))
	r.Use(AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Idempotency-Key", "Traceparent", "Tracestate"},
		ExposedHeaders:   []string{"X-Request-Id", "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", HealthzHandler())
	r.Get("/readyz", srv.ReadyzHandler())
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Group(func(gr chi.Router) {
		gr.Use(httprate.LimitByIP(cfg.RateLimitIPPerMin, cfg.RateLimitWindow))
		gr.Use(srv.Authenticate)
		gr.Use(srv.RateLimit)

		gr.Post("/uploads", srv.UploadTargetHandler())
		gr.Post("/jobs", srv.SubmitJobHandler())
		gr.Get("/jobs/{id}", srv.GetJobHandler())
		gr.Get("/jobs/{id}/stream", srv.StreamJobHandler())
	})

	if srv.Operator != nil {
		r.Group(func(gr chi.Router) {
			gr.Use(httprate.LimitByIP(cfg.RateLimitIPPerMin, cfg.RateLimitWindow))
			gr.Use(srv.OperatorGuard)
			gr.Get("/internal/stats", srv.Operator.StatsHandler())
			gr.Get("/internal/dead-letters", srv.Operator.ListDeadLettersHandler())
			gr.Post("/internal/dead-letters/{id}/replay", srv.Operator.ReplayHandler())
			gr.Post("/internal/dead-letters/replay-all", srv.Operator.ReplayAllHandler())
		})
	}

	return SecurityHeaders(r)
}

// HealthzHandler reports liveness unconditionally: the process can accept
// traffic as long as it can answer HTTP at all.
func HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
