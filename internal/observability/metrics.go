package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal counts HTTP requests by route, method, and status label.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	// HTTPRequestDuration records request durations by route and method.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	// ProviderRequestsTotal counts generative provider calls by operation and outcome.
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of generative provider requests",
		},
		[]string{"operation", "outcome"},
	)
	// ProviderRequestDuration records provider call durations.
	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Generative provider request duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 60, 120},
		},
		[]string{"operation"},
	)
	// ProviderBilledUnits tracks billed units consumed by the generative provider.
	ProviderBilledUnits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_billed_units_total",
			Help: "Total billed units consumed by the generative provider",
		},
		[]string{"model"},
	)

	// JobsEnqueuedTotal counts jobs enqueued.
	JobsEnqueuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobs_enqueued_total",
			Help: "Total number of restoration jobs enqueued",
		},
	)
	// JobsProcessing is a gauge of jobs currently running in the worker pipeline.
	JobsProcessing = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobs_processing",
			Help: "Number of restoration jobs currently processing",
		},
	)
	// JobsCompletedTotal counts jobs that reached the succeeded state.
	JobsCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobs_completed_total",
			Help: "Total number of restoration jobs completed",
		},
	)
	// JobsFailedTotal counts jobs that reached the failed state.
	JobsFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobs_failed_total",
			Help: "Total number of restoration jobs failed",
		},
	)
	// JobStageDuration records per-stage worker pipeline durations.
	JobStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "job_stage_duration_seconds",
			Help:    "Duration of each worker pipeline stage in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"stage"},
	)

	// DeadLetterTotal counts tasks archived to the dead-letter store.
	DeadLetterTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dead_letter_total",
			Help: "Total number of tasks archived to the dead-letter store",
		},
	)
	// DeadLetterReplayedTotal counts dead-letter entries replayed by an operator.
	DeadLetterReplayedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dead_letter_replayed_total",
			Help: "Total number of dead-letter entries replayed",
		},
	)

	// CreditDebitsTotal counts successful credit debits by kind.
	CreditDebitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_debits_total",
			Help: "Total number of successful credit debits",
		},
		[]string{"kind"},
	)
	// CreditRefundsTotal counts credit refunds.
	CreditRefundsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "credit_refunds_total",
			Help: "Total number of credit refunds",
		},
	)
	// CreditRejectionsTotal counts admission rejections due to insufficient credits.
	CreditRejectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "credit_rejections_total",
			Help: "Total number of admissions rejected for insufficient credits",
		},
	)

	// RateLimitRejectionsTotal counts requests rejected by the rate limiter, by scope.
	RateLimitRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"scope"},
	)

	// CircuitBreakerStatus tracks circuit breaker state (0=closed, 1=open, 2=half-open).
	CircuitBreakerStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_status",
			Help: "Circuit breaker status (0=closed, 1=open, 2=half-open)",
		},
		[]string{"service", "operation"},
	)
)

// InitMetrics registers all Prometheus metrics with the default registry.
func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(ProviderRequestsTotal)
	prometheus.MustRegister(ProviderRequestDuration)
	prometheus.MustRegister(ProviderBilledUnits)
	prometheus.MustRegister(JobsEnqueuedTotal)
	prometheus.MustRegister(JobsProcessing)
	prometheus.MustRegister(JobsCompletedTotal)
	prometheus.MustRegister(JobsFailedTotal)
	prometheus.MustRegister(JobStageDuration)
	prometheus.MustRegister(DeadLetterTotal)
	prometheus.MustRegister(DeadLetterReplayedTotal)
	prometheus.MustRegister(CreditDebitsTotal)
	prometheus.MustRegister(CreditRefundsTotal)
	prometheus.MustRegister(CreditRejectionsTotal)
	prometheus.MustRegister(RateLimitRejectionsTotal)
	prometheus.MustRegister(CircuitBreakerStatus)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// RecordProviderCall records the outcome and duration of a generative provider call.
func RecordProviderCall(operation, outcome string, dur time.Duration) {
	ProviderRequestsTotal.WithLabelValues(operation, outcome).Inc()
	ProviderRequestDuration.WithLabelValues(operation).Observe(dur.Seconds())
}

// RecordJobStage records the duration of a single worker pipeline stage.
func RecordJobStage(stage string, dur time.Duration) {
	JobStageDuration.WithLabelValues(stage).Observe(dur.Seconds())
}

// RecordCircuitBreakerStatus records circuit breaker state.
func RecordCircuitBreakerStatus(service, operation string, status int) {
	CircuitBreakerStatus.WithLabelValues(service, operation).Set(float64(status))
}
