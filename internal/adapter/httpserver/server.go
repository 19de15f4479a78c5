package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/restorehq/control-plane/internal/domain"
	"github.com/restorehq/control-plane/internal/usecase"
)

// ReadyCheck probes a single dependency for readiness.
type ReadyCheck func(context.Context) error

// Server holds the usecase services and collaborators the HTTP handlers
// delegate to. It carries no business logic of its own.
type Server struct {
	Admission *usecase.AdmissionService
	Status    *usecase.StatusService
	Verifier  domain.TokenVerifier
	Limiter   domain.RateLimiter
	Operator  *OperatorServer

	MaxUploadBytes  int64
	StreamHeartbeat time.Duration

	ReadyChecks map[string]ReadyCheck
}

// NewServer constructs a Server.
func NewServer(admission *usecase.AdmissionService, status *usecase.StatusService, verifier domain.TokenVerifier, limiter domain.RateLimiter, maxUploadBytes int64, streamHeartbeat time.Duration) *Server {
	if streamHeartbeat <= 0 {
		streamHeartbeat = 30 * time.Second
	}
	return &Server{
		Admission:       admission,
		Status:          status,
		Verifier:        verifier,
		Limiter:         limiter,
		MaxUploadBytes:  maxUploadBytes,
		StreamHeartbeat: streamHeartbeat,
		ReadyChecks:     map[string]ReadyCheck{},
	}
}

// ReadyzHandler probes every registered dependency, grounded on the
// teacher's multi-collaborator readiness check.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, len(s.ReadyChecks))
		allOK := true
		for name, fn := range s.ReadyChecks {
			if err := fn(ctx); err != nil {
				checks = append(checks, check{Name: name, OK: false, Details: err.Error()})
				allOK = false
			} else {
				checks = append(checks, check{Name: name, OK: true})
			}
		}
		status := http.StatusOK
		if !allOK {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]interface{}{"ready": allOK, "checks": checks})
	}
}
