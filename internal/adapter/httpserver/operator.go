package httpserver

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/restorehq/control-plane/internal/domain"
	"github.com/restorehq/control-plane/internal/usecase"
)

// OperatorServer exposes the operator HTTP surface (spec's supplemented
// dashboard counters and dead-letter replay), guarded by a static token
// rather than the end-user identity collaborator.
type OperatorServer struct {
	Jobs        domain.JobRepository
	DeadLetters domain.DeadLetterRepository
	Queue       domain.Queue
	Replay      *usecase.ReplayService
	Token       string
}

// Guard rejects any request whose Authorization bearer does not match the
// configured operator token.
func (o *OperatorServer) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		auth := r.Header.Get("Authorization")
		if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
			writeError(w, r, domain.ErrUnauthorized, nil)
			return
		}
		got := auth[len(prefix):]
		if subtle.ConstantTimeCompare([]byte(got), []byte(o.Token)) != 1 {
			writeError(w, r, domain.ErrUnauthorized, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// OperatorGuard delegates to the server's configured OperatorServer, when
// the operator surface is mounted.
func (s *Server) OperatorGuard(next http.Handler) http.Handler {
	if s.Operator == nil {
		return next
	}
	return s.Operator.Guard(next)
}

// StatsHandler reports queue depth, dead-letter count, and job throughput
// counters — grounded on the teacher's getDashboardStats.
func (o *OperatorServer) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		total, err := o.Jobs.Count(ctx)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		succeeded, err := o.Jobs.CountByStatus(ctx, domain.JobSucceeded)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		failed, err := o.Jobs.CountByStatus(ctx, domain.JobFailed)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		running, err := o.Jobs.CountByStatus(ctx, domain.JobRunning)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		avgMS, err := o.Jobs.AverageTotalMS(ctx)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		dlqTotal, dlqOldest, err := o.DeadLetters.Stats(ctx)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"jobs_total":          total,
			"jobs_succeeded":      succeeded,
			"jobs_failed":         failed,
			"jobs_running":        running,
			"average_total_ms":    avgMS,
			"dead_letter_total":   dlqTotal,
			"dead_letter_oldest":  dlqOldest.String(),
		})
	}
}

// ListDeadLettersHandler returns a page of dead-letter entries, oldest first.
func (o *OperatorServer) ListDeadLettersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, limit := pagination(r)
		entries, err := o.DeadLetters.List(r.Context(), offset, limit)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
	}
}

func pagination(r *http.Request) (offset, limit int) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return offset, limit
}

type replayRequest struct {
	Reason string `json:"reason"`
}

// ReplayHandler replays a single dead-letter entry by id (spec §4.6).
func (o *OperatorServer) ReplayHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var body replayRequest
		if r.ContentLength != 0 {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		operatorID := OwnerIDFrom(r)
		if operatorID == "" {
			operatorID = "operator"
		}
		if err := o.Replay.Replay(r.Context(), id, operatorID, body.Reason, domain.EnqueueOptions{}); err != nil {
			writeError(w, r, err, nil)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ReplayAllHandler replays every dead-lettered job currently stored.
func (o *OperatorServer) ReplayAllHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		succeeded, failed, err := o.Replay.ReplayAll(r.Context(), "operator")
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if succeeded == nil {
			succeeded = []string{}
		}
		if failed == nil {
			failed = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"succeeded": succeeded,
			"failed":    failed,
		})
	}
}
