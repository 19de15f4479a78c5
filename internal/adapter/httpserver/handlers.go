package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/restorehq/control-plane/internal/domain"
	"github.com/restorehq/control-plane/internal/usecase"
)

var validate = validator.New()

type uploadTargetRequest struct {
	ContentType string `json:"content_type" validate:"required"`
}

// UploadTargetHandler implements ISSUE_UPLOAD_TARGET (spec §4.1).
func (s *Server) UploadTargetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		var req uploadTargetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err), nil)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err), nil)
			return
		}
		target, err := s.Admission.IssueUploadTarget(r.Context(), OwnerIDFrom(r), req.ContentType)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"upload_url":  target.URL,
			"object_name": target.ObjectName,
			"expires_at":  target.ExpiresAt,
		})
	}
}

type submitJSONRequest struct {
	Prompt     string `json:"prompt"`
	ObjectName string `json:"object_name" validate:"required"`
}

// SubmitJobHandler implements SUBMIT_JOB (spec §4.1). It accepts either a
// multipart inline image or a JSON body referencing a pre-uploaded object.
func (s *Server) SubmitJobHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		ownerID := OwnerIDFrom(r)
		idemKey := r.Header.Get("Idempotency-Key")

		req := usecase.SubmitRequest{
			OwnerID:        ownerID,
			IdempotencyKey: idemKey,
			Method:         r.Method,
			Path:           r.URL.Path,
			Traceparent:    r.Header.Get("Traceparent"),
			Tracestate:     r.Header.Get("Tracestate"),
		}

		contentType := r.Header.Get("Content-Type")
		if len(contentType) >= 19 && contentType[:19] == "multipart/form-data" {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())
			if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
				writeError(w, r, fmt.Errorf("%w: %v", domain.ErrFileTooLarge, err), nil)
				return
			}
			req.Prompt = r.FormValue("prompt")
			file, _, err := r.FormFile("image")
			if err != nil {
				writeError(w, r, fmt.Errorf("%w: image file required", domain.ErrInvalidPayload), nil)
				return
			}
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err), nil)
				return
			}
			req.InlineImage = data
		} else {
			var body submitJSONRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err), nil)
				return
			}
			if err := validate.Struct(body); err != nil {
				writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err), nil)
				return
			}
			req.Prompt = body.Prompt
			req.ObjectName = body.ObjectName
		}

		result, err := s.Admission.Submit(r.Context(), req)
		if err != nil {
			if entry, ok := usecase.AsReplay(err); ok {
				replayCanonical(w, entry)
				return
			}
			writeError(w, r, err, nil)
			return
		}

		w.Header().Set("Location", "/jobs/"+result.JobID)
		writeJSON(w, http.StatusAccepted, map[string]interface{}{
			"job_id": result.JobID,
			"status": result.Status,
			"credit": result.Credit,
		})
	}
}

func replayCanonical(w http.ResponseWriter, entry domain.IdempotencyEntry) {
	for k, v := range entry.Headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(entry.Status)
	if len(entry.Body) > 0 {
		_, _ = w.Write(entry.Body)
	}
}

func (s *Server) maxUploadBytes() int64 {
	if s.MaxUploadBytes > 0 {
		return s.MaxUploadBytes
	}
	return 15 << 20
}

// GetJobHandler implements GET_JOB's point lookup (spec §4.8).
func (s *Server) GetJobHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		jobID := chi.URLParam(r, "id")
		projection, err := s.Status.Project(r.Context(), OwnerIDFrom(r), jobID)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, projection)
	}
}

// StreamJobHandler implements STREAM_JOB's push stream (spec §4.8), framed
// as text/event-stream with a comment heartbeat and a named "status" event
// per observed change. Backed by short-interval polling of the job record
// rather than a native change feed (see DESIGN.md).
func (s *Server) StreamJobHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, r, errors.New("streaming unsupported"), nil)
			return
		}
		ownerID := OwnerIDFrom(r)
		jobID := chi.URLParam(r, "id")

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, ": connected\n\n")
		flusher.Flush()

		ctx := r.Context()
		var last domain.Projection
		first := true

		ticker := time.NewTicker(usecase.PollInterval)
		defer ticker.Stop()
		heartbeat := time.NewTicker(s.StreamHeartbeat)
		defer heartbeat.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				fmt.Fprint(w, ": heartbeat\n\n")
				flusher.Flush()
			case <-ticker.C:
				projection, err := s.Status.Project(ctx, ownerID, jobID)
				if err != nil {
					writeSSEEvent(w, "error", map[string]string{"detail": err.Error()})
					flusher.Flush()
					return
				}
				if first || usecase.Changed(last, projection) {
					writeSSEEvent(w, "status", projection)
					flusher.Flush()
					first = false
					last = projection
				}
				if projection.Status.IsTerminal() {
					return
				}
			}
		}
	}
}

func writeSSEEvent(w http.ResponseWriter, event string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, b)
}
