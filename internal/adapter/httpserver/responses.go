package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/restorehq/control-plane/internal/domain"
	"github.com/restorehq/control-plane/internal/usecase"
)

// problem is an RFC 7807 application/problem+json body. Extension members
// are merged in flat, alongside the five standard fields.
type problem struct {
	Type     string                 `json:"type"`
	Title    string                 `json:"title"`
	Status   int                    `json:"status"`
	Detail   string                 `json:"detail,omitempty"`
	Instance string                 `json:"instance,omitempty"`
	Extra    map[string]interface{} `json:"-"`
}

// MarshalJSON flattens Extra alongside the standard problem fields.
func (p problem) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{
		"type":   p.Type,
		"title":  p.Title,
		"status": p.Status,
	}
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}
	for k, v := range p.Extra {
		m[k] = v
	}
	return json.Marshal(m)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem writes a minimal application/problem+json response identified
// by a short type slug (resolved against the API's problem-type namespace).
func writeProblem(w http.ResponseWriter, r *http.Request, status int, typeSlug, title, detail string) {
	writeProblemExt(w, r, status, typeSlug, title, detail, nil)
}

func writeProblemExt(w http.ResponseWriter, r *http.Request, status int, typeSlug, title, detail string, extra map[string]interface{}) {
	p := problem{
		Type:     "https://errors.restorehq.dev/" + typeSlug,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
		Extra:    extra,
	}
	w.Header().Set("Content-Type", "application/problem+json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(p)
}

// writeError maps a domain sentinel error to an RFC 7807 problem response.
func writeError(w http.ResponseWriter, r *http.Request, err error, extra map[string]interface{}) {
	status, typeSlug, title := classifyError(err)
	writeProblemExt(w, r, status, typeSlug, title, err.Error(), extra)
}

func classifyError(err error) (status int, typeSlug, title string) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", "Unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden", "Forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not-found", "Not Found"
	case errors.Is(err, domain.ErrInvalidPayload):
		return http.StatusBadRequest, "invalid-payload", "Invalid Payload"
	case errors.Is(err, domain.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType, "unsupported-media-type", "Unsupported Media Type"
	case errors.Is(err, domain.ErrIdempotencyKeyMissing):
		return http.StatusBadRequest, "idempotency-key-missing", "Idempotency-Key Required"
	case errors.Is(err, domain.ErrIdempotencyKeyInvalid):
		return http.StatusBadRequest, "idempotency-key-invalid", "Idempotency-Key Invalid"
	case errors.Is(err, domain.ErrIdempotencyConflict):
		return http.StatusConflict, "idempotency-conflict", "Idempotency Key Reused With Different Payload"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "file-too-large", "File Too Large"
	case errors.Is(err, domain.ErrModerationRejected):
		return http.StatusUnprocessableEntity, "moderation-rejected", "Rejected By Content Moderation"
	case errors.Is(err, domain.ErrInsufficientCredits):
		return http.StatusPaymentRequired, "insufficient-credits", "Insufficient Credits"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "rate-limited", "Rate Limit Exceeded"
	case errors.Is(err, domain.ErrNotImplemented):
		return http.StatusNotImplemented, "not-implemented", "Not Implemented"
	case errors.Is(err, domain.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, "service-unavailable", "Service Unavailable"
	case errors.Is(err, usecase.ErrAlreadySucceeded):
		return http.StatusConflict, "already-succeeded", "Job Already Succeeded"
	default:
		return http.StatusInternalServerError, "internal-error", "Internal Server Error"
	}
}
