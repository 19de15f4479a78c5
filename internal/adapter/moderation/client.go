// Package moderation adapts the out-of-core content moderation collaborator
// (spec §6, §4.2 admission step) onto a JSON HTTP endpoint. Grounded on the
// same otelhttp-instrumented client shape as internal/adapter/provider, fail
// closed per domain.Moderator's contract: any transport or decode error is
// surfaced as an error, which admission (internal/usecase) must treat as a
// rejection rather than silently waving the upload through.
package moderation

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/restorehq/control-plane/internal/domain"
)

// Config points at the moderation endpoint.
type Config struct {
	URL     string
	Timeout time.Duration
}

// Client implements domain.Moderator against an HTTP classification service.
type Client struct {
	cfg Config
	hc  *http.Client
}

// New constructs a Client. A blank cfg.URL is valid configuration: callers
// in AUTH_MODE=dev wire NewAllowAll instead, never a Client pointed at "".
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg: cfg,
		hc:  &http.Client{Timeout: timeout, Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

type moderateRequest struct {
	Context string `json:"context"`
	Image   string `json:"image_base64"`
}

type moderateResponse struct {
	Allowed   bool     `json:"allowed"`
	Flags     []string `json:"flags"`
	Rejection string   `json:"rejection,omitempty"`
}

// Moderate implements domain.Moderator. A non-2xx response or any transport
// failure is returned as an error rather than papered over as "allowed",
// since the caller's fail-closed contract depends on that distinction.
func (c *Client) Moderate(ctx domain.Context, data []byte, context string) (domain.ModerationVerdict, error) {
	reqBody, err := json.Marshal(moderateRequest{Context: context, Image: base64Encode(data)})
	if err != nil {
		return domain.ModerationVerdict{}, fmt.Errorf("op=moderation.moderate.encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(reqBody))
	if err != nil {
		return domain.ModerationVerdict{}, fmt.Errorf("op=moderation.moderate.new_request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return domain.ModerationVerdict{}, fmt.Errorf("op=moderation.moderate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return domain.ModerationVerdict{}, fmt.Errorf("op=moderation.moderate: status %d", resp.StatusCode)
	}

	var out moderateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.ModerationVerdict{}, fmt.Errorf("op=moderation.moderate.decode: %w", err)
	}
	return domain.ModerationVerdict{Allowed: out.Allowed, Flags: out.Flags, Rejection: out.Rejection}, nil
}

func base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

var _ domain.Moderator = (*Client)(nil)

// AllowAll is a dev-mode moderator that admits every submission. It must
// only be wired when AUTH_MODE=dev, mirroring authn.DevVerifier's guard.
type AllowAll struct{}

// NewAllowAll constructs an AllowAll moderator.
func NewAllowAll() *AllowAll { return &AllowAll{} }

// Moderate implements domain.Moderator.
func (a *AllowAll) Moderate(_ domain.Context, _ []byte, _ string) (domain.ModerationVerdict, error) {
	return domain.ModerationVerdict{Allowed: true}, nil
}

var _ domain.Moderator = (*AllowAll)(nil)
