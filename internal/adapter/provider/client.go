// Package provider adapts the generative image-restoration collaborator
// (spec §6, §4.7) onto an OpenAI-compatible image-edit endpoint. Grounded on
// the teacher's internal/adapter/ai/real/client.go: the same
// cenkalti/backoff retry shape, otelhttp-instrumented transport, and
// tiktoken-go cost-estimation pattern, narrowed from that file's
// multi-provider chat-completion routing (Groq/OpenRouter/model-switching)
// down to the single opaque restore(prompt, image) -> bytes call spec §6
// describes; this domain has no model-shopping concern to route across.
package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	tiktoken "github.com/pkoukk/tiktoken-go"
	tiktokenloader "github.com/pkoukk/tiktoken-go-loader"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/restorehq/control-plane/internal/domain"
	"github.com/restorehq/control-plane/internal/observability"
)

func init() {
	// Offline BPE loader: avoids a network fetch for the encoding table at
	// runtime, the same reason the teacher's ai/real client sets this.
	tiktoken.SetBpeLoader(tiktokenloader.NewOfflineLoader())
}

// Config configures the restoration provider call.
type Config struct {
	BaseURL         string
	APIKey          string
	Model           string
	Timeout         time.Duration
	MaxElapsedTime  time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// Client implements domain.Provider against an image-edit endpoint.
type Client struct {
	cfg Config
	hc  *http.Client
}

// New constructs a Client with an otel-instrumented HTTP transport.
func New(cfg Config) *Client {
	transport := otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return fmt.Sprintf("provider %s %s", r.Method, r.URL.Host)
		}),
	)
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{cfg: cfg, hc: &http.Client{Timeout: timeout, Transport: transport}}
}

func (c *Client) backoffPolicy(ctx context.Context) backoff.BackOffContext {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = nonZero(c.cfg.InitialInterval, 2*time.Second)
	expo.MaxInterval = nonZero(c.cfg.MaxInterval, 20*time.Second)
	expo.MaxElapsedTime = nonZero(c.cfg.MaxElapsedTime, 180*time.Second)
	expo.Multiplier = c.cfg.Multiplier
	if expo.Multiplier <= 0 {
		expo.Multiplier = 1.5
	}
	// cenkalti/backoff jitters +/-RandomizationFactor by default; 0.3 matches
	// the "30% jitter" spec §4.7 names for provider retries.
	expo.RandomizationFactor = 0.3
	return backoff.WithContext(expo, ctx)
}

func nonZero(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// Restore implements domain.Provider. It retries up to 3 attempts with
// jittered exponential backoff (spec §4.7 step 6); 4xx responses other than
// 429 are treated as permanent since retrying an identical malformed
// request cannot succeed.
func (c *Client) Restore(ctx domain.Context, prompt string, image []byte) ([]byte, domain.ProviderMetadata, error) {
	var restored []byte
	var meta domain.ProviderMetadata

	bo := c.backoffPolicy(ctx)
	attempt := 0
	const maxAttempts = 3

	op := func() error {
		attempt++
		if attempt > maxAttempts {
			return backoff.Permanent(fmt.Errorf("op=provider.restore: exceeded %d attempts", maxAttempts))
		}
		start := time.Now()
		body, contentType, err := buildEditRequest(prompt, image, c.cfg.Model)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("op=provider.restore.build_request: %w", err))
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/images/edits", body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("op=provider.restore.new_request: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		req.Header.Set("Content-Type", contentType)

		resp, err := c.hc.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			observability.RecordProviderCall("restore", "retryable_error", time.Since(start))
			return fmt.Errorf("op=provider.restore: status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			observability.RecordProviderCall("restore", "permanent_error", time.Since(start))
			return backoff.Permanent(fmt.Errorf("op=provider.restore: status %d: %s", resp.StatusCode, string(b)))
		}

		var out struct {
			RequestID string `json:"request_id"`
			Data      []struct {
				B64JSON string `json:"b64_json"`
			} `json:"data"`
			Usage struct {
				TotalTokens int `json:"total_tokens"`
			} `json:"usage"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return backoff.Permanent(fmt.Errorf("op=provider.restore.decode: %w", err))
		}
		if len(out.Data) == 0 || out.Data[0].B64JSON == "" {
			return backoff.Permanent(fmt.Errorf("op=provider.restore: empty result"))
		}
		decoded, err := decodeB64(out.Data[0].B64JSON)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("op=provider.restore.decode_image: %w", err))
		}
		restored = decoded
		meta = domain.ProviderMetadata{
			RequestID:     out.RequestID,
			BilledUnits:   estimateBilledUnits(prompt, out.Usage.TotalTokens),
			EstimatedCost: estimateCost(out.Usage.TotalTokens),
		}
		return nil
	}

	if err := backoff.Retry(op, bo); err != nil {
		return nil, domain.ProviderMetadata{}, err
	}
	return restored, meta, nil
}

func buildEditRequest(prompt string, image []byte, model string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("prompt", prompt); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("model", model); err != nil {
		return nil, "", err
	}
	part, err := w.CreateFormFile("image", "source.jpg")
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// estimateBilledUnits uses tiktoken's cl100k_base encoding to size the
// prompt when the provider response doesn't report usage, following the
// same estimate-on-missing-usage fallback the teacher's ai/real client
// uses for chat completions.
func estimateBilledUnits(prompt string, reportedTokens int) int64 {
	if reportedTokens > 0 {
		return int64(reportedTokens)
	}
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return 1
	}
	tokens := enc.Encode(prompt, nil, nil)
	// One billed unit per image plus a fractional unit for a long prompt.
	return 1 + int64(len(tokens)/500)
}

func decodeB64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

func estimateCost(totalTokens int) float64 {
	const perImageUSD = 0.02
	const perTokenUSD = 0.00001
	return perImageUSD + float64(totalTokens)*perTokenUSD
}

var _ domain.Provider = (*Client)(nil)
