package provider_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restorehq/control-plane/internal/adapter/provider"
)

func fastRetryConfig(baseURL string) provider.Config {
	return provider.Config{
		BaseURL:         baseURL,
		APIKey:          "test-key",
		Model:           "restore-v1",
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		MaxElapsedTime:  2 * time.Second,
		Multiplier:      1.2,
	}
}

func TestClient_Restore_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"request_id": "req-1",
			"data":       []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString([]byte("restored"))}},
			"usage":      map[string]int{"total_tokens": 120},
		})
	}))
	defer srv.Close()

	c := provider.New(fastRetryConfig(srv.URL))
	restored, meta, err := c.Restore(t.Context(), "restore this photo", []byte("source"))
	require.NoError(t, err)
	assert.Equal(t, []byte("restored"), restored)
	assert.Equal(t, "req-1", meta.RequestID)
	assert.Equal(t, int64(120), meta.BilledUnits)
}

func TestClient_Restore_RetriesOn5xxThenSucceeds(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString([]byte("restored"))}},
		})
	}))
	defer srv.Close()

	c := provider.New(fastRetryConfig(srv.URL))
	restored, _, err := c.Restore(t.Context(), "restore", []byte("source"))
	require.NoError(t, err)
	assert.Equal(t, []byte("restored"), restored)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&attempts), int32(2))
}

func TestClient_Restore_PermanentErrorDoesNotRetry(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad prompt"))
	}))
	defer srv.Close()

	c := provider.New(fastRetryConfig(srv.URL))
	_, _, err := c.Restore(t.Context(), "restore", []byte("source"))
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestClient_Restore_EmptyResultIsPermanentError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []map[string]string{}})
	}))
	defer srv.Close()

	c := provider.New(fastRetryConfig(srv.URL))
	_, _, err := c.Restore(t.Context(), "restore", []byte("source"))
	assert.Error(t, err)
}
