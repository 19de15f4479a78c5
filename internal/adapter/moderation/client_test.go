package moderation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restorehq/control-plane/internal/adapter/moderation"
)

func TestClient_Moderate_Allowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]any{"allowed": true, "flags": []string{}})
	}))
	defer srv.Close()

	c := moderation.New(moderation.Config{URL: srv.URL, Timeout: 5 * time.Second})
	verdict, err := c.Moderate(context.Background(), []byte("image-bytes"), "restore this photo")
	require.NoError(t, err)
	assert.True(t, verdict.Allowed)
}

func TestClient_Moderate_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"allowed": false, "flags": []string{"explicit_content"}, "rejection": "explicit content detected",
		})
	}))
	defer srv.Close()

	c := moderation.New(moderation.Config{URL: srv.URL})
	verdict, err := c.Moderate(context.Background(), []byte("image-bytes"), "")
	require.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Equal(t, "explicit content detected", verdict.Rejection)
	assert.Contains(t, verdict.Flags, "explicit_content")
}

func TestClient_Moderate_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := moderation.New(moderation.Config{URL: srv.URL})
	_, err := c.Moderate(context.Background(), []byte("image-bytes"), "")
	assert.Error(t, err)
}

func TestAllowAll_AlwaysAllows(t *testing.T) {
	a := moderation.NewAllowAll()
	verdict, err := a.Moderate(context.Background(), []byte("anything"), "")
	require.NoError(t, err)
	assert.True(t, verdict.Allowed)
}
