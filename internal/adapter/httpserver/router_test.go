package httpserver_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/restorehq/control-plane/internal/adapter/httpserver"
	"github.com/restorehq/control-plane/internal/config"
	"github.com/restorehq/control-plane/internal/usecase"
)

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, httpserver.ParseOrigins(""))
	assert.Equal(t, []string{"*"}, httpserver.ParseOrigins("*"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		httpserver.ParseOrigins(" https://a.example ,https://b.example"))
}

func TestBuildRouter_HealthzAndReadyz(t *testing.T) {
	cfg := config.Config{
		CORSAllowOrigins:  "*",
		RateLimitIPPerMin: 60,
		RateLimitWindow:   time.Minute,
	}
	srv := httpserver.NewServer(&usecase.AdmissionService{}, &usecase.StatusService{}, stubVerifier{}, nil, 15<<20, 30*time.Second)
	router := httpserver.BuildRouter(cfg, srv)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
