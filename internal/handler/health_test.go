package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/composer-workspace-service/internal/handler"
)

// stubPinger implements handler.Pinger for health endpoints.
type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func newProbeEngine(p handler.Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// no services: only probes, metrics and docs are mounted
	handler.Register(r, p, nil, handler.Services{})
	return r
}

func TestProbes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		path string
		want int
	}{
		{"ready ok", nil, "/api/v1/health/ready", http.StatusOK},
		{"ready down", errors.New("db down"), "/api/v1/health/ready", http.StatusServiceUnavailable},
		{"root ready down", errors.New("db down"), "/ready", http.StatusServiceUnavailable},
		{"live ignores storage", errors.New("db down"), "/live", http.StatusOK},
		{"versioned live", nil, "/api/v1/health/live", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newProbeEngine(stubPinger{err: tc.err})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if w.Code != tc.want {
				t.Fatalf("expected status %d, got %d, body=%s", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestDocsAndMetrics(t *testing.T) {
	r := newProbeEngine(stubPinger{})
	for _, path := range []string{"/openapi.yaml", "/docs", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK || w.Body.Len() == 0 {
			t.Fatalf("%s: expected non-empty 200, got %d", path, w.Code)
		}
	}
}

func TestReadiness_ReportsStorageCheck(t *testing.T) {
	r := newProbeEngine(stubPinger{err: errors.New("db down")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "unavailable" || body.Checks["storage"] != "db down" {
		t.Fatalf("unexpected readiness body: %+v", body)
	}
}
