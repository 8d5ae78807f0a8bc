package system_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/api/handlers/http/system"
)

func TestSystemHealth(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := system.PingFunc(func(context.Context) error { return nil })
	down := system.PingFunc(func(context.Context) error { return errors.New("refused") })

	tests := []struct {
		name   string
		checks map[string]system.Pinger
		code   int
		status string
	}{
		{"no deps", nil, http.StatusOK, "ok"},
		{"all up", map[string]system.Pinger{"postgres": ok, "redis": ok}, http.StatusOK, "ok"},
		{"redis down", map[string]system.Pinger{"postgres": ok, "redis": down}, http.StatusServiceUnavailable, "degraded"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rr := httptest.NewRecorder()
			system.NewHandler(logger, tt.checks).SystemHealth(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

			if rr.Code != tt.code {
				t.Fatalf("expected %d got %d", tt.code, rr.Code)
			}
			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Status != tt.status {
				t.Fatalf("expected status=%s got=%s", tt.status, body.Status)
			}
			if len(body.Checks) != len(tt.checks) {
				t.Fatalf("expected %d checks got %d", len(tt.checks), len(body.Checks))
			}
		})
	}
}
