package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
)

func TestBindJSON(t *testing.T) {
	t.Parallel()

	var got domain.ManualCheckInRequest
	h := BindJSON(func(w http.ResponseWriter, r *http.Request, body domain.ManualCheckInRequest) {
		got = body
		w.WriteHeader(http.StatusAccepted)
	})

	tests := []struct {
		name string
		body string
		code int
	}{
		{"ok", `{"code":"TDI_OFFICE_QR_CODE"}`, http.StatusAccepted},
		{"malformed", `{"code":`, http.StatusBadRequest},
		{"unknown field", `{"code":"x","extra":1}`, http.StatusBadRequest},
		{"missing required", `{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/checkin/manual", strings.NewReader(tt.body))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tt.code, rec.Code, tt.name)
	}

	assert.Equal(t, "TDI_OFFICE_QR_CODE", got.Code)
}
