package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, claims jwt.RegisteredClaims, key any) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func echoEmployee() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := EmployeeID(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(id))
	})
}

func TestEmployeeAuth(t *testing.T) {
	t.Parallel()

	valid := jwt.RegisteredClaims{
		Subject:   "E-100",
		Issuer:    "tdi",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	noSub := valid
	noSub.Subject = ""
	wrongIssuer := valid
	wrongIssuer.Issuer = "other"

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"valid token", "Bearer " + sign(t, jwt.SigningMethodHS256, valid, []byte(testSecret)), http.StatusOK, "E-100"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"expired", "Bearer " + sign(t, jwt.SigningMethodHS256, expired, []byte(testSecret)), http.StatusUnauthorized, ""},
		{"wrong secret", "Bearer " + sign(t, jwt.SigningMethodHS256, valid, []byte("nope")), http.StatusUnauthorized, ""},
		{"wrong alg", "Bearer " + sign(t, jwt.SigningMethodHS512, valid, []byte(testSecret)), http.StatusUnauthorized, ""},
		{"no subject", "Bearer " + sign(t, jwt.SigningMethodHS256, noSub, []byte(testSecret)), http.StatusUnauthorized, ""},
		{"wrong issuer", "Bearer " + sign(t, jwt.SigningMethodHS256, wrongIssuer, []byte(testSecret)), http.StatusUnauthorized, ""},
	}

	h := EmployeeAuth(testSecret, "tdi")(echoEmployee())
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/checkin/state", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestAPIKeyMiddleware(t *testing.T) {
	t.Parallel()

	h := APIKeyMiddleware("k-123")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for key, code := range map[string]int{
		"k-123": http.StatusNoContent,
		"k-124": http.StatusUnauthorized,
		"":      http.StatusUnauthorized,
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin/sites", nil)
		if key != "" {
			req.Header.Set("X-API-Key", key)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, code, rec.Code, "key %q", key)
	}
}

func TestEmployeeID_Missing(t *testing.T) {
	t.Parallel()

	_, ok := EmployeeID(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
