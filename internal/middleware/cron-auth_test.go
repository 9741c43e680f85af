package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func cronRequest(t *testing.T, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	called := false
	handler := CronAuth("top-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cron/finalize", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		assert.False(t, called)
	}
	return rec
}

func TestCronAuth_MissingHeader(t *testing.T) {
	rec := cronRequest(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCronAuth_BadScheme(t *testing.T) {
	rec := cronRequest(t, "Basic top-secret")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCronAuth_WrongSecret(t *testing.T) {
	rec := cronRequest(t, "Bearer nope")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCronAuth_ValidSecret(t *testing.T) {
	rec := cronRequest(t, "Bearer top-secret")
	assert.Equal(t, http.StatusOK, rec.Code)
}
