package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORSMiddlewareAnswersPreflight(t *testing.T) {
	handler := New("", "*").CORSMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/algorithms", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	req.Header.Set("Access-Control-Request-Private-Network", "true")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers")), "content-type")
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Private-Network"))
}

func TestCORSMiddlewarePassesRequestsThrough(t *testing.T) {
	handler := New("", "http://localhost:3000").CORSMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/cpus", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Private-Network"))
}

func TestCORSMiddlewareAcceptsOriginList(t *testing.T) {
	handler := New("", "http://localhost:3000, https://sysalgs.net").CORSMiddleware(okHandler())

	for origin, allowed := range map[string]string{
		"https://sysalgs.net":   "https://sysalgs.net",
		"http://evil.example":   "",
		"http://localhost:3000": "http://localhost:3000",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/cpus", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, origin)
		assert.Equal(t, allowed, rec.Header().Get("Access-Control-Allow-Origin"), origin)
	}
}

func TestProtectIsNoopWithoutSecret(t *testing.T) {
	m := New("", "*")
	assert.False(t, m.AuthEnabled())

	rec := httptest.NewRecorder()
	m.Protect(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/algorithms", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	m := New("secret", "*")
	assert.True(t, m.AuthEnabled())

	rec := httptest.NewRecorder()
	m.Protect(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/algorithms", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"status":"Error","message":"Authorization header missing"}`, rec.Body.String())
}

func TestJWTMiddlewareRejectsInvalidToken(t *testing.T) {
	m := New("secret", "*")

	req := httptest.NewRequest(http.MethodPost, "/api/algorithms", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	m.Protect(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"status":"Error","message":"Invalid token"}`, rec.Body.String())
}
