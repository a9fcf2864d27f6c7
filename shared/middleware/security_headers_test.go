package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityHeaders(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	rr := httptest.NewRecorder()
	SecurityHeaders(false)(next).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))

	rr = httptest.NewRecorder()
	SecurityHeaders(true)(next).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	assert.NotEmpty(t, rr.Header().Get("Strict-Transport-Security"))
}
