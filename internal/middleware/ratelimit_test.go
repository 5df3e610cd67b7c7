package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(2), 2)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	makeRequest := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	ip := "192.168.1.1"
	assert.Equal(t, http.StatusOK, makeRequest(ip))
	assert.Equal(t, http.StatusOK, makeRequest(ip))

	// burst spent
	assert.Equal(t, http.StatusTooManyRequests, makeRequest(ip))

	assert.Equal(t, http.StatusOK, makeRequest("192.168.1.2"), "other clients keep their own bucket")
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(1), 1)
	rl.getVisitor("10.0.0.1")
	rl.getVisitor("10.0.0.2")

	rl.evict(time.Now())
	assert.Equal(t, 2, rl.size())

	rl.evict(time.Now().Add(visitorTTL + time.Second))
	assert.Equal(t, 0, rl.size())
}

func TestLoggingMiddlewareSetsRequestID(t *testing.T) {
	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, "abc", rr.Header().Get(RequestIDHeader))
}
