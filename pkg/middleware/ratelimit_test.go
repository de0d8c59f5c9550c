package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	l := slog.New(slog.NewJSONHandler(io.Discard, nil))
	handler := RateLimit(1, 3, l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		r := httptest.NewRequest("GET", "/api/v1/jobs", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}

	r := httptest.NewRequest("GET", "/api/v1/jobs", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimit_SeparateLimitsPerIP(t *testing.T) {
	l := slog.New(slog.NewJSONHandler(io.Discard, nil))
	handler := RateLimit(1, 1, l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest("GET", "/api/v1/jobs", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, first)
	assert.Equal(t, http.StatusOK, w.Code)

	// Same IP again: bucket drained.
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, first)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Different IP: fresh bucket.
	second := httptest.NewRequest("GET", "/api/v1/jobs", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, second)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVisitorStore_Cleanup(t *testing.T) {
	s := &visitorStore{
		visitors: make(map[string]*visitor),
		rps:      1,
		burst:    1,
		ttl:      time.Minute,
	}
	now := time.Now()
	s.nowFunc = func() time.Time { return now }

	s.getVisitor("10.0.0.1")
	s.getVisitor("10.0.0.2")
	assert.Equal(t, 2, s.len())

	// Advance the clock past the TTL for one visitor.
	now = now.Add(30 * time.Second)
	s.getVisitor("10.0.0.2")
	now = now.Add(45 * time.Second)

	s.cleanup()
	assert.Equal(t, 1, s.len())
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"remote addr", "192.168.1.5:4567", "", "", "192.168.1.5"},
		{"x-forwarded-for single", "10.0.0.1:80", "203.0.113.9", "", "203.0.113.9"},
		{"x-forwarded-for chain", "10.0.0.1:80", "203.0.113.9, 10.0.0.2", "", "203.0.113.9"},
		{"x-real-ip", "10.0.0.1:80", "", "203.0.113.7", "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.want, clientIP(r))
		})
	}
}
