package httpclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return New(Config{
		Timeout:      time.Second,
		MaxRetries:   0,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: time.Millisecond,
	})
}

func TestCircuitBreakerClient_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	l := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cb := NewCircuitBreakerClient(newTestClient(), DefaultCircuitBreakerConfig("test-ok"), l)

	resp, err := cb.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreakerClient_TripsOnServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	l := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cfg := CircuitBreakerConfig{
		Name:         "test-trip",
		MaxRequests:  1,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
		MinRequests:  3,
	}
	cb := NewCircuitBreakerClient(newTestClient(), cfg, l)

	for i := 0; i < 3; i++ {
		_, err := cb.Get(context.Background(), srv.URL)
		assert.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := cb.Get(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreakerClient_Fallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	l := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cfg := CircuitBreakerConfig{
		Name:         "test-fallback",
		MaxRequests:  1,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
		MinRequests:  2,
	}

	fallbackCalled := false
	cb := NewCircuitBreakerClient(newTestClient(), cfg, l).WithFallback(
		func(ctx context.Context, err error) (*http.Response, error) {
			fallbackCalled = true
			return &http.Response{StatusCode: http.StatusAccepted, Body: http.NoBody}, nil
		})

	for i := 0; i < 2; i++ {
		_, _ = cb.Get(context.Background(), srv.URL)
	}
	require.Equal(t, gobreaker.StateOpen, cb.State())

	resp, err := cb.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, fallbackCalled)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}
