package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestContentTypeJSON_AllowsBodylessPost(t *testing.T) {
	h := ContentTypeJSON(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/contact-logs/log-1/restore", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContentTypeJSON_RejectsBodyWithoutJSON(t *testing.T) {
	h := ContentTypeJSON(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewReader([]byte("rating=5")))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestContentTypeJSON_AcceptsCharsetSuffix(t *testing.T) {
	h := ContentTypeJSON(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
