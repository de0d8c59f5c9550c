package httputil

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/eternalinsky-max/proponujeprace/pkg/errors"
	"github.com/eternalinsky-max/proponujeprace/pkg/validator"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestWriteError_AppError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/v1/jobs/abc", nil)

	WriteError(w, r, apperrors.NotFound("job", "abc"), discardLogger())

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestWriteError_Sentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"rate limited", apperrors.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"unknown", assert.AnError, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("POST", "/api/v1/reviews", nil)

			WriteError(w, r, tt.err, discardLogger())

			assert.Equal(t, tt.status, w.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestWriteValidationError_FieldErrors(t *testing.T) {
	type input struct {
		Rating int `validate:"required,gte=1,lte=5"`
	}
	err := validator.Validate(input{Rating: 9})
	require.Error(t, err)

	w := httptest.NewRecorder()
	WriteValidationError(w, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "Rating")
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]int{1, 2, 3}, 7, 1, 3)
	assert.Equal(t, 3, resp.TotalPages)
	assert.True(t, resp.HasNext)

	last := NewPaginatedResponse([]int{7}, 7, 3, 3)
	assert.False(t, last.HasNext)

	empty := NewPaginatedResponse[string](nil, 0, 1, 20)
	assert.NotNil(t, empty.Data)
	assert.Empty(t, empty.Data)
}

func TestParseUUID(t *testing.T) {
	w := httptest.NewRecorder()
	id, ok := ParseUUID(w, "f47ac10b-58cc-4372-a567-0e02b2c3d479")
	assert.True(t, ok)
	assert.Equal(t, "f47ac10b-58cc-4372-a567-0e02b2c3d479", id.String())

	w = httptest.NewRecorder()
	_, ok = ParseUUID(w, "nope")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
