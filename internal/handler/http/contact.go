package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/eternalinsky-max/proponujeprace/internal/service"
	"github.com/eternalinsky-max/proponujeprace/pkg/httputil"
	"github.com/eternalinsky-max/proponujeprace/pkg/validator"
)

// ContactHandler handles HTTP requests for the public contact form.
type ContactHandler struct {
	service *service.ContactService
	logger  *slog.Logger
}

// NewContactHandler creates a new contact HTTP handler.
func NewContactHandler(svc *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		service: svc,
		logger:  logger,
	}
}

// Submit handles POST /api/v1/contact
// @Summary Submit a contact form message
// @Description Runs the submission through the anti-spam pipeline and delivers it. Submissions classified as spam still get a success reply.
// @Tags contact
// @Accept json
// @Produce json
// @Param request body service.ContactInput true "Contact form fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Router /api/v1/contact [post]
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var input service.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	input.ClientIP = clientIP(r)
	input.UserAgent = r.UserAgent()

	result, err := h.service.Submit(r.Context(), &input)
	if err != nil {
		var rateErr *service.RateLimitError
		if errors.As(err, &rateErr) {
			writeRateLimited(w, rateErr)
			return
		}

		var valErr *validator.ValidationError
		if errors.As(err, &valErr) {
			httputil.WriteValidationError(w, err)
			return
		}

		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// writeRateLimited replies 429 with the limiter verdict exposed in standard
// headers so well-behaved clients can back off.
func writeRateLimited(w http.ResponseWriter, rateErr *service.RateLimitError) {
	verdict := rateErr.Verdict
	retryAfter := int(math.Ceil(verdict.RetryAfter.Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(verdict.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(verdict.Remaining))

	httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "RATE_LIMITED", Message: "too many requests"},
	})
}
