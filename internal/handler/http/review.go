package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eternalinsky-max/proponujeprace/internal/service"
	apperrors "github.com/eternalinsky-max/proponujeprace/pkg/errors"
	"github.com/eternalinsky-max/proponujeprace/pkg/httputil"
	"github.com/eternalinsky-max/proponujeprace/pkg/pagination"
	"github.com/eternalinsky-max/proponujeprace/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// UpsertReviewRequest is the JSON request body for creating or replacing a
// review. Target type membership is validated in the service, which accepts
// any casing.
type UpsertReviewRequest struct {
	TargetType string `json:"target_type" validate:"required"`
	TargetID   string `json:"target_id" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"max=3000"`
}

// UnmarshalJSON also accepts the web client's field names (targetType,
// targetId, ratingOverall, text) as aliases for the canonical snake_case ones.
func (r *UpsertReviewRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		TargetType    string `json:"target_type"`
		TargetTypeAlt string `json:"targetType"`
		TargetID      string `json:"target_id"`
		TargetIDAlt   string `json:"targetId"`
		Rating        int    `json:"rating"`
		RatingOverall int    `json:"ratingOverall"`
		Comment       string `json:"comment"`
		Text          string `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.TargetType = raw.TargetType
	if r.TargetType == "" {
		r.TargetType = raw.TargetTypeAlt
	}
	r.TargetID = raw.TargetID
	if r.TargetID == "" {
		r.TargetID = raw.TargetIDAlt
	}
	r.Rating = raw.Rating
	if r.Rating == 0 {
		r.Rating = raw.RatingOverall
	}
	r.Comment = raw.Comment
	if r.Comment == "" {
		r.Comment = raw.Text
	}
	return nil
}

// --- Handlers ---

// Upsert handles POST /api/v1/reviews
// @Summary Create or replace a review
// @Description Submits the caller's review of a target; an existing review of the same target is replaced. Returns the review together with the target's recomputed rating aggregate.
// @Tags reviews
// @Accept json
// @Produce json
// @Param request body UpsertReviewRequest true "Review to submit"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/reviews [post]
func (h *ReviewHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	if user == nil {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpsertReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.UpsertReview(r.Context(), &service.UpsertReviewInput{
		AuthorID:   user.ID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Delete handles DELETE /api/v1/reviews/{id}
// @Summary Delete a review
// @Description Removes the caller's review and recomputes the target's aggregate. Deleting an absent review succeeds.
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/reviews/{id} [delete]
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	if user == nil {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}

	reviewID := chi.URLParam(r, "id")
	if err := h.service.DeleteReview(r.Context(), reviewID, user.ID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"ok": true}})
}

// List handles GET /api/v1/reviews
// @Summary List reviews for a target
// @Description Returns public reviews for a target, newest first, with author display identity.
// @Tags reviews
// @Produce json
// @Param target_type query string true "Target type (user, company, job)"
// @Param target_id query string true "Target ID"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 50)" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/reviews [get]
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	targetType := q.Get("target_type")
	if targetType == "" {
		targetType = q.Get("targetType")
	}
	targetID := q.Get("target_id")
	if targetID == "" {
		targetID = q.Get("targetId")
	}

	p := pagination.FromRequest(r)

	result, err := h.service.ListReviews(r.Context(), targetType, targetID, p.Page, p.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(
		result.Reviews, result.TotalCount, result.Page, result.PerPage,
	))
}
