package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eternalinsky-max/proponujeprace/internal/service"
	apperrors "github.com/eternalinsky-max/proponujeprace/pkg/errors"
	"github.com/eternalinsky-max/proponujeprace/pkg/httputil"
	"github.com/eternalinsky-max/proponujeprace/pkg/validator"
)

// UserHandler handles HTTP requests for identity and profile endpoints.
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// UpdateProfileRequest is the JSON request body for updating the worker profile.
type UpdateProfileRequest struct {
	Headline string `json:"headline" validate:"max=200"`
	Bio      string `json:"bio" validate:"max=3000"`
	City     string `json:"city" validate:"max=100"`
}

// --- Handlers ---

// Me handles GET /api/v1/auth/me
// @Summary Get the authenticated user
// @Description Returns the local user row for the caller's token, creating it on first sight.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/auth/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	if user == nil {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// UpdateProfile handles PUT /api/v1/auth/me
// @Summary Update the caller's worker profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/auth/me [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	if user == nil {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateProfileRequest
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

	updated, err := h.service.UpdateProfile(r.Context(), user.ID, &service.ProfileInput{
		Headline: req.Headline,
		Bio:      req.Bio,
		City:     req.City,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: updated})
}

// PublicProfile handles GET /api/v1/users/{id}
// @Summary Get a public worker profile
// @Description Returns the user's public fields, rating aggregate, and most recent reviews. Contact details are stripped.
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) PublicProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetPublicProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: profile})
}
