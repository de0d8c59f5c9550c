package http

import (
	"crypto/subtle"
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

// AdminHandler handles HTTP requests for the contact log admin console and
// the scheduled cleanup endpoint.
type AdminHandler struct {
	service    *service.ContactLogService
	cronSecret string
	logger     *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(svc *service.ContactLogService, cronSecret string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		service:    svc,
		cronSecret: cronSecret,
		logger:     logger,
	}
}

// --- Request DTOs ---

// CleanupRequest is the JSON request body for a manual contact log cleanup.
type CleanupRequest struct {
	Days     int      `json:"days" validate:"required,gte=1"`
	Statuses []string `json:"statuses" validate:"required,min=1"`
}

// --- Handlers ---

// ListContactLogs handles GET /api/v1/admin/contact-logs
// @Summary List contact log entries
// @Description Returns contact form submissions with their anti-spam verdicts. The synthetic status DELETED selects soft-deleted rows.
// @Tags admin
// @Produce json
// @Param status query string false "Filter: ALL, OK, SPAM, RATE-LIMIT, ERROR, DELETED" default(ALL)
// @Param search query string false "Substring match over ip, name, email, message and spam reason"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/contact-logs [get]
func (h *AdminHandler) ListContactLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := pagination.FromRequest(r)

	logs, total, err := h.service.ListLogs(r.Context(), q.Get("status"), q.Get("search"), p.Page, p.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(logs, total, p.Page, p.PerPage))
}

// DeleteContactLog handles DELETE /api/v1/admin/contact-logs/{id}
// @Summary Soft-delete a contact log entry
// @Tags admin
// @Produce json
// @Param id path string true "Log entry ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/contact-logs/{id} [delete]
func (h *AdminHandler) DeleteContactLog(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteLog(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"ok": true}})
}

// RestoreContactLog handles POST /api/v1/admin/contact-logs/{id}/restore
// @Summary Restore a soft-deleted contact log entry
// @Tags admin
// @Produce json
// @Param id path string true "Log entry ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/contact-logs/{id}/restore [post]
func (h *AdminHandler) RestoreContactLog(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RestoreLog(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"ok": true}})
}

// Cleanup handles POST /api/v1/admin/contact-logs/cleanup
// @Summary Soft-delete old spam and rate-limit entries
// @Description Removes entries with the given statuses older than the given number of days. Delivered messages cannot be targeted.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body CleanupRequest true "Cleanup parameters"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/admin/contact-logs/cleanup [post]
func (h *AdminHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CleanupRequest
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

	n, err := h.service.Cleanup(r.Context(), &service.CleanupInput{
		Days:     req.Days,
		Statuses: req.Statuses,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]int64{"deleted": n}})
}

// CronCleanup handles POST /api/v1/cron/contact-logs/cleanup
// @Summary Run the scheduled contact log sweep
// @Description Soft-deletes entries past the retention window and hard-deletes soft-deleted entries past the grace period. Authenticated by the X-Cron-Secret header, not a bearer token.
// @Tags admin
// @Produce json
// @Param X-Cron-Secret header string true "Shared cron secret"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/cron/contact-logs/cleanup [post]
func (h *AdminHandler) CronCleanup(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get("X-Cron-Secret")
	if h.cronSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.cronSecret)) != 1 {
		httputil.WriteError(w, r, apperrors.Unauthorized("invalid cron secret"), h.logger)
		return
	}

	result, err := h.service.CronCleanup(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
