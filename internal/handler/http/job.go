package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eternalinsky-max/proponujeprace/internal/domain"
	"github.com/eternalinsky-max/proponujeprace/internal/repository"
	"github.com/eternalinsky-max/proponujeprace/internal/service"
	apperrors "github.com/eternalinsky-max/proponujeprace/pkg/errors"
	"github.com/eternalinsky-max/proponujeprace/pkg/httputil"
	"github.com/eternalinsky-max/proponujeprace/pkg/pagination"
	"github.com/eternalinsky-max/proponujeprace/pkg/validator"
)

// JobHandler handles HTTP requests for job posting endpoints.
type JobHandler struct {
	service *service.JobService
	logger  *slog.Logger
}

// NewJobHandler creates a new job HTTP handler.
func NewJobHandler(svc *service.JobService, logger *slog.Logger) *JobHandler {
	return &JobHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// JobRequest is the JSON request body for creating or updating a job posting.
type JobRequest struct {
	CompanyName string   `json:"company_name" validate:"max=200"`
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"max=20000"`
	City        string   `json:"city" validate:"max=100"`
	Remote      bool     `json:"remote"`
	SalaryMin   *int     `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax   *int     `json:"salary_max" validate:"omitempty,gte=0"`
	Currency    string   `json:"currency" validate:"omitempty,len=3"`
	Tags        []string `json:"tags" validate:"max=20,dive,max=50"`
	ContactURL  string   `json:"contact_url" validate:"omitempty,url,max=500"`
	Status      string   `json:"status" validate:"omitempty,oneof=ACTIVE CLOSED DRAFT"`
}

func (req *JobRequest) toInput() *service.JobInput {
	return &service.JobInput{
		CompanyName: req.CompanyName,
		Title:       req.Title,
		Description: req.Description,
		City:        req.City,
		Remote:      req.Remote,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
		Currency:    req.Currency,
		Tags:        req.Tags,
		ContactURL:  req.ContactURL,
		Status:      req.Status,
	}
}

// --- Handlers ---

// List handles GET /api/v1/jobs
// @Summary List job postings
// @Description Returns a filtered, paginated public job listing. Defaults to active postings; drafts are never shown.
// @Tags jobs
// @Produce json
// @Param status query string false "Filter by status: ACTIVE or CLOSED" default(ACTIVE)
// @Param city query string false "Filter by city (substring match)"
// @Param remote query bool false "Filter by remote flag"
// @Param q query string false "Full-text search over title, description and tags"
// @Param sort query string false "Sort key: created_at, salary_min, salary_max, bayes_score, rating_avg"
// @Param dir query string false "Sort direction: asc or desc" default(desc)
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/jobs [get]
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := parseJobFilter(r)

	// The public listing defaults to active postings and never exposes drafts.
	if filter.Status == nil || *filter.Status == domain.JobStatusDraft {
		active := domain.JobStatusActive
		filter.Status = &active
	}

	jobs, total, err := h.service.ListJobs(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(jobs, total, filter.Page, filter.PerPage))
}

// Get handles GET /api/v1/jobs/{id}
// @Summary Get a job posting
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/jobs/{id} [get]
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: job})
}

// Create handles POST /api/v1/jobs
// @Summary Create a job posting
// @Description Creates a job owned by the caller. A company name is resolved to an existing company or creates one.
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body JobRequest true "Job to create"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/jobs [post]
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	if user == nil {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req JobRequest
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

	job, err := h.service.CreateJob(r.Context(), user.ID, req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: job})
}

// Update handles PUT /api/v1/jobs/{id}
// @Summary Update a job posting
// @Description Replaces the posting's editable fields. Only the owner may update.
// @Tags jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body JobRequest true "Updated job"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/jobs/{id} [put]
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	if user == nil {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req JobRequest
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

	job, err := h.service.UpdateJob(r.Context(), chi.URLParam(r, "id"), user.ID, req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: job})
}

// Delete handles DELETE /api/v1/jobs/{id}
// @Summary Delete a job posting
// @Description Removes the posting and its reviews. Only the owner may delete.
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/jobs/{id} [delete]
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	if user == nil {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}

	if err := h.service.DeleteJob(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"ok": true}})
}

// ListMine handles GET /api/v1/my-jobs
// @Summary List the caller's job postings
// @Description Returns the caller's own postings regardless of status.
// @Tags jobs
// @Produce json
// @Param status query string false "Filter by status: ACTIVE, CLOSED, DRAFT"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/my-jobs [get]
func (h *JobHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	if user == nil {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}

	filter := parseJobFilter(r)

	jobs, total, err := h.service.ListMyJobs(r.Context(), user.ID, filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(jobs, total, filter.Page, filter.PerPage))
}

// parseJobFilter builds a job listing filter from query parameters. Unknown
// sort keys fall back to created_at in the repository; direction defaults to
// descending.
func parseJobFilter(r *http.Request) repository.JobFilter {
	q := r.URL.Query()

	p := pagination.FromRequest(r)
	filter := repository.JobFilter{
		Sort:    q.Get("sort"),
		Desc:    q.Get("dir") != "asc",
		Page:    p.Page,
		PerPage: p.PerPage,
	}

	if v := q.Get("status"); v != "" {
		status := domain.JobStatus(v)
		if status.Valid() {
			filter.Status = &status
		}
	}
	if v := q.Get("city"); v != "" {
		filter.City = &v
	}
	if v := q.Get("remote"); v == "true" || v == "false" {
		remote := v == "true"
		filter.Remote = &remote
	}
	if v := q.Get("q"); v != "" {
		filter.Search = &v
	}

	return filter
}
