package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eternalinsky-max/proponujeprace/internal/service"
	"github.com/eternalinsky-max/proponujeprace/pkg/httputil"
	"github.com/eternalinsky-max/proponujeprace/pkg/pagination"
)

// CompanyHandler handles HTTP requests for public company endpoints.
type CompanyHandler struct {
	service *service.CompanyService
	logger  *slog.Logger
}

// NewCompanyHandler creates a new company HTTP handler.
func NewCompanyHandler(svc *service.CompanyService, logger *slog.Logger) *CompanyHandler {
	return &CompanyHandler{
		service: svc,
		logger:  logger,
	}
}

// List handles GET /api/v1/companies
// @Summary List companies
// @Description Returns companies ordered by blended rating, best first.
// @Tags companies
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/companies [get]
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r)

	companies, total, err := h.service.ListCompanies(r.Context(), p.Page, p.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(companies, total, p.Page, p.PerPage))
}

// Get handles GET /api/v1/companies/{id}
// @Summary Get a company profile
// @Description Returns the company with its rating aggregate and most recent reviews.
// @Tags companies
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/companies/{id} [get]
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetCompanyProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: profile})
}
