package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eternalinsky-max/proponujeprace/internal/domain"
	"github.com/eternalinsky-max/proponujeprace/internal/repository/postgres"
	"github.com/eternalinsky-max/proponujeprace/internal/service"
	"github.com/eternalinsky-max/proponujeprace/pkg/httputil"
)

const testCronSecret = "test-cron-secret"

var contactLogCols = []string{
	"id", "name", "email", "subject", "message", "outcome", "spam_reason",
	"client_ip", "user_agent", "created_at", "deleted_at", "total_count",
}

// setupAdminRouter creates a chi router matching the production admin layout,
// with the given user pre-resolved on console routes.
func setupAdminRouter(mock pgxmock.PgxPoolIface, user *domain.User) *chi.Mux {
	logger := testLogger()
	svc := service.NewContactLogService(postgres.NewContactLogRepository(mock), logger)
	handler := NewAdminHandler(svc, testCronSecret, logger)

	r := chi.NewRouter()
	r.Route("/api/v1/admin/contact-logs", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(withUser(user))
		r.Use(AdminOnly(logger))

		r.Get("/", handler.ListContactLogs)
		r.Delete("/{id}", handler.DeleteContactLog)
		r.Post("/{id}/restore", handler.RestoreContactLog)
		r.Post("/cleanup", handler.Cleanup)
	})
	r.Post("/api/v1/cron/contact-logs/cleanup", handler.CronCleanup)
	return r
}

func adminUser() *domain.User {
	u := testUser()
	u.Admin = true
	return u
}

func TestAdminContactLogs_NonAdminForbidden(t *testing.T) {
	mock := newMockPool(t)
	defer mock.Close()
	router := setupAdminRouter(mock, testUser())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/contact-logs", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminContactLogs_List(t *testing.T) {
	mock := newMockPool(t)
	defer mock.Close()
	router := setupAdminRouter(mock, adminUser())

	mock.ExpectQuery("SELECT .+ FROM contact_message_logs").
		WithArgs(domain.ContactOutcomeSpam, 20, 0).
		WillReturnRows(
			pgxmock.NewRows(contactLogCols).
				AddRow("log-1", "Anna", "anna@example.com", "", "buy now", domain.ContactOutcomeSpam,
					"honeypot", "203.0.113.9", "curl/8.0", testTime, nil, 1),
		)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/contact-logs?status=SPAM", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp httputil.PaginatedResponse[domain.ContactMessageLog]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.TotalCount)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "honeypot", resp.Data[0].SpamReason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminContactLogs_UnknownStatus(t *testing.T) {
	mock := newMockPool(t)
	defer mock.Close()
	router := setupAdminRouter(mock, adminUser())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/contact-logs?status=BOGUS", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminContactLogs_SoftDeleteAndRestore(t *testing.T) {
	mock := newMockPool(t)
	defer mock.Close()
	router := setupAdminRouter(mock, adminUser())

	mock.ExpectExec("UPDATE contact_message_logs SET deleted_at = NOW\\(\\) WHERE id").
		WithArgs("log-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/contact-logs/log-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	mock.ExpectExec("UPDATE contact_message_logs SET deleted_at = NULL WHERE id").
		WithArgs("log-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/contact-logs/log-1/restore", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminContactLogs_CleanupRejectsProtectedStatus(t *testing.T) {
	mock := newMockPool(t)
	defer mock.Close()
	router := setupAdminRouter(mock, adminUser())

	body, _ := json.Marshal(CleanupRequest{Days: 30, Statuses: []string{"OK"}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/contact-logs/cleanup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminContactLogs_Cleanup(t *testing.T) {
	mock := newMockPool(t)
	defer mock.Close()
	router := setupAdminRouter(mock, adminUser())

	mock.ExpectExec("UPDATE contact_message_logs SET deleted_at = NOW\\(\\)").
		WithArgs(pgxmock.AnyArg(), []string{"SPAM", "RATE-LIMIT"}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 12))

	body, _ := json.Marshal(CleanupRequest{Days: 30, Statuses: []string{"SPAM", "RATE-LIMIT"}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/contact-logs/cleanup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(12), data["deleted"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCronCleanup_WrongSecret(t *testing.T) {
	mock := newMockPool(t)
	defer mock.Close()
	router := setupAdminRouter(mock, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cron/contact-logs/cleanup", nil)
	req.Header.Set("X-Cron-Secret", "wrong")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCronCleanup_Sweeps(t *testing.T) {
	mock := newMockPool(t)
	defer mock.Close()
	router := setupAdminRouter(mock, nil)

	mock.ExpectExec("UPDATE contact_message_logs SET deleted_at = NOW\\(\\) WHERE created_at").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))
	mock.ExpectExec("DELETE FROM contact_message_logs WHERE deleted_at IS NOT NULL").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cron/contact-logs/cleanup", nil)
	req.Header.Set("X-Cron-Secret", testCronSecret)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), data["soft_deleted"])
	assert.Equal(t, float64(2), data["hard_deleted"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
