package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eternalinsky-max/proponujeprace/internal/domain"
	"github.com/eternalinsky-max/proponujeprace/internal/repository"
	"github.com/eternalinsky-max/proponujeprace/pkg/database"
	apperrors "github.com/eternalinsky-max/proponujeprace/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────────────────────────────────────

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(n int) *int       { return &n }

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// ─── Review column definitions ──────────────────────────────────────────────

var reviewCols = []string{
	"id", "author_id", "target_type", "target_id", "rating", "comment",
	"is_hidden", "created_at", "updated_at",
}

var reviewColsWithCount = append(append([]string{}, reviewCols...), "total_count")

func sampleReview() domain.Review {
	return domain.Review{
		ID:         "review-1",
		AuthorID:   "user-1",
		TargetType: domain.TargetJob,
		TargetID:   "job-1",
		Rating:     5,
		Comment:    "Great gig, paid on time.",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func reviewRow(r domain.Review) []any {
	return []any{
		r.ID, r.AuthorID, r.TargetType, r.TargetID, r.Rating, r.Comment,
		r.IsHidden, r.CreatedAt, r.UpdatedAt,
	}
}

// ─── Job column definitions ─────────────────────────────────────────────────

var jobCols = []string{
	"id", "owner_id", "company_id", "company_name", "title", "description",
	"city", "remote", "salary_min", "salary_max", "currency", "tags",
	"contact_url", "status", "rating_count", "rating_sum", "rating_avg",
	"bayes_score", "created_at", "updated_at",
}

var jobColsWithCount = append(append([]string{}, jobCols...), "total_count")

func sampleJob() domain.Job {
	return domain.Job{
		ID:          "job-1",
		OwnerID:     "user-1",
		CompanyID:   strPtr("company-1"),
		CompanyName: "Dachy Kowalski",
		Title:       "Roofer needed",
		Description: "Two weeks of roofing work",
		City:        "Gdansk",
		Remote:      false,
		SalaryMin:   intPtr(5000),
		SalaryMax:   intPtr(7000),
		Currency:    "PLN",
		Tags:        []string{"roofing", "construction"},
		ContactURL:  "mailto:jobs@example.com",
		Status:      domain.JobStatusActive,
		Rating:      domain.NewRatingAggregate(0, 0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func jobRow(j domain.Job) []any {
	return []any{
		j.ID, j.OwnerID, j.CompanyID, j.CompanyName, j.Title, j.Description,
		j.City, j.Remote, j.SalaryMin, j.SalaryMax, j.Currency, j.Tags,
		j.ContactURL, j.Status, j.Rating.Count, j.Rating.Sum, j.Rating.Average,
		j.Rating.BayesScore, j.CreatedAt, j.UpdatedAt,
	}
}

// ─── User column definitions ────────────────────────────────────────────────

var userCols = []string{
	"id", "external_uid", "email", "name", "picture", "admin",
	"headline", "bio", "city", "worker_rating_count", "worker_rating_sum",
	"worker_rating_avg", "worker_bayes_score", "created_at", "updated_at",
}

func sampleUser() domain.User {
	return domain.User{
		ID:          "user-1",
		ExternalUID: "ext-abc",
		Email:       "worker@example.com",
		Name:        "Jan Kowalski",
		Picture:     "https://cdn.example.com/jan.png",
		Headline:    "Roofer",
		City:        "Gdansk",
		Rating:      domain.NewRatingAggregate(3, 13),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func userRow(u domain.User) []any {
	return []any{
		u.ID, u.ExternalUID, u.Email, u.Name, u.Picture, u.Admin,
		u.Headline, u.Bio, u.City, u.Rating.Count, u.Rating.Sum,
		u.Rating.Average, u.Rating.BayesScore, u.CreatedAt, u.UpdatedAt,
	}
}

// ─── Contact log column definitions ─────────────────────────────────────────

var contactCols = []string{
	"id", "name", "email", "subject", "message", "outcome", "spam_reason",
	"client_ip", "user_agent", "created_at", "deleted_at",
}

var contactColsWithCount = append(append([]string{}, contactCols...), "total_count")

func sampleContactLog() domain.ContactMessageLog {
	return domain.ContactMessageLog{
		ID:        "log-1",
		Name:      "Anna",
		Email:     "anna@example.com",
		Subject:   "Question",
		Message:   "How do I post a job?",
		Outcome:   domain.ContactOutcomeOK,
		ClientIP:  "203.0.113.9",
		UserAgent: "curl/8.0",
		CreatedAt: now,
	}
}

func contactRow(l domain.ContactMessageLog) []any {
	return []any{
		l.ID, l.Name, l.Email, l.Subject, l.Message, l.Outcome, l.SpamReason,
		l.ClientIP, l.UserAgent, l.CreatedAt, l.DeletedAt,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ReviewRepository
// ─────────────────────────────────────────────────────────────────────────────

func TestReviewRepository_Upsert_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	r := sampleReview()
	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs(r.ID, r.AuthorID, r.TargetType, r.TargetID, r.Rating, r.Comment, r.CreatedAt, r.UpdatedAt).
		WillReturnRows(
			pgxmock.NewRows(reviewCols).AddRow(reviewRow(r)...),
		)

	saved, err := repo.Upsert(context.Background(), &r)
	require.NoError(t, err)
	assert.Equal(t, r.ID, saved.ID)
	assert.Equal(t, r.Rating, saved.Rating)
	assert.False(t, saved.IsHidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Upsert_ReturnsExistingRowID(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	// When the natural key conflicts, the database keeps the original row ID.
	r := sampleReview()
	existing := r
	existing.ID = "review-original"
	existing.Rating = 2

	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs(r.ID, r.AuthorID, r.TargetType, r.TargetID, r.Rating, r.Comment, r.CreatedAt, r.UpdatedAt).
		WillReturnRows(
			pgxmock.NewRows(reviewCols).AddRow(reviewRow(existing)...),
		)

	saved, err := repo.Upsert(context.Background(), &r)
	require.NoError(t, err)
	assert.Equal(t, "review-original", saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM reviews WHERE id").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "missing-id")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_ReturnsRowsAffected(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectExec("DELETE FROM reviews WHERE").
		WithArgs("review-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	n, err := repo.Delete(context.Background(), "review-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_MissingIsZero(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectExec("DELETE FROM reviews WHERE").
		WithArgs("already-gone").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	n, err := repo.Delete(context.Background(), "already-gone")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_AggregateByTarget(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(domain.TargetJob, "job-1").
		WillReturnRows(
			pgxmock.NewRows([]string{"count", "sum"}).AddRow(3, 13),
		)

	count, sum, err := repo.AggregateByTarget(context.Background(), domain.TargetJob, "job-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 13, sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByTarget_Empty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM reviews WHERE target_type").
		WithArgs(domain.TargetUser, "user-9", 20, 0).
		WillReturnRows(pgxmock.NewRows(reviewColsWithCount))

	reviews, total, err := repo.ListByTarget(context.Background(), domain.TargetUser, "user-9", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.Review{}, reviews)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─────────────────────────────────────────────────────────────────────────────
// TargetRepository
// ─────────────────────────────────────────────────────────────────────────────

func TestTargetRepository_Lock_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewTargetRepository(mock)

	mock.ExpectQuery("SELECT id FROM jobs WHERE id = \\$1 FOR UPDATE").
		WithArgs("job-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("job-1"))

	err := repo.Lock(context.Background(), domain.TargetJob, "job-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTargetRepository_Lock_TargetMissing(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewTargetRepository(mock)

	mock.ExpectQuery("SELECT id FROM companies WHERE id = \\$1 FOR UPDATE").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	err := repo.Lock(context.Background(), domain.TargetCompany, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTargetRepository_Lock_UnknownTargetType(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewTargetRepository(mock)

	err := repo.Lock(context.Background(), domain.TargetType("banner"), "x")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTargetRepository_UpdateAggregate_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewTargetRepository(mock)

	// User aggregates land in the worker_* column set.
	agg := domain.NewRatingAggregate(3, 13)
	mock.ExpectExec("UPDATE users\\s+SET worker_rating_count").
		WithArgs("user-1", agg.Count, agg.Sum, agg.Average, agg.BayesScore).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateAggregate(context.Background(), domain.TargetUser, "user-1", agg)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTargetRepository_UpdateAggregate_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewTargetRepository(mock)

	agg := domain.NewRatingAggregate(0, 0)
	mock.ExpectExec("UPDATE jobs\\s+SET rating_count").
		WithArgs("missing", agg.Count, agg.Sum, agg.Average, agg.BayesScore).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateAggregate(context.Background(), domain.TargetJob, "missing", agg)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─────────────────────────────────────────────────────────────────────────────
// JobRepository
// ─────────────────────────────────────────────────────────────────────────────

func TestJobRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewJobRepository(mock)

	j := sampleJob()
	mock.ExpectExec("INSERT INTO jobs").
		WithArgs(
			j.ID, j.OwnerID, j.CompanyID, j.CompanyName, j.Title, j.Description,
			j.City, j.Remote, j.SalaryMin, j.SalaryMax, j.Currency, j.Tags,
			j.ContactURL, j.Status, j.Rating.Count, j.Rating.Sum,
			j.Rating.Average, j.Rating.BayesScore, j.CreatedAt, j.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &j)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_GetByID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewJobRepository(mock)

	j := sampleJob()
	mock.ExpectQuery("SELECT .+ FROM jobs WHERE id").
		WithArgs(j.ID).
		WillReturnRows(
			pgxmock.NewRows(jobCols).AddRow(jobRow(j)...),
		)

	result, err := repo.GetByID(context.Background(), j.ID)
	require.NoError(t, err)
	assert.Equal(t, j.ID, result.ID)
	assert.Equal(t, j.Title, result.Title)
	assert.Equal(t, j.Tags, result.Tags)
	assert.Equal(t, 4.0, result.Rating.BayesScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewJobRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM jobs WHERE id").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "missing-id")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_List_WithFilters(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewJobRepository(mock)

	j := sampleJob()
	row := append(jobRow(j), 1)

	status := domain.JobStatusActive
	filter := repository.JobFilter{
		Status:  &status,
		City:    strPtr("Gdansk"),
		Remote:  boolPtr(false),
		Search:  strPtr("roof"),
		Page:    1,
		PerPage: 10,
	}

	// status=$1, city=$2, remote=$3, search=$4, LIMIT $5 OFFSET $6
	mock.ExpectQuery("SELECT .+ FROM jobs").
		WithArgs(status, "%Gdansk%", false, "%roof%", 10, 0).
		WillReturnRows(
			pgxmock.NewRows(jobColsWithCount).AddRow(row...),
		)

	jobs, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_List_SortWhitelistFallsBack(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewJobRepository(mock)

	// An unknown sort key must never reach ORDER BY; created_at is used.
	filter := repository.JobFilter{Sort: "pg_sleep(10)", Page: 1, PerPage: 20}

	mock.ExpectQuery("ORDER BY created_at").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(jobColsWithCount))

	_, _, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_List_SortByBayesScore(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewJobRepository(mock)

	filter := repository.JobFilter{Sort: "bayes_score", Desc: true, Page: 1, PerPage: 20}

	mock.ExpectQuery("ORDER BY bayes_score DESC").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(jobColsWithCount))

	_, _, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewJobRepository(mock)

	j := sampleJob()
	j.ID = "nonexistent-id"
	mock.ExpectExec("UPDATE jobs").
		WithArgs(
			j.CompanyID, j.CompanyName, j.Title, j.Description, j.City,
			j.Remote, j.SalaryMin, j.SalaryMax, j.Currency, j.Tags,
			j.ContactURL, j.Status,
			pgxmock.AnyArg(), // updated_at is set inside Update
			j.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &j)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_Delete_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewJobRepository(mock)

	mock.ExpectExec("DELETE FROM jobs WHERE").
		WithArgs("job-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "job-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─────────────────────────────────────────────────────────────────────────────
// UserRepository
// ─────────────────────────────────────────────────────────────────────────────

func TestUserRepository_UpsertByExternalUID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	u := sampleUser()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(u.ID, u.ExternalUID, u.Email, u.Name, u.Picture, u.CreatedAt, u.UpdatedAt).
		WillReturnRows(
			pgxmock.NewRows(userCols).AddRow(userRow(u)...),
		)

	saved, err := repo.UpsertByExternalUID(context.Background(), &u)
	require.NoError(t, err)
	assert.Equal(t, u.ID, saved.ID)
	assert.Equal(t, u.ExternalUID, saved.ExternalUID)
	assert.Equal(t, 3, saved.Rating.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "missing-id")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateProfile_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	u := sampleUser()
	mock.ExpectExec("UPDATE users").
		WithArgs(u.Headline, u.Bio, u.City, pgxmock.AnyArg(), u.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateProfile(context.Background(), &u)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─────────────────────────────────────────────────────────────────────────────
// ContactLogRepository
// ─────────────────────────────────────────────────────────────────────────────

func TestContactLogRepository_Insert_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewContactLogRepository(mock)

	l := sampleContactLog()
	mock.ExpectExec("INSERT INTO contact_message_logs").
		WithArgs(
			l.ID, l.Name, l.Email, l.Subject, l.Message, l.Outcome,
			l.SpamReason, l.ClientIP, l.UserAgent, l.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Insert(context.Background(), &l)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactLogRepository_List_FiltersByOutcome(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewContactLogRepository(mock)

	l := sampleContactLog()
	l.Outcome = domain.ContactOutcomeSpam
	l.SpamReason = "honeypot"
	row := append(contactRow(l), 1)

	outcome := domain.ContactOutcomeSpam
	filter := repository.ContactLogFilter{Outcome: &outcome, Page: 1, PerPage: 20}

	mock.ExpectQuery("SELECT .+ FROM contact_message_logs").
		WithArgs(outcome, 20, 0).
		WillReturnRows(
			pgxmock.NewRows(contactColsWithCount).AddRow(row...),
		)

	logs, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "honeypot", logs[0].SpamReason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactLogRepository_SoftDelete_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewContactLogRepository(mock)

	mock.ExpectExec("UPDATE contact_message_logs SET deleted_at = NOW").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SoftDelete(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactLogRepository_Restore_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewContactLogRepository(mock)

	mock.ExpectExec("UPDATE contact_message_logs SET deleted_at = NULL").
		WithArgs("log-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Restore(context.Background(), "log-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactLogRepository_HardDeleteOlderThan(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewContactLogRepository(mock)

	cutoff := now.AddDate(0, 0, -30)
	mock.ExpectExec("DELETE FROM contact_message_logs").
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 7))

	n, err := repo.HardDeleteOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
