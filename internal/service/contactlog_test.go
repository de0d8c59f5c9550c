package service

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eternalinsky-max/proponujeprace/internal/repository/postgres"
	apperrors "github.com/eternalinsky-max/proponujeprace/pkg/errors"
)

func newContactLogService(mock pgxmock.PgxPoolIface) *ContactLogService {
	svc := NewContactLogService(postgres.NewContactLogRepository(mock), newTestLogger())
	svc.nowFunc = func() time.Time { return now }
	return svc
}

func TestListLogs_UnknownStatus(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	svc := newContactLogService(mock)

	logs, total, err := svc.ListLogs(context.Background(), "BANANAS", "", 1, 20)

	assert.Nil(t, logs)
	assert.Zero(t, total)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListLogs_DeletedStatusSelectsSoftDeleted(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	svc := newContactLogService(mock)

	contactCols := []string{
		"id", "name", "email", "subject", "message", "outcome", "spam_reason",
		"client_ip", "user_agent", "created_at", "deleted_at", "total_count",
	}

	mock.ExpectQuery("deleted_at IS NOT NULL").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(contactCols))

	logs, total, err := svc.ListLogs(context.Background(), "DELETED", "", 1, 20)

	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanup_RejectsProtectedStatuses(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	svc := newContactLogService(mock)
	ctx := context.Background()

	for _, status := range []string{"OK", "ERROR", "DELETED", "bogus"} {
		_, err := svc.Cleanup(ctx, &CleanupInput{Days: 30, Statuses: []string{status}})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "status %s must be rejected", status)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanup_SoftDeletesMatchingEntries(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	svc := newContactLogService(mock)

	cutoff := now.UTC().AddDate(0, 0, -30)
	mock.ExpectExec("UPDATE contact_message_logs SET deleted_at = NOW").
		WithArgs(cutoff, []string{"SPAM", "RATE-LIMIT"}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 12))

	n, err := svc.Cleanup(context.Background(), &CleanupInput{
		Days:     30,
		Statuses: []string{"SPAM", "RATE-LIMIT"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCronCleanup_SweepsRetentionAndGrace(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	svc := newContactLogService(mock)

	mock.ExpectExec("UPDATE contact_message_logs SET deleted_at = NOW").
		WithArgs(now.UTC().AddDate(0, 0, -defaultRetentionDays)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))
	mock.ExpectExec("DELETE FROM contact_message_logs").
		WithArgs(now.UTC().Add(-defaultHardDeleteGrace)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	result, err := svc.CronCleanup(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), result.SoftDeleted)
	assert.Equal(t, int64(2), result.HardDeleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
