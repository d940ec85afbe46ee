package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
)

func setupMockSummariesDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresShiftSummariesRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewPostgresShiftSummariesRepository(db)
	return db, mock, repo
}

func TestGetSummary_Success(t *testing.T) {
	db, mock, repo := setupMockSummariesDB(t)
	defer db.Close()

	ctx := context.Background()
	summaryID := uuid.New().String()
	staffID := uuid.New().String()
	careHomeID := uuid.New().String()
	serviceUserID := uuid.New().String()
	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"summary_id", "staff_id", "carehome_id", "service_user_id",
		"date", "shift", "staff_name", "day_of_week", "status",
		"document_path", "created_at", "updated_at",
	}).AddRow(
		summaryID, staffID, careHomeID, serviceUserID,
		date, "morning", "Alice Carer", "Sunday", "incomplete",
		nil, now, now,
	)

	mock.ExpectQuery(`SELECT`).
		WithArgs(summaryID).
		WillReturnRows(rows)

	summary, err := repo.GetSummary(ctx, summaryID)

	require.NoError(t, err)
	assert.Equal(t, summaryID, summary.SummaryID)
	assert.Equal(t, domain.ShiftMorning, summary.Shift)
	assert.Equal(t, "Alice Carer", summary.StaffName)
	assert.Equal(t, domain.StatusIncomplete, summary.Status)
	assert.False(t, summary.Locked())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSummary_NotFound(t *testing.T) {
	db, mock, repo := setupMockSummariesDB(t)
	defer db.Close()

	ctx := context.Background()
	summaryID := uuid.New().String()

	mock.ExpectQuery(`SELECT`).
		WithArgs(summaryID).
		WillReturnError(sql.ErrNoRows)

	summary, err := repo.GetSummary(ctx, summaryID)

	assert.Error(t, err)
	assert.Nil(t, summary)
	assert.Contains(t, err.Error(), "not found")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSummary_Missing(t *testing.T) {
	db, mock, repo := setupMockSummariesDB(t)
	defer db.Close()

	ctx := context.Background()
	staffID := uuid.New().String()
	serviceUserID := uuid.New().String()
	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT`).
		WithArgs(staffID, serviceUserID, date, "night").
		WillReturnError(sql.ErrNoRows)

	summary, err := repo.FindSummary(ctx, staffID, serviceUserID, date, domain.ShiftNight)

	require.NoError(t, err)
	assert.Nil(t, summary)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSummary_Success(t *testing.T) {
	db, mock, repo := setupMockSummariesDB(t)
	defer db.Close()

	ctx := context.Background()
	summaryID := uuid.New().String()
	staffID := uuid.New().String()
	careHomeID := uuid.New().String()
	serviceUserID := uuid.New().String()
	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO shift_summaries`).
		WithArgs(
			summaryID, staffID, careHomeID, serviceUserID,
			date, "morning", "Alice Carer", "Sunday", "incomplete",
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.CreateSummary(ctx, &domain.ShiftSummary{
		SummaryID:     summaryID,
		StaffID:       staffID,
		CareHomeID:    careHomeID,
		ServiceUserID: serviceUserID,
		Date:          date,
		Shift:         domain.ShiftMorning,
		StaffName:     "Alice Carer",
	})

	require.NoError(t, err)
	assert.Equal(t, summaryID, got)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSummary_Duplicate(t *testing.T) {
	db, mock, repo := setupMockSummariesDB(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO shift_summaries`).
		WillReturnError(&pq.Error{Code: pqUniqueViolation})

	_, err := repo.CreateSummary(ctx, &domain.ShiftSummary{
		StaffID:       uuid.New().String(),
		CareHomeID:    uuid.New().String(),
		ServiceUserID: uuid.New().String(),
		Date:          time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Shift:         domain.ShiftNight,
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateSummary)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSummary_InvalidShift(t *testing.T) {
	db, mock, repo := setupMockSummariesDB(t)
	defer db.Close()

	ctx := context.Background()

	_, err := repo.CreateSummary(ctx, &domain.ShiftSummary{
		StaffID:       uuid.New().String(),
		CareHomeID:    uuid.New().String(),
		ServiceUserID: uuid.New().String(),
		Date:          time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Shift:         domain.Shift("afternoon"),
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid shift")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLockSummary_Success(t *testing.T) {
	db, mock, repo := setupMockSummariesDB(t)
	defer db.Close()

	ctx := context.Background()
	summaryID := uuid.New().String()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM shift_summaries`).
		WithArgs(summaryID).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("incomplete"))
	mock.ExpectExec(`UPDATE shift_log_entries`).
		WithArgs(summaryID).
		WillReturnResult(sqlmock.NewResult(0, 12))
	mock.ExpectExec(`UPDATE shift_summaries`).
		WithArgs("locked", summaryID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.LockSummary(ctx, summaryID)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLockSummary_AlreadyLocked(t *testing.T) {
	db, mock, repo := setupMockSummariesDB(t)
	defer db.Close()

	ctx := context.Background()
	summaryID := uuid.New().String()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM shift_summaries`).
		WithArgs(summaryID).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("locked"))
	mock.ExpectRollback()

	err := repo.LockSummary(ctx, summaryID)

	assert.ErrorIs(t, err, domain.ErrSummaryLocked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsLockedSince(t *testing.T) {
	db, mock, repo := setupMockSummariesDB(t)
	defer db.Close()

	ctx := context.Background()
	careHomeID := uuid.New().String()
	serviceUserID := uuid.New().String()
	since := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(careHomeID, serviceUserID, "morning", "locked", since).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsLockedSince(ctx, careHomeID, serviceUserID, domain.ShiftMorning, since)

	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachDocument_NotFound(t *testing.T) {
	db, mock, repo := setupMockSummariesDB(t)
	defer db.Close()

	ctx := context.Background()
	summaryID := uuid.New().String()

	mock.ExpectExec(`UPDATE shift_summaries`).
		WithArgs("log_pdfs/log_x.pdf", summaryID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AttachDocument(ctx, summaryID, "log_pdfs/log_x.pdf")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	require.NoError(t, mock.ExpectationsWereMet())
}
