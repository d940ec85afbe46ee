package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
)

func setupMockEntriesDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresLogEntriesRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewPostgresLogEntriesRepository(db)
	return db, mock, repo
}

func testLogEntry() *domain.LogEntry {
	return &domain.LogEntry{
		EntryID:       uuid.New().String(),
		SummaryID:     uuid.New().String(),
		StaffID:       uuid.New().String(),
		CareHomeID:    uuid.New().String(),
		ServiceUserID: uuid.New().String(),
		Date:          time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Shift:         domain.ShiftMorning,
		TimeSlot:      time.Date(0, 1, 1, 9, 0, 0, 0, time.UTC),
		Content:       "Breakfast taken in the dining room",
	}
}

func TestUpsertEntry_Success(t *testing.T) {
	db, mock, repo := setupMockEntriesDB(t)
	defer db.Close()

	entry := testLogEntry()

	rows := sqlmock.NewRows([]string{"entry_id"}).AddRow(entry.EntryID)
	mock.ExpectQuery(`INSERT INTO shift_log_entries`).
		WithArgs(
			entry.EntryID, entry.SummaryID, entry.StaffID, entry.CareHomeID,
			entry.ServiceUserID, entry.Date, "morning", entry.TimeSlot,
			entry.Content, sqlmock.AnyArg(),
		).
		WillReturnRows(rows)

	entryID, err := repo.UpsertEntry(context.Background(), entry)

	require.NoError(t, err)
	assert.Equal(t, entry.EntryID, entryID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertEntry_LockedSummaryRejected(t *testing.T) {
	db, mock, repo := setupMockEntriesDB(t)
	defer db.Close()

	entry := testLogEntry()

	// The insert's status guard filters the summary out, then the
	// follow-up status read shows why.
	mock.ExpectQuery(`INSERT INTO shift_log_entries`).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT status FROM shift_summaries`).
		WithArgs(entry.SummaryID).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("locked"))

	_, err := repo.UpsertEntry(context.Background(), entry)

	assert.ErrorIs(t, err, domain.ErrSummaryLocked)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertEntry_SummaryMissing(t *testing.T) {
	db, mock, repo := setupMockEntriesDB(t)
	defer db.Close()

	entry := testLogEntry()

	mock.ExpectQuery(`INSERT INTO shift_log_entries`).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT status FROM shift_summaries`).
		WithArgs(entry.SummaryID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpsertEntry(context.Background(), entry)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	require.NoError(t, mock.ExpectationsWereMet())
}
