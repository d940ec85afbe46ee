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

func setupMockGapsDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresCoverageGapsRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewPostgresCoverageGapsRepository(db)
	return db, mock, repo
}

func TestBulkCreate_InsertIgnore(t *testing.T) {
	db, mock, repo := setupMockGapsDB(t)
	defer db.Close()

	ctx := context.Background()
	careHomeID := uuid.New().String()
	serviceUserID := uuid.New().String()
	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	gaps := []*domain.CoverageGap{
		{GapID: uuid.New().String(), CareHomeID: careHomeID, ServiceUserID: serviceUserID, Date: date, Shift: domain.ShiftMorning},
		{GapID: uuid.New().String(), CareHomeID: careHomeID, ServiceUserID: serviceUserID, Date: date, Shift: domain.ShiftNight},
	}

	// One row already exists, so only one of the two inserts lands.
	mock.ExpectExec(`INSERT INTO coverage_gaps`).
		WithArgs(
			gaps[0].GapID, careHomeID, serviceUserID, date, "morning", sqlmock.AnyArg(),
			gaps[1].GapID, careHomeID, serviceUserID, date, "night", sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.BulkCreate(ctx, gaps)

	require.NoError(t, err)
	assert.Equal(t, 1, created)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkCreate_Empty(t *testing.T) {
	db, mock, repo := setupMockGapsDB(t)
	defer db.Close()

	created, err := repo.BulkCreate(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, created)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkCreate_InvalidShift(t *testing.T) {
	db, mock, repo := setupMockGapsDB(t)
	defer db.Close()

	_, err := repo.BulkCreate(context.Background(), []*domain.CoverageGap{
		{CareHomeID: uuid.New().String(), ServiceUserID: uuid.New().String(), Shift: domain.Shift("afternoon")},
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid shift")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreate_ExistingRow(t *testing.T) {
	db, mock, repo := setupMockGapsDB(t)
	defer db.Close()

	ctx := context.Background()
	gap := &domain.CoverageGap{
		GapID:         uuid.New().String(),
		CareHomeID:    uuid.New().String(),
		ServiceUserID: uuid.New().String(),
		Date:          time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Shift:         domain.ShiftMorning,
	}

	mock.ExpectExec(`INSERT INTO coverage_gaps`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.GetOrCreate(ctx, gap)

	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreate_RacingInsertTreatedAsExisting(t *testing.T) {
	db, mock, repo := setupMockGapsDB(t)
	defer db.Close()

	ctx := context.Background()
	gap := &domain.CoverageGap{
		GapID:         uuid.New().String(),
		CareHomeID:    uuid.New().String(),
		ServiceUserID: uuid.New().String(),
		Date:          time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Shift:         domain.ShiftNight,
	}

	// A concurrent insert can surface as a unique violation even with
	// ON CONFLICT DO NOTHING under serializable isolation. The violation
	// arrives wrapped by BulkCreate and must still be recognized.
	mock.ExpectExec(`INSERT INTO coverage_gaps`).
		WillReturnError(&pq.Error{Code: pqUniqueViolation})

	created, err := repo.GetOrCreate(ctx, gap)

	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreate_OtherErrorPropagates(t *testing.T) {
	db, mock, repo := setupMockGapsDB(t)
	defer db.Close()

	gap := &domain.CoverageGap{
		GapID:         uuid.New().String(),
		CareHomeID:    uuid.New().String(),
		ServiceUserID: uuid.New().String(),
		Date:          time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Shift:         domain.ShiftMorning,
	}

	mock.ExpectExec(`INSERT INTO coverage_gaps`).
		WillReturnError(&pq.Error{Code: "53300"})

	_, err := repo.GetOrCreate(context.Background(), gap)

	assert.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_BothShifts(t *testing.T) {
	db, mock, repo := setupMockGapsDB(t)
	defer db.Close()

	ctx := context.Background()
	careHomeID := uuid.New().String()
	serviceUserID := uuid.New().String()
	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	at := time.Now()

	mock.ExpectExec(`UPDATE coverage_gaps`).
		WithArgs(careHomeID, serviceUserID, date, at).
		WillReturnResult(sqlmock.NewResult(0, 2))

	resolved, err := repo.Resolve(ctx, careHomeID, serviceUserID, date, "", at)

	require.NoError(t, err)
	assert.Equal(t, 2, resolved)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_SingleShift(t *testing.T) {
	db, mock, repo := setupMockGapsDB(t)
	defer db.Close()

	ctx := context.Background()
	careHomeID := uuid.New().String()
	serviceUserID := uuid.New().String()
	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	at := time.Now()

	mock.ExpectExec(`UPDATE coverage_gaps`).
		WithArgs(careHomeID, serviceUserID, date, "night", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	resolved, err := repo.Resolve(ctx, careHomeID, serviceUserID, date, domain.ShiftNight, at)

	require.NoError(t, err)
	assert.Equal(t, 1, resolved)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListGaps_OpenUnnotified(t *testing.T) {
	db, mock, repo := setupMockGapsDB(t)
	defer db.Close()

	ctx := context.Background()
	gapID := uuid.New().String()
	careHomeID := uuid.New().String()
	serviceUserID := uuid.New().String()
	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"gap_id", "carehome_id", "service_user_id", "date", "shift",
		"is_notified", "created_at", "resolved_at",
	}).AddRow(gapID, careHomeID, serviceUserID, date, "morning", false, now, nil)

	mock.ExpectQuery(`SELECT`).
		WithArgs(false).
		WillReturnRows(rows)

	notified := false
	gaps, err := repo.ListGaps(ctx, GapFilters{OpenOnly: true, Notified: &notified})

	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, gapID, gaps[0].GapID)
	assert.True(t, gaps[0].Open())
	assert.False(t, gaps[0].IsNotified)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountOpenByCareHome(t *testing.T) {
	db, mock, repo := setupMockGapsDB(t)
	defer db.Close()

	ctx := context.Background()
	homeA := uuid.New().String()
	homeB := uuid.New().String()

	rows := sqlmock.NewRows([]string{"carehome_id", "count"}).
		AddRow(homeA, 3).
		AddRow(homeB, 1)

	mock.ExpectQuery(`SELECT`).WillReturnRows(rows)

	counts, err := repo.CountOpenByCareHome(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, counts[homeA])
	assert.Equal(t, 1, counts[homeB])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkNotified(t *testing.T) {
	db, mock, repo := setupMockGapsDB(t)
	defer db.Close()

	ctx := context.Background()
	gapIDs := []string{uuid.New().String(), uuid.New().String()}

	mock.ExpectExec(`UPDATE coverage_gaps SET is_notified`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.MarkNotified(ctx, gapIDs)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
