package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
)

func seedMemorySummary(t *testing.T, repo *MemoryShiftSummariesRepository) *domain.ShiftSummary {
	t.Helper()

	summary := &domain.ShiftSummary{
		SummaryID:     uuid.New().String(),
		StaffID:       uuid.New().String(),
		StaffName:     "Priya Nair",
		CareHomeID:    uuid.New().String(),
		ServiceUserID: uuid.New().String(),
		Date:          time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Shift:         domain.ShiftMorning,
		Status:        domain.StatusIncomplete,
	}
	_, err := repo.CreateSummary(context.Background(), summary)
	require.NoError(t, err)
	return summary
}

func TestMemoryUpsertEntry_RejectsLockedSummary(t *testing.T) {
	repo := NewMemoryShiftSummariesRepository()
	ctx := context.Background()
	summary := seedMemorySummary(t, repo)

	// A caller that read the summary as unlocked can still lose the
	// race to a concurrent lock; the store itself must refuse the write.
	require.NoError(t, repo.LockSummary(ctx, summary.SummaryID))

	_, err := repo.UpsertEntry(ctx, &domain.LogEntry{
		SummaryID:     summary.SummaryID,
		StaffID:       summary.StaffID,
		CareHomeID:    summary.CareHomeID,
		ServiceUserID: summary.ServiceUserID,
		Date:          summary.Date,
		Shift:         summary.Shift,
		TimeSlot:      time.Date(0, 1, 1, 10, 0, 0, 0, time.UTC),
		Content:       "Late entry",
	})

	assert.ErrorIs(t, err, domain.ErrSummaryLocked)
}

func TestMemoryUpsertEntry_UnknownSummaryRejected(t *testing.T) {
	repo := NewMemoryShiftSummariesRepository()

	_, err := repo.UpsertEntry(context.Background(), &domain.LogEntry{
		SummaryID: uuid.New().String(),
		Shift:     domain.ShiftNight,
		TimeSlot:  time.Date(0, 1, 1, 21, 0, 0, 0, time.UTC),
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
