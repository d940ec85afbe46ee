package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/repository"
)

// stubGapPublisher records published gaps, optionally failing per gap id.
type stubGapPublisher struct {
	published []string
	failIDs   map[string]bool
}

func (s *stubGapPublisher) PublishGap(_ context.Context, gap *domain.CoverageGap) error {
	if s.failIDs[gap.GapID] {
		return errors.New("stream unavailable")
	}
	s.published = append(s.published, gap.GapID)
	return nil
}

func seedGap(t *testing.T, gaps *repository.MemoryCoverageGapsRepository, shift domain.Shift) *domain.CoverageGap {
	t.Helper()

	gap := &domain.CoverageGap{
		CareHomeID:    "home-1",
		ServiceUserID: "user-1",
		Date:          time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Shift:         shift,
	}
	created, err := gaps.GetOrCreate(context.Background(), gap)
	require.NoError(t, err)
	require.True(t, created)
	return gap
}

func TestNotifyPending_PublishesOnce(t *testing.T) {
	gaps := repository.NewMemoryCoverageGapsRepository()
	publisher := &stubGapPublisher{}
	notifier := NewGapNotifier(gaps, publisher, time.Minute, zap.NewNop())
	ctx := context.Background()

	seedGap(t, gaps, domain.ShiftMorning)
	seedGap(t, gaps, domain.ShiftNight)

	count, err := notifier.NotifyPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, publisher.published, 2)

	// Already-notified gaps are not re-published.
	count, err = notifier.NotifyPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Len(t, publisher.published, 2)
}

func TestNotifyPending_FailedPublishRetriesNextPass(t *testing.T) {
	gaps := repository.NewMemoryCoverageGapsRepository()
	morning := seedGap(t, gaps, domain.ShiftMorning)
	seedGap(t, gaps, domain.ShiftNight)

	publisher := &stubGapPublisher{failIDs: map[string]bool{morning.GapID: true}}
	notifier := NewGapNotifier(gaps, publisher, time.Minute, zap.NewNop())
	ctx := context.Background()

	count, err := notifier.NotifyPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The failed gap stays pending and goes out once the stream recovers.
	publisher.failIDs = nil
	count, err = notifier.NotifyPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Contains(t, publisher.published, morning.GapID)
}

func TestNotifyPending_SkipsResolvedGaps(t *testing.T) {
	gaps := repository.NewMemoryCoverageGapsRepository()
	gap := seedGap(t, gaps, domain.ShiftMorning)

	_, err := gaps.Resolve(context.Background(), gap.CareHomeID, gap.ServiceUserID, gap.Date, gap.Shift, time.Now())
	require.NoError(t, err)

	publisher := &stubGapPublisher{}
	notifier := NewGapNotifier(gaps, publisher, time.Minute, zap.NewNop())

	count, err := notifier.NotifyPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, publisher.published)
}
