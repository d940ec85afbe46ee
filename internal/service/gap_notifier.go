package service

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/repository"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/pkg/redisx"
)

// GapEvent is the payload published to the gap stream for one open,
// previously unpublished coverage gap.
type GapEvent struct {
	GapID         string `json:"gapId"`
	CareHomeID    string `json:"carehomeId"`
	ServiceUserID string `json:"serviceUserId"`
	Date          string `json:"date"`
	Shift         string `json:"shift"`
	CreatedAt     string `json:"createdAt"`
}

// GapPublisher delivers gap events to downstream consumers.
type GapPublisher interface {
	PublishGap(ctx context.Context, gap *domain.CoverageGap) error
}

// RedisGapPublisher publishes gap events to a Redis Stream.
type RedisGapPublisher struct {
	client *redis.Client
	stream string
}

func NewRedisGapPublisher(client *redis.Client, stream string) *RedisGapPublisher {
	return &RedisGapPublisher{client: client, stream: stream}
}

var _ GapPublisher = (*RedisGapPublisher)(nil)

func (p *RedisGapPublisher) PublishGap(ctx context.Context, gap *domain.CoverageGap) error {
	event := GapEvent{
		GapID:         gap.GapID,
		CareHomeID:    gap.CareHomeID,
		ServiceUserID: gap.ServiceUserID,
		Date:          gap.Date.Format("2006-01-02"),
		Shift:         string(gap.Shift),
		CreatedAt:     gap.CreatedAt.Format(time.RFC3339),
	}
	_, err := redisx.PublishJSONToStream(ctx, p.client, p.stream, event)
	return err
}

// GapNotifier periodically publishes open, unpublished coverage gaps
// and marks them notified. Publishing is at-least-once: a gap is only
// marked after its event went out, so a crash between the two replays
// the event on the next pass.
type GapNotifier struct {
	gaps      repository.CoverageGapsRepository
	publisher GapPublisher
	interval  time.Duration
	logger    *zap.Logger
}

func NewGapNotifier(gaps repository.CoverageGapsRepository, publisher GapPublisher, interval time.Duration, logger *zap.Logger) *GapNotifier {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &GapNotifier{
		gaps:      gaps,
		publisher: publisher,
		interval:  interval,
		logger:    logger,
	}
}

// NotifyPending publishes every open, unpublished gap once and returns
// the number published.
func (n *GapNotifier) NotifyPending(ctx context.Context) (int, error) {
	notified := false
	pending, err := n.gaps.ListGaps(ctx, repository.GapFilters{
		OpenOnly: true,
		Notified: &notified,
	})
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	published := make([]string, 0, len(pending))
	for _, gap := range pending {
		if err := n.publisher.PublishGap(ctx, gap); err != nil {
			n.logger.Warn("failed to publish gap event",
				zap.String("gap_id", gap.GapID), zap.Error(err))
			continue
		}
		published = append(published, gap.GapID)
	}
	if len(published) == 0 {
		return 0, nil
	}
	if err := n.gaps.MarkNotified(ctx, published); err != nil {
		return len(published), err
	}
	n.logger.Info("published gap events", zap.Int("count", len(published)))
	return len(published), nil
}

// Run publishes pending gaps on a fixed interval until ctx ends.
func (n *GapNotifier) Run(ctx context.Context) {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	n.logger.Info("gap notifier started", zap.Duration("interval", n.interval))
	for {
		select {
		case <-ctx.Done():
			n.logger.Info("gap notifier stopped")
			return
		case <-ticker.C:
			if _, err := n.NotifyPending(ctx); err != nil {
				n.logger.Error("gap notification pass failed", zap.Error(err))
			}
		}
	}
}
