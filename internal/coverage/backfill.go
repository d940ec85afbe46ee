package coverage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/events"
)

// HandleCareHomeUpdated is the historical backfill check, run when a
// care home is edited. For every service user and shift it looks for at
// least one locked summary in the trailing window; when none exists it
// get-or-creates a gap dated today. Coarser than the daily sweep: one
// existence check per tuple over the whole window, not per day. The
// shared natural-key idempotency keeps the two producers from
// duplicating rows where they overlap.
func (t *Tracker) HandleCareHomeUpdated(ctx context.Context, event events.CareHomeUpdated) error {
	today := t.Today()
	since := today.AddDate(0, 0, -t.backfillWindowDays)

	users, err := t.serviceUsers.ListByCareHome(ctx, event.CareHomeID)
	if err != nil {
		return fmt.Errorf("failed to list service users for backfill: %w", err)
	}

	for _, user := range users {
		for _, shift := range domain.TrackedShifts() {
			hasLog, err := t.summaries.ExistsLockedSince(ctx, event.CareHomeID, user.ServiceUserID, shift, since)
			if err != nil {
				return fmt.Errorf("failed to check historical coverage: %w", err)
			}
			if hasLog {
				continue
			}

			created, err := t.gaps.GetOrCreate(ctx, &domain.CoverageGap{
				CareHomeID:    event.CareHomeID,
				ServiceUserID: user.ServiceUserID,
				Date:          today,
				Shift:         shift,
			})
			if err != nil {
				return fmt.Errorf("failed to record backfill gap: %w", err)
			}
			if created {
				t.logger.Info("backfill created coverage gap",
					zap.String("carehome_id", event.CareHomeID),
					zap.String("service_user_id", user.ServiceUserID),
					zap.String("shift", string(shift)),
					zap.Int("window_days", t.backfillWindowDays),
				)
			}
		}
	}
	return nil
}
