package coverage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/events"
)

// HandleSummaryCreated retires gaps matching a newly created shift
// summary. First the exact (care home, service user, date, shift) tuple
// is resolved; then, if summaries now exist for both shifts of the day,
// a second pass closes any remaining open gap for the date across both
// shifts. The second pass converges rows left behind by the historical
// backfill, which dates its gaps coarsely.
//
// Runs on the event bus: an error return is logged there and never
// reaches the write that created the summary.
func (t *Tracker) HandleSummaryCreated(ctx context.Context, event events.SummaryCreated) error {
	now := time.Now()

	resolved, err := t.gaps.Resolve(ctx, event.CareHomeID, event.ServiceUserID, event.Date, event.Shift, now)
	if err != nil {
		return fmt.Errorf("failed to resolve coverage gap for new summary: %w", err)
	}
	if resolved > 0 {
		t.logger.Info("coverage gap resolved by new shift log",
			zap.String("carehome_id", event.CareHomeID),
			zap.String("service_user_id", event.ServiceUserID),
			zap.String("date", event.Date.Format("2006-01-02")),
			zap.String("shift", string(event.Shift)),
		)
	}

	morningExists, err := t.summaries.ExistsForShift(ctx, event.CareHomeID, event.ServiceUserID, event.Date, domain.ShiftMorning)
	if err != nil {
		return fmt.Errorf("failed to re-check morning coverage: %w", err)
	}
	nightExists, err := t.summaries.ExistsForShift(ctx, event.CareHomeID, event.ServiceUserID, event.Date, domain.ShiftNight)
	if err != nil {
		return fmt.Errorf("failed to re-check night coverage: %w", err)
	}

	if morningExists && nightExists {
		if _, err := t.gaps.Resolve(ctx, event.CareHomeID, event.ServiceUserID, event.Date, "", now); err != nil {
			return fmt.Errorf("failed to resolve remaining gaps for fully covered day: %w", err)
		}
	}
	return nil
}
