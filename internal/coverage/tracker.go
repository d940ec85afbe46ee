// Package coverage implements the shift coverage tracker: the daily
// sweep that materializes missed-log gaps, the listener that retires
// them as logs arrive, and the historical backfill check.
package coverage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/events"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/repository"
)

// Tracker owns all coverage-gap bookkeeping.
type Tracker struct {
	careHomes    repository.CareHomesRepository
	serviceUsers repository.ServiceUsersRepository
	summaries    repository.ShiftSummariesRepository
	gaps         repository.CoverageGapsRepository
	logger       *zap.Logger

	// loc resolves "today" for sweeps and backfill dating.
	loc *time.Location

	// backfillWindowDays is the trailing window scanned on care-home
	// updates.
	backfillWindowDays int
}

func NewTracker(
	careHomes repository.CareHomesRepository,
	serviceUsers repository.ServiceUsersRepository,
	summaries repository.ShiftSummariesRepository,
	gaps repository.CoverageGapsRepository,
	loc *time.Location,
	backfillWindowDays int,
	logger *zap.Logger,
) *Tracker {
	if loc == nil {
		loc = time.UTC
	}
	if backfillWindowDays <= 0 {
		backfillWindowDays = 180
	}
	return &Tracker{
		careHomes:          careHomes,
		serviceUsers:       serviceUsers,
		summaries:          summaries,
		gaps:               gaps,
		logger:             logger,
		loc:                loc,
		backfillWindowDays: backfillWindowDays,
	}
}

// Register subscribes the tracker's listeners on the domain event bus.
func (t *Tracker) Register(bus *events.Bus) {
	bus.SubscribeSummaryCreated(t.HandleSummaryCreated)
	bus.SubscribeCareHomeUpdated(t.HandleCareHomeUpdated)
}

// Today returns the current calendar date in the configured zone.
func (t *Tracker) Today() time.Time {
	return domain.DateOnly(time.Now(), t.loc)
}

// Sweep checks every (service user x tracked shift) of a care home for
// the given date, stages a gap for each tuple without a shift summary,
// bulk-inserts the staged gaps with ignore-conflicts semantics, and
// returns the open gaps for that home and date. A home with no service
// users yields zero gaps. The zero date means today.
func (t *Tracker) Sweep(ctx context.Context, careHomeID string, date time.Time) ([]*domain.CoverageGap, error) {
	if careHomeID == "" {
		return nil, fmt.Errorf("carehome_id is required")
	}
	if date.IsZero() {
		date = t.Today()
	}

	users, err := t.serviceUsers.ListByCareHome(ctx, careHomeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list service users for sweep: %w", err)
	}

	staged := []*domain.CoverageGap{}
	for _, user := range users {
		for _, shift := range domain.TrackedShifts() {
			exists, err := t.summaries.ExistsForShift(ctx, careHomeID, user.ServiceUserID, date, shift)
			if err != nil {
				return nil, fmt.Errorf("failed to check shift coverage: %w", err)
			}
			if exists {
				continue
			}
			staged = append(staged, &domain.CoverageGap{
				CareHomeID:    careHomeID,
				ServiceUserID: user.ServiceUserID,
				Date:          date,
				Shift:         shift,
			})
		}
	}

	created, err := t.gaps.BulkCreate(ctx, staged)
	if err != nil {
		return nil, fmt.Errorf("failed to persist coverage gaps: %w", err)
	}
	if created > 0 {
		t.logger.Info("coverage sweep created gaps",
			zap.String("carehome_id", careHomeID),
			zap.String("date", date.Format("2006-01-02")),
			zap.Int("staged", len(staged)),
			zap.Int("created", created),
		)
	}

	return t.gaps.ListGaps(ctx, repository.GapFilters{
		CareHomeID: careHomeID,
		Date:       &date,
		OpenOnly:   true,
	})
}

// SweepReport is one care home's result from SweepAll.
type SweepReport struct {
	CareHomeID   string `json:"carehomeId"`
	CareHomeName string `json:"carehomeName"`
	OpenGaps     int    `json:"openGaps"`
}

// SweepAll runs the sweep for every care home and reports the open gap
// count per home. The zero date means today.
func (t *Tracker) SweepAll(ctx context.Context, date time.Time) ([]SweepReport, error) {
	homes, err := t.careHomes.ListCareHomes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list care homes for sweep: %w", err)
	}

	reports := make([]SweepReport, 0, len(homes))
	for _, home := range homes {
		open, err := t.Sweep(ctx, home.CareHomeID, date)
		if err != nil {
			return nil, fmt.Errorf("sweep failed for care home %s: %w", home.CareHomeID, err)
		}
		reports = append(reports, SweepReport{
			CareHomeID:   home.CareHomeID,
			CareHomeName: home.Name,
			OpenGaps:     len(open),
		})
	}
	return reports, nil
}

// OpenGaps returns open gaps matching the filters.
func (t *Tracker) OpenGaps(ctx context.Context, careHomeID string, date *time.Time) ([]*domain.CoverageGap, error) {
	return t.gaps.ListGaps(ctx, repository.GapFilters{
		CareHomeID: careHomeID,
		Date:       date,
		OpenOnly:   true,
	})
}

// OpenCounts returns the open gap count per care home.
func (t *Tracker) OpenCounts(ctx context.Context) (map[string]int, error) {
	return t.gaps.CountOpenByCareHome(ctx)
}
