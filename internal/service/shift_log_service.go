package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/events"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/repository"
)

// LockResult reports the outcome of locking a shift summary. The lock
// itself commits before document rendering starts, so DocumentError can
// be set on an otherwise successful lock.
type LockResult struct {
	SummaryID         string `json:"summaryId"`
	Locked            bool   `json:"locked"`
	DocumentGenerated bool   `json:"documentGenerated"`
	DocumentPath      string `json:"documentPath,omitempty"`
	DocumentError     string `json:"documentError,omitempty"`
}

// ShiftLogService manages shift summaries and their time-slot entries.
type ShiftLogService struct {
	summaries repository.ShiftSummariesRepository
	entries   repository.LogEntriesRepository
	careHomes repository.CareHomesRepository
	documents *DocumentService
	bus       *events.Bus
	logger    *zap.Logger
	loc       *time.Location
}

func NewShiftLogService(
	summaries repository.ShiftSummariesRepository,
	entries repository.LogEntriesRepository,
	careHomes repository.CareHomesRepository,
	documents *DocumentService,
	bus *events.Bus,
	logger *zap.Logger,
	loc *time.Location,
) *ShiftLogService {
	if loc == nil {
		loc = time.UTC
	}
	return &ShiftLogService{
		summaries: summaries,
		entries:   entries,
		careHomes: careHomes,
		documents: documents,
		bus:       bus,
		logger:    logger,
		loc:       loc,
	}
}

// GetOrCreateSummary returns the summary for the
// (staff, service user, today, shift) tuple, creating it on first use.
// The second return value reports whether a new summary was created;
// only a genuine creation publishes the SummaryCreated event.
func (s *ShiftLogService) GetOrCreateSummary(ctx context.Context, staffID, staffName, careHomeID, serviceUserID string, shift domain.Shift) (*domain.ShiftSummary, bool, error) {
	if staffID == "" || careHomeID == "" || serviceUserID == "" {
		return nil, false, fmt.Errorf("staff id, care home id and service user id are required")
	}
	if _, err := domain.ParseShift(string(shift)); err != nil {
		return nil, false, err
	}

	today := domain.DateOnly(time.Now().In(s.loc), s.loc)

	existing, err := s.summaries.FindSummary(ctx, staffID, serviceUserID, today, shift)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up summary: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	summary := &domain.ShiftSummary{
		StaffID:       staffID,
		StaffName:     staffName,
		CareHomeID:    careHomeID,
		ServiceUserID: serviceUserID,
		Date:          today,
		Shift:         shift,
	}
	summaryID, err := s.summaries.CreateSummary(ctx, summary)
	if errors.Is(err, domain.ErrDuplicateSummary) {
		// Lost a create race; the winner's row is the one to use.
		existing, findErr := s.summaries.FindSummary(ctx, staffID, serviceUserID, today, shift)
		if findErr != nil {
			return nil, false, fmt.Errorf("failed to look up summary after duplicate: %w", findErr)
		}
		if existing == nil {
			return nil, false, fmt.Errorf("summary reported duplicate but was not found")
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create summary: %w", err)
	}
	summary.SummaryID = summaryID

	s.bus.PublishSummaryCreated(ctx, events.SummaryCreated{
		SummaryID:     summary.SummaryID,
		CareHomeID:    summary.CareHomeID,
		ServiceUserID: summary.ServiceUserID,
		StaffID:       summary.StaffID,
		Date:          summary.Date,
		Shift:         summary.Shift,
	})

	s.logger.Info("shift summary created",
		zap.String("summary_id", summary.SummaryID),
		zap.String("carehome_id", careHomeID),
		zap.String("service_user_id", serviceUserID),
		zap.String("shift", string(shift)),
	)
	return summary, true, nil
}

// GetSummary fetches one summary by id.
func (s *ShiftLogService) GetSummary(ctx context.Context, summaryID string) (*domain.ShiftSummary, error) {
	return s.summaries.GetSummary(ctx, summaryID)
}

// ListSummaries returns summaries matching the filters.
func (s *ShiftLogService) ListSummaries(ctx context.Context, filters repository.SummaryFilters) ([]*domain.ShiftSummary, error) {
	return s.summaries.ListSummaries(ctx, filters)
}

// ListEntries returns a summary's entries ordered by time slot.
func (s *ShiftLogService) ListEntries(ctx context.Context, summaryID string) ([]*domain.LogEntry, error) {
	return s.entries.ListBySummary(ctx, summaryID)
}

// SlotView is one cell of a summary's entry grid: a shift-window time
// slot with whatever entry has been written into it.
type SlotView struct {
	TimeSlot time.Time
	EntryID  string
	Content  string
	Filled   bool
	IsLocked bool
}

// Fallback grid starts for homes with no shift window configured.
var (
	defaultMorningStart = time.Date(0, 1, 1, 8, 0, 0, 0, time.UTC)
	defaultNightStart   = time.Date(0, 1, 1, 20, 0, 0, 0, time.UTC)
)

// SlotGrid lays out a summary's full entry grid: one hourly slot per
// hour of the home's shift window, with written entries merged in.
func (s *ShiftLogService) SlotGrid(ctx context.Context, summaryID string) ([]SlotView, error) {
	summary, err := s.summaries.GetSummary(ctx, summaryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	start := defaultMorningStart
	if summary.Shift == domain.ShiftNight {
		start = defaultNightStart
	}
	home, err := s.careHomes.GetCareHome(ctx, summary.CareHomeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get care home: %w", err)
	}
	if configured := home.ShiftStart(summary.Shift); configured != nil {
		start = *configured
	}

	entries, err := s.entries.ListBySummary(ctx, summaryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	bySlot := make(map[string]*domain.LogEntry, len(entries))
	for _, e := range entries {
		bySlot[e.TimeSlot.Format("15:04")] = e
	}

	slots := domain.GenerateShiftSlots(start, domain.DefaultSlotCount)
	grid := make([]SlotView, 0, len(slots))
	for _, slot := range slots {
		view := SlotView{TimeSlot: slot}
		if e, ok := bySlot[slot.Format("15:04")]; ok {
			view.EntryID = e.EntryID
			view.Content = e.Content
			view.Filled = true
			view.IsLocked = e.IsLocked
		}
		grid = append(grid, view)
	}
	return grid, nil
}

// WriteEntry records one time slot's content for a summary. Writes to a
// locked summary are rejected with domain.ErrSummaryLocked.
func (s *ShiftLogService) WriteEntry(ctx context.Context, summaryID string, timeSlot time.Time, content string) (*domain.LogEntry, error) {
	summary, err := s.summaries.GetSummary(ctx, summaryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	if summary.Locked() {
		return nil, domain.ErrSummaryLocked
	}

	entry := &domain.LogEntry{
		SummaryID:     summary.SummaryID,
		StaffID:       summary.StaffID,
		CareHomeID:    summary.CareHomeID,
		ServiceUserID: summary.ServiceUserID,
		Date:          summary.Date,
		Shift:         summary.Shift,
		TimeSlot:      timeSlot,
		Content:       content,
	}
	entryID, err := s.entries.UpsertEntry(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to write entry: %w", err)
	}
	entry.EntryID = entryID
	return entry, nil
}

// LockSummary transitions the summary to locked, then renders and
// stores the PDF document. The lock commits first; a render failure is
// reported in the result but never reverts the lock.
func (s *ShiftLogService) LockSummary(ctx context.Context, summaryID string) (*LockResult, error) {
	if err := s.summaries.LockSummary(ctx, summaryID); err != nil {
		return nil, err
	}

	result := &LockResult{SummaryID: summaryID, Locked: true}

	summary, err := s.summaries.GetSummary(ctx, summaryID)
	if err != nil {
		result.DocumentError = err.Error()
		s.logger.Warn("locked summary could not be reloaded for rendering",
			zap.String("summary_id", summaryID), zap.Error(err))
		return result, nil
	}
	entries, err := s.entries.ListBySummary(ctx, summaryID)
	if err != nil {
		result.DocumentError = err.Error()
		s.logger.Warn("locked summary entries could not be listed for rendering",
			zap.String("summary_id", summaryID), zap.Error(err))
		return result, nil
	}

	path, err := s.documents.RenderAndAttach(ctx, summary, entries)
	if err != nil {
		result.DocumentError = err.Error()
		s.logger.Warn("document generation failed after lock",
			zap.String("summary_id", summaryID), zap.Error(err))
		return result, nil
	}
	result.DocumentGenerated = true
	result.DocumentPath = path
	return result, nil
}
