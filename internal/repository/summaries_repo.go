package repository

import (
	"context"
	"time"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
)

// SummaryFilters narrows summary list queries.
type SummaryFilters struct {
	CareHomeID    string
	ServiceUserID string
	StaffID       string
	Date          *time.Time
	Shift         domain.Shift
	Status        string
}

// ShiftSummariesRepository is the shift-summary store contract.
type ShiftSummariesRepository interface {
	// GetSummary fetches one summary by id.
	GetSummary(ctx context.Context, summaryID string) (*domain.ShiftSummary, error)

	// FindSummary looks up the summary for the unique
	// (staff, service user, date, shift) tuple. Returns (nil, nil) when
	// no row exists.
	FindSummary(ctx context.Context, staffID, serviceUserID string, date time.Time, shift domain.Shift) (*domain.ShiftSummary, error)

	// ListSummaries returns summaries matching the filters, newest first.
	ListSummaries(ctx context.Context, filters SummaryFilters) ([]*domain.ShiftSummary, error)

	// CreateSummary inserts a summary. A unique-key collision on
	// (staff, service user, date, shift) returns
	// domain.ErrDuplicateSummary with nothing written.
	CreateSummary(ctx context.Context, summary *domain.ShiftSummary) (string, error)

	// ExistsForShift reports whether any summary exists for
	// (care home, service user, date, shift), regardless of status or
	// reporting staff. This is the coverage sweep's qualifying check.
	ExistsForShift(ctx context.Context, careHomeID, serviceUserID string, date time.Time, shift domain.Shift) (bool, error)

	// ExistsLockedSince reports whether a locked summary exists for
	// (care home, service user, shift) dated on or after since. Used by
	// the historical backfill check.
	ExistsLockedSince(ctx context.Context, careHomeID, serviceUserID string, shift domain.Shift, since time.Time) (bool, error)

	// LockSummary transitions the summary to locked and marks all of
	// its entries immutable in one transaction. Locking an already
	// locked summary returns domain.ErrSummaryLocked.
	LockSummary(ctx context.Context, summaryID string) error

	// AttachDocument records the rendered document path for a summary.
	AttachDocument(ctx context.Context, summaryID, documentPath string) error
}
