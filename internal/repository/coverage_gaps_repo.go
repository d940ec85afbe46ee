package repository

import (
	"context"
	"time"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
)

// GapFilters narrows coverage-gap list queries.
type GapFilters struct {
	CareHomeID    string
	ServiceUserID string
	Date          *time.Time
	Shift         domain.Shift

	// OpenOnly restricts to unresolved gaps (resolved_at IS NULL).
	OpenOnly bool

	// Notified filters on the is_notified flag when non-nil.
	Notified *bool
}

// CoverageGapsRepository is the coverage-gap ("missed log") store
// contract. All creation paths are idempotent on the natural key
// (care home, service user, date, shift): a duplicate insert is a no-op,
// never an error. That idempotency is the sole concurrency-correctness
// mechanism for racing sweeps.
type CoverageGapsRepository interface {
	// BulkCreate inserts staged gaps in one statement with
	// ignore-conflicts semantics on the natural key. Returns the number
	// of rows actually created.
	BulkCreate(ctx context.Context, gaps []*domain.CoverageGap) (int, error)

	// GetOrCreate inserts a gap for the natural key unless a row -
	// open or resolved - already exists. Returns true when a row was
	// created.
	GetOrCreate(ctx context.Context, gap *domain.CoverageGap) (bool, error)

	// ListGaps returns gaps matching the filters, newest date first.
	ListGaps(ctx context.Context, filters GapFilters) ([]*domain.CoverageGap, error)

	// CountOpenByCareHome returns the number of open gaps per care home.
	CountOpenByCareHome(ctx context.Context) (map[string]int, error)

	// Resolve sets resolved_at on open gaps for (care home, service
	// user, date). A non-empty shift restricts to that shift; an empty
	// shift resolves both. Returns the number of gaps closed.
	Resolve(ctx context.Context, careHomeID, serviceUserID string, date time.Time, shift domain.Shift, at time.Time) (int, error)

	// MarkNotified flags the given gaps as published.
	MarkNotified(ctx context.Context, gapIDs []string) error
}
