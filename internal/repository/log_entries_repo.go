package repository

import (
	"context"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
)

// LogEntriesRepository is the shift-log entry store contract.
type LogEntriesRepository interface {
	// ListBySummary returns a summary's entries ordered by time slot.
	ListBySummary(ctx context.Context, summaryID string) ([]*domain.LogEntry, error)

	// UpsertEntry writes a slot's content for a summary, creating the
	// row on first write (unique per summary and time slot). Returns the
	// entry id.
	UpsertEntry(ctx context.Context, entry *domain.LogEntry) (string, error)
}
