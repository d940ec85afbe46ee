package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
)

// PostgresLogEntriesRepository is the Postgres shift-log entry store.
type PostgresLogEntriesRepository struct {
	db *sql.DB
}

func NewPostgresLogEntriesRepository(db *sql.DB) *PostgresLogEntriesRepository {
	return &PostgresLogEntriesRepository{db: db}
}

var _ LogEntriesRepository = (*PostgresLogEntriesRepository)(nil)

// ListBySummary returns a summary's entries ordered by time slot.
func (r *PostgresLogEntriesRepository) ListBySummary(ctx context.Context, summaryID string) ([]*domain.LogEntry, error) {
	if summaryID == "" {
		return []*domain.LogEntry{}, nil
	}

	query := `
		SELECT
			entry_id::text,
			summary_id::text,
			staff_id::text,
			carehome_id::text,
			service_user_id::text,
			date,
			shift,
			time_slot,
			content,
			is_locked,
			created_at
		FROM shift_log_entries
		WHERE summary_id = $1
		ORDER BY time_slot
	`

	rows, err := r.db.QueryContext(ctx, query, summaryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query log entries: %w", err)
	}
	defer rows.Close()

	entries := []*domain.LogEntry{}
	for rows.Next() {
		var e domain.LogEntry
		var shift string
		var content sql.NullString

		err := rows.Scan(
			&e.EntryID,
			&e.SummaryID,
			&e.StaffID,
			&e.CareHomeID,
			&e.ServiceUserID,
			&e.Date,
			&shift,
			&e.TimeSlot,
			&content,
			&e.IsLocked,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}

		e.Shift = domain.Shift(shift)
		if content.Valid {
			e.Content = content.String
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate log entries: %w", err)
	}
	return entries, nil
}

// UpsertEntry writes a slot's content, creating the row on first write.
// The natural key is (summary_id, time_slot).
//
// The summary row is taken FOR SHARE so the write cannot interleave
// with LockSummary's FOR UPDATE: once a summary is locked no further
// entry rows can land under it.
func (r *PostgresLogEntriesRepository) UpsertEntry(ctx context.Context, entry *domain.LogEntry) (string, error) {
	if entry == nil {
		return "", fmt.Errorf("entry is required")
	}
	if entry.SummaryID == "" {
		return "", fmt.Errorf("summary_id is required")
	}
	if _, err := domain.ParseShift(string(entry.Shift)); err != nil {
		return "", err
	}
	if entry.EntryID == "" {
		entry.EntryID = uuid.New().String()
	}

	query := `
		WITH summary AS (
			SELECT summary_id
			FROM shift_summaries
			WHERE summary_id = $2 AND status <> 'locked'
			FOR SHARE
		)
		INSERT INTO shift_log_entries (
			entry_id, summary_id, staff_id, carehome_id, service_user_id,
			date, shift, time_slot, content, is_locked, created_at
		)
		SELECT $1, summary.summary_id, $3, $4, $5, $6, $7, $8, $9, FALSE, $10
		FROM summary
		ON CONFLICT (summary_id, time_slot)
		DO UPDATE SET content = EXCLUDED.content
		RETURNING entry_id::text
	`

	var entryID string
	err := r.db.QueryRowContext(ctx, query,
		entry.EntryID,
		entry.SummaryID,
		entry.StaffID,
		entry.CareHomeID,
		entry.ServiceUserID,
		entry.Date,
		string(entry.Shift),
		entry.TimeSlot,
		nullString(entry.Content),
		time.Now(),
	).Scan(&entryID)
	if err == nil {
		return entryID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to upsert log entry: %w", err)
	}

	// Zero rows means the guard filtered the summary out: either it is
	// locked or it does not exist. Tell the two apart for the caller.
	var status string
	statusErr := r.db.QueryRowContext(ctx,
		`SELECT status FROM shift_summaries WHERE summary_id = $1`,
		entry.SummaryID,
	).Scan(&status)
	if errors.Is(statusErr, sql.ErrNoRows) {
		return "", fmt.Errorf("shift summary not found: summary_id=%s", entry.SummaryID)
	}
	if statusErr != nil {
		return "", fmt.Errorf("failed to check summary status: %w", statusErr)
	}
	if status == string(domain.StatusLocked) {
		return "", domain.ErrSummaryLocked
	}
	return "", fmt.Errorf("failed to upsert log entry: %w", err)
}
