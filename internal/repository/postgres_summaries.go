package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
)

// pqUniqueViolation is the Postgres error code for unique_violation.
const pqUniqueViolation = "23505"

// PostgresShiftSummariesRepository is the Postgres shift-summary store.
type PostgresShiftSummariesRepository struct {
	db *sql.DB
}

func NewPostgresShiftSummariesRepository(db *sql.DB) *PostgresShiftSummariesRepository {
	return &PostgresShiftSummariesRepository{db: db}
}

var _ ShiftSummariesRepository = (*PostgresShiftSummariesRepository)(nil)

const summaryColumns = `
	summary_id::text,
	staff_id::text,
	carehome_id::text,
	service_user_id::text,
	date,
	shift,
	staff_name,
	day_of_week,
	status,
	document_path,
	created_at,
	updated_at
`

func scanSummary(row interface{ Scan(...any) error }) (*domain.ShiftSummary, error) {
	var s domain.ShiftSummary
	var shift string
	var staffName, dayOfWeek, documentPath sql.NullString

	err := row.Scan(
		&s.SummaryID,
		&s.StaffID,
		&s.CareHomeID,
		&s.ServiceUserID,
		&s.Date,
		&shift,
		&staffName,
		&dayOfWeek,
		&s.Status,
		&documentPath,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Shift = domain.Shift(shift)
	if staffName.Valid {
		s.StaffName = staffName.String
	}
	if dayOfWeek.Valid {
		s.DayOfWeek = dayOfWeek.String
	}
	if documentPath.Valid {
		s.DocumentPath = documentPath.String
	}
	return &s, nil
}

// GetSummary fetches one summary by id.
func (r *PostgresShiftSummariesRepository) GetSummary(ctx context.Context, summaryID string) (*domain.ShiftSummary, error) {
	if summaryID == "" {
		return nil, sql.ErrNoRows
	}

	query := `SELECT ` + summaryColumns + ` FROM shift_summaries WHERE summary_id = $1`

	summary, err := scanSummary(r.db.QueryRowContext(ctx, query, summaryID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("shift summary not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get shift summary: %w", err)
	}
	return summary, nil
}

// FindSummary looks up the unique (staff, service user, date, shift) row.
func (r *PostgresShiftSummariesRepository) FindSummary(ctx context.Context, staffID, serviceUserID string, date time.Time, shift domain.Shift) (*domain.ShiftSummary, error) {
	if staffID == "" || serviceUserID == "" {
		return nil, nil
	}

	query := `SELECT ` + summaryColumns + `
		FROM shift_summaries
		WHERE staff_id = $1 AND service_user_id = $2 AND date = $3 AND shift = $4`

	summary, err := scanSummary(r.db.QueryRowContext(ctx, query, staffID, serviceUserID, date, string(shift)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find shift summary: %w", err)
	}
	return summary, nil
}

// ListSummaries returns summaries matching the filters, newest first.
func (r *PostgresShiftSummariesRepository) ListSummaries(ctx context.Context, filters SummaryFilters) ([]*domain.ShiftSummary, error) {
	where := []string{"1=1"}
	args := []any{}
	argN := 1

	if filters.CareHomeID != "" {
		where = append(where, fmt.Sprintf("carehome_id = $%d", argN))
		args = append(args, filters.CareHomeID)
		argN++
	}
	if filters.ServiceUserID != "" {
		where = append(where, fmt.Sprintf("service_user_id = $%d", argN))
		args = append(args, filters.ServiceUserID)
		argN++
	}
	if filters.StaffID != "" {
		where = append(where, fmt.Sprintf("staff_id = $%d", argN))
		args = append(args, filters.StaffID)
		argN++
	}
	if filters.Date != nil {
		where = append(where, fmt.Sprintf("date = $%d", argN))
		args = append(args, *filters.Date)
		argN++
	}
	if filters.Shift != "" {
		where = append(where, fmt.Sprintf("shift = $%d", argN))
		args = append(args, string(filters.Shift))
		argN++
	}
	if filters.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argN))
		args = append(args, filters.Status)
		argN++
	}

	query := `SELECT ` + summaryColumns + `
		FROM shift_summaries
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift summaries: %w", err)
	}
	defer rows.Close()

	summaries := []*domain.ShiftSummary{}
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift summaries: %w", err)
	}
	return summaries, nil
}

// CreateSummary inserts a summary; a natural-key collision maps to
// domain.ErrDuplicateSummary.
func (r *PostgresShiftSummariesRepository) CreateSummary(ctx context.Context, summary *domain.ShiftSummary) (string, error) {
	if summary == nil {
		return "", fmt.Errorf("summary is required")
	}
	if summary.StaffID == "" || summary.CareHomeID == "" || summary.ServiceUserID == "" {
		return "", fmt.Errorf("staff_id, carehome_id and service_user_id are required")
	}
	if _, err := domain.ParseShift(string(summary.Shift)); err != nil {
		return "", err
	}
	if summary.SummaryID == "" {
		summary.SummaryID = uuid.New().String()
	}
	if summary.Status == "" {
		summary.Status = domain.StatusIncomplete
	}
	if summary.DayOfWeek == "" {
		summary.DayOfWeek = summary.Date.Weekday().String()
	}

	query := `
		INSERT INTO shift_summaries (
			summary_id, staff_id, carehome_id, service_user_id,
			date, shift, staff_name, day_of_week, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		summary.SummaryID,
		summary.StaffID,
		summary.CareHomeID,
		summary.ServiceUserID,
		summary.Date,
		string(summary.Shift),
		nullString(summary.StaffName),
		nullString(summary.DayOfWeek),
		summary.Status,
		time.Now(),
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return "", domain.ErrDuplicateSummary
		}
		return "", fmt.Errorf("failed to create shift summary: %w", err)
	}
	return summary.SummaryID, nil
}

// ExistsForShift reports whether any summary exists for
// (care home, service user, date, shift).
func (r *PostgresShiftSummariesRepository) ExistsForShift(ctx context.Context, careHomeID, serviceUserID string, date time.Time, shift domain.Shift) (bool, error) {
	if careHomeID == "" || serviceUserID == "" {
		return false, nil
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM shift_summaries
			WHERE carehome_id = $1 AND service_user_id = $2 AND date = $3 AND shift = $4
		)
	`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, careHomeID, serviceUserID, date, string(shift)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check shift summary existence: %w", err)
	}
	return exists, nil
}

// ExistsLockedSince reports whether a locked summary exists for
// (care home, service user, shift) dated on or after since.
func (r *PostgresShiftSummariesRepository) ExistsLockedSince(ctx context.Context, careHomeID, serviceUserID string, shift domain.Shift, since time.Time) (bool, error) {
	if careHomeID == "" || serviceUserID == "" {
		return false, nil
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM shift_summaries
			WHERE carehome_id = $1 AND service_user_id = $2 AND shift = $3
			  AND status = $4 AND date >= $5
		)
	`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, careHomeID, serviceUserID, string(shift), domain.StatusLocked, since).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check locked summaries in window: %w", err)
	}
	return exists, nil
}

// LockSummary transitions the summary to locked and marks its entries
// immutable in one transaction.
func (r *PostgresShiftSummariesRepository) LockSummary(ctx context.Context, summaryID string) error {
	if summaryID == "" {
		return fmt.Errorf("summary_id is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin lock transaction: %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM shift_summaries WHERE summary_id = $1 FOR UPDATE`,
		summaryID,
	).Scan(&status)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("shift summary not found: summary_id=%s", summaryID)
		}
		return fmt.Errorf("failed to load shift summary for lock: %w", err)
	}
	if status == domain.StatusLocked {
		return domain.ErrSummaryLocked
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE shift_log_entries SET is_locked = TRUE WHERE summary_id = $1`,
		summaryID,
	); err != nil {
		return fmt.Errorf("failed to lock log entries: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE shift_summaries SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE summary_id = $2`,
		domain.StatusLocked, summaryID,
	); err != nil {
		return fmt.Errorf("failed to lock shift summary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit lock transaction: %w", err)
	}
	return nil
}

// AttachDocument records the rendered document path for a summary.
func (r *PostgresShiftSummariesRepository) AttachDocument(ctx context.Context, summaryID, documentPath string) error {
	if summaryID == "" {
		return fmt.Errorf("summary_id is required")
	}
	if documentPath == "" {
		return fmt.Errorf("document_path is required")
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE shift_summaries SET document_path = $1, updated_at = CURRENT_TIMESTAMP WHERE summary_id = $2`,
		documentPath, summaryID,
	)
	if err != nil {
		return fmt.Errorf("failed to attach document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("shift summary not found: summary_id=%s", summaryID)
	}
	return nil
}
