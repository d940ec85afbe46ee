package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
)

// PostgresCoverageGapsRepository is the Postgres coverage-gap store.
type PostgresCoverageGapsRepository struct {
	db *sql.DB
}

func NewPostgresCoverageGapsRepository(db *sql.DB) *PostgresCoverageGapsRepository {
	return &PostgresCoverageGapsRepository{db: db}
}

var _ CoverageGapsRepository = (*PostgresCoverageGapsRepository)(nil)

const gapColumns = `
	gap_id::text,
	carehome_id::text,
	service_user_id::text,
	date,
	shift,
	is_notified,
	created_at,
	resolved_at
`

func scanGap(row interface{ Scan(...any) error }) (*domain.CoverageGap, error) {
	var g domain.CoverageGap
	var shift string
	var resolvedAt sql.NullTime

	err := row.Scan(
		&g.GapID,
		&g.CareHomeID,
		&g.ServiceUserID,
		&g.Date,
		&shift,
		&g.IsNotified,
		&g.CreatedAt,
		&resolvedAt,
	)
	if err != nil {
		return nil, err
	}

	g.Shift = domain.Shift(shift)
	if resolvedAt.Valid {
		g.ResolvedAt = &resolvedAt.Time
	}
	return &g, nil
}

// BulkCreate inserts staged gaps in one statement, ignoring natural-key
// conflicts. A tuple that already has a gap row - open or resolved -
// is left untouched; concurrent sweeps for the same (care home, date)
// rely on this as the sole correctness mechanism.
func (r *PostgresCoverageGapsRepository) BulkCreate(ctx context.Context, gaps []*domain.CoverageGap) (int, error) {
	if len(gaps) == 0 {
		return 0, nil
	}

	valueRows := make([]string, 0, len(gaps))
	args := []any{}
	argN := 1
	now := time.Now()

	for _, gap := range gaps {
		if gap.CareHomeID == "" || gap.ServiceUserID == "" {
			return 0, fmt.Errorf("carehome_id and service_user_id are required")
		}
		if _, err := domain.ParseShift(string(gap.Shift)); err != nil {
			return 0, err
		}
		if gap.GapID == "" {
			gap.GapID = uuid.New().String()
		}
		valueRows = append(valueRows, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, FALSE, $%d)",
			argN, argN+1, argN+2, argN+3, argN+4, argN+5))
		args = append(args, gap.GapID, gap.CareHomeID, gap.ServiceUserID, gap.Date, string(gap.Shift), now)
		argN += 6
	}

	query := `
		INSERT INTO coverage_gaps (
			gap_id, carehome_id, service_user_id, date, shift, is_notified, created_at
		) VALUES ` + strings.Join(valueRows, ", ") + `
		ON CONFLICT (carehome_id, service_user_id, date, shift) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk create coverage gaps: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rowsAffected), nil
}

// GetOrCreate inserts a gap unless the natural key already has a row.
func (r *PostgresCoverageGapsRepository) GetOrCreate(ctx context.Context, gap *domain.CoverageGap) (bool, error) {
	if gap == nil {
		return false, fmt.Errorf("gap is required")
	}
	created, err := r.BulkCreate(ctx, []*domain.CoverageGap{gap})
	if err != nil {
		// A racing insert between two backfill runs can still surface a
		// unique violation under serializable isolation; treat it as the
		// row already existing.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return false, nil
		}
		return false, err
	}
	return created > 0, nil
}

// ListGaps returns gaps matching the filters, newest date first.
func (r *PostgresCoverageGapsRepository) ListGaps(ctx context.Context, filters GapFilters) ([]*domain.CoverageGap, error) {
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
	if filters.OpenOnly {
		where = append(where, "resolved_at IS NULL")
	}
	if filters.Notified != nil {
		where = append(where, fmt.Sprintf("is_notified = $%d", argN))
		args = append(args, *filters.Notified)
		argN++
	}

	query := `SELECT ` + gapColumns + `
		FROM coverage_gaps
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query coverage gaps: %w", err)
	}
	defer rows.Close()

	gaps := []*domain.CoverageGap{}
	for rows.Next() {
		gap, err := scanGap(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coverage gap: %w", err)
		}
		gaps = append(gaps, gap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate coverage gaps: %w", err)
	}
	return gaps, nil
}

// CountOpenByCareHome returns the number of open gaps per care home.
func (r *PostgresCoverageGapsRepository) CountOpenByCareHome(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT carehome_id::text, COUNT(*)
		FROM coverage_gaps
		WHERE resolved_at IS NULL
		GROUP BY carehome_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count open coverage gaps: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var careHomeID string
		var count int
		if err := rows.Scan(&careHomeID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan open gap count: %w", err)
		}
		counts[careHomeID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate open gap counts: %w", err)
	}
	return counts, nil
}

// Resolve closes open gaps for (care home, service user, date). An empty
// shift closes both shifts.
func (r *PostgresCoverageGapsRepository) Resolve(ctx context.Context, careHomeID, serviceUserID string, date time.Time, shift domain.Shift, at time.Time) (int, error) {
	if careHomeID == "" || serviceUserID == "" {
		return 0, fmt.Errorf("carehome_id and service_user_id are required")
	}

	where := []string{
		"carehome_id = $1",
		"service_user_id = $2",
		"date = $3",
		"resolved_at IS NULL",
	}
	args := []any{careHomeID, serviceUserID, date}
	argN := 4

	if shift != "" {
		if _, err := domain.ParseShift(string(shift)); err != nil {
			return 0, err
		}
		where = append(where, fmt.Sprintf("shift = $%d", argN))
		args = append(args, string(shift))
		argN++
	}

	args = append(args, at)
	query := fmt.Sprintf(`
		UPDATE coverage_gaps
		SET resolved_at = $%d
		WHERE %s
	`, argN, strings.Join(where, " AND "))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve coverage gaps: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rowsAffected), nil
}

// MarkNotified flags the given gaps as published.
func (r *PostgresCoverageGapsRepository) MarkNotified(ctx context.Context, gapIDs []string) error {
	if len(gapIDs) == 0 {
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE coverage_gaps SET is_notified = TRUE WHERE gap_id = ANY($1)`,
		pq.Array(gapIDs),
	)
	if err != nil {
		return fmt.Errorf("failed to mark coverage gaps notified: %w", err)
	}
	return nil
}
