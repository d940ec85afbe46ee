package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
)

// PostgresCareHomesRepository is the Postgres care-home store.
type PostgresCareHomesRepository struct {
	db *sql.DB
}

func NewPostgresCareHomesRepository(db *sql.DB) *PostgresCareHomesRepository {
	return &PostgresCareHomesRepository{db: db}
}

var _ CareHomesRepository = (*PostgresCareHomesRepository)(nil)

const careHomeColumns = `
	carehome_id::text,
	name,
	postcode,
	details,
	picture_path,
	morning_shift_start,
	morning_shift_end,
	night_shift_start,
	night_shift_end,
	created_at,
	updated_at
`

func scanCareHome(row interface{ Scan(...any) error }) (*domain.CareHome, error) {
	var home domain.CareHome
	var details, picturePath sql.NullString
	var mStart, mEnd, nStart, nEnd sql.NullTime

	err := row.Scan(
		&home.CareHomeID,
		&home.Name,
		&home.Postcode,
		&details,
		&picturePath,
		&mStart,
		&mEnd,
		&nStart,
		&nEnd,
		&home.CreatedAt,
		&home.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if details.Valid {
		home.Details = details.String
	}
	if picturePath.Valid {
		home.PicturePath = picturePath.String
	}
	if mStart.Valid {
		home.MorningShiftStart = &mStart.Time
	}
	if mEnd.Valid {
		home.MorningShiftEnd = &mEnd.Time
	}
	if nStart.Valid {
		home.NightShiftStart = &nStart.Time
	}
	if nEnd.Valid {
		home.NightShiftEnd = &nEnd.Time
	}

	return &home, nil
}

// GetCareHome fetches one care home by id.
func (r *PostgresCareHomesRepository) GetCareHome(ctx context.Context, careHomeID string) (*domain.CareHome, error) {
	if careHomeID == "" {
		return nil, sql.ErrNoRows
	}

	query := `SELECT ` + careHomeColumns + ` FROM carehomes WHERE carehome_id = $1`

	home, err := scanCareHome(r.db.QueryRowContext(ctx, query, careHomeID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("care home not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get care home: %w", err)
	}
	return home, nil
}

// ListCareHomes returns all care homes ordered by name.
func (r *PostgresCareHomesRepository) ListCareHomes(ctx context.Context) ([]*domain.CareHome, error) {
	query := `SELECT ` + careHomeColumns + ` FROM carehomes ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query care homes: %w", err)
	}
	defer rows.Close()

	homes := []*domain.CareHome{}
	for rows.Next() {
		home, err := scanCareHome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan care home: %w", err)
		}
		homes = append(homes, home)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate care homes: %w", err)
	}
	return homes, nil
}

// CreateCareHome inserts a care home and returns its id.
func (r *PostgresCareHomesRepository) CreateCareHome(ctx context.Context, home *domain.CareHome) (string, error) {
	if home == nil {
		return "", fmt.Errorf("home is required")
	}
	if home.CareHomeID == "" {
		home.CareHomeID = uuid.New().String()
	}
	now := time.Now()

	query := `
		INSERT INTO carehomes (
			carehome_id, name, postcode, details, picture_path,
			morning_shift_start, morning_shift_end,
			night_shift_start, night_shift_end,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		home.CareHomeID,
		home.Name,
		home.Postcode,
		nullString(home.Details),
		nullString(home.PicturePath),
		home.MorningShiftStart,
		home.MorningShiftEnd,
		home.NightShiftStart,
		home.NightShiftEnd,
		now,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create care home: %w", err)
	}
	return home.CareHomeID, nil
}

// UpdateCareHome replaces the mutable fields of a care home.
func (r *PostgresCareHomesRepository) UpdateCareHome(ctx context.Context, careHomeID string, home *domain.CareHome) error {
	if careHomeID == "" {
		return fmt.Errorf("carehome_id is required")
	}
	if home == nil {
		return fmt.Errorf("home is required")
	}

	query := `
		UPDATE carehomes
		SET name = $1,
		    postcode = $2,
		    details = $3,
		    picture_path = $4,
		    morning_shift_start = $5,
		    morning_shift_end = $6,
		    night_shift_start = $7,
		    night_shift_end = $8,
		    updated_at = CURRENT_TIMESTAMP
		WHERE carehome_id = $9
	`

	result, err := r.db.ExecContext(ctx, query,
		home.Name,
		home.Postcode,
		nullString(home.Details),
		nullString(home.PicturePath),
		home.MorningShiftStart,
		home.MorningShiftEnd,
		home.NightShiftStart,
		home.NightShiftEnd,
		careHomeID,
	)
	if err != nil {
		return fmt.Errorf("failed to update care home: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("care home not found: carehome_id=%s", careHomeID)
	}
	return nil
}

// DeleteCareHome removes a care home. Service users, summaries, entries
// and gaps are removed by ON DELETE CASCADE.
func (r *PostgresCareHomesRepository) DeleteCareHome(ctx context.Context, careHomeID string) error {
	if careHomeID == "" {
		return fmt.Errorf("carehome_id is required")
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM carehomes WHERE carehome_id = $1`, careHomeID)
	if err != nil {
		return fmt.Errorf("failed to delete care home: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("care home not found: carehome_id=%s", careHomeID)
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
