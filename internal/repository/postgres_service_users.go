package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
)

// PostgresServiceUsersRepository is the Postgres service-user store.
type PostgresServiceUsersRepository struct {
	db *sql.DB
}

func NewPostgresServiceUsersRepository(db *sql.DB) *PostgresServiceUsersRepository {
	return &PostgresServiceUsersRepository{db: db}
}

var _ ServiceUsersRepository = (*PostgresServiceUsersRepository)(nil)

const serviceUserColumns = `
	service_user_id::text,
	carehome_id::text,
	first_name,
	last_name,
	phone,
	email,
	emergency_contact,
	address,
	notes,
	created_at
`

func scanServiceUser(row interface{ Scan(...any) error }) (*domain.ServiceUser, error) {
	var user domain.ServiceUser
	var email, notes sql.NullString

	err := row.Scan(
		&user.ServiceUserID,
		&user.CareHomeID,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&email,
		&user.EmergencyContact,
		&user.Address,
		&notes,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if email.Valid {
		user.Email = email.String
	}
	if notes.Valid {
		user.Notes = notes.String
	}
	return &user, nil
}

// GetServiceUser fetches one service user by id.
func (r *PostgresServiceUsersRepository) GetServiceUser(ctx context.Context, serviceUserID string) (*domain.ServiceUser, error) {
	if serviceUserID == "" {
		return nil, sql.ErrNoRows
	}

	query := `SELECT ` + serviceUserColumns + ` FROM service_users WHERE service_user_id = $1`

	user, err := scanServiceUser(r.db.QueryRowContext(ctx, query, serviceUserID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("service user not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get service user: %w", err)
	}
	return user, nil
}

// ListByCareHome returns a home's service users ordered by name.
func (r *PostgresServiceUsersRepository) ListByCareHome(ctx context.Context, careHomeID string) ([]*domain.ServiceUser, error) {
	if careHomeID == "" {
		return []*domain.ServiceUser{}, nil
	}

	query := `SELECT ` + serviceUserColumns + `
		FROM service_users
		WHERE carehome_id = $1
		ORDER BY first_name, last_name`

	rows, err := r.db.QueryContext(ctx, query, careHomeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query service users: %w", err)
	}
	defer rows.Close()

	users := []*domain.ServiceUser{}
	for rows.Next() {
		user, err := scanServiceUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate service users: %w", err)
	}
	return users, nil
}

// CreateServiceUser inserts a service user and returns its id.
func (r *PostgresServiceUsersRepository) CreateServiceUser(ctx context.Context, user *domain.ServiceUser) (string, error) {
	if user == nil {
		return "", fmt.Errorf("user is required")
	}
	if user.CareHomeID == "" {
		return "", fmt.Errorf("carehome_id is required")
	}
	if user.ServiceUserID == "" {
		user.ServiceUserID = uuid.New().String()
	}

	query := `
		INSERT INTO service_users (
			service_user_id, carehome_id, first_name, last_name,
			phone, email, emergency_contact, address, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ServiceUserID,
		user.CareHomeID,
		user.FirstName,
		user.LastName,
		user.Phone,
		nullString(user.Email),
		user.EmergencyContact,
		user.Address,
		nullString(user.Notes),
		time.Now(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create service user: %w", err)
	}
	return user.ServiceUserID, nil
}

// UpdateServiceUser replaces the mutable fields of a service user.
func (r *PostgresServiceUsersRepository) UpdateServiceUser(ctx context.Context, serviceUserID string, user *domain.ServiceUser) error {
	if serviceUserID == "" {
		return fmt.Errorf("service_user_id is required")
	}
	if user == nil {
		return fmt.Errorf("user is required")
	}

	query := `
		UPDATE service_users
		SET first_name = $1,
		    last_name = $2,
		    phone = $3,
		    email = $4,
		    emergency_contact = $5,
		    address = $6,
		    notes = $7
		WHERE service_user_id = $8
	`

	result, err := r.db.ExecContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.Phone,
		nullString(user.Email),
		user.EmergencyContact,
		user.Address,
		nullString(user.Notes),
		serviceUserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("service user not found: service_user_id=%s", serviceUserID)
	}
	return nil
}

// DeleteServiceUser removes a service user.
func (r *PostgresServiceUsersRepository) DeleteServiceUser(ctx context.Context, serviceUserID string) error {
	if serviceUserID == "" {
		return fmt.Errorf("service_user_id is required")
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM service_users WHERE service_user_id = $1`, serviceUserID)
	if err != nil {
		return fmt.Errorf("failed to delete service user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("service user not found: service_user_id=%s", serviceUserID)
	}
	return nil
}
