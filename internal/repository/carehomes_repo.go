package repository

import (
	"context"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
)

// CareHomesRepository is the care-home store contract.
type CareHomesRepository interface {
	// GetCareHome fetches one care home by id.
	GetCareHome(ctx context.Context, careHomeID string) (*domain.CareHome, error)

	// ListCareHomes returns all care homes ordered by name.
	ListCareHomes(ctx context.Context) ([]*domain.CareHome, error)

	// CreateCareHome inserts a care home and returns its id.
	CreateCareHome(ctx context.Context, home *domain.CareHome) (string, error)

	// UpdateCareHome replaces the mutable fields of a care home.
	UpdateCareHome(ctx context.Context, careHomeID string, home *domain.CareHome) error

	// DeleteCareHome removes a care home; service users, summaries and
	// gaps cascade at the store level.
	DeleteCareHome(ctx context.Context, careHomeID string) error
}

// ServiceUsersRepository is the service-user store contract.
type ServiceUsersRepository interface {
	// GetServiceUser fetches one service user by id.
	GetServiceUser(ctx context.Context, serviceUserID string) (*domain.ServiceUser, error)

	// ListByCareHome returns a home's service users ordered by name.
	ListByCareHome(ctx context.Context, careHomeID string) ([]*domain.ServiceUser, error)

	// CreateServiceUser inserts a service user and returns its id.
	CreateServiceUser(ctx context.Context, user *domain.ServiceUser) (string, error)

	// UpdateServiceUser replaces the mutable fields of a service user.
	UpdateServiceUser(ctx context.Context, serviceUserID string, user *domain.ServiceUser) error

	// DeleteServiceUser removes a service user.
	DeleteServiceUser(ctx context.Context, serviceUserID string) error
}
