package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/events"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/repository"
)

// UK postcode, outward + inward, e.g. "SW1A 1AA".
var ukPostcodeRe = regexp.MustCompile(`^[A-Z]{1,2}[0-9][A-Z0-9]? ?[0-9][A-Z]{2}$`)

// CareHomeService manages care homes and their service users. Updates
// to an existing home publish CareHomeUpdated, which drives the
// historical backfill.
type CareHomeService struct {
	careHomes    repository.CareHomesRepository
	serviceUsers repository.ServiceUsersRepository
	bus          *events.Bus
	logger       *zap.Logger
}

func NewCareHomeService(
	careHomes repository.CareHomesRepository,
	serviceUsers repository.ServiceUsersRepository,
	bus *events.Bus,
	logger *zap.Logger,
) *CareHomeService {
	return &CareHomeService{
		careHomes:    careHomes,
		serviceUsers: serviceUsers,
		bus:          bus,
		logger:       logger,
	}
}

func validateCareHome(home *domain.CareHome) error {
	if home == nil {
		return fmt.Errorf("care home is required")
	}
	if strings.TrimSpace(home.Name) == "" {
		return fmt.Errorf("care home name is required")
	}
	postcode := strings.ToUpper(strings.TrimSpace(home.Postcode))
	if !ukPostcodeRe.MatchString(postcode) {
		return fmt.Errorf("invalid postcode: %s", home.Postcode)
	}
	home.Postcode = postcode
	return nil
}

// GetCareHome fetches one care home by id.
func (s *CareHomeService) GetCareHome(ctx context.Context, careHomeID string) (*domain.CareHome, error) {
	return s.careHomes.GetCareHome(ctx, careHomeID)
}

// ListCareHomes returns all care homes ordered by name.
func (s *CareHomeService) ListCareHomes(ctx context.Context) ([]*domain.CareHome, error) {
	return s.careHomes.ListCareHomes(ctx)
}

// CreateCareHome validates and inserts a care home. Creation does not
// publish CareHomeUpdated; a new home has no history to backfill.
func (s *CareHomeService) CreateCareHome(ctx context.Context, home *domain.CareHome) (string, error) {
	if err := validateCareHome(home); err != nil {
		return "", err
	}
	careHomeID, err := s.careHomes.CreateCareHome(ctx, home)
	if err != nil {
		return "", fmt.Errorf("failed to create care home: %w", err)
	}
	s.logger.Info("care home created",
		zap.String("carehome_id", careHomeID),
		zap.String("name", home.Name),
	)
	return careHomeID, nil
}

// UpdateCareHome validates and replaces a care home's mutable fields,
// then publishes CareHomeUpdated.
func (s *CareHomeService) UpdateCareHome(ctx context.Context, careHomeID string, home *domain.CareHome) error {
	if err := validateCareHome(home); err != nil {
		return err
	}
	if err := s.careHomes.UpdateCareHome(ctx, careHomeID, home); err != nil {
		return fmt.Errorf("failed to update care home: %w", err)
	}
	s.bus.PublishCareHomeUpdated(ctx, events.CareHomeUpdated{CareHomeID: careHomeID})
	return nil
}

// SetShiftWindow sets one shift's start on a care home, deriving the
// end as start plus twelve hours, and saves through UpdateCareHome so
// the update event fires.
func (s *CareHomeService) SetShiftWindow(ctx context.Context, careHomeID string, shift domain.Shift, start time.Time) error {
	if _, err := domain.ParseShift(string(shift)); err != nil {
		return err
	}
	home, err := s.careHomes.GetCareHome(ctx, careHomeID)
	if err != nil {
		return fmt.Errorf("failed to get care home: %w", err)
	}
	home.SetShiftStart(shift, start)
	return s.UpdateCareHome(ctx, careHomeID, home)
}

// DeleteCareHome removes a care home and, through the store, its
// service users, summaries and gaps.
func (s *CareHomeService) DeleteCareHome(ctx context.Context, careHomeID string) error {
	if err := s.careHomes.DeleteCareHome(ctx, careHomeID); err != nil {
		return fmt.Errorf("failed to delete care home: %w", err)
	}
	s.logger.Info("care home deleted", zap.String("carehome_id", careHomeID))
	return nil
}

// GetServiceUser fetches one service user by id.
func (s *CareHomeService) GetServiceUser(ctx context.Context, serviceUserID string) (*domain.ServiceUser, error) {
	return s.serviceUsers.GetServiceUser(ctx, serviceUserID)
}

// ListServiceUsers returns a home's service users ordered by name.
func (s *CareHomeService) ListServiceUsers(ctx context.Context, careHomeID string) ([]*domain.ServiceUser, error) {
	return s.serviceUsers.ListByCareHome(ctx, careHomeID)
}

// CreateServiceUser validates and inserts a service user.
func (s *CareHomeService) CreateServiceUser(ctx context.Context, user *domain.ServiceUser) (string, error) {
	if user == nil || user.CareHomeID == "" {
		return "", fmt.Errorf("service user care home id is required")
	}
	if strings.TrimSpace(user.FirstName) == "" || strings.TrimSpace(user.LastName) == "" {
		return "", fmt.Errorf("service user first and last name are required")
	}
	serviceUserID, err := s.serviceUsers.CreateServiceUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("failed to create service user: %w", err)
	}
	return serviceUserID, nil
}

// UpdateServiceUser replaces a service user's mutable fields.
func (s *CareHomeService) UpdateServiceUser(ctx context.Context, serviceUserID string, user *domain.ServiceUser) error {
	if err := s.serviceUsers.UpdateServiceUser(ctx, serviceUserID, user); err != nil {
		return fmt.Errorf("failed to update service user: %w", err)
	}
	return nil
}

// DeleteServiceUser removes a service user.
func (s *CareHomeService) DeleteServiceUser(ctx context.Context, serviceUserID string) error {
	if err := s.serviceUsers.DeleteServiceUser(ctx, serviceUserID); err != nil {
		return fmt.Errorf("failed to delete service user: %w", err)
	}
	return nil
}
