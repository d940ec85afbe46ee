package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
)

// MemoryCareHomesRepository backs care-home admin when the DB is
// disabled, and drives the engine tests.
type MemoryCareHomesRepository struct {
	mu    sync.RWMutex
	homes map[string]domain.CareHome

	// users is shared with the paired service-users repo so home
	// deletion can cascade.
	users *MemoryServiceUsersRepository
}

func NewMemoryCareHomesRepository(users *MemoryServiceUsersRepository) *MemoryCareHomesRepository {
	return &MemoryCareHomesRepository{
		homes: map[string]domain.CareHome{},
		users: users,
	}
}

var _ CareHomesRepository = (*MemoryCareHomesRepository)(nil)

func (r *MemoryCareHomesRepository) GetCareHome(_ context.Context, careHomeID string) (*domain.CareHome, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	home, ok := r.homes[careHomeID]
	if !ok {
		return nil, fmt.Errorf("care home not found: carehome_id=%s", careHomeID)
	}
	return &home, nil
}

func (r *MemoryCareHomesRepository) ListCareHomes(_ context.Context) ([]*domain.CareHome, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*domain.CareHome, 0, len(r.homes))
	for _, home := range r.homes {
		h := home
		all = append(all, &h)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (r *MemoryCareHomesRepository) CreateCareHome(_ context.Context, home *domain.CareHome) (string, error) {
	if home == nil {
		return "", fmt.Errorf("home is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if home.CareHomeID == "" {
		home.CareHomeID = uuid.New().String()
	}
	now := time.Now()
	home.CreatedAt = now
	home.UpdatedAt = now
	r.homes[home.CareHomeID] = *home
	return home.CareHomeID, nil
}

func (r *MemoryCareHomesRepository) UpdateCareHome(_ context.Context, careHomeID string, home *domain.CareHome) error {
	if careHomeID == "" || home == nil {
		return fmt.Errorf("carehome_id and home are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.homes[careHomeID]
	if !ok {
		return fmt.Errorf("care home not found: carehome_id=%s", careHomeID)
	}

	updated := *home
	updated.CareHomeID = careHomeID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	r.homes[careHomeID] = updated
	return nil
}

func (r *MemoryCareHomesRepository) DeleteCareHome(_ context.Context, careHomeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.homes[careHomeID]; !ok {
		return fmt.Errorf("care home not found: carehome_id=%s", careHomeID)
	}
	delete(r.homes, careHomeID)

	if r.users != nil {
		r.users.deleteByCareHome(careHomeID)
	}
	return nil
}

// MemoryServiceUsersRepository is the in-memory service-user store.
type MemoryServiceUsersRepository struct {
	mu    sync.RWMutex
	users map[string]domain.ServiceUser
}

func NewMemoryServiceUsersRepository() *MemoryServiceUsersRepository {
	return &MemoryServiceUsersRepository{users: map[string]domain.ServiceUser{}}
}

var _ ServiceUsersRepository = (*MemoryServiceUsersRepository)(nil)

func (r *MemoryServiceUsersRepository) GetServiceUser(_ context.Context, serviceUserID string) (*domain.ServiceUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[serviceUserID]
	if !ok {
		return nil, fmt.Errorf("service user not found: service_user_id=%s", serviceUserID)
	}
	return &user, nil
}

func (r *MemoryServiceUsersRepository) ListByCareHome(_ context.Context, careHomeID string) ([]*domain.ServiceUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.ServiceUser{}
	for _, user := range r.users {
		if user.CareHomeID != careHomeID {
			continue
		}
		u := user
		all = append(all, &u)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].FirstName != all[j].FirstName {
			return all[i].FirstName < all[j].FirstName
		}
		return all[i].LastName < all[j].LastName
	})
	return all, nil
}

func (r *MemoryServiceUsersRepository) CreateServiceUser(_ context.Context, user *domain.ServiceUser) (string, error) {
	if user == nil || user.CareHomeID == "" {
		return "", fmt.Errorf("user with carehome_id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ServiceUserID == "" {
		user.ServiceUserID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	r.users[user.ServiceUserID] = *user
	return user.ServiceUserID, nil
}

func (r *MemoryServiceUsersRepository) UpdateServiceUser(_ context.Context, serviceUserID string, user *domain.ServiceUser) error {
	if serviceUserID == "" || user == nil {
		return fmt.Errorf("service_user_id and user are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[serviceUserID]
	if !ok {
		return fmt.Errorf("service user not found: service_user_id=%s", serviceUserID)
	}

	updated := *user
	updated.ServiceUserID = serviceUserID
	updated.CareHomeID = existing.CareHomeID
	updated.CreatedAt = existing.CreatedAt
	r.users[serviceUserID] = updated
	return nil
}

func (r *MemoryServiceUsersRepository) DeleteServiceUser(_ context.Context, serviceUserID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[serviceUserID]; !ok {
		return fmt.Errorf("service user not found: service_user_id=%s", serviceUserID)
	}
	delete(r.users, serviceUserID)
	return nil
}

func (r *MemoryServiceUsersRepository) deleteByCareHome(careHomeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, user := range r.users {
		if user.CareHomeID == careHomeID {
			delete(r.users, id)
		}
	}
}
