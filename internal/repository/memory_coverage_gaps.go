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

// MemoryCoverageGapsRepository is the in-memory coverage-gap store. It
// mirrors the Postgres natural-key semantics: one row ever per
// (care home, service user, date, shift), inserts on an existing key
// are silent no-ops.
type MemoryCoverageGapsRepository struct {
	mu     sync.RWMutex
	gaps   map[string]domain.CoverageGap // gapID -> gap
	natKey map[string]string             // carehome|su|date|shift -> gapID
}

func NewMemoryCoverageGapsRepository() *MemoryCoverageGapsRepository {
	return &MemoryCoverageGapsRepository{
		gaps:   map[string]domain.CoverageGap{},
		natKey: map[string]string{},
	}
}

var _ CoverageGapsRepository = (*MemoryCoverageGapsRepository)(nil)

func gapKey(careHomeID, serviceUserID string, date time.Time, shift domain.Shift) string {
	return careHomeID + "|" + serviceUserID + "|" + dateKey(date) + "|" + string(shift)
}

func (r *MemoryCoverageGapsRepository) BulkCreate(_ context.Context, gaps []*domain.CoverageGap) (int, error) {
	if len(gaps) == 0 {
		return 0, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := 0
	now := time.Now()
	for _, gap := range gaps {
		if gap.CareHomeID == "" || gap.ServiceUserID == "" {
			return created, fmt.Errorf("carehome_id and service_user_id are required")
		}
		if _, err := domain.ParseShift(string(gap.Shift)); err != nil {
			return created, err
		}

		key := gapKey(gap.CareHomeID, gap.ServiceUserID, gap.Date, gap.Shift)
		if _, exists := r.natKey[key]; exists {
			continue
		}

		if gap.GapID == "" {
			gap.GapID = uuid.New().String()
		}
		gap.CreatedAt = now
		r.gaps[gap.GapID] = *gap
		r.natKey[key] = gap.GapID
		created++
	}
	return created, nil
}

func (r *MemoryCoverageGapsRepository) GetOrCreate(ctx context.Context, gap *domain.CoverageGap) (bool, error) {
	if gap == nil {
		return false, fmt.Errorf("gap is required")
	}
	created, err := r.BulkCreate(ctx, []*domain.CoverageGap{gap})
	if err != nil {
		return false, err
	}
	return created > 0, nil
}

func (r *MemoryCoverageGapsRepository) ListGaps(_ context.Context, filters GapFilters) ([]*domain.CoverageGap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.CoverageGap{}
	for _, gap := range r.gaps {
		if filters.CareHomeID != "" && gap.CareHomeID != filters.CareHomeID {
			continue
		}
		if filters.ServiceUserID != "" && gap.ServiceUserID != filters.ServiceUserID {
			continue
		}
		if filters.Date != nil && dateKey(gap.Date) != dateKey(*filters.Date) {
			continue
		}
		if filters.Shift != "" && gap.Shift != filters.Shift {
			continue
		}
		if filters.OpenOnly && gap.ResolvedAt != nil {
			continue
		}
		if filters.Notified != nil && gap.IsNotified != *filters.Notified {
			continue
		}
		g := gap
		all = append(all, &g)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.After(all[j].Date)
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

func (r *MemoryCoverageGapsRepository) CountOpenByCareHome(_ context.Context) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := map[string]int{}
	for _, gap := range r.gaps {
		if gap.ResolvedAt == nil {
			counts[gap.CareHomeID]++
		}
	}
	return counts, nil
}

func (r *MemoryCoverageGapsRepository) Resolve(_ context.Context, careHomeID, serviceUserID string, date time.Time, shift domain.Shift, at time.Time) (int, error) {
	if careHomeID == "" || serviceUserID == "" {
		return 0, fmt.Errorf("carehome_id and service_user_id are required")
	}
	if shift != "" {
		if _, err := domain.ParseShift(string(shift)); err != nil {
			return 0, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	resolved := 0
	for gapID, gap := range r.gaps {
		if gap.CareHomeID != careHomeID ||
			gap.ServiceUserID != serviceUserID ||
			dateKey(gap.Date) != dateKey(date) ||
			gap.ResolvedAt != nil {
			continue
		}
		if shift != "" && gap.Shift != shift {
			continue
		}
		resolvedAt := at
		gap.ResolvedAt = &resolvedAt
		r.gaps[gapID] = gap
		resolved++
	}
	return resolved, nil
}

func (r *MemoryCoverageGapsRepository) MarkNotified(_ context.Context, gapIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, gapID := range gapIDs {
		if gap, ok := r.gaps[gapID]; ok {
			gap.IsNotified = true
			r.gaps[gapID] = gap
		}
	}
	return nil
}
