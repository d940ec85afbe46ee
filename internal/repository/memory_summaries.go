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

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// MemoryShiftSummariesRepository is the in-memory shift-summary and
// log-entry store. Summaries and their entries live together so
// LockSummary stays atomic under one mutex, matching the Postgres
// transaction.
type MemoryShiftSummariesRepository struct {
	mu        sync.RWMutex
	summaries map[string]domain.ShiftSummary // summaryID -> summary
	unique    map[string]string              // staff|su|date|shift -> summaryID
	entries   map[string]domain.LogEntry     // entryID -> entry
	slotIndex map[string]string              // summaryID|slot -> entryID
}

func NewMemoryShiftSummariesRepository() *MemoryShiftSummariesRepository {
	return &MemoryShiftSummariesRepository{
		summaries: map[string]domain.ShiftSummary{},
		unique:    map[string]string{},
		entries:   map[string]domain.LogEntry{},
		slotIndex: map[string]string{},
	}
}

var (
	_ ShiftSummariesRepository = (*MemoryShiftSummariesRepository)(nil)
	_ LogEntriesRepository     = (*MemoryShiftSummariesRepository)(nil)
)

func summaryKey(staffID, serviceUserID string, date time.Time, shift domain.Shift) string {
	return staffID + "|" + serviceUserID + "|" + dateKey(date) + "|" + string(shift)
}

func (r *MemoryShiftSummariesRepository) GetSummary(_ context.Context, summaryID string) (*domain.ShiftSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary, ok := r.summaries[summaryID]
	if !ok {
		return nil, fmt.Errorf("shift summary not found: summary_id=%s", summaryID)
	}
	return &summary, nil
}

func (r *MemoryShiftSummariesRepository) FindSummary(_ context.Context, staffID, serviceUserID string, date time.Time, shift domain.Shift) (*domain.ShiftSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaryID, ok := r.unique[summaryKey(staffID, serviceUserID, date, shift)]
	if !ok {
		return nil, nil
	}
	summary := r.summaries[summaryID]
	return &summary, nil
}

func (r *MemoryShiftSummariesRepository) ListSummaries(_ context.Context, filters SummaryFilters) ([]*domain.ShiftSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.ShiftSummary{}
	for _, summary := range r.summaries {
		if filters.CareHomeID != "" && summary.CareHomeID != filters.CareHomeID {
			continue
		}
		if filters.ServiceUserID != "" && summary.ServiceUserID != filters.ServiceUserID {
			continue
		}
		if filters.StaffID != "" && summary.StaffID != filters.StaffID {
			continue
		}
		if filters.Date != nil && dateKey(summary.Date) != dateKey(*filters.Date) {
			continue
		}
		if filters.Shift != "" && summary.Shift != filters.Shift {
			continue
		}
		if filters.Status != "" && summary.Status != filters.Status {
			continue
		}
		s := summary
		all = append(all, &s)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.After(all[j].Date)
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

func (r *MemoryShiftSummariesRepository) CreateSummary(_ context.Context, summary *domain.ShiftSummary) (string, error) {
	if summary == nil {
		return "", fmt.Errorf("summary is required")
	}
	if summary.StaffID == "" || summary.CareHomeID == "" || summary.ServiceUserID == "" {
		return "", fmt.Errorf("staff_id, carehome_id and service_user_id are required")
	}
	if _, err := domain.ParseShift(string(summary.Shift)); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := summaryKey(summary.StaffID, summary.ServiceUserID, summary.Date, summary.Shift)
	if _, exists := r.unique[key]; exists {
		return "", domain.ErrDuplicateSummary
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
	now := time.Now()
	summary.CreatedAt = now
	summary.UpdatedAt = now

	r.summaries[summary.SummaryID] = *summary
	r.unique[key] = summary.SummaryID
	return summary.SummaryID, nil
}

func (r *MemoryShiftSummariesRepository) ExistsForShift(_ context.Context, careHomeID, serviceUserID string, date time.Time, shift domain.Shift) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, summary := range r.summaries {
		if summary.CareHomeID == careHomeID &&
			summary.ServiceUserID == serviceUserID &&
			dateKey(summary.Date) == dateKey(date) &&
			summary.Shift == shift {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryShiftSummariesRepository) ExistsLockedSince(_ context.Context, careHomeID, serviceUserID string, shift domain.Shift, since time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, summary := range r.summaries {
		if summary.CareHomeID == careHomeID &&
			summary.ServiceUserID == serviceUserID &&
			summary.Shift == shift &&
			summary.Status == domain.StatusLocked &&
			!summary.Date.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryShiftSummariesRepository) LockSummary(_ context.Context, summaryID string) error {
	if summaryID == "" {
		return fmt.Errorf("summary_id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	summary, ok := r.summaries[summaryID]
	if !ok {
		return fmt.Errorf("shift summary not found: summary_id=%s", summaryID)
	}
	if summary.Status == domain.StatusLocked {
		return domain.ErrSummaryLocked
	}

	for entryID, entry := range r.entries {
		if entry.SummaryID == summaryID {
			entry.IsLocked = true
			r.entries[entryID] = entry
		}
	}

	summary.Status = domain.StatusLocked
	summary.UpdatedAt = time.Now()
	r.summaries[summaryID] = summary
	return nil
}

func (r *MemoryShiftSummariesRepository) AttachDocument(_ context.Context, summaryID, documentPath string) error {
	if summaryID == "" || documentPath == "" {
		return fmt.Errorf("summary_id and document_path are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	summary, ok := r.summaries[summaryID]
	if !ok {
		return fmt.Errorf("shift summary not found: summary_id=%s", summaryID)
	}
	summary.DocumentPath = documentPath
	summary.UpdatedAt = time.Now()
	r.summaries[summaryID] = summary
	return nil
}

// ============================================
// LogEntriesRepository
// ============================================

func (r *MemoryShiftSummariesRepository) ListBySummary(_ context.Context, summaryID string) ([]*domain.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.LogEntry{}
	for _, entry := range r.entries {
		if entry.SummaryID != summaryID {
			continue
		}
		e := entry
		all = append(all, &e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].TimeSlot.Before(all[j].TimeSlot) })
	return all, nil
}

func (r *MemoryShiftSummariesRepository) UpsertEntry(_ context.Context, entry *domain.LogEntry) (string, error) {
	if entry == nil || entry.SummaryID == "" {
		return "", fmt.Errorf("entry with summary_id is required")
	}
	if _, err := domain.ParseShift(string(entry.Shift)); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Same guard the Postgres store enforces in its insert: a locked
	// summary accepts no further entry writes.
	summary, ok := r.summaries[entry.SummaryID]
	if !ok {
		return "", fmt.Errorf("shift summary not found: summary_id=%s", entry.SummaryID)
	}
	if summary.Locked() {
		return "", domain.ErrSummaryLocked
	}

	slotKey := entry.SummaryID + "|" + entry.TimeSlot.Format("15:04")
	if existingID, ok := r.slotIndex[slotKey]; ok {
		existing := r.entries[existingID]
		existing.Content = entry.Content
		r.entries[existingID] = existing
		return existingID, nil
	}

	if entry.EntryID == "" {
		entry.EntryID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()
	r.entries[entry.EntryID] = *entry
	r.slotIndex[slotKey] = entry.EntryID
	return entry.EntryID, nil
}
