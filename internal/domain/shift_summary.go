package domain

import (
	"errors"
	"time"
)

// Summary status values. `locked` is terminal: no edit path out of it.
const (
	StatusIncomplete = "incomplete"
	StatusLocked     = "locked"
)

var (
	// ErrDuplicateSummary is returned when a summary already exists for
	// (staff, service user, date, shift). Callers treat it as "use the
	// existing row", never as a hard failure.
	ErrDuplicateSummary = errors.New("shift summary already exists for this staff, service user, date and shift")

	// ErrSummaryLocked rejects content writes against a locked summary.
	ErrSummaryLocked = errors.New("shift summary is locked")
)

// ShiftSummary is the aggregation point one shift's log entries attach
// to (shift_summaries table). Created lazily on the first slot write for
// its tuple; unique per (staff, service user, date, shift).
type ShiftSummary struct {
	// Primary key
	SummaryID string `db:"summary_id"` // UUID, PRIMARY KEY

	StaffID       string `db:"staff_id"`        // UUID, NOT NULL
	CareHomeID    string `db:"carehome_id"`     // UUID, NOT NULL, FK to carehomes
	ServiceUserID string `db:"service_user_id"` // UUID, NOT NULL, FK to service_users

	Date  time.Time `db:"date"`  // DATE, NOT NULL
	Shift Shift     `db:"shift"` // VARCHAR(20), NOT NULL ('morning'/'night')

	// Denormalized display fields, set on create
	StaffName string `db:"staff_name"`  // VARCHAR(100), nullable
	DayOfWeek string `db:"day_of_week"` // VARCHAR(10), nullable

	Status string `db:"status"` // VARCHAR(20), NOT NULL, DEFAULT 'incomplete'

	// Rendered document reference; unset until a lock's render succeeds
	DocumentPath string `db:"document_path"` // TEXT, nullable

	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL
	UpdatedAt time.Time `db:"updated_at"` // TIMESTAMPTZ, NOT NULL
}

// Locked reports whether the summary reached its terminal state.
func (s *ShiftSummary) Locked() bool {
	return s.Status == StatusLocked
}
