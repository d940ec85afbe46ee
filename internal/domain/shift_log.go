package domain

import "time"

// DefaultSlotCount is the number of hourly slots in a twelve-hour shift.
const DefaultSlotCount = 12

// LogEntry is one time-slot entry within a shift (shift_log_entries
// table). Multiple entries compose one shift's record under a summary.
type LogEntry struct {
	// Primary key
	EntryID string `db:"entry_id"` // UUID, PRIMARY KEY

	SummaryID string `db:"summary_id"` // UUID, NOT NULL, FK to shift_summaries ON DELETE CASCADE

	StaffID       string `db:"staff_id"`        // UUID, NOT NULL
	CareHomeID    string `db:"carehome_id"`     // UUID, NOT NULL
	ServiceUserID string `db:"service_user_id"` // UUID, NOT NULL

	Date  time.Time `db:"date"`  // DATE, NOT NULL
	Shift Shift     `db:"shift"` // VARCHAR(20), NOT NULL

	// Hourly slot within the shift window (e.g. 08:00, 09:00)
	TimeSlot time.Time `db:"time_slot"` // TIME, NOT NULL

	Content string `db:"content"` // TEXT, nullable

	// Set when the owning summary locks; locked entries are immutable
	IsLocked bool `db:"is_locked"` // BOOLEAN, NOT NULL, DEFAULT FALSE

	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL
}

// GenerateShiftSlots returns totalSlots hourly slot times starting at
// base, used to lay out a shift's entry grid.
func GenerateShiftSlots(base time.Time, totalSlots int) []time.Time {
	slots := make([]time.Time, 0, totalSlots)
	current := base
	for i := 0; i < totalSlots; i++ {
		slots = append(slots, current)
		current = current.Add(time.Hour)
	}
	return slots
}
