package domain

import "time"

// CoverageGap records a missed shift log: a (care home, service user,
// date, shift) tuple with no qualifying shift summary (coverage_gaps
// table). One row per natural key; a unique constraint plus
// insert-ignore keeps duplicate producers from creating a second row.
type CoverageGap struct {
	// Primary key
	GapID string `db:"gap_id"` // UUID, PRIMARY KEY

	CareHomeID    string `db:"carehome_id"`     // UUID, NOT NULL, FK to carehomes ON DELETE CASCADE
	ServiceUserID string `db:"service_user_id"` // UUID, NOT NULL, FK to service_users ON DELETE CASCADE

	Date  time.Time `db:"date"`  // DATE, NOT NULL
	Shift Shift     `db:"shift"` // VARCHAR(20), NOT NULL
	// UNIQUE(carehome_id, service_user_id, date, shift)

	// Set once the gap has been published to the notification stream
	IsNotified bool `db:"is_notified"` // BOOLEAN, NOT NULL, DEFAULT FALSE

	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL

	// Null while the gap is open; set by the resolution listener or a
	// bulk resolve
	ResolvedAt *time.Time `db:"resolved_at"` // TIMESTAMPTZ, nullable
}

// Open reports whether the gap is still unresolved.
func (g *CoverageGap) Open() bool {
	return g.ResolvedAt == nil
}

// DateOnly normalizes a timestamp to its calendar date in loc, which is
// how DATE columns and natural keys are compared.
func DateOnly(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
