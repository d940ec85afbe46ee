package domain

import "time"

// shiftLength is the fixed duration of a shift window. Setting a shift
// start always derives the matching end from it.
const shiftLength = 12 * time.Hour

// CareHome is a physical care-home location (carehomes table).
type CareHome struct {
	// Primary key
	CareHomeID string `db:"carehome_id"` // UUID, PRIMARY KEY

	Name     string `db:"name"`     // VARCHAR(100), NOT NULL
	Postcode string `db:"postcode"` // VARCHAR(10), NOT NULL
	Details  string `db:"details"`  // TEXT, nullable

	// Stored picture path (upload handling lives outside this service)
	PicturePath string `db:"picture_path"` // TEXT, nullable

	// Shift windows. Nullable: a home without configured windows still
	// participates in coverage sweeps, only the display string degrades.
	MorningShiftStart *time.Time `db:"morning_shift_start"` // TIME, nullable
	MorningShiftEnd   *time.Time `db:"morning_shift_end"`   // TIME, nullable
	NightShiftStart   *time.Time `db:"night_shift_start"`   // TIME, nullable
	NightShiftEnd     *time.Time `db:"night_shift_end"`     // TIME, nullable

	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL
	UpdatedAt time.Time `db:"updated_at"` // TIMESTAMPTZ, NOT NULL
}

// SetShiftStart sets a shift's start time and derives its end as
// start + 12h, keeping the pair consistent.
func (c *CareHome) SetShiftStart(shift Shift, start time.Time) {
	end := start.Add(shiftLength)
	switch shift {
	case ShiftMorning:
		c.MorningShiftStart = &start
		c.MorningShiftEnd = &end
	case ShiftNight:
		c.NightShiftStart = &start
		c.NightShiftEnd = &end
	}
}

// ShiftStart returns the configured start of a shift, or nil if unset.
func (c *CareHome) ShiftStart(shift Shift) *time.Time {
	if shift == ShiftMorning {
		return c.MorningShiftStart
	}
	return c.NightShiftStart
}

// ShiftWindow returns the display string for a shift's time range,
// e.g. "07:00-19:00", or "Not set" when the window is unconfigured.
func (c *CareHome) ShiftWindow(shift Shift) string {
	var start, end *time.Time
	switch shift {
	case ShiftMorning:
		start, end = c.MorningShiftStart, c.MorningShiftEnd
	case ShiftNight:
		start, end = c.NightShiftStart, c.NightShiftEnd
	}
	if start == nil || end == nil {
		return "Not set"
	}
	return start.Format("15:04") + "-" + end.Format("15:04")
}
