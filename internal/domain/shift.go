package domain

import "fmt"

// Shift is a tracked care period. Care homes run a morning and a night
// shift of twelve hours each; the afternoon handover period is not a
// logged shift and is excluded from coverage tracking.
type Shift string

const (
	ShiftMorning Shift = "morning"
	ShiftNight   Shift = "night"
)

// ErrInvalidShift is returned for shift values outside the enum.
// Callers reject the input before anything is persisted.
type ErrInvalidShift struct {
	Value string
}

func (e *ErrInvalidShift) Error() string {
	return fmt.Sprintf("invalid shift: %q (must be 'morning' or 'night')", e.Value)
}

// ParseShift validates a raw shift string.
func ParseShift(s string) (Shift, error) {
	switch Shift(s) {
	case ShiftMorning, ShiftNight:
		return Shift(s), nil
	}
	return "", &ErrInvalidShift{Value: s}
}

// TrackedShifts returns the shifts the coverage tracker sweeps.
func TrackedShifts() []Shift {
	return []Shift{ShiftMorning, ShiftNight}
}
