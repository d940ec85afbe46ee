package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShift(t *testing.T) {
	shift, err := ParseShift("morning")
	require.NoError(t, err)
	assert.Equal(t, ShiftMorning, shift)

	shift, err = ParseShift("night")
	require.NoError(t, err)
	assert.Equal(t, ShiftNight, shift)

	_, err = ParseShift("afternoon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid shift")

	_, err = ParseShift("")
	assert.Error(t, err)

	// Case sensitive.
	_, err = ParseShift("Morning")
	assert.Error(t, err)
}

func TestTrackedShifts(t *testing.T) {
	assert.Equal(t, []Shift{ShiftMorning, ShiftNight}, TrackedShifts())
}

func TestSetShiftStart_DerivesEnd(t *testing.T) {
	home := &CareHome{}
	assert.Equal(t, "Not set", home.ShiftWindow(ShiftMorning))

	home.SetShiftStart(ShiftMorning, time.Date(0, 1, 1, 7, 30, 0, 0, time.UTC))
	assert.Equal(t, "07:30-19:30", home.ShiftWindow(ShiftMorning))

	home.SetShiftStart(ShiftNight, time.Date(0, 1, 1, 19, 30, 0, 0, time.UTC))
	assert.Equal(t, "19:30-07:30", home.ShiftWindow(ShiftNight))
}

func TestGenerateShiftSlots(t *testing.T) {
	base := time.Date(0, 1, 1, 8, 0, 0, 0, time.UTC)
	slots := GenerateShiftSlots(base, DefaultSlotCount)

	require.Len(t, slots, 12)
	assert.Equal(t, "08:00", slots[0].Format("15:04"))
	assert.Equal(t, "19:00", slots[11].Format("15:04"))
}

func TestFormattedName(t *testing.T) {
	user := &ServiceUser{FirstName: "June", LastName: "Baker"}
	assert.Equal(t, "June Baker (JB)", user.FormattedName())

	user = &ServiceUser{FirstName: "june", LastName: "baker"}
	assert.Equal(t, "june baker (JB)", user.FormattedName())

	user = &ServiceUser{}
	assert.Equal(t, "", user.FormattedName())
}

func TestDateOnly(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	// 23:30 UTC on the 29th is already the 30th in London during BST.
	late := time.Date(2026, 8, 29, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-30", DateOnly(late, london).Format("2006-01-02"))
	assert.Equal(t, "2026-08-29", DateOnly(late, time.UTC).Format("2006-01-02"))
}

func TestCoverageGapOpen(t *testing.T) {
	gap := &CoverageGap{}
	assert.True(t, gap.Open())

	now := time.Now()
	gap.ResolvedAt = &now
	assert.False(t, gap.Open())
}
