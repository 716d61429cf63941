package reconcile

import (
	"testing"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/scan"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrouper() *Grouper {
	return NewGrouper(GrouperConfig{
		Lookback:    4 * time.Hour,
		Egress:      4 * time.Hour,
		TapCollapse: 5 * time.Minute,
	})
}

func graveyardSchedule() []schedule.EmployeeSchedule {
	return []schedule.EmployeeSchedule{{
		ID:            "s1",
		UserID:        "u1",
		ShiftType:     schedule.ShiftTypeGraveyard,
		TimeIn:        "22:00",
		TimeOut:       "06:00",
		WorkDays:      []int{0, 1, 2, 3, 4, 5, 6},
		EffectiveDate: date(2023, 12, 1),
		IsActive:      true,
	}}
}

func daySchedule() []schedule.EmployeeSchedule {
	return []schedule.EmployeeSchedule{{
		ID:            "s1",
		UserID:        "u1",
		ShiftType:     schedule.ShiftTypeDay,
		TimeIn:        "09:00",
		TimeOut:       "18:00",
		WorkDays:      []int{1, 2, 3, 4, 5},
		EffectiveDate: date(2023, 12, 1),
		IsActive:      true,
	}}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func events(timestamps ...time.Time) []scan.ScanEvent {
	evs := make([]scan.ScanEvent, len(timestamps))
	for i, ts := range timestamps {
		evs[i] = scan.ScanEvent{EmployeeKey: "john dela cruz", Timestamp: ts}
	}
	return evs
}

func TestGroupPairsInAndOut(t *testing.T) {
	// 2024-01-01 is a Monday.
	instances := testGrouper().Group(
		events(at(2024, 1, 1, 8, 55), at(2024, 1, 1, 18, 5)),
		daySchedule(), "u1", "john dela cruz",
		date(2024, 1, 1), date(2024, 1, 1),
	)

	require.Len(t, instances, 1)
	inst := instances[0]
	require.NotNil(t, inst.MatchedIn)
	require.NotNil(t, inst.MatchedOut)
	assert.Equal(t, at(2024, 1, 1, 8, 55), inst.MatchedIn.Timestamp)
	assert.Equal(t, at(2024, 1, 1, 18, 5), inst.MatchedOut.Timestamp)
}

func TestGroupOvernightShiftSpansMidnight(t *testing.T) {
	// Time-out the next calendar day still belongs to the prior reference
	// date's shift.
	instances := testGrouper().Group(
		events(at(2024, 1, 1, 21, 58), at(2024, 1, 2, 6, 10)),
		graveyardSchedule(), "u1", "john dela cruz",
		date(2024, 1, 1), date(2024, 1, 1),
	)

	require.Len(t, instances, 1)
	inst := instances[0]
	assert.Equal(t, date(2024, 1, 1), inst.ReferenceDate)
	require.NotNil(t, inst.MatchedIn)
	require.NotNil(t, inst.MatchedOut)
	assert.Equal(t, at(2024, 1, 1, 21, 58), inst.MatchedIn.Timestamp)
	assert.Equal(t, at(2024, 1, 2, 6, 10), inst.MatchedOut.Timestamp)
}

func TestGroupScanJustAfterMidnightBelongsToPriorShift(t *testing.T) {
	// A lone 00:15 tap is a (very late) clock-in for the shift that started
	// at 22:00 the previous evening, not anything for the next day.
	instances := testGrouper().Group(
		events(at(2024, 1, 2, 0, 15)),
		graveyardSchedule(), "u1", "john dela cruz",
		date(2024, 1, 1), date(2024, 1, 2),
	)

	require.Len(t, instances, 2)
	first := instances[0]
	assert.Equal(t, date(2024, 1, 1), first.ReferenceDate)
	require.NotNil(t, first.MatchedIn)
	assert.Equal(t, at(2024, 1, 2, 0, 15), first.MatchedIn.Timestamp)

	second := instances[1]
	assert.Equal(t, date(2024, 1, 2), second.ReferenceDate)
	assert.Nil(t, second.MatchedIn)
	assert.Nil(t, second.MatchedOut)
}

func TestGroupEmitsInstanceWithNoScans(t *testing.T) {
	instances := testGrouper().Group(
		nil,
		daySchedule(), "u1", "john dela cruz",
		date(2024, 1, 1), date(2024, 1, 3),
	)

	require.Len(t, instances, 3)
	for _, inst := range instances {
		assert.Nil(t, inst.MatchedIn)
		assert.Nil(t, inst.MatchedOut)
	}
}

func TestGroupSkipsRestDays(t *testing.T) {
	// 2024-01-06 is Saturday, 2024-01-07 Sunday; the day schedule works
	// Monday through Friday only.
	instances := testGrouper().Group(
		nil,
		daySchedule(), "u1", "john dela cruz",
		date(2024, 1, 5), date(2024, 1, 8),
	)

	require.Len(t, instances, 2)
	assert.Equal(t, date(2024, 1, 5), instances[0].ReferenceDate)
	assert.Equal(t, date(2024, 1, 8), instances[1].ReferenceDate)
}

func TestGroupCollapsesRepeatedTaps(t *testing.T) {
	// Three taps within a couple of minutes of the clock-in: the first wins
	// and the others never become the clock-out.
	instances := testGrouper().Group(
		events(
			at(2024, 1, 1, 8, 58),
			at(2024, 1, 1, 8, 59),
			at(2024, 1, 1, 9, 0),
			at(2024, 1, 1, 18, 1),
		),
		daySchedule(), "u1", "john dela cruz",
		date(2024, 1, 1), date(2024, 1, 1),
	)

	require.Len(t, instances, 1)
	inst := instances[0]
	require.NotNil(t, inst.MatchedIn)
	require.NotNil(t, inst.MatchedOut)
	assert.Equal(t, at(2024, 1, 1, 8, 58), inst.MatchedIn.Timestamp)
	assert.Equal(t, at(2024, 1, 1, 18, 1), inst.MatchedOut.Timestamp)
}

func TestGroupOutOnlyScan(t *testing.T) {
	instances := testGrouper().Group(
		events(at(2024, 1, 1, 18, 2)),
		daySchedule(), "u1", "john dela cruz",
		date(2024, 1, 1), date(2024, 1, 1),
	)

	require.Len(t, instances, 1)
	assert.Nil(t, instances[0].MatchedIn)
	require.NotNil(t, instances[0].MatchedOut)
	assert.Equal(t, at(2024, 1, 1, 18, 2), instances[0].MatchedOut.Timestamp)
}

func TestGroupOverlappingWindowsResolveByClosestBoundary(t *testing.T) {
	// A wide capture window makes back-to-back graveyard shifts overlap in
	// the afternoon. A 15:00 scan on Jan 2 sits 9h after day 1's 06:00 end
	// but only 7h before day 2's 22:00 start, so it opens day 2's shift.
	wide := NewGrouper(GrouperConfig{
		Lookback:    10 * time.Hour,
		Egress:      10 * time.Hour,
		TapCollapse: 5 * time.Minute,
	})

	instances := wide.Group(
		events(
			at(2024, 1, 1, 21, 55), at(2024, 1, 2, 6, 3),
			at(2024, 1, 2, 15, 0), at(2024, 1, 3, 6, 1),
		),
		graveyardSchedule(), "u1", "john dela cruz",
		date(2024, 1, 1), date(2024, 1, 2),
	)

	require.Len(t, instances, 2)

	first := instances[0]
	require.NotNil(t, first.MatchedIn)
	require.NotNil(t, first.MatchedOut)
	assert.Equal(t, at(2024, 1, 1, 21, 55), first.MatchedIn.Timestamp)
	assert.Equal(t, at(2024, 1, 2, 6, 3), first.MatchedOut.Timestamp)

	second := instances[1]
	require.NotNil(t, second.MatchedIn)
	require.NotNil(t, second.MatchedOut)
	assert.Equal(t, at(2024, 1, 2, 15, 0), second.MatchedIn.Timestamp)
	assert.Equal(t, at(2024, 1, 3, 6, 1), second.MatchedOut.Timestamp)
	assert.NotEmpty(t, second.Warnings)
}

func TestGroupUsesScheduleVersionPerDate(t *testing.T) {
	// Schedule changed mid-range: the old day shift ends Jan 2, the new
	// graveyard version takes over from Jan 3.
	end := date(2024, 1, 2)
	versions := []schedule.EmployeeSchedule{
		{
			ID: "s1", UserID: "u1", ShiftType: schedule.ShiftTypeDay,
			TimeIn: "09:00", TimeOut: "18:00",
			WorkDays:      []int{0, 1, 2, 3, 4, 5, 6},
			EffectiveDate: date(2023, 12, 1), EndDate: &end,
		},
		{
			ID: "s2", UserID: "u1", ShiftType: schedule.ShiftTypeGraveyard,
			TimeIn: "22:00", TimeOut: "06:00",
			WorkDays:      []int{0, 1, 2, 3, 4, 5, 6},
			EffectiveDate: date(2024, 1, 3), IsActive: true,
		},
	}

	instances := testGrouper().Group(nil, versions, "u1", "john dela cruz",
		date(2024, 1, 2), date(2024, 1, 3))

	require.Len(t, instances, 2)
	assert.Equal(t, at(2024, 1, 2, 9, 0), instances[0].ScheduledIn)
	assert.Equal(t, at(2024, 1, 3, 22, 0), instances[1].ScheduledIn)
	assert.Equal(t, at(2024, 1, 4, 6, 0), instances[1].ScheduledOut)
}
