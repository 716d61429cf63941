package schedule

import "time"

type ShiftType string

const (
	ShiftTypeDay       ShiftType = "day"
	ShiftTypeMorning   ShiftType = "morning"
	ShiftTypeAfternoon ShiftType = "afternoon"
	ShiftTypeGraveyard ShiftType = "graveyard"
	ShiftTypeNight     ShiftType = "night"
)

var ShiftTypeValues = []string{
	string(ShiftTypeDay),
	string(ShiftTypeMorning),
	string(ShiftTypeAfternoon),
	string(ShiftTypeGraveyard),
	string(ShiftTypeNight),
}

// IsOvernight reports whether the scheduled time-out falls on the day after
// the reference date.
func (s ShiftType) IsOvernight() bool {
	return s == ShiftTypeGraveyard || s == ShiftTypeNight
}

// EmployeeSchedule is one version of an employee's expected shift. Versions
// are bounded by [EffectiveDate, EndDate]; an open-ended version has a nil
// EndDate. Exactly one version may be active per user at a time.
type EmployeeSchedule struct {
	ID                 string
	UserID             string
	Campaign           string
	Site               string
	ShiftType          ShiftType
	TimeIn             string // "15:04" wall clock on the reference date
	TimeOut            string // "15:04"; next day when ShiftType.IsOvernight()
	WorkDays           []int  // 0=Sunday ... 6=Saturday
	GracePeriodMinutes int
	EffectiveDate      time.Time
	EndDate            *time.Time
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Covers reports whether this version applies on the given date.
func (s EmployeeSchedule) Covers(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	if day.Before(s.EffectiveDate.Truncate(24 * time.Hour)) {
		return false
	}
	if s.EndDate != nil && day.After(s.EndDate.Truncate(24*time.Hour)) {
		return false
	}
	return true
}

// IsWorkDay reports whether the given weekday is a scheduled work day.
func (s EmployeeSchedule) IsWorkDay(day time.Weekday) bool {
	for _, d := range s.WorkDays {
		if time.Weekday(d) == day {
			return true
		}
	}
	return false
}

// Window returns the absolute scheduled clock-in and clock-out instants for
// the given reference date. Overnight shifts end on the following day.
func (s EmployeeSchedule) Window(date time.Time) (in, out time.Time) {
	in = atClock(date, s.TimeIn)
	out = atClock(date, s.TimeOut)
	if s.ShiftType.IsOvernight() || !out.After(in) {
		out = out.Add(24 * time.Hour)
	}
	return in, out
}

func atClock(date time.Time, clock string) time.Time {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}

// ResolveForDate picks the schedule version covering the date from the
// user's versions. An active version wins when coverage overlaps; otherwise
// the version with the latest effective date wins.
func ResolveForDate(versions []EmployeeSchedule, date time.Time) *EmployeeSchedule {
	var picked *EmployeeSchedule
	for i := range versions {
		v := &versions[i]
		if !v.Covers(date) {
			continue
		}
		switch {
		case picked == nil:
			picked = v
		case v.IsActive && !picked.IsActive:
			picked = v
		case v.IsActive == picked.IsActive && v.EffectiveDate.After(picked.EffectiveDate):
			picked = v
		}
	}
	return picked
}
