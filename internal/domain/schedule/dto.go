package schedule

import (
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/validator"
)

type CreateScheduleRequest struct {
	UserID             string  `json:"user_id"`
	Campaign           string  `json:"campaign"`
	Site               string  `json:"site"`
	ShiftType          string  `json:"shift_type"`
	TimeIn             string  `json:"time_in"`
	TimeOut            string  `json:"time_out"`
	WorkDays           []int   `json:"work_days"`
	GracePeriodMinutes int     `json:"grace_period_minutes"`
	EffectiveDate      string  `json:"effective_date"`
	EndDate            *string `json:"end_date"`
}

func (r *CreateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}
	if validator.IsEmpty(r.Site) {
		errs = append(errs, validator.ValidationError{Field: "site", Message: "site is required"})
	}
	if !validator.IsInSlice(r.ShiftType, ShiftTypeValues) {
		errs = append(errs, validator.ValidationError{Field: "shift_type", Message: "shift_type must be one of day, morning, afternoon, graveyard, night"})
	}
	if !validator.IsValidClock(r.TimeIn) {
		errs = append(errs, validator.ValidationError{Field: "time_in", Message: "time_in must be in HH:MM format"})
	}
	if !validator.IsValidClock(r.TimeOut) {
		errs = append(errs, validator.ValidationError{Field: "time_out", Message: "time_out must be in HH:MM format"})
	}
	if len(r.WorkDays) == 0 {
		errs = append(errs, validator.ValidationError{Field: "work_days", Message: "at least one work day is required"})
	}
	for _, d := range r.WorkDays {
		if d < 0 || d > 6 {
			errs = append(errs, validator.ValidationError{Field: "work_days", Message: "work days must be between 0 (Sunday) and 6 (Saturday)"})
			break
		}
	}
	if r.GracePeriodMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "grace_period_minutes", Message: "grace_period_minutes must not be negative"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "effective_date must be in YYYY-MM-DD format"})
	}
	if r.EndDate != nil && *r.EndDate != "" {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ScheduleResponse struct {
	ID                 string  `json:"id"`
	UserID             string  `json:"user_id"`
	Campaign           string  `json:"campaign"`
	Site               string  `json:"site"`
	ShiftType          string  `json:"shift_type"`
	TimeIn             string  `json:"time_in"`
	TimeOut            string  `json:"time_out"`
	WorkDays           []int   `json:"work_days"`
	GracePeriodMinutes int     `json:"grace_period_minutes"`
	EffectiveDate      string  `json:"effective_date"`
	EndDate            *string `json:"end_date,omitempty"`
	IsActive           bool    `json:"is_active"`
	CreatedAt          string  `json:"created_at"`
}

func ToResponse(s EmployeeSchedule) ScheduleResponse {
	var endDate *string
	if s.EndDate != nil {
		v := s.EndDate.Format("2006-01-02")
		endDate = &v
	}
	return ScheduleResponse{
		ID:                 s.ID,
		UserID:             s.UserID,
		Campaign:           s.Campaign,
		Site:               s.Site,
		ShiftType:          string(s.ShiftType),
		TimeIn:             s.TimeIn,
		TimeOut:            s.TimeOut,
		WorkDays:           s.WorkDays,
		GracePeriodMinutes: s.GracePeriodMinutes,
		EffectiveDate:      s.EffectiveDate.Format("2006-01-02"),
		EndDate:            endDate,
		IsActive:           s.IsActive,
		CreatedAt:          s.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func (r *CreateScheduleRequest) ToEntity() EmployeeSchedule {
	effective, _ := time.Parse("2006-01-02", r.EffectiveDate)
	var endDate *time.Time
	if r.EndDate != nil && *r.EndDate != "" {
		t, _ := time.Parse("2006-01-02", *r.EndDate)
		endDate = &t
	}
	return EmployeeSchedule{
		UserID:             r.UserID,
		Campaign:           r.Campaign,
		Site:               r.Site,
		ShiftType:          ShiftType(r.ShiftType),
		TimeIn:             r.TimeIn,
		TimeOut:            r.TimeOut,
		WorkDays:           r.WorkDays,
		GracePeriodMinutes: r.GracePeriodMinutes,
		EffectiveDate:      effective,
		EndDate:            endDate,
		IsActive:           true,
	}
}
