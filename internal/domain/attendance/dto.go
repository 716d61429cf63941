package attendance

import (
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/validator"
)

type AttendanceFilter struct {
	UserID    *string
	StartDate *string
	EndDate   *string
	Status    *string
	Page      int
	Limit     int
}

type ProcessRequest struct {
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	UserIDs   []string `json:"user_ids"`
}

func (r *ProcessRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	}
	if okStart && okEnd && start.After(end) {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must not be after end_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *ProcessRequest) Range() (time.Time, time.Time) {
	start, _ := time.Parse("2006-01-02", r.StartDate)
	end, _ := time.Parse("2006-01-02", r.EndDate)
	return start, end
}

type ReprocessRequest struct {
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	UserIDs        []string `json:"user_ids"`
	DeleteExisting bool     `json:"delete_existing"`
}

func (r *ReprocessRequest) Validate() error {
	base := ProcessRequest{StartDate: r.StartDate, EndDate: r.EndDate}
	err := base.Validate()
	var errs validator.ValidationErrors
	if verrs, ok := err.(validator.ValidationErrors); ok {
		errs = verrs
	}
	if len(r.UserIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "user_ids", Message: "at least one user is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *ReprocessRequest) Range() (time.Time, time.Time) {
	base := ProcessRequest{StartDate: r.StartDate, EndDate: r.EndDate}
	return base.Range()
}

type UpdateAttendanceRequest struct {
	ID            string  `json:"-"`
	ActualTimeIn  *string `json:"actual_time_in"`
	ActualTimeOut *string `json:"actual_time_out"`
	ApproveOT     *bool   `json:"overtime_approved"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ActualTimeIn != nil && *r.ActualTimeIn != "" {
		if _, ok := validator.IsValidTimestamp(*r.ActualTimeIn); !ok {
			errs = append(errs, validator.ValidationError{Field: "actual_time_in", Message: "actual_time_in must be in YYYY-MM-DD HH:MM:SS format"})
		}
	}
	if r.ActualTimeOut != nil && *r.ActualTimeOut != "" {
		if _, ok := validator.IsValidTimestamp(*r.ActualTimeOut); !ok {
			errs = append(errs, validator.ValidationError{Field: "actual_time_out", Message: "actual_time_out must be in YYYY-MM-DD HH:MM:SS format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID               string   `json:"id"`
	UserID           string   `json:"user_id"`
	EmployeeName     *string  `json:"employee_name,omitempty"`
	Campaign         *string  `json:"campaign,omitempty"`
	ShiftDate        string   `json:"shift_date"`
	ScheduledTimeIn  string   `json:"scheduled_time_in"`
	ScheduledTimeOut string   `json:"scheduled_time_out"`
	ActualTimeIn     *string  `json:"actual_time_in"`
	ActualTimeOut    *string  `json:"actual_time_out"`
	SiteIn           *string  `json:"site_in,omitempty"`
	SiteOut          *string  `json:"site_out,omitempty"`
	Status           string   `json:"status"`
	SecondaryStatus  *string  `json:"secondary_status,omitempty"`
	TardyMinutes     *int     `json:"tardy_minutes,omitempty"`
	UndertimeMinutes *int     `json:"undertime_minutes,omitempty"`
	OvertimeMinutes  *int     `json:"overtime_minutes,omitempty"`
	OvertimeApproved bool     `json:"overtime_approved"`
	AdminVerified    bool     `json:"admin_verified"`
	IsCrossSiteBio   bool     `json:"is_cross_site_bio"`
	Warnings         []string `json:"warnings,omitempty"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// ProcessResult summarizes one processing/reprocessing batch: how many
// users succeeded, how many failed, and the per-user failures. Raw errors
// stay in the logs; clients only ever see this summary.
type ProcessResult struct {
	UsersProcessed int               `json:"users_processed"`
	UsersFailed    int               `json:"users_failed"`
	ShiftsWritten  int               `json:"shifts_written"`
	ShiftsSkipped  int               `json:"shifts_skipped"` // admin-verified rows left untouched
	Errors         map[string]string `json:"errors,omitempty"`
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format("2006-01-02 15:04:05")
	return &v
}

func ToResponse(att Attendance) AttendanceResponse {
	var secondary *string
	if att.SecondaryStatus != nil {
		v := string(*att.SecondaryStatus)
		secondary = &v
	}
	return AttendanceResponse{
		ID:               att.ID,
		UserID:           att.UserID,
		EmployeeName:     att.EmployeeName,
		Campaign:         att.Campaign,
		ShiftDate:        att.ShiftDate.Format("2006-01-02"),
		ScheduledTimeIn:  att.ScheduledTimeIn.Format("2006-01-02 15:04:05"),
		ScheduledTimeOut: att.ScheduledTimeOut.Format("2006-01-02 15:04:05"),
		ActualTimeIn:     timePtrToString(att.ActualTimeIn),
		ActualTimeOut:    timePtrToString(att.ActualTimeOut),
		SiteIn:           att.SiteIn,
		SiteOut:          att.SiteOut,
		Status:           string(att.Status),
		SecondaryStatus:  secondary,
		TardyMinutes:     att.TardyMinutes,
		UndertimeMinutes: att.UndertimeMinutes,
		OvertimeMinutes:  att.OvertimeMinutes,
		OvertimeApproved: att.OvertimeApproved,
		AdminVerified:    att.AdminVerified,
		IsCrossSiteBio:   att.IsCrossSiteBio,
		Warnings:         att.Warnings,
	}
}
