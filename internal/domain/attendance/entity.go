package attendance

import "time"

type Status string

const (
	StatusOnTime         Status = "on_time"
	StatusTardy          Status = "tardy"
	StatusHalfDayAbsence Status = "half_day_absence"
	StatusNCNS           Status = "ncns"
	StatusFailedBioIn    Status = "failed_bio_in"
	StatusFailedBioOut   Status = "failed_bio_out"
)

var StatusValues = []string{
	string(StatusOnTime),
	string(StatusTardy),
	string(StatusHalfDayAbsence),
	string(StatusNCNS),
	string(StatusFailedBioIn),
	string(StatusFailedBioOut),
}

// Attendance is one classified shift. Exactly one row exists per
// (user_id, shift_date); reprocessing deletes and replaces the row unless
// admin_verified is set, which protects it from every automated path.
type Attendance struct {
	ID               string
	UserID           string
	ShiftDate        time.Time
	ScheduledTimeIn  time.Time
	ScheduledTimeOut time.Time
	ActualTimeIn     *time.Time
	ActualTimeOut    *time.Time
	SiteIn           *string
	SiteOut          *string
	Status           Status
	SecondaryStatus  *Status
	TardyMinutes     *int
	UndertimeMinutes *int
	OvertimeMinutes  *int
	OvertimeApproved bool
	AdminVerified    bool
	VerifiedBy       *string
	IsCrossSiteBio   bool
	Warnings         []string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined for listing/export
	EmployeeName *string
	Campaign     *string
}
