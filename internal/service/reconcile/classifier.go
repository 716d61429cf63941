package reconcile

import (
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/attendance"
)

// ClassifierConfig holds the status decision thresholds, in minutes.
type ClassifierConfig struct {
	// TardyCeiling is the largest lateness still classified as tardy;
	// anything beyond it is a half-day absence.
	TardyCeiling int
	// OvertimeThreshold is the minimum overrun past the scheduled time-out
	// before overtime minutes are recorded.
	OvertimeThreshold int
}

// Classifier turns a grouped shift instance into an attendance record by
// applying the status decision table. It is pure: same instance, same record.
type Classifier struct {
	cfg ClassifierConfig
}

func NewClassifier(cfg ClassifierConfig) *Classifier {
	if cfg.TardyCeiling == 0 {
		cfg.TardyCeiling = 15
	}
	if cfg.OvertimeThreshold == 0 {
		cfg.OvertimeThreshold = 15
	}
	return &Classifier{cfg: cfg}
}

// Classify applies the decision table:
//
//	no scans            -> ncns
//	out scan only       -> failed_bio_in
//	in scan only        -> lateness status, secondary failed_bio_out
//	both scans          -> lateness status
//
// Lateness is measured from the scheduled time-in; the schedule's grace
// period shifts the classification thresholds, never the recorded minutes.
// Undertime and overtime are computed only when a time-out exists.
func (c *Classifier) Classify(inst ShiftInstance) attendance.Attendance {
	rec := attendance.Attendance{
		UserID:           inst.UserID,
		ShiftDate:        inst.ReferenceDate,
		ScheduledTimeIn:  inst.ScheduledIn,
		ScheduledTimeOut: inst.ScheduledOut,
		Warnings:         inst.Warnings,
	}

	if inst.MatchedIn != nil {
		ts := inst.MatchedIn.Timestamp
		rec.ActualTimeIn = &ts
		if inst.MatchedIn.Site != "" {
			site := inst.MatchedIn.Site
			rec.SiteIn = &site
		}
	}
	if inst.MatchedOut != nil {
		ts := inst.MatchedOut.Timestamp
		rec.ActualTimeOut = &ts
		if inst.MatchedOut.Site != "" {
			site := inst.MatchedOut.Site
			rec.SiteOut = &site
		}
	}
	if rec.SiteIn != nil && rec.SiteOut != nil && *rec.SiteIn != *rec.SiteOut {
		rec.IsCrossSiteBio = true
	}

	switch {
	case inst.MatchedIn == nil && inst.MatchedOut == nil:
		rec.Status = attendance.StatusNCNS

	case inst.MatchedIn == nil:
		rec.Status = attendance.StatusFailedBioIn
		c.applyOutMinutes(&rec, inst)

	case inst.MatchedOut == nil:
		rec.Status = c.latenessStatus(&rec, inst)
		if rec.Status != attendance.StatusOnTime {
			secondary := attendance.StatusFailedBioOut
			rec.SecondaryStatus = &secondary
		} else {
			// On time but never clocked out: the missing scan is the
			// primary story.
			rec.Status = attendance.StatusFailedBioOut
			rec.TardyMinutes = nil
		}

	default:
		rec.Status = c.latenessStatus(&rec, inst)
		c.applyOutMinutes(&rec, inst)
	}

	return rec
}

// latenessStatus classifies the clock-in against the scheduled time-in and
// records tardy minutes on the way. The grace period shifts the decision
// thresholds' zero-point; recorded minutes are always measured from the
// scheduled time-in, not from the end of grace.
func (c *Classifier) latenessStatus(rec *attendance.Attendance, inst ShiftInstance) attendance.Status {
	lateMinutes := wholeMinutes(inst.MatchedIn.Timestamp.Sub(inst.ScheduledIn))
	effective := lateMinutes - inst.Schedule.GracePeriodMinutes
	if effective < 1 {
		return attendance.StatusOnTime
	}
	rec.TardyMinutes = &lateMinutes

	if effective <= c.cfg.TardyCeiling {
		return attendance.StatusTardy
	}
	return attendance.StatusHalfDayAbsence
}

// applyOutMinutes records undertime or overtime from the clock-out. Leaving
// even a minute early is undertime; overtime is only recorded past the
// threshold and stays unapproved until an admin signs off.
func (c *Classifier) applyOutMinutes(rec *attendance.Attendance, inst ShiftInstance) {
	out := inst.MatchedOut.Timestamp
	if out.Before(inst.ScheduledOut) {
		under := wholeMinutes(inst.ScheduledOut.Sub(out))
		if under >= 1 {
			rec.UndertimeMinutes = &under
		}
		return
	}

	over := wholeMinutes(out.Sub(inst.ScheduledOut))
	if over > c.cfg.OvertimeThreshold {
		rec.OvertimeMinutes = &over
	}
}

func wholeMinutes(d time.Duration) int {
	return int(d / time.Minute)
}
