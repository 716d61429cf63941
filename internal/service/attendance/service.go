package attendance

import (
	"context"
	"log/slog"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/config"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/attendance"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/point"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/scan"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/schedule"
	"github.com/shiftops-ph/timeclock-backend-go/internal/service/reconcile"
)

type service struct {
	attRepo      attendance.AttendanceRepository
	scheduleRepo schedule.ScheduleRepository
	points       point.PointEngine
	classifier   *reconcile.Classifier
}

func NewService(cfg config.ProcessingConfig, attRepo attendance.AttendanceRepository, scheduleRepo schedule.ScheduleRepository, points point.PointEngine) attendance.AttendanceService {
	return &service{
		attRepo:      attRepo,
		scheduleRepo: scheduleRepo,
		points:       points,
		classifier: reconcile.NewClassifier(reconcile.ClassifierConfig{
			TardyCeiling:      cfg.TardyCeilingMinutes,
			OvertimeThreshold: cfg.OvertimeThresholdMinutes,
		}),
	}
}

// List implements attendance.AttendanceService.
func (s *service) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 25
	}

	rows, total, err := s.attRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	responses := make([]attendance.AttendanceResponse, len(rows))
	for i, row := range rows {
		responses[i] = attendance.ToResponse(row)
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		totalPages++
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Attendances: responses,
	}, nil
}

// Get implements attendance.AttendanceService.
func (s *service) Get(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	row, err := s.attRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.ToResponse(row), nil
}

// Verify implements attendance.AttendanceService. A verified row becomes a
// soft lock: every automated reprocessing path skips it from here on.
func (s *service) Verify(ctx context.Context, id string, actor string) (attendance.AttendanceResponse, error) {
	row, err := s.attRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if row.AdminVerified {
		return attendance.ToResponse(row), nil
	}

	if err := s.attRepo.Verify(ctx, id, actor); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	row.AdminVerified = true
	row.VerifiedBy = &actor
	return attendance.ToResponse(row), nil
}

// Update implements attendance.AttendanceService. Edited clock times re-run
// the full classification, and the shift's point is regenerated from the new
// status. Verified rows refuse edits.
func (s *service) Update(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	row, err := s.attRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if row.AdminVerified {
		return attendance.AttendanceResponse{}, attendance.ErrRecordVerified
	}

	if req.ActualTimeIn != nil {
		row.ActualTimeIn = parseClockOverride(*req.ActualTimeIn)
	}
	if req.ActualTimeOut != nil {
		row.ActualTimeOut = parseClockOverride(*req.ActualTimeOut)
	}

	updated := s.reclassify(ctx, row)
	if req.ApproveOT != nil {
		updated.OvertimeApproved = *req.ApproveOT
	}

	if err := s.attRepo.Update(ctx, updated); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if _, err := s.points.Regenerate(ctx, updated); err != nil {
		slog.Error("Point regeneration failed after attendance edit", "attendance_id", updated.ID, "error", err)
	}

	return attendance.ToResponse(updated), nil
}

// reclassify runs the stored row back through the decision table with its
// (possibly edited) actual clock times.
func (s *service) reclassify(ctx context.Context, row attendance.Attendance) attendance.Attendance {
	inst := reconcile.ShiftInstance{
		UserID:        row.UserID,
		ReferenceDate: row.ShiftDate,
		ScheduledIn:   row.ScheduledTimeIn,
		ScheduledOut:  row.ScheduledTimeOut,
		Warnings:      row.Warnings,
	}

	versions, err := s.scheduleRepo.ListByUser(ctx, row.UserID)
	if err != nil {
		slog.Error("Schedule lookup failed during reclassification", "user_id", row.UserID, "error", err)
	} else if ver := schedule.ResolveForDate(versions, row.ShiftDate); ver != nil {
		inst.Schedule = *ver
	}

	if row.ActualTimeIn != nil {
		ev := scan.ScanEvent{Timestamp: *row.ActualTimeIn}
		if row.SiteIn != nil {
			ev.Site = *row.SiteIn
		}
		inst.MatchedIn = &ev
	}
	if row.ActualTimeOut != nil {
		ev := scan.ScanEvent{Timestamp: *row.ActualTimeOut}
		if row.SiteOut != nil {
			ev.Site = *row.SiteOut
		}
		inst.MatchedOut = &ev
	}

	updated := s.classifier.Classify(inst)
	updated.ID = row.ID
	updated.OvertimeApproved = row.OvertimeApproved
	updated.AdminVerified = row.AdminVerified
	updated.VerifiedBy = row.VerifiedBy
	updated.EmployeeName = row.EmployeeName
	updated.Campaign = row.Campaign
	return updated
}

// parseClockOverride turns an edited timestamp string into a clock time; an
// empty string clears the scan.
func parseClockOverride(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02 15:04:05", raw)
	if err != nil {
		return nil
	}
	return &t
}
