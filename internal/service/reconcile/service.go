package reconcile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shiftops-ph/timeclock-backend-go/internal/config"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/attendance"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/point"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/roster"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/scan"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/schedule"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/database"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/jobs"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/progress"
	"github.com/shiftops-ph/timeclock-backend-go/internal/repository/postgresql"
	"github.com/shiftops-ph/timeclock-backend-go/internal/service/identity"
)

type service struct {
	db           *database.DB
	scanRepo     scan.ScanEventRepository
	attRepo      attendance.AttendanceRepository
	scheduleRepo schedule.ScheduleRepository
	identity     *identity.Service
	points       point.PointEngine
	grouper      *Grouper
	classifier   *Classifier
	scheduler    *jobs.Scheduler
	tracker      *progress.Tracker
}

func NewService(
	cfg config.ProcessingConfig,
	db *database.DB,
	scanRepo scan.ScanEventRepository,
	attRepo attendance.AttendanceRepository,
	scheduleRepo schedule.ScheduleRepository,
	identitySvc *identity.Service,
	points point.PointEngine,
	scheduler *jobs.Scheduler,
	tracker *progress.Tracker,
) attendance.ReconcileService {
	return &service{
		db:           db,
		scanRepo:     scanRepo,
		attRepo:      attRepo,
		scheduleRepo: scheduleRepo,
		identity:     identitySvc,
		points:       points,
		grouper: NewGrouper(GrouperConfig{
			Lookback:    time.Duration(cfg.LookbackMinutes) * time.Minute,
			Egress:      time.Duration(cfg.EgressMinutes) * time.Minute,
			TapCollapse: time.Duration(cfg.TapCollapseMinutes) * time.Minute,
		}),
		classifier: NewClassifier(ClassifierConfig{
			TardyCeiling:      cfg.TardyCeilingMinutes,
			OvertimeThreshold: cfg.OvertimeThresholdMinutes,
		}),
		scheduler: scheduler,
		tracker:   tracker,
	}
}

// ImportScanLog implements attendance.ReconcileService.
func (s *service) ImportScanLog(ctx context.Context, req scan.ImportRequest, file io.Reader) (scan.ImportSummary, error) {
	if err := req.Validate(); err != nil {
		return scan.ImportSummary{}, err
	}

	ix, err := s.identity.BuildIndex(ctx)
	if err != nil {
		return scan.ImportSummary{}, err
	}

	parsed, err := ParseScanLog(file)
	if err != nil {
		return scan.ImportSummary{}, fmt.Errorf("failed to read scan log: %w", err)
	}

	events := parsed.ToEvents(req.Site, func(rawName string) (string, bool) {
		emp, ok := ix.Resolve(rawName)
		if !ok {
			return "", false
		}
		return emp.NameKey(), true
	})

	inserted := 0
	if len(events) > 0 {
		inserted, err = s.scanRepo.BulkInsert(ctx, events)
		if err != nil {
			return scan.ImportSummary{}, err
		}
	}

	summary := scan.ImportSummary{
		RowsRead:       parsed.RowsRead,
		Imported:       inserted,
		SkippedLines:   parsed.SkippedLines,
		Duplicates:     len(events) - inserted,
		UnmatchedNames: ix.Unmatched(),
	}

	slog.Info("Scan log imported",
		"site", req.Site,
		"rows_read", summary.RowsRead,
		"imported", summary.Imported,
		"skipped", summary.SkippedLines,
		"duplicates", summary.Duplicates,
		"unmatched_names", len(summary.UnmatchedNames),
	)

	return summary, nil
}

// Process implements attendance.ReconcileService.
func (s *service) Process(ctx context.Context, req attendance.ProcessRequest) (attendance.ProcessResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.ProcessResult{}, err
	}
	start, end := req.Range()
	return s.runBatch(ctx, req.UserIDs, start, end, true, nil)
}

// Reprocess implements attendance.ReconcileService.
func (s *service) Reprocess(ctx context.Context, req attendance.ReprocessRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	start, end := req.Range()

	jobID := uuid.NewString()
	s.tracker.Start(jobID, "Reprocessing attendance")

	s.scheduler.Dispatch("attendance-reprocess", func(jobCtx context.Context) error {
		result, err := s.runBatch(jobCtx, req.UserIDs, start, end, req.DeleteExisting, func(done, total int) {
			s.tracker.Update(jobID, done*100/total, fmt.Sprintf("Processed %d of %d employees", done, total))
		})
		if err != nil {
			s.tracker.Fail(jobID, "Reprocessing failed")
			return err
		}
		s.tracker.Complete(jobID, fmt.Sprintf("Reprocessed %d employees, %d shifts written", result.UsersProcessed, result.ShiftsWritten), "")
		return nil
	})

	return jobID, nil
}

// runBatch groups and classifies every selected user over [start, end]. Each
// user runs in its own transaction: one failing user is recorded in the
// result and never aborts the rest. Point regeneration happens after the
// user's transaction commits and is best-effort.
func (s *service) runBatch(ctx context.Context, userIDs []string, start, end time.Time, replace bool, onProgress func(done, total int)) (attendance.ProcessResult, error) {
	employees, err := s.loadEmployees(ctx, userIDs)
	if err != nil {
		return attendance.ProcessResult{}, err
	}

	ids := make([]string, len(employees))
	for i, emp := range employees {
		ids[i] = emp.ID
	}
	versionsByUser, err := s.scheduleRepo.ListForUsers(ctx, ids)
	if err != nil {
		return attendance.ProcessResult{}, err
	}

	result := attendance.ProcessResult{Errors: make(map[string]string)}
	for i, emp := range employees {
		written, skipped, created, err := s.processUser(ctx, emp, versionsByUser[emp.ID], start, end, replace)
		if err != nil {
			slog.Error("Attendance processing failed for user", "user_id", emp.ID, "error", err)
			result.UsersFailed++
			result.Errors[emp.ID] = err.Error()
		} else {
			result.UsersProcessed++
			result.ShiftsWritten += written
			result.ShiftsSkipped += skipped
			s.regeneratePoints(ctx, created)
		}
		if onProgress != nil {
			onProgress(i+1, len(employees))
		}
	}
	if len(result.Errors) == 0 {
		result.Errors = nil
	}

	slog.Info("Attendance batch processed",
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"),
		"users_processed", result.UsersProcessed,
		"users_failed", result.UsersFailed,
		"shifts_written", result.ShiftsWritten,
		"shifts_skipped", result.ShiftsSkipped,
	)

	return result, nil
}

// processUser delete-and-replaces one user's shifts inside a transaction.
// Admin-verified rows are never deleted and their dates are never rewritten;
// with replace false every existing row is protected, not just verified ones.
func (s *service) processUser(ctx context.Context, emp roster.Employee, versions []schedule.EmployeeSchedule, start, end time.Time, replace bool) (written, skipped int, created []attendance.Attendance, err error) {
	if len(versions) == 0 {
		return 0, 0, nil, schedule.ErrNoActiveSchedule
	}

	// Overnight shifts clock out past the range's last day; the capture
	// window extends further still.
	scanStart := start.Add(-s.grouper.cfg.Lookback)
	scanEnd := end.Add(24*time.Hour + s.grouper.cfg.Egress + time.Hour)
	events, err := s.scanRepo.ListByKeyRange(ctx, emp.NameKey(), scanStart, scanEnd)
	if err != nil {
		return 0, 0, nil, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		existing, err := s.attRepo.ListByUserRange(txCtx, emp.ID, start, end)
		if err != nil {
			return err
		}
		protected := make(map[string]bool)
		for _, att := range existing {
			if att.AdminVerified || !replace {
				protected[att.ShiftDate.Format("2006-01-02")] = true
			}
		}

		if replace {
			if _, err := s.attRepo.DeleteUnverifiedRange(txCtx, emp.ID, start, end); err != nil {
				return err
			}
		}

		for _, inst := range s.grouper.Group(events, versions, emp.ID, emp.NameKey(), start, end) {
			if protected[inst.ReferenceDate.Format("2006-01-02")] {
				skipped++
				continue
			}
			rec, err := s.attRepo.Create(txCtx, s.classifier.Classify(inst))
			if err != nil {
				return err
			}
			created = append(created, rec)
			written++
		}
		return nil
	})
	if err != nil {
		return 0, 0, nil, err
	}

	return written, skipped, created, nil
}

// FixStatuses implements attendance.ReconcileService. It re-runs the same
// decision table as live processing over already-stored rows, reading the
// stored actual clock times instead of regrouping scans.
func (s *service) FixStatuses(ctx context.Context, req attendance.ProcessRequest) (attendance.ProcessResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.ProcessResult{}, err
	}
	start, end := req.Range()

	var rows []attendance.Attendance
	var err error
	if len(req.UserIDs) == 0 {
		rows, err = s.attRepo.ListByRange(ctx, start, end)
	} else {
		for _, userID := range req.UserIDs {
			userRows, listErr := s.attRepo.ListByUserRange(ctx, userID, start, end)
			if listErr != nil {
				err = listErr
				break
			}
			rows = append(rows, userRows...)
		}
	}
	if err != nil {
		return attendance.ProcessResult{}, err
	}

	userIDs := make([]string, 0)
	seen := make(map[string]bool)
	for _, row := range rows {
		if !seen[row.UserID] {
			seen[row.UserID] = true
			userIDs = append(userIDs, row.UserID)
		}
	}
	versionsByUser, err := s.scheduleRepo.ListForUsers(ctx, userIDs)
	if err != nil {
		return attendance.ProcessResult{}, err
	}

	result := attendance.ProcessResult{Errors: make(map[string]string)}
	touched := make(map[string]bool)
	for _, row := range rows {
		if row.AdminVerified {
			result.ShiftsSkipped++
			continue
		}

		fixed := s.reclassify(row, versionsByUser[row.UserID])
		if fixed.Status == row.Status && equalStatusPtr(fixed.SecondaryStatus, row.SecondaryStatus) &&
			equalIntPtr(fixed.TardyMinutes, row.TardyMinutes) &&
			equalIntPtr(fixed.UndertimeMinutes, row.UndertimeMinutes) &&
			equalIntPtr(fixed.OvertimeMinutes, row.OvertimeMinutes) {
			continue
		}

		if err := s.attRepo.Update(ctx, fixed); err != nil {
			slog.Error("Status fix failed", "attendance_id", row.ID, "error", err)
			result.Errors[row.UserID] = err.Error()
			continue
		}
		result.ShiftsWritten++
		touched[row.UserID] = true
		s.regeneratePoints(ctx, []attendance.Attendance{fixed})
	}

	result.UsersProcessed = len(touched)
	result.UsersFailed = len(result.Errors)
	if len(result.Errors) == 0 {
		result.Errors = nil
	}
	return result, nil
}

// reclassify rebuilds a shift instance from the stored row and runs it back
// through the classifier, preserving identity and operator decisions.
func (s *service) reclassify(row attendance.Attendance, versions []schedule.EmployeeSchedule) attendance.Attendance {
	inst := ShiftInstance{
		UserID:        row.UserID,
		ReferenceDate: row.ShiftDate,
		ScheduledIn:   row.ScheduledTimeIn,
		ScheduledOut:  row.ScheduledTimeOut,
		Warnings:      row.Warnings,
	}
	if ver := schedule.ResolveForDate(versions, row.ShiftDate); ver != nil {
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

	fixed := s.classifier.Classify(inst)
	fixed.ID = row.ID
	fixed.OvertimeApproved = row.OvertimeApproved
	fixed.AdminVerified = row.AdminVerified
	fixed.VerifiedBy = row.VerifiedBy
	fixed.EmployeeName = row.EmployeeName
	fixed.Campaign = row.Campaign
	return fixed
}

func (s *service) loadEmployees(ctx context.Context, userIDs []string) ([]roster.Employee, error) {
	if len(userIDs) == 0 {
		return s.identity.ListActive(ctx)
	}
	return s.identity.ListByIDs(ctx, userIDs)
}

// regeneratePoints derives attendance points for freshly written shifts.
// Point state is derived data: failures are logged, never propagated.
func (s *service) regeneratePoints(ctx context.Context, created []attendance.Attendance) {
	for _, att := range created {
		if _, err := s.points.Regenerate(ctx, att); err != nil {
			slog.Error("Point regeneration failed", "user_id", att.UserID, "shift_date", att.ShiftDate.Format("2006-01-02"), "error", err)
		}
	}
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalStatusPtr(a, b *attendance.Status) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
