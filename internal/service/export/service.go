package export

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/attendance"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/jobs"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/progress"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/storage"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Service struct {
	attRepo   attendance.AttendanceRepository
	storage   storage.FileStorage
	scheduler *jobs.Scheduler
	tracker   *progress.Tracker
}

func NewService(attRepo attendance.AttendanceRepository, fileStorage storage.FileStorage, scheduler *jobs.Scheduler, tracker *progress.Tracker) *Service {
	return &Service{
		attRepo:   attRepo,
		storage:   fileStorage,
		scheduler: scheduler,
		tracker:   tracker,
	}
}

// ExportAttendance dispatches a background export of every shift in the
// range and returns the job ID for progress polling. The finished workbook
// is saved through file storage; its download URL lands on the completed
// progress record.
func (s *Service) ExportAttendance(ctx context.Context, req attendance.ProcessRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	start, end := req.Range()

	jobID := uuid.NewString()
	s.tracker.Start(jobID, "Exporting attendance")

	s.scheduler.Dispatch("attendance-export", func(jobCtx context.Context) error {
		s.tracker.Update(jobID, 10, "Loading attendance records")
		rows, err := s.attRepo.ListByRange(jobCtx, start, end)
		if err != nil {
			s.tracker.Fail(jobID, "Export failed while loading records")
			return err
		}

		s.tracker.Update(jobID, 50, fmt.Sprintf("Rendering %d shifts", len(rows)))
		workbook, err := BuildWorkbook(rows)
		if err != nil {
			s.tracker.Fail(jobID, "Export failed while rendering the workbook")
			return err
		}
		defer workbook.Close()

		buf, err := workbook.WriteToBuffer()
		if err != nil {
			s.tracker.Fail(jobID, "Export failed while encoding the workbook")
			return err
		}

		s.tracker.Update(jobID, 90, "Saving workbook")
		filename := fmt.Sprintf("exports/attendance_%s_%s_%s.xlsx", req.StartDate, req.EndDate, jobID[:8])
		path, err := s.storage.Upload(jobCtx, buf, filename, workbookContentType)
		if err != nil {
			s.tracker.Fail(jobID, "Export failed while saving the workbook")
			return err
		}

		s.tracker.Complete(jobID, fmt.Sprintf("Exported %d shifts", len(rows)), s.storage.GetURL(path))
		return nil
	})

	return jobID, nil
}
