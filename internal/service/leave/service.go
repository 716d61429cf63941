// Package leave bridges leave-approval events into the attendance point
// lifecycle. Leave itself lives in another system; all this service consumes
// is the approval event.
package leave

import (
	"context"
	"log/slog"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/point"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/roster"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/validator"
)

// ApprovalRequest is an approved-leave event with supporting documentation.
type ApprovalRequest struct {
	UserID    string `json:"user_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (r *ApprovalRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}
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
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ApprovalResult reports how many points the leave excused.
type ApprovalResult struct {
	UserID        string `json:"user_id"`
	PointsExcused int    `json:"points_excused"`
}

type Service struct {
	employeeRepo roster.EmployeeRepository
	points       point.PointEngine
}

func NewService(employeeRepo roster.EmployeeRepository, points point.PointEngine) *Service {
	return &Service{employeeRepo: employeeRepo, points: points}
}

// Approve excuses every active point the user accrued inside the leave
// window. The excusal reason carries the leave documentation reference.
func (s *Service) Approve(ctx context.Context, req ApprovalRequest, actor string) (ApprovalResult, error) {
	if err := req.Validate(); err != nil {
		return ApprovalResult{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.UserID); err != nil {
		return ApprovalResult{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	excused, err := s.points.ExcuseRange(ctx, req.UserID, start, end, req.Reason, actor)
	if err != nil {
		return ApprovalResult{}, err
	}

	slog.Info("Leave approval excused points",
		"user_id", req.UserID,
		"start", req.StartDate,
		"end", req.EndDate,
		"points_excused", excused,
	)

	return ApprovalResult{UserID: req.UserID, PointsExcused: excused}, nil
}
