package schedule

import (
	"context"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/roster"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/schedule"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/database"
	"github.com/shiftops-ph/timeclock-backend-go/internal/repository/postgresql"
)

type service struct {
	db *database.DB
	schedule.ScheduleRepository
	roster.EmployeeRepository
}

func NewService(db *database.DB, scheduleRepo schedule.ScheduleRepository, employeeRepo roster.EmployeeRepository) schedule.ScheduleService {
	return &service{
		db:                 db,
		ScheduleRepository: scheduleRepo,
		EmployeeRepository: employeeRepo,
	}
}

// Create implements schedule.ScheduleService. The new version becomes the
// user's single active one: deactivation of prior versions and the insert
// run in one transaction.
func (s *service) Create(ctx context.Context, req schedule.CreateScheduleRequest) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, req.UserID); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	var created schedule.EmployeeSchedule
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.ScheduleRepository.DeactivateForUser(txCtx, req.UserID); err != nil {
			return err
		}
		var err error
		created, err = s.ScheduleRepository.Create(txCtx, req.ToEntity())
		return err
	})
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	return schedule.ToResponse(created), nil
}

// ListByUser implements schedule.ScheduleService.
func (s *service) ListByUser(ctx context.Context, userID string) ([]schedule.ScheduleResponse, error) {
	versions, err := s.ScheduleRepository.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses := make([]schedule.ScheduleResponse, len(versions))
	for i, v := range versions {
		responses[i] = schedule.ToResponse(v)
	}
	return responses, nil
}

// Activate implements schedule.ScheduleService.
func (s *service) Activate(ctx context.Context, id string) (schedule.ScheduleResponse, error) {
	version, err := s.ScheduleRepository.GetByID(ctx, id)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.ScheduleRepository.DeactivateForUser(txCtx, version.UserID); err != nil {
			return err
		}
		return s.ScheduleRepository.Activate(txCtx, id)
	})
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	version.IsActive = true
	return schedule.ToResponse(version), nil
}
