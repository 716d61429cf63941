package postgresql

import (
	"context"
	"fmt"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/schedule"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type scheduleRepository struct {
	db *database.DB
}

const scheduleColumns = `
	id, user_id, campaign, site, shift_type, time_in, time_out, work_days,
	grace_period_minutes, effective_date, end_date, is_active, created_at, updated_at
`

func scanSchedule(row pgx.Row) (schedule.EmployeeSchedule, error) {
	var s schedule.EmployeeSchedule
	err := row.Scan(
		&s.ID, &s.UserID, &s.Campaign, &s.Site, &s.ShiftType, &s.TimeIn, &s.TimeOut,
		&s.WorkDays, &s.GracePeriodMinutes, &s.EffectiveDate, &s.EndDate,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements schedule.ScheduleRepository.
func (r *scheduleRepository) Create(ctx context.Context, s schedule.EmployeeSchedule) (schedule.EmployeeSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_schedules (
			user_id, campaign, site, shift_type, time_in, time_out, work_days,
			grace_period_minutes, effective_date, end_date, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.UserID, s.Campaign, s.Site, s.ShiftType, s.TimeIn, s.TimeOut, s.WorkDays,
		s.GracePeriodMinutes, s.EffectiveDate, s.EndDate, s.IsActive,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return schedule.EmployeeSchedule{}, fmt.Errorf("failed to create schedule: %w", err)
	}

	return s, nil
}

// GetByID implements schedule.ScheduleRepository.
func (r *scheduleRepository) GetByID(ctx context.Context, id string) (schedule.EmployeeSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + scheduleColumns + ` FROM employee_schedules WHERE id = $1`

	s, err := scanSchedule(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.EmployeeSchedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.EmployeeSchedule{}, fmt.Errorf("failed to get schedule by ID: %w", err)
	}

	return s, nil
}

// ListByUser implements schedule.ScheduleRepository.
func (r *scheduleRepository) ListByUser(ctx context.Context, userID string) ([]schedule.EmployeeSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + scheduleColumns + `
		FROM employee_schedules
		WHERE user_id = $1
		ORDER BY effective_date DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []schedule.EmployeeSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}

	return schedules, nil
}

// ListForUsers implements schedule.ScheduleRepository.
func (r *scheduleRepository) ListForUsers(ctx context.Context, userIDs []string) (map[string][]schedule.EmployeeSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + scheduleColumns + `
		FROM employee_schedules
		WHERE user_id = ANY($1)
		ORDER BY user_id, effective_date DESC
	`

	rows, err := q.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules for users: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]schedule.EmployeeSchedule)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		result[s.UserID] = append(result[s.UserID], s)
	}

	return result, nil
}

// DeactivateForUser implements schedule.ScheduleRepository.
func (r *scheduleRepository) DeactivateForUser(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE employee_schedules SET is_active = false, updated_at = NOW() WHERE user_id = $1 AND is_active = true`

	if _, err := q.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to deactivate schedules: %w", err)
	}

	return nil
}

// Activate implements schedule.ScheduleRepository.
func (r *scheduleRepository) Activate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE employee_schedules SET is_active = true, updated_at = NOW() WHERE id = $1 RETURNING id`

	var activatedID string
	if err := q.QueryRow(ctx, query, id).Scan(&activatedID); err != nil {
		if err == pgx.ErrNoRows {
			return schedule.ErrScheduleNotFound
		}
		return fmt.Errorf("failed to activate schedule: %w", err)
	}

	return nil
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepository{db: db}
}
