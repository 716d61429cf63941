package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/attendance"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	a.id, a.user_id, a.shift_date, a.scheduled_time_in, a.scheduled_time_out,
	a.actual_time_in, a.actual_time_out, a.site_in, a.site_out,
	a.status, a.secondary_status, a.tardy_minutes, a.undertime_minutes, a.overtime_minutes,
	a.overtime_approved, a.admin_verified, a.verified_by, a.is_cross_site_bio, a.warnings,
	a.created_at, a.updated_at
`

func scanAttendance(row pgx.Row, withEmployee bool) (attendance.Attendance, error) {
	var att attendance.Attendance
	dest := []interface{}{
		&att.ID, &att.UserID, &att.ShiftDate, &att.ScheduledTimeIn, &att.ScheduledTimeOut,
		&att.ActualTimeIn, &att.ActualTimeOut, &att.SiteIn, &att.SiteOut,
		&att.Status, &att.SecondaryStatus, &att.TardyMinutes, &att.UndertimeMinutes, &att.OvertimeMinutes,
		&att.OvertimeApproved, &att.AdminVerified, &att.VerifiedBy, &att.IsCrossSiteBio, &att.Warnings,
		&att.CreatedAt, &att.UpdatedAt,
	}
	if withEmployee {
		dest = append(dest, &att.EmployeeName, &att.Campaign)
	}
	err := row.Scan(dest...)
	return att, err
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			user_id, shift_date, scheduled_time_in, scheduled_time_out,
			actual_time_in, actual_time_out, site_in, site_out,
			status, secondary_status, tardy_minutes, undertime_minutes, overtime_minutes,
			overtime_approved, admin_verified, verified_by, is_cross_site_bio, warnings
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.UserID, att.ShiftDate, att.ScheduledTimeIn, att.ScheduledTimeOut,
		att.ActualTimeIn, att.ActualTimeOut, att.SiteIn, att.SiteOut,
		att.Status, att.SecondaryStatus, att.TardyMinutes, att.UndertimeMinutes, att.OvertimeMinutes,
		att.OvertimeApproved, att.AdminVerified, att.VerifiedBy, att.IsCrossSiteBio, att.Warnings,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `,
			TRIM(CONCAT(e.first_name, ' ', COALESCE(e.middle_name || ' ', ''), e.last_name)) AS employee_name,
			e.campaign
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.user_id
		WHERE a.id = $1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return att, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, shiftDate time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.user_id = $1 AND a.shift_date = $2
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, shiftDate), false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // no existing attendance
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}

	return &att, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND a.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.shift_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.shift_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	// Build query with pagination
	selectQuery := fmt.Sprintf(`
		SELECT `+attendanceColumns+`,
			TRIM(CONCAT(e.first_name, ' ', COALESCE(e.middle_name || ' ', ''), e.last_name)) AS employee_name,
			e.campaign
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.user_id
		WHERE %s
		ORDER BY a.shift_date DESC, a.user_id
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	offset := (page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, total, nil
}

// ListByUserRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUserRange(ctx context.Context, userID string, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.user_id = $1 AND a.shift_date >= $2 AND a.shift_date <= $3
		ORDER BY a.shift_date
	`

	rows, err := q.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances by user range: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, nil
}

// ListByRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByRange(ctx context.Context, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `,
			TRIM(CONCAT(e.first_name, ' ', COALESCE(e.middle_name || ' ', ''), e.last_name)) AS employee_name,
			e.campaign
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.user_id
		WHERE a.shift_date >= $1 AND a.shift_date <= $2
		ORDER BY a.user_id, a.shift_date
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances by range: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, nil
}

// DeleteUnverifiedRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) DeleteUnverifiedRange(ctx context.Context, userID string, start, end time.Time) (int, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		DELETE FROM attendances
		WHERE user_id = $1 AND shift_date >= $2 AND shift_date <= $3 AND admin_verified = false
	`

	tag, err := q.Exec(ctx, query, userID, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to delete attendances: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	updates := []string{
		"actual_time_in = $1",
		"actual_time_out = $2",
		"site_in = $3",
		"site_out = $4",
		"status = $5",
		"secondary_status = $6",
		"tardy_minutes = $7",
		"undertime_minutes = $8",
		"overtime_minutes = $9",
		"overtime_approved = $10",
		"is_cross_site_bio = $11",
		"warnings = $12",
		"updated_at = $13",
	}
	args := []interface{}{
		att.ActualTimeIn, att.ActualTimeOut, att.SiteIn, att.SiteOut,
		att.Status, att.SecondaryStatus, att.TardyMinutes, att.UndertimeMinutes,
		att.OvertimeMinutes, att.OvertimeApproved, att.IsCrossSiteBio, att.Warnings,
		time.Now(),
	}
	args = append(args, att.ID)

	query := "UPDATE attendances SET " + strings.Join(updates, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING id", len(args))

	var updatedID string
	if err := q.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to update attendance: %w", err)
	}

	return nil
}

// Verify implements attendance.AttendanceRepository.
func (a *attendanceRepository) Verify(ctx context.Context, id string, actor string) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET admin_verified = true, verified_by = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var verifiedID string
	if err := q.QueryRow(ctx, query, id, actor).Scan(&verifiedID); err != nil {
		if err == pgx.ErrNoRows {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to verify attendance: %w", err)
	}

	return nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
