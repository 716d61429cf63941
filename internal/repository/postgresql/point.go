package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/point"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type pointRepository struct {
	db *database.DB
}

const pointColumns = `
	id, user_id, shift_date, point_type, points, violation_details,
	is_excused, excused_reason, excused_by, is_expired,
	expires_at, gbro_expires_at, eligible_for_gbro, created_at, updated_at
`

func scanPoint(row pgx.Row) (point.AttendancePoint, error) {
	var p point.AttendancePoint
	err := row.Scan(
		&p.ID, &p.UserID, &p.ShiftDate, &p.PointType, &p.Points, &p.ViolationDetails,
		&p.IsExcused, &p.ExcusedReason, &p.ExcusedBy, &p.IsExpired,
		&p.ExpiresAt, &p.GbroExpiresAt, &p.EligibleForGbro, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Create implements point.PointRepository.
func (r *pointRepository) Create(ctx context.Context, p point.AttendancePoint) (point.AttendancePoint, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_points (
			user_id, shift_date, point_type, points, violation_details,
			is_excused, is_expired, expires_at, gbro_expires_at, eligible_for_gbro
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.UserID, p.ShiftDate, p.PointType, p.Points, p.ViolationDetails,
		p.IsExcused, p.IsExpired, p.ExpiresAt, p.GbroExpiresAt, p.EligibleForGbro,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return point.AttendancePoint{}, fmt.Errorf("failed to create attendance point: %w", err)
	}

	return p, nil
}

// GetByID implements point.PointRepository.
func (r *pointRepository) GetByID(ctx context.Context, id string) (point.AttendancePoint, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + pointColumns + ` FROM attendance_points WHERE id = $1`

	p, err := scanPoint(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return point.AttendancePoint{}, point.ErrPointNotFound
		}
		return point.AttendancePoint{}, fmt.Errorf("failed to get point by ID: %w", err)
	}

	return p, nil
}

// DeleteByUserAndDate implements point.PointRepository.
func (r *pointRepository) DeleteByUserAndDate(ctx context.Context, userID string, shiftDate time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM attendance_points WHERE user_id = $1 AND shift_date = $2`

	if _, err := q.Exec(ctx, query, userID, shiftDate); err != nil {
		return fmt.Errorf("failed to delete attendance point: %w", err)
	}

	return nil
}

// ListByUser implements point.PointRepository.
func (r *pointRepository) ListByUser(ctx context.Context, userID string) ([]point.AttendancePoint, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + pointColumns + `
		FROM attendance_points
		WHERE user_id = $1
		ORDER BY shift_date
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance points: %w", err)
	}
	defer rows.Close()

	var points []point.AttendancePoint
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		points = append(points, p)
	}

	return points, nil
}

// ListActiveInRange implements point.PointRepository.
func (r *pointRepository) ListActiveInRange(ctx context.Context, userID string, start, end time.Time) ([]point.AttendancePoint, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + pointColumns + `
		FROM attendance_points
		WHERE user_id = $1 AND shift_date >= $2 AND shift_date <= $3
		  AND is_excused = false AND is_expired = false
		ORDER BY shift_date
	`

	rows, err := q.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query active points in range: %w", err)
	}
	defer rows.Close()

	var points []point.AttendancePoint
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		points = append(points, p)
	}

	return points, nil
}

// Excuse implements point.PointRepository.
func (r *pointRepository) Excuse(ctx context.Context, id string, reason string, actor string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_points
		SET is_excused = true, excused_reason = $2, excused_by = $3, updated_at = NOW()
		WHERE id = $1 AND is_excused = false AND is_expired = false
		RETURNING id
	`

	var excusedID string
	if err := q.QueryRow(ctx, query, id, reason, actor).Scan(&excusedID); err != nil {
		if err == pgx.ErrNoRows {
			return point.ErrPointNotActive
		}
		return fmt.Errorf("failed to excuse point: %w", err)
	}

	return nil
}

// ExpireDue implements point.PointRepository.
func (r *pointRepository) ExpireDue(ctx context.Context, asOf time.Time) ([]string, int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_points
		SET is_expired = true, updated_at = NOW()
		WHERE expires_at <= $1 AND is_excused = false AND is_expired = false
		RETURNING user_id
	`

	rows, err := q.Query(ctx, query, asOf)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to expire due points: %w", err)
	}
	defer rows.Close()

	expired := 0
	seen := make(map[string]struct{})
	var userIDs []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expired point user: %w", err)
		}
		expired++
		if _, ok := seen[userID]; !ok {
			seen[userID] = struct{}{}
			userIDs = append(userIDs, userID)
		}
	}

	return userIDs, expired, nil
}

// UpdateGbro implements point.PointRepository.
func (r *pointRepository) UpdateGbro(ctx context.Context, id string, gbroExpiresAt *time.Time, eligible bool) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_points
		SET gbro_expires_at = $2, eligible_for_gbro = $3, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := q.Exec(ctx, query, id, gbroExpiresAt, eligible); err != nil {
		return fmt.Errorf("failed to update GBRO fields: %w", err)
	}

	return nil
}

func NewPointRepository(db *database.DB) point.PointRepository {
	return &pointRepository{db: db}
}
