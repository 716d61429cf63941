package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for classified shifts.
type AttendanceRepository interface {
	// Create inserts one classified shift.
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetByID retrieves one shift.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndDate retrieves the shift for (user, shift_date), nil when
	// none exists.
	GetByUserAndDate(ctx context.Context, userID string, shiftDate time.Time) (*Attendance, error)

	// List retrieves shifts with filters and pagination.
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// ListByUserRange retrieves a user's shifts in [start, end], ordered by
	// shift_date.
	ListByUserRange(ctx context.Context, userID string, start, end time.Time) ([]Attendance, error)

	// ListByRange retrieves every shift in [start, end], ordered by user
	// then shift_date. Used by export.
	ListByRange(ctx context.Context, start, end time.Time) ([]Attendance, error)

	// DeleteUnverifiedRange deletes a user's shifts in [start, end], leaving
	// admin_verified rows in place. Returns the number deleted.
	DeleteUnverifiedRange(ctx context.Context, userID string, start, end time.Time) (int, error)

	// Update rewrites the mutable classification fields of one shift.
	Update(ctx context.Context, att Attendance) error

	// Verify sets admin_verified with the acting operator.
	Verify(ctx context.Context, id string, actor string) error
}
