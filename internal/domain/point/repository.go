package point

import (
	"context"
	"time"
)

// PointRepository defines data access for attendance points.
type PointRepository interface {
	// Create inserts one point.
	Create(ctx context.Context, p AttendancePoint) (AttendancePoint, error)

	// GetByID retrieves one point.
	GetByID(ctx context.Context, id string) (AttendancePoint, error)

	// DeleteByUserAndDate removes the point tied to (user, shift_date).
	// Missing rows are not an error; regeneration always starts here.
	DeleteByUserAndDate(ctx context.Context, userID string, shiftDate time.Time) error

	// ListByUser retrieves every point of a user in shift_date order.
	ListByUser(ctx context.Context, userID string) ([]AttendancePoint, error)

	// ListActiveInRange retrieves a user's active points with shift_date in
	// [start, end].
	ListActiveInRange(ctx context.Context, userID string, start, end time.Time) ([]AttendancePoint, error)

	// Excuse marks a point excused with reason and actor.
	Excuse(ctx context.Context, id string, reason string, actor string) error

	// ExpireDue marks every active point with expires_at <= asOf expired and
	// returns the affected user IDs plus the number of rows expired.
	ExpireDue(ctx context.Context, asOf time.Time) ([]string, int, error)

	// UpdateGbro rewrites the recalculated GBRO fields of one point.
	UpdateGbro(ctx context.Context, id string, gbroExpiresAt *time.Time, eligible bool) error
}
