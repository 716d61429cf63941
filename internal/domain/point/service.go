package point

import (
	"context"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/attendance"
)

// PointEngine converts classified shifts into attendance points and manages
// the point lifecycle. Points are best-effort derived state: a failure here
// is logged and never rolls back the parent attendance write.
type PointEngine interface {
	// Regenerate deletes any point tied to the shift's (user, shift_date)
	// and creates a fresh one when the current status triggers points.
	Regenerate(ctx context.Context, att attendance.Attendance) (*AttendancePoint, error)

	// Excuse terminally excuses an active point and recalculates the user's
	// GBRO windows.
	Excuse(ctx context.Context, id string, reason string, actor string) error

	// ExcuseRange excuses every active point of the user with shift_date in
	// [start, end]. Used by the leave-approval bridge. Returns the count.
	ExcuseRange(ctx context.Context, userID string, start, end time.Time, reason string, actor string) (int, error)

	// ExpireDuePoints expires points past their expiry date and recalculates
	// every affected user. Returns the number expired.
	ExpireDuePoints(ctx context.Context, asOf time.Time) (int, error)

	// Recalculate replays the user's point history in date order and
	// recomputes the GBRO eligibility windows.
	Recalculate(ctx context.Context, userID string) error

	// ListByUser returns the user's points in shift_date order.
	ListByUser(ctx context.Context, userID string) ([]PointResponse, error)
}
