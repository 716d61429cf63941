package point

import "time"

type PointType string

const (
	PointTypeNCNS      PointType = "ncns"
	PointTypeHalfDay   PointType = "half_day_absence"
	PointTypeTardy     PointType = "tardy"
	PointTypeUndertime PointType = "undertime"
)

// AttendancePoint is derived state: its type and value are a pure function
// of the parent shift's current status. When the status changes the point is
// deleted and recreated, never patched.
type AttendancePoint struct {
	ID               string
	UserID           string
	ShiftDate        time.Time
	PointType        PointType
	Points           float64
	ViolationDetails string
	IsExcused        bool
	ExcusedReason    *string
	ExcusedBy        *string
	IsExpired        bool
	ExpiresAt        time.Time
	GbroExpiresAt    *time.Time
	EligibleForGbro  bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Active reports whether the point still counts against the employee.
func (p AttendancePoint) Active() bool {
	return !p.IsExcused && !p.IsExpired
}
