package schedule

import "context"

// ScheduleRepository defines data access for employee schedule versions.
type ScheduleRepository interface {
	// Create inserts a new schedule version. When the version is active the
	// caller is responsible for running this inside a transaction together
	// with DeactivateForUser so that only one active version survives.
	Create(ctx context.Context, s EmployeeSchedule) (EmployeeSchedule, error)

	// GetByID retrieves a schedule version.
	GetByID(ctx context.Context, id string) (EmployeeSchedule, error)

	// ListByUser retrieves every version for one user, newest first.
	ListByUser(ctx context.Context, userID string) ([]EmployeeSchedule, error)

	// ListForUsers retrieves versions for the given users keyed by user ID.
	ListForUsers(ctx context.Context, userIDs []string) (map[string][]EmployeeSchedule, error)

	// DeactivateForUser clears is_active on every version of the user.
	DeactivateForUser(ctx context.Context, userID string) error

	// Activate marks one version active.
	Activate(ctx context.Context, id string) error
}
