package schedule

import "context"

// ScheduleService defines business logic for schedule versions.
type ScheduleService interface {
	// Create inserts a new active schedule version, deactivating any prior
	// version of the same user in the same transaction.
	Create(ctx context.Context, req CreateScheduleRequest) (ScheduleResponse, error)

	// ListByUser returns every version for one user, newest first.
	ListByUser(ctx context.Context, userID string) ([]ScheduleResponse, error)

	// Activate makes the given version the user's single active one.
	Activate(ctx context.Context, id string) (ScheduleResponse, error)
}
