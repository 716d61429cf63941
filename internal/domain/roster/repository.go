package roster

import "context"

// EmployeeRepository defines data access for roster employees.
type EmployeeRepository interface {
	// GetByID retrieves a single employee.
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActive retrieves every active employee. Used to build the
	// normalized-name index that bridges device names to the roster.
	ListActive(ctx context.Context) ([]Employee, error)

	// ListByIDs retrieves the given employees, silently skipping unknown IDs.
	ListByIDs(ctx context.Context, ids []string) ([]Employee, error)
}
