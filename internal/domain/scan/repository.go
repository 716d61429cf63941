package scan

import (
	"context"
	"time"
)

// ScanEventRepository defines data access for raw biometric events.
type ScanEventRepository interface {
	// BulkInsert stores the events, skipping exact duplicates
	// (same device user, timestamp and source device). Returns the number
	// actually inserted.
	BulkInsert(ctx context.Context, events []ScanEvent) (int, error)

	// ListByRange retrieves every event with start <= timestamp < end,
	// ordered by timestamp.
	ListByRange(ctx context.Context, start, end time.Time) ([]ScanEvent, error)

	// ListByKeyRange retrieves the events of one normalized name in the
	// range, ordered by timestamp.
	ListByKeyRange(ctx context.Context, employeeKey string, start, end time.Time) ([]ScanEvent, error)
}
