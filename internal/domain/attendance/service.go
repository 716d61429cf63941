package attendance

import (
	"context"
	"io"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/scan"
)

// AttendanceService defines the read/verify/edit surface over classified
// shifts.
type AttendanceService interface {
	// List retrieves shifts with filters and pagination.
	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// Get retrieves one shift.
	Get(ctx context.Context, id string) (AttendanceResponse, error)

	// Verify marks a shift admin-verified. Verified rows are skipped by
	// every automated reprocessing path.
	Verify(ctx context.Context, id string, actor string) (AttendanceResponse, error)

	// Update edits actual clock times or overtime approval and re-runs
	// classification and point regeneration. Refuses verified rows.
	Update(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)
}

// ReconcileService is the reconciliation engine: scan-log ingestion, shift
// grouping and classification. Live import and reprocessing share this one
// public contract; nothing reaches into grouping internals.
type ReconcileService interface {
	// ImportScanLog parses a tab-delimited device log and stores its events.
	// Unparsable lines are counted and skipped; names matching no roster
	// entry are retained unattributed and reported in the summary.
	ImportScanLog(ctx context.Context, req scan.ImportRequest, file io.Reader) (scan.ImportSummary, error)

	// Process groups and classifies shifts for the date range. Empty UserIDs
	// means every active employee. Each user's delete-and-replace runs in
	// its own transaction; one user failing does not abort the rest.
	Process(ctx context.Context, req ProcessRequest) (ProcessResult, error)

	// Reprocess dispatches Process for an explicit user set as a background
	// job and returns the job ID for progress polling.
	Reprocess(ctx context.Context, req ReprocessRequest) (string, error)

	// FixStatuses re-runs classification over stored shifts in the range
	// using the same decision table as live processing. Admin-verified rows
	// are never touched.
	FixStatuses(ctx context.Context, req ProcessRequest) (ProcessResult, error)
}
