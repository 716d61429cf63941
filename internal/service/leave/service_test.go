package leave

import (
	"context"
	"testing"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/attendance"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/point"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/roster"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepo struct {
	known map[string]roster.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (roster.Employee, error) {
	emp, ok := f.known[id]
	if !ok {
		return roster.Employee{}, roster.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) ListActive(_ context.Context) ([]roster.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) ListByIDs(_ context.Context, _ []string) ([]roster.Employee, error) {
	return nil, nil
}

type fakePointEngine struct {
	excusedUser   string
	excusedStart  time.Time
	excusedEnd    time.Time
	excusedReason string
	excusedActor  string
	excusedCount  int
}

func (f *fakePointEngine) Regenerate(_ context.Context, _ attendance.Attendance) (*point.AttendancePoint, error) {
	return nil, nil
}

func (f *fakePointEngine) Excuse(_ context.Context, _ string, _ string, _ string) error {
	return nil
}

func (f *fakePointEngine) ExcuseRange(_ context.Context, userID string, start, end time.Time, reason string, actor string) (int, error) {
	f.excusedUser = userID
	f.excusedStart = start
	f.excusedEnd = end
	f.excusedReason = reason
	f.excusedActor = actor
	return f.excusedCount, nil
}

func (f *fakePointEngine) ExpireDuePoints(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

func (f *fakePointEngine) Recalculate(_ context.Context, _ string) error {
	return nil
}

func (f *fakePointEngine) ListByUser(_ context.Context, _ string) ([]point.PointResponse, error) {
	return nil, nil
}

func TestApproveExcusesPointsInRange(t *testing.T) {
	engine := &fakePointEngine{excusedCount: 2}
	svc := NewService(&fakeEmployeeRepo{known: map[string]roster.Employee{"u1": {ID: "u1"}}}, engine)

	result, err := svc.Approve(context.Background(), ApprovalRequest{
		UserID:    "u1",
		StartDate: "2024-03-01",
		EndDate:   "2024-03-05",
		Reason:    "approved sick leave, medical certificate on file",
	}, "admin-1")

	require.NoError(t, err)
	assert.Equal(t, 2, result.PointsExcused)
	assert.Equal(t, "u1", engine.excusedUser)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), engine.excusedStart)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), engine.excusedEnd)
	assert.Equal(t, "admin-1", engine.excusedActor)
}

func TestApproveUnknownEmployee(t *testing.T) {
	svc := NewService(&fakeEmployeeRepo{known: map[string]roster.Employee{}}, &fakePointEngine{})

	_, err := svc.Approve(context.Background(), ApprovalRequest{
		UserID:    "ghost",
		StartDate: "2024-03-01",
		EndDate:   "2024-03-05",
		Reason:    "leave",
	}, "admin-1")

	assert.ErrorIs(t, err, roster.ErrEmployeeNotFound)
}

func TestApproveValidation(t *testing.T) {
	svc := NewService(&fakeEmployeeRepo{}, &fakePointEngine{})

	_, err := svc.Approve(context.Background(), ApprovalRequest{
		UserID:    "",
		StartDate: "2024-03-05",
		EndDate:   "2024-03-01",
		Reason:    "",
	}, "admin-1")

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "user_id")
	assert.Contains(t, fields, "start_date")
	assert.Contains(t, fields, "reason")
}
