package point

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/config"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/attendance"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/point"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePointRepo is an in-memory point.PointRepository.
type fakePointRepo struct {
	points map[string]point.AttendancePoint
	nextID int
}

func newFakePointRepo() *fakePointRepo {
	return &fakePointRepo{points: make(map[string]point.AttendancePoint)}
}

func (f *fakePointRepo) Create(_ context.Context, p point.AttendancePoint) (point.AttendancePoint, error) {
	f.nextID++
	p.ID = fmt.Sprintf("p%d", f.nextID)
	f.points[p.ID] = p
	return p, nil
}

func (f *fakePointRepo) GetByID(_ context.Context, id string) (point.AttendancePoint, error) {
	p, ok := f.points[id]
	if !ok {
		return point.AttendancePoint{}, point.ErrPointNotFound
	}
	return p, nil
}

func (f *fakePointRepo) DeleteByUserAndDate(_ context.Context, userID string, shiftDate time.Time) error {
	for id, p := range f.points {
		if p.UserID == userID && p.ShiftDate.Equal(shiftDate) {
			delete(f.points, id)
		}
	}
	return nil
}

func (f *fakePointRepo) ListByUser(_ context.Context, userID string) ([]point.AttendancePoint, error) {
	var result []point.AttendancePoint
	for _, p := range f.points {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ShiftDate.Before(result[j].ShiftDate) })
	return result, nil
}

func (f *fakePointRepo) ListActiveInRange(_ context.Context, userID string, start, end time.Time) ([]point.AttendancePoint, error) {
	var result []point.AttendancePoint
	for _, p := range f.points {
		if p.UserID == userID && p.Active() && !p.ShiftDate.Before(start) && !p.ShiftDate.After(end) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ShiftDate.Before(result[j].ShiftDate) })
	return result, nil
}

func (f *fakePointRepo) Excuse(_ context.Context, id string, reason string, actor string) error {
	p, ok := f.points[id]
	if !ok || !p.Active() {
		return point.ErrPointNotActive
	}
	p.IsExcused = true
	p.ExcusedReason = &reason
	p.ExcusedBy = &actor
	f.points[id] = p
	return nil
}

func (f *fakePointRepo) ExpireDue(_ context.Context, asOf time.Time) ([]string, int, error) {
	seen := make(map[string]bool)
	var userIDs []string
	expired := 0
	for id, p := range f.points {
		if p.Active() && !p.ExpiresAt.After(asOf) {
			p.IsExpired = true
			f.points[id] = p
			expired++
			if !seen[p.UserID] {
				seen[p.UserID] = true
				userIDs = append(userIDs, p.UserID)
			}
		}
	}
	return userIDs, expired, nil
}

func (f *fakePointRepo) UpdateGbro(_ context.Context, id string, gbroExpiresAt *time.Time, eligible bool) error {
	p, ok := f.points[id]
	if !ok {
		return point.ErrPointNotFound
	}
	p.GbroExpiresAt = gbroExpiresAt
	p.EligibleForGbro = eligible
	f.points[id] = p
	return nil
}

func testEngine(repo point.PointRepository, now time.Time) *engine {
	return &engine{
		cfg:  config.PointsConfig{ExpiryDays: 180, GbroWindowDays: 90, UndertimeMinMinutes: 60},
		repo: repo,
		now:  func() time.Time { return now },
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func shift(userID string, day time.Time, status attendance.Status) attendance.Attendance {
	return attendance.Attendance{UserID: userID, ShiftDate: day, Status: status}
}

func TestRegenerateCreatesPointPerStatus(t *testing.T) {
	repo := newFakePointRepo()
	e := testEngine(repo, date(2024, 3, 10))
	ctx := context.Background()

	cases := []struct {
		status     attendance.Status
		wantType   point.PointType
		wantPoints float64
	}{
		{attendance.StatusNCNS, point.PointTypeNCNS, 1.0},
		{attendance.StatusHalfDayAbsence, point.PointTypeHalfDay, 0.5},
		{attendance.StatusTardy, point.PointTypeTardy, 0.25},
	}

	for i, tc := range cases {
		day := date(2024, 3, 1).AddDate(0, 0, i)
		created, err := e.Regenerate(ctx, shift("u1", day, tc.status))
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, tc.wantType, created.PointType)
		assert.Equal(t, tc.wantPoints, created.Points)
		assert.Equal(t, day.AddDate(0, 0, 180), created.ExpiresAt)
	}
}

func TestRegenerateOnTimeCreatesNothing(t *testing.T) {
	repo := newFakePointRepo()
	e := testEngine(repo, date(2024, 3, 10))

	created, err := e.Regenerate(context.Background(), shift("u1", date(2024, 3, 1), attendance.StatusOnTime))
	require.NoError(t, err)
	assert.Nil(t, created)
	assert.Empty(t, repo.points)
}

func TestRegenerateUndertimePoint(t *testing.T) {
	repo := newFakePointRepo()
	e := testEngine(repo, date(2024, 3, 10))
	ctx := context.Background()

	att := shift("u1", date(2024, 3, 1), attendance.StatusOnTime)
	att.UndertimeMinutes = intPtr(75)
	created, err := e.Regenerate(ctx, att)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, point.PointTypeUndertime, created.PointType)
	assert.Equal(t, 0.25, created.Points)

	// Below the minimum shortfall no point accrues.
	att2 := shift("u1", date(2024, 3, 2), attendance.StatusOnTime)
	att2.UndertimeMinutes = intPtr(30)
	created, err = e.Regenerate(ctx, att2)
	require.NoError(t, err)
	assert.Nil(t, created)
}

func TestRegenerateStatusChangeDeletesStalePoint(t *testing.T) {
	repo := newFakePointRepo()
	e := testEngine(repo, date(2024, 3, 10))
	ctx := context.Background()
	day := date(2024, 3, 1)

	created, err := e.Regenerate(ctx, shift("u1", day, attendance.StatusTardy))
	require.NoError(t, err)
	require.NotNil(t, created)

	// The shift was corrected to on-time: the tardy point disappears and
	// nothing replaces it.
	created, err = e.Regenerate(ctx, shift("u1", day, attendance.StatusOnTime))
	require.NoError(t, err)
	assert.Nil(t, created)
	assert.Empty(t, repo.points)
}

func TestExcuseRequiresReasonAndActor(t *testing.T) {
	repo := newFakePointRepo()
	e := testEngine(repo, date(2024, 3, 10))
	ctx := context.Background()

	assert.ErrorIs(t, e.Excuse(ctx, "p1", "", "admin"), point.ErrExcuseNoReason)
	assert.ErrorIs(t, e.Excuse(ctx, "p1", "approved leave", ""), point.ErrExcuseNoActor)
}

func TestExcuseIsTerminal(t *testing.T) {
	repo := newFakePointRepo()
	e := testEngine(repo, date(2024, 3, 10))
	ctx := context.Background()

	created, err := e.Regenerate(ctx, shift("u1", date(2024, 3, 1), attendance.StatusNCNS))
	require.NoError(t, err)

	require.NoError(t, e.Excuse(ctx, created.ID, "approved sick leave", "admin-1"))

	p, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, p.IsExcused)
	require.NotNil(t, p.ExcusedReason)
	assert.Equal(t, "approved sick leave", *p.ExcusedReason)

	// A second excusal hits the terminal state.
	assert.ErrorIs(t, e.Excuse(ctx, created.ID, "again", "admin-1"), point.ErrPointNotActive)
}

func TestExcuseRangeCoversLeaveWindow(t *testing.T) {
	repo := newFakePointRepo()
	e := testEngine(repo, date(2024, 3, 20))
	ctx := context.Background()

	for _, day := range []time.Time{date(2024, 3, 1), date(2024, 3, 2), date(2024, 3, 15)} {
		_, err := e.Regenerate(ctx, shift("u1", day, attendance.StatusNCNS))
		require.NoError(t, err)
	}

	excused, err := e.ExcuseRange(ctx, "u1", date(2024, 3, 1), date(2024, 3, 3), "approved leave", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 2, excused)

	points, _ := repo.ListByUser(ctx, "u1")
	active := 0
	for _, p := range points {
		if p.Active() {
			active++
		}
	}
	assert.Equal(t, 1, active)
}

func TestExpireDuePoints(t *testing.T) {
	repo := newFakePointRepo()
	e := testEngine(repo, date(2024, 9, 1))
	ctx := context.Background()

	// Shift on 2024-03-01 expires 180 days later, before 2024-09-01.
	_, err := e.Regenerate(ctx, shift("u1", date(2024, 3, 1), attendance.StatusNCNS))
	require.NoError(t, err)
	// Shift on 2024-08-01 is still live.
	_, err = e.Regenerate(ctx, shift("u1", date(2024, 8, 1), attendance.StatusTardy))
	require.NoError(t, err)

	expired, err := e.ExpireDuePoints(ctx, date(2024, 9, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	points, _ := repo.ListByUser(ctx, "u1")
	require.Len(t, points, 2)
	assert.True(t, points[0].IsExpired)
	assert.False(t, points[1].IsExpired)
}

func TestRecalculateChainsViolationsWithinWindow(t *testing.T) {
	repo := newFakePointRepo()
	// 2024-06-01: the Jan-Feb chain has fully elapsed, the May point's
	// window has not.
	e := testEngine(repo, date(2024, 6, 1))
	ctx := context.Background()

	// Two points 30 days apart chain; a third 90+ days after the second
	// starts a fresh chain.
	for _, tc := range []struct {
		day    time.Time
		status attendance.Status
	}{
		{date(2024, 1, 1), attendance.StatusNCNS},
		{date(2024, 1, 31), attendance.StatusTardy},
		{date(2024, 5, 20), attendance.StatusTardy},
	} {
		_, err := e.Regenerate(ctx, shift("u1", tc.day, tc.status))
		require.NoError(t, err)
	}

	points, _ := repo.ListByUser(ctx, "u1")
	require.Len(t, points, 3)

	// First chain: both points share the chain's final expiry, 90 days
	// after the second violation.
	wantFirstChain := date(2024, 1, 31).AddDate(0, 0, 90)
	require.NotNil(t, points[0].GbroExpiresAt)
	require.NotNil(t, points[1].GbroExpiresAt)
	assert.Equal(t, wantFirstChain, *points[0].GbroExpiresAt)
	assert.Equal(t, wantFirstChain, *points[1].GbroExpiresAt)
	assert.True(t, points[0].EligibleForGbro)
	assert.True(t, points[1].EligibleForGbro)

	// Second chain: still inside its window.
	wantSecondChain := date(2024, 5, 20).AddDate(0, 0, 90)
	require.NotNil(t, points[2].GbroExpiresAt)
	assert.Equal(t, wantSecondChain, *points[2].GbroExpiresAt)
	assert.False(t, points[2].EligibleForGbro)
}

func TestRecalculateDropsExcusedPointsFromReplay(t *testing.T) {
	repo := newFakePointRepo()
	e := testEngine(repo, date(2024, 6, 1))
	ctx := context.Background()

	first, err := e.Regenerate(ctx, shift("u1", date(2024, 1, 1), attendance.StatusNCNS))
	require.NoError(t, err)
	_, err = e.Regenerate(ctx, shift("u1", date(2024, 2, 1), attendance.StatusTardy))
	require.NoError(t, err)

	// Excusing the first point leaves the second alone as its own chain.
	require.NoError(t, e.Excuse(ctx, first.ID, "approved leave", "admin-1"))

	points, _ := repo.ListByUser(ctx, "u1")
	require.Len(t, points, 2)

	assert.Nil(t, points[0].GbroExpiresAt)
	assert.False(t, points[0].EligibleForGbro)

	want := date(2024, 2, 1).AddDate(0, 0, 90)
	require.NotNil(t, points[1].GbroExpiresAt)
	assert.Equal(t, want, *points[1].GbroExpiresAt)
	assert.True(t, points[1].EligibleForGbro)
}

func intPtr(v int) *int { return &v }
