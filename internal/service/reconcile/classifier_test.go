package reconcile

import (
	"testing"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/attendance"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/scan"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClassifier() *Classifier {
	return NewClassifier(ClassifierConfig{TardyCeiling: 15, OvertimeThreshold: 15})
}

func graveyardInstance(grace int) ShiftInstance {
	return ShiftInstance{
		UserID:        "u1",
		EmployeeKey:   "john dela cruz",
		ReferenceDate: date(2024, 3, 1),
		Schedule: schedule.EmployeeSchedule{
			ShiftType:          schedule.ShiftTypeGraveyard,
			TimeIn:             "22:00",
			TimeOut:            "06:00",
			GracePeriodMinutes: grace,
		},
		ScheduledIn:  at(2024, 3, 1, 22, 0),
		ScheduledOut: at(2024, 3, 2, 6, 0),
	}
}

func scanAt(ts time.Time, site string) *scan.ScanEvent {
	return &scan.ScanEvent{EmployeeKey: "john dela cruz", Timestamp: ts, Site: site}
}

func TestClassifyEarlyInLateOutIsOnTime(t *testing.T) {
	inst := graveyardInstance(0)
	inst.MatchedIn = scanAt(at(2024, 3, 1, 21, 58), "")
	inst.MatchedOut = scanAt(at(2024, 3, 2, 6, 10), "")

	rec := testClassifier().Classify(inst)

	assert.Equal(t, attendance.StatusOnTime, rec.Status)
	assert.Nil(t, rec.SecondaryStatus)
	require.NotNil(t, rec.ActualTimeIn)
	require.NotNil(t, rec.ActualTimeOut)
	assert.Equal(t, at(2024, 3, 1, 21, 58), *rec.ActualTimeIn)
	assert.Equal(t, at(2024, 3, 2, 6, 10), *rec.ActualTimeOut)
	assert.Nil(t, rec.TardyMinutes)
	assert.Nil(t, rec.UndertimeMinutes)
	// 10 minutes over is below the overtime threshold.
	assert.Nil(t, rec.OvertimeMinutes)
}

func TestClassifyInOnlyTardyWithFailedBioOut(t *testing.T) {
	inst := graveyardInstance(5)
	inst.MatchedIn = scanAt(at(2024, 3, 1, 22, 20), "")

	rec := testClassifier().Classify(inst)

	assert.Equal(t, attendance.StatusTardy, rec.Status)
	require.NotNil(t, rec.SecondaryStatus)
	assert.Equal(t, attendance.StatusFailedBioOut, *rec.SecondaryStatus)
	require.NotNil(t, rec.TardyMinutes)
	assert.Equal(t, 20, *rec.TardyMinutes)
	assert.Nil(t, rec.ActualTimeOut)
}

func TestClassifyNoScansIsNCNS(t *testing.T) {
	rec := testClassifier().Classify(graveyardInstance(0))

	assert.Equal(t, attendance.StatusNCNS, rec.Status)
	assert.Nil(t, rec.SecondaryStatus)
	assert.Nil(t, rec.ActualTimeIn)
	assert.Nil(t, rec.ActualTimeOut)
}

func TestClassifyOutOnlyIsFailedBioIn(t *testing.T) {
	inst := graveyardInstance(0)
	inst.MatchedOut = scanAt(at(2024, 3, 2, 6, 2), "")

	rec := testClassifier().Classify(inst)

	assert.Equal(t, attendance.StatusFailedBioIn, rec.Status)
	assert.Nil(t, rec.SecondaryStatus)
	assert.Nil(t, rec.ActualTimeIn)
	require.NotNil(t, rec.ActualTimeOut)
}

func TestClassifyInOnlyOnTimeBecomesFailedBioOut(t *testing.T) {
	inst := graveyardInstance(0)
	inst.MatchedIn = scanAt(at(2024, 3, 1, 21, 55), "")

	rec := testClassifier().Classify(inst)

	assert.Equal(t, attendance.StatusFailedBioOut, rec.Status)
	assert.Nil(t, rec.SecondaryStatus)
	assert.Nil(t, rec.TardyMinutes)
}

func TestClassifyTardyThresholds(t *testing.T) {
	cases := []struct {
		name       string
		grace      int
		clockIn    time.Time
		wantStatus attendance.Status
		wantTardy  *int
	}{
		{"exactly on time", 0, at(2024, 3, 1, 22, 0), attendance.StatusOnTime, nil},
		{"one minute late", 0, at(2024, 3, 1, 22, 1), attendance.StatusTardy, intPtr(1)},
		{"fifteen minutes late", 0, at(2024, 3, 1, 22, 15), attendance.StatusTardy, intPtr(15)},
		{"sixteen minutes late", 0, at(2024, 3, 1, 22, 16), attendance.StatusHalfDayAbsence, intPtr(16)},
		{"within grace", 10, at(2024, 3, 1, 22, 10), attendance.StatusOnTime, nil},
		{"grace shifts the ceiling", 10, at(2024, 3, 1, 22, 25), attendance.StatusTardy, intPtr(25)},
		{"beyond shifted ceiling", 10, at(2024, 3, 1, 22, 26), attendance.StatusHalfDayAbsence, intPtr(26)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inst := graveyardInstance(tc.grace)
			inst.MatchedIn = scanAt(tc.clockIn, "")
			inst.MatchedOut = scanAt(at(2024, 3, 2, 6, 0), "")

			rec := testClassifier().Classify(inst)

			assert.Equal(t, tc.wantStatus, rec.Status)
			assert.Nil(t, rec.SecondaryStatus)
			if tc.wantTardy == nil {
				assert.Nil(t, rec.TardyMinutes)
			} else {
				require.NotNil(t, rec.TardyMinutes)
				assert.Equal(t, *tc.wantTardy, *rec.TardyMinutes)
			}
		})
	}
}

func TestClassifyUndertimeAndOvertime(t *testing.T) {
	t.Run("leaving early is undertime", func(t *testing.T) {
		inst := graveyardInstance(0)
		inst.MatchedIn = scanAt(at(2024, 3, 1, 21, 58), "")
		inst.MatchedOut = scanAt(at(2024, 3, 2, 5, 30), "")

		rec := testClassifier().Classify(inst)

		require.NotNil(t, rec.UndertimeMinutes)
		assert.Equal(t, 30, *rec.UndertimeMinutes)
		assert.Nil(t, rec.OvertimeMinutes)
	})

	t.Run("overtime past the threshold", func(t *testing.T) {
		inst := graveyardInstance(0)
		inst.MatchedIn = scanAt(at(2024, 3, 1, 21, 58), "")
		inst.MatchedOut = scanAt(at(2024, 3, 2, 6, 45), "")

		rec := testClassifier().Classify(inst)

		assert.Nil(t, rec.UndertimeMinutes)
		require.NotNil(t, rec.OvertimeMinutes)
		assert.Equal(t, 45, *rec.OvertimeMinutes)
		assert.False(t, rec.OvertimeApproved)
	})

	t.Run("small overrun records nothing", func(t *testing.T) {
		inst := graveyardInstance(0)
		inst.MatchedIn = scanAt(at(2024, 3, 1, 21, 58), "")
		inst.MatchedOut = scanAt(at(2024, 3, 2, 6, 12), "")

		rec := testClassifier().Classify(inst)

		assert.Nil(t, rec.UndertimeMinutes)
		assert.Nil(t, rec.OvertimeMinutes)
	})
}

func TestClassifyCrossSiteBio(t *testing.T) {
	inst := graveyardInstance(0)
	inst.MatchedIn = scanAt(at(2024, 3, 1, 21, 58), "makati")
	inst.MatchedOut = scanAt(at(2024, 3, 2, 6, 1), "ortigas")

	rec := testClassifier().Classify(inst)

	assert.True(t, rec.IsCrossSiteBio)
	require.NotNil(t, rec.SiteIn)
	require.NotNil(t, rec.SiteOut)
	assert.Equal(t, "makati", *rec.SiteIn)
	assert.Equal(t, "ortigas", *rec.SiteOut)
}

func intPtr(v int) *int { return &v }
