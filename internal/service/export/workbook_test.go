package export

import (
	"testing"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []attendance.Attendance {
	name := "John Dela Cruz"
	campaign := "Voice"
	siteIn := "makati"
	tardy := 20
	secondary := attendance.StatusFailedBioOut
	in := time.Date(2024, 3, 1, 22, 20, 0, 0, time.UTC)

	return []attendance.Attendance{
		{
			UserID:           "u1",
			EmployeeName:     &name,
			Campaign:         &campaign,
			ShiftDate:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			ScheduledTimeIn:  time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC),
			ScheduledTimeOut: time.Date(2024, 3, 2, 6, 0, 0, 0, time.UTC),
			ActualTimeIn:     &in,
			SiteIn:           &siteIn,
			Status:           attendance.StatusTardy,
			SecondaryStatus:  &secondary,
			TardyMinutes:     &tardy,
		},
		{
			UserID:           "u2",
			ShiftDate:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			ScheduledTimeIn:  time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			ScheduledTimeOut: time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC),
			Status:           attendance.StatusNCNS,
		},
	}
}

func TestBuildWorkbookDataSheet(t *testing.T) {
	f, err := BuildWorkbook(sampleRows())
	require.NoError(t, err)
	defer f.Close()

	// 18 fixed columns, A through R.
	header, err := f.GetCellValue(dataSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "User ID", header)
	last, err := f.GetCellValue(dataSheet, "R1")
	require.NoError(t, err)
	assert.Equal(t, "Admin Verified", last)

	userID, _ := f.GetCellValue(dataSheet, "A2")
	assert.Equal(t, "u1", userID)
	status, _ := f.GetCellValue(dataSheet, "K2")
	assert.Equal(t, "tardy", status)
	secondary, _ := f.GetCellValue(dataSheet, "L2")
	assert.Equal(t, "failed_bio_out", secondary)
	tardy, _ := f.GetCellValue(dataSheet, "M2")
	assert.Equal(t, "20", tardy)

	// The NCNS row has no actual times or minutes.
	actualIn, _ := f.GetCellValue(dataSheet, "G3")
	assert.Equal(t, "", actualIn)
	status2, _ := f.GetCellValue(dataSheet, "K3")
	assert.Equal(t, "ncns", status2)
}

func TestBuildWorkbookStatsFormulas(t *testing.T) {
	f, err := BuildWorkbook(sampleRows())
	require.NoError(t, err)
	defer f.Close()

	formula, err := f.GetCellFormula(statsSheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, `COUNTIF(Attendance!K2:K3,"on_time")`, formula)

	tardyFormula, err := f.GetCellFormula(statsSheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, `COUNTIF(Attendance!K2:K3,"tardy")`, tardyFormula)

	sumFormula, err := f.GetCellFormula(statsSheet, "B9")
	require.NoError(t, err)
	assert.Equal(t, `SUM(Attendance!M2:M3)`, sumFormula)

	label, _ := f.GetCellValue(statsSheet, "A9")
	assert.Equal(t, "Total Tardy Minutes", label)
}

func TestBuildWorkbookEmptyRange(t *testing.T) {
	f, err := BuildWorkbook(nil)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, dataSheet)
	assert.Contains(t, sheets, statsSheet)
	assert.NotContains(t, sheets, "Sheet1")
}
