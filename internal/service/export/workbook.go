package export

import (
	"fmt"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

const (
	dataSheet  = "Attendance"
	statsSheet = "Statistics"
)

// The data sheet carries exactly these 18 columns; the statistics sheet's
// formulas reference the status and minutes columns by letter, so the layout
// is fixed.
var dataHeaders = []string{
	"User ID",            // A
	"Employee Name",      // B
	"Campaign",           // C
	"Shift Date",         // D
	"Scheduled Time In",  // E
	"Scheduled Time Out", // F
	"Actual Time In",     // G
	"Actual Time Out",    // H
	"Site In",            // I
	"Site Out",           // J
	"Status",             // K
	"Secondary Status",   // L
	"Tardy Minutes",      // M
	"Undertime Minutes",  // N
	"Overtime Minutes",   // O
	"OT Approved",        // P
	"Cross-Site Bio",     // Q
	"Admin Verified",     // R
}

const (
	statusCol    = "K"
	tardyCol     = "M"
	undertimeCol = "N"
	overtimeCol  = "O"
)

// BuildWorkbook renders the attendance rows into a two-sheet workbook: the
// raw data sheet and a formula-driven statistics sheet that recomputes when
// operators edit the data sheet.
func BuildWorkbook(rows []attendance.Attendance) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(dataSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create data sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for col, header := range dataHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(dataSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		f.SetCellStyle(dataSheet, "A1", "R1", headerStyle)
	}

	for i, row := range rows {
		if err := writeDataRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := writeStatsSheet(f, len(rows)); err != nil {
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func writeDataRow(f *excelize.File, rowNum int, row attendance.Attendance) error {
	values := []any{
		row.UserID,
		strOrEmpty(row.EmployeeName),
		strOrEmpty(row.Campaign),
		row.ShiftDate.Format("2006-01-02"),
		row.ScheduledTimeIn.Format("2006-01-02 15:04:05"),
		row.ScheduledTimeOut.Format("2006-01-02 15:04:05"),
		timeOrEmpty(row.ActualTimeIn),
		timeOrEmpty(row.ActualTimeOut),
		strOrEmpty(row.SiteIn),
		strOrEmpty(row.SiteOut),
		string(row.Status),
		secondaryOrEmpty(row.SecondaryStatus),
		intOrNil(row.TardyMinutes),
		intOrNil(row.UndertimeMinutes),
		intOrNil(row.OvertimeMinutes),
		row.OvertimeApproved,
		row.IsCrossSiteBio,
		row.AdminVerified,
	}

	for col, value := range values {
		if value == nil {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
		if err := f.SetCellValue(dataSheet, cell, value); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}

// writeStatsSheet lays out COUNTIF/SUM formulas over the data sheet. The
// formulas reference column ranges, not values, so the numbers follow any
// manual correction an operator makes in the exported file.
func writeStatsSheet(f *excelize.File, dataRows int) error {
	if _, err := f.NewSheet(statsSheet); err != nil {
		return fmt.Errorf("failed to create statistics sheet: %w", err)
	}

	lastRow := dataRows + 1
	statusRange := fmt.Sprintf("%s!%s2:%s%d", dataSheet, statusCol, statusCol, lastRow)
	sumRange := func(col string) string {
		return fmt.Sprintf("%s!%s2:%s%d", dataSheet, col, col, lastRow)
	}

	lines := []struct {
		label   string
		formula string
	}{
		{"Total Shifts", fmt.Sprintf("COUNTA(%s)", statusRange)},
		{"On Time", fmt.Sprintf("COUNTIF(%s,%q)", statusRange, attendance.StatusOnTime)},
		{"Tardy", fmt.Sprintf("COUNTIF(%s,%q)", statusRange, attendance.StatusTardy)},
		{"Half-Day Absence", fmt.Sprintf("COUNTIF(%s,%q)", statusRange, attendance.StatusHalfDayAbsence)},
		{"NCNS", fmt.Sprintf("COUNTIF(%s,%q)", statusRange, attendance.StatusNCNS)},
		{"Failed Bio In", fmt.Sprintf("COUNTIF(%s,%q)", statusRange, attendance.StatusFailedBioIn)},
		{"Failed Bio Out", fmt.Sprintf("COUNTIF(%s,%q)", statusRange, attendance.StatusFailedBioOut)},
		{"Total Tardy Minutes", fmt.Sprintf("SUM(%s)", sumRange(tardyCol))},
		{"Total Undertime Minutes", fmt.Sprintf("SUM(%s)", sumRange(undertimeCol))},
		{"Total Overtime Minutes", fmt.Sprintf("SUM(%s)", sumRange(overtimeCol))},
	}

	if err := f.SetCellValue(statsSheet, "A1", "Metric"); err != nil {
		return err
	}
	if err := f.SetCellValue(statsSheet, "B1", "Value"); err != nil {
		return err
	}
	for i, line := range lines {
		row := i + 2
		if err := f.SetCellValue(statsSheet, fmt.Sprintf("A%d", row), line.label); err != nil {
			return err
		}
		if err := f.SetCellFormula(statsSheet, fmt.Sprintf("B%d", row), line.formula); err != nil {
			return fmt.Errorf("failed to write formula for %s: %w", line.label, err)
		}
	}

	return nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func secondaryOrEmpty(s *attendance.Status) string {
	if s == nil {
		return ""
	}
	return string(*s)
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
