package reconcile

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = "1\t7\t101\tJOHN  DELA CRUZ\t0\t2024-03-01  21:58:12\n" +
	"2\t7\t102\tMaria Santos\t1\t2024-03-01 22:01:45\n" +
	"3\t7\t101\tJOHN  DELA CRUZ\t1\t2024-03-02 06:10:03\n" +
	"garbage line without tabs\n" +
	"5\t7\t103\t\t0\t2024-03-01 22:05:00\n" +
	"6\t7\t104\tPedro Penduko\t0\tnot-a-date\n"

func TestParseScanLog(t *testing.T) {
	result, err := ParseScanLog(strings.NewReader(sampleLog))
	require.NoError(t, err)

	assert.Equal(t, 6, result.RowsRead)
	assert.Equal(t, 3, result.SkippedLines)
	require.Len(t, result.Lines, 3)

	first := result.Lines[0]
	assert.Equal(t, "7", first.DeviceNo)
	assert.Equal(t, "101", first.DeviceUserID)
	assert.Equal(t, "JOHN  DELA CRUZ", first.RawName)
	// Device firmware doubles whitespace inside the datetime column.
	assert.Equal(t, time.Date(2024, 3, 1, 21, 58, 12, 0, time.UTC), first.Timestamp)

	assert.Equal(t, "Maria Santos", result.Lines[1].RawName)
	assert.Equal(t, time.Date(2024, 3, 2, 6, 10, 3, 0, time.UTC), result.Lines[2].Timestamp)
}

func TestParseScanLogSkipsBlankLines(t *testing.T) {
	result, err := ParseScanLog(strings.NewReader("\n\n1\t7\t101\tJohn Cruz\t0\t2024-03-01 09:00:00\n\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, result.RowsRead)
	assert.Equal(t, 0, result.SkippedLines)
	require.Len(t, result.Lines, 1)
}

func TestToEventsAttributesAndRetainsUnmatched(t *testing.T) {
	result, err := ParseScanLog(strings.NewReader(sampleLog))
	require.NoError(t, err)

	events := result.ToEvents("makati", func(rawName string) (string, bool) {
		if strings.Contains(strings.ToLower(rawName), "john") {
			return "john dela cruz", true
		}
		return "", false
	})

	require.Len(t, events, 3)
	assert.Equal(t, "john dela cruz", events[0].EmployeeKey)
	assert.Equal(t, "makati", events[0].Site)
	assert.Equal(t, "7", events[0].SourceDevice)

	// Unmatched names keep their event, just without an employee key.
	assert.Equal(t, "", events[1].EmployeeKey)
	assert.Equal(t, "Maria Santos", events[1].RawName)
}
