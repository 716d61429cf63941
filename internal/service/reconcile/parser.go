package reconcile

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/scan"
)

// ParsedLine is one well-formed row of a device scan log.
type ParsedLine struct {
	DeviceNo     string
	DeviceUserID string
	RawName      string
	Mode         string
	Timestamp    time.Time
}

// ParseResult carries the parsed rows plus the malformed-line count.
// Unparsable lines are never fatal to the batch.
type ParseResult struct {
	Lines        []ParsedLine
	RowsRead     int
	SkippedLines int
}

// ParseScanLog reads a tab-delimited device log with columns
// [index, device_no, device_user_id, employee_name, mode, datetime].
// The datetime column is "2006-01-02 15:04:05"; device firmware sometimes
// doubles internal whitespace, so the column is re-joined before parsing.
func ParseScanLog(r io.Reader) (ParseResult, error) {
	var result ParseResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		result.RowsRead++

		cols := strings.Split(line, "\t")
		if len(cols) < 6 {
			result.SkippedLines++
			continue
		}

		name := strings.TrimSpace(cols[3])
		ts, ok := parseDeviceTime(cols[5])
		if name == "" || !ok {
			result.SkippedLines++
			continue
		}

		result.Lines = append(result.Lines, ParsedLine{
			DeviceNo:     strings.TrimSpace(cols[1]),
			DeviceUserID: strings.TrimSpace(cols[2]),
			RawName:      name,
			Mode:         strings.TrimSpace(cols[4]),
			Timestamp:    ts,
		})
	}
	if err := scanner.Err(); err != nil {
		return result, err
	}

	return result, nil
}

func parseDeviceTime(raw string) (time.Time, bool) {
	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02 15:04:05", fields[0]+" "+fields[1])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ToEvents attributes parsed lines to employees and builds scan events.
// resolve maps a raw name to (employee key, matched); unmatched lines keep
// an empty employee key and are retained.
func (p ParseResult) ToEvents(site string, resolve func(rawName string) (string, bool)) []scan.ScanEvent {
	events := make([]scan.ScanEvent, 0, len(p.Lines))
	for _, line := range p.Lines {
		key := ""
		if k, ok := resolve(line.RawName); ok {
			key = k
		}
		events = append(events, scan.ScanEvent{
			EmployeeKey:  key,
			DeviceUserID: line.DeviceUserID,
			RawName:      line.RawName,
			Timestamp:    line.Timestamp,
			SourceDevice: line.DeviceNo,
			Site:         site,
		})
	}
	return events
}
