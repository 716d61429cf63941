package scan

import "time"

// ScanEvent is one raw biometric tap as reported by a device log. Events are
// immutable once imported; reconciliation and anomaly detection only ever
// read them.
type ScanEvent struct {
	ID           string
	EmployeeKey  string // normalized name, empty when unmatched
	DeviceUserID string
	RawName      string
	Timestamp    time.Time
	SourceDevice string
	Site         string
	CreatedAt    time.Time
}
