// Package anomaly holds the transient anomaly report types. Anomalies are
// computed on demand from the raw scan stream and never persisted; results
// are advisory and surfaced to operators for manual triage.
package anomaly

import (
	"context"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/scan"
)

type Type string

const (
	TypeSimultaneousSites Type = "simultaneous_sites"
	TypeDuplicateScans    Type = "duplicate_scans"
	TypeUnusualHours      Type = "unusual_hours"
	TypeExcessiveScans    Type = "excessive_scans"
	TypeImpossibleGaps    Type = "impossible_gaps"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Anomaly struct {
	Type        Type             `json:"type"`
	Severity    Severity         `json:"severity"`
	Description string           `json:"description"`
	User        string           `json:"user"`
	Records     []scan.ScanEvent `json:"records"`
	Details     map[string]any   `json:"details,omitempty"`
}

// Report groups detected anomalies by type.
type Report map[Type][]Anomaly

// Detector runs every structural check over the raw scan stream in a date
// range, independent of shift grouping. Pure: no persisted side effects.
type Detector interface {
	Detect(ctx context.Context, start, end time.Time) (Report, error)
}
