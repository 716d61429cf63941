package scan

import "github.com/shiftops-ph/timeclock-backend-go/internal/pkg/validator"

type ImportRequest struct {
	DeviceNo string `json:"device_no"`
	Site     string `json:"site"`
}

func (r *ImportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Site) {
		errs = append(errs, validator.ValidationError{Field: "site", Message: "site is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UnmatchedName is a device name that matched no roster entry. The rows are
// retained and surfaced to operators; they never block matched events.
type UnmatchedName struct {
	RawName     string `json:"raw_name"`
	Occurrences int    `json:"occurrences"`
}

// ImportSummary is what the operator sees after a scan-log upload.
type ImportSummary struct {
	RowsRead       int             `json:"rows_read"`
	Imported       int             `json:"imported"`
	SkippedLines   int             `json:"skipped_lines"`
	Duplicates     int             `json:"duplicates"`
	UnmatchedNames []UnmatchedName `json:"unmatched_names"`
}
