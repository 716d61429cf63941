package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrRecordVerified     = errors.New("attendance record is admin verified and cannot be modified")
	ErrInvalidDateRange   = errors.New("start date must not be after end date")
	ErrNoUsersSelected    = errors.New("at least one user must be selected")
)
