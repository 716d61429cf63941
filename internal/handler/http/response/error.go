package response

import (
	"errors"
	"net/http"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/attendance"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/point"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/roster"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/schedule"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrRecordVerified):
		Conflict(w, "Attendance record is admin verified")
	case errors.Is(err, attendance.ErrInvalidDateRange):
		BadRequest(w, "Invalid date range", nil)
	case errors.Is(err, attendance.ErrNoUsersSelected):
		BadRequest(w, "At least one user must be selected", nil)

	// Roster domain errors
	case errors.Is(err, roster.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Schedule domain errors
	case errors.Is(err, schedule.ErrScheduleNotFound):
		NotFound(w, "Schedule not found")
	case errors.Is(err, schedule.ErrNoActiveSchedule):
		NotFound(w, "No active schedule for employee")

	// Point domain errors
	case errors.Is(err, point.ErrPointNotFound):
		NotFound(w, "Attendance point not found")
	case errors.Is(err, point.ErrPointNotActive):
		Conflict(w, "Attendance point is already excused or expired")
	case errors.Is(err, point.ErrExcuseNoReason), errors.Is(err, point.ErrExcuseNoActor):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
