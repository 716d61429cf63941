package http

import (
	"net/http"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/anomaly"
	"github.com/shiftops-ph/timeclock-backend-go/internal/handler/http/response"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/validator"
)

type AnomalyHandler interface {
	Detect(w http.ResponseWriter, r *http.Request)
}

type anomalyHandlerImpl struct {
	detector anomaly.Detector
}

func NewAnomalyHandler(detector anomaly.Detector) AnomalyHandler {
	return &anomalyHandlerImpl{detector: detector}
}

// Detect implements AnomalyHandler.
func (h *anomalyHandlerImpl) Detect(w http.ResponseWriter, r *http.Request) {
	start, end, errs := parseDateRange(r)
	if errs != nil {
		response.ValidationError(w, errs.ToMap())
		return
	}

	report, err := h.detector.Detect(r.Context(), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report)
}

func parseDateRange(r *http.Request) (time.Time, time.Time, validator.ValidationErrors) {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.URL.Query().Get("start_date"))
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}
	end, okEnd := validator.IsValidDate(r.URL.Query().Get("end_date"))
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	}
	if okStart && okEnd && start.After(end) {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must not be after end_date"})
	}

	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}
	return start, end, nil
}
