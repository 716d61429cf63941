package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/attendance"
	"github.com/shiftops-ph/timeclock-backend-go/internal/handler/http/response"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/progress"
	"github.com/shiftops-ph/timeclock-backend-go/internal/service/export"
)

type ExportHandler interface {
	ExportAttendance(w http.ResponseWriter, r *http.Request)
	JobProgress(w http.ResponseWriter, r *http.Request)
}

type exportHandlerImpl struct {
	exportService *export.Service
	tracker       *progress.Tracker
}

func NewExportHandler(exportService *export.Service, tracker *progress.Tracker) ExportHandler {
	return &exportHandlerImpl{exportService: exportService, tracker: tracker}
}

// ExportAttendance implements ExportHandler.
func (h *exportHandlerImpl) ExportAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendance.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	jobID, err := h.exportService.ExportAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Accepted(w, "Export started", map[string]string{"job_id": jobID})
}

// JobProgress implements ExportHandler. Shared by every dispatched job:
// exports and reprocessing both report here.
func (h *exportHandlerImpl) JobProgress(w http.ResponseWriter, r *http.Request) {
	status, ok := h.tracker.Get(chi.URLParam(r, "id"))
	if !ok {
		response.NotFound(w, "Job not found")
		return
	}
	response.Success(w, status)
}
