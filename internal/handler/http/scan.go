package http

import (
	"log/slog"
	"net/http"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/attendance"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/scan"
	"github.com/shiftops-ph/timeclock-backend-go/internal/handler/http/response"
)

type ScanHandler interface {
	Import(w http.ResponseWriter, r *http.Request)
}

type scanHandlerImpl struct {
	reconcileService attendance.ReconcileService
}

func NewScanHandler(reconcileService attendance.ReconcileService) ScanHandler {
	return &scanHandlerImpl{reconcileService: reconcileService}
}

// Import implements ScanHandler. The device log comes in as a multipart
// upload with the device metadata in plain form fields.
func (h *scanHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form (max 32MB)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	req := scan.ImportRequest{
		DeviceNo: r.FormValue("device_no"),
		Site:     r.FormValue("site"),
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Scan log file is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	summary, err := h.reconcileService.ImportScanLog(r.Context(), req, file)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Scan log imported", summary)
}
