package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/point"
	"github.com/shiftops-ph/timeclock-backend-go/internal/handler/http/response"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/jwt"
)

type PointHandler interface {
	ListByUser(w http.ResponseWriter, r *http.Request)
	Excuse(w http.ResponseWriter, r *http.Request)
	Expire(w http.ResponseWriter, r *http.Request)
}

type pointHandlerImpl struct {
	pointEngine point.PointEngine
	jwtService  jwt.Service
}

func NewPointHandler(pointEngine point.PointEngine, jwtService jwt.Service) PointHandler {
	return &pointHandlerImpl{pointEngine: pointEngine, jwtService: jwtService}
}

// ListByUser implements PointHandler.
func (h *pointHandlerImpl) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		response.BadRequest(w, "user_id is required", nil)
		return
	}

	points, err := h.pointEngine.ListByUser(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, points)
}

// Excuse implements PointHandler.
func (h *pointHandlerImpl) Excuse(w http.ResponseWriter, r *http.Request) {
	actor, err := h.jwtService.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req point.ExcuseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.pointEngine.Excuse(r.Context(), req.ID, req.Reason, actor); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance point excused", nil)
}

// Expire implements PointHandler. Normally the scheduler runs the sweep;
// this endpoint exists for operators to force it.
func (h *pointHandlerImpl) Expire(w http.ResponseWriter, r *http.Request) {
	expired, err := h.pointEngine.ExpireDuePoints(r.Context(), time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Expiry sweep completed", map[string]int{"points_expired": expired})
}
