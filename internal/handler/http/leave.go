package http

import (
	"encoding/json"
	"net/http"

	"github.com/shiftops-ph/timeclock-backend-go/internal/handler/http/response"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/jwt"
	"github.com/shiftops-ph/timeclock-backend-go/internal/service/leave"
)

type LeaveHandler interface {
	Approve(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService *leave.Service
	jwtService   jwt.Service
}

func NewLeaveHandler(leaveService *leave.Service, jwtService jwt.Service) LeaveHandler {
	return &leaveHandlerImpl{leaveService: leaveService, jwtService: jwtService}
}

// Approve implements LeaveHandler.
func (h *leaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, err := h.jwtService.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req leave.ApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.leaveService.Approve(r.Context(), req, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave approved", result)
}
