package point

import "github.com/shiftops-ph/timeclock-backend-go/internal/pkg/validator"

type ExcuseRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

func (r *ExcuseRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PointResponse struct {
	ID               string  `json:"id"`
	UserID           string  `json:"user_id"`
	ShiftDate        string  `json:"shift_date"`
	PointType        string  `json:"point_type"`
	Points           float64 `json:"points"`
	ViolationDetails string  `json:"violation_details"`
	IsExcused        bool    `json:"is_excused"`
	ExcusedReason    *string `json:"excused_reason,omitempty"`
	ExcusedBy        *string `json:"excused_by,omitempty"`
	IsExpired        bool    `json:"is_expired"`
	ExpiresAt        string  `json:"expires_at"`
	GbroExpiresAt    *string `json:"gbro_expires_at,omitempty"`
	EligibleForGbro  bool    `json:"eligible_for_gbro"`
}

func ToResponse(p AttendancePoint) PointResponse {
	var gbro *string
	if p.GbroExpiresAt != nil {
		v := p.GbroExpiresAt.Format("2006-01-02")
		gbro = &v
	}
	return PointResponse{
		ID:               p.ID,
		UserID:           p.UserID,
		ShiftDate:        p.ShiftDate.Format("2006-01-02"),
		PointType:        string(p.PointType),
		Points:           p.Points,
		ViolationDetails: p.ViolationDetails,
		IsExcused:        p.IsExcused,
		ExcusedReason:    p.ExcusedReason,
		ExcusedBy:        p.ExcusedBy,
		IsExpired:        p.IsExpired,
		ExpiresAt:        p.ExpiresAt.Format("2006-01-02"),
		GbroExpiresAt:    gbro,
		EligibleForGbro:  p.EligibleForGbro,
	}
}
