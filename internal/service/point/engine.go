package point

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/config"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/attendance"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/point"
)

type engine struct {
	cfg  config.PointsConfig
	repo point.PointRepository
	now  func() time.Time
}

func NewEngine(cfg config.PointsConfig, repo point.PointRepository) point.PointEngine {
	return &engine{cfg: cfg, repo: repo, now: time.Now}
}

// Regenerate implements point.PointEngine. The point is a pure function of
// the shift's current status: any existing point for the (user, shift_date)
// is deleted first and a fresh one created when the status still warrants
// one, never patched in place.
func (e *engine) Regenerate(ctx context.Context, att attendance.Attendance) (*point.AttendancePoint, error) {
	if err := e.repo.DeleteByUserAndDate(ctx, att.UserID, att.ShiftDate); err != nil {
		return nil, err
	}

	p := e.pointFor(att)
	if p == nil {
		if err := e.Recalculate(ctx, att.UserID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	created, err := e.repo.Create(ctx, *p)
	if err != nil {
		return nil, err
	}
	if err := e.Recalculate(ctx, att.UserID); err != nil {
		return nil, err
	}
	return &created, nil
}

// pointFor maps a classified shift to its point, or nil when the status
// accrues none. Undertime accrues only when no status point applies and the
// shortfall reaches the configured minimum.
func (e *engine) pointFor(att attendance.Attendance) *point.AttendancePoint {
	p := point.AttendancePoint{
		UserID:    att.UserID,
		ShiftDate: att.ShiftDate,
		ExpiresAt: att.ShiftDate.AddDate(0, 0, e.cfg.ExpiryDays),
	}

	switch att.Status {
	case attendance.StatusNCNS:
		p.PointType = point.PointTypeNCNS
		p.Points = 1.0
		p.ViolationDetails = fmt.Sprintf("No call no show on %s", att.ShiftDate.Format("2006-01-02"))
	case attendance.StatusHalfDayAbsence:
		p.PointType = point.PointTypeHalfDay
		p.Points = 0.5
		p.ViolationDetails = fmt.Sprintf("Half-day absence on %s", att.ShiftDate.Format("2006-01-02"))
		if att.TardyMinutes != nil {
			p.ViolationDetails = fmt.Sprintf("Half-day absence on %s (%d minutes late)", att.ShiftDate.Format("2006-01-02"), *att.TardyMinutes)
		}
	case attendance.StatusTardy:
		p.PointType = point.PointTypeTardy
		p.Points = 0.25
		minutes := 0
		if att.TardyMinutes != nil {
			minutes = *att.TardyMinutes
		}
		p.ViolationDetails = fmt.Sprintf("Tardy %d minutes on %s", minutes, att.ShiftDate.Format("2006-01-02"))
	default:
		if att.UndertimeMinutes == nil || *att.UndertimeMinutes < e.cfg.UndertimeMinMinutes {
			return nil
		}
		p.PointType = point.PointTypeUndertime
		p.Points = 0.25
		p.ViolationDetails = fmt.Sprintf("Undertime %d minutes on %s", *att.UndertimeMinutes, att.ShiftDate.Format("2006-01-02"))
	}

	return &p
}

// Excuse implements point.PointEngine.
func (e *engine) Excuse(ctx context.Context, id string, reason string, actor string) error {
	if reason == "" {
		return point.ErrExcuseNoReason
	}
	if actor == "" {
		return point.ErrExcuseNoActor
	}

	p, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.Active() {
		return point.ErrPointNotActive
	}

	if err := e.repo.Excuse(ctx, id, reason, actor); err != nil {
		return err
	}
	return e.Recalculate(ctx, p.UserID)
}

// ExcuseRange implements point.PointEngine. Leave approvals come in as date
// ranges; every active point in the range is excused with the same reason.
func (e *engine) ExcuseRange(ctx context.Context, userID string, start, end time.Time, reason string, actor string) (int, error) {
	if reason == "" {
		return 0, point.ErrExcuseNoReason
	}
	if actor == "" {
		return 0, point.ErrExcuseNoActor
	}

	active, err := e.repo.ListActiveInRange(ctx, userID, start, end)
	if err != nil {
		return 0, err
	}

	excused := 0
	for _, p := range active {
		if err := e.repo.Excuse(ctx, p.ID, reason, actor); err != nil {
			return excused, err
		}
		excused++
	}

	if excused > 0 {
		if err := e.Recalculate(ctx, userID); err != nil {
			return excused, err
		}
	}
	return excused, nil
}

// ExpireDuePoints implements point.PointEngine.
func (e *engine) ExpireDuePoints(ctx context.Context, asOf time.Time) (int, error) {
	userIDs, expired, err := e.repo.ExpireDue(ctx, asOf)
	if err != nil {
		return 0, err
	}
	for _, userID := range userIDs {
		if err := e.Recalculate(ctx, userID); err != nil {
			return expired, err
		}
	}
	return expired, nil
}

// Recalculate implements point.PointEngine. It replays the user's point
// history in shift_date order and recomputes the rolling eligibility
// windows: consecutive active points chain while each falls within the
// window of the previous one, and every point of a chain shares the chain's
// final expiry. A point is eligible once its chain's window has fully
// elapsed. Excused and expired points drop out of the replay entirely.
func (e *engine) Recalculate(ctx context.Context, userID string) error {
	points, err := e.repo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	window := time.Duration(e.cfg.GbroWindowDays) * 24 * time.Hour
	now := e.now()

	var active []point.AttendancePoint
	for _, p := range points {
		if p.Active() {
			active = append(active, p)
		} else {
			if err := e.repo.UpdateGbro(ctx, p.ID, nil, false); err != nil {
				return err
			}
		}
	}

	for i := 0; i < len(active); {
		j := i
		for j+1 < len(active) && active[j+1].ShiftDate.Sub(active[j].ShiftDate) <= window {
			j++
		}

		expiry := active[j].ShiftDate.Add(window)
		eligible := !now.Before(expiry)
		for k := i; k <= j; k++ {
			if err := e.repo.UpdateGbro(ctx, active[k].ID, &expiry, eligible); err != nil {
				return err
			}
		}
		i = j + 1
	}

	return nil
}

// ListByUser implements point.PointEngine.
func (e *engine) ListByUser(ctx context.Context, userID string) ([]point.PointResponse, error) {
	points, err := e.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses := make([]point.PointResponse, len(points))
	for i, p := range points {
		responses[i] = point.ToResponse(p)
	}
	return responses, nil
}
