package reconcile

import (
	"fmt"
	"sort"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/scan"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/schedule"
)

// ShiftInstance is the intermediate representation between grouping and
// classification: one expected shift with whatever scans matched it. It is
// never persisted; classification turns it into an Attendance row.
type ShiftInstance struct {
	UserID        string
	EmployeeKey   string
	ReferenceDate time.Time
	Schedule      schedule.EmployeeSchedule
	ScheduledIn   time.Time
	ScheduledOut  time.Time
	MatchedIn     *scan.ScanEvent
	MatchedOut    *scan.ScanEvent
	Warnings      []string
}

// GrouperConfig bounds the scan capture window around each scheduled shift.
type GrouperConfig struct {
	// Lookback is how long before the scheduled time-in a scan may still be
	// that shift's clock-in.
	Lookback time.Duration
	// Egress is how long after the scheduled time-out a scan may still be
	// that shift's clock-out.
	Egress time.Duration
	// TapCollapse folds repeated taps near a candidate; the first tap wins.
	TapCollapse time.Duration
}

// Grouper partitions one employee's time-ordered scans into shift instances.
// All boundary decisions are schedule-relative: each reference date owns the
// absolute capture window derived from its own schedule version, so a tap
// just after midnight lands on the prior day's graveyard shift because only
// that day's window encloses it.
type Grouper struct {
	cfg GrouperConfig
}

func NewGrouper(cfg GrouperConfig) *Grouper {
	if cfg.Lookback == 0 {
		cfg.Lookback = 4 * time.Hour
	}
	if cfg.Egress == 0 {
		cfg.Egress = 4 * time.Hour
	}
	if cfg.TapCollapse == 0 {
		cfg.TapCollapse = 5 * time.Minute
	}
	return &Grouper{cfg: cfg}
}

type captureWindow struct {
	instance ShiftInstance
	start    time.Time
	end      time.Time
	events   []scan.ScanEvent
}

// boundaryDistance is how close ts sits to the window's scheduled
// boundaries. Used to break ties when adjacent windows overlap.
func (w *captureWindow) boundaryDistance(ts time.Time) time.Duration {
	dIn := absDuration(ts.Sub(w.instance.ScheduledIn))
	dOut := absDuration(ts.Sub(w.instance.ScheduledOut))
	if dIn < dOut {
		return dIn
	}
	return dOut
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// Group emits one ShiftInstance per scheduled workday in [start, end], even
// when no scans exist (the absence case) and when only one side matched.
// The scans must belong to a single employee.
func (g *Grouper) Group(events []scan.ScanEvent, versions []schedule.EmployeeSchedule, userID string, employeeKey string, start, end time.Time) []ShiftInstance {
	sorted := make([]scan.ScanEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	// One capture window per scheduled workday in the range.
	var windows []*captureWindow
	for day := dateOnly(start); !day.After(dateOnly(end)); day = day.AddDate(0, 0, 1) {
		ver := schedule.ResolveForDate(versions, day)
		if ver == nil || !ver.IsWorkDay(day.Weekday()) {
			continue
		}
		schedIn, schedOut := ver.Window(day)
		windows = append(windows, &captureWindow{
			instance: ShiftInstance{
				UserID:        userID,
				EmployeeKey:   employeeKey,
				ReferenceDate: day,
				Schedule:      *ver,
				ScheduledIn:   schedIn,
				ScheduledOut:  schedOut,
			},
			start: schedIn.Add(-g.cfg.Lookback),
			end:   schedOut.Add(g.cfg.Egress),
		})
	}

	// Attribute each scan to the enclosing window; when adjacent windows
	// overlap (back-to-back graveyard shifts), the closest boundary wins.
	for _, ev := range sorted {
		var best *captureWindow
		enclosing := 0
		for _, w := range windows {
			if ev.Timestamp.Before(w.start) || ev.Timestamp.After(w.end) {
				continue
			}
			enclosing++
			if best == nil || w.boundaryDistance(ev.Timestamp) < best.boundaryDistance(ev.Timestamp) {
				best = w
			}
		}
		if best == nil {
			continue
		}
		if enclosing > 1 {
			best.instance.Warnings = append(best.instance.Warnings,
				fmt.Sprintf("scan at %s matched overlapping shift windows; attributed by closest boundary", ev.Timestamp.Format("2006-01-02 15:04:05")))
		}
		best.events = append(best.events, ev)
	}

	instances := make([]ShiftInstance, 0, len(windows))
	for _, w := range windows {
		g.matchPair(w)
		instances = append(instances, w.instance)
	}
	return instances
}

// matchPair selects the time-in and time-out candidates inside one window.
// The shift midpoint is the boundary between the two sides: the earliest
// scan at or before it is the clock-in, the earliest scan after it (clear of
// the tap-collapse window) is the clock-out. First tap wins on both sides.
func (g *Grouper) matchPair(w *captureWindow) {
	if len(w.events) == 0 {
		return
	}

	mid := w.instance.ScheduledIn.Add(w.instance.ScheduledOut.Sub(w.instance.ScheduledIn) / 2)

	for i := range w.events {
		ev := w.events[i]
		if ev.Timestamp.After(mid) {
			break
		}
		w.instance.MatchedIn = &w.events[i]
		break
	}

	for i := range w.events {
		ev := w.events[i]
		if !ev.Timestamp.After(mid) {
			continue
		}
		if w.instance.MatchedIn != nil && ev.Timestamp.Sub(w.instance.MatchedIn.Timestamp) < g.cfg.TapCollapse {
			continue
		}
		w.instance.MatchedOut = &w.events[i]
		break
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
