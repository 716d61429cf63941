package anomaly

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/config"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/anomaly"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/roster"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/scan"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/schedule"
)

type detector struct {
	cfg          config.AnomalyConfig
	scanRepo     scan.ScanEventRepository
	employeeRepo roster.EmployeeRepository
	scheduleRepo schedule.ScheduleRepository
}

func NewDetector(cfg config.AnomalyConfig, scanRepo scan.ScanEventRepository, employeeRepo roster.EmployeeRepository, scheduleRepo schedule.ScheduleRepository) anomaly.Detector {
	return &detector{cfg: cfg, scanRepo: scanRepo, employeeRepo: employeeRepo, scheduleRepo: scheduleRepo}
}

// Detect implements anomaly.Detector. It runs every detector over the raw
// scans of the range, grouped by normalized employee name and independent of
// shift classification. Results are advisory; nothing here writes state.
func (d *detector) Detect(ctx context.Context, start, end time.Time) (anomaly.Report, error) {
	events, err := d.scanRepo.ListByRange(ctx, start, end.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	byUser := groupByUser(events)

	report := anomaly.Report{}
	for _, key := range sortedKeys(byUser) {
		evs := byUser[key]
		appendAll(report, anomaly.TypeSimultaneousSites, d.detectSimultaneousSites(key, evs))
		appendAll(report, anomaly.TypeDuplicateScans, d.detectDuplicateScans(key, evs))
		appendAll(report, anomaly.TypeExcessiveScans, d.detectExcessiveScans(key, evs))
		appendAll(report, anomaly.TypeImpossibleGaps, d.detectImpossibleGaps(key, evs))
	}

	// Unusual-hours needs each user's schedule. Schedules key on roster IDs
	// while scans key on normalized names, so bridge through the roster;
	// unattributed scans have no schedule and are skipped by this detector.
	employees, err := d.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	idByKey := make(map[string]string, len(employees))
	userIDs := make([]string, 0, len(employees))
	for _, emp := range employees {
		if _, ok := byUser[emp.NameKey()]; ok {
			idByKey[emp.NameKey()] = emp.ID
			userIDs = append(userIDs, emp.ID)
		}
	}
	versionsByUser, err := d.scheduleRepo.ListForUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	for _, key := range sortedKeys(byUser) {
		versions := versionsByUser[idByKey[key]]
		if len(versions) == 0 {
			continue
		}
		appendAll(report, anomaly.TypeUnusualHours, d.detectUnusualHours(key, byUser[key], versions))
	}

	return report, nil
}

// detectSimultaneousSites flags pairs of scans at different sites closer
// together than any plausible travel time. The tighter the pair, the higher
// the severity.
func (d *detector) detectSimultaneousSites(user string, events []scan.ScanEvent) []anomaly.Anomaly {
	window := time.Duration(d.cfg.SimultaneousWindowMinutes) * time.Minute

	var found []anomaly.Anomaly
	for i := 1; i < len(events); i++ {
		prev, cur := events[i-1], events[i]
		if prev.Site == "" || cur.Site == "" || prev.Site == cur.Site {
			continue
		}
		gap := cur.Timestamp.Sub(prev.Timestamp)
		if gap > window {
			continue
		}

		severity := anomaly.SeverityMedium
		if gap <= window/3 {
			severity = anomaly.SeverityHigh
		}
		found = append(found, anomaly.Anomaly{
			Type:        anomaly.TypeSimultaneousSites,
			Severity:    severity,
			Description: fmt.Sprintf("scans at %s and %s only %d minutes apart", prev.Site, cur.Site, int(gap.Minutes())),
			User:        user,
			Records:     []scan.ScanEvent{prev, cur},
			Details: map[string]any{
				"site_a":      prev.Site,
				"site_b":      cur.Site,
				"gap_minutes": int(gap.Minutes()),
			},
		})
	}
	return found
}

// detectDuplicateScans flags runs of taps packed into a short window.
// Informational only; devices double-register taps all the time.
func (d *detector) detectDuplicateScans(user string, events []scan.ScanEvent) []anomaly.Anomaly {
	window := time.Duration(d.cfg.DuplicateWindowMinutes) * time.Minute

	var found []anomaly.Anomaly
	i := 0
	for i < len(events) {
		j := i
		for j+1 < len(events) && events[j+1].Timestamp.Sub(events[i].Timestamp) <= window {
			j++
		}
		count := j - i + 1
		if count >= d.cfg.DuplicateMinScans {
			run := make([]scan.ScanEvent, count)
			copy(run, events[i:j+1])
			found = append(found, anomaly.Anomaly{
				Type:        anomaly.TypeDuplicateScans,
				Severity:    anomaly.SeverityLow,
				Description: fmt.Sprintf("%d scans within %d minutes", count, d.cfg.DuplicateWindowMinutes),
				User:        user,
				Records:     run,
				Details:     map[string]any{"scan_count": count, "window_minutes": d.cfg.DuplicateWindowMinutes},
			})
		}
		i = j + 1
	}
	return found
}

// detectUnusualHours flags scans far outside every plausible shift window of
// the user's schedule for that date or its neighbors.
func (d *detector) detectUnusualHours(user string, events []scan.ScanEvent, versions []schedule.EmployeeSchedule) []anomaly.Anomaly {
	slack := time.Duration(d.cfg.UnusualHoursSlackMinutes) * time.Minute

	var found []anomaly.Anomaly
	for _, ev := range events {
		if withinAnyWindow(ev.Timestamp, versions, slack) {
			continue
		}
		found = append(found, anomaly.Anomaly{
			Type:        anomaly.TypeUnusualHours,
			Severity:    anomaly.SeverityMedium,
			Description: fmt.Sprintf("scan at %s is outside every scheduled shift window", ev.Timestamp.Format("2006-01-02 15:04:05")),
			User:        user,
			Records:     []scan.ScanEvent{ev},
			Details:     map[string]any{"slack_minutes": d.cfg.UnusualHoursSlackMinutes},
		})
	}
	return found
}

// withinAnyWindow checks the scan against the schedule windows of its own
// date and the previous one; an overnight shift's time-out lives on the next
// calendar day.
func withinAnyWindow(ts time.Time, versions []schedule.EmployeeSchedule, slack time.Duration) bool {
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	for _, ref := range []time.Time{day.AddDate(0, 0, -1), day} {
		ver := schedule.ResolveForDate(versions, ref)
		if ver == nil || !ver.IsWorkDay(ref.Weekday()) {
			continue
		}
		in, out := ver.Window(ref)
		if !ts.Before(in.Add(-slack)) && !ts.After(out.Add(slack)) {
			return true
		}
	}
	return false
}

// detectExcessiveScans flags days with more taps than the configured ceiling.
func (d *detector) detectExcessiveScans(user string, events []scan.ScanEvent) []anomaly.Anomaly {
	byDay := groupByDay(events)

	var found []anomaly.Anomaly
	for _, day := range sortedKeys(byDay) {
		dayEvents := byDay[day]
		if len(dayEvents) <= d.cfg.DailyScanCeiling {
			continue
		}
		found = append(found, anomaly.Anomaly{
			Type:        anomaly.TypeExcessiveScans,
			Severity:    anomaly.SeverityMedium,
			Description: fmt.Sprintf("%d scans on %s exceeds the daily ceiling of %d", len(dayEvents), day, d.cfg.DailyScanCeiling),
			User:        user,
			Records:     dayEvents,
			Details:     map[string]any{"scan_count": len(dayEvents), "ceiling": d.cfg.DailyScanCeiling},
		})
	}
	return found
}

// detectImpossibleGaps flags days whose first-to-last scan span cannot be one
// continuous shift: too short to be real hours worked, or absurdly long.
func (d *detector) detectImpossibleGaps(user string, events []scan.ScanEvent) []anomaly.Anomaly {
	minGap := time.Duration(d.cfg.MinDayGapMinutes) * time.Minute
	maxGap := time.Duration(d.cfg.MaxDayGapMinutes) * time.Minute
	byDay := groupByDay(events)

	var found []anomaly.Anomaly
	for _, day := range sortedKeys(byDay) {
		dayEvents := byDay[day]
		if len(dayEvents) < 2 {
			continue
		}
		span := dayEvents[len(dayEvents)-1].Timestamp.Sub(dayEvents[0].Timestamp)
		if span >= minGap && span <= maxGap {
			continue
		}

		desc := fmt.Sprintf("first-to-last scan span of %d minutes on %s is too short for a worked shift", int(span.Minutes()), day)
		if span > maxGap {
			desc = fmt.Sprintf("first-to-last scan span of %d minutes on %s is too long for a single shift", int(span.Minutes()), day)
		}
		found = append(found, anomaly.Anomaly{
			Type:        anomaly.TypeImpossibleGaps,
			Severity:    anomaly.SeverityMedium,
			Description: desc,
			User:        user,
			Records:     []scan.ScanEvent{dayEvents[0], dayEvents[len(dayEvents)-1]},
			Details:     map[string]any{"span_minutes": int(span.Minutes())},
		})
	}
	return found
}

// groupByUser keys events by normalized employee name; unattributed events
// group under their raw name so operators still see them.
func groupByUser(events []scan.ScanEvent) map[string][]scan.ScanEvent {
	byUser := make(map[string][]scan.ScanEvent)
	for _, ev := range events {
		key := ev.EmployeeKey
		if key == "" {
			key = ev.RawName
		}
		byUser[key] = append(byUser[key], ev)
	}
	for _, evs := range byUser {
		sort.Slice(evs, func(i, j int) bool { return evs[i].Timestamp.Before(evs[j].Timestamp) })
	}
	return byUser
}

func groupByDay(events []scan.ScanEvent) map[string][]scan.ScanEvent {
	byDay := make(map[string][]scan.ScanEvent)
	for _, ev := range events {
		day := ev.Timestamp.Format("2006-01-02")
		byDay[day] = append(byDay[day], ev)
	}
	return byDay
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func appendAll(report anomaly.Report, t anomaly.Type, found []anomaly.Anomaly) {
	if len(found) > 0 {
		report[t] = append(report[t], found...)
	}
}
