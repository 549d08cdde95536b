package scheduler

import (
	"fmt"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
)

type policyRule struct {
	Type     domain.ConflictType
	Severity domain.Severity // Empty matches any severity
	Action   domain.ResolutionAction
	Impact   domain.Severity
}

// resolutionPolicy is evaluated top to bottom; unmatched conflicts are skipped.
var resolutionPolicy = []policyRule{
	{Type: domain.ConflictEnergy, Severity: domain.SeverityHigh, Action: domain.ActionPostpone, Impact: domain.SeverityMedium},
	{Type: domain.ConflictEnergy, Severity: domain.SeverityMedium, Action: domain.ActionReduceIntensity, Impact: domain.SeverityLow},
	{Type: domain.ConflictRecovery, Severity: domain.SeverityHigh, Action: domain.ActionPostpone, Impact: domain.SeverityMedium},
	{Type: domain.ConflictRecovery, Severity: domain.SeverityMedium, Action: domain.ActionAdjustTime, Impact: domain.SeverityLow},
	{Type: domain.ConflictTime, Action: domain.ActionAdjustTime, Impact: domain.SeverityLow},
	{Type: domain.ConflictSocial, Action: domain.ActionReschedule, Impact: domain.SeverityMedium},
	{Type: domain.ConflictWork, Action: domain.ActionReschedule, Impact: domain.SeverityMedium},
}

func lookupPolicy(c domain.ScheduleConflict) policyRule {
	for _, r := range resolutionPolicy {
		if r.Type == c.Type && (r.Severity == "" || r.Severity == c.Severity) {
			return r
		}
	}
	return policyRule{Type: c.Type, Severity: c.Severity, Action: domain.ActionSkip, Impact: domain.SeverityHigh}
}

// ResolveConflicts produces one resolution per (session, conflict) pair. Dates claimed by
// earlier moves are treated as occupied by later searches.
func (s *Scheduler) ResolveConflicts(schedule domain.AutomaticSchedule, h History, prefs domain.SchedulingPreferences) []domain.ConflictResolution {
	working := schedule
	working.Sessions = append([]domain.SessionSchedule(nil), schedule.Sessions...)

	resolutions := []domain.ConflictResolution{}
	for i, session := range schedule.Sessions {
		for _, c := range session.Conflicts {
			res := s.GenerateConflictResolution(session, c, working, h, prefs)
			if res.NewDate != nil {
				working.Sessions[i].Date = *res.NewDate
			}
			resolutions = append(resolutions, res)
		}
	}
	return resolutions
}

// GenerateConflictResolution applies the policy table to a single conflict.
func (s *Scheduler) GenerateConflictResolution(session domain.SessionSchedule, c domain.ScheduleConflict, schedule domain.AutomaticSchedule, h History, prefs domain.SchedulingPreferences) domain.ConflictResolution {
	rule := lookupPolicy(c)
	res := domain.ConflictResolution{
		ConflictID: c.ID,
		SessionID:  session.ID,
		Action:     rule.Action,
		Impact:     rule.Impact,
	}

	switch rule.Action {
	case domain.ActionPostpone, domain.ActionReschedule:
		occupied := occupiedDates(h.Sessions)
		for _, other := range schedule.Sessions {
			if other.ID != session.ID {
				occupied[domain.DateOnly(other.Date).Format(domain.DateLayout)] = true
			}
		}
		date, clock, ok := s.FindNextFeasibleDate(session.ID, session.Date, h, prefs, occupied, schedule.WeekEnd)
		if !ok {
			res.Action = domain.ActionSkip
			res.Impact = domain.SeverityHigh
			res.Reason = fmt.Sprintf("%s: no conflict-free date found within %d days, skipping", c.Description, s.searchWindow)
			return res
		}
		res.NewDate = &date
		res.NewTime = clock
		res.NewPriority = domain.PriorityLow
		verb := "Postponed"
		if rule.Action == domain.ActionReschedule {
			verb = "Rescheduled"
		}
		res.Reason = fmt.Sprintf("%s: %s to %s at %s", c.Description, verb, date.Format(domain.DateLayout), clock)

	case domain.ActionReduceIntensity:
		res.NewIntensity = domain.TierLow
		res.Reason = fmt.Sprintf("%s: reducing intensity to low", c.Description)

	case domain.ActionAdjustTime:
		res.NewTime = adjustedTime(session, c, h, prefs)
		res.Reason = fmt.Sprintf("%s: moving the session to %s", c.Description, res.NewTime)

	default:
		res.Reason = fmt.Sprintf("%s: no safe adjustment available, skipping", c.Description)
	}
	return res
}

// adjustedTime picks the nearest preferred time for time conflicts, otherwise the first
// alternative later than the current slot from a fresh timing computation.
func adjustedTime(session domain.SessionSchedule, c domain.ScheduleConflict, h History, prefs domain.SchedulingPreferences) string {
	if c.Type == domain.ConflictTime {
		if nearest, _ := nearestPreferredTime(session.Time, prefs.PreferredTimes); nearest != "" {
			return nearest
		}
	}
	timing := CalculateOptimalTiming(session.Date, h.Sessions, h.CheckIns)
	current, err := domain.ParseClock(session.Time)
	if err != nil {
		return timing.BestTime
	}
	for _, alt := range timing.Alternatives {
		if m, err := domain.ParseClock(alt); err == nil && m > current {
			return alt
		}
	}
	return timing.BestTime
}

// FindNextFeasibleDate scans at most the search window forward from from (exclusive) for an
// available, unoccupied date that needs no recovery and has no detected conflicts.
// A non-zero limit caps the scan.
func (s *Scheduler) FindNextFeasibleDate(sessionID string, from time.Time, h History, prefs domain.SchedulingPreferences, occupied map[string]bool, limit time.Time) (time.Time, string, bool) {
	start := domain.DateOnly(from)
	for i := 1; i <= s.searchWindow; i++ {
		candidate := start.AddDate(0, 0, i)
		if !limit.IsZero() && candidate.After(domain.DateOnly(limit)) {
			break
		}
		if occupied[candidate.Format(domain.DateLayout)] || !prefs.IsAvailable(candidate.Weekday()) {
			continue
		}
		if needed, _ := NeedsRecovery(candidate, h); needed {
			continue
		}
		timing := CalculateOptimalTiming(candidate, h.Sessions, h.CheckIns)
		if len(DetectConflicts(sessionID, candidate, timing.BestTime, h, prefs)) == 0 {
			return candidate, timing.BestTime, true
		}
	}
	return time.Time{}, "", false
}

func occupiedDates(sessions []domain.SessionRecord) map[string]bool {
	occupied := make(map[string]bool, len(sessions))
	for _, s := range sessions {
		occupied[domain.DateOnly(s.Date).Format(domain.DateLayout)] = true
	}
	return occupied
}
