package scheduler

import (
	"fmt"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
)

const maxMissedAgeDays = 7

// GenerateMissedSessionRecovery proposes a new slot for a missed session.
// Nil when the session is more than 7 days old or no feasible date exists.
func (s *Scheduler) GenerateMissedSessionRecovery(missed domain.SessionRecord, h History, prefs domain.SchedulingPreferences) *domain.MissedSessionRecovery {
	today := domain.DateOnly(s.now())
	original := domain.DateOnly(missed.Date)
	daysAgo := domain.DaysBetween(original, today)
	if daysAgo > maxMissedAgeDays {
		return nil
	}

	from := today
	if original.After(today) {
		from = original
	}
	date, clock, ok := s.FindNextFeasibleDate(missed.ID, from, h, prefs, occupiedDates(h.Sessions), time.Time{})
	if !ok {
		return nil
	}

	intensity := domain.TierModerate
	switch {
	case daysAgo >= 3:
		intensity = domain.TierLow
	case daysAgo <= 1:
		intensity = domain.TierHigh
	}

	conflicts := DetectConflicts(missed.ID, date, clock, h, prefs)
	return &domain.MissedSessionRecovery{
		MissedSessionID:   missed.ID,
		OriginalDate:      original,
		RecoveryDate:      date,
		RecoveryTime:      clock,
		AdjustedIntensity: intensity,
		Reason: fmt.Sprintf("Recovering the %s session missed %d day(s) ago at %s intensity",
			missed.Type, daysAgo, intensity),
		Conflicts: conflicts,
		Optimal:   len(conflicts) == 0,
	}
}
