package scheduler

import (
	"fmt"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
)

// preferredTimeTolerance is how far a slot may sit from a preferred time before it conflicts.
const preferredTimeTolerance = 60 // minutes

// DetectConflicts runs every rule independently; any subset may fire. Never fails.
func DetectConflicts(sessionID string, date time.Time, clock string, h History, prefs domain.SchedulingPreferences) []domain.ScheduleConflict {
	conflicts := []domain.ScheduleConflict{}
	add := func(t domain.ConflictType, sev domain.Severity, description, suggestion string) {
		conflicts = append(conflicts, domain.ScheduleConflict{
			ID:          domain.DeterministicID(sessionID, string(t), string(sev), description),
			Type:        t,
			Severity:    sev,
			Description: description,
			Suggestion:  suggestion,
		})
	}

	today := domain.CheckInOn(h.CheckIns, date)
	if today != nil {
		switch {
		case today.Energy <= 3:
			add(domain.ConflictEnergy, domain.SeverityHigh,
				"Very low energy reported", "Postpone the session to a day with better energy")
		case today.Energy <= 5:
			add(domain.ConflictEnergy, domain.SeverityMedium,
				"Below-average energy reported", "Reduce the session intensity")
		}
	}

	if last := domain.LastCompletedBefore(h.Sessions, domain.DateOnly(date).AddDate(0, 0, 1)); last != nil {
		days := domain.DaysBetween(last.Date, date)
		switch {
		case days < 1:
			add(domain.ConflictRecovery, domain.SeverityHigh,
				"Another session is already logged on this day", "Allow at least one full day of recovery")
		case days < 2 && last.AverageSetRPE() > 7:
			add(domain.ConflictRecovery, domain.SeverityMedium,
				fmt.Sprintf("Hard session yesterday (RPE %.1f)", last.AverageSetRPE()),
				"Train later in the day to allow more recovery")
		}
	}

	if today != nil && today.Soreness >= 7 {
		add(domain.ConflictRecovery, domain.SeverityHigh,
			fmt.Sprintf("High muscle soreness (%d/10)", today.Soreness), "Swap for mobility work or rest")
	}

	if len(prefs.PreferredTimes) > 0 && clock != "" {
		if _, ok := nearestPreferredTime(clock, prefs.PreferredTimes); !ok {
			add(domain.ConflictTime, domain.SeverityLow,
				fmt.Sprintf("%s is outside your preferred training times", clock),
				"Move the session to one of your preferred times")
		}
	}

	return conflicts
}

// nearestPreferredTime returns the preferred time closest to clock, and whether clock
// is already within tolerance of it.
func nearestPreferredTime(clock string, preferred []string) (string, bool) {
	at, err := domain.ParseClock(clock)
	if err != nil {
		return "", false
	}
	best, bestDiff := "", 24*60
	for _, p := range preferred {
		m, err := domain.ParseClock(p)
		if err != nil {
			continue
		}
		diff := m - at
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			best, bestDiff = p, diff
		}
	}
	return best, best != "" && bestDiff <= preferredTimeTolerance
}

// NeedsRecovery reports whether the date's own check-in calls for a recovery day.
// Without a check-in for that date no recovery is inferred. A hard session only counts
// when it was the day before.
func NeedsRecovery(date time.Time, h History) (bool, string) {
	c := domain.CheckInOn(h.CheckIns, date)
	if c == nil {
		return false, ""
	}
	switch {
	case c.Energy <= 3:
		return true, fmt.Sprintf("energy %d/10", c.Energy)
	case c.Soreness >= 8:
		return true, fmt.Sprintf("soreness %d/10", c.Soreness)
	case c.SleepHours > 0 && c.SleepHours < 5:
		return true, fmt.Sprintf("only %.1fh of sleep", c.SleepHours)
	}
	last := domain.LastCompletedBefore(h.Sessions, domain.DateOnly(date))
	if last != nil && domain.DaysBetween(last.Date, date) <= 1 && last.AverageSetRPE() >= 9 {
		return true, fmt.Sprintf("last session RPE %.1f", last.AverageSetRPE())
	}
	return false, ""
}
