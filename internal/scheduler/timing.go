package scheduler

import (
	"fmt"
	"math"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
)

const (
	recentWindow    = 7
	defaultHour     = 18
	baseConfidence  = 50.0
	earliestHour    = 6
	latestHour      = 22
	maxAlternatives = 4
)

// CalculateOptimalTiming picks a clock time for date from recent energy, sleep and habit.
// Weekday overrides are applied last.
func CalculateOptimalTiming(date time.Time, sessions []domain.SessionRecord, checkIns []domain.CheckIn) domain.OptimalTiming {
	hour := defaultHour
	confidence := baseConfidence
	var factors []string

	recent := recentCheckIns(checkIns, date, recentWindow)
	if energy := averageEnergy(recent); energy != nil {
		switch {
		case *energy >= 7:
			hour = 18
			confidence += 20
			factors = append(factors, fmt.Sprintf("High recent energy (%.1f/10)", *energy))
		case *energy >= 5:
			hour = 19
			confidence += 10
			factors = append(factors, fmt.Sprintf("Moderate recent energy (%.1f/10)", *energy))
		default:
			hour = 20
			confidence -= 10
			factors = append(factors, fmt.Sprintf("Low recent energy (%.1f/10)", *energy))
		}
	}
	if sleep := averageSleep(recent); sleep != nil {
		switch {
		case *sleep >= 8:
			confidence += 15
			factors = append(factors, fmt.Sprintf("Good recent sleep (%.1fh)", *sleep))
		case *sleep < 6:
			confidence -= 20
			factors = append(factors, fmt.Sprintf("Poor recent sleep (%.1fh)", *sleep))
		}
	}

	if past := recentSessions(sessions, date, recentWindow); len(past) > 0 {
		var sum float64
		for _, s := range past {
			sum += float64(s.Date.Hour()) + float64(s.Date.Minute())/60
		}
		hour = min(max(int(math.Round(sum/float64(len(past)))), earliestHour), latestHour)
		confidence += 10
		factors = append(factors, fmt.Sprintf("Consistent with schedule (usual time %s)", domain.FormatHour(hour)))
	}

	switch date.Weekday() {
	case time.Monday:
		hour = 18
		factors = append(factors, "Monday sessions are set to 18:00")
	case time.Friday:
		hour = 17
		factors = append(factors, "Friday sessions are set to 17:00")
	}

	if len(factors) == 0 {
		factors = append(factors, "No recent data: using the default evening slot")
	}

	return domain.OptimalTiming{
		BestTime:     domain.FormatHour(hour),
		Confidence:   clamp(confidence, 0, 100),
		Factors:      factors,
		Alternatives: alternativeTimes(hour),
	}
}

func alternativeTimes(hour int) []string {
	var alts []string
	for _, delta := range []int{-1, 1, -2, 2} {
		h := hour + delta
		if h < earliestHour || h > latestHour {
			continue
		}
		alts = append(alts, domain.FormatHour(h))
		if len(alts) == maxAlternatives {
			break
		}
	}
	return alts
}

// recentCheckIns returns up to n check-ins recorded on or before date, newest first.
func recentCheckIns(checkIns []domain.CheckIn, date time.Time, n int) []domain.CheckIn {
	cutoff := domain.DateOnly(date).AddDate(0, 0, 1)
	var out []domain.CheckIn
	for _, c := range domain.CheckInsNewestFirst(checkIns) {
		if !c.Date.Before(cutoff) {
			continue
		}
		out = append(out, c)
		if len(out) == n {
			break
		}
	}
	return out
}

// recentSessions returns up to n sessions dated before date's calendar day, newest first.
func recentSessions(sessions []domain.SessionRecord, date time.Time, n int) []domain.SessionRecord {
	day := domain.DateOnly(date)
	var out []domain.SessionRecord
	for _, s := range domain.SessionsNewestFirst(sessions) {
		if !s.Date.Before(day) {
			continue
		}
		out = append(out, s)
		if len(out) == n {
			break
		}
	}
	return out
}

func averageEnergy(checkIns []domain.CheckIn) *float64 {
	if len(checkIns) == 0 {
		return nil
	}
	var sum float64
	for _, c := range checkIns {
		sum += float64(c.Energy)
	}
	avg := sum / float64(len(checkIns))
	return &avg
}

func averageSleep(checkIns []domain.CheckIn) *float64 {
	var sum float64
	var n int
	for _, c := range checkIns {
		if c.SleepHours > 0 {
			sum += c.SleepHours
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
