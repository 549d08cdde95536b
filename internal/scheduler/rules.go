package scheduler

import (
	"fmt"
	"math"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
)

// typePriority is the fixed order used when picking an unrepresented session type.
var typePriority = []domain.SessionType{
	domain.SessionStrength,
	domain.SessionVolleyball,
	domain.SessionConditioning,
}

var baseDurations = map[domain.SessionType]int{
	domain.SessionStrength:     75,
	domain.SessionVolleyball:   90,
	domain.SessionConditioning: 45,
	domain.SessionRest:         0,
}

var baseIntensities = map[domain.SessionType]domain.Tier{
	domain.SessionStrength:     domain.TierHigh,
	domain.SessionVolleyball:   domain.TierModerate,
	domain.SessionConditioning: domain.TierModerate,
	domain.SessionRest:         domain.TierLow,
}

// RecommendSessionType picks rest on a poor check-in, otherwise the first type missing
// from the last 7 sessions (planned sessions this week count as the most recent).
func RecommendSessionType(date time.Time, h History, planned []domain.SessionSchedule, prefs domain.SchedulingPreferences) (domain.SessionType, string) {
	if c := domain.CheckInOn(h.CheckIns, date); c != nil {
		if c.Energy <= 3 {
			return domain.SessionRest, fmt.Sprintf("Rest recommended: energy %d/10", c.Energy)
		}
		if c.Soreness >= 8 {
			return domain.SessionRest, fmt.Sprintf("Rest recommended: soreness %d/10", c.Soreness)
		}
	}

	var recent []domain.SessionType
	for i := len(planned) - 1; i >= 0 && len(recent) < recentWindow; i-- {
		recent = append(recent, planned[i].Type)
	}
	for _, s := range recentSessions(h.Sessions, date, recentWindow) {
		if len(recent) == recentWindow {
			break
		}
		if s.Status == domain.SessionMissed || s.Status == domain.SessionSkipped {
			continue
		}
		recent = append(recent, s.Type)
	}

	counts := make(map[domain.SessionType]int, len(recent))
	for _, t := range recent {
		counts[t]++
	}
	for _, t := range typePriority {
		if counts[t] == 0 {
			return t, fmt.Sprintf("No %s session in the last %d sessions", t, recentWindow)
		}
	}

	// Every type is represented: follow the preferred mix if one is set.
	bestDeficit := 0
	choice := domain.SessionStrength
	for _, t := range typePriority {
		if deficit := prefs.PreferredMix[t] - counts[t]; deficit > bestDeficit {
			bestDeficit, choice = deficit, t
		}
	}
	if bestDeficit > 0 {
		return choice, fmt.Sprintf("Below your preferred %s frequency", choice)
	}
	return domain.SessionStrength, "Balanced recent mix: defaulting to strength"
}

// RecommendDuration scales the per-type base by up to 20% according to recent energy.
func RecommendDuration(t domain.SessionType, energy *float64) int {
	base := baseDurations[t]
	if energy == nil || base == 0 {
		return base
	}
	scale := 1.0
	switch {
	case *energy >= 7:
		scale = 1.2
	case *energy < 5:
		scale = 0.8
	}
	return int(math.Round(float64(base) * scale))
}

// RecommendIntensity starts from the per-type base. Low energy or a hard last session
// downgrades it, high energy or an easy last session upgrades it; downgrades win.
func RecommendIntensity(t domain.SessionType, energy, lastRPE *float64) domain.Tier {
	if t == domain.SessionRest {
		return domain.TierLow
	}
	intensity, ok := baseIntensities[t]
	if !ok {
		intensity = domain.TierModerate
	}
	switch {
	case (energy != nil && *energy <= 4) || (lastRPE != nil && *lastRPE >= 8):
		return domain.TierLow
	case (energy != nil && *energy >= 8) || (lastRPE != nil && *lastRPE <= 5):
		return domain.TierHigh
	}
	return intensity
}

// PriorityFor maps the remaining weekly slots (including the one being filled) to a priority.
func PriorityFor(remaining int) domain.Priority {
	switch {
	case remaining <= 1:
		return domain.PriorityHigh
	case remaining <= 2:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}
