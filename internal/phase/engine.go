// Package phase maps program weeks to periodization phases and derives
// phase-level multipliers and readiness.
package phase

import (
	"fmt"
	"math"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
)

const (
	missedLookbackDays  = 14
	rpeLookbackSessions = 7
	readinessPerCheck   = 25.0
)

// Engine computes PhaseAnalysis values. It holds no state besides the clock.
type Engine struct {
	now func() time.Time
}

// NewEngine creates a phase engine. A nil clock defaults to time.Now.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// DetermineCurrentPhase maps a program week to its phase. Weeks below 1 count as week 1.
func DetermineCurrentPhase(week int) domain.ProgramPhase {
	current := Phases[0]
	for _, p := range Phases {
		if week >= p.StartWeek {
			current = p
		}
	}
	return current
}

// CalculatePhaseProgress returns the percent of the phase elapsed, counting the current week.
func CalculatePhaseProgress(p domain.ProgramPhase, week int) float64 {
	if p.Duration <= 0 {
		return 0
	}
	weeksInto := week - p.StartWeek + 1
	return clamp(float64(weeksInto)/float64(p.Duration)*100, 0, 100)
}

// DetermineNextPhase follows the transition graph one step. Nil when no edge exists.
func DetermineNextPhase(p domain.ProgramPhase) *domain.ProgramPhase {
	t, ok := TransitionFrom(p.ID)
	if !ok {
		return nil
	}
	next, ok := ByID(t.ToPhase)
	if !ok {
		return nil
	}
	return &next
}

// CalculateTransitionReadiness scores only the conditions listed on the phase's transition.
func (e *Engine) CalculateTransitionReadiness(p domain.ProgramPhase, sessions []domain.SessionRecord, checkIns []domain.CheckIn) float64 {
	t, ok := TransitionFrom(p.ID)
	if !ok {
		return 0
	}

	readiness := 0.0
	for _, c := range t.Conditions {
		if e.conditionMet(c, sessions, checkIns) {
			readiness += readinessPerCheck
		}
	}
	return clamp(readiness, 0, 100)
}

func (e *Engine) conditionMet(c domain.TransitionCondition, sessions []domain.SessionRecord, checkIns []domain.CheckIn) bool {
	switch c {
	case domain.ConditionNoMissedSessions:
		today := domain.DateOnly(e.now())
		since := today.AddDate(0, 0, -missedLookbackDays)
		for _, s := range sessions {
			day := domain.DateOnly(s.Date)
			if day.Before(since) || !day.Before(today) {
				continue
			}
			if s.IsMissed(today) {
				return false
			}
		}
		return true

	case domain.ConditionLowAverageRPE:
		var sum float64
		var n int
		for _, s := range domain.SessionsNewestFirst(sessions) {
			if !s.Completed {
				continue
			}
			sum += s.RPE
			n++
			if n == rpeLookbackSessions {
				break
			}
		}
		return n > 0 && sum/float64(n) < 7

	case domain.ConditionLowSoreness:
		latest := domain.LatestCheckIn(checkIns)
		return latest != nil && latest.Soreness <= 5

	case domain.ConditionHighEnergy:
		latest := domain.LatestCheckIn(checkIns)
		return latest != nil && latest.Energy >= 6
	}
	return false
}

// CalculateIntensityAdjustments scales base by the phase's intensity tier coefficients.
func CalculateIntensityAdjustments(p domain.ProgramPhase, base float64) domain.IntensityAdjustments {
	c, ok := intensityCoefficients[p.Intensity]
	if !ok {
		c = intensityCoefficients[domain.TierModerate]
	}
	return domain.IntensityAdjustments{
		Strength:  base * c.Strength,
		Volume:    base * c.Volume,
		Frequency: base * c.Frequency,
	}
}

// CalculateVolumeAdjustments scales base by the phase's volume tier coefficients.
func CalculateVolumeAdjustments(p domain.ProgramPhase, base float64) domain.VolumeAdjustments {
	c, ok := volumeCoefficients[p.Volume]
	if !ok {
		c = volumeCoefficients[domain.TierModerate]
	}
	return domain.VolumeAdjustments{
		Sets: base * c.Sets,
		Reps: base * c.Reps,
		Rest: base * c.Rest,
	}
}

// GeneratePhaseRecommendations appends a progress message and, outside the middle band, a readiness message.
func GeneratePhaseRecommendations(p domain.ProgramPhase, progress, readiness float64, next *domain.ProgramPhase) []string {
	recs := append([]string(nil), p.Recommendations...)

	switch {
	case progress < 25:
		recs = append(recs, fmt.Sprintf("Early in the %s phase: establish baselines and groove technique", p.Name))
	case progress < 50:
		recs = append(recs, fmt.Sprintf("Building through the %s phase: progress loads steadily", p.Name))
	case progress < 75:
		recs = append(recs, fmt.Sprintf("Past the midpoint of the %s phase: keep consistency high", p.Name))
	default:
		recs = append(recs, fmt.Sprintf("The %s phase is nearly complete: consolidate your gains", p.Name))
	}

	switch {
	case readiness < 50:
		recs = append(recs, "Not yet ready to transition: focus on recovery and attendance")
	case readiness >= 80 && next != nil:
		recs = append(recs, fmt.Sprintf("Ready to transition to the %s phase", next.Name))
	case readiness >= 80:
		recs = append(recs, "Ready to transition to the next phase")
	}
	return recs
}

// AnalyzePhase composes the full analysis. Identical inputs yield identical output.
func (e *Engine) AnalyzePhase(week int, sessions []domain.SessionRecord, checkIns []domain.CheckIn) domain.PhaseAnalysis {
	if week < 1 {
		week = 1
	}
	current := DetermineCurrentPhase(week)
	progress := CalculatePhaseProgress(current, week)
	next := DetermineNextPhase(current)
	readiness := e.CalculateTransitionReadiness(current, sessions, checkIns)

	return domain.PhaseAnalysis{
		Week:                 week,
		CurrentPhase:         current,
		PhaseProgress:        progress,
		NextPhase:            next,
		TransitionReadiness:  readiness,
		Recommendations:      GeneratePhaseRecommendations(current, progress, readiness, next),
		IntensityAdjustments: CalculateIntensityAdjustments(current, 1.0),
		VolumeAdjustments:    CalculateVolumeAdjustments(current, 1.0),
	}
}

// ProgramWeek counts whole weeks from the program start to date, starting at 1.
func ProgramWeek(start, date time.Time) int {
	days := domain.DaysBetween(start, date)
	if days < 0 {
		return 1
	}
	return days/7 + 1
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
