// Package scheduler decides when and what type of session happens: single-day
// prediction, weekly synthesis, conflict detection and resolution, missed
// session recovery and descriptive timing analytics.
package scheduler

import (
	"fmt"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
)

// DefaultSearchWindowDays bounds every forward date search.
const DefaultSearchWindowDays = 7

// History is the read-only snapshot the scheduler works from.
type History struct {
	Sessions []domain.SessionRecord
	CheckIns []domain.CheckIn
}

// Scheduler holds no mutable state. All methods are deterministic for a given clock.
type Scheduler struct {
	now          func() time.Time
	searchWindow int
}

// New creates a scheduler. A nil clock defaults to time.Now and a non-positive window to 7 days.
func New(now func() time.Time, searchWindowDays int) *Scheduler {
	if now == nil {
		now = time.Now
	}
	if searchWindowDays <= 0 {
		searchWindowDays = DefaultSearchWindowDays
	}
	return &Scheduler{now: now, searchWindow: searchWindowDays}
}

// WeekRequest is the input for one weekly synthesis.
type WeekRequest struct {
	AthleteID   string
	WeekStart   time.Time
	Preferences domain.SchedulingPreferences // Defaults already applied
	History     History
	Existing    []domain.SessionRecord // Persisted sessions inside the target week
}

// PredictRequest is the input for a single-day prediction.
type PredictRequest struct {
	AthleteID      string
	Date           time.Time
	Preferences    domain.SchedulingPreferences
	History        History
	Planned        []domain.SessionSchedule // Already placed earlier this week
	SlotsRemaining int
}

// SessionID is the stable id of the session planned for an athlete on a date.
func SessionID(athleteID string, date time.Time) string {
	return domain.DeterministicID(athleteID, "session", domain.DateOnly(date).Format(domain.DateLayout))
}

// PredictSession runs the per-day pipeline for one date.
func (s *Scheduler) PredictSession(req PredictRequest) domain.SessionSchedule {
	date := domain.DateOnly(req.Date)
	id := SessionID(req.AthleteID, date)

	sessionType, typeReason := RecommendSessionType(date, req.History, req.Planned, req.Preferences)
	timing := CalculateOptimalTiming(date, req.History.Sessions, req.History.CheckIns)

	energy := averageEnergy(recentCheckIns(req.History.CheckIns, date, recentWindow))
	var lastRPE *float64
	if last := domain.LastCompletedBefore(req.History.Sessions, date); last != nil {
		if rpe := last.AverageSetRPE(); rpe > 0 {
			lastRPE = &rpe
		}
	}

	conflicts := DetectConflicts(id, date, timing.BestTime, req.History, req.Preferences)

	return domain.SessionSchedule{
		ID:         id,
		Date:       date,
		Time:       timing.BestTime,
		Type:       sessionType,
		Duration:   RecommendDuration(sessionType, energy),
		Intensity:  RecommendIntensity(sessionType, energy, lastRPE),
		Priority:   PriorityFor(req.SlotsRemaining),
		Reason:     fmt.Sprintf("%s; %s", typeReason, timingSummary(timing)),
		Confidence: timing.Confidence,
		Conflicts:  conflicts,
		Optimal:    len(conflicts) == 0,
	}
}

// GenerateAutomaticSchedule builds the week starting at req.WeekStart.
// Each date goes through recovery, availability, cap and occupancy checks before synthesis.
func (s *Scheduler) GenerateAutomaticSchedule(req WeekRequest) domain.AutomaticSchedule {
	weekStart := domain.DateOnly(req.WeekStart)
	schedule := domain.AutomaticSchedule{
		AthleteID:    req.AthleteID,
		WeekStart:    weekStart,
		WeekEnd:      weekStart.AddDate(0, 0, 6),
		Sessions:     []domain.SessionSchedule{},
		Conflicts:    []domain.ScheduleConflict{},
		RecoveryDays: []time.Time{},
		Adjustments:  []string{},
	}

	occupied := make(map[string]bool, len(req.Existing))
	for _, e := range req.Existing {
		day := domain.DateOnly(e.Date)
		if day.Before(weekStart) || day.After(schedule.WeekEnd) {
			continue
		}
		occupied[day.Format(domain.DateLayout)] = true
	}
	slots := req.Preferences.MaxSessionsPerWeek - len(occupied)

	for i := 0; i < 7; i++ {
		date := weekStart.AddDate(0, 0, i)
		label := date.Format("Mon 2006-01-02")

		if needed, reason := NeedsRecovery(date, req.History); needed {
			schedule.RecoveryDays = append(schedule.RecoveryDays, date)
			schedule.Adjustments = append(schedule.Adjustments, fmt.Sprintf("%s: recovery day (%s)", label, reason))
			continue
		}
		if !req.Preferences.IsAvailable(date.Weekday()) {
			continue
		}
		if len(schedule.Sessions) >= slots {
			schedule.Adjustments = append(schedule.Adjustments,
				fmt.Sprintf("%s: weekly cap of %d sessions reached", label, req.Preferences.MaxSessionsPerWeek))
			break
		}
		if occupied[date.Format(domain.DateLayout)] {
			schedule.Adjustments = append(schedule.Adjustments, fmt.Sprintf("%s: existing session kept", label))
			continue
		}

		session := s.PredictSession(PredictRequest{
			AthleteID:      req.AthleteID,
			Date:           date,
			Preferences:    req.Preferences,
			History:        req.History,
			Planned:        schedule.Sessions,
			SlotsRemaining: slots - len(schedule.Sessions),
		})
		schedule.Sessions = append(schedule.Sessions, session)
		schedule.Conflicts = append(schedule.Conflicts, session.Conflicts...)
		schedule.Adjustments = append(schedule.Adjustments, fmt.Sprintf("%s: scheduled %s at %s (confidence %.0f%%)",
			label, session.Type, session.Time, session.Confidence))
	}

	schedule.Optimal = len(schedule.Conflicts) == 0
	return schedule
}

func timingSummary(t domain.OptimalTiming) string {
	return fmt.Sprintf("%s recommended with %.0f%% confidence", t.BestTime, t.Confidence)
}
