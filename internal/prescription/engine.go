// Package prescription turns a phase analysis and session history into concrete exercise programs.
package prescription

import (
	"fmt"
	"math"
	"strings"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
)

const (
	recentSessionLimit = 10
	warmUpMinutes      = 10
)

// Context is the read-only input to exercise generation.
type Context struct {
	Athlete     domain.Athlete
	Week        int
	Analysis    domain.PhaseAnalysis
	Sessions    []domain.SessionRecord // Newest first
	CheckIns    []domain.CheckIn       // Newest first
	Metrics     domain.PerformanceMetrics
	Equipment   []string
	Preferences domain.SchedulingPreferences
}

// Engine generates session programs.
type Engine struct {
	params Params
}

// NewEngine builds an engine. Zero-valued params fall back to the defaults.
func NewEngine(params Params) *Engine {
	def := DefaultParams()
	if params.Step <= 0 {
		params.Step = def.Step
	}
	if params.LowRPE <= 0 {
		params.LowRPE = def.LowRPE
	}
	if params.HighRPE <= 0 {
		params.HighRPE = def.HighRPE
	}
	return &Engine{params: params}
}

// BuildContext assembles the generation context from an athlete, their analysis and history.
func BuildContext(athlete domain.Athlete, analysis domain.PhaseAnalysis, sessions []domain.SessionRecord, checkIns []domain.CheckIn) Context {
	recent := domain.SessionsNewestFirst(sessions)
	if len(recent) > recentSessionLimit {
		recent = recent[:recentSessionLimit]
	}
	return Context{
		Athlete:     athlete,
		Week:        analysis.Week,
		Analysis:    analysis,
		Sessions:    recent,
		CheckIns:    domain.CheckInsNewestFirst(checkIns),
		Metrics:     CalculatePerformanceMetrics(recent),
		Equipment:   append([]string(nil), athlete.Equipment...),
		Preferences: athlete.Preferences,
	}
}

// CalculatePerformanceMetrics aggregates completion, RPE and duration over sessions.
func CalculatePerformanceMetrics(sessions []domain.SessionRecord) domain.PerformanceMetrics {
	var m domain.PerformanceMetrics
	if len(sessions) == 0 {
		return m
	}
	var rpeSum, durSum float64
	var rpeCount int
	for _, s := range sessions {
		if !s.Completed {
			continue
		}
		m.CompletedSessions++
		durSum += float64(s.Duration)
		if s.RPE > 0 {
			rpeSum += s.RPE
			rpeCount++
		}
	}
	m.CompletionRate = float64(m.CompletedSessions) / float64(len(sessions))
	if m.CompletedSessions > 0 {
		m.AverageDuration = durSum / float64(m.CompletedSessions)
	}
	if rpeCount > 0 {
		m.AverageRPE = rpeSum / float64(rpeCount)
	}
	return m
}

// GenerateExercises runs the adaptation pipeline for one session type:
// base lookup, phase rules, progression, equipment filter, global multipliers.
func (e *Engine) GenerateExercises(ctx Context, t domain.SessionType) ([]domain.Exercise, domain.AdaptationRecord) {
	phaseID := ctx.Analysis.CurrentPhase.ID
	if phaseID == "" {
		phaseID = domain.PhaseFoundation
	}
	record := domain.AdaptationRecord{
		Phase:                phaseID,
		IntensityAdjustments: ctx.Analysis.IntensityAdjustments,
		VolumeAdjustments:    ctx.Analysis.VolumeAdjustments,
		Notes:                []string{},
	}

	base := BaseExercises(t, phaseID)
	for i := range base {
		if cue, ok := applyPhaseRule(&base[i], phaseID); ok && i == 0 {
			record.Notes = append(record.Notes, fmt.Sprintf("%s phase: %s", phaseID, cue))
		}
	}

	for i := range base {
		p := e.CalculateExerciseProgression(base[i], ctx.Sessions)
		if p.Confidence == 0 {
			continue
		}
		record.Progressions = append(record.Progressions, p)
		if p.NextLoad > 0 {
			load := p.NextLoad
			base[i].Load = &load
		}
	}

	exercises := make([]domain.Exercise, 0, len(base))
	for _, ex := range base {
		if !hasEquipment(ex.Equipment, ctx.Equipment) {
			record.RemovedForEquipment = append(record.RemovedForEquipment, ex.ID)
			continue
		}
		exercises = append(exercises, ex)
	}
	if n := len(record.RemovedForEquipment); n > 0 {
		record.Notes = append(record.Notes, fmt.Sprintf("Removed %d exercise(s) for missing equipment", n))
	}

	intensity := withDefaultIntensity(ctx.Analysis.IntensityAdjustments)
	volume := withDefaultVolume(ctx.Analysis.VolumeAdjustments)
	record.IntensityAdjustments, record.VolumeAdjustments = intensity, volume
	for i := range exercises {
		applyMultipliers(&exercises[i], intensity, volume)
	}
	record.Notes = append(record.Notes, fmt.Sprintf("Scaled sets x%.2f, reps x%.2f, rest x%.2f, RPE x%.2f",
		volume.Sets, volume.Reps, volume.Rest, intensity.Strength))

	return exercises, record
}

func withDefaultIntensity(a domain.IntensityAdjustments) domain.IntensityAdjustments {
	if a.Strength <= 0 {
		a.Strength = 1
	}
	if a.Volume <= 0 {
		a.Volume = 1
	}
	if a.Frequency <= 0 {
		a.Frequency = 1
	}
	return a
}

func withDefaultVolume(a domain.VolumeAdjustments) domain.VolumeAdjustments {
	if a.Sets <= 0 {
		a.Sets = 1
	}
	if a.Reps <= 0 {
		a.Reps = 1
	}
	if a.Rest <= 0 {
		a.Rest = 1
	}
	return a
}

// EstimateDuration sums set rest time across exercises plus a fixed warm-up allowance, in minutes.
func EstimateDuration(exercises []domain.Exercise) int {
	var seconds float64
	for _, ex := range exercises {
		seconds += float64(ex.Sets * ex.RestTime)
	}
	return int(math.Round(seconds/60)) + warmUpMinutes
}

// GenerateSessionProgram builds the program for one scheduled session.
func (e *Engine) GenerateSessionProgram(ctx Context, session domain.SessionSchedule) domain.SessionProgram {
	exercises, record := e.GenerateExercises(ctx, session.Type)
	phase := ctx.Analysis.CurrentPhase
	if phase.ID == "" {
		phase.ID, phase.Name = domain.PhaseFoundation, "Foundation"
	}

	return domain.SessionProgram{
		ID:                domain.DeterministicID("program", session.ID, phase.ID),
		Name:              fmt.Sprintf("%s: %s session", phase.Name, titleCase(string(session.Type))),
		Type:              session.Type,
		Phase:             phase.ID,
		Week:              ctx.Week,
		Day:               weekdayIndex(session.Date.Weekday()),
		Exercises:         exercises,
		EstimatedDuration: EstimateDuration(exercises),
		Intensity:         session.Intensity,
		Volume:            phase.Volume,
		Focus:             append([]string(nil), phase.Focus...),
		Adaptation:        record,
	}
}

// GetSessionRecommendations merges phase guidance with caveats from the latest check-in.
func GetSessionRecommendations(ctx Context) []string {
	recs := append([]string{}, ctx.Analysis.Recommendations...)
	latest := domain.LatestCheckIn(ctx.CheckIns)
	if latest == nil {
		return recs
	}
	if latest.Energy < 5 {
		recs = append(recs, fmt.Sprintf("Energy is low (%d/10): reduce intensity today", latest.Energy))
	}
	if latest.Soreness > 7 {
		recs = append(recs, fmt.Sprintf("Soreness is high (%d/10): focus on recovery and mobility", latest.Soreness))
	}
	if latest.Mood < 3 {
		recs = append(recs, "Mood is low: choose a lighter session you enjoy")
	}
	return recs
}

// weekdayIndex numbers days from Monday = 1.
func weekdayIndex(d time.Weekday) int {
	return (int(d)+6)%7 + 1
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
