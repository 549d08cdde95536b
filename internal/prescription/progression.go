package prescription

import (
	"math"
	"strings"

	"alcyxob/adaptive-trainer/internal/domain"
)

// Progression outcomes.
const (
	ProgressionIncrease = "increase"
	ProgressionDecrease = "decrease"
	ProgressionMaintain = "maintain"
	ProgressionNone     = "none"
)

const minProgressionRecords = 3

// Params are the tunable progression constants.
type Params struct {
	Step    float64 // Fractional load change, e.g. 0.05
	LowRPE  float64 // Average RPE below this progresses
	HighRPE float64 // Average RPE above this regresses
}

// DefaultParams returns the stock 5% step with RPE thresholds 7 and 8.
func DefaultParams() Params {
	return Params{Step: 0.05, LowRPE: 7, HighRPE: 8}
}

type setRecord struct {
	weight float64
	reps   int
	rpe    float64
}

// completedSets collects completed sets of the named exercise, most recent first.
func completedSets(name string, sessions []domain.SessionRecord) []setRecord {
	var out []setRecord
	for _, s := range domain.SessionsNewestFirst(sessions) {
		for _, ex := range s.Exercises {
			if !strings.EqualFold(ex.Name, name) {
				continue
			}
			for i := len(ex.Sets) - 1; i >= 0; i-- {
				set := ex.Sets[i]
				if !set.Completed {
					continue
				}
				rpe := set.RPE
				if rpe <= 0 {
					rpe = s.RPE
				}
				out = append(out, setRecord{weight: set.Weight, reps: set.Reps, rpe: rpe})
			}
		}
	}
	return out
}

// CalculateExerciseProgression derives the next load for ex from its three most recent
// completed sets. Reps are never changed.
func (e *Engine) CalculateExerciseProgression(ex domain.Exercise, sessions []domain.SessionRecord) domain.ExerciseProgression {
	records := completedSets(ex.Name, sessions)
	if len(records) < minProgressionRecords {
		current := 0.0
		if ex.Load != nil {
			current = *ex.Load
		}
		if len(records) > 0 {
			current = records[0].weight
		}
		reps := 0
		if len(records) > 0 {
			reps = records[0].reps
		}
		return domain.ExerciseProgression{
			ExerciseID:        ex.ID,
			CurrentLoad:       current,
			CurrentReps:       reps,
			ProgressionType:   ProgressionNone,
			NextLoad:          current,
			NextReps:          reps,
			ProgressionReason: "insufficient data",
			Confidence:        0,
		}
	}

	var load, reps, rpe float64
	for _, r := range records[:minProgressionRecords] {
		load += r.weight
		reps += float64(r.reps)
		rpe += r.rpe
	}
	n := float64(minProgressionRecords)
	load, reps, rpe = load/n, reps/n, rpe/n
	currentReps := int(math.Round(reps))

	p := domain.ExerciseProgression{
		ExerciseID:  ex.ID,
		CurrentLoad: round2(load),
		CurrentReps: currentReps,
		NextReps:    currentReps,
	}
	switch {
	case rpe < e.params.LowRPE:
		p.ProgressionType = ProgressionIncrease
		p.NextLoad = round2(load * (1 + e.params.Step))
		p.ProgressionReason = "RPE consistently low, ready for progression"
		p.Confidence = 0.8
	case rpe > e.params.HighRPE:
		p.ProgressionType = ProgressionDecrease
		p.NextLoad = round2(load * (1 - e.params.Step))
		p.ProgressionReason = "RPE too high, reducing load for safety"
		p.Confidence = 0.3
	default:
		p.ProgressionType = ProgressionMaintain
		p.NextLoad = round2(load)
		p.ProgressionReason = "RPE on target, maintaining load"
		p.Confidence = 0.6
	}
	return p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
