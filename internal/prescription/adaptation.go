package prescription

import (
	"math"
	"regexp"
	"strconv"

	"alcyxob/adaptive-trainer/internal/domain"
)

type phaseRule struct {
	RPEDelta   float64
	RestDelta  int // Seconds
	SetsFactor float64
	Cue        string
}

// phaseRules is the per-phase adaptation block applied to every base exercise.
var phaseRules = map[string]phaseRule{
	domain.PhaseFoundation:  {RPEDelta: -2, RestDelta: 30, SetsFactor: 1, Cue: "Focus on form"},
	domain.PhaseStrength:    {RPEDelta: 1, RestDelta: 60, SetsFactor: 1, Cue: "Focus on heavy, controlled lifts"},
	domain.PhaseHypertrophy: {RPEDelta: 0.5, RestDelta: -15, SetsFactor: 1.2, Cue: "Focus on time under tension"},
	domain.PhasePower:       {RPEDelta: 1.5, RestDelta: 60, SetsFactor: 0.8, Cue: "Focus on explosive power"},
	domain.PhaseDeload:      {RPEDelta: -3, RestDelta: 30, SetsFactor: 0.6, Cue: "Keep it light and move well"},
}

func applyPhaseRule(ex *domain.Exercise, phaseID string) (string, bool) {
	rule, ok := phaseRules[phaseID]
	if !ok {
		return "", false
	}
	ex.TargetRPE = clampRPE(ex.TargetRPE + rule.RPEDelta)
	ex.RestTime = max(ex.RestTime+rule.RestDelta, 0)
	ex.Sets = scaleInt(ex.Sets, rule.SetsFactor, 1)
	ex.Instructions = append([]string{rule.Cue}, ex.Instructions...)
	return rule.Cue, true
}

// applyMultipliers scales the exercise by the phase's global intensity and volume adjustments.
func applyMultipliers(ex *domain.Exercise, intensity domain.IntensityAdjustments, volume domain.VolumeAdjustments) {
	ex.Sets = scaleInt(ex.Sets, volume.Sets, 1)
	ex.Reps = ScaleReps(ex.Reps, volume.Reps)
	ex.RestTime = scaleInt(ex.RestTime, volume.Rest, 0)
	ex.TargetRPE = clampRPE(math.Round(ex.TargetRPE*intensity.Strength*10) / 10)
}

var repNumber = regexp.MustCompile(`\d+`)

// ScaleReps multiplies every number in a rep spec, so "8-10" at 1.1 becomes "9-11".
func ScaleReps(spec string, factor float64) string {
	if factor == 1 || factor <= 0 {
		return spec
	}
	return repNumber.ReplaceAllStringFunc(spec, func(s string) string {
		n, err := strconv.Atoi(s)
		if err != nil {
			return s
		}
		return strconv.Itoa(scaleInt(n, factor, 1))
	})
}

func scaleInt(v int, factor float64, floor int) int {
	return max(int(math.Round(float64(v)*factor)), floor)
}

func clampRPE(v float64) float64 {
	return math.Max(1, math.Min(10, v))
}

// hasEquipment reports whether every required tag is in the inventory.
func hasEquipment(required, available []string) bool {
	have := make(map[string]bool, len(available))
	for _, a := range available {
		have[a] = true
	}
	for _, r := range required {
		if !have[r] {
			return false
		}
	}
	return true
}
