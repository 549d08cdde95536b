package phase

import "alcyxob/adaptive-trainer/internal/domain"

// Phases is the fixed periodization catalog, in program order.
var Phases = []domain.ProgramPhase{
	{
		ID:              domain.PhaseFoundation,
		Name:            "Foundation",
		StartWeek:       1,
		Duration:        4,
		Intensity:       domain.TierLow,
		Volume:          domain.TierModerate,
		Focus:           []string{"movement quality", "work capacity", "injury prevention"},
		Characteristics: []string{"Moderate loads with strict technique", "Higher rep ranges", "Generous rest"},
		Recommendations: []string{
			"Prioritize technique over load on every lift",
			"Build a consistent weekly training routine",
		},
	},
	{
		ID:              domain.PhaseStrength,
		Name:            "Strength",
		StartWeek:       5,
		Duration:        6,
		Intensity:       domain.TierHigh,
		Volume:          domain.TierModerate,
		Focus:           []string{"maximal strength", "compound lifts"},
		Characteristics: []string{"Heavy loads at low reps", "Long rest between sets"},
		Recommendations: []string{
			"Keep main lifts in the 3-6 rep range",
			"Rest 2-4 minutes between heavy sets",
		},
	},
	{
		ID:              domain.PhaseHypertrophy,
		Name:            "Hypertrophy",
		StartWeek:       11,
		Duration:        4,
		Intensity:       domain.TierModerate,
		Volume:          domain.TierHigh,
		Focus:           []string{"muscle growth", "time under tension"},
		Characteristics: []string{"Moderate loads at 8-12 reps", "Short rest", "High weekly set volume"},
		Recommendations: []string{
			"Control the eccentric on every rep",
			"Prioritize sleep and protein intake to support growth",
		},
	},
	{
		ID:              domain.PhasePower,
		Name:            "Power",
		StartWeek:       15,
		Duration:        3,
		Intensity:       domain.TierHigh,
		Volume:          domain.TierLow,
		Focus:           []string{"rate of force development", "jumping", "explosiveness"},
		Characteristics: []string{"Explosive intent on every rep", "Low volume", "Full recovery between sets"},
		Recommendations: []string{
			"Stop sets as soon as bar speed drops",
			"Pair heavy lifts with jumps for contrast training",
		},
	},
	{
		ID:              domain.PhaseDeload,
		Name:            "Deload",
		StartWeek:       18,
		Duration:        1,
		Intensity:       domain.TierLow,
		Volume:          domain.TierLow,
		Focus:           []string{"recovery", "mobility"},
		Characteristics: []string{"Reduced load and volume", "Active recovery"},
		Recommendations: []string{
			"Keep sessions short and easy",
			"Use the extra time for mobility and sleep",
		},
	},
}

// Transitions is the phase graph. Deload loops back to strength, not foundation.
var Transitions = []domain.PhaseTransition{
	{
		FromPhase: domain.PhaseFoundation,
		ToPhase:   domain.PhaseStrength,
		Trigger:   "Foundation block completed with consistent attendance",
		Conditions: []domain.TransitionCondition{
			domain.ConditionNoMissedSessions,
			domain.ConditionLowAverageRPE,
			domain.ConditionLowSoreness,
			domain.ConditionHighEnergy,
		},
		Recommendations: []string{"Introduce heavier compound lifts gradually"},
	},
	{
		FromPhase: domain.PhaseStrength,
		ToPhase:   domain.PhaseHypertrophy,
		Trigger:   "Strength block completed",
		Conditions: []domain.TransitionCondition{
			domain.ConditionNoMissedSessions,
			domain.ConditionLowAverageRPE,
			domain.ConditionLowSoreness,
		},
		Recommendations: []string{"Increase weekly set volume and shorten rest"},
	},
	{
		FromPhase: domain.PhaseHypertrophy,
		ToPhase:   domain.PhasePower,
		Trigger:   "Hypertrophy block completed",
		Conditions: []domain.TransitionCondition{
			domain.ConditionNoMissedSessions,
			domain.ConditionLowSoreness,
			domain.ConditionHighEnergy,
		},
		Recommendations: []string{"Reduce volume and add explosive movements"},
	},
	{
		FromPhase: domain.PhasePower,
		ToPhase:   domain.PhaseDeload,
		Trigger:   "Power block completed",
		Conditions: []domain.TransitionCondition{
			domain.ConditionNoMissedSessions,
			domain.ConditionHighEnergy,
		},
		Recommendations: []string{"Plan a lighter week before the next cycle"},
	},
	{
		FromPhase: domain.PhaseDeload,
		ToPhase:   domain.PhaseStrength,
		Trigger:   "Deload week completed",
		Conditions: []domain.TransitionCondition{
			domain.ConditionLowSoreness,
			domain.ConditionHighEnergy,
		},
		Recommendations: []string{"Resume heavy training with conservative loads"},
	},
}

var intensityCoefficients = map[domain.Tier]domain.IntensityAdjustments{
	domain.TierHigh:     {Strength: 1.3, Volume: 1.1, Frequency: 1.1},
	domain.TierModerate: {Strength: 1.0, Volume: 1.0, Frequency: 1.0},
	domain.TierLow:      {Strength: 0.8, Volume: 0.9, Frequency: 0.9},
}

var volumeCoefficients = map[domain.Tier]domain.VolumeAdjustments{
	domain.TierHigh:     {Sets: 1.2, Reps: 1.1, Rest: 0.9},
	domain.TierModerate: {Sets: 1.0, Reps: 1.0, Rest: 1.0},
	domain.TierLow:      {Sets: 0.8, Reps: 0.8, Rest: 1.2},
}

// ByID looks a phase up in the catalog.
func ByID(id string) (domain.ProgramPhase, bool) {
	for _, p := range Phases {
		if p.ID == id {
			return p, true
		}
	}
	return domain.ProgramPhase{}, false
}

// TransitionFrom returns the outgoing edge of a phase, if any.
func TransitionFrom(id string) (domain.PhaseTransition, bool) {
	for _, t := range Transitions {
		if t.FromPhase == id {
			return t, true
		}
	}
	return domain.PhaseTransition{}, false
}
