package domain

// Tier is a coarse low / moderate / high level used for intensity and volume.
type Tier string

const (
	TierLow      Tier = "low"
	TierModerate Tier = "moderate"
	TierHigh     Tier = "high"
)

// Phase identifiers.
const (
	PhaseFoundation  = "foundation"
	PhaseStrength    = "strength"
	PhaseHypertrophy = "hypertrophy"
	PhasePower       = "power"
	PhaseDeload      = "deload"
)

// ProgramPhase is a static periodization block.
type ProgramPhase struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	StartWeek       int      `json:"startWeek"`
	Duration        int      `json:"duration"` // Weeks
	Intensity       Tier     `json:"intensity"`
	Volume          Tier     `json:"volume"`
	Focus           []string `json:"focus"`
	Characteristics []string `json:"characteristics"`
	Recommendations []string `json:"recommendations"`
}

// TransitionCondition names a readiness check that can gate a phase transition.
type TransitionCondition string

const (
	ConditionNoMissedSessions TransitionCondition = "no_missed_sessions" // None missed in the last 14 days
	ConditionLowAverageRPE    TransitionCondition = "low_average_rpe"    // Average RPE of the last 7 sessions < 7
	ConditionLowSoreness      TransitionCondition = "low_soreness"       // Latest check-in soreness <= 5
	ConditionHighEnergy       TransitionCondition = "high_energy"        // Latest check-in energy >= 6
)

// PhaseTransition is a static edge of the phase graph.
type PhaseTransition struct {
	FromPhase       string                `json:"fromPhase"`
	ToPhase         string                `json:"toPhase"`
	Trigger         string                `json:"trigger"`
	Conditions      []TransitionCondition `json:"conditions"`
	Recommendations []string              `json:"recommendations"`
}

// IntensityAdjustments are multipliers derived from a phase's intensity tier.
type IntensityAdjustments struct {
	Strength  float64 `json:"strength"`
	Volume    float64 `json:"volume"`
	Frequency float64 `json:"frequency"`
}

// VolumeAdjustments are multipliers derived from a phase's volume tier.
type VolumeAdjustments struct {
	Sets float64 `json:"sets"`
	Reps float64 `json:"reps"`
	Rest float64 `json:"rest"`
}

// PhaseAnalysis is recomputed on every request and never persisted.
type PhaseAnalysis struct {
	Week                 int                  `json:"week"`
	CurrentPhase         ProgramPhase         `json:"currentPhase"`
	PhaseProgress        float64              `json:"phaseProgress"` // 0-100
	NextPhase            *ProgramPhase        `json:"nextPhase,omitempty"`
	TransitionReadiness  float64              `json:"transitionReadiness"` // 0-100
	Recommendations      []string             `json:"recommendations"`
	IntensityAdjustments IntensityAdjustments `json:"intensityAdjustments"`
	VolumeAdjustments    VolumeAdjustments    `json:"volumeAdjustments"`
}
