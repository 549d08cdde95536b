package domain

// ProgressionRule describes how an exercise is meant to progress.
type ProgressionRule struct {
	Type      string  `json:"type"`      // "load", "reps", "time"
	Increment float64 `json:"increment"` // Fractional step for load rules
	Frequency string  `json:"frequency"` // e.g. "weekly"
}

// Exercise is a prescribed exercise after adaptation.
type Exercise struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Sets         int             `json:"sets"`
	Reps         string          `json:"reps"` // e.g. "8-10", "30s"
	Load         *float64        `json:"load,omitempty"`
	Instructions []string        `json:"instructions"`
	Phase        string          `json:"phase"`
	Difficulty   string          `json:"difficulty"`
	Equipment    []string        `json:"equipment"`
	MuscleGroups []string        `json:"muscleGroups"`
	TargetRPE    float64         `json:"targetRpe"`
	RestTime     int             `json:"restTime"` // Seconds
	Progression  ProgressionRule `json:"progression"`
}

// AdaptationRecord captures which multipliers were applied to a program and why.
type AdaptationRecord struct {
	Phase                string                `json:"phase"`
	IntensityAdjustments IntensityAdjustments  `json:"intensityAdjustments"`
	VolumeAdjustments    VolumeAdjustments     `json:"volumeAdjustments"`
	RemovedForEquipment  []string              `json:"removedForEquipment,omitempty"`
	Progressions         []ExerciseProgression `json:"progressions,omitempty"`
	Notes                []string              `json:"notes"`
}

// SessionProgram is the concrete exercise list for one scheduled session.
type SessionProgram struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Type              SessionType      `json:"type"`
	Phase             string           `json:"phase"`
	Week              int              `json:"week"`
	Day               int              `json:"day"` // 1 = first day of the week
	Exercises         []Exercise       `json:"exercises"`
	EstimatedDuration int              `json:"estimatedDuration"` // Minutes
	Intensity         Tier             `json:"intensity"`
	Volume            Tier             `json:"volume"`
	Focus             []string         `json:"focus"`
	Adaptation        AdaptationRecord `json:"adaptation"`
}

// ExerciseProgression is the computed next step for one exercise.
type ExerciseProgression struct {
	ExerciseID        string  `json:"exerciseId"`
	CurrentLoad       float64 `json:"currentLoad"`
	CurrentReps       int     `json:"currentReps"`
	ProgressionType   string  `json:"progressionType"`
	NextLoad          float64 `json:"nextLoad"`
	NextReps          int     `json:"nextReps"`
	ProgressionReason string  `json:"progressionReason"`
	Confidence        float64 `json:"confidence"` // 0-1
}

// PerformanceMetrics are simple aggregates over recent sessions.
type PerformanceMetrics struct {
	CompletedSessions int     `json:"completedSessions"`
	CompletionRate    float64 `json:"completionRate"`
	AverageRPE        float64 `json:"averageRpe"`
	AverageDuration   float64 `json:"averageDuration"`
}

// Dashboard is the orchestrator's combined read model.
type Dashboard struct {
	AthleteID        string                  `json:"athleteId"`
	Phase            PhaseAnalysis           `json:"phase"`
	CurrentWeek      AutomaticSchedule       `json:"currentWeek"`
	NextWeek         AutomaticSchedule       `json:"nextWeek"`
	MissedRecoveries []MissedSessionRecovery `json:"missedRecoveries"`
	Timing           TimingRecommendations   `json:"timing"`
	Resolutions      []ConflictResolution    `json:"resolutions"`
}
