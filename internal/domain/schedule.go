package domain

import "time"

// SessionType is what kind of session gets scheduled.
type SessionType string

const (
	SessionStrength     SessionType = "strength"
	SessionVolleyball   SessionType = "volleyball"
	SessionConditioning SessionType = "conditioning"
	SessionRest         SessionType = "rest"
)

// Priority of a scheduled session relative to the weekly cap.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ConflictType classifies why a slot is unsuitable.
type ConflictType string

const (
	ConflictTime     ConflictType = "time"
	ConflictEnergy   ConflictType = "energy"
	ConflictRecovery ConflictType = "recovery"
	ConflictSocial   ConflictType = "social"
	ConflictWork     ConflictType = "work"
)

// Severity of a conflict.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ScheduleConflict is always attached to exactly one SessionSchedule.
type ScheduleConflict struct {
	ID          string       `json:"id"`
	Type        ConflictType `json:"type"`
	Severity    Severity     `json:"severity"`
	Description string       `json:"description"`
	Suggestion  string       `json:"suggestion"`
}

// SessionSchedule is a proposed session slot.
type SessionSchedule struct {
	ID         string             `json:"id"`
	Date       time.Time          `json:"date"`
	Time       string             `json:"time"` // "HH:MM"
	Type       SessionType        `json:"type"`
	Duration   int                `json:"duration"` // Minutes
	Intensity  Tier               `json:"intensity"`
	Priority   Priority           `json:"priority"`
	Reason     string             `json:"reason"`
	Confidence float64            `json:"confidence"` // Timing confidence, 0-100
	Conflicts  []ScheduleConflict `json:"conflicts"`
	Optimal    bool               `json:"optimal"`
}

// AutomaticSchedule is one athlete's plan for one week.
type AutomaticSchedule struct {
	AthleteID    string             `json:"athleteId"`
	WeekStart    time.Time          `json:"weekStart"`
	WeekEnd      time.Time          `json:"weekEnd"`
	Sessions     []SessionSchedule  `json:"sessions"`
	Conflicts    []ScheduleConflict `json:"conflicts"`
	RecoveryDays []time.Time        `json:"recoveryDays"`
	Optimal      bool               `json:"optimal"`
	Adjustments  []string           `json:"adjustments"`
}

// ResolutionAction is how a conflict gets resolved.
type ResolutionAction string

const (
	ActionReschedule      ResolutionAction = "reschedule"
	ActionAdjustTime      ResolutionAction = "adjust_time"
	ActionReduceIntensity ResolutionAction = "reduce_intensity"
	ActionPostpone        ResolutionAction = "postpone"
	ActionSkip            ResolutionAction = "skip"
)

// ConflictResolution resolves one conflict of one session.
type ConflictResolution struct {
	ConflictID   string           `json:"conflictId"`
	SessionID    string           `json:"sessionId"`
	Action       ResolutionAction `json:"action"`
	NewDate      *time.Time       `json:"newDate,omitempty"`
	NewTime      string           `json:"newTime,omitempty"`
	NewIntensity Tier             `json:"newIntensity,omitempty"`
	NewPriority  Priority         `json:"newPriority,omitempty"`
	Reason       string           `json:"reason"`
	Impact       Severity         `json:"impact"`
}

// MissedSessionRecovery proposes a new slot for a missed session.
type MissedSessionRecovery struct {
	MissedSessionID   string             `json:"missedSessionId"`
	OriginalDate      time.Time          `json:"originalDate"`
	RecoveryDate      time.Time          `json:"recoveryDate"`
	RecoveryTime      string             `json:"recoveryTime"`
	AdjustedIntensity Tier               `json:"adjustedIntensity"`
	Reason            string             `json:"reason"`
	Conflicts         []ScheduleConflict `json:"conflicts"`
	Optimal           bool               `json:"optimal"`
}

// OptimalTiming is the timing decision for one date.
type OptimalTiming struct {
	BestTime     string   `json:"bestTime"`
	Confidence   float64  `json:"confidence"` // 0-100
	Factors      []string `json:"factors"`
	Alternatives []string `json:"alternatives"`
}

// TimeSlotScore ranks one clock hour by historical outcomes.
type TimeSlotScore struct {
	Time           string  `json:"time"`
	Score          float64 `json:"score"`
	Sessions       int     `json:"sessions"`
	CompletionRate float64 `json:"completionRate"`
	AverageRPE     float64 `json:"averageRpe"`
}

// WeekdayPattern summarizes sessions held on one weekday.
type WeekdayPattern struct {
	Weekday        time.Weekday `json:"weekday"`
	AverageHour    float64      `json:"averageHour"`
	CompletionRate float64      `json:"completionRate"`
	Sessions       int          `json:"sessions"`
}

// EnergyWindow is the average self-reported energy for one clock hour.
type EnergyWindow struct {
	Hour          int     `json:"hour"`
	AverageEnergy float64 `json:"averageEnergy"`
	Note          string  `json:"note"`
}

// RecoveryPattern is the composite recovery score for one weekday.
type RecoveryPattern struct {
	Weekday time.Weekday `json:"weekday"`
	Score   float64      `json:"score"`
	Note    string       `json:"note"`
}

// TimingRecommendations is the descriptive timing analytics read model.
type TimingRecommendations struct {
	BestTimes        []TimeSlotScore   `json:"bestTimes"`
	WeekdayPatterns  []WeekdayPattern  `json:"weekdayPatterns"`
	EnergyWindows    []EnergyWindow    `json:"energyWindows"`
	RecoveryPatterns []RecoveryPattern `json:"recoveryPatterns"`
}
