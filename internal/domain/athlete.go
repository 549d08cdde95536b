package domain

import (
	"errors"
	"time"
)

// Athlete is the individual a training program is planned for.
type Athlete struct {
	ID               string                `bson:"_id" json:"id"`
	Name             string                `bson:"name" json:"name"`
	ProgramStartDate *time.Time            `bson:"programStartDate,omitempty" json:"programStartDate,omitempty"` // Week 1 of the periodization model
	Equipment        []string              `bson:"equipment,omitempty" json:"equipment,omitempty"`               // Available equipment tags
	Preferences      SchedulingPreferences `bson:"preferences" json:"preferences"`
	CreatedAt        time.Time             `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time             `bson:"updatedAt" json:"updatedAt"`
}

// SchedulingPreferences enumerates every scheduling option an athlete may set.
// Zero values mean "use the configured default".
type SchedulingPreferences struct {
	PreferredTimes     []string            `bson:"preferredTimes,omitempty" json:"preferredTimes,omitempty"` // "HH:MM"
	AvailableDays      []int               `bson:"availableDays,omitempty" json:"availableDays,omitempty"`   // 0 = Sunday ... 6 = Saturday
	MaxSessionsPerWeek int                 `bson:"maxSessionsPerWeek,omitempty" json:"maxSessionsPerWeek,omitempty"`
	PreferredMix       map[SessionType]int `bson:"preferredMix,omitempty" json:"preferredMix,omitempty"` // Desired sessions per type per week
}

var (
	ErrInvalidWeekday       = errors.New("available days must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidSessionCap    = errors.New("max sessions per week must be between 1 and 7")
	ErrInvalidPreferredTime = errors.New("preferred times must use the HH:MM format")
)

// Validate checks the explicitly set fields. Unset fields are always valid.
func (p SchedulingPreferences) Validate() error {
	for _, d := range p.AvailableDays {
		if d < 0 || d > 6 {
			return ErrInvalidWeekday
		}
	}
	if p.MaxSessionsPerWeek < 0 || p.MaxSessionsPerWeek > 7 {
		return ErrInvalidSessionCap
	}
	for _, t := range p.PreferredTimes {
		if _, err := ParseClock(t); err != nil {
			return ErrInvalidPreferredTime
		}
	}
	return nil
}

// WithDefaults fills every unset field from defaults.
func (p SchedulingPreferences) WithDefaults(defaults SchedulingPreferences) SchedulingPreferences {
	out := p
	if len(out.AvailableDays) == 0 {
		out.AvailableDays = append([]int(nil), defaults.AvailableDays...)
	}
	if out.MaxSessionsPerWeek == 0 {
		out.MaxSessionsPerWeek = defaults.MaxSessionsPerWeek
	}
	if len(out.PreferredTimes) == 0 {
		out.PreferredTimes = append([]string(nil), defaults.PreferredTimes...)
	}
	if len(out.PreferredMix) == 0 && len(defaults.PreferredMix) > 0 {
		out.PreferredMix = make(map[SessionType]int, len(defaults.PreferredMix))
		for k, v := range defaults.PreferredMix {
			out.PreferredMix[k] = v
		}
	}
	return out
}

// IsAvailable reports whether the weekday is in the available set.
func (p SchedulingPreferences) IsAvailable(day time.Weekday) bool {
	for _, d := range p.AvailableDays {
		if time.Weekday(d) == day {
			return true
		}
	}
	return false
}
