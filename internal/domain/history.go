package domain

import (
	"sort"
	"time"
)

// SessionStatus tracks the lifecycle of a session record.
type SessionStatus string

const (
	SessionPlanned   SessionStatus = "planned"   // Placeholder written by the scheduler
	SessionCompleted SessionStatus = "completed" // Performed and logged
	SessionMissed    SessionStatus = "missed"
	SessionSkipped   SessionStatus = "skipped"
)

// SetLog is one performed set.
type SetLog struct {
	Weight    float64 `bson:"weight" json:"weight"`
	Reps      int     `bson:"reps" json:"reps"`
	RPE       float64 `bson:"rpe" json:"rpe"`
	Completed bool    `bson:"completed" json:"completed"`
}

// ExerciseLog groups the sets performed for one exercise in a session.
type ExerciseLog struct {
	Name string   `bson:"name" json:"name"`
	Sets []SetLog `bson:"sets" json:"sets"`
}

// SessionRecord is a persisted training session, planned or performed.
type SessionRecord struct {
	ID        string        `bson:"_id" json:"id"`
	AthleteID string        `bson:"athleteId" json:"athleteId"`
	Date      time.Time     `bson:"date" json:"date"` // Start date and clock time
	Type      SessionType   `bson:"type" json:"type"`
	Duration  int           `bson:"duration" json:"duration"` // Minutes
	Completed bool          `bson:"completed" json:"completed"`
	RPE       float64       `bson:"rpe" json:"rpe"`                                 // Session RPE
	Intensity Tier          `bson:"intensity,omitempty" json:"intensity,omitempty"` // Planned intensity
	Exercises []ExerciseLog `bson:"exercises" json:"exercises"`
	Status    SessionStatus `bson:"status" json:"status"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// IsMissed reports whether the session should count as missed as of today.
func (s SessionRecord) IsMissed(today time.Time) bool {
	if s.Status == SessionMissed {
		return true
	}
	return s.Status == SessionPlanned && !s.Completed && DateOnly(s.Date).Before(DateOnly(today))
}

// AverageSetRPE averages the RPE of completed sets, falling back to the session RPE.
func (s SessionRecord) AverageSetRPE() float64 {
	var sum float64
	var n int
	for _, ex := range s.Exercises {
		for _, set := range ex.Sets {
			if set.Completed && set.RPE > 0 {
				sum += set.RPE
				n++
			}
		}
	}
	if n == 0 {
		return s.RPE
	}
	return sum / float64(n)
}

// CheckIn is a daily self-report.
type CheckIn struct {
	ID         string    `bson:"_id" json:"id"`
	AthleteID  string    `bson:"athleteId" json:"athleteId"`
	Date       time.Time `bson:"date" json:"date"`
	Energy     int       `bson:"energy" json:"energy"`     // 1-10
	SleepHours float64   `bson:"sleepHours" json:"sleepHours"`
	Soreness   int       `bson:"soreness" json:"soreness"` // 1-10
	Mood       int       `bson:"mood" json:"mood"`         // 1-10
	Motivation int       `bson:"motivation" json:"motivation"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// SessionsNewestFirst returns a copy of sessions sorted by date, most recent first.
func SessionsNewestFirst(sessions []SessionRecord) []SessionRecord {
	out := append([]SessionRecord(nil), sessions...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// CheckInsNewestFirst returns a copy of check-ins sorted by date, most recent first.
func CheckInsNewestFirst(checkIns []CheckIn) []CheckIn {
	out := append([]CheckIn(nil), checkIns...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// LatestCheckIn returns the most recent check-in, or nil.
func LatestCheckIn(checkIns []CheckIn) *CheckIn {
	if len(checkIns) == 0 {
		return nil
	}
	latest := CheckInsNewestFirst(checkIns)[0]
	return &latest
}

// CheckInOn returns the most recent check-in recorded on the same calendar date, or nil.
func CheckInOn(checkIns []CheckIn, date time.Time) *CheckIn {
	day := DateOnly(date)
	for _, c := range CheckInsNewestFirst(checkIns) {
		if DateOnly(c.Date).Equal(day) {
			found := c
			return &found
		}
	}
	return nil
}

// LastCompletedBefore returns the most recent completed session dated strictly before date, or nil.
func LastCompletedBefore(sessions []SessionRecord, date time.Time) *SessionRecord {
	for _, s := range SessionsNewestFirst(sessions) {
		if s.Completed && s.Date.Before(date) {
			found := s
			return &found
		}
	}
	return nil
}
