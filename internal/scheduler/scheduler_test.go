package scheduler_test

import (
	"testing"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
	"alcyxob/adaptive-trainer/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	monday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now    = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
)

func newScheduler() *scheduler.Scheduler {
	return scheduler.New(func() time.Time { return now }, 7)
}

func weekdays() domain.SchedulingPreferences {
	return domain.SchedulingPreferences{
		AvailableDays:      []int{1, 2, 3, 4, 5},
		MaxSessionsPerWeek: 3,
	}
}

func day(offset int) time.Time {
	return monday.AddDate(0, 0, offset)
}

func at(offset, hour int) time.Time {
	return day(offset).Add(time.Duration(hour) * time.Hour)
}

func TestGenerateAutomaticSchedule_EmptyHistory(t *testing.T) {
	s := newScheduler()
	schedule := s.GenerateAutomaticSchedule(scheduler.WeekRequest{
		AthleteID:   "athlete-1",
		WeekStart:   monday,
		Preferences: weekdays(),
	})

	require.Len(t, schedule.Sessions, 3)
	assert.Equal(t, monday, schedule.WeekStart)
	assert.Equal(t, day(6), schedule.WeekEnd)

	wantTypes := []domain.SessionType{domain.SessionStrength, domain.SessionVolleyball, domain.SessionConditioning}
	wantPriorities := []domain.Priority{domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh}
	for i, session := range schedule.Sessions {
		assert.Equal(t, day(i), session.Date)
		assert.Equal(t, wantTypes[i], session.Type)
		assert.Equal(t, "18:00", session.Time)
		assert.InDelta(t, 50, session.Confidence, 0.001)
		assert.Empty(t, session.Conflicts)
		assert.True(t, session.Optimal)
		assert.Equal(t, wantPriorities[i], session.Priority)
	}
	assert.Equal(t, 75, schedule.Sessions[0].Duration)
	assert.Equal(t, 90, schedule.Sessions[1].Duration)
	assert.Equal(t, 45, schedule.Sessions[2].Duration)

	assert.Empty(t, schedule.Conflicts)
	assert.Empty(t, schedule.RecoveryDays)
	assert.True(t, schedule.Optimal)
	assert.NotEmpty(t, schedule.Adjustments)
}

func TestGenerateAutomaticSchedule_Idempotent(t *testing.T) {
	s := newScheduler()
	req := scheduler.WeekRequest{AthleteID: "athlete-1", WeekStart: monday, Preferences: weekdays()}
	assert.Equal(t, s.GenerateAutomaticSchedule(req), s.GenerateAutomaticSchedule(req))
}

func TestGenerateAutomaticSchedule_RecoveryDay(t *testing.T) {
	s := newScheduler()
	history := scheduler.History{
		CheckIns: []domain.CheckIn{{Date: at(1, 8), Energy: 3, Soreness: 4, SleepHours: 7}},
	}
	schedule := s.GenerateAutomaticSchedule(scheduler.WeekRequest{
		AthleteID:   "athlete-1",
		WeekStart:   monday,
		Preferences: weekdays(),
		History:     history,
	})

	require.Len(t, schedule.RecoveryDays, 1)
	assert.Equal(t, day(1), schedule.RecoveryDays[0])
	require.Len(t, schedule.Sessions, 3)
	for _, session := range schedule.Sessions {
		assert.NotEqual(t, day(1), session.Date)
	}
	assert.Equal(t, day(0), schedule.Sessions[0].Date)
	assert.Equal(t, day(2), schedule.Sessions[1].Date)
	assert.Equal(t, day(3), schedule.Sessions[2].Date)
}

func TestGenerateAutomaticSchedule_OldHardSessionDoesNotBlockWeek(t *testing.T) {
	s := newScheduler()
	history := scheduler.History{
		Sessions: []domain.SessionRecord{
			{Date: at(-10, 18), Type: domain.SessionStrength, Completed: true, RPE: 9, Status: domain.SessionCompleted},
		},
	}
	for i := 0; i < 7; i++ {
		history.CheckIns = append(history.CheckIns, domain.CheckIn{Date: at(i, 7), Energy: 8, Soreness: 2, SleepHours: 8})
	}

	schedule := s.GenerateAutomaticSchedule(scheduler.WeekRequest{
		AthleteID:   "athlete-1",
		WeekStart:   monday,
		Preferences: weekdays(),
		History:     history,
	})
	assert.Empty(t, schedule.RecoveryDays)
	assert.Len(t, schedule.Sessions, 3)
}

func TestGenerateAutomaticSchedule_RespectsCapAndWeek(t *testing.T) {
	s := newScheduler()
	for maxSessions := 1; maxSessions <= 7; maxSessions++ {
		prefs := domain.SchedulingPreferences{
			AvailableDays:      []int{0, 1, 2, 3, 4, 5, 6},
			MaxSessionsPerWeek: maxSessions,
		}
		schedule := s.GenerateAutomaticSchedule(scheduler.WeekRequest{
			AthleteID:   "athlete-1",
			WeekStart:   monday,
			Preferences: prefs,
		})
		assert.LessOrEqual(t, len(schedule.Sessions), maxSessions)
		for _, session := range schedule.Sessions {
			assert.False(t, session.Date.Before(schedule.WeekStart))
			assert.False(t, session.Date.After(schedule.WeekStart.AddDate(0, 0, 6)))
		}
	}
}

func TestGenerateAutomaticSchedule_ExistingSessions(t *testing.T) {
	s := newScheduler()
	existing := []domain.SessionRecord{
		{ID: "existing", Date: at(0, 18), Type: domain.SessionStrength, Status: domain.SessionPlanned},
	}
	schedule := s.GenerateAutomaticSchedule(scheduler.WeekRequest{
		AthleteID:   "athlete-1",
		WeekStart:   monday,
		Preferences: weekdays(),
		Existing:    existing,
	})

	// the existing session occupies Monday and one of the three weekly slots
	require.Len(t, schedule.Sessions, 2)
	assert.Equal(t, day(1), schedule.Sessions[0].Date)
	assert.Equal(t, day(2), schedule.Sessions[1].Date)
}

func TestGenerateAutomaticSchedule_UnavailableDays(t *testing.T) {
	s := newScheduler()
	prefs := domain.SchedulingPreferences{AvailableDays: []int{2, 4}, MaxSessionsPerWeek: 5}
	schedule := s.GenerateAutomaticSchedule(scheduler.WeekRequest{
		AthleteID:   "athlete-1",
		WeekStart:   monday,
		Preferences: prefs,
	})
	require.Len(t, schedule.Sessions, 2)
	assert.Equal(t, time.Tuesday, schedule.Sessions[0].Date.Weekday())
	assert.Equal(t, time.Thursday, schedule.Sessions[1].Date.Weekday())
}

func TestPredictSession_LowEnergyConflict(t *testing.T) {
	s := newScheduler()
	history := scheduler.History{
		CheckIns: []domain.CheckIn{{Date: at(2, 7), Energy: 5, Soreness: 3, SleepHours: 7}},
	}
	session := s.PredictSession(scheduler.PredictRequest{
		AthleteID:      "athlete-1",
		Date:           day(2),
		Preferences:    weekdays(),
		History:        history,
		SlotsRemaining: 3,
	})

	require.Len(t, session.Conflicts, 1)
	assert.Equal(t, domain.ConflictEnergy, session.Conflicts[0].Type)
	assert.Equal(t, domain.SeverityMedium, session.Conflicts[0].Severity)
	assert.False(t, session.Optimal)
	assert.Equal(t, "19:00", session.Time)
	assert.Equal(t, scheduler.SessionID("athlete-1", day(2)), session.ID)
}
