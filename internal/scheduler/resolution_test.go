package scheduler_test

import (
	"testing"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
	"alcyxob/adaptive-trainer/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduleWith(sessions ...domain.SessionSchedule) domain.AutomaticSchedule {
	return domain.AutomaticSchedule{
		AthleteID: "athlete-1",
		WeekStart: monday,
		WeekEnd:   day(6),
		Sessions:  sessions,
	}
}

func TestGenerateConflictResolution_Policy(t *testing.T) {
	s := newScheduler()
	base := domain.SessionSchedule{ID: "s1", Date: day(0), Time: "18:00", Type: domain.SessionStrength}

	t.Run("high energy conflict postpones to the next clean day", func(t *testing.T) {
		h := scheduler.History{CheckIns: []domain.CheckIn{{Date: at(0, 8), Energy: 2}}}
		c := domain.ScheduleConflict{ID: "c1", Type: domain.ConflictEnergy, Severity: domain.SeverityHigh, Description: "low"}
		res := s.GenerateConflictResolution(base, c, scheduleWith(base), h, weekdays())

		assert.Equal(t, domain.ActionPostpone, res.Action)
		assert.Equal(t, "c1", res.ConflictID)
		assert.Equal(t, "s1", res.SessionID)
		require.NotNil(t, res.NewDate)
		assert.Equal(t, day(1), *res.NewDate)
		assert.Equal(t, "20:00", res.NewTime)
		assert.Equal(t, domain.PriorityLow, res.NewPriority)
		assert.NotEmpty(t, res.Reason)
	})

	t.Run("postpone avoids other planned sessions", func(t *testing.T) {
		other := domain.SessionSchedule{ID: "s2", Date: day(1), Time: "18:00"}
		c := domain.ScheduleConflict{ID: "c1", Type: domain.ConflictRecovery, Severity: domain.SeverityHigh}
		res := s.GenerateConflictResolution(base, c, scheduleWith(base, other), scheduler.History{}, weekdays())
		require.NotNil(t, res.NewDate)
		assert.Equal(t, day(2), *res.NewDate)
	})

	t.Run("postpone falls back to skip when the week is full", func(t *testing.T) {
		sunday := domain.SessionSchedule{ID: "s7", Date: day(6), Time: "18:00"}
		c := domain.ScheduleConflict{ID: "c1", Type: domain.ConflictEnergy, Severity: domain.SeverityHigh}
		res := s.GenerateConflictResolution(sunday, c, scheduleWith(sunday), scheduler.History{}, weekdays())
		assert.Equal(t, domain.ActionSkip, res.Action)
		assert.Nil(t, res.NewDate)
		assert.Equal(t, domain.SeverityHigh, res.Impact)
	})

	t.Run("medium energy reduces intensity", func(t *testing.T) {
		c := domain.ScheduleConflict{ID: "c1", Type: domain.ConflictEnergy, Severity: domain.SeverityMedium}
		res := s.GenerateConflictResolution(base, c, scheduleWith(base), scheduler.History{}, weekdays())
		assert.Equal(t, domain.ActionReduceIntensity, res.Action)
		assert.Equal(t, domain.TierLow, res.NewIntensity)
		assert.Equal(t, domain.SeverityLow, res.Impact)
	})

	t.Run("medium recovery moves later in the day", func(t *testing.T) {
		tuesday := domain.SessionSchedule{ID: "s2", Date: day(1), Time: "18:00"}
		h := scheduler.History{Sessions: []domain.SessionRecord{{Date: at(0, 18), Completed: true, RPE: 8}}}
		c := domain.ScheduleConflict{ID: "c1", Type: domain.ConflictRecovery, Severity: domain.SeverityMedium}
		res := s.GenerateConflictResolution(tuesday, c, scheduleWith(tuesday), h, weekdays())
		assert.Equal(t, domain.ActionAdjustTime, res.Action)
		assert.Equal(t, "19:00", res.NewTime)
	})

	t.Run("time conflict moves to the nearest preferred time", func(t *testing.T) {
		prefs := weekdays()
		prefs.PreferredTimes = []string{"07:00", "12:00"}
		c := domain.ScheduleConflict{ID: "c1", Type: domain.ConflictTime, Severity: domain.SeverityLow}
		res := s.GenerateConflictResolution(base, c, scheduleWith(base), scheduler.History{}, prefs)
		assert.Equal(t, domain.ActionAdjustTime, res.Action)
		assert.Equal(t, "12:00", res.NewTime)
	})

	t.Run("social and work conflicts reschedule", func(t *testing.T) {
		for _, typ := range []domain.ConflictType{domain.ConflictSocial, domain.ConflictWork} {
			c := domain.ScheduleConflict{ID: "c1", Type: typ, Severity: domain.SeverityLow}
			res := s.GenerateConflictResolution(base, c, scheduleWith(base), scheduler.History{}, weekdays())
			assert.Equal(t, domain.ActionReschedule, res.Action)
			assert.Equal(t, domain.PriorityLow, res.NewPriority)
			require.NotNil(t, res.NewDate)
		}
	})

	t.Run("unmatched conflicts are skipped", func(t *testing.T) {
		c := domain.ScheduleConflict{ID: "c1", Type: domain.ConflictEnergy, Severity: domain.SeverityLow}
		res := s.GenerateConflictResolution(base, c, scheduleWith(base), scheduler.History{}, weekdays())
		assert.Equal(t, domain.ActionSkip, res.Action)
	})
}

func TestResolveConflicts_OnePerPair(t *testing.T) {
	s := newScheduler()
	a := domain.SessionSchedule{ID: "a", Date: day(0), Time: "18:00", Conflicts: []domain.ScheduleConflict{
		{ID: "a1", Type: domain.ConflictEnergy, Severity: domain.SeverityMedium},
		{ID: "a2", Type: domain.ConflictRecovery, Severity: domain.SeverityMedium},
	}}
	b := domain.SessionSchedule{ID: "b", Date: day(2), Time: "18:00"}

	resolutions := s.ResolveConflicts(scheduleWith(a, b), scheduler.History{}, weekdays())
	require.Len(t, resolutions, 2)
	assert.Equal(t, "a1", resolutions[0].ConflictID)
	assert.Equal(t, "a2", resolutions[1].ConflictID)
	for _, r := range resolutions {
		assert.Equal(t, "a", r.SessionID)
	}

	assert.Empty(t, s.ResolveConflicts(scheduleWith(b), scheduler.History{}, weekdays()))
}

func TestResolveConflicts_MovesDoNotCollide(t *testing.T) {
	s := newScheduler()
	high := func(id string) []domain.ScheduleConflict {
		return []domain.ScheduleConflict{{ID: id, Type: domain.ConflictEnergy, Severity: domain.SeverityHigh}}
	}
	a := domain.SessionSchedule{ID: "a", Date: day(0), Time: "18:00", Conflicts: high("a1")}
	b := domain.SessionSchedule{ID: "b", Date: day(0), Time: "19:00", Conflicts: high("b1")}

	resolutions := s.ResolveConflicts(scheduleWith(a, b), scheduler.History{}, weekdays())
	require.Len(t, resolutions, 2)
	require.NotNil(t, resolutions[0].NewDate)
	require.NotNil(t, resolutions[1].NewDate)
	assert.Equal(t, day(1), *resolutions[0].NewDate)
	assert.Equal(t, day(2), *resolutions[1].NewDate)
}

func TestFindNextFeasibleDate(t *testing.T) {
	s := newScheduler()

	t.Run("skips recovery days", func(t *testing.T) {
		h := scheduler.History{CheckIns: []domain.CheckIn{
			{Date: at(0, 8), Energy: 7, Soreness: 7, SleepHours: 7},
			{Date: at(1, 8), Energy: 7, Soreness: 3, SleepHours: 4},
		}}
		date, _, ok := s.FindNextFeasibleDate("s1", day(0), h, weekdays(), nil, day(6))
		require.True(t, ok)
		assert.Equal(t, day(2), date)
	})

	t.Run("skips unavailable weekdays", func(t *testing.T) {
		prefs := domain.SchedulingPreferences{AvailableDays: []int{1, 2, 3}, MaxSessionsPerWeek: 3}
		_, _, ok := s.FindNextFeasibleDate("s1", day(2), scheduler.History{}, prefs, nil, day(6))
		assert.False(t, ok)

		date, _, ok := s.FindNextFeasibleDate("s1", day(2), scheduler.History{}, prefs, nil, time.Time{})
		require.True(t, ok)
		assert.Equal(t, day(7), date)
	})
}

func TestResolveConflicts_PostponeRespectsScheduleDays(t *testing.T) {
	s := newScheduler()
	h := scheduler.History{CheckIns: []domain.CheckIn{
		{Date: at(0, 8), Energy: 7, Soreness: 7, SleepHours: 7},
		{Date: at(1, 8), Energy: 7, Soreness: 3, SleepHours: 4},
	}}
	schedule := s.GenerateAutomaticSchedule(scheduler.WeekRequest{
		AthleteID:   "athlete-1",
		WeekStart:   monday,
		Preferences: weekdays(),
		History:     h,
	})
	require.Equal(t, []time.Time{day(1)}, schedule.RecoveryDays)
	require.NotEmpty(t, schedule.Sessions)
	require.Equal(t, day(0), schedule.Sessions[0].Date)

	for _, r := range s.ResolveConflicts(schedule, h, weekdays()) {
		if r.NewDate == nil {
			continue
		}
		assert.NotEqual(t, day(1), *r.NewDate)
		assert.True(t, weekdays().IsAvailable(r.NewDate.Weekday()))
	}
}
