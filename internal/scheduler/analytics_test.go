package scheduler_test

import (
	"testing"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
	"alcyxob/adaptive-trainer/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOptimalTimingRecommendations(t *testing.T) {
	s := newScheduler()
	h := scheduler.History{
		Sessions: []domain.SessionRecord{
			{Date: at(0, 18), Completed: true, RPE: 7, Status: domain.SessionCompleted},
			{Date: at(2, 18), Completed: true, RPE: 7, Status: domain.SessionCompleted},
			{Date: at(7, 18), Completed: true, RPE: 7, Status: domain.SessionCompleted},
			{Date: at(1, 7), Completed: true, RPE: 9, Status: domain.SessionCompleted},
			{Date: at(3, 7), Status: domain.SessionMissed},
			// future placeholder, ignored
			{Date: at(12, 18), Status: domain.SessionPlanned},
		},
		CheckIns: []domain.CheckIn{
			{Date: at(0, 8), Energy: 8, Soreness: 2, SleepHours: 8},
			{Date: at(1, 8), Energy: 6, Soreness: 4, SleepHours: 7},
			{Date: at(2, 20), Energy: 3, Soreness: 8, SleepHours: 4},
		},
	}

	got := s.GenerateOptimalTimingRecommendations(h)

	require.Len(t, got.BestTimes, 2)
	assert.Equal(t, "18:00", got.BestTimes[0].Time)
	assert.InDelta(t, 100, got.BestTimes[0].Score, 0.001)
	assert.Equal(t, 3, got.BestTimes[0].Sessions)
	assert.Equal(t, "07:00", got.BestTimes[1].Time)
	assert.InDelta(t, 25, got.BestTimes[1].Score, 0.001)
	assert.InDelta(t, 0.5, got.BestTimes[1].CompletionRate, 0.001)

	require.Len(t, got.WeekdayPatterns, 4)
	assert.Equal(t, time.Monday, got.WeekdayPatterns[0].Weekday)
	assert.Equal(t, 2, got.WeekdayPatterns[0].Sessions)
	assert.InDelta(t, 18, got.WeekdayPatterns[0].AverageHour, 0.001)

	require.Len(t, got.EnergyWindows, 2)
	assert.Equal(t, 8, got.EnergyWindows[0].Hour)
	assert.InDelta(t, 7, got.EnergyWindows[0].AverageEnergy, 0.001)
	assert.Contains(t, got.EnergyWindows[0].Note, "High energy")
	assert.Contains(t, got.EnergyWindows[1].Note, "Low energy")

	require.Len(t, got.RecoveryPatterns, 3)
	assert.Equal(t, time.Monday, got.RecoveryPatterns[0].Weekday)
	assert.InDelta(t, 8, got.RecoveryPatterns[0].Score, 0.001)
	assert.Contains(t, got.RecoveryPatterns[0].Note, "Well recovered")
	assert.Contains(t, got.RecoveryPatterns[2].Note, "Poorly recovered")
}

func TestGenerateOptimalTimingRecommendations_Empty(t *testing.T) {
	got := newScheduler().GenerateOptimalTimingRecommendations(scheduler.History{})
	assert.NotNil(t, got.BestTimes)
	assert.Empty(t, got.BestTimes)
	assert.Empty(t, got.WeekdayPatterns)
	assert.Empty(t, got.EnergyWindows)
	assert.Empty(t, got.RecoveryPatterns)
}
