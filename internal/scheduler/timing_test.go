package scheduler_test

import (
	"testing"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
	"alcyxob/adaptive-trainer/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateOptimalTiming(t *testing.T) {
	tuesday := day(8)

	tests := []struct {
		name           string
		date           time.Time
		sessions       []domain.SessionRecord
		checkIns       []domain.CheckIn
		wantTime       string
		wantConfidence float64
	}{
		{
			name:           "empty history",
			date:           tuesday,
			wantTime:       "18:00",
			wantConfidence: 50,
		},
		{
			name:           "high energy and good sleep",
			date:           tuesday,
			checkIns:       []domain.CheckIn{{Date: at(7, 8), Energy: 8, SleepHours: 8.5}},
			wantTime:       "18:00",
			wantConfidence: 85,
		},
		{
			name:           "moderate energy",
			date:           tuesday,
			checkIns:       []domain.CheckIn{{Date: at(7, 8), Energy: 6, SleepHours: 7}},
			wantTime:       "19:00",
			wantConfidence: 60,
		},
		{
			name:           "low energy and poor sleep",
			date:           tuesday,
			checkIns:       []domain.CheckIn{{Date: at(7, 8), Energy: 3, SleepHours: 5}},
			wantTime:       "20:00",
			wantConfidence: 20,
		},
		{
			name: "habit overrides energy",
			date: tuesday,
			sessions: []domain.SessionRecord{
				{Date: at(5, 7), Completed: true},
				{Date: at(3, 8), Completed: true},
			},
			checkIns:       []domain.CheckIn{{Date: at(7, 8), Energy: 8}},
			wantTime:       "08:00",
			wantConfidence: 80,
		},
		{
			name: "late evening habit stays on the clock",
			date: tuesday,
			sessions: []domain.SessionRecord{
				{Date: at(5, 23).Add(45 * time.Minute), Completed: true},
				{Date: at(6, 23).Add(45 * time.Minute), Completed: true},
				{Date: at(7, 23).Add(45 * time.Minute), Completed: true},
			},
			wantTime:       "22:00",
			wantConfidence: 60,
		},
		{
			name:           "friday override",
			date:           day(4),
			checkIns:       []domain.CheckIn{{Date: at(3, 8), Energy: 6}},
			wantTime:       "17:00",
			wantConfidence: 60,
		},
		{
			name:           "future check-ins are ignored",
			date:           tuesday,
			checkIns:       []domain.CheckIn{{Date: at(9, 8), Energy: 2}},
			wantTime:       "18:00",
			wantConfidence: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scheduler.CalculateOptimalTiming(tt.date, tt.sessions, tt.checkIns)
			assert.Equal(t, tt.wantTime, got.BestTime)
			assert.InDelta(t, tt.wantConfidence, got.Confidence, 0.001)
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 100.0)
			assert.NotEmpty(t, got.Factors)
			assert.LessOrEqual(t, len(got.Alternatives), 4)
		})
	}
}

func TestCalculateOptimalTiming_AlternativesBounded(t *testing.T) {
	sessions := []domain.SessionRecord{{Date: at(0, 22), Completed: true}}
	got := scheduler.CalculateOptimalTiming(day(1), sessions, nil)
	assert.Equal(t, "22:00", got.BestTime)
	assert.Equal(t, []string{"21:00", "20:00"}, got.Alternatives)

	late := []domain.SessionRecord{{Date: at(0, 23).Add(50 * time.Minute), Completed: true}}
	got = scheduler.CalculateOptimalTiming(day(1), late, nil)
	minutes, err := domain.ParseClock(got.BestTime)
	require.NoError(t, err)
	assert.Equal(t, 22*60, minutes)

	got = scheduler.CalculateOptimalTiming(day(8), nil, nil)
	assert.Equal(t, []string{"17:00", "19:00", "16:00", "20:00"}, got.Alternatives)
}
