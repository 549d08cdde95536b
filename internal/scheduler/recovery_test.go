package scheduler_test

import (
	"testing"

	"alcyxob/adaptive-trainer/internal/domain"
	"alcyxob/adaptive-trainer/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMissedSessionRecovery(t *testing.T) {
	s := newScheduler()

	tests := []struct {
		name          string
		daysAgo       int
		wantIntensity domain.Tier
	}{
		{"yesterday", 1, domain.TierHigh},
		{"two days ago", 2, domain.TierModerate},
		{"four days ago", 4, domain.TierLow},
		{"a week ago", 7, domain.TierLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			missed := domain.SessionRecord{
				ID:     "missed-1",
				Date:   now.AddDate(0, 0, -tt.daysAgo),
				Type:   domain.SessionStrength,
				Status: domain.SessionMissed,
			}
			rec := s.GenerateMissedSessionRecovery(missed, scheduler.History{Sessions: []domain.SessionRecord{missed}}, weekdays())
			require.NotNil(t, rec)
			assert.Equal(t, "missed-1", rec.MissedSessionID)
			assert.Equal(t, tt.wantIntensity, rec.AdjustedIntensity)
			assert.Equal(t, domain.DateOnly(now).AddDate(0, 0, 1), rec.RecoveryDate)
			assert.NotEmpty(t, rec.RecoveryTime)
			assert.True(t, rec.Optimal)
			assert.Empty(t, rec.Conflicts)
		})
	}
}

func TestGenerateMissedSessionRecovery_TooOld(t *testing.T) {
	s := newScheduler()
	missed := domain.SessionRecord{ID: "old", Date: now.AddDate(0, 0, -8), Status: domain.SessionMissed}
	assert.Nil(t, s.GenerateMissedSessionRecovery(missed, scheduler.History{}, weekdays()))
}

func TestGenerateMissedSessionRecovery_SkipsOccupiedDays(t *testing.T) {
	s := newScheduler()
	missed := domain.SessionRecord{ID: "m", Date: now.AddDate(0, 0, -1), Status: domain.SessionMissed}
	h := scheduler.History{Sessions: []domain.SessionRecord{
		missed,
		{ID: "planned", Date: now.AddDate(0, 0, 1), Status: domain.SessionPlanned},
	}}
	rec := s.GenerateMissedSessionRecovery(missed, h, weekdays())
	require.NotNil(t, rec)
	assert.Equal(t, domain.DateOnly(now).AddDate(0, 0, 2), rec.RecoveryDate)
}
