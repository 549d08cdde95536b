package scheduler

import (
	"sort"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
)

type slotStats struct {
	sessions  int
	completed int
	rpeSum    float64
	rpeCount  int
	hourSum   float64
}

func (st *slotStats) add(s domain.SessionRecord) {
	st.sessions++
	st.hourSum += float64(s.Date.Hour()) + float64(s.Date.Minute())/60
	if s.Completed {
		st.completed++
		if s.RPE > 0 {
			st.rpeSum += s.RPE
			st.rpeCount++
		}
	}
}

func (st *slotStats) completionRate() float64 {
	if st.sessions == 0 {
		return 0
	}
	return float64(st.completed) / float64(st.sessions)
}

func (st *slotStats) averageRPE() float64 {
	if st.rpeCount == 0 {
		return 0
	}
	return st.rpeSum / float64(st.rpeCount)
}

type wellnessStats struct {
	n        int
	energy   float64
	soreness float64
	sleep    float64
}

// GenerateOptimalTimingRecommendations summarizes past sessions and check-ins.
// It is purely descriptive and never changes a schedule.
func (s *Scheduler) GenerateOptimalTimingRecommendations(h History) domain.TimingRecommendations {
	today := domain.DateOnly(s.now())

	byHour := map[int]*slotStats{}
	byWeekday := map[time.Weekday]*slotStats{}
	for _, session := range h.Sessions {
		// future placeholders have no outcome yet
		if !session.Completed && !session.Date.Before(today) {
			continue
		}
		hour := session.Date.Hour()
		if byHour[hour] == nil {
			byHour[hour] = &slotStats{}
		}
		byHour[hour].add(session)
		wd := session.Date.Weekday()
		if byWeekday[wd] == nil {
			byWeekday[wd] = &slotStats{}
		}
		byWeekday[wd].add(session)
	}

	out := domain.TimingRecommendations{
		BestTimes:        []domain.TimeSlotScore{},
		WeekdayPatterns:  []domain.WeekdayPattern{},
		EnergyWindows:    []domain.EnergyWindow{},
		RecoveryPatterns: []domain.RecoveryPattern{},
	}

	for hour, st := range byHour {
		rate := st.completionRate()
		rpe := st.averageRPE()
		score := rate * 50
		if rate >= 0.9 {
			score += 30
		}
		if rpe >= 6 && rpe <= 8 {
			score += 20
		}
		if st.sessions >= 5 {
			score += 10
		}
		out.BestTimes = append(out.BestTimes, domain.TimeSlotScore{
			Time:           domain.FormatHour(hour),
			Score:          score,
			Sessions:       st.sessions,
			CompletionRate: rate,
			AverageRPE:     rpe,
		})
	}
	sort.Slice(out.BestTimes, func(i, j int) bool {
		if out.BestTimes[i].Score != out.BestTimes[j].Score {
			return out.BestTimes[i].Score > out.BestTimes[j].Score
		}
		return out.BestTimes[i].Time < out.BestTimes[j].Time
	})

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		st, ok := byWeekday[wd]
		if !ok {
			continue
		}
		out.WeekdayPatterns = append(out.WeekdayPatterns, domain.WeekdayPattern{
			Weekday:        wd,
			AverageHour:    st.hourSum / float64(st.sessions),
			CompletionRate: st.completionRate(),
			Sessions:       st.sessions,
		})
	}

	energyByHour := map[int]*wellnessStats{}
	recoveryByWeekday := map[time.Weekday]*wellnessStats{}
	for _, c := range h.CheckIns {
		hour := c.Date.Hour()
		if energyByHour[hour] == nil {
			energyByHour[hour] = &wellnessStats{}
		}
		energyByHour[hour].n++
		energyByHour[hour].energy += float64(c.Energy)

		wd := c.Date.Weekday()
		if recoveryByWeekday[wd] == nil {
			recoveryByWeekday[wd] = &wellnessStats{}
		}
		r := recoveryByWeekday[wd]
		r.n++
		r.energy += float64(c.Energy)
		r.soreness += float64(c.Soreness)
		r.sleep += c.SleepHours
	}

	for hour := 0; hour < 24; hour++ {
		st, ok := energyByHour[hour]
		if !ok {
			continue
		}
		avg := st.energy / float64(st.n)
		out.EnergyWindows = append(out.EnergyWindows, domain.EnergyWindow{
			Hour:          hour,
			AverageEnergy: avg,
			Note:          energyNote(avg),
		})
	}

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		st, ok := recoveryByWeekday[wd]
		if !ok {
			continue
		}
		n := float64(st.n)
		score := (st.energy/n + (10 - st.soreness/n) + st.sleep/n) / 3
		out.RecoveryPatterns = append(out.RecoveryPatterns, domain.RecoveryPattern{
			Weekday: wd,
			Score:   score,
			Note:    recoveryNote(score),
		})
	}

	return out
}

func energyNote(avg float64) string {
	switch {
	case avg >= 7:
		return "High energy window: good time for demanding sessions"
	case avg >= 5:
		return "Moderate energy window: suitable for regular training"
	default:
		return "Low energy window: avoid demanding sessions"
	}
}

func recoveryNote(score float64) string {
	switch {
	case score >= 7:
		return "Well recovered: suited to hard sessions"
	case score >= 5:
		return "Moderately recovered: keep intensity controlled"
	default:
		return "Poorly recovered: favor light sessions"
	}
}
