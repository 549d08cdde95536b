package service

import (
	"fmt"
	"strings"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"

	gocache "github.com/patrickmn/go-cache"
)

// AnalysisCache keeps recent phase analyses per athlete and week.
// Entries are dropped on TTL expiry or when new history is recorded for the athlete.
type AnalysisCache struct {
	c *gocache.Cache
}

// NewAnalysisCache creates a cache. A zero cleanupInterval disables the background janitor.
func NewAnalysisCache(ttl, cleanupInterval time.Duration) *AnalysisCache {
	return &AnalysisCache{c: gocache.New(ttl, cleanupInterval)}
}

func analysisKey(athleteID string, week int) string {
	return fmt.Sprintf("%s|%d", athleteID, week)
}

// Get returns the cached analysis, if any.
func (a *AnalysisCache) Get(athleteID string, week int) (domain.PhaseAnalysis, bool) {
	v, ok := a.c.Get(analysisKey(athleteID, week))
	if !ok {
		return domain.PhaseAnalysis{}, false
	}
	analysis, ok := v.(domain.PhaseAnalysis)
	return analysis, ok
}

// Set stores an analysis with the default TTL.
func (a *AnalysisCache) Set(athleteID string, week int, analysis domain.PhaseAnalysis) {
	a.c.SetDefault(analysisKey(athleteID, week), analysis)
}

// Invalidate drops every cached week of an athlete.
func (a *AnalysisCache) Invalidate(athleteID string) {
	prefix := athleteID + "|"
	for key := range a.c.Items() {
		if strings.HasPrefix(key, prefix) {
			a.c.Delete(key)
		}
	}
}

// Len reports the number of live entries.
func (a *AnalysisCache) Len() int {
	return a.c.ItemCount()
}
