package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterSchedulesGenerated  prometheus.Counter
	CounterSessionsScheduled   prometheus.Counter
	CounterConflictsDetected   *prometheus.CounterVec
	CounterResolutionsApplied  *prometheus.CounterVec
	CounterMissedRecoveries    prometheus.Counter
	CounterProgramsGenerated   prometheus.Counter
	CounterExports             prometheus.Counter
	CounterPlannerRuns         *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterAnalysisCacheHits   prometheus.Counter
	CounterAnalysisCacheMisses prometheus.Counter

	// histograms
	HistRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("adaptive_trainer", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("adaptive_trainer", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)
	opts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}
	}

	return &Manager{
		CounterRequests: factory.NewCounterVec(
			opts("request", "The total number of incoming requests"),
			[]string{"method", "status"}),
		CounterSchedulesGenerated: factory.NewCounter(
			opts("schedules_generated", "The total number of generated weekly schedules")),
		CounterSessionsScheduled: factory.NewCounter(
			opts("sessions_scheduled", "The total number of sessions placed in generated schedules")),
		CounterConflictsDetected: factory.NewCounterVec(
			opts("conflicts_detected", "The total number of detected schedule conflicts"),
			[]string{"type", "severity"}),
		CounterResolutionsApplied: factory.NewCounterVec(
			opts("resolutions_applied", "The total number of applied conflict resolutions"),
			[]string{"action"}),
		CounterMissedRecoveries: factory.NewCounter(
			opts("missed_recoveries", "The total number of proposed missed-session recoveries")),
		CounterProgramsGenerated: factory.NewCounter(
			opts("programs_generated", "The total number of generated session programs")),
		CounterExports: factory.NewCounter(
			opts("schedule_exports", "The total number of exported calendars")),
		CounterPlannerRuns: factory.NewCounterVec(
			opts("planner_runs", "The total number of weekly planner runs per athlete"),
			[]string{"result"}),
		CounterHandleRequestPanic: factory.NewCounter(
			opts("handle_request_panic", "The total number of serve request panics")),
		CounterAnalysisCacheHits: factory.NewCounter(
			opts("analysis_cache_hits", "Phase analysis cache hits")),
		CounterAnalysisCacheMisses: factory.NewCounter(
			opts("analysis_cache_misses", "Phase analysis cache misses")),
		HistRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
				Name:      "request_duration_seconds",
				Help:      "Total duration of requests in seconds",
			},
			[]string{"route"},
		),
	}
}
