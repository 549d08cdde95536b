package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
	"alcyxob/adaptive-trainer/internal/export"
	"alcyxob/adaptive-trainer/internal/metrics"
	"alcyxob/adaptive-trainer/internal/phase"
	"alcyxob/adaptive-trainer/internal/prescription"
	"alcyxob/adaptive-trainer/internal/repository"
	"alcyxob/adaptive-trainer/internal/scheduler"
	"alcyxob/adaptive-trainer/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// --- Error Definitions ---
var (
	ErrAthleteNotFound    = errors.New("athlete not found")
	ErrExportNotFound     = errors.New("schedule export not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPhaseAnalysis      = errors.New("failed to analyze training phase")
	ErrScheduleGeneration = errors.New("failed to generate weekly schedule")
	ErrDashboard          = errors.New("failed to build dashboard")
	ErrProgramGeneration  = errors.New("failed to generate session programs")
	ErrScheduleSave       = errors.New("failed to save resolved schedule")
	ErrScheduleExport     = errors.New("failed to export schedule")
	ErrRecordHistory      = errors.New("failed to record history")
)

// History fetch limits. Every engine only looks at the most recent records.
const (
	sessionHistoryLimit = 100
	checkInHistoryLimit = 60

	missedRecoveryWindowDays = 14
)

// TrainingService composes the phase engine, the scheduler and the prescription
// engine into week and dashboard level read models.
type TrainingService interface {
	// Athletes and history
	CreateAthlete(ctx context.Context, athlete *domain.Athlete) (*domain.Athlete, error)
	GetAthlete(ctx context.Context, athleteID string) (*domain.Athlete, error)
	ListAthletes(ctx context.Context) ([]domain.Athlete, error)
	UpdatePreferences(ctx context.Context, athleteID string, prefs domain.SchedulingPreferences) (*domain.Athlete, error)
	RecordSession(ctx context.Context, athleteID string, session *domain.SessionRecord) error
	RecordCheckIn(ctx context.Context, athleteID string, checkIn *domain.CheckIn) error

	// Read models
	AnalyzePhase(ctx context.Context, athleteID string, week int) (*domain.PhaseAnalysis, error)
	GetDashboard(ctx context.Context, athleteID string) (*domain.Dashboard, error)
	GenerateWeeklySchedule(ctx context.Context, athleteID string, weekStart time.Time) (*domain.AutomaticSchedule, error)
	PredictSession(ctx context.Context, athleteID string, date time.Time) (*domain.SessionSchedule, error)
	GenerateWeekPrograms(ctx context.Context, athleteID string, weekStart time.Time) ([]domain.SessionProgram, error)
	GetSessionRecommendations(ctx context.Context, athleteID string) ([]string, error)
	GetTimingRecommendations(ctx context.Context, athleteID string) (*domain.TimingRecommendations, error)

	// Conflict resolution and write-back
	ResolveConflicts(ctx context.Context, athleteID string, weekStart time.Time) (*domain.AutomaticSchedule, []domain.ConflictResolution, error)
	SaveResolvedSchedule(ctx context.Context, athleteID string, schedule domain.AutomaticSchedule) error
	PlanWeek(ctx context.Context, athleteID string, weekStart time.Time) (*domain.AutomaticSchedule, []domain.ConflictResolution, error)
	ExportSchedule(ctx context.Context, athleteID string, weekStart time.Time) (*domain.ScheduleExport, error)
	GetLatestExport(ctx context.Context, athleteID string, weekStart time.Time) (*domain.ScheduleExport, error)
}

// Options carries the configurable defaults of the service.
type Options struct {
	DefaultPreferences domain.SchedulingPreferences
	SearchWindowDays   int
	Progression        prescription.Params
	PresignExpiry      time.Duration
	Now                func() time.Time // Defaults to time.Now in UTC
}

// --- Service Implementation ---

type trainingService struct {
	athleteRepo repository.AthleteRepository
	sessionRepo repository.SessionRepository
	checkInRepo repository.CheckInRepository
	exportRepo  repository.ExportRepository
	fileStorage storage.FileStorage
	cache       *AnalysisCache
	metrics     *metrics.Manager

	phases       *phase.Engine
	scheduler    *scheduler.Scheduler
	prescription *prescription.Engine

	defaults      domain.SchedulingPreferences
	presignExpiry time.Duration
	now           func() time.Time
}

// NewTrainingService creates a new instance of trainingService.
func NewTrainingService(
	athleteRepo repository.AthleteRepository,
	sessionRepo repository.SessionRepository,
	checkInRepo repository.CheckInRepository,
	exportRepo repository.ExportRepository,
	fileStorage storage.FileStorage,
	cache *AnalysisCache,
	metricsManager *metrics.Manager,
	opts Options,
) TrainingService {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &trainingService{
		athleteRepo:   athleteRepo,
		sessionRepo:   sessionRepo,
		checkInRepo:   checkInRepo,
		exportRepo:    exportRepo,
		fileStorage:   fileStorage,
		cache:         cache,
		metrics:       metricsManager,
		phases:        phase.NewEngine(now),
		scheduler:     scheduler.New(now, opts.SearchWindowDays),
		prescription:  prescription.NewEngine(opts.Progression),
		defaults:      opts.DefaultPreferences,
		presignExpiry: opts.PresignExpiry,
		now:           now,
	}
}

// snapshot is everything one operation reads from persistence.
type snapshot struct {
	athlete  *domain.Athlete
	prefs    domain.SchedulingPreferences
	history  scheduler.History
	existing [][]domain.SessionRecord // Persisted sessions per requested week
}

// load fetches the athlete, then history and the requested weeks concurrently.
// Only reads happen here; writes are always sequential.
func (s *trainingService) load(ctx context.Context, athleteID string, weeks ...time.Time) (*snapshot, error) {
	athlete, err := s.getAthlete(ctx, athleteID)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{
		athlete:  athlete,
		prefs:    athlete.Preferences.WithDefaults(s.defaults),
		existing: make([][]domain.SessionRecord, len(weeks)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sessions, err := s.sessionRepo.ListByAthlete(gctx, athleteID, sessionHistoryLimit)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		snap.history.Sessions = sessions
		return nil
	})
	g.Go(func() error {
		checkIns, err := s.checkInRepo.ListByAthlete(gctx, athleteID, checkInHistoryLimit)
		if err != nil {
			return fmt.Errorf("list check-ins: %w", err)
		}
		snap.history.CheckIns = checkIns
		return nil
	})
	for i, week := range weeks {
		g.Go(func() error {
			from := domain.DateOnly(week)
			existing, err := s.sessionRepo.ListInRange(gctx, athleteID, from, from.AddDate(0, 0, 7))
			if err != nil {
				return fmt.Errorf("list week %s: %w", from.Format(domain.DateLayout), err)
			}
			snap.existing[i] = existing
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *trainingService) getAthlete(ctx context.Context, athleteID string) (*domain.Athlete, error) {
	if athleteID == "" {
		return nil, ErrInvalidInput
	}
	athlete, err := s.athleteRepo.GetByID(ctx, athleteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAthleteNotFound
		}
		return nil, err
	}
	return athlete, nil
}

// wrap keeps ErrAthleteNotFound, ErrExportNotFound and ErrInvalidInput visible and tags everything else with op.
func wrap(op error, err error) error {
	if errors.Is(err, ErrAthleteNotFound) || errors.Is(err, ErrExportNotFound) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	return fmt.Errorf("%w: %v", op, err)
}

// === Athletes and history ===

// CreateAthlete validates and stores a new athlete.
func (s *trainingService) CreateAthlete(ctx context.Context, athlete *domain.Athlete) (*domain.Athlete, error) {
	if athlete == nil || athlete.Name == "" {
		return nil, fmt.Errorf("%w: athlete name is required", ErrInvalidInput)
	}
	if err := athlete.Preferences.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.athleteRepo.Create(ctx, athlete); err != nil {
		logrus.WithError(err).Error("failed to create athlete")
		if errors.Is(err, repository.ErrDuplicate) || errors.Is(err, repository.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}
	logrus.WithField("user_id", athlete.ID).Info("athlete created")
	return athlete, nil
}

// GetAthlete returns a stored athlete.
func (s *trainingService) GetAthlete(ctx context.Context, athleteID string) (*domain.Athlete, error) {
	return s.getAthlete(ctx, athleteID)
}

// ListAthletes returns every athlete.
func (s *trainingService) ListAthletes(ctx context.Context) ([]domain.Athlete, error) {
	return s.athleteRepo.List(ctx)
}

// UpdatePreferences replaces the athlete's scheduling preferences and drops cached analyses.
func (s *trainingService) UpdatePreferences(ctx context.Context, athleteID string, prefs domain.SchedulingPreferences) (*domain.Athlete, error) {
	if err := prefs.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	athlete, err := s.getAthlete(ctx, athleteID)
	if err != nil {
		return nil, err
	}

	athlete.Preferences = prefs
	if err := s.athleteRepo.Update(ctx, athlete); err != nil {
		logrus.WithError(err).WithField("user_id", athleteID).Error("failed to update preferences")
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAthleteNotFound
		}
		return nil, err
	}
	s.cache.Invalidate(athleteID)
	return athlete, nil
}

// RecordSession stores a performed (or missed) session and drops cached analyses.
// Without an id it replaces the same day's planned session of that type.
func (s *trainingService) RecordSession(ctx context.Context, athleteID string, session *domain.SessionRecord) error {
	if session == nil || session.Date.IsZero() {
		return fmt.Errorf("%w: session date is required", ErrInvalidInput)
	}
	if session.RPE < 0 || session.RPE > 10 {
		return fmt.Errorf("%w: session RPE must be between 0 and 10", ErrInvalidInput)
	}
	if _, err := s.getAthlete(ctx, athleteID); err != nil {
		return wrap(ErrRecordHistory, err)
	}

	session.AthleteID = athleteID
	if session.ID == "" {
		placeholder, err := s.findPlaceholder(ctx, athleteID, session)
		if err != nil {
			logrus.WithError(err).WithField("user_id", athleteID).Error("failed to look up planned session")
			return wrap(ErrRecordHistory, err)
		}
		if placeholder != nil {
			session.ID = placeholder.ID
		} else {
			session.ID = uuid.NewString()
		}
	}
	if session.Status == "" {
		switch {
		case session.Completed:
			session.Status = domain.SessionCompleted
		case session.Date.After(s.now()):
			session.Status = domain.SessionPlanned
		default:
			session.Status = domain.SessionMissed
		}
	}
	if session.Exercises == nil {
		session.Exercises = []domain.ExerciseLog{}
	}

	if err := s.sessionRepo.Upsert(ctx, session); err != nil {
		logrus.WithError(err).WithField("user_id", athleteID).Error("failed to record session")
		return wrap(ErrRecordHistory, err)
	}
	s.cache.Invalidate(athleteID)
	return nil
}

// findPlaceholder returns the planned, not yet performed session of the same type on the
// session's calendar day, if any.
func (s *trainingService) findPlaceholder(ctx context.Context, athleteID string, session *domain.SessionRecord) (*domain.SessionRecord, error) {
	day := domain.DateOnly(session.Date)
	records, err := s.sessionRepo.ListInRange(ctx, athleteID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	for i := range records {
		r := records[i]
		if r.Status == domain.SessionPlanned && !r.Completed && r.Type == session.Type {
			return &r, nil
		}
	}
	return nil, nil
}

// RecordCheckIn stores a readiness check-in and drops cached analyses.
func (s *trainingService) RecordCheckIn(ctx context.Context, athleteID string, checkIn *domain.CheckIn) error {
	if checkIn == nil || checkIn.Date.IsZero() {
		return fmt.Errorf("%w: check-in date is required", ErrInvalidInput)
	}
	if !inScale(checkIn.Energy) || !inScale(checkIn.Soreness) || checkIn.SleepHours < 0 || checkIn.SleepHours > 24 {
		return fmt.Errorf("%w: energy and soreness must be 1-10, sleep 0-24h", ErrInvalidInput)
	}
	if _, err := s.getAthlete(ctx, athleteID); err != nil {
		return wrap(ErrRecordHistory, err)
	}

	checkIn.AthleteID = athleteID
	if err := s.checkInRepo.Create(ctx, checkIn); err != nil {
		logrus.WithError(err).WithField("user_id", athleteID).Error("failed to record check-in")
		return wrap(ErrRecordHistory, err)
	}
	s.cache.Invalidate(athleteID)
	return nil
}

func inScale(v int) bool {
	return v >= 1 && v <= 10
}

// === Read models ===

// programWeek counts from the athlete's program start, or from the first recorded session.
func programWeek(athlete *domain.Athlete, sessions []domain.SessionRecord, date time.Time) int {
	var start *time.Time
	if athlete.ProgramStartDate != nil {
		start = athlete.ProgramStartDate
	} else {
		for i := range sessions {
			if start == nil || sessions[i].Date.Before(*start) {
				start = &sessions[i].Date
			}
		}
	}
	if start == nil {
		return 1
	}
	return phase.ProgramWeek(*start, date)
}

func (s *trainingService) analysis(snap *snapshot, week int) domain.PhaseAnalysis {
	if cached, ok := s.cache.Get(snap.athlete.ID, week); ok {
		s.metrics.CounterAnalysisCacheHits.Inc()
		return cached
	}
	s.metrics.CounterAnalysisCacheMisses.Inc()
	a := s.phases.AnalyzePhase(week, snap.history.Sessions, snap.history.CheckIns)
	s.cache.Set(snap.athlete.ID, week, a)
	return a
}

// AnalyzePhase analyzes the given program week, or the current one when week is 0.
func (s *trainingService) AnalyzePhase(ctx context.Context, athleteID string, week int) (*domain.PhaseAnalysis, error) {
	if week < 0 {
		return nil, fmt.Errorf("%w: week must be positive", ErrInvalidInput)
	}
	snap, err := s.load(ctx, athleteID)
	if err != nil {
		return nil, wrap(ErrPhaseAnalysis, err)
	}
	if week == 0 {
		week = programWeek(snap.athlete, snap.history.Sessions, s.now())
	}
	a := s.analysis(snap, week)
	return &a, nil
}

func (s *trainingService) buildWeek(snap *snapshot, weekStart time.Time, existing []domain.SessionRecord) domain.AutomaticSchedule {
	schedule := s.scheduler.GenerateAutomaticSchedule(scheduler.WeekRequest{
		AthleteID:   snap.athlete.ID,
		WeekStart:   weekStart,
		Preferences: snap.prefs,
		History:     snap.history,
		Existing:    existing,
	})
	s.metrics.CounterSchedulesGenerated.Inc()
	s.metrics.CounterSessionsScheduled.Add(float64(len(schedule.Sessions)))
	for _, c := range schedule.Conflicts {
		s.metrics.CounterConflictsDetected.WithLabelValues(string(c.Type), string(c.Severity)).Inc()
	}
	return schedule
}

// GetDashboard combines phase, both weeks, missed-session recoveries, timing analytics
// and the current week's conflict resolutions.
func (s *trainingService) GetDashboard(ctx context.Context, athleteID string) (*domain.Dashboard, error) {
	now := s.now()
	current := domain.WeekStart(now)
	next := current.AddDate(0, 0, 7)

	snap, err := s.load(ctx, athleteID, current, next)
	if err != nil {
		logrus.WithError(err).WithField("user_id", athleteID).Error("dashboard: failed to load history")
		return nil, wrap(ErrDashboard, err)
	}

	currentWeek := s.buildWeek(snap, current, snap.existing[0])
	nextWeek := s.buildWeek(snap, next, snap.existing[1])

	recoveries := []domain.MissedSessionRecovery{}
	for _, session := range snap.history.Sessions {
		if !session.IsMissed(now) || domain.DaysBetween(session.Date, now) > missedRecoveryWindowDays {
			continue
		}
		if rec := s.scheduler.GenerateMissedSessionRecovery(session, snap.history, snap.prefs); rec != nil {
			recoveries = append(recoveries, *rec)
			s.metrics.CounterMissedRecoveries.Inc()
		}
	}

	dashboard := &domain.Dashboard{
		AthleteID:        athleteID,
		Phase:            s.analysis(snap, programWeek(snap.athlete, snap.history.Sessions, now)),
		CurrentWeek:      currentWeek,
		NextWeek:         nextWeek,
		MissedRecoveries: recoveries,
		Timing:           s.scheduler.GenerateOptimalTimingRecommendations(snap.history),
		Resolutions:      s.scheduler.ResolveConflicts(currentWeek, snap.history, snap.prefs),
	}

	logrus.WithFields(logrus.Fields{
		"user_id":     athleteID,
		"week_start":  current.Format(domain.DateLayout),
		"sessions":    len(currentWeek.Sessions),
		"recoveries":  len(recoveries),
		"resolutions": len(dashboard.Resolutions),
	}).Debug("dashboard built")
	return dashboard, nil
}

// GenerateWeeklySchedule builds the schedule of the week starting at weekStart.
func (s *trainingService) GenerateWeeklySchedule(ctx context.Context, athleteID string, weekStart time.Time) (*domain.AutomaticSchedule, error) {
	if weekStart.IsZero() {
		return nil, fmt.Errorf("%w: week start is required", ErrInvalidInput)
	}
	snap, err := s.load(ctx, athleteID, weekStart)
	if err != nil {
		logrus.WithError(err).WithField("user_id", athleteID).Error("schedule: failed to load history")
		return nil, wrap(ErrScheduleGeneration, err)
	}
	schedule := s.buildWeek(snap, weekStart, snap.existing[0])

	logrus.WithFields(logrus.Fields{
		"user_id":    athleteID,
		"week_start": schedule.WeekStart.Format(domain.DateLayout),
		"sessions":   len(schedule.Sessions),
		"conflicts":  len(schedule.Conflicts),
	}).Info("weekly schedule generated")
	return &schedule, nil
}

// PredictSession runs the single-day pipeline for date.
func (s *trainingService) PredictSession(ctx context.Context, athleteID string, date time.Time) (*domain.SessionSchedule, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	snap, err := s.load(ctx, athleteID, domain.WeekStart(date))
	if err != nil {
		return nil, wrap(ErrScheduleGeneration, err)
	}

	days := map[string]bool{}
	for _, e := range snap.existing[0] {
		days[domain.DateOnly(e.Date).Format(domain.DateLayout)] = true
	}
	session := s.scheduler.PredictSession(scheduler.PredictRequest{
		AthleteID:      athleteID,
		Date:           date,
		Preferences:    snap.prefs,
		History:        snap.history,
		SlotsRemaining: max(snap.prefs.MaxSessionsPerWeek-len(days), 1),
	})
	return &session, nil
}

// weekPlan merges the persisted, not yet performed sessions of a week with a freshly
// generated and resolved schedule, ordered by date. Each day holds at most one session.
func (s *trainingService) weekPlan(snap *snapshot, weekStart time.Time, existing []domain.SessionRecord) domain.AutomaticSchedule {
	generated := s.buildWeek(snap, weekStart, existing)
	resolutions := s.scheduler.ResolveConflicts(generated, snap.history, snap.prefs)
	plan := ApplyConflictResolutions(generated, resolutions)

	planned := make([]domain.SessionRecord, 0, len(existing))
	for _, e := range existing {
		if e.Status == domain.SessionPlanned && !e.Completed {
			planned = append(planned, e)
		}
	}
	sort.SliceStable(planned, func(i, j int) bool {
		if !planned[i].Date.Equal(planned[j].Date) {
			return planned[i].Date.Before(planned[j].Date)
		}
		return planned[i].ID < planned[j].ID
	})

	// at most one session per day
	days := map[string]bool{}
	for _, session := range plan.Sessions {
		days[session.Date.Format(domain.DateLayout)] = true
	}
	for _, e := range planned {
		key := domain.DateOnly(e.Date).Format(domain.DateLayout)
		if days[key] {
			continue
		}
		days[key] = true
		plan.Sessions = append(plan.Sessions, sessionFromRecord(e))
	}
	sort.SliceStable(plan.Sessions, func(i, j int) bool {
		return plan.Sessions[i].Date.Before(plan.Sessions[j].Date)
	})
	return plan
}

func sessionFromRecord(r domain.SessionRecord) domain.SessionSchedule {
	intensity := r.Intensity
	if intensity == "" {
		intensity = domain.TierModerate
	}
	return domain.SessionSchedule{
		ID:        r.ID,
		Date:      domain.DateOnly(r.Date),
		Time:      fmt.Sprintf("%02d:%02d", r.Date.Hour(), r.Date.Minute()),
		Type:      r.Type,
		Duration:  r.Duration,
		Intensity: intensity,
		Priority:  domain.PriorityMedium,
		Reason:    "Planned session",
		Conflicts: []domain.ScheduleConflict{},
		Optimal:   true,
	}
}

// GenerateWeekPrograms prescribes exercises for every non-rest session of the week.
func (s *trainingService) GenerateWeekPrograms(ctx context.Context, athleteID string, weekStart time.Time) ([]domain.SessionProgram, error) {
	if weekStart.IsZero() {
		return nil, fmt.Errorf("%w: week start is required", ErrInvalidInput)
	}
	snap, err := s.load(ctx, athleteID, weekStart)
	if err != nil {
		logrus.WithError(err).WithField("user_id", athleteID).Error("programs: failed to load history")
		return nil, wrap(ErrProgramGeneration, err)
	}

	plan := s.weekPlan(snap, weekStart, snap.existing[0])
	analysis := s.analysis(snap, programWeek(snap.athlete, snap.history.Sessions, weekStart))
	pctx := prescription.BuildContext(*snap.athlete, analysis, snap.history.Sessions, snap.history.CheckIns)
	pctx.Preferences = snap.prefs

	programs := []domain.SessionProgram{}
	for _, session := range plan.Sessions {
		if session.Type == domain.SessionRest {
			continue
		}
		programs = append(programs, s.prescription.GenerateSessionProgram(pctx, session))
	}
	s.metrics.CounterProgramsGenerated.Add(float64(len(programs)))
	return programs, nil
}

// GetSessionRecommendations merges current phase guidance with the latest check-in caveats.
func (s *trainingService) GetSessionRecommendations(ctx context.Context, athleteID string) ([]string, error) {
	snap, err := s.load(ctx, athleteID)
	if err != nil {
		return nil, wrap(ErrPhaseAnalysis, err)
	}
	analysis := s.analysis(snap, programWeek(snap.athlete, snap.history.Sessions, s.now()))
	return prescription.GetSessionRecommendations(
		prescription.BuildContext(*snap.athlete, analysis, snap.history.Sessions, snap.history.CheckIns)), nil
}

// GetTimingRecommendations returns the descriptive timing analytics.
func (s *trainingService) GetTimingRecommendations(ctx context.Context, athleteID string) (*domain.TimingRecommendations, error) {
	snap, err := s.load(ctx, athleteID)
	if err != nil {
		return nil, wrap(ErrPhaseAnalysis, err)
	}
	recs := s.scheduler.GenerateOptimalTimingRecommendations(snap.history)
	return &recs, nil
}

// === Conflict resolution and write-back ===

// ResolveConflicts generates the week and one resolution per conflict, without applying them.
func (s *trainingService) ResolveConflicts(ctx context.Context, athleteID string, weekStart time.Time) (*domain.AutomaticSchedule, []domain.ConflictResolution, error) {
	if weekStart.IsZero() {
		return nil, nil, fmt.Errorf("%w: week start is required", ErrInvalidInput)
	}
	snap, err := s.load(ctx, athleteID, weekStart)
	if err != nil {
		return nil, nil, wrap(ErrScheduleGeneration, err)
	}
	schedule := s.buildWeek(snap, weekStart, snap.existing[0])
	return &schedule, s.scheduler.ResolveConflicts(schedule, snap.history, snap.prefs), nil
}

// SaveResolvedSchedule writes each session as a planned placeholder. Session IDs are
// deterministic, so a retry after a partial failure overwrites instead of duplicating.
func (s *trainingService) SaveResolvedSchedule(ctx context.Context, athleteID string, schedule domain.AutomaticSchedule) error {
	if athleteID == "" || (schedule.AthleteID != "" && schedule.AthleteID != athleteID) {
		return fmt.Errorf("%w: schedule does not belong to athlete", ErrInvalidInput)
	}
	for _, session := range schedule.Sessions {
		placeholder := &domain.SessionRecord{
			ID:        session.ID,
			AthleteID: athleteID,
			Date:      domain.At(session.Date, session.Time),
			Type:      session.Type,
			Duration:  session.Duration,
			Completed: false,
			RPE:       0,
			Intensity: session.Intensity,
			Exercises: []domain.ExerciseLog{},
			Status:    domain.SessionPlanned,
		}
		if err := s.sessionRepo.Upsert(ctx, placeholder); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"user_id":    athleteID,
				"session_id": session.ID,
			}).Error("failed to save placeholder session")
			return wrap(ErrScheduleSave, err)
		}
	}
	s.cache.Invalidate(athleteID)

	logrus.WithFields(logrus.Fields{
		"user_id":    athleteID,
		"week_start": schedule.WeekStart.Format(domain.DateLayout),
		"sessions":   len(schedule.Sessions),
	}).Info("resolved schedule saved")
	return nil
}

// PlanWeek generates, resolves, applies and saves the week in one go.
func (s *trainingService) PlanWeek(ctx context.Context, athleteID string, weekStart time.Time) (*domain.AutomaticSchedule, []domain.ConflictResolution, error) {
	schedule, resolutions, err := s.ResolveConflicts(ctx, athleteID, weekStart)
	if err != nil {
		return nil, nil, err
	}
	resolved := ApplyConflictResolutions(*schedule, resolutions)
	for _, r := range resolutions {
		s.metrics.CounterResolutionsApplied.WithLabelValues(string(r.Action)).Inc()
	}
	if err := s.SaveResolvedSchedule(ctx, athleteID, resolved); err != nil {
		return nil, nil, err
	}
	return &resolved, resolutions, nil
}

// ExportSchedule renders the resolved week as an iCalendar file, uploads it and
// returns its metadata with a presigned download URL.
func (s *trainingService) ExportSchedule(ctx context.Context, athleteID string, weekStart time.Time) (*domain.ScheduleExport, error) {
	if weekStart.IsZero() {
		return nil, fmt.Errorf("%w: week start is required", ErrInvalidInput)
	}
	snap, err := s.load(ctx, athleteID, weekStart)
	if err != nil {
		return nil, wrap(ErrScheduleExport, err)
	}

	plan := s.weekPlan(snap, weekStart, snap.existing[0])
	stamp := s.now()
	body := export.RenderICS(plan, stamp)
	key := export.ObjectKey(athleteID, plan.WeekStart)

	logFields := logrus.Fields{
		"user_id":    athleteID,
		"week_start": plan.WeekStart.Format(domain.DateLayout),
		"object_key": key,
	}

	if err := s.fileStorage.PutObject(ctx, key, export.ContentType, body); err != nil {
		logrus.WithError(err).WithFields(logFields).Error("failed to upload calendar")
		return nil, wrap(ErrScheduleExport, err)
	}

	record := &domain.ScheduleExport{
		ID:          uuid.NewString(),
		AthleteID:   athleteID,
		WeekStart:   plan.WeekStart,
		ObjectKey:   key,
		ContentType: export.ContentType,
		Size:        int64(len(body)),
		Sessions:    len(plan.Sessions),
		ExportedAt:  stamp,
	}
	if err := s.exportRepo.Create(ctx, record); err != nil {
		logrus.WithError(err).WithFields(logFields).Error("failed to store export metadata, removing uploaded object")
		if delErr := s.fileStorage.DeleteObject(ctx, key); delErr != nil {
			logrus.WithError(delErr).WithFields(logFields).Warn("failed to remove orphaned calendar")
		}
		return nil, wrap(ErrScheduleExport, err)
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, key, s.presignExpiry)
	if err != nil {
		logrus.WithError(err).WithFields(logFields).Error("failed to presign calendar download")
		return nil, wrap(ErrScheduleExport, err)
	}
	record.DownloadURL = url
	s.metrics.CounterExports.Inc()

	logrus.WithFields(logFields).WithField("sessions", record.Sessions).Info("schedule exported")
	return record, nil
}

// GetLatestExport returns the newest export of a week with a fresh download URL.
func (s *trainingService) GetLatestExport(ctx context.Context, athleteID string, weekStart time.Time) (*domain.ScheduleExport, error) {
	if weekStart.IsZero() {
		return nil, fmt.Errorf("%w: week start is required", ErrInvalidInput)
	}
	if _, err := s.getAthlete(ctx, athleteID); err != nil {
		return nil, err
	}

	record, err := s.exportRepo.GetLatest(ctx, athleteID, domain.DateOnly(weekStart))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExportNotFound
		}
		return nil, wrap(ErrScheduleExport, err)
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, record.ObjectKey, s.presignExpiry)
	if err != nil {
		logrus.WithError(err).WithField("object_key", record.ObjectKey).Error("failed to presign calendar download")
		return nil, wrap(ErrScheduleExport, err)
	}
	record.DownloadURL = url
	return record, nil
}

// ApplyConflictResolutions applies resolutions to a copy of schedule. Sessions resolved
// with skip are removed, every other resolution updates date, time, intensity or priority
// of its session. The result carries no conflicts.
func ApplyConflictResolutions(schedule domain.AutomaticSchedule, resolutions []domain.ConflictResolution) domain.AutomaticSchedule {
	bySession := map[string][]domain.ConflictResolution{}
	for _, r := range resolutions {
		bySession[r.SessionID] = append(bySession[r.SessionID], r)
	}

	out := schedule
	out.Sessions = make([]domain.SessionSchedule, 0, len(schedule.Sessions))
	out.Conflicts = []domain.ScheduleConflict{}
	out.Adjustments = append([]string{}, schedule.Adjustments...)

	for _, session := range schedule.Sessions {
		skipped := false
		for _, r := range bySession[session.ID] {
			if r.Action == domain.ActionSkip {
				skipped = true
			}
			if r.NewDate != nil {
				session.Date = domain.DateOnly(*r.NewDate)
			}
			if r.NewTime != "" {
				session.Time = r.NewTime
			}
			if r.NewIntensity != "" {
				session.Intensity = r.NewIntensity
			}
			if r.NewPriority != "" {
				session.Priority = r.NewPriority
			}
			out.Adjustments = append(out.Adjustments, fmt.Sprintf("%s: %s (%s)",
				session.Date.Format("Mon 2006-01-02"), r.Action, r.Reason))
		}
		if skipped {
			continue
		}
		session.Conflicts = []domain.ScheduleConflict{}
		session.Optimal = true
		out.Sessions = append(out.Sessions, session)
	}

	sort.SliceStable(out.Sessions, func(i, j int) bool {
		return out.Sessions[i].Date.Before(out.Sessions[j].Date)
	})
	out.Optimal = true
	return out
}
