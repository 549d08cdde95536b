package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"alcyxob/adaptive-trainer/internal/api"
	"alcyxob/adaptive-trainer/internal/domain"
	"alcyxob/adaptive-trainer/internal/metrics"
	"alcyxob/adaptive-trainer/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow    = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	testMonday = time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
)

// fakeTrainingService records the arguments it was called with.
type fakeTrainingService struct {
	service.TrainingService

	err            error
	gotAthleteID   string
	gotWeekStart   time.Time
	gotWeek        int
	gotCheckIn     *domain.CheckIn
	gotPrefs       *domain.SchedulingPreferences
	createdAthlete *domain.Athlete
}

func (f *fakeTrainingService) CreateAthlete(_ context.Context, a *domain.Athlete) (*domain.Athlete, error) {
	if f.err != nil {
		return nil, f.err
	}
	a.ID = "athlete-1"
	f.createdAthlete = a
	return a, nil
}

func (f *fakeTrainingService) GetAthlete(_ context.Context, id string) (*domain.Athlete, error) {
	f.gotAthleteID = id
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Athlete{ID: id, Name: "Sam"}, nil
}

func (f *fakeTrainingService) RecordCheckIn(_ context.Context, id string, c *domain.CheckIn) error {
	f.gotAthleteID, f.gotCheckIn = id, c
	return f.err
}

func (f *fakeTrainingService) AnalyzePhase(_ context.Context, id string, week int) (*domain.PhaseAnalysis, error) {
	f.gotAthleteID, f.gotWeek = id, week
	if f.err != nil {
		return nil, f.err
	}
	return &domain.PhaseAnalysis{Week: max(week, 1), CurrentPhase: domain.ProgramPhase{ID: domain.PhaseFoundation}}, nil
}

func (f *fakeTrainingService) GenerateWeeklySchedule(_ context.Context, id string, weekStart time.Time) (*domain.AutomaticSchedule, error) {
	f.gotAthleteID, f.gotWeekStart = id, weekStart
	if f.err != nil {
		return nil, f.err
	}
	return &domain.AutomaticSchedule{
		AthleteID: id,
		WeekStart: weekStart,
		Sessions:  []domain.SessionSchedule{{ID: "s1", Date: weekStart, Time: "18:00", Type: domain.SessionStrength}},
		Optimal:   true,
	}, nil
}

func (f *fakeTrainingService) PlanWeek(_ context.Context, id string, weekStart time.Time) (*domain.AutomaticSchedule, []domain.ConflictResolution, error) {
	f.gotAthleteID, f.gotWeekStart = id, weekStart
	if f.err != nil {
		return nil, nil, f.err
	}
	return &domain.AutomaticSchedule{AthleteID: id, WeekStart: weekStart, Optimal: true},
		[]domain.ConflictResolution{{SessionID: "s1", Action: domain.ActionSkip}}, nil
}

func (f *fakeTrainingService) GenerateWeekPrograms(_ context.Context, id string, weekStart time.Time) ([]domain.SessionProgram, error) {
	f.gotAthleteID, f.gotWeekStart = id, weekStart
	return nil, f.err
}

func (f *fakeTrainingService) UpdatePreferences(_ context.Context, id string, prefs domain.SchedulingPreferences) (*domain.Athlete, error) {
	f.gotAthleteID, f.gotPrefs = id, &prefs
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Athlete{ID: id, Name: "Sam", Preferences: prefs}, nil
}

func (f *fakeTrainingService) GetLatestExport(_ context.Context, id string, weekStart time.Time) (*domain.ScheduleExport, error) {
	f.gotAthleteID, f.gotWeekStart = id, weekStart
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ScheduleExport{ID: "export-1", AthleteID: id, WeekStart: weekStart, DownloadURL: "https://storage.test/x.ics"}, nil
}

func newTestRouter(svc service.TrainingService) (*gin.Engine, *metrics.Manager) {
	gin.SetMode(gin.TestMode)
	m, reg := metrics.NewTestManagerAndRegistry()
	router := gin.New()
	api.SetupRoutes(router, svc, m, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), func() time.Time { return testNow })
	return router, m
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["error"]
}

func TestPing(t *testing.T) {
	router, _ := newTestRouter(&fakeTrainingService{})
	rr := serve(router, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"pong"}`, rr.Body.String())
}

func TestCreateAthlete(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		svc := &fakeTrainingService{}
		router, _ := newTestRouter(svc)
		rr := serve(router, http.MethodPost, "/api/v1/athletes",
			`{"name":"Sam","programStartDate":"2024-01-01","equipment":["barbell"],"preferences":{"maxSessionsPerWeek":3}}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		var resp api.AthleteResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "athlete-1", resp.ID)
		assert.Equal(t, "2024-01-01", resp.ProgramStartDate)
		assert.Equal(t, []string{"barbell"}, resp.Equipment)
		assert.Equal(t, 3, svc.createdAthlete.Preferences.MaxSessionsPerWeek)
	})

	t.Run("missing name", func(t *testing.T) {
		router, _ := newTestRouter(&fakeTrainingService{})
		rr := serve(router, http.MethodPost, "/api/v1/athletes", `{"equipment":[]}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, errorMessage(t, rr), "Validation error")
	})

	t.Run("bad start date", func(t *testing.T) {
		router, _ := newTestRouter(&fakeTrainingService{})
		rr := serve(router, http.MethodPost, "/api/v1/athletes", `{"name":"Sam","programStartDate":"01/01/2024"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetAthlete_NotFound(t *testing.T) {
	svc := &fakeTrainingService{err: service.ErrAthleteNotFound}
	router, _ := newTestRouter(svc)

	rr := serve(router, http.MethodGet, "/api/v1/athletes/nobody", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, service.ErrAthleteNotFound.Error(), errorMessage(t, rr))
	assert.Equal(t, "nobody", svc.gotAthleteID)
}

func TestRecordCheckIn(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		svc := &fakeTrainingService{}
		router, _ := newTestRouter(svc)
		rr := serve(router, http.MethodPost, "/api/v1/athletes/athlete-1/checkins",
			`{"date":"2024-01-10T08:00:00Z","energy":6,"soreness":3,"sleepHours":7.5,"mood":7}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		require.NotNil(t, svc.gotCheckIn)
		assert.Equal(t, "athlete-1", svc.gotAthleteID)
		assert.Equal(t, 6, svc.gotCheckIn.Energy)
		assert.InDelta(t, 7.5, svc.gotCheckIn.SleepHours, 0.001)
	})

	t.Run("energy out of range", func(t *testing.T) {
		svc := &fakeTrainingService{}
		router, _ := newTestRouter(svc)
		rr := serve(router, http.MethodPost, "/api/v1/athletes/athlete-1/checkins",
			`{"date":"2024-01-10T08:00:00Z","energy":12,"soreness":3}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Nil(t, svc.gotCheckIn)
	})
}

func TestUpdatePreferences(t *testing.T) {
	svc := &fakeTrainingService{}
	router, _ := newTestRouter(svc)

	rr := serve(router, http.MethodPut, "/api/v1/athletes/athlete-1/preferences",
		`{"availableDays":[1,3,5],"maxSessionsPerWeek":3,"preferredTimes":["07:00"]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, svc.gotPrefs)
	assert.Equal(t, []int{1, 3, 5}, svc.gotPrefs.AvailableDays)

	var resp api.AthleteResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Preferences.MaxSessionsPerWeek)

	rr = serve(router, http.MethodPut, "/api/v1/athletes/athlete-1/preferences", `{"availableDays":"monday"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetLatestExport(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &fakeTrainingService{}
		router, _ := newTestRouter(svc)

		rr := serve(router, http.MethodGet, "/api/v1/athletes/athlete-1/schedule/export", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, testMonday, svc.gotWeekStart)

		var record domain.ScheduleExport
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &record))
		assert.Equal(t, "https://storage.test/x.ics", record.DownloadURL)
	})

	t.Run("not exported yet", func(t *testing.T) {
		router, _ := newTestRouter(&fakeTrainingService{err: service.ErrExportNotFound})
		rr := serve(router, http.MethodGet, "/api/v1/athletes/athlete-1/schedule/export?weekStart=2024-01-15", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, service.ErrExportNotFound.Error(), errorMessage(t, rr))
	})
}

func TestGetPhase(t *testing.T) {
	svc := &fakeTrainingService{}
	router, _ := newTestRouter(svc)

	rr := serve(router, http.MethodGet, "/api/v1/athletes/athlete-1/phase?week=6", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 6, svc.gotWeek)

	rr = serve(router, http.MethodGet, "/api/v1/athletes/athlete-1/phase", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, svc.gotWeek)

	rr = serve(router, http.MethodGet, "/api/v1/athletes/athlete-1/phase?week=zero", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetWeeklySchedule(t *testing.T) {
	t.Run("explicit week start", func(t *testing.T) {
		svc := &fakeTrainingService{}
		router, _ := newTestRouter(svc)
		rr := serve(router, http.MethodGet, "/api/v1/athletes/athlete-1/schedule?weekStart=2024-01-01", "")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), svc.gotWeekStart)

		var schedule domain.AutomaticSchedule
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &schedule))
		require.Len(t, schedule.Sessions, 1)
		assert.Equal(t, domain.SessionStrength, schedule.Sessions[0].Type)
	})

	t.Run("defaults to the current week", func(t *testing.T) {
		svc := &fakeTrainingService{}
		router, _ := newTestRouter(svc)
		rr := serve(router, http.MethodGet, "/api/v1/athletes/athlete-1/schedule", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, testMonday, svc.gotWeekStart)
	})

	t.Run("invalid week start", func(t *testing.T) {
		router, _ := newTestRouter(&fakeTrainingService{})
		rr := serve(router, http.MethodGet, "/api/v1/athletes/athlete-1/schedule?weekStart=next-week", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("service failure hides details", func(t *testing.T) {
		svc := &fakeTrainingService{err: fmt.Errorf("%w: %v", service.ErrScheduleGeneration, errors.New("socket closed"))}
		router, _ := newTestRouter(svc)
		rr := serve(router, http.MethodGet, "/api/v1/athletes/athlete-1/schedule?weekStart=2024-01-01", "")
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Failed to generate weekly schedule.", errorMessage(t, rr))
	})

	t.Run("invalid input maps to 400", func(t *testing.T) {
		svc := &fakeTrainingService{err: fmt.Errorf("%w: week start is required", service.ErrInvalidInput)}
		router, _ := newTestRouter(svc)
		rr := serve(router, http.MethodGet, "/api/v1/athletes/athlete-1/schedule", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestResolveSchedule(t *testing.T) {
	svc := &fakeTrainingService{}
	router, _ := newTestRouter(svc)
	rr := serve(router, http.MethodPost, "/api/v1/athletes/athlete-1/schedule/resolve?weekStart=2024-01-15", "")

	require.Equal(t, http.StatusOK, rr.Code)
	var resp api.ResolvedScheduleResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Schedule.Optimal)
	require.Len(t, resp.Resolutions, 1)
	assert.Equal(t, domain.ActionSkip, resp.Resolutions[0].Action)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), svc.gotWeekStart)
}

func TestGetPrograms_EmptyArray(t *testing.T) {
	router, _ := newTestRouter(&fakeTrainingService{})
	rr := serve(router, http.MethodGet, "/api/v1/athletes/athlete-1/programs", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}

func TestRequestMetrics(t *testing.T) {
	router, m := newTestRouter(&fakeTrainingService{})

	serve(router, http.MethodGet, "/ping", "")
	serve(router, http.MethodGet, "/ping", "")
	serve(router, http.MethodGet, "/api/v1/athletes/athlete-1/phase?week=zero", "")

	assert.InDelta(t, 2, testutil.ToFloat64(m.CounterRequests.WithLabelValues("GET", "200")), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CounterRequests.WithLabelValues("GET", "400")), 0.001)

	rr := serve(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "adaptive_trainer_test_server_request")
}

func TestPanicRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.NewTestManager()
	router := gin.New()
	router.Use(api.PanicRecovery(m))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/boom", func(c *gin.Context) { panic("YOLO") })

	rr := serve(router, http.MethodGet, "/ok", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	// panic did not happen
	assert.Equal(t, float64(0), testutil.ToFloat64(m.CounterHandleRequestPanic))

	rr = serve(router, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	// panic DID happen
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterHandleRequestPanic))
}
