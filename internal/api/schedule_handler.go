package api

import (
	"net/http"
	"strconv"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
	"alcyxob/adaptive-trainer/internal/service"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler serves the planning read models and the write-back endpoints.
type ScheduleHandler struct {
	trainingService service.TrainingService
	now             func() time.Time
}

// NewScheduleHandler creates a new ScheduleHandler. A nil clock defaults to time.Now in UTC.
func NewScheduleHandler(trainingService service.TrainingService, now func() time.Time) *ScheduleHandler {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &ScheduleHandler{trainingService: trainingService, now: now}
}

// ResolvedScheduleResponse pairs a schedule with the resolutions applied to it.
type ResolvedScheduleResponse struct {
	Schedule    domain.AutomaticSchedule    `json:"schedule"`
	Resolutions []domain.ConflictResolution `json:"resolutions"`
}

// RecommendationsResponse wraps session guidance.
type RecommendationsResponse struct {
	Recommendations []string `json:"recommendations"`
}

// weekStartQuery reads ?weekStart=, defaulting to the Monday of the current week.
func (h *ScheduleHandler) weekStartQuery(c *gin.Context) (time.Time, bool) {
	return dateQuery(c, "weekStart", domain.WeekStart(h.now()))
}

// GetPhase godoc
// @Summary Analyze the athlete's training phase
// @Tags Planning
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Param week query int false "Program week (defaults to the current week)"
// @Success 200 {object} domain.PhaseAnalysis
// @Failure 400 {object} gin.H "Invalid week"
// @Failure 404 {object} gin.H "Athlete not found"
// @Router /athletes/{athleteId}/phase [get]
func (h *ScheduleHandler) GetPhase(c *gin.Context) {
	week := 0
	if raw := c.Query("week"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			abortWithError(c, http.StatusBadRequest, "Invalid week, expected a positive integer")
			return
		}
		week = n
	}

	analysis, err := h.trainingService.AnalyzePhase(c.Request.Context(), c.Param("athleteId"), week)
	if err != nil {
		abortWithServiceError(c, err, "Failed to analyze training phase.")
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// GetDashboard godoc
// @Summary Combined planning dashboard
// @Description Phase, current and next week, missed-session recoveries, timing analytics and conflict resolutions.
// @Tags Planning
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Success 200 {object} domain.Dashboard
// @Failure 404 {object} gin.H "Athlete not found"
// @Router /athletes/{athleteId}/dashboard [get]
func (h *ScheduleHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.trainingService.GetDashboard(c.Request.Context(), c.Param("athleteId"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to build dashboard.")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// GetWeeklySchedule godoc
// @Summary Generate a weekly schedule
// @Tags Planning
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Param weekStart query string false "YYYY-MM-DD, defaults to this week's Monday"
// @Success 200 {object} domain.AutomaticSchedule
// @Failure 400 {object} gin.H "Invalid weekStart"
// @Failure 404 {object} gin.H "Athlete not found"
// @Failure 500 {object} gin.H "Failed to generate weekly schedule"
// @Router /athletes/{athleteId}/schedule [get]
func (h *ScheduleHandler) GetWeeklySchedule(c *gin.Context) {
	weekStart, ok := h.weekStartQuery(c)
	if !ok {
		return
	}
	schedule, err := h.trainingService.GenerateWeeklySchedule(c.Request.Context(), c.Param("athleteId"), weekStart)
	if err != nil {
		abortWithServiceError(c, err, "Failed to generate weekly schedule.")
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// ResolveSchedule godoc
// @Summary Generate, resolve and save a week
// @Description Applies one resolution per conflict and stores the result as planned sessions.
// @Tags Planning
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Param weekStart query string false "YYYY-MM-DD, defaults to this week's Monday"
// @Success 200 {object} ResolvedScheduleResponse
// @Failure 400 {object} gin.H "Invalid weekStart"
// @Failure 404 {object} gin.H "Athlete not found"
// @Router /athletes/{athleteId}/schedule/resolve [post]
func (h *ScheduleHandler) ResolveSchedule(c *gin.Context) {
	weekStart, ok := h.weekStartQuery(c)
	if !ok {
		return
	}
	schedule, resolutions, err := h.trainingService.PlanWeek(c.Request.Context(), c.Param("athleteId"), weekStart)
	if err != nil {
		abortWithServiceError(c, err, "Failed to resolve weekly schedule.")
		return
	}
	c.JSON(http.StatusOK, ResolvedScheduleResponse{Schedule: *schedule, Resolutions: resolutions})
}

// PredictSession godoc
// @Summary Predict the session for one day
// @Tags Planning
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} domain.SessionSchedule
// @Failure 400 {object} gin.H "Invalid date"
// @Failure 404 {object} gin.H "Athlete not found"
// @Router /athletes/{athleteId}/predict [get]
func (h *ScheduleHandler) PredictSession(c *gin.Context) {
	date, ok := dateQuery(c, "date", domain.DateOnly(h.now()))
	if !ok {
		return
	}
	session, err := h.trainingService.PredictSession(c.Request.Context(), c.Param("athleteId"), date)
	if err != nil {
		abortWithServiceError(c, err, "Failed to predict session.")
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetPrograms godoc
// @Summary Exercise programs for a week
// @Tags Planning
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Param weekStart query string false "YYYY-MM-DD, defaults to this week's Monday"
// @Success 200 {array} domain.SessionProgram
// @Failure 404 {object} gin.H "Athlete not found"
// @Router /athletes/{athleteId}/programs [get]
func (h *ScheduleHandler) GetPrograms(c *gin.Context) {
	weekStart, ok := h.weekStartQuery(c)
	if !ok {
		return
	}
	programs, err := h.trainingService.GenerateWeekPrograms(c.Request.Context(), c.Param("athleteId"), weekStart)
	if err != nil {
		abortWithServiceError(c, err, "Failed to generate session programs.")
		return
	}
	if programs == nil {
		programs = []domain.SessionProgram{} // Return empty JSON array, not null
	}
	c.JSON(http.StatusOK, programs)
}

// GetRecommendations godoc
// @Summary Session guidance for today
// @Tags Planning
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Success 200 {object} RecommendationsResponse
// @Router /athletes/{athleteId}/recommendations [get]
func (h *ScheduleHandler) GetRecommendations(c *gin.Context) {
	recs, err := h.trainingService.GetSessionRecommendations(c.Request.Context(), c.Param("athleteId"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to build recommendations.")
		return
	}
	if recs == nil {
		recs = []string{}
	}
	c.JSON(http.StatusOK, RecommendationsResponse{Recommendations: recs})
}

// GetTiming godoc
// @Summary Descriptive timing analytics
// @Tags Planning
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Success 200 {object} domain.TimingRecommendations
// @Router /athletes/{athleteId}/timing [get]
func (h *ScheduleHandler) GetTiming(c *gin.Context) {
	timing, err := h.trainingService.GetTimingRecommendations(c.Request.Context(), c.Param("athleteId"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to build timing recommendations.")
		return
	}
	c.JSON(http.StatusOK, timing)
}

// ExportSchedule godoc
// @Summary Export a week as an iCalendar file
// @Description Uploads the resolved week to object storage and returns a presigned download URL.
// @Tags Planning
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Param weekStart query string false "YYYY-MM-DD, defaults to this week's Monday"
// @Success 201 {object} domain.ScheduleExport
// @Failure 404 {object} gin.H "Athlete not found"
// @Failure 500 {object} gin.H "Failed to export schedule"
// @Router /athletes/{athleteId}/schedule/export [post]
func (h *ScheduleHandler) ExportSchedule(c *gin.Context) {
	weekStart, ok := h.weekStartQuery(c)
	if !ok {
		return
	}
	record, err := h.trainingService.ExportSchedule(c.Request.Context(), c.Param("athleteId"), weekStart)
	if err != nil {
		abortWithServiceError(c, err, "Failed to export schedule.")
		return
	}
	c.JSON(http.StatusCreated, record)
}

// GetLatestExport godoc
// @Summary Latest export of a week
// @Description Returns the newest export metadata with a fresh presigned download URL.
// @Tags Planning
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Param weekStart query string false "YYYY-MM-DD, defaults to this week's Monday"
// @Success 200 {object} domain.ScheduleExport
// @Failure 404 {object} gin.H "Athlete or export not found"
// @Router /athletes/{athleteId}/schedule/export [get]
func (h *ScheduleHandler) GetLatestExport(c *gin.Context) {
	weekStart, ok := h.weekStartQuery(c)
	if !ok {
		return
	}
	record, err := h.trainingService.GetLatestExport(c.Request.Context(), c.Param("athleteId"), weekStart)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve schedule export.")
		return
	}
	c.JSON(http.StatusOK, record)
}
