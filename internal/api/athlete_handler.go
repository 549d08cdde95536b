package api

import (
	"net/http"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
	"alcyxob/adaptive-trainer/internal/service"

	"github.com/gin-gonic/gin"
)

// AthleteHandler serves athlete profiles and history recording.
type AthleteHandler struct {
	trainingService service.TrainingService
}

// NewAthleteHandler creates a new AthleteHandler.
func NewAthleteHandler(trainingService service.TrainingService) *AthleteHandler {
	return &AthleteHandler{trainingService: trainingService}
}

// --- DTOs ---

// CreateAthleteRequest defines the expected JSON for creating an athlete.
type CreateAthleteRequest struct {
	Name             string                       `json:"name" binding:"required"`
	ProgramStartDate string                       `json:"programStartDate" binding:"omitempty,datetime=2006-01-02"`
	Equipment        []string                     `json:"equipment"`
	Preferences      domain.SchedulingPreferences `json:"preferences"`
}

// RecordSessionRequest is a performed, missed or planned session.
type RecordSessionRequest struct {
	ID        string               `json:"id"` // Optional; reuse a planned session's id to complete it
	Date      time.Time            `json:"date" binding:"required"`
	Type      domain.SessionType   `json:"type" binding:"required,oneof=strength volleyball conditioning rest"`
	Duration  int                  `json:"duration" binding:"min=0"`
	Completed bool                 `json:"completed"`
	RPE       float64              `json:"rpe" binding:"min=0,max=10"`
	Exercises []domain.ExerciseLog `json:"exercises"`
	Status    domain.SessionStatus `json:"status" binding:"omitempty,oneof=planned completed missed skipped"`
}

// RecordCheckInRequest is a daily readiness self-report.
type RecordCheckInRequest struct {
	Date       time.Time `json:"date" binding:"required"`
	Energy     int       `json:"energy" binding:"required,min=1,max=10"`
	SleepHours float64   `json:"sleepHours" binding:"min=0,max=24"`
	Soreness   int       `json:"soreness" binding:"required,min=1,max=10"`
	Mood       int       `json:"mood" binding:"omitempty,min=1,max=10"`
	Motivation int       `json:"motivation" binding:"omitempty,min=1,max=10"`
}

// AthleteResponse is the DTO for returning athlete details.
type AthleteResponse struct {
	ID               string                       `json:"id"`
	Name             string                       `json:"name"`
	ProgramStartDate string                       `json:"programStartDate,omitempty"`
	Equipment        []string                     `json:"equipment"`
	Preferences      domain.SchedulingPreferences `json:"preferences"`
	CreatedAt        time.Time                    `json:"createdAt"`
}

// MapAthleteToResponse converts a domain.Athlete to AthleteResponse DTO.
func MapAthleteToResponse(a *domain.Athlete) AthleteResponse {
	if a == nil {
		return AthleteResponse{}
	}
	resp := AthleteResponse{
		ID:          a.ID,
		Name:        a.Name,
		Equipment:   a.Equipment,
		Preferences: a.Preferences,
		CreatedAt:   a.CreatedAt,
	}
	if resp.Equipment == nil {
		resp.Equipment = []string{}
	}
	if a.ProgramStartDate != nil {
		resp.ProgramStartDate = a.ProgramStartDate.Format(domain.DateLayout)
	}
	return resp
}

// --- Handler Methods ---

// CreateAthlete godoc
// @Summary Create an athlete
// @Tags Athletes
// @Accept json
// @Produce json
// @Param athlete body CreateAthleteRequest true "Athlete profile"
// @Success 201 {object} AthleteResponse
// @Failure 400 {object} gin.H "Validation error"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /athletes [post]
func (h *AthleteHandler) CreateAthlete(c *gin.Context) {
	var req CreateAthleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	athlete := &domain.Athlete{
		Name:        req.Name,
		Equipment:   req.Equipment,
		Preferences: req.Preferences,
	}
	if req.ProgramStartDate != "" {
		// Already validated by the binding tag.
		start, _ := time.Parse(domain.DateLayout, req.ProgramStartDate)
		athlete.ProgramStartDate = &start
	}

	created, err := h.trainingService.CreateAthlete(c.Request.Context(), athlete)
	if err != nil {
		abortWithServiceError(c, err, "Failed to create athlete.")
		return
	}
	c.JSON(http.StatusCreated, MapAthleteToResponse(created))
}

// GetAthlete godoc
// @Summary Get an athlete
// @Tags Athletes
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Success 200 {object} AthleteResponse
// @Failure 404 {object} gin.H "Athlete not found"
// @Router /athletes/{athleteId} [get]
func (h *AthleteHandler) GetAthlete(c *gin.Context) {
	athlete, err := h.trainingService.GetAthlete(c.Request.Context(), c.Param("athleteId"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve athlete.")
		return
	}
	c.JSON(http.StatusOK, MapAthleteToResponse(athlete))
}

// RecordSession godoc
// @Summary Record a training session
// @Description Stores a performed or missed session. Reusing a planned session's id replaces the placeholder.
// @Tags History
// @Accept json
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Param session body RecordSessionRequest true "Session"
// @Success 201 {object} domain.SessionRecord
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Athlete not found"
// @Router /athletes/{athleteId}/sessions [post]
func (h *AthleteHandler) RecordSession(c *gin.Context) {
	var req RecordSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	session := &domain.SessionRecord{
		ID:        req.ID,
		Date:      req.Date,
		Type:      req.Type,
		Duration:  req.Duration,
		Completed: req.Completed,
		RPE:       req.RPE,
		Exercises: req.Exercises,
		Status:    req.Status,
	}
	if err := h.trainingService.RecordSession(c.Request.Context(), c.Param("athleteId"), session); err != nil {
		abortWithServiceError(c, err, "Failed to record session.")
		return
	}
	c.JSON(http.StatusCreated, session)
}

// RecordCheckIn godoc
// @Summary Record a daily check-in
// @Tags History
// @Accept json
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Param checkIn body RecordCheckInRequest true "Check-in"
// @Success 201 {object} domain.CheckIn
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Athlete not found"
// @Router /athletes/{athleteId}/checkins [post]
func (h *AthleteHandler) RecordCheckIn(c *gin.Context) {
	var req RecordCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	checkIn := &domain.CheckIn{
		Date:       req.Date,
		Energy:     req.Energy,
		SleepHours: req.SleepHours,
		Soreness:   req.Soreness,
		Mood:       req.Mood,
		Motivation: req.Motivation,
	}
	if err := h.trainingService.RecordCheckIn(c.Request.Context(), c.Param("athleteId"), checkIn); err != nil {
		abortWithServiceError(c, err, "Failed to record check-in.")
		return
	}
	c.JSON(http.StatusCreated, checkIn)
}

// UpdatePreferences godoc
// @Summary Replace scheduling preferences
// @Tags Athletes
// @Accept json
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Param preferences body domain.SchedulingPreferences true "Preferences"
// @Success 200 {object} AthleteResponse
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Athlete not found"
// @Router /athletes/{athleteId}/preferences [put]
func (h *AthleteHandler) UpdatePreferences(c *gin.Context) {
	var prefs domain.SchedulingPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	athlete, err := h.trainingService.UpdatePreferences(c.Request.Context(), c.Param("athleteId"), prefs)
	if err != nil {
		abortWithServiceError(c, err, "Failed to update preferences.")
		return
	}
	c.JSON(http.StatusOK, MapAthleteToResponse(athlete))
}
