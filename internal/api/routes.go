package api

import (
	"net/http"
	"time"

	"alcyxob/adaptive-trainer/internal/metrics"
	"alcyxob/adaptive-trainer/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers middleware and every endpoint. A nil metricsHandler skips /metrics.
func SetupRoutes(
	router *gin.Engine,
	trainingService service.TrainingService,
	metricsManager *metrics.Manager,
	metricsHandler http.Handler,
	now func() time.Time,
) {
	athleteHandler := NewAthleteHandler(trainingService)
	scheduleHandler := NewScheduleHandler(trainingService, now)

	router.Use(RequestLogger(), RequestMetrics(metricsManager), PanicRecovery(metricsManager))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	apiV1 := router.Group("/api/v1")
	{
		// --- Athletes and history ---
		apiV1.POST("/athletes", athleteHandler.CreateAthlete)

		athleteGroup := apiV1.Group("/athletes/:athleteId")
		{
			athleteGroup.GET("", athleteHandler.GetAthlete)
			athleteGroup.POST("/sessions", athleteHandler.RecordSession)
			athleteGroup.POST("/checkins", athleteHandler.RecordCheckIn)
			athleteGroup.PUT("/preferences", athleteHandler.UpdatePreferences)

			// --- Planning read models ---
			athleteGroup.GET("/phase", scheduleHandler.GetPhase)
			athleteGroup.GET("/dashboard", scheduleHandler.GetDashboard)
			athleteGroup.GET("/schedule", scheduleHandler.GetWeeklySchedule)
			athleteGroup.GET("/predict", scheduleHandler.PredictSession)
			athleteGroup.GET("/programs", scheduleHandler.GetPrograms)
			athleteGroup.GET("/recommendations", scheduleHandler.GetRecommendations)
			athleteGroup.GET("/timing", scheduleHandler.GetTiming)

			// --- Write-back ---
			athleteGroup.POST("/schedule/resolve", scheduleHandler.ResolveSchedule)
			athleteGroup.POST("/schedule/export", scheduleHandler.ExportSchedule)
			athleteGroup.GET("/schedule/export", scheduleHandler.GetLatestExport)
		}
	}
}
