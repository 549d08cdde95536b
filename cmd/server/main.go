package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/adaptive-trainer/internal/api"
	"alcyxob/adaptive-trainer/internal/config"
	"alcyxob/adaptive-trainer/internal/logging"
	"alcyxob/adaptive-trainer/internal/metrics"
	"alcyxob/adaptive-trainer/internal/planner"
	"alcyxob/adaptive-trainer/internal/prescription"
	"alcyxob/adaptive-trainer/internal/repository/mongo"
	"alcyxob/adaptive-trainer/internal/service"
	"alcyxob/adaptive-trainer/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// @title Adaptive Trainer API
// @version 1.0
// @description Periodized weekly training schedules with conflict resolution and exercise prescription.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Logging.File,
		LogToStdout:   true,
		LogLevel:      cfg.Logging.Level,
		LogFormatJSON: cfg.Logging.JSON,
	})
	log.Info("starting adaptive trainer server...")

	// --- Database Connection ---
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	dbClient, err := mongo.ConnectDB(connectCtx, cfg.Database.URI)
	cancelConnect()
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Info("disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Info("index creation process completed")
	}()

	// --- Initialize Storage ---
	storageCtx, cancelStorage := context.WithTimeout(context.Background(), 10*time.Second)
	fileStorage, err := storage.NewS3Storage(storageCtx, cfg.S3)
	cancelStorage()
	if err != nil {
		log.Fatalf("failed to initialize S3 storage: %v", err)
	}

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager(cfg.Metrics.Namespace, cfg.Metrics.Subsystem, registry)

	// --- Initialize Repositories and Services ---
	trainingService := service.NewTrainingService(
		mongo.NewMongoAthleteRepository(appDB),
		mongo.NewMongoSessionRepository(appDB),
		mongo.NewMongoCheckInRepository(appDB),
		mongo.NewMongoExportRepository(appDB),
		fileStorage,
		service.NewAnalysisCache(cfg.Cache.TTL, 2*cfg.Cache.TTL),
		metricsManager,
		service.Options{
			DefaultPreferences: cfg.Scheduler.DefaultPreferences(),
			SearchWindowDays:   cfg.Scheduler.SearchWindowDays,
			Progression: prescription.Params{
				Step:    cfg.Prescription.ProgressionStep,
				LowRPE:  cfg.Prescription.LowRPEThreshold,
				HighRPE: cfg.Prescription.HighRPEThreshold,
			},
			PresignExpiry: cfg.S3.PresignExpiry,
		},
	)

	// --- Weekly Planner ---
	if cfg.Planner.Enabled {
		weeklyPlanner := planner.New(trainingService, metricsManager, cfg.Planner.Spec, nil)
		if err := weeklyPlanner.Start(); err != nil {
			log.Fatalf("failed to start weekly planner: %v", err)
		}
		defer weeklyPlanner.Stop()
	}

	// --- Initialize Gin Engine ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	api.SetupRoutes(router, trainingService, metricsManager,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}), nil)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
		return
	}

	log.Info("server exiting")
}
