package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"fitlog/routine-server/internal/api"
	"fitlog/routine-server/internal/config"
	"fitlog/routine-server/internal/repository/postgres"
	"fitlog/routine-server/internal/service"
	"fitlog/routine-server/internal/storage"
)

func main() {
	log.Info("Starting routine server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}
	log.Info("Configuration loaded.")

	// --- Database Connection ---
	ctx := context.Background()
	pool, err := postgres.Connect(ctx, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	defer pool.Close()
	log.Info("Database connection established.")

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalf("could not run schema migration: %v", err)
	}
	log.Info("Schema migration completed.")

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := postgres.NewUserRepository(pool)
	routineRepo := postgres.NewRoutineRepository(pool)
	dayRepo := postgres.NewDayRepository(pool)
	scheduleRepo := postgres.NewScheduleRepository(pool)
	exerciseRepo := postgres.NewExerciseRepository(pool)
	photoRepo := postgres.NewProgressPhotoRepository(pool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	routineService := service.NewRoutineService(routineRepo, dayRepo, scheduleRepo)
	workoutService := service.NewWorkoutService(routineRepo, dayRepo, scheduleRepo)
	progressService := service.NewProgressService(routineRepo, dayRepo, scheduleRepo, photoRepo, fileStorage)
	exerciseService := service.NewExerciseService(exerciseRepo)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware
	api.SetupRoutes(router, cfg.JWT.Secret, authService, routineService, workoutService, progressService, exerciseService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("Server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Info("Server exiting.")
}
