package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fitlog/routine-server/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	routineService service.RoutineService,
	workoutService service.WorkoutService,
	progressService service.ProgressService,
	exerciseService service.ExerciseService,
) {
	authHandler := NewAuthHandler(authService)
	routineHandler := NewRoutineHandler(routineService)
	workoutHandler := NewWorkoutHandler(workoutService)
	progressHandler := NewProgressHandler(progressService)
	exerciseHandler := NewExerciseHandler(exerciseService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Routine Management ---
		routineGroup := protected.Group("/routines")
		{
			routineGroup.POST("", routineHandler.CreateRoutine)
			routineGroup.GET("", routineHandler.GetRoutines)
			routineGroup.GET("/:routineId", routineHandler.GetRoutine)
			routineGroup.PUT("/:routineId", routineHandler.UpdateRoutine)
			routineGroup.DELETE("/:routineId", routineHandler.DeleteRoutine)
			routineGroup.POST("/:routineId/duplicate", routineHandler.DuplicateRoutine)
			routineGroup.POST("/:routineId/activate", routineHandler.SetActiveRoutine)
			routineGroup.GET("/:routineId/history", workoutHandler.GetWorkoutHistory)
			routineGroup.GET("/:routineId/summary", progressHandler.GetWeeklySummary)
		}

		// --- Day Lifecycle ---
		dayGroup := protected.Group("/days")
		{
			dayGroup.GET("/:dayId", workoutHandler.GetDay)
			dayGroup.POST("/:dayId/start", workoutHandler.StartWorkout)
			dayGroup.POST("/:dayId/finish", workoutHandler.FinishWorkout)
			dayGroup.PUT("/:dayId/note", workoutHandler.UpdateDayNote)
			dayGroup.POST("/:dayId/exercises", workoutHandler.AddExercise)
		}

		// --- Scheduled Exercises & Sets ---
		scheduledGroup := protected.Group("/scheduled-exercises")
		{
			scheduledGroup.DELETE("/:scheduledExerciseId", workoutHandler.RemoveExercise)
			scheduledGroup.POST("/:scheduledExerciseId/sets", workoutHandler.AddSet)
		}
		setGroup := protected.Group("/sets")
		{
			setGroup.PUT("/:setId", workoutHandler.UpdateSet)
			setGroup.DELETE("/:setId", workoutHandler.DeleteSet)
		}

		// --- Exercise Catalog ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("", exerciseHandler.GetExercises)
			exerciseGroup.GET("/:exerciseId", exerciseHandler.GetExercise)
		}

		// --- Progress Photos ---
		photoGroup := protected.Group("/photos")
		{
			photoGroup.POST("", progressHandler.RequestPhotoUpload)
			photoGroup.GET("", progressHandler.ListPhotos)
			photoGroup.DELETE("/:photoId", progressHandler.DeletePhoto)
		}
	}
}
