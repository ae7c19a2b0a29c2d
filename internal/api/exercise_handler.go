package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"fitlog/routine-server/internal/service"
)

// ExerciseHandler exposes the exercise catalog endpoints.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

type CreateExerciseRequest struct {
	Name        string `json:"name" binding:"required"`
	MuscleGroup string `json:"muscleGroup"`
	Description string `json:"description"`
}

// CreateExercise adds a catalog entry.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), ownerID, req.Name, req.MuscleGroup, req.Description)
	if err != nil {
		log.WithError(err).Error("failed to create exercise")
		abortWithError(c, http.StatusInternalServerError, "Failed to create exercise.")
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// GetExercises lists the user's catalog.
func (h *ExerciseHandler) GetExercises(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	exercises, err := h.exerciseService.GetExercises(c.Request.Context(), ownerID)
	if err != nil {
		log.WithError(err).Error("failed to list exercises")
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises.")
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// GetExercise returns one catalog entry.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	exerciseID, err := uuid.Parse(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}

	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), ownerID, exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		log.WithError(err).Error("failed to get exercise")
		abortWithError(c, http.StatusInternalServerError, "Internal server error.")
		return
	}
	c.JSON(http.StatusOK, exercise)
}
