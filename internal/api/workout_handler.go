package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"fitlog/routine-server/internal/domain"
	"fitlog/routine-server/internal/service"
)

// WorkoutHandler exposes the day lifecycle: starting, editing and finishing
// workouts and browsing history.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type StartWorkoutRequest struct {
	// Date defaults to today, StartTime to now.
	Date      *time.Time `json:"date"`
	StartTime *time.Time `json:"startTime"`
}

type FinishWorkoutRequest struct {
	EndTime *time.Time `json:"endTime"` // Defaults to now
}

type UpdateDayNoteRequest struct {
	Note string `json:"note"`
}

type AddExerciseRequest struct {
	ExerciseID string `json:"exerciseId" binding:"required"`
	OrderIndex int    `json:"orderIndex"`
	Note       string `json:"note"`
}

type SetRequest struct {
	Reps        *int     `json:"reps"`
	Weight      *float64 `json:"weight"`
	RPE         *float64 `json:"rpe"`
	RestSeconds *int     `json:"restSeconds"`
}

type StartWorkoutResponse struct {
	Day        domain.Day          `json:"day"`
	State      domain.DayState     `json:"state"`
	CopyReport *service.CopyReport `json:"copyReport"`
}

type DayResponse struct {
	Day   domain.Day      `json:"day"`
	State domain.DayState `json:"state"`
}

// StartWorkout materializes a dated instance from a source day.
func (h *WorkoutHandler) StartWorkout(c *gin.Context) {
	var req StartWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	ownerID, dayID, ok := ownerAndDayID(c)
	if !ok {
		return
	}

	now := time.Now().UTC()
	date := now
	if req.Date != nil {
		date = *req.Date
	}
	startTime := now
	if req.StartTime != nil {
		startTime = *req.StartTime
	}

	day, report, err := h.workoutService.StartDailyWorkout(c.Request.Context(), ownerID, dayID, date, startTime)
	if err != nil {
		mapWorkoutError(c, err, "failed to start workout")
		return
	}
	c.JSON(http.StatusCreated, StartWorkoutResponse{Day: *day, State: day.State(), CopyReport: report})
}

// FinishWorkout stamps the end timestamp.
func (h *WorkoutHandler) FinishWorkout(c *gin.Context) {
	var req FinishWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	ownerID, dayID, ok := ownerAndDayID(c)
	if !ok {
		return
	}

	endTime := time.Now().UTC()
	if req.EndTime != nil {
		endTime = *req.EndTime
	}

	day, err := h.workoutService.FinishWorkout(c.Request.Context(), ownerID, dayID, endTime)
	if err != nil {
		mapWorkoutError(c, err, "failed to finish workout")
		return
	}
	c.JSON(http.StatusOK, DayResponse{Day: *day, State: day.State()})
}

// GetDay returns the day with its subtree, display state and duration.
func (h *WorkoutHandler) GetDay(c *gin.Context) {
	ownerID, dayID, ok := ownerAndDayID(c)
	if !ok {
		return
	}
	detail, err := h.workoutService.GetDay(c.Request.Context(), ownerID, dayID)
	if err != nil {
		mapWorkoutError(c, err, "failed to get day")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"day":             detail.Day,
		"state":           detail.Day.DisplayState(time.Now()),
		"exercises":       detail.Exercises,
		"durationMinutes": domain.ComputeDurationMinutes(detail.Day.StartTime, detail.Day.EndTime),
	})
}

// GetWorkoutHistory lists a routine's dated instances within a date range.
func (h *WorkoutHandler) GetWorkoutHistory(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	routineID, err := uuid.Parse(c.Param("routineId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routine ID format.")
		return
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	days, err := h.workoutService.ListWorkoutHistory(c.Request.Context(), ownerID, routineID, from, to)
	if err != nil {
		mapWorkoutError(c, err, "failed to list workout history")
		return
	}

	today := time.Now()
	responses := make([]DayResponse, 0, len(days))
	for i := range days {
		responses = append(responses, DayResponse{Day: days[i], State: days[i].DisplayState(today)})
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateDayNote sets the session note.
func (h *WorkoutHandler) UpdateDayNote(c *gin.Context) {
	var req UpdateDayNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	ownerID, dayID, ok := ownerAndDayID(c)
	if !ok {
		return
	}
	day, err := h.workoutService.UpdateDayNote(c.Request.Context(), ownerID, dayID, req.Note)
	if err != nil {
		mapWorkoutError(c, err, "failed to update day note")
		return
	}
	c.JSON(http.StatusOK, DayResponse{Day: *day, State: day.State()})
}

// AddExercise schedules a catalog exercise on a day.
func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	var req AddExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	ownerID, dayID, ok := ownerAndDayID(c)
	if !ok {
		return
	}
	exerciseID, err := uuid.Parse(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}

	scheduled, err := h.workoutService.AddExerciseToDay(c.Request.Context(), ownerID, dayID, exerciseID, req.OrderIndex, req.Note)
	if err != nil {
		mapWorkoutError(c, err, "failed to add exercise to day")
		return
	}
	c.JSON(http.StatusCreated, scheduled)
}

// RemoveExercise deletes a scheduled exercise (and, via cascade, its sets).
func (h *WorkoutHandler) RemoveExercise(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	scheduledID, err := uuid.Parse(c.Param("scheduledExerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid scheduled exercise ID format.")
		return
	}
	if err := h.workoutService.RemoveExerciseFromDay(c.Request.Context(), ownerID, scheduledID); err != nil {
		mapWorkoutError(c, err, "failed to remove exercise from day")
		return
	}
	c.Status(http.StatusNoContent)
}

// AddSet appends a set to a scheduled exercise.
func (h *WorkoutHandler) AddSet(c *gin.Context) {
	var req SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	scheduledID, err := uuid.Parse(c.Param("scheduledExerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid scheduled exercise ID format.")
		return
	}

	set, err := h.workoutService.AddSet(c.Request.Context(), ownerID, scheduledID, req.Reps, req.Weight, req.RPE, req.RestSeconds)
	if err != nil {
		mapWorkoutError(c, err, "failed to add set")
		return
	}
	c.JSON(http.StatusCreated, set)
}

// UpdateSet records performance on an existing set.
func (h *WorkoutHandler) UpdateSet(c *gin.Context) {
	var req SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	setID, err := uuid.Parse(c.Param("setId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid set ID format.")
		return
	}

	set, err := h.workoutService.UpdateSet(c.Request.Context(), ownerID, setID, req.Reps, req.Weight, req.RPE, req.RestSeconds)
	if err != nil {
		mapWorkoutError(c, err, "failed to update set")
		return
	}
	c.JSON(http.StatusOK, set)
}

// DeleteSet removes a set.
func (h *WorkoutHandler) DeleteSet(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	setID, err := uuid.Parse(c.Param("setId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid set ID format.")
		return
	}
	if err := h.workoutService.DeleteSet(c.Request.Context(), ownerID, setID); err != nil {
		mapWorkoutError(c, err, "failed to delete set")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- helpers ---

func ownerAndDayID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return uuid.Nil, uuid.Nil, false
	}
	dayID, err := uuid.Parse(c.Param("dayId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid day ID format.")
		return uuid.Nil, uuid.Nil, false
	}
	return ownerID, dayID, true
}

// parseDateRange reads optional from/to query params (YYYY-MM-DD), defaulting
// to the last 90 days.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -90)
	to := now
	var err error
	if raw := c.Query("from"); raw != "" {
		if from, err = time.Parse("2006-01-02", raw); err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid 'from' date, expected YYYY-MM-DD")
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err = time.Parse("2006-01-02", raw); err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid 'to' date, expected YYYY-MM-DD")
		}
	}
	return from, to, nil
}

func mapWorkoutError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrDayNotFound),
		errors.Is(err, service.ErrRoutineNotFound),
		errors.Is(err, service.ErrScheduledExerciseNotFound),
		errors.Is(err, service.ErrSetNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRoutineAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrWorkoutNotStarted):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		log.WithError(err).Error(logMsg)
		abortWithError(c, http.StatusInternalServerError, "Internal server error.")
	}
}
