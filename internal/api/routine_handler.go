package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"fitlog/routine-server/internal/service"
)

// RoutineHandler exposes weekly routine management endpoints.
type RoutineHandler struct {
	routineService service.RoutineService
}

func NewRoutineHandler(routineService service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

// --- DTOs ---

type CreateRoutineRequest struct {
	Name      string `json:"name" binding:"required"`
	Objective string `json:"objective"`
}

type UpdateRoutineRequest struct {
	Name      string `json:"name"`
	Objective string `json:"objective"`
}

type DuplicateRoutineRequest struct {
	Name      string `json:"name" binding:"required"`
	Objective string `json:"objective"`
}

// CreateRoutine creates a routine with its seven template days.
func (h *RoutineHandler) CreateRoutine(c *gin.Context) {
	var req CreateRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	routine, err := h.routineService.CreateRoutine(c.Request.Context(), ownerID, req.Name, req.Objective)
	if err != nil {
		log.WithError(err).Error("failed to create routine")
		abortWithError(c, http.StatusInternalServerError, "Failed to create routine.")
		return
	}
	c.JSON(http.StatusCreated, routine)
}

// GetRoutines lists the user's routines.
func (h *RoutineHandler) GetRoutines(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	routines, err := h.routineService.GetRoutines(c.Request.Context(), ownerID)
	if err != nil {
		log.WithError(err).Error("failed to list routines")
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve routines.")
		return
	}
	c.JSON(http.StatusOK, routines)
}

// GetRoutine returns one routine with its template days.
func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	ownerID, routineID, ok := h.ownerAndRoutineID(c)
	if !ok {
		return
	}
	detail, err := h.routineService.GetRoutine(c.Request.Context(), ownerID, routineID)
	if err != nil {
		h.mapRoutineError(c, err, "failed to get routine")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateRoutine changes name/objective.
func (h *RoutineHandler) UpdateRoutine(c *gin.Context) {
	var req UpdateRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	ownerID, routineID, ok := h.ownerAndRoutineID(c)
	if !ok {
		return
	}
	routine, err := h.routineService.UpdateRoutine(c.Request.Context(), ownerID, routineID, req.Name, req.Objective)
	if err != nil {
		h.mapRoutineError(c, err, "failed to update routine")
		return
	}
	c.JSON(http.StatusOK, routine)
}

// DeleteRoutine removes a routine and, via cascade, its entire history.
func (h *RoutineHandler) DeleteRoutine(c *gin.Context) {
	ownerID, routineID, ok := h.ownerAndRoutineID(c)
	if !ok {
		return
	}
	if err := h.routineService.DeleteRoutine(c.Request.Context(), ownerID, routineID); err != nil {
		h.mapRoutineError(c, err, "failed to delete routine")
		return
	}
	c.Status(http.StatusNoContent)
}

// DuplicateRoutine founds a new routine from the given template.
func (h *RoutineHandler) DuplicateRoutine(c *gin.Context) {
	var req DuplicateRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	ownerID, routineID, ok := h.ownerAndRoutineID(c)
	if !ok {
		return
	}
	routine, report, err := h.routineService.CreateRoutineFromTemplate(c.Request.Context(), ownerID, routineID, req.Name, req.Objective)
	if err != nil {
		h.mapRoutineError(c, err, "failed to duplicate routine")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"routine": routine, "copyReport": report})
}

// SetActiveRoutine marks the routine as the user's single active one.
func (h *RoutineHandler) SetActiveRoutine(c *gin.Context) {
	ownerID, routineID, ok := h.ownerAndRoutineID(c)
	if !ok {
		return
	}
	routine, err := h.routineService.SetActiveRoutine(c.Request.Context(), ownerID, routineID)
	if err != nil {
		h.mapRoutineError(c, err, "failed to set active routine")
		return
	}
	c.JSON(http.StatusOK, routine)
}

func (h *RoutineHandler) ownerAndRoutineID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return uuid.Nil, uuid.Nil, false
	}
	routineID, err := uuid.Parse(c.Param("routineId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routine ID format.")
		return uuid.Nil, uuid.Nil, false
	}
	return ownerID, routineID, true
}

func (h *RoutineHandler) mapRoutineError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrRoutineNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRoutineAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		log.WithError(err).Error(logMsg)
		abortWithError(c, http.StatusInternalServerError, "Internal server error.")
	}
}
