package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"fitlog/routine-server/internal/service"
)

// ProgressHandler exposes weekly statistics and progress photos.
type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// --- DTOs ---

type PhotoUploadRequest struct {
	FileName    string     `json:"fileName" binding:"required"`
	ContentType string     `json:"contentType" binding:"required"`
	TakenAt     *time.Time `json:"takenAt"`
}

// GetWeeklySummary returns per-week completed workouts, minutes and volume.
func (h *ProgressHandler) GetWeeklySummary(c *gin.Context) {
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

	summaries, err := h.progressService.WeeklySummary(c.Request.Context(), ownerID, routineID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoutineNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRoutineAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			log.WithError(err).Error("failed to compute weekly summary")
			abortWithError(c, http.StatusInternalServerError, "Internal server error.")
		}
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// RequestPhotoUpload creates photo metadata and returns a presigned PUT URL.
func (h *ProgressHandler) RequestPhotoUpload(c *gin.Context) {
	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	upload, err := h.progressService.RequestPhotoUpload(c.Request.Context(), ownerID, req.FileName, req.ContentType, req.TakenAt)
	if err != nil {
		log.WithError(err).Error("failed to request photo upload")
		abortWithError(c, http.StatusInternalServerError, "Failed to prepare photo upload.")
		return
	}
	c.JSON(http.StatusCreated, upload)
}

// ListPhotos returns the user's photos with presigned GET URLs.
func (h *ProgressHandler) ListPhotos(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	photos, err := h.progressService.ListPhotos(c.Request.Context(), ownerID)
	if err != nil {
		log.WithError(err).Error("failed to list photos")
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve photos.")
		return
	}
	c.JSON(http.StatusOK, photos)
}

// DeletePhoto removes a photo record and its stored object.
func (h *ProgressHandler) DeletePhoto(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	photoID, err := uuid.Parse(c.Param("photoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid photo ID format.")
		return
	}

	if err := h.progressService.DeletePhoto(c.Request.Context(), ownerID, photoID); err != nil {
		if errors.Is(err, service.ErrPhotoNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		log.WithError(err).Error("failed to delete photo")
		abortWithError(c, http.StatusInternalServerError, "Failed to delete photo.")
		return
	}
	c.Status(http.StatusNoContent)
}
