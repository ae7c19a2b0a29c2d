package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"fitlog/routine-server/internal/domain"
	"fitlog/routine-server/internal/repository"
	"fitlog/routine-server/internal/storage"
)

var ErrPhotoNotFound = errors.New("progress photo not found")

// WeekSummary aggregates one calendar week of completed training.
type WeekSummary struct {
	WeekStart         time.Time `json:"weekStart"` // Always a Monday
	CompletedWorkouts int       `json:"completedWorkouts"`
	// TotalMinutes counts only durations that pass the display filter;
	// sub-5-minute sessions contribute nothing.
	TotalMinutes int     `json:"totalMinutes"`
	TotalVolume  float64 `json:"totalVolume"` // Σ weight × reps
}

// PhotoUpload is a created photo record plus a presigned PUT URL the client
// uploads the binary to.
type PhotoUpload struct {
	Photo     domain.ProgressPhoto `json:"photo"`
	UploadURL string               `json:"uploadUrl"`
}

// PhotoView is a photo record plus a presigned GET URL.
type PhotoView struct {
	Photo       domain.ProgressPhoto `json:"photo"`
	DownloadURL string               `json:"downloadUrl"`
}

// ProgressService derives historical statistics and manages progress photos.
type ProgressService interface {
	WeeklySummary(ctx context.Context, ownerID, routineID uuid.UUID, from, to time.Time) ([]WeekSummary, error)
	RequestPhotoUpload(ctx context.Context, ownerID uuid.UUID, fileName, contentType string, takenAt *time.Time) (*PhotoUpload, error)
	ListPhotos(ctx context.Context, ownerID uuid.UUID) ([]PhotoView, error)
	DeletePhoto(ctx context.Context, ownerID, photoID uuid.UUID) error
}

// progressService implements the ProgressService interface.
type progressService struct {
	routineRepo  repository.RoutineRepository
	dayRepo      repository.DayRepository
	scheduleRepo repository.ScheduleRepository
	photoRepo    repository.ProgressPhotoRepository
	fileStorage  storage.FileStorage
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(
	routineRepo repository.RoutineRepository,
	dayRepo repository.DayRepository,
	scheduleRepo repository.ScheduleRepository,
	photoRepo repository.ProgressPhotoRepository,
	fileStorage storage.FileStorage,
) ProgressService {
	return &progressService{
		routineRepo:  routineRepo,
		dayRepo:      dayRepo,
		scheduleRepo: scheduleRepo,
		photoRepo:    photoRepo,
		fileStorage:  fileStorage,
	}
}

// WeeklySummary groups the routine's completed dated instances by the Monday
// of their calendar week, summing display-filtered minutes and volume.
func (s *progressService) WeeklySummary(ctx context.Context, ownerID, routineID uuid.UUID, from, to time.Time) ([]WeekSummary, error) {
	routine, err := s.routineRepo.GetByID(ctx, routineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	if routine.OwnerID != ownerID {
		return nil, ErrRoutineAccessDenied
	}

	days, err := s.dayRepo.GetDatedInstances(ctx, routineID, from, to)
	if err != nil {
		return nil, err
	}

	byWeek := map[time.Time]*WeekSummary{}
	for i := range days {
		day := &days[i]
		if day.State() != domain.StateCompleted {
			continue
		}
		week := domain.MondayOf(*day.Date)
		summary := byWeek[week]
		if summary == nil {
			summary = &WeekSummary{WeekStart: week}
			byWeek[week] = summary
		}
		summary.CompletedWorkouts++
		if minutes := domain.DisplayDurationMinutes(day.StartTime, day.EndTime); minutes != nil {
			summary.TotalMinutes += *minutes
		}
		volume, err := s.dayVolume(ctx, day.ID)
		if err != nil {
			// Statistics stay best effort; a failed subtree read drops the
			// day's volume, not the whole summary.
			log.WithError(err).WithField("dayId", day.ID).Warn("failed to aggregate day volume")
			continue
		}
		summary.TotalVolume += volume
	}

	summaries := make([]WeekSummary, 0, len(byWeek))
	for _, summary := range byWeek {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].WeekStart.Before(summaries[j].WeekStart)
	})
	return summaries, nil
}

func (s *progressService) dayVolume(ctx context.Context, dayID uuid.UUID) (float64, error) {
	exercises, err := s.scheduleRepo.GetScheduledExercisesByDayID(ctx, dayID)
	if err != nil {
		return 0, err
	}
	var volume float64
	for _, ex := range exercises {
		sets, err := s.scheduleRepo.GetSetsByScheduledExerciseID(ctx, ex.ID)
		if err != nil {
			return 0, err
		}
		for i := range sets {
			volume += sets[i].Volume()
		}
	}
	return volume, nil
}

// RequestPhotoUpload records photo metadata and returns a presigned PUT URL;
// the client uploads the binary directly to object storage.
func (s *progressService) RequestPhotoUpload(ctx context.Context, ownerID uuid.UUID, fileName, contentType string, takenAt *time.Time) (*PhotoUpload, error) {
	if ownerID == uuid.Nil || fileName == "" || contentType == "" {
		return nil, errors.New("owner ID, file name and content type are required")
	}

	photo := &domain.ProgressPhoto{
		OwnerID:     ownerID,
		ObjectKey:   fmt.Sprintf("progress-photos/%s/%s-%s", ownerID, uuid.NewString(), fileName),
		FileName:    fileName,
		ContentType: contentType,
		TakenAt:     takenAt,
	}
	if _, err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, err
	}

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, photo.ObjectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		// Metadata without an upload URL is useless; remove the orphan row.
		if delErr := s.photoRepo.Delete(ctx, photo.ID, ownerID); delErr != nil {
			log.WithError(delErr).WithField("photoId", photo.ID).Warn("failed to remove orphaned photo record")
		}
		return nil, err
	}
	return &PhotoUpload{Photo: *photo, UploadURL: uploadURL}, nil
}

func (s *progressService) ListPhotos(ctx context.Context, ownerID uuid.UUID) ([]PhotoView, error) {
	if ownerID == uuid.Nil {
		return nil, errors.New("owner ID is required")
	}
	photos, err := s.photoRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	views := make([]PhotoView, 0, len(photos))
	for _, photo := range photos {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, photo.ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			log.WithError(err).WithField("photoId", photo.ID).Warn("failed to presign photo download")
			continue
		}
		views = append(views, PhotoView{Photo: photo, DownloadURL: url})
	}
	return views, nil
}

func (s *progressService) DeletePhoto(ctx context.Context, ownerID, photoID uuid.UUID) error {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPhotoNotFound
		}
		return err
	}
	if photo.OwnerID != ownerID {
		return ErrPhotoNotFound // Do not reveal foreign photo IDs
	}
	if err := s.photoRepo.Delete(ctx, photoID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPhotoNotFound
		}
		return err
	}
	if err := s.fileStorage.DeleteObject(ctx, photo.ObjectKey); err != nil {
		// The metadata row is already gone; an orphaned object is acceptable.
		log.WithError(err).WithField("objectKey", photo.ObjectKey).Warn("failed to delete photo object")
	}
	return nil
}
