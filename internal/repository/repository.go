package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fitlog/routine-server/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (uuid.UUID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// RoutineRepository defines the interface for interacting with weekly routines.
type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.WeeklyRoutine) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WeeklyRoutine, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]domain.WeeklyRoutine, error)
	Update(ctx context.Context, routine *domain.WeeklyRoutine) error
	// Delete removes the routine and, via cascade, every descendant row.
	// The owner filter makes it a no-op (ErrNotFound) for foreign routines.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	// SetActive deactivates every routine of the owner and activates the
	// given one, in a single transaction.
	SetActive(ctx context.Context, ownerID, routineID uuid.UUID) error
}

// DayRepository defines the interface for interacting with routine days,
// both template rows and dated instances.
type DayRepository interface {
	Create(ctx context.Context, day *domain.Day) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Day, error)
	// GetTemplateDays returns the rows with no date, in weekday order of creation.
	GetTemplateDays(ctx context.Context, routineID uuid.UUID) ([]domain.Day, error)
	// GetDatedInstances returns dated rows of the routine within [from, to],
	// newest first.
	GetDatedInstances(ctx context.Context, routineID uuid.UUID, from, to time.Time) ([]domain.Day, error)
	Update(ctx context.Context, day *domain.Day) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ScheduleRepository defines the interface for scheduled exercises and their sets.
type ScheduleRepository interface {
	CreateScheduledExercise(ctx context.Context, ex *domain.ScheduledExercise) (uuid.UUID, error)
	GetScheduledExerciseByID(ctx context.Context, id uuid.UUID) (*domain.ScheduledExercise, error)
	GetScheduledExercisesByDayID(ctx context.Context, dayID uuid.UUID) ([]domain.ScheduledExercise, error)
	DeleteScheduledExercise(ctx context.Context, id uuid.UUID) error

	CreateSet(ctx context.Context, set *domain.Set) (uuid.UUID, error)
	GetSetByID(ctx context.Context, id uuid.UUID) (*domain.Set, error)
	GetSetsByScheduledExerciseID(ctx context.Context, scheduledExerciseID uuid.UUID) ([]domain.Set, error)
	UpdateSet(ctx context.Context, set *domain.Set) error
	DeleteSet(ctx context.Context, id uuid.UUID) error
}

// ExerciseRepository defines the interface for the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]domain.Exercise, error)
}

// ProgressPhotoRepository defines the interface for progress photo metadata.
type ProgressPhotoRepository interface {
	Create(ctx context.Context, photo *domain.ProgressPhoto) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressPhoto, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]domain.ProgressPhoto, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}
