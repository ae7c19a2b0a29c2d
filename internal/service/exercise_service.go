package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"fitlog/routine-server/internal/domain"
	"fitlog/routine-server/internal/repository"
)

var ErrExerciseNotFound = errors.New("exercise not found")

// ExerciseService manages the per-user exercise catalog.
type ExerciseService interface {
	CreateExercise(ctx context.Context, ownerID uuid.UUID, name, muscleGroup, description string) (*domain.Exercise, error)
	GetExercise(ctx context.Context, ownerID, exerciseID uuid.UUID) (*domain.Exercise, error)
	GetExercises(ctx context.Context, ownerID uuid.UUID) ([]domain.Exercise, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{exerciseRepo: exerciseRepo}
}

func (s *exerciseService) CreateExercise(ctx context.Context, ownerID uuid.UUID, name, muscleGroup, description string) (*domain.Exercise, error) {
	if ownerID == uuid.Nil || name == "" {
		return nil, errors.New("owner ID and exercise name are required")
	}
	exercise := &domain.Exercise{
		OwnerID:     ownerID,
		Name:        name,
		MuscleGroup: muscleGroup,
		Description: description,
	}
	if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) GetExercise(ctx context.Context, ownerID, exerciseID uuid.UUID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if exercise.OwnerID != ownerID {
		return nil, ErrExerciseNotFound
	}
	return exercise, nil
}

func (s *exerciseService) GetExercises(ctx context.Context, ownerID uuid.UUID) ([]domain.Exercise, error) {
	if ownerID == uuid.Nil {
		return nil, errors.New("owner ID is required")
	}
	return s.exerciseRepo.GetByOwnerID(ctx, ownerID)
}
