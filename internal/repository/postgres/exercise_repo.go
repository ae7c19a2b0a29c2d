package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitlog/routine-server/internal/domain"
	"fitlog/routine-server/internal/repository"
)

// pgExerciseRepository implements repository.ExerciseRepository.
type pgExerciseRepository struct {
	db *pgxpool.Pool
}

// NewExerciseRepository creates a new Postgres-backed exercise catalog repository.
func NewExerciseRepository(db *pgxpool.Pool) repository.ExerciseRepository {
	return &pgExerciseRepository{db: db}
}

func (r *pgExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (uuid.UUID, error) {
	if exercise.OwnerID == uuid.Nil || exercise.Name == "" {
		return uuid.Nil, errors.New("exercise requires ownerId and name")
	}
	exercise.ID = uuid.New()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO exercises (id, owner_id, name, muscle_group, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		exercise.ID, exercise.OwnerID, exercise.Name, exercise.MuscleGroup,
		exercise.Description, exercise.CreatedAt, exercise.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return exercise.ID, nil
}

func (r *pgExerciseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.db.QueryRow(ctx,
		`SELECT id, owner_id, name, muscle_group, description, created_at, updated_at
		 FROM exercises WHERE id = $1;`, id,
	).Scan(&exercise.ID, &exercise.OwnerID, &exercise.Name, &exercise.MuscleGroup,
		&exercise.Description, &exercise.CreatedAt, &exercise.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

func (r *pgExerciseRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]domain.Exercise, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, name, muscle_group, description, created_at, updated_at
		 FROM exercises WHERE owner_id = $1 ORDER BY name;`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := []domain.Exercise{}
	for rows.Next() {
		var exercise domain.Exercise
		if err := rows.Scan(&exercise.ID, &exercise.OwnerID, &exercise.Name, &exercise.MuscleGroup,
			&exercise.Description, &exercise.CreatedAt, &exercise.UpdatedAt); err != nil {
			return nil, err
		}
		exercises = append(exercises, exercise)
	}
	return exercises, rows.Err()
}
