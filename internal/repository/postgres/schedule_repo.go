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

// pgScheduleRepository implements repository.ScheduleRepository.
type pgScheduleRepository struct {
	db *pgxpool.Pool
}

// NewScheduleRepository creates a new Postgres-backed schedule repository.
func NewScheduleRepository(db *pgxpool.Pool) repository.ScheduleRepository {
	return &pgScheduleRepository{db: db}
}

func (r *pgScheduleRepository) CreateScheduledExercise(ctx context.Context, ex *domain.ScheduledExercise) (uuid.UUID, error) {
	if ex.DayID == uuid.Nil || ex.ExerciseID == uuid.Nil {
		return uuid.Nil, errors.New("scheduled exercise requires dayId and exerciseId")
	}
	ex.ID = uuid.New()
	ex.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx,
		`INSERT INTO scheduled_exercises (id, day_id, exercise_id, order_index, note, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6);`,
		ex.ID, ex.DayID, ex.ExerciseID, ex.OrderIndex, ex.Note, ex.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return ex.ID, nil
}

func (r *pgScheduleRepository) GetScheduledExerciseByID(ctx context.Context, id uuid.UUID) (*domain.ScheduledExercise, error) {
	var ex domain.ScheduledExercise
	err := r.db.QueryRow(ctx,
		`SELECT id, day_id, exercise_id, order_index, note, created_at
		 FROM scheduled_exercises WHERE id = $1;`, id,
	).Scan(&ex.ID, &ex.DayID, &ex.ExerciseID, &ex.OrderIndex, &ex.Note, &ex.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &ex, nil
}

func (r *pgScheduleRepository) GetScheduledExercisesByDayID(ctx context.Context, dayID uuid.UUID) ([]domain.ScheduledExercise, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, day_id, exercise_id, order_index, note, created_at
		 FROM scheduled_exercises WHERE day_id = $1 ORDER BY order_index;`, dayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := []domain.ScheduledExercise{}
	for rows.Next() {
		var ex domain.ScheduledExercise
		if err := rows.Scan(&ex.ID, &ex.DayID, &ex.ExerciseID, &ex.OrderIndex, &ex.Note, &ex.CreatedAt); err != nil {
			return nil, err
		}
		exercises = append(exercises, ex)
	}
	return exercises, rows.Err()
}

func (r *pgScheduleRepository) DeleteScheduledExercise(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM scheduled_exercises WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *pgScheduleRepository) CreateSet(ctx context.Context, set *domain.Set) (uuid.UUID, error) {
	if set.ScheduledExerciseID == uuid.Nil || set.SetNumber < 1 {
		return uuid.Nil, errors.New("set requires scheduledExerciseId and a 1-based setNumber")
	}
	set.ID = uuid.New()
	set.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx,
		`INSERT INTO sets (id, scheduled_exercise_id, set_number, reps, weight, rpe, rest_seconds, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		set.ID, set.ScheduledExerciseID, set.SetNumber, set.Reps, set.Weight,
		set.RPE, set.RestSeconds, set.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return set.ID, nil
}

func (r *pgScheduleRepository) GetSetByID(ctx context.Context, id uuid.UUID) (*domain.Set, error) {
	var set domain.Set
	err := r.db.QueryRow(ctx,
		`SELECT id, scheduled_exercise_id, set_number, reps, weight, rpe, rest_seconds, created_at
		 FROM sets WHERE id = $1;`, id,
	).Scan(&set.ID, &set.ScheduledExerciseID, &set.SetNumber, &set.Reps, &set.Weight,
		&set.RPE, &set.RestSeconds, &set.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &set, nil
}

func (r *pgScheduleRepository) GetSetsByScheduledExerciseID(ctx context.Context, scheduledExerciseID uuid.UUID) ([]domain.Set, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, scheduled_exercise_id, set_number, reps, weight, rpe, rest_seconds, created_at
		 FROM sets WHERE scheduled_exercise_id = $1 ORDER BY set_number;`, scheduledExerciseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sets := []domain.Set{}
	for rows.Next() {
		var set domain.Set
		if err := rows.Scan(&set.ID, &set.ScheduledExerciseID, &set.SetNumber, &set.Reps,
			&set.Weight, &set.RPE, &set.RestSeconds, &set.CreatedAt); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

func (r *pgScheduleRepository) UpdateSet(ctx context.Context, set *domain.Set) error {
	if set.ID == uuid.Nil {
		return errors.New("set ID is required for update")
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE sets SET reps = $1, weight = $2, rpe = $3, rest_seconds = $4 WHERE id = $5;`,
		set.Reps, set.Weight, set.RPE, set.RestSeconds, set.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *pgScheduleRepository) DeleteSet(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sets WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
