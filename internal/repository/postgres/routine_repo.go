package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitlog/routine-server/internal/domain"
	"fitlog/routine-server/internal/repository"
)

const routineColumns = `id, owner_id, name, is_template, is_active, objective,
	copied_from_id, week_start_date, created_at, updated_at`

// pgRoutineRepository implements repository.RoutineRepository.
type pgRoutineRepository struct {
	db *pgxpool.Pool
}

// NewRoutineRepository creates a new Postgres-backed routine repository.
func NewRoutineRepository(db *pgxpool.Pool) repository.RoutineRepository {
	return &pgRoutineRepository{db: db}
}

func (r *pgRoutineRepository) Create(ctx context.Context, routine *domain.WeeklyRoutine) (uuid.UUID, error) {
	if routine.OwnerID == uuid.Nil || routine.Name == "" {
		return uuid.Nil, errors.New("routine requires ownerId and name")
	}
	routine.ID = uuid.New()
	now := time.Now().UTC()
	routine.CreatedAt = now
	routine.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO weekly_routines (`+routineColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		routine.ID, routine.OwnerID, routine.Name, routine.IsTemplate, routine.IsActive,
		routine.Objective, routine.CopiedFromID, routine.WeekStartDate,
		routine.CreatedAt, routine.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return routine.ID, nil
}

func (r *pgRoutineRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WeeklyRoutine, error) {
	var routine domain.WeeklyRoutine
	err := r.db.QueryRow(ctx,
		`SELECT `+routineColumns+` FROM weekly_routines WHERE id = $1;`, id,
	).Scan(
		&routine.ID, &routine.OwnerID, &routine.Name, &routine.IsTemplate, &routine.IsActive,
		&routine.Objective, &routine.CopiedFromID, &routine.WeekStartDate,
		&routine.CreatedAt, &routine.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &routine, nil
}

func (r *pgRoutineRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]domain.WeeklyRoutine, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+routineColumns+` FROM weekly_routines
		 WHERE owner_id = $1 ORDER BY created_at DESC;`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routines := []domain.WeeklyRoutine{}
	for rows.Next() {
		var routine domain.WeeklyRoutine
		if err := rows.Scan(
			&routine.ID, &routine.OwnerID, &routine.Name, &routine.IsTemplate, &routine.IsActive,
			&routine.Objective, &routine.CopiedFromID, &routine.WeekStartDate,
			&routine.CreatedAt, &routine.UpdatedAt,
		); err != nil {
			return nil, err
		}
		routines = append(routines, routine)
	}
	return routines, rows.Err()
}

func (r *pgRoutineRepository) Update(ctx context.Context, routine *domain.WeeklyRoutine) error {
	if routine.ID == uuid.Nil {
		return errors.New("routine ID is required for update")
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE weekly_routines
		 SET name = $1, objective = $2, is_active = $3, week_start_date = $4, updated_at = $5
		 WHERE id = $6;`,
		routine.Name, routine.Objective, routine.IsActive, routine.WeekStartDate,
		time.Now().UTC(), routine.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *pgRoutineRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	// The owner filter doubles as the authorization check; descendants go
	// with the routine via ON DELETE CASCADE.
	tag, err := r.db.Exec(ctx,
		`DELETE FROM weekly_routines WHERE id = $1 AND owner_id = $2;`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetActive flips every routine of the owner to inactive and the target to
// active inside one transaction, so no reader observes two active routines.
func (r *pgRoutineRepository) SetActive(ctx context.Context, ownerID, routineID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin set-active transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx,
		`UPDATE weekly_routines SET is_active = FALSE, updated_at = $1
		 WHERE owner_id = $2 AND is_active = TRUE;`, now, ownerID,
	); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE weekly_routines SET is_active = TRUE, updated_at = $1
		 WHERE id = $2 AND owner_id = $3;`, now, routineID, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return tx.Commit(ctx)
}
