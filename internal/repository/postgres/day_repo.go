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

const dayColumns = `id, routine_id, day_name, date, start_time, end_time,
	is_completed, note, created_at, updated_at`

// pgDayRepository implements repository.DayRepository.
type pgDayRepository struct {
	db *pgxpool.Pool
}

// NewDayRepository creates a new Postgres-backed day repository.
func NewDayRepository(db *pgxpool.Pool) repository.DayRepository {
	return &pgDayRepository{db: db}
}

func (r *pgDayRepository) Create(ctx context.Context, day *domain.Day) (uuid.UUID, error) {
	if day.RoutineID == uuid.Nil || day.DayName == "" {
		return uuid.Nil, errors.New("day requires routineId and dayName")
	}
	day.ID = uuid.New()
	now := time.Now().UTC()
	day.CreatedAt = now
	day.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO days (`+dayColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		day.ID, day.RoutineID, day.DayName, day.Date, day.StartTime, day.EndTime,
		day.IsCompleted, day.Note, day.CreatedAt, day.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return day.ID, nil
}

func (r *pgDayRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Day, error) {
	var day domain.Day
	err := r.db.QueryRow(ctx,
		`SELECT `+dayColumns+` FROM days WHERE id = $1;`, id,
	).Scan(
		&day.ID, &day.RoutineID, &day.DayName, &day.Date, &day.StartTime, &day.EndTime,
		&day.IsCompleted, &day.Note, &day.CreatedAt, &day.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &day, nil
}

func (r *pgDayRepository) GetTemplateDays(ctx context.Context, routineID uuid.UUID) ([]domain.Day, error) {
	return r.list(ctx,
		`SELECT `+dayColumns+` FROM days
		 WHERE routine_id = $1 AND date IS NULL ORDER BY created_at;`, routineID)
}

func (r *pgDayRepository) GetDatedInstances(ctx context.Context, routineID uuid.UUID, from, to time.Time) ([]domain.Day, error) {
	return r.list(ctx,
		`SELECT `+dayColumns+` FROM days
		 WHERE routine_id = $1 AND date IS NOT NULL AND date >= $2 AND date <= $3
		 ORDER BY date DESC;`, routineID, from, to)
}

func (r *pgDayRepository) list(ctx context.Context, query string, args ...any) ([]domain.Day, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := []domain.Day{}
	for rows.Next() {
		var day domain.Day
		if err := rows.Scan(
			&day.ID, &day.RoutineID, &day.DayName, &day.Date, &day.StartTime, &day.EndTime,
			&day.IsCompleted, &day.Note, &day.CreatedAt, &day.UpdatedAt,
		); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func (r *pgDayRepository) Update(ctx context.Context, day *domain.Day) error {
	if day.ID == uuid.Nil {
		return errors.New("day ID is required for update")
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE days
		 SET date = $1, start_time = $2, end_time = $3, is_completed = $4, note = $5, updated_at = $6
		 WHERE id = $7;`,
		day.Date, day.StartTime, day.EndTime, day.IsCompleted, day.Note,
		time.Now().UTC(), day.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *pgDayRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM days WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
