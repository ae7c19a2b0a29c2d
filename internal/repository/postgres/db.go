package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// schema is applied at startup. Ownership is enforced here: deleting a
// routine cascades through days and scheduled exercises down to sets, so the
// application code never cascades manually.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS exercises (
	id           UUID PRIMARY KEY,
	owner_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name         TEXT NOT NULL,
	muscle_group TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS weekly_routines (
	id              UUID PRIMARY KEY,
	owner_id        UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name            TEXT NOT NULL,
	is_template     BOOLEAN NOT NULL DEFAULT TRUE,
	is_active       BOOLEAN NOT NULL DEFAULT FALSE,
	objective       TEXT NOT NULL DEFAULT '',
	copied_from_id  UUID REFERENCES weekly_routines(id) ON DELETE SET NULL,
	week_start_date DATE,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS days (
	id           UUID PRIMARY KEY,
	routine_id   UUID NOT NULL REFERENCES weekly_routines(id) ON DELETE CASCADE,
	day_name     TEXT NOT NULL,
	date         DATE,
	start_time   TIMESTAMPTZ,
	end_time     TIMESTAMPTZ,
	is_completed BOOLEAN NOT NULL DEFAULT FALSE,
	note         TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS scheduled_exercises (
	id          UUID PRIMARY KEY,
	day_id      UUID NOT NULL REFERENCES days(id) ON DELETE CASCADE,
	exercise_id UUID NOT NULL REFERENCES exercises(id) ON DELETE CASCADE,
	order_index INT NOT NULL,
	note        TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS sets (
	id                    UUID PRIMARY KEY,
	scheduled_exercise_id UUID NOT NULL REFERENCES scheduled_exercises(id) ON DELETE CASCADE,
	set_number            INT NOT NULL,
	reps                  INT,
	weight                DOUBLE PRECISION,
	rpe                   DOUBLE PRECISION,
	rest_seconds          INT,
	created_at            TIMESTAMPTZ NOT NULL,
	UNIQUE (scheduled_exercise_id, set_number)
);

CREATE TABLE IF NOT EXISTS progress_photos (
	id           UUID PRIMARY KEY,
	owner_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	object_key   TEXT NOT NULL,
	file_name    TEXT NOT NULL,
	content_type TEXT NOT NULL,
	taken_at     DATE,
	uploaded_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_weekly_routines_owner ON weekly_routines(owner_id);
CREATE INDEX IF NOT EXISTS idx_weekly_routines_owner_active ON weekly_routines(owner_id, is_active);
CREATE INDEX IF NOT EXISTS idx_days_routine ON days(routine_id);
CREATE INDEX IF NOT EXISTS idx_days_routine_date ON days(routine_id, date);
CREATE INDEX IF NOT EXISTS idx_scheduled_exercises_day ON scheduled_exercises(day_id);
CREATE INDEX IF NOT EXISTS idx_sets_scheduled_exercise ON sets(scheduled_exercise_id);
CREATE INDEX IF NOT EXISTS idx_progress_photos_owner ON progress_photos(owner_id);
`

// Connect establishes a pgx connection pool and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	connectCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pool, err := pgxpool.New(connectCtx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}

	return pool, nil
}

// Migrate ensures all tables and indexes exist. Call once at startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
