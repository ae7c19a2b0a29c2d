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

// pgProgressPhotoRepository implements repository.ProgressPhotoRepository.
type pgProgressPhotoRepository struct {
	db *pgxpool.Pool
}

// NewProgressPhotoRepository creates a new Postgres-backed photo metadata repository.
func NewProgressPhotoRepository(db *pgxpool.Pool) repository.ProgressPhotoRepository {
	return &pgProgressPhotoRepository{db: db}
}

func (r *pgProgressPhotoRepository) Create(ctx context.Context, photo *domain.ProgressPhoto) (uuid.UUID, error) {
	if photo.OwnerID == uuid.Nil || photo.ObjectKey == "" {
		return uuid.Nil, errors.New("photo requires ownerId and objectKey")
	}
	photo.ID = uuid.New()
	photo.UploadedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx,
		`INSERT INTO progress_photos (id, owner_id, object_key, file_name, content_type, taken_at, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		photo.ID, photo.OwnerID, photo.ObjectKey, photo.FileName, photo.ContentType,
		photo.TakenAt, photo.UploadedAt,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return photo.ID, nil
}

func (r *pgProgressPhotoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressPhoto, error) {
	var photo domain.ProgressPhoto
	err := r.db.QueryRow(ctx,
		`SELECT id, owner_id, object_key, file_name, content_type, taken_at, uploaded_at
		 FROM progress_photos WHERE id = $1;`, id,
	).Scan(&photo.ID, &photo.OwnerID, &photo.ObjectKey, &photo.FileName,
		&photo.ContentType, &photo.TakenAt, &photo.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &photo, nil
}

func (r *pgProgressPhotoRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]domain.ProgressPhoto, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, object_key, file_name, content_type, taken_at, uploaded_at
		 FROM progress_photos WHERE owner_id = $1 ORDER BY uploaded_at DESC;`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := []domain.ProgressPhoto{}
	for rows.Next() {
		var photo domain.ProgressPhoto
		if err := rows.Scan(&photo.ID, &photo.OwnerID, &photo.ObjectKey, &photo.FileName,
			&photo.ContentType, &photo.TakenAt, &photo.UploadedAt); err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, rows.Err()
}

func (r *pgProgressPhotoRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM progress_photos WHERE id = $1 AND owner_id = $2;`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
