package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"troopsite/internal/models"
)

type UploadRepositoryImpl struct {
	db *sqlx.DB
}

func NewUploadRepository(db *sqlx.DB) *UploadRepositoryImpl {
	return &UploadRepositoryImpl{db: db}
}

func (r *UploadRepositoryImpl) Create(ctx context.Context, upload *models.Upload) error {
	query := `INSERT INTO uploads (image_path, caption, created_at) VALUES ($1, $2, $3) RETURNING id`

	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRowxContext(ctx, query, upload.ImagePath, upload.Caption, upload.CreatedAt).Scan(&upload.ID)
	if err != nil {
		return fmt.Errorf("failed to create upload: %w", err)
	}

	return nil
}

// List returns every upload, newest first.
func (r *UploadRepositoryImpl) List(ctx context.Context) ([]models.Upload, error) {
	query := `SELECT id, image_path, caption, created_at FROM uploads ORDER BY created_at DESC, id DESC`

	uploads := []models.Upload{}
	err := r.db.SelectContext(ctx, &uploads, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}

	return uploads, nil
}
