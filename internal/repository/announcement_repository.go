package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"troopsite/internal/models"
)

type AnnouncementRepositoryImpl struct {
	db *sqlx.DB
}

func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepositoryImpl {
	return &AnnouncementRepositoryImpl{db: db}
}

// Upsert replaces the single announcement row in one statement.
func (r *AnnouncementRepositoryImpl) Upsert(ctx context.Context, announcement *models.Announcement) error {
	query := `
		INSERT INTO announcements (id, content, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET content = excluded.content, created_at = excluded.created_at
	`

	announcement.ID = models.AnnouncementID
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query, announcement.ID, announcement.Content, announcement.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save announcement: %w", err)
	}

	return nil
}

func (r *AnnouncementRepositoryImpl) GetLatest(ctx context.Context) (*models.Announcement, error) {
	query := `SELECT id, content, created_at FROM announcements ORDER BY created_at DESC LIMIT 1`

	var announcement models.Announcement
	err := r.db.GetContext(ctx, &announcement, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}

	return &announcement, nil
}
