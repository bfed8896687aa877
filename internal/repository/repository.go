package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"troopsite/internal/models"
)

type UploadRepository interface {
	Create(ctx context.Context, upload *models.Upload) error
	List(ctx context.Context) ([]models.Upload, error)
}

type AnnouncementRepository interface {
	Upsert(ctx context.Context, announcement *models.Announcement) error
	// GetLatest returns nil without an error when no announcement exists.
	GetLatest(ctx context.Context) (*models.Announcement, error)
}

type SessionRepository interface {
	// Get returns nil without an error for unknown or expired sessions.
	Get(ctx context.Context, id string) (*models.SessionRecord, error)
	Save(ctx context.Context, record *models.SessionRecord) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type TablesRepository interface {
	CountTablesDB() (int, error)
}

type Repository struct {
	Upload       UploadRepository
	Announcement AnnouncementRepository
	Session      SessionRepository
	Tables       TablesRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Upload:       NewUploadRepository(db),
		Announcement: NewAnnouncementRepository(db),
		Session:      NewSessionRepository(db),
		Tables:       NewTablesRepository(db),
	}
}
